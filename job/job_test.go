package job

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/go-foundations/dpsim/task"
)

type JobTestSuite struct {
	suite.Suite
}

func TestJobTestSuite(t *testing.T) {
	suite.Run(t, new(JobTestSuite))
}

func (ts *JobTestSuite) newJob(wcet, deadline int) *Job {
	tk := task.New(wcet, deadline, task.NewFixed(deadline), task.NewFixedCost(0))
	return &Job{Task: tk, ReleaseIndex: 0}
}

func (ts *JobTestSuite) TestDeadlineAndReleaseTime() {
	j := ts.newJob(3, 10)
	ts.Equal(0, j.ReleaseTime())
	ts.Equal(10, j.Deadline())
}

func (ts *JobTestSuite) TestProgressToPaysDebtFirst() {
	j := ts.newJob(5, 10)
	j.PreemptionDebt = 2
	j.Start(0)
	j.ProgressTo(3)
	ts.Equal(0, j.PreemptionDebt)
	ts.Equal(1, j.Progress)
	j.ProgressTo(5)
	ts.Equal(0, j.PreemptionDebt)
	ts.Equal(3, j.Progress)
}

func (ts *JobTestSuite) TestCompletedRequiresZeroDebt() {
	j := ts.newJob(2, 10)
	j.Progress = 2
	j.PreemptionDebt = 1
	ts.False(j.Completed())
	j.PreemptionDebt = 0
	ts.True(j.Completed())
}

func (ts *JobTestSuite) TestRunningReflectsLastStart() {
	j := ts.newJob(2, 10)
	ts.False(j.Running())
	j.Start(4)
	ts.True(j.Running())
	j.Stop()
	ts.False(j.Running())
}

func (ts *JobTestSuite) TestCloneIsIndependent() {
	j := ts.newJob(2, 10)
	j.Start(1)
	cp := j.Clone()
	j.ProgressTo(2)
	ts.NotEqual(*j.LastStart, *cp.LastStart)
}

func (ts *JobTestSuite) TestManagerGetOrCreateIsLazy() {
	mgr := NewManager()
	tk := task.New(2, 10, task.NewFixed(10), task.NewFixedCost(0))
	a := mgr.GetOrCreate(tk, 0)
	b := mgr.GetOrCreate(tk, 0)
	ts.Same(a, b)
}

func (ts *JobTestSuite) TestManagerRemoveAndSnapshotRoundTrip() {
	mgr := NewManager()
	tk := task.New(2, 10, task.NewFixed(10), task.NewFixedCost(0))
	mgr.GetOrCreate(tk, 0)
	mgr.GetOrCreate(tk, 1)

	snap := mgr.Snapshot()
	ts.Len(snap, 2)

	fresh := NewManager()
	fresh.RestoreFrom(snap)
	_, ok := fresh.Lookup(Key{TaskID: tk.UniqueID, ReleaseIndex: 1})
	ts.True(ok)

	mgr.Remove(Key{TaskID: tk.UniqueID, ReleaseIndex: 0})
	_, ok = mgr.Lookup(Key{TaskID: tk.UniqueID, ReleaseIndex: 0})
	ts.False(ok)
}
