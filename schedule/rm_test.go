package schedule

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/go-foundations/dpsim/job"
	"github.com/go-foundations/dpsim/task"
)

type RMTestSuite struct {
	suite.Suite
}

func TestRMTestSuite(t *testing.T) {
	suite.Run(t, new(RMTestSuite))
}

func (ts *RMTestSuite) newJob(period int) *job.Job {
	tk := task.New(2, period, task.NewFixed(period), task.NewFixedCost(0))
	return &job.Job{Task: tk}
}

func (ts *RMTestSuite) TestShorterPeriodDispatchesFirst() {
	s := NewRMScheduler()
	slow := ts.newJob(100)
	fast := ts.newJob(10)
	s.AddReadyJob(slow)
	s.AddReadyJob(fast)

	old, newKey, err := s.Schedule(0)
	ts.NoError(err)
	ts.Nil(old)
	ts.Equal(fast.Key(), *newKey)
}

func (ts *RMTestSuite) TestShorterPeriodArrivalPreempts() {
	s := NewRMScheduler()
	slow := ts.newJob(100)
	s.AddReadyJob(slow)
	_, _, err := s.Schedule(0)
	ts.NoError(err)

	fast := ts.newJob(10)
	s.AddReadyJob(fast)
	old, newKey, err := s.Schedule(1)
	ts.NoError(err)
	ts.Equal(slow.Key(), *old)
	ts.Equal(fast.Key(), *newKey)
}

func (ts *RMTestSuite) TestPriorityIsFixedNoCollisionBookkeeping() {
	s := NewRMScheduler()
	a := ts.newJob(10)
	b := ts.newJob(10)
	s.AddReadyJob(a)
	s.AddReadyJob(b)

	_, newFirst, err := s.Schedule(0)
	ts.NoError(err)
	// Same period: tie-break is (uniqueID, releaseIndex), stable regardless
	// of insertion order, unlike EDF's per-deadline collision assignment.
	if a.Task.UniqueID < b.Task.UniqueID {
		ts.Equal(a.Key(), *newFirst)
	} else {
		ts.Equal(b.Key(), *newFirst)
	}
}
