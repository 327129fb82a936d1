package schedule

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/go-foundations/dpsim/job"
	"github.com/go-foundations/dpsim/task"
)

type EDFTestSuite struct {
	suite.Suite
}

func TestEDFTestSuite(t *testing.T) {
	suite.Run(t, new(EDFTestSuite))
}

func (ts *EDFTestSuite) newJob(deadline int) *job.Job {
	tk := task.New(2, deadline, task.NewFixed(deadline), task.NewFixedCost(0))
	return &job.Job{Task: tk}
}

func (ts *EDFTestSuite) TestIdleDispatchesEarliestDeadline() {
	s := NewEDFScheduler()
	a := ts.newJob(20)
	b := ts.newJob(10)
	s.AddReadyJob(a)
	s.AddReadyJob(b)

	old, newKey, err := s.Schedule(0)
	ts.NoError(err)
	ts.Nil(old)
	ts.Equal(b.Key(), *newKey)
}

func (ts *EDFTestSuite) TestEarlierDeadlinePreemptsRunning() {
	s := NewEDFScheduler()
	a := ts.newJob(20)
	s.AddReadyJob(a)
	_, _, err := s.Schedule(0)
	ts.NoError(err)

	b := ts.newJob(5)
	s.AddReadyJob(b)
	old, newKey, err := s.Schedule(1)
	ts.NoError(err)
	ts.Equal(a.Key(), *old)
	ts.Equal(b.Key(), *newKey)
}

func (ts *EDFTestSuite) TestCollisionIndexFreedOnCompletion() {
	s := NewEDFScheduler()
	a := ts.newJob(10)
	b := ts.newJob(10)
	s.AddReadyJob(a)
	s.AddReadyJob(b)

	_, _, err := s.Schedule(0)
	ts.NoError(err)
	s.ExecutionCompleted()

	c := ts.newJob(10)
	s.AddReadyJob(c)
	// with a's collision index freed, a fresh job at the same deadline must
	// be able to reuse index 0 rather than growing monotonically.
	st := s.SchedulerState()
	found := false
	for _, r := range st.ReadyEDF {
		if r.Key == c.Key() && r.Collision == 0 {
			found = true
		}
	}
	ts.True(found)
}
