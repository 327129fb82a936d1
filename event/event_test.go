package event

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/go-foundations/dpsim/job"
	"github.com/go-foundations/dpsim/task"
)

type EventTestSuite struct {
	suite.Suite
}

func TestEventTestSuite(t *testing.T) {
	suite.Run(t, new(EventTestSuite))
}

func (ts *EventTestSuite) TestKindString() {
	ts.Equal("Completion", Completion.String())
	ts.Equal("Arrival", Arrival.String())
	ts.Equal("Deadline", Deadline.String())
	ts.Equal("ScheduleTick", ScheduleTick.String())
	ts.Equal("Unknown", Kind(99).String())
}

func (ts *EventTestSuite) TestQueueOrdersByTimeThenKindThenTaskID() {
	q := NewQueue()
	low := task.NewWithID(1, 5, task.NewFixed(5), task.NewFixedCost(0), 1)
	high := task.NewWithID(1, 5, task.NewFixed(5), task.NewFixedCost(0), 2)

	q.Push(Event{Time: 5, Kind: Arrival, JobKey: job.Key{TaskID: high.UniqueID}})
	q.Push(Event{Time: 5, Kind: Completion, JobKey: job.Key{TaskID: low.UniqueID}})
	q.Push(Event{Time: 3, Kind: Deadline, JobKey: job.Key{TaskID: high.UniqueID}})
	q.Push(Event{Time: 5, Kind: Arrival, JobKey: job.Key{TaskID: low.UniqueID}})

	e, ok := q.Pop()
	ts.True(ok)
	ts.Equal(3, e.Time)

	e, ok = q.Pop()
	ts.True(ok)
	ts.Equal(Completion, e.Kind)

	e, ok = q.Pop()
	ts.True(ok)
	ts.Equal(Arrival, e.Kind)
	ts.Equal(low.UniqueID, e.JobKey.TaskID)

	e, ok = q.Pop()
	ts.True(ok)
	ts.Equal(Arrival, e.Kind)
	ts.Equal(high.UniqueID, e.JobKey.TaskID)
}

func (ts *EventTestSuite) TestCheckIgnoresCompletionForMissingJob() {
	mgr := job.NewManager()
	e := Event{Time: 10, Kind: Completion, JobKey: job.Key{TaskID: 1}}
	ignore, err := e.Check(mgr)
	ts.NoError(err)
	ts.True(ignore)
}

func (ts *EventTestSuite) TestCheckAcceptsMatchingCompletion() {
	mgr := job.NewManager()
	tk := task.New(4, 10, task.NewFixed(10), task.NewFixedCost(0))
	j := mgr.GetOrCreate(tk, 0)
	j.Start(0)

	e := Event{Time: 4, Kind: Completion, JobKey: j.Key()}
	ignore, err := e.Check(mgr)
	ts.NoError(err)
	ts.False(ignore)
}

func (ts *EventTestSuite) TestCheckRejectsStaleCompletionInThePast() {
	mgr := job.NewManager()
	tk := task.New(4, 10, task.NewFixed(10), task.NewFixedCost(0))
	j := mgr.GetOrCreate(tk, 0)
	j.Start(0)

	e := Event{Time: 10, Kind: Completion, JobKey: j.Key()}
	_, err := e.Check(mgr)
	ts.Error(err)
}

func (ts *EventTestSuite) TestEffectiveTopSkipsIgnoredCompletions() {
	mgr := job.NewManager()
	q := NewQueue()
	q.Push(Event{Time: 1, Kind: Completion, JobKey: job.Key{TaskID: 999}})
	q.Push(Event{Time: 2, Kind: Arrival, JobKey: job.Key{TaskID: 1}})

	e, ok, err := q.EffectiveTop(mgr)
	ts.NoError(err)
	ts.True(ok)
	ts.Equal(Arrival, e.Kind)
}
