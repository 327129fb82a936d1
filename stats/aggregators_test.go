package stats

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/go-foundations/dpsim/event"
	"github.com/go-foundations/dpsim/history"
	"github.com/go-foundations/dpsim/job"
	"github.com/go-foundations/dpsim/schedule"
	"github.com/go-foundations/dpsim/task"
)

type AggregatorsTestSuite struct {
	suite.Suite
}

func TestAggregatorsTestSuite(t *testing.T) {
	suite.Run(t, new(AggregatorsTestSuite))
}

func (ts *AggregatorsTestSuite) TestPreemptionCountSums() {
	a := &PreemptionCount{}
	a.Observe(0, nil, nil, schedule.State{}, nil, []history.Preemption{{}, {}})
	a.Observe(1, nil, nil, schedule.State{}, nil, []history.Preemption{{}})
	ts.Equal(3, a.Result())
}

func (ts *AggregatorsTestSuite) TestPreemptionCountPanicsAfterResult() {
	a := &PreemptionCount{}
	a.Observe(0, nil, nil, schedule.State{}, nil, nil)
	a.Result()
	ts.Panics(func() {
		a.Observe(1, nil, nil, schedule.State{}, nil, nil)
	})
}

func (ts *AggregatorsTestSuite) TestPreemptionTimeSumsAddedDebt() {
	a := &PreemptionTime{}
	a.Observe(0, nil, nil, schedule.State{}, nil, []history.Preemption{
		{AddedDebt: 3}, {AddedDebt: 2},
	})
	ts.Equal(5, a.Result())
}

func (ts *AggregatorsTestSuite) TestExecutionTimeTracksFinalObservedTotal() {
	tk := task.New(4, 10, task.NewFixed(10), task.NewFixedCost(0))
	a := &ExecutionTime{}
	a.Observe(0, []job.Job{{Task: tk, Progress: 1}}, nil, schedule.State{}, nil, nil)
	a.Observe(1, []job.Job{{Task: tk, Progress: 3}}, nil, schedule.State{}, nil, nil)
	ts.Equal(3, a.Result())
}

func (ts *AggregatorsTestSuite) TestLongestResponseTimeTracksMaxOverCompletions() {
	tk := task.New(4, 10, task.NewFixed(10), task.NewFixedCost(0))
	j := job.Job{Task: tk, ReleaseIndex: 0}

	a := &LongestResponseTime{}
	a.Observe(7, []job.Job{j}, []event.Event{{Kind: event.Completion, JobKey: j.Key()}},
		schedule.State{}, nil, nil)

	result := a.Result()
	ts.Equal(7-j.ReleaseTime(), result[tk.UniqueID])
}

func (ts *AggregatorsTestSuite) TestLongestResponseTimeIgnoresNonCompletionEvents() {
	tk := task.New(4, 10, task.NewFixed(10), task.NewFixedCost(0))
	j := job.Job{Task: tk, ReleaseIndex: 0}

	a := &LongestResponseTime{}
	a.Observe(7, []job.Job{j}, []event.Event{{Kind: event.Arrival, JobKey: j.Key()}},
		schedule.State{}, nil, nil)

	ts.Empty(a.Result())
}

func (ts *AggregatorsTestSuite) TestLongestResponseTimeKeepsMaximumAcrossObservations() {
	tk := task.New(4, 10, task.NewFixed(10), task.NewFixedCost(0))
	first := job.Job{Task: tk, ReleaseIndex: 0}
	second := job.Job{Task: tk, ReleaseIndex: 1}

	a := &LongestResponseTime{}
	a.Observe(5, []job.Job{first}, []event.Event{{Kind: event.Completion, JobKey: first.Key()}},
		schedule.State{}, nil, nil)
	a.Observe(30, []job.Job{second}, []event.Event{{Kind: event.Completion, JobKey: second.Key()}},
		schedule.State{}, nil, nil)

	result := a.Result()
	expected := 30 - second.ReleaseTime()
	if got := 5 - first.ReleaseTime(); got > expected {
		expected = got
	}
	ts.Equal(expected, result[tk.UniqueID])
}
