package history

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/go-foundations/dpsim/schedule"
	"github.com/go-foundations/dpsim/task"
)

type HistoryTestSuite struct {
	suite.Suite
}

func TestHistoryTestSuite(t *testing.T) {
	suite.Run(t, new(HistoryTestSuite))
}

func (ts *HistoryTestSuite) TestAddStateKeepsTimeOrderRegardlessOfInsertOrder() {
	h := New()
	h.AddState(State{Time: 20, Scheduler: schedule.State{Kind: schedule.EDF}})
	h.AddState(State{Time: 10, Scheduler: schedule.State{Kind: schedule.EDF}})
	h.AddState(State{Time: 15, Scheduler: schedule.State{Kind: schedule.EDF}})

	states := h.States()
	ts.Equal([]int{10, 15, 20}, []int{states[0].Time, states[1].Time, states[2].Time})
}

func (ts *HistoryTestSuite) TestGetLastStateFindsGreatestTimeAtOrBefore() {
	h := New()
	h.AddState(State{Time: 0, Scheduler: schedule.State{Kind: schedule.EDF}})
	h.AddState(State{Time: 10, Scheduler: schedule.State{Kind: schedule.EDF}})

	st, ok := h.GetLastState(7)
	ts.True(ok)
	ts.Equal(0, st.Time)

	_, ok = h.GetLastState(-1)
	ts.False(ok)
}

func (ts *HistoryTestSuite) TestFirstDeadlineMissRespectsFilter() {
	h := New()
	var a, b task.UniqueID = 1, 2
	h.AddState(State{Time: 10, Scheduler: schedule.State{Kind: schedule.EDF},
		DeadlineMisses: []DeadlineMiss{{TaskID: a, Time: 10}}})
	h.AddState(State{Time: 5, Scheduler: schedule.State{Kind: schedule.EDF},
		DeadlineMisses: []DeadlineMiss{{TaskID: b, Time: 5}}})

	miss, ok := h.FirstDeadlineMiss(AllMisses())
	ts.True(ok)
	ts.Equal(5, miss.Time)

	miss, ok = h.FirstDeadlineMiss(OnlyTasks(a))
	ts.True(ok)
	ts.Equal(a, miss.TaskID)

	_, ok = h.FirstDeadlineMiss(NoMisses())
	ts.False(ok)
}

func (ts *HistoryTestSuite) TestDeadlineMissFilterExceptTasks() {
	var a, b task.UniqueID = 1, 2
	f := ExceptTasks(a)
	ts.False(f.Matches(a))
	ts.True(f.Matches(b))
}

func (ts *HistoryTestSuite) TestFreezeThawRoundTrip() {
	h := New()
	h.AddState(State{Time: 3, Scheduler: schedule.State{Kind: schedule.EDF}})
	frozen := h.Freeze()
	thawed := frozen.Thaw()
	ts.Equal(h.States(), thawed.States())
}
