package task

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type TaskTestSuite struct {
	suite.Suite
}

func TestTaskTestSuite(t *testing.T) {
	suite.Run(t, new(TaskTestSuite))
}

func (ts *TaskTestSuite) TestNewPanicsOnNonPositiveWCET() {
	ts.Panics(func() { New(0, 10, NewFixed(10), NewFixedCost(0)) })
	ts.Panics(func() { New(-1, 10, NewFixed(10), NewFixedCost(0)) })
}

func (ts *TaskTestSuite) TestMinimalInterArrival() {
	tk := New(3, 10, NewFixed(10), NewFixedCost(0))
	ts.Equal(10, tk.MinimalInterArrival())
}

func (ts *TaskTestSuite) TestArrivalTimeFixedPeriod() {
	tk := New(3, 10, NewFixed(10), NewFixedCost(0))
	ts.Equal(0, tk.ArrivalTime(0))
	ts.Equal(10, tk.ArrivalTime(1))
	ts.Equal(30, tk.ArrivalTime(3))
}

func (ts *TaskTestSuite) TestArrivalTimePoissonDeterministic() {
	tk := New(3, 10, NewPoisson(8, 1.5, 42), NewFixedCost(0))
	first := tk.ArrivalTime(5)
	second := tk.ArrivalTime(5)
	ts.Equal(first, second, "arrivalTime must be a pure function of (minimal, lambda, seed, k)")
}

func (ts *TaskTestSuite) TestArrivalTimeIndependentOfCopyOrder() {
	tk := New(3, 10, NewPoisson(8, 2.0, 7), NewFixedCost(0))
	copyA := tk
	copyB := tk
	// Querying a later index on one copy first must not perturb the other
	// copy's result for an earlier index: no shared mutable rng state.
	_ = copyA.ArrivalTime(9)
	ts.Equal(tk.ArrivalTime(4), copyB.ArrivalTime(4))
}

func (ts *TaskTestSuite) TestEqualHoldsForSameFieldsAndSameUniqueID() {
	a := New(3, 10, NewFixed(10), NewFixedCost(0))
	b := NewWithID(3, 10, NewFixed(10), NewFixedCost(0), a.UniqueID)
	ts.True(a.Equal(b))
}

func (ts *TaskTestSuite) TestSetHyperperiodAndUtilization() {
	a := New(1, 4, NewFixed(4), NewFixedCost(0))
	b := New(1, 6, NewFixed(6), NewFixedCost(0))
	set := NewSet(a, b)
	ts.Equal(12, set.Hyperperiod())
	ts.InDelta(1.0/4.0+1.0/6.0, set.Utilization(), 1e-9)
}

func (ts *TaskTestSuite) TestRMOrdered() {
	a := New(1, 20, NewFixed(20), NewFixedCost(0))
	b := New(1, 10, NewFixed(10), NewFixedCost(0))
	set := NewSet(a, b)
	ordered := set.RMOrdered()
	ts.Equal(b.UniqueID, ordered[0].UniqueID)
	ts.Equal(a.UniqueID, ordered[1].UniqueID)
}

func (ts *TaskTestSuite) TestPreemptionCostFixed() {
	cost := NewFixedCost(5)
	ts.Equal(5, cost.Cost(20, 7))
}

func (ts *TaskTestSuite) TestPreemptionCostLogAreaZeroProgress() {
	cost := NewLogAreaCost(1.0, 2)
	ts.Equal(2, cost.Cost(10, 0))
}
