// Package task holds the immutable task model: task descriptors, arrival
// distributions, and preemption-cost models.
package task

import (
	"sync/atomic"
)

// UniqueID stably identifies a task across its lifetime; schedulers must
// compare tasks by UniqueID, never by structural equality.
type UniqueID int64

var idCounter int64

// NextUniqueID returns a fresh, monotonically increasing id. It is the only
// legitimate process-global mutable state in this module.
func NextUniqueID() UniqueID {
	return UniqueID(atomic.AddInt64(&idCounter, 1))
}

// ResetUniqueIDCounter resets the counter to start. Deterministic synthesis
// callers must call this before a reproducible run; production code that
// does not need reproducibility may leave the counter running.
func ResetUniqueIDCounter(start int64) {
	atomic.StoreInt64(&idCounter, start)
}

// Task is an immutable task descriptor.
type Task struct {
	WCET           int
	Deadline       int
	Arrival        ArrivalDistribution
	PreemptionCost PreemptionCostModel
	UniqueID       UniqueID
}

// New constructs a Task with a fresh UniqueID. wcet must be positive.
func New(wcet, deadline int, arrival ArrivalDistribution, cost PreemptionCostModel) Task {
	if wcet <= 0 {
		panic("task: wcet must be positive")
	}
	return Task{
		WCET:           wcet,
		Deadline:       deadline,
		Arrival:        arrival,
		PreemptionCost: cost,
		UniqueID:       NextUniqueID(),
	}
}

// NewWithID constructs a Task with an explicit id, for deterministic
// reconstruction from a serialized task set.
func NewWithID(wcet, deadline int, arrival ArrivalDistribution, cost PreemptionCostModel, id UniqueID) Task {
	if wcet <= 0 {
		panic("task: wcet must be positive")
	}
	return Task{WCET: wcet, Deadline: deadline, Arrival: arrival, PreemptionCost: cost, UniqueID: id}
}

// MinimalInterArrival is the task's minimal inter-arrival time, used as its
// implicit period for RM ordering and hyperperiod computation.
func (t Task) MinimalInterArrival() int {
	return t.Arrival.Minimal()
}

// ArrivalTime returns the absolute time of the k-th release.
func (t Task) ArrivalTime(k int) int {
	return t.Arrival.ArrivalTime(k)
}

// Equal reports structural equality over every field, UniqueID included.
func (t Task) Equal(o Task) bool {
	return t.WCET == o.WCET &&
		t.Deadline == o.Deadline &&
		t.UniqueID == o.UniqueID &&
		t.Arrival.Equal(o.Arrival) &&
		t.PreemptionCost.Equal(o.PreemptionCost)
}
