// Package history records the simulator's state-by-state trace and
// maintains deadline-miss and preemption secondary indexes for filtered
// lookup.
package history

import (
	"github.com/go-foundations/dpsim/event"
	"github.com/go-foundations/dpsim/job"
	"github.com/go-foundations/dpsim/schedule"
	"github.com/go-foundations/dpsim/task"
)

// DeadlineMiss records a missed deadline observed during a step.
type DeadlineMiss struct {
	TaskID       task.UniqueID
	ReleaseIndex int
	Time         int
}

// Preemption records a preemption observed during a step.
type Preemption struct {
	Time             int
	PreemptedTaskID  task.UniqueID
	PreemptedRelease int
	PreemptingTaskID task.UniqueID
	PreemptingRelease int
	AddedDebt        int
	PreviousDebt     int
}

// State is an immutable snapshot of the simulator at time Time.
type State struct {
	Time           int
	Jobs           []job.Job
	Events         []event.Event
	Scheduler      schedule.State
	DeadlineMisses []DeadlineMiss // observed since the previous recorded state
	Preemptions    []Preemption   // observed since the previous recorded state
}

// Equal reports value equality of two states.
func (s State) Equal(o State) bool {
	if s.Time != o.Time {
		return false
	}
	if len(s.Jobs) != len(o.Jobs) || len(s.Events) != len(o.Events) ||
		len(s.DeadlineMisses) != len(o.DeadlineMisses) || len(s.Preemptions) != len(o.Preemptions) {
		return false
	}
	for i := range s.Jobs {
		if !s.Jobs[i].Equal(o.Jobs[i]) {
			return false
		}
	}
	for i := range s.Events {
		if s.Events[i] != o.Events[i] {
			return false
		}
	}
	for i := range s.DeadlineMisses {
		if s.DeadlineMisses[i] != o.DeadlineMisses[i] {
			return false
		}
	}
	for i := range s.Preemptions {
		if s.Preemptions[i] != o.Preemptions[i] {
			return false
		}
	}
	return s.Scheduler.Equal(o.Scheduler)
}
