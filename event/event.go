// Package event implements the simulator's time/priority-ordered event
// queue: a min-heap over (time, kind-rank, taskId) with an "ignore"
// predicate that lets stale Completion events sit in the queue rather than
// be searched for and removed on every preemption.
package event

import (
	"github.com/go-foundations/dpsim/internal/dpsimerr"
	"github.com/go-foundations/dpsim/job"
	"github.com/go-foundations/dpsim/task"
)

// Kind is the event-type enum. Its numeric value IS the tie-break rank for
// same-instant events: Completion fires first, then Arrival, then Deadline,
// then ScheduleTick.
type Kind int

const (
	Completion Kind = iota + 1
	Arrival
	Deadline
	ScheduleTick
)

func (k Kind) String() string {
	switch k {
	case Completion:
		return "Completion"
	case Arrival:
		return "Arrival"
	case Deadline:
		return "Deadline"
	case ScheduleTick:
		return "ScheduleTick"
	default:
		return "Unknown"
	}
}

// Event is one entry in the queue. JobKey is the zero value for
// ScheduleTick, which carries no job.
type Event struct {
	Time   int
	Kind   Kind
	JobKey job.Key
}

// Priority returns the (kind rank, taskId) tuple used to break same-instant
// ties.
func (e Event) Priority() (int, task.UniqueID) {
	return int(e.Kind), e.JobKey.TaskID
}

// Check evaluates the ignore predicate for a Completion event against the
// job manager's current state. Only Completion events are ever ignored. A
// hard invariant violation (the job's predicted completion time has already
// passed without this event having fired) is reported as an error rather
// than silently ignored.
func (e Event) Check(mgr *job.Manager) (ignore bool, err error) {
	if e.Kind != Completion {
		return false, nil
	}
	j, ok := mgr.Lookup(e.JobKey)
	if !ok {
		return true, nil
	}
	rem := j.RemainingWCET() + j.PreemptionDebt
	if rem == 0 {
		return false, nil
	}
	if j.LastStart == nil {
		return true, nil
	}
	predicted := *j.LastStart + rem
	if predicted < e.Time {
		return false, dpsimerr.NewInvariantViolation("completion event is stale in the past", e)
	}
	return predicted != e.Time, nil
}
