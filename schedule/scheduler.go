// Package schedule implements the pluggable scheduling strategies (EDF, RM,
// Dual Priority) that decide, at each scheduling instant, which ready job
// should hold the processor.
package schedule

import (
	"github.com/go-foundations/dpsim/internal/dpsimerr"
	"github.com/go-foundations/dpsim/job"
	"github.com/go-foundations/dpsim/task"
)

// Kind is a closed sum over the three scheduler variants.
type Kind int

const (
	EDF Kind = iota
	RM
	DP
)

// Scheduler is the common contract every scheduling strategy implements:
// how to track ready jobs and pick which one holds the processor next.
type Scheduler interface {
	// AddReadyJob registers a job as ready to run (its Arrival has fired).
	AddReadyJob(j *job.Job)
	// Schedule evaluates the ready set at absolute time now and returns the
	// (old, new) running job keys. old == new (both possibly nil) means "no
	// change"; old != new (with old non-nil) is a preemption; old nil, new
	// non-nil is a dispatch into idle.
	Schedule(now int) (old, new *job.Key, err error)
	// RunningJob returns the key of the currently running job, if any.
	RunningJob() *job.Key
	// ExecutionCompleted notifies the scheduler that the running job
	// finished and should be dropped from the ready/running state.
	ExecutionCompleted()
	// NextScheduleTicks returns future times (all > now) at which
	// Schedule must be re-evaluated even absent any other event.
	NextScheduleTicks(now int) []int
	// InitializeSchedulerData performs one-off setup from the task set
	// (e.g. validating the DP policy and seeding its promotion heap).
	InitializeSchedulerData(ts task.Set) error
	// SchedulerState returns a value-equal snapshot of scheduler state.
	SchedulerState() State
	// Name identifies the scheduling strategy.
	Name() string
}

// NewScheduler constructs a Scheduler for the given kind. DP requires a
// policy; pass nil for EDF/RM.
func NewScheduler(kind Kind, policy *Policy) (Scheduler, error) {
	switch kind {
	case EDF:
		return NewEDFScheduler(), nil
	case RM:
		return NewRMScheduler(), nil
	case DP:
		if policy == nil {
			return nil, dpsimerr.NewNotImplemented("DP scheduler requires a policy")
		}
		return NewDPScheduler(*policy), nil
	default:
		return nil, dpsimerr.NewNotImplemented("unknown scheduler kind")
	}
}
