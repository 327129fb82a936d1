// Package job implements execution-instance bookkeeping: jobs are keyed by
// (task, releaseIndex), materialized lazily, and track progress and
// preemption debt as the simulator advances time.
package job

import "github.com/go-foundations/dpsim/task"

// Key identifies a job instance.
type Key struct {
	TaskID       task.UniqueID
	ReleaseIndex int
}

// Job is a mutable execution instance.
type Job struct {
	Task           task.Task
	ReleaseIndex   int
	Progress       int
	PreemptionDebt int
	// LastStart is the absolute time the job was last dispatched to run; nil
	// when the job is not currently running.
	LastStart *int
}

// Key returns the job's (task, releaseIndex) identity.
func (j *Job) Key() Key {
	return Key{TaskID: j.Task.UniqueID, ReleaseIndex: j.ReleaseIndex}
}

// ReleaseTime is the absolute time this job was released.
func (j *Job) ReleaseTime() int {
	return j.Task.ArrivalTime(j.ReleaseIndex)
}

// Deadline is the absolute time by which this job must complete.
func (j *Job) Deadline() int {
	return j.ReleaseTime() + j.Task.Deadline
}

// RemainingWCET is wcet - progress; always >= 0 for a valid job.
func (j *Job) RemainingWCET() int {
	return j.Task.WCET - j.Progress
}

// RemainingExecWithDebt is the remaining execution including any unpaid
// preemption debt; this is the span a Completion event is scheduled against.
func (j *Job) RemainingExecWithDebt() int {
	return j.RemainingWCET() + j.PreemptionDebt
}

// Completed reports whether the job has finished all its work and paid all
// its debt.
func (j *Job) Completed() bool {
	return j.RemainingWCET() == 0 && j.PreemptionDebt == 0
}

// Running reports whether the job currently holds the processor.
func (j *Job) Running() bool {
	return j.LastStart != nil
}

// ProgressTo advances the job to absolute time t: debt is paid first out of
// the elapsed span, then the remainder becomes progress.
func (j *Job) ProgressTo(t int) {
	if j.LastStart == nil {
		return
	}
	delta := t - *j.LastStart
	used := delta
	if j.PreemptionDebt < used {
		used = j.PreemptionDebt
	}
	j.PreemptionDebt -= used
	delta -= used
	j.Progress += delta
	start := t
	j.LastStart = &start
}

// Start marks the job as dispatched at absolute time t.
func (j *Job) Start(t int) {
	start := t
	j.LastStart = &start
}

// Stop clears LastStart, marking the job as not running.
func (j *Job) Stop() {
	j.LastStart = nil
}

// Clone returns a by-value copy suitable for a snapshot.
func (j *Job) Clone() Job {
	cp := *j
	if j.LastStart != nil {
		v := *j.LastStart
		cp.LastStart = &v
	}
	return cp
}

// Equal reports value equality between two jobs.
func (j Job) Equal(o Job) bool {
	if !j.Task.Equal(o.Task) || j.ReleaseIndex != o.ReleaseIndex ||
		j.Progress != o.Progress || j.PreemptionDebt != o.PreemptionDebt {
		return false
	}
	if (j.LastStart == nil) != (o.LastStart == nil) {
		return false
	}
	if j.LastStart != nil && *j.LastStart != *o.LastStart {
		return false
	}
	return true
}
