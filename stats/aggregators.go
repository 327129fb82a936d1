// Package stats implements the streaming aggregators that observe every
// recorded simulation step and summarize preemption and response-time
// behavior.
package stats

import (
	"github.com/go-foundations/dpsim/event"
	"github.com/go-foundations/dpsim/history"
	"github.com/go-foundations/dpsim/job"
	"github.com/go-foundations/dpsim/schedule"
	"github.com/go-foundations/dpsim/task"
)

// Aggregator observes one recorded simulation step.
type Aggregator interface {
	Observe(time int, jobs []job.Job, events []event.Event, sched schedule.State,
		misses []history.DeadlineMiss, preemptions []history.Preemption)
}

// status tracks the Active -> Inactive transition shared by every
// aggregator: once a result is read, the aggregator may no longer observe.
type status struct {
	inactive bool
}

func (s *status) markRead() { s.inactive = true }

func (s *status) requireActive() {
	if s.inactive {
		panic("stats: aggregator observed after its result was read")
	}
}

// PreemptionCount sums the number of preemptions observed.
type PreemptionCount struct {
	status
	count int
}

func (a *PreemptionCount) Observe(time int, jobs []job.Job, events []event.Event, sched schedule.State,
	misses []history.DeadlineMiss, preemptions []history.Preemption) {
	a.requireActive()
	a.count += len(preemptions)
}

// Result returns the total preemption count and marks the aggregator inactive.
func (a *PreemptionCount) Result() int {
	a.markRead()
	return a.count
}

// PreemptionTime sums each preemption's added debt (debt - previousDebt).
type PreemptionTime struct {
	status
	total int
}

func (a *PreemptionTime) Observe(time int, jobs []job.Job, events []event.Event, sched schedule.State,
	misses []history.DeadlineMiss, preemptions []history.Preemption) {
	a.requireActive()
	for _, p := range preemptions {
		a.total += p.AddedDebt
	}
}

// Result returns the total added preemption debt and marks the aggregator inactive.
func (a *PreemptionTime) Result() int {
	a.markRead()
	return a.total
}

// ExecutionTime sums job.progress across live jobs at the final observed step.
type ExecutionTime struct {
	status
	lastTotal int
}

func (a *ExecutionTime) Observe(time int, jobs []job.Job, events []event.Event, sched schedule.State,
	misses []history.DeadlineMiss, preemptions []history.Preemption) {
	a.requireActive()
	total := 0
	for _, j := range jobs {
		total += j.Progress
	}
	a.lastTotal = total
}

// Result returns the execution time recorded at the final observed step and
// marks the aggregator inactive.
func (a *ExecutionTime) Result() int {
	a.markRead()
	return a.lastTotal
}

// LongestResponseTime tracks, per task, the maximum (completion time -
// release time) over non-ignored Completion events.
type LongestResponseTime struct {
	status
	longest map[task.UniqueID]int
}

func (a *LongestResponseTime) Observe(time int, jobs []job.Job, events []event.Event, sched schedule.State,
	misses []history.DeadlineMiss, preemptions []history.Preemption) {
	a.requireActive()
	if a.longest == nil {
		a.longest = make(map[task.UniqueID]int)
	}
	byKey := make(map[job.Key]job.Job, len(jobs))
	for _, j := range jobs {
		byKey[j.Key()] = j
	}
	for _, e := range events {
		if e.Kind != event.Completion {
			continue
		}
		j, ok := byKey[e.JobKey]
		if !ok {
			continue
		}
		response := time - j.ReleaseTime()
		if response > a.longest[j.Task.UniqueID] {
			a.longest[j.Task.UniqueID] = response
		}
	}
}

// Result returns the per-task longest response times and marks the
// aggregator inactive.
func (a *LongestResponseTime) Result() map[task.UniqueID]int {
	a.markRead()
	out := make(map[task.UniqueID]int, len(a.longest))
	for k, v := range a.longest {
		out[k] = v
	}
	return out
}
