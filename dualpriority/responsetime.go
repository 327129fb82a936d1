// Package dualpriority implements the Dual-Priority policy-synthesis
// algorithms: they build candidate (lowPriority, promotion, highPriority)
// assignments and repeatedly invoke the simulator as a schedulability
// oracle.
package dualpriority

import (
	"github.com/go-foundations/dpsim/task"
)

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// responseTimeAgainst computes the worst-case fixed-point response time of
// tau under interference from the given interferer set (each interferer
// contributes wcet * ceil(R/period) per iteration), starting R^0 = wcet(tau)
// and stopping at a fixed point or once R exceeds 2*deadline(tau) (an
// unschedulable cap).
func responseTimeAgainst(tau task.Task, interferers []task.Task) (int, bool) {
	r := tau.WCET
	cap := 2 * tau.Deadline
	for {
		next := tau.WCET
		for _, it := range interferers {
			next += it.WCET * ceilDiv(r, it.MinimalInterArrival())
		}
		if next == r {
			return r, true
		}
		if next > cap {
			return next, false
		}
		r = next
	}
}

// rmOrder returns a fresh copy of ts sorted by (minimalInterArrivalTime, uniqueId).
func rmOrder(ts task.Set) []task.Task {
	return ts.RMOrdered()
}

func indexOfTask(tasks []task.Task, t task.Task) int {
	for i, c := range tasks {
		if c.UniqueID == t.UniqueID {
			return i
		}
	}
	return -1
}

// rmResponseTime is R(tau): the FP-RM worst-case response time against every
// task strictly earlier than tau in the full RM order of ts.
func rmResponseTime(ts task.Set, tau task.Task) (int, bool) {
	order := rmOrder(ts)
	idx := indexOfTask(order, tau)
	if idx < 0 {
		return tau.WCET, true
	}
	return responseTimeAgainst(tau, order[:idx])
}

// excludeTasks returns the tasks in all not present (by UniqueID) in except.
func excludeTasks(all, except []task.Task) []task.Task {
	excluded := make(map[task.UniqueID]bool, len(except))
	for _, t := range except {
		excluded[t.UniqueID] = true
	}
	var out []task.Task
	for _, t := range all {
		if !excluded[t.UniqueID] {
			out = append(out, t)
		}
	}
	return out
}
