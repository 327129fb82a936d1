package dualpriority

import (
	"github.com/go-foundations/dpsim/schedule"
	"github.com/go-foundations/dpsim/task"
)

// RMLaxityPromotions peels LPV tasks (when lpvPrep) onto the highest integer
// priorities, then assigns every remaining task a dual band whose promotion
// is max(0, period - R(tau)); the last remaining task in RM order becomes
// the single boundary task at priority 1.
func RMLaxityPromotions(ts task.Set, lpvPrep bool) schedule.Policy {
	order := rmOrder(ts)
	var lpv []task.Task
	remaining := order
	if lpvPrep {
		lpv = peelLPVOrder(order)
		remaining = excludeTasks(order, lpv)
	}

	policy := schedule.NewPolicy()
	maxPrio := len(order)

	for i, t := range lpv {
		policy.Set(t, schedule.SingleBand(maxPrio-i))
	}

	if len(remaining) == 0 {
		return policy
	}

	boundaryIdx := len(remaining) - 1
	for i, t := range remaining {
		if i == boundaryIdx {
			policy.Set(t, schedule.SingleBand(1))
			continue
		}
		low := len(remaining) - i
		high := i - len(remaining)
		r, _ := rmResponseTime(ts, t)
		promotion := t.MinimalInterArrival() - r
		if promotion < 0 {
			promotion = 0
		}
		policy.Set(t, schedule.DualBand(low, promotion, high))
	}

	return policy
}

// DajamPromotions has the same priority-band structure as RMLaxityPromotions
// but sets promotion(tau_i) = min_{j<=i} (period(tau_j) - wcet(tau_j)) over
// the RM-ordered remaining tasks, with no LPV peeling.
func DajamPromotions(ts task.Set) schedule.Policy {
	order := rmOrder(ts)
	policy := schedule.NewPolicy()
	if len(order) == 0 {
		return policy
	}

	maxPrio := len(order)
	boundaryIdx := len(order) - 1
	minSoFar := order[0].MinimalInterArrival() - order[0].WCET

	for i, t := range order {
		laxity := t.MinimalInterArrival() - t.WCET
		if laxity < minSoFar {
			minSoFar = laxity
		}
		if i == boundaryIdx {
			policy.Set(t, schedule.SingleBand(1))
			continue
		}
		low := maxPrio - i
		high := i - maxPrio
		promotion := minSoFar
		if promotion < 0 {
			promotion = 0
		}
		policy.Set(t, schedule.DualBand(low, promotion, high))
	}

	return policy
}

// BurnsWellingsPolicy returns a policy equivalent to base RM (every task a
// single-band priority equal to its RM-order index, no promotions). The
// Burns-Wellings promotion-selection heuristic it's named for is otherwise
// unimplemented here; see the design notes for why.
func BurnsWellingsPolicy(ts task.Set) schedule.Policy {
	order := rmOrder(ts)
	policy := schedule.NewPolicy()
	for i, t := range order {
		policy.Set(t, schedule.SingleBand(i+1))
	}
	return policy
}
