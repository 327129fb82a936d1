package dualpriority

import (
	"github.com/go-foundations/dpsim/internal/dpsimerr"
	"github.com/go-foundations/dpsim/schedule"
	"github.com/go-foundations/dpsim/task"
)

// interferenceInInterval counts the worst-case total length of an
// interferer's activations (offset o, period p, length l) that overlap the
// interval [a, b], including partial spillover at both ends.
func interferenceInInterval(o, p, l, a, b int) int {
	if p <= 0 {
		return 0
	}
	total := 0
	kLow := ceilDiv(a-l-o, p)
	for k := kLow; ; k++ {
		start := o + k*p
		if start > b {
			break
		}
		end := start + l
		s, e := start, end
		if s < a {
			s = a
		}
		if e > b {
			e = b
		}
		if e > s {
			total += e - s
		}
	}
	return total
}

// ThreeTaskFixedPoint computes the policy for a 3-task set tau1 < tau2 <
// tau3 in rmOrder: tau1 gets promotion = period1 - wcet1 at (lowPriority=3,
// highPriority=-3); tau3 is single-band priority 1; tau2's promotion is the
// fixed point of shrinking an initial trial by tau1's worst-case
// high-band interference across tau2's jobs in the hyperperiod.
func ThreeTaskFixedPoint(ts task.Set) (schedule.Policy, error) {
	order := rmOrder(ts)
	if len(order) != 3 {
		return schedule.Policy{}, dpsimerr.NewNotImplemented("three-task fixed-point optimiser requires exactly 3 tasks")
	}
	tau1, tau2, tau3 := order[0], order[1], order[2]

	policy := schedule.NewPolicy()
	policy.Set(tau1, schedule.DualBand(3, tau1.MinimalInterArrival()-tau1.WCET, -3))
	policy.Set(tau3, schedule.SingleBand(1))

	s := tau2.MinimalInterArrival()
	for {
		shortfall := 0
		hyper := ts.Hyperperiod()
		for k := 0; tau2.MinimalInterArrival()*k < hyper; k++ {
			release := tau2.MinimalInterArrival() * k
			shortfall += interferenceInInterval(0, tau1.MinimalInterArrival(), tau1.WCET, release, release+s)
		}
		next := s - shortfall
		if next == s {
			break
		}
		if next < 0 {
			return schedule.Policy{}, dpsimerr.NewOptimisationFailure(int64(tau2.UniqueID), "fixed point diverged below zero")
		}
		s = next
	}

	policy.Set(tau2, schedule.DualBand(2, s, -2))
	return policy, nil
}

// ThreeTaskWorstCaseLaxity is the same layout as ThreeTaskFixedPoint but
// sets tau2's promotion directly to period2 - R(tau2) rather than iterating
// a fixed point.
func ThreeTaskWorstCaseLaxity(ts task.Set) (schedule.Policy, error) {
	order := rmOrder(ts)
	if len(order) != 3 {
		return schedule.Policy{}, dpsimerr.NewNotImplemented("three-task worst-case-laxity optimiser requires exactly 3 tasks")
	}
	tau1, tau2, tau3 := order[0], order[1], order[2]

	policy := schedule.NewPolicy()
	policy.Set(tau1, schedule.DualBand(3, tau1.MinimalInterArrival()-tau1.WCET, -3))
	policy.Set(tau3, schedule.SingleBand(1))

	r, _ := rmResponseTime(ts, tau2)
	promotion := tau2.MinimalInterArrival() - r
	if promotion < 0 {
		promotion = 0
	}
	policy.Set(tau2, schedule.DualBand(2, promotion, -2))
	return policy, nil
}
