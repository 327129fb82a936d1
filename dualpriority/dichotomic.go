package dualpriority

import (
	"github.com/go-foundations/dpsim/internal/dpsimerr"
	"github.com/go-foundations/dpsim/schedule"
	"github.com/go-foundations/dpsim/task"
)

// DichotomicPromotionSearch peels LPV tasks onto the highest priorities,
// seeds the remaining dualInclude set of n tasks at (n-i, deadline, -(n-i)),
// below every LPV priority, then walks that set in rmOrder binary-searching
// each task's promotion against the simulator, backtracking on
// NoValidPromotion. The result is post-processed by cleanPolicy.
func DichotomicPromotionSearch(ts task.Set) (schedule.Policy, error) {
	order := rmOrder(ts)
	lpv := peelLPVOrder(order)
	dualInclude := excludeTasks(order, lpv)

	maxPrio := len(order)
	policy := schedule.NewPolicy()
	for i, t := range lpv {
		policy.Set(t, schedule.SingleBand(maxPrio-i))
	}

	incOrder := rmOrder(task.NewSet(dualInclude...))
	for i, t := range incOrder {
		low := len(incOrder) - i
		high := -(len(incOrder) - i)
		policy.Set(t, schedule.DualBand(low, t.Deadline, high))
	}

	fixed, err := fixPromotion(ts, policy, incOrder, 0)
	if err != nil {
		return schedule.Policy{}, err
	}

	return cleanPolicy(fixed, order), nil
}

// fixPromotion binary-searches order[idx]'s promotion in [0, currentPromotion],
// recursing to fix order[idx+1:] on top of each midpoint, and accepting the
// first midpoint that produces no deadline miss on any task already fixed
// (order[:idx+1]) and lets the remaining tasks be fixed in turn.
func fixPromotion(ts task.Set, policy schedule.Policy, order []task.Task, idx int) (schedule.Policy, error) {
	if idx >= len(order) {
		return policy, nil
	}

	t := order[idx]
	info, _ := policy.Get(t)
	low, high := info.LowPriority, *info.HighPriority
	fixedIDs := idSet(order[:idx+1])

	return bisectPromotion(ts, policy, order, idx, t, low, high, fixedIDs, 0, *info.Promotion)
}

// bisectPromotion tries order[idx]'s promotion at the midpoint of
// [minPromo, maxPromo]. The midpoint fails if it already misses a deadline
// among fixedIDs, or if no valid promotion exists for order[idx+1:] built on
// top of it. On failure the search narrows to [minPromo, midpoint]; it gives
// up once the midpoint reaches 0 and still fails.
func bisectPromotion(ts task.Set, policy schedule.Policy, order []task.Task, idx int, t task.Task, low, high int, fixedIDs map[task.UniqueID]bool, minPromo, maxPromo int) (schedule.Policy, error) {
	promotion := (minPromo + maxPromo) / 2
	candidate := policy.Clone()
	candidate.Set(t, schedule.DualBand(low, promotion, high))

	resolved, err := fixPromotion(ts, candidate, order, idx+1)
	failed := err != nil
	if failed {
		if _, ok := err.(*dpsimerr.NoValidPromotion); !ok {
			return schedule.Policy{}, err
		}
	} else {
		misses, merr := simulateMisses(ts, resolved)
		if merr != nil {
			return schedule.Policy{}, merr
		}
		failed = len(missesAmong(misses, fixedIDs)) > 0
	}

	if !failed {
		return resolved, nil
	}
	if promotion == 0 {
		return schedule.Policy{}, dpsimerr.NewNoValidPromotion(int64(t.UniqueID))
	}
	return bisectPromotion(ts, policy, order, idx, t, low, high, fixedIDs, minPromo, promotion)
}

// cleanPolicy reduces the lowest-priority task to a single band at priority
// 1, then collapses any immediately-following run of tasks (in ascending
// lowPriority order) whose promotion equals their own period to single-band
// entries, stopping as soon as the chain breaks.
func cleanPolicy(policy schedule.Policy, order []task.Task) schedule.Policy {
	byLow := append([]task.Task(nil), order...)
	ascending := func(i, j int) bool {
		ii, _ := policy.Get(byLow[i])
		jj, _ := policy.Get(byLow[j])
		return ii.LowPriority < jj.LowPriority
	}
	for i := 1; i < len(byLow); i++ {
		for j := i; j > 0 && ascending(j, j-1); j-- {
			byLow[j], byLow[j-1] = byLow[j-1], byLow[j]
		}
	}

	cleaned := policy.Clone()
	if len(byLow) == 0 {
		return cleaned
	}
	cleaned.Set(byLow[0], schedule.SingleBand(1))

	for _, t := range byLow[1:] {
		info, _ := cleaned.Get(t)
		if info.Promotion == nil || *info.Promotion != t.MinimalInterArrival() {
			break
		}
		cleaned.Set(t, schedule.SingleBand(info.LowPriority))
	}

	return cleaned
}
