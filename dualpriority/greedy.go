package dualpriority

import (
	"github.com/go-foundations/dpsim/internal/dpsimerr"
	"github.com/go-foundations/dpsim/schedule"
	"github.com/go-foundations/dpsim/task"
)

// GreedyDeadlineFixPolicy installs a base RM/RM policy (lowPriority = i,
// promotion = period, highPriority = i-n for each task in rmOrder), then
// repeatedly simulates: on the first deadline miss, it decrements the
// missing task's promotion by one and retries, raising NoValidPromotion if
// that task's promotion was already zero.
func GreedyDeadlineFixPolicy(ts task.Set) (schedule.Policy, error) {
	order := rmOrder(ts)
	n := len(order)
	policy := schedule.NewPolicy()
	for i, t := range order {
		policy.Set(t, schedule.DualBand(i, t.MinimalInterArrival(), i-n))
	}

	byID := make(map[task.UniqueID]task.Task, n)
	for _, t := range order {
		byID[t.UniqueID] = t
	}

	for {
		misses, err := simulateMisses(ts, policy)
		if err != nil {
			return schedule.Policy{}, err
		}
		if len(misses) == 0 {
			return policy, nil
		}

		first := misses[0]
		for _, m := range misses[1:] {
			if m.Time < first.Time {
				first = m
			}
		}

		t := byID[first.TaskID]
		info, _ := policy.Get(t)
		if info.Promotion == nil || *info.Promotion <= 0 {
			return schedule.Policy{}, dpsimerr.NewNoValidPromotion(int64(t.UniqueID))
		}
		policy.Set(t, schedule.DualBand(info.LowPriority, *info.Promotion-1, *info.HighPriority))
	}
}
