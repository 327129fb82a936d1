package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-foundations/dpsim/fileio"
	"github.com/go-foundations/dpsim/schedule"
	"github.com/go-foundations/dpsim/sim"
	"github.com/go-foundations/dpsim/task"
)

func newCheckEkbergCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkEkberg FILE",
		Short: "Brute-force every DP policy for a fixed 4-task set and append the passing ones to FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := fileio.ParseTaskSetFile(args[0])
			if err != nil && len(parsed) == 0 {
				return err
			}
			if len(parsed) == 0 {
				return fmt.Errorf("checkEkberg: no task set found in %s", args[0])
			}
			ts := parsed[0].TaskSet
			if len(ts.Tasks) != 4 {
				return fmt.Errorf("checkEkberg: requires exactly 4 tasks, got %d", len(ts.Tasks))
			}

			out, err := os.OpenFile(fileio.ExpandPath(args[0]), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err != nil {
				return err
			}
			defer out.Close()

			passing := 0
			for _, policy := range enumerateEkbergPolicies(ts) {
				setup := sim.NewSetup(ts, schedule.DP, &policy, ts.Hyperperiod())
				result, err := sim.Run(setup)
				if err != nil {
					continue
				}
				if result.OK() {
					passing++
					if werr := fileio.WriteTaskSets(out, []fileio.Setup{{TaskSet: ts, Policy: policy}}); werr != nil {
						return werr
					}
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d passing policies appended\n", passing)
			return nil
		},
	}
	return cmd
}

// enumerateEkbergPolicies yields every DP policy for a 4-task set: all
// permutations of the 2n = 8 priority integers split two-per-task (low,
// high with low > high), crossed with every promotion choice in
// [0, period] for each task.
func enumerateEkbergPolicies(ts task.Set) []schedule.Policy {
	n := len(ts.Tasks)
	priorities := make([]int, 2*n)
	for i := range priorities {
		priorities[i] = i + 1
	}

	var policies []schedule.Policy
	permutePriorities(priorities, func(perm []int) {
		bands := make([][2]int, n)
		for i := 0; i < n; i++ {
			lo, hi := perm[2*i], perm[2*i+1]
			if lo < hi {
				lo, hi = hi, lo
			}
			bands[i] = [2]int{lo, hi}
		}
		enumeratePromotions(ts, bands, func(policy schedule.Policy) {
			policies = append(policies, policy)
		})
	})
	return policies
}

func permutePriorities(values []int, emit func([]int)) {
	var helper func(k int)
	helper = func(k int) {
		if k == len(values) {
			cp := append([]int(nil), values...)
			emit(cp)
			return
		}
		for i := k; i < len(values); i++ {
			values[k], values[i] = values[i], values[k]
			helper(k + 1)
			values[k], values[i] = values[i], values[k]
		}
	}
	helper(0)
}

func enumeratePromotions(ts task.Set, bands [][2]int, emit func(schedule.Policy)) {
	n := len(ts.Tasks)
	promotions := make([]int, n)

	var helper func(i int)
	helper = func(i int) {
		if i == n {
			policy := schedule.NewPolicy()
			for j, t := range ts.Tasks {
				lo, hi := bands[j][0], bands[j][1]
				if lo == hi {
					policy.Set(t, schedule.SingleBand(lo))
				} else {
					policy.Set(t, schedule.DualBand(lo, promotions[j], hi))
				}
			}
			emit(policy)
			return
		}
		t := ts.Tasks[i]
		for p := 0; p <= t.Deadline; p++ {
			promotions[i] = p
			helper(i + 1)
		}
	}
	helper(0)
}
