package dualpriority

import (
	"github.com/go-foundations/dpsim/history"
	"github.com/go-foundations/dpsim/schedule"
	"github.com/go-foundations/dpsim/sim"
	"github.com/go-foundations/dpsim/task"
)

// simulateMisses runs ts under policy up to ts.Hyperperiod() and returns
// every deadline miss observed. Every DP-synthesis search step uses this as
// its schedulability oracle, exactly as the simulator is used as an oracle
// by the search procedures.
func simulateMisses(ts task.Set, policy schedule.Policy) ([]history.DeadlineMiss, error) {
	setup := sim.NewSetup(ts, schedule.DP, &policy, ts.Hyperperiod())
	result, err := sim.Run(setup)
	if err != nil {
		return nil, err
	}
	if result.Err != nil {
		return nil, result.Err
	}
	states := result.History.States()
	var misses []history.DeadlineMiss
	for _, st := range states {
		misses = append(misses, st.DeadlineMisses...)
	}
	return misses, nil
}

// missesAmong filters misses down to the given task ids.
func missesAmong(misses []history.DeadlineMiss, ids map[task.UniqueID]bool) []history.DeadlineMiss {
	var out []history.DeadlineMiss
	for _, m := range misses {
		if ids[m.TaskID] {
			out = append(out, m)
		}
	}
	return out
}

func idSet(tasks []task.Task) map[task.UniqueID]bool {
	s := make(map[task.UniqueID]bool, len(tasks))
	for _, t := range tasks {
		s[t.UniqueID] = true
	}
	return s
}
