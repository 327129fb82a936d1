package sim

import (
	"github.com/go-foundations/dpsim/history"
	"github.com/go-foundations/dpsim/stats"
)

// SimulationResult is the outcome of a single simulation run.
type SimulationResult struct {
	Setup     SimulationSetup
	History   history.FrozenHistory
	FirstMiss *history.DeadlineMiss
	Err       error // non-nil only when the run failed fatally
}

// OK reports whether the run completed without a recorded deadline miss or
// fatal error.
func (r SimulationResult) OK() bool {
	return r.Err == nil && r.FirstMiss == nil
}

// Run builds a Simulator for setup, runs it to setup.TimeLimit, and returns
// the outcome. Aggregators are attached before the run starts.
func Run(setup SimulationSetup, aggregators ...stats.Aggregator) (SimulationResult, error) {
	s, err := NewSimulator(setup)
	if err != nil {
		return SimulationResult{}, err
	}
	for _, a := range aggregators {
		s.AddAggregator(a)
	}

	if err := s.SimulateTo(setup.TimeLimit); err != nil {
		if simErr, ok := err.(*SimulationError); ok {
			return SimulationResult{Setup: setup, History: simErr.PartialHistory, Err: simErr}, simErr
		}
		return SimulationResult{}, err
	}

	frozen := s.History().Freeze()
	result := SimulationResult{Setup: setup, History: frozen}
	if miss, ok := s.History().FirstDeadlineMiss(history.AllMisses()); ok {
		m := miss
		result.FirstMiss = &m
	}
	return result, nil
}
