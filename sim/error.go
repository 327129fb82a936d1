package sim

import (
	"fmt"

	"github.com/go-foundations/dpsim/history"
)

// SimulationError wraps a fatal InvariantViolation (or other fatal error)
// with the setup that produced it and whatever history had been recorded
// before the failure.
type SimulationError struct {
	Err            error
	Setup          SimulationSetup
	PartialHistory history.FrozenHistory
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("simulation failed: %v", e.Err)
}

func (e *SimulationError) Unwrap() error { return e.Err }
