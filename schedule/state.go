package schedule

import "github.com/go-foundations/dpsim/job"

// ReadyEDF is one entry of an EDF scheduler-state snapshot.
type ReadyEDF struct {
	Deadline     int
	Collision    int
	Key          job.Key
}

// ReadyRM is one entry of an RM scheduler-state snapshot.
type ReadyRM struct {
	Key job.Key
}

// ReadyDP is one entry of a DP scheduler-state snapshot.
type ReadyDP struct {
	Key job.Key
}

// State is the variant-carrying scheduler-state snapshot. Only the fields
// relevant to Kind are populated; this mirrors the spec's "EDF(running,
// ready[]) | RM(running, ready[]) | DP(policy, running, ready[])" sum type,
// represented as a single tagged struct since Go has no closed sum types.
type State struct {
	Kind     Kind
	Running  *job.Key
	ReadyEDF []ReadyEDF
	ReadyRM  []ReadyRM
	ReadyDP  []ReadyDP
	Policy   *Policy // DP only
}

// Equal reports value equality of two scheduler-state snapshots.
func (s State) Equal(o State) bool {
	if s.Kind != o.Kind {
		return false
	}
	if (s.Running == nil) != (o.Running == nil) {
		return false
	}
	if s.Running != nil && *s.Running != *o.Running {
		return false
	}
	switch s.Kind {
	case EDF:
		if len(s.ReadyEDF) != len(o.ReadyEDF) {
			return false
		}
		for i := range s.ReadyEDF {
			if s.ReadyEDF[i] != o.ReadyEDF[i] {
				return false
			}
		}
		return true
	case RM:
		if len(s.ReadyRM) != len(o.ReadyRM) {
			return false
		}
		for i := range s.ReadyRM {
			if s.ReadyRM[i] != o.ReadyRM[i] {
				return false
			}
		}
		return true
	case DP:
		if len(s.ReadyDP) != len(o.ReadyDP) {
			return false
		}
		for i := range s.ReadyDP {
			if s.ReadyDP[i] != o.ReadyDP[i] {
				return false
			}
		}
		if (s.Policy == nil) != (o.Policy == nil) {
			return false
		}
		if s.Policy != nil && !s.Policy.Equal(*o.Policy) {
			return false
		}
		return true
	default:
		return false
	}
}
