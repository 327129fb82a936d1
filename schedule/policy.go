package schedule

import (
	"github.com/go-foundations/dpsim/internal/dpsimerr"
	"github.com/go-foundations/dpsim/task"
)

// TaskInfo is the per-task Dual-Priority triple: a low priority always in
// effect before Promotion, an optional Promotion (relative time after
// release at which the job's priority rises), and an optional HighPriority
// in effect from Promotion onward. A task with no Promotion is single-band:
// it runs at LowPriority for its whole lifetime.
type TaskInfo struct {
	LowPriority  int
	Promotion    *int
	HighPriority *int
}

// SingleBand builds a TaskInfo with no promotion.
func SingleBand(lowPriority int) TaskInfo {
	return TaskInfo{LowPriority: lowPriority}
}

// DualBand builds a TaskInfo with a promotion to a higher (numerically
// smaller) priority band.
func DualBand(lowPriority, promotion, highPriority int) TaskInfo {
	p, h := promotion, highPriority
	return TaskInfo{LowPriority: lowPriority, Promotion: &p, HighPriority: &h}
}

// PriorityAt returns the priority in effect at relativeTime (time since the
// job's release): LowPriority before Promotion, HighPriority at or after it.
// A task with no Promotion is always at LowPriority.
func (ti TaskInfo) PriorityAt(relativeTime int) int {
	if ti.Promotion == nil || relativeTime < *ti.Promotion {
		return ti.LowPriority
	}
	if ti.HighPriority != nil {
		return *ti.HighPriority
	}
	return ti.LowPriority
}

// Equal reports value equality of two TaskInfo entries.
func (ti TaskInfo) Equal(o TaskInfo) bool {
	if ti.LowPriority != o.LowPriority {
		return false
	}
	if (ti.Promotion == nil) != (o.Promotion == nil) {
		return false
	}
	if ti.Promotion != nil && *ti.Promotion != *o.Promotion {
		return false
	}
	if (ti.HighPriority == nil) != (o.HighPriority == nil) {
		return false
	}
	if ti.HighPriority != nil && *ti.HighPriority != *o.HighPriority {
		return false
	}
	return true
}

// Policy is a Dual-Priority policy: a (task, TaskInfo) assignment for every
// task in a set.
type Policy struct {
	Entries map[task.UniqueID]TaskInfo
}

// NewPolicy builds an empty policy.
func NewPolicy() Policy {
	return Policy{Entries: make(map[task.UniqueID]TaskInfo)}
}

// Set assigns info to t.
func (p Policy) Set(t task.Task, info TaskInfo) {
	p.Entries[t.UniqueID] = info
}

// Get returns the TaskInfo for t.
func (p Policy) Get(t task.Task) (TaskInfo, bool) {
	ti, ok := p.Entries[t.UniqueID]
	return ti, ok
}

// Validate checks the DP priority-uniqueness invariant: across all tasks,
// the multiset of priority integers actually used by the scheduler must be
// pairwise distinct.
func (p Policy) Validate() error {
	seen := make(map[int]task.UniqueID)
	for id, ti := range p.Entries {
		if prev, ok := seen[ti.LowPriority]; ok && prev != id {
			return dpsimerr.NewInvariantViolation("duplicate DP priority value", ti.LowPriority)
		}
		seen[ti.LowPriority] = id
		if ti.HighPriority != nil {
			if prev, ok := seen[*ti.HighPriority]; ok && prev != id {
				return dpsimerr.NewInvariantViolation("duplicate DP priority value", *ti.HighPriority)
			}
			seen[*ti.HighPriority] = id

			if ti.Promotion != nil && *ti.HighPriority > ti.LowPriority {
				return dpsimerr.NewInvariantViolation("high priority must be <= low priority", *ti.HighPriority)
			}
		}
	}
	return nil
}

// Equal reports value equality of two policies.
func (p Policy) Equal(o Policy) bool {
	if len(p.Entries) != len(o.Entries) {
		return false
	}
	for id, ti := range p.Entries {
		oti, ok := o.Entries[id]
		if !ok || !ti.Equal(oti) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the policy.
func (p Policy) Clone() Policy {
	cp := NewPolicy()
	for id, ti := range p.Entries {
		cp.Entries[id] = ti
	}
	return cp
}
