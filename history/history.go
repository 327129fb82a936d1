package history

import (
	"sort"

	"github.com/go-foundations/dpsim/task"
)

// DeadlineMissFilter selects which tasks' misses are of interest.
// If Default is true, the filter matches every task except those listed in
// Except. If Default is false, it matches only the tasks listed in Only.
type DeadlineMissFilter struct {
	Default bool
	Except  map[task.UniqueID]bool
	Only    map[task.UniqueID]bool
}

// AllMisses returns a filter matching every deadline miss.
func AllMisses() DeadlineMissFilter {
	return DeadlineMissFilter{Default: true}
}

// NoMisses returns a filter matching no deadline miss.
func NoMisses() DeadlineMissFilter {
	return DeadlineMissFilter{Default: false}
}

// ExceptTasks returns a filter matching every task except those listed.
func ExceptTasks(ids ...task.UniqueID) DeadlineMissFilter {
	f := DeadlineMissFilter{Default: true, Except: map[task.UniqueID]bool{}}
	for _, id := range ids {
		f.Except[id] = true
	}
	return f
}

// OnlyTasks returns a filter matching only the tasks listed.
func OnlyTasks(ids ...task.UniqueID) DeadlineMissFilter {
	f := DeadlineMissFilter{Default: false, Only: map[task.UniqueID]bool{}}
	for _, id := range ids {
		f.Only[id] = true
	}
	return f
}

// IsActive reports whether this filter can ever match anything: true when
// Default is true, or at least one task is explicitly listed.
func (f DeadlineMissFilter) IsActive() bool {
	return f.Default || len(f.Only) > 0
}

// Matches reports whether id passes the filter.
func (f DeadlineMissFilter) Matches(id task.UniqueID) bool {
	if f.Default {
		return !f.Except[id]
	}
	return f.Only[id]
}

// History is the ordered-by-time record of simulator states plus secondary
// indexes over deadline misses and preemptions.
type History struct {
	states         []State
	missesByTask   map[task.UniqueID][]DeadlineMiss
	missesByTime   map[int][]DeadlineMiss
	preemptByTask  map[task.UniqueID][]Preemption // keyed by preempted task
	preemptByPreemptingTask map[task.UniqueID][]Preemption
	preemptByTime  map[int][]Preemption
}

// New returns an empty history.
func New() *History {
	return &History{
		missesByTask:            make(map[task.UniqueID][]DeadlineMiss),
		missesByTime:            make(map[int][]DeadlineMiss),
		preemptByTask:           make(map[task.UniqueID][]Preemption),
		preemptByPreemptingTask: make(map[task.UniqueID][]Preemption),
		preemptByTime:           make(map[int][]Preemption),
	}
}

// AddState inserts s into the time-ordered record and registers its misses
// and preemptions into the secondary indexes.
func (h *History) AddState(s State) {
	idx := sort.Search(len(h.states), func(i int) bool { return h.states[i].Time > s.Time })
	h.states = append(h.states, State{})
	copy(h.states[idx+1:], h.states[idx:])
	h.states[idx] = s

	for _, m := range s.DeadlineMisses {
		h.missesByTask[m.TaskID] = append(h.missesByTask[m.TaskID], m)
		h.missesByTime[m.Time] = append(h.missesByTime[m.Time], m)
	}
	for _, p := range s.Preemptions {
		h.preemptByTask[p.PreemptedTaskID] = append(h.preemptByTask[p.PreemptedTaskID], p)
		h.preemptByPreemptingTask[p.PreemptingTaskID] = append(h.preemptByPreemptingTask[p.PreemptingTaskID], p)
		h.preemptByTime[p.Time] = append(h.preemptByTime[p.Time], p)
	}
}

// States returns all recorded states in time order.
func (h *History) States() []State { return h.states }

// GetLastState returns the state with the greatest time <= t.
func (h *History) GetLastState(t int) (State, bool) {
	idx := sort.Search(len(h.states), func(i int) bool { return h.states[i].Time > t }) - 1
	if idx < 0 {
		return State{}, false
	}
	return h.states[idx], true
}

// FirstDeadlineMiss returns the earliest recorded miss passing filter.
func (h *History) FirstDeadlineMiss(filter DeadlineMissFilter) (DeadlineMiss, bool) {
	if !filter.IsActive() {
		return DeadlineMiss{}, false
	}
	var found *DeadlineMiss
	for _, s := range h.states {
		for _, m := range s.DeadlineMisses {
			if !filter.Matches(m.TaskID) {
				continue
			}
			if found == nil || m.Time < found.Time {
				mm := m
				found = &mm
			}
		}
	}
	if found == nil {
		return DeadlineMiss{}, false
	}
	return *found, true
}

// MissQuery selects which optional keys to intersect on.
type MissQuery struct {
	Time *int
	Task *task.UniqueID
}

// DeadlineMisses returns all recorded misses with time <= timeLimit,
// intersected across whichever MissQuery fields are set.
func (h *History) DeadlineMisses(timeLimit int, q MissQuery) []DeadlineMiss {
	var candidates []DeadlineMiss
	switch {
	case q.Task != nil:
		candidates = h.missesByTask[*q.Task]
	case q.Time != nil:
		candidates = h.missesByTime[*q.Time]
	default:
		for _, s := range h.states {
			candidates = append(candidates, s.DeadlineMisses...)
		}
	}
	var out []DeadlineMiss
	for _, m := range candidates {
		if m.Time > timeLimit {
			continue
		}
		if q.Time != nil && m.Time != *q.Time {
			continue
		}
		if q.Task != nil && m.TaskID != *q.Task {
			continue
		}
		out = append(out, m)
	}
	return out
}

// PreemptionQuery selects which optional keys to intersect on.
type PreemptionQuery struct {
	Time            *int
	PreemptedTask   *task.UniqueID
	PreemptingTask  *task.UniqueID
}

// Preemptions returns all recorded preemptions with time <= timeLimit,
// intersected across whichever PreemptionQuery fields are set.
func (h *History) Preemptions(timeLimit int, q PreemptionQuery) []Preemption {
	var all []Preemption
	for _, s := range h.states {
		all = append(all, s.Preemptions...)
	}
	var out []Preemption
	for _, p := range all {
		if p.Time > timeLimit {
			continue
		}
		if q.Time != nil && p.Time != *q.Time {
			continue
		}
		if q.PreemptedTask != nil && p.PreemptedTaskID != *q.PreemptedTask {
			continue
		}
		if q.PreemptingTask != nil && p.PreemptingTaskID != *q.PreemptingTask {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Freeze returns an immutable FrozenHistory snapshot.
func (h *History) Freeze() FrozenHistory {
	states := make([]State, len(h.states))
	copy(states, h.states)
	return FrozenHistory{states: states}
}
