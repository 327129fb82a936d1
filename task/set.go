package task

import "sort"

// Set is an ordered sequence of tasks.
type Set struct {
	Tasks []Task
}

// NewSet builds a Set from the given tasks, preserving their order.
func NewSet(tasks ...Task) Set {
	cp := make([]Task, len(tasks))
	copy(cp, tasks)
	return Set{Tasks: cp}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

func lcm(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return a / gcd(a, b) * b
}

// Hyperperiod is the least common multiple of all tasks' minimal inter-arrival times.
func (s Set) Hyperperiod() int {
	h := 1
	for _, t := range s.Tasks {
		h = lcm(h, t.MinimalInterArrival())
	}
	return h
}

// Utilization is sum(wcet / minimalInterArrivalTime) across the set.
func (s Set) Utilization() float64 {
	var u float64
	for _, t := range s.Tasks {
		u += float64(t.WCET) / float64(t.MinimalInterArrival())
	}
	return u
}

// MaxPeriod is the largest minimal inter-arrival time in the set.
func (s Set) MaxPeriod() int {
	max := 0
	for _, t := range s.Tasks {
		if p := t.MinimalInterArrival(); p > max {
			max = p
		}
	}
	return max
}

// RMOrdered returns the tasks sorted by (minimalInterArrivalTime, uniqueId)
// ascending, the canonical RM priority order used throughout the DP
// synthesis algorithms.
func (s Set) RMOrdered() []Task {
	out := make([]Task, len(s.Tasks))
	copy(out, s.Tasks)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].MinimalInterArrival(), out[j].MinimalInterArrival()
		if pi != pj {
			return pi < pj
		}
		return out[i].UniqueID < out[j].UniqueID
	})
	return out
}

// Equal reports equality of the two sets, order-sensitive (a Set is an
// ordered sequence per the data model, not a multiset).
func (s Set) Equal(o Set) bool {
	if len(s.Tasks) != len(o.Tasks) {
		return false
	}
	for i := range s.Tasks {
		if !s.Tasks[i].Equal(o.Tasks[i]) {
			return false
		}
	}
	return true
}
