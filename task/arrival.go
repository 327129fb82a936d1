package task

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// ArrivalKind is a closed sum over the two arrival-distribution variants.
type ArrivalKind int

const (
	// Fixed releases strictly periodically: arrivalTime(k) = k * period.
	Fixed ArrivalKind = iota
	// Poisson releases with a minimal inter-arrival gap plus a Poisson jitter.
	Poisson
)

// ArrivalDistribution computes arrivalTime(k), the non-decreasing time of the
// k-th release, plus a minimal inter-arrival lower bound.
//
// Poisson-offset arrival times are deterministic and order-independent: each
// jitter draw uses its own rng partitioned off (seed, k), rather than a
// single mutable stream. A Task (and its ArrivalDistribution) is copied by
// value throughout this module — by a Job, by a TaskSet, across worker
// boundaries in runner — so arrivalTime(k) must give the same answer from
// every copy regardless of call order; a shared mutable rand.Rand would not.
type ArrivalDistribution struct {
	kind    ArrivalKind
	period  int // Fixed: the exact period
	minimal int
	lambda  float64
	seed    int64
}

// NewFixed builds a strictly periodic arrival distribution.
func NewFixed(period int) ArrivalDistribution {
	if period <= 0 {
		panic("task: fixed arrival period must be positive")
	}
	return ArrivalDistribution{kind: Fixed, period: period, minimal: period}
}

// NewPoisson builds a deterministic, seeded Poisson-offset arrival
// distribution: arrivalTime(k) = arrivalTime(k-1) + minimal + Poisson(lambda),
// arrivalTime(0) = 0.
func NewPoisson(minimal int, lambda float64, seed int64) ArrivalDistribution {
	if minimal <= 0 {
		panic("task: poisson minimal inter-arrival must be positive")
	}
	return ArrivalDistribution{kind: Poisson, minimal: minimal, lambda: lambda, seed: seed}
}

// Minimal returns the minimal inter-arrival lower bound.
func (a ArrivalDistribution) Minimal() int {
	if a.kind == Fixed {
		return a.period
	}
	return a.minimal
}

// ArrivalTime returns the absolute time of the k-th release (k >= 0).
func (a ArrivalDistribution) ArrivalTime(k int) int {
	if k < 0 {
		panic("task: release index must be non-negative")
	}
	if a.kind == Fixed {
		return k * a.period
	}
	t := 0
	for i := 1; i <= k; i++ {
		t += a.minimal + a.jitter(i)
	}
	return t
}

// jitter draws the Poisson offset for release index i from a partition of
// the rng keyed by (seed, i), so the draw never depends on draws for other
// indices having happened first.
func (a ArrivalDistribution) jitter(i int) int {
	if a.lambda <= 0 {
		return 0
	}
	const mix = 0x9E3779B97F4A7C15
	src := rand.New(rand.NewSource(a.seed ^ (int64(i) * mix)))
	pois := distuv.Poisson{Lambda: a.lambda, Src: src}
	return int(pois.Rand())
}

// Equal reports equality of the distribution's defining parameters.
func (a ArrivalDistribution) Equal(o ArrivalDistribution) bool {
	if a.kind != o.kind {
		return false
	}
	switch a.kind {
	case Fixed:
		return a.period == o.period
	case Poisson:
		return a.minimal == o.minimal && a.lambda == o.lambda && a.seed == o.seed
	default:
		return false
	}
}
