package task

import "math"

// PreemptionCostKind is a closed sum over the two preemption-cost variants.
type PreemptionCostKind int

const (
	// FixedCost charges a constant debt on every preemption.
	FixedCost PreemptionCostKind = iota
	// LogAreaCost charges debt proportional to the log-area of work lost to
	// cache-related preemption overhead.
	LogAreaCost
)

// PreemptionCostModel computes the debt charged to a job at the instant it
// is preempted.
type PreemptionCostModel struct {
	kind       PreemptionCostKind
	fixedCost  int
	ratio      float64
}

// NewFixedCost builds a constant preemption-cost model.
func NewFixedCost(cost int) PreemptionCostModel {
	if cost < 0 {
		panic("task: fixed preemption cost must be non-negative")
	}
	return PreemptionCostModel{kind: FixedCost, fixedCost: cost}
}

// NewLogAreaCost builds a log-area preemption-cost model:
// cost = floor(ratio*(logArea(wcet) - logArea(remaining) - logArea(progress))) + fixedCost.
func NewLogAreaCost(ratio float64, fixedCost int) PreemptionCostModel {
	if fixedCost < 0 {
		panic("task: fixed preemption cost must be non-negative")
	}
	return PreemptionCostModel{kind: LogAreaCost, ratio: ratio, fixedCost: fixedCost}
}

// logArea(x) = x*ln(x) - (x-1) for x > 0, else 0.
func logArea(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return x*math.Log(x) - (x - 1)
}

// Cost returns the debt charged when a job with the given wcet and current
// progress is preempted.
func (m PreemptionCostModel) Cost(wcet, progress int) int {
	switch m.kind {
	case FixedCost:
		return m.fixedCost
	case LogAreaCost:
		remaining := wcet - progress
		v := m.ratio*(logArea(float64(wcet))-logArea(float64(remaining))-logArea(float64(progress))) + float64(m.fixedCost)
		return int(math.Floor(v))
	default:
		return m.fixedCost
	}
}

// Equal reports equality of the model's defining parameters.
func (m PreemptionCostModel) Equal(o PreemptionCostModel) bool {
	if m.kind != o.kind {
		return false
	}
	switch m.kind {
	case FixedCost:
		return m.fixedCost == o.fixedCost
	case LogAreaCost:
		return m.ratio == o.ratio && m.fixedCost == o.fixedCost
	default:
		return false
	}
}
