package runner

import (
	"math/rand"

	"github.com/go-foundations/dpsim/task"
)

// GeneratorConfig holds the dpsearch CLI's generator knobs: a fixed period
// for the first (highest-priority) task, a base/top range for every other
// task's period, how many tasks each generated set has, and a target
// utilization range the generator samples WCETs against.
type GeneratorConfig struct {
	Period1   int
	PeriodMin int
	PeriodMax int
	TaskSizes []int
	UtilMin   float64
	UtilMax   float64
}

// GenerateTaskSets produces n random task sets from cfg, seeded
// deterministically by seed. Task count per set is drawn uniformly from
// cfg.TaskSizes; periods are Period1 for the first task and uniform in
// [PeriodMin, PeriodMax] for the rest; WCETs are sized so the set's total
// utilization lands in [UtilMin, UtilMax].
func GenerateTaskSets(cfg GeneratorConfig, seed int64, n int) []task.Set {
	rng := rand.New(rand.NewSource(seed))
	sets := make([]task.Set, 0, n)
	for i := 0; i < n; i++ {
		sets = append(sets, generateOne(cfg, rng))
	}
	return sets
}

func generateOne(cfg GeneratorConfig, rng *rand.Rand) task.Set {
	size := cfg.TaskSizes[0]
	if len(cfg.TaskSizes) > 1 {
		size = cfg.TaskSizes[rng.Intn(len(cfg.TaskSizes))]
	}

	periods := make([]int, size)
	if size > 0 {
		periods[0] = cfg.Period1
	}
	for i := 1; i < size; i++ {
		span := cfg.PeriodMax - cfg.PeriodMin
		p := cfg.PeriodMin
		if span > 0 {
			p += rng.Intn(span + 1)
		}
		periods[i] = p
	}

	targetUtil := cfg.UtilMin
	if cfg.UtilMax > cfg.UtilMin {
		targetUtil += rng.Float64() * (cfg.UtilMax - cfg.UtilMin)
	}

	weights := make([]float64, size)
	totalWeight := 0.0
	for i := range weights {
		weights[i] = rng.Float64()
		totalWeight += weights[i]
	}

	tasks := make([]task.Task, 0, size)
	for i := 0; i < size; i++ {
		share := 0.0
		if totalWeight > 0 {
			share = weights[i] / totalWeight
		}
		wcet := int(share * targetUtil * float64(periods[i]))
		if wcet < 1 {
			wcet = 1
		}
		if wcet > periods[i] {
			wcet = periods[i]
		}
		tasks = append(tasks, task.New(wcet, periods[i], task.NewFixed(periods[i]), task.NewFixedCost(0)))
	}

	return task.NewSet(tasks...)
}
