package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/go-foundations/dpsim/schedule"
	"github.com/go-foundations/dpsim/sim"
	"github.com/go-foundations/dpsim/task"
)

type RunnerTestSuite struct {
	suite.Suite
}

func TestRunnerTestSuite(t *testing.T) {
	suite.Run(t, new(RunnerTestSuite))
}

func (ts *RunnerTestSuite) setupFor(wcet, period int) sim.SimulationSetup {
	tk := task.New(wcet, period, task.NewFixed(period), task.NewFixedCost(0))
	return sim.NewSetup(task.NewSet(tk), schedule.EDF, nil, period)
}

func (ts *RunnerTestSuite) TestPoolRunReturnsOutcomesCorrelatedByIndexRegardlessOfDuration() {
	setups := []sim.SimulationSetup{
		ts.setupFor(2, 100), // long horizon, finishes "later" in wall time terms
		ts.setupFor(1, 5),   // short horizon
		ts.setupFor(3, 50),
	}

	pool := New(WithWorkers(2))
	outcomes := pool.Run(context.Background(), setups)

	ts.Require().Len(outcomes, 3)
	for i, o := range outcomes {
		ts.Equal(i, o.Index)
		ts.NoError(o.Err)
		ts.True(o.Result.OK())
	}
}

func (ts *RunnerTestSuite) TestPoolRunHandlesEmptyInput() {
	pool := New()
	outcomes := pool.Run(context.Background(), nil)
	ts.Empty(outcomes)
}

func (ts *RunnerTestSuite) TestPoolRunRespectsCancelledContext() {
	setups := []sim.SimulationSetup{ts.setupFor(2, 100)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := New(WithWorkers(1))
	outcomes := pool.Run(ctx, setups)

	// A cancelled context races the feeder against the ctx.Done() check, so
	// the job may still be admitted; only the outcome count is guaranteed.
	ts.Require().Len(outcomes, 1)
}

func (ts *RunnerTestSuite) baseGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Period1:   10,
		PeriodMin: 20,
		PeriodMax: 40,
		TaskSizes: []int{3},
		UtilMin:   0.2,
		UtilMax:   0.6,
	}
}

func (ts *RunnerTestSuite) TestGenerateTaskSetsIsDeterministicForAFixedSeed() {
	cfg := ts.baseGeneratorConfig()

	first := GenerateTaskSets(cfg, 42, 5)
	second := GenerateTaskSets(cfg, 42, 5)

	ts.Require().Len(first, 5)
	ts.Require().Len(second, 5)
	for i := range first {
		ts.Require().Equal(len(first[i].Tasks), len(second[i].Tasks))
		for j := range first[i].Tasks {
			ts.Equal(first[i].Tasks[j].WCET, second[i].Tasks[j].WCET)
			ts.Equal(first[i].Tasks[j].Deadline, second[i].Tasks[j].Deadline)
		}
	}
}

func (ts *RunnerTestSuite) TestGenerateTaskSetsFirstTaskAlwaysUsesPeriod1() {
	cfg := ts.baseGeneratorConfig()
	sets := GenerateTaskSets(cfg, 7, 3)
	for _, s := range sets {
		ts.Require().NotEmpty(s.Tasks)
		ts.Equal(cfg.Period1, s.Tasks[0].Deadline)
	}
}

func (ts *RunnerTestSuite) TestGenerateTaskSetsClampsWCETWithinPeriod() {
	cfg := ts.baseGeneratorConfig()
	sets := GenerateTaskSets(cfg, 123, 10)
	for _, s := range sets {
		for _, t := range s.Tasks {
			ts.GreaterOrEqual(t.WCET, 1)
			ts.LessOrEqual(t.WCET, t.Deadline)
		}
	}
}
