package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-foundations/dpsim/dualpriority"
	"github.com/go-foundations/dpsim/runner"
	"github.com/go-foundations/dpsim/schedule"
	"github.com/go-foundations/dpsim/sim"
)

// generatorConfigFile mirrors runner.GeneratorConfig for YAML loading via
// --config, so generator-knob defaults can live in a checked-in file
// instead of a long flag line.
type generatorConfigFile struct {
	Period1   int     `yaml:"period1"`
	PeriodMin int     `yaml:"pBase"`
	PeriodMax int     `yaml:"pTop"`
	TaskSizes []int   `yaml:"tSizes"`
	UtilMin   float64 `yaml:"uMin"`
	UtilMax   float64 `yaml:"uMax"`
}

func loadGeneratorConfig(path string) (runner.GeneratorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return runner.GeneratorConfig{}, err
	}
	var f generatorConfigFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return runner.GeneratorConfig{}, err
	}
	return runner.GeneratorConfig{
		Period1:   f.Period1,
		PeriodMin: f.PeriodMin,
		PeriodMax: f.PeriodMax,
		TaskSizes: f.TaskSizes,
		UtilMin:   f.UtilMin,
		UtilMax:   f.UtilMax,
	}, nil
}

func newDPSearchCommand() *cobra.Command {
	var (
		seed            int64
		cores           int
		disableLPVPrep  bool
		listLPVOnly     bool
		period1         int
		pBase, pTop     int
		tSizesRaw       string
		uRangeRaw       string
		configPath      string
	)

	cmd := &cobra.Command{
		Use:   "dpsearch NBSYSTEMS",
		Short: "Generate random task sets, apply rmLaxityPromotions, and count failures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("NBSYSTEMS must be an integer: %w", err)
			}

			tSizes, err := parseIntList(tSizesRaw)
			if err != nil {
				return fmt.Errorf("--tSizes: %w", err)
			}
			uRange, err := parseFloatPair(uRangeRaw)
			if err != nil {
				return fmt.Errorf("--uRange: %w", err)
			}

			cfg := runner.GeneratorConfig{
				Period1:   period1,
				PeriodMin: pBase,
				PeriodMax: pTop,
				TaskSizes: tSizes,
				UtilMin:   uRange[0],
				UtilMax:   uRange[1],
			}
			if configPath != "" {
				fileCfg, err := loadGeneratorConfig(configPath)
				if err != nil {
					return fmt.Errorf("--config: %w", err)
				}
				cfg = fileCfg
			}

			sets := runner.GenerateTaskSets(cfg, seed, n)

			if listLPVOnly {
				for i, ts := range sets {
					lpv := dualpriority.GenLPViableTasks(ts)
					fmt.Fprintf(cmd.OutOrStdout(), "system %d: %d/%d tasks LPV\n", i, len(lpv), len(ts.Tasks))
				}
				return nil
			}

			setups := make([]sim.SimulationSetup, 0, len(sets))
			for _, ts := range sets {
				policy := dualpriority.RMLaxityPromotions(ts, !disableLPVPrep)
				setups = append(setups, sim.NewSetup(ts, schedule.DP, &policy, ts.Hyperperiod()))
			}

			pool := runner.New(runner.WithWorkers(cores))
			outcomes := pool.Run(context.Background(), setups)

			failures := 0
			for _, o := range outcomes {
				if o.Err != nil || !o.Result.OK() {
					failures++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d/%d failed\n", failures, len(setups))
			return nil
		},
	}

	cmd.Flags().Int64VarP(&seed, "seed", "s", 1, "random seed")
	cmd.Flags().IntVarP(&cores, "cores", "c", 4, "number of parallel workers")
	cmd.Flags().BoolVarP(&disableLPVPrep, "P", "P", false, "disable LPV preprocessing before rmLaxityPromotions")
	cmd.Flags().BoolVarP(&listLPVOnly, "l", "l", false, "only list LPV-viable tasks per generated system, do not simulate")
	cmd.Flags().IntVar(&period1, "period1", 10, "fixed period for the first (highest-priority) task")
	cmd.Flags().IntVar(&pBase, "pBase", 10, "lower bound for every other task's period")
	cmd.Flags().IntVar(&pTop, "pTop", 1000, "upper bound for every other task's period")
	cmd.Flags().StringVar(&tSizesRaw, "tSizes", "3,4,5", "comma-separated candidate task-set sizes")
	cmd.Flags().StringVar(&uRangeRaw, "uRange", "0.5,0.9", "comma-separated utilization range min,max")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML file overriding the generator knobs above")
	return cmd
}

func parseIntList(raw string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return out, nil
}

func parseFloatPair(raw string) ([2]float64, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return [2]float64{}, fmt.Errorf("expected two comma-separated values, got %q", raw)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return [2]float64{}, err
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return [2]float64{}, err
	}
	return [2]float64{lo, hi}, nil
}
