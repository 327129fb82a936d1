package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-foundations/dpsim/fileio"
	"github.com/go-foundations/dpsim/history"
	"github.com/go-foundations/dpsim/runner"
	"github.com/go-foundations/dpsim/schedule"
	"github.com/go-foundations/dpsim/sim"
)

func newSimulateCommand() *cobra.Command {
	var cores int

	cmd := &cobra.Command{
		Use:   "simulate FILE",
		Short: "Read setups from FILE, run them, and report OK or the first deadline miss",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := fileio.ParseTaskSetFile(args[0])
			if err != nil && len(parsed) == 0 {
				return err
			}

			setups := make([]sim.SimulationSetup, 0, len(parsed))
			for _, p := range parsed {
				policy := p.Policy
				setups = append(setups, sim.NewSetup(p.TaskSet, schedule.DP, &policy, p.TaskSet.Hyperperiod(),
					sim.WithStopOnMiss(), sim.WithLogger(logger)))
			}

			pool := runner.New(runner.WithWorkers(cores))
			outcomes := pool.Run(context.Background(), setups)

			for _, o := range outcomes {
				if o.Err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "setup %d: error: %v\n", o.Index, o.Err)
					continue
				}
				if o.Result.FirstMiss != nil {
					printMiss(cmd, o.Index, *o.Result.FirstMiss)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "setup %d: OK\n", o.Index)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&cores, "cores", "c", 4, "number of parallel workers")
	return cmd
}

func printMiss(cmd *cobra.Command, index int, miss history.DeadlineMiss) {
	fmt.Fprintf(cmd.OutOrStdout(), "setup %d: Deadline miss: task=%d release=%d time=%d\n",
		index, miss.TaskID, miss.ReleaseIndex, miss.Time)
}
