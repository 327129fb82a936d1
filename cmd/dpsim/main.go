// Command dpsim is the CLI front-end: simulate runs setups read from a
// task-set file, dpsearch generates random task sets and applies
// rmLaxityPromotions, and checkEkberg brute-forces every DP policy for a
// fixed 4-task set.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-foundations/dpsim/internal/log"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "dpsim",
		Short: "Discrete-event simulator and Dual-Priority policy workbench",
	}
	root.AddCommand(newSimulateCommand())
	root.AddCommand(newDPSearchCommand())
	root.AddCommand(newCheckEkbergCommand())
	return root
}

var logger = log.For("cmd", nil)
