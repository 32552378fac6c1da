package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pkg.jsn.cam/stabreduce/pkg/stabreduce/submit"
)

var planCmd = &cobra.Command{
	Use:   "plan <instance> <chunk-size>",
	Short: "Print the chunk plan for an instance without submitting anything",
	Args:  cobra.ExactArgs(2),
	RunE:  runPlan,
}

const maxPrintedRanges = 20

func runPlan(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	inst, err := reg.Lookup(args[0])
	if err != nil {
		return err
	}
	chunkSize, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chunk size %q: %w", args[1], err)
	}

	plan, err := submit.BuildPlan(inst, chunkSize)
	if err != nil {
		return err
	}

	fmt.Printf("Instance:       %s (n_qbts=%d, distance=%d)\n", plan.Instance, plan.NQubits, plan.Distance)
	fmt.Printf("Total patterns: %d\n", plan.Total)
	fmt.Printf("Chunk size:     %d\n", plan.ChunkSize)
	fmt.Printf("Jobs:           %d\n", len(plan.Ranges))

	for i, r := range plan.Ranges {
		if i == maxPrintedRanges {
			fmt.Printf("  ... %d more ranges\n", len(plan.Ranges)-maxPrintedRanges)
			break
		}
		fmt.Printf("  task %4d: [%d, %d)\n", i, r.Start, r.End)
	}
	return nil
}
