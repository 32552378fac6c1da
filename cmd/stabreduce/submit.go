package main

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	"pkg.jsn.cam/stabreduce/pkg/stabreduce/submit"
)

var submitOpts submit.Options

var submitCmd = &cobra.Command{
	Use:   "submit <instance> <chunk-size>",
	Short: "Submit a job array computing one chunk per range",
	Args:  cobra.ExactArgs(2),
	RunE:  runSubmit,
}

func init() {
	submitCmd.Flags().BoolVar(&submitOpts.DryRun, "dry-run", false,
		"print the batch script without submitting")
	submitCmd.Flags().StringVar(&submitOpts.ChunkDir, "chunk-dir", "",
		"directory for chunk files (default chunks_<instance>)")
	submitCmd.Flags().StringVar(&submitOpts.OracleCmd, "oracle", "",
		"oracle command each array task runs")
	submitCmd.Flags().StringVar(&submitOpts.Partition, "partition", "", "scheduler partition")
	submitCmd.Flags().StringVar(&submitOpts.Account, "account", "", "scheduler account")
	submitCmd.Flags().StringVar(&submitOpts.TimeLimit, "time", "", "per-task time limit")
	submitCmd.Flags().StringVar(&submitOpts.MemPerCPU, "mem", "", "per-task memory")
}

func runSubmit(cmd *cobra.Command, args []string) error {
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

	if err := submit.Submit(cmd.Context(), plan, submitOpts); err != nil {
		return err
	}
	if submitOpts.DryRun {
		return nil
	}

	ldg, err := openLedger()
	if err != nil {
		return err
	}
	defer ldg.Close()
	if err := ldg.SavePlan(plan); err != nil {
		log.Printf("[PLAN] Warning: failed to record plan: %v", err)
	}

	fmt.Printf("\nAfter all jobs complete, merge with:\n")
	fmt.Printf("  stabreduce merge %s\n", plan.Instance)
	return nil
}
