package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded plans and merge runs",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func runRuns(cmd *cobra.Command, args []string) error {
	ldg, err := openLedger()
	if err != nil {
		return err
	}
	defer ldg.Close()

	plans, err := ldg.Plans()
	if err != nil {
		return err
	}
	runs, err := ldg.Runs()
	if err != nil {
		return err
	}

	if len(plans) == 0 && len(runs) == 0 {
		fmt.Println("No plans or runs recorded")
		return nil
	}

	if len(plans) > 0 {
		fmt.Printf("%-36s %-12s %12s %10s %8s  %s\n",
			"PLAN ID", "INSTANCE", "PATTERNS", "CHUNK", "JOBS", "CREATED")
		for _, p := range plans {
			fmt.Printf("%-36s %-12s %12d %10d %8d  %s\n",
				p.ID, p.Instance, p.Total, p.ChunkSize, len(p.Ranges),
				p.CreatedAt.Format("2006-01-02 15:04:05"))
		}
	}

	if len(runs) > 0 {
		fmt.Printf("\n%-36s %-12s %-8s %10s %9s  %s\n",
			"RUN ID", "INSTANCE", "KIND", "STRATEGIES", "MISSING", "FINISHED")
		for _, r := range runs {
			fmt.Printf("%-36s %-12s %-8s %10d %9d  %s\n",
				r.ID, r.Instance, r.Kind, r.Summary.UniqueStrategies,
				r.Summary.MissingPatterns, r.FinishedAt.Format("2006-01-02 15:04:05"))
		}
	}
	return nil
}
