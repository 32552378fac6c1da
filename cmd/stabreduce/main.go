package main

import (
	"os"

	"github.com/spf13/cobra"

	"pkg.jsn.cam/stabreduce/internal/ledger"
	"pkg.jsn.cam/stabreduce/pkg/stabreduce/registry"
)

var (
	registryFile string
	ledgerPath   string
)

var rootCmd = &cobra.Command{
	Use:           "stabreduce",
	Short:         "Plan, submit and merge chunked stabilizer searches",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&registryFile, "registry", "",
		"extra instance registry (JSON file, merged over built-ins)")
	rootCmd.PersistentFlags().StringVar(&ledgerPath, "ledger", "stabreduce.db",
		"path to the run ledger database")

	rootCmd.AddCommand(instancesCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(mergeSampledCmd)
	rootCmd.AddCommand(runsCmd)
}

func loadRegistry() (*registry.Registry, error) {
	reg := registry.Builtin()
	if registryFile != "" {
		if err := reg.LoadFile(registryFile); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func openLedger() (*ledger.Ledger, error) {
	return ledger.Open(ledgerPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
