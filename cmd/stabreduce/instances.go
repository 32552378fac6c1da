package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkg.jsn.cam/stabreduce/pkg/stabreduce/combin"
)

var instancesCmd = &cobra.Command{
	Use:   "instances",
	Short: "List registered problem instances",
	Args:  cobra.NoArgs,
	RunE:  runInstances,
}

func runInstances(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	fmt.Printf("%-12s %8s %9s %16s  %s\n", "INSTANCE", "QUBITS", "DISTANCE", "PATTERNS", "SOURCE")
	for _, inst := range reg.List() {
		total := combin.Total(inst.NQubits, inst.Distance)
		fmt.Printf("%-12s %8d %9d %16s  %s\n",
			inst.Name, inst.NQubits, inst.Distance, total.String(), inst.SourceFile)
	}
	return nil
}
