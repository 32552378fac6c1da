package main

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"pkg.jsn.cam/stabreduce/internal/ledger"
	"pkg.jsn.cam/stabreduce/pkg/stabreduce"
	"pkg.jsn.cam/stabreduce/pkg/stabreduce/artifact"
	"pkg.jsn.cam/stabreduce/pkg/stabreduce/chunkio"
	"pkg.jsn.cam/stabreduce/pkg/stabreduce/combin"
	"pkg.jsn.cam/stabreduce/pkg/stabreduce/merge"
)

var (
	mergeOut         string
	mergeParallelism int

	sampledOut  string
	sampledTopX int
	sampledSeed int64
)

var mergeCmd = &cobra.Command{
	Use:   "merge <instance> [chunk-dir]",
	Short: "Merge all chunks into one deduplicated artifact",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runMerge,
}

var mergeSampledCmd = &cobra.Command{
	Use:   "merge-sampled <instance> [chunk-dir]",
	Short: "Merge chunks with at most one strategy per loss pattern, one chunk in memory at a time",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runMergeSampled,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeOut, "out", "", "artifact output path")
	mergeCmd.Flags().IntVar(&mergeParallelism, "parallelism", 0,
		"concurrent chunk loads (0 = default)")

	mergeSampledCmd.Flags().StringVar(&sampledOut, "out", "", "artifact output path")
	mergeSampledCmd.Flags().IntVar(&sampledTopX, "top", merge.DefaultTopX,
		"sample from the top X lightest strategies per pattern")
	mergeSampledCmd.Flags().Int64Var(&sampledSeed, "seed", merge.DefaultSeed,
		"random seed for reproducibility")
}

func chunkDirArg(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return "chunks_" + args[0]
}

func runMerge(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	inst, err := reg.Lookup(args[0])
	if err != nil {
		return err
	}

	dir := chunkDirArg(args)
	refs, err := chunkio.Scan(dir, inst.Name)
	if err != nil {
		return err
	}
	log.Printf("[MERGE] Found %d chunk files in %s", len(refs), dir)

	res, err := merge.Exact(cmd.Context(), refs, merge.ExactOptions{Parallelism: mergeParallelism})
	if err != nil {
		return err
	}

	out := mergeOut
	if out == "" {
		out = filepath.Join(dir, artifact.FileName(inst.Name, stabreduce.ArtifactExact))
	}
	art := artifact.Build(inst.Name, stabreduce.ArtifactExact, res, nil)
	if err := artifact.Write(out, art); err != nil {
		return err
	}
	fmt.Printf("Saved merged artifact to: %s\n", out)

	recordRun(&ledger.Run{
		ID:         uuid.New().String(),
		Instance:   inst.Name,
		Kind:       stabreduce.ArtifactExact,
		Output:     out,
		Summary:    res.Summary,
		FinishedAt: time.Now().UTC(),
	})
	return nil
}

func runMergeSampled(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	inst, err := reg.Lookup(args[0])
	if err != nil {
		return err
	}
	params, err := inst.Params()
	if err != nil {
		return err
	}
	total, err := combin.TotalInt64(inst.NQubits, inst.Distance)
	if err != nil {
		return err
	}

	dir := chunkDirArg(args)
	refs, err := chunkio.Scan(dir, inst.Name)
	if err != nil {
		return err
	}
	log.Printf("[SAMPLE] Found %d chunk files in %s (top=%d, seed=%d)",
		len(refs), dir, sampledTopX, sampledSeed)

	bar := progressbar.Default(int64(len(refs)), "chunks")
	res, err := merge.Sampled(params, total, refs, merge.SampledOptions{
		TopX: sampledTopX,
		Seed: sampledSeed,
		Progress: func(done, total int, ref chunkio.Ref) {
			_ = bar.Add(1)
		},
	})
	if err != nil {
		return err
	}

	out := sampledOut
	if out == "" {
		out = filepath.Join(dir, artifact.FileName(inst.Name, stabreduce.ArtifactSampled))
	}
	art := artifact.Build(inst.Name, stabreduce.ArtifactSampled, res, nil)
	if err := artifact.Write(out, art); err != nil {
		return err
	}
	fmt.Printf("Saved sampled artifact to: %s\n", out)

	recordRun(&ledger.Run{
		ID:         uuid.New().String(),
		Instance:   inst.Name,
		Kind:       stabreduce.ArtifactSampled,
		Output:     out,
		TopX:       sampledTopX,
		Seed:       sampledSeed,
		Summary:    res.Summary,
		FinishedAt: time.Now().UTC(),
	})
	return nil
}

// recordRun is best-effort: a ledger problem must not fail a merge whose
// artifact is already on disk.
func recordRun(run *ledger.Run) {
	ldg, err := openLedger()
	if err != nil {
		log.Printf("[LEDGER] Warning: failed to open ledger: %v", err)
		return
	}
	defer ldg.Close()
	if err := ldg.SaveRun(run); err != nil {
		log.Printf("[LEDGER] Warning: failed to record run: %v", err)
	}
}
