// Package submit turns an instance and a chunk size into a batch
// scheduler job array: one independent, idempotent oracle task per
// planned pattern range. Everything here is validated before anything
// is dispatched, and dry-run mode prints the plan without touching the
// scheduler.
package submit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"pkg.jsn.cam/stabreduce/pkg/stabreduce/combin"
	"pkg.jsn.cam/stabreduce/pkg/stabreduce/registry"
)

// Plan maps every array task index to one pattern range. The mapping is
// a pure function of the total pattern count and the chunk size, so a
// rerun of any subset of tasks recomputes exactly the same chunks.
type Plan struct {
	ID        string         `json:"id"`
	Instance  string         `json:"instance"`
	NQubits   int            `json:"n_qbts"`
	Distance  int            `json:"distance"`
	Total     int64          `json:"n_loss_patterns_total"`
	ChunkSize int64          `json:"chunk_size"`
	Ranges    []combin.Range `json:"ranges"`
	CreatedAt time.Time      `json:"created_at"`
}

// BuildPlan computes the job plan for an instance. Fails before any
// dispatch on a non-positive chunk size or an unrepresentable pattern
// count.
func BuildPlan(inst registry.Instance, chunkSize int64) (*Plan, error) {
	if _, err := inst.Params(); err != nil {
		return nil, err
	}
	total, err := combin.TotalInt64(inst.NQubits, inst.Distance)
	if err != nil {
		return nil, err
	}
	ranges, err := combin.PlanChunks(total, chunkSize)
	if err != nil {
		return nil, err
	}
	return &Plan{
		ID:        uuid.New().String(),
		Instance:  inst.Name,
		NQubits:   inst.NQubits,
		Distance:  inst.Distance,
		Total:     total,
		ChunkSize: chunkSize,
		Ranges:    ranges,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Options configures script generation and submission.
type Options struct {
	ChunkDir  string // where array tasks write their chunk files
	OracleCmd string // oracle binary; invoked as "<cmd> <instance> <idx_min> <idx_max>"
	Partition string
	Account   string
	TimeLimit string
	MemPerCPU string
	DryRun    bool
	Stdout    io.Writer // dry-run output; defaults to os.Stdout
}

const (
	defaultOracleCmd = "stabcompute"
	defaultPartition = "compute"
	defaultTimeLimit = "3-0:00:00"
	defaultMemPerCPU = "4G"
)

func (o *Options) fillDefaults(instance string) {
	if o.ChunkDir == "" {
		o.ChunkDir = "chunks_" + instance
	}
	if o.OracleCmd == "" {
		o.OracleCmd = defaultOracleCmd
	}
	if o.Partition == "" {
		o.Partition = defaultPartition
	}
	if o.TimeLimit == "" {
		o.TimeLimit = defaultTimeLimit
	}
	if o.MemPerCPU == "" {
		o.MemPerCPU = defaultMemPerCPU
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
}

// Each array task derives its own range from the task id, capped at the
// total, so the script stays valid even if the scheduler reruns a task.
var scriptTemplate = template.Must(template.New("batch").Parse(`#!/bin/bash
#SBATCH -J stab_{{.Plan.Instance}}
#SBATCH -p {{.Opts.Partition}}
#SBATCH -n 1
#SBATCH -N 1
#SBATCH -t {{.Opts.TimeLimit}}
#SBATCH --mem-per-cpu {{.Opts.MemPerCPU}}
{{- if .Opts.Account}}
#SBATCH --account {{.Opts.Account}}
{{- end}}
#SBATCH --requeue
#SBATCH -o {{.Opts.ChunkDir}}/%a_stabilizer.out
#SBATCH -e {{.Opts.ChunkDir}}/%a_stabilizer.err

echo "Job Id: $SLURM_JOB_ID"
echo "Array Task Id: $SLURM_ARRAY_TASK_ID"

IDX_MIN=$((SLURM_ARRAY_TASK_ID * {{.Plan.ChunkSize}}))
IDX_MAX=$(( (SLURM_ARRAY_TASK_ID + 1) * {{.Plan.ChunkSize}}))

if [ $IDX_MAX -gt {{.Plan.Total}} ]; then
    IDX_MAX={{.Plan.Total}}
fi

echo "Processing loss patterns [$IDX_MIN, $IDX_MAX)"

cd {{.Opts.ChunkDir}}
{{.Opts.OracleCmd}} {{.Plan.Instance}} $IDX_MIN $IDX_MAX
`))

// Script renders the batch script for a plan.
func Script(p *Plan, opts Options) (string, error) {
	opts.fillDefaults(p.Instance)
	var buf bytes.Buffer
	err := scriptTemplate.Execute(&buf, struct {
		Plan *Plan
		Opts Options
	}{p, opts})
	if err != nil {
		return "", fmt.Errorf("failed to render batch script: %w", err)
	}
	return buf.String(), nil
}

// Submit writes the batch script and hands it to sbatch as a job array
// with one task per planned range. In dry-run mode the script and the
// would-be array bounds are printed instead and nothing is written.
func Submit(ctx context.Context, p *Plan, opts Options) error {
	opts.fillDefaults(p.Instance)

	script, err := Script(p, opts)
	if err != nil {
		return err
	}
	arrayArg := fmt.Sprintf("--array=0-%d", len(p.Ranges)-1)

	if opts.DryRun {
		fmt.Fprintf(opts.Stdout, "--- Batch Script ---\n%s\n", script)
		fmt.Fprintf(opts.Stdout, "Would submit: sbatch %s (%d jobs)\n", arrayArg, len(p.Ranges))
		return nil
	}

	if err := os.MkdirAll(opts.ChunkDir, 0o755); err != nil {
		return fmt.Errorf("failed to create chunk directory: %w", err)
	}
	scriptPath := filepath.Join(opts.ChunkDir, "submit_stabilizer.batch")
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return fmt.Errorf("failed to write batch script: %w", err)
	}
	log.Printf("[PLAN] Batch script written to %s", scriptPath)

	cmd := exec.CommandContext(ctx, "sbatch", arrayArg)
	cmd.Stdin = strings.NewReader(script)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("sbatch failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	log.Printf("[PLAN] %s (%d jobs)", strings.TrimSpace(string(out)), len(p.Ranges))
	return nil
}
