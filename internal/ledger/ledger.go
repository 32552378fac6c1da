// Package ledger keeps a local record of submitted plans and completed
// merge runs, so operators can see what was dispatched against which
// instance and what each merge produced.
package ledger

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"pkg.jsn.cam/stabreduce/pkg/stabreduce"
	"pkg.jsn.cam/stabreduce/pkg/stabreduce/submit"
	"pkg.jsn.cam/stabreduce/pkg/storage"
)

var (
	bucketPlans = []byte("plans")
	bucketRuns  = []byte("runs")
)

// Run records one completed reducer run.
type Run struct {
	ID         string                  `json:"id"`
	Instance   string                  `json:"instance"`
	Kind       stabreduce.ArtifactKind `json:"kind"`
	Output     string                  `json:"output"`
	TopX       int                     `json:"top_x,omitempty"`
	Seed       int64                   `json:"seed,omitempty"`
	Summary    stabreduce.Summary      `json:"summary"`
	FinishedAt time.Time               `json:"finished_at"`
}

// Ledger wraps a storage backend with plan/run bookkeeping.
type Ledger struct {
	backend storage.Backend
}

// Open opens (or creates) a bbolt-backed ledger at path.
func Open(path string) (*Ledger, error) {
	backend, err := storage.NewBboltBackend(path)
	if err != nil {
		return nil, err
	}
	return New(backend)
}

// New builds a ledger on top of an existing backend. Used directly in
// tests with the memory backend.
func New(backend storage.Backend) (*Ledger, error) {
	for _, bucket := range [][]byte{bucketPlans, bucketRuns} {
		if err := backend.CreateBucket(bucket); err != nil {
			return nil, fmt.Errorf("failed to create ledger bucket %s: %w", bucket, err)
		}
	}
	return &Ledger{backend: backend}, nil
}

// SavePlan records a submitted plan.
func (l *Ledger) SavePlan(p *submit.Plan) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	return l.backend.Put(bucketPlans, []byte(p.ID), data)
}

// Plans returns all recorded plans, oldest first.
func (l *Ledger) Plans() ([]*submit.Plan, error) {
	var plans []*submit.Plan
	err := l.backend.ForEach(bucketPlans, func(k, v []byte) error {
		var p submit.Plan
		if err := json.Unmarshal(v, &p); err != nil {
			return fmt.Errorf("failed to decode plan %s: %w", k, err)
		}
		plans = append(plans, &p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].CreatedAt.Before(plans[j].CreatedAt) })
	return plans, nil
}

// SaveRun records a completed merge run.
func (l *Ledger) SaveRun(r *Run) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}
	return l.backend.Put(bucketRuns, []byte(r.ID), data)
}

// Runs returns all recorded runs, oldest first.
func (l *Ledger) Runs() ([]*Run, error) {
	var runs []*Run
	err := l.backend.ForEach(bucketRuns, func(k, v []byte) error {
		var r Run
		if err := json.Unmarshal(v, &r); err != nil {
			return fmt.Errorf("failed to decode run %s: %w", k, err)
		}
		runs = append(runs, &r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].FinishedAt.Before(runs[j].FinishedAt) })
	return runs, nil
}

// Close closes the underlying backend.
func (l *Ledger) Close() error {
	return l.backend.Close()
}
