package ledger

import (
	"testing"
	"time"

	"pkg.jsn.cam/stabreduce/pkg/stabreduce"
	"pkg.jsn.cam/stabreduce/pkg/stabreduce/combin"
	"pkg.jsn.cam/stabreduce/pkg/stabreduce/submit"
	"pkg.jsn.cam/stabreduce/pkg/storage"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := New(storage.NewMemoryBackend())
	if err != nil {
		t.Fatalf("failed to create ledger: %v", err)
	}
	return l
}

func TestSavePlanAndList(t *testing.T) {
	l := testLedger(t)
	defer l.Close()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"b", "a", "c"} {
		plan := &submit.Plan{
			ID:        id,
			Instance:  "5_1_2",
			Total:     10,
			ChunkSize: 4,
			Ranges:    []combin.Range{{Start: 0, End: 4}},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := l.SavePlan(plan); err != nil {
			t.Fatalf("SavePlan failed: %v", err)
		}
	}

	plans, err := l.Plans()
	if err != nil {
		t.Fatalf("Plans failed: %v", err)
	}
	if len(plans) != 3 {
		t.Fatalf("got %d plans, want 3", len(plans))
	}
	// Oldest first, regardless of key order.
	for i, want := range []string{"b", "a", "c"} {
		if plans[i].ID != want {
			t.Errorf("plans[%d].ID = %s, want %s", i, plans[i].ID, want)
		}
	}
}

func TestSaveRunAndList(t *testing.T) {
	l := testLedger(t)
	defer l.Close()

	run := &Run{
		ID:       "run-1",
		Instance: "23_1_7",
		Kind:     stabreduce.ArtifactSampled,
		Output:   "chunks_23_1_7/23_1_7_strategies_sampled.json",
		TopX:     10,
		Seed:     42,
		Summary: stabreduce.Summary{
			ChunkFiles:       12,
			UniqueStrategies: 99,
		},
		FinishedAt: time.Now().UTC(),
	}
	if err := l.SaveRun(run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	runs, err := l.Runs()
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	got := runs[0]
	if got.ID != run.ID || got.Kind != run.Kind || got.Summary.UniqueStrategies != 99 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestSaveRunOverwriteSameID(t *testing.T) {
	l := testLedger(t)
	defer l.Close()

	for i := 0; i < 2; i++ {
		run := &Run{
			ID:         "run-1",
			Instance:   "5_1_2",
			Kind:       stabreduce.ArtifactExact,
			FinishedAt: time.Now().UTC(),
			Summary:    stabreduce.Summary{UniqueStrategies: i},
		}
		if err := l.SaveRun(run); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := l.Runs()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].Summary.UniqueStrategies != 1 {
		t.Error("rerun with the same id should overwrite the record")
	}
}
