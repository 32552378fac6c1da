package chunkio

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"pkg.jsn.cam/stabreduce/pkg/stabreduce"
)

func testChunk(start, end int64) *stabreduce.Chunk {
	return &stabreduce.Chunk{
		Instance:      "5_1_2",
		Params:        stabreduce.CodeParams{NQubits: 5, Distance: 2},
		RangeStart:    start,
		RangeEnd:      end,
		TotalPatterns: 10,
		Strategies: []stabreduce.Strategy{
			{PauliX: "XIIIII", PauliZ: "IIIIII"},
			{PauliX: "IIIXYZ", PauliZ: "IIIIII"},
		},
	}
}

func TestFileNameRoundTrip(t *testing.T) {
	name := FileName("23_1_7", 1000, 2000)
	if name != "23_1_7_chunk_1000_2000.json" {
		t.Errorf("FileName = %s", name)
	}

	inst, start, end, ok := ParseFileName(name)
	if !ok {
		t.Fatal("ParseFileName rejected canonical name")
	}
	if inst != "23_1_7" || start != 1000 || end != 2000 {
		t.Errorf("ParseFileName = %s, %d, %d", inst, start, end)
	}
}

func TestParseFileNameRejects(t *testing.T) {
	for _, name := range []string{
		"23_1_7_chunk_1000_2000.npy",
		"23_1_7_1000_2000.json",
		"notes.txt",
		"23_1_7_chunk_a_b.json",
	} {
		if _, _, _, ok := ParseFileName(name); ok {
			t.Errorf("ParseFileName accepted %q", name)
		}
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	chunk := testChunk(0, 4)

	path, err := Write(dir, chunk)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if filepath.Base(path) != FileName("5_1_2", 0, 4) {
		t.Errorf("chunk written under %s", path)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !reflect.DeepEqual(got, chunk) {
		t.Errorf("round trip mismatch: got %+v", got)
	}
}

func TestWriteRejectsInvalidChunk(t *testing.T) {
	chunk := testChunk(0, 4)
	chunk.Strategies = []stabreduce.Strategy{{PauliX: "X", PauliZ: "I"}}
	if _, err := Write(t.TempDir(), chunk); !errors.Is(err, stabreduce.ErrBadWordLength) {
		t.Errorf("expected ErrBadWordLength, got %v", err)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	for _, r := range [][2]int64{{4, 8}, {0, 4}, {8, 10}} {
		if _, err := Write(dir, testChunk(r[0], r[1])); err != nil {
			t.Fatal(err)
		}
	}
	// Files Scan must ignore: other instances, non-chunk files.
	other := testChunk(0, 4)
	other.Instance = "13_1_5"
	other.Params = stabreduce.CodeParams{NQubits: 13, Distance: 5}
	other.TotalPatterns = 1287
	other.Strategies = nil
	if _, err := Write(dir, other); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	refs, err := Scan(dir, "5_1_2")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(refs) != 3 {
		t.Fatalf("Scan returned %d refs, want 3", len(refs))
	}
	for i, wantStart := range []int64{0, 4, 8} {
		if refs[i].Start != wantStart {
			t.Errorf("refs[%d].Start = %d, want %d", i, refs[i].Start, wantStart)
		}
	}
}

func TestRefLoadDetectsMismatch(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(dir, testChunk(0, 4))
	if err != nil {
		t.Fatal(err)
	}
	// Same contents filed under the wrong range.
	renamed := filepath.Join(dir, FileName("5_1_2", 4, 8))
	if err := os.Rename(path, renamed); err != nil {
		t.Fatal(err)
	}

	ref := Ref{Path: renamed, Instance: "5_1_2", Start: 4, End: 8}
	if _, err := ref.Load(); !errors.Is(err, stabreduce.ErrChunkFileMismatch) {
		t.Errorf("expected ErrChunkFileMismatch, got %v", err)
	}
}
