package merge

import (
	"testing"

	"pkg.jsn.cam/stabreduce/pkg/stabreduce"
	"pkg.jsn.cam/stabreduce/pkg/stabreduce/chunkio"
	"pkg.jsn.cam/stabreduce/pkg/stabreduce/combin"
)

var (
	params5 = stabreduce.CodeParams{NQubits: 5, Distance: 2} // 10 patterns
	params6 = stabreduce.CodeParams{NQubits: 6, Distance: 2} // 15 patterns
)

// coveringStrategy builds a strategy whose support is exactly pattern
// k's subset, so it is valid for pattern k and nothing else. Different
// tags give different word contents.
func coveringStrategy(t *testing.T, params stabreduce.CodeParams, k int64, tag int) stabreduce.Strategy {
	t.Helper()
	subset, err := combin.Unrank(params.NQubits, params.Distance, k)
	if err != nil {
		t.Fatalf("Unrank failed: %v", err)
	}
	inSubset := make(map[int]bool, len(subset))
	for _, q := range subset {
		inSubset[q+1] = true
	}

	letters := []byte("XYZ")
	x := make([]byte, params.WordLength())
	z := make([]byte, params.WordLength())
	for i := range x {
		x[i], z[i] = 'I', 'I'
	}
	x[0] = letters[(tag/3)%3]
	for i := 1; i <= params.NQubits; i++ {
		if !inSubset[i] {
			x[i] = letters[tag%3]
		}
	}
	return stabreduce.Strategy{PauliX: string(x), PauliZ: string(z)}
}

func chunk(params stabreduce.CodeParams, total, start, end int64, strats ...stabreduce.Strategy) *stabreduce.Chunk {
	instance := "5_1_2"
	if params == params6 {
		instance = "6_1_2"
	}
	return &stabreduce.Chunk{
		Instance:      instance,
		Params:        params,
		RangeStart:    start,
		RangeEnd:      end,
		TotalPatterns: total,
		Strategies:    strats,
	}
}

// writeRefs persists the chunks into a fresh directory and returns the
// scanned refs, sorted the way the reducers consume them.
func writeRefs(t *testing.T, chunks ...*stabreduce.Chunk) []chunkio.Ref {
	t.Helper()
	dir := t.TempDir()
	for _, c := range chunks {
		if _, err := chunkio.Write(dir, c); err != nil {
			t.Fatalf("failed to write chunk [%d, %d): %v", c.RangeStart, c.RangeEnd, err)
		}
	}
	refs, err := chunkio.Scan(dir, chunks[0].Instance)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	return refs
}

func strategySet(strats []stabreduce.Strategy) map[stabreduce.Strategy]struct{} {
	set := make(map[stabreduce.Strategy]struct{}, len(strats))
	for _, s := range strats {
		set[s] = struct{}{}
	}
	return set
}
