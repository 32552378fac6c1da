package merge

import (
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/seehuhn/mt19937"

	"pkg.jsn.cam/stabreduce/pkg/stabreduce"
	"pkg.jsn.cam/stabreduce/pkg/stabreduce/chunkio"
	"pkg.jsn.cam/stabreduce/pkg/stabreduce/combin"
)

// SampledOptions tunes the sampled merge.
type SampledOptions struct {
	// TopX is how many of the lightest valid strategies per pattern
	// are eligible for the random pick. Zero means DefaultTopX.
	TopX int
	// Seed initializes the single random source all picks are drawn
	// from. Identical chunk set + seed + top-x reproduces the output
	// byte for byte.
	Seed int64
	// Progress, if set, is called after each chunk file is resolved.
	Progress func(done, total int, ref chunkio.Ref)
}

// Defaults matching the cluster scripts this pipeline grew out of.
const (
	DefaultTopX = 10
	DefaultSeed = 42
)

// accumulator is the run state the sampled merge threads through each
// chunk step. It is bounded by the size of the pattern space, never by
// the total strategy volume.
type accumulator struct {
	params   stabreduce.CodeParams
	selected map[stabreduce.Strategy]struct{}
	order    []stabreduce.Strategy
	cov      *coverage
	noValid  int64
}

// Sampled resolves every pattern to at most one strategy while holding
// at most one chunk's bulk data in memory. Chunks are processed strictly
// one at a time in ascending range order; a pattern only ever sees the
// strategies of the chunk that owns its range, never strategies found in
// other chunks, even when those would also be valid. That locality
// restriction is intentional and keeps reruns reproducible.
//
// Unreadable or mismatched chunk files are skipped with a log line so a
// single bad file cannot throw away the progress accumulated so far.
func Sampled(params stabreduce.CodeParams, total int64, refs []chunkio.Ref, opts SampledOptions) (*Result, error) {
	if len(refs) == 0 {
		return nil, stabreduce.ErrNoChunks
	}
	topX := opts.TopX
	if topX == 0 {
		topX = DefaultTopX
	}
	if topX < 0 {
		return nil, stabreduce.ErrInvalidTopX
	}

	// One Mersenne Twister for the whole run, consumed in a fixed
	// chunk-then-pattern order.
	mt := mt19937.New()
	mt.Seed(opts.Seed)
	rng := rand.New(mt)

	acc := &accumulator{
		params:   params,
		selected: make(map[stabreduce.Strategy]struct{}),
		cov:      newCoverage(total),
	}
	skipped := 0
	started := time.Now()

	for i, ref := range refs {
		chunkStart := time.Now()
		c, err := ref.Load()
		if err != nil {
			log.Printf("[SAMPLE] Skipping unreadable chunk file %s: %v", ref.Path, err)
			skipped++
			continue
		}
		if c.Params != params || c.TotalPatterns != total {
			log.Printf("[SAMPLE] Skipping chunk %s: metadata disagrees with instance", ref.Path)
			skipped++
			continue
		}

		before := len(acc.order)
		if err := acc.processChunk(c, rng, topX); err != nil {
			return nil, err
		}

		log.Printf("[SAMPLE] %d/%d %s: patterns [%d, %d), %d strategies in chunk, %d new selected (%s, %v)",
			i+1, len(refs), ref.Path, c.RangeStart, c.RangeEnd, len(c.Strategies),
			len(acc.order)-before, humanize.Bytes(uint64(ref.Size())),
			time.Since(chunkStart).Round(time.Millisecond))

		if opts.Progress != nil {
			opts.Progress(i+1, len(refs), ref)
		}
		// Chunk bulk data is released here; nothing below retains c.
	}

	missing, sample := acc.cov.missing()
	if missing > 0 {
		log.Printf("[SAMPLE] WARNING: %d patterns not covered by any chunk (first %d: %v)",
			missing, len(sample), sample)
	} else {
		log.Printf("[SAMPLE] All %d patterns are covered", total)
	}
	log.Printf("[SAMPLE] Patterns with no valid strategy: %d", acc.noValid)
	log.Printf("[SAMPLE] %d unique strategies selected in %v",
		len(acc.order), time.Since(started).Round(time.Millisecond))

	return &Result{
		Params:        params,
		TotalPatterns: total,
		Strategies:    acc.order,
		Summary: stabreduce.Summary{
			ChunkFiles:       len(refs),
			SkippedFiles:     skipped,
			UniqueStrategies: len(acc.order),
			MissingPatterns:  missing,
			MissingSample:    sample,
			NoValidStrategy:  acc.noValid,
		},
	}, nil
}

// candidate pairs a strategy's weight with its discovery index inside
// the chunk.
type candidate struct {
	weight int
	idx    int
}

// processChunk resolves every pattern the chunk owns. Supports and
// weights are computed once per strategy; the per-pattern work is a
// bitmask filter, a stable sort by weight (ties keep discovery order)
// and one draw from the rng.
func (acc *accumulator) processChunk(c *stabreduce.Chunk, rng *rand.Rand, topX int) error {
	n := acc.params.NQubits
	d := acc.params.Distance

	supports := make([]uint64, len(c.Strategies))
	weights := make([]int, len(c.Strategies))
	for i, s := range c.Strategies {
		supports[i] = s.Support(n)
		weights[i] = s.Weight(n)
	}

	acc.cov.add(c.RangeStart, c.RangeEnd)

	valid := make([]candidate, 0, len(c.Strategies))
	for k := c.RangeStart; k < c.RangeEnd; k++ {
		pattern, err := combin.UnrankMask(n, d, k)
		if err != nil {
			return err
		}

		valid = valid[:0]
		for i := range supports {
			if supports[i]&pattern == pattern {
				valid = append(valid, candidate{weight: weights[i], idx: i})
			}
		}
		if len(valid) == 0 {
			acc.noValid++
			continue
		}

		sort.SliceStable(valid, func(a, b int) bool { return valid[a].weight < valid[b].weight })
		top := topX
		if len(valid) < top {
			top = len(valid)
		}
		chosen := c.Strategies[valid[rng.Intn(top)].idx]
		if _, dup := acc.selected[chosen]; !dup {
			acc.selected[chosen] = struct{}{}
			acc.order = append(acc.order, chosen)
		}
	}
	return nil
}
