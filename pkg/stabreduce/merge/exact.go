// Package merge implements the two reduction passes over chunk
// artifacts: the exact deduplicating merge and the memory-bounded
// sampled merge.
package merge

import (
	"context"
	"fmt"
	"log"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"pkg.jsn.cam/stabreduce/pkg/stabreduce"
	"pkg.jsn.cam/stabreduce/pkg/stabreduce/chunkio"
)

// Result is the output of either reducer: the deduplicated strategy
// collection plus the metadata the artifact builder needs.
type Result struct {
	Params        stabreduce.CodeParams
	TotalPatterns int64
	Strategies    []stabreduce.Strategy
	Summary       stabreduce.Summary
}

// ExactOptions tunes the exact merge.
type ExactOptions struct {
	// Parallelism bounds how many chunk files are loaded at once.
	// Zero means defaultParallelism. The merge step itself is always
	// serialized in ascending range order.
	Parallelism int
}

const defaultParallelism = 4

// Exact merges all chunks of one instance into a single deduplicated
// strategy set. Duplicate values are dropped silently (first occurrence
// wins); the resulting set is independent of processing order. Chunks
// reporting mismatched parameters or totals abort the merge before
// anything is written. Uncovered pattern ranges are a warning, not an
// error: partial coverage is a normal intermediate state while cluster
// jobs are still running.
func Exact(ctx context.Context, refs []chunkio.Ref, opts ExactOptions) (*Result, error) {
	if len(refs) == 0 {
		return nil, stabreduce.ErrNoChunks
	}

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}

	// Load in parallel, index-addressed so the merge below can walk
	// the chunks in ascending range order regardless of load timing.
	chunks := make([]*stabreduce.Chunk, len(refs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(parallelism)
	for i, ref := range refs {
		i, ref := i, ref
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := ref.Load()
			if err != nil {
				return err
			}
			chunks[i] = c
			log.Printf("[MERGE] Loaded %s: patterns [%d, %d), %d strategies (%s)",
				ref.Path, c.RangeStart, c.RangeEnd, len(c.Strategies),
				humanize.Bytes(uint64(ref.Size())))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	first := chunks[0]
	seen := make(map[stabreduce.Strategy]struct{})
	unique := make([]stabreduce.Strategy, 0)
	cov := newCoverage(first.TotalPatterns)

	for _, c := range chunks {
		if c.Params != first.Params || c.TotalPatterns != first.TotalPatterns {
			return nil, fmt.Errorf("%w: %s_chunk_%d_%d disagrees with %s_chunk_%d_%d",
				stabreduce.ErrInconsistentChunks,
				c.Instance, c.RangeStart, c.RangeEnd,
				first.Instance, first.RangeStart, first.RangeEnd)
		}
		cov.add(c.RangeStart, c.RangeEnd)
		for _, s := range c.Strategies {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			unique = append(unique, s)
		}
	}

	missing, sample := cov.missing()
	if missing > 0 {
		log.Printf("[MERGE] WARNING: %d patterns not covered by any chunk (first %d: %v)",
			missing, len(sample), sample)
	} else {
		log.Printf("[MERGE] All %d patterns are covered", first.TotalPatterns)
	}
	log.Printf("[MERGE] %d unique strategies from %d chunks", len(unique), len(chunks))

	return &Result{
		Params:        first.Params,
		TotalPatterns: first.TotalPatterns,
		Strategies:    unique,
		Summary: stabreduce.Summary{
			ChunkFiles:       len(refs),
			UniqueStrategies: len(unique),
			MissingPatterns:  missing,
			MissingSample:    sample,
		},
	}, nil
}
