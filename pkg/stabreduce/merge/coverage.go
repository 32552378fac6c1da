package merge

import "sort"

// missingSampleLimit caps how many missing indices a coverage report
// spells out.
const missingSampleLimit = 20

// coverage tracks which slices of [0, total) have been seen, as merged
// half-open intervals. The pattern space can run into the quintillions,
// so individual indices are never materialized.
type coverage struct {
	total int64
	spans []span
}

type span struct{ start, end int64 }

func newCoverage(total int64) *coverage {
	return &coverage{total: total}
}

// add records that [start, end) was covered by some chunk. Out-of-space
// portions are clipped; overlaps are fine.
func (c *coverage) add(start, end int64) {
	if start < 0 {
		start = 0
	}
	if end > c.total {
		end = c.total
	}
	if start >= end {
		return
	}
	c.spans = append(c.spans, span{start, end})
}

// missing returns the number of uncovered indices and a sample of the
// first few, for the end-of-run report.
func (c *coverage) missing() (count int64, sample []int64) {
	sorted := make([]span, len(c.spans))
	copy(sorted, c.spans)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	next := int64(0) // first index not yet known to be covered
	gap := func(from, to int64) {
		count += to - from
		for i := from; i < to && len(sample) < missingSampleLimit; i++ {
			sample = append(sample, i)
		}
	}

	for _, s := range sorted {
		if s.start > next {
			gap(next, s.start)
		}
		if s.end > next {
			next = s.end
		}
	}
	if next < c.total {
		gap(next, c.total)
	}
	return count, sample
}
