// Package combin holds the pure arithmetic behind chunk planning: exact
// binomial totals, the canonical lexicographic enumeration of loss
// patterns, and the partitioning of the pattern space into contiguous
// half-open ranges.
package combin

import (
	"math/big"

	"pkg.jsn.cam/stabreduce/pkg/stabreduce"
)

// Total is the exact number of Distance-element subsets of NQubits code
// qubits, C(n, d). Exact for any n; never approximated.
func Total(n, d int) *big.Int {
	if n < 0 || d < 0 || d > n {
		return big.NewInt(0)
	}
	return new(big.Int).Binomial(int64(n), int64(d))
}

// TotalInt64 narrows Total to int64, which is what range planning and
// chunk metadata use. Fails with ErrPatternCountOverflow when the count
// does not fit.
func TotalInt64(n, d int) (int64, error) {
	t := Total(n, d)
	if !t.IsInt64() {
		return 0, stabreduce.ErrPatternCountOverflow
	}
	return t.Int64(), nil
}

// binom is a precomputed Pascal triangle for n <= MaxQubits. Every entry
// fits in int64 (C(63, 31) < 2^63).
var binom [stabreduce.MaxQubits + 1][stabreduce.MaxQubits + 1]int64

func init() {
	for n := 0; n <= stabreduce.MaxQubits; n++ {
		binom[n][0] = 1
		for k := 1; k <= n; k++ {
			binom[n][k] = binom[n-1][k-1] + binom[n-1][k]
		}
	}
}

// Unrank returns the k-th d-element subset of {0..n-1} in lexicographic
// order. This bijection is the canonical pattern enumeration: the oracle
// and both reducers must derive identical subsets for the same index.
func Unrank(n, d int, k int64) ([]int, error) {
	if n < 0 || n > stabreduce.MaxQubits || d < 0 || d > n {
		return nil, stabreduce.ErrInvalidDistance
	}
	if k < 0 || k >= binom[n][d] {
		return nil, stabreduce.ErrPatternIndexRange
	}
	subset := make([]int, d)
	elem := 0
	for i := 0; i < d; i++ {
		for {
			// Subsets whose next element is elem all share the
			// C(n-elem-1, d-i-1) completions of the remaining slots.
			count := binom[n-elem-1][d-i-1]
			if k < count {
				break
			}
			k -= count
			elem++
		}
		subset[i] = elem
		elem++
	}
	return subset, nil
}

// UnrankMask is Unrank with the subset returned as a bitmask over the
// code qubits.
func UnrankMask(n, d int, k int64) (uint64, error) {
	subset, err := Unrank(n, d, k)
	if err != nil {
		return 0, err
	}
	var mask uint64
	for _, q := range subset {
		mask |= 1 << uint(q)
	}
	return mask, nil
}

// Rank is the inverse of Unrank: the lexicographic index of a strictly
// increasing d-element subset of {0..n-1}.
func Rank(n, d int, subset []int) (int64, error) {
	if n < 0 || n > stabreduce.MaxQubits || d < 0 || d > n || len(subset) != d {
		return 0, stabreduce.ErrInvalidDistance
	}
	var k int64
	prev := -1
	for i, q := range subset {
		if q <= prev || q >= n {
			return 0, stabreduce.ErrPatternIndexRange
		}
		for elem := prev + 1; elem < q; elem++ {
			k += binom[n-elem-1][d-i-1]
		}
		prev = q
	}
	return k, nil
}

// Range is one contiguous half-open slice [Start, End) of the pattern
// space, sized for a single oracle invocation.
type Range struct {
	Start int64 `json:"idx_min"`
	End   int64 `json:"idx_max"`
}

// Len is the number of patterns in the range.
func (r Range) Len() int64 { return r.End - r.Start }

// PlanChunks partitions [0, total) into ranges of chunkSize patterns.
// The ranges are contiguous, non-overlapping, cover the space exactly,
// and only the last may be shorter. chunkSize must be positive.
func PlanChunks(total, chunkSize int64) ([]Range, error) {
	if chunkSize <= 0 {
		return nil, stabreduce.ErrInvalidChunkSize
	}
	if total < 0 {
		return nil, stabreduce.ErrPatternIndexRange
	}
	ranges := make([]Range, 0, total/chunkSize+1)
	for start := int64(0); start < total; start += chunkSize {
		end := start + chunkSize
		if end > total {
			end = total
		}
		ranges = append(ranges, Range{Start: start, End: end})
	}
	return ranges, nil
}
