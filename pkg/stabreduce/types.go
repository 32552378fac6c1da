package stabreduce

// CodeParams identifies one loss-tolerance problem instance: a graph code
// on NQubits code qubits plus one input qubit, protected against the loss
// of any Distance qubits. All chunks and artifacts of an instance carry
// the same CodeParams.
type CodeParams struct {
	NQubits  int `json:"n_qbts"`
	Distance int `json:"distance"`
	InQubit  int `json:"in_qbt"`
}

// NewCodeParams validates and builds CodeParams. Supports are tracked as
// uint64 bitmasks, so codes above 63 qubits are rejected up front.
func NewCodeParams(nQubits, distance, inQubit int) (CodeParams, error) {
	if nQubits < 0 || nQubits > MaxQubits {
		return CodeParams{}, ErrTooManyQubits
	}
	if distance < 0 || distance > nQubits {
		return CodeParams{}, ErrInvalidDistance
	}
	if inQubit < 0 || inQubit > nQubits {
		return CodeParams{}, ErrInvalidInQubit
	}
	return CodeParams{NQubits: nQubits, Distance: distance, InQubit: inQubit}, nil
}

// MaxQubits is the largest supported code size. Loss-pattern subsets and
// strategy supports are uint64 bitmasks over the code qubits.
const MaxQubits = 63

// WordLength is the length of each Pauli word: one letter per code qubit
// plus one for the input qubit.
func (p CodeParams) WordLength() int { return p.NQubits + 1 }

// Chunk is the persisted output of one oracle invocation over a
// contiguous range of loss-pattern indices. RangeStart/RangeEnd are
// half-open. TotalPatterns and Params must agree across every chunk of
// an instance.
type Chunk struct {
	Instance      string     `json:"instance"`
	Params        CodeParams `json:"params"`
	RangeStart    int64      `json:"idx_min"`
	RangeEnd      int64      `json:"idx_max"`
	TotalPatterns int64      `json:"n_loss_patterns_total"`
	Strategies    []Strategy `json:"strats"`
}

// Validate checks a chunk's internal consistency after decoding.
func (c *Chunk) Validate() error {
	if _, err := NewCodeParams(c.Params.NQubits, c.Params.Distance, c.Params.InQubit); err != nil {
		return err
	}
	if c.RangeStart < 0 || c.RangeEnd < c.RangeStart || c.RangeEnd > c.TotalPatterns {
		return ErrInvalidChunkRange
	}
	want := c.Params.WordLength()
	for _, s := range c.Strategies {
		if len(s.PauliX) != want || len(s.PauliZ) != want {
			return ErrBadWordLength
		}
	}
	return nil
}

// ArtifactKind distinguishes the two consolidated outputs.
type ArtifactKind string

const (
	ArtifactExact   ArtifactKind = "exact"
	ArtifactSampled ArtifactKind = "sampled"
)

// Summary aggregates the non-fatal findings of one reducer run.
type Summary struct {
	ChunkFiles       int     `json:"chunk_files"`
	SkippedFiles     int     `json:"skipped_files"`
	UniqueStrategies int     `json:"unique_strategies"`
	MissingPatterns  int64   `json:"missing_patterns"`
	MissingSample    []int64 `json:"missing_sample,omitempty"`
	NoValidStrategy  int64   `json:"no_valid_strategy,omitempty"`
}

// Artifact is the consolidated, value-deduplicated strategy collection
// for one instance. Strategies holds the deduplicated set in first-seen
// order; Ordered is filled by the external decoder's ordering policy and
// may be empty when no orderer was wired in.
type Artifact struct {
	Instance      string       `json:"instance"`
	Kind          ArtifactKind `json:"kind"`
	Params        CodeParams   `json:"params"`
	TotalPatterns int64        `json:"n_loss_patterns_total"`
	Strategies    []Strategy   `json:"strats"`
	Ordered       []Strategy   `json:"strategies_ordered,omitempty"`
	Summary       Summary      `json:"summary"`
}
