// Package artifact builds and persists consolidated artifacts. The
// builder's whole contract is to hand over a value-deduplicated strategy
// collection plus the parameters the external decoder needs to rebuild
// everything else; the ordering policy itself belongs to the decoder.
package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/natefinch/atomic"

	"pkg.jsn.cam/stabreduce/pkg/stabreduce"
	"pkg.jsn.cam/stabreduce/pkg/stabreduce/merge"
)

// Orderer is the external decoder's ordering policy over a deduplicated
// strategy set. Implementations must not mutate the input slice.
type Orderer interface {
	Order(strategies []stabreduce.Strategy) []stabreduce.Strategy
}

// Passthrough keeps the first-seen merge order. Used when no external
// decoder is wired in.
type Passthrough struct{}

func (Passthrough) Order(strategies []stabreduce.Strategy) []stabreduce.Strategy {
	return strategies
}

// Build assembles an artifact from a completed reducer run. All fields
// are supplied at once; an artifact never exists in a partially
// initialized state.
func Build(instance string, kind stabreduce.ArtifactKind, res *merge.Result, ord Orderer) *stabreduce.Artifact {
	if ord == nil {
		ord = Passthrough{}
	}
	return &stabreduce.Artifact{
		Instance:      instance,
		Kind:          kind,
		Params:        res.Params,
		TotalPatterns: res.TotalPatterns,
		Strategies:    res.Strategies,
		Ordered:       ord.Order(res.Strategies),
		Summary:       res.Summary,
	}
}

// FileName is the canonical artifact name for an instance and kind.
func FileName(instance string, kind stabreduce.ArtifactKind) string {
	if kind == stabreduce.ArtifactSampled {
		return fmt.Sprintf("%s_strategies_sampled.json", instance)
	}
	return fmt.Sprintf("%s_strategies.json", instance)
}

// Write persists the artifact all-or-nothing: the data is staged and
// renamed into place, so an aborted run never leaves a partial file.
func Write(path string, a *stabreduce.Artifact) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	return nil
}

// Read loads a persisted artifact.
func Read(path string) (*stabreduce.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var a stabreduce.Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode artifact %s: %w", path, err)
	}
	return &a, nil
}
