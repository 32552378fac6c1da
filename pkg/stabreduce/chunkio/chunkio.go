// Package chunkio reads and writes chunk artifacts: one JSON file per
// oracle invocation, named deterministically from the instance and the
// half-open pattern range it covers.
package chunkio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/natefinch/atomic"

	"pkg.jsn.cam/stabreduce/pkg/stabreduce"
)

// FileName is the canonical chunk file name for a range. The same
// {instance, start, end} always maps to the same name, so reruns of a
// range overwrite their own output.
func FileName(instance string, start, end int64) string {
	return fmt.Sprintf("%s_chunk_%d_%d.json", instance, start, end)
}

var chunkNameRe = regexp.MustCompile(`^(.+)_chunk_(\d+)_(\d+)\.json$`)

// ParseFileName extracts {instance, start, end} from a chunk file name.
// ok is false for files that are not chunk artifacts.
func ParseFileName(name string) (instance string, start, end int64, ok bool) {
	m := chunkNameRe.FindStringSubmatch(name)
	if m == nil {
		return "", 0, 0, false
	}
	start, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return "", 0, 0, false
	}
	end, err = strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return "", 0, 0, false
	}
	return m[1], start, end, true
}

// Write persists a chunk into dir under its canonical name. The write is
// atomic: a partially written chunk file is never observable.
func Write(dir string, c *stabreduce.Chunk) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}

	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode chunk: %w", err)
	}

	path := filepath.Join(dir, FileName(c.Instance, c.RangeStart, c.RangeEnd))
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to write chunk file: %w", err)
	}
	return path, nil
}

// Read loads and validates a chunk file.
func Read(path string) (*stabreduce.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c stabreduce.Chunk
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode chunk file %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("chunk file %s: %w", path, err)
	}
	return &c, nil
}

// Ref points at one chunk file without loading its bulk data.
type Ref struct {
	Path     string
	Instance string
	Start    int64
	End      int64
}

// Load reads the referenced chunk and cross-checks the file contents
// against the name the file was found under.
func (r Ref) Load() (*stabreduce.Chunk, error) {
	c, err := Read(r.Path)
	if err != nil {
		return nil, err
	}
	if c.Instance != r.Instance || c.RangeStart != r.Start || c.RangeEnd != r.End {
		return nil, fmt.Errorf("%w: %s", stabreduce.ErrChunkFileMismatch, r.Path)
	}
	return c, nil
}

// Size returns the referenced file's size in bytes, or 0 if it cannot
// be stat'ed.
func (r Ref) Size() int64 {
	info, err := os.Stat(r.Path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Scan lists the chunk files for an instance in dir, sorted by range
// start then path. Files that do not match the chunk naming scheme are
// ignored.
func Scan(dir, instance string) ([]Ref, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read chunk directory: %w", err)
	}

	var refs []Ref
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		inst, start, end, ok := ParseFileName(entry.Name())
		if !ok || inst != instance {
			continue
		}
		refs = append(refs, Ref{
			Path:     filepath.Join(dir, entry.Name()),
			Instance: inst,
			Start:    start,
			End:      end,
		})
	}

	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Start != refs[j].Start {
			return refs[i].Start < refs[j].Start
		}
		return refs[i].Path < refs[j].Path
	})
	return refs, nil
}
