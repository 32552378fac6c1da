package stabreduce

import (
	"errors"
	"testing"
)

func TestNewCodeParams(t *testing.T) {
	tests := []struct {
		name                       string
		nQubits, distance, inQubit int
		wantErr                    error
	}{
		{"valid", 5, 2, 0, nil},
		{"zero distance", 5, 0, 0, nil},
		{"distance equals qubits", 5, 5, 0, nil},
		{"negative qubits", -1, 0, 0, ErrTooManyQubits},
		{"too many qubits", 64, 2, 0, ErrTooManyQubits},
		{"distance above qubits", 5, 6, 0, ErrInvalidDistance},
		{"negative distance", 5, -1, 0, ErrInvalidDistance},
		{"input qubit out of range", 5, 2, 7, ErrInvalidInQubit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCodeParams(tt.nQubits, tt.distance, tt.inQubit)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewCodeParams error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestChunkValidate(t *testing.T) {
	params := CodeParams{NQubits: 5, Distance: 2}
	good := &Chunk{
		Instance:      "5_1_2",
		Params:        params,
		RangeStart:    0,
		RangeEnd:      4,
		TotalPatterns: 10,
		Strategies:    []Strategy{{PauliX: "XIIIII", PauliZ: "IIIIII"}},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate failed on good chunk: %v", err)
	}

	t.Run("range beyond total", func(t *testing.T) {
		c := *good
		c.RangeEnd = 11
		if !errors.Is(c.Validate(), ErrInvalidChunkRange) {
			t.Error("expected ErrInvalidChunkRange")
		}
	})

	t.Run("inverted range", func(t *testing.T) {
		c := *good
		c.RangeStart, c.RangeEnd = 4, 2
		if !errors.Is(c.Validate(), ErrInvalidChunkRange) {
			t.Error("expected ErrInvalidChunkRange")
		}
	})

	t.Run("short word", func(t *testing.T) {
		c := *good
		c.Strategies = []Strategy{{PauliX: "XII", PauliZ: "III"}}
		if !errors.Is(c.Validate(), ErrBadWordLength) {
			t.Error("expected ErrBadWordLength")
		}
	})
}
