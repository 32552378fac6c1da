package stabreduce

// Strategy is one recovery strategy: a pair of Pauli words of length
// NQubits+1 over {I, X, Y, Z}. Position 0 is the input qubit, positions
// 1..NQubits are the code qubits. Strategies are compared and
// deduplicated by value: two strategies are the same iff both words
// match letter for letter.
type Strategy struct {
	PauliX string `json:"pauli_x"`
	PauliZ string `json:"pauli_z"`
}

// Neutral is the identity letter of the Pauli alphabet.
const Neutral = 'I'

// Support returns the set of code qubits (0-based bitmask) on which both
// words act as identity. These are the qubits the strategy tolerates
// losing, so a strategy is valid for a loss pattern iff its support is a
// superset of the pattern.
func (s Strategy) Support(nQubits int) uint64 {
	var mask uint64
	for q := 1; q <= nQubits; q++ {
		if s.PauliX[q] == Neutral && s.PauliZ[q] == Neutral {
			mask |= 1 << uint(q-1)
		}
	}
	return mask
}

// Covers reports whether the strategy tolerates losing every qubit in
// the given pattern mask.
func (s Strategy) Covers(nQubits int, pattern uint64) bool {
	return s.Support(nQubits)&pattern == pattern
}

// Weight is the measurement weight: the number of non-identity positions
// of the combined measurement word, which takes PauliX's letter unless
// it is identity, in which case PauliZ's is used. The subtraction base
// is NQubits even though NQubits+1 positions are scanned; existing chunk
// artifacts were produced with exactly this arithmetic, so it is kept
// bit for bit (an all-identity pair comes out as -1).
func (s Strategy) Weight(nQubits int) int {
	identity := 0
	for q := 0; q <= nQubits; q++ {
		c := s.PauliX[q]
		if c == Neutral {
			c = s.PauliZ[q]
		}
		if c == Neutral {
			identity++
		}
	}
	return nQubits - identity
}
