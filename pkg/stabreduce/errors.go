package stabreduce

import "errors"

// Sentinel errors for common error conditions
var (
	// Configuration errors: raised before any work is dispatched or written
	ErrUnknownInstance  = errors.New("unknown instance")
	ErrInvalidChunkSize = errors.New("chunk size must be positive")
	ErrInvalidTopX      = errors.New("top-x must be positive")
	ErrTooManyQubits    = errors.New("qubit count out of supported range")
	ErrInvalidDistance  = errors.New("distance out of range")
	ErrInvalidInQubit   = errors.New("input qubit index out of range")

	// Enumeration errors
	ErrPatternCountOverflow = errors.New("loss pattern count overflows int64")
	ErrPatternIndexRange    = errors.New("loss pattern index out of range")

	// Chunk/merge errors
	ErrNoChunks           = errors.New("no chunk files found")
	ErrInconsistentChunks = errors.New("inconsistent chunk metadata")
	ErrInvalidChunkRange  = errors.New("chunk range outside pattern space")
	ErrBadWordLength      = errors.New("pauli word has wrong length")
	ErrChunkFileMismatch  = errors.New("chunk file name does not match contents")
)
