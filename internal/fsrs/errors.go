package fsrs

import "errors"

// Sentinel errors. Check with errors.Is.
var (
	ErrInvalidRating     = errors.New("fsrs: invalid rating")
	ErrInvalidMemory     = errors.New("fsrs: invalid memory state")
	ErrInvalidParameters = errors.New("fsrs: parameters out of bounds")
)
