package comsol

import (
	"errors"
	"fmt"
)

var (
	// ErrNonZeroBaseIndex marks files whose lowest mesh point index is not 0.
	ErrNonZeroBaseIndex = errors.New("unsupported mesh: lowest mesh point index is not 0")
	// ErrElementCountMismatch marks element sets whose geometric index count
	// differs from their element count.
	ErrElementCountMismatch = errors.New("geometric index count and element count differ")
)

// IOError reports an input that could not be opened or read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("unable to read %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
