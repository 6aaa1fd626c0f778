package lattice

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidStep  = errors.New("invalid lattice step")
	ErrTooLarge     = errors.New("lattice too large to materialize")
	ErrInvalidRange = errors.New("invalid outer digit range")
)
