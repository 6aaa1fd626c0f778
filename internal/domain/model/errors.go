package model

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrZeroWidthBounds = errors.New("stat bounds have zero width")
	ErrNonFiniteBounds = errors.New("stat bounds are not finite")
	ErrFlatLength      = errors.New("flat weight buffer is not a multiple of 7")
)
