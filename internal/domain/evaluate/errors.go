package evaluate

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrLengthMismatch = errors.New("score set length does not match player batch")
	ErrMissingOutcome = errors.New("player record has no outcome")
)
