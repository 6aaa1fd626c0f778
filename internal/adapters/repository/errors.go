package repository

import "errors"

// ErrInvalidLimit is returned by TopN for a limit below one.
var ErrInvalidLimit = errors.New("invalid ranking limit")
