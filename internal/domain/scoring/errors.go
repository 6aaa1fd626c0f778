package scoring

import "errors"

// ErrLengthMismatch is returned when a score buffer does not match its batch.
var ErrLengthMismatch = errors.New("score buffer length does not match player batch")
