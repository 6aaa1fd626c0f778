package worker

import "errors"

// ErrNotStarted is returned by Pool.Wait before Start.
var ErrNotStarted = errors.New("worker pool not started")
