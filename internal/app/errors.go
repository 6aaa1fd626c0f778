package service

import "errors"

// ErrNoCandidates is returned when a search is given nothing to evaluate.
var ErrNoCandidates = errors.New("no candidate weight vectors")
