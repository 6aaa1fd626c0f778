package lattice

import "runtime"

// DefaultMaxVectors caps how many vectors Enumerate will materialize.
const DefaultMaxVectors = 50_000_000

type bulkConfig struct {
	workers    int
	maxVectors int
}

// Option configures Enumerate.
type Option func(*bulkConfig)

// WithWorkers bounds how many w0 slices are produced concurrently.
func WithWorkers(n int) Option {
	return func(c *bulkConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithMaxVectors overrides DefaultMaxVectors.
func WithMaxVectors(n int) Option {
	return func(c *bulkConfig) {
		if n > 0 {
			c.maxVectors = n
		}
	}
}

func newBulkConfig(opts ...Option) bulkConfig {
	c := bulkConfig{
		workers:    runtime.NumCPU(),
		maxVectors: DefaultMaxVectors,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
