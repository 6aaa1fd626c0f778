package repository

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithCapacity bounds how many entries the store retains. Entries that fall
// past the bound are evicted worst first.
func WithCapacity(capacity int) Option {
	return func(s *TreapStore) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

// WithSeed fixes the treap priority source.
func WithSeed(seed uint64) Option {
	return func(s *TreapStore) {
		s.seed = seed
	}
}
