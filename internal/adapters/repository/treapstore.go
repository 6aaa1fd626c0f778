package repository

import (
	"context"
	"math/rand/v2"
	"sync"

	model "github.com/okian/smartscore/internal/domain/model"
	"github.com/okian/smartscore/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: accuracy DESC, then seq ASC. "less" means ranks earlier, so an
// in-order traversal yields the ranking from best to worst and the rightmost
// node is always the first to evict.

const (
	defaultCapacity = 10
	defaultSeed     = 42
)

type node struct {
	seq      int
	accuracy float64
	weights  model.WeightVector
	prio     uint64
	left     *node
	right    *node
	size     int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aAcc, aSeq) should appear before (bAcc, bSeq).
func less(aAcc float64, aSeq int, bAcc float64, bSeq int) bool {
	if aAcc != bAcc {
		return aAcc > bAcc
	}
	return aSeq < bSeq
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n, nn *node) *node {
	if n == nil {
		return nn
	}
	if less(nn.accuracy, nn.seq, n.accuracy, n.seq) {
		n.left = insert(n.left, nn)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, nn)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

// deleteLast removes the worst-ranked node.
func deleteLast(n *node) *node {
	if n == nil {
		return nil
	}
	if n.right == nil {
		return n.left
	}
	n.right = deleteLast(n.right)
	fix(n)
	return n
}

func last(n *node) *node {
	for n != nil && n.right != nil {
		n = n.right
	}
	return n
}

// collectTopN appends up to limit entries in rank order.
func collectTopN(n *node, limit int, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, Entry{Seq: n.seq, Weights: n.weights, Accuracy: n.accuracy})
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// TreapStore retains the best entries seen, up to its capacity.
type TreapStore struct {
	mu       sync.Mutex
	root     *node
	rng      *rand.Rand
	capacity int
	seed     uint64
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{
		capacity: defaultCapacity,
		seed:     defaultSeed,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rng = rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15)) //nolint:gosec // priorities only balance the tree
	return s
}

// Capacity returns the retention bound.
func (s *TreapStore) Capacity() int { return s.capacity }

// Insert implements Store.Insert in O(log n) expected time.
func (s *TreapStore) Insert(_ context.Context, seq int, w model.WeightVector, accuracy float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if nsize(s.root) >= s.capacity {
		worst := last(s.root)
		if !less(accuracy, seq, worst.accuracy, worst.seq) {
			return false
		}
	}
	s.root = insert(s.root, &node{seq: seq, accuracy: accuracy, weights: w, prio: s.rng.Uint64(), size: 1})
	if nsize(s.root) > s.capacity {
		s.root = deleteLast(s.root)
	}
	return true
}

// TopN returns the top n entries with dense ranks: equal accuracy shares a
// rank and the next distinct accuracy takes the following one.
func (s *TreapStore) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 {
		metrics.RecordError("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, min(n, nsize(s.root)))
	collectTopN(s.root, n, &out)
	assignRanksWithTies(out)
	return out, nil
}

// Count returns the number of retained entries.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return nsize(s.root)
}

func assignRanksWithTies(entries []Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Accuracy != entries[i-1].Accuracy {
			rank++
		}
		entries[i].Rank = rank
	}
}
