package searcher

import (
	"sync"

	"github.com/hupe1980/curveclust/internal/visited"
)

// Searcher is a reusable execution context for neighbor collection.
// It owns all scratch memory required for one point, eliminating heap
// allocations in the steady state.
//
// Searcher is NOT thread-safe. It is intended to be owned by a single goroutine.
type Searcher struct {
	// Queue keeps the k best candidates.
	Queue *Queue

	// Visited de-duplicates candidates seen through several orderings.
	Visited *visited.Set
}

// New creates a Searcher for k neighbors over n points.
func New(k, n int) *Searcher {
	return &Searcher{
		Queue:   NewQueue(k),
		Visited: visited.New(n),
	}
}

// Reset prepares the searcher for the next point.
func (s *Searcher) Reset(k int) {
	s.Queue.Reset(k)
	s.Visited.Reset()
}

var pool = sync.Pool{
	New: func() any {
		return New(0, 0)
	},
}

// Get returns a searcher from the pool, reset for k neighbors.
func Get(k int) *Searcher {
	s := pool.Get().(*Searcher)
	s.Reset(k)
	return s
}

// Put returns a searcher to the pool.
func Put(s *Searcher) {
	if s == nil {
		return
	}
	s.Reset(0)
	pool.Put(s)
}
