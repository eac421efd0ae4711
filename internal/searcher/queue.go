package searcher

import (
	"github.com/hupe1980/curveclust/model"
)

// Queue is a bounded binary max-heap of neighbor candidates.
//
// The top is the worst candidate: the largest distance, and among equal
// distances the largest ID. It does NOT implement container/heap to avoid
// interface overhead.
type Queue struct {
	capacity int
	items    []model.Neighbor
}

// NewQueue creates a queue keeping at most capacity candidates.
func NewQueue(capacity int) *Queue {
	return &Queue{
		capacity: capacity,
		items:    make([]model.Neighbor, 0, capacity),
	}
}

// Reset clears the queue for reuse and sets a new capacity.
func (q *Queue) Reset(capacity int) {
	q.capacity = capacity
	q.items = q.items[:0]
}

// Len returns the number of candidates in the queue.
func (q *Queue) Len() int {
	return len(q.items)
}

// Top returns the worst candidate kept so far.
func (q *Queue) Top() (model.Neighbor, bool) {
	if len(q.items) == 0 {
		return model.Neighbor{}, false
	}
	return q.items[0], true
}

// Push offers a candidate. If the queue is full, the candidate replaces the
// top only if it is strictly better. It reports whether the candidate was kept.
func (q *Queue) Push(n model.Neighbor) bool {
	if q.capacity <= 0 {
		return false
	}
	if len(q.items) < q.capacity {
		q.items = append(q.items, n)
		q.siftUp(len(q.items) - 1)
		return true
	}
	if !worse(q.items[0], n) {
		return false
	}
	q.items[0] = n
	q.siftDown(0)
	return true
}

// Pop removes and returns the worst candidate.
func (q *Queue) Pop() (model.Neighbor, bool) {
	n := len(q.items)
	if n == 0 {
		return model.Neighbor{}, false
	}

	top := q.items[0]
	q.items[0] = q.items[n-1]
	q.items = q.items[:n-1]

	if len(q.items) > 0 {
		q.siftDown(0)
	}
	return top, true
}

// Drain empties the queue into dst in ascending (distance, ID) order.
func (q *Queue) Drain(dst model.NeighborList) model.NeighborList {
	n := len(q.items)
	start := len(dst)
	for range n {
		dst = append(dst, model.Neighbor{})
	}
	for i := start + n - 1; i >= start; i-- {
		dst[i], _ = q.Pop()
	}
	return dst
}

// worse reports whether a ranks after b.
func worse(a, b model.Neighbor) bool {
	if a.Distance != b.Distance {
		return a.Distance > b.Distance
	}
	return a.ID > b.ID
}

func (q *Queue) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !worse(q.items[i], q.items[parent]) {
			break
		}
		q.items[i], q.items[parent] = q.items[parent], q.items[i]
		i = parent
	}
}

func (q *Queue) siftDown(i int) {
	n := len(q.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		child := left
		if right := left + 1; right < n && worse(q.items[right], q.items[left]) {
			child = right
		}
		if !worse(q.items[child], q.items[i]) {
			break
		}
		q.items[i], q.items[child] = q.items[child], q.items[i]
		i = child
	}
}
