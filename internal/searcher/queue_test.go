package searcher

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/curveclust/model"
)

func TestQueue_Bounded(t *testing.T) {
	q := NewQueue(2)

	assert.True(t, q.Push(model.Neighbor{ID: 1, Distance: 10}))
	assert.True(t, q.Push(model.Neighbor{ID: 2, Distance: 5}))
	assert.True(t, q.Push(model.Neighbor{ID: 3, Distance: 1}))
	assert.False(t, q.Push(model.Neighbor{ID: 4, Distance: 20}))

	top, ok := q.Top()
	require.True(t, ok)
	assert.Equal(t, model.PointID(2), top.ID)

	got := q.Drain(nil)
	require.Len(t, got, 2)
	assert.Equal(t, model.PointID(3), got[0].ID)
	assert.Equal(t, model.PointID(2), got[1].ID)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_TieBreakByID(t *testing.T) {
	q := NewQueue(2)
	q.Push(model.Neighbor{ID: 9, Distance: 1})
	q.Push(model.Neighbor{ID: 7, Distance: 1})
	q.Push(model.Neighbor{ID: 3, Distance: 1})
	// Equal distance and larger id than the top: not strictly better.
	assert.False(t, q.Push(model.Neighbor{ID: 8, Distance: 1}))

	got := q.Drain(nil)
	require.Len(t, got, 2)
	assert.Equal(t, model.PointID(3), got[0].ID)
	assert.Equal(t, model.PointID(7), got[1].ID)
}

func TestQueue_ZeroCapacity(t *testing.T) {
	q := NewQueue(0)
	assert.False(t, q.Push(model.Neighbor{ID: 1}))
	_, ok := q.Pop()
	assert.False(t, ok)
	_, ok = q.Top()
	assert.False(t, ok)
}

func TestQueue_MatchesSort(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := range 20 {
		k := 1 + trial%7
		var all []model.Neighbor
		q := NewQueue(k)
		for i := range 100 {
			n := model.Neighbor{Index: i, ID: model.PointID(i), Distance: float64(rng.Intn(10))}
			all = append(all, n)
			q.Push(n)
		}
		sort.Slice(all, func(i, j int) bool { return worse(all[j], all[i]) })

		got := q.Drain(nil)
		assert.Equal(t, model.NeighborList(all[:k]), got)
	}
}

func TestSearcherPool(t *testing.T) {
	s := Get(3)
	s.Visited.Visit(5)
	s.Queue.Push(model.Neighbor{ID: 1})
	Put(s)

	s = Get(4)
	defer Put(s)
	assert.Equal(t, 0, s.Queue.Len())
	assert.False(t, s.Visited.Visited(5))
	Put(nil)
}
