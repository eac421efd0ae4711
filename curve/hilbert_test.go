package curve

import (
	"testing"

	"github.com/hupe1980/curveclust/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEncoder(t *testing.T) {
	enc, err := NewEncoder(3, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, enc.Dims())
	assert.Equal(t, 10, enc.Bits())
	assert.Equal(t, 1, enc.Words())

	enc, err = NewEncoder(10, 20)
	require.NoError(t, err)
	assert.Equal(t, 4, enc.Words()) // 200 bits

	_, err = NewEncoder(0, 8)
	assert.ErrorIs(t, err, model.ErrConfig)
	_, err = NewEncoder(2, 0)
	assert.ErrorIs(t, err, model.ErrConfig)
	_, err = NewEncoder(2, 33)
	assert.ErrorIs(t, err, model.ErrConfig)
}

func TestIndex_TwoDimensionsOneBit(t *testing.T) {
	enc, err := NewEncoder(2, 1)
	require.NoError(t, err)

	// The first-order curve visits (0,0), (0,1), (1,1), (1,0).
	walk := [][]uint32{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	for i, c := range walk {
		idx := enc.Index(c)
		assert.Equal(t, uint64(i)<<62, idx[0], "cell %v", c)
	}
}

// indexValue returns the index as an integer; only valid for indices of at most 64 bits.
func indexValue(enc *Encoder, coords []uint32) uint64 {
	idx := enc.Index(coords)
	return idx[0] >> uint(64-enc.Dims()*enc.Bits())
}

func TestIndex_Bijective2D(t *testing.T) {
	enc, err := NewEncoder(2, 4)
	require.NoError(t, err)

	side := uint32(16)
	cells := make(map[uint64][]uint32, side*side)
	for x := uint32(0); x < side; x++ {
		for y := uint32(0); y < side; y++ {
			v := indexValue(enc, []uint32{x, y})
			_, dup := cells[v]
			require.False(t, dup, "index %d assigned twice", v)
			cells[v] = []uint32{x, y}
		}
	}
	require.Len(t, cells, int(side*side))

	// Consecutive indices are unit steps in space.
	for v := uint64(1); v < uint64(side*side); v++ {
		a, b := cells[v-1], cells[v]
		step := absDiff(a[0], b[0]) + absDiff(a[1], b[1])
		assert.Equal(t, uint32(1), step, "between index %d and %d", v-1, v)
	}
}

func TestIndex_Adjacency3D(t *testing.T) {
	enc, err := NewEncoder(3, 3)
	require.NoError(t, err)

	side := uint32(8)
	cells := make(map[uint64][3]uint32)
	for x := uint32(0); x < side; x++ {
		for y := uint32(0); y < side; y++ {
			for z := uint32(0); z < side; z++ {
				cells[indexValue(enc, []uint32{x, y, z})] = [3]uint32{x, y, z}
			}
		}
	}
	require.Len(t, cells, 512)

	for v := uint64(1); v < 512; v++ {
		a, b := cells[v-1], cells[v]
		step := absDiff(a[0], b[0]) + absDiff(a[1], b[1]) + absDiff(a[2], b[2])
		assert.Equal(t, uint32(1), step)
	}
}

func TestIndex_DoesNotModifyInput(t *testing.T) {
	enc, err := NewEncoder(3, 8)
	require.NoError(t, err)
	coords := []uint32{200, 3, 77}
	_ = enc.Index(coords)
	assert.Equal(t, []uint32{200, 3, 77}, coords)
}

func TestIndex_MultiWord(t *testing.T) {
	enc, err := NewEncoder(5, 32)
	require.NoError(t, err)
	require.Equal(t, 3, enc.Words())

	lo := enc.Index([]uint32{0, 0, 0, 0, 0})
	hi := enc.Index([]uint32{0xFFFFFFFF, 0, 0, 0, 0})
	assert.Equal(t, []uint64{0, 0, 0}, lo)
	assert.NotEqual(t, 0, Compare(lo, hi))
}

func TestCompare(t *testing.T) {
	assert.Equal(t, 0, Compare([]uint64{1, 2}, []uint64{1, 2}))
	assert.Equal(t, -1, Compare([]uint64{1, 2}, []uint64{1, 3}))
	assert.Equal(t, 1, Compare([]uint64{2, 0}, []uint64{1, 9}))
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
