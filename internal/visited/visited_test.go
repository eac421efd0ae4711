package visited

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := New(10)

	assert.False(t, s.Visited(1))
	assert.False(t, s.Visited(5))

	assert.True(t, s.Visit(1))
	assert.False(t, s.Visit(1), "second visit reports already visited")
	assert.True(t, s.Visited(1))
	assert.False(t, s.Visited(5))

	s.Visit(5)
	assert.Equal(t, 2, s.Len())

	s.Reset()
	assert.False(t, s.Visited(1))
	assert.False(t, s.Visited(5))
	assert.Equal(t, 0, s.Len())

	assert.True(t, s.Visit(1))
}

func TestSet_Grow(t *testing.T) {
	s := New(2)
	s.Visit(1)

	s.Visit(200)
	assert.True(t, s.Visited(200))
	assert.True(t, s.Visited(1))
	assert.False(t, s.Visited(1000))
}
