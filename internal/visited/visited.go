// Package visited provides a reusable set of point indices with O(touched) reset.
package visited

// Set tracks visited point indices using a bitset and a dirty list for fast reset.
type Set struct {
	bits  []uint64
	dirty []int
}

// New creates a new visited set sized for capacity points.
func New(capacity int) *Set {
	if capacity < 0 {
		capacity = 0
	}
	return &Set{
		bits:  make([]uint64, (capacity+63)/64),
		dirty: make([]int, 0, 64),
	}
}

// Visit marks idx as visited. It reports true if idx was not visited before.
func (s *Set) Visit(idx int) bool {
	word := idx >> 6
	mask := uint64(1) << (uint(idx) & 63)

	if word >= len(s.bits) {
		s.grow(word + 1)
	}

	if s.bits[word]&mask != 0 {
		return false
	}
	s.bits[word] |= mask
	s.dirty = append(s.dirty, idx)
	return true
}

// Visited returns true if idx has been visited since the last Reset.
func (s *Set) Visited(idx int) bool {
	word := idx >> 6
	if word >= len(s.bits) {
		return false
	}
	return s.bits[word]&(uint64(1)<<(uint(idx)&63)) != 0
}

// Len returns the number of indices visited since the last Reset.
func (s *Set) Len() int {
	return len(s.dirty)
}

// Reset clears the indices visited in the current session.
func (s *Set) Reset() {
	for _, idx := range s.dirty {
		s.bits[idx>>6] &^= uint64(1) << (uint(idx) & 63)
	}
	s.dirty = s.dirty[:0]
}

func (s *Set) grow(newLen int) {
	newCap := len(s.bits) * 2
	if newCap < newLen {
		newCap = newLen
	}

	bits := make([]uint64, newCap)
	copy(bits, s.bits)
	s.bits = bits
}
