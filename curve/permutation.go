package curve

import (
	"math/rand"
)

// Permutation reorders and optionally reflects the axes of a point before its
// curve index is computed. Reflection maps a coordinate c to (2^bits-1)-c, so
// distances between points are unchanged.
type Permutation struct {
	// Order[j] is the source dimension that becomes axis j.
	Order []int
	// Flip[j] reports whether axis j is reflected. Nil means no reflection.
	Flip []bool
}

// Identity returns the permutation that leaves all dims axes untouched.
func Identity(dims int) Permutation {
	order := make([]int, dims)
	for i := range order {
		order[i] = i
	}
	return Permutation{Order: order}
}

// IsIdentity reports whether p changes nothing.
func (p Permutation) IsIdentity() bool {
	for i, o := range p.Order {
		if o != i {
			return false
		}
	}
	for _, f := range p.Flip {
		if f {
			return false
		}
	}
	return true
}

// Apply writes the permuted coordinates into dst (allocated if too small) and returns it.
func (p Permutation) Apply(dst, coords []uint32, bits int) []uint32 {
	if cap(dst) < len(p.Order) {
		dst = make([]uint32, len(p.Order))
	}
	dst = dst[:len(p.Order)]
	maxVal := uint32(1<<uint(bits) - 1)
	for j, src := range p.Order {
		c := coords[src]
		if p.Flip != nil && p.Flip[j] {
			c = maxVal - c
		}
		dst[j] = c
	}
	return dst
}

// GeneratePermutations returns count permutations of dims axes derived from seed.
//
// The first permutation is always the identity. The sequence is generated from a
// single seeded source, so the first n permutations are identical for every
// count >= n; adding permutations only adds orderings.
func GeneratePermutations(dims, count int, seed int64, rotate bool) []Permutation {
	if count < 1 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed)) // nolint gosec
	perms := make([]Permutation, count)
	perms[0] = Identity(dims)
	for i := 1; i < count; i++ {
		perm := Permutation{Order: rng.Perm(dims)}
		if rotate {
			perm.Flip = make([]bool, dims)
			for j := range perm.Flip {
				perm.Flip[j] = rng.Intn(2) == 1
			}
		}
		perms[i] = perm
	}
	return perms
}
