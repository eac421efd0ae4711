package curve

import (
	"fmt"

	"github.com/hupe1980/curveclust/model"
)

// MaxBits is the largest supported bit depth per coordinate.
const MaxBits = 32

// Encoder computes Hilbert curve indices for a fixed dimension and bit depth.
// An Encoder is immutable and safe for concurrent use.
type Encoder struct {
	dims  int
	bits  int
	words int
}

// NewEncoder creates an Encoder for dims coordinates of bits bits each.
func NewEncoder(dims, bits int) (*Encoder, error) {
	if dims < 1 || dims > model.MaxDimension {
		return nil, fmt.Errorf("%w: dimension must be in [1,%d], got %d", model.ErrConfig, model.MaxDimension, dims)
	}
	if bits < 1 || bits > MaxBits {
		return nil, fmt.Errorf("%w: bits per coordinate must be in [1,%d], got %d", model.ErrConfig, MaxBits, bits)
	}
	return &Encoder{
		dims:  dims,
		bits:  bits,
		words: (dims*bits + 63) / 64,
	}, nil
}

// Dims returns the number of coordinates per point.
func (e *Encoder) Dims() int { return e.dims }

// Bits returns the number of bits per coordinate.
func (e *Encoder) Bits() int { return e.bits }

// Words returns the number of uint64 words in one index.
func (e *Encoder) Words() int { return e.words }

// Index returns the curve index of coords in a newly allocated slice.
// coords is not modified.
func (e *Encoder) Index(coords []uint32) []uint64 {
	x := make([]uint32, len(coords))
	copy(x, coords)
	dst := make([]uint64, e.words)
	e.IndexInPlace(dst, x)
	return dst
}

// IndexInPlace writes the curve index of x into dst.
//
// x is used as scratch space and holds the transposed index afterwards.
// len(x) must equal Dims() and len(dst) must be at least Words().
func (e *Encoder) IndexInPlace(dst []uint64, x []uint32) {
	Transpose(x, e.bits)
	e.pack(dst, x)
}

// pack interleaves the transposed coordinates into a big-endian bit string:
// the most significant bit of x[0], then of x[1], ..., then the next bit level.
func (e *Encoder) pack(dst []uint64, x []uint32) {
	clear(dst[:e.words])
	k := 0
	for bit := e.bits - 1; bit >= 0; bit-- {
		for i := range x {
			if (x[i]>>uint(bit))&1 != 0 {
				dst[k>>6] |= 1 << (63 - uint(k&63))
			}
			k++
		}
	}
}

// Transpose converts coordinates in place into the transposed Hilbert index
// (Skilling, "Programming the Hilbert curve", 2004).
func Transpose(x []uint32, bits int) {
	n := len(x)
	if n == 0 || bits < 1 {
		return
	}
	m := uint32(1) << uint(bits-1)

	// Inverse undo.
	for q := m; q > 1; q >>= 1 {
		p := q - 1
		for i := 0; i < n; i++ {
			if x[i]&q != 0 {
				x[0] ^= p
			} else {
				t := (x[0] ^ x[i]) & p
				x[0] ^= t
				x[i] ^= t
			}
		}
	}

	// Gray encode.
	for i := 1; i < n; i++ {
		x[i] ^= x[i-1]
	}
	var t uint32
	for q := m; q > 1; q >>= 1 {
		if x[n-1]&q != 0 {
			t ^= q - 1
		}
	}
	for i := 0; i < n; i++ {
		x[i] ^= t
	}
}

// Compare compares two curve indices of equal length.
// It returns -1, 0 or +1.
func Compare(a, b []uint64) int {
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}
