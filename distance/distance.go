package distance

import (
	"fmt"
	"math"

	"github.com/hupe1980/curveclust/internal/cpu"
	"github.com/hupe1980/curveclust/model"
)

var (
	squaredKernel   = squaredNarrow
	manhattanKernel = manhattanNarrow
)

func init() {
	if cpu.ActiveKernel() == cpu.Wide {
		squaredKernel = squaredWide
		manhattanKernel = manhattanWide
	}
}

// SquaredEuclidean calculates the squared Euclidean distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredEuclidean(a, b []uint32) float64 {
	return squaredKernel(a, b)
}

// Euclidean calculates the Euclidean distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Euclidean(a, b []uint32) float64 {
	return math.Sqrt(squaredKernel(a, b))
}

// Manhattan calculates the sum of absolute coordinate differences.
// Assumes vectors are the same length (caller's responsibility).
func Manhattan(a, b []uint32) float64 {
	return manhattanKernel(a, b)
}

// Kernel returns the name of the active accumulation kernel.
func Kernel() string {
	return cpu.ActiveKernel().String()
}

// Metric represents the distance metric used for point comparison.
type Metric int

const (
	MetricEuclidean Metric = iota
	MetricManhattan
)

func (m Metric) String() string {
	switch m {
	case MetricEuclidean:
		return "Euclidean"
	case MetricManhattan:
		return "Manhattan"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Func is a function type for distance calculation.
type Func func(a, b []uint32) float64

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricEuclidean:
		return Euclidean, nil
	case MetricManhattan:
		return Manhattan, nil
	default:
		return nil, fmt.Errorf("%w: unsupported metric: %v", model.ErrConfig, m)
	}
}

func absDiff(x, y uint32) float64 {
	if x > y {
		return float64(x - y)
	}
	return float64(y - x)
}

func squaredNarrow(a, b []uint32) float64 {
	var s0, s1, s2, s3 float64
	n := len(a)
	i := 0
	for ; i+4 <= n; i += 4 {
		d0 := absDiff(a[i], b[i])
		d1 := absDiff(a[i+1], b[i+1])
		d2 := absDiff(a[i+2], b[i+2])
		d3 := absDiff(a[i+3], b[i+3])
		s0 += d0 * d0
		s1 += d1 * d1
		s2 += d2 * d2
		s3 += d3 * d3
	}
	for ; i < n; i++ {
		d := absDiff(a[i], b[i])
		s0 += d * d
	}
	return (s0 + s1) + (s2 + s3)
}

func squaredWide(a, b []uint32) float64 {
	var s [8]float64
	n := len(a)
	i := 0
	for ; i+8 <= n; i += 8 {
		for j := range 8 {
			d := absDiff(a[i+j], b[i+j])
			s[j] += d * d
		}
	}
	for ; i < n; i++ {
		d := absDiff(a[i], b[i])
		s[0] += d * d
	}
	return ((s[0] + s[1]) + (s[2] + s[3])) + ((s[4] + s[5]) + (s[6] + s[7]))
}

func manhattanNarrow(a, b []uint32) float64 {
	var s0, s1, s2, s3 float64
	n := len(a)
	i := 0
	for ; i+4 <= n; i += 4 {
		s0 += absDiff(a[i], b[i])
		s1 += absDiff(a[i+1], b[i+1])
		s2 += absDiff(a[i+2], b[i+2])
		s3 += absDiff(a[i+3], b[i+3])
	}
	for ; i < n; i++ {
		s0 += absDiff(a[i], b[i])
	}
	return (s0 + s1) + (s2 + s3)
}

func manhattanWide(a, b []uint32) float64 {
	var s [8]float64
	n := len(a)
	i := 0
	for ; i+8 <= n; i += 8 {
		for j := range 8 {
			s[j] += absDiff(a[i+j], b[i+j])
		}
	}
	for ; i < n; i++ {
		s[0] += absDiff(a[i], b[i])
	}
	return ((s[0] + s[1]) + (s[2] + s[3])) + ((s[4] + s[5]) + (s[6] + s[7]))
}
