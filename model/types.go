package model

import (
	"fmt"
	"math"
)

// MaxDimension is the largest supported number of coordinates per point.
const MaxDimension = 10000

// PointID is the caller-assigned identifier of a point.
type PointID uint32

// ClusterID identifies a cluster within a partition.
type ClusterID uint32

// Point is an immutable point of non-negative integer coordinates.
// Points are owned by the caller; the pipeline only reads them.
type Point struct {
	ID     PointID
	Coords []uint32
}

// NewPoint creates a Point. The coordinates are not copied.
func NewPoint(id PointID, coords ...uint32) Point {
	return Point{ID: id, Coords: coords}
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("Point(%d:%v)", p.ID, p.Coords)
}

// Neighbor is one approximate nearest neighbor of a point.
type Neighbor struct {
	// Index is the position of the neighbor in the input point slice.
	Index int
	// ID is the neighbor's point identifier.
	ID PointID
	// Distance is the true distance between the two points.
	Distance float64
}

// NeighborList holds the neighbors of one point in ascending distance order
// (ties by ascending ID). It never holds more than k entries.
type NeighborList []Neighbor

// Nearest returns the distance to the closest neighbor.
func (l NeighborList) Nearest() (float64, bool) {
	if len(l) == 0 {
		return 0, false
	}
	return l[0].Distance, true
}

// Kth returns the distance to the k-th (1-based) neighbor.
func (l NeighborList) Kth(k int) (float64, bool) {
	if k < 1 || k > len(l) {
		return 0, false
	}
	return l[k-1].Distance, true
}

// CountWithin returns how many neighbors lie within radius (inclusive).
func (l NeighborList) CountWithin(radius float64) int {
	n := 0
	for _, nb := range l {
		if nb.Distance > radius {
			break
		}
		n++
	}
	return n
}

// LinkageParameters drive the clustering engine.
//
// Two points whose distance is at most LinkageDistance are merged. A point with
// at least MinDensityCount neighbors within DensityThreshold is a core point and
// is merged with every one of those neighbors.
type LinkageParameters struct {
	LinkageDistance  float64
	DensityThreshold float64
	MinDensityCount  int
}

// Validate checks that the parameters are usable.
func (p LinkageParameters) Validate() error {
	if p.LinkageDistance < 0 || math.IsNaN(p.LinkageDistance) || math.IsInf(p.LinkageDistance, 0) {
		return fmt.Errorf("%w: linkage distance must be a finite non-negative number, got %v", ErrConfig, p.LinkageDistance)
	}
	if p.DensityThreshold < 0 || math.IsNaN(p.DensityThreshold) || math.IsInf(p.DensityThreshold, 0) {
		return fmt.Errorf("%w: density threshold must be a finite non-negative number, got %v", ErrConfig, p.DensityThreshold)
	}
	if p.MinDensityCount < 1 {
		return fmt.Errorf("%w: minimum density count must be positive, got %d", ErrConfig, p.MinDensityCount)
	}
	return nil
}

// String returns a string representation of the parameters.
func (p LinkageParameters) String() string {
	return fmt.Sprintf("Linkage(distance=%g, density=%g, minCount=%d)", p.LinkageDistance, p.DensityThreshold, p.MinDensityCount)
}

// Dimension validates the shape of a point set and returns its dimension.
//
// It fails with ErrDegenerateInput for an empty set, with a *DimensionMismatchError
// when points disagree on their dimension, and with ErrConfig for zero or
// oversized dimensions and duplicate IDs.
func Dimension(points []Point) (int, error) {
	if len(points) == 0 {
		return 0, fmt.Errorf("%w: no points", ErrDegenerateInput)
	}
	dim := len(points[0].Coords)
	if dim == 0 {
		return 0, fmt.Errorf("%w: points must have at least one coordinate", ErrConfig)
	}
	if dim > MaxDimension {
		return 0, fmt.Errorf("%w: dimension %d exceeds maximum %d", ErrConfig, dim, MaxDimension)
	}
	seen := make(map[PointID]struct{}, len(points))
	for _, p := range points {
		if len(p.Coords) != dim {
			return 0, &DimensionMismatchError{Expected: dim, Actual: len(p.Coords), PointID: p.ID}
		}
		if _, dup := seen[p.ID]; dup {
			return 0, fmt.Errorf("%w: duplicate point id %d", ErrConfig, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return dim, nil
}
