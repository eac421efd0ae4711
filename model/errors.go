package model

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is returned for invalid configuration (k, P, W, alpha, bit depth, ...).
	ErrConfig = errors.New("invalid configuration")

	// ErrDimensionMismatch is matched by *DimensionMismatchError.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrDegenerateInput is returned when the input carries too little information,
	// such as an empty point set or identical neighbor distances everywhere.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrInvariantViolation indicates a broken partition invariant. It always
	// points at a programming error, never at bad user input.
	ErrInvariantViolation = errors.New("partition invariant violated")

	// ErrNumericOverflow is returned when a coordinate does not fit the declared bit depth.
	ErrNumericOverflow = errors.New("numeric overflow")

	// ErrPartitionMismatch is returned when two partitions do not cover the same points.
	ErrPartitionMismatch = errors.New("partitions cover different points")
)

// DimensionMismatchError indicates that points of one run disagree on their dimension.
type DimensionMismatchError struct {
	Expected int
	Actual   int
	PointID  PointID
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: point %d has %d coordinates, expected %d", e.PointID, e.Actual, e.Expected)
}

// Is reports whether target is ErrDimensionMismatch.
func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}
