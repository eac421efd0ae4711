package partition

import (
	"errors"
	"fmt"

	"github.com/hupe1980/curveclust/model"
)

var (
	// ErrPointAssigned is returned when adding a point that already belongs to a cluster.
	ErrPointAssigned = fmt.Errorf("%w: point already assigned", model.ErrInvariantViolation)

	// ErrPointNotFound is returned when a point belongs to no cluster.
	ErrPointNotFound = errors.New("point not found")

	// ErrClusterNotFound is returned when a cluster does not exist.
	ErrClusterNotFound = errors.New("cluster not found")

	// ErrInvalidFormat is returned when a text or binary clustering cannot be decoded.
	ErrInvalidFormat = errors.New("invalid clustering format")
)
