package curveclust

import (
	"github.com/hupe1980/curveclust/codec"
	"github.com/hupe1980/curveclust/internal/resource"
	"github.com/hupe1980/curveclust/model"
	"github.com/hupe1980/curveclust/partition"
)

// Error kinds, matched with errors.Is. A coordinate that does not fit the bit
// depth matches both ErrNumericOverflow and ErrConfig.
var (
	ErrConfig             = model.ErrConfig
	ErrDimensionMismatch  = model.ErrDimensionMismatch
	ErrDegenerateInput    = model.ErrDegenerateInput
	ErrInvariantViolation = model.ErrInvariantViolation
	ErrNumericOverflow    = model.ErrNumericOverflow
	ErrPartitionMismatch  = model.ErrPartitionMismatch

	// ErrMemoryLimitExceeded is returned when a run would exceed WithMemoryLimit.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded

	// ErrInvalidFormat is returned when a clustering snapshot cannot be decoded.
	ErrInvalidFormat = partition.ErrInvalidFormat

	// ErrCorrupt is returned when a compressed snapshot block is damaged.
	ErrCorrupt = codec.ErrCorrupt
)

// DimensionMismatchError indicates points of one run with differing dimensions.
// It matches ErrDimensionMismatch.
type DimensionMismatchError = model.DimensionMismatchError
