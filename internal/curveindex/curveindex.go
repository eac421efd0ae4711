package curveindex

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math/bits"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/curveclust/curve"
	"github.com/hupe1980/curveclust/distance"
	"github.com/hupe1980/curveclust/internal/conv"
	"github.com/hupe1980/curveclust/internal/resource"
	"github.com/hupe1980/curveclust/model"
)

// cancelCheckInterval is how many points are encoded between context checks.
const cancelCheckInterval = 1024

// Config configures Build.
type Config struct {
	// Bits is the bit depth per coordinate. 0 derives it from the largest coordinate.
	Bits int
	// Permutations is the number of orderings to build (P).
	Permutations int
	// Seed drives permutation generation.
	Seed int64
	// Rotate enables random axis reflections in addition to axis reordering.
	Rotate bool
	// Workers bounds parallelism. 0 means GOMAXPROCS.
	Workers int
	// Resources accounts for key buffers. Nil disables accounting.
	Resources *resource.Controller
	// Logger receives build diagnostics. Nil disables logging.
	Logger *slog.Logger
}

func (c Config) validate() error {
	if c.Permutations < 1 {
		return fmt.Errorf("%w: permutations must be positive, got %d", model.ErrConfig, c.Permutations)
	}
	if c.Bits < 0 || c.Bits > curve.MaxBits {
		return fmt.Errorf("%w: bits per coordinate must be in [1,%d], got %d", model.ErrConfig, curve.MaxBits, c.Bits)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", model.ErrConfig, c.Workers)
	}
	return nil
}

// Ordering is the points of a set sorted by their curve index under one permutation.
type Ordering struct {
	// Permutation is the axis transform the ordering was built with.
	Permutation curve.Permutation
	// Order lists point indices (positions in the input slice) in curve order.
	Order []int32
	// Rank is the inverse of Order: Rank[i] is the position of point i.
	Rank []int32
}

// Len returns the number of points in the ordering.
func (o Ordering) Len() int {
	return len(o.Order)
}

// Build computes cfg.Permutations orderings of points.
//
// It fails with model.ErrDegenerateInput for an empty set, with
// model.ErrConfig for an invalid configuration and with an error matching both
// model.ErrNumericOverflow and model.ErrConfig when a coordinate does not fit
// the configured bit depth.
func Build(ctx context.Context, points []model.Point, cfg Config) ([]Ordering, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	dims, err := model.Dimension(points)
	if err != nil {
		return nil, err
	}
	if _, err := conv.IntToUint32(len(points)); err != nil {
		return nil, fmt.Errorf("too many points: %w", err)
	}

	depth := cfg.Bits
	if depth == 0 {
		depth = RequiredBits(points)
	} else if err := checkBits(points, depth); err != nil {
		return nil, err
	}

	enc, err := curve.NewEncoder(dims, depth)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	perms := curve.GeneratePermutations(dims, cfg.Permutations, cfg.Seed, cfg.Rotate)
	orderings := make([]Ordering, len(perms))

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, perm := range perms {
		g.Go(func() error {
			o, err := build(gctx, points, enc, perm, cfg.Resources)
			if err != nil {
				return err
			}
			orderings[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if cfg.Logger != nil {
		cfg.Logger.Debug("curve orderings built",
			"points", len(points),
			"dims", dims,
			"bits", depth,
			"permutations", len(perms),
			"duration", time.Since(start),
		)
	}
	return orderings, nil
}

func build(ctx context.Context, points []model.Point, enc *curve.Encoder, perm curve.Permutation, rc *resource.Controller) (Ordering, error) {
	n := len(points)
	w := enc.Words()

	keyBytes, err := conv.MulInt64(int64(n), int64(w)*8)
	if err != nil {
		return Ordering{}, err
	}
	if err := rc.AcquireMemory(keyBytes); err != nil {
		return Ordering{}, fmt.Errorf("curve keys (%d bytes): %w", keyBytes, err)
	}
	defer rc.ReleaseMemory(keyBytes)

	keys := make([]uint64, n*w)
	scratch := make([]uint32, enc.Dims())
	for i, p := range points {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Ordering{}, err
			}
		}
		scratch = perm.Apply(scratch, p.Coords, enc.Bits())
		enc.IndexInPlace(keys[i*w:(i+1)*w], scratch)
	}

	order := make([]int32, n)
	for i := range order {
		order[i] = int32(i)
	}
	slices.SortFunc(order, func(a, b int32) int {
		if c := curve.Compare(keys[int(a)*w:int(a+1)*w], keys[int(b)*w:int(b+1)*w]); c != 0 {
			return c
		}
		return cmp.Compare(points[a].ID, points[b].ID)
	})

	rank := make([]int32, n)
	for pos, idx := range order {
		rank[idx] = int32(pos)
	}

	return Ordering{Permutation: perm, Order: order, Rank: rank}, nil
}

// RequiredBits returns the smallest bit depth that holds every coordinate of points.
// The result is at least 1.
func RequiredBits(points []model.Point) int {
	var maxCoord uint32
	for _, p := range points {
		for _, c := range p.Coords {
			maxCoord = max(maxCoord, c)
		}
	}
	return max(1, bits.Len32(maxCoord))
}

func checkBits(points []model.Point, depth int) error {
	if depth >= 32 {
		return nil
	}
	limit := uint32(1) << uint(depth)
	for _, p := range points {
		for j, c := range p.Coords {
			if c >= limit {
				return fmt.Errorf("%w: %w: coordinate %d of point %d is %d, which needs more than %d bits",
					model.ErrNumericOverflow, model.ErrConfig, j, p.ID, c, depth)
			}
		}
	}
	return nil
}

// AdjacentDistances returns the distances between consecutive points of an ordering.
// The result has o.Len()-1 entries (none for fewer than two points).
func AdjacentDistances(points []model.Point, o Ordering, dist distance.Func) []float64 {
	if len(o.Order) < 2 {
		return nil
	}
	out := make([]float64, len(o.Order)-1)
	for i := 1; i < len(o.Order); i++ {
		out[i-1] = dist(points[o.Order[i-1]].Coords, points[o.Order[i]].Coords)
	}
	return out
}
