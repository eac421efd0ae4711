package curveclust

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/hupe1980/curveclust/bcubed"
	"github.com/hupe1980/curveclust/distance"
	"github.com/hupe1980/curveclust/internal/conv"
	"github.com/hupe1980/curveclust/internal/curveindex"
	"github.com/hupe1980/curveclust/internal/engine"
	"github.com/hupe1980/curveclust/internal/linkage"
	"github.com/hupe1980/curveclust/internal/neighbor"
	"github.com/hupe1980/curveclust/internal/resource"
	"github.com/hupe1980/curveclust/model"
	"github.com/hupe1980/curveclust/partition"
)

type (
	Point             = model.Point
	PointID           = model.PointID
	ClusterID         = model.ClusterID
	LinkageParameters = model.LinkageParameters
	Clustering        = partition.Clustering
	SimilarityResult  = bcubed.Result

	// Stats describes the merges of one run.
	Stats = engine.Stats

	// RunStats estimates the clusters along the first curve ordering at the
	// chosen linkage distance.
	RunStats = linkage.RunStats
)

// DefaultAlpha weights precision and recall equally in Compare.
const DefaultAlpha = bcubed.DefaultAlpha

// NewPoint creates a Point. The coordinates are not copied.
func NewPoint(id PointID, coords ...uint32) Point {
	return model.NewPoint(id, coords...)
}

// Result is the outcome of a clustering run.
type Result struct {
	// Clustering is the flat partition of the input IDs. Each cluster is
	// numbered by the smallest point ID it contains.
	Clustering *Clustering
	// Linkage holds the parameters the points were clustered with.
	Linkage LinkageParameters
	// Estimated reports whether any linkage parameter was estimated rather
	// than given as an option.
	Estimated bool
	// Bits is the bit depth per coordinate the curve index used.
	Bits int
	// Stats describes the merges.
	Stats Stats
	// RunStats estimates the clusters along the first curve ordering.
	RunStats RunStats
	// Duration is the wall time of the run.
	Duration time.Duration
}

// Clusterer runs the clustering pipeline with a fixed configuration.
// It is safe for concurrent use; concurrent runs share the memory budget
// set by WithMemoryLimit and are bounded by WithMaxConcurrentRuns.
type Clusterer struct {
	opts   options
	dist   distance.Func
	rc     *resource.Controller
	logger *Logger
	runSeq atomic.Uint64
}

// New creates a Clusterer. It fails with ErrConfig for invalid options.
func New(optFns ...Option) (*Clusterer, error) {
	opts := applyOptions(optFns)
	if err := opts.validate(); err != nil {
		return nil, err
	}

	dist, err := distance.Provider(opts.metric)
	if err != nil {
		return nil, err
	}

	return &Clusterer{
		opts: opts,
		dist: dist,
		rc: resource.NewController(resource.Config{
			MemoryLimitBytes:  opts.memoryLimit,
			MaxConcurrentRuns: opts.maxConcurrentRuns,
		}),
		logger: opts.logger,
	}, nil
}

// Run clusters points with a Clusterer built from opts.
//
// Example:
//
//	res, err := curveclust.Run(ctx, points, curveclust.WithK(15), curveclust.WithPermutations(8))
//	if err != nil {
//	    return err
//	}
//	for _, id := range res.Clustering.ListClusters() {
//	    fmt.Println(id, res.Clustering.Members(id))
//	}
func Run(ctx context.Context, points []Point, opts ...Option) (*Result, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return c.Run(ctx, points)
}

// Compare scores candidate against gold with B-Cubed. alpha weights
// precision against recall; use DefaultAlpha for the balanced F-measure.
func Compare(ctx context.Context, candidate, gold *Clustering, alpha float64) (SimilarityResult, error) {
	c, err := New()
	if err != nil {
		return SimilarityResult{}, err
	}
	return c.Compare(ctx, candidate, gold, alpha)
}

// Run clusters points.
//
// It fails with ErrDegenerateInput for an empty set or when the linkage
// parameters cannot be estimated, with a *DimensionMismatchError when points
// disagree on their dimension and with ErrConfig for duplicate IDs or
// invalid parameters. On cancellation no partial result is returned.
func (c *Clusterer) Run(ctx context.Context, points []Point) (*Result, error) {
	start := time.Now()
	log := c.logger.WithRun(c.runSeq.Add(1)).WithCount(len(points))

	res, err := c.run(ctx, log, points)

	duration := time.Since(start)
	clusters := 0
	if err == nil {
		res.Duration = duration
		clusters = res.Clustering.NumClusters()
	}

	c.opts.metricsCollector.RecordRun(len(points), clusters, duration, err)
	log.LogRun(ctx, len(points), clusters, duration, err)

	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Clusterer) run(ctx context.Context, log *Logger, points []Point) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dims, err := model.Dimension(points)
	if err != nil {
		return nil, err
	}
	log = log.WithDimension(dims).WithK(c.opts.k)

	if err := c.rc.AcquireRun(ctx); err != nil {
		return nil, err
	}
	defer c.rc.ReleaseRun()

	bits := c.opts.bits
	if bits == 0 {
		bits = curveindex.RequiredBits(points)
	}

	var orderings []curveindex.Ordering
	err = c.phase(ctx, log, PhaseIndex, func() error {
		var err error
		orderings, err = curveindex.Build(ctx, points, curveindex.Config{
			Bits:         bits,
			Permutations: c.opts.permutations,
			Seed:         c.opts.seed,
			Rotate:       c.opts.rotate,
			Workers:      c.opts.workers,
			Resources:    c.rc,
			Logger:       log.Logger,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	listBytes, err := c.reserveLists(len(points))
	if err != nil {
		return nil, err
	}
	defer c.rc.ReleaseMemory(listBytes)

	var lists []model.NeighborList
	err = c.phase(ctx, log, PhaseSearch, func() error {
		var err error
		lists, err = neighbor.Search(ctx, points, orderings, neighbor.Config{
			K:        c.opts.k,
			Window:   c.opts.window,
			Distance: c.dist,
			Workers:  c.opts.workers,
			Logger:   log.Logger,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	var (
		params    LinkageParameters
		estimated bool
	)
	err = c.phase(ctx, log, PhaseEstimate, func() error {
		var err error
		params, estimated, err = c.resolveLinkage(lists, log)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.LogEstimate(ctx, params, estimated)

	var (
		clustering *partition.Clustering
		stats      engine.Stats
	)
	err = c.phase(ctx, log, PhaseCluster, func() error {
		var err error
		clustering, stats, err = engine.Cluster(ctx, points, lists, &params, engine.Config{
			Workers: c.opts.workers,
			Logger:  log.Logger,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	gaps := curveindex.AdjacentDistances(points, orderings[0], c.dist)

	return &Result{
		Clustering: clustering,
		Linkage:    params,
		Estimated:  estimated,
		Bits:       bits,
		Stats:      stats,
		RunStats:   linkage.CountRuns(gaps, params.LinkageDistance, c.opts.outlierClusterSize),
	}, nil
}

// reserveLists charges the neighbor lists of n points to the memory budget.
func (c *Clusterer) reserveLists(n int) (int64, error) {
	perPoint, err := conv.MulInt64(int64(c.opts.k), int64(unsafe.Sizeof(model.Neighbor{})))
	if err != nil {
		return 0, err
	}
	total, err := conv.MulInt64(int64(n), perPoint)
	if err != nil {
		return 0, err
	}
	if err := c.rc.AcquireMemory(total); err != nil {
		return 0, fmt.Errorf("neighbor lists of %d points: %w", n, err)
	}
	return total, nil
}

// resolveLinkage merges the configured overrides with estimated parameters.
// It estimates only when some parameter was not given.
func (c *Clusterer) resolveLinkage(lists []model.NeighborList, log *Logger) (LinkageParameters, bool, error) {
	o := &c.opts
	if o.overridden == overrideAll {
		return o.override, false, o.override.Validate()
	}

	est, err := linkage.Estimate(lists, linkage.Config{
		Strategy:        o.estimator,
		NoiseSkip:       o.noiseSkip,
		K:               o.k,
		MinDensityCount: o.override.MinDensityCount,
		DensityQuantile: o.densityQuantile,
		Logger:          log.Logger,
	})
	if err != nil {
		if len(lists) == 1 && errors.Is(err, ErrDegenerateInput) {
			// A lone point has no neighbors to estimate from and is its own cluster.
			return c.fill(model.LinkageParameters{MinDensityCount: max(1, (o.k+1)/2)}), true, nil
		}
		return LinkageParameters{}, false, err
	}

	return c.fill(est.LinkageParameters), true, nil
}

func (c *Clusterer) fill(p LinkageParameters) LinkageParameters {
	o := &c.opts
	if o.overridden&overrideLinkage != 0 {
		p.LinkageDistance = o.override.LinkageDistance
	}
	if o.overridden&overrideDensity != 0 {
		p.DensityThreshold = o.override.DensityThreshold
	}
	if o.overridden&overrideMinCount != 0 {
		p.MinDensityCount = o.override.MinDensityCount
	}
	return p
}

func (c *Clusterer) phase(ctx context.Context, log *Logger, p Phase, fn func() error) error {
	start := time.Now()
	err := fn()
	duration := time.Since(start)

	c.opts.metricsCollector.RecordPhase(p, duration, err)
	log.LogPhase(ctx, p, duration, err)
	return err
}

// Compare scores candidate against gold with B-Cubed.
//
// It fails with ErrConfig for a nil clustering or alpha outside [0,1], with
// ErrDegenerateInput when both are empty and with ErrPartitionMismatch when
// they cover different points. A zero precision or recall is not an error;
// the result is then marked Undefined with an F-measure of 0.
func (c *Clusterer) Compare(ctx context.Context, candidate, gold *Clustering, alpha float64) (SimilarityResult, error) {
	start := time.Now()
	points := 0
	if candidate != nil {
		points = candidate.Len()
	}

	res, err := c.compare(ctx, candidate, gold, alpha)

	c.opts.metricsCollector.RecordCompare(points, time.Since(start), err)
	c.logger.LogCompare(ctx, points, res.FMeasure, err)
	return res, err
}

func (c *Clusterer) compare(ctx context.Context, candidate, gold *Clustering, alpha float64) (SimilarityResult, error) {
	if err := ctx.Err(); err != nil {
		return SimilarityResult{}, err
	}
	return bcubed.Compare(candidate, gold, alpha)
}

// ParseClustering reads the delimited form "1,2,3;4,5" (one ';'-separated
// group of ','-separated IDs per cluster).
func ParseClustering(s string) (*Clustering, error) {
	return partition.Parse(s)
}
