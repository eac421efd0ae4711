package curveclust

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/hupe1980/curveclust/curve"
	"github.com/hupe1980/curveclust/distance"
	"github.com/hupe1980/curveclust/internal/linkage"
	"github.com/hupe1980/curveclust/model"
)

// Defaults used when the corresponding option is not given.
const (
	DefaultK            = 10
	DefaultPermutations = 4
	DefaultWindow       = 8
	DefaultSeed         = 1
)

// Metric selects the distance between points.
type Metric = distance.Metric

const (
	MetricEuclidean = distance.MetricEuclidean
	MetricManhattan = distance.MetricManhattan
)

// Estimator selects how linkage parameters are derived from neighbor distances.
type Estimator = linkage.Strategy

const (
	// EstimatorSorting sorts all first-neighbor distances and picks the elbow
	// of their growth.
	EstimatorSorting = linkage.Sorting
	// EstimatorBinning buckets the distances logarithmically and picks the
	// elbow bin. It avoids a full sort.
	EstimatorBinning = linkage.Binning
)

const (
	overrideLinkage uint8 = 1 << iota
	overrideDensity
	overrideMinCount

	overrideAll = overrideLinkage | overrideDensity | overrideMinCount
)

type options struct {
	k                  int
	permutations       int
	window             int
	bits               int
	seed               int64
	rotate             bool
	workers            int
	metric             Metric
	estimator          Estimator
	noiseSkip          int
	densityQuantile    float64
	outlierClusterSize int
	override           model.LinkageParameters
	overridden         uint8
	memoryLimit        int64
	maxConcurrentRuns  int64
	metricsCollector   MetricsCollector
	logger             *Logger
}

// Option configures a Clusterer.
type Option func(*options)

// WithK sets the number of neighbors kept per point.
func WithK(k int) Option {
	return func(o *options) {
		o.k = k
	}
}

// WithPermutations sets the number of curve orderings (P). More orderings
// raise neighbor recall at a linear cost in time.
func WithPermutations(p int) Option {
	return func(o *options) {
		o.permutations = p
	}
}

// WithWindow sets how many positions on each side of a point are inspected
// in every ordering (W).
func WithWindow(w int) Option {
	return func(o *options) {
		o.window = w
	}
}

// WithBits sets the bit depth per coordinate. By default it is derived from
// the largest coordinate. Runs fail when a coordinate needs more bits.
func WithBits(bits int) Option {
	return func(o *options) {
		o.bits = bits
	}
}

// WithSeed sets the seed the permutations are generated from. Runs with the
// same seed and input are identical.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithRotation enables random axis reflections on top of axis reordering.
func WithRotation(enabled bool) Option {
	return func(o *options) {
		o.rotate = enabled
	}
}

// WithWorkers bounds the parallelism of a run. 0 means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMetric sets the distance metric.
func WithMetric(m Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithLinkageDistance fixes the linkage distance instead of estimating it.
func WithLinkageDistance(d float64) Option {
	return func(o *options) {
		o.override.LinkageDistance = d
		o.overridden |= overrideLinkage
	}
}

// WithDensity fixes the density threshold and the neighbor count that makes
// a point a core point.
func WithDensity(threshold float64, minCount int) Option {
	return func(o *options) {
		o.override.DensityThreshold = threshold
		o.override.MinDensityCount = minCount
		o.overridden |= overrideDensity | overrideMinCount
	}
}

// WithLinkage fixes all linkage parameters. Estimation is skipped entirely.
//
// Example:
//
//	res, err := curveclust.Run(ctx, points, curveclust.WithLinkage(curveclust.LinkageParameters{
//	    LinkageDistance:  1.5,
//	    DensityThreshold: 2,
//	    MinDensityCount:  5,
//	}))
func WithLinkage(p LinkageParameters) Option {
	return func(o *options) {
		o.override = p
		o.overridden = overrideAll
	}
}

// WithEstimator selects the linkage estimator.
func WithEstimator(e Estimator) Option {
	return func(o *options) {
		o.estimator = e
	}
}

// WithNoiseSkip sets how many samples back the estimator looks when
// searching for a jump in the neighbor distances.
func WithNoiseSkip(n int) Option {
	return func(o *options) {
		o.noiseSkip = n
	}
}

// WithDensityQuantile sets the quantile of core distances used as the
// estimated density threshold.
func WithDensityQuantile(q float64) Option {
	return func(o *options) {
		o.densityQuantile = q
	}
}

// WithOutlierClusterSize sets the largest run that RunStats counts as an
// outlier cluster.
func WithOutlierClusterSize(n int) Option {
	return func(o *options) {
		o.outlierClusterSize = n
	}
}

// WithMemoryLimit caps the scratch memory (curve keys and neighbor lists) of
// the runs of one Clusterer. Runs over the limit fail with
// ErrMemoryLimitExceeded. 0 means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithMaxConcurrentRuns sets how many runs of one Clusterer execute at once.
// Further runs wait. The default is 1.
func WithMaxConcurrentRuns(n int64) Option {
	return func(o *options) {
		o.maxConcurrentRuns = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &curveclust.BasicMetricsCollector{}
//	c, _ := curveclust.New(curveclust.WithMetricsCollector(metrics))
//	// ... run ...
//	stats := metrics.GetStats()
//	fmt.Printf("Runs: %d, Avg latency: %dns\n", stats.RunCount, stats.RunAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := curveclust.NewJSONLogger(slog.LevelInfo)
//	c, _ := curveclust.New(curveclust.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		k:                DefaultK,
		permutations:     DefaultPermutations,
		window:           DefaultWindow,
		seed:             DefaultSeed,
		metric:           MetricEuclidean,
		estimator:        EstimatorSorting,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o *options) validate() error {
	if o.k < 1 {
		return fmt.Errorf("%w: k must be positive, got %d", ErrConfig, o.k)
	}
	if o.permutations < 1 {
		return fmt.Errorf("%w: permutations must be positive, got %d", ErrConfig, o.permutations)
	}
	if o.window < 1 {
		return fmt.Errorf("%w: window must be positive, got %d", ErrConfig, o.window)
	}
	if o.bits < 0 || o.bits > curve.MaxBits {
		return fmt.Errorf("%w: bits per coordinate must be in [1,%d], got %d", ErrConfig, curve.MaxBits, o.bits)
	}
	if o.workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrConfig, o.workers)
	}
	if _, err := distance.Provider(o.metric); err != nil {
		return err
	}
	if o.estimator != EstimatorSorting && o.estimator != EstimatorBinning {
		return fmt.Errorf("%w: unknown estimator %v", ErrConfig, o.estimator)
	}
	if o.noiseSkip < 0 || o.outlierClusterSize < 0 {
		return fmt.Errorf("%w: estimator settings must not be negative", ErrConfig)
	}
	if o.densityQuantile < 0 || o.densityQuantile > 1 || math.IsNaN(o.densityQuantile) {
		return fmt.Errorf("%w: density quantile must be in [0,1], got %v", ErrConfig, o.densityQuantile)
	}
	if o.memoryLimit < 0 || o.maxConcurrentRuns < 0 {
		return fmt.Errorf("%w: resource limits must not be negative", ErrConfig)
	}
	return o.validateOverride()
}

// validateOverride checks only the parameters that were set.
func (o *options) validateOverride() error {
	p := model.LinkageParameters{MinDensityCount: 1}
	if o.overridden&overrideLinkage != 0 {
		p.LinkageDistance = o.override.LinkageDistance
	}
	if o.overridden&overrideDensity != 0 {
		p.DensityThreshold = o.override.DensityThreshold
	}
	if o.overridden&overrideMinCount != 0 {
		p.MinDensityCount = o.override.MinDensityCount
	}
	return p.Validate()
}
