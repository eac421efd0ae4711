package linkage

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/hupe1980/curveclust/model"
)

const (
	// DefaultNoiseSkip is how many samples apart two distances are compared.
	DefaultNoiseSkip = 5

	// DefaultDensityQuantile selects the median core distance.
	DefaultDensityQuantile = 0.5

	// DefaultOutlierClusterSize is the largest run counted as an outlier cluster.
	DefaultOutlierClusterSize = 10
)

// Strategy selects how the elbow of the distance distribution is located.
type Strategy int

const (
	// Sorting performs a full O(N log N) sort of the distances.
	Sorting Strategy = iota
	// Binning performs a logarithmic bucket sort and sorts a single bucket.
	Binning
)

func (s Strategy) String() string {
	switch s {
	case Sorting:
		return "Sorting"
	case Binning:
		return "Binning"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// Config configures Estimate. The zero value uses the defaults.
type Config struct {
	// Strategy selects the elbow detection.
	Strategy Strategy
	// NoiseSkip compares each distance with the one NoiseSkip+1 samples
	// earlier, so a few noisy samples cannot fake a jump. 0 means DefaultNoiseSkip.
	NoiseSkip int
	// LowestIndex is the first sample index considered for the elbow.
	// 0 means half the number of samples.
	LowestIndex int
	// MinClusterCount excludes that many of the largest distances from the
	// elbow search. 0 means max(10, sqrt(N)/2).
	MinClusterCount int
	// K is the neighbor count the lists were built with. 0 means the length of
	// the longest list.
	K int
	// MinDensityCount is the neighbor count that makes a point a core point.
	// 0 means ceil(K/2).
	MinDensityCount int
	// DensityQuantile selects the density threshold among the core distances.
	// 0 means DefaultDensityQuantile.
	DensityQuantile float64
	// Logger receives estimation diagnostics. Nil disables logging.
	Logger *slog.Logger
}

func (c Config) validate() error {
	if c.Strategy != Sorting && c.Strategy != Binning {
		return fmt.Errorf("%w: unknown linkage strategy %v", model.ErrConfig, c.Strategy)
	}
	if c.NoiseSkip < 0 || c.LowestIndex < 0 || c.MinClusterCount < 0 || c.K < 0 || c.MinDensityCount < 0 {
		return fmt.Errorf("%w: linkage estimator settings must not be negative", model.ErrConfig)
	}
	if c.DensityQuantile < 0 || c.DensityQuantile > 1 || math.IsNaN(c.DensityQuantile) {
		return fmt.Errorf("%w: density quantile must be in [0,1], got %v", model.ErrConfig, c.DensityQuantile)
	}
	return nil
}

// Result holds estimated parameters and how they were derived.
type Result struct {
	model.LinkageParameters

	// Strategy is the elbow detection that produced LinkageDistance.
	Strategy Strategy
	// Samples is the number of first-neighbor distances examined.
	Samples int
	// CorePoints is the number of points whose MinDensityCount-th neighbor
	// lies within DensityThreshold.
	CorePoints int
}

// Estimate derives linkage parameters from neighbor lists.
//
// It fails with model.ErrDegenerateInput when no list holds a neighbor or when
// every neighbor distance is identical; callers must then supply explicit
// parameters.
func Estimate(lists []model.NeighborList, cfg Config) (Result, error) {
	if err := cfg.validate(); err != nil {
		return Result{}, err
	}

	first := make([]float64, 0, len(lists))
	k := cfg.K
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, l := range lists {
		if d, ok := l.Nearest(); ok {
			first = append(first, d)
		}
		k = max(k, len(l))
		for _, n := range l {
			lo = min(lo, n.Distance)
			hi = max(hi, n.Distance)
		}
	}
	if len(first) == 0 {
		return Result{}, fmt.Errorf("%w: no neighbor distances", model.ErrDegenerateInput)
	}
	if lo == hi {
		return Result{}, fmt.Errorf("%w: all %d neighbor distances equal %g", model.ErrDegenerateInput, len(first), lo)
	}
	if cfg.K > 0 {
		k = cfg.K
	}
	slices.Sort(first)

	var linkage float64
	switch cfg.Strategy {
	case Binning:
		linkage = byBinning(first, cfg)
	default:
		linkage = bySorting(first, cfg)
	}

	minCount := cfg.MinDensityCount
	if minCount == 0 {
		minCount = max(1, (k+1)/2)
	}
	quantile := cfg.DensityQuantile
	if quantile == 0 {
		quantile = DefaultDensityQuantile
	}
	threshold := densityThreshold(lists, minCount, quantile, linkage)

	res := Result{
		LinkageParameters: model.LinkageParameters{
			LinkageDistance:  linkage,
			DensityThreshold: threshold,
			MinDensityCount:  minCount,
		},
		Strategy: cfg.Strategy,
		Samples:  len(first),
	}
	for _, l := range lists {
		if d, ok := l.Kth(minCount); ok && d <= threshold {
			res.CorePoints++
		}
	}

	if cfg.Logger != nil {
		cfg.Logger.Debug("linkage estimated",
			"strategy", cfg.Strategy.String(),
			"samples", res.Samples,
			"linkage", res.LinkageDistance,
			"density_threshold", res.DensityThreshold,
			"min_density_count", res.MinDensityCount,
			"core_points", res.CorePoints,
		)
	}
	return res, nil
}

// densityThreshold returns the quantile of the core distances, capped at
// twice the linkage distance. Without core distances it returns the linkage.
func densityThreshold(lists []model.NeighborList, minCount int, quantile, linkage float64) float64 {
	core := make([]float64, 0, len(lists))
	for _, l := range lists {
		if d, ok := l.Kth(minCount); ok {
			core = append(core, d)
		}
	}
	if len(core) == 0 {
		return linkage
	}
	slices.Sort(core)
	q := core[int(quantile*float64(len(core)-1))]
	return min(q, 2*linkage)
}

func noiseSkip(cfg Config) int {
	if cfg.NoiseSkip == 0 {
		return DefaultNoiseSkip
	}
	return cfg.NoiseSkip
}

func lowestIndex(cfg Config, n int) int {
	if cfg.LowestIndex == 0 {
		return n / 2
	}
	return min(cfg.LowestIndex, n-1)
}

func minClusterCount(cfg Config, n int) int {
	if cfg.MinClusterCount == 0 {
		return max(10, int(math.Sqrt(float64(n))/2))
	}
	return cfg.MinClusterCount
}

// valueBeforeJump returns the value preceding the largest increase in the
// sorted values, starting from prev. Ties keep the earliest jump.
func valueBeforeJump(sorted []float64, prev float64) float64 {
	before := prev
	best := math.Inf(-1)
	for _, v := range sorted {
		if d := v - prev; d > best {
			best = d
			before = prev
		}
		prev = v
	}
	return before
}
