package engine

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/curveclust/internal/unionfind"
	"github.com/hupe1980/curveclust/model"
	"github.com/hupe1980/curveclust/partition"
)

// chunkSize is the number of points one edge-generation task scans.
const chunkSize = 1024

// Config configures Cluster.
type Config struct {
	// Workers bounds edge-generation parallelism. 0 means GOMAXPROCS.
	Workers int
	// Logger receives clustering diagnostics. Nil disables logging.
	Logger *slog.Logger
}

// Stats describes one clustering run.
type Stats struct {
	// LinkageEdges is the number of neighbor pairs within the linkage distance.
	LinkageEdges int
	// LinkageMerges is the number of those pairs that joined two clusters.
	LinkageMerges int
	// CorePoints is the number of points dense enough to force merges.
	CorePoints int
	// DensityMerges is the number of joins made by core points.
	DensityMerges int
	// Iterations is the number of density passes until the fixed point.
	Iterations int
	// Clusters is the number of clusters in the result.
	Clusters int
}

// edge joins the points at two input positions.
type edge struct {
	from, to int32
}

// chunk holds the edges generated from one run of points in scan order.
type chunk struct {
	linkage []edge
	density []edge
	core    int
}

// Cluster partitions points using their neighbor lists (indexed like points).
//
// It fails with model.ErrConfig when params is nil or invalid or when the
// lists do not match the points, and with model.ErrDegenerateInput when there
// are no points. All-singleton and single-cluster results are valid.
// On cancellation the partial state is discarded and ctx.Err() is returned.
func Cluster(ctx context.Context, points []model.Point, lists []model.NeighborList, params *model.LinkageParameters, cfg Config) (*partition.Clustering, Stats, error) {
	if params == nil {
		return nil, Stats{}, fmt.Errorf("%w: linkage parameters are required", model.ErrConfig)
	}
	if err := params.Validate(); err != nil {
		return nil, Stats{}, err
	}
	if cfg.Workers < 0 {
		return nil, Stats{}, fmt.Errorf("%w: workers must not be negative, got %d", model.ErrConfig, cfg.Workers)
	}
	n := len(points)
	if n == 0 {
		return nil, Stats{}, fmt.Errorf("%w: no points", model.ErrDegenerateInput)
	}
	if len(lists) != n {
		return nil, Stats{}, fmt.Errorf("%w: %d neighbor lists for %d points", model.ErrConfig, len(lists), n)
	}
	for i, l := range lists {
		for _, nb := range l {
			if nb.Index < 0 || nb.Index >= n {
				return nil, Stats{}, fmt.Errorf("%w: point %d has neighbor index %d out of range", model.ErrConfig, points[i].ID, nb.Index)
			}
		}
	}

	start := time.Now()
	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Scan order: ascending point ID.
	order := make([]int32, n)
	for i := range order {
		order[i] = int32(i)
	}
	slices.SortFunc(order, func(a, b int32) int {
		return cmp.Compare(points[a].ID, points[b].ID)
	})

	chunks, err := generate(ctx, order, lists, params, workers)
	if err != nil {
		return nil, Stats{}, err
	}

	var stats Stats
	forest := unionfind.New(n)

	for _, c := range chunks {
		stats.LinkageEdges += len(c.linkage)
		stats.CorePoints += c.core
		for _, e := range c.linkage {
			if forest.Union(int(e.from), int(e.to)) {
				stats.LinkageMerges++
			}
		}
	}

	if err := expand(ctx, forest, chunks, lists, params, &stats); err != nil {
		return nil, Stats{}, err
	}

	result, err := build(points, order, forest)
	if err != nil {
		return nil, Stats{}, err
	}
	stats.Clusters = result.NumClusters()

	if cfg.Logger != nil {
		cfg.Logger.Debug("clustering finished",
			"points", n,
			"clusters", stats.Clusters,
			"linkage_edges", stats.LinkageEdges,
			"linkage_merges", stats.LinkageMerges,
			"core_points", stats.CorePoints,
			"density_merges", stats.DensityMerges,
			"iterations", stats.Iterations,
			"duration", time.Since(start),
		)
	}
	return result, stats, nil
}

// generate scans the neighbor lists in parallel and returns the candidate
// edges per chunk of the scan order.
func generate(ctx context.Context, order []int32, lists []model.NeighborList, params *model.LinkageParameters, workers int) ([]chunk, error) {
	chunks := make([]chunk, (len(order)+chunkSize-1)/chunkSize)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for ci := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lo := ci * chunkSize
			hi := min(lo+chunkSize, len(order))

			var c chunk
			for _, p := range order[lo:hi] {
				l := lists[p]
				for _, nb := range l {
					if nb.Distance > params.LinkageDistance {
						break
					}
					c.linkage = append(c.linkage, edge{from: p, to: int32(nb.Index)})
				}
				if !isCore(l, params) {
					continue
				}
				c.core++
				for _, nb := range l {
					if nb.Distance > params.DensityThreshold {
						break
					}
					c.density = append(c.density, edge{from: p, to: int32(nb.Index)})
				}
			}
			chunks[ci] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return chunks, nil
}

func isCore(l model.NeighborList, params *model.LinkageParameters) bool {
	return l.CountWithin(params.DensityThreshold) >= params.MinDensityCount
}

// expand applies density-forced merges until no join changes a cluster.
// The first pass walks every core point; later passes revisit only the core
// points whose joins merged clusters in the previous pass.
func expand(ctx context.Context, forest *unionfind.Forest, chunks []chunk, lists []model.NeighborList, params *model.LinkageParameters, stats *Stats) error {
	var dirty []int32
	last := int32(-1)
	for _, c := range chunks {
		for _, e := range c.density {
			if forest.Union(int(e.from), int(e.to)) {
				stats.DensityMerges++
				if e.from != last {
					dirty = append(dirty, e.from)
					last = e.from
				}
			}
		}
	}
	stats.Iterations = 1

	for len(dirty) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Iterations++

		var next []int32
		for _, p := range dirty {
			changed := false
			for _, nb := range lists[p] {
				if nb.Distance > params.DensityThreshold {
					break
				}
				if forest.Union(int(p), nb.Index) {
					stats.DensityMerges++
					changed = true
				}
			}
			if changed {
				next = append(next, p)
			}
		}
		dirty = next
	}
	return nil
}

// build converts the forest into a clustering whose cluster IDs are the
// smallest point ID of each cluster.
func build(points []model.Point, order []int32, forest *unionfind.Forest) (*partition.Clustering, error) {
	c := partition.New()
	name := make(map[int]model.ClusterID, forest.Count())
	for _, p := range order {
		root := forest.Find(int(p))
		id, ok := name[root]
		if !ok {
			id = model.ClusterID(points[p].ID)
			name[root] = id
		}
		if err := c.AddPoint(id, points[p].ID); err != nil {
			return nil, err
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
