// Package neighbor finds approximate k nearest neighbors from curve orderings.
//
// For every point and every ordering, the Window points on each side of the
// point's position are candidates. Candidates from all orderings are merged,
// de-duplicated and scored with the true distance; the k best are kept,
// ties broken by ascending point ID. A point's neighbor list depends only on
// the orderings and never on scheduling.
package neighbor

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/curveclust/distance"
	"github.com/hupe1980/curveclust/internal/curveindex"
	"github.com/hupe1980/curveclust/internal/searcher"
	"github.com/hupe1980/curveclust/model"
)

const (
	// blockSize is the number of points one task searches.
	blockSize = 256

	defaultProgressInterval = 2 * time.Second
)

// Config configures Search.
type Config struct {
	// K is the number of neighbors kept per point.
	K int
	// Window is the number of positions inspected on each side of a point (W).
	Window int
	// Distance scores candidates. Nil means Euclidean.
	Distance distance.Func
	// Workers bounds parallelism. 0 means GOMAXPROCS.
	Workers int
	// Logger receives progress logs. Nil disables logging.
	Logger *slog.Logger
	// ProgressInterval throttles progress logs. 0 means two seconds.
	ProgressInterval time.Duration
}

func (c Config) validate() error {
	if c.K < 1 {
		return fmt.Errorf("%w: k must be positive, got %d", model.ErrConfig, c.K)
	}
	if c.Window < 1 {
		return fmt.Errorf("%w: window must be positive, got %d", model.ErrConfig, c.Window)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", model.ErrConfig, c.Workers)
	}
	return nil
}

// Search returns the approximate neighbor list of every point, indexed like points.
//
// Each list holds at most K entries sorted by ascending distance then ID and
// never contains the point itself. Lists are shorter than K only when fewer
// than K distinct points fall inside the windows.
func Search(ctx context.Context, points []model.Point, orderings []curveindex.Ordering, cfg Config) ([]model.NeighborList, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no points", model.ErrDegenerateInput)
	}
	if len(orderings) == 0 {
		return nil, fmt.Errorf("%w: at least one ordering is required", model.ErrConfig)
	}
	for i, o := range orderings {
		if o.Len() != len(points) || len(o.Rank) != len(points) {
			return nil, fmt.Errorf("%w: ordering %d covers %d points, expected %d", model.ErrConfig, i, o.Len(), len(points))
		}
	}

	dist := cfg.Distance
	if dist == nil {
		dist = distance.Euclidean
	}
	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	interval := cfg.ProgressInterval
	if interval == 0 {
		interval = defaultProgressInterval
	}

	start := time.Now()
	lists := make([]model.NeighborList, len(points))
	progress := rate.Sometimes{Interval: interval}
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < len(points); lo += blockSize {
		hi := min(lo+blockSize, len(points))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			s := searcher.Get(cfg.K)
			defer searcher.Put(s)

			for i := lo; i < hi; i++ {
				lists[i] = collect(s, points, orderings, i, cfg.K, cfg.Window, dist)
			}

			n := done.Add(int64(hi - lo))
			if cfg.Logger != nil {
				progress.Do(func() {
					cfg.Logger.Info("neighbor search progress", "done", n, "total", len(points))
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if cfg.Logger != nil {
		cfg.Logger.Debug("neighbor search finished",
			"points", len(points),
			"k", cfg.K,
			"window", cfg.Window,
			"orderings", len(orderings),
			"kernel", distance.Kernel(),
			"duration", time.Since(start),
		)
	}
	return lists, nil
}

// collect gathers the neighbors of point i. s is reset before use.
func collect(s *searcher.Searcher, points []model.Point, orderings []curveindex.Ordering, i, k, window int, dist distance.Func) model.NeighborList {
	s.Reset(k)
	s.Visited.Visit(i)

	self := points[i].Coords
	n := len(points)
	for _, o := range orderings {
		pos := int(o.Rank[i])
		from := max(0, pos-window)
		to := min(n-1, pos+window)
		for j := from; j <= to; j++ {
			idx := int(o.Order[j])
			if !s.Visited.Visit(idx) {
				continue
			}
			s.Queue.Push(model.Neighbor{
				Index:    idx,
				ID:       points[idx].ID,
				Distance: dist(self, points[idx].Coords),
			})
		}
	}
	return s.Queue.Drain(make(model.NeighborList, 0, s.Queue.Len()))
}
