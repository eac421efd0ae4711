package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/curveclust/distance"
	"github.com/hupe1980/curveclust/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Perm returns a pseudo-random permutation of [0,n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// UniformPoints generates num points with coordinates uniform in [0, maxCoord).
// IDs are 0..num-1. Uses a single backing array for efficiency.
func (r *RNG) UniformPoints(num, dim int, maxCoord uint32) []model.Point {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]uint32, num*dim)
	points := make([]model.Point, num)
	for i := range num {
		coords := data[i*dim : (i+1)*dim]
		for j := range coords {
			coords[j] = uint32(r.rand.Int63n(int64(maxCoord)))
		}
		points[i] = model.Point{ID: model.PointID(i), Coords: coords}
	}
	return points
}

// ClusteredPoints generates num points around clusters random centers and
// returns them with their gold labels (the index of the generating center).
// Coordinates are Gaussian around the center with the given spread, clamped
// to [0, maxCoord). Point i belongs to cluster i % clusters.
func (r *RNG) ClusteredPoints(num, dim, clusters int, spread float64, maxCoord uint32) ([]model.Point, []int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	centers := make([][]float64, clusters)
	for c := range centers {
		centers[c] = make([]float64, dim)
		for j := range centers[c] {
			centers[c][j] = r.rand.Float64() * float64(maxCoord)
		}
	}

	data := make([]uint32, num*dim)
	points := make([]model.Point, num)
	labels := make([]int, num)
	for i := range num {
		c := i % clusters
		coords := data[i*dim : (i+1)*dim]
		for j := range coords {
			v := centers[c][j] + r.rand.NormFloat64()*spread
			v = math.Max(0, math.Min(float64(maxCoord-1), math.Round(v)))
			coords[j] = uint32(v)
		}
		points[i] = model.Point{ID: model.PointID(i), Coords: coords}
		labels[i] = c
	}
	return points, labels
}

// ExactNeighbors computes the exact k nearest neighbors of every point by
// brute force, ordered by ascending distance and then ascending ID.
func ExactNeighbors(points []model.Point, k int, dist distance.Func) []model.NeighborList {
	out := make([]model.NeighborList, len(points))
	for i, p := range points {
		all := make(model.NeighborList, 0, len(points)-1)
		for j, q := range points {
			if i == j {
				continue
			}
			all = append(all, model.Neighbor{Index: j, ID: q.ID, Distance: dist(p.Coords, q.Coords)})
		}
		sort.Slice(all, func(a, b int) bool {
			if all[a].Distance != all[b].Distance {
				return all[a].Distance < all[b].Distance
			}
			return all[a].ID < all[b].ID
		})
		if len(all) > k {
			all = all[:k]
		}
		out[i] = all
	}
	return out
}

// NeighborRecall computes the mean fraction of exact neighbors found by the
// approximate lists. Points without exact neighbors are skipped.
func NeighborRecall(exact, approx []model.NeighborList) float64 {
	var sum float64
	counted := 0
	for i, truth := range exact {
		if len(truth) == 0 {
			continue
		}
		want := make(map[model.PointID]struct{}, len(truth))
		for _, n := range truth {
			want[n.ID] = struct{}{}
		}
		hits := 0
		if i < len(approx) {
			for _, n := range approx[i] {
				if _, ok := want[n.ID]; ok {
					hits++
				}
			}
		}
		sum += float64(hits) / float64(len(truth))
		counted++
	}
	if counted == 0 {
		return 1.0
	}
	return sum / float64(counted)
}

// BruteForceBCubed scores candidate against gold with the quadratic B-Cubed
// definition. Both map every point to a cluster label and must cover the same
// points. It returns zero F when precision or recall is zero.
func BruteForceBCubed(candidate, gold map[model.PointID]int, alpha float64) (precision, recall, f float64) {
	n := len(gold)
	if n == 0 {
		return 0, 0, 0
	}

	ids := make([]model.PointID, 0, n)
	for id := range gold {
		ids = append(ids, id)
	}

	for _, e := range ids {
		var sameCand, sameGold, sameBoth float64
		for _, o := range ids {
			c := candidate[e] == candidate[o]
			g := gold[e] == gold[o]
			if c {
				sameCand++
			}
			if g {
				sameGold++
			}
			if c && g {
				sameBoth++
			}
		}
		precision += sameBoth / sameCand
		recall += sameBoth / sameGold
	}
	precision /= float64(n)
	recall /= float64(n)

	if precision == 0 || recall == 0 {
		return precision, recall, 0
	}
	return precision, recall, 1 / (alpha/precision + (1-alpha)/recall)
}
