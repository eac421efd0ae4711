// Package unionfind implements a disjoint-set forest over dense indices.
//
// Nodes are stored in a flat arena (parent and size slices), so the forest has
// no pointers and no per-node allocation. Find uses path halving and Union
// links the smaller tree under the larger one (union by size), which keeps
// every operation near-constant amortized.
//
// A Forest is NOT thread-safe. Callers merge serially.
package unionfind

// Forest is a union-find arena over the indices 0..n-1.
type Forest struct {
	parent []int32
	size   []int32
	count  int
}

// New creates a forest of n singleton sets.
func New(n int) *Forest {
	f := &Forest{
		parent: make([]int32, n),
		size:   make([]int32, n),
		count:  n,
	}
	for i := range f.parent {
		f.parent[i] = int32(i)
		f.size[i] = 1
	}
	return f
}

// Len returns the number of elements.
func (f *Forest) Len() int {
	return len(f.parent)
}

// Count returns the number of disjoint sets.
func (f *Forest) Count() int {
	return f.count
}

// Find returns the representative of the set containing x.
func (f *Forest) Find(x int) int {
	u := int32(x)
	for f.parent[u] != u {
		// Path halving: point u at its grandparent.
		f.parent[u] = f.parent[f.parent[u]]
		u = f.parent[u]
	}
	return int(u)
}

// Union merges the sets containing x and y. It reports whether they were
// disjoint before the call.
func (f *Forest) Union(x, y int) bool {
	rx, ry := int32(f.Find(x)), int32(f.Find(y))
	if rx == ry {
		return false
	}
	// Ties keep the lower root so results do not depend on argument order.
	if f.size[rx] < f.size[ry] || (f.size[rx] == f.size[ry] && ry < rx) {
		rx, ry = ry, rx
	}
	f.parent[ry] = rx
	f.size[rx] += f.size[ry]
	f.count--
	return true
}

// Connected reports whether x and y are in the same set.
func (f *Forest) Connected(x, y int) bool {
	return f.Find(x) == f.Find(y)
}

// Size returns the size of the set containing x.
func (f *Forest) Size(x int) int {
	return int(f.size[f.Find(x)])
}

// Components groups all elements by set. Groups are ordered by their smallest
// element and each group lists its elements in ascending order.
func (f *Forest) Components() [][]int {
	slot := make(map[int]int, f.count)
	groups := make([][]int, 0, f.count)
	for i := range f.parent {
		r := f.Find(i)
		g, ok := slot[r]
		if !ok {
			g = len(groups)
			slot[r] = g
			groups = append(groups, make([]int, 0, f.size[r]))
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}
