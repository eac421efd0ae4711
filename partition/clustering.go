package partition

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/curveclust/model"
)

// Clustering maps every point to exactly one cluster.
type Clustering struct {
	assignment map[model.PointID]model.ClusterID
	clusters   map[model.ClusterID]*roaring.Bitmap
	nextID     model.ClusterID
}

// New creates an empty clustering.
func New() *Clustering {
	return &Clustering{
		assignment: make(map[model.PointID]model.ClusterID),
		clusters:   make(map[model.ClusterID]*roaring.Bitmap),
	}
}

// FromLabels builds a clustering from parallel slices of point IDs and
// cluster labels.
func FromLabels(ids []model.PointID, labels []model.ClusterID) (*Clustering, error) {
	if len(ids) != len(labels) {
		return nil, fmt.Errorf("%w: %d ids but %d labels", model.ErrConfig, len(ids), len(labels))
	}
	c := New()
	for i, id := range ids {
		if err := c.AddPoint(labels[i], id); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewCluster returns an unused cluster ID. The cluster comes alive with its
// first AddPoint.
func (c *Clustering) NewCluster() model.ClusterID {
	for {
		id := c.nextID
		c.nextID++
		if _, used := c.clusters[id]; !used {
			return id
		}
	}
}

// AddPoint puts point into cluster, creating the cluster if needed. It fails
// with ErrPointAssigned if point already belongs to any cluster.
func (c *Clustering) AddPoint(cluster model.ClusterID, point model.PointID) error {
	if owner, ok := c.assignment[point]; ok {
		return fmt.Errorf("%w: point %d is in cluster %d", ErrPointAssigned, point, owner)
	}
	members, ok := c.clusters[cluster]
	if !ok {
		members = roaring.New()
		c.clusters[cluster] = members
		if cluster >= c.nextID {
			c.nextID = cluster + 1
		}
	}
	members.Add(uint32(point))
	c.assignment[point] = cluster
	return nil
}

// RemovePoint removes point from its cluster and returns that cluster. The
// cluster is deleted if it becomes empty.
func (c *Clustering) RemovePoint(point model.PointID) (model.ClusterID, error) {
	cluster, ok := c.assignment[point]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrPointNotFound, point)
	}
	members := c.clusters[cluster]
	members.Remove(uint32(point))
	if members.IsEmpty() {
		delete(c.clusters, cluster)
	}
	delete(c.assignment, point)
	return cluster, nil
}

// MergeClusters moves every member of b into a and deletes b.
// Merging a cluster with itself is a no-op.
func (c *Clustering) MergeClusters(a, b model.ClusterID) error {
	into, ok := c.clusters[a]
	if !ok {
		return fmt.Errorf("%w: %d", ErrClusterNotFound, a)
	}
	from, ok := c.clusters[b]
	if !ok {
		return fmt.Errorf("%w: %d", ErrClusterNotFound, b)
	}
	if a == b {
		return nil
	}

	it := from.Iterator()
	for it.HasNext() {
		c.assignment[model.PointID(it.Next())] = a
	}
	into.Or(from)
	delete(c.clusters, b)
	return nil
}

// Recategorize moves point into cluster, creating the cluster if needed.
// The source cluster is deleted if it becomes empty.
func (c *Clustering) Recategorize(point model.PointID, cluster model.ClusterID) error {
	from, ok := c.assignment[point]
	if !ok {
		return fmt.Errorf("%w: %d", ErrPointNotFound, point)
	}
	if from == cluster {
		return nil
	}
	if _, err := c.RemovePoint(point); err != nil {
		return err
	}
	return c.AddPoint(cluster, point)
}

// ListClusters returns the live cluster IDs in ascending order.
func (c *Clustering) ListClusters() []model.ClusterID {
	return slices.Sorted(maps.Keys(c.clusters))
}

// ClusterOf returns the cluster containing point.
func (c *Clustering) ClusterOf(point model.PointID) (model.ClusterID, bool) {
	cluster, ok := c.assignment[point]
	return cluster, ok
}

// Size returns the number of points in cluster, or 0 if it does not exist.
func (c *Clustering) Size(cluster model.ClusterID) int {
	members, ok := c.clusters[cluster]
	if !ok {
		return 0
	}
	return int(members.GetCardinality())
}

// Members returns the points of cluster in ascending order.
func (c *Clustering) Members(cluster model.ClusterID) []model.PointID {
	members, ok := c.clusters[cluster]
	if !ok {
		return nil
	}
	out := make([]model.PointID, 0, members.GetCardinality())
	it := members.Iterator()
	for it.HasNext() {
		out = append(out, model.PointID(it.Next()))
	}
	return out
}

// Contains reports whether point belongs to a cluster.
func (c *Clustering) Contains(point model.PointID) bool {
	_, ok := c.assignment[point]
	return ok
}

// Together reports whether a and b belong to the same cluster.
func (c *Clustering) Together(a, b model.PointID) bool {
	ca, okA := c.assignment[a]
	cb, okB := c.assignment[b]
	return okA && okB && ca == cb
}

// Len returns the number of points.
func (c *Clustering) Len() int {
	return len(c.assignment)
}

// NumClusters returns the number of live clusters.
func (c *Clustering) NumClusters() int {
	return len(c.clusters)
}

// Points returns all point IDs in ascending order.
func (c *Clustering) Points() []model.PointID {
	return slices.Sorted(maps.Keys(c.assignment))
}

// All iterates over every (point, cluster) pair, cluster by cluster in
// ascending cluster order and ascending point order within a cluster.
func (c *Clustering) All() iter.Seq2[model.PointID, model.ClusterID] {
	return func(yield func(model.PointID, model.ClusterID) bool) {
		for _, id := range c.ListClusters() {
			it := c.clusters[id].Iterator()
			for it.HasNext() {
				if !yield(model.PointID(it.Next()), id) {
					return
				}
			}
		}
	}
}

// Clone returns a deep copy.
func (c *Clustering) Clone() *Clustering {
	out := &Clustering{
		assignment: maps.Clone(c.assignment),
		clusters:   make(map[model.ClusterID]*roaring.Bitmap, len(c.clusters)),
		nextID:     c.nextID,
	}
	for id, members := range c.clusters {
		out.clusters[id] = members.Clone()
	}
	return out
}

// Validate checks the partition invariant: no empty cluster, and the
// assignment map and the member sets describe the same partition.
func (c *Clustering) Validate() error {
	var total uint64
	for id, members := range c.clusters {
		if members.IsEmpty() {
			return fmt.Errorf("%w: cluster %d is empty", model.ErrInvariantViolation, id)
		}
		total += members.GetCardinality()
		it := members.Iterator()
		for it.HasNext() {
			p := model.PointID(it.Next())
			if owner, ok := c.assignment[p]; !ok || owner != id {
				return fmt.Errorf("%w: point %d in cluster %d is assigned to %d", model.ErrInvariantViolation, p, id, owner)
			}
		}
	}
	if total != uint64(len(c.assignment)) {
		return fmt.Errorf("%w: %d members but %d assigned points", model.ErrInvariantViolation, total, len(c.assignment))
	}
	return nil
}

// Equal reports whether c and other group the same points the same way,
// regardless of cluster IDs.
func (c *Clustering) Equal(other *Clustering) bool {
	if c.Len() != other.Len() || c.NumClusters() != other.NumClusters() {
		return false
	}
	for _, members := range c.clusters {
		first := model.PointID(members.Minimum())
		oc, ok := other.assignment[first]
		if !ok || !members.Equals(other.clusters[oc]) {
			return false
		}
	}
	return true
}
