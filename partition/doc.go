// Package partition provides Clustering, the mutable flat partition of point
// IDs into clusters.
//
// Every point belongs to exactly one live cluster and no live cluster is
// empty. Each mutation either preserves this or fails without changing
// anything; the invariant holds before and after every public call.
//
// Cluster members are kept in Roaring bitmaps, so merging two clusters is a
// bitmap union and membership lists come out sorted.
//
// # Merge Policy
//
// MergeClusters(a, b) always keeps a and deletes b.
//
// # Text Form
//
// Parse and String use a delimited form, one cluster per ';'-separated group
// of ','-separated point IDs:
//
//	c, err := partition.Parse("1,2,3;4,5")
//
// # Thread Safety
//
// Clustering is NOT safe for concurrent mutation. Callers serialize writes
// through a single owner.
package partition
