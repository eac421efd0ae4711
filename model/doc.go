// Package model defines core types shared by every stage of the clustering pipeline.
//
// # Identity Types
//
//   - PointID: caller-assigned, unique identifier of a point (uint32)
//   - ClusterID: identifier of a live cluster inside a partition (uint32)
//
// # Data Types
//
//   - Point: identity plus a vector of non-negative integer coordinates
//   - Neighbor / NeighborList: approximate k-nearest neighbors of one point
//   - LinkageParameters: thresholds that drive the clustering engine
//
// # Errors
//
// Error kinds are sentinel values matched with errors.Is:
//
//	if errors.Is(err, model.ErrConfig) { ... }
//
// Dimension mismatches carry details and can be unpacked with errors.As:
//
//	var dm *model.DimensionMismatchError
//	if errors.As(err, &dm) {
//	    fmt.Println(dm.PointID, dm.Expected, dm.Actual)
//	}
package model
