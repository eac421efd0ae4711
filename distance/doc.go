// Package distance provides distance calculations over integer coordinate vectors.
//
// Coordinates are non-negative integers (see model.Point). Squared differences
// are accumulated in float64, which is exact while the squared distance stays
// below 2^53.
//
// # Supported Metrics
//
//   - MetricEuclidean: Euclidean distance (default)
//   - MetricManhattan: sum of absolute differences
//
// Both are true metrics (symmetric, zero only for identical points, triangle
// inequality), which the neighbor search and linkage thresholds rely on.
//
// # Usage
//
//	d := distance.Euclidean(a, b)
//	sq := distance.SquaredEuclidean(a, b)
//	fn, _ := distance.Provider(distance.MetricManhattan)
package distance
