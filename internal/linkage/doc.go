// Package linkage estimates clustering parameters from neighbor distances.
//
// The linkage distance is found at the elbow of the sorted first-neighbor
// distances: below it, points sit inside clusters; above it, the distances
// belong to outliers and gaps between clusters. Two strategies locate the
// elbow:
//
//   - Sorting sorts all distances and tracks where the growth between
//     samples (absolute and relative) peaks.
//   - Binning bucket-sorts the distances into logarithmic bins, picks the bin
//     where the spread of values jumps, and sorts only that bin.
//
// The density threshold is a quantile of the core distances (distance to the
// MinDensityCount-th neighbor), capped at twice the linkage distance.
//
// Estimation is a pure function of the neighbor lists: the order of the
// lists does not matter and nothing is cached between calls.
package linkage
