// Package engine implements the clustering engine.
//
// The engine turns approximate neighbor lists into a flat partition:
//   - Every point starts as a singleton
//   - Linkage: a point is joined with each neighbor within the linkage distance
//   - Density: a core point (at least MinDensityCount neighbors within the
//     density threshold) is joined with all of those neighbors, repeated over a
//     worklist of points whose joins still changed something until a fixed point
//   - Points reached by neither rule stay singletons
//
// Candidate edges are generated in parallel; merges run serially on a
// union-find arena in ascending point ID order. Each output cluster is named
// by the smallest point ID it contains.
package engine
