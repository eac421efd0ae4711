// Package testutil provides testing utilities for curveclust.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random integer points, computing exact
// nearest neighbors, and verifying neighbor recall and B-Cubed scores.
//
// # Random Point Generation
//
//	rng := testutil.NewRNG(seed)
//	points := rng.UniformPoints(1000, 3, 1<<16)
//	points, labels := rng.ClusteredPoints(1000, 3, 8, 50, 1<<16)
//
// # Exact Search (Ground Truth)
//
//	exact := testutil.ExactNeighbors(points, k, distance.Euclidean)
//
// # Recall Verification
//
//	recall := testutil.NeighborRecall(exact, approx)
//
// # Reference Scores
//
//	p, r, f := testutil.BruteForceBCubed(candidate, gold, 0.5)
package testutil
