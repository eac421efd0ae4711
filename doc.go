// Package curveclust clusters large sets of high-dimensional integer points
// using space-filling curves.
//
// A run orders the points along P Hilbert curves, each over a seeded
// permutation of the axes, and takes every point's approximate k nearest
// neighbors from a window of W positions around it in each ordering. From the
// neighbor distances it estimates a linkage distance and a density threshold,
// then merges points single-link style plus density-forced merges around
// core points. The result is a flat partition; singletons are valid clusters.
//
// # Quick Start
//
//	ctx := context.Background()
//	res, err := curveclust.Run(ctx, points,
//	    curveclust.WithK(10),
//	    curveclust.WithPermutations(4),
//	    curveclust.WithWindow(8),
//	    curveclust.WithSeed(42),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Clustering.NumClusters(), res.Linkage)
//
// # Linkage Parameters
//
// By default the linkage distance is the elbow of the sorted first-neighbor
// distances and the density threshold is a quantile of the distances to the
// ceil(k/2)-th neighbor. Any of them can be fixed:
//
//	curveclust.Run(ctx, points, curveclust.WithLinkageDistance(3.5))
//	curveclust.Run(ctx, points, curveclust.WithLinkage(params)) // no estimation
//
// Estimation fails with ErrDegenerateInput when every neighbor distance is
// the same; fix the parameters in that case.
//
// # Evaluation
//
// Compare scores a clustering against a gold standard with B-Cubed
// precision, recall and F-measure in linear time:
//
//	gold, _ := curveclust.ParseClustering("1,2;3,4")
//	sim, _ := curveclust.Compare(ctx, res.Clustering, gold, curveclust.DefaultAlpha)
//
// # Reproducibility
//
// Runs are pure functions of their input and options. The same points and
// seed always give the same clustering regardless of the worker count.
//
// # Snapshots
//
// The codec package encodes a Clustering, optionally LZ4 or ZSTD compressed,
// for external persistence. The library itself performs no I/O.
package curveclust
