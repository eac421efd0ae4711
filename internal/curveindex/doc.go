// Package curveindex builds the space-filling-curve orderings of a point set.
//
// Each ordering applies one axis permutation (optionally with reflections) to
// every point, computes the Hilbert index of the permuted coordinates and
// sorts the points by that index. Points that are close in space tend to be
// close in at least one ordering, which is what the neighbor search exploits.
//
// Orderings are built in parallel, one permutation per task. Ties between
// equal curve indices are broken by ascending point ID, so the result is a
// pure function of the points and the configuration.
package curveindex
