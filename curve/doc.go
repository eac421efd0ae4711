// Package curve maps integer points onto a Hilbert space-filling curve.
//
// The curve index of a D-dimensional point with B bits per coordinate is a
// D·B-bit unsigned integer. It is stored big-endian in a []uint64 of
// Encoder.Words() words, so two indices compare with Compare.
//
// Points that are close on the curve are close in space, which makes a sort by
// curve index a locality-preserving 1-D ordering. A single orientation has blind
// spots (neighbors on opposite sides of a curve fold), so several Permutations
// (reordered and optionally reflected axes) are used to produce independent
// orderings.
//
// # Usage
//
//	enc, _ := curve.NewEncoder(dims, bits)
//	perms := curve.GeneratePermutations(dims, 4, seed, true)
//	idx := enc.Index(perms[1].Apply(nil, p.Coords, bits))
package curve
