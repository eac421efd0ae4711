// Package conv provides safe integer type conversion utilities.
//
// These functions perform bounds checking to prevent integer overflow/underflow
// when converting between signed/unsigned and different bit-width integer types.
// Failures wrap model.ErrNumericOverflow.
//
// Use cases:
//   - Validating untrusted data from snapshots (headers, counts)
//   - Sizing scratch buffers before reserving memory
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices, bounded counters), use direct type casts instead to avoid overhead.
package conv
