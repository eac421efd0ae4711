// Package hash checksums encoded clustering snapshots.
//
// Checksums use CRC32-Castagnoli, which the standard library computes with
// SSE4.2 or the ARM CRC extension when available:
//
//	sum := hash.CRC32C(payload)
//	if !hash.Verify(payload, sum) {
//	    // corrupt
//	}
package hash
