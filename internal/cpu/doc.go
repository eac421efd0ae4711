// Package cpu detects CPU features that influence kernel selection.
//
// The distance kernels are pure Go. On CPUs with wide vector units (AVX2 on
// x86-64, ASIMD on ARM64) an 8-lane unrolled accumulation keeps more
// independent additions in flight; elsewhere a 4-lane loop is used.
//
// The choice can be forced with the CURVECLUST_KERNEL environment variable
// ("narrow" or "wide").
package cpu
