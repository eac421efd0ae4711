package cpu

import (
	"os"
	"strings"
)

// Kernel identifies the unrolling width of the distance kernels.
type Kernel uint8

const (
	// Narrow accumulates four lanes per iteration.
	Narrow Kernel = iota
	// Wide accumulates eight lanes per iteration.
	Wide
)

// String returns the string representation of a Kernel.
func (k Kernel) String() string {
	switch k {
	case Narrow:
		return "narrow"
	case Wide:
		return "wide"
	default:
		return "unknown"
	}
}

// ParseKernel parses a string into a Kernel value.
func ParseKernel(s string) (Kernel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "narrow":
		return Narrow, true
	case "wide":
		return Wide, true
	default:
		return Narrow, false
	}
}

var (
	active      Kernel
	hasOverride bool

	// Feature flags, set by platform-specific init.
	hasAVX2  bool
	hasASIMD bool
)

func initKernel() {
	if override := os.Getenv("CURVECLUST_KERNEL"); override != "" {
		if k, ok := ParseKernel(override); ok {
			hasOverride = true
			active = k
			return
		}
	}

	if hasAVX2 || hasASIMD {
		active = Wide
		return
	}
	active = Narrow
}

// ActiveKernel returns the selected kernel width.
func ActiveKernel() Kernel {
	return active
}

// IsOverridden returns true if CURVECLUST_KERNEL selected the kernel.
func IsOverridden() bool {
	return hasOverride
}

// HasAVX2 returns true if x86-64 AVX2+FMA is available.
func HasAVX2() bool {
	return hasAVX2
}

// HasASIMD returns true if ARM64 ASIMD (NEON) is available.
func HasASIMD() bool {
	return hasASIMD
}
