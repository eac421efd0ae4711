package linkage

// growthStats accumulates where the sorted distances grow the fastest, both
// in absolute and relative terms.
type growthStats struct {
	maxIncrease, maxRatio          float64
	idxIncrease, idxRatio, idxBoth int
}

func (s *growthStats) accumulate(i int, prev, next float64) {
	if prev == 0 {
		return
	}
	delta := next - prev
	ratio := next / prev

	both := true
	if delta > s.maxIncrease {
		s.maxIncrease = delta
		s.idxIncrease = i
	} else {
		both = false
	}
	if ratio > s.maxRatio {
		s.maxRatio = ratio
		s.idxRatio = i
	} else {
		both = false
	}
	if both {
		s.idxBoth = i
	}
}

// indexOfMaxChange picks the elbow, falling back to the earlier candidate
// when the absolute and relative measures disagree in the lower three quarters.
func (s *growthStats) indexOfMaxChange(low, high int) int {
	conservative := low + (high-low)*3/4
	clamp := func(i int) int { return max(min(high, i), low) }

	switch {
	case s.idxBoth > high:
		return high
	case s.idxBoth > conservative:
		return s.idxBoth
	case s.idxRatio < conservative:
		return clamp(s.idxIncrease)
	case s.idxIncrease < conservative:
		return clamp(s.idxRatio)
	default:
		return min(high, s.idxIncrease, s.idxRatio)
	}
}

// bySorting returns the value just before the elbow of sorted.
func bySorting(sorted []float64, cfg Config) float64 {
	n := len(sorted)
	skip := noiseSkip(cfg)
	low := lowestIndex(cfg, n)
	start := 1 + skip + low
	high := n - minClusterCount(cfg, n)

	if start >= high {
		// Too few samples for the growth statistics.
		mid := n / 2
		prev := sorted[max(0, mid-1)]
		return valueBeforeJump(sorted[mid:], prev)
	}

	var stats growthStats
	for i := start; i < high; i++ {
		stats.accumulate(i, sorted[i-1-skip], sorted[i])
	}
	idx := stats.indexOfMaxChange(low, high)
	return sorted[max(0, min(idx, n-1)-1)]
}
