package linkage

// RunStats estimates the clusters a single pass over one curve ordering would
// form at a given linkage distance. All counts are upper bounds: the full
// engine also merges runs that the curve separates.
type RunStats struct {
	// TooLargeGaps counts consecutive pairs farther apart than the linkage distance.
	TooLargeGaps int
	// LargeClusters counts runs longer than the outlier cluster size.
	LargeClusters int
	// OutlierClusters counts runs no longer than the outlier cluster size.
	OutlierClusters int
	// Outliers counts the points in outlier clusters.
	Outliers int
}

// CountRuns splits len(gaps)+1 consecutive points into runs wherever a gap
// exceeds linkage and classifies each run by its size. outlierSize 0 means
// DefaultOutlierClusterSize.
func CountRuns(gaps []float64, linkage float64, outlierSize int) RunStats {
	if outlierSize <= 0 {
		outlierSize = DefaultOutlierClusterSize
	}

	var s RunStats
	closeRun := func(size int) {
		if size <= outlierSize {
			s.OutlierClusters++
			s.Outliers += size
		} else {
			s.LargeClusters++
		}
	}

	size := 1
	for _, g := range gaps {
		if g > linkage {
			s.TooLargeGaps++
			closeRun(size)
			size = 1
			continue
		}
		size++
	}
	closeRun(size)
	return s
}
