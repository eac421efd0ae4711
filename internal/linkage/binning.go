package linkage

import (
	"math"
	"slices"
	"sort"
)

const (
	binMultiplier = 1.05

	// binResolution is the ratio between the largest distance and the top of
	// the lowest bin.
	binResolution = 1000

	// earlyStopRatio ends the bin scan past the median once the spread has
	// grown this many times between two bins.
	earlyStopRatio = 5
)

// bin holds unsorted values in [from, to).
type bin struct {
	from, to float64
	lowest   float64
	highest  float64
	values   []float64
}

func newBin(from, to float64) bin {
	return bin{from: from, to: to, lowest: to, highest: from}
}

func (b *bin) add(v float64) {
	b.lowest = min(b.lowest, v)
	b.highest = max(b.highest, v)
	b.values = append(b.values, v)
}

// absorb widens b to also cover next, which must lie above b.
func (b *bin) absorb(next bin) {
	b.to = next.to
	if len(next.values) > 0 {
		if len(b.values) == 0 {
			b.lowest = next.lowest
		}
		b.values = append(b.values, next.values...)
		b.highest = next.highest
	}
}

// spread is the average gap between the values of the bin, or its width for
// fewer than two values.
func (b *bin) spread() float64 {
	if len(b.values) <= 1 {
		return b.to - b.from
	}
	return (b.highest - b.lowest) / float64(len(b.values)-1)
}

// makeBins creates bins covering [0, top) whose bounds grow by multiplier,
// never narrower than minWidth.
func makeBins(lowestTop, top, minWidth, multiplier float64) []bin {
	bins := []bin{newBin(0, lowestTop)}
	bottom := lowestTop
	next := lowestTop * multiplier
	for next < top {
		if next-bottom < minWidth {
			next = bottom + minWidth
		}
		bins = append(bins, newBin(bottom, next))
		bottom = next
		next *= multiplier
	}
	return append(bins, newBin(bottom, math.Max(next, top)))
}

func findBin(bins []bin, v float64) int {
	i := sort.Search(len(bins), func(i int) bool { return bins[i].to > v })
	return min(i, len(bins)-1)
}

// consolidate merges runs of bins holding fewer than minSize values into the
// following bins.
func consolidate(bins []bin, minSize int) []bin {
	out := make([]bin, 0, len(bins))
	var held *bin
	for _, b := range bins {
		if held != nil {
			held.absorb(b)
			if len(held.values) >= minSize {
				out = append(out, *held)
				held = nil
			}
			continue
		}
		if len(b.values) >= minSize {
			out = append(out, b)
			continue
		}
		h := b
		held = &h
	}
	if held != nil {
		out = append(out, *held)
	}
	return out
}

// byBinning returns the value just before the elbow of sorted, locating the
// elbow with a logarithmic bucket sort. Only the order-free content of sorted
// is used, so unsorted input gives the same answer.
func byBinning(sorted []float64, cfg Config) float64 {
	n := len(sorted)
	top := slices.Max(sorted)
	if top <= 0 {
		return 0
	}
	top = math.Nextafter(top, math.Inf(1))
	lowestTop := top / binResolution
	bins := makeBins(lowestTop, top, lowestTop, binMultiplier)
	for _, v := range sorted {
		bins[findBin(bins, v)].add(v)
	}
	bins = consolidate(bins, max(5, noiseSkip(cfg)))

	low := lowestIndex(cfg, n)
	var (
		maxIncrease, maxRatio float64
		idxIncrease, idxRatio int
		binIncrease, binRatio int
		cumulative            int
	)
	for i := range bins {
		spread := bins[i].spread()
		prev := 0.0
		if i > 0 {
			prev = bins[i-1].spread()
		}
		if diff := spread - prev; diff > maxIncrease {
			maxIncrease = diff
			idxIncrease = cumulative
			binIncrease = i
		}
		if prev > 0 && cumulative >= low {
			if ratio := spread / prev; ratio > maxRatio {
				maxRatio = ratio
				idxRatio = cumulative
				binRatio = i
				if cumulative > n/2 && maxRatio > earlyStopRatio {
					break
				}
			}
		}
		cumulative += len(bins[i].values)
	}

	// Agreement is unambiguous. An early ratio peak usually compares two tiny
	// values; near the end, absolute jumps are large but relatively small.
	chosen := binRatio
	if idxIncrease == idxRatio || idxRatio < n/2 {
		chosen = binIncrease
	}

	b := bins[chosen]
	if len(b.values) == 0 {
		return b.from
	}
	if len(b.values) <= 2 {
		return b.lowest
	}
	prev := b.from
	if chosen > 0 && len(bins[chosen-1].values) > 0 {
		prev = bins[chosen-1].highest
	}
	values := slices.Clone(b.values)
	slices.Sort(values)
	return valueBeforeJump(values, prev)
}
