package profile

import (
	"math"
	"sort"
)

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

// stdev is the population standard deviation around m.
func stdev(values []float64, m float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sq float64
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// halfSplitTrend compares the mean of the first half of samples against the
// second half, normalized by the first-half mean and clamped to +/- clamp.
// It is the shared trend routine for category trends and the weekly trend.
func halfSplitTrend(samples []float64, clamp float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	half := len(samples) / 2
	early := mean(samples[:half])
	late := mean(samples[len(samples)-half:])
	if early == 0 {
		return 0
	}
	trend := (late - early) / early
	return math.Max(-clamp, math.Min(clamp, trend))
}

// roundToGrid rounds v to the given number of decimal places.
func roundToGrid(v float64, precision int) float64 {
	scale := math.Pow(10, float64(precision))
	return math.Round(v*scale) / scale
}

// rankCells orders grid cells by occurrence, most frequent first, and keeps
// the top k. Ties break on coordinates so rebuilds stay deterministic.
func rankCells(cells map[GridCell]int, k int) []GridCell {
	if len(cells) == 0 {
		return nil
	}
	out := make([]GridCell, 0, len(cells))
	for cell, count := range cells {
		cell.Count = count
		out = append(out, cell)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Lat != out[j].Lat {
			return out[i].Lat < out[j].Lat
		}
		return out[i].Lon < out[j].Lon
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}
