package strategy

import (
	"math"
	"sort"
)

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// populationStdDev is the population standard deviation of xs.
func populationStdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

func minOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	min := xs[0]
	for _, x := range xs[1:] {
		if x < min {
			min = x
		}
	}
	return min
}

func maxOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	max := xs[0]
	for _, x := range xs[1:] {
		if x > max {
			max = x
		}
	}
	return max
}

// RiskProfile classifies profit volatility against the configured
// thresholds. Thresholds are checked in ascending order and the first one
// at or above the deviation wins; zero or undefined deviation is "None"
// and anything above every threshold is "Extreme".
func RiskProfile(stdDev float64, thresholds map[string]float64) string {
	if math.IsNaN(stdDev) || stdDev == 0 {
		return "None"
	}

	type band struct {
		profile   string
		threshold float64
	}
	bands := make([]band, 0, len(thresholds))
	for profile, threshold := range thresholds {
		bands = append(bands, band{profile: profile, threshold: threshold})
	}
	sort.Slice(bands, func(i, j int) bool { return bands[i].threshold < bands[j].threshold })

	for _, b := range bands {
		if stdDev <= b.threshold {
			return b.profile
		}
	}
	return "Extreme"
}
