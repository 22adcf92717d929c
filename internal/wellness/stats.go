package wellness

import (
	"math"
	"sort"
	"time"
)

// Slope fits values against their index 0..n-1 using ordinary least squares
// and returns the per-step slope. Fewer than two points yields 0.
func Slope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// Pearson computes the Pearson correlation coefficient of two equal-length
// series, clamped to [-1, 1]. Degenerate input (length mismatch, fewer than
// two points, zero variance) yields 0.
func Pearson(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}

	n := float64(len(xs))
	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
		sumYY += ys[i] * ys[i]
	}

	denom := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if denom == 0 {
		return 0
	}
	return Clamp((n*sumXY-sumX*sumY)/denom, -1, 1)
}

// StdDev returns the population standard deviation.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))

	return math.Sqrt(variance)
}

// Mean returns the arithmetic mean, 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DayKey truncates a timestamp to its calendar day in local time.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// SortedDays returns the keys of a per-day map in chronological order.
// Day keys sort lexicographically.
func SortedDays[T any](byDay map[string]T) []string {
	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}

// DailyAdherenceRates buckets log entries by calendar day and returns the
// taken-fraction per day, keyed by day.
func DailyAdherenceRates(logs []MedicationLogEntry) map[string]float64 {
	taken := make(map[string]int)
	total := make(map[string]int)
	for _, l := range logs {
		day := DayKey(l.CreatedAt)
		total[day]++
		if l.Status == DoseTaken {
			taken[day]++
		}
	}

	rates := make(map[string]float64, len(total))
	for day, n := range total {
		rates[day] = float64(taken[day]) / float64(n)
	}
	return rates
}

// DailySymptomSeverity buckets symptom entries by calendar day and returns
// the mean severity per day. Entries with no type are skipped.
func DailySymptomSeverity(symptoms []SymptomEntry) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, s := range symptoms {
		if s.Type == "" {
			continue
		}
		day := DayKey(s.LoggedAt)
		sums[day] += s.SeverityOrDefault()
		counts[day]++
	}

	means := make(map[string]float64, len(sums))
	for day, sum := range sums {
		means[day] = sum / float64(counts[day])
	}
	return means
}
