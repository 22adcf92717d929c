package wellness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlope(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"rising by one", []float64{120, 121, 122, 123, 124}, 1.0},
		{"flat", []float64{5, 5, 5, 5}, 0},
		{"falling", []float64{10, 8, 6, 4}, -2.0},
		{"single point", []float64{42}, 0},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Slope(tt.values), 1e-9)
		})
	}
}

func TestPearson(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	ys := []float64{2, 4, 6, 8, 10}

	assert.InDelta(t, 1.0, Pearson(xs, ys), 1e-9)

	inverted := []float64{10, 8, 6, 4, 2}
	assert.InDelta(t, -1.0, Pearson(xs, inverted), 1e-9)
}

func TestPearson_Symmetric(t *testing.T) {
	xs := []float64{0.9, 0.5, 0.7, 1.0, 0.3, 0.8, 0.6}
	ys := []float64{3, 7, 5, 2, 8, 4, 6}

	assert.InDelta(t, Pearson(xs, ys), Pearson(ys, xs), 1e-12)
}

func TestPearson_Degenerate(t *testing.T) {
	// Zero variance must not produce NaN.
	assert.Equal(t, 0.0, Pearson([]float64{5, 5, 5}, []float64{1, 2, 3}))
	// Length mismatch yields nothing.
	assert.Equal(t, 0.0, Pearson([]float64{1, 2}, []float64{1, 2, 3}))
	assert.Equal(t, 0.0, Pearson([]float64{1}, []float64{1}))
}

func TestStdDev(t *testing.T) {
	assert.InDelta(t, 0, StdDev([]float64{1, 1, 1}), 1e-9)
	assert.InDelta(t, 2, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
	assert.Equal(t, 0.0, StdDev(nil))
}

func TestDailyAdherenceRates(t *testing.T) {
	day := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

	logs := []MedicationLogEntry{
		{Status: DoseTaken, CreatedAt: day},
		{Status: DoseMissed, CreatedAt: day.Add(12 * time.Hour)},
		{Status: DoseTaken, CreatedAt: day.AddDate(0, 0, 1)},
	}

	rates := DailyAdherenceRates(logs)
	assert.Len(t, rates, 2)
	assert.InDelta(t, 0.5, rates[DayKey(day)], 1e-9)
	assert.InDelta(t, 1.0, rates[DayKey(day.AddDate(0, 0, 1))], 1e-9)
}

func TestDailySymptomSeverity_SkipsUntyped(t *testing.T) {
	day := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	sev := func(n int) *int { return &n }

	symptoms := []SymptomEntry{
		{Type: "tremor", Severity: sev(4), LoggedAt: day},
		{Type: "tremor", Severity: sev(6), LoggedAt: day.Add(time.Hour)},
		{Type: "", Severity: sev(10), LoggedAt: day}, // no type, skipped
	}

	means := DailySymptomSeverity(symptoms)
	assert.Len(t, means, 1)
	assert.InDelta(t, 5.0, means[DayKey(day)], 1e-9)
}
