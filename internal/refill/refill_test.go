package refill

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuravs/ojas-wellness-glow-sub001/internal/wellness"
)

func fptr(v float64) *float64 { return &v }

func TestDaysOfSupply(t *testing.T) {
	tests := []struct {
		name        string
		pills       *float64
		consumption *float64
		want        float64
		ok          bool
	}{
		{"exact week", fptr(14), fptr(2), 7, true},
		{"fractional", fptr(10), fptr(3), 10.0 / 3.0, true},
		{"zero consumption defaults to one per day", fptr(5), fptr(0), 5, true},
		{"negative consumption defaults to one per day", fptr(5), fptr(-2), 5, true},
		{"missing pills", nil, fptr(2), 0, false},
		{"missing consumption", fptr(14), nil, 0, false},
		{"negative pills rejected", fptr(-3), fptr(1), 0, false},
		{"nan pills rejected", fptr(math.NaN()), fptr(1), 0, false},
		{"inf consumption rejected", fptr(14), fptr(math.Inf(1)), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			med := wellness.Medication{PillsRemaining: tt.pills, DailyConsumption: tt.consumption}
			got, ok := DaysOfSupply(med)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		days float64
		want Urgency
	}{
		{10, UrgencyNone},
		{7.01, UrgencyNone},
		{7, UrgencySoon}, // threshold is inclusive
		{3.5, UrgencySoon},
		{3, UrgencyUrgent},
		{0, UrgencyUrgent},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.days), "days=%v", tt.days)
	}
}

func TestLowSupply(t *testing.T) {
	meds := []wellness.Medication{
		{ID: "a", Name: "Lisinopril", PillsRemaining: fptr(14), DailyConsumption: fptr(2)},
		{ID: "b", Name: "Metformin", PillsRemaining: fptr(60), DailyConsumption: fptr(2)},
		{ID: "c", Name: "Levodopa", PillsRemaining: fptr(4), DailyConsumption: fptr(2)},
		{ID: "d", Name: "Untracked"},
	}

	low := LowSupply(meds)

	require.Len(t, low, 2)
	assert.Equal(t, "a", low[0].MedicationID)
	assert.Equal(t, UrgencySoon, low[0].Urgency)
	assert.InDelta(t, 7, low[0].DaysLeft, 1e-9)
	assert.Equal(t, "c", low[1].MedicationID)
	assert.Equal(t, UrgencyUrgent, low[1].Urgency)
}
