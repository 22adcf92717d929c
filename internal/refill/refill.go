// Package refill holds medication supply arithmetic shared by the insight
// engine and the refills API.
package refill

import (
	"math"

	"github.com/nuravs/ojas-wellness-glow-sub001/internal/wellness"
)

// Thresholds in days of remaining supply.
const (
	// FlagThreshold is inclusive: exactly 7 days left still flags.
	FlagThreshold = 7.0
	// UrgentThreshold marks supplies that cannot wait for a routine refill.
	UrgentThreshold = 3.0
)

// Urgency bands a medication's remaining supply.
type Urgency string

const (
	UrgencyNone   Urgency = "none"
	UrgencySoon   Urgency = "soon"
	UrgencyUrgent Urgency = "urgent"
)

// Status describes one medication's supply situation.
type Status struct {
	MedicationID string  `json:"medication_id"`
	Name         string  `json:"name"`
	DaysLeft     float64 `json:"days_left"`
	Urgency      Urgency `json:"urgency"`
}

// DaysOfSupply computes the remaining days for a medication. It returns
// ok=false when the medication lacks supply tracking fields; a missing
// consumption rate on a tracked supply defaults to one pill per day.
func DaysOfSupply(med wellness.Medication) (float64, bool) {
	if med.PillsRemaining == nil || med.DailyConsumption == nil {
		return 0, false
	}

	pills := *med.PillsRemaining
	consumption := *med.DailyConsumption
	if pills < 0 || math.IsNaN(pills) || math.IsInf(pills, 0) ||
		math.IsNaN(consumption) || math.IsInf(consumption, 0) {
		return 0, false
	}
	if consumption <= 0 {
		consumption = wellness.DefaultDailyConsumption
	}

	return pills / consumption, true
}

// Classify bands a days-left figure.
func Classify(daysLeft float64) Urgency {
	switch {
	case daysLeft <= UrgentThreshold:
		return UrgencyUrgent
	case daysLeft <= FlagThreshold:
		return UrgencySoon
	default:
		return UrgencyNone
	}
}

// LowSupply returns the statuses of all medications at or below the flag
// threshold, in the order the medications were supplied.
func LowSupply(medications []wellness.Medication) []Status {
	var low []Status
	for _, med := range medications {
		days, ok := DaysOfSupply(med)
		if !ok || days > FlagThreshold {
			continue
		}
		low = append(low, Status{
			MedicationID: med.ID,
			Name:         med.Name,
			DaysLeft:     days,
			Urgency:      Classify(days),
		})
	}
	return low
}
