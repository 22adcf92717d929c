package insights

import (
	"fmt"
	"time"

	"github.com/nuravs/ojas-wellness-glow-sub001/internal/refill"
	"github.com/nuravs/ojas-wellness-glow-sub001/internal/wellness"
)

const (
	refillValidFor       = 7 * 24 * time.Hour
	compoundRiskValidFor = 2 * 24 * time.Hour

	compoundRiskWindow      = 3 * 24 * time.Hour
	compoundRiskSystolic    = 140.0
	compoundRiskMinReadings = 2
	compoundRiskMinSymptoms = 2
)

// predictionStage emits short-horizon predictions: an aggregate refill
// warning and a compound blood-pressure/dizziness safety check.
func (e *Engine) predictionStage(vitals []wellness.VitalReading, symptoms []wellness.SymptomEntry, medications []wellness.Medication, now time.Time) []ProactiveInsight {
	var out []ProactiveInsight

	if ins := e.refillPrediction(medications, now); ins != nil {
		out = append(out, *ins)
	}
	if ins := e.compoundRiskPrediction(vitals, symptoms, now); ins != nil {
		out = append(out, *ins)
	}
	return out
}

// refillPrediction flags medications at or below seven days of supply and
// rolls them into one aggregate insight naming the count.
func (e *Engine) refillPrediction(medications []wellness.Medication, now time.Time) *ProactiveInsight {
	low := refill.LowSupply(medications)
	if len(low) == 0 {
		return nil
	}

	priority := PriorityMedium
	for _, status := range low {
		if status.Urgency == refill.UrgencyUrgent {
			priority = PriorityHigh
			break
		}
	}

	message := fmt.Sprintf("%d medications are running low and will need a refill within a week.", len(low))
	if len(low) == 1 {
		message = fmt.Sprintf("%s is running low and will need a refill within a week.", low[0].Name)
	}

	ins := e.insight(KindPrediction, priority, "Refills needed soon", message, 0.95, refillValidFor, now)
	ins.Recommendations = []string{
		"Contact your pharmacy to arrange refills",
		"Check whether any prescriptions also need renewal",
	}
	return &ins
}

// compoundRiskPrediction fires when elevated systolic readings and dizziness
// cluster inside the trailing three days. This is the one insight a user
// cannot dismiss.
func (e *Engine) compoundRiskPrediction(vitals []wellness.VitalReading, symptoms []wellness.SymptomEntry, now time.Time) *ProactiveInsight {
	cutoff := now.Add(-compoundRiskWindow)

	highReadings := 0
	for _, v := range vitals {
		if v.MeasuredAt.Before(cutoff) || v.MeasuredAt.After(now) {
			continue
		}
		if v.Type == wellness.VitalBloodPressure && v.Systolic() > compoundRiskSystolic {
			highReadings++
		}
	}
	if highReadings < compoundRiskMinReadings {
		return nil
	}

	dizzinessCount := 0
	for _, s := range symptoms {
		if s.LoggedAt.Before(cutoff) || s.LoggedAt.After(now) {
			continue
		}
		if isDizziness(s.Type) {
			dizzinessCount++
		}
	}
	if dizzinessCount < compoundRiskMinSymptoms {
		return nil
	}

	ins := e.insight(KindPrediction, PriorityUrgent,
		"Elevated blood pressure with dizziness",
		"You have logged repeated high blood pressure readings alongside dizziness in the last three days. This combination deserves prompt attention.",
		0.85, compoundRiskValidFor, now)
	ins.Dismissible = false
	ins.Recommendations = []string{
		"Sit or lie down if you feel dizzy",
		"Re-check your blood pressure while seated and rested",
		"Avoid driving until the dizziness passes",
		"Contact your care team today if readings stay high",
	}
	return &ins
}
