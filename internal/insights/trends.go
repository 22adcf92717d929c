package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/nuravs/ojas-wellness-glow-sub001/internal/wellness"
)

// Per-metric trend tuning. The dead zone is the slope magnitude below which
// a trend reads "stable"; adherence rates live on a bounded 0-1 scale, hence
// the tighter zone. Confidence is a bounded heuristic magnitude derived from
// the slope, not a statistical p-value.
const (
	trendWindow = 14

	bpDeadZone        = 0.1
	symptomDeadZone   = 0.1
	adherenceDeadZone = 0.05

	bpConfidenceCap         = 0.9
	bpConfidenceMult        = 2.0
	adherenceConfidenceCap  = 0.85
	adherenceConfidenceMult = 3.0
	symptomConfidenceCap    = 0.8
	symptomConfidenceMult   = 2.0

	bpMinSamples        = 3
	adherenceMinSamples = 5
	symptomMinSamples   = 3

	worseningValidFor = 3 * 24 * time.Hour
	improvingValidFor = 7 * 24 * time.Hour
)

// trendStage examines blood-pressure systolic values, daily adherence rates,
// and symptom severities independently. Stable trends are suppressed: a flat
// line is not a signal.
func (e *Engine) trendStage(vitals []wellness.VitalReading, symptoms []wellness.SymptomEntry, logs []wellness.MedicationLogEntry, now time.Time) []ProactiveInsight {
	var out []ProactiveInsight

	if t := e.bloodPressureTrend(vitals); t != nil {
		out = append(out, e.trendInsight(*t, now))
	}
	if t := e.adherenceTrend(logs); t != nil {
		out = append(out, e.trendInsight(*t, now))
	}
	if t := e.symptomTrend(symptoms); t != nil {
		out = append(out, e.trendInsight(*t, now))
	}
	return out
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func (e *Engine) bloodPressureTrend(vitals []wellness.VitalReading) *TrendAnalysis {
	var readings []wellness.VitalReading
	for _, v := range vitals {
		if v.Type == wellness.VitalBloodPressure && v.Systolic() > 0 {
			readings = append(readings, v)
		}
	}
	if len(readings) < bpMinSamples {
		return nil
	}

	sort.Slice(readings, func(i, j int) bool {
		return readings[i].MeasuredAt.Before(readings[j].MeasuredAt)
	})
	if len(readings) > trendWindow {
		readings = readings[len(readings)-trendWindow:]
	}

	values := make([]float64, len(readings))
	for i, r := range readings {
		values[i] = r.Systolic()
	}

	return classifyTrend("blood_pressure", values, bpDeadZone, bpConfidenceCap, bpConfidenceMult, true)
}

func (e *Engine) adherenceTrend(logs []wellness.MedicationLogEntry) *TrendAnalysis {
	if len(logs) < adherenceMinSamples {
		return nil
	}

	byDay := wellness.DailyAdherenceRates(logs)
	days := wellness.SortedDays(byDay)
	if len(days) < 2 {
		return nil
	}
	if len(days) > trendWindow {
		days = days[len(days)-trendWindow:]
	}

	values := make([]float64, len(days))
	for i, d := range days {
		values[i] = byDay[d]
	}

	// Rising adherence is good: higherIsWorse = false.
	return classifyTrend("medication_adherence", values, adherenceDeadZone, adherenceConfidenceCap, adherenceConfidenceMult, false)
}

func (e *Engine) symptomTrend(symptoms []wellness.SymptomEntry) *TrendAnalysis {
	var entries []wellness.SymptomEntry
	for _, s := range symptoms {
		if s.Type != "" {
			entries = append(entries, s)
		}
	}
	if len(entries) < symptomMinSamples {
		return nil
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LoggedAt.Before(entries[j].LoggedAt)
	})
	if len(entries) > trendWindow {
		entries = entries[len(entries)-trendWindow:]
	}

	values := make([]float64, len(entries))
	for i, s := range entries {
		values[i] = s.SeverityOrDefault()
	}

	return classifyTrend("symptom_severity", values, symptomDeadZone, symptomConfidenceCap, symptomConfidenceMult, true)
}

// classifyTrend returns nil for a stable series so the stage contributes
// nothing rather than a placeholder insight.
func classifyTrend(metric string, values []float64, deadZone, cap, mult float64, higherIsWorse bool) *TrendAnalysis {
	slope := wellness.Slope(values)

	var direction TrendDirection
	switch {
	case slope > deadZone:
		direction = TrendWorsening
		if !higherIsWorse {
			direction = TrendImproving
		}
	case slope < -deadZone:
		direction = TrendImproving
		if !higherIsWorse {
			direction = TrendWorsening
		}
	default:
		return nil
	}

	return &TrendAnalysis{
		Metric:     metric,
		Direction:  direction,
		Slope:      slope,
		Confidence: wellness.Clamp(absFloat(slope)*mult, 0, cap),
		Timeframe:  fmt.Sprintf("last %d readings", len(values)),
		SampleSize: len(values),
	}
}

func (e *Engine) trendInsight(t TrendAnalysis, now time.Time) ProactiveInsight {
	var (
		priority Priority
		title    string
		message  string
		recs     []string
		validFor time.Duration
	)

	switch t.Metric {
	case "blood_pressure":
		if t.Direction == TrendWorsening {
			priority = PriorityHigh
			title = "Blood pressure is trending upward"
			message = fmt.Sprintf("Your systolic readings have been rising over your %s.", t.Timeframe)
			recs = []string{
				"Take readings at the same time each day",
				"Review salt intake and recent medication changes",
				"Share this trend with your care team",
			}
			validFor = worseningValidFor
		} else {
			priority = PriorityLow
			title = "Blood pressure is improving"
			message = fmt.Sprintf("Your systolic readings have been coming down over your %s.", t.Timeframe)
			recs = []string{"Keep up your current routine"}
			validFor = improvingValidFor
		}
	case "medication_adherence":
		if t.Direction == TrendWorsening {
			priority = PriorityHigh
			title = "Medication adherence is slipping"
			message = "Your daily dose completion has been declining recently."
			recs = []string{
				"Set reminders for your usual dose times",
				"Keep medications somewhere visible",
			}
			validFor = worseningValidFor
		} else {
			priority = PriorityLow
			title = "Medication adherence is improving"
			message = "Your daily dose completion has been climbing. Nice work."
			recs = []string{"Keep up your current routine"}
			validFor = improvingValidFor
		}
	default: // symptom_severity
		if t.Direction == TrendWorsening {
			priority = PriorityMedium
			title = "Symptoms are intensifying"
			message = fmt.Sprintf("Logged symptom severity has been rising over your %s.", t.Timeframe)
			recs = []string{
				"Note any new triggers alongside your entries",
				"Consider discussing the trend with your doctor",
			}
			validFor = worseningValidFor
		} else {
			priority = PriorityLow
			title = "Symptoms are easing"
			message = fmt.Sprintf("Logged symptom severity has been falling over your %s.", t.Timeframe)
			recs = []string{"Keep up your current routine"}
			validFor = improvingValidFor
		}
	}

	ins := e.insight(KindTrend, priority, title, message, t.Confidence, validFor, now)
	ins.Recommendations = recs
	return ins
}
