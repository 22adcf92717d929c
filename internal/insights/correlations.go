package insights

import (
	"sort"
	"strings"
	"time"

	"github.com/nuravs/ojas-wellness-glow-sub001/internal/wellness"
)

const (
	adherenceSymptomMinDays   = 7
	adherenceSymptomThreshold = 0.3
	bpDizzinessMinDays        = 5
	bpDizzinessThreshold      = 0.4

	adherenceSymptomValidFor = 14 * 24 * time.Hour
	bpDizzinessValidFor      = 10 * 24 * time.Hour
)

// correlationStage buckets paired series by calendar day and computes the
// Pearson correlation across overlapping days. Weak correlations are
// suppressed; the sign of a surviving coefficient selects the phrasing.
func (e *Engine) correlationStage(vitals []wellness.VitalReading, symptoms []wellness.SymptomEntry, logs []wellness.MedicationLogEntry, now time.Time) []ProactiveInsight {
	var out []ProactiveInsight

	if c := correlateAdherenceSymptoms(symptoms, logs); c != nil {
		out = append(out, e.correlationInsight(*c, adherenceSymptomValidFor, now))
	}
	if c := correlateBloodPressureDizziness(vitals, symptoms); c != nil {
		out = append(out, e.correlationInsight(*c, bpDizzinessValidFor, now))
	}
	return out
}

func correlateAdherenceSymptoms(symptoms []wellness.SymptomEntry, logs []wellness.MedicationLogEntry) *CorrelationInsight {
	adherence := wellness.DailyAdherenceRates(logs)
	severity := wellness.DailySymptomSeverity(symptoms)

	xs, ys := overlapSeries(adherence, severity)
	if len(xs) < adherenceSymptomMinDays {
		return nil
	}

	r := wellness.Pearson(xs, ys)
	if absFloat(r) < adherenceSymptomThreshold {
		return nil
	}

	description := "On days you take your medication consistently, your symptoms tend to be milder."
	if r > 0 {
		description = "Your symptoms have been stronger on days with higher medication intake. Worth discussing possible side effects with your doctor."
	}

	return &CorrelationInsight{
		Kind:        CorrelationMedicationSymptom,
		Coefficient: r,
		Description: description,
		Confidence:  wellness.Clamp(absFloat(r), 0, 1),
		Actionable:  true,
	}
}

func correlateBloodPressureDizziness(vitals []wellness.VitalReading, symptoms []wellness.SymptomEntry) *CorrelationInsight {
	systolicSums := make(map[string]float64)
	systolicCounts := make(map[string]int)
	for _, v := range vitals {
		if v.Type != wellness.VitalBloodPressure || v.Systolic() == 0 {
			continue
		}
		day := wellness.DayKey(v.MeasuredAt)
		systolicSums[day] += v.Systolic()
		systolicCounts[day]++
	}

	systolic := make(map[string]float64, len(systolicSums))
	for day, sum := range systolicSums {
		systolic[day] = sum / float64(systolicCounts[day])
	}

	dizziness := make(map[string]float64)
	for _, s := range symptoms {
		if isDizziness(s.Type) {
			dizziness[wellness.DayKey(s.LoggedAt)]++
		}
	}

	xs, ys := overlapSeries(systolic, dizziness)
	if len(xs) < bpDizzinessMinDays {
		return nil
	}

	r := wellness.Pearson(xs, ys)
	if absFloat(r) < bpDizzinessThreshold {
		return nil
	}

	description := "Your dizziness episodes tend to coincide with higher blood pressure readings."
	if r < 0 {
		description = "Your dizziness episodes tend to coincide with lower blood pressure readings."
	}

	return &CorrelationInsight{
		Kind:        CorrelationVitalSymptom,
		Coefficient: r,
		Description: description,
		Confidence:  wellness.Clamp(absFloat(r), 0, 1),
		Actionable:  true,
	}
}

// overlapSeries intersects two per-day maps and returns aligned slices in
// chronological day order.
func overlapSeries(a, b map[string]float64) ([]float64, []float64) {
	var days []string
	for day := range a {
		if _, ok := b[day]; ok {
			days = append(days, day)
		}
	}
	if len(days) == 0 {
		return nil, nil
	}
	sort.Strings(days)

	xs := make([]float64, len(days))
	ys := make([]float64, len(days))
	for i, d := range days {
		xs[i] = a[d]
		ys[i] = b[d]
	}
	return xs, ys
}

func isDizziness(symptomType string) bool {
	t := strings.ToLower(symptomType)
	return strings.Contains(t, "dizz") || strings.Contains(t, "giddi") || t == "lightheaded"
}

func (e *Engine) correlationInsight(c CorrelationInsight, validFor time.Duration, now time.Time) ProactiveInsight {
	title := "Medication and symptoms appear linked"
	if c.Kind == CorrelationVitalSymptom {
		title = "Blood pressure and dizziness appear linked"
	}

	ins := e.insight(KindCorrelation, PriorityMedium, title, c.Description, c.Confidence, validFor, now)
	ins.Recommendations = []string{"Keep logging so the pattern can be confirmed"}
	return ins
}
