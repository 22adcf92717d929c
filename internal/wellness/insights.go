package wellness

import (
	"math"
	"sort"
)

// factorPresence records which factors actually had in-window data. A
// threshold insight only fires when its factor was computed from real
// records; defaults never generate praise or warnings.
type factorPresence struct {
	logs     bool
	vitals   bool
	symptoms bool
	sleep    bool
	stress   bool
}

// Fixed recommendation strings per threshold branch. Treated as a lookup
// table so the policy stays auditable.
const (
	recAdherenceLow = "Set medication reminders or use a pill organizer to stay on schedule."
	recStabilityLow = "Share your recent readings with your care team and review your measurement routine."
	recSeverityHigh = "Consider discussing your recent symptoms with your doctor."
	recSleepLow     = "Try a consistent bedtime routine and limit screens before sleep."
	recStressLow    = "Short breathing exercises or a daily walk can help manage stress."
)

func buildInsights(factors FactorBreakdown, personalized PersonalizedFactors, present factorPresence) []WellnessInsight {
	var insights []WellnessInsight

	add := func(factor string, positive bool, message, rec string, value, threshold float64) {
		insights = append(insights, WellnessInsight{
			Factor:         factor,
			Positive:       positive,
			Message:        message,
			Recommendation: rec,
			Strength:       math.Abs(value - threshold),
		})
	}

	if present.logs {
		if factors.MedicationAdherence >= AdherenceGoodThreshold {
			add("medication_adherence", true,
				"Excellent medication adherence this week.",
				"", factors.MedicationAdherence, AdherenceGoodThreshold)
		} else if factors.MedicationAdherence < AdherenceLowThreshold {
			add("medication_adherence", false,
				"Several doses were missed this week.",
				recAdherenceLow, factors.MedicationAdherence, AdherenceLowThreshold)
		}
	}

	if present.vitals {
		if factors.VitalStability >= StabilityGoodThreshold {
			add("vital_stability", true,
				"Your vital readings have been consistently in range.",
				"", factors.VitalStability, StabilityGoodThreshold)
		} else if factors.VitalStability < StabilityLowThreshold {
			add("vital_stability", false,
				"Multiple vital readings were out of range recently.",
				recStabilityLow, factors.VitalStability, StabilityLowThreshold)
		}
	}

	if present.symptoms {
		if factors.SymptomSeverity < SeverityLowThreshold {
			add("symptom_severity", true,
				"Symptoms have been mild and infrequent.",
				"", factors.SymptomSeverity, SeverityLowThreshold)
		} else if factors.SymptomSeverity > SeverityHighThreshold {
			add("symptom_severity", false,
				"Symptoms have been frequent or severe this week.",
				recSeverityHigh, factors.SymptomSeverity, SeverityHighThreshold)
		}
	}

	if factors.ConsistencyBonus >= ConsistencyThreshold {
		add("consistency", true,
			"Great job tracking your health regularly.",
			"", factors.ConsistencyBonus, ConsistencyThreshold)
	}

	if present.sleep && personalized.SleepQuality < SleepLowThreshold {
		add("sleep_quality", false,
			"Sleep-related symptoms are affecting your wellness.",
			recSleepLow, personalized.SleepQuality, SleepLowThreshold)
	}
	if present.stress && personalized.StressManagement < StressLowThreshold {
		add("stress_management", false,
			"Stress and mood symptoms have been elevated.",
			recStressLow, personalized.StressManagement, StressLowThreshold)
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Strength > insights[j].Strength
	})
	return insights
}
