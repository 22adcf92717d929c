package insights

import (
	"time"

	"github.com/nuravs/ojas-wellness-glow-sub001/internal/wellness"
)

const (
	personalizationWindow = 14 * 24 * time.Hour

	timingMinEntries   = 3
	activityMinMorning = 3

	caregiverWindow       = 7 * 24 * time.Hour
	caregiverMinLateNight = 3

	timingValidFor    = 14 * 24 * time.Hour
	activityValidFor  = 21 * 24 * time.Hour
	caregiverValidFor = 7 * 24 * time.Hour
)

// Morning runs 05:00-11:59, evening 17:00-22:59, late night 22:00-05:59.
func isMorning(hour int) bool   { return hour >= 5 && hour < 12 }
func isEvening(hour int) bool   { return hour >= 17 && hour < 23 }
func isLateNight(hour int) bool { return hour >= 22 || hour < 6 }

// personalizationStage derives routine observations from when, rather than
// what, the user logs. The caregiver branch fires only for caregivers.
func (e *Engine) personalizationStage(symptoms []wellness.SymptomEntry, logs []wellness.MedicationLogEntry, role Role, now time.Time) []ProactiveInsight {
	var out []ProactiveInsight

	cutoff := now.Add(-personalizationWindow)
	var recent []wellness.SymptomEntry
	for _, s := range symptoms {
		if !s.LoggedAt.Before(cutoff) && !s.LoggedAt.After(now) {
			recent = append(recent, s)
		}
	}

	if ins := e.timingInsight(recent, now); ins != nil {
		out = append(out, *ins)
	}
	if ins := e.activityInsight(recent, now); ins != nil {
		out = append(out, *ins)
	}
	if role == RoleCaregiver {
		if ins := e.caregiverInsight(logs, now); ins != nil {
			out = append(out, *ins)
		}
	}
	return out
}

// timingInsight compares severity-weighted morning and evening symptom
// loads and phrases whichever dominates.
func (e *Engine) timingInsight(symptoms []wellness.SymptomEntry, now time.Time) *ProactiveInsight {
	var morningLoad, eveningLoad float64
	counted := 0
	for _, s := range symptoms {
		hour := s.LoggedAt.Hour()
		switch {
		case isMorning(hour):
			morningLoad += s.SeverityOrDefault()
			counted++
		case isEvening(hour):
			eveningLoad += s.SeverityOrDefault()
			counted++
		}
	}
	if counted < timingMinEntries || morningLoad == eveningLoad {
		return nil
	}

	message := "Your symptoms tend to be more severe in the morning. Planning demanding activities for later in the day may help."
	if eveningLoad > morningLoad {
		message = "Your symptoms tend to be more noticeable in the evening. A lighter evening routine may help."
	}

	ins := e.insight(KindPersonalized, PriorityLow, "A pattern in your symptom timing", message, 0.6, timingValidFor, now)
	ins.Recommendations = []string{"Log symptoms with times so the pattern stays visible"}
	return &ins
}

// activityInsight suggests a gentler start to the day when mornings carry a
// repeated symptom load.
func (e *Engine) activityInsight(symptoms []wellness.SymptomEntry, now time.Time) *ProactiveInsight {
	morningCount := 0
	for _, s := range symptoms {
		if isMorning(s.LoggedAt.Hour()) {
			morningCount++
		}
	}
	if morningCount < activityMinMorning {
		return nil
	}

	ins := e.insight(KindPersonalized, PriorityLow,
		"Consider a morning wellness routine",
		"You log most symptoms in the morning. Gentle stretching, hydration, and an unhurried start may ease the transition into your day.",
		0.55, activityValidFor, now)
	ins.Recommendations = []string{
		"Try five minutes of stretching after waking",
		"Drink a glass of water before coffee or tea",
	}
	return &ins
}

// caregiverInsight is a self-care prompt for caregivers who keep logging
// doses deep into the night.
func (e *Engine) caregiverInsight(logs []wellness.MedicationLogEntry, now time.Time) *ProactiveInsight {
	cutoff := now.Add(-caregiverWindow)

	lateNight := 0
	for _, l := range logs {
		if l.CreatedAt.Before(cutoff) || l.CreatedAt.After(now) {
			continue
		}
		if isLateNight(l.CreatedAt.Hour()) {
			lateNight++
		}
	}
	if lateNight < caregiverMinLateNight {
		return nil
	}

	ins := e.insight(KindPersonalized, PriorityMedium,
		"Caring for yourself matters too",
		"Several doses this week were logged late at night. Sustained caregiving through the night wears anyone down; see if part of the routine can shift earlier or be shared.",
		0.65, caregiverValidFor, now)
	ins.Recommendations = []string{
		"Ask your pharmacist whether any dose can move earlier",
		"Consider sharing night duties with family or respite care",
	}
	return &ins
}
