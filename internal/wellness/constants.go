package wellness

import "time"

// Default factor values when a window holds no data. Absence of data must not
// read as either perfect or failing behavior, so each factor carries its own
// insufficient-data policy instead of collapsing to 0 or 100.
const (
	// NeutralAdherence is returned when no medication logs fall in-window.
	NeutralAdherence = 50.0
	// NoEvidenceStability is slightly better than neutral: no readings means
	// no evidence of instability.
	NoEvidenceStability = 70.0
	// QuietSymptomSeverity is near-best; fewer symptoms is good.
	QuietSymptomSeverity = 15.0

	// DefaultSymptomSeverity substitutes for a missing severity field.
	DefaultSymptomSeverity = 5.0
	// DefaultDailyConsumption substitutes for a missing consumption field.
	DefaultDailyConsumption = 1.0

	// Neutral personalized sub-scores when no matching entries exist. Both sit
	// above their insight thresholds so silence never fires a warning.
	DefaultSleepQuality     = 75.0
	DefaultStressManagement = 80.0
	DefaultActivityPattern  = 70.0
)

// Lookback windows per factor.
const (
	AdherenceWindow  = 7 * 24 * time.Hour
	VitalsWindow     = 14 * 24 * time.Hour
	SymptomWindow    = 7 * 24 * time.Hour
	AdaptationWindow = 21 * 24 * time.Hour
)

// Weight adaptation gates and tuning. The proxy deliberately measures
// tracking density over the adaptation window, not covariance with outcome.
const (
	AdaptationMinLogs     = 10
	AdaptationMinSymptoms = 5
	AdaptationCooldown    = 7 * 24 * time.Hour

	AdaptationStep = 0.1

	MedicationProxyThreshold = 0.5
	SymptomProxyThreshold    = 0.4
	VitalsProxyThreshold     = 0.3

	MedicationWeightCeiling = 0.6
	VitalsWeightCeiling     = 0.4
	SymptomsWeightCeiling   = 0.4

	// Expected record cadence within the adaptation window: one medication
	// log per day, one symptom entry and one vital reading every other day.
	ExpectedDailyLogs     = 1.0
	ExpectedDailySymptoms = 0.5
	ExpectedDailyVitals   = 0.5
)

// Qualitative insight thresholds.
const (
	AdherenceGoodThreshold = 90.0
	AdherenceLowThreshold  = 70.0
	StabilityGoodThreshold = 85.0
	StabilityLowThreshold  = 60.0
	SeverityLowThreshold   = 30.0
	SeverityHighThreshold  = 60.0
	ConsistencyThreshold   = 8.0
	SleepLowThreshold      = 60.0
	StressLowThreshold     = 70.0
)

// WeightsKey is the namespaced key the scorer persists weights under,
// suffixed with the user ID.
const WeightsKey = "ojas:wellness:weights:"

// DefaultWeights returns the hardcoded starting weights.
func DefaultWeights(lastUpdated time.Time) PersonalizedWeights {
	return PersonalizedWeights{
		MedicationWeight:  0.4,
		VitalsWeight:      0.3,
		SymptomsWeight:    0.2,
		ConsistencyWeight: 0.1,
		LastUpdated:       lastUpdated,
	}
}
