// Package wellness computes a normalized wellness score from health records.
package wellness

import (
	"time"
)

// VitalType identifies the kind of vital measurement
type VitalType string

const (
	VitalBloodPressure VitalType = "blood_pressure"
	VitalHeartRate     VitalType = "heart_rate"
	VitalBloodSugar    VitalType = "blood_sugar"
	VitalWeight        VitalType = "weight"
	VitalTemperature   VitalType = "temperature"
	VitalOxygen        VitalType = "oxygen_saturation"
)

// VitalReading is one time-stamped vital measurement. Blood pressure carries
// both systolic and diastolic in Values; single-valued vitals use the "value"
// field.
type VitalReading struct {
	ID         string             `json:"id"`
	UserID     string             `json:"user_id"`
	Type       VitalType          `json:"type"`
	Values     map[string]float64 `json:"values"`
	MeasuredAt time.Time          `json:"measured_at"`
	OutOfRange bool               `json:"out_of_range"`
}

// Systolic returns the systolic component of a blood pressure reading,
// or 0 if the reading has none.
func (v VitalReading) Systolic() float64 {
	return v.Values["systolic"]
}

// SymptomEntry is one logged symptom. Severity runs 0-10; a zero-value
// severity on a record that never set one is treated as the documented
// default (5) by consumers.
type SymptomEntry struct {
	ID       string            `json:"id"`
	UserID   string            `json:"user_id"`
	Type     string            `json:"type"`
	Severity *int              `json:"severity,omitempty"`
	Notes    string            `json:"notes,omitempty"`
	Details  map[string]string `json:"details,omitempty"`
	LoggedAt time.Time         `json:"logged_at"`
}

// SeverityOrDefault returns the entry's severity, defaulting missing values.
func (s SymptomEntry) SeverityOrDefault() float64 {
	if s.Severity == nil {
		return DefaultSymptomSeverity
	}
	sev := *s.Severity
	if sev < 0 {
		sev = 0
	}
	if sev > 10 {
		sev = 10
	}
	return float64(sev)
}

// Medication is a static catalog entry, not a time series.
type Medication struct {
	ID               string   `json:"id"`
	UserID           string   `json:"user_id"`
	Name             string   `json:"name"`
	PillsRemaining   *float64 `json:"pills_remaining,omitempty"`
	DailyConsumption *float64 `json:"daily_consumption,omitempty"`
}

// DoseStatus is the outcome of one dose event
type DoseStatus string

const (
	DoseTaken   DoseStatus = "taken"
	DoseMissed  DoseStatus = "missed"
	DoseSkipped DoseStatus = "skipped"
)

// MedicationLogEntry records one dose event.
type MedicationLogEntry struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	MedicationID string     `json:"medication_id"`
	Status       DoseStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}

// FactorBreakdown explains how each factor contributed to the score.
// SymptomSeverity is the one factor where higher is worse.
type FactorBreakdown struct {
	MedicationAdherence float64 `json:"medication_adherence"`
	VitalStability      float64 `json:"vital_stability"`
	SymptomSeverity     float64 `json:"symptom_severity"`
	ConsistencyBonus    float64 `json:"consistency_bonus"`
}

// PersonalizedFactors are advisory sub-scores derived from symptom entries.
// They feed qualitative insights only, never the numeric score.
type PersonalizedFactors struct {
	SleepQuality     float64 `json:"sleep_quality"`
	ActivityPattern  float64 `json:"activity_pattern"`
	StressManagement float64 `json:"stress_management"`
}

// WellnessInsight is a qualitative, threshold-keyed observation attached to
// a score. Distinct from the proactive insight type in internal/insights.
type WellnessInsight struct {
	Factor         string  `json:"factor"`
	Positive       bool    `json:"positive"`
	Message        string  `json:"message"`
	Recommendation string  `json:"recommendation,omitempty"`
	Strength       float64 `json:"strength"`
}

// PersonalizedWeights is the one piece of scorer state that survives across
// invocations. The four weights always sum to 1 after every update.
type PersonalizedWeights struct {
	MedicationWeight  float64   `json:"medication_weight"`
	VitalsWeight      float64   `json:"vitals_weight"`
	SymptomsWeight    float64   `json:"symptoms_weight"`
	ConsistencyWeight float64   `json:"consistency_weight"`
	LastUpdated       time.Time `json:"last_updated"`
}

// Sum returns the total of the four weight fields.
func (w PersonalizedWeights) Sum() float64 {
	return w.MedicationWeight + w.VitalsWeight + w.SymptomsWeight + w.ConsistencyWeight
}

// Normalize rescales the weights to sum to exactly 1. A degenerate all-zero
// set falls back to the defaults.
func (w *PersonalizedWeights) Normalize() {
	total := w.Sum()
	if total <= 0 {
		*w = DefaultWeights(w.LastUpdated)
		return
	}
	w.MedicationWeight /= total
	w.VitalsWeight /= total
	w.SymptomsWeight /= total
	w.ConsistencyWeight /= total
}

// ScoreResult is everything ComputeScore returns.
type ScoreResult struct {
	Score        int                 `json:"score"`
	Factors      FactorBreakdown     `json:"factors"`
	Personalized PersonalizedFactors `json:"personalized"`
	Insights     []WellnessInsight   `json:"insights"`
	Weights      PersonalizedWeights `json:"weights"`
	ComputedAt   time.Time           `json:"computed_at"`
}

// KVStore is the persistence touchpoint for personalized weights. A missing
// key reads as the empty string with a nil error; read failure degrades to
// defaults; write failure is logged by the scorer and never surfaces to
// callers.
type KVStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
}
