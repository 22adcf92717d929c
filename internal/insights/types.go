// Package insights generates ranked, time-boxed proactive insights from
// health records, independent of the numeric wellness score.
package insights

import (
	"time"
)

// Role selects which heuristic branches fire; it never changes output shape.
type Role string

const (
	RolePatient   Role = "patient"
	RoleCaregiver Role = "caregiver"
)

// Kind classifies a proactive insight by the stage that produced it.
type Kind string

const (
	KindTrend        Kind = "trend"
	KindCorrelation  Kind = "correlation"
	KindPrediction   Kind = "prediction"
	KindPersonalized Kind = "personalized"
)

// Priority orders insights for presentation.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var priorityRank = map[Priority]int{
	PriorityUrgent: 4,
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// Rank returns the numeric ordering of a priority, unknown values rank 0.
func (p Priority) Rank() int {
	return priorityRank[p]
}

// TrendDirection classifies a fitted slope against its dead zone.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendWorsening TrendDirection = "worsening"
	TrendStable    TrendDirection = "stable"
)

// TrendAnalysis is the per-metric result of the trend stage. Recomputed on
// every call, never persisted.
type TrendAnalysis struct {
	Metric     string         `json:"metric"`
	Direction  TrendDirection `json:"direction"`
	Slope      float64        `json:"slope"`
	Confidence float64        `json:"confidence"`
	Timeframe  string         `json:"timeframe"`
	SampleSize int            `json:"sample_size"`
}

// CorrelationKind names the record pair a correlation was computed over.
type CorrelationKind string

const (
	CorrelationMedicationSymptom CorrelationKind = "medication_symptom"
	CorrelationVitalSymptom      CorrelationKind = "vital_symptom"
	CorrelationMedicationVital   CorrelationKind = "medication_vital"
)

// CorrelationInsight is the correlation stage's intermediate result.
type CorrelationInsight struct {
	Kind        CorrelationKind `json:"kind"`
	Coefficient float64         `json:"coefficient"`
	Description string          `json:"description"`
	Confidence  float64         `json:"confidence"`
	Actionable  bool            `json:"actionable"`
}

// ProactiveInsight is the engine's output unit. IDs are generated per call
// and are not stable across calls; consumers filter repeats by Kind.
type ProactiveInsight struct {
	ID              string    `json:"id"`
	Kind            Kind      `json:"kind"`
	Priority        Priority  `json:"priority"`
	Title           string    `json:"title"`
	Message         string    `json:"message"`
	Recommendations []string  `json:"recommendations"`
	Confidence      float64   `json:"confidence"`
	ValidUntil      time.Time `json:"valid_until"`
	Actionable      bool      `json:"actionable"`
	Dismissible     bool      `json:"dismissible"`
}
