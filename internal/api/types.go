package api

import (
	"time"

	"github.com/nuravs/ojas-wellness-glow-sub001/internal/insights"
	"github.com/nuravs/ojas-wellness-glow-sub001/internal/refill"
	"github.com/nuravs/ojas-wellness-glow-sub001/internal/wellness"
)

// ScoreResponse is the wire form of a computed wellness score.
type ScoreResponse struct {
	UserID       string                       `json:"user_id"`
	Score        int                          `json:"score"`
	Factors      wellness.FactorBreakdown     `json:"factors"`
	Personalized wellness.PersonalizedFactors `json:"personalized"`
	Insights     []wellness.WellnessInsight   `json:"insights"`
	ComputedAt   time.Time                    `json:"computed_at"`
}

// InsightsResponse is the wire form of a proactive insight batch.
type InsightsResponse struct {
	UserID   string                      `json:"user_id"`
	Insights []insights.ProactiveInsight `json:"insights"`
}

// RefillsResponse lists medications running low.
type RefillsResponse struct {
	UserID  string          `json:"user_id"`
	Refills []refill.Status `json:"refills"`
}

// DismissRequest suppresses an insight kind for a user. Generated insight
// IDs are not stable across refreshes, so dismissal works at the kind level.
type DismissRequest struct {
	UserID string `json:"user_id"`
	Kind   string `json:"kind"`
}

// CreateUserRequest creates a patient or caregiver account.
type CreateUserRequest struct {
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// CreateLinkRequest links a caregiver to a patient.
type CreateLinkRequest struct {
	CaregiverID string `json:"caregiver_id"`
	PatientID   string `json:"patient_id"`
}

// VitalRequest ingests one vital reading. OutOfRange marks a reading that
// fell outside the user's target range and feeds the stability factor.
type VitalRequest struct {
	UserID     string             `json:"user_id"`
	Type       string             `json:"type"`
	Values     map[string]float64 `json:"values"`
	OutOfRange bool               `json:"out_of_range"`
	MeasuredAt time.Time          `json:"measured_at"`
}

// SymptomRequest ingests one symptom entry.
type SymptomRequest struct {
	UserID   string    `json:"user_id"`
	Type     string    `json:"type"`
	Severity *int      `json:"severity,omitempty"`
	Notes    string    `json:"notes,omitempty"`
	LoggedAt time.Time `json:"logged_at"`
}

// MedicationRequest creates a medication.
type MedicationRequest struct {
	UserID           string   `json:"user_id"`
	Name             string   `json:"name"`
	Dosage           string   `json:"dosage,omitempty"`
	PillsRemaining   *float64 `json:"pills_remaining,omitempty"`
	DailyConsumption *float64 `json:"daily_consumption,omitempty"`
}

// MedicationLogRequest ingests one dose event.
type MedicationLogRequest struct {
	UserID       string    `json:"user_id"`
	MedicationID string    `json:"medication_id"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
