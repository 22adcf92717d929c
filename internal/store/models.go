package store

import (
	"crypto/rand"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/nuravs/ojas-wellness-glow-sub001/internal/wellness"
)

// User represents a patient or caregiver account
type User struct {
	ID          string          `gorm:"primaryKey" json:"id"`
	DisplayName string          `json:"display_name"`
	Role        string          `json:"role"` // patient, caregiver
	Preferences json.RawMessage `json:"preferences"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CaregiverLink connects a caregiver account to a patient account
type CaregiverLink struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	CaregiverID string    `gorm:"uniqueIndex:idx_caregiver_patient" json:"caregiver_id"`
	PatientID   string    `gorm:"uniqueIndex:idx_caregiver_patient" json:"patient_id"`
	Status      string    `json:"status"` // pending, active, revoked
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VitalRecord represents one stored vital-sign reading
type VitalRecord struct {
	ID         string          `gorm:"primaryKey" json:"id"`
	UserID     string          `gorm:"index:idx_vital_user_time" json:"user_id"`
	Type       string          `json:"type"` // blood_pressure, heart_rate, weight, glucose
	Values     json.RawMessage `json:"values" gorm:"type:text"`
	OutOfRange bool            `json:"out_of_range"`
	MeasuredAt time.Time       `gorm:"index:idx_vital_user_time" json:"measured_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

// SymptomRecord represents one logged symptom
type SymptomRecord struct {
	ID       string    `gorm:"primaryKey" json:"id"`
	UserID   string    `gorm:"index:idx_symptom_user_time" json:"user_id"`
	Type     string    `json:"type"`
	Severity *int      `json:"severity,omitempty"`
	Notes    string    `json:"notes,omitempty" gorm:"type:text"`
	LoggedAt time.Time `gorm:"index:idx_symptom_user_time" json:"logged_at"`
}

// MedicationRecord represents a medication a user takes
type MedicationRecord struct {
	ID               string    `gorm:"primaryKey" json:"id"`
	UserID           string    `gorm:"index" json:"user_id"`
	Name             string    `json:"name"`
	Dosage           string    `json:"dosage,omitempty"`
	PillsRemaining   *float64  `json:"pills_remaining,omitempty"`
	DailyConsumption *float64  `json:"daily_consumption,omitempty"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MedicationLogRecord represents one dose event
type MedicationLogRecord struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"index:idx_medlog_user_time" json:"user_id"`
	MedicationID string    `gorm:"index" json:"medication_id"`
	Status       string    `json:"status"` // taken, missed, skipped
	CreatedAt    time.Time `gorm:"index:idx_medlog_user_time" json:"created_at"`
}

// InsightDismissal records that a user dismissed a generated insight so the
// refresh cycle does not resurface it. Insight IDs are fresh per generation,
// so dismissals key on the insight kind.
type InsightDismissal struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"index:idx_dismissal_user" json:"user_id"`
	Kind        string    `gorm:"index" json:"kind"`
	DismissedAt time.Time `json:"dismissed_at"`
}

// BeforeCreate hook for User
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = generateID("user")
	}
	if u.Role == "" {
		u.Role = "patient"
	}
	return nil
}

// BeforeCreate hook for CaregiverLink
func (l *CaregiverLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = generateID("link")
	}
	if l.Status == "" {
		l.Status = "pending"
	}
	return nil
}

// BeforeCreate hook for VitalRecord
func (v *VitalRecord) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = generateID("vital")
	}
	return nil
}

// BeforeCreate hook for SymptomRecord
func (s *SymptomRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = generateID("sym")
	}
	return nil
}

// BeforeCreate hook for MedicationRecord
func (m *MedicationRecord) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = generateID("med")
	}
	return nil
}

// BeforeCreate hook for MedicationLogRecord
func (m *MedicationLogRecord) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = generateID("medlog")
	}
	return nil
}

// BeforeCreate hook for InsightDismissal
func (d *InsightDismissal) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = generateID("disq")
	}
	return nil
}

// Vital converts the stored row to its computation form.
func (v *VitalRecord) Vital() wellness.VitalReading {
	values := map[string]float64{}
	if len(v.Values) > 0 {
		_ = json.Unmarshal(v.Values, &values)
	}
	return wellness.VitalReading{
		ID:         v.ID,
		Type:       wellness.VitalType(v.Type),
		Values:     values,
		OutOfRange: v.OutOfRange,
		MeasuredAt: v.MeasuredAt,
	}
}

// Symptom converts the stored row to its computation form.
func (s *SymptomRecord) Symptom() wellness.SymptomEntry {
	return wellness.SymptomEntry{
		ID:       s.ID,
		Type:     s.Type,
		Severity: s.Severity,
		Notes:    s.Notes,
		LoggedAt: s.LoggedAt,
	}
}

// Medication converts the stored row to its computation form.
func (m *MedicationRecord) Medication() wellness.Medication {
	return wellness.Medication{
		ID:               m.ID,
		Name:             m.Name,
		PillsRemaining:   m.PillsRemaining,
		DailyConsumption: m.DailyConsumption,
	}
}

// Log converts the stored row to its computation form.
func (m *MedicationLogRecord) Log() wellness.MedicationLogEntry {
	return wellness.MedicationLogEntry{
		ID:           m.ID,
		MedicationID: m.MedicationID,
		Status:       wellness.DoseStatus(m.Status),
		CreatedAt:    m.CreatedAt,
	}
}

// generateID creates a unique ID with nanosecond precision
func generateID(prefix string) string {
	return prefix + "_" + time.Now().Format("20060102150405") + "_" + randomString(8)
}

// randomString generates a cryptographically secure random string
func randomString(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, n)
	rand.Read(b)
	for i := range b {
		b[i] = letters[int(b[i])%len(letters)]
	}
	return string(b)
}

// ToJSON converts struct to JSON bytes
func ToJSON(v interface{}) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

// FromJSON parses JSON bytes into struct
func FromJSON(data json.RawMessage, v interface{}) error {
	return json.Unmarshal(data, v)
}
