// Package store provides persistence for health records and scorer state,
// backed by SQLite for records and BadgerDB for key-value state.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	_ "github.com/glebarez/go-sqlite" // Pure Go SQLite driver
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nuravs/ojas-wellness-glow-sub001/internal/config"
	apperrors "github.com/nuravs/ojas-wellness-glow-sub001/internal/errors"
	"github.com/nuravs/ojas-wellness-glow-sub001/internal/wellness"
)

// Store provides unified access to SQLite and BadgerDB
type Store struct {
	db     *gorm.DB
	badger *badger.DB
}

// New creates a new Store instance
func New(cfg *config.Config) (*Store, error) {
	sqlitePath := cfg.Storage.SQLitePath
	if sqlitePath == "" {
		sqlitePath = filepath.Join(cfg.Storage.DataDir, "ojas.db")
	}

	// Open SQLite with optimizations
	sqliteDB, err := sql.Open("sqlite", sqlitePath+"?_journal=WAL&_synchronous=NORMAL&_busy_timeout=5000&_cache_size=-64000")
	if err != nil {
		return nil, apperrors.Wrap(err, "STORE_003", "failed to open sqlite")
	}

	sqliteDB.SetMaxOpenConns(10)
	sqliteDB.SetMaxIdleConns(5)
	sqliteDB.SetConnMaxLifetime(time.Hour)

	db, err := gorm.Open(sqlite.Dialector{Conn: sqliteDB}, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "STORE_003", "failed to open sqlite")
	}

	if err := migrate(db); err != nil {
		return nil, apperrors.Wrap(err, "STORE_004", "failed to migrate")
	}

	badgerPath := cfg.Storage.BadgerPath
	if badgerPath == "" {
		badgerPath = filepath.Join(cfg.Storage.DataDir, "badger")
	}

	badgerOpts := badger.DefaultOptions(badgerPath).
		WithLogger(nil).
		WithNumVersionsToKeep(1).
		WithCompactL0OnClose(true).
		WithValueLogFileSize(16 << 20).
		WithMemTableSize(16 << 20)

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, apperrors.Wrap(err, "STORE_003", "failed to open badger")
	}

	return &Store{db: db, badger: badgerDB}, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&CaregiverLink{},
		&VitalRecord{},
		&SymptomRecord{},
		&MedicationRecord{},
		&MedicationLogRecord{},
		&InsightDismissal{},
	)
}

// Close closes all database connections
func (s *Store) Close() error {
	return s.badger.Close()
}

// DB returns the GORM database instance
func (s *Store) DB() *gorm.DB {
	return s.db
}

// ==================== User Methods ====================

// CreateUser creates a new user
func (s *Store) CreateUser(user *User) error {
	return s.db.Create(user).Error
}

// GetUser retrieves a user by ID
func (s *Store) GetUser(id string) (*User, error) {
	var user User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers lists all users
func (s *Store) ListUsers() ([]User, error) {
	var users []User
	err := s.db.Order("created_at ASC").Find(&users).Error
	return users, err
}

// ==================== Caregiver Link Methods ====================

// CreateCaregiverLink creates a link between a caregiver and a patient
func (s *Store) CreateCaregiverLink(link *CaregiverLink) error {
	return s.db.Create(link).Error
}

// ActivateCaregiverLink marks a pending link active
func (s *Store) ActivateCaregiverLink(id string) error {
	return s.db.Model(&CaregiverLink{}).Where("id = ?", id).Update("status", "active").Error
}

// PatientsForCaregiver returns the patient IDs a caregiver is actively
// linked to.
func (s *Store) PatientsForCaregiver(caregiverID string) ([]string, error) {
	var links []CaregiverLink
	err := s.db.Where("caregiver_id = ? AND status = ?", caregiverID, "active").Find(&links).Error
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(links))
	for i, l := range links {
		ids[i] = l.PatientID
	}
	return ids, nil
}

// ==================== Health Record Methods ====================

// CreateVital stores a vital reading
func (s *Store) CreateVital(v *VitalRecord) error {
	return s.db.Create(v).Error
}

// VitalsSince retrieves a user's vital readings measured at or after the
// cutoff, oldest first.
func (s *Store) VitalsSince(userID string, since time.Time) ([]wellness.VitalReading, error) {
	var rows []VitalRecord
	err := s.db.Where("user_id = ? AND measured_at >= ?", userID, since).
		Order("measured_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]wellness.VitalReading, len(rows))
	for i := range rows {
		out[i] = rows[i].Vital()
		out[i].UserID = rows[i].UserID
	}
	return out, nil
}

// CreateSymptom stores a symptom entry
func (s *Store) CreateSymptom(sym *SymptomRecord) error {
	return s.db.Create(sym).Error
}

// SymptomsSince retrieves a user's symptoms logged at or after the cutoff,
// oldest first.
func (s *Store) SymptomsSince(userID string, since time.Time) ([]wellness.SymptomEntry, error) {
	var rows []SymptomRecord
	err := s.db.Where("user_id = ? AND logged_at >= ?", userID, since).
		Order("logged_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]wellness.SymptomEntry, len(rows))
	for i := range rows {
		out[i] = rows[i].Symptom()
		out[i].UserID = rows[i].UserID
	}
	return out, nil
}

// CreateMedication stores a medication
func (s *Store) CreateMedication(med *MedicationRecord) error {
	return s.db.Create(med).Error
}

// UpdateMedication updates a medication
func (s *Store) UpdateMedication(med *MedicationRecord) error {
	return s.db.Save(med).Error
}

// ActiveMedications retrieves a user's active medications
func (s *Store) ActiveMedications(userID string) ([]wellness.Medication, error) {
	var rows []MedicationRecord
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]wellness.Medication, len(rows))
	for i := range rows {
		out[i] = rows[i].Medication()
		out[i].UserID = rows[i].UserID
	}
	return out, nil
}

// CreateMedicationLog stores a dose event
func (s *Store) CreateMedicationLog(log *MedicationLogRecord) error {
	return s.db.Create(log).Error
}

// MedicationLogsSince retrieves a user's dose events created at or after the
// cutoff, oldest first.
func (s *Store) MedicationLogsSince(userID string, since time.Time) ([]wellness.MedicationLogEntry, error) {
	var rows []MedicationLogRecord
	err := s.db.Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]wellness.MedicationLogEntry, len(rows))
	for i := range rows {
		out[i] = rows[i].Log()
		out[i].UserID = rows[i].UserID
	}
	return out, nil
}

// ==================== Insight Dismissal Methods ====================

// DismissInsight records a dismissal for one insight kind
func (s *Store) DismissInsight(userID, kind string, at time.Time) error {
	return s.db.Create(&InsightDismissal{
		UserID:      userID,
		Kind:        kind,
		DismissedAt: at,
	}).Error
}

// DismissedInsightKinds returns the insight kinds a user has dismissed
func (s *Store) DismissedInsightKinds(userID string) (map[string]bool, error) {
	var rows []InsightDismissal
	if err := s.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(rows))
	for _, r := range rows {
		out[r.Kind] = true
	}
	return out, nil
}

// ==================== KV Methods (BadgerDB) ====================

// SetKV stores a key-value pair
func (s *Store) SetKV(key string, value []byte) error {
	return s.badger.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("kv:"+key), value)
	})
}

// GetKV retrieves a value by key
func (s *Store) GetKV(key string) ([]byte, error) {
	var val []byte
	err := s.badger.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("kv:" + key))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			val = append([]byte{}, v...)
			return nil
		})
	})
	return val, err
}

// SetKVWithTTL stores a key-value pair that expires
func (s *Store) SetKVWithTTL(key string, value []byte, ttl time.Duration) error {
	return s.badger.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte("kv:"+key), value).WithTTL(ttl)
		return txn.SetEntry(e)
	})
}

// ==================== Scorer State ====================

// weightsKV adapts the Badger side of the store to the scorer's key-value
// contract.
type weightsKV struct {
	store *Store
}

// WeightsKV returns the key-value view used for persisted scorer weights.
func (s *Store) WeightsKV() wellness.KVStore {
	return &weightsKV{store: s}
}

func (w *weightsKV) Get(key string) (string, error) {
	val, err := w.store.GetKV(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("weights read: %w", err)
	}
	return string(val), nil
}

func (w *weightsKV) Set(key, value string) error {
	return w.store.SetKV(key, []byte(value))
}
