package wellness

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memKV is an in-memory KVStore with injectable failures.
type memKV struct {
	data     map[string]string
	failGet  bool
	failSet  bool
	setCalls int
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (kv *memKV) Get(key string) (string, error) {
	if kv.failGet {
		return "", fmt.Errorf("kv unavailable")
	}
	return kv.data[key], nil
}

func (kv *memKV) Set(key, value string) error {
	kv.setCalls++
	if kv.failSet {
		return fmt.Errorf("kv unavailable")
	}
	kv.data[key] = value
	return nil
}

// countingHook tallies scorer weight events.
type countingHook struct {
	adapted    int
	loadFailed int
	saveFailed int
}

func (h *countingHook) WeightsAdapted()    { h.adapted++ }
func (h *countingHook) WeightsLoadFailed() { h.loadFailed++ }
func (h *countingHook) WeightsSaveFailed() { h.saveFailed++ }

func testScorer(kv KVStore, now time.Time) *Scorer {
	s := NewScorer(kv, zap.NewNop())
	s.SetClock(func() time.Time { return now })
	return s
}

func sev(n int) *int { return &n }

func TestComputeScore_EmptyInput(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	s := testScorer(newMemKV(), now)

	result := s.ComputeScore("user_123", nil, nil, nil, nil)

	assert.Equal(t, 58, result.Score)
	assert.Equal(t, NeutralAdherence, result.Factors.MedicationAdherence)
	assert.Equal(t, NoEvidenceStability, result.Factors.VitalStability)
	assert.Equal(t, QuietSymptomSeverity, result.Factors.SymptomSeverity)
	assert.Equal(t, 0.0, result.Factors.ConsistencyBonus)
	assert.Empty(t, result.Insights)
	assert.InDelta(t, 1.0, result.Weights.Sum(), 1e-9)
}

func TestComputeScore_WithinBounds(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	s := testScorer(newMemKV(), now)

	// Worst plausible week: all doses missed, all vitals out of range,
	// frequent severe symptoms.
	var logs []MedicationLogEntry
	var vitals []VitalReading
	var symptoms []SymptomEntry
	for i := 0; i < 7; i++ {
		at := now.AddDate(0, 0, -i)
		logs = append(logs, MedicationLogEntry{Status: DoseMissed, CreatedAt: at})
		vitals = append(vitals, VitalReading{Type: VitalBloodPressure, OutOfRange: true, MeasuredAt: at})
		symptoms = append(symptoms, SymptomEntry{Type: "tremor", Severity: sev(10), LoggedAt: at})
	}

	result := s.ComputeScore("user_123", vitals, symptoms, nil, logs)
	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
}

func TestAdherenceFactor_PerfectWeek(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	s := testScorer(newMemKV(), now)

	var logs []MedicationLogEntry
	for i := 0; i < 7; i++ {
		logs = append(logs, MedicationLogEntry{
			Status:    DoseTaken,
			CreatedAt: now.AddDate(0, 0, -i).Add(-time.Hour),
		})
	}

	result := s.ComputeScore("user_123", nil, nil, nil, logs)
	assert.Equal(t, 100.0, result.Factors.MedicationAdherence)
}

func TestAdherenceFactor_IgnoresStaleLogs(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	s := testScorer(newMemKV(), now)

	// All logs older than the 7-day window: neutral default applies.
	logs := []MedicationLogEntry{
		{Status: DoseMissed, CreatedAt: now.AddDate(0, 0, -10)},
		{Status: DoseMissed, CreatedAt: now.AddDate(0, 0, -20)},
	}

	result := s.ComputeScore("user_123", nil, nil, nil, logs)
	assert.Equal(t, NeutralAdherence, result.Factors.MedicationAdherence)
}

func TestAdherenceFactor_ConsistencyBonusRewardsSteadiness(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)

	// Steady: one taken, one missed every day. Spiky: perfect days then
	// failed days, same overall average.
	var steady, spiky []MedicationLogEntry
	for i := 0; i < 6; i++ {
		at := now.AddDate(0, 0, -i).Add(-time.Hour)
		steady = append(steady,
			MedicationLogEntry{Status: DoseTaken, CreatedAt: at},
			MedicationLogEntry{Status: DoseMissed, CreatedAt: at.Add(time.Minute)},
		)
		status := DoseTaken
		if i%2 == 0 {
			status = DoseMissed
		}
		spiky = append(spiky,
			MedicationLogEntry{Status: status, CreatedAt: at},
			MedicationLogEntry{Status: status, CreatedAt: at.Add(time.Minute)},
		)
	}

	s := testScorer(newMemKV(), now)
	steadyResult := s.ComputeScore("user_a", nil, nil, nil, steady)
	spikyResult := s.ComputeScore("user_b", nil, nil, nil, spiky)

	assert.Greater(t, steadyResult.Factors.MedicationAdherence, spikyResult.Factors.MedicationAdherence)
}

func TestStabilityFactor_MonitoringBonus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	s := testScorer(newMemKV(), now)

	// 7 distinct days of in-range readings: 100 base capped, bonus +10.
	var vitals []VitalReading
	for i := 0; i < 7; i++ {
		vitals = append(vitals, VitalReading{
			Type:       VitalHeartRate,
			MeasuredAt: now.AddDate(0, 0, -i).Add(-time.Hour),
		})
	}

	result := s.ComputeScore("user_123", vitals, nil, nil, nil)
	assert.Equal(t, 100.0, result.Factors.VitalStability)

	// Half out of range over 2 distinct days: 50 + 2.
	twoDay := []VitalReading{
		{MeasuredAt: now.Add(-2 * time.Hour), OutOfRange: true},
		{MeasuredAt: now.Add(-3 * time.Hour)},
		{MeasuredAt: now.AddDate(0, 0, -1), OutOfRange: true},
		{MeasuredAt: now.AddDate(0, 0, -1).Add(time.Hour)},
	}
	result = s.ComputeScore("user_456", twoDay, nil, nil, nil)
	assert.InDelta(t, 52.0, result.Factors.VitalStability, 1e-9)
}

func TestSeverityFactor_FrequencyMultiplier(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	s := testScorer(newMemKV(), now)

	// One severe symptom: 8*10 * min(2, 1/3) ≈ 26.7.
	rare := []SymptomEntry{
		{Type: "tremor", Severity: sev(8), LoggedAt: now.Add(-time.Hour)},
	}
	result := s.ComputeScore("user_a", nil, rare, nil, nil)
	assert.InDelta(t, 26.67, result.Factors.SymptomSeverity, 0.01)

	// Six mild symptoms: 3*10 * min(2, 6/3) = 60. Persistence penalized.
	var frequent []SymptomEntry
	for i := 0; i < 6; i++ {
		frequent = append(frequent, SymptomEntry{
			Type:     "headache",
			Severity: sev(3),
			LoggedAt: now.AddDate(0, 0, -i).Add(-time.Hour),
		})
	}
	result = s.ComputeScore("user_b", nil, frequent, nil, nil)
	assert.InDelta(t, 60.0, result.Factors.SymptomSeverity, 1e-9)
}

func TestSeverityFactor_DefaultsMissingSeverity(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	s := testScorer(newMemKV(), now)

	symptoms := []SymptomEntry{
		{Type: "mood", LoggedAt: now.Add(-time.Hour)}, // no severity set
	}

	result := s.ComputeScore("user_123", nil, symptoms, nil, nil)
	// 5*10 * min(2, 1/3)
	assert.InDelta(t, 16.67, result.Factors.SymptomSeverity, 0.01)
}

func TestConsistencyBonus_Tiers(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	s := testScorer(newMemKV(), now)

	var logs []MedicationLogEntry
	for i := 0; i < 7; i++ {
		logs = append(logs, MedicationLogEntry{Status: DoseTaken, CreatedAt: now.Add(-time.Duration(i+1) * time.Hour)})
	}
	symptoms := []SymptomEntry{
		{Type: "mood", Severity: sev(2), LoggedAt: now.Add(-time.Hour)},
		{Type: "mood", Severity: sev(2), LoggedAt: now.Add(-2 * time.Hour)},
		{Type: "mood", Severity: sev(2), LoggedAt: now.Add(-3 * time.Hour)},
	}
	vitals := []VitalReading{
		{MeasuredAt: now.Add(-time.Hour)},
		{MeasuredAt: now.Add(-2 * time.Hour)},
	}

	result := s.ComputeScore("user_123", vitals, symptoms, nil, logs)
	assert.Equal(t, 10.0, result.Factors.ConsistencyBonus)
}

func TestComputeScore_Deterministic(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	s := testScorer(newMemKV(), now)

	vitals := []VitalReading{{MeasuredAt: now.Add(-time.Hour), OutOfRange: true}}
	symptoms := []SymptomEntry{{Type: "tremor", Severity: sev(6), LoggedAt: now.Add(-time.Hour)}}
	logs := []MedicationLogEntry{{Status: DoseTaken, CreatedAt: now.Add(-time.Hour)}}

	first := s.ComputeScore("user_123", vitals, symptoms, nil, logs)
	second := s.ComputeScore("user_123", vitals, symptoms, nil, logs)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Factors, second.Factors)
	assert.Equal(t, first.Insights, second.Insights)
}

func TestWeightAdaptation_SumsToOne(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	kv := newMemKV()
	s := testScorer(kv, now)

	// Dense tracking over the full 21-day window trips every proxy.
	var logs []MedicationLogEntry
	var symptoms []SymptomEntry
	var vitals []VitalReading
	for i := 0; i < 21; i++ {
		at := now.AddDate(0, 0, -i).Add(-time.Hour)
		logs = append(logs, MedicationLogEntry{Status: DoseTaken, CreatedAt: at})
		symptoms = append(symptoms, SymptomEntry{Type: "mood", Severity: sev(3), LoggedAt: at})
		vitals = append(vitals, VitalReading{MeasuredAt: at})
	}

	result := s.ComputeScore("user_123", vitals, symptoms, nil, logs)

	require.InDelta(t, 1.0, result.Weights.Sum(), 1e-9)
	assert.Equal(t, now, result.Weights.LastUpdated)
	assert.Equal(t, 1, kv.setCalls)

	// Weights shifted away from the defaults but respected ceilings before
	// renormalization.
	defaults := DefaultWeights(time.Time{})
	assert.NotEqual(t, defaults.MedicationWeight, result.Weights.MedicationWeight)
}

func TestWeightAdaptation_GatedByVolume(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	kv := newMemKV()
	s := testScorer(kv, now)

	// Below the minimum record counts: no adaptation, no persistence.
	logs := []MedicationLogEntry{{Status: DoseTaken, CreatedAt: now.Add(-time.Hour)}}

	result := s.ComputeScore("user_123", nil, nil, nil, logs)
	assert.Equal(t, DefaultWeights(time.Time{}), result.Weights)
	assert.Equal(t, 0, kv.setCalls)
}

func TestWeightAdaptation_Cooldown(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	kv := newMemKV()
	s := testScorer(kv, now)

	var logs []MedicationLogEntry
	var symptoms []SymptomEntry
	for i := 0; i < 21; i++ {
		at := now.AddDate(0, 0, -i).Add(-time.Hour)
		logs = append(logs, MedicationLogEntry{Status: DoseTaken, CreatedAt: at})
		if i < 6 {
			symptoms = append(symptoms, SymptomEntry{Type: "mood", Severity: sev(3), LoggedAt: at})
		}
	}

	first := s.ComputeScore("user_123", nil, symptoms, nil, logs)
	require.Equal(t, 1, kv.setCalls)

	// A second call inside the 7-day cooldown must not adapt again.
	second := s.ComputeScore("user_123", nil, symptoms, nil, logs)
	assert.Equal(t, 1, kv.setCalls)
	assert.InDelta(t, first.Weights.MedicationWeight, second.Weights.MedicationWeight, 1e-12)
	assert.InDelta(t, first.Weights.SymptomsWeight, second.Weights.SymptomsWeight, 1e-12)
	assert.True(t, first.Weights.LastUpdated.Equal(second.Weights.LastUpdated))
}

func TestComputeScore_PersistFailureNonFatal(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	kv := newMemKV()
	kv.failSet = true
	s := testScorer(kv, now)

	var logs []MedicationLogEntry
	var symptoms []SymptomEntry
	for i := 0; i < 21; i++ {
		at := now.AddDate(0, 0, -i).Add(-time.Hour)
		logs = append(logs, MedicationLogEntry{Status: DoseTaken, CreatedAt: at})
		if i < 6 {
			symptoms = append(symptoms, SymptomEntry{Type: "mood", Severity: sev(3), LoggedAt: at})
		}
	}

	// Must not panic, must still return a score and the adapted weights.
	result := s.ComputeScore("user_123", nil, symptoms, nil, logs)
	assert.GreaterOrEqual(t, result.Score, 0)
	assert.InDelta(t, 1.0, result.Weights.Sum(), 1e-9)
}

func TestMetricsHook_ReportsWeightEvents(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	kv := newMemKV()
	hook := &countingHook{}
	s := testScorer(kv, now)
	s.SetMetricsHook(hook)

	var logs []MedicationLogEntry
	var symptoms []SymptomEntry
	for i := 0; i < 21; i++ {
		at := now.AddDate(0, 0, -i).Add(-time.Hour)
		logs = append(logs, MedicationLogEntry{Status: DoseTaken, CreatedAt: at})
		if i < 6 {
			symptoms = append(symptoms, SymptomEntry{Type: "mood", Severity: sev(3), LoggedAt: at})
		}
	}

	s.ComputeScore("user_123", nil, symptoms, nil, logs)
	assert.Equal(t, 1, hook.adapted)
	assert.Equal(t, 0, hook.loadFailed)
	assert.Equal(t, 0, hook.saveFailed)

	kv.failGet = true
	s.ComputeScore("user_123", nil, nil, nil, nil)
	assert.Equal(t, 1, hook.loadFailed)

	kv.failGet = false
	kv.failSet = true
	s.ComputeScore("user_456", nil, symptoms, nil, logs)
	assert.Equal(t, 2, hook.adapted)
	assert.Equal(t, 1, hook.saveFailed)

	kv.failSet = false
	kv.data[WeightsKey+"user_789"] = "{not json"
	s.ComputeScore("user_789", nil, nil, nil, nil)
	assert.Equal(t, 2, hook.loadFailed)
}

func TestLoadWeights_CorruptedFallsBackToDefaults(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	kv := newMemKV()
	kv.data[WeightsKey+"user_123"] = "{not json"
	s := testScorer(kv, now)

	result := s.ComputeScore("user_123", nil, nil, nil, nil)
	assert.Equal(t, 58, result.Score)
	assert.InDelta(t, 1.0, result.Weights.Sum(), 1e-9)
}

func TestLoadWeights_ReadFailureFallsBackToDefaults(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	kv := newMemKV()
	kv.failGet = true
	s := testScorer(kv, now)

	result := s.ComputeScore("user_123", nil, nil, nil, nil)
	assert.Equal(t, 58, result.Score)
}

func TestBuildInsights_ThresholdBranches(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	s := testScorer(newMemKV(), now)

	// A bad week: missed doses, out-of-range vitals, severe stress symptoms.
	var logs []MedicationLogEntry
	for i := 0; i < 6; i++ {
		logs = append(logs, MedicationLogEntry{Status: DoseMissed, CreatedAt: now.Add(-time.Duration(i+1) * time.Hour)})
	}
	vitals := []VitalReading{
		{MeasuredAt: now.Add(-time.Hour), OutOfRange: true},
		{MeasuredAt: now.Add(-2 * time.Hour), OutOfRange: true},
	}
	var symptoms []SymptomEntry
	for i := 0; i < 6; i++ {
		symptoms = append(symptoms, SymptomEntry{Type: "stress", Severity: sev(8), LoggedAt: now.Add(-time.Duration(i+1) * time.Hour)})
	}

	result := s.ComputeScore("user_123", vitals, symptoms, nil, logs)

	factorsSeen := make(map[string]bool)
	for _, ins := range result.Insights {
		factorsSeen[ins.Factor] = true
		if !ins.Positive {
			assert.NotEmpty(t, ins.Recommendation, "negative insight %s needs a recommendation", ins.Factor)
		}
	}
	assert.True(t, factorsSeen["medication_adherence"])
	assert.True(t, factorsSeen["vital_stability"])
	assert.True(t, factorsSeen["symptom_severity"])
	assert.True(t, factorsSeen["stress_management"])

	// Sorted by descending strength.
	for i := 1; i < len(result.Insights); i++ {
		assert.GreaterOrEqual(t, result.Insights[i-1].Strength, result.Insights[i].Strength)
	}
}

func TestBuildInsights_DefaultsNeverFire(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	s := testScorer(newMemKV(), now)

	// Neutral defaults sit in insight-free bands; absence of data must not
	// read as either achievement or problem.
	result := s.ComputeScore("user_123", nil, nil, nil, nil)
	assert.Empty(t, result.Insights)
}
