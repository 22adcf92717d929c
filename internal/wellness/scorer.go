package wellness

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MetricsHook receives scorer weight lifecycle events. Implementations must
// be safe for concurrent use.
type MetricsHook interface {
	WeightsAdapted()
	WeightsLoadFailed()
	WeightsSaveFailed()
}

// Scorer maps the four record collections to a single 0-100 wellness score
// with an explainable factor breakdown. The only state carried across calls
// is the personalized weight set, persisted through the injected KVStore.
type Scorer struct {
	kv     KVStore
	logger *zap.Logger
	hook   MetricsHook
	now    func() time.Time
}

// NewScorer creates a scorer. kv may be nil, in which case default weights
// are used and adaptation results are not persisted.
func NewScorer(kv KVStore, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{
		kv:     kv,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock overrides the scorer's notion of now. Used by tests and by the
// refresh runner to compute all users against one instant.
func (s *Scorer) SetClock(now func() time.Time) {
	s.now = now
}

// SetMetricsHook attaches a listener for weight adaptation and persistence
// events. A nil hook disables reporting.
func (s *Scorer) SetMetricsHook(hook MetricsHook) {
	s.hook = hook
}

// ComputeScore computes the wellness score for one user. It tolerates empty
// collections and malformed individual entries, and never returns an error:
// a weights-persistence failure is logged and the freshly computed result is
// returned regardless.
func (s *Scorer) ComputeScore(userID string, vitals []VitalReading, symptoms []SymptomEntry, medications []Medication, logs []MedicationLogEntry) ScoreResult {
	now := s.now()

	weights := s.loadWeights(userID)

	adherence, hasLogs := s.adherenceFactor(logs, now)
	stability, hasVitals := s.stabilityFactor(vitals, now)
	severity, hasSymptoms := s.severityFactor(symptoms, now)
	consistency := s.consistencyBonus(vitals, symptoms, logs, now)
	personalized, hasSleep, hasStress := s.personalizedFactors(symptoms, now)

	raw := adherence*weights.MedicationWeight +
		stability*weights.VitalsWeight +
		(100-severity)*weights.SymptomsWeight +
		consistency*weights.ConsistencyWeight
	score := int(Clamp(math.Round(raw), 0, 100))

	// Adaptation runs after the combination so this call scores against the
	// weights the user already had; the nudged set applies from the next call.
	weights = s.maybeAdaptWeights(userID, weights, vitals, symptoms, logs, now)

	factors := FactorBreakdown{
		MedicationAdherence: adherence,
		VitalStability:      stability,
		SymptomSeverity:     severity,
		ConsistencyBonus:    consistency,
	}

	insights := buildInsights(factors, personalized, factorPresence{
		logs:     hasLogs,
		vitals:   hasVitals,
		symptoms: hasSymptoms,
		sleep:    hasSleep,
		stress:   hasStress,
	})

	return ScoreResult{
		Score:        score,
		Factors:      factors,
		Personalized: personalized,
		Insights:     insights,
		Weights:      weights,
		ComputedAt:   now,
	}
}

// adherenceFactor covers the trailing 7 days of dose events. No logs in
// window yields the neutral default rather than 0 or 100. A consistency
// bonus rewards steady daily rates over spiky ones at equal average.
func (s *Scorer) adherenceFactor(logs []MedicationLogEntry, now time.Time) (float64, bool) {
	cutoff := now.Add(-AdherenceWindow)

	taken, total := 0, 0
	var recent []MedicationLogEntry
	for _, l := range logs {
		if l.CreatedAt.Before(cutoff) || l.CreatedAt.After(now) {
			continue
		}
		recent = append(recent, l)
		total++
		if l.Status == DoseTaken {
			taken++
		}
	}

	if total == 0 {
		return NeutralAdherence, false
	}

	rate := float64(taken) / float64(total) * 100

	dailyRates := DailyAdherenceRates(recent)
	rates := make([]float64, 0, len(dailyRates))
	for _, r := range dailyRates {
		rates = append(rates, r)
	}
	bonus := Clamp((1-StdDev(rates))*10, 0, 10)

	return Clamp(rate+bonus, 0, 100), true
}

// stabilityFactor covers the trailing 14 days. The monitoring bonus is
// tiered by distinct days with at least one reading.
func (s *Scorer) stabilityFactor(vitals []VitalReading, now time.Time) (float64, bool) {
	cutoff := now.Add(-VitalsWindow)

	inRange, total := 0, 0
	days := make(map[string]bool)
	for _, v := range vitals {
		if v.MeasuredAt.Before(cutoff) || v.MeasuredAt.After(now) {
			continue
		}
		total++
		if !v.OutOfRange {
			inRange++
		}
		days[DayKey(v.MeasuredAt)] = true
	}

	if total == 0 {
		return NoEvidenceStability, false
	}

	stability := float64(inRange) / float64(total) * 100

	var bonus float64
	switch {
	case len(days) >= 7:
		bonus = 10
	case len(days) >= 4:
		bonus = 5
	case len(days) >= 2:
		bonus = 2
	}

	return Clamp(stability+bonus, 0, 100), true
}

// severityFactor covers the trailing 7 days; higher is worse. The frequency
// multiplier deliberately lets frequent mild symptoms score comparably to
// rare severe ones.
func (s *Scorer) severityFactor(symptoms []SymptomEntry, now time.Time) (float64, bool) {
	cutoff := now.Add(-SymptomWindow)

	var severities []float64
	for _, sym := range symptoms {
		if sym.Type == "" {
			continue
		}
		if sym.LoggedAt.Before(cutoff) || sym.LoggedAt.After(now) {
			continue
		}
		severities = append(severities, sym.SeverityOrDefault())
	}

	if len(severities) == 0 {
		return QuietSymptomSeverity, false
	}

	multiplier := math.Min(2, float64(len(severities))/3)
	severity := Mean(severities) * 10 * multiplier

	return Clamp(severity, 0, 100), true
}

// consistencyBonus credits the act of regular tracking, independent of the
// values tracked.
func (s *Scorer) consistencyBonus(vitals []VitalReading, symptoms []SymptomEntry, logs []MedicationLogEntry, now time.Time) float64 {
	weekAgo := now.Add(-7 * 24 * time.Hour)

	logCount, symptomCount, vitalCount := 0, 0, 0
	for _, l := range logs {
		if !l.CreatedAt.Before(weekAgo) && !l.CreatedAt.After(now) {
			logCount++
		}
	}
	for _, sym := range symptoms {
		if !sym.LoggedAt.Before(weekAgo) && !sym.LoggedAt.After(now) {
			symptomCount++
		}
	}
	for _, v := range vitals {
		if !v.MeasuredAt.Before(weekAgo) && !v.MeasuredAt.After(now) {
			vitalCount++
		}
	}

	var bonus float64
	if logCount >= 7 {
		bonus += 5
	}
	if symptomCount >= 3 {
		bonus += 3
	}
	if vitalCount >= 2 {
		bonus += 2
	}
	return bonus
}

// personalizedFactors derives advisory sub-scores from keyword and type
// matching within the trailing 14 days of symptom entries. Matching entries
// pull the sub-score down from 100 by their mean severity.
func (s *Scorer) personalizedFactors(symptoms []SymptomEntry, now time.Time) (PersonalizedFactors, bool, bool) {
	cutoff := now.Add(-14 * 24 * time.Hour)

	var sleepSev, stressSev []float64
	morningCount := 0
	for _, sym := range symptoms {
		if sym.LoggedAt.Before(cutoff) || sym.LoggedAt.After(now) {
			continue
		}
		typ := strings.ToLower(sym.Type)
		notes := strings.ToLower(sym.Notes)

		if typ == "sleep" || typ == "fatigue" || strings.Contains(notes, "sleep") {
			sleepSev = append(sleepSev, sym.SeverityOrDefault())
		}
		if typ == "mood" || typ == "stress" || typ == "anxiety" || strings.Contains(notes, "stress") {
			stressSev = append(stressSev, sym.SeverityOrDefault())
		}
		if hour := sym.LoggedAt.Hour(); hour >= 5 && hour < 12 {
			morningCount++
		}
	}

	factors := PersonalizedFactors{
		SleepQuality:     DefaultSleepQuality,
		ActivityPattern:  DefaultActivityPattern,
		StressManagement: DefaultStressManagement,
	}
	if len(sleepSev) > 0 {
		factors.SleepQuality = Clamp(100-Mean(sleepSev)*10, 0, 100)
	}
	if len(stressSev) > 0 {
		factors.StressManagement = Clamp(100-Mean(stressSev)*10, 0, 100)
	}
	// Timing sub-score: heavy morning symptom load suggests the daily
	// routine is front-loading discomfort.
	if morningCount >= 3 {
		factors.ActivityPattern = Clamp(DefaultActivityPattern-float64(morningCount)*5, 0, 100)
	}

	return factors, len(sleepSev) > 0, len(stressSev) > 0
}

// loadWeights reads the persisted weight set, degrading to defaults on any
// read or decode failure.
func (s *Scorer) loadWeights(userID string) PersonalizedWeights {
	defaults := DefaultWeights(time.Time{})
	if s.kv == nil {
		return defaults
	}

	raw, err := s.kv.Get(WeightsKey + userID)
	if err != nil || raw == "" {
		if err != nil {
			s.logger.Warn("weights read failed, using defaults",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			s.reportLoadFailed()
		}
		return defaults
	}

	var w PersonalizedWeights
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		s.logger.Warn("weights corrupted, using defaults",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		s.reportLoadFailed()
		return defaults
	}
	if w.Sum() <= 0 {
		return defaults
	}
	// Renormalize only when the persisted set has drifted, so a clean
	// round-trip stays bit-identical.
	if math.Abs(w.Sum()-1) > 1e-9 {
		w.Normalize()
	}
	return w
}

// maybeAdaptWeights nudges weights toward factors the user tracks densely.
// The proxy measures record density over the adaptation window, not
// correlation with outcome.
func (s *Scorer) maybeAdaptWeights(userID string, weights PersonalizedWeights, vitals []VitalReading, symptoms []SymptomEntry, logs []MedicationLogEntry, now time.Time) PersonalizedWeights {
	if len(logs) < AdaptationMinLogs || len(symptoms) < AdaptationMinSymptoms {
		return weights
	}
	if !weights.LastUpdated.IsZero() && now.Sub(weights.LastUpdated) < AdaptationCooldown {
		return weights
	}

	cutoff := now.Add(-AdaptationWindow)
	windowDays := AdaptationWindow.Hours() / 24

	logCount, symptomCount, vitalCount := 0, 0, 0
	for _, l := range logs {
		if !l.CreatedAt.Before(cutoff) && !l.CreatedAt.After(now) {
			logCount++
		}
	}
	for _, sym := range symptoms {
		if !sym.LoggedAt.Before(cutoff) && !sym.LoggedAt.After(now) {
			symptomCount++
		}
	}
	for _, v := range vitals {
		if !v.MeasuredAt.Before(cutoff) && !v.MeasuredAt.After(now) {
			vitalCount++
		}
	}

	medicationProxy := math.Min(1, float64(logCount)/(windowDays*ExpectedDailyLogs))
	symptomProxy := math.Min(1, float64(symptomCount)/(windowDays*ExpectedDailySymptoms))
	vitalsProxy := math.Min(1, float64(vitalCount)/(windowDays*ExpectedDailyVitals))

	if medicationProxy > MedicationProxyThreshold {
		weights.MedicationWeight = math.Min(MedicationWeightCeiling, weights.MedicationWeight+AdaptationStep)
	}
	if symptomProxy > SymptomProxyThreshold {
		weights.SymptomsWeight = math.Min(SymptomsWeightCeiling, weights.SymptomsWeight+AdaptationStep)
	}
	if vitalsProxy > VitalsProxyThreshold {
		weights.VitalsWeight = math.Min(VitalsWeightCeiling, weights.VitalsWeight+AdaptationStep)
	}

	weights.Normalize()
	weights.LastUpdated = now

	if s.hook != nil {
		s.hook.WeightsAdapted()
	}
	s.persistWeights(userID, weights)
	return weights
}

// persistWeights writes the weight set through the KV store. Failure is
// logged and swallowed: the freshly computed score must still be returned.
func (s *Scorer) persistWeights(userID string, weights PersonalizedWeights) {
	if s.kv == nil {
		return
	}

	raw, err := json.Marshal(weights)
	if err != nil {
		s.logger.Warn("weights encode failed", zap.String("user_id", userID), zap.Error(err))
		s.reportSaveFailed()
		return
	}
	if err := s.kv.Set(WeightsKey+userID, string(raw)); err != nil {
		s.logger.Warn("weights persist failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		s.reportSaveFailed()
	}
}

func (s *Scorer) reportLoadFailed() {
	if s.hook != nil {
		s.hook.WeightsLoadFailed()
	}
}

func (s *Scorer) reportSaveFailed() {
	if s.hook != nil {
		s.hook.WeightsSaveFailed()
	}
}
