// Package app wires the record store, scorer, and insight engine into the
// operations the API and scheduler call.
package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/nuravs/ojas-wellness-glow-sub001/internal/config"
	"github.com/nuravs/ojas-wellness-glow-sub001/internal/insights"
	"github.com/nuravs/ojas-wellness-glow-sub001/internal/metrics"
	"github.com/nuravs/ojas-wellness-glow-sub001/internal/notify"
	"github.com/nuravs/ojas-wellness-glow-sub001/internal/refill"
	"github.com/nuravs/ojas-wellness-glow-sub001/internal/store"
	"github.com/nuravs/ojas-wellness-glow-sub001/internal/wellness"
)

// recordLookback bounds how far back record queries reach. The widest
// computation window is the 21-day adaptation window; 30 days covers it
// with margin for sparse loggers.
const recordLookback = 30 * 24 * time.Hour

// Broadcaster pushes freshly generated insights to connected clients.
type Broadcaster interface {
	BroadcastInsights(userID string, batch []insights.ProactiveInsight)
}

// App holds the assembled service components.
type App struct {
	Config   *config.Config
	Store    *store.Store
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Scorer   *wellness.Scorer
	Engine   *insights.Engine
	Notifier *notify.Notifier
	Version  string

	broadcaster Broadcaster
	now         func() time.Time
}

// New assembles the application around an opened store.
func New(cfg *config.Config, st *store.Store, logger *zap.Logger, m *metrics.Metrics, notifier *notify.Notifier, version string) *App {
	scorer := wellness.NewScorer(st.WeightsKV(), logger)
	scorer.SetMetricsHook(scorerMetrics{m})
	return &App{
		Config:   cfg,
		Store:    st,
		Logger:   logger,
		Metrics:  m,
		Scorer:   scorer,
		Engine:   insights.NewEngine(logger),
		Notifier: notifier,
		Version:  version,
		now:      time.Now,
	}
}

// scorerMetrics bridges scorer weight events to the Prometheus collectors.
type scorerMetrics struct {
	m *metrics.Metrics
}

func (s scorerMetrics) WeightsAdapted()    { s.m.WeightAdaptations.Inc() }
func (s scorerMetrics) WeightsLoadFailed() { s.m.WeightsLoadFailed.Inc() }
func (s scorerMetrics) WeightsSaveFailed() { s.m.WeightsSaveFailed.Inc() }

// SetBroadcaster attaches the insight push channel. The API server calls
// this after it builds its hub.
func (a *App) SetBroadcaster(b Broadcaster) {
	a.broadcaster = b
}

// SetClock fixes the time source for tests.
func (a *App) SetClock(now func() time.Time) {
	a.now = now
	a.Scorer.SetClock(now)
	a.Engine.SetClock(now)
}

type records struct {
	vitals      []wellness.VitalReading
	symptoms    []wellness.SymptomEntry
	medications []wellness.Medication
	logs        []wellness.MedicationLogEntry
}

func (a *App) loadRecords(userID string) (records, error) {
	since := a.now().Add(-recordLookback)

	vitals, err := a.Store.VitalsSince(userID, since)
	if err != nil {
		return records{}, err
	}
	symptoms, err := a.Store.SymptomsSince(userID, since)
	if err != nil {
		return records{}, err
	}
	medications, err := a.Store.ActiveMedications(userID)
	if err != nil {
		return records{}, err
	}
	logs, err := a.Store.MedicationLogsSince(userID, since)
	if err != nil {
		return records{}, err
	}

	return records{
		vitals:      vitals,
		symptoms:    symptoms,
		medications: medications,
		logs:        logs,
	}, nil
}

// ScoreUser computes the current wellness score from the user's stored
// records.
func (a *App) ScoreUser(userID string) (wellness.ScoreResult, error) {
	recs, err := a.loadRecords(userID)
	if err != nil {
		return wellness.ScoreResult{}, err
	}

	result := a.Scorer.ComputeScore(userID, recs.vitals, recs.symptoms, recs.medications, recs.logs)

	a.Metrics.ScoresComputed.Inc()
	a.Metrics.ScoreValue.WithLabelValues(userID).Set(float64(result.Score))
	return result, nil
}

// InsightsForUser generates the user's current proactive insights, with
// dismissed entries filtered out.
func (a *App) InsightsForUser(userID string) ([]insights.ProactiveInsight, error) {
	user, err := a.Store.GetUser(userID)
	if err != nil {
		return nil, err
	}

	recs, err := a.loadRecords(userID)
	if err != nil {
		return nil, err
	}

	role := insights.RolePatient
	if user.Role == string(insights.RoleCaregiver) {
		role = insights.RoleCaregiver
	}

	batch := a.Engine.GenerateInsights(recs.vitals, recs.symptoms, recs.medications, recs.logs, role)

	dismissed, err := a.Store.DismissedInsightKinds(userID)
	if err != nil {
		return nil, err
	}

	kept := batch[:0]
	for _, ins := range batch {
		if ins.Dismissible && dismissed[string(ins.Kind)] {
			continue
		}
		a.Metrics.InsightsGenerated.WithLabelValues(string(ins.Kind)).Inc()
		kept = append(kept, ins)
	}
	return kept, nil
}

// RefillStatuses returns the low-supply medications for a user.
func (a *App) RefillStatuses(userID string) ([]refill.Status, error) {
	medications, err := a.Store.ActiveMedications(userID)
	if err != nil {
		return nil, err
	}
	return refill.LowSupply(medications), nil
}

// RefreshAll recomputes scores and insights for every user, pushes fresh
// insights to connected clients, and alerts on the urgent ones. Per-user
// failures are logged and skipped so one bad record set cannot stall the
// cycle.
func (a *App) RefreshAll() {
	a.Metrics.RefreshRuns.Inc()

	users, err := a.Store.ListUsers()
	if err != nil {
		a.Metrics.RefreshErrors.Inc()
		a.Logger.Error("refresh: failed to list users", zap.Error(err))
		return
	}

	for _, user := range users {
		result, err := a.ScoreUser(user.ID)
		if err != nil {
			a.Metrics.RefreshErrors.Inc()
			a.Logger.Warn("refresh: score failed", zap.String("user_id", user.ID), zap.Error(err))
			continue
		}

		batch, err := a.InsightsForUser(user.ID)
		if err != nil {
			a.Metrics.RefreshErrors.Inc()
			a.Logger.Warn("refresh: insights failed", zap.String("user_id", user.ID), zap.Error(err))
			continue
		}

		if a.broadcaster != nil {
			a.broadcaster.BroadcastInsights(user.ID, batch)
		}
		if a.Notifier != nil {
			if sent := a.Notifier.NotifyUrgent(user.ID, batch); sent > 0 {
				a.Metrics.NotificationsSent.WithLabelValues("telegram").Add(float64(sent))
			}
		}

		a.Logger.Debug("refreshed user",
			zap.String("user_id", user.ID),
			zap.Int("score", result.Score),
			zap.Int("insights", len(batch)),
		)
	}
}
