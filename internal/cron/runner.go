// Package cron schedules the periodic score and insight refresh.
package cron

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	apperrors "github.com/nuravs/ojas-wellness-glow-sub001/internal/errors"
)

// Refresher is the slice of the application the scheduler drives.
type Refresher interface {
	RefreshAll()
}

// Runner wraps a cron scheduler around the refresh cycle.
type Runner struct {
	cron     *cron.Cron
	schedule string
	app      Refresher
	logger   *zap.Logger
	entryID  cron.EntryID
}

// NewRunner creates a runner for the given cron spec. Specs accept the
// standard five-field format plus descriptors like "@every 6h".
func NewRunner(schedule string, app Refresher, logger *zap.Logger) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Runner{
		cron:     cron.New(),
		schedule: schedule,
		app:      app,
		logger:   logger,
	}

	id, err := r.cron.AddFunc(schedule, func() {
		r.logger.Debug("refresh cycle starting", zap.String("schedule", r.schedule))
		r.app.RefreshAll()
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "CONFIG_002", "invalid refresh schedule")
	}
	r.entryID = id

	return r, nil
}

// Start begins scheduled execution.
func (r *Runner) Start() {
	r.cron.Start()
	r.logger.Info("refresh scheduler started", zap.String("schedule", r.schedule))
}

// Stop halts the scheduler and waits for a running cycle to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("refresh scheduler stopped")
}
