package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/riasnelli/nse-market-mood-sub000/internal/contracts"
	"github.com/riasnelli/nse-market-mood-sub000/internal/engine"
	"github.com/riasnelli/nse-market-mood-sub000/pkg/logger"
)

// PreOpenJob generates signals for today each weekday morning, after the
// pre-open snapshot has been ingested and before the 09:15 IST open.
type PreOpenJob struct {
	generator *engine.Generator
	schedule  string
	logger    *logger.Logger
}

// NewPreOpenJob creates the pre-open signal generation job.
func NewPreOpenJob(generator *engine.Generator, schedule string, log *logger.Logger) *PreOpenJob {
	return &PreOpenJob{
		generator: generator,
		schedule:  schedule,
		logger:    log,
	}
}

// Name returns the job name.
func (j *PreOpenJob) Name() string {
	return "preopen-signal-run"
}

// Schedule returns the cron spec.
func (j *PreOpenJob) Schedule() string {
	return j.schedule
}

// Run generates signals for today's date. The host is expected to run in
// market time (IST); the engine itself does no timezone arithmetic.
func (j *PreOpenJob) Run(ctx context.Context) error {
	today := time.Now().Truncate(24 * time.Hour)

	result, err := j.generator.Generate(ctx, today)
	if err != nil {
		// A holiday Monday has no Friday bhavcopy ingested yet; not worth
		// waking anyone up for, but real store failures should retry.
		if errors.Is(err, contracts.ErrNoReferenceData) {
			j.logger.WithError(err).Warn("Skipping run, no reference data")
			return nil
		}
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"date":         today.Format(contracts.DateFormat),
		"signal_count": result.SignalCount,
	}).Info("Pre-open signal run finished")

	return nil
}
