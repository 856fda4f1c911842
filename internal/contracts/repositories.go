package contracts

import (
	"context"
	"errors"
	"time"
)

// ErrNoReferenceData is returned when the resolved prior trading day has
// no bhavcopy records. Fatal: the run aborts and nothing is persisted.
var ErrNoReferenceData = errors.New("no bhavcopy reference data for prior trading day")

// PreMarketRepository reads pre-open snapshots.
type PreMarketRepository interface {
	FindByDate(ctx context.Context, date time.Time) ([]PreMarketRecord, error)
	SaveBatch(ctx context.Context, records []PreMarketRecord) error
}

// BhavcopyRepository reads end-of-day settlement records.
type BhavcopyRepository interface {
	FindByDate(ctx context.Context, date time.Time) ([]BhavcopyRecord, error)
	SaveBatch(ctx context.Context, records []BhavcopyRecord) error
}

// RunRepository owns durability and query access for runs and signals.
// InsertRun is idempotent on run_id so a crashed run can be retried
// without duplicating the header.
type RunRepository interface {
	InsertRun(ctx context.Context, run *SignalRun) error
	InsertSignals(ctx context.Context, signals []Signal) error
	GetRunByID(ctx context.Context, runID string) (*SignalRun, error)
	GetLatestRun(ctx context.Context) (*SignalRun, error)
	GetSignalsByRunID(ctx context.Context, runID string) ([]Signal, error)
}

// RegimeClassifier decides the market regime a run is tagged with.
// A real classifier would derive it from index trend and breadth; the
// engine only requires the capability.
type RegimeClassifier interface {
	Classify(ctx context.Context, date time.Time) (RegimeCode, error)
}
