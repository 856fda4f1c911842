package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riasnelli/nse-market-mood-sub000/internal/contracts"
)

// RunRepository implements contracts.RunRepository over PostgreSQL.
// Runs are write-once; signals are batch-inserted after their run
// header so a run is never observed without signals mid-write.
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository creates a new run repository.
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// InsertRun writes the run header. Idempotent on run_id: re-inserting
// an existing run is a no-op so a crashed run can be retried.
func (r *RunRepository) InsertRun(ctx context.Context, run *contracts.SignalRun) error {
	query := `
		INSERT INTO signals.runs
			(run_id, run_date, bhavcopy_date, session, regime_code, strategies_used, params_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (run_id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		run.RunID, run.Date, run.BhavcopyDate, run.Session,
		string(run.RegimeCode), run.StrategiesUsed, run.ParamsHash, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.RunID, err)
	}
	return nil
}

// InsertSignals batch-inserts the signals of a run.
func (r *RunRepository) InsertSignals(ctx context.Context, signals []contracts.Signal) error {
	if len(signals) == 0 {
		return nil
	}

	query := `
		INSERT INTO signals.signals
			(run_id, signal_date, symbol, strategy_name, side, score,
			 entry_price, stop_loss, target_price, confidence_score,
			 feature_fields, premarket_date, bhavcopy_date, ai_explanation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	batch := &pgx.Batch{}
	for _, sig := range signals {
		features, err := json.Marshal(sig.Features)
		if err != nil {
			return fmt.Errorf("marshal features for %s: %w", sig.Symbol, err)
		}

		batch.Queue(query,
			sig.RunID, sig.Date, sig.Symbol, sig.Strategy, string(sig.Side), sig.Score,
			sig.EntryPrice, sig.StopLoss, sig.TargetPrice, sig.Confidence,
			features, sig.Sources.PreMarketDate, sig.Sources.BhavcopyDate, sig.AIExplanation,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range signals {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert signal batch: %w", err)
		}
	}
	return nil
}

// GetRunByID retrieves a run header. Returns (nil, nil) when no run
// with that id exists.
func (r *RunRepository) GetRunByID(ctx context.Context, runID string) (*contracts.SignalRun, error) {
	query := `
		SELECT run_id, run_date, bhavcopy_date, session, regime_code, strategies_used, params_hash, created_at
		FROM signals.runs
		WHERE run_id = $1
	`

	run, err := r.scanRun(r.pool.QueryRow(ctx, query, runID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return run, nil
}

// GetLatestRun retrieves the most recently created run. Returns
// (nil, nil) when no runs exist yet.
func (r *RunRepository) GetLatestRun(ctx context.Context) (*contracts.SignalRun, error) {
	query := `
		SELECT run_id, run_date, bhavcopy_date, session, regime_code, strategies_used, params_hash, created_at
		FROM signals.runs
		ORDER BY created_at DESC
		LIMIT 1
	`

	run, err := r.scanRun(r.pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest run: %w", err)
	}
	return run, nil
}

// GetSignalsByRunID retrieves all signals of a run, best score first.
func (r *RunRepository) GetSignalsByRunID(ctx context.Context, runID string) ([]contracts.Signal, error) {
	query := `
		SELECT run_id, signal_date, symbol, strategy_name, side, score,
		       entry_price, stop_loss, target_price, confidence_score,
		       feature_fields, premarket_date, bhavcopy_date, ai_explanation
		FROM signals.signals
		WHERE run_id = $1
		ORDER BY score DESC, symbol
	`

	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query signals for run %s: %w", runID, err)
	}
	defer rows.Close()

	signals := make([]contracts.Signal, 0)
	for rows.Next() {
		var sig contracts.Signal
		var side string
		var features []byte
		if err := rows.Scan(
			&sig.RunID, &sig.Date, &sig.Symbol, &sig.Strategy, &side, &sig.Score,
			&sig.EntryPrice, &sig.StopLoss, &sig.TargetPrice, &sig.Confidence,
			&features, &sig.Sources.PreMarketDate, &sig.Sources.BhavcopyDate, &sig.AIExplanation,
		); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}

		sig.Side = contracts.Side(side)
		if err := json.Unmarshal(features, &sig.Features); err != nil {
			return nil, fmt.Errorf("unmarshal features for %s: %w", sig.Symbol, err)
		}

		signals = append(signals, sig)
	}

	return signals, rows.Err()
}

func (r *RunRepository) scanRun(row pgx.Row) (*contracts.SignalRun, error) {
	var run contracts.SignalRun
	var regime string
	if err := row.Scan(
		&run.RunID, &run.Date, &run.BhavcopyDate, &run.Session,
		&regime, &run.StrategiesUsed, &run.ParamsHash, &run.CreatedAt,
	); err != nil {
		return nil, err
	}
	run.RegimeCode = contracts.RegimeCode(regime)
	return &run, nil
}
