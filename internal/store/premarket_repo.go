package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riasnelli/nse-market-mood-sub000/internal/contracts"
)

// PreMarketRepository implements contracts.PreMarketRepository over
// PostgreSQL. Snapshots are append-only: a (symbol, date) row is written
// once by ingestion and never updated.
type PreMarketRepository struct {
	pool *pgxpool.Pool
}

// NewPreMarketRepository creates a new pre-market repository.
func NewPreMarketRepository(pool *pgxpool.Pool) *PreMarketRepository {
	return &PreMarketRepository{pool: pool}
}

// FindByDate retrieves all pre-market snapshots for a date.
func (r *PreMarketRepository) FindByDate(ctx context.Context, date time.Time) ([]contracts.PreMarketRecord, error) {
	query := `
		SELECT symbol, snapshot_date, gap_percent, vol_surge, near_high, liquidity_bucket, pre_open_price
		FROM data.premarket_snapshots
		WHERE snapshot_date = $1
		ORDER BY symbol
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("query premarket snapshots: %w", err)
	}
	defer rows.Close()

	records := make([]contracts.PreMarketRecord, 0)
	for rows.Next() {
		var rec contracts.PreMarketRecord
		var bucket *string
		if err := rows.Scan(
			&rec.Symbol, &rec.Date, &rec.GapPercent, &rec.VolSurge,
			&rec.NearHigh, &bucket, &rec.PreOpenPrice,
		); err != nil {
			return nil, fmt.Errorf("scan premarket snapshot: %w", err)
		}

		if bucket != nil {
			b := contracts.LiquidityBucket(*bucket)
			rec.Liquidity = &b
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}

// SaveBatch inserts pre-market snapshots, ignoring rows already present.
func (r *PreMarketRepository) SaveBatch(ctx context.Context, records []contracts.PreMarketRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO data.premarket_snapshots
			(symbol, snapshot_date, gap_percent, vol_surge, near_high, liquidity_bucket, pre_open_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol, snapshot_date) DO NOTHING
	`

	for _, rec := range records {
		var bucket *string
		if rec.Liquidity != nil {
			s := string(*rec.Liquidity)
			bucket = &s
		}

		_, err := r.pool.Exec(ctx, query,
			rec.Symbol, rec.Date, rec.GapPercent, rec.VolSurge,
			rec.NearHigh, bucket, rec.PreOpenPrice,
		)
		if err != nil {
			return fmt.Errorf("insert premarket snapshot %s: %w", rec.Symbol, err)
		}
	}
	return nil
}
