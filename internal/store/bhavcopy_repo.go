package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riasnelli/nse-market-mood-sub000/internal/contracts"
)

// BhavcopyRepository implements contracts.BhavcopyRepository over
// PostgreSQL. Bhavcopy rows are the exchange's settlement file and are
// immutable once ingested.
type BhavcopyRepository struct {
	pool *pgxpool.Pool
}

// NewBhavcopyRepository creates a new bhavcopy repository.
func NewBhavcopyRepository(pool *pgxpool.Pool) *BhavcopyRepository {
	return &BhavcopyRepository{pool: pool}
}

// FindByDate retrieves all bhavcopy records for a trade date.
func (r *BhavcopyRepository) FindByDate(ctx context.Context, date time.Time) ([]contracts.BhavcopyRecord, error) {
	query := `
		SELECT symbol, trade_date, open_price, close_price, prev_close, volume,
		       avg_vol20, atr20, high_52w, rs20
		FROM data.bhavcopy
		WHERE trade_date = $1
		ORDER BY symbol
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("query bhavcopy: %w", err)
	}
	defer rows.Close()

	records := make([]contracts.BhavcopyRecord, 0)
	for rows.Next() {
		var rec contracts.BhavcopyRecord
		if err := rows.Scan(
			&rec.Symbol, &rec.Date, &rec.Open, &rec.Close, &rec.PrevClose,
			&rec.Volume, &rec.AvgVol20, &rec.ATR20, &rec.High52W, &rec.RS20,
		); err != nil {
			return nil, fmt.Errorf("scan bhavcopy record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// SaveBatch inserts bhavcopy records, ignoring rows already present.
func (r *BhavcopyRepository) SaveBatch(ctx context.Context, records []contracts.BhavcopyRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO data.bhavcopy
			(symbol, trade_date, open_price, close_price, prev_close, volume,
			 avg_vol20, atr20, high_52w, rs20)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (symbol, trade_date) DO NOTHING
	`

	for _, rec := range records {
		_, err := r.pool.Exec(ctx, query,
			rec.Symbol, rec.Date, rec.Open, rec.Close, rec.PrevClose,
			rec.Volume, rec.AvgVol20, rec.ATR20, rec.High52W, rec.RS20,
		)
		if err != nil {
			return fmt.Errorf("insert bhavcopy record %s: %w", rec.Symbol, err)
		}
	}
	return nil
}
