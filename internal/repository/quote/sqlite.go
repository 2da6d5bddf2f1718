package quote

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "stocketl/internal/quote"
)

const (
	dateFormat      = "2006-01-02"
	timestampFormat = "2006-01-02 15:04:05"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save loads a batch of quotes inside a single transaction, committed once at
// the end so a symbol's batch is atomic. Rows whose (symbol, date) key is
// already stored count as skipped; the per-statement rows-affected value
// distinguishes an insert from an ignored conflict.
func (r *Repository) Save(ctx context.Context, quotes []domain.DailyQuote) (domain.LoadResult, error) {
	var result domain.LoadResult
	if len(quotes) == 0 {
		return result, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const query = `INSERT OR IGNORE INTO stock_daily_data
		(symbol, date, open_price, high_price, low_price, close_price,
		 volume, daily_change_percentage, extraction_timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return result, fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, q := range quotes {
		res, err := stmt.ExecContext(ctx,
			q.Symbol, q.Date.Format(dateFormat),
			q.Open, q.High, q.Low, q.Close,
			nullInt(q.Volume), nullFloat(q.ChangePct),
			q.ExtractedAt.UTC().Format(timestampFormat),
		)
		if err != nil {
			return result, fmt.Errorf("insert quote %s %s: %w", q.Symbol, q.Date.Format(dateFormat), err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			result.Inserted++
		} else {
			result.Skipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.LoadResult{}, fmt.Errorf("commit: %w", err)
	}
	return result, nil
}

func (r *Repository) Query(ctx context.Context, f domain.QueryFilter) ([]domain.DailyQuote, error) {
	query := `SELECT id, symbol, date, open_price, high_price, low_price, close_price,
		volume, daily_change_percentage, extraction_timestamp
		FROM stock_daily_data WHERE 1=1`
	var args []any

	if f.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, f.Symbol)
	}
	if !f.From.IsZero() {
		query += " AND date >= ?"
		args = append(args, f.From.Format(dateFormat))
	}
	if !f.To.IsZero() {
		query += " AND date <= ?"
		args = append(args, f.To.Format(dateFormat))
	}
	query += " ORDER BY symbol ASC, date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var quotes []domain.DailyQuote
	for rows.Next() {
		var q domain.DailyQuote
		var dateStr, extractedStr string
		var volume sql.NullInt64
		var changePct sql.NullFloat64
		if err := rows.Scan(&q.ID, &q.Symbol, &dateStr,
			&q.Open, &q.High, &q.Low, &q.Close,
			&volume, &changePct, &extractedStr,
		); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		q.Date, _ = time.Parse(dateFormat, dateStr)
		q.ExtractedAt, _ = time.Parse(timestampFormat, extractedStr)
		if volume.Valid {
			q.Volume = &volume.Int64
		}
		if changePct.Valid {
			q.ChangePct = &changePct.Float64
		}
		quotes = append(quotes, q)
	}

	return quotes, rows.Err()
}

func (r *Repository) Stats(ctx context.Context) ([]domain.SymbolStats, error) {
	const query = `SELECT symbol, COUNT(*), MIN(date), MAX(date)
		FROM stock_daily_data
		GROUP BY symbol
		ORDER BY symbol ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []domain.SymbolStats
	for rows.Next() {
		var s domain.SymbolStats
		var earliest, latest string
		if err := rows.Scan(&s.Symbol, &s.Records, &earliest, &latest); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		s.EarliestDate, _ = time.Parse(dateFormat, earliest)
		s.LatestDate, _ = time.Parse(dateFormat, latest)
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

func nullInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
