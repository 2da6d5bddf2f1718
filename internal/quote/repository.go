package quote

import "context"

type Repository interface {
	// Save inserts the given quotes, skipping rows whose (symbol, date) key
	// already exists. The whole batch runs in one transaction.
	Save(ctx context.Context, quotes []DailyQuote) (LoadResult, error)
	// Query returns stored quotes matching the filter, ordered by symbol
	// ascending then date descending.
	Query(ctx context.Context, f QueryFilter) ([]DailyQuote, error)
	// Stats returns per-symbol record counts and date coverage.
	Stats(ctx context.Context) ([]SymbolStats, error)
}
