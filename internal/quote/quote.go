// Package quote defines the normalized daily price record and the read/write
// surfaces over its persistent store.
package quote

import "time"

// DailyQuote is one validated daily price entry for one symbol. Open, high,
// low and close are always present; records missing any of them never leave
// the transformer. Volume and ChangePct stay nil when the provider value
// could not be coerced.
type DailyQuote struct {
	ID          int64     `json:"id"`
	Symbol      string    `json:"symbol"`
	Date        time.Time `json:"date"`
	Open        float64   `json:"open"`
	High        float64   `json:"high"`
	Low         float64   `json:"low"`
	Close       float64   `json:"close"`
	Volume      *int64    `json:"volume"`
	ChangePct   *float64  `json:"dailyChangePercentage"`
	ExtractedAt time.Time `json:"extractedAt"`
}

// QueryFilter narrows a quote query. Zero values mean "no filter"; From and
// To are inclusive calendar dates.
type QueryFilter struct {
	Symbol string
	From   time.Time
	To     time.Time
}

// SymbolStats summarizes stored coverage for one symbol.
type SymbolStats struct {
	Symbol       string    `json:"symbol"`
	Records      int64     `json:"records"`
	EarliestDate time.Time `json:"earliestDate"`
	LatestDate   time.Time `json:"latestDate"`
}

// LoadResult reports the outcome of loading one batch of quotes.
type LoadResult struct {
	Inserted int
	Skipped  int
}
