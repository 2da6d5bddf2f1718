// Package transform converts raw provider time series into normalized daily
// quotes. It is pure in-memory computation: no network or storage access.
package transform

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"stocketl/internal/quote"
)

// Transform converts the payload's time series into daily quotes for the
// symbol. With validate enabled, entries failing strict field validation are
// dropped individually with a warning; the rest of the series continues.
// Every surviving record carries the same extraction timestamp, captured
// once per call. Records missing any of open/high/low/close after coercion
// are dropped; an empty result is an error.
func Transform(series map[string]map[string]string, symbol string, validate bool) ([]quote.DailyQuote, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no daily time series for %s", symbol)
	}

	extractedAt := time.Now().UTC()

	quotes := make([]quote.DailyQuote, 0, len(series))
	for date, fields := range series {
		var c candidate
		if validate {
			var reasons []string
			c, reasons = validateEntry(date, fields)
			if len(reasons) > 0 {
				slog.Warn("dropping invalid entry", "symbol", symbol, "date", date, "reasons", reasons)
				continue
			}
		} else {
			var ok bool
			c, ok = coerceEntry(date, fields)
			if !ok {
				continue
			}
		}

		// Required after coercion; volume and the derived field may stay nil.
		if c.open == nil || c.high == nil || c.low == nil || c.close == nil {
			slog.Warn("dropping incomplete entry", "symbol", symbol, "date", date)
			continue
		}

		quotes = append(quotes, quote.DailyQuote{
			Symbol:      symbol,
			Date:        c.date,
			Open:        *c.open,
			High:        *c.high,
			Low:         *c.low,
			Close:       *c.close,
			Volume:      c.volume,
			ChangePct:   changePct(*c.open, *c.close),
			ExtractedAt: extractedAt,
		})
	}

	if len(quotes) == 0 {
		return nil, fmt.Errorf("no valid records for %s", symbol)
	}

	sort.Slice(quotes, func(i, j int) bool {
		return quotes[i].Date.After(quotes[j].Date)
	})

	return quotes, nil
}

// changePct computes (close-open)/open*100 rounded to 2 decimal places.
// A zero open yields nil rather than a division error.
func changePct(open, close float64) *float64 {
	if open == 0 {
		return nil
	}
	openDec := decimal.NewFromFloat(open)
	pct, _ := decimal.NewFromFloat(close).
		Sub(openDec).
		Div(openDec).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		Float64()
	return &pct
}
