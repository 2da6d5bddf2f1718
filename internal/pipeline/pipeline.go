// Package pipeline sequences Extract -> Transform -> Load per symbol. One
// symbol's failure never aborts the batch, and extractions are paced to stay
// under the provider's request-rate ceiling.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"stocketl/internal/alphavantage"
	"stocketl/internal/archive"
	"stocketl/internal/quote"
	"stocketl/internal/transform"
)

// Status is the terminal state of one symbol's run.
type Status string

const (
	StatusDone                  Status = "done"
	StatusSkippedExtraction     Status = "skipped_extraction"
	StatusSkippedTransformation Status = "skipped_transformation"
	StatusFailed                Status = "failed"
)

// Extractor fetches one symbol's daily series. Satisfied by
// *alphavantage.Client.
type Extractor interface {
	FetchDaily(ctx context.Context, symbol string) (*alphavantage.Payload, error)
}

// SymbolResult reports one symbol's outcome within a batch.
type SymbolResult struct {
	Symbol   string
	Status   Status
	Inserted int
	Skipped  int
	Err      error
}

// Report summarizes one full batch.
type Report struct {
	Results  []SymbolResult
	Started  time.Time
	Finished time.Time
}

// Succeeded returns how many symbols reached StatusDone.
func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == StatusDone {
			n++
		}
	}
	return n
}

type Pipeline struct {
	extractor Extractor
	repo      quote.Repository
	archive   *archive.Archive
	limiter   *rate.Limiter

	persistRaw bool
	validate   bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithArchive enables raw payload archiving.
func WithArchive(a *archive.Archive) Option {
	return func(p *Pipeline) {
		p.archive = a
		p.persistRaw = a != nil
	}
}

// WithValidation toggles strict per-entry validation during transform.
func WithValidation(v bool) Option {
	return func(p *Pipeline) { p.validate = v }
}

// New creates a Pipeline. Delay is the minimum interval between extractions
// across the whole batch; zero disables pacing.
func New(extractor Extractor, repo quote.Repository, delay time.Duration, opts ...Option) *Pipeline {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	p := &Pipeline{
		extractor: extractor,
		repo:      repo,
		limiter:   rate.NewLimiter(limit, 1),
		validate:  true,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run processes the symbols sequentially and returns a per-symbol report.
// It only returns an error when the context is cancelled mid-batch.
func (p *Pipeline) Run(ctx context.Context, symbols []string) (*Report, error) {
	report := &Report{Started: time.Now()}
	slog.Info("starting batch", "symbols", len(symbols))

	for _, symbol := range symbols {
		// Global pacing across all symbols combined.
		if err := p.limiter.Wait(ctx); err != nil {
			report.Finished = time.Now()
			return report, fmt.Errorf("batch cancelled: %w", err)
		}

		result := p.runSymbol(ctx, symbol)
		report.Results = append(report.Results, result)

		if ctx.Err() != nil {
			report.Finished = time.Now()
			return report, fmt.Errorf("batch cancelled: %w", ctx.Err())
		}
	}

	report.Finished = time.Now()
	slog.Info("batch completed", "symbols", len(symbols), "succeeded", report.Succeeded(),
		"duration", report.Finished.Sub(report.Started).String())
	return report, nil
}

// runSymbol executes one symbol's Extract -> Transform -> Load sequence.
// A panic anywhere inside is caught here so the batch survives it.
func (p *Pipeline) runSymbol(ctx context.Context, symbol string) (result SymbolResult) {
	result = SymbolResult{Symbol: symbol}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("unexpected failure processing symbol", "symbol", symbol, "panic", r)
			result.Status = StatusFailed
			result.Err = fmt.Errorf("panic processing %s: %v", symbol, r)
		}
	}()

	// Extract
	slog.Info("extracting", "symbol", symbol)
	payload, err := p.extractor.FetchDaily(ctx, symbol)
	if err != nil {
		slog.Warn("skipping symbol: extraction failed",
			"symbol", symbol, "kind", classify(err), "error", err)
		result.Status = StatusSkippedExtraction
		result.Err = err
		return result
	}

	if p.persistRaw {
		day := time.Now()
		if err := p.archive.Store(symbol, day, payload.Raw); err != nil {
			// Archiving is best-effort; the pipeline proceeds with the
			// in-memory payload.
			slog.Warn("failed to archive raw payload", "symbol", symbol, "error", err)
		} else {
			slog.Info("archived raw payload", "symbol", symbol, "path", p.archive.Path(symbol, day))
		}
	}

	// Transform
	quotes, err := transform.Transform(payload.Series, symbol, p.validate)
	if err != nil {
		slog.Warn("skipping symbol: transformation produced no records", "symbol", symbol, "error", err)
		result.Status = StatusSkippedTransformation
		result.Err = err
		return result
	}

	// Load
	loaded, err := p.repo.Save(ctx, quotes)
	if err != nil {
		slog.Error("loading failed", "symbol", symbol, "error", err)
		result.Status = StatusFailed
		result.Err = err
		return result
	}

	slog.Info("symbol processed", "symbol", symbol,
		"records", len(quotes), "inserted", loaded.Inserted, "skipped", loaded.Skipped)
	result.Status = StatusDone
	result.Inserted = loaded.Inserted
	result.Skipped = loaded.Skipped
	return result
}

// classify names the extraction failure kind for logging.
func classify(err error) string {
	var domainErr *alphavantage.DomainError
	var rateErr *alphavantage.RateLimitError
	var transportErr *alphavantage.TransportError
	var decodeErr *alphavantage.DecodeError

	switch {
	case errors.As(err, &domainErr):
		return "domain_error"
	case errors.As(err, &rateErr):
		return "rate_limited"
	case errors.As(err, &transportErr):
		return "transport_failure"
	case errors.As(err, &decodeErr):
		return "decode_failure"
	default:
		return "unknown"
	}
}
