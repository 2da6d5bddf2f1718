package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"stocketl/internal/alphavantage"
	"stocketl/internal/archive"
	"stocketl/internal/config"
	"stocketl/internal/pipeline"
	"stocketl/internal/quote"
)

func newRunCmd() *cobra.Command {
	var symbols []string
	var noValidate, noRaw bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one full ETL batch, then print stats and a sample query",
		RunE: func(c *cobra.Command, args []string) error {
			cfg := config.Load()
			if len(symbols) > 0 {
				cfg.Symbols = normalizeSymbols(symbols)
			}
			if cfg.APIKey == "" {
				return fmt.Errorf("ALPHAVANTAGE_API_KEY is not set")
			}
			if len(cfg.Symbols) == 0 {
				return fmt.Errorf("no symbols configured")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, repo, svc, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			p, err := buildPipeline(cfg, repo, !noValidate, !noRaw)
			if err != nil {
				return err
			}

			report, err := p.Run(ctx, cfg.Symbols)
			if err != nil {
				return err
			}
			printReport(c, report)

			if err := printStats(ctx, c, svc); err != nil {
				return err
			}

			// Sample query: latest rows for the first configured symbol.
			return printSample(ctx, c, svc, cfg.Symbols[0])
		},
	}

	cmd.Flags().StringSliceVar(&symbols, "symbols", nil, "symbols to process (default from SYMBOLS env)")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "skip strict per-entry validation")
	cmd.Flags().BoolVar(&noRaw, "no-raw", false, "skip archiving raw provider payloads")

	return cmd
}

func buildPipeline(cfg config.Config, repo quote.Repository, validate, persistRaw bool) (*pipeline.Pipeline, error) {
	client := alphavantage.New(cfg.APIKey,
		alphavantage.WithEndpoint(cfg.BaseURL),
		alphavantage.WithOutputSize(cfg.OutputSize),
	)

	opts := []pipeline.Option{pipeline.WithValidation(validate)}
	if persistRaw {
		arc, err := archive.New(cfg.RawDir)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithArchive(arc))
	}

	return pipeline.New(client, repo, cfg.SymbolDelay, opts...), nil
}

func normalizeSymbols(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func printReport(c *cobra.Command, report *pipeline.Report) {
	w := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tSTATUS\tINSERTED\tSKIPPED")
	for _, r := range report.Results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", r.Symbol, r.Status, r.Inserted, r.Skipped)
	}
	_ = w.Flush()
}

func printStats(ctx context.Context, c *cobra.Command, svc *quote.Service) error {
	stats, err := svc.Stats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	fmt.Fprintln(c.OutOrStdout(), "\nDatabase statistics:")
	w := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tRECORDS\tEARLIEST\tLATEST")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			s.Symbol, s.Records,
			s.EarliestDate.Format(time.DateOnly), s.LatestDate.Format(time.DateOnly))
	}
	return w.Flush()
}

func printSample(ctx context.Context, c *cobra.Command, svc *quote.Service, symbol string) error {
	quotes, err := svc.Query(ctx, quote.QueryRequest{Symbol: symbol})
	if err != nil {
		return fmt.Errorf("query %s: %w", symbol, err)
	}
	if len(quotes) > 5 {
		quotes = quotes[:5]
	}

	fmt.Fprintf(c.OutOrStdout(), "\nLatest records for %s:\n", symbol)
	printQuotes(c, quotes)
	return nil
}
