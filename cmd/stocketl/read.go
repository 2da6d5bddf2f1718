package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"stocketl/internal/config"
	"stocketl/internal/quote"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print per-symbol record counts and date coverage",
		RunE: func(c *cobra.Command, args []string) error {
			cfg := config.Load()
			db, _, svc, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return printStats(context.Background(), c, svc)
		},
	}
}

func newQueryCmd() *cobra.Command {
	var symbol, startDate, endDate string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print stored quotes, optionally filtered by symbol and date range",
		RunE: func(c *cobra.Command, args []string) error {
			cfg := config.Load()
			db, _, svc, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			req := quote.QueryRequest{Symbol: symbol}
			if startDate != "" {
				if req.StartDate, err = time.Parse(time.DateOnly, startDate); err != nil {
					return fmt.Errorf("invalid --start date, expected YYYY-MM-DD")
				}
			}
			if endDate != "" {
				if req.EndDate, err = time.Parse(time.DateOnly, endDate); err != nil {
					return fmt.Errorf("invalid --end date, expected YYYY-MM-DD")
				}
			}

			quotes, err := svc.Query(context.Background(), req)
			if err != nil {
				return err
			}

			printQuotes(c, quotes)
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "filter by symbol")
	cmd.Flags().StringVar(&startDate, "start", "", "inclusive start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", "", "inclusive end date (YYYY-MM-DD)")

	return cmd
}

func printQuotes(c *cobra.Command, quotes []quote.DailyQuote) {
	w := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tDATE\tOPEN\tHIGH\tLOW\tCLOSE\tVOLUME\tCHANGE%")
	for _, q := range quotes {
		volume := "-"
		if q.Volume != nil {
			volume = fmt.Sprintf("%d", *q.Volume)
		}
		change := "-"
		if q.ChangePct != nil {
			change = fmt.Sprintf("%.2f", *q.ChangePct)
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%s\t%s\n",
			q.Symbol, q.Date.Format(time.DateOnly),
			q.Open, q.High, q.Low, q.Close, volume, change)
	}
	_ = w.Flush()
}
