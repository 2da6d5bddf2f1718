package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stocketl/internal/config"
	"stocketl/internal/platform/sqlite"
	"stocketl/internal/quote"
	quoterepo "stocketl/internal/repository/quote"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "stocketl",
		Short:         "Daily stock price ETL into SQLite",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newQueryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// openStore opens the database and builds the quote repository and service.
func openStore(cfg config.Config) (*sqlite.DB, *quoterepo.Repository, *quote.Service, error) {
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	repo := quoterepo.NewRepository(db.DB)
	return db, repo, quote.NewService(repo), nil
}
