package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"stocketl/internal/config"
	"stocketl/internal/scheduler"
	"stocketl/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the read API and run the ETL batch on a daily schedule",
		RunE: func(c *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.APIKey == "" {
				return fmt.Errorf("ALPHAVANTAGE_API_KEY is not set")
			}

			rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, repo, svc, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			p, err := buildPipeline(cfg, repo, true, true)
			if err != nil {
				return err
			}

			sched, err := scheduler.New(cfg.ScheduleAt, func(ctx context.Context) {
				if _, err := p.Run(ctx, cfg.Symbols); err != nil {
					slog.Error("scheduled batch aborted", "error", err)
				}
			})
			if err != nil {
				return err
			}

			srv := server.New(rootCtx, cfg.Port, svc)

			g, gctx := errgroup.WithContext(rootCtx)
			g.Go(func() error {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				if err := sched.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			if err := g.Wait(); err != nil {
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}
}
