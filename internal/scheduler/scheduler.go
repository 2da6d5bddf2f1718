// Package scheduler runs a callback once per day at a fixed local time.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Scheduler struct {
	hour, minute int
	run          func(context.Context)
}

// New parses at ("HH:MM", local time) and returns a scheduler invoking run
// daily at that time.
func New(at string, run func(context.Context)) (*Scheduler, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule time %q, expected HH:MM: %w", at, err)
	}
	return &Scheduler{hour: t.Hour(), minute: t.Minute(), run: run}, nil
}

// NextRun returns the first scheduled moment strictly after now.
func (s *Scheduler) NextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run blocks, invoking the callback at each scheduled time, until ctx is
// cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		next := s.NextRun(time.Now())
		slog.Info("next scheduled run", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			s.run(ctx)
		}
	}
}
