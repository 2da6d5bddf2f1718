package quote

import (
	"context"
	"strings"
	"time"

	"stocketl/internal/apperror"
)

// Service exposes the stored quotes to the CLI and HTTP handlers with
// request validation.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type QueryRequest struct {
	Symbol    string
	StartDate time.Time
	EndDate   time.Time
}

func (r QueryRequest) Validate() *apperror.AppError {
	if !r.StartDate.IsZero() && !r.EndDate.IsZero() && r.StartDate.After(r.EndDate) {
		return apperror.New(apperror.BadRequest, "startDate cannot be after endDate")
	}
	return nil
}

func (s *Service) Query(ctx context.Context, req QueryRequest) ([]DailyQuote, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Query(ctx, QueryFilter{
		Symbol: strings.ToUpper(strings.TrimSpace(req.Symbol)),
		From:   req.StartDate,
		To:     req.EndDate,
	})
}

func (s *Service) Stats(ctx context.Context) ([]SymbolStats, error) {
	return s.repo.Stats(ctx)
}
