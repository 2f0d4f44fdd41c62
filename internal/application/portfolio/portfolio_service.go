// Package portfolio is the application layer over the aggregated views of
// the order book: status stats, period financials and cashflow health.
package portfolio

import (
	"context"

	"github.com/dafenarts/backend/internal/domain/order"
	domainportfolio "github.com/dafenarts/backend/internal/domain/portfolio"
	"github.com/dafenarts/backend/internal/domain/pricing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StatsProvider serves the cached status buckets
type StatsProvider interface {
	Stats(ctx context.Context) (domainportfolio.OrderStats, error)
}

// Service computes the aggregated portfolio views
type Service struct {
	repo   order.Repository
	engine *pricing.Engine
	stats  StatsProvider
	logger *zap.Logger
}

// NewService creates a portfolio Service
func NewService(repo order.Repository, engine *pricing.Engine, stats StatsProvider, logger *zap.Logger) *Service {
	return &Service{repo: repo, engine: engine, stats: stats, logger: logger}
}

// FinancialsRequest carries the working parameters and the manual monthly
// spend the statement folds in.
type FinancialsRequest struct {
	Params        pricing.RawInput `json:"params"`
	AdSpendCNY    float64          `json:"ad_spend_cny" binding:"min=0"`
	DeductionsUSD float64          `json:"deductions_usd" binding:"min=0"`
}

// Stats returns the bucketed order statistics
func (s *Service) Stats(ctx context.Context) (domainportfolio.OrderStats, error) {
	return s.stats.Stats(ctx)
}

// Financials folds the order book into the period statement
func (s *Service) Financials(ctx context.Context, req FinancialsRequest) (domainportfolio.PeriodFinancials, error) {
	params, err := pricing.NewCostParameters(req.Params, s.engine.Defaults())
	if err != nil {
		return domainportfolio.PeriodFinancials{}, err
	}
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return domainportfolio.PeriodFinancials{}, err
	}
	spend := domainportfolio.ManualSpend{
		AdSpendCNY:    decimal.NewFromFloat(req.AdSpendCNY),
		DeductionsUSD: decimal.NewFromFloat(req.DeductionsUSD),
	}
	return domainportfolio.ComputePeriodFinancials(orders, params, spend), nil
}

// HealthResponse pairs the score with the statement it was derived from
type HealthResponse struct {
	Health     domainportfolio.CashflowHealth   `json:"health"`
	Financials domainportfolio.PeriodFinancials `json:"financials"`
}

// Health scores the current cashflow position
func (s *Service) Health(ctx context.Context, req FinancialsRequest) (HealthResponse, error) {
	params, err := pricing.NewCostParameters(req.Params, s.engine.Defaults())
	if err != nil {
		return HealthResponse{}, err
	}
	financials, err := s.Financials(ctx, req)
	if err != nil {
		return HealthResponse{}, err
	}
	health := domainportfolio.ComputeCashflowHealth(financials, params)
	if health.Level == domainportfolio.HealthDanger {
		s.logger.Warn("cashflow health in danger band",
			zap.String("score", health.Score.String()),
			zap.String("coverage", health.CashCoverage.String()))
	}
	return HealthResponse{Health: health, Financials: financials}, nil
}
