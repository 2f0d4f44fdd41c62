// Package quote is the application layer over the pricing engine: country
// catalog queries, cost breakdowns, suggested prices, profit analyses and
// the acquisition KPIs.
package quote

import (
	"context"
	"strings"

	"github.com/dafenarts/backend/internal/domain/pricing"
	"github.com/dafenarts/backend/internal/domain/shared/numeric"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SalesProvider feeds realized sales into the strategy KPI
type SalesProvider interface {
	SalesSnapshot(ctx context.Context) (pricing.SalesSnapshot, error)
}

// Service evaluates quoting requests against the pricing engine
type Service struct {
	engine *pricing.Engine
	sales  SalesProvider
	logger *zap.Logger
}

// NewService creates a quote Service
func NewService(engine *pricing.Engine, sales SalesProvider, logger *zap.Logger) *Service {
	return &Service{engine: engine, sales: sales, logger: logger}
}

// QuoteRequest is the shared input of the quoting endpoints
type QuoteRequest struct {
	Country   string           `json:"country" binding:"required,len=3"`
	TargetQty *int64           `json:"target_qty" binding:"omitempty,min=0"`
	Params    pricing.RawInput `json:"params"`
}

// resolve normalizes the request into parameters and a country profile
func (s *Service) resolve(req QuoteRequest) (pricing.CostParameters, pricing.CountryProfile, error) {
	params, err := pricing.NewCostParameters(req.Params, s.engine.Defaults())
	if err != nil {
		return pricing.CostParameters{}, pricing.CountryProfile{}, err
	}
	country, err := s.engine.Catalog().Lookup(pricing.CountryCode(strings.ToUpper(req.Country)))
	if err != nil {
		return pricing.CostParameters{}, pricing.CountryProfile{}, err
	}
	return params, country, nil
}

func (s *Service) targetQty(req QuoteRequest) int64 {
	if req.TargetQty != nil {
		return *req.TargetQty
	}
	return 0
}

// Countries lists the configured destination profiles
func (s *Service) Countries() []pricing.CountryProfile {
	return s.engine.Catalog().All()
}

// Country returns one destination profile
func (s *Service) Country(code pricing.CountryCode) (pricing.CountryProfile, error) {
	return s.engine.Catalog().Lookup(code)
}

// UpdateCountry replaces one destination profile
func (s *Service) UpdateCountry(profile pricing.CountryProfile) error {
	if err := s.engine.Catalog().Update(profile); err != nil {
		return err
	}
	s.logger.Info("country profile updated", zap.String("code", string(profile.Code)))
	return nil
}

// Presets lists the canvas size presets
func (s *Service) Presets() []pricing.SizePreset {
	return pricing.AllPresets()
}

// Defaults exposes the configured default parameter set
func (s *Service) Defaults() pricing.Defaults {
	return s.engine.Defaults()
}

// UnitCosts computes the per-unit cost breakdown for a destination
func (s *Service) UnitCosts(req QuoteRequest) (pricing.UnitCostBreakdown, error) {
	params, country, err := s.resolve(req)
	if err != nil {
		return pricing.UnitCostBreakdown{}, err
	}
	return s.engine.UnitCosts(params, country, s.targetQty(req)), nil
}

// PriceRequest asks for a margin-driven suggested price
type PriceRequest struct {
	QuoteRequest
	MarginPercent *float64 `json:"margin_percent" binding:"omitempty,gte=0,lt=100"`
}

// SuggestedPrice computes the price that yields the requested margin
func (s *Service) SuggestedPrice(req PriceRequest) (pricing.SuggestedPriceResult, error) {
	params, country, err := s.resolve(req.QuoteRequest)
	if err != nil {
		return pricing.SuggestedPriceResult{}, err
	}
	margin := numeric.OrDefault(req.MarginPercent, s.engine.Defaults().ExpectedMargin)
	costs := s.engine.UnitCosts(params, country, s.targetQty(req.QuoteRequest))
	return s.engine.SuggestedPrice(costs, params, margin, country), nil
}

// ProfitRequest asks for the profit analysis of a concrete price
type ProfitRequest struct {
	QuoteRequest
	PriceUSD float64 `json:"price_usd" binding:"required,gt=0"`
}

// Profit analyzes quoting the given USD price to the destination
func (s *Service) Profit(req ProfitRequest) (pricing.ProfitResult, error) {
	params, country, err := s.resolve(req.QuoteRequest)
	if err != nil {
		return pricing.ProfitResult{}, err
	}
	costs := s.engine.UnitCosts(params, country, s.targetQty(req.QuoteRequest))
	return s.engine.ManualProfit(decimal.NewFromFloat(req.PriceUSD), params, costs, country), nil
}

// KPIRequest asks for the strategy KPI against a profit target
type KPIRequest struct {
	QuoteRequest
	PriceUSD        float64  `json:"price_usd" binding:"required,gt=0"`
	TargetProfitCNY *float64 `json:"target_profit_cny" binding:"omitempty,gt=0"`
	AdSpendCNY      float64  `json:"ad_spend_cny" binding:"min=0"`
}

// StrategyKPI computes the volume and acquisition-budget road map,
// folding in realized sales from the order book.
func (s *Service) StrategyKPI(ctx context.Context, req KPIRequest) (pricing.StrategyKPIResult, error) {
	params, country, err := s.resolve(req.QuoteRequest)
	if err != nil {
		return pricing.StrategyKPIResult{}, err
	}
	sales, err := s.sales.SalesSnapshot(ctx)
	if err != nil {
		return pricing.StrategyKPIResult{}, err
	}
	costs := s.engine.UnitCosts(params, country, s.targetQty(req.QuoteRequest))
	target := numeric.OrDefault(req.TargetProfitCNY, s.engine.Defaults().TargetProfitCNY)
	return s.engine.StrategyKPI(params, costs, country,
		decimal.NewFromFloat(req.PriceUSD), target, decimal.NewFromFloat(req.AdSpendCNY), sales), nil
}

// DepositRiskRequest asks whether a deposit covers the production outlay
type DepositRiskRequest struct {
	QuoteRequest
	PriceUSD       float64  `json:"price_usd" binding:"required"`
	Quantity       *int64   `json:"quantity" binding:"omitempty,min=1"`
	DepositPercent *float64 `json:"deposit_percent" binding:"omitempty,gt=0,lte=100"`
}

// DepositRisk measures deposit coverage of the out-of-pocket cost
func (s *Service) DepositRisk(req DepositRiskRequest) (pricing.DepositRiskResult, error) {
	params, country, err := s.resolve(req.QuoteRequest)
	if err != nil {
		return pricing.DepositRiskResult{}, err
	}
	qty := s.engine.Defaults().QuoteQty
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	depositPct := numeric.OrDefault(req.DepositPercent, s.engine.Defaults().DepositPercent)
	costs := s.engine.UnitCosts(params, country, s.targetQty(req.QuoteRequest))
	return s.engine.DepositRisk(params, costs, country,
		decimal.NewFromFloat(req.PriceUSD), depositPct, qty), nil
}

// GlobalIndexRequest asks for the per-country profit ranking
type GlobalIndexRequest struct {
	PriceUSD float64          `json:"price_usd" binding:"required,gt=0"`
	Params   pricing.RawInput `json:"params"`
}

// GlobalProfitIndex ranks every destination by profit at one price
func (s *Service) GlobalProfitIndex(req GlobalIndexRequest) ([]pricing.CountryProfit, error) {
	params, err := pricing.NewCostParameters(req.Params, s.engine.Defaults())
	if err != nil {
		return nil, err
	}
	return s.engine.GlobalProfitIndex(decimal.NewFromFloat(req.PriceUSD), params), nil
}
