package quote

import (
	"context"
	"testing"

	"github.com/dafenarts/backend/internal/domain/pricing"
	"github.com/dafenarts/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSales struct {
	snapshot pricing.SalesSnapshot
}

func (s stubSales) SalesSnapshot(context.Context) (pricing.SalesSnapshot, error) {
	return s.snapshot, nil
}

func newTestService(sales pricing.SalesSnapshot) *Service {
	engine := pricing.NewEngine(pricing.NewCatalog(), pricing.StandardDefaults())
	return NewService(engine, stubSales{snapshot: sales}, zap.NewNop())
}

func TestService_Countries(t *testing.T) {
	s := newTestService(pricing.SalesSnapshot{})

	countries := s.Countries()
	assert.Len(t, countries, 26)

	require.NoError(t, s.UpdateCountry(pricing.CountryProfile{
		Code: pricing.DEU, Name: "Germany", VATRate: decimal.NewFromFloat(0.19),
		IsEU: true, Timezone: "Europe/Berlin",
	}))
	for _, c := range s.Countries() {
		if c.Code == pricing.DEU {
			assert.Equal(t, "0.19", c.VATRate.String())
		}
	}

	err := s.UpdateCountry(pricing.CountryProfile{Code: "X"})
	assert.Error(t, err)
}

func TestService_UnitCosts(t *testing.T) {
	s := newTestService(pricing.SalesSnapshot{})

	costs, err := s.UnitCosts(QuoteRequest{Country: "usa"})
	require.NoError(t, err)
	assert.Equal(t, "352", costs.PhysicalCostCNY.String())

	_, err = s.UnitCosts(QuoteRequest{Country: "ZZZ"})
	assert.ErrorIs(t, err, shared.ErrUnknownCountry)
}

func TestService_SuggestedPrice(t *testing.T) {
	s := newTestService(pricing.SalesSnapshot{})

	t.Run("default margin", func(t *testing.T) {
		res, err := s.SuggestedPrice(PriceRequest{QuoteRequest: QuoteRequest{Country: "USA"}})
		require.NoError(t, err)
		assert.Equal(t, "65", res.MarginPercent.String())
		assert.True(t, res.PriceUSD.IsPositive())
	})

	t.Run("explicit margin", func(t *testing.T) {
		margin := 40.0
		res, err := s.SuggestedPrice(PriceRequest{
			QuoteRequest:  QuoteRequest{Country: "USA"},
			MarginPercent: &margin,
		})
		require.NoError(t, err)
		assert.Equal(t, "40", res.MarginPercent.String())
	})
}

func TestService_ProfitRoundTrip(t *testing.T) {
	s := newTestService(pricing.SalesSnapshot{})

	suggested, err := s.SuggestedPrice(PriceRequest{QuoteRequest: QuoteRequest{Country: "USA"}})
	require.NoError(t, err)

	price, _ := suggested.PriceUSD.Float64()
	profit, err := s.Profit(ProfitRequest{
		QuoteRequest: QuoteRequest{Country: "USA"},
		PriceUSD:     price,
	})
	require.NoError(t, err)
	assert.InDelta(t, 65, f(profit.MarginPercent), 0.05)
}

func TestService_StrategyKPI(t *testing.T) {
	s := newTestService(pricing.SalesSnapshot{
		CompletedQty:       50,
		CompletedProfitCNY: decimal.NewFromInt(40000),
	})

	res, err := s.StrategyKPI(context.Background(), KPIRequest{
		QuoteRequest: QuoteRequest{Country: "USA"},
		PriceUSD:     188.2,
		AdSpendCNY:   5000,
	})
	require.NoError(t, err)
	assert.True(t, res.RemainingQty > 0)
	assert.Equal(t, int64(50), res.CompletedQty)
	assert.True(t, res.RemainingProfitCNY.LessThan(decimal.NewFromInt(1000000)))
}

func TestService_DepositRisk(t *testing.T) {
	s := newTestService(pricing.SalesSnapshot{})

	res, err := s.DepositRisk(DepositRiskRequest{
		QuoteRequest: QuoteRequest{Country: "USA"},
		PriceUSD:     125,
	})
	require.NoError(t, err)
	// defaults: qty 10, deposit 30% of 10*125*7 CNY vs outlay 3520
	assert.Equal(t, pricing.RiskWarning, res.Level)
}

func TestService_GlobalProfitIndex(t *testing.T) {
	s := newTestService(pricing.SalesSnapshot{})

	index, err := s.GlobalProfitIndex(GlobalIndexRequest{PriceUSD: 180})
	require.NoError(t, err)
	require.Len(t, index, 26)
	for i := 1; i < len(index); i++ {
		assert.True(t, index[i].ProfitCNY.LessThanOrEqual(index[i-1].ProfitCNY))
	}
}

func f(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}
