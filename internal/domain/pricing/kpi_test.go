package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategyKPI_NeededQuantity(t *testing.T) {
	e := newTestEngine(t)
	params := baselineParams(t)
	usa := mustLookup(t, e, USA)
	costs := e.UnitCosts(params, usa, 0)

	// price 200 USD = 1400 CNY; gross = 1400 - 352 - 1400*0.059 = 965.4
	res := e.StrategyKPI(params, costs, usa,
		decimal.NewFromInt(200),
		decimal.NewFromInt(100000),
		decimal.Zero,
		SalesSnapshot{})

	assert.InDelta(t, 965.4, f(res.UnitGrossProfitCNY), 1e-6)
	// ceil(100000 / 965.4) = 104
	assert.Equal(t, int64(104), res.NeededTotalQty)
	assert.Equal(t, int64(104), res.RemainingQty)
}

func TestStrategyKPI_AdSpendRaisesNeededQty(t *testing.T) {
	e := newTestEngine(t)
	params := baselineParams(t)
	usa := mustLookup(t, e, USA)
	costs := e.UnitCosts(params, usa, 0)

	without := e.StrategyKPI(params, costs, usa,
		decimal.NewFromInt(200), decimal.NewFromInt(100000), decimal.Zero, SalesSnapshot{})
	with := e.StrategyKPI(params, costs, usa,
		decimal.NewFromInt(200), decimal.NewFromInt(100000), decimal.NewFromInt(50000), SalesSnapshot{})

	assert.Greater(t, with.NeededTotalQty, without.NeededTotalQty)
}

func TestStrategyKPI_UnprofitablePriceYieldsSentinel(t *testing.T) {
	e := newTestEngine(t)
	params := baselineParams(t)
	usa := mustLookup(t, e, USA)
	costs := e.UnitCosts(params, usa, 0)

	// 30 USD = 210 CNY, below the 352 CNY physical cost
	res := e.StrategyKPI(params, costs, usa,
		decimal.NewFromInt(30), decimal.NewFromInt(100000), decimal.Zero, SalesSnapshot{})

	assert.Equal(t, int64(UnreachableQtySentinel), res.NeededTotalQty)
	assert.True(t, res.MaxCeilingCPAUSD.IsZero())
	assert.True(t, res.DynamicCPAUSD.IsZero())
}

func TestStrategyKPI_TargetAlreadyMet(t *testing.T) {
	e := newTestEngine(t)
	params := baselineParams(t)
	usa := mustLookup(t, e, USA)
	costs := e.UnitCosts(params, usa, 0)

	res := e.StrategyKPI(params, costs, usa,
		decimal.NewFromInt(200),
		decimal.NewFromInt(100000),
		decimal.Zero,
		SalesSnapshot{CompletedQty: 150, CompletedProfitCNY: decimal.NewFromInt(120000)})

	assert.True(t, res.RemainingProfitCNY.IsZero())
	assert.Equal(t, int64(0), res.RemainingQty)
	assert.InDelta(t, 100, f(res.QtyCompletionPct), 1e-9)
}

func TestStrategyKPI_DynamicCPA(t *testing.T) {
	e := newTestEngine(t)
	params := baselineParams(t)
	usa := mustLookup(t, e, USA)
	costs := e.UnitCosts(params, usa, 0)
	price := decimal.NewFromInt(200)
	target := decimal.NewFromInt(100000)

	t.Run("no sales history uses conservative share", func(t *testing.T) {
		res := e.StrategyKPI(params, costs, usa, price, target, decimal.Zero, SalesSnapshot{})
		want := f(res.MaxCeilingCPAUSD) * 0.3
		assert.InDelta(t, want, f(res.DynamicCPAUSD), 0.11)
		assert.True(t, res.DynamicCPAUSD.IsPositive())
	})

	t.Run("with history capped at ceiling share", func(t *testing.T) {
		res := e.StrategyKPI(params, costs, usa, price, target, decimal.Zero,
			SalesSnapshot{CompletedQty: 20, CompletedProfitCNY: decimal.NewFromInt(30000)})
		ceiling := f(res.MaxCeilingCPAUSD) * 0.4
		assert.LessOrEqual(t, f(res.DynamicCPAUSD), ceiling+0.11)
	})

	t.Run("never zero while ceiling positive", func(t *testing.T) {
		// history so weak the budget-based CPA goes negative
		res := e.StrategyKPI(params, costs, usa, price, target, decimal.NewFromInt(500000),
			SalesSnapshot{CompletedQty: 1, CompletedProfitCNY: decimal.NewFromInt(10)})
		require.True(t, res.MaxCeilingCPAUSD.IsPositive())
		assert.True(t, res.DynamicCPAUSD.IsPositive())
	})
}

func TestDepositRisk_InvalidPrice(t *testing.T) {
	e := newTestEngine(t)
	params := baselineParams(t)
	usa := mustLookup(t, e, USA)
	costs := e.UnitCosts(params, usa, 0)

	res := e.DepositRisk(params, costs, usa, decimal.Zero, decimal.NewFromInt(30), 10)
	assert.False(t, res.Valid)
}

func TestDepositRisk_CoverageBands(t *testing.T) {
	e := newTestEngine(t)
	params := baselineParams(t)
	usa := mustLookup(t, e, USA)
	costs := e.UnitCosts(params, usa, 0)

	// price $125, qty 10, deposit 30%: total $1250, deposit $375 = 2625 CNY
	// out of pocket = 352 * 10 = 3520 CNY, coverage ~74.6%
	res := e.DepositRisk(params, costs, usa,
		decimal.NewFromInt(125), decimal.NewFromInt(30), 10)

	require.True(t, res.Valid)
	assert.InDelta(t, 375, f(res.DepositUSD), 1e-9)
	assert.InDelta(t, 2625, f(res.DepositCNY), 1e-9)
	assert.InDelta(t, 3520, f(res.OutOfPocketCNY), 1e-9)
	assert.InDelta(t, 74.57, f(res.CoveragePercent), 0.01)
	assert.Equal(t, RiskWarning, res.Level)

	tests := []struct {
		name       string
		depositPct int64
		want       RiskLevel
	}{
		{"full coverage is safe", 45, RiskSafe},
		{"thin deposit is danger", 10, RiskDanger},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := e.DepositRisk(params, costs, usa,
				decimal.NewFromInt(125), decimal.NewFromInt(tt.depositPct), 10)
			assert.Equal(t, tt.want, r.Level)
		})
	}
}

func TestDepositRisk_SafeBoundary(t *testing.T) {
	e := newTestEngine(t)
	params := baselineParams(t)
	params.ExchangeRate = decimal.NewFromInt(8)
	usa := mustLookup(t, e, USA)
	costs := e.UnitCosts(params, usa, 0)

	// 40% deposit on $110 x 10 = $440 = 3520 CNY, exactly the
	// 352 x 10 CNY out of pocket: coverage lands on 100.0
	res := e.DepositRisk(params, costs, usa,
		decimal.NewFromInt(110), decimal.NewFromInt(40), 10)

	require.True(t, res.Valid)
	assert.True(t, res.CoveragePercent.Equal(decimal.NewFromInt(100)),
		"coverage = %s", res.CoveragePercent)
	assert.Equal(t, RiskSafe, res.Level)

	below := e.DepositRisk(params, costs, usa,
		decimal.NewFromInt(110), decimal.RequireFromString("39.99"), 10)
	assert.Equal(t, RiskWarning, below.Level)
}

func TestDepositRisk_DDPTaxRaisesOutOfPocket(t *testing.T) {
	e := newTestEngine(t)
	params := baselineParams(t)
	params.Term = TermDDP
	deu := mustLookup(t, e, DEU)
	costs := e.UnitCosts(params, deu, 0)

	res := e.DepositRisk(params, costs, deu,
		decimal.NewFromInt(125), decimal.NewFromInt(30), 10)

	require.True(t, res.Valid)
	// physical 376 (incl. EU fee) + tax 376*0.07*0.7 per unit
	wantUnit := 376 + 376*0.07*0.7
	assert.InDelta(t, wantUnit*10, f(res.OutOfPocketCNY), 1e-6)
}

func TestDepositRisk_QuantityFloor(t *testing.T) {
	e := newTestEngine(t)
	params := baselineParams(t)
	usa := mustLookup(t, e, USA)
	costs := e.UnitCosts(params, usa, 0)

	zero := e.DepositRisk(params, costs, usa, decimal.NewFromInt(125), decimal.NewFromInt(30), 0)
	one := e.DepositRisk(params, costs, usa, decimal.NewFromInt(125), decimal.NewFromInt(30), 1)

	assert.Equal(t, f(one.OutOfPocketCNY), f(zero.OutOfPocketCNY))
}
