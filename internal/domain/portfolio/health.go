package portfolio

import (
	"github.com/dafenarts/backend/internal/domain/pricing"
	"github.com/dafenarts/backend/internal/domain/shared/numeric"
	"github.com/shopspring/decimal"
)

// HealthLevel grades the cashflow score
type HealthLevel string

const (
	HealthExcellent HealthLevel = "excellent" // score >= 80
	HealthGood      HealthLevel = "good"      // score >= 60
	HealthWarning   HealthLevel = "warning"   // score >= 40
	HealthDanger    HealthLevel = "danger"
)

var (
	coverageCap    = decimal.NewFromInt(150)
	coverageWeight = decimal.NewFromFloat(0.6)
	collectWeight  = decimal.NewFromFloat(0.4)
	hundred        = decimal.NewFromInt(100)
)

// CashflowHealth scores how sustainably the month's spending is covered
type CashflowHealth struct {
	Score          decimal.Decimal `json:"score"`
	Level          HealthLevel     `json:"level"`
	CashCoverage   decimal.Decimal `json:"cash_coverage"`
	CollectionRate decimal.Decimal `json:"collection_rate"`
}

// ComputeCashflowHealth blends two signals: cash coverage (final profit
// against fixed cost plus ad spend, weighted 60%) and collection rate
// (completed amount against everything shipped, weighted 40%). Coverage is
// capped at 150 before weighting so one great month cannot mask poor
// collections; both default to 100 when their denominator is empty.
func ComputeCashflowHealth(f PeriodFinancials, params pricing.CostParameters) CashflowHealth {
	monthlySpend := params.MonthlyFixedCostCNY().Add(f.AdSpendCNY)

	coverage := hundred
	if monthlySpend.IsPositive() {
		coverage = f.FinalProfitCNY.Div(monthlySpend).Mul(hundred)
	}

	shipped := f.Stats.ShippedAmountUSD()
	collection := hundred
	if shipped.IsPositive() {
		collection = f.Stats.Completed.AmountUSD.Div(shipped).Mul(hundred)
	}

	cappedCoverage := coverage
	if cappedCoverage.GreaterThan(coverageCap) {
		cappedCoverage = coverageCap
	}
	score := numeric.Clamp(
		cappedCoverage.Mul(coverageWeight).Add(collection.Mul(collectWeight)),
		decimal.Zero, hundred)

	level := HealthDanger
	switch {
	case score.GreaterThanOrEqual(decimal.NewFromInt(80)):
		level = HealthExcellent
	case score.GreaterThanOrEqual(decimal.NewFromInt(60)):
		level = HealthGood
	case score.GreaterThanOrEqual(decimal.NewFromInt(40)):
		level = HealthWarning
	}

	return CashflowHealth{
		Score:          score.Round(1),
		Level:          level,
		CashCoverage:   coverage.Round(1),
		CollectionRate: collection.Round(1),
	}
}
