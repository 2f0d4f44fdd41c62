package pricing

import (
	"github.com/dafenarts/backend/internal/domain/shared/numeric"
	"github.com/shopspring/decimal"
)

// UnreachableQtySentinel is reported as the needed quantity when the unit
// gross profit is zero or negative and no volume can reach the target.
const UnreachableQtySentinel = 99999

var (
	hundred = decimal.NewFromInt(100)

	// dynamic CPA blending fractions
	cpaConservative = decimal.NewFromFloat(0.3) // no sales history yet
	cpaCeilingShare = decimal.NewFromFloat(0.4) // cap once history exists
	cpaMinimumShare = decimal.NewFromFloat(0.1) // non-zero floor
)

// SalesSnapshot is the realized-sales context the KPI needs: how many
// units have completed and how much profit they brought in.
type SalesSnapshot struct {
	CompletedQty       int64
	CompletedProfitCNY decimal.Decimal
}

// StrategyKPIResult quantifies the road to a monthly profit target
type StrategyKPIResult struct {
	NeededTotalQty       int64           `json:"needed_total_qty"`
	RemainingQty         int64           `json:"remaining_qty"`
	CompletedQty         int64           `json:"completed_qty"`
	UnitPriceUSD         decimal.Decimal `json:"unit_price_usd"`
	UnitGrossProfitCNY   decimal.Decimal `json:"unit_gross_profit_cny"`
	MaxCeilingCPAUSD     decimal.Decimal `json:"max_ceiling_cpa_usd"`
	DynamicCPAUSD        decimal.Decimal `json:"dynamic_cpa_usd"`
	RemainingRevenueCNY  decimal.Decimal `json:"remaining_revenue_cny"`
	RealizedProfitCNY    decimal.Decimal `json:"realized_profit_cny"`
	RemainingProfitCNY   decimal.Decimal `json:"remaining_profit_cny"`
	TargetProfitCNY      decimal.Decimal `json:"target_profit_cny"`
	ProfitCompletionPct  decimal.Decimal `json:"profit_completion_pct"`
	QtyCompletionPct     decimal.Decimal `json:"qty_completion_pct"`
}

// StrategyKPI computes the volume and advertising budget needed to close
// the gap between realized profit and the target. The per-unit gross
// profit deducts fees, DDP tax and insurance (insured on the sale price)
// so the acquisition-cost ceiling is not overstated.
func (e *Engine) StrategyKPI(params CostParameters, costs UnitCostBreakdown, country CountryProfile, unitPriceUSD, targetProfitCNY, adSpendCNY decimal.Decimal, sales SalesSnapshot) StrategyKPIResult {
	unitPriceCNY := unitPriceUSD.Mul(params.ExchangeRate)

	unitFee := unitPriceCNY.Mul(params.TotalFeeRate())
	unitTax := unitTaxCNY(costs, params, country)

	unitInsurance := decimal.Zero
	if params.IncludesInsurance() {
		unitInsurance = unitPriceCNY.Mul(params.InsuranceMarkup).Mul(params.InsuranceRate)
	}

	unitGross := unitPriceCNY.
		Sub(costs.PhysicalCostCNY).
		Sub(unitFee).
		Sub(unitTax).
		Sub(unitInsurance)

	maxCeilingCPA := decimal.Zero
	if unitGross.IsPositive() {
		maxCeilingCPA = unitGross.Div(params.ExchangeRate).Round(1)
	}

	remainingProfit := targetProfitCNY.Sub(sales.CompletedProfitCNY)
	if remainingProfit.IsNegative() {
		remainingProfit = decimal.Zero
	}

	var neededQty int64
	if !unitGross.IsPositive() {
		neededQty = UnreachableQtySentinel
	} else {
		neededQty = remainingProfit.Add(adSpendCNY).Div(unitGross).Ceil().IntPart()
	}

	remainingQty := neededQty - sales.CompletedQty
	if remainingQty < 0 {
		remainingQty = 0
	}

	var dynamicCPA decimal.Decimal
	if sales.CompletedQty == 0 {
		dynamicCPA = maxCeilingCPA.Mul(cpaConservative).Round(1)
	} else {
		avgProfitPerUnit := sales.CompletedProfitCNY.Div(decimal.NewFromInt(sales.CompletedQty))
		remainingPool := decimal.NewFromInt(remainingQty).Mul(avgProfitPerUnit).
			Sub(remainingProfit).
			Sub(adSpendCNY)
		qtyFloor := numeric.Floor(decimal.NewFromInt(remainingQty), decimal.NewFromInt(1))
		budgetCPA := remainingPool.Div(qtyFloor).Div(params.ExchangeRate)

		capped := maxCeilingCPA.Mul(cpaCeilingShare)
		if budgetCPA.LessThan(capped) {
			capped = budgetCPA
		}
		if capped.IsNegative() {
			capped = decimal.Zero
		}
		dynamicCPA = capped.Round(1)
	}
	if dynamicCPA.IsZero() && maxCeilingCPA.IsPositive() {
		dynamicCPA = maxCeilingCPA.Mul(cpaMinimumShare).Round(1)
	}

	remainingRevenue := decimal.NewFromInt(remainingQty).Mul(unitPriceUSD).Mul(params.ExchangeRate)

	profitCompletion := decimal.Zero
	if targetProfitCNY.IsPositive() {
		profitCompletion = numeric.Percentage(sales.CompletedProfitCNY, targetProfitCNY)
	}
	totalQty := sales.CompletedQty + remainingQty
	qtyCompletion := decimal.Zero
	if totalQty > 0 {
		qtyCompletion = numeric.Percentage(decimal.NewFromInt(sales.CompletedQty), decimal.NewFromInt(totalQty))
	}

	return StrategyKPIResult{
		NeededTotalQty:      neededQty,
		RemainingQty:        remainingQty,
		CompletedQty:        sales.CompletedQty,
		UnitPriceUSD:        unitPriceUSD,
		UnitGrossProfitCNY:  unitGross,
		MaxCeilingCPAUSD:    maxCeilingCPA,
		DynamicCPAUSD:       dynamicCPA,
		RemainingRevenueCNY: remainingRevenue,
		RealizedProfitCNY:   sales.CompletedProfitCNY,
		RemainingProfitCNY:  remainingProfit,
		TargetProfitCNY:     targetProfitCNY,
		ProfitCompletionPct: profitCompletion,
		QtyCompletionPct:    qtyCompletion,
	}
}

// RiskLevel grades how well a deposit covers the out-of-pocket cost
type RiskLevel string

const (
	RiskSafe    RiskLevel = "safe"    // coverage >= 100%
	RiskWarning RiskLevel = "warning" // coverage >= 70%
	RiskDanger  RiskLevel = "danger"  // coverage below 70%
)

// DepositRiskResult measures the exposure of producing an order before
// the balance is paid.
type DepositRiskResult struct {
	Valid           bool            `json:"valid"`
	OrderTotalUSD   decimal.Decimal `json:"order_total_usd"`
	OrderTotalCNY   decimal.Decimal `json:"order_total_cny"`
	DepositUSD      decimal.Decimal `json:"deposit_usd"`
	DepositCNY      decimal.Decimal `json:"deposit_cny"`
	OutOfPocketCNY  decimal.Decimal `json:"out_of_pocket_cny"`
	DepositPercent  decimal.Decimal `json:"deposit_percent"`
	CoveragePercent decimal.Decimal `json:"coverage_percent"`
	Level           RiskLevel       `json:"level"`
}

// DepositRisk checks whether the deposit on a quantity-qty order at
// priceUSD covers the physical cost plus DDP tax laid out before
// shipment. A non-positive price yields an invalid result.
func (e *Engine) DepositRisk(params CostParameters, costs UnitCostBreakdown, country CountryProfile, priceUSD, depositPct decimal.Decimal, qty int64) DepositRiskResult {
	if !priceUSD.IsPositive() {
		return DepositRiskResult{Valid: false}
	}
	if qty < 1 {
		qty = 1
	}
	qtyDec := decimal.NewFromInt(qty)

	orderTotalUSD := priceUSD.Mul(qtyDec)
	orderTotalCNY := orderTotalUSD.Mul(params.ExchangeRate)

	depositUSD := orderTotalUSD.Mul(numeric.FromPercent(depositPct))
	depositCNY := depositUSD.Mul(params.ExchangeRate)

	unitTax := unitTaxCNY(costs, params, country)
	outOfPocket := costs.PhysicalCostCNY.Add(unitTax).Mul(qtyDec)

	coverage := decimal.Zero
	if outOfPocket.IsPositive() {
		coverage = depositCNY.Div(outOfPocket).Mul(hundred)
	}

	level := RiskDanger
	switch {
	case coverage.GreaterThanOrEqual(hundred):
		level = RiskSafe
	case coverage.GreaterThanOrEqual(decimal.NewFromInt(70)):
		level = RiskWarning
	}

	return DepositRiskResult{
		Valid:           true,
		OrderTotalUSD:   orderTotalUSD,
		OrderTotalCNY:   orderTotalCNY,
		DepositUSD:      depositUSD,
		DepositCNY:      depositCNY,
		OutOfPocketCNY:  outOfPocket,
		DepositPercent:  depositPct,
		CoveragePercent: coverage,
		Level:           level,
	}
}
