package portfolio

import (
	"github.com/dafenarts/backend/internal/domain/order"
	"github.com/dafenarts/backend/internal/domain/pricing"
	"github.com/dafenarts/backend/internal/domain/shared/numeric"
	"github.com/shopspring/decimal"
)

// ManualSpend is the operator-entered monthly expenditure that never flows
// through the order ledger. Advertising is paid in CNY; platform
// deductions are withheld in USD before settlement.
type ManualSpend struct {
	AdSpendCNY    decimal.Decimal `json:"ad_spend_cny"`
	DeductionsUSD decimal.Decimal `json:"deductions_usd"`
}

// PeriodFinancials is the accrual-basis statement for the current period.
// Revenue is recognized on shipment (completed and shipped_unpaid orders);
// cash inflow counts every dollar received regardless of status. Costs are
// aggregated from each order's own frozen snapshot.
type PeriodFinancials struct {
	RevenueUSD    decimal.Decimal `json:"revenue_usd"`
	RevenueCNY    decimal.Decimal `json:"revenue_cny"`
	CashInflowUSD decimal.Decimal `json:"cash_inflow_usd"`

	CanvasCostCNY        decimal.Decimal `json:"canvas_cost_cny"`
	DomesticCostCNY      decimal.Decimal `json:"domestic_cost_cny"`
	InternationalCostCNY decimal.Decimal `json:"international_cost_cny"`
	PackCostCNY          decimal.Decimal `json:"pack_cost_cny"`
	EUFeeCNY             decimal.Decimal `json:"eu_fee_cny"`
	InsuranceCostCNY     decimal.Decimal `json:"insurance_cost_cny"`
	TaxCostCNY           decimal.Decimal `json:"tax_cost_cny"`

	PhysicalCostCNY decimal.Decimal `json:"physical_cost_cny"`
	AdSpendCNY      decimal.Decimal `json:"ad_spend_cny"`
	FixedCostCNY    decimal.Decimal `json:"fixed_cost_cny"`
	TotalCostCNY    decimal.Decimal `json:"total_cost_cny"`

	ProfitBeforeCommissionCNY decimal.Decimal `json:"profit_before_commission_cny"`
	CommissionCNY             decimal.Decimal `json:"commission_cny"`
	FinalProfitCNY            decimal.Decimal `json:"final_profit_cny"`

	AdCostPct      decimal.Decimal `json:"ad_cost_pct"`
	TotalCostPct   decimal.Decimal `json:"total_cost_pct"`
	FinalProfitPct decimal.Decimal `json:"final_profit_pct"`

	Stats OrderStats `json:"stats"`
}

// ComputePeriodFinancials folds the order book into the period statement.
// params supplies the current monthly fixed cost, commission rate and the
// exchange rate used to express recognized USD revenue in CNY; everything
// order-specific comes from the order's snapshot.
func ComputePeriodFinancials(orders []*order.Order, params pricing.CostParameters, spend ManualSpend) PeriodFinancials {
	f := PeriodFinancials{
		RevenueUSD: decimal.Zero, RevenueCNY: decimal.Zero, CashInflowUSD: decimal.Zero,
		CanvasCostCNY: decimal.Zero, DomesticCostCNY: decimal.Zero,
		InternationalCostCNY: decimal.Zero, PackCostCNY: decimal.Zero,
		EUFeeCNY: decimal.Zero, InsuranceCostCNY: decimal.Zero, TaxCostCNY: decimal.Zero,
		AdSpendCNY: spend.AdSpendCNY,
	}

	recognizedUSD := decimal.Zero

	for _, o := range orders {
		f.CashInflowUSD = f.CashInflowUSD.Add(o.TotalReceivedUSD)

		if !o.RevenueRecognized() {
			continue
		}
		recognizedUSD = recognizedUSD.Add(o.TotalUSD)

		snap := o.Snapshot
		costs := snap.UnitCosts()
		qty := decimal.NewFromInt(o.Quantity)

		f.CanvasCostCNY = f.CanvasCostCNY.Add(costs.CanvasCostCNY.Mul(qty))
		f.DomesticCostCNY = f.DomesticCostCNY.Add(costs.DomesticCostCNY.Mul(qty))
		f.InternationalCostCNY = f.InternationalCostCNY.Add(costs.InternationalCostCNY.Mul(qty))
		f.PackCostCNY = f.PackCostCNY.Add(costs.PackCostCNY.Mul(qty))
		f.EUFeeCNY = f.EUFeeCNY.Add(costs.EUParcelFeeCNY.Mul(qty))

		// insured value is the whole order total at the snapshot rate
		if snap.Params.IncludesInsurance() {
			base := o.TotalUSD.Mul(snap.Params.ExchangeRate)
			f.InsuranceCostCNY = f.InsuranceCostCNY.Add(
				base.Mul(snap.Params.InsuranceMarkup).Mul(snap.Params.InsuranceRate))
		}

		if snap.Params.IncludesTax() {
			declared := costs.PhysicalCostCNY.Mul(snap.Params.DeclareRate)
			f.TaxCostCNY = f.TaxCostCNY.Add(declared.Mul(snap.Country.TaxRate()).Mul(qty))
		}
	}

	// platform deductions come off recognized revenue, floored at zero
	f.RevenueUSD = recognizedUSD.Sub(spend.DeductionsUSD)
	if f.RevenueUSD.IsNegative() {
		f.RevenueUSD = decimal.Zero
	}
	f.RevenueCNY = f.RevenueUSD.Mul(params.ExchangeRate)

	f.PhysicalCostCNY = f.CanvasCostCNY.
		Add(f.DomesticCostCNY).
		Add(f.InternationalCostCNY).
		Add(f.PackCostCNY).
		Add(f.EUFeeCNY)
	f.FixedCostCNY = params.MonthlyFixedCostCNY()
	f.TotalCostCNY = f.PhysicalCostCNY.
		Add(f.AdSpendCNY).
		Add(f.FixedCostCNY).
		Add(f.TaxCostCNY).
		Add(f.InsuranceCostCNY)

	f.ProfitBeforeCommissionCNY = f.RevenueCNY.Sub(f.TotalCostCNY)

	// commission is owed on sales, not on net profit
	f.CommissionCNY = f.RevenueCNY.Mul(params.CommissionRate)
	if f.CommissionCNY.IsNegative() {
		f.CommissionCNY = decimal.Zero
	}
	f.FinalProfitCNY = f.ProfitBeforeCommissionCNY.Sub(f.CommissionCNY)

	f.AdCostPct = numeric.Percentage(f.AdSpendCNY, f.RevenueCNY)
	f.TotalCostPct = numeric.Percentage(f.TotalCostCNY, f.RevenueCNY)
	f.FinalProfitPct = numeric.Percentage(f.FinalProfitCNY, f.RevenueCNY)

	f.Stats = ComputeOrderStats(orders)

	return f
}
