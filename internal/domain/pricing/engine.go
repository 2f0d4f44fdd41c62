// Package pricing implements the cost-plus quoting model: unit cost
// breakdown, margin-driven suggested prices, manual-quote profit analysis,
// acquisition-cost KPIs and deposit risk, per destination country.
package pricing

import (
	"sort"

	"github.com/dafenarts/backend/internal/domain/shared/numeric"
	"github.com/shopspring/decimal"
)

// EUParcelFeeCNY is the flat per-parcel handling surcharge levied on
// shipments into EU member states (about 3 EUR).
var EUParcelFeeCNY = decimal.NewFromInt(24)

// minDenominator floors the price denominator so an aggressive margin plus
// fees can never flip the price negative or divide by zero.
var minDenominator = decimal.NewFromFloat(0.01)

// UnitCostBreakdown itemizes the cost of producing and delivering one unit
type UnitCostBreakdown struct {
	CanvasCostCNY        decimal.Decimal `json:"canvas_cost_cny"`
	DomesticCostCNY      decimal.Decimal `json:"domestic_cost_cny"`
	InternationalCostCNY decimal.Decimal `json:"international_cost_cny"`
	PackCostCNY          decimal.Decimal `json:"pack_cost_cny"`
	EUParcelFeeCNY       decimal.Decimal `json:"eu_parcel_fee_cny"`
	PhysicalCostCNY      decimal.Decimal `json:"physical_cost_cny"`
	FixedCostPerUnitCNY  decimal.Decimal `json:"fixed_cost_per_unit_cny"`
	TotalUnitCostCNY     decimal.Decimal `json:"total_unit_cost_cny"`
}

// Engine evaluates the pricing formulas against a country catalog
type Engine struct {
	catalog  *Catalog
	defaults Defaults
}

// NewEngine creates a pricing engine
func NewEngine(catalog *Catalog, defaults Defaults) *Engine {
	return &Engine{catalog: catalog, defaults: defaults}
}

// Defaults exposes the engine's default parameter set
func (e *Engine) Defaults() Defaults {
	return e.defaults
}

// Catalog exposes the country catalog
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// UnitCosts computes the per-unit cost breakdown. targetQty spreads the
// monthly fixed cost; zero or negative falls back to the configured
// allocation divisor.
func (e *Engine) UnitCosts(params CostParameters, country CountryProfile, targetQty int64) UnitCostBreakdown {
	return ComputeUnitCosts(params, country, targetQty, e.defaults.FixedCostDivisor)
}

// ComputeUnitCosts is the engine-free form of UnitCosts, used where only a
// frozen parameter snapshot is available. The effective fixed-cost divisor
// never drops below one.
func ComputeUnitCosts(params CostParameters, country CountryProfile, targetQty, fallbackDivisor int64) UnitCostBreakdown {
	international := decimal.Zero
	if params.IncludesFreight() {
		international = params.CanvasWeightKG.Mul(params.FreightRateCNY)
	}

	euFee := decimal.Zero
	if country.IsEU {
		euFee = EUParcelFeeCNY
	}

	physical := params.CanvasCostCNY.
		Add(params.DomesticShipCNY).
		Add(international).
		Add(params.PackCostCNY).
		Add(euFee)

	divisor := fallbackDivisor
	if targetQty > 0 {
		divisor = targetQty
	}
	if divisor < 1 {
		divisor = 1
	}
	fixedPerUnit := params.MonthlyFixedCostCNY().Div(decimal.NewFromInt(divisor))

	return UnitCostBreakdown{
		CanvasCostCNY:        params.CanvasCostCNY,
		DomesticCostCNY:      params.DomesticShipCNY,
		InternationalCostCNY: international,
		PackCostCNY:          params.PackCostCNY,
		EUParcelFeeCNY:       euFee,
		PhysicalCostCNY:      physical,
		FixedCostPerUnitCNY:  fixedPerUnit,
		TotalUnitCostCNY:     physical.Add(fixedPerUnit),
	}
}

// unitTaxCNY is the DDP destination tax on one unit: declared value times
// combined VAT and duty. Zero under any other term.
func unitTaxCNY(costs UnitCostBreakdown, params CostParameters, country CountryProfile) decimal.Decimal {
	if !params.IncludesTax() {
		return decimal.Zero
	}
	return costs.PhysicalCostCNY.Mul(country.TaxRate()).Mul(params.DeclareRate)
}

// SuggestedPriceResult is a margin-driven quote
type SuggestedPriceResult struct {
	PriceCNY       decimal.Decimal `json:"price_cny"`
	PriceUSD       decimal.Decimal `json:"price_usd"`
	TaxCostCNY     decimal.Decimal `json:"tax_cost_cny"`
	InsuranceCNY   decimal.Decimal `json:"insurance_cny"`
	Denominator    decimal.Decimal `json:"denominator"`
	FloorEngaged   bool            `json:"floor_engaged"`
	MarginPercent  decimal.Decimal `json:"margin_percent"`
}

// SuggestedPrice computes the price that yields marginPct profit on the
// sale after fees. Insurance here is estimated off the physical cost (the
// price is not known yet); ManualProfit insures the actual price instead,
// so the two do not perfectly invert when insurance is active.
func (e *Engine) SuggestedPrice(costs UnitCostBreakdown, params CostParameters, marginPct decimal.Decimal, country CountryProfile) SuggestedPriceResult {
	tax := unitTaxCNY(costs, params, country)

	insurance := decimal.Zero
	if params.IncludesInsurance() {
		insurance = costs.PhysicalCostCNY.Mul(params.InsuranceMarkup).Mul(params.InsuranceRate)
	}

	denominator := decimal.NewFromInt(1).
		Sub(params.TotalFeeRate()).
		Sub(numeric.FromPercent(marginPct))
	floored := numeric.Floor(denominator, minDenominator)

	costBase := costs.PhysicalCostCNY.Add(tax).Add(insurance)
	priceCNY := costBase.Div(floored)

	return SuggestedPriceResult{
		PriceCNY:      priceCNY,
		PriceUSD:      priceCNY.Div(params.ExchangeRate),
		TaxCostCNY:    tax,
		InsuranceCNY:  insurance,
		Denominator:   floored,
		FloorEngaged:  denominator.LessThan(minDenominator),
		MarginPercent: marginPct,
	}
}

// ProfitResult is the per-unit profit analysis of a concrete USD price
type ProfitResult struct {
	PriceUSD        decimal.Decimal `json:"price_usd"`
	PriceCNY        decimal.Decimal `json:"price_cny"`
	NetProfitCNY    decimal.Decimal `json:"net_profit_cny"`
	NetProfitUSD    decimal.Decimal `json:"net_profit_usd"`
	MarginPercent   decimal.Decimal `json:"margin_percent"`
	TaxCostCNY      decimal.Decimal `json:"tax_cost_cny"`
	InsuranceCNY    decimal.Decimal `json:"insurance_cny"`
	FeeCostCNY      decimal.Decimal `json:"fee_cost_cny"`
	PhysicalCostCNY decimal.Decimal `json:"physical_cost_cny"`
	FixedCostCNY    decimal.Decimal `json:"fixed_cost_cny"`
}

// ManualProfit analyzes the profit of quoting priceUSD to the given
// destination. Unlike SuggestedPrice, insurance is charged on the actual
// sale price, and the fixed-cost allocation is deducted from net profit.
func (e *Engine) ManualProfit(priceUSD decimal.Decimal, params CostParameters, costs UnitCostBreakdown, country CountryProfile) ProfitResult {
	return ComputeManualProfit(priceUSD, params, costs, country)
}

// ComputeManualProfit is the engine-free form of ManualProfit
func ComputeManualProfit(priceUSD decimal.Decimal, params CostParameters, costs UnitCostBreakdown, country CountryProfile) ProfitResult {
	priceCNY := priceUSD.Mul(params.ExchangeRate)

	tax := unitTaxCNY(costs, params, country)

	insurance := decimal.Zero
	if params.IncludesInsurance() {
		insurance = priceCNY.Mul(params.InsuranceMarkup).Mul(params.InsuranceRate)
	}

	fees := priceCNY.Mul(params.TotalFeeRate())

	net := priceCNY.
		Sub(costs.PhysicalCostCNY).
		Sub(costs.FixedCostPerUnitCNY).
		Sub(tax).
		Sub(insurance).
		Sub(fees)

	margin := decimal.Zero
	if priceCNY.IsPositive() {
		margin = net.Div(priceCNY).Mul(decimal.NewFromInt(100))
	}

	return ProfitResult{
		PriceUSD:        priceUSD,
		PriceCNY:        priceCNY,
		NetProfitCNY:    net,
		NetProfitUSD:    net.Div(params.ExchangeRate),
		MarginPercent:   margin,
		TaxCostCNY:      tax,
		InsuranceCNY:    insurance,
		FeeCostCNY:      fees,
		PhysicalCostCNY: costs.PhysicalCostCNY,
		FixedCostCNY:    costs.FixedCostPerUnitCNY,
	}
}

// CountryProfit is one row of the global profit index
type CountryProfit struct {
	Code          CountryCode     `json:"code"`
	Name          string          `json:"name"`
	VATPercent    decimal.Decimal `json:"vat_percent"`
	ProfitCNY     decimal.Decimal `json:"profit_cny"`
	ProfitUSD     decimal.Decimal `json:"profit_usd"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
	TaxCostCNY    decimal.Decimal `json:"tax_cost_cny"`
}

// GlobalProfitIndex evaluates ManualProfit for every configured country
// at the same USD price and returns the rows sorted by CNY profit, best
// destination first.
func (e *Engine) GlobalProfitIndex(priceUSD decimal.Decimal, params CostParameters) []CountryProfit {
	countries := e.catalog.All()
	rows := make([]CountryProfit, 0, len(countries))
	for _, country := range countries {
		costs := e.UnitCosts(params, country, 0)
		profit := e.ManualProfit(priceUSD, params, costs, country)
		rows = append(rows, CountryProfit{
			Code:          country.Code,
			Name:          country.Name,
			VATPercent:    country.VATRate.Mul(decimal.NewFromInt(100)),
			ProfitCNY:     profit.NetProfitCNY,
			ProfitUSD:     profit.NetProfitUSD,
			MarginPercent: profit.MarginPercent,
			TaxCostCNY:    profit.TaxCostCNY,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ProfitCNY.GreaterThan(rows[j].ProfitCNY)
	})
	return rows
}
