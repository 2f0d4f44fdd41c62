package pricing

import (
	"github.com/dafenarts/backend/internal/domain/shared"
	"github.com/dafenarts/backend/internal/domain/shared/numeric"
	"github.com/shopspring/decimal"
)

// TradeTerm is the Incoterm the quote is prepared under. Exactly one term
// applies to a quote; they change which cost lines activate:
//
//	FOB - buyer pays international freight; no freight, tax or insurance
//	CIP - seller pays freight and insurance
//	DDP - seller pays freight, insurance and destination taxes
type TradeTerm string

const (
	TermFOB TradeTerm = "FOB"
	TermCIP TradeTerm = "CIP"
	TermDDP TradeTerm = "DDP"
)

// IsValid checks whether the trade term is a known quoting mode
func (t TradeTerm) IsValid() bool {
	return t == TermFOB || t == TermCIP || t == TermDDP || t == TermDefault
}

func (t TradeTerm) String() string {
	return string(t)
}

// TermDefault is the no-flag quoting mode: freight included, no insurance,
// no destination tax.
const TermDefault TradeTerm = "DEFAULT"

// TermFromFlags converts the legacy three-boolean encoding into a
// TradeTerm. At most one flag may be set; none set yields TermDefault.
func TermFromFlags(isFOB, isCIP, isDDP bool) (TradeTerm, error) {
	set := 0
	for _, b := range []bool{isFOB, isCIP, isDDP} {
		if b {
			set++
		}
	}
	if set > 1 {
		return "", shared.NewDomainError("CONFLICTING_TERMS", "at most one trade term flag may be set")
	}
	switch {
	case isFOB:
		return TermFOB, nil
	case isCIP:
		return TermCIP, nil
	case isDDP:
		return TermDDP, nil
	default:
		return TermDefault, nil
	}
}

// CostParameters is the full, normalized parameter set the pricing
// formulas consume. All rates are fractions (0.05, not 5); all amounts are
// CNY unless the name says otherwise. Build one with NewCostParameters so
// defaults and percent conversion are applied uniformly.
type CostParameters struct {
	ExchangeRate     decimal.Decimal // CNY per USD
	CanvasCostCNY    decimal.Decimal // per-unit purchase price
	CanvasWeightKG   decimal.Decimal
	FreightRateCNY   decimal.Decimal // per kg, international
	DomesticShipCNY  decimal.Decimal
	PackCostCNY      decimal.Decimal
	PaymentFeeRate   decimal.Decimal // fraction
	ExchangeLossRate decimal.Decimal // fraction
	CommissionRate   decimal.Decimal // fraction
	DeclareRate      decimal.Decimal // fraction of value declared at customs
	InsuranceRate    decimal.Decimal // fraction
	InsuranceMarkup  decimal.Decimal // fraction, e.g. 1.10
	SalaryCNY        decimal.Decimal // monthly total
	RentCNY          decimal.Decimal // monthly fixed fees
	Term             TradeTerm
}

// IncludesFreight reports whether international freight is a seller cost
func (p CostParameters) IncludesFreight() bool {
	return p.Term != TermFOB
}

// IncludesInsurance reports whether the insurance line activates
func (p CostParameters) IncludesInsurance() bool {
	return p.Term == TermCIP || p.Term == TermDDP
}

// IncludesTax reports whether destination VAT and duty are seller costs
func (p CostParameters) IncludesTax() bool {
	return p.Term == TermDDP
}

// TotalFeeRate is the combined payment fee and settlement loss fraction
func (p CostParameters) TotalFeeRate() decimal.Decimal {
	return p.PaymentFeeRate.Add(p.ExchangeLossRate)
}

// MonthlyFixedCostCNY is salary plus rent, the monthly hard spend
func (p CostParameters) MonthlyFixedCostCNY() decimal.Decimal {
	return p.SalaryCNY.Add(p.RentCNY)
}

// RawInput is the untyped parameter form accepted at the API edge. Every
// field is optional; nil means "use the configured default". Percent-style
// fields (FeeRate etc.) are given as percents and normalized to fractions
// by NewCostParameters.
type RawInput struct {
	ExchangeRate     *float64 `json:"exchange_rate"`
	CanvasCost       *float64 `json:"canvas_cost"`
	CanvasWeight     *float64 `json:"canvas_weight"`
	FreightRate      *float64 `json:"freight_rate"`
	DomesticShipping *float64 `json:"domestic_shipping"`
	PackCost         *float64 `json:"pack_cost"`
	FeeRate          *float64 `json:"fee_rate"`          // percent
	LossRate         *float64 `json:"loss_rate"`         // percent
	CommissionRate   *float64 `json:"commission_rate"`   // percent
	DeclareRate      *float64 `json:"declare_rate"`      // percent
	InsuranceRate    *float64 `json:"insurance_rate"`    // percent
	InsuranceMarkup  *float64 `json:"insurance_markup"`  // percent
	Salary           *float64 `json:"salary"`
	Rent             *float64 `json:"rent"`
	IsFOB            bool     `json:"is_fob"`
	IsCIP            bool     `json:"is_cip"`
	IsDDP            bool     `json:"is_ddp"`
}

// Defaults holds the fallback values for every optional input. The
// shipped values match a 24x36" rolled canvas quoted out of Shenzhen.
type Defaults struct {
	ExchangeRate     decimal.Decimal
	CanvasCost       decimal.Decimal
	CanvasWeight     decimal.Decimal
	FreightRate      decimal.Decimal
	DomesticShipping decimal.Decimal
	PackCost         decimal.Decimal
	FeeRatePct       decimal.Decimal
	LossRatePct      decimal.Decimal
	CommissionPct    decimal.Decimal
	DeclareRatePct   decimal.Decimal
	InsuranceRatePct decimal.Decimal
	InsuranceMarkPct decimal.Decimal
	Salary           decimal.Decimal
	Rent             decimal.Decimal
	TargetProfitCNY  decimal.Decimal
	QuoteQty         int64
	ExpectedMargin   decimal.Decimal // percent
	DepositPercent   decimal.Decimal // percent
	FixedCostDivisor int64
}

// StandardDefaults returns the stock default set
func StandardDefaults() Defaults {
	return Defaults{
		ExchangeRate:     decimal.NewFromInt(7),
		CanvasCost:       decimal.NewFromInt(119),
		CanvasWeight:     decimal.NewFromInt(4),
		FreightRate:      decimal.NewFromInt(52),
		DomesticShipping: decimal.NewFromInt(15),
		PackCost:         decimal.NewFromInt(10),
		FeeRatePct:       decimal.NewFromInt(5),
		LossRatePct:      decimal.NewFromFloat(0.9),
		CommissionPct:    decimal.NewFromInt(2),
		DeclareRatePct:   decimal.NewFromInt(70),
		InsuranceRatePct: decimal.NewFromFloat(0.5),
		InsuranceMarkPct: decimal.NewFromInt(110),
		Salary:           decimal.Zero,
		Rent:             decimal.Zero,
		TargetProfitCNY:  decimal.NewFromInt(1000000),
		QuoteQty:         10,
		ExpectedMargin:   decimal.NewFromInt(65),
		DepositPercent:   decimal.NewFromInt(30),
		FixedCostDivisor: 2000,
	}
}

// NewCostParameters normalizes raw input into CostParameters: nil fields
// take defaults, percent fields become fractions, and the trade term flags
// collapse into a single validated term.
func NewCostParameters(in RawInput, def Defaults) (CostParameters, error) {
	term, err := TermFromFlags(in.IsFOB, in.IsCIP, in.IsDDP)
	if err != nil {
		return CostParameters{}, err
	}
	return CostParameters{
		ExchangeRate:     numeric.OrDefault(in.ExchangeRate, def.ExchangeRate),
		CanvasCostCNY:    numeric.OrDefault(in.CanvasCost, def.CanvasCost),
		CanvasWeightKG:   numeric.OrDefault(in.CanvasWeight, def.CanvasWeight),
		FreightRateCNY:   numeric.OrDefault(in.FreightRate, def.FreightRate),
		DomesticShipCNY:  numeric.OrDefault(in.DomesticShipping, def.DomesticShipping),
		PackCostCNY:      numeric.OrDefault(in.PackCost, def.PackCost),
		PaymentFeeRate:   numeric.FromPercent(numeric.OrDefault(in.FeeRate, def.FeeRatePct)),
		ExchangeLossRate: numeric.FromPercent(numeric.OrDefault(in.LossRate, def.LossRatePct)),
		CommissionRate:   numeric.FromPercent(numeric.OrDefault(in.CommissionRate, def.CommissionPct)),
		DeclareRate:      numeric.FromPercent(numeric.OrDefault(in.DeclareRate, def.DeclareRatePct)),
		InsuranceRate:    numeric.FromPercent(numeric.OrDefault(in.InsuranceRate, def.InsuranceRatePct)),
		InsuranceMarkup:  numeric.FromPercent(numeric.OrDefault(in.InsuranceMarkup, def.InsuranceMarkPct)),
		SalaryCNY:        numeric.OrDefault(in.Salary, def.Salary),
		RentCNY:          numeric.OrDefault(in.Rent, def.Rent),
		Term:             term,
	}, nil
}
