package pricing

import (
	"sort"

	"github.com/dafenarts/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CountryCode is an ISO 3166-1 alpha-3 destination code
type CountryCode string

const (
	USA CountryCode = "USA"
	CAN CountryCode = "CAN"
	GBR CountryCode = "GBR"
	DEU CountryCode = "DEU"
	FRA CountryCode = "FRA"
	ITA CountryCode = "ITA"
	ESP CountryCode = "ESP"
	NLD CountryCode = "NLD"
	BEL CountryCode = "BEL"
	CHE CountryCode = "CHE"
	SWE CountryCode = "SWE"
	FIN CountryCode = "FIN"
	NOR CountryCode = "NOR"
	RUS CountryCode = "RUS"
	AUS CountryCode = "AUS"
	NZL CountryCode = "NZL"
	JPN CountryCode = "JPN"
	KOR CountryCode = "KOR"
	SGP CountryCode = "SGP"
	HKG CountryCode = "HKG"
	ARE CountryCode = "ARE"
	SAU CountryCode = "SAU"
	QAT CountryCode = "QAT"
	COL CountryCode = "COL"
	BRA CountryCode = "BRA"
	CHL CountryCode = "CHL"
)

// CountryProfile holds the destination-specific tax and handling figures
// used by the pricing formulas. VAT and duty are fractions, not percents.
// Profiles are immutable values; the catalog hands out copies.
type CountryProfile struct {
	Code     CountryCode     `json:"code"`
	Name     string          `json:"name"`
	VATRate  decimal.Decimal `json:"vat_rate"`
	DutyRate decimal.Decimal `json:"duty_rate"`
	IsEU     bool            `json:"is_eu"`
	Timezone string          `json:"timezone"`
}

// TaxRate returns VAT + duty as a single fraction
func (c CountryProfile) TaxRate() decimal.Decimal {
	return c.VATRate.Add(c.DutyRate)
}

func pct(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// builtinProfiles is the shipping destination table. VAT figures are the
// preferential rates for imported artwork where the destination grants one
// (e.g. DEU 7%, FRA 5.5%), not the standard rate.
func builtinProfiles() []CountryProfile {
	return []CountryProfile{
		{Code: USA, Name: "United States", VATRate: pct(0), DutyRate: pct(0), IsEU: false, Timezone: "America/New_York"},
		{Code: CAN, Name: "Canada", VATRate: pct(0.05), DutyRate: pct(0), IsEU: false, Timezone: "America/Toronto"},
		{Code: GBR, Name: "United Kingdom", VATRate: pct(0.05), DutyRate: pct(0), IsEU: false, Timezone: "Europe/London"},
		{Code: DEU, Name: "Germany", VATRate: pct(0.07), DutyRate: pct(0), IsEU: true, Timezone: "Europe/Berlin"},
		{Code: FRA, Name: "France", VATRate: pct(0.055), DutyRate: pct(0), IsEU: true, Timezone: "Europe/Paris"},
		{Code: ITA, Name: "Italy", VATRate: pct(0.10), DutyRate: pct(0), IsEU: true, Timezone: "Europe/Rome"},
		{Code: ESP, Name: "Spain", VATRate: pct(0.10), DutyRate: pct(0), IsEU: true, Timezone: "Europe/Madrid"},
		{Code: NLD, Name: "Netherlands", VATRate: pct(0.09), DutyRate: pct(0), IsEU: true, Timezone: "Europe/Amsterdam"},
		{Code: BEL, Name: "Belgium", VATRate: pct(0.06), DutyRate: pct(0), IsEU: true, Timezone: "Europe/Brussels"},
		{Code: CHE, Name: "Switzerland", VATRate: pct(0.08), DutyRate: pct(0), IsEU: false, Timezone: "Europe/Zurich"},
		{Code: SWE, Name: "Sweden", VATRate: pct(0.12), DutyRate: pct(0), IsEU: true, Timezone: "Europe/Stockholm"},
		{Code: FIN, Name: "Finland", VATRate: pct(0.10), DutyRate: pct(0), IsEU: true, Timezone: "Europe/Helsinki"},
		{Code: NOR, Name: "Norway", VATRate: pct(0.25), DutyRate: pct(0), IsEU: false, Timezone: "Europe/Oslo"},
		{Code: RUS, Name: "Russia", VATRate: pct(0.20), DutyRate: pct(0), IsEU: false, Timezone: "Europe/Moscow"},
		{Code: AUS, Name: "Australia", VATRate: pct(0.10), DutyRate: pct(0.05), IsEU: false, Timezone: "Australia/Sydney"},
		{Code: NZL, Name: "New Zealand", VATRate: pct(0.15), DutyRate: pct(0.05), IsEU: false, Timezone: "Pacific/Auckland"},
		{Code: JPN, Name: "Japan", VATRate: pct(0.10), DutyRate: pct(0), IsEU: false, Timezone: "Asia/Tokyo"},
		{Code: KOR, Name: "South Korea", VATRate: pct(0.10), DutyRate: pct(0), IsEU: false, Timezone: "Asia/Seoul"},
		{Code: SGP, Name: "Singapore", VATRate: pct(0.09), DutyRate: pct(0), IsEU: false, Timezone: "Asia/Singapore"},
		{Code: HKG, Name: "Hong Kong", VATRate: pct(0), DutyRate: pct(0), IsEU: false, Timezone: "Asia/Hong_Kong"},
		{Code: ARE, Name: "United Arab Emirates", VATRate: pct(0.05), DutyRate: pct(0.05), IsEU: false, Timezone: "Asia/Dubai"},
		{Code: SAU, Name: "Saudi Arabia", VATRate: pct(0.15), DutyRate: pct(0.05), IsEU: false, Timezone: "Asia/Riyadh"},
		{Code: QAT, Name: "Qatar", VATRate: pct(0), DutyRate: pct(0.05), IsEU: false, Timezone: "Asia/Qatar"},
		{Code: COL, Name: "Colombia", VATRate: pct(0.19), DutyRate: pct(0.10), IsEU: false, Timezone: "America/Bogota"},
		{Code: BRA, Name: "Brazil", VATRate: pct(0.17), DutyRate: pct(0.60), IsEU: false, Timezone: "America/Sao_Paulo"},
		{Code: CHL, Name: "Chile", VATRate: pct(0.19), DutyRate: pct(0.06), IsEU: false, Timezone: "America/Santiago"},
	}
}

// Catalog is the validated country lookup. Unknown codes are rejected
// rather than silently defaulted, and profiles are only replaced through
// Update - never mutated in place.
type Catalog struct {
	profiles map[CountryCode]CountryProfile
}

// NewCatalog builds a catalog preloaded with the builtin destinations
func NewCatalog() *Catalog {
	c := &Catalog{profiles: make(map[CountryCode]CountryProfile)}
	for _, p := range builtinProfiles() {
		c.profiles[p.Code] = p
	}
	return c
}

// Lookup returns the profile for the given code
func (c *Catalog) Lookup(code CountryCode) (CountryProfile, error) {
	p, ok := c.profiles[code]
	if !ok {
		return CountryProfile{}, shared.ErrUnknownCountry
	}
	return p, nil
}

// Has reports whether a code is configured
func (c *Catalog) Has(code CountryCode) bool {
	_, ok := c.profiles[code]
	return ok
}

// All returns every configured profile, sorted by code
func (c *Catalog) All() []CountryProfile {
	out := make([]CountryProfile, 0, len(c.profiles))
	for _, p := range c.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Update replaces (or adds) a profile wholesale. Records already handed
// out by Lookup are value copies and are unaffected.
func (c *Catalog) Update(p CountryProfile) error {
	if p.Code == "" || p.Name == "" {
		return shared.NewDomainError("INVALID_COUNTRY", "country code and name are required")
	}
	if p.VATRate.IsNegative() || p.DutyRate.IsNegative() {
		return shared.NewDomainError("INVALID_COUNTRY", "tax rates cannot be negative")
	}
	c.profiles[p.Code] = p
	return nil
}

// Len returns the number of configured destinations
func (c *Catalog) Len() int {
	return len(c.profiles)
}
