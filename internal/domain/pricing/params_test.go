package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermFromFlags(t *testing.T) {
	tests := []struct {
		name             string
		fob, cip, ddp    bool
		want             TradeTerm
		wantErr          bool
	}{
		{name: "none set is default", want: TermDefault},
		{name: "fob", fob: true, want: TermFOB},
		{name: "cip", cip: true, want: TermCIP},
		{name: "ddp", ddp: true, want: TermDDP},
		{name: "fob and ddp conflict", fob: true, ddp: true, wantErr: true},
		{name: "all set conflict", fob: true, cip: true, ddp: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TermFromFlags(tt.fob, tt.cip, tt.ddp)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTradeTerm_CostLines(t *testing.T) {
	tests := []struct {
		term                      TradeTerm
		freight, insurance, tax   bool
	}{
		{TermDefault, true, false, false},
		{TermFOB, false, false, false},
		{TermCIP, true, true, false},
		{TermDDP, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.term.String(), func(t *testing.T) {
			p := CostParameters{Term: tt.term}
			assert.Equal(t, tt.freight, p.IncludesFreight())
			assert.Equal(t, tt.insurance, p.IncludesInsurance())
			assert.Equal(t, tt.tax, p.IncludesTax())
		})
	}
}

func TestNewCostParameters_Defaults(t *testing.T) {
	p, err := NewCostParameters(RawInput{}, StandardDefaults())
	require.NoError(t, err)

	assert.InDelta(t, 7, f(p.ExchangeRate), 1e-9)
	assert.InDelta(t, 119, f(p.CanvasCostCNY), 1e-9)
	assert.InDelta(t, 0.05, f(p.PaymentFeeRate), 1e-9)
	assert.InDelta(t, 0.009, f(p.ExchangeLossRate), 1e-9)
	assert.InDelta(t, 0.059, f(p.TotalFeeRate()), 1e-9)
	assert.InDelta(t, 0.70, f(p.DeclareRate), 1e-9)
	assert.InDelta(t, 1.10, f(p.InsuranceMarkup), 1e-9)
	assert.Equal(t, TermDefault, p.Term)
}

func TestNewCostParameters_Overrides(t *testing.T) {
	rate := 7.25
	fee := 3.5
	p, err := NewCostParameters(RawInput{
		ExchangeRate: &rate,
		FeeRate:      &fee,
		IsDDP:        true,
	}, StandardDefaults())
	require.NoError(t, err)

	assert.InDelta(t, 7.25, f(p.ExchangeRate), 1e-9)
	assert.InDelta(t, 0.035, f(p.PaymentFeeRate), 1e-9)
	assert.Equal(t, TermDDP, p.Term)
}

func TestNewCostParameters_ConflictingFlags(t *testing.T) {
	_, err := NewCostParameters(RawInput{IsFOB: true, IsCIP: true}, StandardDefaults())
	assert.Error(t, err)
}

func TestPresets(t *testing.T) {
	p, ok := PresetByKey("24x36_rolled")
	require.True(t, ok)
	assert.InDelta(t, 119, f(p.CostCNY), 1e-9)
	assert.InDelta(t, 1.0, f(p.WeightKG), 1e-9)
	assert.False(t, p.IsFramed)

	_, ok = PresetByKey("custom")
	assert.False(t, ok)

	all := AllPresets()
	require.Len(t, all, 10)
	// rolled presets sort ahead of framed
	assert.False(t, all[0].IsFramed)
	assert.True(t, all[len(all)-1].IsFramed)
}
