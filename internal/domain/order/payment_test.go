package order

import (
	"errors"
	"testing"

	"github.com/dafenarts/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaymentRecord(t *testing.T) {
	rate := decimal.NewFromFloat(7.2)

	r, err := NewPaymentRecord(decimal.NewFromInt(500), rate, PaymentTypeDeposit, "wire")
	require.NoError(t, err)
	assert.Equal(t, "500", r.AmountUSD.String())
	assert.Equal(t, "3600", r.AmountCNY.String())
	assert.False(t, r.IsRefund())

	// rejections carry a domain error code so they surface as client errors
	tests := []struct {
		name string
		run  func() error
	}{
		{"zero amount", func() error {
			_, err := NewPaymentRecord(decimal.Zero, rate, PaymentTypeDeposit, "")
			return err
		}},
		{"non-positive rate", func() error {
			_, err := NewPaymentRecord(decimal.NewFromInt(1), decimal.Zero, PaymentTypeDeposit, "")
			return err
		}},
		{"unknown type", func() error {
			_, err := NewPaymentRecord(decimal.NewFromInt(1), rate, PaymentType("tip"), "")
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, "INVALID_PAYMENT", domainErr.Code)
		})
	}
}

func TestPaymentRecords_Totals(t *testing.T) {
	rate := decimal.NewFromInt(7)
	deposit, err := NewPaymentRecord(decimal.NewFromInt(375), rate, PaymentTypeDeposit, "")
	require.NoError(t, err)
	balance, err := NewPaymentRecord(decimal.NewFromInt(875), rate, PaymentTypeBalance, "")
	require.NoError(t, err)
	refund, err := NewPaymentRecord(decimal.NewFromInt(-100), rate, PaymentTypeRefund, "")
	require.NoError(t, err)

	ledger := PaymentRecords{deposit, balance, refund}

	assert.Equal(t, "1150", ledger.TotalUSD().String())
	assert.Equal(t, "8050", ledger.TotalCNY().String())
	assert.Len(t, ledger.ByType(PaymentTypeRefund), 1)
	assert.Len(t, ledger.ByType(PaymentTypeOther), 0)
}

func TestPaymentRecords_ScanRoundTrip(t *testing.T) {
	rate := decimal.NewFromInt(7)
	r, err := NewPaymentRecord(decimal.NewFromFloat(123.45), rate, PaymentTypeBalance, "second installment")
	require.NoError(t, err)
	ledger := PaymentRecords{r}

	raw, err := ledger.Value()
	require.NoError(t, err)

	var decoded PaymentRecords
	require.NoError(t, decoded.Scan(raw))
	require.Len(t, decoded, 1)
	assert.Equal(t, r.ID, decoded[0].ID)
	assert.Equal(t, "123.45", decoded[0].AmountUSD.String())
	assert.Equal(t, PaymentTypeBalance, decoded[0].Type)

	var empty PaymentRecords
	require.NoError(t, empty.Scan(nil))
	assert.Empty(t, empty)

	assert.Error(t, decoded.Scan(42))
}
