package order

import (
	"testing"

	"github.com/dafenarts/backend/internal/domain/pricing"
	"github.com/dafenarts/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(t *testing.T) ConfigSnapshot {
	t.Helper()
	defs := pricing.StandardDefaults()
	params, err := pricing.NewCostParameters(pricing.RawInput{}, defs)
	require.NoError(t, err)
	country, err := pricing.NewCatalog().Lookup(pricing.USA)
	require.NoError(t, err)
	return NewConfigSnapshot(params, country, defs.DepositPercent, defs.FixedCostDivisor)
}

func newTestOrder(t *testing.T, deposit float64) *Order {
	t.Helper()
	o, err := NewOrder(CreateInput{
		OrderNumber:       "DA-1001",
		ClientName:        "Harbor Gallery",
		ClientEmail:       "buyer@harborgallery.example",
		Quantity:          10,
		PriceUSD:          decimal.NewFromInt(125),
		InitialDepositUSD: decimal.NewFromFloat(deposit),
	}, testSnapshot(t))
	require.NoError(t, err)
	return o
}

func TestNewOrder_WithDeposit(t *testing.T) {
	o := newTestOrder(t, 375)

	assert.Equal(t, "1250", o.TotalUSD.String())
	// 30% of 1250
	assert.Equal(t, "375", o.ExpectedDepositUSD.String())
	assert.Equal(t, "375", o.TotalReceivedUSD.String())
	// frozen at the snapshot rate of 7
	assert.Equal(t, "2625", o.TotalReceivedCNY.String())

	assert.Equal(t, PaymentDepositPaid, o.PaymentStatus)
	assert.Equal(t, StatusUnshippedPaid, o.Status)
	assert.Equal(t, ShippingUnshipped, o.ShippingStatus)

	require.Len(t, o.Payments, 1)
	assert.Equal(t, PaymentTypeDeposit, o.Payments[0].Type)

	// unit net profit at $125: 875 - 352 - 875*0.059 = 471.375 CNY, x10
	assert.Equal(t, "4713.75", o.ProfitCNY.String())
}

func TestNewOrder_WithoutDeposit(t *testing.T) {
	o := newTestOrder(t, 0)

	assert.Empty(t, o.Payments)
	assert.True(t, o.TotalReceivedUSD.IsZero())
	assert.Equal(t, PaymentUnpaid, o.PaymentStatus)
	assert.Equal(t, StatusPreorder, o.Status)
}

func TestNewOrder_Validation(t *testing.T) {
	snap := testSnapshot(t)
	tests := []struct {
		name string
		in   CreateInput
	}{
		{"missing order number", CreateInput{ClientName: "x", Quantity: 1, PriceUSD: decimal.NewFromInt(100)}},
		{"missing client", CreateInput{OrderNumber: "DA-1", Quantity: 1, PriceUSD: decimal.NewFromInt(100)}},
		{"zero quantity", CreateInput{OrderNumber: "DA-1", ClientName: "x", PriceUSD: decimal.NewFromInt(100)}},
		{"negative price", CreateInput{OrderNumber: "DA-1", ClientName: "x", Quantity: 1, PriceUSD: decimal.NewFromInt(-5)}},
		{"negative deposit", CreateInput{OrderNumber: "DA-1", ClientName: "x", Quantity: 1, PriceUSD: decimal.NewFromInt(100), InitialDepositUSD: decimal.NewFromInt(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrder(tt.in, snap)
			assert.Error(t, err)
		})
	}
}

func TestOrder_AddPayment(t *testing.T) {
	o := newTestOrder(t, 375)
	rate := decimal.NewFromFloat(7.2)

	_, err := o.AddPayment(decimal.NewFromInt(875), rate, PaymentTypeBalance, "wire transfer")
	require.NoError(t, err)

	assert.Equal(t, "1250", o.TotalReceivedUSD.String())
	assert.Equal(t, PaymentFullPaid, o.PaymentStatus)
	assert.Equal(t, StatusUnshippedPaid, o.Status)
	// ledger CNY mixes per-entry rates: 375*7 + 875*7.2
	assert.Equal(t, "8925", o.TotalReceivedCNY.String())
}

func TestOrder_AddPayment_Overpayment(t *testing.T) {
	o := newTestOrder(t, 0)

	_, err := o.AddPayment(decimal.NewFromInt(2000), decimal.NewFromInt(7), PaymentTypeOther, "")
	require.NoError(t, err)

	assert.Equal(t, PaymentFullPaid, o.PaymentStatus)
	assert.Equal(t, "-750", o.OutstandingUSD().String())
}

func TestOrder_AddRefund(t *testing.T) {
	o := newTestOrder(t, 375)

	record, err := o.AddRefund(decimal.NewFromInt(100), decimal.NewFromInt(7), "damaged in transit")
	require.NoError(t, err)

	assert.True(t, record.IsRefund())
	assert.Equal(t, "-100", record.AmountUSD.String())
	assert.Equal(t, "275", o.TotalReceivedUSD.String())
	// 275 < 375 threshold
	assert.Equal(t, PaymentPartialPaid, o.PaymentStatus)
	assert.Equal(t, StatusPreorder, o.Status)
}

func TestOrder_RemovePayment(t *testing.T) {
	o := newTestOrder(t, 375)
	require.Len(t, o.Payments, 1)
	id := o.Payments[0].ID.String()

	require.NoError(t, o.RemovePayment(id))
	assert.Empty(t, o.Payments)
	assert.True(t, o.TotalReceivedUSD.IsZero())
	assert.Equal(t, StatusPreorder, o.Status)

	assert.ErrorIs(t, o.RemovePayment(id), shared.ErrNotFound)
}

func TestOrder_MarkPaid(t *testing.T) {
	o := newTestOrder(t, 375)

	record, err := o.MarkPaid(decimal.NewFromInt(7), "")
	require.NoError(t, err)

	assert.Equal(t, "875", record.AmountUSD.String())
	assert.Equal(t, PaymentTypeBalance, record.Type)
	assert.Equal(t, PaymentFullPaid, o.PaymentStatus)

	_, err = o.MarkPaid(decimal.NewFromInt(7), "")
	assert.Error(t, err)
}

func TestOrder_MarkShipped(t *testing.T) {
	t.Run("on deposit becomes shipped_unpaid", func(t *testing.T) {
		o := newTestOrder(t, 375)
		require.NoError(t, o.MarkShipped("SF Express 123"))

		assert.Equal(t, ShippingShipped, o.ShippingStatus)
		assert.Equal(t, StatusShippedUnpaid, o.Status)
		assert.NotNil(t, o.ShippedAt)
		assert.Equal(t, "SF Express 123", o.ShippingNotes)
	})

	t.Run("fully paid becomes completed", func(t *testing.T) {
		o := newTestOrder(t, 1250)
		require.NoError(t, o.MarkShipped(""))
		assert.Equal(t, StatusCompleted, o.Status)
	})

	t.Run("balance after shipping completes via derivation", func(t *testing.T) {
		o := newTestOrder(t, 375)
		require.NoError(t, o.MarkShipped(""))

		_, err := o.AddPayment(decimal.NewFromInt(875), decimal.NewFromInt(7), PaymentTypeBalance, "")
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, o.Status)
	})
}

func TestOrder_MarkDelivered(t *testing.T) {
	o := newTestOrder(t, 375)

	assert.Error(t, o.MarkDelivered())

	require.NoError(t, o.MarkShipped(""))
	require.NoError(t, o.MarkDelivered())
	assert.Equal(t, ShippingDelivered, o.ShippingStatus)
}

func TestOrder_SetStatus(t *testing.T) {
	o := newTestOrder(t, 375)

	t.Run("completing implies shipment", func(t *testing.T) {
		require.NoError(t, o.SetStatus(StatusCompleted))
		assert.Equal(t, StatusCompleted, o.Status)
		assert.True(t, o.ShippingStatus.Departed())
		assert.NotNil(t, o.ShippedAt)
	})

	t.Run("cancel must go through Cancel", func(t *testing.T) {
		assert.Error(t, o.SetStatus(StatusCancelled))
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		assert.Error(t, o.SetStatus(Status("archived")))
	})

	t.Run("override not sticky against payments", func(t *testing.T) {
		o := newTestOrder(t, 375)
		require.NoError(t, o.SetStatus(StatusShippedUnpaid))

		_, err := o.AddPayment(decimal.NewFromInt(10), decimal.NewFromInt(7), PaymentTypeOther, "")
		require.NoError(t, err)
		// derivation wins: shipping state is still unshipped
		assert.Equal(t, StatusUnshippedPaid, o.Status)
	})
}

func TestOrder_CancelIsTerminal(t *testing.T) {
	o := newTestOrder(t, 375)
	require.NoError(t, o.Cancel("client withdrew"))

	assert.Equal(t, StatusCancelled, o.Status)
	assert.Equal(t, "client withdrew", o.CancelReason)
	assert.NotNil(t, o.CancelledAt)

	_, err := o.AddPayment(decimal.NewFromInt(100), decimal.NewFromInt(7), PaymentTypeOther, "")
	assert.ErrorIs(t, err, shared.ErrOrderCancelled)
	assert.ErrorIs(t, o.MarkShipped(""), shared.ErrOrderCancelled)
	assert.ErrorIs(t, o.SetStatus(StatusPreorder), shared.ErrOrderCancelled)
	assert.ErrorIs(t, o.UpdateQuantityPrice(5, decimal.NewFromInt(100)), shared.ErrOrderCancelled)
	assert.ErrorIs(t, o.Cancel("again"), shared.ErrOrderCancelled)

	// state untouched by the rejected mutations
	assert.Equal(t, StatusCancelled, o.Status)
	assert.Equal(t, "375", o.TotalReceivedUSD.String())
}

func TestOrder_UpdateQuantityPrice(t *testing.T) {
	o := newTestOrder(t, 375)

	require.NoError(t, o.UpdateQuantityPrice(20, decimal.NewFromInt(150)))

	assert.Equal(t, "3000", o.TotalUSD.String())
	assert.Equal(t, "900", o.ExpectedDepositUSD.String())
	// unit profit at $150: 1050 - 352 - 1050*0.059 = 636.05, x20
	assert.Equal(t, "12721", o.ProfitCNY.String())
	// received 375 drops below the new 900 threshold
	assert.Equal(t, PaymentPartialPaid, o.PaymentStatus)
	assert.Equal(t, StatusPreorder, o.Status)
}

func TestOrder_SearchMatches(t *testing.T) {
	o := newTestOrder(t, 0)

	assert.True(t, o.SearchMatches("harbor"))
	assert.True(t, o.SearchMatches("DA-1001"))
	assert.True(t, o.SearchMatches("harborgallery"))
	assert.True(t, o.SearchMatches("  "))
	assert.False(t, o.SearchMatches("louvre"))
}

func TestConfigSnapshot_FrozenAgainstLaterChanges(t *testing.T) {
	o := newTestOrder(t, 0)
	originalProfit := o.ProfitCNY

	// the snapshot keeps pricing stable regardless of what the working
	// parameters look like now
	require.NoError(t, o.UpdateQuantityPrice(10, decimal.NewFromInt(125)))
	assert.Equal(t, originalProfit.String(), o.ProfitCNY.String())
}
