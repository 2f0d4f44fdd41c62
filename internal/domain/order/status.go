package order

import "github.com/shopspring/decimal"

// PaymentState tracks how much of the order total has been collected
type PaymentState string

const (
	PaymentUnpaid      PaymentState = "unpaid"
	PaymentPartialPaid PaymentState = "partial_paid" // something received, below deposit
	PaymentDepositPaid PaymentState = "deposit_paid" // deposit threshold reached
	PaymentFullPaid    PaymentState = "full_paid"    // full order total received
)

// IsValid checks if the payment state is known
func (s PaymentState) IsValid() bool {
	switch s {
	case PaymentUnpaid, PaymentPartialPaid, PaymentDepositPaid, PaymentFullPaid:
		return true
	}
	return false
}

func (s PaymentState) String() string {
	return string(s)
}

// ShippingState tracks physical fulfilment
type ShippingState string

const (
	ShippingUnshipped ShippingState = "unshipped"
	ShippingShipped   ShippingState = "shipped"
	ShippingDelivered ShippingState = "delivered"
)

// IsValid checks if the shipping state is known
func (s ShippingState) IsValid() bool {
	switch s {
	case ShippingUnshipped, ShippingShipped, ShippingDelivered:
		return true
	}
	return false
}

func (s ShippingState) String() string {
	return string(s)
}

// Departed reports whether the goods have left (shipped or delivered)
func (s ShippingState) Departed() bool {
	return s == ShippingShipped || s == ShippingDelivered
}

// Status is the combined lifecycle state of an order. All values except
// cancelled are derived from payment and shipping; cancelled is reached
// only through an explicit command and is terminal.
type Status string

const (
	StatusPreorder      Status = "preorder"       // nothing meaningful received yet
	StatusUnshippedPaid Status = "unshipped_paid" // deposit or full payment in, not shipped
	StatusShippedUnpaid Status = "shipped_unpaid" // shipped on deposit, balance open
	StatusCompleted     Status = "completed"      // shipped and fully paid
	StatusCancelled     Status = "cancelled"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPreorder, StatusUnshippedPaid, StatusShippedUnpaid, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the status admits no further transitions
func (s Status) IsTerminal() bool {
	return s == StatusCancelled
}

// DeriveState is the pure lifecycle derivation. Given the amount received,
// the order total, the deposit threshold and the shipping state, it returns
// the payment state and the order status. It never yields StatusCancelled;
// cancellation bypasses this function entirely.
//
// Partial payments below the deposit threshold keep the order in preorder
// even after shipping; shipping against a partial payment is an operator
// override, not a derived state.
func DeriveState(receivedUSD, totalUSD, depositThresholdUSD decimal.Decimal, shipping ShippingState) (PaymentState, Status) {
	var payment PaymentState
	switch {
	case receivedUSD.GreaterThanOrEqual(totalUSD):
		payment = PaymentFullPaid
	case receivedUSD.GreaterThanOrEqual(depositThresholdUSD):
		payment = PaymentDepositPaid
	case receivedUSD.IsPositive():
		payment = PaymentPartialPaid
	default:
		payment = PaymentUnpaid
	}

	var status Status
	switch {
	case payment == PaymentFullPaid && shipping.Departed():
		status = StatusCompleted
	case (payment == PaymentFullPaid || payment == PaymentDepositPaid) && !shipping.Departed():
		status = StatusUnshippedPaid
	case payment == PaymentDepositPaid && shipping.Departed():
		status = StatusShippedUnpaid
	default:
		status = StatusPreorder
	}

	return payment, status
}
