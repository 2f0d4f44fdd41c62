package ledger

import "github.com/dafenarts/backend/internal/domain/pricing"

// CreateOrderRequest creates an order against the current parameter set.
// Params carries the working pricing inputs that get frozen into the
// order's snapshot; DepositPercent overrides the configured default.
type CreateOrderRequest struct {
	ClientName        string           `json:"client_name" binding:"required"`
	ClientPhone       string           `json:"client_phone"`
	ClientEmail       string           `json:"client_email" binding:"omitempty,email"`
	Notes             string           `json:"notes"`
	Country           string           `json:"country" binding:"required,len=3"`
	Quantity          int64            `json:"quantity" binding:"required,min=1"`
	PriceUSD          float64          `json:"price_usd" binding:"min=0"`
	InitialDepositUSD float64          `json:"initial_deposit_usd" binding:"min=0"`
	DepositPercent    *float64         `json:"deposit_percent" binding:"omitempty,gt=0,lte=100"`
	Params            pricing.RawInput `json:"params"`
}

// UpdateOrderRequest updates client details and commercial terms. Nil
// fields are left untouched.
type UpdateOrderRequest struct {
	ClientName  *string  `json:"client_name"`
	ClientPhone *string  `json:"client_phone"`
	ClientEmail *string  `json:"client_email" binding:"omitempty,email"`
	Notes       *string  `json:"notes"`
	Quantity    *int64   `json:"quantity" binding:"omitempty,min=1"`
	PriceUSD    *float64 `json:"price_usd" binding:"omitempty,min=0"`
}

// ListOrdersRequest filters the order list
type ListOrdersRequest struct {
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	Search        string `form:"search"`
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
}

// ShipOrderRequest marks an order shipped
type ShipOrderRequest struct {
	Notes string `json:"notes"`
}

// CancelOrderRequest cancels an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// SetStatusRequest applies an operator status override
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AddPaymentRequest appends a ledger entry. AmountUSD may be negative for
// ad hoc corrections; dedicated refunds should use RefundRequest.
type AddPaymentRequest struct {
	AmountUSD    float64  `json:"amount_usd" binding:"required"`
	Type         string   `json:"type" binding:"omitempty,oneof=deposit balance refund other"`
	Notes        string   `json:"notes"`
	ExchangeRate *float64 `json:"exchange_rate" binding:"omitempty,gt=0"`
}

// RefundRequest returns money to the client. AmountUSD is positive.
type RefundRequest struct {
	AmountUSD    float64  `json:"amount_usd" binding:"required,gt=0"`
	Reason       string   `json:"reason"`
	ExchangeRate *float64 `json:"exchange_rate" binding:"omitempty,gt=0"`
}

// MarkPaidRequest settles the outstanding balance in one entry
type MarkPaidRequest struct {
	Notes        string   `json:"notes"`
	ExchangeRate *float64 `json:"exchange_rate" binding:"omitempty,gt=0"`
}
