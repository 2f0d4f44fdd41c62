// Package order holds the order aggregate: client and quantity data, a
// frozen pricing snapshot, the inline payment ledger and the derived
// lifecycle state.
package order

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dafenarts/backend/internal/domain/pricing"
	"github.com/dafenarts/backend/internal/domain/shared"
	"github.com/dafenarts/backend/internal/domain/shared/numeric"
	"github.com/shopspring/decimal"
)

// ConfigSnapshot freezes the pricing parameters, destination profile and
// deposit policy in force when the order was created. All later profit and
// financial recomputation for this order reads the snapshot, never the
// current working parameters.
type ConfigSnapshot struct {
	Params           pricing.CostParameters `json:"params"`
	Country          pricing.CountryProfile `json:"country"`
	DepositPercent   decimal.Decimal        `json:"deposit_percent"`
	FixedCostDivisor int64                  `json:"fixed_cost_divisor"`
	SnapshotTime     time.Time              `json:"snapshot_time"`
}

// NewConfigSnapshot captures the current parameter set
func NewConfigSnapshot(params pricing.CostParameters, country pricing.CountryProfile, depositPercent decimal.Decimal, fixedCostDivisor int64) ConfigSnapshot {
	return ConfigSnapshot{
		Params:           params,
		Country:          country,
		DepositPercent:   depositPercent,
		FixedCostDivisor: fixedCostDivisor,
		SnapshotTime:     time.Now(),
	}
}

// UnitCosts evaluates the cost breakdown under the frozen parameters
func (s ConfigSnapshot) UnitCosts() pricing.UnitCostBreakdown {
	return pricing.ComputeUnitCosts(s.Params, s.Country, 0, s.FixedCostDivisor)
}

// UnitProfit analyzes a USD price under the frozen parameters
func (s ConfigSnapshot) UnitProfit(priceUSD decimal.Decimal) pricing.ProfitResult {
	return pricing.ComputeManualProfit(priceUSD, s.Params, s.UnitCosts(), s.Country)
}

// Value implements driver.Valuer for JSON column storage
func (s ConfigSnapshot) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSON column storage
func (s *ConfigSnapshot) Scan(value interface{}) error {
	if value == nil {
		*s = ConfigSnapshot{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ConfigSnapshot", value)
	}
	if len(data) == 0 {
		*s = ConfigSnapshot{}
		return nil
	}
	return json.Unmarshal(data, s)
}

// Order is the aggregate root for one client order. Monetary fields carry
// the currency in the name; derived state fields are only written through
// the aggregate's methods.
type Order struct {
	shared.BaseEntity
	OrderNumber string `gorm:"uniqueIndex;size:32" json:"order_number"`

	ClientName  string `gorm:"size:128" json:"client_name"`
	ClientPhone string `gorm:"size:64" json:"client_phone"`
	ClientEmail string `gorm:"size:128" json:"client_email"`
	Notes       string `json:"notes"`

	CountryCode pricing.CountryCode `gorm:"size:3;index" json:"country_code"`
	Quantity    int64               `json:"quantity"`
	PriceUSD    decimal.Decimal     `gorm:"type:decimal(14,2)" json:"price_usd"`
	TotalUSD    decimal.Decimal     `gorm:"type:decimal(14,2)" json:"total_usd"`

	ExpectedDepositUSD decimal.Decimal `gorm:"type:decimal(14,2)" json:"expected_deposit_usd"`
	TotalReceivedUSD   decimal.Decimal `gorm:"type:decimal(14,2)" json:"total_received_usd"`
	TotalReceivedCNY   decimal.Decimal `gorm:"type:decimal(14,2)" json:"total_received_cny"`
	ProfitCNY          decimal.Decimal `gorm:"type:decimal(14,2)" json:"profit_cny"`

	PaymentStatus  PaymentState  `gorm:"size:16;index" json:"payment_status"`
	ShippingStatus ShippingState `gorm:"size:16" json:"shipping_status"`
	Status         Status        `gorm:"size:16;index" json:"status"`

	ShippedAt     *time.Time `json:"shipped_at,omitempty"`
	ShippingNotes string     `json:"shipping_notes,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CancelReason  string     `json:"cancel_reason,omitempty"`

	Snapshot ConfigSnapshot `gorm:"type:json" json:"config_snapshot"`
	Payments PaymentRecords `gorm:"type:json" json:"payment_records"`
}

// TableName sets the orders table name
func (Order) TableName() string {
	return "orders"
}

// CreateInput is what a new order needs beyond the frozen snapshot
type CreateInput struct {
	OrderNumber       string
	ClientName        string
	ClientPhone       string
	ClientEmail       string
	Notes             string
	Quantity          int64
	PriceUSD          decimal.Decimal
	InitialDepositUSD decimal.Decimal
}

// NewOrder creates an order under the given frozen snapshot. The expected
// deposit is qty x price x the snapshot's deposit percent; profit is the
// per-unit net profit at the order price times quantity. A positive initial
// deposit synthesizes the first ledger entry, and the lifecycle state is
// derived from it.
func NewOrder(in CreateInput, snapshot ConfigSnapshot) (*Order, error) {
	if in.OrderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if in.ClientName == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client name cannot be empty")
	}
	if in.Quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least one")
	}
	if in.PriceUSD.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if in.InitialDepositUSD.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DEPOSIT", "Initial deposit cannot be negative")
	}

	qty := decimal.NewFromInt(in.Quantity)
	total := in.PriceUSD.Mul(qty).Round(2)
	expectedDeposit := total.Mul(numeric.FromPercent(snapshot.DepositPercent)).Round(2)

	profit := decimal.Zero
	if in.PriceUSD.IsPositive() {
		profit = snapshot.UnitProfit(in.PriceUSD).NetProfitCNY.Mul(qty).Round(2)
	}

	o := &Order{
		BaseEntity:         shared.NewBaseEntity(),
		OrderNumber:        in.OrderNumber,
		ClientName:         in.ClientName,
		ClientPhone:        in.ClientPhone,
		ClientEmail:        in.ClientEmail,
		Notes:              in.Notes,
		CountryCode:        snapshot.Country.Code,
		Quantity:           in.Quantity,
		PriceUSD:           in.PriceUSD.Round(2),
		TotalUSD:           total,
		ExpectedDepositUSD: expectedDeposit,
		ProfitCNY:          profit,
		ShippingStatus:     ShippingUnshipped,
		Snapshot:           snapshot,
		Payments:           PaymentRecords{},
	}

	if in.InitialDepositUSD.IsPositive() {
		record, err := NewPaymentRecord(in.InitialDepositUSD, snapshot.Params.ExchangeRate,
			PaymentTypeDeposit, "Deposit collected at order creation")
		if err != nil {
			return nil, err
		}
		o.Payments = append(o.Payments, record)
	}

	o.recomputeReceived()
	o.deriveState()

	return o, nil
}

// recomputeReceived refreshes the received totals from the ledger
func (o *Order) recomputeReceived() {
	o.TotalReceivedUSD = o.Payments.TotalUSD().Round(2)
	o.TotalReceivedCNY = o.Payments.TotalCNY().Round(2)
}

// deriveState re-runs the lifecycle derivation against the order's own
// total and its snapshot's deposit threshold. Never called on a cancelled
// order; callers guard with ensureMutable.
func (o *Order) deriveState() {
	o.PaymentStatus, o.Status = DeriveState(
		o.TotalReceivedUSD, o.TotalUSD, o.ExpectedDepositUSD, o.ShippingStatus)
}

func (o *Order) ensureMutable() error {
	if o.Status == StatusCancelled {
		return shared.ErrOrderCancelled
	}
	return nil
}

// AddPayment appends a ledger entry and re-derives the lifecycle state.
// amountUSD may be negative (refund). Over-payment is accepted; the
// derivation simply lands on full_paid.
func (o *Order) AddPayment(amountUSD, exchangeRate decimal.Decimal, paymentType PaymentType, notes string) (*PaymentRecord, error) {
	if err := o.ensureMutable(); err != nil {
		return nil, err
	}
	record, err := NewPaymentRecord(amountUSD, exchangeRate, paymentType, notes)
	if err != nil {
		return nil, err
	}
	o.Payments = append(o.Payments, record)
	o.recomputeReceived()
	o.deriveState()
	o.Touch()
	return &o.Payments[len(o.Payments)-1], nil
}

// AddRefund records money returned to the client. amountUSD is given as a
// positive figure and stored negated.
func (o *Order) AddRefund(amountUSD, exchangeRate decimal.Decimal, reason string) (*PaymentRecord, error) {
	notes := "Refund"
	if reason != "" {
		notes = "Refund: " + reason
	}
	return o.AddPayment(amountUSD.Abs().Neg(), exchangeRate, PaymentTypeRefund, notes)
}

// RemovePayment deletes a ledger entry by ID and re-derives state
func (o *Order) RemovePayment(paymentID string) error {
	if err := o.ensureMutable(); err != nil {
		return err
	}
	for i, r := range o.Payments {
		if r.ID.String() == paymentID {
			o.Payments = append(o.Payments[:i], o.Payments[i+1:]...)
			o.recomputeReceived()
			o.deriveState()
			o.Touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// MarkPaid settles the outstanding balance with one balance-type entry.
// Fully paid orders are left untouched.
func (o *Order) MarkPaid(exchangeRate decimal.Decimal, notes string) (*PaymentRecord, error) {
	if err := o.ensureMutable(); err != nil {
		return nil, err
	}
	remaining := o.TotalUSD.Sub(o.TotalReceivedUSD)
	if !remaining.IsPositive() {
		return nil, shared.NewDomainError("ALREADY_PAID", "Order has no outstanding balance")
	}
	if notes == "" {
		notes = "Balance settled"
	}
	return o.AddPayment(remaining, exchangeRate, PaymentTypeBalance, notes)
}

// MarkShipped records departure. The status set here is authoritative for
// this call: completed when fully paid, shipped_unpaid otherwise. Later
// payment events re-derive it.
func (o *Order) MarkShipped(notes string) error {
	if err := o.ensureMutable(); err != nil {
		return err
	}
	now := time.Now()
	o.ShippingStatus = ShippingShipped
	o.ShippedAt = &now
	o.ShippingNotes = notes
	if o.PaymentStatus == PaymentFullPaid {
		o.Status = StatusCompleted
	} else {
		o.Status = StatusShippedUnpaid
	}
	o.Touch()
	return nil
}

// MarkDelivered upgrades a shipped order to delivered
func (o *Order) MarkDelivered() error {
	if err := o.ensureMutable(); err != nil {
		return err
	}
	if !o.ShippingStatus.Departed() {
		return shared.NewDomainError("NOT_SHIPPED", "Order has not been shipped")
	}
	o.ShippingStatus = ShippingDelivered
	o.Touch()
	return nil
}

// SetStatus is the operator override: the given status is applied as-is
// for this call. Completing an unshipped order implies shipment.
func (o *Order) SetStatus(status Status) error {
	if err := o.ensureMutable(); err != nil {
		return err
	}
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown status %q", status))
	}
	if status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATUS", "Use Cancel to cancel an order")
	}
	if status == StatusCompleted && !o.ShippingStatus.Departed() {
		now := time.Now()
		o.ShippingStatus = ShippingShipped
		o.ShippedAt = &now
	}
	o.Status = status
	o.Touch()
	return nil
}

// Cancel moves the order to the terminal cancelled state. Payment and
// shipping events are rejected afterwards.
func (o *Order) Cancel(reason string) error {
	if o.Status == StatusCancelled {
		return shared.ErrOrderCancelled
	}
	now := time.Now()
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.Touch()
	return nil
}

// UpdateClient updates client contact fields
func (o *Order) UpdateClient(name, phone, email, notes string) error {
	if err := o.ensureMutable(); err != nil {
		return err
	}
	if name == "" {
		return shared.NewDomainError("INVALID_CLIENT", "Client name cannot be empty")
	}
	o.ClientName = name
	o.ClientPhone = phone
	o.ClientEmail = email
	o.Notes = notes
	o.Touch()
	return nil
}

// UpdateQuantityPrice changes the commercial terms and recomputes the
// total, expected deposit and profit from the frozen snapshot, then
// re-derives the lifecycle state against the new total.
func (o *Order) UpdateQuantityPrice(quantity int64, priceUSD decimal.Decimal) error {
	if err := o.ensureMutable(); err != nil {
		return err
	}
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least one")
	}
	if priceUSD.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	qty := decimal.NewFromInt(quantity)
	o.Quantity = quantity
	o.PriceUSD = priceUSD.Round(2)
	o.TotalUSD = priceUSD.Mul(qty).Round(2)
	o.ExpectedDepositUSD = o.TotalUSD.Mul(numeric.FromPercent(o.Snapshot.DepositPercent)).Round(2)
	if priceUSD.IsPositive() {
		o.ProfitCNY = o.Snapshot.UnitProfit(priceUSD).NetProfitCNY.Mul(qty).Round(2)
	} else {
		o.ProfitCNY = decimal.Zero
	}

	o.deriveState()
	o.Touch()
	return nil
}

// OutstandingUSD is the open balance; negative when over-paid
func (o *Order) OutstandingUSD() decimal.Decimal {
	return o.TotalUSD.Sub(o.TotalReceivedUSD)
}

// IsCancelled reports whether the order was cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == StatusCancelled
}

// RevenueRecognized reports whether the order counts toward recognized
// revenue (shipped with at least the deposit collected).
func (o *Order) RevenueRecognized() bool {
	return o.Status == StatusCompleted || o.Status == StatusShippedUnpaid
}

// SearchMatches does a case-insensitive match on order number, client
// name, phone, email and notes.
func (o *Order) SearchMatches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{o.OrderNumber, o.ClientName, o.ClientPhone, o.ClientEmail, o.Notes} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
