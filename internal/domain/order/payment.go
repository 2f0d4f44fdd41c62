package order

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dafenarts/backend/internal/domain/shared"
	"github.com/dafenarts/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentType classifies a ledger entry
type PaymentType string

const (
	PaymentTypeDeposit PaymentType = "deposit"
	PaymentTypeBalance PaymentType = "balance"
	PaymentTypeRefund  PaymentType = "refund"
	PaymentTypeOther   PaymentType = "other"
)

// IsValid checks if the payment type is known
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeDeposit, PaymentTypeBalance, PaymentTypeRefund, PaymentTypeOther:
		return true
	}
	return false
}

func (t PaymentType) String() string {
	return string(t)
}

// PaymentRecord is one entry in an order's payment ledger. Refunds are
// negative amounts. The CNY amount and rate are frozen at entry time so the
// ledger stays stable when the working exchange rate moves.
type PaymentRecord struct {
	ID           uuid.UUID       `json:"id"`
	Date         time.Time       `json:"date"`
	AmountUSD    decimal.Decimal `json:"amount_usd"`
	AmountCNY    decimal.Decimal `json:"amount_cny"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	Type         PaymentType     `json:"type"`
	Notes        string          `json:"notes"`
}

// NewPaymentRecord creates a ledger entry, freezing the CNY value at the
// given rate. amountUSD must be non-zero; negative means money returned.
func NewPaymentRecord(amountUSD, exchangeRate decimal.Decimal, paymentType PaymentType, notes string) (PaymentRecord, error) {
	if amountUSD.IsZero() {
		return PaymentRecord{}, shared.NewDomainError("INVALID_PAYMENT", "Payment amount cannot be zero")
	}
	if !paymentType.IsValid() {
		return PaymentRecord{}, shared.NewDomainError("INVALID_PAYMENT", fmt.Sprintf("Unknown payment type %q", paymentType))
	}
	cny, err := valueobject.NewUSD(amountUSD).Convert(valueobject.CNY, exchangeRate)
	if err != nil {
		return PaymentRecord{}, shared.NewDomainError("INVALID_PAYMENT", "Exchange rate must be positive")
	}
	return PaymentRecord{
		ID:           uuid.New(),
		Date:         time.Now(),
		AmountUSD:    amountUSD.Round(2),
		AmountCNY:    cny.Round(2).Amount(),
		ExchangeRate: exchangeRate,
		Type:         paymentType,
		Notes:        notes,
	}, nil
}

// IsRefund reports whether the entry returns money to the client
func (r PaymentRecord) IsRefund() bool {
	return r.AmountUSD.IsNegative()
}

// PaymentRecords is the ledger stored inline on the order row as JSON
type PaymentRecords []PaymentRecord

// TotalUSD sums all entry amounts, refunds included
func (rs PaymentRecords) TotalUSD() decimal.Decimal {
	total := decimal.Zero
	for _, r := range rs {
		total = total.Add(r.AmountUSD)
	}
	return total
}

// TotalCNY sums the frozen CNY amounts, refunds included
func (rs PaymentRecords) TotalCNY() decimal.Decimal {
	total := decimal.Zero
	for _, r := range rs {
		total = total.Add(r.AmountCNY)
	}
	return total
}

// ByType returns the entries of one payment type
func (rs PaymentRecords) ByType(t PaymentType) PaymentRecords {
	var out PaymentRecords
	for _, r := range rs {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// Value implements driver.Valuer for JSON column storage
func (rs PaymentRecords) Value() (driver.Value, error) {
	if rs == nil {
		return "[]", nil
	}
	b, err := json.Marshal(rs)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSON column storage
func (rs *PaymentRecords) Scan(value interface{}) error {
	if value == nil {
		*rs = PaymentRecords{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PaymentRecords", value)
	}
	if len(data) == 0 {
		*rs = PaymentRecords{}
		return nil
	}
	return json.Unmarshal(data, rs)
}
