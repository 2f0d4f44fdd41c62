package ledger

import (
	"context"
	"time"

	"github.com/dafenarts/backend/internal/domain/order"
	"github.com/dafenarts/backend/internal/domain/shared/numeric"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService handles the payment side of the ledger: entries, refunds,
// settlement and receivable queries.
type PaymentService struct {
	orders *OrderService
	logger *zap.Logger
}

// NewPaymentService creates a PaymentService
func NewPaymentService(orders *OrderService, logger *zap.Logger) *PaymentService {
	return &PaymentService{orders: orders, logger: logger}
}

// rate picks the request override or the configured default exchange rate
func (s *PaymentService) rate(override *float64) decimal.Decimal {
	return numeric.OrDefault(override, s.orders.engine.Defaults().ExchangeRate)
}

// AddPayment appends a ledger entry to an order and re-derives its state
func (s *PaymentService) AddPayment(ctx context.Context, orderID uuid.UUID, req AddPaymentRequest) (*order.Order, error) {
	paymentType := order.PaymentType(req.Type)
	if req.Type == "" {
		paymentType = order.PaymentTypeDeposit
	}
	o, err := s.orders.mutate(ctx, orderID, func(o *order.Order) error {
		_, err := o.AddPayment(decimal.NewFromFloat(req.AmountUSD), s.rate(req.ExchangeRate), paymentType, req.Notes)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("payment recorded",
		zap.String("order_number", o.OrderNumber),
		zap.Float64("amount_usd", req.AmountUSD),
		zap.String("type", paymentType.String()),
		zap.String("payment_status", o.PaymentStatus.String()))
	return o, nil
}

// Refund records money returned to the client
func (s *PaymentService) Refund(ctx context.Context, orderID uuid.UUID, req RefundRequest) (*order.Order, error) {
	o, err := s.orders.mutate(ctx, orderID, func(o *order.Order) error {
		_, err := o.AddRefund(decimal.NewFromFloat(req.AmountUSD), s.rate(req.ExchangeRate), req.Reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("refund recorded",
		zap.String("order_number", o.OrderNumber),
		zap.Float64("amount_usd", req.AmountUSD))
	return o, nil
}

// RemovePayment deletes one ledger entry
func (s *PaymentService) RemovePayment(ctx context.Context, orderID uuid.UUID, paymentID string) (*order.Order, error) {
	return s.orders.mutate(ctx, orderID, func(o *order.Order) error {
		return o.RemovePayment(paymentID)
	})
}

// MarkPaid settles an order's outstanding balance with one entry
func (s *PaymentService) MarkPaid(ctx context.Context, orderID uuid.UUID, req MarkPaidRequest) (*order.Order, error) {
	return s.orders.mutate(ctx, orderID, func(o *order.Order) error {
		_, err := o.MarkPaid(s.rate(req.ExchangeRate), req.Notes)
		return err
	})
}

// TypeStats accumulates ledger entries of one payment type
type TypeStats struct {
	Count     int64           `json:"count"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
	AmountCNY decimal.Decimal `json:"amount_cny"`
}

// PaymentStats is the collection-side summary of the order book
type PaymentStats struct {
	TotalOrders       int64                           `json:"total_orders"`
	TotalExpectedUSD  decimal.Decimal                 `json:"total_expected_usd"`
	TotalReceivedUSD  decimal.Decimal                 `json:"total_received_usd"`
	TotalReceivedCNY  decimal.Decimal                 `json:"total_received_cny"`
	CollectionRatePct decimal.Decimal                 `json:"collection_rate_pct"`
	ByType            map[order.PaymentType]TypeStats `json:"by_type"`
	ByStatus          map[order.PaymentState]int64    `json:"by_status"`
}

// Stats summarizes receipts across the whole order book
func (s *PaymentService) Stats(ctx context.Context) (PaymentStats, error) {
	orders, err := s.orders.repo.ListAll(ctx)
	if err != nil {
		return PaymentStats{}, err
	}

	stats := PaymentStats{
		TotalExpectedUSD: decimal.Zero,
		TotalReceivedUSD: decimal.Zero,
		TotalReceivedCNY: decimal.Zero,
		ByType: map[order.PaymentType]TypeStats{
			order.PaymentTypeDeposit: {AmountUSD: decimal.Zero, AmountCNY: decimal.Zero},
			order.PaymentTypeBalance: {AmountUSD: decimal.Zero, AmountCNY: decimal.Zero},
			order.PaymentTypeRefund:  {AmountUSD: decimal.Zero, AmountCNY: decimal.Zero},
			order.PaymentTypeOther:   {AmountUSD: decimal.Zero, AmountCNY: decimal.Zero},
		},
		ByStatus: map[order.PaymentState]int64{},
	}

	for _, o := range orders {
		stats.TotalOrders++
		stats.TotalExpectedUSD = stats.TotalExpectedUSD.Add(o.TotalUSD)
		stats.TotalReceivedUSD = stats.TotalReceivedUSD.Add(o.TotalReceivedUSD)
		stats.TotalReceivedCNY = stats.TotalReceivedCNY.Add(o.TotalReceivedCNY)
		stats.ByStatus[o.PaymentStatus]++

		for _, r := range o.Payments {
			t := r.Type
			if !t.IsValid() {
				t = order.PaymentTypeOther
			}
			entry := stats.ByType[t]
			entry.Count++
			entry.AmountUSD = entry.AmountUSD.Add(r.AmountUSD)
			entry.AmountCNY = entry.AmountCNY.Add(r.AmountCNY)
			stats.ByType[t] = entry
		}
	}

	stats.CollectionRatePct = numeric.Percentage(stats.TotalReceivedUSD, stats.TotalExpectedUSD)
	return stats, nil
}

// Pending returns orders with an open balance, cancelled ones excluded
func (s *PaymentService) Pending(ctx context.Context) ([]*order.Order, error) {
	orders, err := s.orders.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*order.Order
	for _, o := range orders {
		if o.IsCancelled() {
			continue
		}
		if o.OutstandingUSD().IsPositive() {
			out = append(out, o)
		}
	}
	return out, nil
}

// Overdue returns pending orders older than the given number of days
func (s *PaymentService) Overdue(ctx context.Context, days int) ([]*order.Order, error) {
	if days <= 0 {
		days = 30
	}
	pending, err := s.Pending(ctx)
	if err != nil {
		return nil, err
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	var out []*order.Order
	for _, o := range pending {
		if o.CreatedAt.Before(cutoff) {
			out = append(out, o)
		}
	}
	return out, nil
}
