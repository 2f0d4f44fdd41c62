package ledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"
)

// ExportOrdersCSV renders the whole order book as CSV, one row per order
func (s *OrderService) ExportOrdersCSV(ctx context.Context) ([]byte, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"order_number", "created_at", "client_name", "client_phone", "client_email",
		"country", "quantity", "price_usd", "total_usd",
		"expected_deposit_usd", "total_received_usd", "profit_cny",
		"payment_status", "shipping_status", "status", "notes",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, o := range orders {
		row := []string{
			o.OrderNumber,
			o.CreatedAt.Format(time.RFC3339),
			o.ClientName,
			o.ClientPhone,
			o.ClientEmail,
			string(o.CountryCode),
			strconv.FormatInt(o.Quantity, 10),
			o.PriceUSD.StringFixed(2),
			o.TotalUSD.StringFixed(2),
			o.ExpectedDepositUSD.StringFixed(2),
			o.TotalReceivedUSD.StringFixed(2),
			o.ProfitCNY.StringFixed(2),
			o.PaymentStatus.String(),
			o.ShippingStatus.String(),
			o.Status.String(),
			o.Notes,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportPaymentsCSV renders every ledger entry across all orders as CSV
func (s *PaymentService) ExportPaymentsCSV(ctx context.Context) ([]byte, error) {
	orders, err := s.orders.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"order_number", "client_name", "payment_id", "date",
		"amount_usd", "amount_cny", "exchange_rate", "type", "notes",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, o := range orders {
		for _, r := range o.Payments {
			row := []string{
				o.OrderNumber,
				o.ClientName,
				r.ID.String(),
				r.Date.Format(time.RFC3339),
				r.AmountUSD.StringFixed(2),
				r.AmountCNY.StringFixed(2),
				r.ExchangeRate.String(),
				r.Type.String(),
				r.Notes,
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
