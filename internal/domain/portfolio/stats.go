// Package portfolio aggregates the order book into derived views: status
// buckets, period financial statements and a cashflow health score. Every
// function here is a pure fold over a slice of orders.
package portfolio

import (
	"github.com/dafenarts/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// StatusBucket accumulates one order status
type StatusBucket struct {
	Count     int64           `json:"count"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
	Quantity  int64           `json:"quantity"`
	ProfitCNY decimal.Decimal `json:"profit_cny"`
}

func (b *StatusBucket) add(o *order.Order) {
	b.Count++
	b.AmountUSD = b.AmountUSD.Add(o.TotalUSD)
	b.Quantity += o.Quantity
	b.ProfitCNY = b.ProfitCNY.Add(o.ProfitCNY)
}

// OrderStats is the order book broken down by lifecycle status
type OrderStats struct {
	Total         int64        `json:"total"`
	Completed     StatusBucket `json:"completed"`
	ShippedUnpaid StatusBucket `json:"shipped_unpaid"`
	UnshippedPaid StatusBucket `json:"unshipped_paid"`
	Preorder      StatusBucket `json:"preorder"`
	Cancelled     StatusBucket `json:"cancelled"`
}

// ComputeOrderStats folds the order list into status buckets
func ComputeOrderStats(orders []*order.Order) OrderStats {
	stats := OrderStats{
		Completed:     zeroBucket(),
		ShippedUnpaid: zeroBucket(),
		UnshippedPaid: zeroBucket(),
		Preorder:      zeroBucket(),
		Cancelled:     zeroBucket(),
	}
	for _, o := range orders {
		stats.Total++
		switch o.Status {
		case order.StatusCompleted:
			stats.Completed.add(o)
		case order.StatusShippedUnpaid:
			stats.ShippedUnpaid.add(o)
		case order.StatusUnshippedPaid:
			stats.UnshippedPaid.add(o)
		case order.StatusCancelled:
			stats.Cancelled.add(o)
		default:
			stats.Preorder.add(o)
		}
	}
	return stats
}

func zeroBucket() StatusBucket {
	return StatusBucket{AmountUSD: decimal.Zero, ProfitCNY: decimal.Zero}
}

// ShippedAmountUSD is the total of orders that have left the door
func (s OrderStats) ShippedAmountUSD() decimal.Decimal {
	return s.Completed.AmountUSD.Add(s.ShippedUnpaid.AmountUSD)
}
