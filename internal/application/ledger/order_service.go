// Package ledger is the application layer over the order book: order and
// payment commands, list/search queries, cached statistics and CSV export.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dafenarts/backend/internal/domain/order"
	"github.com/dafenarts/backend/internal/domain/portfolio"
	"github.com/dafenarts/backend/internal/domain/pricing"
	"github.com/dafenarts/backend/internal/domain/shared"
	"github.com/dafenarts/backend/internal/domain/shared/numeric"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService coordinates order lifecycle commands against the repository
type OrderService struct {
	repo    order.Repository
	engine  *pricing.Engine
	cache   statsCache
	logger  *zap.Logger
	nowFunc func() time.Time
}

// NewOrderService creates an OrderService
func NewOrderService(repo order.Repository, engine *pricing.Engine, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:    repo,
		engine:  engine,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// generateOrderNumber produces a DA-prefixed, date-scoped unique number
func (s *OrderService) generateOrderNumber() string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("DA-%s-%s", s.nowFunc().UTC().Format("20060102"), suffix)
}

// Create freezes the current parameters into a snapshot and stores the
// new order. A positive initial deposit opens the payment ledger.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*order.Order, error) {
	params, err := pricing.NewCostParameters(req.Params, s.engine.Defaults())
	if err != nil {
		return nil, err
	}
	country, err := s.engine.Catalog().Lookup(pricing.CountryCode(strings.ToUpper(req.Country)))
	if err != nil {
		return nil, err
	}

	depositPercent := numeric.OrDefault(req.DepositPercent, s.engine.Defaults().DepositPercent)
	snapshot := order.NewConfigSnapshot(params, country, depositPercent, s.engine.Defaults().FixedCostDivisor)

	o, err := order.NewOrder(order.CreateInput{
		OrderNumber:       s.generateOrderNumber(),
		ClientName:        req.ClientName,
		ClientPhone:       req.ClientPhone,
		ClientEmail:       req.ClientEmail,
		Notes:             req.Notes,
		Quantity:          req.Quantity,
		PriceUSD:          decimal.NewFromFloat(req.PriceUSD),
		InitialDepositUSD: decimal.NewFromFloat(req.InitialDepositUSD),
	}, snapshot)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	s.cache.invalidate()

	s.logger.Info("order created",
		zap.String("order_number", o.OrderNumber),
		zap.String("country", string(o.CountryCode)),
		zap.Int64("quantity", o.Quantity),
		zap.String("total_usd", o.TotalUSD.String()),
		zap.String("status", o.Status.String()))

	return o, nil
}

// Get fetches one order by ID
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns a filtered, paginated page of orders plus the total count
func (s *OrderService) List(ctx context.Context, req ListOrdersRequest) ([]*order.Order, int64, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 200 {
		req.PageSize = 200
	}

	filter := order.ListFilter{
		Status:        order.Status(req.Status),
		PaymentStatus: order.PaymentState(req.PaymentStatus),
		Search:        req.Search,
		Limit:         req.PageSize,
		Offset:        (req.Page - 1) * req.PageSize,
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown status %q", req.Status))
	}
	if filter.PaymentStatus != "" && !filter.PaymentStatus.IsValid() {
		return nil, 0, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown payment status %q", req.PaymentStatus))
	}
	return s.repo.List(ctx, filter)
}

// Update applies client and commercial-term changes
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*order.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ClientName != nil || req.ClientPhone != nil || req.ClientEmail != nil || req.Notes != nil {
		name := o.ClientName
		if req.ClientName != nil {
			name = *req.ClientName
		}
		phone := o.ClientPhone
		if req.ClientPhone != nil {
			phone = *req.ClientPhone
		}
		email := o.ClientEmail
		if req.ClientEmail != nil {
			email = *req.ClientEmail
		}
		notes := o.Notes
		if req.Notes != nil {
			notes = *req.Notes
		}
		if err := o.UpdateClient(name, phone, email, notes); err != nil {
			return nil, err
		}
	}

	if req.Quantity != nil || req.PriceUSD != nil {
		qty := o.Quantity
		if req.Quantity != nil {
			qty = *req.Quantity
		}
		price := o.PriceUSD
		if req.PriceUSD != nil {
			price = decimal.NewFromFloat(*req.PriceUSD)
		}
		if err := o.UpdateQuantityPrice(qty, price); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	s.cache.invalidate()
	return o, nil
}

// Delete removes an order outright
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.invalidate()
	s.logger.Info("order deleted", zap.String("order_id", id.String()))
	return nil
}

// Ship marks an order shipped
func (s *OrderService) Ship(ctx context.Context, id uuid.UUID, req ShipOrderRequest) (*order.Order, error) {
	return s.mutate(ctx, id, func(o *order.Order) error {
		return o.MarkShipped(req.Notes)
	})
}

// Deliver upgrades a shipped order to delivered
func (s *OrderService) Deliver(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return s.mutate(ctx, id, func(o *order.Order) error {
		return o.MarkDelivered()
	})
}

// Cancel moves an order into the terminal cancelled state
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID, req CancelOrderRequest) (*order.Order, error) {
	o, err := s.mutate(ctx, id, func(o *order.Order) error {
		return o.Cancel(req.Reason)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("order cancelled",
		zap.String("order_number", o.OrderNumber),
		zap.String("reason", req.Reason))
	return o, nil
}

// SetStatus applies an operator status override
func (s *OrderService) SetStatus(ctx context.Context, id uuid.UUID, req SetStatusRequest) (*order.Order, error) {
	return s.mutate(ctx, id, func(o *order.Order) error {
		return o.SetStatus(order.Status(req.Status))
	})
}

// Stats returns the bucketed order statistics through the time-boxed cache
func (s *OrderService) Stats(ctx context.Context) (portfolio.OrderStats, error) {
	return s.cache.get(func() (portfolio.OrderStats, error) {
		orders, err := s.repo.ListAll(ctx)
		if err != nil {
			return portfolio.OrderStats{}, err
		}
		return portfolio.ComputeOrderStats(orders), nil
	})
}

// SalesSnapshot exposes realized sales to the pricing KPIs
func (s *OrderService) SalesSnapshot(ctx context.Context) (pricing.SalesSnapshot, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return pricing.SalesSnapshot{}, err
	}
	return pricing.SalesSnapshot{
		CompletedQty:       stats.Completed.Quantity,
		CompletedProfitCNY: stats.Completed.ProfitCNY,
	}, nil
}

// mutate loads, mutates, persists and invalidates in one step
func (s *OrderService) mutate(ctx context.Context, id uuid.UUID, fn func(*order.Order) error) (*order.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(o); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	s.cache.invalidate()
	return o, nil
}
