package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/dafenarts/backend/internal/domain/order"
	"github.com/dafenarts/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts a new order; duplicate order numbers are rejected
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("order_number = ?", o.OrderNumber).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrAlreadyExists
	}
	return r.db.WithContext(ctx).Create(o).Error
}

// Update persists the full state of an existing order
func (r *GormOrderRepository) Update(ctx context.Context, o *order.Order) error {
	result := r.db.WithContext(ctx).Model(o).Where("id = ?", o.ID).Save(o)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an order
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&order.Order{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByNumber finds an order by its business number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).First(&o, "order_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// List returns a filtered page of orders plus the total match count
func (r *GormOrderRepository) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&order.Order{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var orders []*order.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListAll returns the whole order book, newest first
func (r *GormOrderRepository) ListAll(ctx context.Context) ([]*order.Order, error) {
	var orders []*order.Order
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// applyFilter narrows the query by status and search text. Search matches
// case-insensitively over the client-facing text columns.
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter order.ListFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(order_number) LIKE ? OR LOWER(client_name) LIKE ? OR LOWER(client_phone) LIKE ? OR LOWER(client_email) LIKE ? OR LOWER(notes) LIKE ?",
			pattern, pattern, pattern, pattern, pattern)
	}
	return query
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
