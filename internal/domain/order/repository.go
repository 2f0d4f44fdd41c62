package order

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows List results. Zero values mean no constraint.
type ListFilter struct {
	Status        Status
	PaymentStatus PaymentState
	Search        string
	Limit         int
	Offset        int
}

// Repository is the persistence port for orders
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]*Order, int64, error)
	ListAll(ctx context.Context) ([]*Order, error)
}
