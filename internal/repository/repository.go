package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/goshop/cart-checkout/internal/domain"
)

var (
	ErrCartNotFound   = errors.New("cart not found")
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order already exists")
)

// CartStore defines keyed storage of one cart aggregate per owner.
// Put replaces the whole document in a single atomic write.
type CartStore interface {
	Get(ctx context.Context, ownerID string) (*domain.Cart, error)
	Put(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, ownerID string) error
}

// OrderStore is append-only: orders are created once and never mutated here.
type OrderStore interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error)
}
