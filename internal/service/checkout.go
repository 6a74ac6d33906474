package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/goshop/cart-checkout/internal/domain"
	"github.com/goshop/cart-checkout/internal/publisher"
	"github.com/goshop/cart-checkout/internal/repository"
)

// CheckoutCoordinator turns a cart into an immutable order and retires the
// cart. Order creation happens-before cart clearing: a failed order write
// leaves the cart untouched, a failed clear leaves a durable order and a
// ghost cart that a retried (idempotent) clear resolves.
type CheckoutCoordinator struct {
	engine *CartEngine
	orders repository.OrderStore
	events publisher.OrderEvents
}

func NewCheckoutCoordinator(engine *CartEngine, orders repository.OrderStore, events publisher.OrderEvents) *CheckoutCoordinator {
	return &CheckoutCoordinator{
		engine: engine,
		orders: orders,
		events: events,
	}
}

func (c *CheckoutCoordinator) Checkout(ctx context.Context, ownerID string) (*domain.Order, error) {
	// The same per-owner exclusion as cart mutations, held across both
	// steps: a concurrent checkout observing the cleared cart must fail
	// with EmptyCartError instead of creating a duplicate order.
	unlock := c.engine.locks.lock(ownerID)
	defer unlock()

	cart, err := c.engine.carts.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, &EmptyCartError{OwnerID: ownerID}
		}
		return nil, &StorageError{Op: "get cart", Err: err}
	}
	if cart.IsEmpty() {
		return nil, &EmptyCartError{OwnerID: ownerID}
	}

	// Re-derive the total from the lines instead of trusting the stored one.
	items := make([]domain.OrderItem, 0, len(cart.Items))
	var total float64
	for _, line := range cart.Items {
		items = append(items, domain.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.Subtotal / float64(line.Quantity),
		})
		total += line.Subtotal
	}

	order := &domain.Order{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Items:       items,
		TotalAmount: total,
		Status:      domain.OrderStatusPending,
		CreatedAt:   time.Now(),
	}

	if err := c.orders.Create(ctx, order); err != nil {
		return nil, &StorageError{Op: "create order", Err: err}
	}

	if err := c.events.OrderPlaced(ctx, order); err != nil {
		log.Printf("failed to publish order %s: %v", order.ID, err)
	}

	if _, err := c.engine.clearLocked(ctx, ownerID); err != nil {
		// The order is durable; the cart stays non-empty until a retried
		// clear succeeds. Report both so the caller can act on either.
		log.Printf("order %s created but cart clear failed for owner %s: %v", order.ID, ownerID, err)
		return order, fmt.Errorf("order created but cart not cleared: %w", err)
	}

	return order, nil
}

func (c *CheckoutCoordinator) Orders(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	orders, err := c.orders.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, &StorageError{Op: "list orders", Err: err}
	}
	return orders, nil
}
