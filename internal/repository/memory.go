package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/goshop/cart-checkout/internal/domain"
)

// MemoryCartStore implements CartStore with in-memory storage.
// Useful for tests and for running the server without MongoDB.
type MemoryCartStore struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart // ownerID -> cart
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{
		carts: make(map[string]*domain.Cart),
	}
}

func (s *MemoryCartStore) Get(_ context.Context, ownerID string) (*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, exists := s.carts[ownerID]
	if !exists {
		return nil, ErrCartNotFound
	}
	return copyCart(cart), nil
}

func (s *MemoryCartStore) Put(_ context.Context, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[cart.OwnerID] = copyCart(cart)
	return nil
}

func (s *MemoryCartStore) Delete(_ context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.carts[ownerID]; !exists {
		return ErrCartNotFound
	}
	delete(s.carts, ownerID)
	return nil
}

// copyCart returns a deep copy so callers never alias stored state.
func copyCart(cart *domain.Cart) *domain.Cart {
	c := *cart
	c.Items = make([]domain.CartItem, len(cart.Items))
	copy(c.Items, cart.Items)
	return &c
}

// MemoryOrderStore implements OrderStore with in-memory storage.
type MemoryOrderStore struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*domain.Order
	// Per-owner insertion order, newest first on read.
	byOwner map[string][]uuid.UUID
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{
		orders:  make(map[uuid.UUID]*domain.Order),
		byOwner: make(map[string][]uuid.UUID),
	}
}

func (s *MemoryOrderStore) Create(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return ErrDuplicateOrder
	}
	s.orders[order.ID] = copyOrder(order)
	s.byOwner[order.OwnerID] = append(s.byOwner[order.OwnerID], order.ID)
	return nil
}

func (s *MemoryOrderStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, exists := s.orders[id]
	if !exists {
		return nil, ErrOrderNotFound
	}
	return copyOrder(order), nil
}

func (s *MemoryOrderStore) ListByOwner(_ context.Context, ownerID string) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byOwner[ownerID]
	orders := make([]*domain.Order, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		orders = append(orders, copyOrder(s.orders[ids[i]]))
	}
	return orders, nil
}

func copyOrder(order *domain.Order) *domain.Order {
	o := *order
	o.Items = make([]domain.OrderItem, len(order.Items))
	copy(o.Items, order.Items)
	return &o
}
