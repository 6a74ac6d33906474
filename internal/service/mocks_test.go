package service

import (
	"context"
	"sync"

	"github.com/goshop/cart-checkout/internal/cache"
	"github.com/goshop/cart-checkout/internal/domain"
	"github.com/goshop/cart-checkout/internal/repository"
)

// failingCartStore wraps a real store and injects errors per operation.
type failingCartStore struct {
	repository.CartStore
	getErr error
	putErr error
}

func (f *failingCartStore) Get(ctx context.Context, ownerID string) (*domain.Cart, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.CartStore.Get(ctx, ownerID)
}

func (f *failingCartStore) Put(ctx context.Context, cart *domain.Cart) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.CartStore.Put(ctx, cart)
}

// failingOrderStore wraps a real store and injects a create error.
type failingOrderStore struct {
	repository.OrderStore
	createErr error
}

func (f *failingOrderStore) Create(ctx context.Context, order *domain.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.OrderStore.Create(ctx, order)
}

type mockCache struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return m.err
}

func (m *mockCache) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

type mockEvents struct {
	m      sync.Mutex
	placed []*domain.Order
	err    error
}

func (m *mockEvents) OrderPlaced(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.placed = append(m.placed, order)
	return nil
}

func (m *mockEvents) Close() error { return nil }

func (m *mockEvents) count() int {
	m.m.Lock()
	defer m.m.Unlock()
	return len(m.placed)
}
