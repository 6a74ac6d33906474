package cache

import (
	"context"

	"github.com/goshop/cart-checkout/internal/domain"
)

// Nop is a CartCache that caches nothing, for tests and cache-less runs.
type Nop struct{}

func (Nop) Get(context.Context, string) (*domain.Cart, error) {
	return nil, ErrCacheMiss
}

func (Nop) Set(context.Context, string, *domain.Cart) error { return nil }

func (Nop) Delete(context.Context, string) error { return nil }
