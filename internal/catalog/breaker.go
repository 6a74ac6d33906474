package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/goshop/cart-checkout/internal/domain"
)

// BreakerCatalog wraps a ProductCatalog with a circuit breaker so a
// flapping catalog backend fails fast instead of stalling cart writes.
// A missing product is a valid answer and never trips the breaker.
type BreakerCatalog struct {
	inner ProductCatalog
	cb    *gobreaker.CircuitBreaker[*domain.Product]
}

func NewBreakerCatalog(inner ProductCatalog) *BreakerCatalog {
	settings := gobreaker.Settings{
		Name:    "product-catalog",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrProductNotFound)
		},
	}
	return &BreakerCatalog{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[*domain.Product](settings),
	}
}

func (b *BreakerCatalog) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	return b.cb.Execute(func() (*domain.Product, error) {
		return b.inner.GetByID(ctx, productID)
	})
}
