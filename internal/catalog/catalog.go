package catalog

import (
	"context"
	"errors"

	"github.com/goshop/cart-checkout/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// ProductCatalog is the read-only price/availability lookup the cart core
// depends on. The catalog's CRUD lifecycle lives elsewhere.
type ProductCatalog interface {
	GetByID(ctx context.Context, productID string) (*domain.Product, error)
}
