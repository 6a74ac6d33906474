package catalog

import (
	"context"
	"sync"

	"github.com/goshop/cart-checkout/internal/domain"
)

// MemoryCatalog is an in-memory ProductCatalog for tests and seeding.
type MemoryCatalog struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		products: make(map[string]domain.Product),
	}
}

func (c *MemoryCatalog) GetByID(_ context.Context, productID string) (*domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	product, exists := c.products[productID]
	if !exists {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

func (c *MemoryCatalog) Put(product domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[product.ID] = product
}

func (c *MemoryCatalog) SetActive(productID string, active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if product, exists := c.products[productID]; exists {
		product.IsActive = active
		c.products[productID] = product
	}
}

func (c *MemoryCatalog) SetPrice(productID string, price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if product, exists := c.products[productID]; exists {
		product.Price = price
		c.products[productID] = product
	}
}
