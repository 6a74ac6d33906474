package service

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/goshop/cart-checkout/internal/cache"
	"github.com/goshop/cart-checkout/internal/catalog"
	"github.com/goshop/cart-checkout/internal/domain"
	"github.com/goshop/cart-checkout/internal/repository"
)

// CartEngine enforces the cart aggregate invariants: one line per product,
// subtotal = quantity x unit price at last write, total = sum of subtotals.
// Every mutation runs as a read-modify-write critical section under the
// owner's lock and writes the whole aggregate back in one atomic replace.
type CartEngine struct {
	carts   repository.CartStore
	catalog catalog.ProductCatalog
	cache   cache.CartCache
	locks   *ownerLocks
	sfg     singleflight.Group // Prevents cache stampede
}

func NewCartEngine(carts repository.CartStore, cat catalog.ProductCatalog, c cache.CartCache) *CartEngine {
	return &CartEngine{
		carts:   carts,
		catalog: cat,
		cache:   c,
		locks:   newOwnerLocks(),
	}
}

func (e *CartEngine) GetCart(ctx context.Context, ownerID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := e.sfg.Do(ownerID, func() (interface{}, error) {

		cart, err := e.cache.Get(ctx, ownerID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, errGet := e.carts.Get(ctx, ownerID)
		if errGet != nil {
			if errors.Is(errGet, repository.ErrCartNotFound) {
				return nil, &NotFoundError{Kind: "cart", ID: ownerID}
			}
			return nil, &StorageError{Op: "get cart", Err: errGet}
		}

		// set cache
		go func() {
			errSet := e.cache.Set(context.Background(), ownerID, cart)
			if errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

func (e *CartEngine) AddItem(ctx context.Context, ownerID, productID string, quantity int) (*domain.Cart, error) {
	if productID == "" {
		return nil, &ValidationError{Reason: "product id is required"}
	}
	if quantity <= 0 {
		return nil, &ValidationError{Reason: "quantity must be positive"}
	}

	unlock := e.locks.lock(ownerID)
	defer unlock()

	product, err := e.lookupProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := e.loadOrCreate(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if line := cart.Item(productID); line != nil {
		// Merge policy: recompute the subtotal from the merged quantity and
		// the current price. Adding stale subtotals drifts on price changes.
		line.Quantity += quantity
		line.Subtotal = float64(line.Quantity) * product.Price
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: productID,
			Quantity:  quantity,
			Subtotal:  float64(quantity) * product.Price,
		})
	}
	cart.RecalculateTotal()

	if err := e.carts.Put(ctx, cart); err != nil {
		return nil, &StorageError{Op: "put cart", Err: err}
	}

	e.invalidateCache(ownerID)
	return cart, nil
}

func (e *CartEngine) SetItemQuantity(ctx context.Context, ownerID, productID string, newQuantity int) (*domain.Cart, error) {
	if newQuantity < 0 {
		return nil, &ValidationError{Reason: "quantity must not be negative"}
	}

	unlock := e.locks.lock(ownerID)
	defer unlock()

	cart, err := e.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	line := cart.Item(productID)
	if line == nil {
		return nil, &NotFoundError{Kind: "cart item", ID: productID}
	}

	if newQuantity == 0 {
		cart.Items = removeLine(cart.Items, productID)
	} else {
		// Re-fetch the current price so later price changes are reflected
		// on the next edit, not retroactively on unrelated lines.
		product, err := e.lookupProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		line.Quantity = newQuantity
		line.Subtotal = float64(newQuantity) * product.Price
	}
	cart.RecalculateTotal()

	if err := e.carts.Put(ctx, cart); err != nil {
		return nil, &StorageError{Op: "put cart", Err: err}
	}

	e.invalidateCache(ownerID)
	return cart, nil
}

func (e *CartEngine) RemoveItem(ctx context.Context, ownerID, productID string) (*domain.Cart, error) {
	unlock := e.locks.lock(ownerID)
	defer unlock()

	cart, err := e.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if cart.Item(productID) == nil {
		return nil, &NotFoundError{Kind: "cart item", ID: productID}
	}

	cart.Items = removeLine(cart.Items, productID)
	cart.RecalculateTotal()

	if err := e.carts.Put(ctx, cart); err != nil {
		return nil, &StorageError{Op: "put cart", Err: err}
	}

	e.invalidateCache(ownerID)
	return cart, nil
}

// Clear empties the owner's cart. Idempotent: clearing an absent or
// already-empty cart succeeds and yields an empty cart.
func (e *CartEngine) Clear(ctx context.Context, ownerID string) (*domain.Cart, error) {
	unlock := e.locks.lock(ownerID)
	defer unlock()

	return e.clearLocked(ctx, ownerID)
}

// clearLocked is Clear without lock acquisition, for callers that already
// hold the owner's lock (checkout spans order creation and clear under a
// single critical section).
func (e *CartEngine) clearLocked(ctx context.Context, ownerID string) (*domain.Cart, error) {
	cart, err := e.loadOrCreate(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	cart.Items = []domain.CartItem{}
	cart.TotalPrice = 0

	if err := e.carts.Put(ctx, cart); err != nil {
		return nil, &StorageError{Op: "put cart", Err: err}
	}

	e.invalidateCache(ownerID)
	return cart, nil
}

func (e *CartEngine) load(ctx context.Context, ownerID string) (*domain.Cart, error) {
	cart, err := e.carts.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, &NotFoundError{Kind: "cart", ID: ownerID}
		}
		return nil, &StorageError{Op: "get cart", Err: err}
	}
	return cart, nil
}

func (e *CartEngine) loadOrCreate(ctx context.Context, ownerID string) (*domain.Cart, error) {
	cart, err := e.carts.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return &domain.Cart{OwnerID: ownerID}, nil
		}
		return nil, &StorageError{Op: "get cart", Err: err}
	}
	return cart, nil
}

func (e *CartEngine) lookupProduct(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := e.catalog.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, &NotFoundError{Kind: "product", ID: productID}
		}
		return nil, &StorageError{Op: "get product", Err: err}
	}
	if !product.IsActive {
		return nil, &NotFoundError{Kind: "product", ID: productID}
	}
	return product, nil
}

func (e *CartEngine) invalidateCache(ownerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := e.cache.Delete(ctx, ownerID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}

func removeLine(items []domain.CartItem, productID string) []domain.CartItem {
	for i, item := range items {
		if item.ProductID == productID {
			return append(items[:i], items[i+1:]...)
		}
	}
	return items
}
