package service

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed quantity or payload. Never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// NotFoundError reports a missing cart, product, or line item.
type NotFoundError struct {
	Kind string // "cart", "product", "cart item"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// EmptyCartError reports a checkout with nothing to purchase.
type EmptyCartError struct {
	OwnerID string
}

func (e *EmptyCartError) Error() string {
	return fmt.Sprintf("cart for owner %q is empty, nothing to checkout", e.OwnerID)
}

// StorageError wraps an opaque persistence or collaborator failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsEmptyCart(err error) bool {
	var target *EmptyCartError
	return errors.As(err, &target)
}
