package structs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("no rows in result set")
	ErrValidation      = errors.New("validation failure")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrStoreFailure    = errors.New("store failure")
	ErrCheckoutSession = errors.New("checkout session failure")
	ErrCartTooLarge    = fmt.Errorf("guest cart exceeds storage budget: %w", ErrStoreFailure)
	ErrNoGuestSession  = fmt.Errorf("no guest session bound to request: %w", ErrStoreFailure)
)

// StoreFailure wraps a persistence error so callers can match ErrStoreFailure.
func StoreFailure(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, errors.Join(ErrStoreFailure, err))
}
