package storage

import "errors"

// ErrItemNotFound is returned when no catalog item exists under the given name.
var ErrItemNotFound = errors.New("item not found")

// ErrInsufficientFunds is returned when an account balance is below the purchase price.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrOutOfStock is returned when no unused code exists for an item at reservation time,
// regardless of what the cached stock counter showed.
var ErrOutOfStock = errors.New("out of stock")

// ErrCodeUnavailable is returned by CommitPurchase when the allocated code was consumed
// by a concurrent purchase between allocation and commit. Callers should re-allocate.
var ErrCodeUnavailable = errors.New("code no longer available")
