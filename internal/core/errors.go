package core

import "errors"

// Business rejections callers are expected to branch on. Anything else coming
// out of a service is an infrastructure failure wrapped with %w.
var (
	// ErrInsufficientStock rejects an item addition whose quantity exceeds
	// the medicine's on-hand stock. No item is created and stock is untouched.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrPhoneTaken rejects a customer create/update whose phone collides
	// with any existing customer, active or inactive.
	ErrPhoneTaken = errors.New("phone number already in use")

	// ErrDiscountOutOfRange rejects discount percentages outside [0,100].
	ErrDiscountOutOfRange = errors.New("discount percentage must be between 0 and 100")

	// ErrReturnExceedsSold rejects a return quantity larger than what remains
	// returnable on the original line.
	ErrReturnExceedsSold = errors.New("return quantity exceeds quantity sold")

	// ErrEmptyReturn rejects a return where every quantity is zero.
	ErrEmptyReturn = errors.New("return has no items")

	// ErrInvalidStatus rejects a custom order status outside the enumerated set.
	ErrInvalidStatus = errors.New("invalid order status")
)
