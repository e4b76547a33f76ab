package cart

import "errors"

var (
	errCartItemNotFound = errors.New("cart item not found")
	errInvalidQuantity  = errors.New("quantity must be at least 1")
	errEmptySessionID   = errors.New("session id is required")
)

func IsNotFound(err error) bool {
	return errors.Is(err, errCartItemNotFound)
}

func IsInvalidQuantity(err error) bool {
	return errors.Is(err, errInvalidQuantity)
}
