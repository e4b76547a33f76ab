package order

import (
	"errors"
	"strings"
)

var (
	errOrderNotFound          = errors.New("order not found")
	errEmptyCart              = errors.New("cart is empty")
	errMissingCustomerInfo    = errors.New("customer name, phone and address are required")
	errDeliveryDateOutOfRange = errors.New("delivery date outside the allowed window")
	errInvalidStatus          = errors.New("invalid status")
	errIllegalTransition      = errors.New("illegal status transition")
	errNoUpdatableFields      = errors.New("no updatable fields in request")
)

func IsNotFound(err error) bool {
	return errors.Is(err, errOrderNotFound)
}

func IsValidation(err error) bool {
	return errors.Is(err, errEmptyCart) ||
		errors.Is(err, errMissingCustomerInfo) ||
		errors.Is(err, errDeliveryDateOutOfRange) ||
		errors.Is(err, errInvalidStatus) ||
		errors.Is(err, errIllegalTransition) ||
		errors.Is(err, errNoUpdatableFields)
}

// IsPermissionDenied spots row-policy rejections on the insert path so the
// customer gets a contact-the-administrator message instead of a generic
// failure.
func IsPermissionDenied(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "permission denied") ||
		strings.Contains(msg, "row-level security")
}
