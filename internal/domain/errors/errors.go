package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAlreadyExists       = errors.New("already exists")
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidOrderNumber  = errors.New("invalid order number")
	ErrUnsupportedCurrency = errors.New("unsupported currency code")
	ErrRateUpstream        = errors.New("invalid data format from exchange API")
	ErrRateFetch           = errors.New("exchange rate source unavailable")
	ErrPricing             = errors.New("unable to calculate price")
	ErrPersistence         = errors.New("could not update order record")
)

// ValidationError reports caller input fields that were missing entirely.
type ValidationError struct {
	Missing []string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error - missing: [%s]", strings.Join(e.Missing, ", "))
}

// InvalidInputError reports a pricing input that failed domain validation.
type InvalidInputError struct {
	Field string
	Value string
}

func (e InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

// GatewayError carries the payment provider's own error message.
type GatewayError struct {
	Message string
}

func (e GatewayError) Error() string {
	return "payment gateway: " + e.Message
}
