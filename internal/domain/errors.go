package domain

import (
	"errors"
	"fmt"
)

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Withdrawal errors
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoPaymentMethod     = errors.New("no payment method selected")
	ErrUnknownMethod       = errors.New("unknown payment method")

	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrStatusTerminal      = errors.New("transaction status is terminal")

	// Payment gateway errors
	ErrPushDeclined     = errors.New("payment request declined")
	ErrPaymentCancelled = errors.New("payment cancelled by user")
	ErrPaymentFailed    = errors.New("payment failed")
	ErrPollTimeout      = errors.New("payment status polling timed out")

	// Activation errors
	ErrInvalidPhone = errors.New("invalid phone number")
)

// ValidationError reports bad user input on a withdrawal or activation
// request. It is surfaced inline (HTTP 400, CLI message) and never fatal.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validationf builds a ValidationError for a field.
func Validationf(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
