package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

var (
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")
)

// Business rule errors raised by the POS, refund, inventory and order workflows.
var (
	ErrProductNotFound       = fmt.Errorf("product %w", ErrNotFound)
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrOverRefund            = errors.New("refund quantity exceeds refundable quantity")
	ErrAmountExceedsOriginal = errors.New("refund amount exceeds original transaction total")
	ErrAlreadyRefunded       = errors.New("transaction already refunded")
	ErrInvalidState          = errors.New("invalid state")
	ErrInvalidTransition     = errors.New("invalid status transition")
)

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError builds an AppError. err may be nil.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// InsufficientStockError names the product and quantities that failed the stock check.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d", e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// OverRefundError reports a per-item refund quantity above what is still refundable.
type OverRefundError struct {
	ProductID  string
	Refundable int
	Requested  int
}

func (e *OverRefundError) Error() string {
	return fmt.Sprintf("cannot refund %d of product %s: only %d refundable", e.Requested, e.ProductID, e.Refundable)
}

func (e *OverRefundError) Unwrap() error {
	return ErrOverRefund
}

// AmountExceedsOriginalError reports a refund amount above the remaining refundable total.
type AmountExceedsOriginalError struct {
	Requested  decimal.Decimal
	Refundable decimal.Decimal
}

func (e *AmountExceedsOriginalError) Error() string {
	return fmt.Sprintf("refund amount %s exceeds refundable amount %s", e.Requested.StringFixed(2), e.Refundable.StringFixed(2))
}

func (e *AmountExceedsOriginalError) Unwrap() error {
	return ErrAmountExceedsOriginal
}

// InvalidTransitionError names the current and requested states of a rejected transition.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move %s from %s to %s", e.Entity, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
