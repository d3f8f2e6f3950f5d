package services

import (
	"errors"
	"fmt"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
)

var clientErrors = []error{
	apperrors.ErrNotFound,
	apperrors.ErrValidation,
	apperrors.ErrDuplicate,
	apperrors.ErrConflict,
	apperrors.ErrUnauthorized,
	apperrors.ErrForbidden,
	apperrors.ErrInsufficientStock,
	apperrors.ErrOverRefund,
	apperrors.ErrAmountExceedsOriginal,
	apperrors.ErrAlreadyRefunded,
	apperrors.ErrInvalidState,
	apperrors.ErrInvalidTransition,
}

func isClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	var appErr *apperrors.AppError
	return errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 500
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}

// notFound keeps sentinel identity while naming the missing entity.
func notFound(err error, entity, id string) error {
	if errors.Is(err, apperrors.ErrProductNotFound) {
		return fmt.Errorf("%w: %s", apperrors.ErrProductNotFound, id)
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, entity, id)
	}
	return fmt.Errorf("failed to load %s %s: %w", entity, id, err)
}
