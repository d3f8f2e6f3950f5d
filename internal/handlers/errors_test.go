package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"wrapped product not found", fmt.Errorf("lookup: %w", apperrors.ErrProductNotFound), http.StatusNotFound},
		{"validation", fmt.Errorf("%w: name is required", apperrors.ErrValidation), http.StatusBadRequest},
		{"insufficient stock", &apperrors.InsufficientStockError{ProductID: "p", Available: 0, Requested: 1}, http.StatusBadRequest},
		{"over refund", &apperrors.OverRefundError{ProductID: "p"}, http.StatusBadRequest},
		{"already refunded", apperrors.ErrAlreadyRefunded, http.StatusBadRequest},
		{"invalid transition", &apperrors.InvalidTransitionError{Entity: "order", From: "pending", To: "delivered"}, http.StatusBadRequest},
		{"duplicate", apperrors.ErrDuplicate, http.StatusConflict},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"app error code wins", apperrors.NewAppError(http.StatusBadRequest, "invalid nextToken", errors.New("bad base64")), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
