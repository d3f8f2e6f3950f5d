package domain_test

import (
	"errors"
	"testing"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

var allOrderStatuses = []domain.OrderStatus{
	domain.OrderPending,
	domain.OrderConfirmed,
	domain.OrderOnTheWay,
	domain.OrderDelivered,
	domain.OrderCancelled,
}

func TestOrderStatus_TransitionTable(t *testing.T) {
	allowed := map[domain.OrderStatus]map[domain.OrderStatus]bool{
		domain.OrderPending:   {domain.OrderConfirmed: true, domain.OrderCancelled: true},
		domain.OrderConfirmed: {domain.OrderOnTheWay: true, domain.OrderCancelled: true},
		domain.OrderOnTheWay:  {domain.OrderDelivered: true},
	}

	for _, from := range allOrderStatuses {
		for _, to := range allOrderStatuses {
			want := allowed[from][to]
			assert.Equal(t, want, from.CanTransition(to), "%s -> %s", from, to)

			err := from.ValidateTransition(to)
			if want {
				assert.NoError(t, err)
				continue
			}
			assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
			var te *apperrors.InvalidTransitionError
			if assert.True(t, errors.As(err, &te)) {
				assert.Equal(t, string(from), te.From)
				assert.Equal(t, string(to), te.To)
			}
		}
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, domain.OrderDelivered.IsTerminal())
	assert.True(t, domain.OrderCancelled.IsTerminal())
	assert.False(t, domain.OrderPending.IsTerminal())
	assert.False(t, domain.OrderStatus("lost").IsValid())
}

func TestPaymentStatus_IsValid(t *testing.T) {
	for _, s := range []domain.PaymentStatus{domain.PaymentPending, domain.PaymentPaid, domain.PaymentPartiallyPaid, domain.PaymentFailed} {
		assert.True(t, s.IsValid(), string(s))
	}
	assert.False(t, domain.PaymentStatus("refunded").IsValid())
}
