package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/beanline/coffee_backoffice/internal/apperrors"
	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/beanline/coffee_backoffice/internal/middleware"
)

// ProductLookup resolves catalogue data for cart lines.
type ProductLookup interface {
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)
}

// Service loads a cart, applies one action through Reduce and saves the result.
type Service struct {
	store    Store
	products ProductLookup
}

func NewService(store Store, products ProductLookup) *Service {
	return &Service{store: store, products: products}
}

// Get returns the cart, empty when it does not exist.
func (s *Service) Get(ctx context.Context, cartID string) (State, error) {
	if err := validateCartID(cartID); err != nil {
		return Empty(), err
	}
	data, err := s.store.Load(ctx, cartID)
	if err != nil {
		return Empty(), fmt.Errorf("load cart: %w", err)
	}
	return s.rehydrate(ctx, cartID, data), nil
}

// rehydrate replaces a corrupted snapshot with an empty cart rather than
// surfacing it to the shopper.
func (s *Service) rehydrate(ctx context.Context, cartID string, data []byte) State {
	state, err := Rehydrate(data)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Discarding unreadable cart snapshot", slog.String("cart_id", cartID), slog.String("error", err.Error()))
		return Empty()
	}
	return state
}

// AddItem adds quantity of a catalogue product, priced at its current price.
func (s *Service) AddItem(ctx context.Context, cartID, productID string, quantity int) (State, error) {
	if quantity > domain.MaxQuantity {
		return Empty(), fmt.Errorf("%w: quantity must not exceed %d", apperrors.ErrValidation, domain.MaxQuantity)
	}
	p, err := s.products.FindProductByID(ctx, productID)
	if err != nil {
		return Empty(), err
	}
	return s.Dispatch(ctx, cartID, AddItem(Product{ProductID: p.ProductID, Name: p.Name, Price: p.Price}, quantity))
}

func (s *Service) SetQuantity(ctx context.Context, cartID, productID string, quantity int) (State, error) {
	return s.Dispatch(ctx, cartID, SetQuantity(productID, quantity))
}

func (s *Service) RemoveItem(ctx context.Context, cartID, productID string) (State, error) {
	return s.Dispatch(ctx, cartID, RemoveItem(productID))
}

func (s *Service) Clear(ctx context.Context, cartID string) (State, error) {
	if err := validateCartID(cartID); err != nil {
		return Empty(), err
	}
	if err := s.store.Delete(ctx, cartID); err != nil {
		return Empty(), fmt.Errorf("clear cart: %w", err)
	}
	return Empty(), nil
}

// Dispatch applies a to the stored cart and persists the new state. Concurrent
// dispatches to the same cart are applied one after the other.
func (s *Service) Dispatch(ctx context.Context, cartID string, a Action) (State, error) {
	if err := validateCartID(cartID); err != nil {
		return Empty(), err
	}

	var next State
	err := s.store.Update(ctx, cartID, func(current []byte) ([]byte, error) {
		next = Reduce(s.rehydrate(ctx, cartID, current), a)
		for _, it := range next.Items {
			if it.Quantity > domain.MaxQuantity {
				return nil, fmt.Errorf("%w: quantity of %s must not exceed %d", apperrors.ErrValidation, it.Product.ProductID, domain.MaxQuantity)
			}
		}
		data, err := Snapshot(next)
		if err != nil {
			return nil, fmt.Errorf("encode cart: %w", err)
		}
		return data, nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrConflict) {
			return Empty(), err
		}
		return Empty(), fmt.Errorf("save cart: %w", err)
	}
	return next, nil
}

func validateCartID(cartID string) error {
	if strings.TrimSpace(cartID) == "" || len(cartID) > 64 {
		return fmt.Errorf("%w: invalid cart id", apperrors.ErrValidation)
	}
	return nil
}
