package services

import (
	"context"

	"github.com/beanline/coffee_backoffice/internal/cart"
)

// CartSvcFacade is the storefront cart. Every mutation is persisted before it returns.
type CartSvcFacade interface {
	Get(ctx context.Context, cartID string) (cart.State, error)
	AddItem(ctx context.Context, cartID, productID string, quantity int) (cart.State, error)
	SetQuantity(ctx context.Context, cartID, productID string, quantity int) (cart.State, error)
	RemoveItem(ctx context.Context, cartID, productID string) (cart.State, error)
	Clear(ctx context.Context, cartID string) (cart.State, error)
}

var _ CartSvcFacade = (*cart.Service)(nil)
