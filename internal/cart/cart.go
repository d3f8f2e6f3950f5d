// Package cart holds the storefront cart: a pure reducer over cart state and
// the stores that persist a cart snapshot between requests.
package cart

import (
	"encoding/json"
	"fmt"

	"github.com/beanline/coffee_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Product is the catalogue data a cart line needs to price itself.
type Product struct {
	ProductID string          `json:"productID"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// Item is one cart line.
type Item struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// State is the persisted cart snapshot. Total and ItemCount are derived from
// Items and are recomputed after every transition.
type State struct {
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// ActionType names a cart transition.
type ActionType string

const (
	ActionAdd         ActionType = "add"
	ActionRemove      ActionType = "remove"
	ActionSetQuantity ActionType = "set_quantity"
	ActionClear       ActionType = "clear"
)

// Action is a single cart transition. Product is used by add, ProductID by
// remove and set_quantity.
type Action struct {
	Type      ActionType
	Product   Product
	ProductID string
	Quantity  int
}

func AddItem(p Product, quantity int) Action {
	return Action{Type: ActionAdd, Product: p, ProductID: p.ProductID, Quantity: quantity}
}

func RemoveItem(productID string) Action {
	return Action{Type: ActionRemove, ProductID: productID}
}

func SetQuantity(productID string, quantity int) Action {
	return Action{Type: ActionSetQuantity, ProductID: productID, Quantity: quantity}
}

func Clear() Action {
	return Action{Type: ActionClear}
}

// Empty returns a cart with no lines.
func Empty() State {
	return State{Items: []Item{}, Total: decimal.Zero}
}

// Reduce applies a to s and returns the new state. s is never modified.
// Adding a product already in the cart sums the quantities; a quantity below
// one on add counts as one. Setting a quantity of zero or less removes the line.
func Reduce(s State, a Action) State {
	items := make([]Item, 0, len(s.Items)+1)
	items = append(items, s.Items...)

	switch a.Type {
	case ActionAdd:
		qty := a.Quantity
		if qty < 1 {
			qty = 1
		}
		merged := false
		for i := range items {
			if items[i].Product.ProductID == a.Product.ProductID {
				items[i].Quantity += qty
				merged = true
				break
			}
		}
		if !merged {
			items = append(items, Item{Product: a.Product, Quantity: qty})
		}
	case ActionRemove:
		items = without(items, a.ProductID)
	case ActionSetQuantity:
		if a.Quantity <= 0 {
			items = without(items, a.ProductID)
			break
		}
		for i := range items {
			if items[i].Product.ProductID == a.ProductID {
				items[i].Quantity = a.Quantity
				break
			}
		}
	case ActionClear:
		items = items[:0]
	}

	return withTotals(items)
}

func without(items []Item, productID string) []Item {
	out := items[:0]
	for _, it := range items {
		if it.Product.ProductID != productID {
			out = append(out, it)
		}
	}
	return out
}

func withTotals(items []Item) State {
	total := decimal.Zero
	count := 0
	for _, it := range items {
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		count += it.Quantity
	}
	return State{Items: items, Total: domain.RoundMoney(total), ItemCount: count}
}

// Rehydrate decodes a persisted snapshot. The stored total and item count are
// ignored and recomputed from the lines. Lines with a non-positive quantity
// are dropped and repeated products are merged into their first line.
func Rehydrate(data []byte) (State, error) {
	if len(data) == 0 {
		return Empty(), nil
	}
	var stored State
	if err := json.Unmarshal(data, &stored); err != nil {
		return Empty(), fmt.Errorf("decode cart snapshot: %w", err)
	}
	items := make([]Item, 0, len(stored.Items))
	index := make(map[string]int, len(stored.Items))
	for _, it := range stored.Items {
		if it.Quantity <= 0 || it.Product.ProductID == "" {
			continue
		}
		if i, ok := index[it.Product.ProductID]; ok {
			items[i].Quantity += it.Quantity
			continue
		}
		index[it.Product.ProductID] = len(items)
		items = append(items, it)
	}
	return withTotals(items), nil
}

// Snapshot encodes s for a Store.
func Snapshot(s State) ([]byte, error) {
	if s.Items == nil {
		s.Items = []Item{}
	}
	return json.Marshal(s)
}
