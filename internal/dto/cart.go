package dto

// AddCartItemRequest adds a product to a storefront cart. Name and price are
// resolved from the catalogue.
type AddCartItemRequest struct {
	ProductID string `json:"productID" binding:"required"`
	Quantity  int    `json:"quantity" binding:"lte=2147483647"`
}

// SetCartQuantityRequest overwrites a line quantity. Zero or less removes the line.
type SetCartQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,lte=2147483647"`
}

// CheckoutCartRequest turns a storefront cart into a pending order.
type CheckoutCartRequest struct {
	CustomerID      *string `json:"customerID,omitempty"`
	CustomerName    string  `json:"customerName" binding:"required"`
	CustomerEmail   string  `json:"customerEmail" binding:"required,email"`
	ShippingAddress string  `json:"shippingAddress" binding:"required"`
	Notes           string  `json:"notes,omitempty"`
}
