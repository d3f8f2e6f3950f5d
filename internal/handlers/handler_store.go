package handlers

import (
	"log/slog"
	"net/http"

	"github.com/beanline/coffee_backoffice/internal/cart"
	portssvc "github.com/beanline/coffee_backoffice/internal/core/ports/services"
	"github.com/beanline/coffee_backoffice/internal/dto"
	"github.com/beanline/coffee_backoffice/internal/middleware"
	"github.com/gin-gonic/gin"
)

// storefrontActor is recorded as the creator of orders placed through checkout.
const storefrontActor = "storefront"

// storeHandler serves the public storefront cart.
type storeHandler struct {
	cartService  portssvc.CartSvcFacade
	orderService portssvc.OrderSvcFacade
}

// RegisterStoreRoutes registers the storefront routes. They do not require a
// staff token; limit is applied to every route of the group.
func RegisterStoreRoutes(r *gin.Engine, cartService portssvc.CartSvcFacade, orderService portssvc.OrderSvcFacade, limit gin.HandlerFunc) {
	h := &storeHandler{cartService: cartService, orderService: orderService}

	store := r.Group("/api/v1/store")
	if limit != nil {
		store.Use(limit)
	}
	carts := store.Group("/carts/:cartID")
	{
		carts.GET("", h.getCart)
		carts.DELETE("", h.clearCart)
		carts.POST("/items", h.addItem)
		carts.PUT("/items/:productID", h.setQuantity)
		carts.DELETE("/items/:productID", h.removeItem)
		carts.POST("/checkout", h.checkout)
	}
}

func (h *storeHandler) reply(c *gin.Context, state cart.State, err error, fallback string) {
	if err != nil {
		respondError(c, middleware.GetLoggerFromCtx(c.Request.Context()), err, fallback)
		return
	}
	c.JSON(http.StatusOK, state)
}

// getCart godoc
// @Summary Get a cart
// @Description Returns the cart snapshot; an unknown cart is empty
// @Tags store
// @Produce  json
// @Param   cartID path string true "Cart ID"
// @Success 200 {object} cart.State
// @Failure 429 {object} ErrorResponse "Too many requests"
// @Router /store/carts/{cartID} [get]
func (h *storeHandler) getCart(c *gin.Context) {
	state, err := h.cartService.Get(c.Request.Context(), c.Param("cartID"))
	h.reply(c, state, err, "Failed to load cart")
}

// addItem godoc
// @Summary Add a product to a cart
// @Tags store
// @Accept  json
// @Produce  json
// @Param   cartID path string true "Cart ID"
// @Param   item body dto.AddCartItemRequest true "Product and quantity"
// @Success 200 {object} cart.State
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Product not found"
// @Router /store/carts/{cartID}/items [post]
func (h *storeHandler) addItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "add cart item request")
		return
	}
	state, err := h.cartService.AddItem(c.Request.Context(), c.Param("cartID"), req.ProductID, req.Quantity)
	h.reply(c, state, err, "Failed to update cart")
}

// setQuantity godoc
// @Summary Set a cart line quantity
// @Description A quantity of zero or less removes the line
// @Tags store
// @Accept  json
// @Produce  json
// @Param   cartID path string true "Cart ID"
// @Param   productID path string true "Product ID"
// @Param   quantity body dto.SetCartQuantityRequest true "New quantity"
// @Success 200 {object} cart.State
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Router /store/carts/{cartID}/items/{productID} [put]
func (h *storeHandler) setQuantity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetCartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "set cart quantity request")
		return
	}
	state, err := h.cartService.SetQuantity(c.Request.Context(), c.Param("cartID"), c.Param("productID"), *req.Quantity)
	h.reply(c, state, err, "Failed to update cart")
}

// removeItem godoc
// @Summary Remove a product from a cart
// @Tags store
// @Produce  json
// @Param   cartID path string true "Cart ID"
// @Param   productID path string true "Product ID"
// @Success 200 {object} cart.State
// @Router /store/carts/{cartID}/items/{productID} [delete]
func (h *storeHandler) removeItem(c *gin.Context) {
	state, err := h.cartService.RemoveItem(c.Request.Context(), c.Param("cartID"), c.Param("productID"))
	h.reply(c, state, err, "Failed to update cart")
}

// clearCart godoc
// @Summary Empty a cart
// @Tags store
// @Produce  json
// @Param   cartID path string true "Cart ID"
// @Success 200 {object} cart.State
// @Router /store/carts/{cartID} [delete]
func (h *storeHandler) clearCart(c *gin.Context) {
	state, err := h.cartService.Clear(c.Request.Context(), c.Param("cartID"))
	h.reply(c, state, err, "Failed to clear cart")
}

// checkout godoc
// @Summary Check out a cart
// @Description Places a pending order for the cart's items, priced from the catalogue, then empties the cart
// @Tags store
// @Accept  json
// @Produce  json
// @Param   cartID path string true "Cart ID"
// @Param   checkout body dto.CheckoutCartRequest true "Customer and shipping details"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} ErrorResponse "Empty cart or invalid request"
// @Failure 404 {object} ErrorResponse "Product or customer not found"
// @Router /store/carts/{cartID}/checkout [post]
func (h *storeHandler) checkout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cartID := c.Param("cartID")
	var req dto.CheckoutCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "checkout request")
		return
	}

	state, err := h.cartService.Get(c.Request.Context(), cartID)
	if err != nil {
		respondError(c, logger, err, "Failed to load cart")
		return
	}
	if len(state.Items) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cart is empty"})
		return
	}

	items := make([]dto.OrderItemRequest, 0, len(state.Items))
	for _, item := range state.Items {
		items = append(items, dto.OrderItemRequest{ProductID: item.Product.ProductID, Quantity: item.Quantity})
	}
	order, err := h.orderService.CreateOrder(c.Request.Context(), dto.CreateOrderRequest{
		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
		Items:           items,
	}, storefrontActor)
	if err != nil {
		respondError(c, logger, err, "Failed to place order")
		return
	}

	if _, err := h.cartService.Clear(c.Request.Context(), cartID); err != nil {
		logger.Warn("Order placed but cart could not be cleared", slog.String("order_id", order.OrderID), slog.String("error", err.Error()))
	}
	logger.Info("Cart checked out", slog.String("order_id", order.OrderID), slog.String("order_number", order.OrderNumber))
	c.JSON(http.StatusCreated, dto.OrderResponse{Order: *order})
}
