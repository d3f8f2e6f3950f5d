package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/beanline/coffee_backoffice/internal/core/ports/services"
	"github.com/beanline/coffee_backoffice/internal/dto"
	"github.com/beanline/coffee_backoffice/internal/middleware"
	"github.com/gin-gonic/gin"
)

// orderHandler handles back-office order management.
type orderHandler struct {
	orderService portssvc.OrderSvcFacade
}

// RegisterOrderRoutes registers the order routes.
func RegisterOrderRoutes(rg *gin.RouterGroup, orderService portssvc.OrderSvcFacade) {
	h := &orderHandler{orderService: orderService}

	orders := rg.Group("/orders")
	{
		orders.GET("", h.listOrders)
		orders.POST("", h.createOrder)
		orders.GET("/:orderID", h.getOrder)
		orders.PATCH("/:orderID", h.updateOrder)
	}
}

// createOrder godoc
// @Summary Create an order
// @Description Places a pending order priced from the catalogue. Stock is not reserved.
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   order body dto.CreateOrderRequest true "Order"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Product or customer not found"
// @Security BearerAuth
// @Router /orders [post]
func (h *orderHandler) createOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "create order request")
		return
	}
	staff, ok := staffID(c, logger)
	if !ok {
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), req, staff)
	if err != nil {
		respondError(c, logger, err, "Failed to create order")
		return
	}
	c.JSON(http.StatusCreated, dto.OrderResponse{Order: *order})
}

// updateOrder godoc
// @Summary Update an order's status
// @Description Moves an order along pending, confirmed, on_the_way, delivered (or cancelled) and/or sets its payment status
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Param   update body dto.UpdateOrderRequest true "New status and/or payment status"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} ErrorResponse "Validation error or invalid transition"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Order not found"
// @Security BearerAuth
// @Router /orders/{orderID} [patch]
func (h *orderHandler) updateOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("orderID")
	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "update order request")
		return
	}
	staff, ok := staffID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("order_id", orderID))
	logger.Info("Received order update")

	order, err := h.orderService.UpdateOrder(c.Request.Context(), orderID, req, staff)
	if err != nil {
		respondError(c, logger, err, "Failed to update order")
		return
	}
	c.JSON(http.StatusOK, dto.OrderResponse{Order: *order})
}

// getOrder godoc
// @Summary Get an order
// @Tags orders
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} ErrorResponse "Order not found"
// @Security BearerAuth
// @Router /orders/{orderID} [get]
func (h *orderHandler) getOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("orderID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve order")
		return
	}
	c.JSON(http.StatusOK, dto.OrderResponse{Order: *order})
}

// listOrders godoc
// @Summary List orders
// @Tags orders
// @Produce  json
// @Param   status query string false "Filter by status"
// @Param   limit query int false "Limit" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListOrdersResponse
// @Failure 400 {object} ErrorResponse "Unknown status"
// @Security BearerAuth
// @Router /orders [get]
func (h *orderHandler) listOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "list orders query")
		return
	}
	orders, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list orders")
		return
	}
	c.JSON(http.StatusOK, dto.ListOrdersResponse{Orders: orders})
}
