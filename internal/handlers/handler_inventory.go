package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/beanline/coffee_backoffice/internal/core/ports/services"
	"github.com/beanline/coffee_backoffice/internal/dto"
	"github.com/beanline/coffee_backoffice/internal/middleware"
	"github.com/gin-gonic/gin"
)

type inventoryHandler struct {
	inventoryService portssvc.InventorySvcFacade
	productService   portssvc.ProductSvcFacade
}

// RegisterInventoryRoutes registers stock correction and stock report routes.
func RegisterInventoryRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade, productService portssvc.ProductSvcFacade) {
	h := &inventoryHandler{inventoryService: inventoryService, productService: productService}

	inv := rg.Group("/inventory")
	{
		inv.POST("/adjust", h.adjustStock)
		inv.GET("/low-stock", h.listLowStock)
	}
	rg.GET("/products/:productID/movements", h.listMovements)
}

// adjustStock godoc
// @Summary Adjust stock
// @Description Applies a manual increase, decrease or set to a product's stock and records the ledger entry
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   adjustment body dto.AdjustInventoryRequest true "Adjustment"
// @Success 200 {object} dto.AdjustInventoryResponse
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Product not found"
// @Failure 500 {object} ErrorResponse "Failed to adjust inventory"
// @Security BearerAuth
// @Router /inventory/adjust [post]
func (h *inventoryHandler) adjustStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AdjustInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "inventory adjustment")
		return
	}
	staff, ok := staffID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("product_id", req.ProductID))
	logger.Info("Received inventory adjustment", slog.String("type", string(req.Type)), slog.Int("quantity", *req.Quantity))

	resp, err := h.inventoryService.AdjustStock(c.Request.Context(), req, staff)
	if err != nil {
		respondError(c, logger, err, "Failed to adjust inventory")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listLowStock godoc
// @Summary List low-stock products
// @Description Products at or below their minimum stock level, lowest first
// @Tags inventory
// @Produce  json
// @Param   limit query int false "Maximum number of products" default(20)
// @Success 200 {object} dto.ListProductsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /inventory/low-stock [get]
func (h *inventoryHandler) listLowStock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
		return
	}
	products, err := h.productService.ListLowStockProducts(c.Request.Context(), limit)
	if err != nil {
		respondError(c, logger, err, "Failed to list low stock products")
		return
	}
	c.JSON(http.StatusOK, dto.ListProductsResponse{Products: products})
}

// listMovements godoc
// @Summary List a product's stock movements
// @Tags inventory
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListMovementsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Product not found"
// @Security BearerAuth
// @Router /products/{productID}/movements [get]
func (h *inventoryHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "list movements query")
		return
	}
	resp, err := h.inventoryService.ListMovements(c.Request.Context(), c.Param("productID"), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list stock movements")
		return
	}
	c.JSON(http.StatusOK, resp)
}
