package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/beanline/coffee_backoffice/internal/core/ports/services"
	"github.com/beanline/coffee_backoffice/internal/dto"
	"github.com/beanline/coffee_backoffice/internal/middleware"
	"github.com/gin-gonic/gin"
)

type catalogueHandler struct {
	productService  portssvc.ProductSvcFacade
	customerService portssvc.CustomerSvcFacade
}

// RegisterCatalogueRoutes registers product and customer routes.
func RegisterCatalogueRoutes(rg *gin.RouterGroup, productService portssvc.ProductSvcFacade, customerService portssvc.CustomerSvcFacade) {
	h := &catalogueHandler{productService: productService, customerService: customerService}

	products := rg.Group("/products")
	{
		products.GET("", h.listProducts)
		products.POST("", h.createProduct)
		products.GET("/:productID", h.getProduct)
	}

	customers := rg.Group("/customers")
	{
		customers.GET("", h.listCustomers)
		customers.POST("", h.createCustomer)
		customers.GET("/:customerID", h.getCustomer)
	}
}

// createProduct godoc
// @Summary Create a product
// @Description Adds a product to the catalogue. A positive initial stock is booked as a purchase in the ledger.
// @Tags products
// @Accept  json
// @Produce  json
// @Param   product body dto.CreateProductRequest true "Product"
// @Success 201 {object} domain.Product
// @Failure 400 {object} ErrorResponse "Validation error"
// @Security BearerAuth
// @Router /products [post]
func (h *catalogueHandler) createProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "create product request")
		return
	}
	creator, ok := staffID(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create product", slog.String("name", req.Name))
	product, err := h.productService.CreateProduct(c.Request.Context(), req, creator)
	if err != nil {
		respondError(c, logger, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

// getProduct godoc
// @Summary Get a product
// @Tags products
// @Produce  json
// @Param   productID path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} ErrorResponse "Product not found"
// @Security BearerAuth
// @Router /products/{productID} [get]
func (h *catalogueHandler) getProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("productID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// listProducts godoc
// @Summary List products
// @Tags products
// @Produce  json
// @Param   search query string false "Name or brand contains"
// @Param   category query string false "Category"
// @Param   inStock query bool false "Only products in stock"
// @Param   limit query int false "Limit" default(50)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListProductsResponse
// @Security BearerAuth
// @Router /products [get]
func (h *catalogueHandler) listProducts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListProductsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "list products query")
		return
	}
	products, err := h.productService.ListProducts(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, dto.ListProductsResponse{Products: products})
}

// createCustomer godoc
// @Summary Register a customer
// @Tags customers
// @Accept  json
// @Produce  json
// @Param   customer body dto.CreateCustomerRequest true "Customer"
// @Success 201 {object} domain.Customer
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Security BearerAuth
// @Router /customers [post]
func (h *catalogueHandler) createCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "create customer request")
		return
	}
	creator, ok := staffID(c, logger)
	if !ok {
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), req, creator)
	if err != nil {
		respondError(c, logger, err, "Failed to create customer")
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// getCustomer godoc
// @Summary Get a customer
// @Tags customers
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Success 200 {object} domain.Customer
// @Failure 404 {object} ErrorResponse "Customer not found"
// @Security BearerAuth
// @Router /customers/{customerID} [get]
func (h *catalogueHandler) getCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customer, err := h.customerService.GetCustomer(c.Request.Context(), c.Param("customerID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// listCustomers godoc
// @Summary List customers
// @Tags customers
// @Produce  json
// @Param   limit query int false "Limit" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListCustomersResponse
// @Security BearerAuth
// @Router /customers [get]
func (h *catalogueHandler) listCustomers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListCustomersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "list customers query")
		return
	}
	customers, err := h.customerService.ListCustomers(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list customers")
		return
	}
	c.JSON(http.StatusOK, dto.ListCustomersResponse{Customers: customers})
}
