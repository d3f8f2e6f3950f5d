package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/beanline/coffee_backoffice/internal/core/ports/services"
	"github.com/beanline/coffee_backoffice/internal/dto"
	"github.com/beanline/coffee_backoffice/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles till sales and refunds.
type transactionHandler struct {
	posService portssvc.POSSvcFacade
}

func newTransactionHandler(ps portssvc.POSSvcFacade) *transactionHandler {
	return &transactionHandler{posService: ps}
}

// RegisterTransactionRoutes registers the POS transaction routes.
func RegisterTransactionRoutes(rg *gin.RouterGroup, posService portssvc.POSSvcFacade) {
	h := newTransactionHandler(posService)

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:transactionID", h.getTransaction)
		txns.POST("/:transactionID/refund", h.refundTransaction)
	}
}

// createTransaction godoc
// @Summary Ring up a sale
// @Description Records a POS sale, decrements stock and writes the inventory ledger atomically
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreatePOSTransactionRequest true "Sale"
// @Success 201 {object} dto.CreatePOSTransactionResponse
// @Failure 400 {object} ErrorResponse "Validation error or insufficient stock"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Product or customer not found"
// @Failure 500 {object} ErrorResponse "Failed to create transaction"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePOSTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "create transaction request")
		return
	}
	staff, ok := staffID(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create POS transaction", slog.Int("item_count", len(req.Items)), slog.String("payment_method", string(req.PaymentMethod)))

	txn, err := h.posService.CreateTransaction(c.Request.Context(), req, staff)
	if err != nil {
		respondError(c, logger, err, "Failed to create transaction")
		return
	}

	logger.Info("POS transaction created", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToCreatePOSTransactionResponse(txn))
}

// refundTransaction godoc
// @Summary Refund a sale
// @Description Creates a refund transaction against a completed sale and restores stock for refunded items
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transactionID path string true "Original transaction ID"
// @Param   refund body dto.RefundRequest true "Refund"
// @Success 201 {object} dto.RefundResponse
// @Failure 400 {object} ErrorResponse "Validation error, over-refund or already refunded"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 500 {object} ErrorResponse "Failed to refund transaction"
// @Security BearerAuth
// @Router /transactions/{transactionID}/refund [post]
func (h *transactionHandler) refundTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")
	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err, "refund request")
		return
	}
	staff, ok := staffID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID))
	logger.Info("Received refund request", slog.String("amount", req.Amount.StringFixed(2)), slog.String("refund_type", string(req.RefundType)))

	refund, err := h.posService.RefundTransaction(c.Request.Context(), transactionID, req, staff)
	if err != nil {
		respondError(c, logger, err, "Failed to refund transaction")
		return
	}

	logger.Info("Refund created", slog.String("refund_id", refund.TransactionID))
	c.JSON(http.StatusCreated, dto.RefundResponse{Refund: *refund})
}

// getTransaction godoc
// @Summary Get a POS transaction
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} domain.POSTransaction
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	txn, err := h.posService.GetTransaction(c.Request.Context(), c.Param("transactionID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, txn)
}

// listTransactions godoc
// @Summary List POS transactions
// @Description Lists sales and refunds, newest first, with token pagination
// @Tags transactions
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListPOSTransactionsResponse
// @Failure 400 {object} ErrorResponse "Invalid token"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListPOSTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "list transactions query")
		return
	}
	resp, err := h.posService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}
