package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sibgate/bankcore/internal/core/ports/services"
	"github.com/sibgate/bankcore/internal/dto"
	"github.com/sibgate/bankcore/internal/middleware"
)

// transferHandler handles HTTP requests related to money movement.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
}

// newTransferHandler creates a new transferHandler.
func newTransferHandler(ts portssvc.TransferSvcFacade) *transferHandler {
	return &transferHandler{
		transferService: ts,
	}
}

// registerTransferRoutes registers routes related to transfers and transactions.
func registerTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvcFacade) {
	h := newTransferHandler(transferService)

	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.executeTransfer)
	}

	transactions := rg.Group("/transactions")
	{
		transactions.GET("/:id", h.getTransaction)
		transactions.POST("/:id/cancel", h.cancelTransaction)
		transactions.GET("/by-reference/:reference", h.getTransactionByReference)
	}
}

// executeTransfer godoc
// @Summary Transfer money between accounts
// @Description Moves money between two accounts of the same currency atomically
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   transfer body dto.CreateTransferRequest true "Transfer details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account not active"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Failure 500 {object} map[string]string "Failed to execute transfer"
// @Router /transfers [post]
func (h *transferHandler) executeTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ExecuteTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operatorID := middleware.GetOperatorIDFromContext(c)
	logger = logger.With(
		slog.String("operator_id", operatorID),
		slog.String("from_account_id", req.FromAccountID),
		slog.String("to_account_id", req.ToAccountID),
	)
	logger.Info("Received request to execute transfer", slog.String("amount", req.Amount.String()))

	txn, err := h.transferService.ExecuteTransfer(c.Request.Context(), req, operatorID)
	if err != nil {
		respondError(c, logger, err, "Failed to execute transfer")
		return
	}

	logger.Info("Transfer executed", slog.String("transaction_id", txn.TransactionID), slog.String("reference_number", txn.ReferenceNumber))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Description Retrieves details for a specific transaction
// @Tags transfers
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Router /transactions/{id} [get]
func (h *transferHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")
	logger = logger.With(slog.String("transaction_id", transactionID))

	txn, err := h.transferService.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// getTransactionByReference godoc
// @Summary Get a transaction by reference number
// @Description Retrieves a transaction by its human-readable reference number
// @Tags transfers
// @Produce  json
// @Param   reference path string true "Reference number"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Router /transactions/by-reference/{reference} [get]
func (h *transferHandler) getTransactionByReference(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reference := c.Param("reference")
	logger = logger.With(slog.String("reference_number", reference))

	txn, err := h.transferService.GetTransactionByReference(c.Request.Context(), reference)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// cancelTransaction godoc
// @Summary Cancel a completed transaction
// @Description Reverses a completed transaction by applying the inverse balance changes
// @Tags transfers
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction not in a cancellable state"
// @Failure 500 {object} map[string]string "Failed to cancel transaction"
// @Router /transactions/{id}/cancel [post]
func (h *transferHandler) cancelTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")
	operatorID := middleware.GetOperatorIDFromContext(c)
	logger = logger.With(slog.String("transaction_id", transactionID), slog.String("operator_id", operatorID))
	logger.Info("Received request to cancel transaction")

	txn, err := h.transferService.CancelTransaction(c.Request.Context(), transactionID, operatorID)
	if err != nil {
		respondError(c, logger, err, "Failed to cancel transaction")
		return
	}

	logger.Info("Transaction cancelled")
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
