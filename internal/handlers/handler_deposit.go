package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sibgate/bankcore/internal/core/ports/services"
	"github.com/sibgate/bankcore/internal/dto"
	"github.com/sibgate/bankcore/internal/middleware"
)

// depositHandler handles HTTP requests related to deposits.
type depositHandler struct {
	depositService portssvc.DepositSvcFacade
}

// newDepositHandler creates a new depositHandler.
func newDepositHandler(ds portssvc.DepositSvcFacade) *depositHandler {
	return &depositHandler{
		depositService: ds,
	}
}

// registerDepositRoutes registers routes related to deposits.
func registerDepositRoutes(rg *gin.RouterGroup, depositService portssvc.DepositSvcFacade) {
	h := newDepositHandler(depositService)

	deposits := rg.Group("/deposits")
	{
		deposits.POST("", h.openDeposit)
		deposits.GET("", h.listDeposits)
		deposits.GET("/:id", h.getDeposit)
		deposits.GET("/:id/interest", h.getInterest)
		deposits.GET("/:id/interest-payments", h.listInterestPayments)
		deposits.POST("/:id/close", h.closeDeposit)
	}
}

// openDeposit godoc
// @Summary Open a deposit
// @Description Opens a new deposit funded from the linked account
// @Tags deposits
// @Accept  json
// @Produce  json
// @Param   deposit body dto.OpenDepositRequest true "Deposit details"
// @Success 201 {object} dto.DepositResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Insufficient funds"
// @Failure 500 {object} map[string]string "Failed to open deposit"
// @Router /deposits [post]
func (h *depositHandler) openDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.OpenDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for OpenDeposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operatorID := middleware.GetOperatorIDFromContext(c)
	logger = logger.With(slog.String("operator_id", operatorID), slog.String("client_id", req.ClientID))
	logger.Info("Received request to open deposit", slog.String("amount", req.Amount.String()), slog.String("deposit_type", string(req.DepositType)))

	deposit, err := h.depositService.OpenDeposit(c.Request.Context(), req, operatorID)
	if err != nil {
		respondError(c, logger, err, "Failed to open deposit")
		return
	}

	logger.Info("Deposit opened", slog.String("deposit_id", deposit.DepositID))
	c.JSON(http.StatusCreated, dto.ToDepositResponse(deposit))
}

// getDeposit godoc
// @Summary Get a deposit by ID
// @Tags deposits
// @Produce  json
// @Param   id path string true "Deposit ID"
// @Success 200 {object} dto.DepositResponse
// @Failure 404 {object} map[string]string "Deposit not found"
// @Failure 500 {object} map[string]string "Failed to retrieve deposit"
// @Router /deposits/{id} [get]
func (h *depositHandler) getDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	depositID := c.Param("id")
	logger = logger.With(slog.String("deposit_id", depositID))

	deposit, err := h.depositService.GetDepositByID(c.Request.Context(), depositID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve deposit")
		return
	}

	c.JSON(http.StatusOK, dto.ToDepositResponse(deposit))
}

// listDeposits godoc
// @Summary List deposits for a client
// @Tags deposits
// @Produce  json
// @Param   clientID query string true "Client ID"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {array} dto.DepositResponse
// @Failure 400 {object} map[string]string "Missing or invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list deposits"
// @Router /deposits [get]
func (h *depositHandler) listDeposits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params clientListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListDeposits", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	deposits, err := h.depositService.ListDepositsByClient(c.Request.Context(), params.ClientID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, logger, err, "Failed to list deposits")
		return
	}

	c.JSON(http.StatusOK, dto.ToListDepositResponse(deposits))
}

// getInterest godoc
// @Summary Calculate accrued interest for a deposit
// @Description Computes the Actual/365 interest for the open period without persisting anything
// @Tags deposits
// @Produce  json
// @Param   id path string true "Deposit ID"
// @Param   asOf query string false "Calculation date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Deposit not found"
// @Failure 500 {object} map[string]string "Failed to compute interest"
// @Router /deposits/{id}/interest [get]
func (h *depositHandler) getInterest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	depositID := c.Param("id")
	logger = logger.With(slog.String("deposit_id", depositID))

	asOf, ok := parseDateParam(c, "asOf")
	if !ok {
		return
	}

	interest, err := h.depositService.CalculateInterest(c.Request.Context(), depositID, asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to compute interest")
		return
	}

	c.JSON(http.StatusOK, gin.H{"depositID": depositID, "interestAmount": interest})
}

// listInterestPayments godoc
// @Summary List interest accruals for a deposit
// @Tags deposits
// @Produce  json
// @Param   id path string true "Deposit ID"
// @Success 200 {array} dto.DepositInterestPaymentResponse
// @Failure 404 {object} map[string]string "Deposit not found"
// @Failure 500 {object} map[string]string "Failed to list interest payments"
// @Router /deposits/{id}/interest-payments [get]
func (h *depositHandler) listInterestPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	depositID := c.Param("id")
	logger = logger.With(slog.String("deposit_id", depositID))

	payments, err := h.depositService.ListInterestPayments(c.Request.Context(), depositID)
	if err != nil {
		respondError(c, logger, err, "Failed to list interest payments")
		return
	}

	c.JSON(http.StatusOK, dto.ToListDepositInterestPaymentResponse(payments))
}

// closeDeposit godoc
// @Summary Close a deposit
// @Description Closes the deposit and pays its amount out to the linked account
// @Tags deposits
// @Produce  json
// @Param   id path string true "Deposit ID"
// @Success 200 {object} dto.DepositResponse
// @Failure 404 {object} map[string]string "Deposit not found"
// @Failure 409 {object} map[string]string "Deposit already closed"
// @Failure 500 {object} map[string]string "Failed to close deposit"
// @Router /deposits/{id}/close [post]
func (h *depositHandler) closeDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	depositID := c.Param("id")
	operatorID := middleware.GetOperatorIDFromContext(c)
	logger = logger.With(slog.String("deposit_id", depositID), slog.String("operator_id", operatorID))
	logger.Info("Received request to close deposit")

	deposit, err := h.depositService.CloseDeposit(c.Request.Context(), depositID, operatorID)
	if err != nil {
		respondError(c, logger, err, "Failed to close deposit")
		return
	}

	logger.Info("Deposit closed")
	c.JSON(http.StatusOK, dto.ToDepositResponse(deposit))
}
