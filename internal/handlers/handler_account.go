package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sibgate/bankcore/internal/core/ports/services"
	"github.com/sibgate/bankcore/internal/dto"
	"github.com/sibgate/bankcore/internal/middleware"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService  portssvc.AccountSvcFacade
	transferService portssvc.TransferReaderSvc
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, ts portssvc.TransferReaderSvc) *accountHandler {
	return &accountHandler{
		accountService:  as,
		transferService: ts,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, transferService portssvc.TransferSvcFacade) {
	h := newAccountHandler(accountService, transferService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/:id/balance", h.getAccountBalance)
		accounts.GET("/:id/transactions", h.listAccountTransactions)
		accounts.PUT("/:id/status", h.updateAccountStatus)
		accounts.GET("/by-number/:number", h.getAccountByNumber)
	}
}

// createAccount godoc
// @Summary Open a new account
// @Description Opens a new account for a client with a generated account number
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operatorID := middleware.GetOperatorIDFromContext(c)
	logger = logger.With(slog.String("operator_id", operatorID), slog.String("client_id", req.ClientID))
	logger.Info("Received request to create account", slog.String("account_type", string(req.AccountType)), slog.String("currency_code", req.CurrencyCode))

	account, err := h.accountService.CreateAccount(c.Request.Context(), req, operatorID)
	if err != nil {
		respondError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Description Retrieves details for a specific account by its ID
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	logger = logger.With(slog.String("account_id", accountID))

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountByNumber godoc
// @Summary Get an account by its account number
// @Description Retrieves details for a specific account by its 20-digit number
// @Tags accounts
// @Produce  json
// @Param   number path string true "Account number"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Router /accounts/by-number/{number} [get]
func (h *accountHandler) getAccountByNumber(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	number := c.Param("number")
	logger = logger.With(slog.String("account_number", number))

	account, err := h.accountService.GetAccountByNumber(c.Request.Context(), number)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts for a client
// @Description Retrieves a paginated list of a client's accounts
// @Tags accounts
// @Produce  json
// @Param   clientID query string true "Client ID"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 400 {object} map[string]string "Missing or invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListAccounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("client_id", params.ClientID))

	accounts, err := h.accountService.ListAccountsByClient(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// getAccountBalance godoc
// @Summary Get an account's balance
// @Description Retrieves the current and available balance of an account
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve balance"
// @Router /accounts/{id}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	logger = logger.With(slog.String("account_id", accountID))

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve balance")
		return
	}

	c.JSON(http.StatusOK, dto.AccountBalanceResponse{
		AccountID:        account.AccountID,
		Balance:          account.Balance,
		AvailableBalance: account.AvailableBalance(),
		CurrencyCode:     account.CurrencyCode,
	})
}

// listAccountTransactions godoc
// @Summary List transactions for an account
// @Description Retrieves a page of the account's transactions, newest first
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Continuation token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Router /accounts/{id}/transactions [get]
func (h *accountHandler) listAccountTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")
	logger = logger.With(slog.String("account_id", accountID))

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListAccountTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.transferService.ListTransactionsByAccount(c.Request.Context(), accountID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, page)
}

// updateAccountStatus godoc
// @Summary Update an account's status
// @Description Transitions the account lifecycle state (active, blocked, closed, dormant)
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   status body dto.UpdateAccountStatusRequest true "Target status"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Transition not allowed from current state"
// @Failure 500 {object} map[string]string "Failed to update account status"
// @Router /accounts/{id}/status [put]
func (h *accountHandler) updateAccountStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	var req dto.UpdateAccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccountStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operatorID := middleware.GetOperatorIDFromContext(c)
	logger = logger.With(slog.String("account_id", accountID), slog.String("operator_id", operatorID))
	logger.Info("Received request to update account status", slog.String("target_status", string(req.Status)))

	account, err := h.accountService.UpdateAccountStatus(c.Request.Context(), accountID, req.Status, operatorID)
	if err != nil {
		respondError(c, logger, err, "Failed to update account status")
		return
	}

	logger.Info("Account status updated", slog.String("status", string(account.Status)))
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
