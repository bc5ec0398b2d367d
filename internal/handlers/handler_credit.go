package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sibgate/bankcore/internal/core/ports/services"
	"github.com/sibgate/bankcore/internal/dto"
	"github.com/sibgate/bankcore/internal/middleware"
)

// clientListParams binds the query parameters shared by per-client listings.
type clientListParams struct {
	ClientID string `form:"clientID" binding:"required"`
	Limit    int    `form:"limit,default=20"`
	Offset   int    `form:"offset,default=0"`
}

// creditHandler handles HTTP requests related to credit products and contracts.
type creditHandler struct {
	creditService portssvc.CreditSvcFacade
}

// newCreditHandler creates a new creditHandler.
func newCreditHandler(cs portssvc.CreditSvcFacade) *creditHandler {
	return &creditHandler{
		creditService: cs,
	}
}

// registerCreditRoutes registers routes related to credit products and contracts.
func registerCreditRoutes(rg *gin.RouterGroup, creditService portssvc.CreditSvcFacade) {
	h := newCreditHandler(creditService)

	products := rg.Group("/credit-products")
	{
		products.POST("", h.createCreditProduct)
		products.GET("", h.listCreditProducts)
		products.GET("/:id", h.getCreditProduct)
	}

	credits := rg.Group("/credits")
	{
		credits.POST("", h.createApplication)
		credits.GET("", h.listCredits)
		credits.GET("/:id", h.getCredit)
		credits.POST("/:id/submit", h.submitForReview)
		credits.POST("/:id/approve", h.approveCredit)
		credits.POST("/:id/reject", h.rejectCredit)
		credits.POST("/:id/disburse", h.disburseCredit)
		credits.GET("/:id/schedule", h.getSchedule)
		credits.GET("/:id/next-payment", h.getNextPayment)
		credits.GET("/:id/penalty", h.getPenalty)
		credits.GET("/:id/payments", h.listPayments)
		credits.POST("/:id/payments", h.makePayment)
		credits.GET("/:id/early-repayment", h.getEarlyRepaymentQuote)
		credits.POST("/:id/early-repayment", h.makeEarlyRepayment)
	}
}

// createCreditProduct godoc
// @Summary Create a credit product
// @Description Creates a new credit product defining amount, rate and term bounds
// @Tags credits
// @Accept  json
// @Produce  json
// @Param   product body dto.CreateCreditProductRequest true "Product details"
// @Success 201 {object} dto.CreditProductResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 500 {object} map[string]string "Failed to create credit product"
// @Router /credit-products [post]
func (h *creditHandler) createCreditProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCreditProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCreditProduct", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operatorID := middleware.GetOperatorIDFromContext(c)
	logger = logger.With(slog.String("operator_id", operatorID))
	logger.Info("Received request to create credit product", slog.String("name", req.Name))

	product, err := h.creditService.CreateCreditProduct(c.Request.Context(), req, operatorID)
	if err != nil {
		respondError(c, logger, err, "Failed to create credit product")
		return
	}

	logger.Info("Credit product created", slog.String("product_id", product.ProductID))
	c.JSON(http.StatusCreated, dto.ToCreditProductResponse(product))
}

// getCreditProduct godoc
// @Summary Get a credit product by ID
// @Tags credits
// @Produce  json
// @Param   id path string true "Product ID"
// @Success 200 {object} dto.CreditProductResponse
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Failed to retrieve credit product"
// @Router /credit-products/{id} [get]
func (h *creditHandler) getCreditProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("id")
	logger = logger.With(slog.String("product_id", productID))

	product, err := h.creditService.GetCreditProductByID(c.Request.Context(), productID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve credit product")
		return
	}

	c.JSON(http.StatusOK, dto.ToCreditProductResponse(product))
}

// listCreditProducts godoc
// @Summary List credit products
// @Description Lists credit products, optionally only active ones
// @Tags credits
// @Produce  json
// @Param   activeOnly query bool false "Only active products"
// @Success 200 {array} dto.CreditProductResponse
// @Failure 500 {object} map[string]string "Failed to list credit products"
// @Router /credit-products [get]
func (h *creditHandler) listCreditProducts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	activeOnly := c.Query("activeOnly") == "true"

	products, err := h.creditService.ListCreditProducts(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, logger, err, "Failed to list credit products")
		return
	}

	c.JSON(http.StatusOK, dto.ToListCreditProductResponse(products))
}

// createApplication godoc
// @Summary File a credit application
// @Description Files a new credit application validated against the product's bounds
// @Tags credits
// @Accept  json
// @Produce  json
// @Param   application body dto.CreateCreditApplicationRequest true "Application details"
// @Success 201 {object} dto.CreditResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Product or account not found"
// @Failure 500 {object} map[string]string "Failed to create application"
// @Router /credits [post]
func (h *creditHandler) createApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCreditApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateApplication", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operatorID := middleware.GetOperatorIDFromContext(c)
	logger = logger.With(slog.String("operator_id", operatorID), slog.String("client_id", req.ClientID))
	logger.Info("Received credit application", slog.String("product_id", req.ProductID), slog.String("amount", req.Amount.String()))

	credit, err := h.creditService.CreateApplication(c.Request.Context(), req, operatorID)
	if err != nil {
		respondError(c, logger, err, "Failed to create application")
		return
	}

	logger.Info("Credit application filed", slog.String("credit_id", credit.CreditID), slog.String("application_number", credit.ApplicationNumber))
	c.JSON(http.StatusCreated, dto.ToCreditResponse(credit))
}

// getCredit godoc
// @Summary Get a credit by ID
// @Tags credits
// @Produce  json
// @Param   id path string true "Credit ID"
// @Success 200 {object} dto.CreditResponse
// @Failure 404 {object} map[string]string "Credit not found"
// @Failure 500 {object} map[string]string "Failed to retrieve credit"
// @Router /credits/{id} [get]
func (h *creditHandler) getCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditID := c.Param("id")
	logger = logger.With(slog.String("credit_id", creditID))

	credit, err := h.creditService.GetCreditByID(c.Request.Context(), creditID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve credit")
		return
	}

	c.JSON(http.StatusOK, dto.ToCreditResponse(credit))
}

// listCredits godoc
// @Summary List credits for a client
// @Tags credits
// @Produce  json
// @Param   clientID query string true "Client ID"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {array} dto.CreditResponse
// @Failure 400 {object} map[string]string "Missing or invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list credits"
// @Router /credits [get]
func (h *creditHandler) listCredits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params clientListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListCredits", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	credits, err := h.creditService.ListCreditsByClient(c.Request.Context(), params.ClientID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, logger, err, "Failed to list credits")
		return
	}

	c.JSON(http.StatusOK, dto.ToListCreditResponse(credits))
}

// lifecycleTransition runs one state transition and writes the response.
func (h *creditHandler) lifecycleTransition(c *gin.Context, action string,
	fn func(ctx *gin.Context, creditID, operatorID string) error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditID := c.Param("id")
	operatorID := middleware.GetOperatorIDFromContext(c)
	logger = logger.With(slog.String("credit_id", creditID), slog.String("operator_id", operatorID))
	logger.Info("Received credit lifecycle request", slog.String("action", action))

	if err := fn(c, creditID, operatorID); err != nil {
		respondError(c, logger, err, "Failed to "+action+" credit")
	}
}

// submitForReview godoc
// @Summary Submit a credit application for review
// @Tags credits
// @Produce  json
// @Param   id path string true "Credit ID"
// @Success 200 {object} dto.CreditResponse
// @Failure 404 {object} map[string]string "Credit not found"
// @Failure 409 {object} map[string]string "Transition not allowed from current state"
// @Failure 500 {object} map[string]string "Failed to submit credit"
// @Router /credits/{id}/submit [post]
func (h *creditHandler) submitForReview(c *gin.Context) {
	h.lifecycleTransition(c, "submit", func(ctx *gin.Context, creditID, operatorID string) error {
		credit, err := h.creditService.SubmitForReview(ctx.Request.Context(), creditID, operatorID)
		if err != nil {
			return err
		}
		ctx.JSON(http.StatusOK, dto.ToCreditResponse(credit))
		return nil
	})
}

// approveCredit godoc
// @Summary Approve a reviewed credit application
// @Tags credits
// @Produce  json
// @Param   id path string true "Credit ID"
// @Success 200 {object} dto.CreditResponse
// @Failure 404 {object} map[string]string "Credit not found"
// @Failure 409 {object} map[string]string "Transition not allowed from current state"
// @Failure 500 {object} map[string]string "Failed to approve credit"
// @Router /credits/{id}/approve [post]
func (h *creditHandler) approveCredit(c *gin.Context) {
	h.lifecycleTransition(c, "approve", func(ctx *gin.Context, creditID, operatorID string) error {
		credit, err := h.creditService.ApproveCredit(ctx.Request.Context(), creditID, operatorID)
		if err != nil {
			return err
		}
		ctx.JSON(http.StatusOK, dto.ToCreditResponse(credit))
		return nil
	})
}

// rejectCredit godoc
// @Summary Reject a reviewed credit application
// @Tags credits
// @Accept  json
// @Produce  json
// @Param   id path string true "Credit ID"
// @Param   rejection body dto.RejectCreditRequest true "Rejection reason"
// @Success 200 {object} dto.CreditResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 404 {object} map[string]string "Credit not found"
// @Failure 409 {object} map[string]string "Transition not allowed from current state"
// @Failure 500 {object} map[string]string "Failed to reject credit"
// @Router /credits/{id}/reject [post]
func (h *creditHandler) rejectCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RejectCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RejectCredit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	h.lifecycleTransition(c, "reject", func(ctx *gin.Context, creditID, operatorID string) error {
		credit, err := h.creditService.RejectCredit(ctx.Request.Context(), creditID, req, operatorID)
		if err != nil {
			return err
		}
		ctx.JSON(http.StatusOK, dto.ToCreditResponse(credit))
		return nil
	})
}

// disburseCredit godoc
// @Summary Disburse an approved credit
// @Description Activates the credit and pays the principal out to the linked account
// @Tags credits
// @Produce  json
// @Param   id path string true "Credit ID"
// @Success 200 {object} dto.CreditResponse
// @Failure 404 {object} map[string]string "Credit not found"
// @Failure 409 {object} map[string]string "Transition not allowed from current state"
// @Failure 500 {object} map[string]string "Failed to disburse credit"
// @Router /credits/{id}/disburse [post]
func (h *creditHandler) disburseCredit(c *gin.Context) {
	h.lifecycleTransition(c, "disburse", func(ctx *gin.Context, creditID, operatorID string) error {
		credit, err := h.creditService.DisburseCredit(ctx.Request.Context(), creditID, operatorID)
		if err != nil {
			return err
		}
		ctx.JSON(http.StatusOK, dto.ToCreditResponse(credit))
		return nil
	})
}

// getSchedule godoc
// @Summary Get the amortization schedule for a credit
// @Tags credits
// @Produce  json
// @Param   id path string true "Credit ID"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 404 {object} map[string]string "Credit not found"
// @Failure 500 {object} map[string]string "Failed to compute schedule"
// @Router /credits/{id}/schedule [get]
func (h *creditHandler) getSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditID := c.Param("id")
	logger = logger.With(slog.String("credit_id", creditID))

	entries, err := h.creditService.GenerateSchedule(c.Request.Context(), creditID)
	if err != nil {
		respondError(c, logger, err, "Failed to compute schedule")
		return
	}

	resp := dto.ScheduleResponse{CreditID: creditID, Entries: make([]dto.ScheduleEntryResponse, len(entries))}
	for i, e := range entries {
		resp.Entries[i] = dto.ScheduleEntryResponse{
			PaymentNumber:    e.PaymentNumber,
			PaymentDate:      e.PaymentDate,
			PrincipalAmount:  e.PrincipalAmount,
			InterestAmount:   e.InterestAmount,
			TotalPayment:     e.TotalPayment,
			RemainingBalance: e.RemainingBalance,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// getNextPayment godoc
// @Summary Get the breakdown of the next scheduled payment
// @Tags credits
// @Produce  json
// @Param   id path string true "Credit ID"
// @Success 200 {object} dto.NextPaymentResponse
// @Failure 404 {object} map[string]string "Credit not found"
// @Failure 500 {object} map[string]string "Failed to compute next payment"
// @Router /credits/{id}/next-payment [get]
func (h *creditHandler) getNextPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditID := c.Param("id")
	logger = logger.With(slog.String("credit_id", creditID))

	next, err := h.creditService.CalculateNextPayment(c.Request.Context(), creditID)
	if err != nil {
		respondError(c, logger, err, "Failed to compute next payment")
		return
	}

	c.JSON(http.StatusOK, next)
}

// getPenalty godoc
// @Summary Get the penalty accrued on a credit's overdue amount
// @Tags credits
// @Produce  json
// @Param   id path string true "Credit ID"
// @Param   asOf query string false "Calculation date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Credit not found"
// @Failure 500 {object} map[string]string "Failed to compute penalty"
// @Router /credits/{id}/penalty [get]
func (h *creditHandler) getPenalty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditID := c.Param("id")
	logger = logger.With(slog.String("credit_id", creditID))

	asOf, ok := parseDateParam(c, "asOf")
	if !ok {
		return
	}

	penalty, err := h.creditService.CalculatePenalty(c.Request.Context(), creditID, asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to compute penalty")
		return
	}

	c.JSON(http.StatusOK, gin.H{"creditID": creditID, "penaltyAmount": penalty})
}

// listPayments godoc
// @Summary List payments made against a credit
// @Tags credits
// @Produce  json
// @Param   id path string true "Credit ID"
// @Success 200 {array} dto.CreditPaymentResponse
// @Failure 404 {object} map[string]string "Credit not found"
// @Failure 500 {object} map[string]string "Failed to list payments"
// @Router /credits/{id}/payments [get]
func (h *creditHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditID := c.Param("id")
	logger = logger.With(slog.String("credit_id", creditID))

	payments, err := h.creditService.ListPaymentsByCredit(c.Request.Context(), creditID)
	if err != nil {
		respondError(c, logger, err, "Failed to list payments")
		return
	}

	c.JSON(http.StatusOK, dto.ToListCreditPaymentResponse(payments))
}

// makePayment godoc
// @Summary Pay against a credit
// @Description Applies a payment: penalty first, then interest, then principal
// @Tags credits
// @Accept  json
// @Produce  json
// @Param   id path string true "Credit ID"
// @Param   payment body dto.MakeCreditPaymentRequest true "Payment details"
// @Success 201 {object} dto.CreditPaymentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Credit not found"
// @Failure 422 {object} map[string]string "Payment below the amount due"
// @Failure 500 {object} map[string]string "Failed to apply payment"
// @Router /credits/{id}/payments [post]
func (h *creditHandler) makePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditID := c.Param("id")

	var req dto.MakeCreditPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MakePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	operatorID := middleware.GetOperatorIDFromContext(c)
	logger = logger.With(slog.String("credit_id", creditID), slog.String("operator_id", operatorID))
	logger.Info("Received credit payment", slog.String("amount", req.Amount.String()))

	payment, err := h.creditService.MakePayment(c.Request.Context(), creditID, req, operatorID)
	if err != nil {
		respondError(c, logger, err, "Failed to apply payment")
		return
	}

	logger.Info("Credit payment applied", slog.String("payment_id", payment.PaymentID), slog.Int("payment_number", payment.PaymentNumber))
	c.JSON(http.StatusCreated, dto.ToCreditPaymentResponse(payment))
}

// getEarlyRepaymentQuote godoc
// @Summary Quote the full payoff amount for a credit
// @Tags credits
// @Produce  json
// @Param   id path string true "Credit ID"
// @Param   asOf query string false "Quote date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.EarlyRepaymentResponse
// @Failure 404 {object} map[string]string "Credit not found"
// @Failure 500 {object} map[string]string "Failed to quote early repayment"
// @Router /credits/{id}/early-repayment [get]
func (h *creditHandler) getEarlyRepaymentQuote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditID := c.Param("id")
	logger = logger.With(slog.String("credit_id", creditID))

	asOf, ok := parseDateParam(c, "asOf")
	if !ok {
		return
	}

	quote, err := h.creditService.CalculateEarlyRepayment(c.Request.Context(), creditID, asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to quote early repayment")
		return
	}

	c.JSON(http.StatusOK, quote)
}

// makeEarlyRepayment godoc
// @Summary Pay off a credit in full
// @Description Pays off the whole credit in one movement and closes it
// @Tags credits
// @Produce  json
// @Param   id path string true "Credit ID"
// @Success 201 {object} dto.CreditPaymentResponse
// @Failure 404 {object} map[string]string "Credit not found"
// @Failure 422 {object} map[string]string "Early repayment not allowed or insufficient funds"
// @Failure 500 {object} map[string]string "Failed to execute early repayment"
// @Router /credits/{id}/early-repayment [post]
func (h *creditHandler) makeEarlyRepayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditID := c.Param("id")
	operatorID := middleware.GetOperatorIDFromContext(c)
	logger = logger.With(slog.String("credit_id", creditID), slog.String("operator_id", operatorID))
	logger.Info("Received early repayment request")

	payment, err := h.creditService.MakeEarlyRepayment(c.Request.Context(), creditID, operatorID)
	if err != nil {
		respondError(c, logger, err, "Failed to execute early repayment")
		return
	}

	logger.Info("Early repayment executed", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusCreated, dto.ToCreditPaymentResponse(payment))
}
