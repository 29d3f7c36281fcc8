package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/LogixPH/logix_ops_app/internal/core/ports/services"
	"github.com/LogixPH/logix_ops_app/internal/dto"
	"github.com/LogixPH/logix_ops_app/internal/middleware"
)

// statementHandler handles statement reconciliation and billing payment routes.
type statementHandler struct {
	statementService portssvc.StatementSvcFacade
}

func newStatementHandler(ss portssvc.StatementSvcFacade) *statementHandler {
	return &statementHandler{statementService: ss}
}

// registerStatementRoutes registers statement and billing routes.
func registerStatementRoutes(rg *gin.RouterGroup, statementService portssvc.StatementSvcFacade) {
	h := newStatementHandler(statementService)

	statements := rg.Group("/statements")
	{
		statements.GET("", h.listStatements)
		statements.POST("/:ref/collect", h.collectStatement)
	}

	billings := rg.Group("/billings")
	{
		billings.GET("", h.listBillings)
		billings.GET("/:id", h.getBilling)
		billings.POST("/:id/payments", h.recordPayment)
	}
}

// listStatements godoc
// @Summary List open statements
// @Description Derives collectible statements from billed billing vouchers; recomputed on every call
// @Tags statements
// @Produce  json
// @Param   project query string false "Restrict to one project reference"
// @Success 200 {array} dto.StatementResponse
// @Security BearerAuth
// @Router /statements [get]
func (h *statementHandler) listStatements(c *gin.Context) {
	statements, err := h.statementService.ListOpenStatements(c.Request.Context(), c.Query("project"))
	if err != nil {
		respondServiceError(c, c.Request.Context(), err, "Failed to list statements")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatementResponses(statements, time.Now().UTC()))
}

// collectStatement godoc
// @Summary Collect a whole statement
// @Description Creates one collection voucher settling every member billing atomically
// @Tags statements
// @Accept  json
// @Produce  json
// @Param   ref path string true "Statement reference"
// @Param   collection body dto.CollectStatementRequest true "Collection details"
// @Success 201 {object} dto.VoucherResponse
// @Failure 404 {object} map[string]string "Statement not found or already settled"
// @Failure 409 {object} map[string]string "Statement changed concurrently"
// @Security BearerAuth
// @Router /statements/{ref}/collect [post]
func (h *statementHandler) collectStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CollectStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CollectStatement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}

	voucher, err := h.statementService.CollectStatement(c.Request.Context(), c.Param("ref"), req, ident)
	if err != nil {
		respondServiceError(c, c.Request.Context(), err, "Failed to collect statement")
		return
	}
	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher, time.Now().UTC()))
}

// listBillings godoc
// @Summary List billed billings
// @Description The receivable view of every billing voucher that has been posted
// @Tags billings
// @Produce  json
// @Success 200 {array} dto.BillingResponse
// @Security BearerAuth
// @Router /billings [get]
func (h *statementHandler) listBillings(c *gin.Context) {
	billings, err := h.statementService.ListBillings(c.Request.Context())
	if err != nil {
		respondServiceError(c, c.Request.Context(), err, "Failed to list billings")
		return
	}

	now := time.Now().UTC()
	out := make([]dto.BillingResponse, len(billings))
	for i, b := range billings {
		out[i] = dto.ToBillingResponse(b, now)
	}
	c.JSON(http.StatusOK, out)
}

// getBilling godoc
// @Summary Get a billing by voucher ID
// @Tags billings
// @Produce  json
// @Param   id path string true "Billing voucher ID"
// @Success 200 {object} dto.BillingResponse
// @Failure 404 {object} map[string]string "Billing not found"
// @Security BearerAuth
// @Router /billings/{id} [get]
func (h *statementHandler) getBilling(c *gin.Context) {
	billing, err := h.statementService.GetBilling(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, c.Request.Context(), err, "Failed to retrieve billing")
		return
	}
	c.JSON(http.StatusOK, dto.ToBillingResponse(*billing, time.Now().UTC()))
}

// recordPayment godoc
// @Summary Record a payment against a billing
// @Description The amount is re-validated against the stored amount due at write time
// @Tags billings
// @Accept  json
// @Produce  json
// @Param   id path string true "Billing voucher ID"
// @Param   payment body dto.RecordPaymentRequest true "Payment amount"
// @Success 200 {object} dto.BillingResponse
// @Failure 400 {object} map[string]string "Payment exceeds amount due"
// @Failure 409 {object} map[string]string "Balance changed concurrently"
// @Security BearerAuth
// @Router /billings/{id}/payments [post]
func (h *statementHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}

	billing, err := h.statementService.RecordPayment(c.Request.Context(), c.Param("id"), req, ident)
	if err != nil {
		respondServiceError(c, c.Request.Context(), err, "Failed to record payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToBillingResponse(*billing, time.Now().UTC()))
}
