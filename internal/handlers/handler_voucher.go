package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	portsrepo "github.com/LogixPH/logix_ops_app/internal/core/ports/repositories"
	portssvc "github.com/LogixPH/logix_ops_app/internal/core/ports/services"
	"github.com/LogixPH/logix_ops_app/internal/dto"
	"github.com/LogixPH/logix_ops_app/internal/middleware"
)

// voucherHandler handles HTTP requests related to vouchers.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
}

func newVoucherHandler(vs portssvc.VoucherSvcFacade) *voucherHandler {
	return &voucherHandler{voucherService: vs}
}

// registerVoucherRoutes registers routes related to vouchers.
func registerVoucherRoutes(rg *gin.RouterGroup, voucherService portssvc.VoucherSvcFacade) {
	h := newVoucherHandler(voucherService)

	vouchers := rg.Group("/vouchers")
	{
		vouchers.POST("", h.createDraft)
		vouchers.POST("/submit", h.submitVoucher)
		vouchers.POST("/auto-approve", h.autoApprove)
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/:id", h.getVoucher)
		vouchers.PUT("/:id", h.updateDraft)
		vouchers.DELETE("/:id", h.deleteVoucher)
		vouchers.POST("/:id/approve", h.approveVoucher)
		vouchers.POST("/:id/reject", h.rejectVoucher)
		vouchers.POST("/:id/post", h.postVoucher)
		vouchers.POST("/:id/disburse", h.disburseVoucher)
		vouchers.POST("/:id/cancel", h.cancelVoucher)
	}
}

// createDraft godoc
// @Summary Create a draft voucher
// @Description Stores a possibly-incomplete voucher; full validation happens on submission
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   voucher body dto.CreateVoucherRequest true "Voucher details"
// @Success 201 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /vouchers [post]
func (h *voucherHandler) createDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDraft", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}

	voucher, err := h.voucherService.CreateDraft(c.Request.Context(), req, ident)
	if err != nil {
		respondServiceError(c, c.Request.Context(), err, "Failed to create draft voucher")
		return
	}
	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher, time.Now().UTC()))
}

// submitVoucher godoc
// @Summary Submit a voucher for approval
// @Description Submits an existing draft (voucherID set) or a new voucher in one step
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   submission body dto.SubmitVoucherRequest true "Submission details"
// @Success 200 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Security BearerAuth
// @Router /vouchers/submit [post]
func (h *voucherHandler) submitVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubmitVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}

	voucher, err := h.voucherService.SubmitForApproval(c.Request.Context(), req, ident)
	if err != nil {
		respondServiceError(c, c.Request.Context(), err, "Failed to submit voucher")
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher, time.Now().UTC()))
}

// autoApprove godoc
// @Summary Submit and post a voucher in one action
// @Description Accounting fast path: validates like a submission and lands the voucher in POSTED
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   submission body dto.SubmitVoucherRequest true "Voucher form"
// @Success 200 {object} dto.VoucherResponse
// @Failure 403 {object} map[string]string "Caller lacks the auto-approve capability"
// @Security BearerAuth
// @Router /vouchers/auto-approve [post]
func (h *voucherHandler) autoApprove(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubmitVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AutoApprove", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}

	voucher, err := h.voucherService.AutoApprove(c.Request.Context(), req, ident)
	if err != nil {
		respondServiceError(c, c.Request.Context(), err, "Failed to auto-approve voucher")
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher, time.Now().UTC()))
}

// listVouchers godoc
// @Summary List vouchers
// @Description Pages through vouchers newest-first; filterable by type, status and project
// @Tags vouchers
// @Produce  json
// @Param   type query string false "Transaction type filter"
// @Param   status query string false "Status filter"
// @Param   project query string false "Project reference filter"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Opaque pagination cursor"
// @Success 200 {object} dto.ListVouchersResponse
// @Security BearerAuth
// @Router /vouchers [get]
func (h *voucherHandler) listVouchers(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	filter := portsrepo.ListVouchersFilter{
		TransactionType: domain.TransactionType(c.Query("type")),
		Status:          domain.VoucherStatus(c.Query("status")),
		ProjectRef:      c.Query("project"),
		Limit:           limit,
	}
	if token := c.Query("nextToken"); token != "" {
		filter.NextToken = &token
	}

	vouchers, nextToken, err := h.voucherService.ListVouchers(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, c.Request.Context(), err, "Failed to list vouchers")
		return
	}
	c.JSON(http.StatusOK, dto.ListVouchersResponse{
		Vouchers:  dto.ToVoucherResponses(vouchers, time.Now().UTC()),
		NextToken: nextToken,
	})
}

// getVoucher godoc
// @Summary Get a voucher by ID
// @Tags vouchers
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Security BearerAuth
// @Router /vouchers/{id} [get]
func (h *voucherHandler) getVoucher(c *gin.Context) {
	voucher, err := h.voucherService.GetVoucherByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, c.Request.Context(), err, "Failed to retrieve voucher")
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher, time.Now().UTC()))
}

// updateDraft godoc
// @Summary Edit a draft voucher
// @Description Only vouchers still in DRAFT are editable
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Param   voucher body dto.UpdateDraftRequest true "Fields to update"
// @Success 200 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Voucher is not in draft"
// @Security BearerAuth
// @Router /vouchers/{id} [put]
func (h *voucherHandler) updateDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateDraft", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}

	voucher, err := h.voucherService.UpdateDraft(c.Request.Context(), c.Param("id"), req, ident)
	if err != nil {
		respondServiceError(c, c.Request.Context(), err, "Failed to update draft voucher")
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher, time.Now().UTC()))
}

// deleteVoucher godoc
// @Summary Delete a voucher
// @Description Deleting a posted or disbursed voucher requires force=true
// @Tags vouchers
// @Param   id path string true "Voucher ID"
// @Param   force query bool false "Acknowledge deleting a posted voucher" default(false)
// @Success 204 "Deleted"
// @Failure 400 {object} map[string]string "Force flag required"
// @Security BearerAuth
// @Router /vouchers/{id} [delete]
func (h *voucherHandler) deleteVoucher(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))

	if err := h.voucherService.DeleteVoucher(c.Request.Context(), c.Param("id"), force, ident); err != nil {
		respondServiceError(c, c.Request.Context(), err, "Failed to delete voucher")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *voucherHandler) lifecycleAction(c *gin.Context, action func() (*domain.Voucher, error), fallbackMsg string) {
	voucher, err := action()
	if err != nil {
		respondServiceError(c, c.Request.Context(), err, fallbackMsg)
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher, time.Now().UTC()))
}

// approveVoucher godoc
// @Summary Approve a submitted voucher
// @Tags vouchers
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 403 {object} map[string]string "Caller lacks the approve capability"
// @Failure 409 {object} map[string]string "Voucher changed concurrently"
// @Security BearerAuth
// @Router /vouchers/{id}/approve [post]
func (h *voucherHandler) approveVoucher(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	h.lifecycleAction(c, func() (*domain.Voucher, error) {
		return h.voucherService.ApproveVoucher(c.Request.Context(), c.Param("id"), ident)
	}, "Failed to approve voucher")
}

// rejectVoucher godoc
// @Summary Reject a submitted voucher
// @Tags vouchers
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Security BearerAuth
// @Router /vouchers/{id}/reject [post]
func (h *voucherHandler) rejectVoucher(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	h.lifecycleAction(c, func() (*domain.Voucher, error) {
		return h.voucherService.RejectVoucher(c.Request.Context(), c.Param("id"), ident)
	}, "Failed to reject voucher")
}

// postVoucher godoc
// @Summary Post an approved voucher
// @Description Posting a billing voucher also marks it BILLED
// @Tags vouchers
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Security BearerAuth
// @Router /vouchers/{id}/post [post]
func (h *voucherHandler) postVoucher(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	h.lifecycleAction(c, func() (*domain.Voucher, error) {
		return h.voucherService.PostVoucher(c.Request.Context(), c.Param("id"), ident)
	}, "Failed to post voucher")
}

// disburseVoucher godoc
// @Summary Mark a posted voucher as disbursed
// @Tags vouchers
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Security BearerAuth
// @Router /vouchers/{id}/disburse [post]
func (h *voucherHandler) disburseVoucher(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	h.lifecycleAction(c, func() (*domain.Voucher, error) {
		return h.voucherService.DisburseVoucher(c.Request.Context(), c.Param("id"), ident)
	}, "Failed to disburse voucher")
}

// cancelVoucher godoc
// @Summary Cancel a voucher
// @Description Allowed from DRAFT, SUBMITTED and APPROVED
// @Tags vouchers
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Security BearerAuth
// @Router /vouchers/{id}/cancel [post]
func (h *voucherHandler) cancelVoucher(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	h.lifecycleAction(c, func() (*domain.Voucher, error) {
		return h.voucherService.CancelVoucher(c.Request.Context(), c.Param("id"), ident)
	}, "Failed to cancel voucher")
}
