package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	portsrepo "github.com/LogixPH/logix_ops_app/internal/core/ports/repositories"
	portssvc "github.com/LogixPH/logix_ops_app/internal/core/ports/services"
	"github.com/LogixPH/logix_ops_app/internal/dto"
)

// reportingHandler exposes financial reports and the chart of accounts.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers report and account routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	rg.GET("/reports/financial", h.financialReport)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
	}
}

// financialReport godoc
// @Summary Get the financial report
// @Description Income statement and balance sheet rolled up from ledger balances; imbalances surface as a non-zero discrepancy
// @Tags reports
// @Produce  json
// @Success 200 {object} dto.FinancialReportResponse
// @Security BearerAuth
// @Router /reports/financial [get]
func (h *reportingHandler) financialReport(c *gin.Context) {
	report, err := h.reportingService.FinancialReport(c.Request.Context())
	if err != nil {
		respondServiceError(c, c.Request.Context(), err, "Failed to generate financial report")
		return
	}
	c.JSON(http.StatusOK, dto.ToFinancialReportResponse(*report))
}

// listAccounts godoc
// @Summary List the chart of accounts
// @Tags accounts
// @Produce  json
// @Param   type query string false "Account type filter"
// @Param   excludeFolders query bool false "Drop folder rows" default(false)
// @Success 200 {array} dto.AccountResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *reportingHandler) listAccounts(c *gin.Context) {
	filter := portsrepo.ListAccountsFilter{
		AccountType:    domain.AccountType(c.Query("type")),
		ExcludeFolders: c.Query("excludeFolders") == "true",
	}
	accounts, err := h.reportingService.ListAccounts(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, c.Request.Context(), err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *reportingHandler) getAccount(c *gin.Context) {
	account, err := h.reportingService.GetAccountByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, c.Request.Context(), err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
