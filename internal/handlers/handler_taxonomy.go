package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LogixPH/logix_ops_app/internal/core/domain"
)

// registerTaxonomyRoutes exposes the fixed category taxonomy so voucher forms
// can populate their dropdowns. The tables live in code; there is no service
// or storage behind these routes.
func registerTaxonomyRoutes(rg *gin.RouterGroup) {
	taxonomy := rg.Group("/taxonomy")
	{
		taxonomy.GET("/expense-categories", listExpenseCategories)
		taxonomy.GET("/expense-categories/:category/subcategories", listSubCategories)
		taxonomy.GET("/revenue-categories", listRevenueCategories)
	}
}

// listExpenseCategories godoc
// @Summary List expense categories
// @Tags taxonomy
// @Produce  json
// @Success 200 {array} string
// @Security BearerAuth
// @Router /taxonomy/expense-categories [get]
func listExpenseCategories(c *gin.Context) {
	c.JSON(http.StatusOK, domain.ExpenseCategories())
}

// listSubCategories godoc
// @Summary List grouped sub-categories for an expense category
// @Description An unknown category returns an empty array, not an error
// @Tags taxonomy
// @Produce  json
// @Param   category path string true "Expense category"
// @Success 200 {array} domain.SubCategoryGroup
// @Security BearerAuth
// @Router /taxonomy/expense-categories/{category}/subcategories [get]
func listSubCategories(c *gin.Context) {
	c.JSON(http.StatusOK, domain.SubCategoriesFor(c.Param("category")))
}

// listRevenueCategories godoc
// @Summary List revenue categories for billing vouchers
// @Tags taxonomy
// @Produce  json
// @Success 200 {array} string
// @Security BearerAuth
// @Router /taxonomy/revenue-categories [get]
func listRevenueCategories(c *gin.Context) {
	c.JSON(http.StatusOK, domain.RevenueCategories())
}
