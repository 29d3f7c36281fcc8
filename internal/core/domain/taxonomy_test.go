package domain_test

import (
	"testing"

	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubCategoriesFor_KnownCategory(t *testing.T) {
	groups := domain.SubCategoriesFor("Port Charges")
	require.NotEmpty(t, groups)

	var leaves []string
	for _, g := range groups {
		assert.NotEmpty(t, g.Label)
		leaves = append(leaves, g.Items...)
	}
	assert.Contains(t, leaves, "Demurrage")
}

func TestSubCategoriesFor_UnknownCategoryIsEmptyNotError(t *testing.T) {
	groups := domain.SubCategoriesFor("Not A Category")
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestExpenseAndRevenueCategoriesAreDisjoint(t *testing.T) {
	revenue := map[string]bool{}
	for _, c := range domain.RevenueCategories() {
		revenue[c] = true
	}
	for _, c := range domain.ExpenseCategories() {
		assert.False(t, revenue[c], "category %q appears in both sets", c)
	}
}

func TestExpenseCategoriesAllHaveSubCategories(t *testing.T) {
	for _, c := range domain.ExpenseCategories() {
		assert.NotEmpty(t, domain.SubCategoriesFor(c), "category %q", c)
	}
}
