package domain_test

import (
	"testing"

	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func account(accType domain.AccountType, balance int64, folder bool) domain.Account {
	return domain.Account{
		AccountType: accType,
		Balance:     decimal.NewFromInt(balance),
		IsFolder:    folder,
	}
}

func TestComputeFinancialReport_BalancedSet(t *testing.T) {
	// Equity of 5000 plus retained earnings of 2000 balances assets of 9000
	// against liabilities of 2000.
	accounts := []domain.Account{
		account(domain.Asset, 9000, false),
		account(domain.Liability, 2000, false),
		account(domain.Equity, 5000, false),
		account(domain.Income, 5000, false),
		account(domain.Expense, 3000, false),
	}

	report := domain.ComputeFinancialReport(accounts)

	assert.True(t, report.IncomeStatement.NetIncome.Equal(decimal.NewFromInt(2000)))
	assert.True(t, report.BalanceSheet.TotalEquity.Equal(decimal.NewFromInt(7000)))
	assert.True(t, report.BalanceSheet.TotalAssets.Equal(
		report.BalanceSheet.TotalLiabilities.Add(report.BalanceSheet.TotalEquity)))
	assert.True(t, report.BalanceSheet.Discrepancy.IsZero())
}

func TestComputeFinancialReport_UnbalancedSetSurfacesDiscrepancy(t *testing.T) {
	// Deliberately unbalanced: assets 10000 vs liabilities+equity 9000.
	accounts := []domain.Account{
		account(domain.Asset, 10000, false),
		account(domain.Liability, 2000, false),
		account(domain.Equity, 5000, false),
		account(domain.Income, 5000, false),
		account(domain.Expense, 3000, false),
	}

	report := domain.ComputeFinancialReport(accounts)

	assert.True(t, report.IncomeStatement.NetIncome.Equal(decimal.NewFromInt(2000)))
	assert.True(t, report.BalanceSheet.TotalEquity.Equal(decimal.NewFromInt(7000)))
	assert.True(t, report.BalanceSheet.Discrepancy.Equal(decimal.NewFromInt(1000)),
		"discrepancy was %s", report.BalanceSheet.Discrepancy)
}

func TestComputeFinancialReport_ExcludesFolders(t *testing.T) {
	accounts := []domain.Account{
		account(domain.Asset, 1000, false),
		account(domain.Asset, 99999, true), // folder, must not count
	}

	report := domain.ComputeFinancialReport(accounts)
	assert.True(t, report.BalanceSheet.TotalAssets.Equal(decimal.NewFromInt(1000)))
}

func TestComputeFinancialReport_ZeroRevenueGuardsRatios(t *testing.T) {
	accounts := []domain.Account{
		account(domain.Expense, 500, false),
	}

	report := domain.ComputeFinancialReport(accounts)

	assert.True(t, report.IncomeStatement.ProfitMargin.IsZero())
	assert.True(t, report.IncomeStatement.ExpenseRatio.IsZero())
	assert.True(t, report.IncomeStatement.NetIncome.Equal(decimal.NewFromInt(-500)))
}

func TestComputeFinancialReport_Ratios(t *testing.T) {
	accounts := []domain.Account{
		account(domain.Income, 10000, false),
		account(domain.Expense, 7500, false),
	}

	report := domain.ComputeFinancialReport(accounts)

	assert.True(t, report.IncomeStatement.ProfitMargin.Equal(decimal.NewFromFloat(0.25)),
		"margin was %s", report.IncomeStatement.ProfitMargin)
	assert.True(t, report.IncomeStatement.ExpenseRatio.Equal(decimal.NewFromFloat(0.75)),
		"ratio was %s", report.IncomeStatement.ExpenseRatio)
}
