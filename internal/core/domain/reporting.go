package domain

import (
	"github.com/shopspring/decimal"
)

// IncomeStatement summarizes revenue against expenses.
type IncomeStatement struct {
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
	ProfitMargin  decimal.Decimal `json:"profitMargin"` // netIncome / totalRevenue, 0 when revenue is 0
	ExpenseRatio  decimal.Decimal `json:"expenseRatio"` // totalExpenses / totalRevenue, 0 when revenue is 0
}

// BalanceSheet summarizes assets against liabilities and equity. Net income is
// folded into equity as an implicit retained-earnings line; it is never
// persisted as its own account.
type BalanceSheet struct {
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	// Discrepancy is assets - (liabilities + equity). Non-zero means the
	// accounting identity does not hold for the input set, which indicates
	// upstream ledger corruption and must be surfaced, not masked.
	Discrepancy decimal.Decimal `json:"discrepancy"`
}

// FinancialReport is the full rolled-up view over the chart of accounts.
type FinancialReport struct {
	IncomeStatement IncomeStatement `json:"incomeStatement"`
	BalanceSheet    BalanceSheet    `json:"balanceSheet"`
}

// ratioScale fixes the precision of derived ratios.
const ratioScale = 4

// ComputeFinancialReport partitions accounts by type (folders excluded) and
// rolls balances up into an income statement and balance sheet.
func ComputeFinancialReport(accounts []Account) FinancialReport {
	totals := map[AccountType]decimal.Decimal{
		Asset:     decimal.Zero,
		Liability: decimal.Zero,
		Equity:    decimal.Zero,
		Income:    decimal.Zero,
		Expense:   decimal.Zero,
	}
	for _, acc := range accounts {
		if acc.IsFolder {
			continue
		}
		totals[acc.AccountType] = totals[acc.AccountType].Add(acc.Balance)
	}

	netIncome := totals[Income].Sub(totals[Expense])
	totalEquity := totals[Equity].Add(netIncome)

	income := IncomeStatement{
		TotalRevenue:  totals[Income],
		TotalExpenses: totals[Expense],
		NetIncome:     netIncome,
	}
	if totals[Income].IsPositive() {
		income.ProfitMargin = netIncome.DivRound(totals[Income], ratioScale)
		income.ExpenseRatio = totals[Expense].DivRound(totals[Income], ratioScale)
	} else {
		income.ProfitMargin = decimal.Zero
		income.ExpenseRatio = decimal.Zero
	}

	sheet := BalanceSheet{
		TotalAssets:      totals[Asset],
		TotalLiabilities: totals[Liability],
		TotalEquity:      totalEquity,
		Discrepancy:      totals[Asset].Sub(totals[Liability].Add(totalEquity)),
	}

	return FinancialReport{IncomeStatement: income, BalanceSheet: sheet}
}
