package dto

import (
	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FinancialReportResponse is the rolled-up report over the chart of accounts.
type FinancialReportResponse struct {
	IncomeStatement IncomeStatementResponse `json:"incomeStatement"`
	BalanceSheet    BalanceSheetResponse    `json:"balanceSheet"`
}

// IncomeStatementResponse mirrors domain.IncomeStatement.
type IncomeStatementResponse struct {
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
	ProfitMargin  decimal.Decimal `json:"profitMargin"`
	ExpenseRatio  decimal.Decimal `json:"expenseRatio"`
}

// BalanceSheetResponse mirrors domain.BalanceSheet, including the discrepancy
// field so ledger imbalances stay visible to the caller.
type BalanceSheetResponse struct {
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	Discrepancy      decimal.Decimal `json:"discrepancy"`
	Balanced         bool            `json:"balanced"`
}

// ToFinancialReportResponse converts a domain report.
func ToFinancialReportResponse(r domain.FinancialReport) FinancialReportResponse {
	return FinancialReportResponse{
		IncomeStatement: IncomeStatementResponse{
			TotalRevenue:  r.IncomeStatement.TotalRevenue,
			TotalExpenses: r.IncomeStatement.TotalExpenses,
			NetIncome:     r.IncomeStatement.NetIncome,
			ProfitMargin:  r.IncomeStatement.ProfitMargin,
			ExpenseRatio:  r.IncomeStatement.ExpenseRatio,
		},
		BalanceSheet: BalanceSheetResponse{
			TotalAssets:      r.BalanceSheet.TotalAssets,
			TotalLiabilities: r.BalanceSheet.TotalLiabilities,
			TotalEquity:      r.BalanceSheet.TotalEquity,
			Discrepancy:      r.BalanceSheet.Discrepancy,
			Balanced:         r.BalanceSheet.Discrepancy.IsZero(),
		},
	}
}
