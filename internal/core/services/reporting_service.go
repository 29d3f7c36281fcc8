package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	portsrepo "github.com/LogixPH/logix_ops_app/internal/core/ports/repositories"
	portssvc "github.com/LogixPH/logix_ops_app/internal/core/ports/services"
)

// reportingService rolls the external ledger's chart of accounts up into
// report totals.
type reportingService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewReportingService creates a new reporting service.
func NewReportingService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.ReportingSvcFacade {
	return &reportingService{accountRepo: accountRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// FinancialReport computes the income statement and balance sheet from cached
// account balances. A non-zero discrepancy means the ledger itself is
// unbalanced; it is logged and returned, never hidden.
func (s *reportingService) FinancialReport(ctx context.Context) (*domain.FinancialReport, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, portsrepo.ListAccountsFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for financial report")
		return nil, fmt.Errorf("failed to retrieve accounts: %w", err)
	}

	report := domain.ComputeFinancialReport(accounts)
	if !report.BalanceSheet.Discrepancy.IsZero() {
		s.LogWarn(ctx, "Accounting identity does not hold for current ledger balances",
			slog.String("discrepancy", report.BalanceSheet.Discrepancy.String()))
	}

	s.LogInfo(ctx, "Financial report generated",
		slog.Int("account_count", len(accounts)),
		slog.String("net_income", report.IncomeStatement.NetIncome.String()))
	return &report, nil
}

// ListAccounts exposes the chart of accounts to the UI.
func (s *reportingService) ListAccounts(ctx context.Context, filter portsrepo.ListAccountsFilter) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, filter)
}

// GetAccountByID returns a single chart-of-accounts row.
func (s *reportingService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}
