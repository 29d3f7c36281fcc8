package services

import (
	"context"

	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	portsrepo "github.com/LogixPH/logix_ops_app/internal/core/ports/repositories"
)

// ReportingSvcFacade rolls the chart of accounts up into report totals.
type ReportingSvcFacade interface {
	FinancialReport(ctx context.Context) (*domain.FinancialReport, error)
	ListAccounts(ctx context.Context, filter portsrepo.ListAccountsFilter) ([]domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
}
