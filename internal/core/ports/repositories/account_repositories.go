package repositories

import (
	"context"

	"github.com/LogixPH/logix_ops_app/internal/core/domain"
)

// ListAccountsFilter narrows a chart-of-accounts listing.
type ListAccountsFilter struct {
	AccountType    domain.AccountType // empty means all types
	ExcludeFolders bool
}

// AccountRepositoryFacade reads the chart of accounts maintained by the
// external ledger. This service never writes account balances.
type AccountRepositoryFacade interface {
	ListAccounts(ctx context.Context, filter ListAccountsFilter) ([]domain.Account, error)
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
}
