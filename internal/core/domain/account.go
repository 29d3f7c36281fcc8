package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Account is a read-only projection of the external ledger's chart of
// accounts. Balances are cached by the ledger and non-negative by convention;
// the sign is implied by the account type, not stored.
type Account struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"` // user-facing account code
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	IsFolder    bool            `json:"isFolder"` // organizational node, excluded from totals
	Balance     decimal.Decimal `json:"balance"`
	AuditFields
}
