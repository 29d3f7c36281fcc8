package models

import (
	"github.com/shopspring/decimal"
)

// Account is the database representation of a chart-of-accounts row. Balances
// are maintained by the external ledger; this service only reads them.
type Account struct {
	AccountID   string          `db:"account_id"`
	Code        string          `db:"code"`
	Name        string          `db:"name"`
	AccountType string          `db:"account_type"`
	IsFolder    bool            `db:"is_folder"`
	Balance     decimal.Decimal `db:"balance"`
	AuditFields
}
