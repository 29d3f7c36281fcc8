package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherStatus mirrors domain.VoucherStatus at the persistence layer.
type VoucherStatus string

// Voucher is the database representation of a voucher row.
type Voucher struct {
	VoucherID       string          `db:"voucher_id"`
	VoucherNumber   string          `db:"voucher_number"` // unique index enforces collisions
	TransactionType string          `db:"transaction_type"`
	ExpenseSubtype  string          `db:"expense_subtype"`
	Category        string          `db:"category"`
	SubCategory     string          `db:"sub_category"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	Counterparty    string          `db:"counterparty"`
	ProjectRef      string          `db:"project_ref"`
	SourceAccountID string          `db:"source_account_id"`
	Status          VoucherStatus   `db:"status"`
	RequestorName   string          `db:"requestor_name"`
	PostedByName    string          `db:"posted_by_name"`
	PostedAt        *time.Time      `db:"posted_at"`

	InvoiceNumber string          `db:"invoice_number"`
	StatementRef  string          `db:"statement_ref"`
	DueDate       *time.Time      `db:"due_date"`
	AmountPaid    decimal.Decimal `db:"amount_paid"`
	BillingStatus string          `db:"billing_status"`

	AuditFields
}

// VoucherLineItem is the database representation of a voucher line item row.
type VoucherLineItem struct {
	LineItemID  string          `db:"line_item_id"`
	VoucherID   string          `db:"voucher_id"`
	Position    int             `db:"position"` // preserves the ordered sequence
	Particular  string          `db:"particular"`
	Description string          `db:"description"`
	Amount      decimal.Decimal `db:"amount"`
}

// VoucherLinkedBilling records how a collection voucher settles a billing voucher.
type VoucherLinkedBilling struct {
	CollectionVoucherID string          `db:"collection_voucher_id"`
	BillingVoucherID    string          `db:"billing_voucher_id"`
	Position            int             `db:"position"`
	Amount              decimal.Decimal `db:"amount"`
}
