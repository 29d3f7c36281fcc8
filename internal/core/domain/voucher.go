package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies which kind of money movement a voucher records.
// Immutable after creation.
type TransactionType string

const (
	TransactionExpense       TransactionType = "EXPENSE"
	TransactionBudgetRequest TransactionType = "BUDGET_REQUEST"
	TransactionCashAdvance   TransactionType = "CASH_ADVANCE"
	TransactionBilling       TransactionType = "BILLING"
	TransactionCollection    TransactionType = "COLLECTION"
)

// ExpenseSubtype further classifies expense vouchers. Only meaningful when
// TransactionType is EXPENSE.
type ExpenseSubtype string

const (
	RegularExpense  ExpenseSubtype = "REGULAR_EXPENSE"
	BillableExpense ExpenseSubtype = "BILLABLE_EXPENSE"
)

// VoucherStatus drives the approval/posting lifecycle.
type VoucherStatus string

const (
	StatusDraft     VoucherStatus = "DRAFT"
	StatusSubmitted VoucherStatus = "SUBMITTED"
	StatusApproved  VoucherStatus = "APPROVED"
	StatusPosted    VoucherStatus = "POSTED"
	StatusDisbursed VoucherStatus = "DISBURSED"
	StatusRejected  VoucherStatus = "REJECTED"
	StatusCancelled VoucherStatus = "CANCELLED"
)

// BillingStatus tracks whether a billing voucher has been recognized as a
// receivable. Only billed vouchers participate in statement reconciliation.
type BillingStatus string

const (
	BillingPending BillingStatus = "PENDING"
	BillingBilled  BillingStatus = "BILLED"
)

// LineItem is a single particular on a voucher.
type LineItem struct {
	LineItemID  string          `json:"lineItemID"`
	Particular  string          `json:"particular"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// LinkedBilling records how much of a collection voucher settles a specific
// billing voucher. Only present on COLLECTION vouchers.
type LinkedBilling struct {
	BillingVoucherID string          `json:"billingVoucherID"`
	Amount           decimal.Decimal `json:"amount"`
}

// Voucher is the universal transaction record underlying expenses, budget
// requests, cash advances, billings and collections.
type Voucher struct {
	VoucherID       string          `json:"voucherID"`
	VoucherNumber   string          `json:"voucherNumber"` // EVRN{YYYYMMDD}-{NNN}, unique
	TransactionType TransactionType `json:"transactionType"`
	ExpenseSubtype  ExpenseSubtype  `json:"expenseSubtype,omitempty"`
	Category        string          `json:"category,omitempty"`
	SubCategory     string          `json:"subCategory,omitempty"`
	LineItems       []LineItem      `json:"lineItems"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Counterparty    string          `json:"counterparty"` // vendor, payer or client name
	ProjectRef      string          `json:"projectRef,omitempty"`
	SourceAccountID string          `json:"sourceAccountID,omitempty"`
	LinkedBillings  []LinkedBilling `json:"linkedBillings,omitempty"`
	Status          VoucherStatus   `json:"status"`
	RequestorName   string          `json:"requestorName"`
	PostedByName    string          `json:"postedByName,omitempty"`
	PostedAt        *time.Time      `json:"postedAt,omitempty"`

	// Billing-only fields, zero-valued for other transaction types.
	InvoiceNumber string          `json:"invoiceNumber,omitempty"`
	StatementRef  string          `json:"statementRef,omitempty"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	BillingStatus BillingStatus   `json:"billingStatus,omitempty"`

	AuditFields
}

// AmountTolerance is the currency-unit precision used when comparing derived
// amounts. Sums within this tolerance are considered equal.
var AmountTolerance = decimal.NewFromFloat(0.01)

// SumLineItems returns the total of all line item amounts.
func SumLineItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(li.Amount)
	}
	return total
}

// SumLinkedBillings returns the total allocated across linked billings.
func SumLinkedBillings(links []LinkedBilling) decimal.Decimal {
	total := decimal.Zero
	for _, lb := range links {
		total = total.Add(lb.Amount)
	}
	return total
}

// ComputedTotal derives the voucher total from its canonical source: linked
// billings for statement-sourced collections, line items for everything else.
func (v Voucher) ComputedTotal() decimal.Decimal {
	if v.TransactionType == TransactionCollection && len(v.LinkedBillings) > 0 {
		return SumLinkedBillings(v.LinkedBillings)
	}
	return SumLineItems(v.LineItems)
}

// TotalMatches reports whether the stored TotalAmount agrees with the derived
// total within AmountTolerance.
func (v Voucher) TotalMatches() bool {
	return v.TotalAmount.Sub(v.ComputedTotal()).Abs().LessThanOrEqual(AmountTolerance)
}

// HasValidLineItem reports whether at least one line item carries a
// non-empty particular and a positive amount.
func (v Voucher) HasValidLineItem() bool {
	for _, li := range v.LineItems {
		if li.Particular != "" && li.Amount.IsPositive() {
			return true
		}
	}
	return false
}

// legalTransitions lists, per current status, the statuses a voucher may move to.
var legalTransitions = map[VoucherStatus][]VoucherStatus{
	StatusDraft:     {StatusSubmitted, StatusCancelled},
	StatusSubmitted: {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:  {StatusPosted, StatusCancelled},
	StatusPosted:    {StatusDisbursed},
}

// CanTransition reports whether moving a voucher from one status to another
// is a legal lifecycle transition.
func CanTransition(from, to VoucherStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status permits no further transitions.
func IsTerminal(s VoucherStatus) bool {
	return len(legalTransitions[s]) == 0
}

// IsTerminalSuccess reports whether a voucher reached a success end state,
// meaning downstream ledger entries may already reference it.
func IsTerminalSuccess(s VoucherStatus) bool {
	return s == StatusPosted || s == StatusDisbursed
}

// SubmitRequirements captures which fields a transaction type needs beyond a
// valid line item before it can be submitted for approval. Kept as data so the
// required-field matrix is testable on its own.
type SubmitRequirements struct {
	Category     bool
	Counterparty bool
	// StatementOrLines relaxes the line item rule: a statement-linked
	// collection satisfies it through its linked billings instead.
	StatementOrLines bool
}

var submitRequirements = map[TransactionType]SubmitRequirements{
	TransactionExpense:       {Category: true, Counterparty: true},
	TransactionBudgetRequest: {Category: true, Counterparty: true},
	TransactionCashAdvance:   {Category: true, Counterparty: true},
	TransactionBilling:       {Category: true, Counterparty: true},
	TransactionCollection:    {Counterparty: true, StatementOrLines: true},
}

// RequirementsFor returns the submission requirements for a transaction type.
// The second return is false for an unknown type.
func RequirementsFor(t TransactionType) (SubmitRequirements, bool) {
	req, ok := submitRequirements[t]
	return req, ok
}
