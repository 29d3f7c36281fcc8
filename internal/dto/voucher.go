package dto

import (
	"time"

	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineItemRequest carries one voucher particular from the form.
type LineItemRequest struct {
	Particular  string          `json:"particular"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// CreateVoucherRequest creates a draft. Drafts may be incomplete; only the
// transaction type is mandatory at this point, full validation happens on
// submission.
type CreateVoucherRequest struct {
	TransactionType domain.TransactionType `json:"transactionType" binding:"required,oneof=EXPENSE BUDGET_REQUEST CASH_ADVANCE BILLING COLLECTION"`
	ExpenseSubtype  domain.ExpenseSubtype  `json:"expenseSubtype" binding:"omitempty,oneof=REGULAR_EXPENSE BILLABLE_EXPENSE"`
	Category        string                 `json:"category"`
	SubCategory     string                 `json:"subCategory"`
	LineItems       []LineItemRequest      `json:"lineItems"`
	Counterparty    string                 `json:"counterparty"`
	ProjectRef      string                 `json:"projectRef"`
	SourceAccountID string                 `json:"sourceAccountID"`
	InvoiceNumber   string                 `json:"invoiceNumber"`
	StatementRef    string                 `json:"statementRef"`
	DueDate         *time.Time             `json:"dueDate"`
}

// SubmitVoucherRequest submits either an existing draft (VoucherID set) or a
// brand new voucher in one step (VoucherID empty, form fields set).
type SubmitVoucherRequest struct {
	VoucherID string                `json:"voucherID"`
	Form      *CreateVoucherRequest `json:"form"`
}

// UpdateDraftRequest edits a voucher that is still in DRAFT.
type UpdateDraftRequest struct {
	Category        *string           `json:"category"`
	SubCategory     *string           `json:"subCategory"`
	LineItems       []LineItemRequest `json:"lineItems"`
	Counterparty    *string           `json:"counterparty"`
	ProjectRef      *string           `json:"projectRef"`
	SourceAccountID *string           `json:"sourceAccountID"`
	InvoiceNumber   *string           `json:"invoiceNumber"`
	StatementRef    *string           `json:"statementRef"`
	DueDate         *time.Time        `json:"dueDate"`
}

// LineItemResponse mirrors domain.LineItem.
type LineItemResponse struct {
	LineItemID  string          `json:"lineItemID"`
	Particular  string          `json:"particular"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// LinkedBillingResponse mirrors domain.LinkedBilling.
type LinkedBillingResponse struct {
	BillingVoucherID string          `json:"billingVoucherID"`
	Amount           decimal.Decimal `json:"amount"`
}

// VoucherResponse is the full voucher view. For billing vouchers the derived
// receivable fields (amountDue, paymentStatus) are recomputed at response
// time, never read from storage.
type VoucherResponse struct {
	VoucherID       string                  `json:"voucherID"`
	VoucherNumber   string                  `json:"voucherNumber"`
	TransactionType domain.TransactionType  `json:"transactionType"`
	ExpenseSubtype  domain.ExpenseSubtype   `json:"expenseSubtype,omitempty"`
	Category        string                  `json:"category,omitempty"`
	SubCategory     string                  `json:"subCategory,omitempty"`
	LineItems       []LineItemResponse      `json:"lineItems"`
	TotalAmount     decimal.Decimal         `json:"totalAmount"`
	Counterparty    string                  `json:"counterparty"`
	ProjectRef      string                  `json:"projectRef,omitempty"`
	SourceAccountID string                  `json:"sourceAccountID,omitempty"`
	LinkedBillings  []LinkedBillingResponse `json:"linkedBillings,omitempty"`
	Status          domain.VoucherStatus    `json:"status"`
	RequestorName   string                  `json:"requestorName"`
	PostedByName    string                  `json:"postedByName,omitempty"`
	PostedAt        *time.Time              `json:"postedAt,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`

	// Billing projection, present only for BILLING vouchers.
	InvoiceNumber string                `json:"invoiceNumber,omitempty"`
	StatementRef  string                `json:"statementRef,omitempty"`
	DueDate       *time.Time            `json:"dueDate,omitempty"`
	AmountPaid    *decimal.Decimal      `json:"amountPaid,omitempty"`
	AmountDue     *decimal.Decimal      `json:"amountDue,omitempty"`
	PaymentStatus *domain.PaymentStatus `json:"paymentStatus,omitempty"`
	BillingStatus domain.BillingStatus  `json:"billingStatus,omitempty"`
}

// ListVouchersResponse is a paginated voucher listing.
type ListVouchersResponse struct {
	Vouchers  []VoucherResponse `json:"vouchers"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToLineItemResponses converts domain line items.
func ToLineItemResponses(items []domain.LineItem) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i, li := range items {
		out[i] = LineItemResponse{
			LineItemID:  li.LineItemID,
			Particular:  li.Particular,
			Description: li.Description,
			Amount:      li.Amount,
		}
	}
	return out
}

// ToVoucherResponse converts a domain voucher, deriving the billing view at
// the supplied instant.
func ToVoucherResponse(v *domain.Voucher, now time.Time) VoucherResponse {
	resp := VoucherResponse{
		VoucherID:       v.VoucherID,
		VoucherNumber:   v.VoucherNumber,
		TransactionType: v.TransactionType,
		ExpenseSubtype:  v.ExpenseSubtype,
		Category:        v.Category,
		SubCategory:     v.SubCategory,
		LineItems:       ToLineItemResponses(v.LineItems),
		TotalAmount:     v.TotalAmount,
		Counterparty:    v.Counterparty,
		ProjectRef:      v.ProjectRef,
		SourceAccountID: v.SourceAccountID,
		Status:          v.Status,
		RequestorName:   v.RequestorName,
		PostedByName:    v.PostedByName,
		PostedAt:        v.PostedAt,
		CreatedAt:       v.CreatedAt,
		BillingStatus:   v.BillingStatus,
	}
	for _, lb := range v.LinkedBillings {
		resp.LinkedBillings = append(resp.LinkedBillings, LinkedBillingResponse{
			BillingVoucherID: lb.BillingVoucherID,
			Amount:           lb.Amount,
		})
	}
	if v.TransactionType == domain.TransactionBilling {
		b := v.AsBilling()
		due := b.AmountDue()
		status := b.PaymentStatusAt(now)
		resp.InvoiceNumber = v.InvoiceNumber
		resp.StatementRef = v.StatementRef
		resp.DueDate = v.DueDate
		resp.AmountPaid = &v.AmountPaid
		resp.AmountDue = &due
		resp.PaymentStatus = &status
	}
	return resp
}

// ToVoucherResponses converts a slice of domain vouchers.
func ToVoucherResponses(vs []domain.Voucher, now time.Time) []VoucherResponse {
	out := make([]VoucherResponse, len(vs))
	for i := range vs {
		out[i] = ToVoucherResponse(&vs[i], now)
	}
	return out
}

// ToDomainLineItems converts request line items to domain line items. IDs are
// assigned by the service.
func (r CreateVoucherRequest) ToDomainLineItems() []domain.LineItem {
	out := make([]domain.LineItem, len(r.LineItems))
	for i, li := range r.LineItems {
		out[i] = domain.LineItem{
			Particular:  li.Particular,
			Description: li.Description,
			Amount:      li.Amount,
		}
	}
	return out
}
