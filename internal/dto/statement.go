package dto

import (
	"time"

	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BillingResponse is the receivable view of a posted billing voucher.
type BillingResponse struct {
	VoucherID     string               `json:"voucherID"`
	InvoiceNumber string               `json:"invoiceNumber"`
	CustomerName  string               `json:"customerName"`
	TotalAmount   decimal.Decimal      `json:"totalAmount"`
	AmountPaid    decimal.Decimal      `json:"amountPaid"`
	AmountDue     decimal.Decimal      `json:"amountDue"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	StatementRef  string               `json:"statementRef,omitempty"`
	DueDate       *time.Time           `json:"dueDate,omitempty"`
}

// StatementResponse is one derived statement grouping.
type StatementResponse struct {
	Ref              string            `json:"ref"`
	Items            []BillingResponse `json:"items"`
	TotalAmount      decimal.Decimal   `json:"totalAmount"`
	RemainingBalance decimal.Decimal   `json:"remainingBalance"`
}

// CollectStatementRequest creates a collection voucher settling a whole statement.
type CollectStatementRequest struct {
	PayerName       string `json:"payerName" binding:"required"`
	SourceAccountID string `json:"sourceAccountID"`
	AutoApprove     bool   `json:"autoApprove"`
}

// RecordPaymentRequest applies a single payment to one billing voucher.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ToBillingResponse converts a domain billing projection, deriving the
// settlement state at the supplied instant.
func ToBillingResponse(b domain.Billing, now time.Time) BillingResponse {
	return BillingResponse{
		VoucherID:     b.VoucherID,
		InvoiceNumber: b.InvoiceNumber,
		CustomerName:  b.CustomerName,
		TotalAmount:   b.TotalAmount,
		AmountPaid:    b.AmountPaid,
		AmountDue:     b.AmountDue(),
		PaymentStatus: b.PaymentStatusAt(now),
		StatementRef:  b.StatementRef,
		DueDate:       b.DueDate,
	}
}

// ToStatementResponse converts a derived statement.
func ToStatementResponse(s domain.Statement, now time.Time) StatementResponse {
	items := make([]BillingResponse, len(s.Items))
	for i, b := range s.Items {
		items[i] = ToBillingResponse(b, now)
	}
	return StatementResponse{
		Ref:              s.Ref,
		Items:            items,
		TotalAmount:      s.TotalAmount,
		RemainingBalance: s.RemainingBalance,
	}
}

// ToStatementResponses converts a slice of statements.
func ToStatementResponses(ss []domain.Statement, now time.Time) []StatementResponse {
	out := make([]StatementResponse, len(ss))
	for i, s := range ss {
		out[i] = ToStatementResponse(s, now)
	}
	return out
}
