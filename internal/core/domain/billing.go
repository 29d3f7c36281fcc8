package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the derived settlement state of a billing.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "UNPAID"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentOverdue PaymentStatus = "OVERDUE"
)

// ErrPaymentExceedsDue is returned when a payment would drive a billing's
// amount due below zero.
var ErrPaymentExceedsDue = errors.New("payment amount cannot exceed amount due")

// ErrPaymentNotPositive is returned for zero or negative payment amounts.
var ErrPaymentNotPositive = errors.New("payment amount must be positive")

// Billing is the receivable projection of a billing voucher. AmountDue and
// PaymentStatus are always recomputed from the canonical fields here, never
// stored, so they cannot drift.
type Billing struct {
	VoucherID     string          `json:"voucherID"`
	InvoiceNumber string          `json:"invoiceNumber"`
	CustomerName  string          `json:"customerName"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	StatementRef  string          `json:"statementRef,omitempty"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
	BillingStatus BillingStatus   `json:"billingStatus"`
}

// AsBilling projects a voucher onto its receivable view. Only meaningful for
// TransactionType BILLING.
func (v Voucher) AsBilling() Billing {
	return Billing{
		VoucherID:     v.VoucherID,
		InvoiceNumber: v.InvoiceNumber,
		CustomerName:  v.Counterparty,
		TotalAmount:   v.TotalAmount,
		AmountPaid:    v.AmountPaid,
		StatementRef:  v.StatementRef,
		DueDate:       v.DueDate,
		BillingStatus: v.BillingStatus,
	}
}

// AmountDue is totalAmount minus amountPaid, never negative.
func (b Billing) AmountDue() decimal.Decimal {
	due := b.TotalAmount.Sub(b.AmountPaid)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

// RemainingBalance is the portion of this billing still collectible. A billing
// with no recorded payment owes its full amount; this fallback is an
// invariant, not an accident of zero values.
func (b Billing) RemainingBalance() decimal.Decimal {
	if b.AmountPaid.IsZero() {
		return b.TotalAmount
	}
	return b.AmountDue()
}

// PaymentStatusAt derives the settlement state at the given instant. Paid wins
// over overdue; an unsettled billing past its due date is overdue.
func (b Billing) PaymentStatusAt(now time.Time) PaymentStatus {
	if b.AmountPaid.GreaterThanOrEqual(b.TotalAmount) {
		return PaymentPaid
	}
	if b.DueDate != nil && b.DueDate.Before(now) {
		return PaymentOverdue
	}
	if b.AmountPaid.IsPositive() {
		return PaymentPartial
	}
	return PaymentUnpaid
}

// ApplyPayment returns a copy of the billing with amount added to AmountPaid.
// The payment must be positive and must not exceed the current amount due.
func (b Billing) ApplyPayment(amount decimal.Decimal) (Billing, error) {
	if !amount.IsPositive() {
		return b, ErrPaymentNotPositive
	}
	if amount.GreaterThan(b.AmountDue()) {
		return b, ErrPaymentExceedsDue
	}
	updated := b
	updated.AmountPaid = b.AmountPaid.Add(amount)
	return updated, nil
}
