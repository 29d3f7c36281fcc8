package domain_test

import (
	"testing"

	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoucher_ComputedTotal_FromLineItems(t *testing.T) {
	v := domain.Voucher{
		TransactionType: domain.TransactionExpense,
		LineItems: []domain.LineItem{
			{Particular: "Fuel", Amount: decimal.NewFromFloat(1500.50)},
			{Particular: "Toll Fees", Amount: decimal.NewFromFloat(320.25)},
		},
	}
	assert.True(t, v.ComputedTotal().Equal(decimal.NewFromFloat(1820.75)))
}

func TestVoucher_ComputedTotal_FromLinkedBillings(t *testing.T) {
	v := domain.Voucher{
		TransactionType: domain.TransactionCollection,
		LineItems: []domain.LineItem{
			{Particular: "Collection for statement STM-001", Amount: decimal.NewFromInt(1750)},
		},
		LinkedBillings: []domain.LinkedBilling{
			{BillingVoucherID: "b1", Amount: decimal.NewFromInt(1000)},
			{BillingVoucherID: "b2", Amount: decimal.NewFromInt(750)},
		},
	}
	// Linked billings are the canonical source for statement-sourced collections.
	assert.True(t, v.ComputedTotal().Equal(decimal.NewFromInt(1750)))
}

func TestVoucher_TotalMatches(t *testing.T) {
	v := domain.Voucher{
		TransactionType: domain.TransactionExpense,
		TotalAmount:     decimal.NewFromFloat(100.00),
		LineItems: []domain.LineItem{
			{Particular: "Rent", Amount: decimal.NewFromFloat(99.995)},
		},
	}
	assert.True(t, v.TotalMatches(), "sub-tolerance drift must be accepted")

	v.TotalAmount = decimal.NewFromFloat(101.00)
	assert.False(t, v.TotalMatches())
}

func TestVoucher_HasValidLineItem(t *testing.T) {
	tests := []struct {
		name  string
		items []domain.LineItem
		want  bool
	}{
		{name: "no items", items: nil, want: false},
		{
			name:  "item without particular",
			items: []domain.LineItem{{Amount: decimal.NewFromInt(10)}},
			want:  false,
		},
		{
			name:  "item with zero amount",
			items: []domain.LineItem{{Particular: "Rent", Amount: decimal.Zero}},
			want:  false,
		},
		{
			name: "one valid item among invalid ones",
			items: []domain.LineItem{
				{Particular: "", Amount: decimal.NewFromInt(10)},
				{Particular: "Rent", Amount: decimal.NewFromInt(10)},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := domain.Voucher{LineItems: tt.items}
			assert.Equal(t, tt.want, v.HasValidLineItem())
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to domain.VoucherStatus
		want     bool
	}{
		{domain.StatusDraft, domain.StatusSubmitted, true},
		{domain.StatusDraft, domain.StatusCancelled, true},
		{domain.StatusSubmitted, domain.StatusApproved, true},
		{domain.StatusSubmitted, domain.StatusRejected, true},
		{domain.StatusApproved, domain.StatusPosted, true},
		{domain.StatusPosted, domain.StatusDisbursed, true},
		{domain.StatusDraft, domain.StatusApproved, false},
		{domain.StatusDraft, domain.StatusPosted, false},
		{domain.StatusPosted, domain.StatusCancelled, false},
		{domain.StatusRejected, domain.StatusSubmitted, false},
		{domain.StatusCancelled, domain.StatusDraft, false},
		{domain.StatusDisbursed, domain.StatusCancelled, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.CanTransition(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, domain.IsTerminal(domain.StatusDisbursed))
	assert.True(t, domain.IsTerminal(domain.StatusRejected))
	assert.True(t, domain.IsTerminal(domain.StatusCancelled))
	assert.False(t, domain.IsTerminal(domain.StatusDraft))
	assert.False(t, domain.IsTerminal(domain.StatusPosted), "posted can still be disbursed")

	assert.True(t, domain.IsTerminalSuccess(domain.StatusPosted))
	assert.True(t, domain.IsTerminalSuccess(domain.StatusDisbursed))
	assert.False(t, domain.IsTerminalSuccess(domain.StatusRejected))
}

func TestRequirementsFor(t *testing.T) {
	req, ok := domain.RequirementsFor(domain.TransactionExpense)
	require.True(t, ok)
	assert.True(t, req.Category)
	assert.True(t, req.Counterparty)
	assert.False(t, req.StatementOrLines)

	req, ok = domain.RequirementsFor(domain.TransactionCollection)
	require.True(t, ok)
	assert.False(t, req.Category, "collections skip category validation")
	assert.True(t, req.StatementOrLines)

	_, ok = domain.RequirementsFor(domain.TransactionType("UNKNOWN"))
	assert.False(t, ok)
}

func TestIdentity_Can(t *testing.T) {
	accounting := domain.Identity{UserID: "u1", DisplayName: "A. Reyes", Role: domain.RoleAccounting}
	operations := domain.Identity{UserID: "u2", DisplayName: "B. Santos", Role: domain.RoleOperations}

	assert.True(t, accounting.Can(domain.CapAutoApprove))
	assert.True(t, accounting.Can(domain.CapApprove))
	assert.False(t, operations.Can(domain.CapAutoApprove))
	assert.False(t, operations.Can(domain.CapApprove))
}
