package domain_test

import (
	"sort"
	"testing"

	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func billedVoucher(id, stmtRef, projectRef string, amount float64, paid float64) domain.Voucher {
	return domain.Voucher{
		VoucherID:       id,
		TransactionType: domain.TransactionBilling,
		BillingStatus:   domain.BillingBilled,
		StatementRef:    stmtRef,
		ProjectRef:      projectRef,
		TotalAmount:     decimal.NewFromFloat(amount),
		AmountPaid:      decimal.NewFromFloat(paid),
	}
}

func TestOpenStatements_GroupsByReference(t *testing.T) {
	vouchers := []domain.Voucher{
		billedVoucher("b1", "STM-001", "", 1000, 0),
		billedVoucher("b2", "STM-001", "", 500, 0),
		billedVoucher("b3", "STM-001", "", 250, 0),
	}

	statements := domain.OpenStatements(vouchers, "")
	require.Len(t, statements, 1)

	stmt := statements[0]
	assert.Equal(t, "STM-001", stmt.Ref)
	assert.Len(t, stmt.Items, 3)
	assert.True(t, stmt.TotalAmount.Equal(decimal.NewFromInt(1750)), "total was %s", stmt.TotalAmount)
	assert.True(t, stmt.RemainingBalance.Equal(decimal.NewFromInt(1750)), "remaining was %s", stmt.RemainingBalance)
}

func TestOpenStatements_ExcludesIneligibleVouchers(t *testing.T) {
	draftBilling := billedVoucher("b1", "STM-002", "", 100, 0)
	draftBilling.BillingStatus = domain.BillingPending

	noRef := billedVoucher("b2", "", "", 100, 0)

	expense := billedVoucher("b3", "STM-002", "", 100, 0)
	expense.TransactionType = domain.TransactionExpense

	statements := domain.OpenStatements([]domain.Voucher{draftBilling, noRef, expense}, "")
	assert.Empty(t, statements)
}

func TestOpenStatements_ProjectFilter(t *testing.T) {
	vouchers := []domain.Voucher{
		billedVoucher("b1", "STM-010", "PRJ-A", 300, 0),
		billedVoucher("b2", "STM-020", "PRJ-B", 400, 0),
	}

	statements := domain.OpenStatements(vouchers, "PRJ-A")
	require.Len(t, statements, 1)
	assert.Equal(t, "STM-010", statements[0].Ref)
}

func TestOpenStatements_DropsDustBalances(t *testing.T) {
	// Remaining balance of exactly 1 is at the threshold and must be dropped.
	settled := billedVoucher("b1", "STM-030", "", 500, 499)
	open := billedVoucher("b2", "STM-040", "", 500, 400)

	statements := domain.OpenStatements([]domain.Voucher{settled, open}, "")
	require.Len(t, statements, 1)
	assert.Equal(t, "STM-040", statements[0].Ref)
	for _, stmt := range statements {
		assert.True(t, stmt.RemainingBalance.GreaterThan(decimal.NewFromInt(1)))
	}
}

func TestOpenStatements_RemainingBalanceFallsBackToFullAmount(t *testing.T) {
	// An un-partial-paid billing owes its full amount; a partially paid one
	// owes only the difference.
	vouchers := []domain.Voucher{
		billedVoucher("b1", "STM-050", "", 1000, 0),
		billedVoucher("b2", "STM-050", "", 600, 150),
	}

	statements := domain.OpenStatements(vouchers, "")
	require.Len(t, statements, 1)
	assert.True(t, statements[0].RemainingBalance.Equal(decimal.NewFromInt(1450)),
		"remaining was %s", statements[0].RemainingBalance)
}

func TestLinkStatement_DistributesPerMemberBalance(t *testing.T) {
	vouchers := []domain.Voucher{
		billedVoucher("b1", "STM-001", "", 1000, 0),
		billedVoucher("b2", "STM-001", "", 500, 0),
		billedVoucher("b3", "STM-001", "", 250, 0),
	}
	statements := domain.OpenStatements(vouchers, "")
	require.Len(t, statements, 1)

	line, links := domain.LinkStatement(statements[0])

	assert.True(t, line.Amount.Equal(decimal.NewFromInt(1750)))
	assert.Contains(t, line.Description, "3 billing item(s)")

	require.Len(t, links, 3)
	sort.Slice(links, func(i, j int) bool { return links[i].BillingVoucherID < links[j].BillingVoucherID })
	assert.True(t, links[0].Amount.Equal(decimal.NewFromInt(1000)))
	assert.True(t, links[1].Amount.Equal(decimal.NewFromInt(500)))
	assert.True(t, links[2].Amount.Equal(decimal.NewFromInt(250)))

	// Linked amounts must sum back to the statement's remaining balance.
	sum := domain.SumLinkedBillings(links)
	diff := sum.Sub(statements[0].RemainingBalance).Abs()
	assert.True(t, diff.LessThanOrEqual(domain.AmountTolerance), "diff was %s", diff)
}

func TestLinkStatement_PartiallyPaidMemberCarriesItsOwnBalance(t *testing.T) {
	vouchers := []domain.Voucher{
		billedVoucher("b1", "STM-060", "", 1000, 400),
		billedVoucher("b2", "STM-060", "", 500, 0),
	}
	statements := domain.OpenStatements(vouchers, "")
	require.Len(t, statements, 1)

	_, links := domain.LinkStatement(statements[0])
	require.Len(t, links, 2)

	byID := map[string]decimal.Decimal{}
	for _, l := range links {
		byID[l.BillingVoucherID] = l.Amount
	}
	assert.True(t, byID["b1"].Equal(decimal.NewFromInt(600)))
	assert.True(t, byID["b2"].Equal(decimal.NewFromInt(500)))
}
