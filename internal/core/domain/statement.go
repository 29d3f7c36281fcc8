package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Statement is a derived grouping of billed billing vouchers sharing a
// statement reference. It is never persisted; it is recomputed on every read
// so its balances cannot go stale.
type Statement struct {
	Ref              string          `json:"ref"`
	Items            []Billing       `json:"items"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}

// collectibleThreshold excludes statements whose remaining balance is rounding
// dust. One currency unit or less is considered effectively settled.
var collectibleThreshold = decimal.NewFromInt(1)

// EligibleForStatement reports whether a voucher can be a statement member:
// a billed billing voucher carrying a statement reference. Billings without a
// reference must be collected individually.
func EligibleForStatement(v Voucher) bool {
	return v.TransactionType == TransactionBilling &&
		v.BillingStatus == BillingBilled &&
		v.StatementRef != ""
}

// IsCollectible reports whether a statement still has a balance worth
// collecting against.
func (s Statement) IsCollectible() bool {
	return s.RemainingBalance.GreaterThan(collectibleThreshold)
}

// OpenStatements groups eligible billing vouchers by statement reference and
// folds their totals and remaining balances. Statements at or below the
// collectible threshold are dropped. The returned order is unspecified.
func OpenStatements(vouchers []Voucher, projectRef string) []Statement {
	groups := make(map[string]*Statement)
	for _, v := range vouchers {
		if !EligibleForStatement(v) {
			continue
		}
		if projectRef != "" && v.ProjectRef != projectRef {
			continue
		}
		b := v.AsBilling()
		stmt, ok := groups[v.StatementRef]
		if !ok {
			stmt = &Statement{Ref: v.StatementRef}
			groups[v.StatementRef] = stmt
		}
		stmt.Items = append(stmt.Items, b)
		stmt.TotalAmount = stmt.TotalAmount.Add(b.TotalAmount)
		stmt.RemainingBalance = stmt.RemainingBalance.Add(b.RemainingBalance())
	}

	statements := make([]Statement, 0, len(groups))
	for _, stmt := range groups {
		if !stmt.IsCollectible() {
			continue
		}
		statements = append(statements, *stmt)
	}
	return statements
}

// LinkStatement prepares the collection side of settling a statement: one
// synthetic line item for the whole remaining balance, plus one linked billing
// per member carrying that member's own remaining balance. Distributing by
// per-member balance (rather than evenly) preserves each invoice's payment
// history when the collection later records partial payments.
//
// Invariant: the linked billing amounts sum to the statement's remaining
// balance within AmountTolerance.
func LinkStatement(s Statement) (LineItem, []LinkedBilling) {
	links := make([]LinkedBilling, 0, len(s.Items))
	for _, b := range s.Items {
		links = append(links, LinkedBilling{
			BillingVoucherID: b.VoucherID,
			Amount:           b.RemainingBalance(),
		})
	}
	line := LineItem{
		Particular:  fmt.Sprintf("Collection for statement %s", s.Ref),
		Description: fmt.Sprintf("Settles %d billing item(s) under statement %s", len(s.Items), s.Ref),
		Amount:      s.RemainingBalance,
	}
	return line, links
}
