package mapping

import (
	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	"github.com/LogixPH/logix_ops_app/internal/models"
)

// ToModelVoucher converts a domain Voucher to its database representation.
// Line items and linked billings map separately since they live in child tables.
func ToModelVoucher(d domain.Voucher) models.Voucher {
	return models.Voucher{
		VoucherID:       d.VoucherID,
		VoucherNumber:   d.VoucherNumber,
		TransactionType: string(d.TransactionType),
		ExpenseSubtype:  string(d.ExpenseSubtype),
		Category:        d.Category,
		SubCategory:     d.SubCategory,
		TotalAmount:     d.TotalAmount,
		Counterparty:    d.Counterparty,
		ProjectRef:      d.ProjectRef,
		SourceAccountID: d.SourceAccountID,
		Status:          models.VoucherStatus(d.Status),
		RequestorName:   d.RequestorName,
		PostedByName:    d.PostedByName,
		PostedAt:        d.PostedAt,
		InvoiceNumber:   d.InvoiceNumber,
		StatementRef:    d.StatementRef,
		DueDate:         d.DueDate,
		AmountPaid:      d.AmountPaid,
		BillingStatus:   string(d.BillingStatus),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVoucher converts a model Voucher to a domain Voucher.
func ToDomainVoucher(m models.Voucher) domain.Voucher {
	return domain.Voucher{
		VoucherID:       m.VoucherID,
		VoucherNumber:   m.VoucherNumber,
		TransactionType: domain.TransactionType(m.TransactionType),
		ExpenseSubtype:  domain.ExpenseSubtype(m.ExpenseSubtype),
		Category:        m.Category,
		SubCategory:     m.SubCategory,
		TotalAmount:     m.TotalAmount,
		Counterparty:    m.Counterparty,
		ProjectRef:      m.ProjectRef,
		SourceAccountID: m.SourceAccountID,
		Status:          domain.VoucherStatus(m.Status),
		RequestorName:   m.RequestorName,
		PostedByName:    m.PostedByName,
		PostedAt:        m.PostedAt,
		InvoiceNumber:   m.InvoiceNumber,
		StatementRef:    m.StatementRef,
		DueDate:         m.DueDate,
		AmountPaid:      m.AmountPaid,
		BillingStatus:   domain.BillingStatus(m.BillingStatus),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLineItems converts domain line items, preserving their order via the
// position column.
func ToModelLineItems(voucherID string, items []domain.LineItem) []models.VoucherLineItem {
	out := make([]models.VoucherLineItem, len(items))
	for i, li := range items {
		out[i] = models.VoucherLineItem{
			LineItemID:  li.LineItemID,
			VoucherID:   voucherID,
			Position:    i,
			Particular:  li.Particular,
			Description: li.Description,
			Amount:      li.Amount,
		}
	}
	return out
}

// ToDomainLineItems converts model line items back to domain order.
func ToDomainLineItems(ms []models.VoucherLineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(ms))
	for i, m := range ms {
		out[i] = domain.LineItem{
			LineItemID:  m.LineItemID,
			Particular:  m.Particular,
			Description: m.Description,
			Amount:      m.Amount,
		}
	}
	return out
}

// ToModelLinkedBillings converts a collection voucher's billing links.
func ToModelLinkedBillings(collectionID string, links []domain.LinkedBilling) []models.VoucherLinkedBilling {
	out := make([]models.VoucherLinkedBilling, len(links))
	for i, lb := range links {
		out[i] = models.VoucherLinkedBilling{
			CollectionVoucherID: collectionID,
			BillingVoucherID:    lb.BillingVoucherID,
			Position:            i,
			Amount:              lb.Amount,
		}
	}
	return out
}

// ToDomainLinkedBillings converts model billing links back to the domain shape.
func ToDomainLinkedBillings(ms []models.VoucherLinkedBilling) []domain.LinkedBilling {
	out := make([]domain.LinkedBilling, len(ms))
	for i, m := range ms {
		out[i] = domain.LinkedBilling{
			BillingVoucherID: m.BillingVoucherID,
			Amount:           m.Amount,
		}
	}
	return out
}
