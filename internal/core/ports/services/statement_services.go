package services

import (
	"context"

	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	"github.com/LogixPH/logix_ops_app/internal/dto"
)

// StatementSvcFacade reconciles collections against outstanding billings.
type StatementSvcFacade interface {
	// ListOpenStatements derives the collectible statements from billed
	// billing vouchers, optionally restricted to one project.
	ListOpenStatements(ctx context.Context, projectRef string) ([]domain.Statement, error)

	// CollectStatement creates a collection voucher settling every member of
	// the named statement. The linked billing updates and the voucher insert
	// are one atomic write; a concurrent collection against the same
	// statement surfaces as apperrors.ErrConflict.
	CollectStatement(ctx context.Context, statementRef string, req dto.CollectStatementRequest, ident domain.Identity) (*domain.Voucher, error)

	// RecordPayment applies a payment against a single billing voucher,
	// re-validating the amount due at write time.
	RecordPayment(ctx context.Context, billingVoucherID string, req dto.RecordPaymentRequest, ident domain.Identity) (*domain.Billing, error)

	ListBillings(ctx context.Context) ([]domain.Billing, error)
	GetBilling(ctx context.Context, billingVoucherID string) (*domain.Billing, error)
}
