package repositories

import (
	"context"
	"time"

	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListVouchersFilter narrows a voucher listing. Zero values mean "no filter".
type ListVouchersFilter struct {
	TransactionType domain.TransactionType
	Status          domain.VoucherStatus
	ProjectRef      string
	StatementRef    string
	Limit           int
	NextToken       *string
}

// StatusChange describes a guarded lifecycle transition. The repository must
// apply it only when the stored status still equals Expected and report
// apperrors.ErrConflict otherwise, so concurrent transitions cannot race past
// each other.
type StatusChange struct {
	Expected      domain.VoucherStatus
	To            domain.VoucherStatus
	UpdatedBy     string
	PostedByName  string               // set when the transition is a posting
	PostedAt      *time.Time           // set when the transition is a posting
	BillingStatus domain.BillingStatus // non-empty to move a billing to BILLED on post
}

// VoucherRepositoryFacade is the persistence contract for vouchers.
// Implementations must surface uniqueness violations as apperrors.ErrDuplicate
// and missing rows as apperrors.ErrNotFound.
type VoucherRepositoryFacade interface {
	// SaveVoucher inserts a new voucher with its line items (and linked
	// billings, if any) in one transaction.
	SaveVoucher(ctx context.Context, voucher domain.Voucher) error

	FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)

	ListVouchers(ctx context.Context, filter ListVouchersFilter) ([]domain.Voucher, *string, error)

	// UpdateDraftVoucher replaces the mutable fields and line items of a
	// voucher that is still in DRAFT.
	UpdateDraftVoucher(ctx context.Context, voucher domain.Voucher) error

	// TransitionStatus applies a guarded status change and returns the
	// updated voucher.
	TransitionStatus(ctx context.Context, voucherID string, change StatusChange) (*domain.Voucher, error)

	DeleteVoucher(ctx context.Context, voucherID string) error

	// SaveCollectionWithLinks atomically inserts a collection voucher and
	// applies each linked amount to its billing's amount_paid. Every billing
	// row is locked and its amount due re-checked at write time; a stale
	// precondition rolls the whole transaction back with
	// apperrors.ErrConflict. Partial application is not possible.
	SaveCollectionWithLinks(ctx context.Context, collection domain.Voucher) error

	// ApplyPaymentToBilling records a payment against a single billing
	// voucher under the same lock-and-recheck discipline and returns the
	// updated voucher.
	ApplyPaymentToBilling(ctx context.Context, billingVoucherID string, amount decimal.Decimal, updatedBy string) (*domain.Voucher, error)
}

// VoucherRepositoryWithTx combines voucher persistence with transaction management.
type VoucherRepositoryWithTx interface {
	VoucherRepositoryFacade
	TransactionManager
}
