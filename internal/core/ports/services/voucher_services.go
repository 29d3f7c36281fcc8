package services

import (
	"context"

	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	portsrepo "github.com/LogixPH/logix_ops_app/internal/core/ports/repositories"
	"github.com/LogixPH/logix_ops_app/internal/dto"
)

// VoucherSvcFacade drives the voucher lifecycle: draft, submit, approve,
// post, disburse, reject, cancel, delete. Every operation takes the resolved
// caller identity explicitly; nothing is read from ambient state.
type VoucherSvcFacade interface {
	// CreateDraft stores a possibly-incomplete voucher. Only the transaction
	// type and the requestor identity are mandatory at this stage.
	CreateDraft(ctx context.Context, req dto.CreateVoucherRequest, ident domain.Identity) (*domain.Voucher, error)

	// SubmitForApproval fully validates a new or draft voucher and moves it
	// to SUBMITTED.
	SubmitForApproval(ctx context.Context, req dto.SubmitVoucherRequest, ident domain.Identity) (*domain.Voucher, error)

	// AutoApprove validates like SubmitForApproval then advances straight
	// through SUBMITTED and APPROVED to POSTED in one action. Requires the
	// auto-approve capability.
	AutoApprove(ctx context.Context, req dto.SubmitVoucherRequest, ident domain.Identity) (*domain.Voucher, error)

	ApproveVoucher(ctx context.Context, voucherID string, ident domain.Identity) (*domain.Voucher, error)
	RejectVoucher(ctx context.Context, voucherID string, ident domain.Identity) (*domain.Voucher, error)
	PostVoucher(ctx context.Context, voucherID string, ident domain.Identity) (*domain.Voucher, error)
	DisburseVoucher(ctx context.Context, voucherID string, ident domain.Identity) (*domain.Voucher, error)
	CancelVoucher(ctx context.Context, voucherID string, ident domain.Identity) (*domain.Voucher, error)

	GetVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)
	ListVouchers(ctx context.Context, filter portsrepo.ListVouchersFilter) ([]domain.Voucher, *string, error)
	UpdateDraft(ctx context.Context, voucherID string, req dto.UpdateDraftRequest, ident domain.Identity) (*domain.Voucher, error)

	// DeleteVoucher removes a voucher. Deleting a voucher in a terminal
	// success state desynchronizes downstream ledger entries, so it demands
	// the force flag; without it the delete is rejected before any write.
	DeleteVoucher(ctx context.Context, voucherID string, force bool, ident domain.Identity) error
}
