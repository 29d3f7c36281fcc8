package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/LogixPH/logix_ops_app/internal/apperrors"
	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	portsrepo "github.com/LogixPH/logix_ops_app/internal/core/ports/repositories"
	portssvc "github.com/LogixPH/logix_ops_app/internal/core/ports/services"
	"github.com/LogixPH/logix_ops_app/internal/dto"
	"github.com/LogixPH/logix_ops_app/internal/utils"
)

var (
	ErrUnknownTransactionType = errors.New("unknown transaction type")
	ErrCounterpartyRequired   = errors.New("counterparty is required")
	ErrCategoryRequired       = errors.New("category is required")
	ErrLineItemRequired       = errors.New("at least one line item with a particular and a positive amount is required")
	ErrCollectionSourceNeeded = errors.New("collection requires a statement reference or manual line items")
	ErrBillableSubtype        = errors.New("only expense vouchers may carry the billable subtype")
	ErrIllegalTransition      = errors.New("illegal status transition")
	ErrVoucherNotEditable     = errors.New("voucher can only be edited while in draft")
	ErrForceDeleteRequired    = errors.New("deleting a posted voucher requires the force flag")
)

// voucherService drives the voucher lifecycle state machine.
type voucherService struct {
	BaseService
	voucherRepo portsrepo.VoucherRepositoryFacade
	now         func() time.Time
	newNumber   func(time.Time) (string, error)
}

// VoucherServiceOption is a functional option for configuring the voucher service.
type VoucherServiceOption func(*voucherService)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) VoucherServiceOption {
	return func(s *voucherService) { s.now = now }
}

// WithNumberGenerator overrides the voucher number generator. Used by tests.
func WithNumberGenerator(gen func(time.Time) (string, error)) VoucherServiceOption {
	return func(s *voucherService) { s.newNumber = gen }
}

// NewVoucherService creates a new VoucherService.
func NewVoucherService(voucherRepo portsrepo.VoucherRepositoryFacade, options ...VoucherServiceOption) portssvc.VoucherSvcFacade {
	svc := &voucherService{
		voucherRepo: voucherRepo,
		now:         func() time.Time { return time.Now().UTC() },
		newNumber:   utils.GenerateVoucherNumber,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

// buildVoucher performs pure construction of a domain voucher from form
// input: id and number assignment, total derivation and normalization. It
// does not persist anything.
func (s *voucherService) buildVoucher(req dto.CreateVoucherRequest, ident domain.Identity) (domain.Voucher, error) {
	if _, ok := domain.RequirementsFor(req.TransactionType); !ok {
		return domain.Voucher{}, fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, ErrUnknownTransactionType, req.TransactionType)
	}
	if req.ExpenseSubtype == domain.BillableExpense && req.TransactionType != domain.TransactionExpense {
		return domain.Voucher{}, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrBillableSubtype)
	}

	now := s.now()
	number, err := s.newNumber(now)
	if err != nil {
		return domain.Voucher{}, fmt.Errorf("failed to generate voucher number: %w", err)
	}

	lineItems := req.ToDomainLineItems()
	for i := range lineItems {
		lineItems[i].LineItemID = uuid.NewString()
	}

	v := domain.Voucher{
		VoucherID:       uuid.NewString(),
		VoucherNumber:   number,
		TransactionType: req.TransactionType,
		ExpenseSubtype:  req.ExpenseSubtype,
		Category:        req.Category,
		SubCategory:     req.SubCategory,
		LineItems:       lineItems,
		Counterparty:    req.Counterparty,
		ProjectRef:      req.ProjectRef,
		SourceAccountID: req.SourceAccountID,
		Status:          domain.StatusDraft,
		RequestorName:   ident.DisplayName,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ident.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: ident.UserID,
			Version:       1,
		},
	}
	if req.TransactionType == domain.TransactionBilling {
		v.InvoiceNumber = req.InvoiceNumber
		v.StatementRef = req.StatementRef
		v.DueDate = req.DueDate
		v.BillingStatus = domain.BillingPending
	}
	v.TotalAmount = v.ComputedTotal()
	return v, nil
}

// validateForSubmission applies the required-field matrix for the voucher's
// transaction type. Category is validated for presence only; sub-categories
// are always optional.
func (s *voucherService) validateForSubmission(v domain.Voucher) error {
	req, ok := domain.RequirementsFor(v.TransactionType)
	if !ok {
		return fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, ErrUnknownTransactionType, v.TransactionType)
	}
	if req.Counterparty && v.Counterparty == "" {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrCounterpartyRequired)
	}
	if req.Category && v.Category == "" {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrCategoryRequired)
	}
	if req.StatementOrLines {
		if len(v.LinkedBillings) == 0 && !v.HasValidLineItem() {
			return fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrCollectionSourceNeeded)
		}
	} else if !v.HasValidLineItem() {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrLineItemRequired)
	}
	return nil
}

// saveWithNumberRetry inserts a voucher, regenerating the provisional voucher
// number once if the store reports a collision. Two collisions in a row fail
// loudly rather than looping.
func (s *voucherService) saveWithNumberRetry(ctx context.Context, v *domain.Voucher) error {
	err := s.voucherRepo.SaveVoucher(ctx, *v)
	if err == nil || !errors.Is(err, apperrors.ErrDuplicate) {
		return err
	}

	s.LogWarn(ctx, "Voucher number collision, regenerating",
		slog.String("voucher_number", v.VoucherNumber))
	number, genErr := s.newNumber(s.now())
	if genErr != nil {
		return fmt.Errorf("failed to regenerate voucher number: %w", genErr)
	}
	v.VoucherNumber = number

	if err := s.voucherRepo.SaveVoucher(ctx, *v); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return fmt.Errorf("voucher number collision persisted after retry: %w", err)
		}
		return err
	}
	return nil
}

// CreateDraft stores a possibly-incomplete voucher. Only the transaction type
// and requestor are mandatory; the full matrix applies at submission.
func (s *voucherService) CreateDraft(ctx context.Context, req dto.CreateVoucherRequest, ident domain.Identity) (*domain.Voucher, error) {
	v, err := s.buildVoucher(req, ident)
	if err != nil {
		return nil, err
	}

	if err := s.saveWithNumberRetry(ctx, &v); err != nil {
		s.LogError(ctx, err, "Failed to save draft voucher", slog.String("voucher_id", v.VoucherID))
		return nil, err
	}

	s.LogInfo(ctx, "Draft voucher created",
		slog.String("voucher_id", v.VoucherID),
		slog.String("voucher_number", v.VoucherNumber),
		slog.String("transaction_type", string(v.TransactionType)))
	return &v, nil
}

// SubmitForApproval fully validates a voucher and moves it to SUBMITTED.
// With a VoucherID the existing draft is submitted; otherwise the form is
// built and submitted in one step.
func (s *voucherService) SubmitForApproval(ctx context.Context, req dto.SubmitVoucherRequest, ident domain.Identity) (*domain.Voucher, error) {
	if req.VoucherID != "" {
		return s.submitExistingDraft(ctx, req.VoucherID, ident)
	}
	if req.Form == nil {
		return nil, fmt.Errorf("%w: either voucherID or form must be provided", apperrors.ErrValidation)
	}

	v, err := s.buildVoucher(*req.Form, ident)
	if err != nil {
		return nil, err
	}
	if err := s.validateForSubmission(v); err != nil {
		return nil, err
	}
	v.Status = domain.StatusSubmitted

	if err := s.saveWithNumberRetry(ctx, &v); err != nil {
		s.LogError(ctx, err, "Failed to save submitted voucher", slog.String("voucher_id", v.VoucherID))
		return nil, err
	}

	s.LogInfo(ctx, "Voucher submitted for approval",
		slog.String("voucher_id", v.VoucherID),
		slog.String("voucher_number", v.VoucherNumber))
	return &v, nil
}

func (s *voucherService) submitExistingDraft(ctx context.Context, voucherID string, ident domain.Identity) (*domain.Voucher, error) {
	v, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if err := s.validateForSubmission(*v); err != nil {
		return nil, err
	}
	return s.transition(ctx, *v, domain.StatusSubmitted, ident, false)
}

// AutoApprove is the accounting fast path: one user-visible action that
// validates like a submission and lands the voucher in POSTED. The whole
// thing is a single store write, so there is no partially-approved state to
// compensate for.
func (s *voucherService) AutoApprove(ctx context.Context, req dto.SubmitVoucherRequest, ident domain.Identity) (*domain.Voucher, error) {
	if err := s.RequireCapability(ctx, ident, domain.CapAutoApprove); err != nil {
		return nil, err
	}
	if req.Form == nil {
		return nil, fmt.Errorf("%w: auto-approve requires the voucher form", apperrors.ErrValidation)
	}

	v, err := s.buildVoucher(*req.Form, ident)
	if err != nil {
		return nil, err
	}
	if err := s.validateForSubmission(v); err != nil {
		return nil, err
	}

	now := s.now()
	v.Status = domain.StatusPosted
	v.PostedByName = ident.DisplayName
	v.PostedAt = &now
	if v.TransactionType == domain.TransactionBilling {
		v.BillingStatus = domain.BillingBilled
	}

	if err := s.saveWithNumberRetry(ctx, &v); err != nil {
		s.LogError(ctx, err, "Failed to save auto-approved voucher", slog.String("voucher_id", v.VoucherID))
		return nil, err
	}

	s.LogInfo(ctx, "Voucher auto-approved and posted",
		slog.String("voucher_id", v.VoucherID),
		slog.String("voucher_number", v.VoucherNumber))
	return &v, nil
}

// transition moves a voucher to a new status after checking the lifecycle
// table. The repository guards against concurrent transitions by matching the
// expected current status at write time.
func (s *voucherService) transition(ctx context.Context, v domain.Voucher, to domain.VoucherStatus, ident domain.Identity, posting bool) (*domain.Voucher, error) {
	if !domain.CanTransition(v.Status, to) {
		return nil, fmt.Errorf("%w: %s: %s -> %s", apperrors.ErrValidation, ErrIllegalTransition, v.Status, to)
	}

	change := portsrepo.StatusChange{
		Expected:  v.Status,
		To:        to,
		UpdatedBy: ident.UserID,
	}
	if posting {
		now := s.now()
		change.PostedByName = ident.DisplayName
		change.PostedAt = &now
		if v.TransactionType == domain.TransactionBilling {
			change.BillingStatus = domain.BillingBilled
		}
	}

	updated, err := s.voucherRepo.TransitionStatus(ctx, v.VoucherID, change)
	if err != nil {
		s.LogError(ctx, err, "Failed to transition voucher status",
			slog.String("voucher_id", v.VoucherID),
			slog.String("from", string(v.Status)),
			slog.String("to", string(to)))
		return nil, err
	}

	s.LogInfo(ctx, "Voucher status changed",
		slog.String("voucher_id", v.VoucherID),
		slog.String("from", string(v.Status)),
		slog.String("to", string(to)))
	return updated, nil
}

func (s *voucherService) loadAndTransition(ctx context.Context, voucherID string, to domain.VoucherStatus, ident domain.Identity, posting bool) (*domain.Voucher, error) {
	v, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, *v, to, ident, posting)
}

func (s *voucherService) ApproveVoucher(ctx context.Context, voucherID string, ident domain.Identity) (*domain.Voucher, error) {
	if err := s.RequireCapability(ctx, ident, domain.CapApprove); err != nil {
		return nil, err
	}
	return s.loadAndTransition(ctx, voucherID, domain.StatusApproved, ident, false)
}

func (s *voucherService) RejectVoucher(ctx context.Context, voucherID string, ident domain.Identity) (*domain.Voucher, error) {
	if err := s.RequireCapability(ctx, ident, domain.CapApprove); err != nil {
		return nil, err
	}
	return s.loadAndTransition(ctx, voucherID, domain.StatusRejected, ident, false)
}

func (s *voucherService) PostVoucher(ctx context.Context, voucherID string, ident domain.Identity) (*domain.Voucher, error) {
	if err := s.RequireCapability(ctx, ident, domain.CapPost); err != nil {
		return nil, err
	}
	return s.loadAndTransition(ctx, voucherID, domain.StatusPosted, ident, true)
}

func (s *voucherService) DisburseVoucher(ctx context.Context, voucherID string, ident domain.Identity) (*domain.Voucher, error) {
	if err := s.RequireCapability(ctx, ident, domain.CapPost); err != nil {
		return nil, err
	}
	return s.loadAndTransition(ctx, voucherID, domain.StatusDisbursed, ident, false)
}

func (s *voucherService) CancelVoucher(ctx context.Context, voucherID string, ident domain.Identity) (*domain.Voucher, error) {
	return s.loadAndTransition(ctx, voucherID, domain.StatusCancelled, ident, false)
}

func (s *voucherService) GetVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	return s.voucherRepo.FindVoucherByID(ctx, voucherID)
}

func (s *voucherService) ListVouchers(ctx context.Context, filter portsrepo.ListVouchersFilter) ([]domain.Voucher, *string, error) {
	return s.voucherRepo.ListVouchers(ctx, filter)
}

// UpdateDraft edits a voucher that is still in DRAFT. Submitted and later
// vouchers are immutable except through lifecycle transitions.
func (s *voucherService) UpdateDraft(ctx context.Context, voucherID string, req dto.UpdateDraftRequest, ident domain.Identity) (*domain.Voucher, error) {
	v, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if v.Status != domain.StatusDraft {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrVoucherNotEditable)
	}

	if req.Category != nil {
		v.Category = *req.Category
	}
	if req.SubCategory != nil {
		v.SubCategory = *req.SubCategory
	}
	if req.Counterparty != nil {
		v.Counterparty = *req.Counterparty
	}
	if req.ProjectRef != nil {
		v.ProjectRef = *req.ProjectRef
	}
	if req.SourceAccountID != nil {
		v.SourceAccountID = *req.SourceAccountID
	}
	if req.InvoiceNumber != nil {
		v.InvoiceNumber = *req.InvoiceNumber
	}
	if req.StatementRef != nil {
		v.StatementRef = *req.StatementRef
	}
	if req.DueDate != nil {
		v.DueDate = req.DueDate
	}
	if req.LineItems != nil {
		items := make([]domain.LineItem, len(req.LineItems))
		for i, li := range req.LineItems {
			items[i] = domain.LineItem{
				LineItemID:  uuid.NewString(),
				Particular:  li.Particular,
				Description: li.Description,
				Amount:      li.Amount,
			}
		}
		v.LineItems = items
	}

	v.TotalAmount = v.ComputedTotal()
	v.LastUpdatedAt = s.now()
	v.LastUpdatedBy = ident.UserID

	if err := s.voucherRepo.UpdateDraftVoucher(ctx, *v); err != nil {
		s.LogError(ctx, err, "Failed to update draft voucher", slog.String("voucher_id", voucherID))
		return nil, err
	}
	return v, nil
}

// DeleteVoucher removes a voucher. A voucher in a terminal success state may
// already be referenced by downstream ledger entries; deleting it requires
// the force flag so the caller has acknowledged that risk explicitly.
func (s *voucherService) DeleteVoucher(ctx context.Context, voucherID string, force bool, ident domain.Identity) error {
	v, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return err
	}

	if domain.IsTerminalSuccess(v.Status) && !force {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrForceDeleteRequired)
	}
	if domain.IsTerminalSuccess(v.Status) {
		s.LogWarn(ctx, "Force-deleting a posted voucher; downstream ledger entries may desynchronize",
			slog.String("voucher_id", voucherID),
			slog.String("voucher_number", v.VoucherNumber),
			slog.String("deleted_by", ident.UserID))
	}

	if err := s.voucherRepo.DeleteVoucher(ctx, voucherID); err != nil {
		s.LogError(ctx, err, "Failed to delete voucher", slog.String("voucher_id", voucherID))
		return err
	}

	s.LogInfo(ctx, "Voucher deleted",
		slog.String("voucher_id", voucherID),
		slog.String("deleted_by", ident.UserID))
	return nil
}
