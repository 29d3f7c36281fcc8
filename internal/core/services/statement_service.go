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
	ErrStatementNotCollectible = errors.New("statement not found or already settled")
	ErrNotABilling             = errors.New("voucher is not a billed billing")
	ErrPaymentExceedsDue       = errors.New("payment amount cannot exceed amount due")
)

// statementService reconciles collections against outstanding billings.
type statementService struct {
	BaseService
	voucherRepo portsrepo.VoucherRepositoryFacade
	now         func() time.Time
	newNumber   func(time.Time) (string, error)
}

// StatementServiceOption is a functional option for configuring the statement service.
type StatementServiceOption func(*statementService)

// WithStatementClock overrides the time source. Used by tests.
func WithStatementClock(now func() time.Time) StatementServiceOption {
	return func(s *statementService) { s.now = now }
}

// WithStatementNumberGenerator overrides the voucher number generator. Used by tests.
func WithStatementNumberGenerator(gen func(time.Time) (string, error)) StatementServiceOption {
	return func(s *statementService) { s.newNumber = gen }
}

// NewStatementService creates a new StatementService.
func NewStatementService(voucherRepo portsrepo.VoucherRepositoryFacade, options ...StatementServiceOption) portssvc.StatementSvcFacade {
	svc := &statementService{
		voucherRepo: voucherRepo,
		now:         func() time.Time { return time.Now().UTC() },
		newNumber:   utils.GenerateVoucherNumber,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.StatementSvcFacade = (*statementService)(nil)

// listBillingVouchers loads every billing voucher; the domain eligibility
// predicate decides which ones participate in statements.
func (s *statementService) listBillingVouchers(ctx context.Context) ([]domain.Voucher, error) {
	vouchers, _, err := s.voucherRepo.ListVouchers(ctx, portsrepo.ListVouchersFilter{
		TransactionType: domain.TransactionBilling,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list billing vouchers: %w", err)
	}
	return vouchers, nil
}

// ListOpenStatements derives the collectible statements from billed billing
// vouchers. The result is recomputed on every call, never cached.
func (s *statementService) ListOpenStatements(ctx context.Context, projectRef string) ([]domain.Statement, error) {
	vouchers, err := s.listBillingVouchers(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load billings for statement computation")
		return nil, err
	}

	statements := domain.OpenStatements(vouchers, projectRef)
	s.LogInfo(ctx, "Open statements computed",
		slog.Int("statement_count", len(statements)),
		slog.String("project_ref", projectRef))
	return statements, nil
}

// CollectStatement settles a whole statement with one collection voucher.
// The voucher insert and every billing's amount_paid update run in a single
// store transaction with write-time precondition checks, so a concurrent
// collection against the same statement fails with ErrConflict instead of
// overpaying.
func (s *statementService) CollectStatement(ctx context.Context, statementRef string, req dto.CollectStatementRequest, ident domain.Identity) (*domain.Voucher, error) {
	statements, err := s.ListOpenStatements(ctx, "")
	if err != nil {
		return nil, err
	}

	var stmt *domain.Statement
	for i := range statements {
		if statements[i].Ref == statementRef {
			stmt = &statements[i]
			break
		}
	}
	if stmt == nil {
		return nil, fmt.Errorf("%w: %s: %s", apperrors.ErrNotFound, ErrStatementNotCollectible, statementRef)
	}

	line, links := domain.LinkStatement(*stmt)
	line.LineItemID = uuid.NewString()

	now := s.now()
	number, err := s.newNumber(now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate voucher number: %w", err)
	}

	collection := domain.Voucher{
		VoucherID:       uuid.NewString(),
		VoucherNumber:   number,
		TransactionType: domain.TransactionCollection,
		LineItems:       []domain.LineItem{line},
		LinkedBillings:  links,
		TotalAmount:     stmt.RemainingBalance,
		Counterparty:    req.PayerName,
		SourceAccountID: req.SourceAccountID,
		Status:          domain.StatusSubmitted,
		RequestorName:   ident.DisplayName,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ident.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: ident.UserID,
			Version:       1,
		},
	}
	if req.AutoApprove {
		if err := s.RequireCapability(ctx, ident, domain.CapAutoApprove); err != nil {
			return nil, err
		}
		collection.Status = domain.StatusPosted
		collection.PostedByName = ident.DisplayName
		collection.PostedAt = &now
	}

	if err := s.voucherRepo.SaveCollectionWithLinks(ctx, collection); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Provisional number collided; retry once with a fresh suffix.
			number, genErr := s.newNumber(s.now())
			if genErr != nil {
				return nil, fmt.Errorf("failed to regenerate voucher number: %w", genErr)
			}
			collection.VoucherNumber = number
			err = s.voucherRepo.SaveCollectionWithLinks(ctx, collection)
		}
		if err != nil {
			s.LogError(ctx, err, "Failed to save collection for statement",
				slog.String("statement_ref", statementRef),
				slog.String("voucher_id", collection.VoucherID))
			return nil, err
		}
	}

	s.LogInfo(ctx, "Statement collected",
		slog.String("statement_ref", statementRef),
		slog.String("voucher_id", collection.VoucherID),
		slog.Int("linked_billings", len(links)),
		slog.String("amount", stmt.RemainingBalance.String()))
	return &collection, nil
}

// RecordPayment applies a payment against one billing voucher. The amount is
// validated against the latest stored amount due before any write; the store
// re-checks under lock so two concurrent payments cannot both succeed on the
// same balance.
func (s *statementService) RecordPayment(ctx context.Context, billingVoucherID string, req dto.RecordPaymentRequest, ident domain.Identity) (*domain.Billing, error) {
	v, err := s.voucherRepo.FindVoucherByID(ctx, billingVoucherID)
	if err != nil {
		return nil, err
	}
	if v.TransactionType != domain.TransactionBilling || v.BillingStatus != domain.BillingBilled {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNotABilling)
	}

	// Reject obviously bad input before touching the store. The same checks
	// run again inside the store transaction against the latest balance.
	if _, err := v.AsBilling().ApplyPayment(req.Amount); err != nil {
		if errors.Is(err, domain.ErrPaymentExceedsDue) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrPaymentExceedsDue)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	updated, err := s.voucherRepo.ApplyPaymentToBilling(ctx, billingVoucherID, req.Amount, ident.UserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to record payment",
			slog.String("billing_voucher_id", billingVoucherID),
			slog.String("amount", req.Amount.String()))
		return nil, err
	}

	billing := updated.AsBilling()
	s.LogInfo(ctx, "Payment recorded",
		slog.String("billing_voucher_id", billingVoucherID),
		slog.String("amount", req.Amount.String()),
		slog.String("amount_due", billing.AmountDue().String()))
	return &billing, nil
}

// ListBillings returns the receivable view of every billed billing voucher.
func (s *statementService) ListBillings(ctx context.Context) ([]domain.Billing, error) {
	vouchers, err := s.listBillingVouchers(ctx)
	if err != nil {
		return nil, err
	}

	billings := make([]domain.Billing, 0, len(vouchers))
	for _, v := range vouchers {
		if v.BillingStatus != domain.BillingBilled {
			continue
		}
		billings = append(billings, v.AsBilling())
	}
	return billings, nil
}

// GetBilling returns the receivable view of one billing voucher.
func (s *statementService) GetBilling(ctx context.Context, billingVoucherID string) (*domain.Billing, error) {
	v, err := s.voucherRepo.FindVoucherByID(ctx, billingVoucherID)
	if err != nil {
		return nil, err
	}
	if v.TransactionType != domain.TransactionBilling {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNotABilling)
	}
	billing := v.AsBilling()
	return &billing, nil
}
