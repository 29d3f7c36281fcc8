package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/LogixPH/logix_ops_app/internal/apperrors"
	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	portsrepo "github.com/LogixPH/logix_ops_app/internal/core/ports/repositories"
	"github.com/LogixPH/logix_ops_app/internal/core/services"
	"github.com/LogixPH/logix_ops_app/internal/dto"
)

func billedBilling(id, stmtRef string, total, paid int64) domain.Voucher {
	return domain.Voucher{
		VoucherID:       id,
		VoucherNumber:   "EVRN20260801-" + id,
		TransactionType: domain.TransactionBilling,
		Category:        "Brokerage Income",
		Counterparty:    "Mega Harbor Trading",
		Status:          domain.StatusPosted,
		StatementRef:    stmtRef,
		TotalAmount:     decimal.NewFromInt(total),
		AmountPaid:      decimal.NewFromInt(paid),
		BillingStatus:   domain.BillingBilled,
	}
}

func TestListOpenStatements_GroupsByRef(t *testing.T) {
	repo := new(MockVoucherRepository)
	svc := services.NewStatementService(repo)

	vouchers := []domain.Voucher{
		billedBilling("b1", "STM-001", 1000, 0),
		billedBilling("b2", "STM-001", 500, 0),
		billedBilling("b3", "STM-001", 500, 250),
		billedBilling("b4", "STM-002", 300, 300), // fully paid, dropped
	}
	repo.On("ListVouchers", mock.Anything, mock.MatchedBy(func(f portsrepo.ListVouchersFilter) bool {
		return f.TransactionType == domain.TransactionBilling
	})).Return(vouchers, nil, nil).Once()

	statements, err := svc.ListOpenStatements(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, statements, 1)
	assert.Equal(t, "STM-001", statements[0].Ref)
	assert.True(t, statements[0].TotalAmount.Equal(decimal.NewFromInt(2000)))
	assert.True(t, statements[0].RemainingBalance.Equal(decimal.NewFromInt(1750)))
	repo.AssertExpectations(t)
}

func TestCollectStatement_Success(t *testing.T) {
	repo := new(MockVoucherRepository)
	svc := services.NewStatementService(repo,
		services.WithStatementClock(fixedClock),
		services.WithStatementNumberGenerator(sequenceNumbers("EVRN20260830-800")),
	)

	vouchers := []domain.Voucher{
		billedBilling("b1", "STM-001", 1000, 0),
		billedBilling("b2", "STM-001", 500, 0),
		billedBilling("b3", "STM-001", 500, 250),
	}
	repo.On("ListVouchers", mock.Anything, mock.Anything).Return(vouchers, nil, nil).Once()
	repo.On("SaveCollectionWithLinks", mock.Anything, mock.MatchedBy(func(v domain.Voucher) bool {
		return v.TransactionType == domain.TransactionCollection &&
			v.Status == domain.StatusSubmitted &&
			v.TotalAmount.Equal(decimal.NewFromInt(1750)) &&
			len(v.LinkedBillings) == 3 &&
			len(v.LineItems) == 1
	})).Return(nil).Once()

	v, err := svc.CollectStatement(context.Background(), "STM-001",
		dto.CollectStatementRequest{PayerName: "Mega Harbor Trading"}, operationsIdent)

	require.NoError(t, err)
	assert.Equal(t, "EVRN20260830-800", v.VoucherNumber)

	// Each link carries its member's own remaining balance.
	byID := make(map[string]decimal.Decimal, len(v.LinkedBillings))
	for _, lb := range v.LinkedBillings {
		byID[lb.BillingVoucherID] = lb.Amount
	}
	assert.True(t, byID["b1"].Equal(decimal.NewFromInt(1000)))
	assert.True(t, byID["b2"].Equal(decimal.NewFromInt(500)))
	assert.True(t, byID["b3"].Equal(decimal.NewFromInt(250)))
	repo.AssertExpectations(t)
}

func TestCollectStatement_UnknownRef(t *testing.T) {
	repo := new(MockVoucherRepository)
	svc := services.NewStatementService(repo)

	repo.On("ListVouchers", mock.Anything, mock.Anything).Return([]domain.Voucher{}, nil, nil).Once()

	_, err := svc.CollectStatement(context.Background(), "STM-999",
		dto.CollectStatementRequest{PayerName: "Nobody"}, operationsIdent)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "SaveCollectionWithLinks", mock.Anything, mock.Anything)
}

func TestCollectStatement_ConflictPropagates(t *testing.T) {
	repo := new(MockVoucherRepository)
	svc := services.NewStatementService(repo,
		services.WithStatementNumberGenerator(sequenceNumbers("EVRN20260830-801")),
	)

	vouchers := []domain.Voucher{billedBilling("b1", "STM-001", 1000, 0)}
	repo.On("ListVouchers", mock.Anything, mock.Anything).Return(vouchers, nil, nil).Once()
	repo.On("SaveCollectionWithLinks", mock.Anything, mock.Anything).Return(apperrors.ErrConflict).Once()

	_, err := svc.CollectStatement(context.Background(), "STM-001",
		dto.CollectStatementRequest{PayerName: "Mega Harbor Trading"}, operationsIdent)

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	repo.AssertNumberOfCalls(t, "SaveCollectionWithLinks", 1)
}

func TestCollectStatement_RetriesOnceOnNumberCollision(t *testing.T) {
	repo := new(MockVoucherRepository)
	svc := services.NewStatementService(repo,
		services.WithStatementClock(fixedClock),
		services.WithStatementNumberGenerator(sequenceNumbers("EVRN20260830-810", "EVRN20260830-811")),
	)

	vouchers := []domain.Voucher{billedBilling("b1", "STM-001", 1000, 0)}
	repo.On("ListVouchers", mock.Anything, mock.Anything).Return(vouchers, nil, nil).Once()
	repo.On("SaveCollectionWithLinks", mock.Anything, mock.MatchedBy(func(v domain.Voucher) bool {
		return v.VoucherNumber == "EVRN20260830-810"
	})).Return(apperrors.ErrDuplicate).Once()
	repo.On("SaveCollectionWithLinks", mock.Anything, mock.MatchedBy(func(v domain.Voucher) bool {
		return v.VoucherNumber == "EVRN20260830-811"
	})).Return(nil).Once()

	v, err := svc.CollectStatement(context.Background(), "STM-001",
		dto.CollectStatementRequest{PayerName: "Mega Harbor Trading"}, operationsIdent)

	require.NoError(t, err)
	assert.Equal(t, "EVRN20260830-811", v.VoucherNumber)
	repo.AssertExpectations(t)
}

func TestCollectStatement_AutoApproveNeedsCapability(t *testing.T) {
	repo := new(MockVoucherRepository)
	svc := services.NewStatementService(repo,
		services.WithStatementNumberGenerator(sequenceNumbers("EVRN20260830-820")),
	)

	vouchers := []domain.Voucher{billedBilling("b1", "STM-001", 1000, 0)}
	repo.On("ListVouchers", mock.Anything, mock.Anything).Return(vouchers, nil, nil).Once()

	_, err := svc.CollectStatement(context.Background(), "STM-001",
		dto.CollectStatementRequest{PayerName: "Mega Harbor Trading", AutoApprove: true}, operationsIdent)

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	repo.AssertNotCalled(t, "SaveCollectionWithLinks", mock.Anything, mock.Anything)
}

func TestCollectStatement_AutoApprovePostsDirectly(t *testing.T) {
	repo := new(MockVoucherRepository)
	svc := services.NewStatementService(repo,
		services.WithStatementClock(fixedClock),
		services.WithStatementNumberGenerator(sequenceNumbers("EVRN20260830-821")),
	)

	vouchers := []domain.Voucher{billedBilling("b1", "STM-001", 1000, 0)}
	repo.On("ListVouchers", mock.Anything, mock.Anything).Return(vouchers, nil, nil).Once()
	repo.On("SaveCollectionWithLinks", mock.Anything, mock.MatchedBy(func(v domain.Voucher) bool {
		return v.Status == domain.StatusPosted && v.PostedByName == "A. Reyes"
	})).Return(nil).Once()

	v, err := svc.CollectStatement(context.Background(), "STM-001",
		dto.CollectStatementRequest{PayerName: "Mega Harbor Trading", AutoApprove: true}, accountingIdent)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPosted, v.Status)
	repo.AssertExpectations(t)
}

func TestRecordPayment_Success(t *testing.T) {
	repo := new(MockVoucherRepository)
	svc := services.NewStatementService(repo)

	billing := billedBilling("b1", "STM-001", 1000, 400)
	updated := billing
	updated.AmountPaid = decimal.NewFromInt(1000)

	repo.On("FindVoucherByID", mock.Anything, "b1").Return(&billing, nil).Once()
	repo.On("ApplyPaymentToBilling", mock.Anything, "b1", decimal.NewFromInt(600), "u-acct").
		Return(&updated, nil).Once()

	result, err := svc.RecordPayment(context.Background(), "b1",
		dto.RecordPaymentRequest{Amount: decimal.NewFromInt(600)}, accountingIdent)

	require.NoError(t, err)
	assert.True(t, result.AmountDue().IsZero())
	repo.AssertExpectations(t)
}

func TestRecordPayment_OverpayRejectedBeforeStoreWrite(t *testing.T) {
	repo := new(MockVoucherRepository)
	svc := services.NewStatementService(repo)

	billing := billedBilling("b1", "STM-001", 1000, 400)
	repo.On("FindVoucherByID", mock.Anything, "b1").Return(&billing, nil).Once()

	_, err := svc.RecordPayment(context.Background(), "b1",
		dto.RecordPaymentRequest{Amount: decimal.NewFromInt(700)}, accountingIdent)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	repo.AssertNotCalled(t, "ApplyPaymentToBilling", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordPayment_NonBillingRejected(t *testing.T) {
	repo := new(MockVoucherRepository)
	svc := services.NewStatementService(repo)

	expense := domain.Voucher{
		VoucherID:       "v1",
		TransactionType: domain.TransactionExpense,
		Status:          domain.StatusPosted,
	}
	repo.On("FindVoucherByID", mock.Anything, "v1").Return(&expense, nil).Once()

	_, err := svc.RecordPayment(context.Background(), "v1",
		dto.RecordPaymentRequest{Amount: decimal.NewFromInt(100)}, accountingIdent)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	repo.AssertNotCalled(t, "ApplyPaymentToBilling", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordPayment_PendingBillingRejected(t *testing.T) {
	repo := new(MockVoucherRepository)
	svc := services.NewStatementService(repo)

	pending := billedBilling("b1", "STM-001", 1000, 0)
	pending.BillingStatus = domain.BillingPending
	repo.On("FindVoucherByID", mock.Anything, "b1").Return(&pending, nil).Once()

	_, err := svc.RecordPayment(context.Background(), "b1",
		dto.RecordPaymentRequest{Amount: decimal.NewFromInt(100)}, accountingIdent)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	repo.AssertNotCalled(t, "ApplyPaymentToBilling", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListBillings_OnlyBilled(t *testing.T) {
	repo := new(MockVoucherRepository)
	svc := services.NewStatementService(repo)

	pending := billedBilling("b2", "", 500, 0)
	pending.BillingStatus = domain.BillingPending
	vouchers := []domain.Voucher{billedBilling("b1", "STM-001", 1000, 0), pending}
	repo.On("ListVouchers", mock.Anything, mock.Anything).Return(vouchers, nil, nil).Once()

	billings, err := svc.ListBillings(context.Background())

	require.NoError(t, err)
	require.Len(t, billings, 1)
	assert.Equal(t, "b1", billings[0].VoucherID)
}
