package domain_test

import (
	"testing"
	"time"

	"github.com/LogixPH/logix_ops_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestBilling_AmountDue(t *testing.T) {
	b := domain.Billing{
		TotalAmount: decimal.NewFromInt(1000),
		AmountPaid:  decimal.NewFromInt(400),
	}
	assert.True(t, b.AmountDue().Equal(decimal.NewFromInt(600)))

	// Never negative, even if upstream data overpaid.
	over := domain.Billing{
		TotalAmount: decimal.NewFromInt(100),
		AmountPaid:  decimal.NewFromInt(150),
	}
	assert.True(t, over.AmountDue().Equal(decimal.Zero))
}

func TestBilling_ApplyPayment_PartialThenFull(t *testing.T) {
	b := domain.Billing{TotalAmount: decimal.NewFromInt(1000)}

	after, err := b.ApplyPayment(decimal.NewFromInt(400))
	require.NoError(t, err)
	assert.True(t, after.AmountPaid.Equal(decimal.NewFromInt(400)))
	assert.True(t, after.AmountDue().Equal(decimal.NewFromInt(600)))
	assert.Equal(t, domain.PaymentPartial, after.PaymentStatusAt(time.Now()))

	final, err := after.ApplyPayment(decimal.NewFromInt(600))
	require.NoError(t, err)
	assert.True(t, final.AmountPaid.Equal(decimal.NewFromInt(1000)))
	assert.True(t, final.AmountDue().Equal(decimal.Zero))
	assert.Equal(t, domain.PaymentPaid, final.PaymentStatusAt(time.Now()))
}

func TestBilling_ApplyPayment_RejectsOverpayment(t *testing.T) {
	b := domain.Billing{
		TotalAmount: decimal.NewFromInt(1000),
		AmountPaid:  decimal.NewFromInt(400),
	}

	_, err := b.ApplyPayment(decimal.NewFromInt(700))
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsDue)

	// The receiver must be unchanged.
	assert.True(t, b.AmountPaid.Equal(decimal.NewFromInt(400)))
}

func TestBilling_ApplyPayment_RejectsNonPositive(t *testing.T) {
	b := domain.Billing{TotalAmount: decimal.NewFromInt(100)}

	_, err := b.ApplyPayment(decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrPaymentNotPositive)

	_, err = b.ApplyPayment(decimal.NewFromInt(-5))
	assert.ErrorIs(t, err, domain.ErrPaymentNotPositive)
}

func TestBilling_PaymentStatusAt(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	nextWeek := now.AddDate(0, 0, 7)

	tests := []struct {
		name    string
		billing domain.Billing
		want    domain.PaymentStatus
	}{
		{
			name:    "unpaid before due date",
			billing: domain.Billing{TotalAmount: decimal.NewFromInt(100), DueDate: timePtr(nextWeek)},
			want:    domain.PaymentUnpaid,
		},
		{
			name:    "unpaid past due date is overdue",
			billing: domain.Billing{TotalAmount: decimal.NewFromInt(100), DueDate: timePtr(yesterday)},
			want:    domain.PaymentOverdue,
		},
		{
			name: "partially paid past due date is still overdue",
			billing: domain.Billing{
				TotalAmount: decimal.NewFromInt(100),
				AmountPaid:  decimal.NewFromInt(40),
				DueDate:     timePtr(yesterday),
			},
			want: domain.PaymentOverdue,
		},
		{
			name: "fully paid past due date is paid, not overdue",
			billing: domain.Billing{
				TotalAmount: decimal.NewFromInt(100),
				AmountPaid:  decimal.NewFromInt(100),
				DueDate:     timePtr(yesterday),
			},
			want: domain.PaymentPaid,
		},
		{
			name: "partial before due date",
			billing: domain.Billing{
				TotalAmount: decimal.NewFromInt(100),
				AmountPaid:  decimal.NewFromInt(40),
				DueDate:     timePtr(nextWeek),
			},
			want: domain.PaymentPartial,
		},
		{
			name:    "no due date never goes overdue",
			billing: domain.Billing{TotalAmount: decimal.NewFromInt(100)},
			want:    domain.PaymentUnpaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.billing.PaymentStatusAt(now))
		})
	}
}

func TestBilling_RemainingBalanceFallback(t *testing.T) {
	unpaid := domain.Billing{TotalAmount: decimal.NewFromInt(750)}
	assert.True(t, unpaid.RemainingBalance().Equal(decimal.NewFromInt(750)))

	partial := domain.Billing{TotalAmount: decimal.NewFromInt(750), AmountPaid: decimal.NewFromInt(250)}
	assert.True(t, partial.RemainingBalance().Equal(decimal.NewFromInt(500)))
}
