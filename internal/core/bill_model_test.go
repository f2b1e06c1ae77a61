package core

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBillAmounts(t *testing.T) {
	tests := []struct {
		name               string
		subtotal, rate     string
		wantGST, wantTotal string
	}{
		{"five percent", "3900", "5", "195", "4095"},
		{"zero rate", "3900", "0", "0", "3900"},
		{"fractional rate", "1000", "2.5", "25", "1025"},
		{"rounds to paise", "333.33", "18", "60", "393.33"},
		{"half paise rounds up", "0.50", "5", "0.03", "0.53"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeBillAmounts(decimal.RequireFromString(tt.subtotal), decimal.RequireFromString(tt.rate))
			require.NoError(t, err)
			assert.True(t, got.GSTAmount.Equal(decimal.RequireFromString(tt.wantGST)), "gst: got %s", got.GSTAmount)
			assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString(tt.wantTotal)), "total: got %s", got.TotalAmount)
			assert.True(t, got.TotalAmount.Equal(got.Subtotal.Add(got.GSTAmount)))
		})
	}
}

func TestComputeBillAmounts_RateBounds(t *testing.T) {
	subtotal := decimal.NewFromInt(100)
	for _, rate := range []string{"-5", "100.01", "1000", "5.125"} {
		t.Run(rate, func(t *testing.T) {
			_, err := ComputeBillAmounts(subtotal, decimal.RequireFromString(rate))
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "gst_rate", ve.Field)
		})
	}

	amounts, err := ComputeBillAmounts(subtotal, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, amounts.TotalAmount.Equal(decimal.NewFromInt(200)), "got %s", amounts.TotalAmount)
}

func TestFormatBillNumber(t *testing.T) {
	assert.Equal(t, "RKT-2026-0001", FormatBillNumber("RKT", 2026, 1))
	assert.Equal(t, "RKT-2026-0042", FormatBillNumber("", 2026, 42))
	assert.Equal(t, "INV-2025-12345", FormatBillNumber("INV", 2025, 12345))
}

func TestValidPaymentStatus(t *testing.T) {
	assert.True(t, ValidPaymentStatus(PaymentStatusPaid))
	assert.True(t, ValidPaymentStatus(PaymentStatusPending))
	assert.False(t, ValidPaymentStatus("paid"))
	assert.False(t, ValidPaymentStatus(""))
}

func TestBillInsertError(t *testing.T) {
	cases := map[string]string{
		"bills_order_id_key":    "order 7 has already been billed",
		"bills_bill_number_key": "bill number RKT-2026-0001 is already in use",
		"bills_other_key":       "bill for order 7 conflicts with an existing bill",
	}
	for constraint, want := range cases {
		t.Run(constraint, func(t *testing.T) {
			err := billInsertError(&pgconn.PgError{Code: "23505", ConstraintName: constraint}, 7, "RKT-2026-0001")
			var ce *ConflictError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, want, ce.Message)
		})
	}

	err := billInsertError(errors.New("connection reset"), 7, "RKT-2026-0001")
	var ce *ConflictError
	assert.False(t, errors.As(err, &ce))
	assert.ErrorContains(t, err, "failed to insert bill")
}
