package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

// fakePaymentStore mimics the repository's locked balance arithmetic.
type fakePaymentStore struct {
	balance float64
	paid    float64
	status  string
}

func (f *fakePaymentStore) Record(_ context.Context, _ tenant.Scope, _ int, req *models.RecordPaymentRequest) (*models.RecordPaymentResult, error) {
	amount := models.RoundMoney(req.Amount)
	if amount > f.balance {
		return nil, apperrors.Validation("payment %.2f exceeds balance due %.2f", amount, f.balance)
	}
	f.paid = models.RoundMoney(f.paid + amount)
	f.balance = models.RoundMoney(f.balance - amount)
	if f.balance == 0 {
		f.status = models.InvoiceStatusPaid
	}
	return &models.RecordPaymentResult{PaymentID: 1, NewBalanceDue: f.balance, InvoiceStatus: f.status}, nil
}

func (f *fakePaymentStore) ListByInvoice(_ context.Context, _ tenant.Scope, _ int) ([]*models.Payment, error) {
	return nil, nil
}

func paymentReq(amount float64, method string) *models.RecordPaymentRequest {
	return &models.RecordPaymentRequest{
		Amount:      amount,
		Method:      method,
		PaymentDate: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestRecordPartialThenFullPayment(t *testing.T) {
	store := &fakePaymentStore{balance: 500, status: models.InvoiceStatusPending}
	svc := NewPaymentService(store)
	scope := tenant.Scope{SocietyID: 1, UserID: 2}

	first, err := svc.Record(context.Background(), scope, 10, paymentReq(300, models.PaymentMethodCash))
	require.NoError(t, err)
	assert.Equal(t, 200.0, first.NewBalanceDue)
	assert.Equal(t, models.InvoiceStatusPending, first.InvoiceStatus)

	second, err := svc.Record(context.Background(), scope, 10, paymentReq(200, models.PaymentMethodUPI))
	require.NoError(t, err)
	assert.Equal(t, 0.0, second.NewBalanceDue)
	assert.Equal(t, models.InvoiceStatusPaid, second.InvoiceStatus)
}

func TestRecordRejectsOverpayment(t *testing.T) {
	store := &fakePaymentStore{balance: 500, status: models.InvoiceStatusPending}
	svc := NewPaymentService(store)

	_, err := svc.Record(context.Background(), tenant.Scope{SocietyID: 1}, 10,
		paymentReq(500.01, models.PaymentMethodCash))

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 500.0, store.balance)
}

func TestRecordRejectsNonPositiveAmount(t *testing.T) {
	svc := NewPaymentService(&fakePaymentStore{balance: 500})

	for _, amount := range []float64{0, -10} {
		_, err := svc.Record(context.Background(), tenant.Scope{SocietyID: 1}, 10,
			paymentReq(amount, models.PaymentMethodCash))
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	}
}

func TestRecordRejectsUnknownMethod(t *testing.T) {
	svc := NewPaymentService(&fakePaymentStore{balance: 500})

	_, err := svc.Record(context.Background(), tenant.Scope{SocietyID: 1}, 10,
		paymentReq(100, "iou"))

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

// The "online" method is reserved for the payment gateway path; manual
// entry cannot use it.
func TestRecordRejectsOnlineMethodForManualEntry(t *testing.T) {
	svc := NewPaymentService(&fakePaymentStore{balance: 500})

	_, err := svc.Record(context.Background(), tenant.Scope{SocietyID: 1}, 10,
		paymentReq(100, models.PaymentMethodOnline))

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestRecordDefaultsPaymentDate(t *testing.T) {
	store := &fakePaymentStore{balance: 500, status: models.InvoiceStatusPending}
	svc := NewPaymentService(store)
	req := &models.RecordPaymentRequest{Amount: 100, Method: models.PaymentMethodCash}

	_, err := svc.Record(context.Background(), tenant.Scope{SocietyID: 1}, 10, req)

	require.NoError(t, err)
	assert.False(t, req.PaymentDate.IsZero())
}
