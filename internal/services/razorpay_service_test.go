package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type fakeOnlineTxStore struct {
	tx       *models.OnlineTransaction
	captured []string
	failed   []string
}

func (f *fakeOnlineTxStore) Create(_ context.Context, _ tenant.Scope, invoiceID int, orderID string, amount float64) (*models.OnlineTransaction, error) {
	f.tx = &models.OnlineTransaction{InvoiceID: invoiceID, RazorpayOrderID: orderID, Amount: amount}
	return f.tx, nil
}

func (f *fakeOnlineTxStore) GetByOrderID(_ context.Context, orderID string) (*models.OnlineTransaction, error) {
	if f.tx == nil || f.tx.RazorpayOrderID != orderID {
		return nil, apperrors.NotFound("online transaction not found")
	}
	return f.tx, nil
}

func (f *fakeOnlineTxStore) MarkCaptured(_ context.Context, orderID, paymentID string) (bool, error) {
	f.captured = append(f.captured, paymentID)
	if f.tx != nil {
		f.tx.Status = models.OnlineTxStatusCaptured
	}
	return true, nil
}

func (f *fakeOnlineTxStore) MarkFailed(_ context.Context, orderID, msg string) error {
	f.failed = append(f.failed, msg)
	return nil
}

type fakePaymentRecorder struct {
	recorded []*models.RecordPaymentRequest
	failWith error
}

func (f *fakePaymentRecorder) Record(_ context.Context, _ tenant.Scope, _ int, req *models.RecordPaymentRequest) (*models.RecordPaymentResult, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.recorded = append(f.recorded, req)
	return &models.RecordPaymentResult{PaymentID: 1, InvoiceStatus: models.InvoiceStatusPaid}, nil
}

type fakeInvoiceGet struct{ invoice *models.Invoice }

func (f *fakeInvoiceGet) Get(_ context.Context, _ tenant.Scope, _ int) (*models.Invoice, error) {
	return f.invoice, nil
}

const testWebhookSecret = "whsec_test"

func signBody(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func razorpayFixture(txs *fakeOnlineTxStore, payments *fakePaymentRecorder) *RazorpayService {
	return NewRazorpayService("rzp_test_key", "secret", testWebhookSecret,
		txs, &fakeInvoiceGet{}, payments)
}

func capturedEvent(orderID, paymentID string) []byte {
	return []byte(fmt.Sprintf(
		`{"event":"payment.captured","payload":{"payment":{"entity":{"id":%q,"order_id":%q}}}}`,
		paymentID, orderID))
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	svc := razorpayFixture(&fakeOnlineTxStore{}, &fakePaymentRecorder{})
	body := capturedEvent("order_1", "pay_1")

	err := svc.HandleWebhook(context.Background(), body, "not-the-signature")

	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestWebhookCapturedRecordsPayment(t *testing.T) {
	txs := &fakeOnlineTxStore{
		tx: &models.OnlineTransaction{
			SocietyID: 3, InvoiceID: 17, RazorpayOrderID: "order_1", Amount: 750.50,
			Status: models.OnlineTxStatusCreated,
		},
	}
	payments := &fakePaymentRecorder{}
	svc := razorpayFixture(txs, payments)
	body := capturedEvent("order_1", "pay_1")

	err := svc.HandleWebhook(context.Background(), body, signBody(body))

	require.NoError(t, err)
	require.Len(t, payments.recorded, 1)
	assert.Equal(t, 750.50, payments.recorded[0].Amount)
	assert.Equal(t, models.PaymentMethodOnline, payments.recorded[0].Method)
	assert.Equal(t, "pay_1", payments.recorded[0].Reference)
	assert.Equal(t, []string{"pay_1"}, txs.captured)
}

func TestWebhookRedeliveryIsIdempotent(t *testing.T) {
	txs := &fakeOnlineTxStore{
		tx: &models.OnlineTransaction{
			SocietyID: 3, InvoiceID: 17, RazorpayOrderID: "order_1", Amount: 750.50,
			Status: models.OnlineTxStatusCaptured,
		},
	}
	payments := &fakePaymentRecorder{}
	svc := razorpayFixture(txs, payments)
	body := capturedEvent("order_1", "pay_1")

	err := svc.HandleWebhook(context.Background(), body, signBody(body))

	require.NoError(t, err)
	assert.Empty(t, payments.recorded)
	assert.Empty(t, txs.captured)
}

func TestWebhookRecordFailureKeepsTransactionOpen(t *testing.T) {
	txs := &fakeOnlineTxStore{
		tx: &models.OnlineTransaction{
			SocietyID: 3, InvoiceID: 17, RazorpayOrderID: "order_1", Amount: 750.50,
			Status: models.OnlineTxStatusCreated,
		},
	}
	payments := &fakePaymentRecorder{failWith: errors.New("connection reset")}
	svc := razorpayFixture(txs, payments)
	body := capturedEvent("order_1", "pay_1")

	err := svc.HandleWebhook(context.Background(), body, signBody(body))

	require.Error(t, err)
	assert.Empty(t, txs.captured, "transaction must stay open when recording fails")

	// The gateway redelivers after the fault clears; the payment lands
	// exactly once.
	payments.failWith = nil
	err = svc.HandleWebhook(context.Background(), body, signBody(body))

	require.NoError(t, err)
	require.Len(t, payments.recorded, 1)
	assert.Equal(t, []string{"pay_1"}, txs.captured)
}

func TestWebhookUnknownOrderIsAcknowledged(t *testing.T) {
	payments := &fakePaymentRecorder{}
	svc := razorpayFixture(&fakeOnlineTxStore{}, payments)
	body := capturedEvent("order_unknown", "pay_1")

	err := svc.HandleWebhook(context.Background(), body, signBody(body))

	assert.NoError(t, err)
	assert.Empty(t, payments.recorded)
}

func TestWebhookFailureMarksTransaction(t *testing.T) {
	txs := &fakeOnlineTxStore{
		tx: &models.OnlineTransaction{SocietyID: 3, InvoiceID: 17, RazorpayOrderID: "order_1"},
	}
	payments := &fakePaymentRecorder{}
	svc := razorpayFixture(txs, payments)
	body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_1","error_description":"card declined"}}}}`)

	err := svc.HandleWebhook(context.Background(), body, signBody(body))

	require.NoError(t, err)
	require.Len(t, txs.failed, 1)
	assert.Equal(t, "card declined", txs.failed[0])
	assert.Empty(t, payments.recorded)
}

func TestWebhookIgnoresUnknownEvents(t *testing.T) {
	svc := razorpayFixture(&fakeOnlineTxStore{}, &fakePaymentRecorder{})
	body := []byte(`{"event":"refund.processed","payload":{}}`)

	err := svc.HandleWebhook(context.Background(), body, signBody(body))

	assert.NoError(t, err)
}
