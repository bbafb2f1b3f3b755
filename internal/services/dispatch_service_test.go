package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type fakeDispatchBatches struct {
	batch      *models.InvoiceBatch
	markedSent bool
}

func (f *fakeDispatchBatches) Get(_ context.Context, _ tenant.Scope, _ int) (*models.InvoiceBatch, error) {
	return f.batch, nil
}

func (f *fakeDispatchBatches) MarkSent(_ context.Context, _ tenant.Scope, _ int) error {
	f.markedSent = true
	return nil
}

type fakeDispatchInvoices struct {
	invoices []*models.InvoiceWithDetails
	sentIDs  []int
}

func (f *fakeDispatchInvoices) ListForDispatch(_ context.Context, _ tenant.Scope, _ int) ([]*models.InvoiceWithDetails, error) {
	return f.invoices, nil
}

func (f *fakeDispatchInvoices) BulkMarkSent(_ context.Context, _ tenant.Scope, ids []int) error {
	f.sentIDs = ids
	return nil
}

type fakeMessageLogs struct {
	mu      sync.Mutex
	entries []*models.MessageLog
}

func (f *fakeMessageLogs) Create(_ context.Context, entry *models.MessageLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeMessageLogs) byStatus(status string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.entries {
		if e.Status == status {
			n++
		}
	}
	return n
}

type fakeSender struct {
	mu       sync.Mutex
	failFor  map[string]bool
	attempts []string
}

func (f *fakeSender) SendTemplateMessage(phone, _ string, _ []string) error {
	f.mu.Lock()
	f.attempts = append(f.attempts, phone)
	f.mu.Unlock()
	if f.failFor[phone] {
		return errors.New("webhook timeout")
	}
	return nil
}

func dispatchInvoice(id int, phone string, optIn bool, pdfURL string) *models.InvoiceWithDetails {
	inv := &models.InvoiceWithDetails{}
	inv.ID = id
	inv.InvoiceNumber = "INV-000001"
	inv.Status = models.InvoiceStatusPending
	inv.TotalAmount = 500
	inv.ResidentName = "Asha"
	inv.ResidentPhone = phone
	inv.WhatsAppOptIn = optIn
	inv.PDFURL = pdfURL
	return inv
}

func dispatchFixture(batch *models.InvoiceBatch, invoices []*models.InvoiceWithDetails, sender *fakeSender) (*DispatchService, *fakeDispatchBatches, *fakeDispatchInvoices, *fakeMessageLogs) {
	batches := &fakeDispatchBatches{batch: batch}
	invoiceStore := &fakeDispatchInvoices{invoices: invoices}
	logs := &fakeMessageLogs{}
	svc := NewDispatchService(batches, invoiceStore,
		&fakeSocietyGet{society: testSociety()}, logs, sender, "invoice_ready")
	return svc, batches, invoiceStore, logs
}

func pendingBatch() *models.InvoiceBatch {
	return &models.InvoiceBatch{ID: 1, Status: models.BatchStatusPending}
}

func TestSendRejectsNonPendingBatch(t *testing.T) {
	svc, batches, _, _ := dispatchFixture(
		&models.InvoiceBatch{ID: 1, Status: models.BatchStatusDraft}, nil, &fakeSender{})

	_, err := svc.Send(context.Background(), tenant.Scope{SocietyID: 1}, 1)

	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidState(err))
	assert.False(t, batches.markedSent)
}

func TestSendAllSucceed(t *testing.T) {
	sender := &fakeSender{}
	svc, batches, invoiceStore, logs := dispatchFixture(pendingBatch(), []*models.InvoiceWithDetails{
		dispatchInvoice(1, "9876500001", true, "https://r2/inv1.pdf"),
		dispatchInvoice(2, "9876500002", true, "https://r2/inv2.pdf"),
		dispatchInvoice(3, "9876500003", true, "https://r2/inv3.pdf"),
	}, sender)

	result, err := svc.Send(context.Background(), tenant.Scope{SocietyID: 1}, 1)

	require.NoError(t, err)
	assert.Equal(t, 3, result.MessagesTriggered)
	assert.Equal(t, 0, result.TriggerFailures)
	assert.Equal(t, 3, result.TotalInvoices)
	assert.True(t, batches.markedSent)
	assert.ElementsMatch(t, []int{1, 2, 3}, invoiceStore.sentIDs)
	assert.Equal(t, 3, logs.byStatus(models.MessageStatusSent))
}

func TestSendSkipsCountAsFailures(t *testing.T) {
	sender := &fakeSender{}
	svc, batches, invoiceStore, logs := dispatchFixture(pendingBatch(), []*models.InvoiceWithDetails{
		dispatchInvoice(1, "9876500001", true, "https://r2/inv1.pdf"),
		dispatchInvoice(2, "", true, "https://r2/inv2.pdf"),             // no phone
		dispatchInvoice(3, "9876500003", false, "https://r2/inv3.pdf"), // opted out
		dispatchInvoice(4, "9876500004", true, ""),                     // no PDF
	}, sender)

	result, err := svc.Send(context.Background(), tenant.Scope{SocietyID: 1}, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, result.MessagesTriggered)
	assert.Equal(t, 3, result.TriggerFailures)
	assert.True(t, batches.markedSent)
	assert.ElementsMatch(t, []int{1}, invoiceStore.sentIDs)
	assert.Equal(t, 3, logs.byStatus(models.MessageStatusSkipped))
	// Skipped invoices never hit the webhook.
	assert.Len(t, sender.attempts, 1)
}

func TestSendSkipsSettledInvoices(t *testing.T) {
	sender := &fakeSender{}
	paid := dispatchInvoice(2, "9876500002", true, "https://r2/inv2.pdf")
	paid.Status = models.InvoiceStatusPaid
	svc, _, invoiceStore, logs := dispatchFixture(pendingBatch(), []*models.InvoiceWithDetails{
		dispatchInvoice(1, "9876500001", true, "https://r2/inv1.pdf"),
		paid,
	}, sender)

	result, err := svc.Send(context.Background(), tenant.Scope{SocietyID: 1}, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, result.MessagesTriggered)
	assert.Equal(t, 1, result.TriggerFailures)
	assert.ElementsMatch(t, []int{1}, invoiceStore.sentIDs)
	// A resident who already paid never gets a dunning message.
	assert.Equal(t, []string{"9876500001"}, sender.attempts)
	assert.Equal(t, 1, logs.byStatus(models.MessageStatusSkipped))
}

func TestSendFailuresDoNotAbortRest(t *testing.T) {
	sender := &fakeSender{failFor: map[string]bool{"9876500002": true}}
	svc, _, _, logs := dispatchFixture(pendingBatch(), []*models.InvoiceWithDetails{
		dispatchInvoice(1, "9876500001", true, "https://r2/inv1.pdf"),
		dispatchInvoice(2, "9876500002", true, "https://r2/inv2.pdf"),
		dispatchInvoice(3, "9876500003", true, "https://r2/inv3.pdf"),
	}, sender)

	result, err := svc.Send(context.Background(), tenant.Scope{SocietyID: 1}, 1)

	require.NoError(t, err)
	assert.Equal(t, 2, result.MessagesTriggered)
	assert.Equal(t, 1, result.TriggerFailures)
	assert.Len(t, sender.attempts, 3)
	assert.Equal(t, 1, logs.byStatus(models.MessageStatusFailed))
	require.Len(t, result.Failures, 1)
	assert.Equal(t, 2, result.Failures[0].InvoiceID)
	assert.Equal(t, "webhook timeout", result.Failures[0].Reason)
}

func TestSendNothingTriggeredKeepsBatchPending(t *testing.T) {
	sender := &fakeSender{failFor: map[string]bool{"9876500001": true}}
	svc, batches, invoiceStore, _ := dispatchFixture(pendingBatch(), []*models.InvoiceWithDetails{
		dispatchInvoice(1, "9876500001", true, "https://r2/inv1.pdf"),
		dispatchInvoice(2, "", true, "https://r2/inv2.pdf"),
	}, sender)

	result, err := svc.Send(context.Background(), tenant.Scope{SocietyID: 1}, 1)

	require.NoError(t, err)
	assert.Equal(t, 0, result.MessagesTriggered)
	assert.Equal(t, 2, result.TriggerFailures)
	assert.False(t, batches.markedSent)
	assert.Empty(t, invoiceStore.sentIDs)
}
