package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type fakePDFInvoices struct {
	owner        int
	inv          *models.InvoiceWithDetails
	urls         map[int]string
	detailsCalls int
}

func (f *fakePDFInvoices) SocietyOf(_ context.Context, _ int) (int, error) {
	if f.owner == 0 {
		return 0, apperrors.NotFound("invoice not found")
	}
	return f.owner, nil
}

func (f *fakePDFInvoices) GetWithDetails(_ context.Context, _ tenant.Scope, _ int) (*models.InvoiceWithDetails, error) {
	f.detailsCalls++
	return f.inv, nil
}

func (f *fakePDFInvoices) SetPDFURL(_ context.Context, _ tenant.Scope, id int, url string) error {
	if f.urls == nil {
		f.urls = map[int]string{}
	}
	f.urls[id] = url
	return nil
}

type fakeObjectStore struct {
	uploads map[string][]byte
}

func (f *fakeObjectStore) Upload(_ context.Context, key string, data []byte, _ string) error {
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[key] = data
	return nil
}

func (f *fakeObjectStore) PresignedURL(_ context.Context, key string) (string, error) {
	return "https://r2.example/" + key, nil
}

func pdfInvoice(status string) *models.InvoiceWithDetails {
	inv := &models.InvoiceWithDetails{}
	inv.ID = 7
	inv.InvoiceNumber = "INV-000007"
	inv.Status = status
	inv.TotalAmount = 1100
	inv.ResidentName = "Asha"
	inv.UnitNumber = "A-101"
	inv.Items = []models.InvoiceItem{{Description: "Monthly maintenance", Amount: 1100}}
	return inv
}

func TestRenderRejectsForeignInvoice(t *testing.T) {
	invoices := &fakePDFInvoices{owner: 2, inv: pdfInvoice(models.InvoiceStatusPending)}
	store := &fakeObjectStore{}
	svc := NewInvoicePDFService(invoices, &fakeSocietyGet{society: testSociety()}, store)

	_, err := svc.Render(context.Background(), tenant.Scope{SocietyID: 1}, 7)

	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
	// No invoice data is loaded or written for another society.
	assert.Zero(t, invoices.detailsCalls)
	assert.Empty(t, store.uploads)
}

func TestRenderRejectsDraftInvoice(t *testing.T) {
	invoices := &fakePDFInvoices{owner: 1, inv: pdfInvoice(models.InvoiceStatusDraft)}
	store := &fakeObjectStore{}
	svc := NewInvoicePDFService(invoices, &fakeSocietyGet{society: testSociety()}, store)

	_, err := svc.Render(context.Background(), tenant.Scope{SocietyID: 1}, 7)

	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidState(err))
	assert.Empty(t, store.uploads)
}

func TestRenderUploadsAndStoresURL(t *testing.T) {
	invoices := &fakePDFInvoices{owner: 1, inv: pdfInvoice(models.InvoiceStatusPending)}
	store := &fakeObjectStore{}
	svc := NewInvoicePDFService(invoices, &fakeSocietyGet{society: testSociety()}, store)

	url, err := svc.Render(context.Background(), tenant.Scope{SocietyID: 1}, 7)

	require.NoError(t, err)
	assert.Contains(t, store.uploads, "societies/1/invoices/INV-000007.pdf")
	assert.Equal(t, "https://r2.example/societies/1/invoices/INV-000007.pdf", url)
	assert.Equal(t, url, invoices.urls[7])
}
