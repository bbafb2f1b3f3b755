package services

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/jung-kurt/gofpdf/v2"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/metrics"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
	"flatpay-backend/internal/timeutil"
)

type pdfInvoiceStore interface {
	SocietyOf(ctx context.Context, id int) (int, error)
	GetWithDetails(ctx context.Context, scope tenant.Scope, id int) (*models.InvoiceWithDetails, error)
	SetPDFURL(ctx context.Context, scope tenant.Scope, id int, url string) error
}

// ObjectStore is where rendered PDFs land. Satisfied by the S3/R2
// client.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PresignedURL(ctx context.Context, key string) (string, error)
}

// InvoicePDFService renders invoice PDFs and uploads them to object
// storage. Rendering is decoupled from batch finalization so a render
// failure never blocks the billing lifecycle.
type InvoicePDFService struct {
	invoices  pdfInvoiceStore
	societies societyStore
	store     ObjectStore
}

func NewInvoicePDFService(invoices pdfInvoiceStore, societies societyStore, store ObjectStore) *InvoicePDFService {
	return &InvoicePDFService{invoices: invoices, societies: societies, store: store}
}

// Render builds the PDF for an invoice, uploads it under a key derived
// from the invoice number and stores the download URL. Re-rendering
// overwrites the previous object at the same key. An invoice owned by
// another society is rejected before any of its data is loaded.
func (s *InvoicePDFService) Render(ctx context.Context, scope tenant.Scope, invoiceID int) (string, error) {
	ownerID, err := s.invoices.SocietyOf(ctx, invoiceID)
	if err != nil {
		return "", err
	}
	if err := scope.CheckOwnership(ownerID); err != nil {
		return "", err
	}

	inv, err := s.invoices.GetWithDetails(ctx, scope, invoiceID)
	if err != nil {
		return "", err
	}
	if inv.Status == models.InvoiceStatusDraft {
		return "", apperrors.InvalidState("invoice is still draft; finalize the batch before rendering")
	}
	society, err := s.societies.Get(ctx, scope)
	if err != nil {
		return "", err
	}

	data, err := BuildInvoicePDF(society, inv)
	if err != nil {
		metrics.PDFsRendered.WithLabelValues("failed").Inc()
		return "", apperrors.Render(err, "rendering invoice %s", inv.InvoiceNumber)
	}

	key := fmt.Sprintf("societies/%d/invoices/%s.pdf", scope.SocietyID, inv.InvoiceNumber)
	if err := s.store.Upload(ctx, key, data, "application/pdf"); err != nil {
		metrics.PDFsRendered.WithLabelValues("failed").Inc()
		return "", apperrors.Render(err, "uploading invoice %s", inv.InvoiceNumber)
	}
	url, err := s.store.PresignedURL(ctx, key)
	if err != nil {
		metrics.PDFsRendered.WithLabelValues("failed").Inc()
		return "", apperrors.Render(err, "presigning invoice %s", inv.InvoiceNumber)
	}

	if err := s.invoices.SetPDFURL(ctx, scope, invoiceID, url); err != nil {
		return "", err
	}
	metrics.PDFsRendered.WithLabelValues("success").Inc()
	log.Printf("[PDF] society=%d invoice=%s rendered to %s", scope.SocietyID, inv.InvoiceNumber, key)
	return url, nil
}

// BuildInvoicePDF lays out one invoice as an A4 PDF.
func BuildInvoicePDF(society *models.Society, inv *models.InvoiceWithDetails) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+inv.InvoiceNumber, false)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, society.Name)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.Cell(0, 6, society.Address)
	pdf.Ln(10)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "INVOICE "+inv.InvoiceNumber)
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	writeRow := func(label, value string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(45, 6, label)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, value)
		pdf.Ln(6)
	}
	writeRow("Billed To:", fmt.Sprintf("%s (Unit %s)", inv.ResidentName, inv.UnitNumber))
	writeRow("Period:", fmt.Sprintf("%s to %s",
		inv.PeriodStart.Format(timeutil.DisplayLayout), inv.PeriodEnd.Format(timeutil.DisplayLayout)))
	writeRow("Due Date:", inv.DueDate.Format(timeutil.DisplayLayout))
	pdf.Ln(6)

	// Line items
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(140, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Amount (Rs.)", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range inv.Items {
		pdf.CellFormat(140, 7, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", item.Amount), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(140, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", inv.TotalAmount), "1", 1, "R", false, 0, "")

	if inv.AmountPaid > 0 {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(140, 7, "Paid", "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", inv.AmountPaid), "1", 1, "R", false, 0, "")
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(140, 7, "Balance Due", "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", inv.BalanceDue), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(10)

	// Payment instructions
	if society.BankAccount != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, "Payment Details")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 9)
		pdf.Cell(0, 5, fmt.Sprintf("Bank: %s  |  A/C: %s  |  IFSC: %s",
			society.BankName, society.BankAccount, society.BankIFSC))
		pdf.Ln(8)
	}

	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.Cell(0, 5, "This is a computer generated invoice.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
