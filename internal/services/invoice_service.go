package services

import (
	"context"
	"log"
	"time"

	"flatpay-backend/internal/models"
	"flatpay-backend/internal/repositories"
	"flatpay-backend/internal/tenant"
	"flatpay-backend/internal/timeutil"
)

type invoiceStore interface {
	Get(ctx context.Context, scope tenant.Scope, id int) (*models.Invoice, error)
	GetWithDetails(ctx context.Context, scope tenant.Scope, id int) (*models.InvoiceWithDetails, error)
	List(ctx context.Context, scope tenant.Scope, filter repositories.InvoiceFilter) ([]*models.Invoice, error)
	MarkOverdue(ctx context.Context, scope tenant.Scope, asOf time.Time) (int, error)
}

type invoiceMessageLogStore interface {
	ListByInvoice(ctx context.Context, scope tenant.Scope, invoiceID int) ([]*models.MessageLog, error)
}

type invoiceTxStore interface {
	ListByInvoice(ctx context.Context, scope tenant.Scope, invoiceID int) ([]*models.OnlineTransaction, error)
}

// InvoiceService covers invoice reads, delivery and gateway history,
// and the overdue sweep.
type InvoiceService struct {
	invoices invoiceStore
	logs     invoiceMessageLogStore
	txs      invoiceTxStore
}

func NewInvoiceService(invoices invoiceStore, logs invoiceMessageLogStore, txs invoiceTxStore) *InvoiceService {
	return &InvoiceService{invoices: invoices, logs: logs, txs: txs}
}

func (s *InvoiceService) Get(ctx context.Context, scope tenant.Scope, id int) (*models.InvoiceWithDetails, error) {
	return s.invoices.GetWithDetails(ctx, scope, id)
}

func (s *InvoiceService) List(ctx context.Context, scope tenant.Scope, filter repositories.InvoiceFilter) ([]*models.Invoice, error) {
	return s.invoices.List(ctx, scope, filter)
}

// Messages lists delivery attempts for an invoice, newest first.
func (s *InvoiceService) Messages(ctx context.Context, scope tenant.Scope, invoiceID int) ([]*models.MessageLog, error) {
	if _, err := s.invoices.Get(ctx, scope, invoiceID); err != nil {
		return nil, err
	}
	return s.logs.ListByInvoice(ctx, scope, invoiceID)
}

// Transactions lists gateway attempts against an invoice.
func (s *InvoiceService) Transactions(ctx context.Context, scope tenant.Scope, invoiceID int) ([]*models.OnlineTransaction, error) {
	if _, err := s.invoices.Get(ctx, scope, invoiceID); err != nil {
		return nil, err
	}
	return s.txs.ListByInvoice(ctx, scope, invoiceID)
}

// MarkOverdue flips pending invoices whose due date has passed in the
// society's local timezone.
func (s *InvoiceService) MarkOverdue(ctx context.Context, scope tenant.Scope, society *models.Society) (int, error) {
	today := timeutil.StartOfDay(timeutil.Now(), timeutil.SocietyLocation(society.Timezone))
	n, err := s.invoices.MarkOverdue(ctx, scope, today)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("[Invoice] society=%d marked %d invoices overdue", scope.SocietyID, n)
	}
	return n, nil
}
