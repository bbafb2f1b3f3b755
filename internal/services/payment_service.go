package services

import (
	"context"
	"log"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/cache"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
	"flatpay-backend/internal/timeutil"
)

type paymentStore interface {
	Record(ctx context.Context, scope tenant.Scope, invoiceID int, req *models.RecordPaymentRequest) (*models.RecordPaymentResult, error)
	ListByInvoice(ctx context.Context, scope tenant.Scope, invoiceID int) ([]*models.Payment, error)
}

// PaymentService records manual payments. The atomic balance update
// lives in the repository; this layer validates input and invalidates
// cached reports.
type PaymentService struct {
	payments paymentStore
}

func NewPaymentService(payments paymentStore) *PaymentService {
	return &PaymentService{payments: payments}
}

var validMethods = map[string]bool{
	models.PaymentMethodCash:     true,
	models.PaymentMethodCheque:   true,
	models.PaymentMethodTransfer: true,
	models.PaymentMethodUPI:      true,
}

func (s *PaymentService) Record(ctx context.Context, scope tenant.Scope, invoiceID int, req *models.RecordPaymentRequest) (*models.RecordPaymentResult, error) {
	if !validMethods[req.Method] {
		return nil, apperrors.Validation("unknown payment method %q", req.Method)
	}
	if req.Amount <= 0 {
		return nil, apperrors.Validation("payment amount must be positive")
	}
	if req.PaymentDate.IsZero() {
		req.PaymentDate = timeutil.Now()
	}

	result, err := s.payments.Record(ctx, scope, invoiceID, req)
	if err != nil {
		return nil, err
	}

	cache.InvalidateSociety(ctx, scope.SocietyID)
	log.Printf("[Payment] society=%d invoice=%d recorded %.2f via %s, balance now %.2f (%s)",
		scope.SocietyID, invoiceID, req.Amount, req.Method, result.NewBalanceDue, result.InvoiceStatus)
	return result, nil
}

func (s *PaymentService) ListByInvoice(ctx context.Context, scope tenant.Scope, invoiceID int) ([]*models.Payment, error) {
	return s.payments.ListByInvoice(ctx, scope, invoiceID)
}
