package services

import (
	"context"
	"log"

	"flatpay-backend/internal/metrics"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type batchStateStore interface {
	Get(ctx context.Context, scope tenant.Scope, id int) (*models.InvoiceBatch, error)
	List(ctx context.Context, scope tenant.Scope) ([]*models.InvoiceBatch, error)
	Finalize(ctx context.Context, scope tenant.Scope, id int) (*models.FinalizeBatchResult, error)
	Cancel(ctx context.Context, scope tenant.Scope, id int) (*models.CancelBatchResult, error)
}

// BatchService drives the batch lifecycle. The transitions themselves
// are guarded in the repository; this layer adds logging and metrics.
type BatchService struct {
	batches batchStateStore
}

func NewBatchService(batches batchStateStore) *BatchService {
	return &BatchService{batches: batches}
}

func (s *BatchService) Get(ctx context.Context, scope tenant.Scope, id int) (*models.InvoiceBatch, error) {
	return s.batches.Get(ctx, scope, id)
}

func (s *BatchService) List(ctx context.Context, scope tenant.Scope) ([]*models.InvoiceBatch, error) {
	return s.batches.List(ctx, scope)
}

// Finalize moves Draft→Pending and makes the batch's invoices payable.
func (s *BatchService) Finalize(ctx context.Context, scope tenant.Scope, id int) (*models.FinalizeBatchResult, error) {
	result, err := s.batches.Finalize(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	metrics.BatchTransitions.WithLabelValues("finalize").Inc()
	log.Printf("[Batch] society=%d batch=%d finalized, %d invoices now pending",
		scope.SocietyID, id, result.UpdatedInvoices)
	return result, nil
}

// Cancel discards a Draft batch and its invoices.
func (s *BatchService) Cancel(ctx context.Context, scope tenant.Scope, id int) (*models.CancelBatchResult, error) {
	result, err := s.batches.Cancel(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	metrics.BatchTransitions.WithLabelValues("cancel").Inc()
	log.Printf("[Batch] society=%d batch=%d cancelled, %d draft invoices deleted",
		scope.SocietyID, id, result.DeletedInvoices)
	return result, nil
}
