package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/metrics"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
	"flatpay-backend/internal/timeutil"
)

// dispatchWorkers caps concurrent webhook calls per send run.
const dispatchWorkers = 5

type dispatchBatchStore interface {
	Get(ctx context.Context, scope tenant.Scope, id int) (*models.InvoiceBatch, error)
	MarkSent(ctx context.Context, scope tenant.Scope, id int) error
}

type dispatchInvoiceStore interface {
	ListForDispatch(ctx context.Context, scope tenant.Scope, batchID int) ([]*models.InvoiceWithDetails, error)
	BulkMarkSent(ctx context.Context, scope tenant.Scope, ids []int) error
}

type messageLogStore interface {
	Create(ctx context.Context, logEntry *models.MessageLog) error
}

// MessageSender delivers one templated message. Satisfied by the
// WhatsApp client.
type MessageSender interface {
	SendTemplateMessage(phone, templateName string, params []string) error
}

// DispatchService fans invoice notifications out to the messaging
// webhook. One slow or failing recipient never blocks or aborts the
// rest of the batch.
type DispatchService struct {
	batches   dispatchBatchStore
	invoices  dispatchInvoiceStore
	societies societyStore
	logs      messageLogStore
	sender    MessageSender
	template  string
}

func NewDispatchService(batches dispatchBatchStore, invoices dispatchInvoiceStore, societies societyStore, logs messageLogStore, sender MessageSender, template string) *DispatchService {
	return &DispatchService{
		batches:   batches,
		invoices:  invoices,
		societies: societies,
		logs:      logs,
		sender:    sender,
		template:  template,
	}
}

type dispatchOutcome struct {
	invoiceID int
	sent      bool
	skipped   bool
	errMsg    string
}

// Send notifies every resident in a Pending batch. Only pending
// invoices are attempted; the result counts successes against failures
// (skips count as failures). The batch moves to Sent only when at
// least one message went out.
func (s *DispatchService) Send(ctx context.Context, scope tenant.Scope, batchID int) (*models.SendBatchResult, error) {
	batch, err := s.batches.Get(ctx, scope, batchID)
	if err != nil {
		return nil, err
	}
	if batch.Status != models.BatchStatusPending {
		return nil, apperrors.InvalidState("batch %d is %s; only Pending batches can be sent",
			batchID, batch.Status)
	}

	society, err := s.societies.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoices.ListForDispatch(ctx, scope, batchID)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, apperrors.InvalidState("batch %d has no invoices to send", batchID)
	}

	jobs := make(chan *models.InvoiceWithDetails, len(invoices))
	results := make(chan dispatchOutcome, len(invoices))

	var wg sync.WaitGroup
	workers := dispatchWorkers
	if len(invoices) < workers {
		workers = len(invoices)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for inv := range jobs {
				results <- s.dispatchOne(ctx, scope, society, inv)
			}
		}()
	}
	for _, inv := range invoices {
		jobs <- inv
	}
	close(jobs)
	wg.Wait()
	close(results)

	result := &models.SendBatchResult{TotalInvoices: len(invoices)}
	var sentIDs []int
	for outcome := range results {
		if outcome.sent {
			result.MessagesTriggered++
			sentIDs = append(sentIDs, outcome.invoiceID)
		} else {
			result.TriggerFailures++
			result.Failures = append(result.Failures, models.SendFailure{
				InvoiceID: outcome.invoiceID,
				Reason:    outcome.errMsg,
			})
		}
	}

	if result.MessagesTriggered > 0 {
		if err := s.invoices.BulkMarkSent(ctx, scope, sentIDs); err != nil {
			return nil, err
		}
		if err := s.batches.MarkSent(ctx, scope, batchID); err != nil {
			return nil, err
		}
		metrics.BatchTransitions.WithLabelValues("send").Inc()
	}
	log.Printf("[Dispatch] society=%d batch=%d triggered=%d failed=%d of %d",
		scope.SocietyID, batchID, result.MessagesTriggered, result.TriggerFailures, result.TotalInvoices)
	return result, nil
}

func (s *DispatchService) dispatchOne(ctx context.Context, scope tenant.Scope, society *models.Society, inv *models.InvoiceWithDetails) dispatchOutcome {
	outcome := dispatchOutcome{invoiceID: inv.ID}

	skipReason := ""
	switch {
	case inv.Status != models.InvoiceStatusPending:
		skipReason = "invoice is " + inv.Status
	case !inv.WhatsAppOptIn:
		skipReason = "resident has opted out"
	case inv.ResidentPhone == "":
		skipReason = "resident has no phone on record"
	case inv.PDFURL == "":
		skipReason = "invoice has no rendered PDF"
	}
	if skipReason != "" {
		outcome.skipped = true
		outcome.errMsg = skipReason
		s.logAttempt(ctx, scope, inv, models.MessageStatusSkipped, skipReason)
		metrics.MessagesSent.WithLabelValues("skipped").Inc()
		return outcome
	}

	params := []string{
		inv.ResidentName,
		inv.InvoiceNumber,
		fmt.Sprintf("%.2f", inv.TotalAmount),
		inv.DueDate.Format(timeutil.DisplayLayout),
		society.Name,
		inv.PDFURL,
	}
	if err := s.sender.SendTemplateMessage(inv.ResidentPhone, s.template, params); err != nil {
		outcome.errMsg = err.Error()
		s.logAttempt(ctx, scope, inv, models.MessageStatusFailed, err.Error())
		metrics.MessagesSent.WithLabelValues("failed").Inc()
		return outcome
	}

	outcome.sent = true
	s.logAttempt(ctx, scope, inv, models.MessageStatusSent, "")
	metrics.MessagesSent.WithLabelValues("sent").Inc()
	return outcome
}

func (s *DispatchService) logAttempt(ctx context.Context, scope tenant.Scope, inv *models.InvoiceWithDetails, status, errMsg string) {
	invoiceID := inv.ID
	entry := &models.MessageLog{
		SocietyID:    scope.SocietyID,
		InvoiceID:    &invoiceID,
		Phone:        inv.ResidentPhone,
		Channel:      "whatsapp",
		Template:     s.template,
		Status:       status,
		ErrorMessage: errMsg,
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		log.Printf("[Dispatch] failed to log message attempt for invoice %d: %v", inv.ID, err)
	}
}
