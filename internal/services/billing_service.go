package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/metrics"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
	"flatpay-backend/internal/timeutil"
)

// Stores the generator needs. Narrow interfaces so tests can substitute
// fakes without a database.
type batchGenStore interface {
	FindActiveByPeriod(ctx context.Context, scope tenant.Scope, start, end time.Time) (*models.InvoiceBatch, error)
	CreateBatch(ctx context.Context, scope tenant.Scope, start, end time.Time, drafts []models.InvoiceDraft, expenseIDs []int) (*models.InvoiceBatch, error)
}

type billableResidentStore interface {
	ListBillable(ctx context.Context, scope tenant.Scope) ([]*models.ResidentWithUnit, error)
}

type activeChargeStore interface {
	List(ctx context.Context, scope tenant.Scope, activeOnly bool) ([]*models.RecurringCharge, error)
}

type unallocatedExpenseStore interface {
	ListUnallocated(ctx context.Context, scope tenant.Scope, from, to time.Time) ([]*models.Expense, error)
}

type societyStore interface {
	Get(ctx context.Context, scope tenant.Scope) (*models.Society, error)
}

// BillingService generates invoice batches: one invoice per billable
// resident, line items from active recurring charges plus equal shares
// of allocatable expenses.
type BillingService struct {
	batches   batchGenStore
	residents billableResidentStore
	charges   activeChargeStore
	expenses  unallocatedExpenseStore
	societies societyStore
}

func NewBillingService(batches batchGenStore, residents billableResidentStore, charges activeChargeStore, expenses unallocatedExpenseStore, societies societyStore) *BillingService {
	return &BillingService{
		batches:   batches,
		residents: residents,
		charges:   charges,
		expenses:  expenses,
		societies: societies,
	}
}

// Generate runs one billing cycle for the scope's society. The whole
// batch persists in a single transaction; a failure anywhere leaves
// nothing behind.
func (s *BillingService) Generate(ctx context.Context, scope tenant.Scope, req *models.GenerateBatchRequest) (*models.GenerateBatchResult, error) {
	if req.PeriodStart.IsZero() || req.PeriodEnd.IsZero() {
		return nil, apperrors.Validation("period_start and period_end are required")
	}
	if !req.PeriodStart.Before(req.PeriodEnd) {
		return nil, apperrors.Validation("period_start must be before period_end")
	}

	if existing, err := s.batches.FindActiveByPeriod(ctx, scope, req.PeriodStart, req.PeriodEnd); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperrors.Conflict("batch %d (%s) already covers this period; cancel it first",
			existing.ID, existing.Status)
	}

	society, err := s.societies.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	residents, err := s.residents.ListBillable(ctx, scope)
	if err != nil {
		return nil, err
	}
	if len(residents) == 0 {
		return nil, apperrors.Validation("no active residents with units to bill")
	}
	charges, err := s.charges.List(ctx, scope, true)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.ListUnallocated(ctx, scope, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, err
	}

	generatedOn := timeutil.StartOfDay(timeutil.Now(), timeutil.SocietyLocation(society.Timezone))
	drafts, warnings := PlanInvoices(society, residents, charges, expenses, generatedOn)

	expenseIDs := make([]int, 0, len(expenses))
	for _, e := range expenses {
		expenseIDs = append(expenseIDs, e.ID)
	}

	batch, err := s.batches.CreateBatch(ctx, scope, req.PeriodStart, req.PeriodEnd, drafts, expenseIDs)
	if err != nil {
		return nil, err
	}

	metrics.InvoicesGenerated.Add(float64(len(drafts)))
	log.Printf("[Billing] society=%d batch=%d generated %d invoices totalling %.2f (%d warnings)",
		scope.SocietyID, batch.ID, batch.TotalInvoiceCount, batch.TotalAmount, len(warnings))

	return &models.GenerateBatchResult{
		BatchID:      batch.ID,
		InvoiceCount: batch.TotalInvoiceCount,
		TotalAmount:  batch.TotalAmount,
		Warnings:     warnings,
	}, nil
}

// PlanInvoices computes the invoice drafts for a billing run. Pure: no
// I/O, deterministic for a given input.
//
// Recurring charges apply per resident: fixed_per_unit as-is, per_sqft
// multiplied by the unit's size. A per_sqft charge on a unit with no
// recorded size contributes nothing and produces a warning instead of a
// silent zero. Allocatable expenses split evenly across all drafts with
// any remainder cents going to the first one, so the shares always sum
// back to the expense amount.
func PlanInvoices(society *models.Society, residents []*models.ResidentWithUnit, charges []*models.RecurringCharge, expenses []*models.Expense, generatedOn time.Time) ([]models.InvoiceDraft, []string) {
	dueDate := generatedOn.AddDate(0, 0, society.DueDateDays)

	var warnings []string
	drafts := make([]models.InvoiceDraft, 0, len(residents))

	for _, res := range residents {
		draft := models.InvoiceDraft{
			ResidentID: res.ID,
			UnitID:     *res.PrimaryUnitID,
			DueDate:    dueDate,
		}

		for _, c := range charges {
			chargeID := c.ID
			switch c.CalcType {
			case models.ChargeFixedPerUnit:
				draft.Items = append(draft.Items, models.InvoiceItem{
					Description:       c.Name,
					Amount:            models.RoundMoney(c.AmountOrRate),
					RecurringChargeID: &chargeID,
				})
			case models.ChargePerSqft:
				if res.SizeSqft == nil {
					warnings = append(warnings, fmt.Sprintf(
						"unit %s has no size on record; charge %q skipped", res.UnitNumber, c.Name))
					continue
				}
				draft.Items = append(draft.Items, models.InvoiceItem{
					Description:       fmt.Sprintf("%s (%.0f sqft)", c.Name, *res.SizeSqft),
					Amount:            models.RoundMoney(c.AmountOrRate * *res.SizeSqft),
					RecurringChargeID: &chargeID,
				})
			default:
				warnings = append(warnings, fmt.Sprintf(
					"charge %q has unknown calculation type %q; skipped", c.Name, c.CalcType))
			}
		}
		drafts = append(drafts, draft)
	}

	n := len(drafts)
	for _, e := range expenses {
		expenseID := e.ID
		cents := int64(math.Round(e.Amount * 100))
		share := cents / int64(n)
		remainder := cents - share*int64(n)

		for i := range drafts {
			amount := share
			if i == 0 {
				amount += remainder
			}
			drafts[i].Items = append(drafts[i].Items, models.InvoiceItem{
				Description: fmt.Sprintf("Shared expense: %s", e.Category),
				Amount:      float64(amount) / 100,
				ExpenseID:   &expenseID,
			})
		}
	}

	for i := range drafts {
		var total float64
		for _, item := range drafts[i].Items {
			total += item.Amount
		}
		drafts[i].Total = models.RoundMoney(total)
	}
	return drafts, warnings
}
