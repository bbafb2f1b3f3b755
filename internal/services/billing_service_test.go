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

func fptr(v float64) *float64 { return &v }

func testSociety() *models.Society {
	return &models.Society{ID: 1, Name: "Green Meadows", DueDateDays: 10, Timezone: "Asia/Kolkata"}
}

func testResident(id, unitID int, unitNumber string, sqft *float64) *models.ResidentWithUnit {
	r := &models.ResidentWithUnit{}
	r.ID = id
	r.PrimaryUnitID = &unitID
	r.Name = "Resident " + unitNumber
	r.UnitNumber = unitNumber
	r.SizeSqft = sqft
	return r
}

func TestPlanInvoicesPerSqftCharge(t *testing.T) {
	residents := []*models.ResidentWithUnit{
		testResident(1, 11, "A-101", fptr(1000)),
	}
	charges := []*models.RecurringCharge{
		{ID: 5, Name: "Maintenance", CalcType: models.ChargePerSqft, AmountOrRate: 2},
	}

	drafts, warnings := PlanInvoices(testSociety(), residents, charges, nil,
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))

	require.Len(t, drafts, 1)
	assert.Empty(t, warnings)
	assert.Equal(t, 2000.0, drafts[0].Total)
	require.Len(t, drafts[0].Items, 1)
	assert.Equal(t, 5, *drafts[0].Items[0].RecurringChargeID)
}

func TestPlanInvoicesMixedCharges(t *testing.T) {
	residents := []*models.ResidentWithUnit{
		testResident(1, 11, "A-101", fptr(500)),
		testResident(2, 12, "A-102", fptr(600)),
	}
	charges := []*models.RecurringCharge{
		{ID: 1, Name: "Water", CalcType: models.ChargeFixedPerUnit, AmountOrRate: 100},
		{ID: 2, Name: "Maintenance", CalcType: models.ChargePerSqft, AmountOrRate: 1},
	}

	drafts, warnings := PlanInvoices(testSociety(), residents, charges, nil,
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))

	require.Len(t, drafts, 2)
	assert.Empty(t, warnings)
	assert.Equal(t, 600.0, drafts[0].Total)
	assert.Equal(t, 700.0, drafts[1].Total)
}

func TestPlanInvoicesMissingSqftWarnsInsteadOfZero(t *testing.T) {
	residents := []*models.ResidentWithUnit{
		testResident(1, 11, "B-201", nil),
	}
	charges := []*models.RecurringCharge{
		{ID: 1, Name: "Maintenance", CalcType: models.ChargePerSqft, AmountOrRate: 2},
		{ID: 2, Name: "Water", CalcType: models.ChargeFixedPerUnit, AmountOrRate: 150},
	}

	drafts, warnings := PlanInvoices(testSociety(), residents, charges, nil,
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))

	require.Len(t, drafts, 1)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "B-201")
	assert.Contains(t, warnings[0], "Maintenance")
	// Only the fixed charge landed; no zero-amount per-sqft line.
	require.Len(t, drafts[0].Items, 1)
	assert.Equal(t, 150.0, drafts[0].Total)
}

func TestPlanInvoicesExpenseSplitRemainderOnFirst(t *testing.T) {
	residents := []*models.ResidentWithUnit{
		testResident(1, 11, "A-101", nil),
		testResident(2, 12, "A-102", nil),
		testResident(3, 13, "A-103", nil),
	}
	expenses := []*models.Expense{
		{ID: 9, Category: "Diesel", Amount: 100, AllocationRule: models.AllocationEqualAll},
	}

	drafts, _ := PlanInvoices(testSociety(), residents, nil, expenses,
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))

	require.Len(t, drafts, 3)
	// 100.00 over 3: shares 33.34, 33.33, 33.33 so the cents add back up.
	assert.Equal(t, 33.34, drafts[0].Total)
	assert.Equal(t, 33.33, drafts[1].Total)
	assert.Equal(t, 33.33, drafts[2].Total)

	var sum float64
	for _, d := range drafts {
		sum += d.Total
	}
	assert.Equal(t, 100.0, models.RoundMoney(sum))
	assert.Equal(t, 9, *drafts[0].Items[0].ExpenseID)
}

func TestPlanInvoicesDueDateFromSocietyPolicy(t *testing.T) {
	residents := []*models.ResidentWithUnit{testResident(1, 11, "A-101", nil)}
	generatedOn := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	// due_date_days=10 counts from the generation date.
	drafts, _ := PlanInvoices(testSociety(), residents, nil, nil, generatedOn)

	require.Len(t, drafts, 1)
	assert.Equal(t, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), drafts[0].DueDate)
}

// Fakes for the Generate flow.

type fakeBatchGenStore struct {
	existing      *models.InvoiceBatch
	createdDrafts []models.InvoiceDraft
	expenseIDs    []int
}

func (f *fakeBatchGenStore) FindActiveByPeriod(_ context.Context, _ tenant.Scope, _, _ time.Time) (*models.InvoiceBatch, error) {
	return f.existing, nil
}

func (f *fakeBatchGenStore) CreateBatch(_ context.Context, _ tenant.Scope, start, end time.Time, drafts []models.InvoiceDraft, expenseIDs []int) (*models.InvoiceBatch, error) {
	f.createdDrafts = drafts
	f.expenseIDs = expenseIDs
	var total float64
	for _, d := range drafts {
		total += d.Total
	}
	return &models.InvoiceBatch{
		ID: 42, PeriodStart: start, PeriodEnd: end, Status: models.BatchStatusDraft,
		TotalInvoiceCount: len(drafts), TotalAmount: models.RoundMoney(total),
	}, nil
}

type fakeResidentList struct{ residents []*models.ResidentWithUnit }

func (f *fakeResidentList) ListBillable(_ context.Context, _ tenant.Scope) ([]*models.ResidentWithUnit, error) {
	return f.residents, nil
}

type fakeChargeList struct{ charges []*models.RecurringCharge }

func (f *fakeChargeList) List(_ context.Context, _ tenant.Scope, _ bool) ([]*models.RecurringCharge, error) {
	return f.charges, nil
}

type fakeExpenseList struct{ expenses []*models.Expense }

func (f *fakeExpenseList) ListUnallocated(_ context.Context, _ tenant.Scope, _, _ time.Time) ([]*models.Expense, error) {
	return f.expenses, nil
}

type fakeSocietyGet struct{ society *models.Society }

func (f *fakeSocietyGet) Get(_ context.Context, _ tenant.Scope) (*models.Society, error) {
	return f.society, nil
}

func billingFixture(batches *fakeBatchGenStore, residents []*models.ResidentWithUnit) *BillingService {
	return NewBillingService(
		batches,
		&fakeResidentList{residents: residents},
		&fakeChargeList{charges: []*models.RecurringCharge{
			{ID: 1, Name: "Water", CalcType: models.ChargeFixedPerUnit, AmountOrRate: 100},
		}},
		&fakeExpenseList{},
		&fakeSocietyGet{society: testSociety()},
	)
}

func TestGenerateRejectsOverlappingPeriod(t *testing.T) {
	batches := &fakeBatchGenStore{existing: &models.InvoiceBatch{ID: 7, Status: models.BatchStatusDraft}}
	svc := billingFixture(batches, []*models.ResidentWithUnit{testResident(1, 11, "A-101", nil)})

	_, err := svc.Generate(context.Background(), tenant.Scope{SocietyID: 1}, &models.GenerateBatchRequest{
		PeriodStart: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Nil(t, batches.createdDrafts)
}

func TestGenerateRejectsEmptySociety(t *testing.T) {
	svc := billingFixture(&fakeBatchGenStore{}, nil)

	_, err := svc.Generate(context.Background(), tenant.Scope{SocietyID: 1}, &models.GenerateBatchRequest{
		PeriodStart: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestGenerateRejectsInvertedPeriod(t *testing.T) {
	svc := billingFixture(&fakeBatchGenStore{}, []*models.ResidentWithUnit{testResident(1, 11, "A-101", nil)})

	_, err := svc.Generate(context.Background(), tenant.Scope{SocietyID: 1}, &models.GenerateBatchRequest{
		PeriodStart: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestGenerateProducesBatch(t *testing.T) {
	batches := &fakeBatchGenStore{}
	svc := billingFixture(batches, []*models.ResidentWithUnit{
		testResident(1, 11, "A-101", nil),
		testResident(2, 12, "A-102", nil),
	})

	result, err := svc.Generate(context.Background(), tenant.Scope{SocietyID: 1}, &models.GenerateBatchRequest{
		PeriodStart: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result.BatchID)
	assert.Equal(t, 2, result.InvoiceCount)
	assert.Equal(t, 200.0, result.TotalAmount)
	assert.Len(t, batches.createdDrafts, 2)
}
