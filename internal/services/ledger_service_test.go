package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/repositories"
	"flatpay-backend/internal/tenant"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func TestAssembleLedgerRunningBalances(t *testing.T) {
	charges := []repositories.LedgerRow{
		{Date: day(1), Description: "Invoice INV-000001", Amount: 500, IsCharge: true, SourceID: 1},
		{Date: day(10), Description: "Invoice INV-000002", Amount: 300, IsCharge: true, SourceID: 2},
	}
	payments := []repositories.LedgerRow{
		{Date: day(5), Description: "Payment (cash) against INV-000001", Amount: 500, SourceID: 1},
	}

	ledger := AssembleLedger(100, charges, payments)

	assert.Equal(t, 100.0, ledger.OpeningBalance)
	require.Len(t, ledger.Entries, 3)
	assert.Equal(t, 600.0, ledger.Entries[0].RunningBalance)
	assert.Equal(t, 100.0, ledger.Entries[1].RunningBalance)
	assert.Equal(t, 400.0, ledger.Entries[2].RunningBalance)
	assert.Equal(t, 400.0, ledger.ClosingBalance)
}

func TestAssembleLedgerClosingEqualsOpeningPlusActivity(t *testing.T) {
	charges := []repositories.LedgerRow{
		{Date: day(3), Amount: 123.45, IsCharge: true, SourceID: 1},
		{Date: day(7), Amount: 67.89, IsCharge: true, SourceID: 2},
	}
	payments := []repositories.LedgerRow{
		{Date: day(8), Amount: 100, SourceID: 1},
		{Date: day(9), Amount: 50.5, SourceID: 2},
	}

	ledger := AssembleLedger(10, charges, payments)

	want := models.RoundMoney(10 + 123.45 + 67.89 - 100 - 50.5)
	assert.Equal(t, want, ledger.ClosingBalance)
}

func TestAssembleLedgerSameDayChargeBeforePayment(t *testing.T) {
	charges := []repositories.LedgerRow{
		{Date: day(15), Description: "Invoice INV-000003", Amount: 200, IsCharge: true, SourceID: 3},
	}
	payments := []repositories.LedgerRow{
		{Date: day(15), Description: "Payment (upi) against INV-000003", Amount: 200, SourceID: 4},
	}

	ledger := AssembleLedger(0, charges, payments)

	require.Len(t, ledger.Entries, 2)
	assert.NotNil(t, ledger.Entries[0].Charge)
	assert.NotNil(t, ledger.Entries[1].Payment)
	// Balance never goes negative when the bill lands first.
	assert.Equal(t, 200.0, ledger.Entries[0].RunningBalance)
	assert.Equal(t, 0.0, ledger.Entries[1].RunningBalance)
}

func TestAssembleLedgerEmptyRange(t *testing.T) {
	ledger := AssembleLedger(75.5, nil, nil)

	assert.Empty(t, ledger.Entries)
	assert.Equal(t, 75.5, ledger.OpeningBalance)
	assert.Equal(t, 75.5, ledger.ClosingBalance)
}

type fakeLedgerStore struct {
	opening  float64
	charges  []repositories.LedgerRow
	payments []repositories.LedgerRow
}

func (f *fakeLedgerStore) OpeningBalance(_ context.Context, _ tenant.Scope, _ int, _ time.Time) (float64, error) {
	return f.opening, nil
}

func (f *fakeLedgerStore) ChargesInRange(_ context.Context, _ tenant.Scope, _ int, _, _ time.Time) ([]repositories.LedgerRow, error) {
	return f.charges, nil
}

func (f *fakeLedgerStore) PaymentsInRange(_ context.Context, _ tenant.Scope, _ int, _, _ time.Time) ([]repositories.LedgerRow, error) {
	return f.payments, nil
}

type fakeResidentGet struct{ resident *models.Resident }

func (f *fakeResidentGet) Get(_ context.Context, _ tenant.Scope, id int) (*models.Resident, error) {
	if f.resident == nil {
		return nil, apperrors.NotFound("resident not found")
	}
	return f.resident, nil
}

func TestResidentLedgerRejectsInvertedRange(t *testing.T) {
	svc := NewLedgerService(&fakeLedgerStore{}, &fakeResidentGet{resident: &models.Resident{ID: 1}})

	_, err := svc.ResidentLedger(context.Background(), tenant.Scope{SocietyID: 1}, 1, day(20), day(10))

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestResidentLedgerUnknownResident(t *testing.T) {
	svc := NewLedgerService(&fakeLedgerStore{}, &fakeResidentGet{})

	_, err := svc.ResidentLedger(context.Background(), tenant.Scope{SocietyID: 1}, 99, day(1), day(31))

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestResidentLedgerAssemblesRange(t *testing.T) {
	store := &fakeLedgerStore{
		opening: 50,
		charges: []repositories.LedgerRow{
			{Date: day(2), Amount: 100, IsCharge: true, SourceID: 1},
		},
	}
	svc := NewLedgerService(store, &fakeResidentGet{resident: &models.Resident{ID: 1}})

	ledger, err := svc.ResidentLedger(context.Background(), tenant.Scope{SocietyID: 1}, 1, day(1), day(31))

	require.NoError(t, err)
	assert.Equal(t, 1, ledger.ResidentID)
	assert.Equal(t, day(1), ledger.From)
	assert.Equal(t, day(31), ledger.To)
	assert.Equal(t, 150.0, ledger.ClosingBalance)
}
