package services

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/repositories"
	"flatpay-backend/internal/tenant"
	"flatpay-backend/internal/timeutil"
)

type ledgerStore interface {
	OpeningBalance(ctx context.Context, scope tenant.Scope, residentID int, before time.Time) (float64, error)
	ChargesInRange(ctx context.Context, scope tenant.Scope, residentID int, from, to time.Time) ([]repositories.LedgerRow, error)
	PaymentsInRange(ctx context.Context, scope tenant.Scope, residentID int, from, to time.Time) ([]repositories.LedgerRow, error)
}

type residentGetter interface {
	Get(ctx context.Context, scope tenant.Scope, id int) (*models.Resident, error)
}

// LedgerService assembles a resident's chronological statement from
// invoice charges and recorded payments.
type LedgerService struct {
	ledger    ledgerStore
	residents residentGetter
}

func NewLedgerService(ledger ledgerStore, residents residentGetter) *LedgerService {
	return &LedgerService{ledger: ledger, residents: residents}
}

func (s *LedgerService) ResidentLedger(ctx context.Context, scope tenant.Scope, residentID int, from, to time.Time) (*models.ResidentLedger, error) {
	if from.IsZero() || to.IsZero() {
		return nil, apperrors.Validation("from and to dates are required")
	}
	if to.Before(from) {
		return nil, apperrors.Validation("to date is before from date")
	}
	if _, err := s.residents.Get(ctx, scope, residentID); err != nil {
		return nil, err
	}

	opening, err := s.ledger.OpeningBalance(ctx, scope, residentID, from)
	if err != nil {
		return nil, err
	}
	charges, err := s.ledger.ChargesInRange(ctx, scope, residentID, from, to)
	if err != nil {
		return nil, err
	}
	payments, err := s.ledger.PaymentsInRange(ctx, scope, residentID, from, to)
	if err != nil {
		return nil, err
	}

	ledger := AssembleLedger(opening, charges, payments)
	ledger.ResidentID = residentID
	ledger.From, ledger.To = from, to
	return ledger, nil
}

// LedgerPDF renders a resident's statement as a printable document.
func (s *LedgerService) LedgerPDF(ctx context.Context, scope tenant.Scope, society *models.Society, residentID int, from, to time.Time) ([]byte, error) {
	resident, err := s.residents.Get(ctx, scope, residentID)
	if err != nil {
		return nil, err
	}
	ledger, err := s.ResidentLedger(ctx, scope, residentID, from, to)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, society.Name)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Statement for %s: %s to %s", resident.Name,
		from.Format(timeutil.DisplayLayout), to.Format(timeutil.DisplayLayout)))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(28, 8, "Date", "1", 0, "L", false, 0, "")
	pdf.CellFormat(78, 8, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(28, 8, "Charge", "1", 0, "R", false, 0, "")
	pdf.CellFormat(28, 8, "Payment", "1", 0, "R", false, 0, "")
	pdf.CellFormat(28, 8, "Balance", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(134, 7, "Opening balance", "1", 0, "L", false, 0, "")
	pdf.CellFormat(56, 7, fmt.Sprintf("%.2f", ledger.OpeningBalance), "1", 1, "R", false, 0, "")
	for _, e := range ledger.Entries {
		charge, payment := "", ""
		if e.Charge != nil {
			charge = fmt.Sprintf("%.2f", *e.Charge)
		}
		if e.Payment != nil {
			payment = fmt.Sprintf("%.2f", *e.Payment)
		}
		pdf.CellFormat(28, 7, e.Date.Format(timeutil.DateLayout), "1", 0, "L", false, 0, "")
		pdf.CellFormat(78, 7, e.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(28, 7, charge, "1", 0, "R", false, 0, "")
		pdf.CellFormat(28, 7, payment, "1", 0, "R", false, 0, "")
		pdf.CellFormat(28, 7, fmt.Sprintf("%.2f", e.RunningBalance), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(134, 8, "Closing balance", "1", 0, "L", false, 0, "")
	pdf.CellFormat(56, 8, fmt.Sprintf("%.2f", ledger.ClosingBalance), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperrors.Render(err, "rendering ledger for resident %d", residentID)
	}
	return buf.Bytes(), nil
}

// AssembleLedger merges charge and payment rows into date order and
// computes running balances. Same-day activity lists charges before
// payments, then by source id, so a bill and its same-day payment always
// appear in cause-then-effect order. Pure.
func AssembleLedger(opening float64, charges, payments []repositories.LedgerRow) *models.ResidentLedger {
	rows := make([]repositories.LedgerRow, 0, len(charges)+len(payments))
	rows = append(rows, charges...)
	rows = append(rows, payments...)

	sort.SliceStable(rows, func(i, j int) bool {
		di, dj := rows[i].Date, rows[j].Date
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		if rows[i].IsCharge != rows[j].IsCharge {
			return rows[i].IsCharge
		}
		return rows[i].SourceID < rows[j].SourceID
	})

	ledger := &models.ResidentLedger{
		OpeningBalance: models.RoundMoney(opening),
		Entries:        make([]models.LedgerEntry, 0, len(rows)),
	}
	balance := ledger.OpeningBalance
	for _, row := range rows {
		amount := models.RoundMoney(row.Amount)
		entry := models.LedgerEntry{Date: row.Date, Description: row.Description}
		if row.IsCharge {
			balance = models.RoundMoney(balance + amount)
			entry.Charge = &amount
		} else {
			balance = models.RoundMoney(balance - amount)
			entry.Payment = &amount
		}
		entry.RunningBalance = balance
		ledger.Entries = append(ledger.Entries, entry)
	}
	ledger.ClosingBalance = balance
	return ledger
}
