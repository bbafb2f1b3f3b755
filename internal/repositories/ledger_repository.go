package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"flatpay-backend/internal/tenant"
)

// LedgerRow is raw charge/payment activity fetched for ledger assembly.
// The service layer orders rows and computes running balances.
type LedgerRow struct {
	Date        time.Time
	Description string
	Amount      float64
	IsCharge    bool
	SourceID    int
}

type LedgerRepository struct {
	DB *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

// OpeningBalance sums all non-draft charges minus payments for the
// resident strictly before the given date.
func (r *LedgerRepository) OpeningBalance(ctx context.Context, scope tenant.Scope, residentID int, before time.Time) (float64, error) {
	var charges, payments float64
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_amount), 0) FROM invoices
		 WHERE society_id = $1 AND resident_id = $2
		   AND status NOT IN ('draft', 'cancelled') AND due_date < $3`,
		scope.SocietyID, residentID, before).Scan(&charges)
	if err != nil {
		return 0, err
	}
	err = r.DB.QueryRow(ctx,
		`SELECT COALESCE(SUM(p.amount), 0) FROM payments p
		 JOIN invoices i ON i.id = p.invoice_id
		 WHERE p.society_id = $1 AND i.resident_id = $2 AND p.payment_date < $3`,
		scope.SocietyID, residentID, before).Scan(&payments)
	if err != nil {
		return 0, err
	}
	return charges - payments, nil
}

// ChargesInRange returns the resident's non-draft invoices due in the
// range, as ledger rows dated by due date.
func (r *LedgerRepository) ChargesInRange(ctx context.Context, scope tenant.Scope, residentID int, from, to time.Time) ([]LedgerRow, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT due_date, invoice_number, total_amount, id FROM invoices
		 WHERE society_id = $1 AND resident_id = $2
		   AND status NOT IN ('draft', 'cancelled')
		   AND due_date >= $3 AND due_date <= $4
		 ORDER BY due_date, id`,
		scope.SocietyID, residentID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LedgerRow
	for rows.Next() {
		var lr LedgerRow
		var invoiceNumber string
		if err := rows.Scan(&lr.Date, &invoiceNumber, &lr.Amount, &lr.SourceID); err != nil {
			return nil, err
		}
		lr.Description = "Invoice " + invoiceNumber
		lr.IsCharge = true
		out = append(out, lr)
	}
	return out, rows.Err()
}

// PaymentsInRange returns the resident's payments in the range as
// ledger rows dated by payment date.
func (r *LedgerRepository) PaymentsInRange(ctx context.Context, scope tenant.Scope, residentID int, from, to time.Time) ([]LedgerRow, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT p.payment_date, p.method, i.invoice_number, p.amount, p.id
		 FROM payments p
		 JOIN invoices i ON i.id = p.invoice_id
		 WHERE p.society_id = $1 AND i.resident_id = $2
		   AND p.payment_date >= $3 AND p.payment_date <= $4
		 ORDER BY p.payment_date, p.id`,
		scope.SocietyID, residentID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LedgerRow
	for rows.Next() {
		var lr LedgerRow
		var method, invoiceNumber string
		if err := rows.Scan(&lr.Date, &method, &invoiceNumber, &lr.Amount, &lr.SourceID); err != nil {
			return nil, err
		}
		lr.Description = "Payment (" + method + ") against " + invoiceNumber
		out = append(out, lr)
	}
	return out, rows.Err()
}
