package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// Record inserts a payment and updates the invoice position in one
// transaction. The invoice row is locked so concurrent payments against
// the same invoice serialize; overpayment is rejected against the locked
// balance, not a stale read.
func (r *PaymentRepository) Record(ctx context.Context, scope tenant.Scope, invoiceID int, req *models.RecordPaymentRequest) (*models.RecordPaymentResult, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var (
		balanceDue float64
		totalPaid  float64
		status     string
	)
	err = tx.QueryRow(ctx,
		`SELECT balance_due, amount_paid, status FROM invoices
		 WHERE id = $1 AND society_id = $2 FOR UPDATE`,
		invoiceID, scope.SocietyID,
	).Scan(&balanceDue, &totalPaid, &status)
	if err != nil {
		return nil, translateNoRows(err, "invoice not found")
	}

	switch status {
	case models.InvoiceStatusDraft:
		return nil, apperrors.InvalidState("invoice is still draft; finalize the batch first")
	case models.InvoiceStatusCancelled:
		return nil, apperrors.InvalidState("invoice is cancelled")
	case models.InvoiceStatusPaid:
		return nil, apperrors.InvalidState("invoice is already fully paid")
	}

	amount := models.RoundMoney(req.Amount)
	if amount <= 0 {
		return nil, apperrors.Validation("payment amount must be positive")
	}
	if amount > balanceDue {
		return nil, apperrors.Validation("payment %.2f exceeds balance due %.2f", amount, balanceDue)
	}

	var paymentID int
	err = tx.QueryRow(ctx,
		`INSERT INTO payments(society_id, invoice_id, payment_date, amount, method,
		                      reference, notes, recorded_by_user_id)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		scope.SocietyID, invoiceID, req.PaymentDate, amount, req.Method,
		req.Reference, req.Notes, scope.UserID,
	).Scan(&paymentID)
	if err != nil {
		return nil, err
	}

	newPaid := models.RoundMoney(totalPaid + amount)
	newBalance := models.RoundMoney(balanceDue - amount)
	newStatus := status
	if newBalance == 0 {
		newStatus = models.InvoiceStatusPaid
	}
	_, err = tx.Exec(ctx,
		`UPDATE invoices SET amount_paid = $1, balance_due = $2, status = $3, updated_at = NOW()
		 WHERE id = $4`, newPaid, newBalance, newStatus, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &models.RecordPaymentResult{
		PaymentID:     paymentID,
		NewBalanceDue: newBalance,
		InvoiceStatus: newStatus,
	}, nil
}

func (r *PaymentRepository) ListByInvoice(ctx context.Context, scope tenant.Scope, invoiceID int) ([]*models.Payment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, society_id, invoice_id, payment_date, amount, method, reference,
		        notes, recorded_by_user_id, created_at
		 FROM payments
		 WHERE invoice_id = $1 AND society_id = $2
		 ORDER BY payment_date, id`, invoiceID, scope.SocietyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.SocietyID, &p.InvoiceID, &p.PaymentDate, &p.Amount,
			&p.Method, &p.Reference, &p.Notes, &p.RecordedByUserID, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

// CollectionSummary aggregates billed vs collected for invoices whose
// period overlaps the range.
func (r *PaymentRepository) CollectionSummary(ctx context.Context, scope tenant.Scope, from, to time.Time) (*models.CollectionSummary, error) {
	var s models.CollectionSummary
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(total_amount), 0),
		        COALESCE(SUM(amount_paid), 0),
		        COALESCE(SUM(balance_due), 0),
		        COUNT(*) FILTER (WHERE status = 'paid'),
		        COUNT(*) FILTER (WHERE status = 'overdue')
		 FROM invoices
		 WHERE society_id = $1 AND status NOT IN ('draft', 'cancelled')
		   AND period_start <= $3 AND period_end >= $2`,
		scope.SocietyID, from, to,
	).Scan(&s.InvoiceCount, &s.TotalBilled, &s.TotalCollected, &s.TotalOutstanding,
		&s.PaidCount, &s.OverdueCount)
	if err != nil {
		return nil, err
	}
	s.From, s.To = from, to
	return &s, nil
}

// Defaulters lists residents with outstanding overdue balances, worst
// first.
func (r *PaymentRepository) Defaulters(ctx context.Context, scope tenant.Scope) ([]models.DefaulterRow, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT i.resident_id, r.name, r.phone, COALESCE(u.unit_number, ''),
		        COUNT(*), COALESCE(SUM(i.balance_due), 0), MIN(i.due_date)
		 FROM invoices i
		 JOIN residents r ON r.id = i.resident_id
		 LEFT JOIN units u ON u.id = r.primary_unit_id
		 WHERE i.society_id = $1 AND i.status = 'overdue'
		 GROUP BY i.resident_id, r.name, r.phone, u.unit_number
		 ORDER BY SUM(i.balance_due) DESC`, scope.SocietyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defaulters []models.DefaulterRow
	for rows.Next() {
		var d models.DefaulterRow
		if err := rows.Scan(&d.ResidentID, &d.ResidentName, &d.Phone, &d.UnitNumber,
			&d.OverdueInvoices, &d.TotalOutstanding, &d.OldestDueDate); err != nil {
			return nil, err
		}
		defaulters = append(defaulters, d)
	}
	return defaulters, rows.Err()
}
