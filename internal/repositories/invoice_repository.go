package repositories

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

const invoiceColumns = `id, society_id, batch_id, resident_id, unit_id, invoice_number,
	period_start, period_end, due_date, total_amount, amount_paid, balance_due,
	status, pdf_url, created_at, updated_at`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var inv models.Invoice
	err := row.Scan(&inv.ID, &inv.SocietyID, &inv.BatchID, &inv.ResidentID, &inv.UnitID,
		&inv.InvoiceNumber, &inv.PeriodStart, &inv.PeriodEnd, &inv.DueDate,
		&inv.TotalAmount, &inv.AmountPaid, &inv.BalanceDue, &inv.Status, &inv.PDFURL,
		&inv.CreatedAt, &inv.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NotFound("invoice not found")
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) Get(ctx context.Context, scope tenant.Scope, id int) (*models.Invoice, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 AND society_id = $2`,
		id, scope.SocietyID)
	return scanInvoice(row)
}

// SocietyOf reports which society owns an invoice, without tenant
// filtering. Callers must follow up with Scope.CheckOwnership before
// returning any invoice data.
func (r *InvoiceRepository) SocietyOf(ctx context.Context, id int) (int, error) {
	var societyID int
	err := r.DB.QueryRow(ctx,
		`SELECT society_id FROM invoices WHERE id = $1`, id).Scan(&societyID)
	if err == pgx.ErrNoRows {
		return 0, apperrors.NotFound("invoice not found")
	}
	if err != nil {
		return 0, err
	}
	return societyID, nil
}

// GetWithDetails loads an invoice with its items and the resident/unit
// display fields the PDF renderer and detail views need.
func (r *InvoiceRepository) GetWithDetails(ctx context.Context, scope tenant.Scope, id int) (*models.InvoiceWithDetails, error) {
	var inv models.InvoiceWithDetails
	err := r.DB.QueryRow(ctx,
		`SELECT i.id, i.society_id, i.batch_id, i.resident_id, i.unit_id, i.invoice_number,
		        i.period_start, i.period_end, i.due_date, i.total_amount, i.amount_paid,
		        i.balance_due, i.status, i.pdf_url, i.created_at, i.updated_at,
		        r.name, r.phone, u.unit_number
		 FROM invoices i
		 JOIN residents r ON r.id = i.resident_id
		 JOIN units u ON u.id = i.unit_id
		 WHERE i.id = $1 AND i.society_id = $2`,
		id, scope.SocietyID,
	).Scan(&inv.ID, &inv.SocietyID, &inv.BatchID, &inv.ResidentID, &inv.UnitID,
		&inv.InvoiceNumber, &inv.PeriodStart, &inv.PeriodEnd, &inv.DueDate,
		&inv.TotalAmount, &inv.AmountPaid, &inv.BalanceDue, &inv.Status, &inv.PDFURL,
		&inv.CreatedAt, &inv.UpdatedAt,
		&inv.ResidentName, &inv.ResidentPhone, &inv.UnitNumber)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NotFound("invoice not found")
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx,
		`SELECT id, invoice_id, description, amount, recurring_charge_id, expense_id, created_at
		 FROM invoice_items WHERE invoice_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Amount,
			&item.RecurringChargeID, &item.ExpenseID, &item.CreatedAt); err != nil {
			return nil, err
		}
		inv.Items = append(inv.Items, item)
	}
	return &inv, rows.Err()
}

// InvoiceFilter narrows invoice listings. Zero values mean no filter.
type InvoiceFilter struct {
	Status     string
	ResidentID int
	BatchID    int
}

func (r *InvoiceRepository) List(ctx context.Context, scope tenant.Scope, filter InvoiceFilter) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE society_id = $1`
	args := []interface{}{scope.SocietyID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $2`
	}
	if filter.ResidentID != 0 {
		args = append(args, filter.ResidentID)
		query += ` AND resident_id = $` + strconv.Itoa(len(args))
	}
	if filter.BatchID != 0 {
		args = append(args, filter.BatchID)
		query += ` AND batch_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY due_date DESC, id DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// ListForDispatch loads a finalized batch's pending invoices with the
// contact fields the notification fan-out needs. Invoices settled since
// finalization are excluded so they are never dunned.
func (r *InvoiceRepository) ListForDispatch(ctx context.Context, scope tenant.Scope, batchID int) ([]*models.InvoiceWithDetails, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT i.id, i.society_id, i.batch_id, i.resident_id, i.unit_id, i.invoice_number,
		        i.period_start, i.period_end, i.due_date, i.total_amount, i.amount_paid,
		        i.balance_due, i.status, i.pdf_url, i.created_at, i.updated_at,
		        r.name, r.phone, u.unit_number, r.whatsapp_opt_in
		 FROM invoices i
		 JOIN residents r ON r.id = i.resident_id
		 JOIN units u ON u.id = i.unit_id
		 WHERE i.batch_id = $1 AND i.society_id = $2 AND i.status = 'pending'
		 ORDER BY i.id`, batchID, scope.SocietyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.InvoiceWithDetails
	for rows.Next() {
		var inv models.InvoiceWithDetails
		if err := rows.Scan(&inv.ID, &inv.SocietyID, &inv.BatchID, &inv.ResidentID, &inv.UnitID,
			&inv.InvoiceNumber, &inv.PeriodStart, &inv.PeriodEnd, &inv.DueDate,
			&inv.TotalAmount, &inv.AmountPaid, &inv.BalanceDue, &inv.Status, &inv.PDFURL,
			&inv.CreatedAt, &inv.UpdatedAt,
			&inv.ResidentName, &inv.ResidentPhone, &inv.UnitNumber, &inv.WhatsAppOptIn); err != nil {
			return nil, err
		}
		invoices = append(invoices, &inv)
	}
	return invoices, rows.Err()
}

func (r *InvoiceRepository) SetPDFURL(ctx context.Context, scope tenant.Scope, id int, url string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE invoices SET pdf_url = $1, updated_at = NOW()
		 WHERE id = $2 AND society_id = $3`, url, id, scope.SocietyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("invoice not found")
	}
	return nil
}

// BulkMarkSent flips the given pending invoices to sent after a
// successful notification.
func (r *InvoiceRepository) BulkMarkSent(ctx context.Context, scope tenant.Scope, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.DB.Exec(ctx,
		`UPDATE invoices SET status = 'sent', updated_at = NOW()
		 WHERE society_id = $1 AND status = 'pending' AND id = ANY($2)`,
		scope.SocietyID, ids)
	return err
}

// MarkOverdue flips open invoices past their due date with an
// outstanding balance. Returns how many rows changed.
func (r *InvoiceRepository) MarkOverdue(ctx context.Context, scope tenant.Scope, asOf time.Time) (int, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE invoices SET status = 'overdue', updated_at = NOW()
		 WHERE society_id = $1 AND status IN ('pending', 'sent') AND due_date < $2 AND balance_due > 0`,
		scope.SocietyID, asOf)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
