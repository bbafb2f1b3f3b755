package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type InvoiceBatchRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceBatchRepository(db *pgxpool.Pool) *InvoiceBatchRepository {
	return &InvoiceBatchRepository{DB: db}
}

const batchColumns = `id, society_id, period_start, period_end, status,
	total_invoice_count, total_amount, generated_at, finalized_at, sent_at`

func scanBatch(row pgx.Row) (*models.InvoiceBatch, error) {
	var b models.InvoiceBatch
	err := row.Scan(&b.ID, &b.SocietyID, &b.PeriodStart, &b.PeriodEnd, &b.Status,
		&b.TotalInvoiceCount, &b.TotalAmount, &b.GeneratedAt, &b.FinalizedAt, &b.SentAt)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NotFound("batch not found")
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *InvoiceBatchRepository) Get(ctx context.Context, scope tenant.Scope, id int) (*models.InvoiceBatch, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+batchColumns+` FROM invoice_batches WHERE id = $1 AND society_id = $2`,
		id, scope.SocietyID)
	return scanBatch(row)
}

func (r *InvoiceBatchRepository) List(ctx context.Context, scope tenant.Scope) ([]*models.InvoiceBatch, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+batchColumns+` FROM invoice_batches
		 WHERE society_id = $1 ORDER BY period_start DESC, id DESC`, scope.SocietyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []*models.InvoiceBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// FindActiveByPeriod returns a non-cancelled batch overlapping the given
// period, if any. Used to reject duplicate generation runs.
func (r *InvoiceBatchRepository) FindActiveByPeriod(ctx context.Context, scope tenant.Scope, start, end time.Time) (*models.InvoiceBatch, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+batchColumns+` FROM invoice_batches
		 WHERE society_id = $1 AND status <> 'Cancelled'
		   AND period_start <= $3 AND period_end >= $2
		 LIMIT 1`,
		scope.SocietyID, start, end)
	b, err := scanBatch(row)
	if apperrors.IsNotFound(err) {
		return nil, nil
	}
	return b, err
}

// CreateBatch persists a generation run in one transaction: the batch
// row, every draft invoice with its items and a fresh invoice number,
// and the allocated-expense marks. Either all of it lands or none.
func (r *InvoiceBatchRepository) CreateBatch(ctx context.Context, scope tenant.Scope, start, end time.Time, drafts []models.InvoiceDraft, expenseIDs []int) (*models.InvoiceBatch, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var total float64
	for _, d := range drafts {
		total += d.Total
	}
	total = models.RoundMoney(total)

	var batch models.InvoiceBatch
	err = tx.QueryRow(ctx,
		`INSERT INTO invoice_batches(society_id, period_start, period_end, status,
		                             total_invoice_count, total_amount)
		 VALUES($1, $2, $3, 'Draft', $4, $5)
		 RETURNING `+batchColumns,
		scope.SocietyID, start, end, len(drafts), total,
	).Scan(&batch.ID, &batch.SocietyID, &batch.PeriodStart, &batch.PeriodEnd, &batch.Status,
		&batch.TotalInvoiceCount, &batch.TotalAmount, &batch.GeneratedAt,
		&batch.FinalizedAt, &batch.SentAt)
	if err != nil {
		return nil, err
	}

	for _, d := range drafts {
		var seq int64
		if err := tx.QueryRow(ctx, `SELECT nextval('invoice_number_sequence')`).Scan(&seq); err != nil {
			return nil, err
		}
		invoiceNumber := fmt.Sprintf("INV-%06d", seq)

		var invoiceID int
		err = tx.QueryRow(ctx,
			`INSERT INTO invoices(society_id, batch_id, resident_id, unit_id, invoice_number,
			                      period_start, period_end, due_date,
			                      total_amount, balance_due, status)
			 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $9, 'draft')
			 RETURNING id`,
			scope.SocietyID, batch.ID, d.ResidentID, d.UnitID, invoiceNumber,
			start, end, d.DueDate, d.Total,
		).Scan(&invoiceID)
		if err != nil {
			return nil, err
		}

		for _, item := range d.Items {
			_, err = tx.Exec(ctx,
				`INSERT INTO invoice_items(invoice_id, description, amount, recurring_charge_id, expense_id)
				 VALUES($1, $2, $3, $4, $5)`,
				invoiceID, item.Description, item.Amount, item.RecurringChargeID, item.ExpenseID)
			if err != nil {
				return nil, err
			}
		}
	}

	if len(expenseIDs) > 0 {
		_, err = tx.Exec(ctx,
			`UPDATE expenses SET is_allocated = TRUE
			 WHERE society_id = $1 AND id = ANY($2)`,
			scope.SocietyID, expenseIDs)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &batch, nil
}

// Finalize moves a Draft batch and its invoices to Pending. The status
// guard in the WHERE clause makes concurrent finalizes race-safe: the
// loser sees zero rows.
func (r *InvoiceBatchRepository) Finalize(ctx context.Context, scope tenant.Scope, id int) (*models.FinalizeBatchResult, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE invoice_batches SET status = 'Pending', finalized_at = NOW()
		 WHERE id = $1 AND society_id = $2 AND status = 'Draft'`,
		id, scope.SocietyID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, r.transitionError(ctx, scope, id, "finalized", models.BatchStatusDraft)
	}

	invTag, err := tx.Exec(ctx,
		`UPDATE invoices SET status = 'pending', updated_at = NOW()
		 WHERE batch_id = $1 AND society_id = $2 AND status = 'draft'`,
		id, scope.SocietyID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &models.FinalizeBatchResult{UpdatedInvoices: int(invTag.RowsAffected())}, nil
}

// Cancel deletes a Draft batch together with its invoices and returns
// any expenses the batch had consumed to the unallocated pool. The
// intermediate Cancelled status inside the transaction serves as the
// concurrency guard.
func (r *InvoiceBatchRepository) Cancel(ctx context.Context, scope tenant.Scope, id int) (*models.CancelBatchResult, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE invoice_batches SET status = 'Cancelled'
		 WHERE id = $1 AND society_id = $2 AND status = 'Draft'`,
		id, scope.SocietyID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, r.transitionError(ctx, scope, id, "cancelled", models.BatchStatusDraft)
	}

	// Release expenses before the cascade wipes the item links.
	_, err = tx.Exec(ctx,
		`UPDATE expenses SET is_allocated = FALSE
		 WHERE id IN (
		   SELECT DISTINCT ii.expense_id FROM invoice_items ii
		   JOIN invoices i ON i.id = ii.invoice_id
		   WHERE i.batch_id = $1 AND ii.expense_id IS NOT NULL
		 )`, id)
	if err != nil {
		return nil, err
	}

	delTag, err := tx.Exec(ctx,
		`DELETE FROM invoices WHERE batch_id = $1 AND society_id = $2`,
		id, scope.SocietyID)
	if err != nil {
		return nil, err
	}

	// Cancelled batches leave no trace; a later fetch reports not found.
	_, err = tx.Exec(ctx,
		`DELETE FROM invoice_batches WHERE id = $1 AND society_id = $2`,
		id, scope.SocietyID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &models.CancelBatchResult{DeletedInvoices: int(delTag.RowsAffected())}, nil
}

// MarkSent moves a Pending batch to Sent after at least one message was
// triggered successfully.
func (r *InvoiceBatchRepository) MarkSent(ctx context.Context, scope tenant.Scope, id int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE invoice_batches SET status = 'Sent', sent_at = NOW()
		 WHERE id = $1 AND society_id = $2 AND status = 'Pending'`,
		id, scope.SocietyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.transitionError(ctx, scope, id, "sent", models.BatchStatusPending)
	}
	return nil
}

// transitionError distinguishes a missing batch from one in the wrong
// state after a guarded update matched nothing.
func (r *InvoiceBatchRepository) transitionError(ctx context.Context, scope tenant.Scope, id int, verb, wantStatus string) error {
	b, err := r.Get(ctx, scope, id)
	if err != nil {
		return err
	}
	return apperrors.InvalidState("batch %d is %s; only %s batches can be %s",
		id, b.Status, wantStatus, verb)
}
