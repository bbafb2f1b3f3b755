package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type OnlineTransactionRepository struct {
	DB *pgxpool.Pool
}

func NewOnlineTransactionRepository(db *pgxpool.Pool) *OnlineTransactionRepository {
	return &OnlineTransactionRepository{DB: db}
}

const onlineTxColumns = `id, society_id, invoice_id, razorpay_order_id, razorpay_payment_id,
	amount, status, error_message, created_at, updated_at`

func scanOnlineTx(row pgx.Row) (*models.OnlineTransaction, error) {
	var t models.OnlineTransaction
	err := row.Scan(&t.ID, &t.SocietyID, &t.InvoiceID, &t.RazorpayOrderID, &t.RazorpayPaymentID,
		&t.Amount, &t.Status, &t.ErrorMessage, &t.CreatedAt, &t.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NotFound("online transaction not found")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *OnlineTransactionRepository) Create(ctx context.Context, scope tenant.Scope, invoiceID int, orderID string, amount float64) (*models.OnlineTransaction, error) {
	row := r.DB.QueryRow(ctx,
		`INSERT INTO online_transactions(society_id, invoice_id, razorpay_order_id, amount)
		 VALUES($1, $2, $3, $4)
		 RETURNING `+onlineTxColumns,
		scope.SocietyID, invoiceID, orderID, amount)
	return scanOnlineTx(row)
}

// GetByOrderID is unscoped: webhook callbacks carry no tenant, the
// order id is the lookup key and the stored society_id restores scope.
func (r *OnlineTransactionRepository) GetByOrderID(ctx context.Context, orderID string) (*models.OnlineTransaction, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+onlineTxColumns+` FROM online_transactions WHERE razorpay_order_id = $1`,
		orderID)
	return scanOnlineTx(row)
}

// MarkCaptured flips a created transaction to captured. The status guard
// makes webhook redelivery idempotent: a second delivery matches zero
// rows.
func (r *OnlineTransactionRepository) MarkCaptured(ctx context.Context, orderID, paymentID string) (bool, error) {
	tag, err := r.DB.Exec(ctx,
		`UPDATE online_transactions
		 SET status = 'captured', razorpay_payment_id = $1, updated_at = NOW()
		 WHERE razorpay_order_id = $2 AND status = 'created'`,
		paymentID, orderID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *OnlineTransactionRepository) MarkFailed(ctx context.Context, orderID, errorMessage string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE online_transactions
		 SET status = 'failed', error_message = $1, updated_at = NOW()
		 WHERE razorpay_order_id = $2 AND status = 'created'`,
		errorMessage, orderID)
	return err
}

func (r *OnlineTransactionRepository) ListByInvoice(ctx context.Context, scope tenant.Scope, invoiceID int) ([]*models.OnlineTransaction, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+onlineTxColumns+` FROM online_transactions
		 WHERE invoice_id = $1 AND society_id = $2 ORDER BY id DESC`,
		invoiceID, scope.SocietyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*models.OnlineTransaction
	for rows.Next() {
		t, err := scanOnlineTx(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
