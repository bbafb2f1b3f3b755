package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type MessageLogRepository struct {
	DB *pgxpool.Pool
}

func NewMessageLogRepository(db *pgxpool.Pool) *MessageLogRepository {
	return &MessageLogRepository{DB: db}
}

func (r *MessageLogRepository) Create(ctx context.Context, log *models.MessageLog) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO message_logs(society_id, invoice_id, phone, channel, template, status, error_message)
		 VALUES($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		log.SocietyID, log.InvoiceID, log.Phone, log.Channel, log.Template,
		log.Status, log.ErrorMessage,
	).Scan(&log.ID, &log.CreatedAt)
}

func (r *MessageLogRepository) ListByInvoice(ctx context.Context, scope tenant.Scope, invoiceID int) ([]*models.MessageLog, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, society_id, invoice_id, phone, channel, template, status, error_message, created_at
		 FROM message_logs
		 WHERE invoice_id = $1 AND society_id = $2
		 ORDER BY id DESC`, invoiceID, scope.SocietyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.MessageLog
	for rows.Next() {
		var l models.MessageLog
		if err := rows.Scan(&l.ID, &l.SocietyID, &l.InvoiceID, &l.Phone, &l.Channel,
			&l.Template, &l.Status, &l.ErrorMessage, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
