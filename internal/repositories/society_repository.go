package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type SocietyRepository struct {
	DB *pgxpool.Pool
}

func NewSocietyRepository(db *pgxpool.Pool) *SocietyRepository {
	return &SocietyRepository{DB: db}
}

func (r *SocietyRepository) Get(ctx context.Context, scope tenant.Scope) (*models.Society, error) {
	var s models.Society
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, address, bank_name, bank_account, bank_ifsc,
		        due_date_days, late_fee_per_day, timezone, created_at, updated_at
		 FROM societies WHERE id = $1`, scope.SocietyID,
	).Scan(&s.ID, &s.Name, &s.Address, &s.BankName, &s.BankAccount, &s.BankIFSC,
		&s.DueDateDays, &s.LateFeePerDay, &s.Timezone, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("society not found")
		}
		return nil, err
	}
	return &s, nil
}

func (r *SocietyRepository) Update(ctx context.Context, scope tenant.Scope, req *models.UpdateSocietyRequest) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE societies
		 SET name = $1, address = $2, bank_name = $3, bank_account = $4,
		     bank_ifsc = $5, due_date_days = $6, late_fee_per_day = $7,
		     timezone = $8, updated_at = now()
		 WHERE id = $9`,
		req.Name, req.Address, req.BankName, req.BankAccount, req.BankIFSC,
		req.DueDateDays, req.LateFeePerDay, req.Timezone, scope.SocietyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("society not found")
	}
	return nil
}
