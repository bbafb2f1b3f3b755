package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type RecurringChargeRepository struct {
	DB *pgxpool.Pool
}

func NewRecurringChargeRepository(db *pgxpool.Pool) *RecurringChargeRepository {
	return &RecurringChargeRepository{DB: db}
}

const chargeColumns = `id, society_id, name, calculation_type, amount_or_rate, frequency, is_active, created_at`

func scanCharge(row pgx.Row) (*models.RecurringCharge, error) {
	var c models.RecurringCharge
	err := row.Scan(&c.ID, &c.SocietyID, &c.Name, &c.CalcType, &c.AmountOrRate,
		&c.Frequency, &c.IsActive, &c.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NotFound("recurring charge not found")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *RecurringChargeRepository) Create(ctx context.Context, scope tenant.Scope, req *models.CreateRecurringChargeRequest) (*models.RecurringCharge, error) {
	row := r.DB.QueryRow(ctx,
		`INSERT INTO recurring_charges(society_id, name, calculation_type, amount_or_rate, frequency)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING `+chargeColumns,
		scope.SocietyID, req.Name, req.CalcType, req.AmountOrRate, req.Frequency)
	return scanCharge(row)
}

func (r *RecurringChargeRepository) Get(ctx context.Context, scope tenant.Scope, id int) (*models.RecurringCharge, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+chargeColumns+` FROM recurring_charges WHERE id = $1 AND society_id = $2`,
		id, scope.SocietyID)
	return scanCharge(row)
}

func (r *RecurringChargeRepository) List(ctx context.Context, scope tenant.Scope, activeOnly bool) ([]*models.RecurringCharge, error) {
	query := `SELECT ` + chargeColumns + ` FROM recurring_charges WHERE society_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.DB.Query(ctx, query, scope.SocietyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []*models.RecurringCharge
	for rows.Next() {
		c, err := scanCharge(rows)
		if err != nil {
			return nil, err
		}
		charges = append(charges, c)
	}
	return charges, rows.Err()
}

func (r *RecurringChargeRepository) Update(ctx context.Context, scope tenant.Scope, id int, req *models.CreateRecurringChargeRequest) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE recurring_charges SET
		   name = $1, calculation_type = $2, amount_or_rate = $3, frequency = $4
		 WHERE id = $5 AND society_id = $6`,
		req.Name, req.CalcType, req.AmountOrRate, req.Frequency, id, scope.SocietyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("recurring charge not found")
	}
	return nil
}

// SetActive toggles a charge. Invoice items reference charges by id, so
// charges are never hard-deleted.
func (r *RecurringChargeRepository) SetActive(ctx context.Context, scope tenant.Scope, id int, active bool) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE recurring_charges SET is_active = $1 WHERE id = $2 AND society_id = $3`,
		active, id, scope.SocietyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("recurring charge not found")
	}
	return nil
}
