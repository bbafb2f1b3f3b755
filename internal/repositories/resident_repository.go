package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type ResidentRepository struct {
	DB *pgxpool.Pool
}

func NewResidentRepository(db *pgxpool.Pool) *ResidentRepository {
	return &ResidentRepository{DB: db}
}

const residentColumns = `id, society_id, primary_unit_id, name, phone, email, is_active,
	move_in_date, move_out_date, whatsapp_opt_in, created_at, updated_at`

func scanResident(row pgx.Row) (*models.Resident, error) {
	var res models.Resident
	err := row.Scan(&res.ID, &res.SocietyID, &res.PrimaryUnitID, &res.Name, &res.Phone,
		&res.Email, &res.IsActive, &res.MoveInDate, &res.MoveOutDate,
		&res.WhatsAppOptIn, &res.CreatedAt, &res.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NotFound("resident not found")
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ResidentRepository) Create(ctx context.Context, scope tenant.Scope, req *models.CreateResidentRequest) (*models.Resident, error) {
	row := r.DB.QueryRow(ctx,
		`INSERT INTO residents(society_id, primary_unit_id, name, phone, email,
		                       move_in_date, whatsapp_opt_in)
		 VALUES($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+residentColumns,
		scope.SocietyID, req.PrimaryUnitID, req.Name, req.Phone, req.Email,
		req.MoveInDate, req.WhatsAppOptIn)
	return scanResident(row)
}

func (r *ResidentRepository) Get(ctx context.Context, scope tenant.Scope, id int) (*models.Resident, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+residentColumns+` FROM residents WHERE id = $1 AND society_id = $2`,
		id, scope.SocietyID)
	return scanResident(row)
}

func (r *ResidentRepository) List(ctx context.Context, scope tenant.Scope, activeOnly bool) ([]*models.ResidentWithUnit, error) {
	query := `SELECT r.id, r.society_id, r.primary_unit_id, r.name, r.phone, r.email,
	                 r.is_active, r.move_in_date, r.move_out_date, r.whatsapp_opt_in,
	                 r.created_at, r.updated_at,
	                 COALESCE(u.unit_number, ''), u.size_sqft
	          FROM residents r
	          LEFT JOIN units u ON u.id = r.primary_unit_id
	          WHERE r.society_id = $1`
	if activeOnly {
		query += ` AND r.is_active = TRUE`
	}
	query += ` ORDER BY r.name`

	rows, err := r.DB.Query(ctx, query, scope.SocietyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var residents []*models.ResidentWithUnit
	for rows.Next() {
		var res models.ResidentWithUnit
		if err := rows.Scan(&res.ID, &res.SocietyID, &res.PrimaryUnitID, &res.Name,
			&res.Phone, &res.Email, &res.IsActive, &res.MoveInDate, &res.MoveOutDate,
			&res.WhatsAppOptIn, &res.CreatedAt, &res.UpdatedAt,
			&res.UnitNumber, &res.SizeSqft); err != nil {
			return nil, err
		}
		residents = append(residents, &res)
	}
	return residents, rows.Err()
}

// ListBillable returns active residents that have a primary unit, the
// population an invoice run targets.
func (r *ResidentRepository) ListBillable(ctx context.Context, scope tenant.Scope) ([]*models.ResidentWithUnit, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT r.id, r.society_id, r.primary_unit_id, r.name, r.phone, r.email,
		        r.is_active, r.move_in_date, r.move_out_date, r.whatsapp_opt_in,
		        r.created_at, r.updated_at,
		        u.unit_number, u.size_sqft
		 FROM residents r
		 JOIN units u ON u.id = r.primary_unit_id
		 WHERE r.society_id = $1 AND r.is_active = TRUE AND u.is_active = TRUE
		 ORDER BY u.unit_number`, scope.SocietyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var residents []*models.ResidentWithUnit
	for rows.Next() {
		var res models.ResidentWithUnit
		if err := rows.Scan(&res.ID, &res.SocietyID, &res.PrimaryUnitID, &res.Name,
			&res.Phone, &res.Email, &res.IsActive, &res.MoveInDate, &res.MoveOutDate,
			&res.WhatsAppOptIn, &res.CreatedAt, &res.UpdatedAt,
			&res.UnitNumber, &res.SizeSqft); err != nil {
			return nil, err
		}
		residents = append(residents, &res)
	}
	return residents, rows.Err()
}

func (r *ResidentRepository) Update(ctx context.Context, scope tenant.Scope, id int, req *models.CreateResidentRequest) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE residents SET
		   primary_unit_id = $1, name = $2, phone = $3, email = $4,
		   move_in_date = $5, move_out_date = $6, whatsapp_opt_in = $7,
		   updated_at = NOW()
		 WHERE id = $8 AND society_id = $9`,
		req.PrimaryUnitID, req.Name, req.Phone, req.Email,
		req.MoveInDate, req.MoveOutDate, req.WhatsAppOptIn, id, scope.SocietyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("resident not found")
	}
	return nil
}

// Delete hard-deletes a resident only when no invoices reference them;
// otherwise the resident is deactivated to preserve billing history.
func (r *ResidentRepository) Delete(ctx context.Context, scope tenant.Scope, id int) (deactivated bool, err error) {
	var invoices int
	if err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE resident_id = $1 AND society_id = $2`,
		id, scope.SocietyID).Scan(&invoices); err != nil {
		return false, err
	}

	if invoices > 0 {
		tag, err := r.DB.Exec(ctx,
			`UPDATE residents SET is_active = FALSE, updated_at = NOW()
			 WHERE id = $1 AND society_id = $2`, id, scope.SocietyID)
		if err != nil {
			return false, err
		}
		if tag.RowsAffected() == 0 {
			return false, apperrors.NotFound("resident not found")
		}
		return true, nil
	}

	tag, err := r.DB.Exec(ctx,
		`DELETE FROM residents WHERE id = $1 AND society_id = $2`, id, scope.SocietyID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, apperrors.NotFound("resident not found")
	}
	return false, nil
}
