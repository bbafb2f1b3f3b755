package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type UnitRepository struct {
	DB *pgxpool.Pool
}

func NewUnitRepository(db *pgxpool.Pool) *UnitRepository {
	return &UnitRepository{DB: db}
}

const unitColumns = `id, society_id, block_id, unit_number, size_sqft, occupancy_status, is_active, created_at`

func scanUnit(row pgx.Row) (*models.Unit, error) {
	var u models.Unit
	err := row.Scan(&u.ID, &u.SocietyID, &u.BlockID, &u.UnitNumber, &u.SizeSqft,
		&u.OccupancyStatus, &u.IsActive, &u.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NotFound("unit not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UnitRepository) Create(ctx context.Context, scope tenant.Scope, unit *models.Unit) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO units(society_id, block_id, unit_number, size_sqft, occupancy_status)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING id, is_active, created_at`,
		scope.SocietyID, unit.BlockID, unit.UnitNumber, unit.SizeSqft, unit.OccupancyStatus,
	).Scan(&unit.ID, &unit.IsActive, &unit.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("unit number %s already exists", unit.UnitNumber)
		}
		return err
	}
	unit.SocietyID = scope.SocietyID
	return nil
}

func (r *UnitRepository) Get(ctx context.Context, scope tenant.Scope, id int) (*models.Unit, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+unitColumns+` FROM units WHERE id = $1 AND society_id = $2`,
		id, scope.SocietyID)
	return scanUnit(row)
}

func (r *UnitRepository) List(ctx context.Context, scope tenant.Scope) ([]*models.UnitWithBlock, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT u.id, u.society_id, u.block_id, u.unit_number, u.size_sqft, u.occupancy_status,
		        u.is_active, u.created_at, COALESCE(b.name, '')
		 FROM units u
		 LEFT JOIN blocks b ON b.id = u.block_id
		 WHERE u.society_id = $1
		 ORDER BY b.name NULLS FIRST, u.unit_number`, scope.SocietyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []*models.UnitWithBlock
	for rows.Next() {
		var u models.UnitWithBlock
		if err := rows.Scan(&u.ID, &u.SocietyID, &u.BlockID, &u.UnitNumber, &u.SizeSqft,
			&u.OccupancyStatus, &u.IsActive, &u.CreatedAt, &u.BlockName); err != nil {
			return nil, err
		}
		units = append(units, &u)
	}
	return units, rows.Err()
}

func (r *UnitRepository) Update(ctx context.Context, scope tenant.Scope, id int, req *models.UpdateUnitRequest) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE units SET
		   block_id = COALESCE($1, block_id),
		   unit_number = COALESCE($2, unit_number),
		   size_sqft = COALESCE($3, size_sqft),
		   occupancy_status = COALESCE($4, occupancy_status)
		 WHERE id = $5 AND society_id = $6`,
		req.BlockID, req.UnitNumber, req.SizeSqft, req.OccupancyStatus, id, scope.SocietyID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("unit number already exists")
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("unit not found")
	}
	return nil
}

// Deactivate soft-deletes a unit. Units referenced by invoices are never
// hard-deleted.
func (r *UnitRepository) Deactivate(ctx context.Context, scope tenant.Scope, id int) error {
	var residents int
	if err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM residents
		 WHERE primary_unit_id = $1 AND society_id = $2 AND is_active = TRUE`,
		id, scope.SocietyID).Scan(&residents); err != nil {
		return err
	}
	if residents > 0 {
		return apperrors.Conflict("unit has active residents; move them first")
	}

	tag, err := r.DB.Exec(ctx,
		`UPDATE units SET is_active = FALSE WHERE id = $1 AND society_id = $2`,
		id, scope.SocietyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("unit not found")
	}
	return nil
}
