package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type BlockRepository struct {
	DB *pgxpool.Pool
}

func NewBlockRepository(db *pgxpool.Pool) *BlockRepository {
	return &BlockRepository{DB: db}
}

func (r *BlockRepository) Create(ctx context.Context, scope tenant.Scope, block *models.Block) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO blocks(society_id, name) VALUES($1, $2) RETURNING id, created_at`,
		scope.SocietyID, block.Name,
	).Scan(&block.ID, &block.CreatedAt)
	if err != nil {
		return err
	}
	block.SocietyID = scope.SocietyID
	return nil
}

func (r *BlockRepository) List(ctx context.Context, scope tenant.Scope) ([]*models.Block, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, society_id, name, created_at FROM blocks
		 WHERE society_id = $1 ORDER BY name`, scope.SocietyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []*models.Block
	for rows.Next() {
		var b models.Block
		if err := rows.Scan(&b.ID, &b.SocietyID, &b.Name, &b.CreatedAt); err != nil {
			return nil, err
		}
		blocks = append(blocks, &b)
	}
	return blocks, rows.Err()
}

func (r *BlockRepository) Delete(ctx context.Context, scope tenant.Scope, id int) error {
	// Units referencing the block keep the FK; reject in that case
	var inUse int
	if err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM units WHERE block_id = $1 AND society_id = $2`,
		id, scope.SocietyID).Scan(&inUse); err != nil {
		return err
	}
	if inUse > 0 {
		return apperrors.Conflict("block has %d units; reassign them first", inUse)
	}

	tag, err := r.DB.Exec(ctx,
		`DELETE FROM blocks WHERE id = $1 AND society_id = $2`, id, scope.SocietyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("block not found")
	}
	return nil
}
