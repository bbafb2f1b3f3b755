package services

import (
	"context"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type unitStore interface {
	Create(ctx context.Context, scope tenant.Scope, unit *models.Unit) error
	Get(ctx context.Context, scope tenant.Scope, id int) (*models.Unit, error)
	List(ctx context.Context, scope tenant.Scope) ([]*models.UnitWithBlock, error)
	Update(ctx context.Context, scope tenant.Scope, id int, req *models.UpdateUnitRequest) error
	Deactivate(ctx context.Context, scope tenant.Scope, id int) error
}

type blockStore interface {
	Create(ctx context.Context, scope tenant.Scope, block *models.Block) error
	List(ctx context.Context, scope tenant.Scope) ([]*models.Block, error)
	Delete(ctx context.Context, scope tenant.Scope, id int) error
}

// UnitService manages units and their optional block grouping.
type UnitService struct {
	units  unitStore
	blocks blockStore
}

func NewUnitService(units unitStore, blocks blockStore) *UnitService {
	return &UnitService{units: units, blocks: blocks}
}

func validOccupancy(status string) bool {
	return status == models.OccupancyVacant || status == models.OccupancyOccupied
}

func (s *UnitService) Create(ctx context.Context, scope tenant.Scope, req *models.CreateUnitRequest) (*models.Unit, error) {
	if req.UnitNumber == "" {
		return nil, apperrors.Validation("unit_number is required")
	}
	if req.OccupancyStatus == "" {
		req.OccupancyStatus = models.OccupancyVacant
	}
	if !validOccupancy(req.OccupancyStatus) {
		return nil, apperrors.Validation("unknown occupancy status %q", req.OccupancyStatus)
	}
	if req.SizeSqft != nil && *req.SizeSqft <= 0 {
		return nil, apperrors.Validation("size_sqft must be positive")
	}

	unit := &models.Unit{
		BlockID:         req.BlockID,
		UnitNumber:      req.UnitNumber,
		SizeSqft:        req.SizeSqft,
		OccupancyStatus: req.OccupancyStatus,
	}
	if err := s.units.Create(ctx, scope, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

func (s *UnitService) Get(ctx context.Context, scope tenant.Scope, id int) (*models.Unit, error) {
	return s.units.Get(ctx, scope, id)
}

func (s *UnitService) List(ctx context.Context, scope tenant.Scope) ([]*models.UnitWithBlock, error) {
	return s.units.List(ctx, scope)
}

func (s *UnitService) Update(ctx context.Context, scope tenant.Scope, id int, req *models.UpdateUnitRequest) error {
	if req.OccupancyStatus != nil && !validOccupancy(*req.OccupancyStatus) {
		return apperrors.Validation("unknown occupancy status %q", *req.OccupancyStatus)
	}
	if req.SizeSqft != nil && *req.SizeSqft <= 0 {
		return apperrors.Validation("size_sqft must be positive")
	}
	return s.units.Update(ctx, scope, id, req)
}

func (s *UnitService) Deactivate(ctx context.Context, scope tenant.Scope, id int) error {
	return s.units.Deactivate(ctx, scope, id)
}

func (s *UnitService) CreateBlock(ctx context.Context, scope tenant.Scope, name string) (*models.Block, error) {
	if name == "" {
		return nil, apperrors.Validation("block name is required")
	}
	block := &models.Block{Name: name}
	if err := s.blocks.Create(ctx, scope, block); err != nil {
		return nil, err
	}
	return block, nil
}

func (s *UnitService) ListBlocks(ctx context.Context, scope tenant.Scope) ([]*models.Block, error) {
	return s.blocks.List(ctx, scope)
}

func (s *UnitService) DeleteBlock(ctx context.Context, scope tenant.Scope, id int) error {
	return s.blocks.Delete(ctx, scope, id)
}
