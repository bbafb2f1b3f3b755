package services

import (
	"context"
	"log"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type residentStore interface {
	Create(ctx context.Context, scope tenant.Scope, req *models.CreateResidentRequest) (*models.Resident, error)
	Get(ctx context.Context, scope tenant.Scope, id int) (*models.Resident, error)
	List(ctx context.Context, scope tenant.Scope, activeOnly bool) ([]*models.ResidentWithUnit, error)
	Update(ctx context.Context, scope tenant.Scope, id int, req *models.CreateResidentRequest) error
	Delete(ctx context.Context, scope tenant.Scope, id int) (bool, error)
}

type unitGetter interface {
	Get(ctx context.Context, scope tenant.Scope, id int) (*models.Unit, error)
}

// ResidentService manages the resident directory.
type ResidentService struct {
	residents residentStore
	units     unitGetter
}

func NewResidentService(residents residentStore, units unitGetter) *ResidentService {
	return &ResidentService{residents: residents, units: units}
}

func (s *ResidentService) validate(ctx context.Context, scope tenant.Scope, req *models.CreateResidentRequest) error {
	if req.Name == "" {
		return apperrors.Validation("resident name is required")
	}
	if req.PrimaryUnitID != nil {
		// Confirms the unit exists in this society before linking.
		if _, err := s.units.Get(ctx, scope, *req.PrimaryUnitID); err != nil {
			return err
		}
	}
	if req.MoveInDate != nil && req.MoveOutDate != nil && req.MoveOutDate.Before(*req.MoveInDate) {
		return apperrors.Validation("move_out_date is before move_in_date")
	}
	return nil
}

func (s *ResidentService) Create(ctx context.Context, scope tenant.Scope, req *models.CreateResidentRequest) (*models.Resident, error) {
	if err := s.validate(ctx, scope, req); err != nil {
		return nil, err
	}
	return s.residents.Create(ctx, scope, req)
}

func (s *ResidentService) Get(ctx context.Context, scope tenant.Scope, id int) (*models.Resident, error) {
	return s.residents.Get(ctx, scope, id)
}

func (s *ResidentService) List(ctx context.Context, scope tenant.Scope, activeOnly bool) ([]*models.ResidentWithUnit, error) {
	return s.residents.List(ctx, scope, activeOnly)
}

func (s *ResidentService) Update(ctx context.Context, scope tenant.Scope, id int, req *models.CreateResidentRequest) error {
	if err := s.validate(ctx, scope, req); err != nil {
		return err
	}
	return s.residents.Update(ctx, scope, id, req)
}

// Delete removes a resident, falling back to deactivation when billing
// history exists. Returns whether the resident was kept (deactivated).
func (s *ResidentService) Delete(ctx context.Context, scope tenant.Scope, id int) (bool, error) {
	deactivated, err := s.residents.Delete(ctx, scope, id)
	if err != nil {
		return false, err
	}
	if deactivated {
		log.Printf("[Resident] society=%d resident=%d has invoices, deactivated instead of deleted",
			scope.SocietyID, id)
	}
	return deactivated, nil
}
