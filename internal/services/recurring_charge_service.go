package services

import (
	"context"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type recurringChargeStore interface {
	Create(ctx context.Context, scope tenant.Scope, req *models.CreateRecurringChargeRequest) (*models.RecurringCharge, error)
	Get(ctx context.Context, scope tenant.Scope, id int) (*models.RecurringCharge, error)
	List(ctx context.Context, scope tenant.Scope, activeOnly bool) ([]*models.RecurringCharge, error)
	Update(ctx context.Context, scope tenant.Scope, id int, req *models.CreateRecurringChargeRequest) error
	SetActive(ctx context.Context, scope tenant.Scope, id int, active bool) error
}

// RecurringChargeService manages the charge catalogue used by the
// invoice generator.
type RecurringChargeService struct {
	charges recurringChargeStore
}

func NewRecurringChargeService(charges recurringChargeStore) *RecurringChargeService {
	return &RecurringChargeService{charges: charges}
}

func validateCharge(req *models.CreateRecurringChargeRequest) error {
	if req.Name == "" {
		return apperrors.Validation("charge name is required")
	}
	if req.CalcType != models.ChargeFixedPerUnit && req.CalcType != models.ChargePerSqft {
		return apperrors.Validation("calculation_type must be %s or %s",
			models.ChargeFixedPerUnit, models.ChargePerSqft)
	}
	if req.AmountOrRate <= 0 {
		return apperrors.Validation("amount_or_rate must be positive")
	}
	if req.Frequency == "" {
		req.Frequency = "monthly"
	}
	return nil
}

func (s *RecurringChargeService) Create(ctx context.Context, scope tenant.Scope, req *models.CreateRecurringChargeRequest) (*models.RecurringCharge, error) {
	if err := validateCharge(req); err != nil {
		return nil, err
	}
	return s.charges.Create(ctx, scope, req)
}

func (s *RecurringChargeService) Get(ctx context.Context, scope tenant.Scope, id int) (*models.RecurringCharge, error) {
	return s.charges.Get(ctx, scope, id)
}

func (s *RecurringChargeService) List(ctx context.Context, scope tenant.Scope, activeOnly bool) ([]*models.RecurringCharge, error) {
	return s.charges.List(ctx, scope, activeOnly)
}

func (s *RecurringChargeService) Update(ctx context.Context, scope tenant.Scope, id int, req *models.CreateRecurringChargeRequest) error {
	if err := validateCharge(req); err != nil {
		return err
	}
	if err := s.charges.Update(ctx, scope, id, req); err != nil {
		return err
	}
	if req.IsActive != nil {
		return s.charges.SetActive(ctx, scope, id, *req.IsActive)
	}
	return nil
}

func (s *RecurringChargeService) SetActive(ctx context.Context, scope tenant.Scope, id int, active bool) error {
	return s.charges.SetActive(ctx, scope, id, active)
}
