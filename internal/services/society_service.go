package services

import (
	"context"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/cache"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
	"flatpay-backend/internal/timeutil"
)

type societySettingsStore interface {
	Get(ctx context.Context, scope tenant.Scope) (*models.Society, error)
	Update(ctx context.Context, scope tenant.Scope, req *models.UpdateSocietyRequest) error
}

// SocietyService exposes the tenant's own settings.
type SocietyService struct {
	societies societySettingsStore
}

func NewSocietyService(societies societySettingsStore) *SocietyService {
	return &SocietyService{societies: societies}
}

func (s *SocietyService) Get(ctx context.Context, scope tenant.Scope) (*models.Society, error) {
	return s.societies.Get(ctx, scope)
}

func (s *SocietyService) Update(ctx context.Context, scope tenant.Scope, req *models.UpdateSocietyRequest) error {
	if req.Name == "" {
		return apperrors.Validation("society name is required")
	}
	if req.DueDateDays < 0 || req.DueDateDays > 90 {
		return apperrors.Validation("due_date_days must be between 0 and 90")
	}
	if req.LateFeePerDay < 0 {
		return apperrors.Validation("late_fee_per_day cannot be negative")
	}
	if req.Timezone != "" && timeutil.SocietyLocation(req.Timezone).String() != req.Timezone {
		return apperrors.Validation("unknown timezone %q", req.Timezone)
	}
	if err := s.societies.Update(ctx, scope, req); err != nil {
		return err
	}
	cache.InvalidateSociety(ctx, scope.SocietyID)
	return nil
}
