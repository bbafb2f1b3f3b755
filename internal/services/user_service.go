package services

import (
	"context"
	"log"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/auth"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type userAdminStore interface {
	Create(ctx context.Context, scope tenant.Scope, user *models.User) error
	List(ctx context.Context, scope tenant.Scope) ([]*models.User, error)
	SetActive(ctx context.Context, scope tenant.Scope, id int, active bool) error
}

// UserService manages staff accounts within a society.
type UserService struct {
	users userAdminStore
}

func NewUserService(users userAdminStore) *UserService {
	return &UserService{users: users}
}

var validRoles = map[string]bool{
	models.RoleAdmin:      true,
	models.RoleManager:    true,
	models.RoleAccountant: true,
}

func (s *UserService) Create(ctx context.Context, scope tenant.Scope, req *models.CreateUserRequest) (*models.User, error) {
	if req.Name == "" || req.Email == "" {
		return nil, apperrors.Validation("name and email are required")
	}
	if len(req.Password) < 8 {
		return nil, apperrors.Validation("password must be at least 8 characters")
	}
	if !validRoles[req.Role] {
		return nil, apperrors.Validation("unknown role %q", req.Role)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.users.Create(ctx, scope, user); err != nil {
		return nil, err
	}
	log.Printf("[User] society=%d created %s account %d", scope.SocietyID, user.Role, user.ID)
	return user, nil
}

func (s *UserService) List(ctx context.Context, scope tenant.Scope) ([]*models.User, error) {
	return s.users.List(ctx, scope)
}

func (s *UserService) SetActive(ctx context.Context, scope tenant.Scope, id int, active bool) error {
	if id == scope.UserID && !active {
		return apperrors.Validation("cannot deactivate your own account")
	}
	return s.users.SetActive(ctx, scope, id, active)
}
