package services

import (
	"context"
	"log"

	"github.com/pquerna/otp/totp"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/auth"
	"flatpay-backend/internal/cache"
	"flatpay-backend/internal/models"
)

type userStore interface {
	Get(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService handles login, including the TOTP second factor for
// accounts that enabled it.
type AuthService struct {
	users userStore
	jwt   *auth.JWTManager
}

func NewAuthService(users userStore, jwt *auth.JWTManager) *AuthService {
	return &AuthService{users: users, jwt: jwt}
}

// Login authenticates by email and password. Accounts with 2FA enabled
// get a short-lived temp token instead of a session token; the login
// completes in Verify2FA.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperrors.Validation("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Forbidden("invalid credentials")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.Forbidden("account is disabled")
	}

	if _, ok := cache.GetCachedAuth(ctx, req.Email, req.Password); !ok {
		if !auth.VerifyPassword(user.PasswordHash, req.Password) {
			return nil, apperrors.Forbidden("invalid credentials")
		}
		cache.CacheAuth(ctx, req.Email, req.Password, user.ID)
	}

	if user.TOTPEnabled {
		tempToken, err := s.jwt.GenerateTempToken(user)
		if err != nil {
			return nil, err
		}
		return &models.LoginResponse{TempToken: tempToken, Requires2FA: true}, nil
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	log.Printf("[Auth] user=%d society=%d logged in", user.ID, user.SocietyID)
	return &models.LoginResponse{Token: token, User: user}, nil
}

// Verify2FA exchanges a temp token plus a valid TOTP code for a session
// token.
func (s *AuthService) Verify2FA(ctx context.Context, req *models.Verify2FARequest) (*models.LoginResponse, error) {
	claims, err := s.jwt.ValidateTempToken(req.TempToken)
	if err != nil {
		return nil, apperrors.Forbidden("invalid or expired 2fa session")
	}
	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive || !user.TOTPEnabled {
		return nil, apperrors.Forbidden("2fa login not available for this account")
	}
	if !totp.Validate(req.Code, user.TOTPSecret) {
		return nil, apperrors.Forbidden("invalid 2fa code")
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	log.Printf("[Auth] user=%d society=%d completed 2fa login", user.ID, user.SocietyID)
	return &models.LoginResponse{Token: token, User: user}, nil
}
