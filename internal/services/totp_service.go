package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/png"
	"log"

	"github.com/pquerna/otp/totp"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
)

type totpUserStore interface {
	Get(ctx context.Context, id int) (*models.User, error)
	SetTOTPSecret(ctx context.Context, userID int, secret string) error
	EnableTOTP(ctx context.Context, userID int) error
}

// TOTPService handles authenticator enrollment.
type TOTPService struct {
	users  totpUserStore
	issuer string
}

func NewTOTPService(users totpUserStore, issuer string) *TOTPService {
	return &TOTPService{users: users, issuer: issuer}
}

// Setup generates a fresh secret and QR code. The secret stays inactive
// until VerifyAndEnable confirms the authenticator produces valid codes.
func (s *TOTPService) Setup(ctx context.Context, userID int) (*models.TOTPSetupResponse, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TOTPEnabled {
		return nil, apperrors.Conflict("2fa is already enabled for this account")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, err
	}
	if err := s.users.SetTOTPSecret(ctx, userID, key.Secret()); err != nil {
		return nil, err
	}

	img, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return &models.TOTPSetupResponse{
		Secret:      key.Secret(),
		QRCode:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Issuer:      s.issuer,
		AccountName: user.Email,
	}, nil
}

// VerifyAndEnable activates 2FA once the user proves their
// authenticator works.
func (s *TOTPService) VerifyAndEnable(ctx context.Context, userID int, code string) error {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.TOTPSecret == "" {
		return apperrors.InvalidState("2fa setup has not been started")
	}
	if user.TOTPEnabled {
		return apperrors.Conflict("2fa is already enabled")
	}
	if !totp.Validate(code, user.TOTPSecret) {
		return apperrors.Validation("invalid 2fa code")
	}
	if err := s.users.EnableTOTP(ctx, userID); err != nil {
		return err
	}
	log.Printf("[Auth] user=%d enabled 2fa", userID)
	return nil
}
