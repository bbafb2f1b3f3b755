package services

import (
	"context"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
)

type fakeTOTPUserStore struct {
	user    *models.User
	enabled bool
}

func (f *fakeTOTPUserStore) Get(_ context.Context, _ int) (*models.User, error) {
	return f.user, nil
}

func (f *fakeTOTPUserStore) SetTOTPSecret(_ context.Context, _ int, secret string) error {
	f.user.TOTPSecret = secret
	return nil
}

func (f *fakeTOTPUserStore) EnableTOTP(_ context.Context, _ int) error {
	f.enabled = true
	f.user.TOTPEnabled = true
	return nil
}

func TestTOTPSetupThenEnable(t *testing.T) {
	store := &fakeTOTPUserStore{user: &models.User{ID: 1, Email: "admin@greenmeadows.in"}}
	svc := NewTOTPService(store, "flatpay-backend")

	setup, err := svc.Setup(context.Background(), 1)
	require.NoError(t, err)
	assert.NotEmpty(t, setup.Secret)
	assert.Contains(t, setup.QRCode, "data:image/png;base64,")
	assert.Equal(t, "admin@greenmeadows.in", setup.AccountName)
	assert.False(t, store.enabled)

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)

	require.NoError(t, svc.VerifyAndEnable(context.Background(), 1, code))
	assert.True(t, store.enabled)
}

func TestTOTPEnableRejectsWrongCode(t *testing.T) {
	store := &fakeTOTPUserStore{user: &models.User{ID: 1, Email: "admin@greenmeadows.in"}}
	svc := NewTOTPService(store, "flatpay-backend")

	_, err := svc.Setup(context.Background(), 1)
	require.NoError(t, err)

	err = svc.VerifyAndEnable(context.Background(), 1, "000000")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.False(t, store.enabled)
}

func TestTOTPEnableWithoutSetup(t *testing.T) {
	store := &fakeTOTPUserStore{user: &models.User{ID: 1, Email: "admin@greenmeadows.in"}}
	svc := NewTOTPService(store, "flatpay-backend")

	err := svc.VerifyAndEnable(context.Background(), 1, "123456")
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidState(err))
}

func TestTOTPSetupRejectsAlreadyEnabled(t *testing.T) {
	store := &fakeTOTPUserStore{user: &models.User{ID: 1, Email: "a@b.c", TOTPEnabled: true}}
	svc := NewTOTPService(store, "flatpay-backend")

	_, err := svc.Setup(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}
