package handlers

import (
	"net/http"

	"flatpay-backend/internal/models"
	"flatpay-backend/internal/services"
	"flatpay-backend/pkg/utils"
)

type AuthHandler struct {
	auth *services.AuthService
	totp *services.TOTPService
}

func NewAuthHandler(auth *services.AuthService, totp *services.TOTPService) *AuthHandler {
	return &AuthHandler{auth: auth, totp: totp}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	resp, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Verify2FA(w http.ResponseWriter, r *http.Request) {
	var req models.Verify2FARequest
	if err := decodeBody(r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	resp, err := h.auth.Verify2FA(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// SetupTOTP starts 2FA enrollment for the logged-in user.
func (h *AuthHandler) SetupTOTP(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	resp, err := h.totp.Setup(r.Context(), scope.UserID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// VerifyTOTP confirms enrollment with a code from the authenticator.
func (h *AuthHandler) VerifyTOTP(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r)
	if !ok {
		return
	}
	var req models.VerifyTOTPRequest
	if err := decodeBody(r, &req); err != nil {
		utils.Error(w, err)
		return
	}
	if err := h.totp.VerifyAndEnable(r.Context(), scope.UserID, req.Code); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "2fa enabled"})
}
