package models

import "time"

// User roles within a society.
const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleAccountant = "accountant"
)

// User is a staff account scoped to one society.
type User struct {
	ID           int       `json:"id"`
	SocietyID    int       `json:"society_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	TOTPSecret   string    `json:"-"`
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginRequest authenticates a user by email and password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the JWT, or a short-lived temp token when the
// account has 2FA enabled and a code is still required.
type LoginResponse struct {
	Token       string `json:"token,omitempty"`
	TempToken   string `json:"temp_token,omitempty"`
	Requires2FA bool   `json:"requires_2fa"`
	User        *User  `json:"user,omitempty"`
}

// Verify2FARequest completes a 2FA login.
type Verify2FARequest struct {
	TempToken string `json:"temp_token"`
	Code      string `json:"code"`
}

// CreateUserRequest creates a staff account.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// TOTPSetupResponse returns the enrollment secret and QR code.
type TOTPSetupResponse struct {
	Secret      string `json:"secret"`
	QRCode      string `json:"qr_code"`
	Issuer      string `json:"issuer"`
	AccountName string `json:"account_name"`
}

// VerifyTOTPRequest confirms enrollment or a login code.
type VerifyTOTPRequest struct {
	Code string `json:"code"`
}
