package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/models"
	"flatpay-backend/internal/tenant"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, society_id, name, email, password_hash, role, is_active,
	COALESCE(totp_secret, ''), totp_enabled, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.SocietyID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Role, &u.IsActive, &u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	return &u, nil
}

// Get is used by the auth middleware and is deliberately unscoped; the
// scope is built FROM the returned user.
func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) Create(ctx context.Context, scope tenant.Scope, user *models.User) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO users(society_id, name, email, password_hash, role)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		scope.SocietyID, user.Name, user.Email, user.PasswordHash, user.Role,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("email %s is already registered", user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.SocietyID = scope.SocietyID
	user.IsActive = true
	return nil
}

func (r *UserRepository) List(ctx context.Context, scope tenant.Scope) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE society_id = $1 ORDER BY name`,
		scope.SocietyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.SocietyID, &u.Name, &u.Email, &u.PasswordHash,
			&u.Role, &u.IsActive, &u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *UserRepository) SetActive(ctx context.Context, scope tenant.Scope, id int, active bool) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE users SET is_active = $1 WHERE id = $2 AND society_id = $3`,
		active, id, scope.SocietyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}

// SetTOTPSecret stores a pending 2FA secret (not yet enabled).
func (r *UserRepository) SetTOTPSecret(ctx context.Context, userID int, secret string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET totp_secret = $1, totp_enabled = FALSE WHERE id = $2`,
		secret, userID)
	return err
}

// EnableTOTP turns on 2FA after a successful code verification.
func (r *UserRepository) EnableTOTP(ctx context.Context, userID int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET totp_enabled = TRUE WHERE id = $1`, userID)
	return err
}
