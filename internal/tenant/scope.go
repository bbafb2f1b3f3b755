package tenant

import (
	"context"

	"flatpay-backend/internal/apperrors"
)

// Scope carries the caller's tenant identity through every data-access
// call. Repositories require a Scope and filter every query by its
// SocietyID, so a missing or wrong scope cannot leak another society's
// rows.
type Scope struct {
	SocietyID int
	UserID    int
	Role      string
}

type contextKey struct{}

// NewContext returns a context carrying the scope.
func NewContext(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, contextKey{}, scope)
}

// FromContext extracts the scope set by the auth middleware.
func FromContext(ctx context.Context) (Scope, bool) {
	scope, ok := ctx.Value(contextKey{}).(Scope)
	return scope, ok
}

// Require returns the scope or a Forbidden error when the context has
// none. Handlers call this before touching any repository.
func Require(ctx context.Context) (Scope, error) {
	scope, ok := FromContext(ctx)
	if !ok || scope.SocietyID == 0 {
		return Scope{}, apperrors.Forbidden("no society scope on request")
	}
	return scope, nil
}

// CheckOwnership rejects an entity owned by another society. Used after
// an unscoped primary-key lookup, before any of the record's data is
// returned.
func (s Scope) CheckOwnership(societyID int) error {
	if societyID != s.SocietyID {
		return apperrors.Forbidden("record belongs to a different society")
	}
	return nil
}
