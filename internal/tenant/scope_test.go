package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flatpay-backend/internal/apperrors"
)

func TestScopeRoundTrip(t *testing.T) {
	scope := Scope{SocietyID: 3, UserID: 7, Role: "manager"}
	ctx := NewContext(context.Background(), scope)

	got, err := Require(ctx)
	require.NoError(t, err)
	assert.Equal(t, scope, got)
}

func TestRequireFailsWithoutScope(t *testing.T) {
	_, err := Require(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestCheckOwnership(t *testing.T) {
	scope := Scope{SocietyID: 3}

	assert.NoError(t, scope.CheckOwnership(3))
	err := scope.CheckOwnership(4)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}
