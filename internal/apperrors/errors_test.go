package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{Forbidden("nope"), http.StatusForbidden},
		{Conflict("duplicate"), http.StatusConflict},
		{InvalidState("wrong state"), http.StatusConflict},
		{External(errors.New("boom"), "gateway"), http.StatusBadGateway},
		{Render(errors.New("boom"), "pdf"), http.StatusBadGateway},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), "for %v", tc.err)
	}
}

func TestKindChecksSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", NotFound("invoice not found"))

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := External(errors.New("connection refused"), "calling webhook")

	assert.Equal(t, "calling webhook: connection refused", err.Error())
	assert.Equal(t, "connection refused", errors.Unwrap(err).Error())
}
