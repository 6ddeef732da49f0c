package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorCodesAndStatus(t *testing.T) {
	cases := []struct {
		err    *AppError
		code   string
		status int
	}{
		{NotFound("Chat room", nil), "NOT_FOUND", http.StatusNotFound},
		{BadRequest("bad input", nil), "BAD_REQUEST", http.StatusBadRequest},
		{Unauthorized("no token", nil), "UNAUTHORIZED", http.StatusUnauthorized},
		{Forbidden("not yours", nil), "FORBIDDEN", http.StatusForbidden},
		{Internal("boom", nil), "INTERNAL_ERROR", http.StatusInternalServerError},
		{TooManyRequests("slow down", nil), "TOO_MANY_REQUESTS", http.StatusTooManyRequests},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.Code)
		assert.Equal(t, tc.status, tc.err.Status)
		assert.True(t, Is(tc.err, tc.code))
	}
}

func TestIsUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NotFound("Message", nil))

	assert.True(t, Is(wrapped, "NOT_FOUND"))
	assert.False(t, Is(wrapped, "FORBIDDEN"))
	assert.False(t, Is(fmt.Errorf("plain"), "NOT_FOUND"))
}
