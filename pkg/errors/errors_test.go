package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := NotFound("product", "abc-123")
	assert.Contains(t, err.Error(), "NOT_FOUND")
	assert.Contains(t, err.Error(), "product with id abc-123 not found")

	wrapped := &AppError{Code: "X", Message: "msg", Err: errors.New("cause")}
	assert.Contains(t, wrapped.Error(), "cause")
}

func TestAppError_Unwrap(t *testing.T) {
	err := AlreadyExists("user", "email", "a@b.com")
	assert.True(t, errors.Is(err, ErrAlreadyExists))

	err2 := fmt.Errorf("create user: %w", err)
	var appErr *AppError
	require.True(t, errors.As(err2, &appErr))
	assert.Equal(t, http.StatusConflict, appErr.Status)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("order", "1"), http.StatusNotFound},
		{"already exists", AlreadyExists("user", "email", "x"), http.StatusConflict},
		{"conflict", Conflict("product already reviewed"), http.StatusConflict},
		{"invalid input", InvalidInput("bad"), http.StatusBadRequest},
		{"insufficient stock", InsufficientStock("Widget", 3), http.StatusBadRequest},
		{"unauthorized", Unauthorized("nope"), http.StatusUnauthorized},
		{"forbidden", Forbidden("nope"), http.StatusForbidden},
		{"upstream", Upstream(http.StatusTooManyRequests, "quota"), http.StatusTooManyRequests},
		{"wrapped sentinel", fmt.Errorf("ctx: %w", ErrNotFound), http.StatusNotFound},
		{"wrapped stock sentinel", fmt.Errorf("ctx: %w", ErrInsufficientStock), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"internal", Internal(errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestUpstream_StatusFallback(t *testing.T) {
	assert.Equal(t, http.StatusBadGateway, Upstream(0, "no status").Status)
	assert.Equal(t, http.StatusBadGateway, Upstream(200, "weird").Status)
	assert.Equal(t, http.StatusServiceUnavailable, Upstream(503, "down").Status)
}

func TestInsufficientStock_Message(t *testing.T) {
	err := InsufficientStock("Handmade Vase", 2)
	assert.Equal(t, "not enough stock for product Handmade Vase, available: 2", err.Message)
	assert.Equal(t, "INSUFFICIENT_STOCK", err.Code)
}
