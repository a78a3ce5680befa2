package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{NewStoreError("store down", nil), http.StatusBadGateway},
		{NewUpstreamError("provider down", nil), http.StatusBadGateway},
		{NewAuthError("login required", nil), http.StatusUnauthorized},
		{NewUnauthorizedError("not yours", nil), http.StatusForbidden},
		{NewNotFoundError("missing", nil), http.StatusNotFound},
		{NewValidationError("bad input", nil), http.StatusBadRequest},
		{NewBadRequestError("bad body", nil), http.StatusBadRequest},
		{NewConflictError("already there", nil), http.StatusConflict},
		{NewInternalError("boom", nil), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.StatusCode(), tc.err.Message)
	}
}

func TestErrorWrapping(t *testing.T) {
	underlying := errors.New("connection refused")
	appErr := NewStoreError("data store is unreachable", underlying)

	assert.ErrorIs(t, appErr, underlying)
	assert.Contains(t, appErr.Error(), "connection refused")

	// Wrapping an AppError in more context keeps it recognizable.
	wrapped := fmt.Errorf("while adding to watchlist: %w", appErr)
	assert.True(t, IsStoreError(wrapped))

	found, ok := FromError(wrapped)
	require.True(t, ok)
	assert.Equal(t, StoreError, found.Type)
}

func TestToResponseHidesUnderlyingError(t *testing.T) {
	appErr := NewStoreError("data store is unreachable", errors.New("dial tcp: secret host"))
	resp := appErr.ToResponse()
	assert.Equal(t, "data store is unreachable", resp.Error)
}

func TestFromValidationMessages(t *testing.T) {
	type payload struct {
		Email   string `validate:"required,email"`
		Rating  int    `validate:"required,gte=1,lte=10"`
		Comment string `validate:"required"`
	}

	err := validator.New().Struct(payload{Email: "nope", Rating: 11})
	require.Error(t, err)

	appErr := FromValidation(err)
	assert.Equal(t, ValidationError, appErr.Type)
	assert.Contains(t, appErr.Message, "email must be a valid email address")
	assert.Contains(t, appErr.Message, "rating must be at most 10")
	assert.Contains(t, appErr.Message, "comment is required")
}

func TestFromValidationWithPlainError(t *testing.T) {
	appErr := FromValidation(errors.New("not a validator error"))
	assert.Equal(t, ValidationError, appErr.Type)
	assert.Equal(t, "invalid input", appErr.Message)
}
