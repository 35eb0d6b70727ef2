package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBackendRejection_Status(t *testing.T) {
	tests := []struct {
		name          string
		backendStatus int
		want          int
	}{
		{name: "client error passes through", backendStatus: http.StatusNotFound, want: http.StatusNotFound},
		{name: "conflict passes through", backendStatus: http.StatusConflict, want: http.StatusConflict},
		{name: "server error becomes bad gateway", backendStatus: http.StatusInternalServerError, want: http.StatusBadGateway},
		{name: "unexpected redirect becomes bad gateway", backendStatus: http.StatusFound, want: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewBackendRejection("nope", tt.backendStatus)
			assert.Equal(t, tt.want, err.StatusCode)
			assert.Equal(t, ErrorTypeBackendRejection, err.Type)
			assert.Equal(t, tt.backendStatus, err.Details["backend_status"])
		})
	}
}

func TestAsAndIsType(t *testing.T) {
	cause := stderrors.New("connection refused")
	wrapped := fmt.Errorf("approve v1: %w", NewNetworkError("backend unreachable", cause))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrorTypeNetwork, appErr.Type)
	assert.True(t, IsType(wrapped, ErrorTypeNetwork))
	assert.False(t, IsType(wrapped, ErrorTypeValidation))
	assert.ErrorIs(t, wrapped, cause)

	_, ok = As(cause)
	assert.False(t, ok)
}

func TestWithDetail_DoesNotMutateOriginal(t *testing.T) {
	base := NewValidationError("bad input", map[string]interface{}{"field": "title"})
	extended := base.WithDetail("reason", "empty")

	assert.Len(t, base.Details, 1)
	assert.Equal(t, "empty", extended.Details["reason"])
	assert.Equal(t, "title", extended.Details["field"])
}

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "validation: bad", NewValidationError("bad", nil).Error())
	assert.Equal(t, "internal: oops (disk)", NewInternalError("oops", stderrors.New("disk")).Error())
}
