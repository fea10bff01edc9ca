package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})

	t.Run("wrapped domain error is unwrapped", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", NewNotFound("client", map[string]any{"id": "c1"}))
		de := ToDomainError(err)
		require.NotNil(t, de)
		assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
		assert.Equal(t, "client not found", de.Message)
		assert.Equal(t, "c1", de.Details["id"])
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		cause := errors.New("connection reset")
		de := ToDomainError(cause)
		require.NotNil(t, de)
		assert.Equal(t, "INTERNAL_ERROR", de.Code)
		assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
		assert.ErrorIs(t, de, cause)
	})
}

func TestCodeForStatus(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", CodeForStatus(http.StatusNotFound))
	assert.Equal(t, "UPGRADE_REQUIRED", CodeForStatus(http.StatusUpgradeRequired))
	assert.Equal(t, "INTERNAL_ERROR", CodeForStatus(http.StatusBadGateway))
	assert.Equal(t, "REQUEST_FAILED", CodeForStatus(http.StatusTeapot))
}
