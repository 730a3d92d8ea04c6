package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	"ean-extractor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	assert.NoError(t, Classify(nil))

	t.Run("deadline is transport", func(t *testing.T) {
		err := Classify(fmt.Errorf("generate: %w", context.DeadlineExceeded))
		var transportErr *models.TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("net error is transport", func(t *testing.T) {
		cause := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
		var transportErr *models.TransportError
		assert.ErrorAs(t, Classify(cause), &transportErr)
	})

	t.Run("anything else is model", func(t *testing.T) {
		var modelErr *models.ModelError
		assert.ErrorAs(t, Classify(errors.New("invalid argument")), &modelErr)
	})

	t.Run("classified errors unchanged", func(t *testing.T) {
		typed := fmt.Errorf("upload: %w", &models.ModelError{Cause: errors.New("413")})
		assert.Same(t, typed, Classify(typed))
	})
}

func TestClassifyStatus(t *testing.T) {
	cause := errors.New("status error")

	for _, status := range []int{
		http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout,
	} {
		var transportErr *models.TransportError
		assert.ErrorAs(t, ClassifyStatus(status, cause), &transportErr, status)
	}

	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError} {
		var modelErr *models.ModelError
		assert.ErrorAs(t, ClassifyStatus(status, cause), &modelErr, status)
	}

	assert.ErrorIs(t, ClassifyStatus(http.StatusBadRequest, cause), cause)
}

func TestModelInfoSupportsGeneration(t *testing.T) {
	assert.True(t, ModelInfo{Name: "a", Methods: []string{"countTokens", GenerateContentMethod}}.SupportsGeneration())
	assert.False(t, ModelInfo{Name: "b", Methods: []string{"embedContent"}}.SupportsGeneration())
}
