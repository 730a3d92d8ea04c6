package llm

import (
	"context"
	"errors"
	"net"
	"net/http"

	"ean-extractor/internal/models"
)

// Classify wraps err as a transport or model failure. Errors already
// classified are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var transportErr *models.TransportError
	var modelErr *models.ModelError
	if errors.As(err, &transportErr) || errors.As(err, &modelErr) {
		return err
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.As(err, &netErr) {
		return &models.TransportError{Cause: err}
	}
	return &models.ModelError{Cause: err}
}

// ClassifyStatus maps an HTTP status returned by a provider: auth and quota
// problems are transport failures, everything else is a model failure.
func ClassifyStatus(status int, err error) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return &models.TransportError{Cause: err}
	default:
		return &models.ModelError{Cause: err}
	}
}
