package models

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned when the provider credential is missing.
	ErrConfiguration = errors.New("configuration error")

	// ErrModelUnavailable is returned when no model could be resolved.
	ErrModelUnavailable = errors.New("no AI model available")

	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyDocument     = errors.New("empty document")
	ErrInvalidDocument   = errors.New("invalid document")
)

// TransportError wraps network, auth and quota failures of the model call.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ModelError wraps provider-side processing failures.
type ModelError struct {
	Cause error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model failure: %v", e.Cause)
}

func (e *ModelError) Unwrap() error {
	return e.Cause
}

// DisplayMessage renders err as the message shown to the operator.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}

	var transportErr *TransportError
	var modelErr *ModelError
	switch {
	case errors.Is(err, ErrConfiguration):
		return err.Error()
	case errors.Is(err, ErrModelUnavailable):
		return "Critical error: no AI model available."
	case errors.Is(err, ErrUnsupportedFormat):
		return "Unsupported file type: upload a PDF, JPG or PNG."
	case errors.Is(err, ErrEmptyDocument):
		return "The uploaded file is empty."
	case errors.Is(err, ErrInvalidDocument):
		return fmt.Sprintf("The uploaded file could not be read: %v", err)
	case errors.As(err, &transportErr):
		return fmt.Sprintf("An error occurred while contacting the AI service: %v", transportErr.Cause)
	case errors.As(err, &modelErr):
		return fmt.Sprintf("An error occurred during extraction: %v", modelErr.Cause)
	default:
		return fmt.Sprintf("An error occurred during extraction: %v", err)
	}
}
