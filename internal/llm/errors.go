package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// FailureKind classifies a generation failure from the model boundary.
type FailureKind string

// Failure kinds surfaced by the completion service
const (
	// KindTimeout indicates the call exceeded its deadline. Transient.
	KindTimeout FailureKind = "timeout"
	// KindRateLimit indicates the service rejected the call for quota reasons. Transient.
	KindRateLimit FailureKind = "rate_limit"
	// KindServiceError covers auth failures, malformed requests, and provider
	// outages. Not retried.
	KindServiceError FailureKind = "service_error"
	// KindEmptyResponse indicates the service answered without usable text. Not retried.
	KindEmptyResponse FailureKind = "empty_response"
)

// GenerationError represents a failure from the remote completion service
type GenerationError struct {
	Kind    FailureKind
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation error (%s): %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("generation error (%s): %s", e.Kind, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Transient reports whether the failure is worth retrying locally.
func (e *GenerationError) Transient() bool {
	return e.Kind == KindTimeout || e.Kind == KindRateLimit
}

// ConfigurationError represents invalid generation parameters.
// It is surfaced before any model call and never retried.
type ConfigurationError struct {
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// classifyError maps a provider error onto the GenerationError taxonomy.
// Already-classified errors pass through unchanged.
func classifyError(err error, message string) *GenerationError {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}

	kind := KindServiceError
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			kind = KindRateLimit
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			kind = KindTimeout
		}
	}

	return &GenerationError{
		Kind:    kind,
		Message: message,
		Cause:   err,
	}
}
