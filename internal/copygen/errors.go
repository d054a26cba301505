package copygen

import (
	"context"
	"errors"
)

var (
	// ErrConfiguration means the model credential is missing; no request was sent.
	ErrConfiguration = errors.New("model api key not configured")
	// ErrUpstream covers transport failures and non-2xx answers from the model endpoint.
	ErrUpstream = errors.New("model upstream error")
	// ErrMalformedResponse means the envelope or its content could not be parsed as JSON.
	ErrMalformedResponse = errors.New("malformed model response")
	// ErrSchemaViolation means the parsed JSON lacks a required non-empty string field.
	ErrSchemaViolation = errors.New("copy schema violation")
)

// Error kinds reported in logs and metrics.
const (
	KindConfiguration     = "configuration"
	KindUpstream          = "upstream"
	KindMalformedResponse = "malformed_response"
	KindSchemaViolation   = "schema_violation"
	KindTimeout           = "timeout"
	KindUnknown           = "unknown"
)

// ErrorKind classifies a pipeline error. Deadline and cancellation are reported as timeout.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return KindTimeout
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrUpstream):
		return KindUpstream
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformedResponse
	case errors.Is(err, ErrSchemaViolation):
		return KindSchemaViolation
	default:
		return KindUnknown
	}
}
