// Package errors provides standardized error values for the content and lead gateways.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeContentQueryFailed ErrorCode = "CONTENT_QUERY_FAILED"
	ErrCodeCMSRequestFailed   ErrorCode = "CMS_REQUEST_FAILED"
	ErrCodeCMSDecodeFailed    ErrorCode = "CMS_DECODE_FAILED"
	ErrCodeCacheFailed        ErrorCode = "CACHE_FAILED"

	ErrCodeCRMRequestFailed ErrorCode = "CRM_REQUEST_FAILED"

	ErrCodeValidationFailed       ErrorCode = "VALIDATION_FAILED"
	ErrCodeDatabaseInsertFailed   ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeRevalidationFailed     ErrorCode = "REVALIDATION_FAILED"

	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key to the error's metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	se := &StandardError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		se.Details = cause.Error()
	}
	return se
}

// NewContentQueryFailedError wraps a relational backend failure.
func NewContentQueryFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeContentQueryFailed, fmt.Sprintf("content query %q failed", operation), err, true)
}

// NewCMSRequestFailedError wraps a transport or non-2xx failure talking to the headless CMS.
func NewCMSRequestFailedError(endpoint string, err error) *StandardError {
	return newError(ErrCodeCMSRequestFailed, fmt.Sprintf("headless CMS request to %s failed", endpoint), err, true)
}

// NewCMSDecodeFailedError wraps a malformed CMS response body.
func NewCMSDecodeFailedError(endpoint string, err error) *StandardError {
	return newError(ErrCodeCMSDecodeFailed, fmt.Sprintf("headless CMS response from %s could not be decoded", endpoint), err, false)
}

func NewCacheError(operation string, err error) *StandardError {
	return newError(ErrCodeCacheFailed, fmt.Sprintf("cache %s failed", operation), err, true)
}

// NewCRMRequestFailedError wraps a vendor API failure.
func NewCRMRequestFailedError(provider, operation string, err error) *StandardError {
	return newError(ErrCodeCRMRequestFailed, fmt.Sprintf("%s %s failed", provider, operation), err, true)
}

func NewValidationError(details string) *StandardError {
	se := newError(ErrCodeValidationFailed, "Input validation failed", nil, false)
	se.Details = details
	return se
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert failed", err, true)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, fmt.Sprintf("%s notification failed", channel), err, true)
}

func NewRevalidationFailedError(path string, err error) *StandardError {
	return newError(ErrCodeRevalidationFailed, fmt.Sprintf("revalidation of %s failed", path), err, true)
}

func NewUnauthorizedError(details string) *StandardError {
	se := newError(ErrCodeUnauthorized, "Unauthorized", nil, false)
	se.Details = details
	return se
}

// AsStandard normalizes any error to a StandardError.
func AsStandard(err error) *StandardError {
	if err == nil {
		return nil
	}
	var se *StandardError
	if errors.As(err, &se) {
		return se
	}
	return newError(ErrCodeInternal, "Unexpected error", err, false)
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	var se *StandardError
	return errors.As(err, &se) && se.Code == code
}

// HTTPStatus maps an error code to the status the public API answers with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeCMSRequestFailed, ErrCodeCMSDecodeFailed:
		return http.StatusBadGateway
	case ErrCodeContentQueryFailed, ErrCodeDatabaseInsertFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "CMS") || strings.HasPrefix(codeStr, "CONTENT") || strings.HasPrefix(codeStr, "CACHE"):
		return "CONTENT"
	case strings.HasPrefix(codeStr, "CRM"):
		return "CRM"
	case strings.Contains(codeStr, "DATABASE"):
		return "DATABASE"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "REVALIDATION"):
		return "BEST_EFFORT"
	case strings.Contains(codeStr, "VALIDATION") || codeStr == string(ErrCodeUnauthorized):
		return "REQUEST"
	default:
		return "OTHER"
	}
}
