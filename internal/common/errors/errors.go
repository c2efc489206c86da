// Package errors provides standardized error handling for the moderation console.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeStoreUnreachable   ErrorCode = "STORE_UNREACHABLE"
	ErrCodeStoreRequestFailed ErrorCode = "STORE_REQUEST_FAILED"
	ErrCodeStoreDecodeFailed  ErrorCode = "STORE_DECODE_FAILED"
	ErrCodeRecordNotFound     ErrorCode = "RECORD_NOT_FOUND"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeNotificationInvalid    ErrorCode = "NOTIFICATION_INVALID"

	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodeAuditWriteFailed ErrorCode = "AUDIT_WRITE_FAILED"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
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
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewStoreUnreachableError wraps a transport failure talking to the document store.
func NewStoreUnreachableError(method, path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreUnreachable,
		Message:   "Document store unreachable",
		Details:   fmt.Sprintf("%s %s: %s", method, path, err.Error()),
		Retryable: true,
		Metadata:  map[string]interface{}{"method": method, "path": path},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewStoreRequestFailedError reports a non-2xx reply from the document store.
func NewStoreRequestFailedError(method, path string, statusCode int, body string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreRequestFailed,
		Message:   fmt.Sprintf("Document store returned %d", statusCode),
		Details:   fmt.Sprintf("%s %s: %s", method, path, body),
		Retryable: statusCode >= 500,
		Metadata:  map[string]interface{}{"method": method, "path": path, "statusCode": statusCode},
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreDecodeFailedError reports a reply body that could not be decoded.
func NewStoreDecodeFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreDecodeFailed,
		Message:   "Document store reply could not be decoded",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewRecordNotFoundError creates a non-retryable not found error.
func NewRecordNotFoundError(kind, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordNotFound,
		Message:   fmt.Sprintf("%s not found", kind),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a notification write error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification write failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewNotificationInvalidError reports a notification record that does not match the wire shape.
func NewNotificationInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationInvalid,
		Message:   "Notification record failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Invalid input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuditWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuditWriteFailed,
		Message:   "Audit trail write failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Classification
// ==========================

// AsStandardError extracts a StandardError from err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// HTTPStatus maps an error code to the status the console replies with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeStoreUnreachable, ErrCodeStoreRequestFailed, ErrCodeStoreDecodeFailed:
		return http.StatusBadGateway
	case ErrCodeRecordNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "STORE"):
		return "STORE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "AUDIT"):
		return "AUDIT"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "NOT_FOUND"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
