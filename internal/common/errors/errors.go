// Package errors provides the standardized error model shared by services and
// the HTTP transport.
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
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"

	ErrCodeRemoteAPIFailed  ErrorCode = "REMOTE_API_FAILED"
	ErrCodeRemoteAPITimeout ErrorCode = "REMOTE_API_TIMEOUT"
	ErrCodeResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"

	ErrCodeDraftNotFound   ErrorCode = "DRAFT_NOT_FOUND"
	ErrCodeStepOutOfOrder  ErrorCode = "STEP_OUT_OF_ORDER"
	ErrCodeDraftFinalized  ErrorCode = "DRAFT_FINALIZED"
	ErrCodeDraftIncomplete ErrorCode = "DRAFT_INCOMPLETE"
	ErrCodeDraftConflict   ErrorCode = "DRAFT_CONFLICT"

	ErrCodeCacheFailure        ErrorCode = "CACHE_FAILURE"
	ErrCodeDatabaseQueryFailed ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeSearchIndexFailed   ErrorCode = "SEARCH_INDEX_FAILED"

	ErrCodeNotificationPublishFailed ErrorCode = "NOTIFICATION_PUBLISH_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// FieldError is a single field-level problem attached to a validation error.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Fields    []FieldError           `json:"fields,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
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

// Is matches another *StandardError by code, so errors.Is(err, &StandardError{Code: X}) works.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationFailedError carries the field-level errors of a rejected payload.
func NewValidationFailedError(schema string, fields []FieldError) *StandardError {
	e := newError(ErrCodeValidationFailed, "Validation failed", fmt.Sprintf("schema: %s", schema), false, nil)
	e.Fields = fields
	return e
}

func NewInvalidRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidRequest, "Invalid request", details, false, nil)
}

// NewRemoteAPIFailedError wraps a failed call to the dealership API.
func NewRemoteAPIFailedError(endpoint string, status int, err error) *StandardError {
	details := fmt.Sprintf("endpoint: %s", endpoint)
	if status > 0 {
		details = fmt.Sprintf("%s, status: %d", details, status)
	}
	if err != nil {
		details = fmt.Sprintf("%s, error: %s", details, err.Error())
	}
	return newError(ErrCodeRemoteAPIFailed, "Remote API request failed", details, status == 0 || status >= 500, err)
}

func NewRemoteAPITimeoutError(endpoint string, err error) *StandardError {
	return newError(ErrCodeRemoteAPITimeout, "Remote API request timed out", fmt.Sprintf("endpoint: %s", endpoint), true, err)
}

func NewResourceNotFoundError(resource, details string) *StandardError {
	return newError(ErrCodeResourceNotFound, fmt.Sprintf("%s not found", resource), details, false, nil)
}

func NewDraftNotFoundError(draftID string) *StandardError {
	return newError(ErrCodeDraftNotFound, "Draft not found", fmt.Sprintf("draftId: %s", draftID), false, nil)
}

// NewStepOutOfOrderError is returned when a step is visited or submitted
// before the steps preceding it are complete.
func NewStepOutOfOrderError(step, missing string) *StandardError {
	return newError(ErrCodeStepOutOfOrder, "Previous steps must be completed first",
		fmt.Sprintf("step: %s, missing: %s", step, missing), false, nil)
}

func NewDraftFinalizedError(draftID string) *StandardError {
	return newError(ErrCodeDraftFinalized, "Draft has already been finalized", fmt.Sprintf("draftId: %s", draftID), false, nil)
}

// NewDraftConflictError is returned when a draft changed between read and
// write.
func NewDraftConflictError(draftID string) *StandardError {
	return newError(ErrCodeDraftConflict, "Draft was modified concurrently", fmt.Sprintf("draftId: %s", draftID), true, nil)
}

func NewDraftIncompleteError(draftID string, missing []string) *StandardError {
	return newError(ErrCodeDraftIncomplete, "Draft has incomplete steps",
		fmt.Sprintf("draftId: %s, missing: %s", draftID, strings.Join(missing, ",")), false, nil)
}

func NewCacheFailureError(op string, err error) *StandardError {
	return newError(ErrCodeCacheFailure, "Cache operation failed", fmt.Sprintf("op: %s, error: %v", op, err), true, err)
}

func NewDatabaseQueryFailedError(op string, err error) *StandardError {
	return newError(ErrCodeDatabaseQueryFailed, "Database query failed", fmt.Sprintf("op: %s, error: %v", op, err), true, err)
}

func NewSearchIndexFailedError(err error) *StandardError {
	return newError(ErrCodeSearchIndexFailed, "Search index update failed", err.Error(), true, err)
}

func NewNotificationPublishFailedError(err error) *StandardError {
	return newError(ErrCodeNotificationPublishFailed, "Notification publish failed", err.Error(), true, err)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// ==========================
// 3. Utility Functions
// ==========================

// As normalizes any error into a *StandardError.
func As(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HasCode reports whether err (or anything it wraps) is a StandardError with code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// HTTPStatus maps an error code to the status returned to the admin UI.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeResourceNotFound, ErrCodeDraftNotFound:
		return http.StatusNotFound
	case ErrCodeStepOutOfOrder, ErrCodeDraftFinalized, ErrCodeDraftIncomplete, ErrCodeDraftConflict:
		return http.StatusConflict
	case ErrCodeRemoteAPIFailed:
		return http.StatusBadGateway
	case ErrCodeRemoteAPITimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeRemoteAPITimeout, ErrCodeCacheFailure, ErrCodeDatabaseQueryFailed,
		ErrCodeSearchIndexFailed, ErrCodeNotificationPublishFailed:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "REMOTE") || code == ErrCodeResourceNotFound:
		return "REMOTE_API"
	case strings.Contains(codeStr, "DRAFT") || strings.Contains(codeStr, "STEP"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "CACHE") || strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "SEARCH"):
		return "STORAGE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
