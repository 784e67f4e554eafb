package models

import "errors"

// Sentinel errors returned by the store and services. Controllers map these
// to HTTP status codes.
var (
	ErrNameRequired     = errors.New("name is required")
	ErrPINRequired      = errors.New("pin is required")
	ErrItemNotFound     = errors.New("item not found")
	ErrTakeawayNotFound = errors.New("takeaway not found")
	ErrLastTakeaway     = errors.New("at least one takeaway must remain")
)

// APIError represents a standardized error response for the API
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error code constants
const (
	// General errors
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrCodeValidationFailed = "VALIDATION_FAILED"

	// Domain-specific errors
	ErrCodeTakeawayNotFound = "TAKEAWAY_NOT_FOUND"
	ErrCodeItemNotFound     = "ITEM_NOT_FOUND"
	ErrCodeLastTakeaway     = "LAST_TAKEAWAY"
	ErrCodeImportFailed     = "IMPORT_FAILED"
	ErrCodeInvalidPIN       = "INVALID_PIN"
)

// NewAPIError creates a new API error with the given code and message
func NewAPIError(code, message string, details ...map[string]interface{}) APIError {
	err := APIError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}
