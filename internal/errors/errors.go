package errors

import "fmt"

// ErrorCode represents a screendex error code.
type ErrorCode string

const (
	ErrInvalidRequest      ErrorCode = "INVALID_REQUEST"       // 400
	ErrNotFound            ErrorCode = "NOT_FOUND"             // 404
	ErrDuplicateEntity     ErrorCode = "DUPLICATE_ENTITY"      // 409
	ErrExternalCallFailure ErrorCode = "EXTERNAL_CALL_FAILURE" // 502
	ErrStoreUnavailable    ErrorCode = "STORE_UNAVAILABLE"     // 503
	ErrInternal            ErrorCode = "INTERNAL"              // 500
)

// CatalogError represents a structured error with code, status, and details.
type CatalogError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *CatalogError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *CatalogError {
	return &CatalogError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a screenshot or project is absent.
func NewNotFound(identifier string) *CatalogError {
	return &CatalogError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("screenshot not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewDuplicateEntity creates a 409 error for ingestion ID collisions.
func NewDuplicateEntity(id string) *CatalogError {
	return &CatalogError{
		Code:    ErrDuplicateEntity,
		Status:  409,
		Message: fmt.Sprintf("screenshot %q already exists (use overwrite to replace)", id),
		Details: map[string]any{"id": id},
	}
}

// NewExternalCallFailure creates a 502 error for model-provider failures.
// The tagging pipeline recovers from these with deterministic fallbacks;
// they surface in pipeline reports, never abort a batch.
func NewExternalCallFailure(op string, err error) *CatalogError {
	msg := op
	if err != nil {
		msg = fmt.Sprintf("%s: %v", op, err)
	}
	return &CatalogError{
		Code:    ErrExternalCallFailure,
		Status:  502,
		Message: msg,
	}
}

// NewStoreUnavailable creates a 503 error for an unreachable backing index.
// This is the one class that is fatal to an operation.
func NewStoreUnavailable(err error) *CatalogError {
	msg := "catalog store unavailable"
	if err != nil {
		msg = fmt.Sprintf("catalog store unavailable: %v", err)
	}
	return &CatalogError{
		Code:    ErrStoreUnavailable,
		Status:  503,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *CatalogError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &CatalogError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a CatalogError with the given code.
func Is(err error, code ErrorCode) bool {
	if cErr, ok := err.(*CatalogError); ok {
		return cErr.Code == code
	}
	return false
}
