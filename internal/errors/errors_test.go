package errors

import (
	"fmt"
	"testing"
)

func TestCatalogError_Error(t *testing.T) {
	err := &CatalogError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "screenshot not found",
	}

	expected := "NOT_FOUND: screenshot not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("project_name is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "project_name is required" {
		t.Errorf("Message = %q, want %q", err.Message, "project_name is required")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("banking_login.png")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["identifier"] != "banking_login.png" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "banking_login.png")
	}
}

func TestNewDuplicateEntity(t *testing.T) {
	err := NewDuplicateEntity("banking_login.png")

	if err.Code != ErrDuplicateEntity {
		t.Errorf("Code = %q, want %q", err.Code, ErrDuplicateEntity)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	if err.Details["id"] != "banking_login.png" {
		t.Errorf("Details[id] = %v, want %q", err.Details["id"], "banking_login.png")
	}
}

func TestNewExternalCallFailure(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewExternalCallFailure("generate image tags", cause)

	if err.Code != ErrExternalCallFailure {
		t.Errorf("Code = %q, want %q", err.Code, ErrExternalCallFailure)
	}
	if err.Status != 502 {
		t.Errorf("Status = %d, want 502", err.Status)
	}
	if err.Message != "generate image tags: connection refused" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewStoreUnavailable(t *testing.T) {
	err := NewStoreUnavailable(fmt.Errorf("database is locked"))

	if err.Code != ErrStoreUnavailable {
		t.Errorf("Code = %q, want %q", err.Code, ErrStoreUnavailable)
	}
	if err.Status != 503 {
		t.Errorf("Status = %d, want 503", err.Status)
	}
}

func TestNewInternal_NilError(t *testing.T) {
	err := NewInternal(nil)

	if err.Code != ErrInternal {
		t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
	}
	if err.Message != "internal error" {
		t.Errorf("Message = %q, want %q", err.Message, "internal error")
	}
}

func TestIs(t *testing.T) {
	err := NewNotFound("x")

	if !Is(err, ErrNotFound) {
		t.Error("Is(err, ErrNotFound) = false, want true")
	}
	if Is(err, ErrInternal) {
		t.Error("Is(err, ErrInternal) = true, want false")
	}
	if Is(fmt.Errorf("plain"), ErrNotFound) {
		t.Error("Is(plain, ErrNotFound) = true, want false")
	}
}
