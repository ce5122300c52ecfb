package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a failure category carried across service boundaries.
type Code string

const (
	CodeTenantMissing        Code = "tenant_missing"
	CodeTenantMismatch       Code = "tenant_mismatch"
	CodeBranchAccessDenied   Code = "branch_access_denied"
	CodeDuplicatePhone       Code = "duplicate_phone"
	CodeDuplicateEmail       Code = "duplicate_email"
	CodeDuplicateBranch      Code = "duplicate_branch"
	CodeDuplicateAppointment Code = "duplicate_appointment"
	CodeMissingPatient       Code = "missing_patient"
	CodeValidation           Code = "validation"
	CodeNotFound             Code = "not_found"
	CodeUnauthorized         Code = "unauthorized"
	CodeStorage              Code = "storage"
)

// Error is a typed application error.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match two application errors by code.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func TenantMissing() *Error {
	return New(CodeTenantMissing, "tenant context is missing")
}

func TenantMismatch() *Error {
	return New(CodeTenantMismatch, "tenant mismatch")
}

func BranchAccessDenied() *Error {
	return New(CodeBranchAccessDenied, "branch access denied")
}

func DuplicatePhone() *Error {
	return New(CodeDuplicatePhone, "phone number already exists in this tenant")
}

func DuplicateEmail() *Error {
	return New(CodeDuplicateEmail, "email already exists in this tenant")
}

func DuplicateBranch() *Error {
	return New(CodeDuplicateBranch, "branch name already exists in this tenant")
}

func DuplicateAppointment() *Error {
	return New(CodeDuplicateAppointment, "duplicate appointment in the same tenant and branch")
}

func MissingPatient() *Error {
	return New(CodeMissingPatient, "patient not found in this tenant")
}

func Validation(message string) *Error {
	return New(CodeValidation, message)
}

func NotFound(resource string) *Error {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func Unauthorized(message string) *Error {
	return New(CodeUnauthorized, message)
}

func Storage(err error) *Error {
	return Wrap(CodeStorage, "storage failure", err)
}

// CodeOf extracts the failure category, defaulting to CodeStorage for
// unclassified errors.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeStorage
}

// HTTPStatus maps a failure category to its response status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeTenantMissing, CodeTenantMismatch, CodeBranchAccessDenied:
		return http.StatusForbidden
	case CodeDuplicatePhone, CodeDuplicateEmail, CodeDuplicateBranch, CodeDuplicateAppointment:
		return http.StatusConflict
	case CodeMissingPatient, CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
