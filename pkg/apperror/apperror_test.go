package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "tenant mismatch", TenantMismatch().Error())

	wrapped := Storage(errors.New("connection refused"))
	assert.Equal(t, "storage failure: connection refused", wrapped.Error())
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("creating patient: %w", DuplicatePhone())
	assert.True(t, errors.Is(err, DuplicatePhone()))
	assert.False(t, errors.Is(err, DuplicateEmail()))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("deadlock detected")
	assert.True(t, errors.Is(Storage(cause), cause))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeTenantMissing, CodeOf(TenantMissing()))
	assert.Equal(t, CodeDuplicateAppointment, CodeOf(fmt.Errorf("wrap: %w", DuplicateAppointment())))
	assert.Equal(t, CodeStorage, CodeOf(errors.New("anything else")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeTenantMissing, http.StatusForbidden},
		{CodeTenantMismatch, http.StatusForbidden},
		{CodeBranchAccessDenied, http.StatusForbidden},
		{CodeDuplicatePhone, http.StatusConflict},
		{CodeDuplicateEmail, http.StatusConflict},
		{CodeDuplicateBranch, http.StatusConflict},
		{CodeDuplicateAppointment, http.StatusConflict},
		{CodeMissingPatient, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeStorage, http.StatusInternalServerError},
		{Code("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.code), "code %s", tt.code)
	}
}
