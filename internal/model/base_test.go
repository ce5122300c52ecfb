package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"Admin", RoleAdmin},
		{" USER ", RoleUser},
		{"viewer", RoleViewer},
	}

	for _, tt := range tests {
		role, err := ParseRole(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, role)
	}
}

func TestParseRoleUnknown(t *testing.T) {
	_, err := ParseRole("superuser")
	assert.Error(t, err)

	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleViewer.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}
