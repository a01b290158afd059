package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password   string
		wantValid  bool
		wantIssues int
	}{
		{"Str0ng!Pass", true, 0},
		{"short1!", false, 2},        // length, uppercase
		{"alllowercase", false, 3},   // upper, digit, special
		{"", false, 5},
		{"NOLOWER123$", false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			got := ValidatePassword(tt.password)
			assert.Equal(t, tt.wantValid, got.Valid)
			assert.Len(t, got.Issues, tt.wantIssues, "issues: %v", got.Issues)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("ops@kmrl.in"))
	assert.False(t, ValidateEmail("ops@kmrl"))
	assert.False(t, ValidateEmail("ops kmrl@x.in"))
	assert.False(t, ValidateEmail(""))
}

func TestGeneratePassword(t *testing.T) {
	pw, err := GeneratePassword(0)
	require.NoError(t, err)
	assert.Len(t, pw, 12)

	pw, err = GeneratePassword(32)
	require.NoError(t, err)
	assert.Len(t, pw, 32)
	for _, r := range pw {
		assert.True(t, strings.ContainsRune(passwordCharset, r), "unexpected rune %q", r)
	}
}
