package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateString(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		required bool
		wantErr  bool
	}{
		{"required present", "abc", true, false},
		{"required missing", "", true, true},
		{"optional missing", "", false, false},
		{"too long", strings.Repeat("a", 11), false, true},
		{"null byte", "a\x00b", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateString(tt.value, "field", 1, 10, tt.required)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("term_01HZX", "id", true))
	assert.NoError(t, ValidateID("5f0c-11ee", "id", true))
	assert.Error(t, ValidateID("a/b", "id", true))
	assert.Error(t, ValidateID("", "id", true))
	assert.NoError(t, ValidateID("", "id", false))
}

func TestValidateToolID(t *testing.T) {
	assert.NoError(t, ValidateToolID("terminal.open", "tool_id", true))
	assert.Error(t, ValidateToolID("terminal open", "tool_id", true))
}

func TestValidateCategory(t *testing.T) {
	assert.NoError(t, ValidateCategory("terminal", true))
	assert.NoError(t, ValidateCategory("", false))
	assert.Error(t, ValidateCategory("Terminal", false))
}

func TestValidateDirectory(t *testing.T) {
	assert.NoError(t, ValidateDirectory("~/Documents", "dir", true))
	assert.NoError(t, ValidateDirectory("", "dir", false))
	assert.Error(t, ValidateDirectory("", "dir", true))
	assert.Error(t, ValidateDirectory(strings.Repeat("a", MaxPathSize+1), "dir", false))
}

func TestValidateInput(t *testing.T) {
	assert.NoError(t, ValidateInput("ls -la\r"))
	assert.Error(t, ValidateInput(""))
	assert.Error(t, ValidateInput(strings.Repeat("x", MaxInputSize+1)))
}
