package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderDefinition(t *testing.T) {
	p := NewProvider(NewStore("", nil), nil)
	def := p.Definition()

	assert.Equal(t, "settings", def.ID)
	assert.NotEmpty(t, def.Tools)
	for _, tool := range def.Tools {
		assert.Contains(t, tool.ID, "settings.")
	}
}

func TestProviderSetAndGet(t *testing.T) {
	p := NewProvider(NewStore("", nil), nil)
	ctx := context.Background()

	result, err := p.Execute(ctx, "settings.set", map[string]interface{}{
		"key":   KeyUseThemeBackground,
		"value": false,
	}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	result, err = p.Execute(ctx, "settings.get", map[string]interface{}{"key": KeyUseThemeBackground}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, false, result.Data["value"])
	assert.Equal(t, true, result.Data["default"])
}

func TestProviderFailures(t *testing.T) {
	p := NewProvider(NewStore("", nil), nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		toolID string
		params map[string]interface{}
	}{
		{"missing key", "settings.get", map[string]interface{}{}},
		{"unknown key", "settings.get", map[string]interface{}{"key": "nope"}},
		{"missing value", "settings.set", map[string]interface{}{"key": KeyShell}},
		{"bad shell", "settings.set", map[string]interface{}{"key": KeyShell, "value": "fish"}},
		{"import not object", "settings.import", map[string]interface{}{"settings": "x"}},
		{"unknown tool", "settings.frobnicate", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.Execute(ctx, tt.toolID, tt.params, nil)
			require.NoError(t, err)
			assert.False(t, result.Success)
			assert.NotNil(t, result.Error)
		})
	}
}

func TestProviderImportExport(t *testing.T) {
	p := NewProvider(NewStore("", nil), nil)
	ctx := context.Background()

	result, err := p.Execute(ctx, "settings.import", map[string]interface{}{
		"settings": map[string]interface{}{
			KeyShell:        "zsh",
			KeyFontSize:     float64(12),
			KeyOptionAsMeta: true,
		},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Data["imported"])

	result, err = p.Execute(ctx, "settings.export", nil, nil)
	require.NoError(t, err)
	exported := result.Data["settings"].(map[string]interface{})
	assert.Equal(t, "zsh", exported[KeyShell])
	assert.Equal(t, 12.0, exported[KeyFontSize])
}
