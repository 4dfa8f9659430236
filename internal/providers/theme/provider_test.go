package theme

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/termhost/internal/providers/settings"
)

type staticPrefs settings.TerminalPreferences

func (s staticPrefs) Terminal() settings.TerminalPreferences {
	return settings.TerminalPreferences(s)
}

func TestProviderDefinition(t *testing.T) {
	p := NewProvider(NewCatalog(nil), nil, "", nil)
	def := p.Definition()

	assert.Equal(t, "theme", def.ID)
	for _, tool := range def.Tools {
		assert.Contains(t, tool.ID, "theme.")
	}
}

func TestProviderSelectAndPalette(t *testing.T) {
	prefs := settings.DefaultTerminalPreferences()
	p := NewProvider(NewCatalog(nil), staticPrefs(prefs), "", nil)
	ctx := context.Background()

	assert.Equal(t, DefaultPalette(prefs), p.Palette())

	result, err := p.Execute(ctx, "theme.set", map[string]interface{}{"id": Dark}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	result, err = p.Execute(ctx, "theme.palette", nil, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	palette := result.Data["palette"].(Palette)
	assert.Equal(t, MustParseColor("#1e1e1e"), palette.Background)

	result, err = p.Execute(ctx, "theme.current", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Dark, result.Data["theme"].(Theme).ID)

	result, err = p.Execute(ctx, "theme.set", map[string]interface{}{"id": "missing"}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestProviderCreateAndDelete(t *testing.T) {
	dir := t.TempDir()
	p := NewProvider(NewCatalog(nil), nil, dir, nil)
	ctx := context.Background()

	result, err := p.Execute(ctx, "theme.create", map[string]interface{}{
		"theme": map[string]interface{}{
			"id":   "nord",
			"name": "Nord",
			"terminal": map[string]interface{}{
				"background": "#2e3440",
			},
		},
	}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.FileExists(t, filepath.Join(dir, "nord.json"))

	result, err = p.Execute(ctx, "theme.list", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Data["count"])

	result, err = p.Execute(ctx, "theme.delete", map[string]interface{}{"id": Dark}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "cannot delete built-in theme", *result.Error)

	result, err = p.Execute(ctx, "theme.delete", map[string]interface{}{"id": "nord"}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	_, statErr := os.Stat(filepath.Join(dir, "nord.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestProviderUnknownTool(t *testing.T) {
	p := NewProvider(NewCatalog(nil), nil, "", nil)
	result, err := p.Execute(context.Background(), "theme.bogus", nil, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
}
