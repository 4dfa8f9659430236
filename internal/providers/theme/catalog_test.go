package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogBuiltins(t *testing.T) {
	c := NewCatalog(nil)

	require.Equal(t, 3, c.Len())
	ids := []string{}
	for _, th := range c.List() {
		ids = append(ids, th.ID)
	}
	assert.Equal(t, []string{Dark, Light, HighContrast}, ids)
	assert.Empty(t, c.Current())
}

func TestCatalogSelect(t *testing.T) {
	c := NewCatalog(nil)

	require.NoError(t, c.Select(Light))
	assert.Equal(t, Light, c.Current())

	assert.ErrorIs(t, c.Select("missing"), ErrThemeNotFound)
	assert.Equal(t, Light, c.Current())

	require.NoError(t, c.Select(""))
	assert.Empty(t, c.Current())
}

func TestCatalogAddAndDelete(t *testing.T) {
	c := NewCatalog(nil)

	assert.ErrorIs(t, c.Add(Theme{}), ErrInvalidTheme)

	require.NoError(t, c.Add(Theme{ID: "nord", Name: "Nord"}))
	got, ok := c.Get("nord")
	require.True(t, ok)
	assert.Equal(t, "custom", got.Type)

	require.NoError(t, c.Select("nord"))
	require.NoError(t, c.Delete("nord"))
	assert.Empty(t, c.Current())
	assert.Equal(t, 3, c.Len())

	assert.ErrorIs(t, c.Delete("nord"), ErrThemeNotFound)
	assert.ErrorIs(t, c.Delete(Dark), ErrBuiltinTheme)
}
