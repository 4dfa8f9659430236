package terminal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdentityCanonicalises(t *testing.T) {
	dir := t.TempDir()
	real, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
	}{
		{name: "plain", path: dir},
		{name: "trailing slash", path: dir + "/"},
		{name: "dot segments", path: filepath.Join(dir, "a", "..")},
		{name: "double slash", path: dir + "//"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewIdentity(tt.path)
			require.NoError(t, err)
			assert.Equal(t, Identity(real), got)
		})
	}
}

func TestNewIdentityResolvesSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Mkdir(target, 0o755))
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	a, err := NewIdentity(target)
	require.NoError(t, err)
	b, err := NewIdentity(link)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNewIdentityExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	realHome, err := filepath.EvalSymlinks(home)
	require.NoError(t, err)

	got, err := NewIdentity("~")
	require.NoError(t, err)
	assert.Equal(t, Identity(realHome), got)

	got, err = NewIdentity("~/Documents")
	require.NoError(t, err)
	assert.Equal(t, Identity(filepath.Join(realHome, "Documents")), got)
}

func TestNewIdentityDistinctAndMissing(t *testing.T) {
	a, err := NewIdentity("/Users/a/proj")
	require.NoError(t, err)
	b, err := NewIdentity("/Users/a/proj2")
	require.NoError(t, err)
	c, err := NewIdentity("/Users/a/proj/")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c)
	assert.Equal(t, "/Users/a/proj", a.Path())
}

func TestNewIdentityEmpty(t *testing.T) {
	_, err := NewIdentity("  ")
	assert.ErrorIs(t, err, ErrInvalidIdentity)
}
