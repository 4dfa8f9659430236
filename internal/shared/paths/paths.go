package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppName names the per-user directories.
const AppName = "termhost"

// Files and directories under the config root
const (
	ThemesDir    = "themes"
	SettingsFile = "settings.yaml"
)

// Layout resolves the on-disk locations used by the server.
type Layout struct {
	Root string
}

// Default returns the layout under the user's config directory, falling
// back to the temp directory when no home is available.
func Default() Layout {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return Layout{Root: filepath.Join(base, AppName)}
}

// Themes returns the directory user themes are loaded from and saved to.
func (l Layout) Themes() string {
	return filepath.Join(l.Root, ThemesDir)
}

// Settings returns the preferences file.
func (l Layout) Settings() string {
	return filepath.Join(l.Root, SettingsFile)
}

// StandardDirectories returns all directories that should exist
func (l Layout) StandardDirectories() []string {
	return []string{l.Root, l.Themes()}
}

// Ensure creates the standard directories.
func (l Layout) Ensure() error {
	for _, dir := range l.StandardDirectories() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// Or returns path, or fallback when path is empty.
func Or(path, fallback string) string {
	if path == "" {
		return fallback
	}
	return path
}
