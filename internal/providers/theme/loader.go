package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
)

// ErrUnsupportedFormat is returned for theme files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported theme format")

const themePattern = "**/*.{json,yaml,yml,toml}"

// Loader reads theme files from disk. The format follows the file extension.
type Loader struct {
	log *zap.Logger
}

// NewLoader creates a theme loader
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{log: logger}
}

// Decode parses data in the format named by ext (".json", ".yaml", ".yml", ".toml").
func (l *Loader) Decode(ext string, data []byte) (Theme, error) {
	var t Theme
	var err error

	switch strings.ToLower(ext) {
	case ".json":
		err = sonic.Unmarshal(data, &t)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &t)
	case ".toml":
		err = toml.Unmarshal(data, &t)
	default:
		return Theme{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return Theme{}, fmt.Errorf("decode %s theme: %w", ext, err)
	}
	if t.ID == "" {
		return Theme{}, fmt.Errorf("%w: missing id", ErrInvalidTheme)
	}
	if t.Type == "" {
		t.Type = "custom"
	}
	return t, nil
}

// LoadFile reads and decodes a single theme file.
func (l *Loader) LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("read theme %s: %w", path, err)
	}
	return l.Decode(filepath.Ext(path), data)
}

// LoadDir loads every theme file under dir. Files that fail to parse are
// logged and skipped. A missing directory yields no themes.
func (l *Loader) LoadDir(dir string) ([]Theme, error) {
	if dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		l.log.Debug("Theme directory does not exist", zap.String("dir", dir))
		return nil, nil
	}

	matches, err := doublestar.Glob(os.DirFS(dir), themePattern)
	if err != nil {
		return nil, fmt.Errorf("scan theme dir %s: %w", dir, err)
	}

	themes := make([]Theme, 0, len(matches))
	for _, rel := range matches {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		t, err := l.LoadFile(path)
		if err != nil {
			l.log.Warn("Skipping theme file", zap.String("path", path), zap.Error(err))
			continue
		}
		themes = append(themes, t)
	}

	l.log.Info("Loaded themes", zap.String("dir", dir), zap.Int("count", len(themes)))
	return themes, nil
}

// Save writes t to dir as <id>.json and returns the path.
func (l *Loader) Save(dir string, t Theme) (string, error) {
	if t.ID == "" {
		return "", fmt.Errorf("%w: missing id", ErrInvalidTheme)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create theme dir: %w", err)
	}

	data, err := sonic.ConfigStd.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode theme: %w", err)
	}

	path := filepath.Join(dir, fileName(t.ID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write theme %s: %w", path, err)
	}
	return path, nil
}

// Remove deletes the saved file for id, if any.
func (l *Loader) Remove(dir, id string) error {
	err := os.Remove(filepath.Join(dir, fileName(id)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove theme %s: %w", id, err)
	}
	return nil
}

func fileName(id string) string {
	return filepath.Base(filepath.Clean("/"+id)) + ".json"
}
