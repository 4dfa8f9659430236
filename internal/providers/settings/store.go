package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/goccy/go-yaml"
	"go.uber.org/zap"
)

var (
	// ErrUnknownSetting is returned for keys that have no registered default.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrInvalidValue is returned when a value does not match the setting's type.
	ErrInvalidValue = errors.New("invalid setting value")
)

// Setting represents a configuration setting
type Setting struct {
	Key         string      `json:"key"`
	Value       interface{} `json:"value"`
	Type        string      `json:"type"` // "string", "number", "boolean"
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Default     interface{} `json:"default"`
}

// Store holds the preference values, optionally persisted to a YAML file.
type Store struct {
	mu       sync.RWMutex
	path     string
	settings map[string]Setting
	log      *zap.Logger
}

// NewStore creates a store seeded with defaults. An empty path keeps
// everything in memory.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		path:     path,
		settings: make(map[string]Setting),
		log:      logger,
	}
	s.initializeDefaults()
	return s
}

func (s *Store) initializeDefaults() {
	d := DefaultTerminalPreferences()
	defaults := []Setting{
		{Key: KeyShell, Value: string(d.Shell), Type: "string", Category: "terminal", Description: "Shell to launch (system, bash, zsh)"},
		{Key: KeyFontCustom, Value: d.Font.Custom, Type: "boolean", Category: "terminal", Description: "Use a custom terminal font"},
		{Key: KeyFontName, Value: d.Font.Name, Type: "string", Category: "terminal", Description: "Custom font name"},
		{Key: KeyFontSize, Value: d.Font.Size, Type: "number", Category: "terminal", Description: "Custom font size (pt)"},
		{Key: KeyOptionAsMeta, Value: d.OptionAsMeta, Type: "boolean", Category: "terminal", Description: "Treat Option as Meta"},
		{Key: KeyUseThemeBackground, Value: d.UseThemeBackground, Type: "boolean", Category: "appearance", Description: "Paint the theme background behind the terminal"},
		{Key: KeyDarkAppearance, Value: d.DarkAppearance, Type: "boolean", Category: "appearance", Description: "Force dark appearance for the terminal"},
	}

	for _, setting := range defaults {
		setting.Default = setting.Value
		s.settings[setting.Key] = setting
	}
}

// Get returns a setting by key.
func (s *Store) Get(key string) (Setting, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	setting, ok := s.settings[key]
	return setting, ok
}

// Set validates and stores a value. Numbers may arrive as any numeric type.
func (s *Store) Set(key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(key, value)
}

func (s *Store) setLocked(key string, value interface{}) error {
	setting, ok := s.settings[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}

	coerced, err := coerce(setting.Type, value)
	if err != nil {
		return fmt.Errorf("%w for %s: %v", ErrInvalidValue, key, err)
	}
	if key == KeyShell && !ShellPreference(coerced.(string)).Valid() {
		return fmt.Errorf("%w for %s: unknown shell %q", ErrInvalidValue, key, coerced)
	}

	setting.Value = coerced
	s.settings[key] = setting
	return nil
}

// Reset restores a setting to its default and returns the default.
func (s *Store) Reset(key string) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	setting, ok := s.settings[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	setting.Value = setting.Default
	s.settings[key] = setting
	return setting.Default, nil
}

// List returns settings sorted by key, optionally filtered by category.
func (s *Store) List(category string) []Setting {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Setting, 0, len(s.settings))
	for _, setting := range s.settings {
		if category == "" || setting.Category == category {
			result = append(result, setting)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}

// Categories returns the distinct categories in sorted order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]bool)
	for _, setting := range s.settings {
		set[setting.Category] = true
	}
	categories := make([]string, 0, len(set))
	for cat := range set {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	return categories
}

// Export returns the current key/value pairs.
func (s *Store) Export() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := make(map[string]interface{}, len(s.settings))
	for key, setting := range s.settings {
		values[key] = setting.Value
	}
	return values
}

// Import applies every valid pair and returns how many were applied.
// Invalid or unknown entries are skipped and logged.
func (s *Store) Import(values map[string]interface{}) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for key, value := range values {
		if err := s.setLocked(key, value); err != nil {
			s.log.Debug("Skipping imported setting", zap.String("key", key), zap.Error(err))
			continue
		}
		count++
	}
	return count
}

// Terminal returns a snapshot of the terminal preferences.
func (s *Store) Terminal() TerminalPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return TerminalPreferences{
		Shell: ShellPreference(s.stringLocked(KeyShell)),
		Font: FontPreferences{
			Custom: s.boolLocked(KeyFontCustom),
			Name:   s.stringLocked(KeyFontName),
			Size:   s.numberLocked(KeyFontSize),
		},
		OptionAsMeta:       s.boolLocked(KeyOptionAsMeta),
		UseThemeBackground: s.boolLocked(KeyUseThemeBackground),
		DarkAppearance:     s.boolLocked(KeyDarkAppearance),
	}
}

func (s *Store) stringLocked(key string) string {
	v, _ := s.settings[key].Value.(string)
	return v
}

func (s *Store) boolLocked(key string) bool {
	v, _ := s.settings[key].Value.(bool)
	return v
}

func (s *Store) numberLocked(key string) float64 {
	v, _ := s.settings[key].Value.(float64)
	return v
}

// Load reads the YAML file at the store path. A missing file is not an error.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read settings %s: %w", s.path, err)
	}

	var values map[string]interface{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("parse settings %s: %w", s.path, err)
	}

	applied := s.Import(values)
	s.log.Info("Loaded settings", zap.String("path", s.path), zap.Int("applied", applied))
	return nil
}

// Save writes the current values to the store path.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}

	data, err := yaml.Marshal(s.Export())
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write settings %s: %w", s.path, err)
	}
	return nil
}

func coerce(kind string, value interface{}) (interface{}, error) {
	switch kind {
	case "boolean":
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case "string":
		if str, ok := value.(string); ok {
			return str, nil
		}
	case "number":
		switch n := value.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case uint64:
			return float64(n), nil
		}
	}
	return nil, fmt.Errorf("expected %s, got %T", kind, value)
}
