package theme

// Theme is a named colour scheme. Colors and Fonts describe the host UI;
// Terminal is the part projected onto terminal surfaces.
type Theme struct {
	ID          string            `json:"id" yaml:"id" toml:"id"`
	Name        string            `json:"name" yaml:"name" toml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Type        string            `json:"type" yaml:"type" toml:"type"` // "dark", "light", "custom"
	Colors      map[string]string `json:"colors,omitempty" yaml:"colors,omitempty" toml:"colors,omitempty"`
	Fonts       map[string]string `json:"fonts,omitempty" yaml:"fonts,omitempty" toml:"fonts,omitempty"`
	Terminal    TerminalColors    `json:"terminal" yaml:"terminal" toml:"terminal"`
}

// TerminalColors holds hex strings for the 16 ANSI slots and the four
// terminal chrome colours. Empty or malformed entries fall back to defaults.
type TerminalColors struct {
	ANSI       []string `json:"ansi" yaml:"ansi" toml:"ansi"`
	Cursor     string   `json:"cursor" yaml:"cursor" toml:"cursor"`
	Selection  string   `json:"selection" yaml:"selection" toml:"selection"`
	Text       string   `json:"text" yaml:"text" toml:"text"`
	Background string   `json:"background" yaml:"background" toml:"background"`
}

// Built-in theme IDs. These cannot be deleted.
const (
	Dark         = "dark"
	Light        = "light"
	HighContrast = "high-contrast"
)

// IsBuiltin reports whether id names a built-in theme.
func IsBuiltin(id string) bool {
	return id == Dark || id == Light || id == HighContrast
}

// Builtins returns fresh copies of the built-in themes in display order.
func Builtins() []Theme {
	fonts := func() map[string]string {
		return map[string]string{
			"sans": "Inter, system-ui, sans-serif",
			"mono": "JetBrains Mono, monospace",
		}
	}

	dark := Theme{
		ID:          Dark,
		Name:        "Dark",
		Description: "Default dark theme",
		Type:        "dark",
		Colors: map[string]string{
			"background": "#1a1a1a",
			"surface":    "#252525",
			"primary":    "#3b82f6",
			"text":       "#ffffff",
			"border":     "#404040",
		},
		Fonts: fonts(),
		Terminal: TerminalColors{
			ANSI: []string{
				"#000000", "#cd3131", "#0dbc79", "#e5e510", "#2472c8", "#bc3fbc", "#11a8cd", "#e5e5e5",
				"#666666", "#f14c4c", "#23d18b", "#f5f543", "#3b8eea", "#d670d6", "#29b8db", "#e5e5e5",
			},
			Cursor:     "#aeafad",
			Selection:  "#264f78",
			Text:       "#cccccc",
			Background: "#1e1e1e",
		},
	}

	light := Theme{
		ID:          Light,
		Name:        "Light",
		Description: "Default light theme",
		Type:        "light",
		Colors: map[string]string{
			"background": "#ffffff",
			"surface":    "#f5f5f5",
			"primary":    "#3b82f6",
			"text":       "#1a1a1a",
			"border":     "#e0e0e0",
		},
		Fonts: fonts(),
		Terminal: TerminalColors{
			ANSI: []string{
				"#000000", "#cd3131", "#00bc00", "#949800", "#0451a5", "#bc05bc", "#0598bc", "#555555",
				"#666666", "#cd3131", "#14ce14", "#b5ba00", "#0451a5", "#bc05bc", "#0598bc", "#a5a5a5",
			},
			Cursor:     "#000000",
			Selection:  "#add6ff",
			Text:       "#333333",
			Background: "#ffffff",
		},
	}

	highContrast := Theme{
		ID:          HighContrast,
		Name:        "High Contrast",
		Description: "High contrast theme for accessibility",
		Type:        "dark",
		Colors: map[string]string{
			"background": "#000000",
			"surface":    "#1a1a1a",
			"primary":    "#00ffff",
			"text":       "#ffffff",
			"border":     "#ffffff",
		},
		Fonts: fonts(),
		Terminal: TerminalColors{
			ANSI: []string{
				"#000000", "#ff0000", "#00ff00", "#ffff00", "#5c5cff", "#ff00ff", "#00ffff", "#ffffff",
				"#7f7f7f", "#ff0000", "#00ff00", "#ffff00", "#5c5cff", "#ff00ff", "#00ffff", "#ffffff",
			},
			Cursor:     "#ffffff",
			Selection:  "#ffff00",
			Text:       "#ffffff",
			Background: "#000000",
		},
	}

	return []Theme{dark, light, highContrast}
}
