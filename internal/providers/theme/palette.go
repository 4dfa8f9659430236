package theme

import "github.com/GriffinCanCode/termhost/internal/providers/settings"

// AppearanceMode selects the appearance a surface renders with.
type AppearanceMode string

const (
	// AppearanceInherit follows the host application's appearance.
	AppearanceInherit AppearanceMode = ""
	// AppearanceDark forces the dark appearance.
	AppearanceDark AppearanceMode = "dark"
)

// Font describes the terminal font. Two fonts are the same font when they
// compare equal.
type Font struct {
	Name   string  `json:"name"`
	Size   float64 `json:"size"`
	Weight string  `json:"weight"`
	System bool    `json:"system"`
}

// SystemFont is the monospaced system font used unless a custom font is set.
var SystemFont = Font{Name: "monospace", Size: 11, Weight: "medium", System: true}

// System colours used by the default palette.
var (
	SystemAccent         = MustParseColor("#007aff")
	SystemPrimary        = MustParseColor("#000000")
	SystemPrimaryDark    = MustParseColor("#ffffff")
	WindowBackground     = MustParseColor("#ececec")
	WindowBackgroundDark = MustParseColor("#1e1e1e")
)

// DefaultANSI is the xterm 16-colour table.
var DefaultANSI = [16]Color{
	MustParseColor("#000000"), MustParseColor("#cd0000"), MustParseColor("#00cd00"), MustParseColor("#cdcd00"),
	MustParseColor("#0000ee"), MustParseColor("#cd00cd"), MustParseColor("#00cdcd"), MustParseColor("#e5e5e5"),
	MustParseColor("#7f7f7f"), MustParseColor("#ff0000"), MustParseColor("#00ff00"), MustParseColor("#ffff00"),
	MustParseColor("#5c5cff"), MustParseColor("#ff00ff"), MustParseColor("#00ffff"), MustParseColor("#ffffff"),
}

// Palette is everything applied to a terminal surface in one appearance refresh.
type Palette struct {
	Font               Font           `json:"font"`
	ANSI               [16]Color      `json:"ansi"`
	Cursor             Color          `json:"cursor"`
	Selection          Color          `json:"selection"`
	Foreground         Color          `json:"foreground"`
	Background         Color          `json:"background"`
	UseThemeBackground bool           `json:"use_theme_background"`
	Appearance         AppearanceMode `json:"appearance"`
	OptionAsMeta       bool           `json:"option_as_meta"`
}

// DefaultPalette is the palette used when no known theme is selected:
// accent cursor and selection, primary text, window background (or clear
// when the theme background is disabled), xterm ANSI colours.
func DefaultPalette(prefs settings.TerminalPreferences) Palette {
	foreground, background := SystemPrimary, WindowBackground
	if prefs.DarkAppearance {
		foreground, background = SystemPrimaryDark, WindowBackgroundDark
	}
	if !prefs.UseThemeBackground {
		background = Clear
	}

	return Palette{
		Font:               fontFor(prefs.Font),
		ANSI:               DefaultANSI,
		Cursor:             SystemAccent,
		Selection:          SystemAccent,
		Foreground:         foreground,
		Background:         background,
		UseThemeBackground: prefs.UseThemeBackground,
		Appearance:         appearanceFor(prefs),
		OptionAsMeta:       prefs.OptionAsMeta,
	}
}

func fontFor(f settings.FontPreferences) Font {
	if !f.Custom || f.Name == "" || f.Size <= 0 {
		return SystemFont
	}
	return Font{Name: f.Name, Size: f.Size, Weight: "regular"}
}

func appearanceFor(prefs settings.TerminalPreferences) AppearanceMode {
	if prefs.DarkAppearance {
		return AppearanceDark
	}
	return AppearanceInherit
}
