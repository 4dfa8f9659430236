package settings

// ShellPreference selects which shell a terminal session launches.
type ShellPreference string

const (
	ShellSystem ShellPreference = "system"
	ShellBash   ShellPreference = "bash"
	ShellZsh    ShellPreference = "zsh"
)

// Valid reports whether p is one of the known preferences.
func (p ShellPreference) Valid() bool {
	switch p {
	case ShellSystem, ShellBash, ShellZsh:
		return true
	}
	return false
}

// FontPreferences controls the terminal font.
type FontPreferences struct {
	Custom bool    `json:"custom" yaml:"custom"`
	Name   string  `json:"name" yaml:"name"`
	Size   float64 `json:"size" yaml:"size"`
}

// TerminalPreferences is a read-only snapshot of the terminal settings.
type TerminalPreferences struct {
	Shell              ShellPreference `json:"shell" yaml:"shell"`
	Font               FontPreferences `json:"font" yaml:"font"`
	OptionAsMeta       bool            `json:"option_as_meta" yaml:"option_as_meta"`
	UseThemeBackground bool            `json:"use_theme_background" yaml:"use_theme_background"`
	DarkAppearance     bool            `json:"dark_appearance" yaml:"dark_appearance"`
}

// DefaultTerminalPreferences mirrors the defaults registered in a new Store.
func DefaultTerminalPreferences() TerminalPreferences {
	return TerminalPreferences{
		Shell:              ShellSystem,
		Font:               FontPreferences{Custom: false, Name: "SF Mono", Size: 11},
		OptionAsMeta:       false,
		UseThemeBackground: true,
		DarkAppearance:     false,
	}
}

// Setting keys
const (
	KeyShell              = "terminal.shell"
	KeyFontCustom         = "terminal.font.custom"
	KeyFontName           = "terminal.font.name"
	KeyFontSize           = "terminal.font.size"
	KeyOptionAsMeta       = "terminal.option_as_meta"
	KeyUseThemeBackground = "terminal.use_theme_background"
	KeyDarkAppearance     = "terminal.dark_appearance"
)
