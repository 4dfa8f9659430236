package theme

import (
	"go.uber.org/zap"

	"github.com/GriffinCanCode/termhost/internal/providers/settings"
)

// Projector maps the selected theme and terminal preferences onto a Palette.
// It holds no state besides its logger.
type Projector struct {
	log *zap.Logger
}

// NewProjector creates a projector
func NewProjector(logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{log: logger}
}

// Project returns the palette for selected. An empty selection, or one not
// present in known, yields DefaultPalette(prefs).
func (p *Projector) Project(selected string, known []Theme, prefs settings.TerminalPreferences) Palette {
	base := DefaultPalette(prefs)
	if selected == "" {
		return base
	}

	var theme *Theme
	for i := range known {
		if known[i].ID == selected {
			theme = &known[i]
			break
		}
	}
	if theme == nil {
		p.log.Debug("Selected theme not found, using defaults", zap.String("theme", selected))
		return base
	}

	tc := theme.Terminal
	out := base
	for i := range out.ANSI {
		if i < len(tc.ANSI) {
			out.ANSI[i] = p.slot(theme.ID, "ansi", tc.ANSI[i], DefaultANSI[i])
		}
	}
	out.Cursor = p.slot(theme.ID, "cursor", tc.Cursor, base.Cursor)
	out.Selection = p.slot(theme.ID, "selection", tc.Selection, base.Selection)
	out.Foreground = p.slot(theme.ID, "text", tc.Text, base.Foreground)

	if prefs.UseThemeBackground {
		out.Background = p.slot(theme.ID, "background", tc.Background, base.Background)
	} else {
		out.Background = Clear
	}
	return out
}

func (p *Projector) slot(themeID, name, hex string, fallback Color) Color {
	if hex == "" {
		return fallback
	}
	c, err := ParseColor(hex)
	if err != nil {
		p.log.Debug("Invalid theme colour, using default",
			zap.String("theme", themeID),
			zap.String("slot", name),
			zap.Error(err))
		return fallback
	}
	return c
}
