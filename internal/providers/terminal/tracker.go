package terminal

import "github.com/GriffinCanCode/termhost/internal/providers/theme"

// tracked remembers the last value pushed to the surface so unchanged
// properties are not re-applied.
type tracked[T comparable] struct {
	value T
	set   bool
}

// update stores v and reports whether it differs from the last value.
func (t *tracked[T]) update(v T) bool {
	if t.set && t.value == v {
		return false
	}
	t.value, t.set = v, true
	return true
}

type appearanceTracker struct {
	font       tracked[theme.Font]
	ansi       tracked[[16]theme.Color]
	cursor     tracked[theme.Color]
	selection  tracked[theme.Color]
	foreground tracked[theme.Color]
	background tracked[theme.Color]
	meta       tracked[bool]
	appearance tracked[theme.AppearanceMode]
	scrollbar  tracked[bool]
}

// apply pushes every changed property of p to s and returns how many were applied.
func (a *appearanceTracker) apply(s Surface, p theme.Palette) int {
	applied := 0
	if a.font.update(p.Font) {
		s.SetFont(p.Font)
		applied++
	}
	if a.ansi.update(p.ANSI) {
		s.InstallColors(p.ANSI)
		applied++
	}
	if a.cursor.update(p.Cursor) {
		s.SetCursorColor(p.Cursor)
		applied++
	}
	if a.selection.update(p.Selection) {
		s.SetSelectionColor(p.Selection)
		applied++
	}
	if a.foreground.update(p.Foreground) {
		s.SetForegroundColor(p.Foreground)
		applied++
	}
	if a.background.update(p.Background) {
		s.SetBackgroundColor(p.Background)
		applied++
	}
	if a.meta.update(p.OptionAsMeta) {
		s.SetOptionAsMeta(p.OptionAsMeta)
		applied++
	}
	if a.appearance.update(p.Appearance) {
		s.SetAppearance(p.Appearance)
		applied++
	}
	return applied
}
