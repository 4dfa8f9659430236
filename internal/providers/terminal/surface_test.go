package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GriffinCanCode/termhost/internal/providers/theme"
)

func TestHeadlessSurfaceState(t *testing.T) {
	h := NewHeadlessSurface(1024)

	h.SetFont(theme.SystemFont)
	h.InstallColors(theme.DefaultANSI)
	h.SetCursorColor(theme.SystemAccent)
	h.SetBackgroundColor(theme.Clear)
	h.SetOptionAsMeta(true)
	h.SetAppearance(theme.AppearanceDark)
	h.SetScrollbarHidden(true)

	state := h.State()
	assert.Equal(t, theme.SystemFont, state.Font)
	assert.Equal(t, theme.DefaultANSI, state.ANSI)
	assert.Equal(t, theme.SystemAccent, state.Cursor)
	assert.Equal(t, theme.Clear, state.Background)
	assert.True(t, state.OptionAsMeta)
	assert.Equal(t, theme.AppearanceDark, state.Appearance)
	assert.True(t, state.ScrollbarHidden)
}

func TestHeadlessSurfaceScrollback(t *testing.T) {
	h := NewHeadlessSurface(1024)

	h.Feed([]byte("\x1b[32mok\x1b[0m\n"))
	h.Feed(nil)
	h.SoftReset()
	h.Feed([]byte("\x1b]0;title\x07done"))

	assert.Equal(t, 1, h.Repaints())
	assert.Equal(t, 1, h.Resets())
	assert.Equal(t, "ok\ndone", h.Text())
	assert.Contains(t, string(h.Bytes()), softResetSequence)
}
