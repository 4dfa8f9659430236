package terminal

import (
	"sync"

	"github.com/charmbracelet/x/ansi"

	"github.com/GriffinCanCode/termhost/internal/providers/theme"
)

// softResetSequence is DECSTR.
const softResetSequence = "\x1b[!p"

// Surface is the terminal engine a session renders into. Escape-sequence
// parsing and the screen model live behind it.
type Surface interface {
	SetFont(f theme.Font)
	InstallColors(ansi [16]theme.Color)
	SetCursorColor(c theme.Color)
	SetSelectionColor(c theme.Color)
	SetForegroundColor(c theme.Color)
	SetBackgroundColor(c theme.Color)
	SetOptionAsMeta(enabled bool)
	SetAppearance(mode theme.AppearanceMode)
	SetScrollbarHidden(hidden bool)
	SoftReset()
	Feed(p []byte)
}

// SurfaceState is the presentation state last applied to a HeadlessSurface.
type SurfaceState struct {
	Font            theme.Font           `json:"font"`
	ANSI            [16]theme.Color      `json:"ansi"`
	Cursor          theme.Color          `json:"cursor"`
	Selection       theme.Color          `json:"selection"`
	Foreground      theme.Color          `json:"foreground"`
	Background      theme.Color          `json:"background"`
	OptionAsMeta    bool                 `json:"option_as_meta"`
	Appearance      theme.AppearanceMode `json:"appearance"`
	ScrollbarHidden bool                 `json:"scrollbar_hidden"`
}

// HeadlessSurface records presentation state and keeps a scrollback of the
// raw output so a remote renderer can replay it after reconnecting.
type HeadlessSurface struct {
	mu         sync.RWMutex
	state      SurfaceState
	scrollback *Buffer
	resets     int
	repaints   int
}

// NewHeadlessSurface creates a surface with scrollbackBytes of history.
func NewHeadlessSurface(scrollbackBytes int) *HeadlessSurface {
	return &HeadlessSurface{scrollback: NewBuffer(scrollbackBytes)}
}

func (h *HeadlessSurface) SetFont(f theme.Font) {
	h.mu.Lock()
	h.state.Font = f
	h.mu.Unlock()
}

func (h *HeadlessSurface) InstallColors(colors [16]theme.Color) {
	h.mu.Lock()
	h.state.ANSI = colors
	h.mu.Unlock()
}

func (h *HeadlessSurface) SetCursorColor(c theme.Color) {
	h.mu.Lock()
	h.state.Cursor = c
	h.mu.Unlock()
}

func (h *HeadlessSurface) SetSelectionColor(c theme.Color) {
	h.mu.Lock()
	h.state.Selection = c
	h.mu.Unlock()
}

func (h *HeadlessSurface) SetForegroundColor(c theme.Color) {
	h.mu.Lock()
	h.state.Foreground = c
	h.mu.Unlock()
}

func (h *HeadlessSurface) SetBackgroundColor(c theme.Color) {
	h.mu.Lock()
	h.state.Background = c
	h.mu.Unlock()
}

func (h *HeadlessSurface) SetOptionAsMeta(enabled bool) {
	h.mu.Lock()
	h.state.OptionAsMeta = enabled
	h.mu.Unlock()
}

func (h *HeadlessSurface) SetAppearance(mode theme.AppearanceMode) {
	h.mu.Lock()
	h.state.Appearance = mode
	h.mu.Unlock()
}

func (h *HeadlessSurface) SetScrollbarHidden(hidden bool) {
	h.mu.Lock()
	h.state.ScrollbarHidden = hidden
	h.mu.Unlock()
}

// SoftReset records DECSTR in the scrollback so replays reset too.
func (h *HeadlessSurface) SoftReset() {
	h.mu.Lock()
	h.resets++
	h.mu.Unlock()
	h.scrollback.Write([]byte(softResetSequence))
}

// Feed appends output. An empty feed only counts as a repaint request.
func (h *HeadlessSurface) Feed(p []byte) {
	if len(p) == 0 {
		h.mu.Lock()
		h.repaints++
		h.mu.Unlock()
		return
	}
	h.scrollback.Write(p)
}

// State returns the current presentation state.
func (h *HeadlessSurface) State() SurfaceState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Bytes returns the raw scrollback including escape sequences.
func (h *HeadlessSurface) Bytes() []byte {
	return h.scrollback.Bytes()
}

// Text returns the scrollback with escape sequences removed.
func (h *HeadlessSurface) Text() string {
	return ansi.Strip(string(h.scrollback.Bytes()))
}

// Resets returns how many soft resets were requested.
func (h *HeadlessSurface) Resets() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.resets
}

// Repaints returns how many zero-length feeds were received.
func (h *HeadlessSurface) Repaints() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.repaints
}
