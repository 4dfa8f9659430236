package terminal

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/termhost/internal/providers/theme"
	"github.com/GriffinCanCode/termhost/internal/shared/id"
)

// Drawable is the on-screen side of a view.
type Drawable interface {
	Draw(p []byte)
	Exited(code int)
}

// AppearanceSink is implemented by drawables that render the palette themselves.
type AppearanceSink interface {
	ApplyPalette(p theme.Palette)
}

// PaletteSource produces the palette for the current theme and preferences.
type PaletteSource interface {
	Palette() theme.Palette
}

// View binds a drawable to a session. Views never own the session: Detach
// leaves the process running in the registry.
//
// Output reaches the drawable through a bounded per-view queue, so a slow
// drawable loses output instead of stalling the session or other views.
type View struct {
	id       id.ViewID
	drawable Drawable
	out      *outbox
	palettes PaletteSource
	observer Observer
	log      *zap.Logger

	mu      sync.Mutex
	session *Session
}

// NewView creates a detached view.
func NewView(drawable Drawable, palettes PaletteSource, observer Observer, logger *zap.Logger) *View {
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	vid := id.NewViewID()
	return &View{
		id:       vid,
		drawable: drawable,
		out:      newOutbox(drawable, outboxSize),
		palettes: palettes,
		observer: observer,
		log:      logger.With(zap.String("view", vid.String())),
	}
}

// ID returns the view id.
func (v *View) ID() id.ViewID { return v.id }

// Session returns the attached session, or nil.
func (v *View) Session() *Session {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.session
}

// Attach binds the view to s, starts s if needed and refreshes appearance.
// Re-attaching to a running session soft-resets its surface first.
func (v *View) Attach(ctx context.Context, s *Session) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.session != nil && v.session != s {
		v.detachLocked()
	}

	s.AddDelegate(v)
	if s.State() == StateStarted {
		s.ResetSoft()
	}
	if err := s.Start(ctx); err != nil {
		s.RemoveDelegate(v)
		return err
	}

	if v.session != s {
		v.observer.ViewAttached()
	}
	v.session = s
	v.log.Debug("View attached", zap.String("session", s.ID().String()))
	v.refreshLocked()
	return nil
}

// Refresh re-applies appearance to the attached session. It never touches
// the process and may be called any number of times.
func (v *View) Refresh() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.session == nil {
		return ErrViewNotAttached
	}
	v.refreshLocked()
	return nil
}

func (v *View) refreshLocked() {
	p := v.palettes.Palette()
	v.session.RefreshAppearance(p)
	v.session.SetScrollbarHidden(true)
	v.session.Repaint()

	if sink, ok := v.drawable.(AppearanceSink); ok {
		sink.ApplyPalette(p)
	}
}

// Detach unbinds the view. The session keeps running.
func (v *View) Detach() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.detachLocked()
}

func (v *View) detachLocked() {
	if v.session == nil {
		return
	}
	v.session.RemoveDelegate(v)
	v.log.Debug("View detached", zap.String("session", v.session.ID().String()))
	v.session = nil
	v.observer.ViewDetached()
}

// Close detaches the view and stops delivery to the drawable.
func (v *View) Close() {
	v.Detach()
	v.out.close()
}

// Dropped returns the number of output chunks discarded because the
// drawable fell behind.
func (v *View) Dropped() uint64 { return v.out.dropped.Load() }

// OnProcessOutput queues output for the drawable.
func (v *View) OnProcessOutput(p []byte) {
	if !v.out.push(p) {
		v.observer.OutputDropped(1)
	}
}

// OnProcessExit forwards the exit code after any queued output.
func (v *View) OnProcessExit(code int) {
	v.out.exited(code)
}
