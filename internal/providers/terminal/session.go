package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/termhost/internal/providers/settings"
	"github.com/GriffinCanCode/termhost/internal/providers/theme"
	"github.com/GriffinCanCode/termhost/internal/shared/id"
)

const (
	readBufferSize = 4096
	// drainTimeout bounds how long exit handling waits for buffered output.
	drainTimeout = 200 * time.Millisecond
	maxDimension = 1<<16 - 1
)

// ProcessDelegate receives process events for a session.
type ProcessDelegate interface {
	OnProcessOutput(p []byte)
	OnProcessExit(code int)
}

// Preferences supplies the terminal preferences read at spawn time.
type Preferences interface {
	Terminal() settings.TerminalPreferences
}

// Session owns one shell process for one working directory.
//
// Lifecycle: uninitialized -> started -> terminated. Start is idempotent and
// serialised by mu, so concurrent starts produce a single process.
type Session struct {
	id       id.SessionID
	identity Identity
	cfg      *Options
	surface  Surface
	closed   func() bool
	log      *zap.Logger

	mu        sync.Mutex
	state     State
	proc      Process
	shell     string
	pid       int
	cols      int
	rows      int
	startedAt time.Time
	exitCode  *int
	exited    chan struct{}
	pending   *Buffer

	delegatesMu sync.RWMutex
	delegates   []ProcessDelegate

	surfaceMu  sync.Mutex
	palette    theme.Palette
	hasPalette bool
	tracker    appearanceTracker
}

func newSession(identity Identity, cfg *Options, closed func() bool) *Session {
	sid := id.NewSessionID()
	return &Session{
		id:       sid,
		identity: identity,
		cfg:      cfg,
		surface:  cfg.NewSurface(identity),
		closed:   closed,
		log:      cfg.Logger.With(zap.String("session", sid.String()), zap.String("identity", identity.String())),
		cols:     cfg.Cols,
		rows:     cfg.Rows,
		pending:  NewBuffer(cfg.ScrollbackBytes),
	}
}

// ID returns the session id.
func (s *Session) ID() id.SessionID { return s.id }

// Identity returns the working directory the session was created for.
func (s *Session) Identity() Identity { return s.identity }

// Surface returns the surface output is fed to.
func (s *Session) Surface() Surface { return s.surface }

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start spawns the shell if it has not been spawned yet. On failure the
// session stays uninitialized and may be started again.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateStarted:
		return nil
	case StateTerminated:
		return ErrSessionTerminated
	}
	if s.closed() {
		return ErrRegistryClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	prefs := s.cfg.Preferences.Terminal()
	exe, argv0 := s.cfg.Resolver.Resolve(prefs.Shell)
	spec := ProcessSpec{
		Path:  exe,
		Argv0: argv0,
		Dir:   s.identity.Path(),
		Env:   s.environment(),
		Cols:  s.cols,
		Rows:  s.rows,
	}

	proc, err := s.cfg.Spawner.Spawn(spec)
	if err != nil {
		s.cfg.Observer.SpawnFailed()
		s.log.Error("Failed to spawn shell", zap.String("shell", exe), zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrSpawnFailed, exe, err)
	}

	s.proc = proc
	s.shell = exe
	s.pid = proc.Pid()
	s.startedAt = time.Now()
	s.exited = make(chan struct{})
	s.state = StateStarted

	readDone := make(chan struct{})
	go s.readLoop(proc, readDone, s.exited)
	go s.waitLoop(proc, readDone, s.exited)

	s.cfg.Observer.SessionStarted()
	s.log.Info("Terminal session started",
		zap.String("shell", exe),
		zap.String("argv0", argv0),
		zap.Int("pid", s.pid))

	s.applyStartPalette()
	return nil
}

// applyStartPalette applies the palette last refreshed, or the current one
// from the palette source when no view has refreshed the session yet.
func (s *Session) applyStartPalette() {
	var current theme.Palette
	source := s.cfg.Palettes
	if source != nil {
		current = source.Palette()
	}

	s.surfaceMu.Lock()
	defer s.surfaceMu.Unlock()
	if !s.hasPalette {
		if source == nil {
			return
		}
		s.palette, s.hasPalette = current, true
	}
	s.tracker.apply(s.surface, s.palette)
}

func (s *Session) environment() []string {
	env := append(os.Environ(), s.cfg.Env...)
	return append(env, "TERM=xterm-256color")
}

// readLoop feeds process output to the surface and every delegate. It stops
// once the session is marked terminated, even if the pty is still readable.
func (s *Session) readLoop(proc Process, done chan<- struct{}, exited <-chan struct{}) {
	defer close(done)

	buf := make([]byte, readBufferSize)
	for {
		n, err := proc.Read(buf)
		select {
		case <-exited:
			return
		default:
		}
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.pending.Write(chunk)

			s.surfaceMu.Lock()
			s.surface.Feed(chunk)
			s.surfaceMu.Unlock()

			for _, d := range s.snapshotDelegates() {
				d.OnProcessOutput(chunk)
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				s.log.Debug("Terminal read ended", zap.Error(err))
			}
			return
		}
	}
}

// waitLoop reaps the child, drains remaining output and marks the session terminated.
func (s *Session) waitLoop(proc Process, readDone <-chan struct{}, exited chan<- struct{}) {
	code, err := proc.Wait()
	if err != nil {
		s.log.Warn("Wait on shell failed", zap.Error(err))
	}

	select {
	case <-readDone:
	case <-time.After(drainTimeout):
	}
	proc.Close()
	// A job that outlived the shell can keep the pty open, so the reader is
	// abandoned rather than waited on.
	select {
	case <-readDone:
	case <-time.After(drainTimeout):
		s.log.Warn("Terminal output still open after shell exit", zap.Int("pid", proc.Pid()))
	}

	s.mu.Lock()
	s.state = StateTerminated
	s.exitCode = &code
	s.mu.Unlock()
	close(exited)

	s.cfg.Observer.SessionExited(code)
	s.log.Info("Terminal session exited", zap.Int("exit_code", code))

	for _, d := range s.snapshotDelegates() {
		d.OnProcessExit(code)
	}
}

// AddDelegate registers d for output and exit events. Adding twice is a no-op.
func (s *Session) AddDelegate(d ProcessDelegate) {
	s.delegatesMu.Lock()
	defer s.delegatesMu.Unlock()
	for _, existing := range s.delegates {
		if existing == d {
			return
		}
	}
	s.delegates = append(s.delegates, d)
}

// RemoveDelegate unregisters d.
func (s *Session) RemoveDelegate(d ProcessDelegate) {
	s.delegatesMu.Lock()
	defer s.delegatesMu.Unlock()
	for i, existing := range s.delegates {
		if existing == d {
			s.delegates = append(s.delegates[:i], s.delegates[i+1:]...)
			return
		}
	}
}

// Delegates returns the number of registered delegates.
func (s *Session) Delegates() int {
	s.delegatesMu.RLock()
	defer s.delegatesMu.RUnlock()
	return len(s.delegates)
}

func (s *Session) snapshotDelegates() []ProcessDelegate {
	s.delegatesMu.RLock()
	defer s.delegatesMu.RUnlock()
	return append([]ProcessDelegate(nil), s.delegates...)
}

// RefreshAppearance applies p to the surface. Only changed properties reach
// the surface. Allowed in every state; the process is never touched.
func (s *Session) RefreshAppearance(p theme.Palette) {
	s.surfaceMu.Lock()
	s.palette, s.hasPalette = p, true
	applied := s.tracker.apply(s.surface, p)
	s.surfaceMu.Unlock()

	s.cfg.Observer.AppearanceRefreshed(applied)
}

// SetScrollbarHidden shows or hides the surface scrollbar.
func (s *Session) SetScrollbarHidden(hidden bool) {
	s.surfaceMu.Lock()
	defer s.surfaceMu.Unlock()
	if s.tracker.scrollbar.update(hidden) {
		s.surface.SetScrollbarHidden(hidden)
	}
}

// Repaint feeds zero bytes to the surface to force a redraw.
func (s *Session) Repaint() {
	s.surfaceMu.Lock()
	defer s.surfaceMu.Unlock()
	s.surface.Feed([]byte{})
}

// ResetSoft asks the surface for a soft terminal reset.
func (s *Session) ResetSoft() {
	s.surfaceMu.Lock()
	defer s.surfaceMu.Unlock()
	s.surface.SoftReset()
}

// Palette returns the palette most recently applied.
func (s *Session) Palette() theme.Palette {
	s.surfaceMu.Lock()
	defer s.surfaceMu.Unlock()
	return s.palette
}

// Write sends input to the shell.
func (s *Session) Write(p []byte) (int, error) {
	s.mu.Lock()
	proc, err := s.liveLocked()
	s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return proc.Write(p)
}

// Resize changes the terminal dimensions. Before Start the size is stored
// and used for the spawn.
func (s *Session) Resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 || cols > maxDimension || rows > maxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, cols, rows)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateTerminated {
		return ErrSessionTerminated
	}
	s.cols, s.rows = cols, rows
	if s.state == StateStarted {
		return s.proc.Resize(cols, rows)
	}
	return nil
}

// Read drains output buffered since the previous Read.
func (s *Session) Read() []byte {
	return s.pending.ReadAll()
}

// Snapshot returns the scrollback as plain text.
func (s *Session) Snapshot() string {
	if ts, ok := s.surface.(interface{ Text() string }); ok {
		return ts.Text()
	}
	return ansi.Strip(string(s.pending.Bytes()))
}

// Info returns a point-in-time description of the session.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	info := SessionInfo{
		ID:        s.id.String(),
		Identity:  s.identity.String(),
		Shell:     s.shell,
		Pid:       s.pid,
		Cols:      s.cols,
		Rows:      s.rows,
		State:     s.state,
		StartedAt: s.startedAt,
		ExitCode:  s.exitCode,
		Active:    s.state == StateStarted,
	}
	s.mu.Unlock()

	info.Views = s.Delegates()
	info.Buffered = s.pending.Len()
	return info
}

// Terminate kills the process and waits for it to be reaped or for ctx to
// end. A session that never started moves straight to terminated.
func (s *Session) Terminate(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateUninitialized:
		s.state = StateTerminated
		s.mu.Unlock()
		return nil
	case StateTerminated:
		exited := s.exited
		s.mu.Unlock()
		return waitExited(ctx, exited)
	}

	proc, exited := s.proc, s.exited
	s.mu.Unlock()

	if err := proc.Kill(); err != nil {
		s.log.Warn("Failed to kill shell", zap.Int("pid", proc.Pid()), zap.Error(err))
	}
	return waitExited(ctx, exited)
}

func waitExited(ctx context.Context, exited <-chan struct{}) error {
	if exited == nil {
		return nil
	}
	select {
	case <-exited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) liveLocked() (Process, error) {
	switch s.state {
	case StateUninitialized:
		return nil, ErrSessionNotStarted
	case StateTerminated:
		return nil, ErrSessionTerminated
	}
	return s.proc, nil
}
