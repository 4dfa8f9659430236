package terminal

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/termhost/internal/providers/settings"
	"github.com/GriffinCanCode/termhost/internal/shared/id"
)

// Default session dimensions and scrollback.
const (
	DefaultCols            = 80
	DefaultRows            = 24
	DefaultScrollbackBytes = 1024 * 1024 // 1MB
)

// Options configures the sessions a Registry creates.
type Options struct {
	Spawner     Spawner
	Resolver    *ShellResolver
	Preferences Preferences
	// Palettes, when set, supplies the palette applied at spawn to sessions
	// no view has refreshed yet.
	Palettes        PaletteSource
	NewSurface      func(Identity) Surface
	Observer        Observer
	Cols            int
	Rows            int
	ScrollbackBytes int
	// Env is appended to the host environment of every spawned shell.
	Env    []string
	Logger *zap.Logger
}

type defaultPreferences struct{}

func (defaultPreferences) Terminal() settings.TerminalPreferences {
	return settings.DefaultTerminalPreferences()
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Spawner == nil {
		o.Spawner = PTYSpawner{}
	}
	if o.Resolver == nil {
		o.Resolver = NewShellResolver(nil, o.Logger)
	}
	if o.Preferences == nil {
		o.Preferences = defaultPreferences{}
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	if o.Cols <= 0 {
		o.Cols = DefaultCols
	}
	if o.Rows <= 0 {
		o.Rows = DefaultRows
	}
	if o.ScrollbackBytes <= 0 {
		o.ScrollbackBytes = DefaultScrollbackBytes
	}
	if o.NewSurface == nil {
		size := o.ScrollbackBytes
		o.NewSurface = func(Identity) Surface { return NewHeadlessSurface(size) }
	}
	return o
}

// Registry holds at most one session per working directory. It is owned by a
// workspace and torn down with it; sessions live until Remove or Close.
type Registry struct {
	mu       sync.Mutex
	sessions map[Identity]*Session
	opts     Options
	closed   atomic.Bool
	log      *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	opts = opts.withDefaults()
	return &Registry{
		sessions: make(map[Identity]*Session),
		opts:     opts,
		log:      opts.Logger,
	}
}

// GetOrCreate returns the session for identity, creating an unstarted one
// if none exists.
func (r *Registry) GetOrCreate(identity Identity) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[identity]; ok {
		return s
	}

	s := newSession(identity, &r.opts, r.closed.Load)
	r.sessions[identity] = s
	r.log.Debug("Terminal session created", zap.String("identity", identity.String()), zap.String("session", s.ID().String()))
	return s
}

// Get returns the session for identity.
func (r *Registry) Get(identity Identity) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[identity]
	return s, ok
}

// Find returns the session with the given id.
func (r *Registry) Find(sessionID id.SessionID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.ID() == sessionID {
			return s, true
		}
	}
	return nil, false
}

// List returns all sessions ordered by identity.
func (r *Registry) List() []*Session {
	r.mu.Lock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Identity() < out[j].Identity() })
	return out
}

// Len returns the number of sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Remove terminates the session for identity and evicts it.
func (r *Registry) Remove(ctx context.Context, identity Identity) error {
	r.mu.Lock()
	s, ok := r.sessions[identity]
	if ok {
		delete(r.sessions, identity)
	}
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, identity)
	}
	return s.Terminate(ctx)
}

// Close terminates every session concurrently, evicts them all and marks the
// registry closed. Sessions created afterwards cannot start.
func (r *Registry) Close(ctx context.Context) error {
	r.closed.Store(true)

	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[Identity]*Session)
	r.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range sessions {
		g.Go(func() error {
			if err := s.Terminate(gctx); err != nil {
				return fmt.Errorf("terminate %s: %w", s.Identity(), err)
			}
			return nil
		})
	}

	err := g.Wait()
	r.log.Info("Terminal registry closed", zap.Int("sessions", len(sessions)), zap.Error(err))
	return err
}

// Closed reports whether Close has been called.
func (r *Registry) Closed() bool {
	return r.closed.Load()
}
