package workspace

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/termhost/internal/providers/terminal"
)

// ErrNotFound is returned for unknown workspace ids.
var ErrNotFound = errors.New("workspace not found")

// Workspace is an open project root and its terminal sessions.
type Workspace struct {
	ID        string            `json:"id"`
	Root      terminal.Identity `json:"root"`
	CreatedAt time.Time         `json:"created_at"`

	registry *terminal.Registry
}

// Registry returns the workspace's session registry.
func (w *Workspace) Registry() *terminal.Registry {
	return w.registry
}

// Info is the public representation of a workspace
type Info struct {
	ID        string    `json:"id"`
	Root      string    `json:"root"`
	CreatedAt time.Time `json:"created_at"`
	Sessions  int       `json:"sessions"`
}

// Info returns a snapshot of w.
func (w *Workspace) Info() Info {
	return Info{
		ID:        w.ID,
		Root:      w.Root.String(),
		CreatedAt: w.CreatedAt,
		Sessions:  w.registry.Len(),
	}
}

// Manager orchestrates workspace lifecycle
type Manager struct {
	mu         sync.RWMutex
	workspaces map[string]*Workspace // Protected by mu
	opts       terminal.Options
	log        *zap.Logger
}

// NewManager creates a workspace manager. opts configures every registry
// the manager creates.
func NewManager(opts terminal.Options, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Logger == nil {
		opts.Logger = logger
	}
	return &Manager{
		workspaces: make(map[string]*Workspace),
		opts:       opts,
		log:        logger,
	}
}

// Open registers a workspace rooted at root.
func (m *Manager) Open(root string) (*Workspace, error) {
	identity, err := terminal.NewIdentity(root)
	if err != nil {
		return nil, err
	}

	ws := &Workspace{
		ID:        uuid.New().String(),
		Root:      identity,
		CreatedAt: time.Now(),
		registry:  terminal.NewRegistry(m.opts),
	}

	m.mu.Lock()
	m.workspaces[ws.ID] = ws
	m.mu.Unlock()

	m.log.Info("Workspace opened", zap.String("workspace", ws.ID), zap.String("root", identity.String()))
	return ws, nil
}

// Get retrieves a workspace by ID
func (m *Manager) Get(id string) (*Workspace, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ws, ok := m.workspaces[id]
	return ws, ok
}

// List returns all workspaces, oldest first
func (m *Manager) List() []*Workspace {
	m.mu.RLock()
	out := make([]*Workspace, 0, len(m.workspaces))
	for _, ws := range m.workspaces {
		out = append(out, ws)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Count returns the number of open workspaces
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.workspaces)
}

// Registry implements terminal.Workspaces.
func (m *Manager) Registry(workspaceID string) (*terminal.Registry, error) {
	ws, ok := m.Get(workspaceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, workspaceID)
	}
	return ws.registry, nil
}

// Resolve implements terminal.Workspaces. Relative directories are taken
// relative to the workspace root; an empty dir is the root itself.
func (m *Manager) Resolve(workspaceID, dir string) (terminal.Identity, error) {
	ws, ok := m.Get(workspaceID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, workspaceID)
	}
	if dir == "" {
		return ws.Root, nil
	}
	if !filepath.IsAbs(dir) && dir != "~" && !hasHomePrefix(dir) {
		dir = filepath.Join(ws.Root.Path(), dir)
	}
	return terminal.NewIdentity(dir)
}

func hasHomePrefix(dir string) bool {
	return len(dir) >= 2 && dir[:2] == "~/"
}

// Session returns the session for dir in the workspace, creating it if needed.
// The session is not started.
func (m *Manager) Session(workspaceID, dir string) (*terminal.Session, error) {
	identity, err := m.Resolve(workspaceID, dir)
	if err != nil {
		return nil, err
	}
	reg, err := m.Registry(workspaceID)
	if err != nil {
		return nil, err
	}
	return reg.GetOrCreate(identity), nil
}

// Close tears down the workspace's registry and forgets it.
func (m *Manager) Close(ctx context.Context, id string) error {
	m.mu.Lock()
	ws, ok := m.workspaces[id]
	if ok {
		delete(m.workspaces, id)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	m.log.Info("Workspace closing", zap.String("workspace", id), zap.Int("sessions", ws.registry.Len()))
	return ws.registry.Close(ctx)
}

// CloseAll closes every workspace concurrently.
func (m *Manager) CloseAll(ctx context.Context) error {
	m.mu.Lock()
	all := m.workspaces
	m.workspaces = make(map[string]*Workspace)
	m.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, ws := range all {
		g.Go(func() error {
			return ws.registry.Close(gctx)
		})
	}
	return g.Wait()
}
