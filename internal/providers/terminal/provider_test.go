package terminal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/termhost/internal/providers/settings"
	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

type fakeWorkspaces struct {
	root     Identity
	registry *Registry
}

func (f *fakeWorkspaces) Registry(workspaceID string) (*Registry, error) {
	if workspaceID != "ws1" {
		return nil, ErrSessionNotFound
	}
	return f.registry, nil
}

func (f *fakeWorkspaces) Resolve(_ string, dir string) (Identity, error) {
	if dir == "" {
		return f.root, nil
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(f.root.Path(), dir)
	}
	return NewIdentity(dir)
}

func testProvider(t *testing.T) (*Provider, *fakeSpawner) {
	t.Helper()
	reg, spawner := testRegistry(t)
	ws := &fakeWorkspaces{root: MustIdentity("/Users/a/proj"), registry: reg}
	prefs := settings.DefaultTerminalPreferences()
	prefs.Shell = settings.ShellZsh
	return NewProvider(ws, NewShellResolver(fakeUsers{err: errNoUser}, nil), staticPrefs(prefs), nil), spawner
}

func TestProviderDefinition(t *testing.T) {
	p, _ := testProvider(t)
	def := p.Definition()

	assert.Equal(t, "terminal", def.ID)
	assert.Equal(t, types.CategoryTerminal, def.Category)
	for _, tool := range def.Tools {
		assert.Contains(t, tool.ID, "terminal.")
	}
}

func TestProviderOpenSharesSession(t *testing.T) {
	p, spawner := testProvider(t)
	ctx := context.Background()
	wsID := "ws1"
	appCtx := &types.Context{WorkspaceID: &wsID}

	first, err := p.Execute(ctx, "terminal.open", map[string]interface{}{}, appCtx)
	require.NoError(t, err)
	require.True(t, first.Success, "error: %v", first.Error)
	assert.Equal(t, "/Users/a/proj", first.Data["identity"])
	assert.Equal(t, "started", first.Data["state"])

	second, err := p.Execute(ctx, "terminal.open", map[string]interface{}{"dir": "/Users/a/proj/", "cols": float64(100), "rows": float64(30)}, appCtx)
	require.NoError(t, err)
	require.True(t, second.Success)
	assert.Equal(t, first.Data["id"], second.Data["id"])
	assert.Equal(t, 100, second.Data["cols"])

	third, err := p.Execute(ctx, "terminal.open", map[string]interface{}{"dir": "sub"}, appCtx)
	require.NoError(t, err)
	require.True(t, third.Success)
	assert.NotEqual(t, first.Data["id"], third.Data["id"])
	assert.Equal(t, "/Users/a/proj/sub", third.Data["identity"])

	assert.Equal(t, 2, spawner.count())
	assert.Equal(t, "/bin/zsh", spawner.spec(0).Path)

	list, err := p.Execute(ctx, "terminal.list_sessions", map[string]interface{}{}, appCtx)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Data["count"])
}

func TestProviderSessionIO(t *testing.T) {
	p, spawner := testProvider(t)
	ctx := context.Background()

	opened, err := p.Execute(ctx, "terminal.open", map[string]interface{}{"workspace_id": "ws1"}, nil)
	require.NoError(t, err)
	require.True(t, opened.Success)
	sessionID := opened.Data["id"].(string)
	params := map[string]interface{}{"workspace_id": "ws1", "session_id": sessionID}

	result, err := p.Execute(ctx, "terminal.write", map[string]interface{}{"workspace_id": "ws1", "session_id": sessionID, "input": "ls\n"}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "ls\n", spawner.process(0).input())

	spawner.process(0).emit("a.txt\r\n")
	assert.Eventually(t, func() bool {
		r, _ := p.Execute(ctx, "terminal.snapshot", params, nil)
		return r.Data["text"] == "a.txt\r\n"
	}, waitFor, tick)

	result, err = p.Execute(ctx, "terminal.read", params, nil)
	require.NoError(t, err)
	assert.Equal(t, "a.txt\r\n", result.Data["output"])

	result, err = p.Execute(ctx, "terminal.resize", map[string]interface{}{"workspace_id": "ws1", "session_id": sessionID, "cols": float64(0), "rows": float64(10)}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)

	result, err = p.Execute(ctx, "terminal.kill", params, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	result, err = p.Execute(ctx, "terminal.get_session", params, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestProviderFailures(t *testing.T) {
	p, _ := testProvider(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		tool   string
		params map[string]interface{}
	}{
		{name: "no workspace", tool: "terminal.open", params: map[string]interface{}{}},
		{name: "unknown workspace", tool: "terminal.list_sessions", params: map[string]interface{}{"workspace_id": "nope"}},
		{name: "no session id", tool: "terminal.read", params: map[string]interface{}{"workspace_id": "ws1"}},
		{name: "unknown session", tool: "terminal.write", params: map[string]interface{}{"workspace_id": "ws1", "session_id": "term_x", "input": "x"}},
		{name: "unknown tool", tool: "terminal.bogus", params: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.Execute(ctx, tt.tool, tt.params, nil)
			require.NoError(t, err)
			assert.False(t, result.Success)
			assert.NotNil(t, result.Error)
		})
	}
}

func TestProviderResolveShell(t *testing.T) {
	p, _ := testProvider(t)
	result, err := p.Execute(context.Background(), "terminal.resolve_shell", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "/bin/zsh", result.Data["executable"])
	assert.Equal(t, "-zsh", result.Data["argv0"])
}
