package terminal

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/termhost/internal/shared/id"
	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

// Workspaces maps workspace ids to their session registries.
type Workspaces interface {
	Registry(workspaceID string) (*Registry, error)
	// Resolve turns dir (absolute, relative to the workspace root, or empty
	// for the root itself) into a session identity.
	Resolve(workspaceID, dir string) (Identity, error)
}

// Provider exposes terminal sessions as a service
type Provider struct {
	workspaces  Workspaces
	resolver    *ShellResolver
	preferences Preferences
	log         *zap.Logger
}

// NewProvider creates a new terminal provider
func NewProvider(workspaces Workspaces, resolver *ShellResolver, preferences Preferences, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resolver == nil {
		resolver = NewShellResolver(nil, logger)
	}
	if preferences == nil {
		preferences = defaultPreferences{}
	}
	return &Provider{
		workspaces:  workspaces,
		resolver:    resolver,
		preferences: preferences,
		log:         logger,
	}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "terminal",
		Name:        "Terminal Service",
		Description: "Shell sessions on a pty, one per working directory, shared by every view on that directory",
		Category:    types.CategoryTerminal,
		Capabilities: []string{
			"pty",
			"shell",
			"sessions",
			"resize",
			"snapshot",
		},
		Tools: p.getTools(),
	}
}

// Execute routes to appropriate operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "terminal.open":
		return p.open(ctx, params, appCtx)
	case "terminal.write":
		return p.write(params, appCtx)
	case "terminal.read":
		return p.read(params, appCtx)
	case "terminal.snapshot":
		return p.snapshot(params, appCtx)
	case "terminal.resize":
		return p.resize(params, appCtx)
	case "terminal.list_sessions":
		return p.listSessions(params, appCtx)
	case "terminal.get_session":
		return p.getSession(params, appCtx)
	case "terminal.kill":
		return p.kill(ctx, params, appCtx)
	case "terminal.resolve_shell":
		exe, argv0 := p.resolver.Resolve(p.preferences.Terminal().Shell)
		return success(map[string]interface{}{"executable": exe, "argv0": argv0})
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) getTools() []types.Tool {
	workspace := types.Parameter{
		Name:        "workspace_id",
		Type:        "string",
		Description: "Workspace ID. Defaults to the request's workspace",
		Required:    false,
	}
	session := types.Parameter{
		Name:        "session_id",
		Type:        "string",
		Description: "Terminal session ID",
		Required:    true,
	}

	return []types.Tool{
		{
			ID:          "terminal.open",
			Name:        "Open Terminal",
			Description: "Get or start the session for a directory",
			Parameters: []types.Parameter{
				workspace,
				{Name: "dir", Type: "string", Description: "Working directory. Defaults to the workspace root", Required: false},
				{Name: "cols", Type: "number", Description: "Terminal width in columns", Required: false},
				{Name: "rows", Type: "number", Description: "Terminal height in rows", Required: false},
			},
			Returns: "session_info",
		},
		{
			ID:          "terminal.write",
			Name:        "Write to Terminal",
			Description: "Send input to a terminal session",
			Parameters: []types.Parameter{
				workspace,
				session,
				{Name: "input", Type: "string", Description: "Input to send to terminal", Required: true},
			},
			Returns: "success",
		},
		{
			ID:          "terminal.read",
			Name:        "Read from Terminal",
			Description: "Read output buffered since the last read",
			Parameters:  []types.Parameter{workspace, session},
			Returns:     "output_data",
		},
		{
			ID:          "terminal.snapshot",
			Name:        "Terminal Snapshot",
			Description: "Scrollback as plain text",
			Parameters:  []types.Parameter{workspace, session},
			Returns:     "string",
		},
		{
			ID:          "terminal.resize",
			Name:        "Resize Terminal",
			Description: "Change terminal dimensions",
			Parameters: []types.Parameter{
				workspace,
				session,
				{Name: "cols", Type: "number", Description: "New width in columns", Required: true},
				{Name: "rows", Type: "number", Description: "New height in rows", Required: true},
			},
			Returns: "success",
		},
		{
			ID:          "terminal.list_sessions",
			Name:        "List Terminal Sessions",
			Description: "List the sessions of a workspace",
			Parameters:  []types.Parameter{workspace},
			Returns:     "sessions_list",
		},
		{
			ID:          "terminal.get_session",
			Name:        "Get Session Info",
			Description: "Get information about a terminal session",
			Parameters:  []types.Parameter{workspace, session},
			Returns:     "session_info",
		},
		{
			ID:          "terminal.kill",
			Name:        "Kill Terminal Session",
			Description: "Terminate a session and evict it from the workspace",
			Parameters:  []types.Parameter{workspace, session},
			Returns:     "success",
		},
		{
			ID:          "terminal.resolve_shell",
			Name:        "Resolve Shell",
			Description: "Show which shell new sessions will launch",
			Parameters:  []types.Parameter{},
			Returns:     "object",
		},
	}
}

func workspaceID(params map[string]interface{}, appCtx *types.Context) string {
	if ws, ok := params["workspace_id"].(string); ok && ws != "" {
		return ws
	}
	if appCtx != nil && appCtx.WorkspaceID != nil {
		return *appCtx.WorkspaceID
	}
	return ""
}

func (p *Provider) registry(params map[string]interface{}, appCtx *types.Context) (*Registry, error) {
	ws := workspaceID(params, appCtx)
	if ws == "" {
		return nil, errors.New("workspace_id is required")
	}
	return p.workspaces.Registry(ws)
}

func (p *Provider) lookup(params map[string]interface{}, appCtx *types.Context) (*Session, error) {
	sessionID, ok := params["session_id"].(string)
	if !ok || sessionID == "" {
		return nil, errors.New("session_id is required")
	}

	reg, err := p.registry(params, appCtx)
	if err != nil {
		return nil, err
	}

	s, ok := reg.Find(id.SessionID(sessionID))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return s, nil
}

func (p *Provider) open(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	reg, err := p.registry(params, appCtx)
	if err != nil {
		return failure(err.Error())
	}

	dir, _ := params["dir"].(string)
	identity, err := p.workspaces.Resolve(workspaceID(params, appCtx), dir)
	if err != nil {
		return failure(err.Error())
	}

	s := reg.GetOrCreate(identity)
	if cols, rows, ok := dimensions(params); ok {
		if err := s.Resize(cols, rows); err != nil {
			return failure(err.Error())
		}
	}
	if err := s.Start(ctx); err != nil {
		return failure(err.Error())
	}

	return success(infoData(s.Info()))
}

func (p *Provider) write(params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	s, err := p.lookup(params, appCtx)
	if err != nil {
		return failure(err.Error())
	}

	input, ok := params["input"].(string)
	if !ok {
		return failure("input is required")
	}

	if _, err := s.Write([]byte(input)); err != nil {
		return failure(err.Error())
	}
	return success(map[string]interface{}{"success": true})
}

func (p *Provider) read(params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	s, err := p.lookup(params, appCtx)
	if err != nil {
		return failure(err.Error())
	}

	output := s.Read()

	// Encode output as base64 to handle binary data
	return success(map[string]interface{}{
		"output":        string(output),
		"output_base64": base64.StdEncoding.EncodeToString(output),
		"length":        len(output),
	})
}

func (p *Provider) snapshot(params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	s, err := p.lookup(params, appCtx)
	if err != nil {
		return failure(err.Error())
	}
	return success(map[string]interface{}{"text": s.Snapshot()})
}

func (p *Provider) resize(params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	s, err := p.lookup(params, appCtx)
	if err != nil {
		return failure(err.Error())
	}

	cols, rows, ok := dimensions(params)
	if !ok {
		return failure("cols and rows are required")
	}
	if err := s.Resize(cols, rows); err != nil {
		return failure(err.Error())
	}
	return success(map[string]interface{}{"success": true})
}

func (p *Provider) listSessions(params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	reg, err := p.registry(params, appCtx)
	if err != nil {
		return failure(err.Error())
	}

	sessions := reg.List()
	infos := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, s.Info())
	}
	return success(map[string]interface{}{"sessions": infos, "count": len(infos)})
}

func (p *Provider) getSession(params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	s, err := p.lookup(params, appCtx)
	if err != nil {
		return failure(err.Error())
	}
	return success(infoData(s.Info()))
}

func (p *Provider) kill(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	s, err := p.lookup(params, appCtx)
	if err != nil {
		return failure(err.Error())
	}

	reg, err := p.registry(params, appCtx)
	if err != nil {
		return failure(err.Error())
	}
	if err := reg.Remove(ctx, s.Identity()); err != nil {
		return failure(err.Error())
	}

	p.log.Info("Terminal session killed", zap.String("session", s.ID().String()))
	return success(map[string]interface{}{"success": true})
}

func dimensions(params map[string]interface{}) (cols, rows int, ok bool) {
	c, okCols := number(params["cols"])
	r, okRows := number(params["rows"])
	return c, r, okCols && okRows
}

func number(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}

func infoData(info SessionInfo) map[string]interface{} {
	data := map[string]interface{}{
		"id":       info.ID,
		"identity": info.Identity,
		"shell":    info.Shell,
		"pid":      info.Pid,
		"cols":     info.Cols,
		"rows":     info.Rows,
		"state":    info.State.String(),
		"views":    info.Views,
		"active":   info.Active,
	}
	if !info.StartedAt.IsZero() {
		data["started_at"] = info.StartedAt
	}
	if info.ExitCode != nil {
		data["exit_code"] = *info.ExitCode
	}
	return data
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	errMsg := message
	return &types.Result{Success: false, Error: &errMsg}, nil
}
