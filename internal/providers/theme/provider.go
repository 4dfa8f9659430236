package theme

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/termhost/internal/providers/settings"
	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

// PreferenceSource supplies the current terminal preferences.
type PreferenceSource interface {
	Terminal() settings.TerminalPreferences
}

// Provider implements theme management
type Provider struct {
	catalog   *Catalog
	loader    *Loader
	projector *Projector
	prefs     PreferenceSource
	dir       string
	log       *zap.Logger
}

// NewProvider creates a theme provider. Custom themes are persisted under dir
// when it is non-empty.
func NewProvider(catalog *Catalog, prefs PreferenceSource, dir string, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		catalog:   catalog,
		loader:    NewLoader(logger),
		projector: NewProjector(logger),
		prefs:     prefs,
		dir:       dir,
		log:       logger,
	}
}

// Catalog returns the underlying theme catalog
func (t *Provider) Catalog() *Catalog {
	return t.catalog
}

// Palette projects the current selection and preferences.
func (t *Provider) Palette() Palette {
	prefs := settings.DefaultTerminalPreferences()
	if t.prefs != nil {
		prefs = t.prefs.Terminal()
	}
	return t.projector.Project(t.catalog.Current(), t.catalog.List(), prefs)
}

// Definition returns service metadata
func (t *Provider) Definition() types.Service {
	return types.Service{
		ID:          "theme",
		Name:        "Theme Manager",
		Description: "Manage terminal themes and appearance",
		Category:    types.CategoryAppearance,
		Capabilities: []string{
			"list",
			"get",
			"set",
			"create",
			"delete",
			"palette",
		},
		Tools: []types.Tool{
			{
				ID:          "theme.list",
				Name:        "List Themes",
				Description: "List all available themes",
				Parameters:  []types.Parameter{},
				Returns:     "array",
			},
			{
				ID:          "theme.get",
				Name:        "Get Theme",
				Description: "Get a theme by ID",
				Parameters: []types.Parameter{
					{Name: "id", Type: "string", Description: "Theme ID", Required: true},
				},
				Returns: "Theme",
			},
			{
				ID:          "theme.current",
				Name:        "Get Current Theme",
				Description: "Get the currently selected theme",
				Parameters:  []types.Parameter{},
				Returns:     "Theme",
			},
			{
				ID:          "theme.set",
				Name:        "Set Theme",
				Description: "Select the active theme; an empty id clears the selection",
				Parameters: []types.Parameter{
					{Name: "id", Type: "string", Description: "Theme ID", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "theme.create",
				Name:        "Create Theme",
				Description: "Create a custom theme",
				Parameters: []types.Parameter{
					{Name: "theme", Type: "object", Description: "Theme definition", Required: true},
				},
				Returns: "Theme",
			},
			{
				ID:          "theme.delete",
				Name:        "Delete Theme",
				Description: "Delete a custom theme",
				Parameters: []types.Parameter{
					{Name: "id", Type: "string", Description: "Theme ID", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "theme.palette",
				Name:        "Terminal Palette",
				Description: "Resolve the palette terminals are drawn with",
				Parameters:  []types.Parameter{},
				Returns:     "Palette",
			},
		},
	}
}

// Execute runs a theme operation
func (t *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "theme.list":
		return t.list()
	case "theme.get":
		return t.get(params)
	case "theme.current":
		return t.current()
	case "theme.set":
		return t.set(params)
	case "theme.create":
		return t.create(params)
	case "theme.delete":
		return t.delete(params)
	case "theme.palette":
		return success(map[string]interface{}{"palette": t.Palette()})
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (t *Provider) list() (*types.Result, error) {
	themes := t.catalog.List()
	return success(map[string]interface{}{"themes": themes, "count": len(themes)})
}

func (t *Provider) get(params map[string]interface{}) (*types.Result, error) {
	id, ok := params["id"].(string)
	if !ok || id == "" {
		return failure("id parameter required")
	}

	theme, ok := t.catalog.Get(id)
	if !ok {
		return failure(fmt.Sprintf("theme not found: %s", id))
	}
	return success(map[string]interface{}{"theme": theme})
}

func (t *Provider) current() (*types.Result, error) {
	id := t.catalog.Current()
	if id == "" {
		return success(map[string]interface{}{"theme": nil, "default": true})
	}
	return t.get(map[string]interface{}{"id": id})
}

func (t *Provider) set(params map[string]interface{}) (*types.Result, error) {
	id, ok := params["id"].(string)
	if !ok {
		return failure("id parameter required")
	}

	if err := t.catalog.Select(id); err != nil {
		return failure(err.Error())
	}
	return success(map[string]interface{}{"set": true, "theme": id})
}

func (t *Provider) create(params map[string]interface{}) (*types.Result, error) {
	themeData, ok := params["theme"].(map[string]interface{})
	if !ok {
		return failure("theme parameter must be an object")
	}

	raw, err := sonic.Marshal(themeData)
	if err != nil {
		return failure(fmt.Sprintf("failed to serialize theme: %v", err))
	}

	theme, err := t.loader.Decode(".json", raw)
	if err != nil {
		return failure(fmt.Sprintf("failed to parse theme: %v", err))
	}
	if IsBuiltin(theme.ID) {
		return failure("cannot replace built-in theme")
	}

	if err := t.catalog.Add(theme); err != nil {
		return failure(err.Error())
	}

	if t.dir != "" {
		if _, err := t.loader.Save(t.dir, theme); err != nil {
			t.log.Warn("Failed to persist theme", zap.String("theme", theme.ID), zap.Error(err))
		}
	}

	return success(map[string]interface{}{
		"created": true,
		"theme":   theme,
	})
}

func (t *Provider) delete(params map[string]interface{}) (*types.Result, error) {
	id, ok := params["id"].(string)
	if !ok || id == "" {
		return failure("id parameter required")
	}

	if err := t.catalog.Delete(id); err != nil {
		if errors.Is(err, ErrBuiltinTheme) {
			return failure("cannot delete built-in theme")
		}
		return failure(err.Error())
	}

	if t.dir != "" {
		if err := t.loader.Remove(t.dir, id); err != nil {
			t.log.Warn("Failed to remove theme file", zap.String("theme", id), zap.Error(err))
		}
	}

	return success(map[string]interface{}{"deleted": true, "id": id})
}

// Helper functions
func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	errMsg := message
	return &types.Result{Success: false, Error: &errMsg}, nil
}
