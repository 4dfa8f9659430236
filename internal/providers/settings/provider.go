package settings

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

// Provider exposes the preference store as a service
type Provider struct {
	store *Store
	log   *zap.Logger
}

// NewProvider creates a settings provider over store
func NewProvider(store *Store, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{store: store, log: logger}
}

// Store returns the underlying preference store
func (s *Provider) Store() *Store {
	return s.store
}

// Definition returns service metadata
func (s *Provider) Definition() types.Service {
	return types.Service{
		ID:          "settings",
		Name:        "Settings Service",
		Description: "Terminal preferences: shell, font, meta key, background and appearance",
		Category:    types.CategorySettings,
		Capabilities: []string{
			"get",
			"set",
			"list",
			"reset",
			"export",
			"import",
		},
		Tools: []types.Tool{
			{
				ID:          "settings.get",
				Name:        "Get Setting",
				Description: "Get a configuration setting value",
				Parameters: []types.Parameter{
					{Name: "key", Type: "string", Description: "Setting key", Required: true},
				},
				Returns: "Setting",
			},
			{
				ID:          "settings.set",
				Name:        "Set Setting",
				Description: "Set a configuration setting value",
				Parameters: []types.Parameter{
					{Name: "key", Type: "string", Description: "Setting key", Required: true},
					{Name: "value", Type: "any", Description: "Setting value", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "settings.list",
				Name:        "List Settings",
				Description: "List all settings optionally filtered by category",
				Parameters: []types.Parameter{
					{Name: "category", Type: "string", Description: "Category filter (optional)", Required: false},
				},
				Returns: "array",
			},
			{
				ID:          "settings.reset",
				Name:        "Reset Setting",
				Description: "Reset a setting to its default value",
				Parameters: []types.Parameter{
					{Name: "key", Type: "string", Description: "Setting key", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "settings.export",
				Name:        "Export Settings",
				Description: "Export all settings as an object",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID:          "settings.import",
				Name:        "Import Settings",
				Description: "Import settings from an object",
				Parameters: []types.Parameter{
					{Name: "settings", Type: "object", Description: "Settings to import", Required: true},
				},
				Returns: "number",
			},
			{
				ID:          "settings.categories",
				Name:        "List Categories",
				Description: "Get all setting categories",
				Parameters:  []types.Parameter{},
				Returns:     "array",
			},
		},
	}
}

// Execute runs a settings operation
func (s *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "settings.get":
		return s.get(params)
	case "settings.set":
		return s.set(params)
	case "settings.list":
		return s.list(params)
	case "settings.reset":
		return s.reset(params)
	case "settings.export":
		return success(map[string]interface{}{"settings": s.store.Export()})
	case "settings.import":
		return s.importSettings(params)
	case "settings.categories":
		return success(map[string]interface{}{"categories": s.store.Categories()})
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (s *Provider) get(params map[string]interface{}) (*types.Result, error) {
	key, ok := params["key"].(string)
	if !ok || key == "" {
		return failure("key parameter required")
	}

	setting, ok := s.store.Get(key)
	if !ok {
		return failure(fmt.Sprintf("setting not found: %s", key))
	}

	return success(map[string]interface{}{
		"key":         setting.Key,
		"value":       setting.Value,
		"type":        setting.Type,
		"category":    setting.Category,
		"description": setting.Description,
		"default":     setting.Default,
	})
}

func (s *Provider) set(params map[string]interface{}) (*types.Result, error) {
	key, ok := params["key"].(string)
	if !ok || key == "" {
		return failure("key parameter required")
	}

	value := params["value"]
	if value == nil {
		return failure("value parameter required")
	}

	if err := s.store.Set(key, value); err != nil {
		return failure(err.Error())
	}
	s.persist()

	return success(map[string]interface{}{"stored": true, "key": key})
}

func (s *Provider) list(params map[string]interface{}) (*types.Result, error) {
	category, _ := params["category"].(string)
	settings := s.store.List(category)
	return success(map[string]interface{}{"settings": settings, "count": len(settings)})
}

func (s *Provider) reset(params map[string]interface{}) (*types.Result, error) {
	key, ok := params["key"].(string)
	if !ok || key == "" {
		return failure("key parameter required")
	}

	value, err := s.store.Reset(key)
	if err != nil {
		return failure(err.Error())
	}
	s.persist()

	return success(map[string]interface{}{"reset": true, "key": key, "value": value})
}

func (s *Provider) importSettings(params map[string]interface{}) (*types.Result, error) {
	values, ok := params["settings"].(map[string]interface{})
	if !ok {
		return failure("settings parameter must be an object")
	}

	count := s.store.Import(values)
	s.persist()

	return success(map[string]interface{}{"imported": count})
}

// persist saves the store; failures are logged, the in-memory value stays applied.
func (s *Provider) persist() {
	if err := s.store.Save(); err != nil {
		s.log.Warn("Failed to persist settings", zap.Error(err))
	}
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	errMsg := message
	return &types.Result{Success: false, Error: &errMsg}, nil
}
