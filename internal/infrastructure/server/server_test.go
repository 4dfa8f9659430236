package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/termhost/internal/infrastructure/config"
	"github.com/GriffinCanCode/termhost/internal/providers/theme"
)

const solarized = `id: solarized
name: Solarized
type: dark
terminal:
  cursor: "#93a1a1"
  selection: "#073642"
  text: "#839496"
  background: "#002b36"
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	themes := filepath.Join(dir, "themes")
	require.NoError(t, os.MkdirAll(themes, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(themes, "solarized.yaml"), []byte(solarized), 0o644))

	cfg := config.Default()
	cfg.Logging.Level = "error"
	cfg.Themes.Dir = themes
	cfg.Themes.Default = "solarized"
	cfg.Settings.Path = filepath.Join(dir, "settings.yaml")
	return cfg
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	return w
}

func TestNewServer(t *testing.T) {
	cfg := testConfig(t)
	s, err := NewServer(cfg)
	require.NoError(t, err)

	assert.Equal(t, "solarized", s.themes.Catalog().Current())
	assert.Equal(t, theme.MustParseColor("#93a1a1"), s.themes.Palette().Cursor)

	services := s.registry.List(nil)
	ids := make([]string, 0, len(services))
	for _, svc := range services {
		ids = append(ids, svc.ID)
	}
	assert.ElementsMatch(t, []string{"terminal", "theme", "settings"}, ids)
}

func TestRoutes(t *testing.T) {
	s, err := NewServer(testConfig(t))
	require.NoError(t, err)

	w := get(s, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = get(s, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "termhost_http_requests_total")

	w = get(s, "/metrics/json")
	assert.Equal(t, http.StatusOK, w.Code)
	var snapshot map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.Contains(t, snapshot, "uptime_seconds")

	w = get(s, "/workspaces/missing/terminal")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOpenWorkspaceThroughRouter(t *testing.T) {
	s, err := NewServer(testConfig(t))
	require.NoError(t, err)

	body := strings.NewReader(`{"root":"` + t.TempDir() + `"}`)
	req := httptest.NewRequest("POST", "/workspaces", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 1, s.Workspaces().Count())
}

func TestShutdownPersistsSettings(t *testing.T) {
	cfg := testConfig(t)
	s, err := NewServer(cfg)
	require.NoError(t, err)

	require.NoError(t, s.settings.Set("terminal.shell", "zsh"))
	require.NoError(t, s.Shutdown(t.Context()))

	data, err := os.ReadFile(cfg.Settings.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "zsh")
	assert.Equal(t, 0, s.Workspaces().Count())
}
