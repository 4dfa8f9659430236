package theme

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrThemeNotFound = errors.New("theme not found")
	ErrBuiltinTheme  = errors.New("cannot delete built-in theme")
	ErrInvalidTheme  = errors.New("invalid theme")
)

// Catalog is the ordered set of known themes plus the current selection.
// An empty selection means "no theme": projections use the default palette.
type Catalog struct {
	mu      sync.RWMutex
	order   []string
	themes  map[string]Theme
	current string
	log     *zap.Logger
}

// NewCatalog creates a catalog seeded with the built-in themes and no selection.
func NewCatalog(logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Catalog{
		themes: make(map[string]Theme),
		log:    logger,
	}
	for _, t := range Builtins() {
		c.put(t)
	}
	return c
}

// Add inserts or replaces a theme. Replacing keeps the original position.
func (c *Catalog) Add(t Theme) error {
	if t.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidTheme)
	}
	if t.Type == "" {
		t.Type = "custom"
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(t)
	return nil
}

func (c *Catalog) put(t Theme) {
	if _, exists := c.themes[t.ID]; !exists {
		c.order = append(c.order, t.ID)
	}
	c.themes[t.ID] = t
}

// Get returns the theme with the given id.
func (c *Catalog) Get(id string) (Theme, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.themes[id]
	return t, ok
}

// List returns all themes in insertion order.
func (c *Catalog) List() []Theme {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Theme, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.themes[id])
	}
	return out
}

// Current returns the selected theme id, or "" when nothing is selected.
func (c *Catalog) Current() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Select makes id the current theme. An empty id clears the selection.
func (c *Catalog) Select(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id != "" {
		if _, ok := c.themes[id]; !ok {
			return fmt.Errorf("%w: %s", ErrThemeNotFound, id)
		}
	}
	c.current = id
	c.log.Debug("Theme selected", zap.String("theme", id))
	return nil
}

// Delete removes a custom theme. Deleting the current theme clears the selection.
func (c *Catalog) Delete(id string) error {
	if IsBuiltin(id) {
		return ErrBuiltinTheme
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.themes[id]; !ok {
		return fmt.Errorf("%w: %s", ErrThemeNotFound, id)
	}
	delete(c.themes, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if c.current == id {
		c.current = ""
	}
	return nil
}

// Len returns the number of known themes.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.themes)
}
