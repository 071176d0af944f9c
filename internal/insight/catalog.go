package insight

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/solacehq/solace-backend/internal/apierr"
	"github.com/solacehq/solace-backend/internal/logger"
	"github.com/solacehq/solace-backend/internal/types"
)

// ThemeSource is the backing store the catalog loads from, ordered by name.
type ThemeSource interface {
	ListAll(ctx context.Context) ([]types.Theme, error)
}

// Catalog is a process-lifetime cache of theme definitions, populated on
// first use. Concurrent first requests share a single load. Invalidate
// forces the next request to reload.
type Catalog struct {
	source ThemeSource
	log    *logger.Logger
	group  singleflight.Group

	mu     sync.RWMutex
	themes []types.Theme
}

func NewCatalog(source ThemeSource, baseLog *logger.Logger) *Catalog {
	return &Catalog{source: source, log: baseLog.With("component", "ThemeCatalog")}
}

func (c *Catalog) Themes(ctx context.Context) ([]types.Theme, error) {
	c.mu.RLock()
	cached := c.themes
	c.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := c.group.Do("load", func() (interface{}, error) {
		themes, err := c.source.ListAll(ctx)
		if err != nil {
			return nil, apierr.New(http.StatusInternalServerError, "THEMES_ERROR",
				fmt.Errorf("load theme catalog: %w", err))
		}
		if len(themes) == 0 {
			return nil, apierr.New(http.StatusInternalServerError, "THEMES_ERROR",
				errors.New("theme catalog is empty"))
		}
		c.mu.Lock()
		c.themes = themes
		c.mu.Unlock()
		c.log.Debug("Theme catalog loaded", "themes", len(themes))
		return themes, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]types.Theme), nil
}

func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.themes = nil
	c.mu.Unlock()
	c.log.Info("Theme catalog invalidated")
}
