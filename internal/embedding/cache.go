package embedding

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"semspace/internal/domain"
)

// Cache memoises loaded embedding spaces by name. Concurrent requests for the
// same space share one load; failed loads are not cached.
type Cache struct {
	provider domain.Provider
	group    singleflight.Group
	mu       sync.RWMutex
	spaces   map[string]domain.EmbeddingSpace
}

func NewCache(provider domain.Provider) *Cache {
	return &Cache{provider: provider, spaces: make(map[string]domain.EmbeddingSpace)}
}

// Load returns the cached space for name, loading it on first use.
func (c *Cache) Load(name string) (domain.EmbeddingSpace, error) {
	c.mu.RLock()
	s, ok := c.spaces[name]
	c.mu.RUnlock()
	if ok {
		return s, nil
	}
	v, err, _ := c.group.Do(name, func() (any, error) {
		c.mu.RLock()
		s, ok := c.spaces[name]
		c.mu.RUnlock()
		if ok {
			return s, nil
		}
		start := time.Now()
		slog.Info("loading embedding space", "space", name)
		s, err := c.provider.Load(name)
		if err != nil {
			slog.Error("embedding space load failed", "space", name, "error", err)
			return nil, err
		}
		slog.Info("embedding space loaded", "space", name, "dimension", s.Dimension(), "elapsed", time.Since(start))
		c.mu.Lock()
		c.spaces[name] = s
		c.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(domain.EmbeddingSpace), nil
}

// Loaded reports whether name has already been loaded.
func (c *Cache) Loaded(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.spaces[name]
	return ok
}
