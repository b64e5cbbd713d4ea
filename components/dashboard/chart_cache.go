package dashboard

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

// RenderKey identifies one rendered chart. Keys are deterministic, so a
// re-render after a config change naturally supersedes any stale in-flight
// result for the old key instead of requiring cancellation.
type RenderKey struct {
	WidgetID   string
	Type       WidgetType
	ConfigHash string
}

// RenderCache memoizes rendered chart HTML so repeated fetches are cheap.
type RenderCache interface {
	GetOrRender(key RenderKey, render func() (string, error)) (string, error)
}

// ChartCache is an in-memory TTL cache for rendered charts, bucketed by
// widget so a single widget's entries can be dropped without touching the
// rest of the dashboard.
type ChartCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	widgets map[string]map[RenderKey]cachedChart
}

type cachedChart struct {
	html    string
	expires time.Time
}

// NewChartCache builds a cache with the provided TTL. A zero or negative TTL
// disables caching.
func NewChartCache(ttl time.Duration) *ChartCache {
	return &ChartCache{
		ttl:     ttl,
		widgets: make(map[string]map[RenderKey]cachedChart),
	}
}

// GetOrRender returns a cached entry or renders/stores a new one. Render
// failures are returned without being cached.
func (c *ChartCache) GetOrRender(key RenderKey, render func() (string, error)) (string, error) {
	if html, ok := c.get(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.set(key, html)
	return html, nil
}

// Invalidate drops every cached render for the widget.
func (c *ChartCache) Invalidate(widgetID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.widgets, widgetID)
	c.mu.Unlock()
}

func (c *ChartCache) get(key RenderKey) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	c.mu.RLock()
	entry, ok := c.widgets[key.WidgetID][key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if time.Now().After(entry.expires) {
		c.mu.Lock()
		delete(c.widgets[key.WidgetID], key)
		c.mu.Unlock()
		return "", false
	}
	return entry.html, true
}

func (c *ChartCache) set(key RenderKey, html string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	bucket := c.widgets[key.WidgetID]
	if bucket == nil {
		bucket = make(map[RenderKey]cachedChart)
		c.widgets[key.WidgetID] = bucket
	}
	bucket[key] = cachedChart{
		html:    html,
		expires: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// configHash returns a deterministic hash for a widget configuration blob.
func configHash(cfg map[string]any) string {
	if len(cfg) == 0 {
		return "empty"
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
