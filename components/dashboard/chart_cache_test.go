package dashboard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderKey(widgetID string) RenderKey {
	return RenderKey{WidgetID: widgetID, Type: WidgetBar, ConfigHash: "empty"}
}

func TestChartCacheMemoizes(t *testing.T) {
	cache := NewChartCache(time.Minute)
	calls := 0
	render := func() (string, error) {
		calls++
		return "<div>chart</div>", nil
	}

	first, err := cache.GetOrRender(renderKey("w1"), render)
	require.NoError(t, err)
	second, err := cache.GetOrRender(renderKey("w1"), render)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestChartCacheKeysByConfigHash(t *testing.T) {
	cache := NewChartCache(time.Minute)
	calls := 0
	render := func() (string, error) {
		calls++
		return "x", nil
	}

	old := RenderKey{WidgetID: "w1", Type: WidgetBar, ConfigHash: "aaa"}
	changed := RenderKey{WidgetID: "w1", Type: WidgetBar, ConfigHash: "bbb"}
	_, _ = cache.GetOrRender(old, render)
	_, _ = cache.GetOrRender(changed, render)
	assert.Equal(t, 2, calls)
}

func TestChartCacheInvalidateDropsOneWidget(t *testing.T) {
	cache := NewChartCache(time.Minute)
	calls := map[string]int{}
	render := func(id string) func() (string, error) {
		return func() (string, error) {
			calls[id]++
			return id, nil
		}
	}

	_, _ = cache.GetOrRender(renderKey("w1"), render("w1"))
	_, _ = cache.GetOrRender(renderKey("w2"), render("w2"))

	cache.Invalidate("w1")

	_, _ = cache.GetOrRender(renderKey("w1"), render("w1"))
	_, _ = cache.GetOrRender(renderKey("w2"), render("w2"))
	assert.Equal(t, 2, calls["w1"])
	assert.Equal(t, 1, calls["w2"])
}

func TestChartCacheDoesNotStoreFailures(t *testing.T) {
	cache := NewChartCache(time.Minute)
	boom := errors.New("render failed")
	_, err := cache.GetOrRender(renderKey("w1"), func() (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)

	html, err := cache.GetOrRender(renderKey("w1"), func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", html)
}

func TestChartCacheZeroTTLDisables(t *testing.T) {
	cache := NewChartCache(0)
	calls := 0
	render := func() (string, error) {
		calls++
		return "x", nil
	}
	_, _ = cache.GetOrRender(renderKey("w1"), render)
	_, _ = cache.GetOrRender(renderKey("w1"), render)
	assert.Equal(t, 2, calls)
}

func TestConfigHashDeterministic(t *testing.T) {
	a := configHash(map[string]any{"widget_type": "kpi", "size": map[string]any{"width": 1}})
	b := configHash(map[string]any{"widget_type": "kpi", "size": map[string]any{"width": 1}})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, configHash(map[string]any{"widget_type": "bar"}))
	assert.Equal(t, "empty", configHash(nil))
}
