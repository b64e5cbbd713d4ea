package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRejectsUnknownWidgetType(t *testing.T) {
	assert.Nil(t, NormalizeWidgetConfig(map[string]any{"widget_type": "bogus"}))
	assert.Nil(t, NormalizeWidgetConfig(map[string]any{"widget_type": 42}))
	assert.Nil(t, NormalizeWidgetConfig(map[string]any{}))
	assert.Nil(t, NormalizeWidgetConfig(nil))
}

func TestNormalizeMinimalKPI(t *testing.T) {
	cfg := NormalizeWidgetConfig(map[string]any{"widget_type": "kpi"})
	require.NotNil(t, cfg)
	assert.Equal(t, WidgetKPI, cfg.Type)
	assert.Equal(t, FormatNumber2, cfg.KPIShowAs)
	assert.Equal(t, []Metric{}, cfg.Metrics)
	assert.Equal(t, 1, cfg.Size.Width)
	assert.Equal(t, 1.0, cfg.Size.Height)
}

func TestNormalizeNeverPanicsOnGarbage(t *testing.T) {
	cfg := NormalizeWidgetConfig(map[string]any{
		"widget_type":     "line",
		"metrics":         "not a list",
		"dimensions":      []any{1, nil, "regiao"},
		"filters":         []any{"x", map[string]any{"op": "eq"}},
		"order_by":        []any{"bad"},
		"size":            map[string]any{"width": "wide", "height": 0.75},
		"line_labels":     map[string]any{"window": 4, "sensitivity": 400, "min_gap": -2, "mode": "sideways"},
		"table_page_size": 10_000,
		"text_style":      map[string]any{"font_size": 7, "align": "justify"},
	})
	require.NotNil(t, cfg)
	assert.Equal(t, []Metric{}, cfg.Metrics)
	assert.Equal(t, []string{"regiao"}, cfg.Dimensions)
	assert.Equal(t, []Filter{}, cfg.Filters)
	assert.Equal(t, OrderBy{}, cfg.OrderBy)
	assert.Equal(t, WidgetSize{Width: 1, Height: 1}, cfg.Size)
	assert.Equal(t, LineLabelConfig{Mode: EventPeaks, Window: 3, Sensitivity: 85, MinGap: 2}, cfg.LineLabels)
	assert.Equal(t, 100, cfg.TablePageSize)
	assert.Equal(t, 12, cfg.Text.FontSize)
	assert.Equal(t, "left", cfg.Text.Align)
}

func TestNormalizeMetricsAndFilters(t *testing.T) {
	cfg := NormalizeWidgetConfig(map[string]any{
		"widget_type": "bar",
		"metrics": []any{
			map[string]any{"aggregation": "sum", "column": "valor"},
			map[string]any{"aggregation": "median", "column": "valor"},
			map[string]any{"aggregation": "count"},
		},
		"filters": []any{
			map[string]any{"column": "uf", "op": "eq", "value": "SP"},
			map[string]any{"op": "eq", "value": "ignored"},
		},
		"order_by": map[string]any{"column": "valor", "direction": "down"},
	})
	require.NotNil(t, cfg)
	require.Len(t, cfg.Metrics, 2)
	assert.Equal(t, Metric{Aggregation: AggSum, Column: "valor"}, cfg.Metrics[0])
	assert.Equal(t, Metric{Aggregation: AggCount}, cfg.Metrics[1])
	require.Len(t, cfg.Filters, 1)
	assert.Equal(t, "uf", cfg.Filters[0].Column)
	assert.Equal(t, OrderBy{Column: "valor", Direction: "asc"}, cfg.OrderBy)
}

func TestNormalizeDRERows(t *testing.T) {
	cfg := NormalizeWidgetConfig(map[string]any{
		"widget_type": "dre",
		"dre_rows": []any{
			map[string]any{"key": "receita", "label": "Receita Bruta", "row_type": "result"},
			map[string]any{"key": "impostos", "row_type": "deduction"},
			map[string]any{"key": "frete", "row_type": "weird"},
			map[string]any{"label": "sem chave"},
		},
		"dre_base_row": "receita",
	})
	require.NotNil(t, cfg)
	require.Len(t, cfg.DRERows, 3)
	assert.Equal(t, DRERowConfig{Key: "receita", Label: "Receita Bruta", RowType: DRERowResult}, cfg.DRERows[0])
	assert.Equal(t, "impostos", cfg.DRERows[1].Label)
	assert.Equal(t, DRERowDeduction, cfg.DRERows[1].RowType)
	assert.Equal(t, DRERowDetail, cfg.DRERows[2].RowType)
	assert.Equal(t, "receita", cfg.DREBaseRow)
}

func TestNormalizeDonutAndComposite(t *testing.T) {
	cfg := NormalizeWidgetConfig(map[string]any{
		"widget_type": "donut",
		"donut":       map[string]any{"show_as": "value", "min_label_percent": 150},
		"composite_metric": map[string]any{
			"enabled":     true,
			"outer":       "max",
			"inner":       "sum",
			"column":      "valor",
			"granularity": "month",
		},
	})
	require.NotNil(t, cfg)
	assert.Equal(t, "value", cfg.Donut.ShowAs)
	assert.Equal(t, 5.0, cfg.Donut.MinLabelPercent)
	assert.True(t, cfg.CompositeMetric.Enabled)
	assert.Equal(t, AggMax, cfg.CompositeMetric.Outer)
	assert.Equal(t, GranularityMonth, cfg.CompositeMetric.Granularity)
}

func TestNormalizeSizeValues(t *testing.T) {
	cfg := NormalizeWidgetConfig(map[string]any{
		"widget_type": "bar",
		"size":        map[string]any{"width": float64(3), "height": 0.5},
	})
	require.NotNil(t, cfg)
	assert.Equal(t, WidgetSize{Width: 3, Height: 0.5}, cfg.Size)

	cfg = NormalizeWidgetConfig(map[string]any{
		"widget_type": "bar",
		"size":        map[string]any{"width": 9, "height": 2.0},
	})
	require.NotNil(t, cfg)
	assert.Equal(t, WidgetSize{Width: 1, Height: 1}, cfg.Size)
}
