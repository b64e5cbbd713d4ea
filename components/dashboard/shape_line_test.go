package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineConfig(extra map[string]any) *WidgetConfig {
	raw := map[string]any{
		"widget_type": "line",
		"metrics": []any{
			map[string]any{"aggregation": "sum", "column": "valor"},
			map[string]any{"aggregation": "count"},
		},
	}
	for k, v := range extra {
		raw[k] = v
	}
	return NormalizeWidgetConfig(raw)
}

func TestShapeLineSortsByTimeBucket(t *testing.T) {
	data, err := ShapeWidgetData(lineConfig(nil), RowSet{Rows: []map[string]any{
		{"time_bucket": "2024-03-02", "m0": 20.0, "m1": 2.0},
		{"time_bucket": "2024-03-01", "m0": 10.0, "m1": 1.0},
		{"time_bucket": "2024-03-10", "m0": 30.0, "m1": 3.0},
	}})
	require.NoError(t, err)
	require.NotNil(t, data.Line)
	assert.Equal(t, []string{"2024-03-01", "2024-03-02", "2024-03-10"}, data.Line.Buckets)
	require.Len(t, data.Line.Series, 2)
	assert.Equal(t, []float64{10, 20, 30}, data.Line.Series[0].Values)
	assert.Equal(t, []float64{1, 2, 3}, data.Line.Series[1].Values)
}

func TestShapeLineLexicographicFallback(t *testing.T) {
	// Non-date buckets sort as strings; "2024-03-10" as a date would come
	// after "2024-03-02" either way, but month names do not parse as dates.
	data, err := ShapeWidgetData(lineConfig(nil), RowSet{Rows: []map[string]any{
		{"time_bucket": "fev", "m0": 2.0},
		{"time_bucket": "abr", "m0": 4.0},
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"abr", "fev"}, data.Line.Buckets)
}

func TestShapeLineAxisAssignment(t *testing.T) {
	data, err := ShapeWidgetData(lineConfig(nil), RowSet{Rows: []map[string]any{
		{"time_bucket": "2024-03-01", "m0": 1.0, "m1": 2.0},
	}})
	require.NoError(t, err)
	assert.Equal(t, AxisLeft, data.Line.Series[0].Axis)
	assert.Equal(t, AxisRight, data.Line.Series[1].Axis)
	assert.True(t, data.Line.ShowLeftAxis)
	assert.True(t, data.Line.ShowRightAxis)
}

func TestShapeLineSingleMetricHidesRightAxis(t *testing.T) {
	cfg := NormalizeWidgetConfig(map[string]any{
		"widget_type": "line",
		"metrics":     []any{map[string]any{"aggregation": "sum", "column": "valor"}},
	})
	data, err := ShapeWidgetData(cfg, RowSet{Rows: []map[string]any{
		{"time_bucket": "2024-03-01", "m0": 1.0},
	}})
	require.NoError(t, err)
	assert.True(t, data.Line.ShowLeftAxis)
	assert.False(t, data.Line.ShowRightAxis)
}

func TestShapeLineLabelsUseDetector(t *testing.T) {
	cfg := NormalizeWidgetConfig(map[string]any{
		"widget_type": "line",
		"metrics":     []any{map[string]any{"aggregation": "sum", "column": "valor"}},
		"line_labels": map[string]any{"enabled": true, "window": 3, "sensitivity": 100.0, "min_gap": 1},
	})
	rows := []map[string]any{}
	values := []float64{0, 0, 0, 10, 0, 0, 0}
	for i, v := range values {
		rows = append(rows, map[string]any{
			"time_bucket": "2024-03-0" + string(rune('1'+i)),
			"m0":          v,
		})
	}
	data, err := ShapeWidgetData(cfg, RowSet{Rows: rows})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, data.Line.Series[0].LabelIndices)
}

func TestShapeLineLabelsDisabledByDefault(t *testing.T) {
	data, err := ShapeWidgetData(lineConfig(nil), RowSet{Rows: []map[string]any{
		{"time_bucket": "2024-03-01", "m0": 0.0},
		{"time_bucket": "2024-03-02", "m0": 10.0},
		{"time_bucket": "2024-03-03", "m0": 0.0},
	}})
	require.NoError(t, err)
	assert.Empty(t, data.Line.Series[0].LabelIndices)
}
