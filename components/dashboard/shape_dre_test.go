package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dreConfig(rows []any, baseRow string) *WidgetConfig {
	raw := map[string]any{
		"widget_type": "dre",
		"metrics":     []any{map[string]any{"aggregation": "sum", "column": "valor"}},
		"dre_rows":    rows,
	}
	if baseRow != "" {
		raw["dre_base_row"] = baseRow
	}
	return NormalizeWidgetConfig(raw)
}

func TestShapeDREDeductionAgainstResultBase(t *testing.T) {
	cfg := dreConfig([]any{
		map[string]any{"key": "receita", "label": "Receita", "row_type": "result"},
		map[string]any{"key": "impostos", "label": "Impostos", "row_type": "deduction"},
	}, "")
	data, err := ShapeWidgetData(cfg, RowSet{Rows: []map[string]any{
		{"key": "receita", "m0": 100.0},
		{"key": "impostos", "m0": 30.0},
	}})
	require.NoError(t, err)
	require.NotNil(t, data.DRE)
	require.Len(t, data.DRE.Rows, 2)

	deduction := data.DRE.Rows[1]
	assert.Equal(t, -30.0, deduction.Value)
	assert.InDelta(t, 30.0, deduction.PercentOfBase, 1e-9)
	assert.Equal(t, "(R$ 30,00)", deduction.Display)
	assert.True(t, deduction.Parenthesized)

	result := data.DRE.Rows[0]
	assert.Equal(t, 100.0, result.Value)
	assert.Equal(t, "R$ 100,00", result.Display)
	assert.False(t, result.Parenthesized)
	assert.Equal(t, 100.0, data.DRE.Base)
}

func TestShapeDREExplicitBaseRow(t *testing.T) {
	cfg := dreConfig([]any{
		map[string]any{"key": "receita", "row_type": "result"},
		map[string]any{"key": "lucro", "row_type": "result"},
		map[string]any{"key": "frete", "row_type": "detail"},
	}, "receita")
	data, err := ShapeWidgetData(cfg, RowSet{Rows: []map[string]any{
		{"key": "receita", "m0": 200.0},
		{"key": "lucro", "m0": 50.0},
		{"key": "frete", "m0": 20.0},
	}})
	require.NoError(t, err)
	assert.Equal(t, 200.0, data.DRE.Base)
	assert.InDelta(t, 10.0, data.DRE.Rows[2].PercentOfBase, 1e-9)
}

func TestShapeDREFallsBackToResultSum(t *testing.T) {
	// Base row key does not exist, so the divisor falls back to the sum of
	// absolute result values.
	cfg := dreConfig([]any{
		map[string]any{"key": "receita", "row_type": "result"},
		map[string]any{"key": "lucro", "row_type": "result"},
	}, "inexistente")
	data, err := ShapeWidgetData(cfg, RowSet{Rows: []map[string]any{
		{"key": "receita", "m0": 100.0},
		{"key": "lucro", "m0": -50.0},
	}})
	require.NoError(t, err)
	assert.Equal(t, 150.0, data.DRE.Base)
}

func TestShapeDREZeroBaseUsesOne(t *testing.T) {
	cfg := dreConfig([]any{
		map[string]any{"key": "frete", "row_type": "detail"},
	}, "")
	data, err := ShapeWidgetData(cfg, RowSet{Rows: []map[string]any{
		{"key": "frete", "m0": 20.0},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, data.DRE.Base)
	assert.InDelta(t, 2000.0, data.DRE.Rows[0].PercentOfBase, 1e-9)
}

func TestShapeDREPositionalFallback(t *testing.T) {
	// Rows without a key column are matched by position.
	cfg := dreConfig([]any{
		map[string]any{"key": "receita", "row_type": "result"},
		map[string]any{"key": "impostos", "row_type": "deduction"},
	}, "")
	data, err := ShapeWidgetData(cfg, RowSet{Rows: []map[string]any{
		{"m0": 100.0},
		{"m0": 30.0},
	}})
	require.NoError(t, err)
	assert.Equal(t, 100.0, data.DRE.Rows[0].Value)
	assert.Equal(t, -30.0, data.DRE.Rows[1].Value)
}
