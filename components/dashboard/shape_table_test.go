package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableFixture() *TableData {
	return &TableData{
		Columns: []TableColumnConfig{
			{Name: "n", Label: "N", Format: FormatNative},
		},
		Rows: []map[string]any{
			{"n": nil},
			{"n": 3.0},
			{"n": 1.0},
		},
		PageSize: 10,
	}
}

func TestTableSortNullsLastAscending(t *testing.T) {
	view := tableFixture().View(TableState{SortColumn: "n", SortDir: SortAsc})
	assert.Equal(t, [][]string{{"1"}, {"3"}, {""}}, view.Rows)
}

func TestTableSortNullsFirstDescending(t *testing.T) {
	view := tableFixture().View(TableState{SortColumn: "n", SortDir: SortDesc})
	assert.Equal(t, [][]string{{""}, {"3"}, {"1"}}, view.Rows)
}

func TestTableSortDatesAsDates(t *testing.T) {
	data := &TableData{
		Columns: []TableColumnConfig{{Name: "d", Label: "Data", Format: FormatNative}},
		Rows: []map[string]any{
			{"d": "2024-03-10"},
			{"d": "2024-03-02"},
		},
		PageSize: 10,
	}
	view := data.View(TableState{SortColumn: "d", SortDir: SortAsc})
	assert.Equal(t, [][]string{{"2024-03-02"}, {"2024-03-10"}}, view.Rows)
}

func TestTableSortLocaleStrings(t *testing.T) {
	data := &TableData{
		Columns: []TableColumnConfig{{Name: "s", Label: "S", Format: FormatText}},
		Rows: []map[string]any{
			{"s": "Ômega"},
			{"s": "alfa"},
			{"s": "Ávila"},
		},
		PageSize: 10,
	}
	view := data.View(TableState{SortColumn: "s", SortDir: SortAsc})
	assert.Equal(t, [][]string{{"alfa"}, {"Ávila"}, {"Ômega"}}, view.Rows)
}

func TestTableSortIsStable(t *testing.T) {
	data := &TableData{
		Columns: []TableColumnConfig{
			{Name: "g", Label: "G", Format: FormatText},
			{Name: "id", Label: "ID", Format: FormatText},
		},
		Rows: []map[string]any{
			{"g": "x", "id": "a"},
			{"g": "x", "id": "b"},
			{"g": "x", "id": "c"},
		},
		PageSize: 10,
	}
	view := data.View(TableState{SortColumn: "g", SortDir: SortAsc})
	assert.Equal(t, [][]string{{"x", "a"}, {"x", "b"}, {"x", "c"}}, view.Rows)
}

func TestTableStateReducers(t *testing.T) {
	state := TableState{}
	state = state.WithSort("valor")
	assert.Equal(t, TableState{SortColumn: "valor", SortDir: SortAsc}, state)

	state = state.WithPage(3).WithSort("valor")
	assert.Equal(t, TableState{SortColumn: "valor", SortDir: SortDesc, Page: 0}, state)

	state = state.WithSort("nome")
	assert.Equal(t, TableState{SortColumn: "nome", SortDir: SortAsc}, state)

	assert.Equal(t, 0, state.WithPage(-4).Page)
}

func TestTableViewPagination(t *testing.T) {
	rows := make([]map[string]any, 23)
	for i := range rows {
		rows[i] = map[string]any{"n": float64(i)}
	}
	data := &TableData{
		Columns:  []TableColumnConfig{{Name: "n", Label: "N", Format: FormatInteger}},
		Rows:     rows,
		PageSize: 10,
	}

	first := data.View(TableState{})
	assert.Equal(t, 3, first.PageCount)
	assert.Equal(t, 23, first.TotalRows)
	assert.Len(t, first.Rows, 10)

	last := data.View(TableState{Page: 2})
	assert.Len(t, last.Rows, 3)

	clamped := data.View(TableState{Page: 99})
	assert.Equal(t, 2, clamped.Page)
}

func TestTableViewFormatsCells(t *testing.T) {
	data := &TableData{
		Columns: []TableColumnConfig{
			{Name: "valor", Label: "Valor", Format: FormatCurrencyBRL},
			{Name: "quando", Label: "Quando", Format: FormatDay},
		},
		Rows: []map[string]any{
			{"valor": 1234.5, "quando": "2024-03-15"},
		},
		PageSize: 10,
	}
	view := data.View(TableState{})
	assert.Equal(t, []string{"Valor", "Quando"}, view.Headers)
	assert.Equal(t, [][]string{{"R$ 1.234,50", "15/03/2024"}}, view.Rows)
}

func TestShapeTableDefaultsColumnsFromRowSet(t *testing.T) {
	cfg := NormalizeWidgetConfig(map[string]any{"widget_type": "table"})
	data, err := ShapeWidgetData(cfg, RowSet{
		Columns: []string{"a", "b"},
		Rows:    []map[string]any{{"a": 1.0, "b": 2.0}},
	})
	require.NoError(t, err)
	require.NotNil(t, data.Table)
	require.Len(t, data.Table.Columns, 2)
	assert.Equal(t, "a", data.Table.Columns[0].Name)
	assert.Equal(t, FormatNative, data.Table.Columns[0].Format)
	assert.Equal(t, 10, data.Table.PageSize)
}
