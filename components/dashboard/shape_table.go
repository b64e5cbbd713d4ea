package dashboard

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var ptBRCollator = collate.New(language.BrazilianPortuguese)

// SortDirection orders table rows.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// TableState is the per-widget-instance UI state of a table renderer. It is
// an immutable value updated through pure reducers so it stays independent
// of any UI framework's state primitives.
type TableState struct {
	SortColumn string
	SortDir    SortDirection
	Page       int
}

// WithSort toggles sorting on a column: first click sorts ascending, a
// second click on the same column flips to descending. Changing the sort
// resets to the first page.
func (s TableState) WithSort(column string) TableState {
	next := TableState{SortColumn: column, SortDir: SortAsc}
	if s.SortColumn == column && s.SortDir == SortAsc {
		next.SortDir = SortDesc
	}
	return next
}

// WithPage moves to the given zero-based page, clamped at zero.
func (s TableState) WithPage(page int) TableState {
	if page < 0 {
		page = 0
	}
	s.Page = page
	return s
}

// TableData is the shaped table widget payload: resolved column configs plus
// the raw rows, which stay unformatted so sorting compares real values.
type TableData struct {
	Columns  []TableColumnConfig
	Rows     []map[string]any
	PageSize int
}

// TableView is one rendered page of a table.
type TableView struct {
	Headers   []string
	Rows      [][]string
	Page      int
	PageCount int
	TotalRows int
}

func shapeTable(cfg *WidgetConfig, rows RowSet) *TableData {
	columns := cfg.TableColumns
	if len(columns) == 0 {
		columns = make([]TableColumnConfig, 0, len(rows.Columns))
		for _, name := range rows.Columns {
			columns = append(columns, TableColumnConfig{Name: name, Label: name, Format: FormatNative})
		}
	}
	return &TableData{
		Columns:  columns,
		Rows:     rows.Rows,
		PageSize: cfg.TablePageSize,
	}
}

// View applies the state's sort and pagination and formats every visible
// cell per its column format.
func (t *TableData) View(state TableState) TableView {
	ordered := t.sortedRows(state)

	pageSize := t.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	pageCount := (len(ordered) + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}
	page := state.Page
	if page >= pageCount {
		page = pageCount - 1
	}
	if page < 0 {
		page = 0
	}
	start := page * pageSize
	end := start + pageSize
	if end > len(ordered) {
		end = len(ordered)
	}

	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = col.Label
	}
	visible := make([][]string, 0, end-start)
	for _, row := range ordered[start:end] {
		cells := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			cells[i] = FormatByColumn(row[col.Name], col.Format)
		}
		visible = append(visible, cells)
	}
	return TableView{
		Headers:   headers,
		Rows:      visible,
		Page:      page,
		PageCount: pageCount,
		TotalRows: len(ordered),
	}
}

// AllRows formats every row in the current sort order, ignoring pagination.
// Used by CSV export.
func (t *TableData) AllRows(state TableState) ([]string, [][]string) {
	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = col.Label
	}
	ordered := t.sortedRows(state)
	out := make([][]string, 0, len(ordered))
	for _, row := range ordered {
		cells := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			cells[i] = FormatByColumn(row[col.Name], col.Format)
		}
		out = append(out, cells)
	}
	return headers, out
}

func (t *TableData) sortedRows(state TableState) []map[string]any {
	ordered := append([]map[string]any(nil), t.Rows...)
	if state.SortColumn == "" {
		return ordered
	}
	descending := state.SortDir == SortDesc
	sort.SliceStable(ordered, func(i, j int) bool {
		cmp := compareCells(ordered[i][state.SortColumn], ordered[j][state.SortColumn])
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})
	return ordered
}

// compareCells orders two cell values: nil sorts as greater than everything,
// which puts nils last ascending and first descending; date-like values
// compare as dates, numbers numerically, everything else by pt-BR collation.
func compareCells(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return 1
		default:
			return -1
		}
	}
	if ta, ok := ParseDateLike(a); ok {
		if tb, ok := ParseDateLike(b); ok {
			switch {
			case ta.Before(tb):
				return -1
			case ta.After(tb):
				return 1
			default:
				return 0
			}
		}
	}
	if na, ok := numericCell(a); ok {
		if nb, ok := numericCell(b); ok {
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			default:
				return 0
			}
		}
	}
	return ptBRCollator.CompareString(stringify(a), stringify(b))
}

func numericCell(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
