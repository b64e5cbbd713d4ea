package dashboard

// WidgetType identifies how a widget queries and displays data. The type
// decides which sub-configuration fields of WidgetConfig are meaningful.
type WidgetType string

const (
	WidgetKPI    WidgetType = "kpi"
	WidgetBar    WidgetType = "bar"
	WidgetColumn WidgetType = "column"
	WidgetDonut  WidgetType = "donut"
	WidgetDRE    WidgetType = "dre"
	WidgetLine   WidgetType = "line"
	WidgetTable  WidgetType = "table"
	WidgetText   WidgetType = "text"
)

// Aggregation is a server-side aggregation operator applied to a column.
type Aggregation string

const (
	AggCount         Aggregation = "count"
	AggSum           Aggregation = "sum"
	AggAvg           Aggregation = "avg"
	AggMin           Aggregation = "min"
	AggMax           Aggregation = "max"
	AggDistinctCount Aggregation = "distinct_count"
)

// ColumnFormat selects the display formatting applied to a table cell or KPI.
type ColumnFormat string

const (
	FormatText        ColumnFormat = "text"
	FormatCurrencyBRL ColumnFormat = "currency_brl"
	FormatNumber2     ColumnFormat = "number_2"
	FormatInteger     ColumnFormat = "integer"
	FormatDateTime    ColumnFormat = "datetime"
	FormatTime        ColumnFormat = "time"
	FormatYear        ColumnFormat = "year"
	FormatMonth       ColumnFormat = "month"
	FormatDay         ColumnFormat = "day"
	FormatNative      ColumnFormat = "native"
)

// TimeGranularity discretizes timestamps into x-axis buckets.
type TimeGranularity string

const (
	GranularityHour  TimeGranularity = "hour"
	GranularityDay   TimeGranularity = "day"
	GranularityWeek  TimeGranularity = "week"
	GranularityMonth TimeGranularity = "month"
)

// Metric is an aggregation over a column. Column is empty for count(*).
type Metric struct {
	Aggregation Aggregation `json:"aggregation" yaml:"aggregation"`
	Column      string      `json:"column,omitempty" yaml:"column,omitempty"`
}

// CompositeMetric is an aggregation of an aggregation over time buckets,
// e.g. the average of daily sums.
type CompositeMetric struct {
	Enabled     bool            `json:"enabled" yaml:"enabled"`
	Outer       Aggregation     `json:"outer" yaml:"outer"`
	Inner       Aggregation     `json:"inner" yaml:"inner"`
	Column      string          `json:"column,omitempty" yaml:"column,omitempty"`
	Granularity TimeGranularity `json:"granularity" yaml:"granularity"`
}

// Filter restricts the widget query. Semantics of Op are owned by the API.
type Filter struct {
	Column string `json:"column" yaml:"column"`
	Op     string `json:"op" yaml:"op"`
	Value  any    `json:"value" yaml:"value"`
}

// OrderBy requests server-side ordering of the row set.
type OrderBy struct {
	Column    string `json:"column,omitempty" yaml:"column,omitempty"`
	Direction string `json:"direction,omitempty" yaml:"direction,omitempty"`
}

// WidgetSize is the grid footprint of a widget. Width is measured in section
// columns, height in row units.
type WidgetSize struct {
	Width  int     `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// TextStyle configures static text widgets.
type TextStyle struct {
	Content  string `json:"content" yaml:"content"`
	FontSize int    `json:"font_size" yaml:"font_size"`
	Align    string `json:"align" yaml:"align"`
}

// DRERowType classifies rows of a DRE financial statement.
type DRERowType string

const (
	DRERowResult    DRERowType = "result"
	DRERowDeduction DRERowType = "deduction"
	DRERowDetail    DRERowType = "detail"
)

// DRERowConfig describes one configured row of a DRE statement.
type DRERowConfig struct {
	Key     string     `json:"key" yaml:"key"`
	Label   string     `json:"label" yaml:"label"`
	RowType DRERowType `json:"row_type" yaml:"row_type"`
}

// TableColumnConfig binds a display format to a result column.
type TableColumnConfig struct {
	Name   string       `json:"name" yaml:"name"`
	Label  string       `json:"label,omitempty" yaml:"label,omitempty"`
	Format ColumnFormat `json:"format" yaml:"format"`
}

// DonutConfig tunes donut display behavior.
type DonutConfig struct {
	ShowAs          string  `json:"show_as" yaml:"show_as"` // percent | value
	MinLabelPercent float64 `json:"min_label_percent" yaml:"min_label_percent"`
}

// LineLabelConfig tunes peak/valley data-label detection on line widgets.
type LineLabelConfig struct {
	Enabled     bool      `json:"enabled" yaml:"enabled"`
	Mode        EventMode `json:"mode" yaml:"mode"`
	Window      int       `json:"window" yaml:"window"`
	Sensitivity float64   `json:"sensitivity" yaml:"sensitivity"`
	MinGap      int       `json:"min_gap" yaml:"min_gap"`
}

// WidgetConfig is the normalized, fully-defaulted configuration of a widget.
// It is produced exclusively by NormalizeWidgetConfig; renderers never read
// the persisted blob directly.
type WidgetConfig struct {
	Type       WidgetType `json:"widget_type" yaml:"widget_type"`
	DatasetID  string     `json:"dataset_id" yaml:"dataset_id"`
	Metrics    []Metric   `json:"metrics" yaml:"metrics"`
	Dimensions []string   `json:"dimensions" yaml:"dimensions"`
	Filters    []Filter   `json:"filters" yaml:"filters"`
	OrderBy    OrderBy    `json:"order_by" yaml:"order_by"`
	Size       WidgetSize `json:"size" yaml:"size"`

	KPIShowAs       ColumnFormat        `json:"kpi_show_as" yaml:"kpi_show_as"`
	CompositeMetric CompositeMetric     `json:"composite_metric" yaml:"composite_metric"`
	Text            TextStyle           `json:"text_style" yaml:"text_style"`
	DRERows         []DRERowConfig      `json:"dre_rows" yaml:"dre_rows"`
	DREBaseRow      string              `json:"dre_base_row" yaml:"dre_base_row"`
	TableColumns    []TableColumnConfig `json:"table_columns" yaml:"table_columns"`
	TablePageSize   int                 `json:"table_page_size" yaml:"table_page_size"`
	Donut           DonutConfig         `json:"donut" yaml:"donut"`
	LineLabels      LineLabelConfig     `json:"line_labels" yaml:"line_labels"`
}

// DashboardWidget is one visual element owned by a dashboard.
type DashboardWidget struct {
	ID            string         `json:"id" yaml:"id"`
	Title         string         `json:"title" yaml:"title"`
	Position      int            `json:"position" yaml:"position"`
	ConfigVersion int            `json:"config_version" yaml:"config_version"`
	RawConfig     map[string]any `json:"config" yaml:"config"`
}

// DashboardSection groups widgets into a titled grid with a column count.
type DashboardSection struct {
	ID        string   `json:"id" yaml:"id"`
	Title     string   `json:"title" yaml:"title"`
	ShowTitle bool     `json:"show_title" yaml:"show_title"`
	Columns   int      `json:"columns" yaml:"columns"`
	WidgetIDs []string `json:"widget_ids" yaml:"widget_ids"`
}

// Dashboard owns an ordered list of sections and the widgets they reference.
type Dashboard struct {
	ID       string             `json:"id" yaml:"id"`
	Title    string             `json:"title" yaml:"title"`
	Sections []DashboardSection `json:"sections" yaml:"sections"`
	Widgets  []DashboardWidget  `json:"widgets" yaml:"widgets"`
}

// RowSet is the API's query result for a widget: a column list plus ordered
// row mappings. Values are strings, numbers, or nil. Transient per query.
type RowSet struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
}
