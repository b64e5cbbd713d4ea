package dashboard

// NormalizeWidgetConfig turns an untyped persisted configuration blob into a
// fully-defaulted WidgetConfig. It is the sole gate between persisted or
// untrusted configuration and the rendering pipeline: it never panics, and
// every malformed field falls back to its documented default. The only
// unrecoverable case is a missing or unrecognized widget_type, which yields
// nil so the caller can skip the widget without blocking its siblings.
func NormalizeWidgetConfig(raw map[string]any) *WidgetConfig {
	if raw == nil {
		return nil
	}
	widgetType, ok := widgetTypeValue(raw["widget_type"])
	if !ok {
		return nil
	}

	cfg := &WidgetConfig{
		Type:       widgetType,
		DatasetID:  stringOr(raw["dataset_id"], ""),
		Metrics:    metricsValue(raw["metrics"]),
		Dimensions: stringListValue(raw["dimensions"]),
		Filters:    filtersValue(raw["filters"]),
		OrderBy:    orderByValue(raw["order_by"]),
		Size:       sizeValue(raw["size"]),

		KPIShowAs:       columnFormatValue(raw["kpi_show_as"], FormatNumber2),
		CompositeMetric: compositeMetricValue(raw["composite_metric"]),
		Text:            textStyleValue(raw["text_style"]),
		DRERows:         dreRowsValue(raw["dre_rows"]),
		DREBaseRow:      stringOr(raw["dre_base_row"], ""),
		TableColumns:    tableColumnsValue(raw["table_columns"]),
		TablePageSize:   pageSizeValue(raw["table_page_size"]),
		Donut:           donutValue(raw["donut"]),
		LineLabels:      lineLabelsValue(raw["line_labels"]),
	}
	return cfg
}

func widgetTypeValue(v any) (WidgetType, bool) {
	s, _ := v.(string)
	switch WidgetType(s) {
	case WidgetKPI, WidgetBar, WidgetColumn, WidgetDonut, WidgetDRE, WidgetLine, WidgetTable, WidgetText:
		return WidgetType(s), true
	}
	return "", false
}

func metricsValue(v any) []Metric {
	items := anySlice(v)
	out := []Metric{}
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		agg := aggregationValue(m["aggregation"])
		if agg == "" {
			continue
		}
		out = append(out, Metric{
			Aggregation: agg,
			Column:      stringOr(m["column"], ""),
		})
	}
	return out
}

func aggregationValue(v any) Aggregation {
	s, _ := v.(string)
	switch Aggregation(s) {
	case AggCount, AggSum, AggAvg, AggMin, AggMax, AggDistinctCount:
		return Aggregation(s)
	}
	return ""
}

func filtersValue(v any) []Filter {
	items := anySlice(v)
	out := []Filter{}
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		column := stringOr(m["column"], "")
		if column == "" {
			continue
		}
		out = append(out, Filter{
			Column: column,
			Op:     stringOr(m["op"], "eq"),
			Value:  m["value"],
		})
	}
	return out
}

func orderByValue(v any) OrderBy {
	m, ok := v.(map[string]any)
	if !ok {
		return OrderBy{}
	}
	direction := stringOr(m["direction"], "asc")
	if direction != "asc" && direction != "desc" {
		direction = "asc"
	}
	column := stringOr(m["column"], "")
	if column == "" {
		return OrderBy{}
	}
	return OrderBy{Column: column, Direction: direction}
}

func sizeValue(v any) WidgetSize {
	size := WidgetSize{Width: 1, Height: 1}
	m, ok := v.(map[string]any)
	if !ok {
		return size
	}
	if w := intOr(m["width"], 1); w >= 1 && w <= 4 {
		size.Width = w
	}
	if h := floatOr(m["height"], 1); h == 0.5 || h == 1 {
		size.Height = h
	}
	return size
}

func columnFormatValue(v any, fallback ColumnFormat) ColumnFormat {
	s, _ := v.(string)
	switch ColumnFormat(s) {
	case FormatText, FormatCurrencyBRL, FormatNumber2, FormatInteger,
		FormatDateTime, FormatTime, FormatYear, FormatMonth, FormatDay, FormatNative:
		return ColumnFormat(s)
	}
	return fallback
}

func compositeMetricValue(v any) CompositeMetric {
	cm := CompositeMetric{Outer: AggAvg, Inner: AggSum, Granularity: GranularityDay}
	m, ok := v.(map[string]any)
	if !ok {
		return cm
	}
	cm.Enabled = boolOr(m["enabled"], false)
	if agg := aggregationValue(m["outer"]); agg != "" {
		cm.Outer = agg
	}
	if agg := aggregationValue(m["inner"]); agg != "" {
		cm.Inner = agg
	}
	cm.Column = stringOr(m["column"], "")
	if g := stringOr(m["granularity"], ""); g != "" {
		switch TimeGranularity(g) {
		case GranularityHour, GranularityDay, GranularityWeek, GranularityMonth:
			cm.Granularity = TimeGranularity(g)
		}
	}
	return cm
}

func textStyleValue(v any) TextStyle {
	style := TextStyle{FontSize: 16, Align: "left"}
	m, ok := v.(map[string]any)
	if !ok {
		return style
	}
	style.Content = stringOr(m["content"], "")
	style.FontSize = clampInt(intOr(m["font_size"], 16), 12, 72)
	align := stringOr(m["align"], "left")
	switch align {
	case "left", "center", "right":
		style.Align = align
	}
	return style
}

func dreRowsValue(v any) []DRERowConfig {
	items := anySlice(v)
	out := []DRERowConfig{}
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		key := stringOr(m["key"], "")
		if key == "" {
			continue
		}
		rowType := DRERowType(stringOr(m["row_type"], string(DRERowDetail)))
		switch rowType {
		case DRERowResult, DRERowDeduction, DRERowDetail:
		default:
			rowType = DRERowDetail
		}
		out = append(out, DRERowConfig{
			Key:     key,
			Label:   stringOr(m["label"], key),
			RowType: rowType,
		})
	}
	return out
}

func tableColumnsValue(v any) []TableColumnConfig {
	items := anySlice(v)
	out := []TableColumnConfig{}
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := stringOr(m["name"], "")
		if name == "" {
			continue
		}
		out = append(out, TableColumnConfig{
			Name:   name,
			Label:  stringOr(m["label"], name),
			Format: columnFormatValue(m["format"], FormatNative),
		})
	}
	return out
}

func pageSizeValue(v any) int {
	return clampInt(intOr(v, 10), 5, 100)
}

func donutValue(v any) DonutConfig {
	cfg := DonutConfig{ShowAs: "percent", MinLabelPercent: 5}
	m, ok := v.(map[string]any)
	if !ok {
		return cfg
	}
	if showAs := stringOr(m["show_as"], "percent"); showAs == "percent" || showAs == "value" {
		cfg.ShowAs = showAs
	}
	if pct := floatOr(m["min_label_percent"], 5); pct >= 0 && pct <= 100 {
		cfg.MinLabelPercent = pct
	}
	return cfg
}

func lineLabelsValue(v any) LineLabelConfig {
	cfg := LineLabelConfig{Mode: EventPeaks, Window: 3, Sensitivity: 85, MinGap: 2}
	m, ok := v.(map[string]any)
	if !ok {
		return cfg
	}
	cfg.Enabled = boolOr(m["enabled"], false)
	switch mode := EventMode(stringOr(m["mode"], string(EventPeaks))); mode {
	case EventPeaks, EventValleys, EventBoth:
		cfg.Mode = mode
	}
	// Window must be one of the supported radii.
	switch w := intOr(m["window"], 3); w {
	case 3, 5, 7:
		cfg.Window = w
	}
	if s := floatOr(m["sensitivity"], 85); s >= 25 && s <= 100 {
		cfg.Sensitivity = s
	}
	if gap := intOr(m["min_gap"], 2); gap >= 1 {
		cfg.MinGap = gap
	}
	return cfg
}

func anySlice(v any) []any {
	switch items := v.(type) {
	case []any:
		return items
	case []map[string]any:
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = item
		}
		return out
	default:
		return nil
	}
}

func stringListValue(v any) []string {
	out := []string{}
	switch items := v.(type) {
	case []string:
		out = append(out, items...)
	case []any:
		for _, item := range items {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func stringOr(value any, fallback string) string {
	if v, ok := value.(string); ok && v != "" {
		return v
	}
	return fallback
}

func boolOr(value any, fallback bool) bool {
	if v, ok := value.(bool); ok {
		return v
	}
	return fallback
}

func floatOr(value any, fallback float64) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return fallback
}

func intOr(value any, fallback int) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
	}
	return fallback
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
