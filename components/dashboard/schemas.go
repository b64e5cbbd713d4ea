package dashboard

// Schema builders for the advisory config validator. These mirror the
// defaults applied by NormalizeWidgetConfig; the normalizer remains the
// authority on fallback behavior.

func widgetConfigSchema(widgetType WidgetType) map[string]any {
	base := baseConfigSchema(widgetType)
	props := base["properties"].(map[string]any)
	switch widgetType {
	case WidgetKPI:
		props["kpi_show_as"] = map[string]any{
			"type":    "string",
			"enum":    columnFormatNames(),
			"default": string(FormatNumber2),
		}
		props["composite_metric"] = compositeMetricSchema()
	case WidgetBar, WidgetColumn:
	case WidgetDonut:
		props["donut"] = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"show_as":           map[string]any{"type": "string", "enum": []string{"percent", "value"}, "default": "percent"},
				"min_label_percent": map[string]any{"type": "number", "minimum": 0, "maximum": 100, "default": 5},
			},
		}
	case WidgetDRE:
		props["dre_rows"] = map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"key"},
				"properties": map[string]any{
					"key":      map[string]any{"type": "string", "minLength": 1},
					"label":    map[string]any{"type": "string"},
					"row_type": map[string]any{"type": "string", "enum": []string{"result", "deduction", "detail"}, "default": "detail"},
				},
			},
		}
		props["dre_base_row"] = map[string]any{"type": "string"}
	case WidgetLine:
		props["line_labels"] = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"enabled":     map[string]any{"type": "boolean", "default": false},
				"mode":        map[string]any{"type": "string", "enum": []string{"peak", "valley", "both"}, "default": "peak"},
				"window":      map[string]any{"type": "integer", "enum": []int{3, 5, 7}, "default": 3},
				"sensitivity": map[string]any{"type": "number", "minimum": 25, "maximum": 100, "default": 85},
				"min_gap":     map[string]any{"type": "integer", "minimum": 1, "default": 2},
			},
		}
	case WidgetTable:
		props["table_columns"] = map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"name"},
				"properties": map[string]any{
					"name":   map[string]any{"type": "string", "minLength": 1},
					"label":  map[string]any{"type": "string"},
					"format": map[string]any{"type": "string", "enum": columnFormatNames(), "default": string(FormatNative)},
				},
			},
		}
		props["table_page_size"] = map[string]any{"type": "integer", "minimum": 5, "maximum": 100, "default": 10}
	case WidgetText:
		props["text_style"] = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"content":   map[string]any{"type": "string"},
				"font_size": map[string]any{"type": "integer", "minimum": 12, "maximum": 72, "default": 16},
				"align":     map[string]any{"type": "string", "enum": []string{"left", "center", "right"}, "default": "left"},
			},
		}
	default:
		return nil
	}
	return base
}

func baseConfigSchema(widgetType WidgetType) map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"widget_type"},
		"properties": map[string]any{
			"widget_type": map[string]any{"type": "string", "const": string(widgetType)},
			"metrics": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"aggregation"},
					"properties": map[string]any{
						"aggregation": map[string]any{"type": "string", "enum": aggregationNames()},
						"column":      map[string]any{"type": "string"},
					},
				},
			},
			"dimensions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"filters": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"column"},
					"properties": map[string]any{
						"column": map[string]any{"type": "string", "minLength": 1},
						"op":     map[string]any{"type": "string"},
						"value":  map[string]any{},
					},
				},
			},
			"order_by": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"column":    map[string]any{"type": "string"},
					"direction": map[string]any{"type": "string", "enum": []string{"asc", "desc"}},
				},
			},
			"size": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"width":  map[string]any{"type": "integer", "enum": []int{1, 2, 3, 4}, "default": 1},
					"height": map[string]any{"type": "number", "enum": []float64{0.5, 1}, "default": 1},
				},
			},
		},
	}
}

func compositeMetricSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"enabled":     map[string]any{"type": "boolean", "default": false},
			"outer":       map[string]any{"type": "string", "enum": aggregationNames()},
			"inner":       map[string]any{"type": "string", "enum": aggregationNames()},
			"column":      map[string]any{"type": "string"},
			"granularity": map[string]any{"type": "string", "enum": []string{"hour", "day", "week", "month"}, "default": "day"},
		},
	}
}

func aggregationNames() []string {
	return []string{"count", "sum", "avg", "min", "max", "distinct_count"}
}

func columnFormatNames() []string {
	return []string{"text", "currency_brl", "number_2", "integer", "datetime", "time", "year", "month", "day", "native"}
}
