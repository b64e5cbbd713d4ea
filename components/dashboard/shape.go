package dashboard

import (
	"fmt"
	"math"
	"sort"
)

// Metric values arrive keyed m0..mN in the row set; the grouping value uses
// the dimension's own column name (or d0 when the API omits it).
const (
	metricKey0     = "m0"
	dimensionKey0  = "d0"
	timeBucketKey  = "time_bucket"
	othersCategory = "Outros"
)

// Bar chart geometry used to derive a dynamic chart height so horizontal
// bars never overlap.
const (
	barHeightPx   = 24
	barGapPx      = 8
	barMarginPx   = 60
	barAxisFactor = 1.18
)

// WidgetData is the renderer-ready shape of one widget. Exactly one of the
// typed payload fields is set, matching Config.Type.
type WidgetData struct {
	Type  WidgetType
	KPI   *KPIData
	Bar   *BarData
	Donut *DonutData
	DRE   *DREData
	Line  *LineData
	Table *TableData
	Text  *TextData
}

// KPIData is a single headline value. Display carries the compact primary
// rendering, Full the precise value used as a tooltip/title.
type KPIData struct {
	Label   string
	Value   float64
	Display string
	Full    string
}

// CategoryPoint pairs a category with its metric value.
type CategoryPoint struct {
	Category string
	Value    float64
}

// BarData feeds bar (horizontal) and column (vertical) charts.
type BarData struct {
	MetricLabel string
	Points      []CategoryPoint
	// AxisMax is 1.18x the observed max (1 when all values are zero).
	AxisMax float64
	// ChartHeight is only meaningful for horizontal bars.
	ChartHeight int
	Horizontal  bool
}

// DonutSlice is one donut category with its display label.
type DonutSlice struct {
	Category string
	Value    float64
	Percent  float64
	Label    string
	// ShowLabel is false when the slice falls under the minimum percent.
	ShowLabel bool
}

// DonutData feeds donut charts, already collapsed to at most 4 slices.
type DonutData struct {
	MetricLabel string
	Slices      []DonutSlice
	Total       float64
}

// TextData is the static text widget payload.
type TextData struct {
	Content  string
	FontSize int
	Align    string
}

// ShapeWidgetData produces the exact structure each renderer consumes for
// the given normalized config and row set. Returns an error only for a nil
// config; malformed rows degrade to safe defaults per field.
func ShapeWidgetData(cfg *WidgetConfig, rows RowSet) (*WidgetData, error) {
	if cfg == nil {
		return nil, fmt.Errorf("dashboard: widget config is required")
	}
	data := &WidgetData{Type: cfg.Type}
	switch cfg.Type {
	case WidgetKPI:
		data.KPI = shapeKPI(cfg, rows)
	case WidgetBar:
		data.Bar = shapeBar(cfg, rows, true)
	case WidgetColumn:
		data.Bar = shapeBar(cfg, rows, false)
	case WidgetDonut:
		data.Donut = shapeDonut(cfg, rows)
	case WidgetDRE:
		data.DRE = shapeDRE(cfg, rows)
	case WidgetLine:
		data.Line = shapeLine(cfg, rows)
	case WidgetTable:
		data.Table = shapeTable(cfg, rows)
	case WidgetText:
		data.Text = &TextData{
			Content:  cfg.Text.Content,
			FontSize: cfg.Text.FontSize,
			Align:    cfg.Text.Align,
		}
	default:
		return nil, fmt.Errorf("dashboard: unsupported widget type %q", cfg.Type)
	}
	return data, nil
}

func shapeKPI(cfg *WidgetConfig, rows RowSet) *KPIData {
	var value float64
	if len(rows.Rows) > 0 {
		value = ToFiniteNumber(rows.Rows[0][metricKey0])
	}
	return &KPIData{
		Label:   WidgetMetricLabel(cfg, 0),
		Value:   value,
		Display: FormatCompactNumber(value),
		Full:    FormatByColumn(value, cfg.KPIShowAs),
	}
}

func shapeBar(cfg *WidgetConfig, rows RowSet, horizontal bool) *BarData {
	points := categoryPoints(cfg, rows)
	maxValue := 0.0
	for _, p := range points {
		if math.Abs(p.Value) > maxValue {
			maxValue = math.Abs(p.Value)
		}
	}
	axisMax := 1.0
	if maxValue > 0 {
		axisMax = maxValue * barAxisFactor
	}
	data := &BarData{
		MetricLabel: WidgetMetricLabel(cfg, 0),
		Points:      points,
		AxisMax:     axisMax,
		Horizontal:  horizontal,
	}
	if horizontal {
		data.ChartHeight = len(points)*(barHeightPx+barGapPx) + barMarginPx
	}
	return data
}

func shapeDonut(cfg *WidgetConfig, rows RowSet) *DonutData {
	points := categoryPoints(cfg, rows)
	// More than 5 categories: keep the top 3 by value and collapse the rest
	// into a synthetic "Outros" slice when their sum is positive.
	if len(points) > 5 {
		sorted := append([]CategoryPoint(nil), points...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })
		top := sorted[:3]
		rest := 0.0
		for _, p := range sorted[3:] {
			rest += p.Value
		}
		points = append([]CategoryPoint(nil), top...)
		if rest > 0 {
			points = append(points, CategoryPoint{Category: othersCategory, Value: rest})
		}
	}
	total := 0.0
	for _, p := range points {
		total += p.Value
	}
	slices := make([]DonutSlice, len(points))
	for i, p := range points {
		percent := 0.0
		if total > 0 {
			percent = p.Value / total * 100
		}
		label := FormatPercent(percent)
		if cfg.Donut.ShowAs == "value" {
			label = FormatCompactNumber(p.Value)
		}
		slices[i] = DonutSlice{
			Category:  p.Category,
			Value:     p.Value,
			Percent:   percent,
			Label:     label,
			ShowLabel: percent >= cfg.Donut.MinLabelPercent,
		}
	}
	return &DonutData{
		MetricLabel: WidgetMetricLabel(cfg, 0),
		Slices:      slices,
		Total:       total,
	}
}

func categoryPoints(cfg *WidgetConfig, rows RowSet) []CategoryPoint {
	dimension := dimensionKey0
	if len(cfg.Dimensions) > 0 {
		dimension = cfg.Dimensions[0]
	}
	points := make([]CategoryPoint, 0, len(rows.Rows))
	for _, row := range rows.Rows {
		category, ok := row[dimension]
		if !ok {
			category = row[dimensionKey0]
		}
		points = append(points, CategoryPoint{
			Category: stringify(category),
			Value:    ToFiniteNumber(row[metricKey0]),
		})
	}
	return points
}
