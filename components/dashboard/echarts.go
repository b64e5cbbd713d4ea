package dashboard

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// ChartRenderer turns shaped widget data into go-echarts HTML fragments.
type ChartRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
}

// ChartRendererOption customizes renderer behavior.
type ChartRendererOption func(*ChartRenderer)

// WithRenderCache injects a render cache.
func WithRenderCache(cache RenderCache) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.cache = cache
	}
}

// WithTheme sets the echarts theme (defaults to Westeros).
func WithTheme(theme string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.theme = theme
	}
}

// WithAssetsHost rewrites the assets host so the echarts JS loads from a CDN.
func WithAssetsHost(host string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.assetsHost = host
	}
}

// NewChartRenderer builds a renderer with safe defaults.
func NewChartRenderer(options ...ChartRendererOption) *ChartRenderer {
	r := &ChartRenderer{
		cache: sharedChartCache,
		theme: types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Render produces chart HTML for a widget. Non-chart widget types (kpi, dre,
// table, text) have no chart body and return an error so callers fall back
// to their native renderers.
func (r *ChartRenderer) Render(widget DashboardWidget, data *WidgetData) (string, error) {
	if data == nil {
		return "", fmt.Errorf("dashboard: widget data is required")
	}
	renderFn := func() (string, error) {
		switch data.Type {
		case WidgetBar, WidgetColumn:
			return r.renderBar(widget.Title, data.Bar)
		case WidgetDonut:
			return r.renderDonut(widget.Title, data.Donut)
		case WidgetLine:
			return r.renderLine(widget.Title, data.Line)
		default:
			return "", fmt.Errorf("dashboard: widget type %q has no chart renderer", data.Type)
		}
	}
	if r.cache == nil {
		return renderFn()
	}
	key := RenderKey{WidgetID: widget.ID, Type: data.Type, ConfigHash: configHash(widget.RawConfig)}
	return r.cache.GetOrRender(key, renderFn)
}

func (r *ChartRenderer) renderBar(title string, data *BarData) (string, error) {
	if data == nil {
		return "", fmt.Errorf("dashboard: bar data is empty")
	}
	bar := charts.NewBar()
	globals := r.globalOptions(title, "")
	globals = append(globals, charts.WithYAxisOpts(opts.YAxis{Max: data.AxisMax}))
	bar.SetGlobalOptions(globals...)

	categories := make([]string, len(data.Points))
	values := make([]opts.BarData, len(data.Points))
	for i, p := range data.Points {
		categories[i] = p.Category
		values[i] = opts.BarData{Name: p.Category, Value: p.Value}
	}
	bar.SetXAxis(categories)
	bar.AddSeries(data.MetricLabel, values)
	if data.Horizontal {
		bar.XYReversal()
	}
	return renderChart(bar)
}

func (r *ChartRenderer) renderDonut(title string, data *DonutData) (string, error) {
	if data == nil {
		return "", fmt.Errorf("dashboard: donut data is empty")
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globalOptions(title, data.MetricLabel)...)
	values := make([]opts.PieData, len(data.Slices))
	for i, slice := range data.Slices {
		values[i] = opts.PieData{Name: slice.Category, Value: slice.Value}
	}
	pie.AddSeries(data.MetricLabel, values,
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
	)
	return renderChart(pie)
}

func (r *ChartRenderer) renderLine(title string, data *LineData) (string, error) {
	if data == nil {
		return "", fmt.Errorf("dashboard: line data is empty")
	}
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalOptions(title, "")...)
	if data.ShowRightAxis {
		line.ExtendYAxis(opts.YAxis{Type: "value", Show: opts.Bool(true)})
	}
	line.SetXAxis(data.Buckets)
	for _, series := range data.Series {
		values := make([]opts.LineData, len(series.Values))
		for i, v := range series.Values {
			values[i] = opts.LineData{Value: v}
		}
		seriesOpts := []charts.SeriesOpts{
			charts.WithLineChartOpts(opts.LineChart{
				Smooth:     opts.Bool(true),
				YAxisIndex: axisIndex(series.Axis, data.ShowRightAxis),
			}),
		}
		for _, idx := range series.LabelIndices {
			if idx < 0 || idx >= len(data.Buckets) {
				continue
			}
			seriesOpts = append(seriesOpts, charts.WithMarkPointNameCoordItemOpts(opts.MarkPointNameCoordItem{
				Name:       FormatCompactNumber(series.Values[idx]),
				Coordinate: []any{data.Buckets[idx], series.Values[idx]},
			}))
		}
		line.AddSeries(series.Label, values, seriesOpts...)
	}
	return renderChart(line)
}

func axisIndex(axis Axis, hasRight bool) int {
	if axis == AxisRight && hasRight {
		return 1
	}
	return 0
}

func (r *ChartRenderer) globalOptions(title, subtitle string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
