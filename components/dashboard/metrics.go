package dashboard

import "fmt"

var aggregationLabels = map[Aggregation]string{
	AggCount:         "CONTAGEM",
	AggDistinctCount: "CONTAGEM ÚNICA",
	AggSum:           "SOMA",
	AggAvg:           "MÉDIA",
	AggMin:           "MÍNIMO",
	AggMax:           "MÁXIMO",
}

var granularityLabels = map[TimeGranularity]string{
	GranularityHour:  "HORA",
	GranularityDay:   "DIA",
	GranularityWeek:  "SEMANA",
	GranularityMonth: "MÊS",
}

// MetricLabel synthesizes the display label for a metric, e.g.
// "SOMA(valor)" or "CONTAGEM(*)" when no column is set.
func MetricLabel(m Metric) string {
	label, ok := aggregationLabels[m.Aggregation]
	if !ok {
		label = string(m.Aggregation)
	}
	return fmt.Sprintf("%s(%s)", label, columnOrStar(m.Column))
}

// CompositeMetricLabel composes an outer aggregation over an inner
// aggregation bucketed by a time granularity, e.g.
// "MÉDIA(SOMA(valor) POR DIA)".
func CompositeMetricLabel(cm CompositeMetric) string {
	outer, ok := aggregationLabels[cm.Outer]
	if !ok {
		outer = string(cm.Outer)
	}
	inner, ok := aggregationLabels[cm.Inner]
	if !ok {
		inner = string(cm.Inner)
	}
	granularity, ok := granularityLabels[cm.Granularity]
	if !ok {
		granularity = granularityLabels[GranularityDay]
	}
	return fmt.Sprintf("%s(%s(%s) POR %s)", outer, inner, columnOrStar(cm.Column), granularity)
}

func columnOrStar(column string) string {
	if column == "" {
		return "*"
	}
	return column
}

// WidgetMetricLabel resolves the label for the metric at the given index,
// honoring an enabled composite metric for the first slot.
func WidgetMetricLabel(cfg *WidgetConfig, index int) string {
	if cfg == nil || index < 0 || index >= len(cfg.Metrics) {
		return ""
	}
	if index == 0 && cfg.CompositeMetric.Enabled {
		return CompositeMetricLabel(cfg.CompositeMetric)
	}
	return MetricLabel(cfg.Metrics[index])
}
