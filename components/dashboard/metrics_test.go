package dashboard

import "testing"

func TestMetricLabel(t *testing.T) {
	cases := []struct {
		metric Metric
		want   string
	}{
		{Metric{Aggregation: AggCount}, "CONTAGEM(*)"},
		{Metric{Aggregation: AggDistinctCount, Column: "cliente"}, "CONTAGEM ÚNICA(cliente)"},
		{Metric{Aggregation: AggSum, Column: "valor"}, "SOMA(valor)"},
		{Metric{Aggregation: AggAvg, Column: "valor"}, "MÉDIA(valor)"},
		{Metric{Aggregation: AggMin, Column: "valor"}, "MÍNIMO(valor)"},
		{Metric{Aggregation: AggMax, Column: "valor"}, "MÁXIMO(valor)"},
	}
	for _, tc := range cases {
		if got := MetricLabel(tc.metric); got != tc.want {
			t.Fatalf("MetricLabel(%+v) = %q, want %q", tc.metric, got, tc.want)
		}
	}
}

func TestCompositeMetricLabel(t *testing.T) {
	cm := CompositeMetric{Outer: AggAvg, Inner: AggSum, Column: "valor", Granularity: GranularityDay}
	if got, want := CompositeMetricLabel(cm), "MÉDIA(SOMA(valor) POR DIA)"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	cm.Granularity = GranularityMonth
	cm.Column = ""
	if got, want := CompositeMetricLabel(cm), "MÉDIA(SOMA(*) POR MÊS)"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWidgetMetricLabelHonorsComposite(t *testing.T) {
	cfg := &WidgetConfig{
		Metrics: []Metric{
			{Aggregation: AggSum, Column: "valor"},
			{Aggregation: AggCount},
		},
		CompositeMetric: CompositeMetric{
			Enabled:     true,
			Outer:       AggMax,
			Inner:       AggSum,
			Column:      "valor",
			Granularity: GranularityWeek,
		},
	}
	if got, want := WidgetMetricLabel(cfg, 0), "MÁXIMO(SOMA(valor) POR SEMANA)"; got != want {
		t.Fatalf("index 0: got %q, want %q", got, want)
	}
	if got, want := WidgetMetricLabel(cfg, 1), "CONTAGEM(*)"; got != want {
		t.Fatalf("index 1: got %q, want %q", got, want)
	}
	if got := WidgetMetricLabel(cfg, 5); got != "" {
		t.Fatalf("out of range: got %q", got)
	}
	if got := WidgetMetricLabel(nil, 0); got != "" {
		t.Fatalf("nil config: got %q", got)
	}
}
