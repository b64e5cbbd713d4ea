package dashboard

import (
	"fmt"
	"sort"
	"strings"
)

// Axis identifies the vertical axis a line series is plotted against.
type Axis string

const (
	AxisLeft  Axis = "left"
	AxisRight Axis = "right"
)

// LineSeries is one metric plotted over the time buckets.
type LineSeries struct {
	Key    string
	Label  string
	Values []float64
	Axis   Axis
	// LabelIndices are the bucket indices selected for data labels by the
	// peak/valley detector. Empty when labels are disabled.
	LabelIndices []int
}

// LineData feeds the line chart renderer.
type LineData struct {
	Buckets []string
	Series  []LineSeries
	// ShowLeftAxis/ShowRightAxis hide an axis no series is assigned to.
	ShowLeftAxis  bool
	ShowRightAxis bool
}

// shapeLine sorts rows ascending by time_bucket (as dates when both sides
// parse, else lexicographically), emits one series per configured metric
// (m0..mN), assigns the first metric to the left axis and the rest to the
// right, and runs each series through the event detector when labels are on.
func shapeLine(cfg *WidgetConfig, rows RowSet) *LineData {
	sorted := append([]map[string]any(nil), rows.Rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return compareTimeBuckets(sorted[i][timeBucketKey], sorted[j][timeBucketKey]) < 0
	})

	buckets := make([]string, len(sorted))
	for i, row := range sorted {
		buckets[i] = stringify(row[timeBucketKey])
	}

	metricCount := len(cfg.Metrics)
	if metricCount == 0 {
		metricCount = 1
	}
	series := make([]LineSeries, 0, metricCount)
	for m := 0; m < metricCount; m++ {
		key := fmt.Sprintf("m%d", m)
		values := make([]float64, len(sorted))
		for i, row := range sorted {
			values[i] = ToFiniteNumber(row[key])
		}
		axis := AxisRight
		if m == 0 {
			axis = AxisLeft
		}
		s := LineSeries{
			Key:    key,
			Label:  WidgetMetricLabel(cfg, m),
			Values: values,
			Axis:   axis,
		}
		if cfg.LineLabels.Enabled {
			s.LabelIndices = DetectEvents(values, EventDetectionOptions{
				Sensitivity: cfg.LineLabels.Sensitivity,
				Window:      cfg.LineLabels.Window,
				MinGap:      cfg.LineLabels.MinGap,
				Mode:        cfg.LineLabels.Mode,
			})
		}
		series = append(series, s)
	}

	data := &LineData{Buckets: buckets, Series: series}
	for _, s := range series {
		if s.Axis == AxisLeft {
			data.ShowLeftAxis = true
		} else {
			data.ShowRightAxis = true
		}
	}
	return data
}

// compareTimeBuckets orders bucket values for the x axis. Both values must
// be date-like to compare as dates; otherwise the comparison is lexicographic.
func compareTimeBuckets(a, b any) int {
	ta, aOK := ParseDateLike(a)
	tb, bOK := ParseDateLike(b)
	if aOK && bOK {
		switch {
		case ta.Before(tb):
			return -1
		case ta.After(tb):
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(stringify(a), stringify(b))
}
