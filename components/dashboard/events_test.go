package dashboard

import (
	"reflect"
	"testing"
)

func TestDetectEventsMonotonicSeries(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5, 6, 7}
	if got := DetectEvents(series, EventDetectionOptions{Sensitivity: 25, Window: 3, MinGap: 1}); len(got) != 0 {
		t.Fatalf("monotonic series produced events %v", got)
	}
}

func TestDetectEventsAlternatingPeaks(t *testing.T) {
	series := []float64{0, 10, 0, 10, 0}
	got := DetectEvents(series, EventDetectionOptions{Sensitivity: 100, Window: 1, MinGap: 1, Mode: EventPeaks})
	if !reflect.DeepEqual(got, []int{1, 3}) {
		t.Fatalf("got %v, want [1 3]", got)
	}
}

func TestDetectEventsMinGapTieKeepsEarlier(t *testing.T) {
	series := []float64{0, 10, 0, 10, 0}
	got := DetectEvents(series, EventDetectionOptions{Sensitivity: 100, Window: 1, MinGap: 3, Mode: EventPeaks})
	if !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("got %v, want [1]", got)
	}
}

func TestDetectEventsMinGapEvictsOnStrictlyGreaterScore(t *testing.T) {
	// Index 3 stands out more than index 1, so it evicts it within the gap.
	series := []float64{0, 5, 0, 20, 0}
	got := DetectEvents(series, EventDetectionOptions{Sensitivity: 100, Window: 1, MinGap: 3, Mode: EventPeaks})
	if !reflect.DeepEqual(got, []int{3}) {
		t.Fatalf("got %v, want [3]", got)
	}
}

func TestDetectEventsValleys(t *testing.T) {
	series := []float64{10, 0, 10, 0, 10}
	got := DetectEvents(series, EventDetectionOptions{Sensitivity: 100, Window: 1, MinGap: 1, Mode: EventValleys})
	if !reflect.DeepEqual(got, []int{1, 3}) {
		t.Fatalf("got %v, want [1 3]", got)
	}
}

func TestDetectEventsBothModes(t *testing.T) {
	series := []float64{0, 10, 0, 10, 0}
	got := DetectEvents(series, EventDetectionOptions{Sensitivity: 100, Window: 1, MinGap: 1, Mode: EventBoth})
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("got %v, want [1 2 3]", got)
	}
}

func TestDetectEventsShortAndFlatSeries(t *testing.T) {
	if got := DetectEvents([]float64{1, 2}, EventDetectionOptions{}); got != nil {
		t.Fatalf("short series: got %v", got)
	}
	if got := DetectEvents([]float64{5, 5, 5, 5, 5}, EventDetectionOptions{Sensitivity: 100}); len(got) != 0 {
		t.Fatalf("flat series: got %v", got)
	}
}

func TestDetectEventsSensitivityThreshold(t *testing.T) {
	// Twin peaks with a shallow dip between them: window amplitude 10 but
	// prominence only 1. At sensitivity 25 the threshold is 7.5, far above
	// the dip; at 95 it is 0.5, below it.
	series := []float64{0, 10, 9, 10, 0}
	strict := DetectEvents(series, EventDetectionOptions{Sensitivity: 25, Window: 1, MinGap: 1, Mode: EventPeaks})
	loose := DetectEvents(series, EventDetectionOptions{Sensitivity: 95, Window: 1, MinGap: 1, Mode: EventPeaks})
	if len(strict) >= len(loose) {
		t.Fatalf("higher sensitivity should keep more events: strict=%v loose=%v", strict, loose)
	}
}
