package dashboard

// EventMode selects which extrema the detector labels.
type EventMode string

const (
	EventPeaks   EventMode = "peak"
	EventValleys EventMode = "valley"
	EventBoth    EventMode = "both"
)

// EventDetectionOptions tunes DetectEvents. Zero values are normalized to
// the documented defaults before use.
type EventDetectionOptions struct {
	// Sensitivity in percent, clamped to [25,100]. Higher sensitivity means
	// a lower prominence threshold and therefore more labeled events.
	Sensitivity float64
	// Window is the local window radius around each index, minimum 1.
	Window int
	// MinGap is the minimum index distance between kept events, minimum 1.
	MinGap int
	Mode   EventMode
}

func (o EventDetectionOptions) normalized() EventDetectionOptions {
	if o.Sensitivity < 25 {
		o.Sensitivity = 25
	}
	if o.Sensitivity > 100 {
		o.Sensitivity = 100
	}
	if o.Window < 1 {
		o.Window = 1
	}
	if o.MinGap < 1 {
		o.MinGap = 1
	}
	switch o.Mode {
	case EventPeaks, EventValleys, EventBoth:
	default:
		o.Mode = EventPeaks
	}
	return o
}

type eventCandidate struct {
	index int
	score float64
}

// DetectEvents selects a sparse set of indices to annotate with data labels
// on a line chart. A candidate extremum qualifies when its prominence (how
// far it stands above/below the tighter of its side bounds) clears a
// threshold derived from the local window amplitude. A forward sweep then
// enforces MinGap between kept events: a newcomer closer than MinGap to the
// previously kept event replaces it only on a strictly greater score; ties
// keep the earlier index. Deterministic and stateless across calls.
func DetectEvents(series []float64, opts EventDetectionOptions) []int {
	if len(series) < 3 {
		return nil
	}
	opts = opts.normalized()

	var candidates []eventCandidate
	for i := range series {
		lo := i - opts.Window
		if lo < 0 {
			lo = 0
		}
		hi := i + opts.Window
		if hi > len(series)-1 {
			hi = len(series) - 1
		}
		// Need at least 3 points and non-empty strict sides.
		if hi-lo+1 < 3 || i == lo || i == hi {
			continue
		}
		winMin, winMax := minMax(series[lo : hi+1])
		amplitude := winMax - winMin
		if amplitude <= 0 {
			continue
		}
		threshold := amplitude * (1 - opts.Sensitivity/100)
		v := series[i]

		if (opts.Mode == EventPeaks || opts.Mode == EventBoth) && v == winMax {
			leftMin, _ := minMax(series[lo:i])
			rightMin, _ := minMax(series[i+1 : hi+1])
			prominence := v - max64(leftMin, rightMin)
			if prominence >= threshold {
				candidates = append(candidates, eventCandidate{index: i, score: prominence})
				continue
			}
		}
		if (opts.Mode == EventValleys || opts.Mode == EventBoth) && v == winMin {
			_, leftMax := minMax(series[lo:i])
			_, rightMax := minMax(series[i+1 : hi+1])
			prominence := min64(leftMax, rightMax) - v
			if prominence >= threshold {
				candidates = append(candidates, eventCandidate{index: i, score: prominence})
			}
		}
	}

	var kept []eventCandidate
	for _, event := range candidates {
		if len(kept) > 0 {
			prev := kept[len(kept)-1]
			if event.index-prev.index < opts.MinGap {
				if event.score <= prev.score {
					continue
				}
				kept = kept[:len(kept)-1]
			}
		}
		kept = append(kept, event)
	}

	out := make([]int, len(kept))
	for i, event := range kept {
		out[i] = event.index
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
