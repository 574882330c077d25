package visibility

import "time"

// Order selects where the merged overnight window is placed in the output.
type Order int

const (
	// MergedLast appends the overnight window after all interior windows.
	// Since its start is the latest start of the day, the list stays sorted by start.
	MergedLast Order = iota
	// MergedFirst puts the overnight window first, as the one already in
	// progress at the start of the sampled day.
	MergedFirst
)

// ExtractorConfig holds Extractor options.
type ExtractorConfig struct {
	Order Order
}

// Extractor converts visibility masks into windows.
type Extractor struct {
	cfg ExtractorConfig
}

// NewExtractor creates an Extractor.
func NewExtractor(cfg ExtractorConfig) *Extractor {
	return &Extractor{cfg: cfg}
}

// Extraction is the result of scanning one mask.
type Extraction struct {
	Windows []Window
	Raw     int  // windows found by the scan, before the overnight merge
	Merged  bool // first and last raw windows were joined across midnight
}

// Visible reports whether the target has at least one window.
func (e Extraction) Visible() bool {
	return len(e.Windows) > 0
}

// Extract scans mask against its parallel timestamps and returns every
// maximal run of visible samples as a half-open window. A run still open
// at the last sample is closed at the last timestamp.
//
// When there are at least two runs and both the first and last samples
// are visible, the first and last runs are one interval cut by the day
// boundary. They are replaced by a single window from the last run's start
// to the first run's end, shifted by the sampled span.
func (x *Extractor) Extract(mask Mask, times []time.Time) Extraction {
	n := len(mask)
	if len(times) < n {
		n = len(times)
	}
	if n == 0 {
		return Extraction{}
	}

	var (
		windows []Window
		inside  bool
		start   time.Time
	)
	for i := 0; i < n; i++ {
		switch {
		case mask[i] && !inside:
			inside = true
			start = times[i]
		case !mask[i] && inside:
			inside = false
			windows = append(windows, Window{Start: start, End: times[i]})
		}
	}
	if inside {
		windows = append(windows, Window{Start: start, End: times[n-1]})
	}

	out := Extraction{Windows: windows, Raw: len(windows)}
	if len(windows) < 2 || !mask[0] || !mask[n-1] {
		out.Windows = dropEmpty(windows)
		return out
	}

	first := windows[0]
	last := windows[len(windows)-1]
	span := times[n-1].Sub(times[0])
	merged := Window{Start: last.Start, End: first.End.Add(span)}

	interior := windows[1 : len(windows)-1]
	result := make([]Window, 0, len(interior)+1)
	if x.cfg.Order == MergedFirst {
		result = append(result, merged)
		result = append(result, interior...)
	} else {
		result = append(result, interior...)
		result = append(result, merged)
	}

	out.Windows = result
	out.Merged = true
	return out
}

// dropEmpty removes the zero-length window left by a run made of the final
// sample alone.
func dropEmpty(windows []Window) []Window {
	out := windows[:0]
	for _, w := range windows {
		if w.Start.Before(w.End) {
			out = append(out, w)
		}
	}
	return out
}

// Span returns the interval from the first visible sample to the last one,
// regardless of gaps between them. ok is false when nothing is visible.
func Span(mask Mask, times []time.Time) (w Window, ok bool) {
	n := len(mask)
	if len(times) < n {
		n = len(times)
	}
	first, last := -1, -1
	for i := 0; i < n; i++ {
		if mask[i] {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return Window{}, false
	}
	return Window{Start: times[first], End: times[last]}, true
}
