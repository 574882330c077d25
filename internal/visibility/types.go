package visibility

import "time"

// SamplesPerDay is the number of one-minute samples in a sampled day,
// counting both the starting midnight and the following one.
const SamplesPerDay = 24*60 + 1

// Sample is a target's horizontal position at one instant.
type Sample struct {
	Time     time.Time
	Azimuth  float64 // degrees, 0 = North, clockwise
	Altitude float64 // degrees above the horizon
}

// Corridor bounds the part of the sky the site can observe.
// All four bounds are exclusive.
type Corridor struct {
	AzMin  float64 `yaml:"az_min" json:"az_min"`
	AzMax  float64 `yaml:"az_max" json:"az_max"`
	AltMin float64 `yaml:"alt_min" json:"alt_min"`
	AltMax float64 `yaml:"alt_max" json:"alt_max"`
}

// Contains reports whether the given direction lies strictly inside the corridor.
func (c Corridor) Contains(az, alt float64) bool {
	return az > c.AzMin && az < c.AzMax && alt > c.AltMin && alt < c.AltMax
}

// Mask holds one visibility flag per sample.
type Mask []bool

// Any reports whether at least one sample is visible.
func (m Mask) Any() bool {
	for _, v := range m {
		if v {
			return true
		}
	}
	return false
}

// Window is a half-open interval [Start, End) during which a target is visible.
// An overnight window has its End on the calendar day after its Start.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the length of the window.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Wraps reports whether the window runs past the midnight following its start.
func (w Window) Wraps() bool {
	sy, sm, sd := w.Start.Date()
	next := time.Date(sy, sm, sd+1, 0, 0, 0, 0, w.Start.Location())
	return w.End.After(next)
}
