package visibility

// Builder turns az/alt samples into a visibility mask for a fixed corridor.
type Builder struct {
	corridor Corridor
}

// NewBuilder creates a Builder for the given corridor.
func NewBuilder(c Corridor) *Builder {
	return &Builder{corridor: c}
}

// Corridor returns the corridor the builder tests against.
func (b *Builder) Corridor() Corridor {
	return b.corridor
}

// Build returns one flag per sample, true when the sample lies strictly
// inside the corridor. A sample exactly on a bound is not visible.
func (b *Builder) Build(samples []Sample) Mask {
	mask := make(Mask, len(samples))
	for i, s := range samples {
		mask[i] = b.corridor.Contains(s.Azimuth, s.Altitude)
	}
	return mask
}
