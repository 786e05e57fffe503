package entity

// Detection is a single timestamped observation of keyword presence taken
// from one sampled frame. Timestamps are seconds from the start of the part
// being scanned and are strictly increasing within one detection stream.
type Detection struct {
	Timestamp float64
	Matched   bool
}

// EventWindow is a padded, merged time range covering one coherent keyword
// appearance. Start and End are part-local seconds until the window is
// shifted into global time; Start < End always holds for emitted windows.
type EventWindow struct {
	Start float64
	End   float64
	Part  int
}

// Duration returns the window length in seconds.
func (w EventWindow) Duration() float64 {
	return w.End - w.Start
}

// ClipSpec tells the clip cutter what to produce: a trimmed copy of the
// source covering [Start, End] in global (whole-video) seconds, written to
// OutputPath. A spec is consumed exactly once.
type ClipSpec struct {
	SourcePath string
	Start      float64
	End        float64
	OutputPath string
}

// Duration returns the clip length in seconds.
func (c ClipSpec) Duration() float64 {
	return c.End - c.Start
}
