// Package segment reduces sparse per-frame keyword detections to temporally
// coherent event windows: debounced across OCR flicker, padded by pre/post
// margins, merged when paddings collide, clamped to the part bounds.
package segment

import (
	"fmt"

	"github.com/speedkillimmortal-svg/yt/internal/domain/entity"
)

// Params controls how detections are folded into windows.
type Params struct {
	// PreSec pads each window before its first matched detection.
	PreSec float64
	// PostSec pads each window after its last matched detection.
	PostSec float64
	// MergeGapSec is the largest gap between matches that still counts as
	// one event. A single missed frame must not split one real event in two.
	MergeGapSec float64
	// MaxEnd clamps padded window ends at the part duration. <= 0 disables
	// the clamp.
	MaxEnd float64
	// PartIndex is recorded on every emitted window.
	PartIndex int
}

// Segment consumes detections in strictly increasing timestamp order and
// returns the distinct keyword occurrences as padded windows, emitted in
// creation order. For all i < j, windows[i].End <= windows[j].Start. A
// stream with no matches yields no windows. Out-of-order timestamps are a
// programmer error and panic.
//
// next returns one detection at a time and ok=false at end of stream, so
// callers can feed detections lazily without buffering the whole scan.
func Segment(next func() (entity.Detection, bool), p Params) []entity.EventWindow {
	var (
		windows   []entity.EventWindow
		inside    bool
		start     float64
		lastMatch float64
		lastTS    float64
		first     = true
	)

	emit := func() {
		end := lastMatch + p.PostSec
		if p.MaxEnd > 0 && end > p.MaxEnd {
			end = p.MaxEnd
		}
		if end <= start {
			// Degenerate after clamping (possible only with zero padding);
			// an empty window carries no clip.
			return
		}
		if n := len(windows); n > 0 && start < windows[n-1].End {
			windows[n-1].End = end
			return
		}
		windows = append(windows, entity.EventWindow{Start: start, End: end, Part: p.PartIndex})
	}

	for {
		d, ok := next()
		if !ok {
			break
		}
		if !first && d.Timestamp <= lastTS {
			panic(fmt.Sprintf("segment: detection at %.3fs not after %.3fs", d.Timestamp, lastTS))
		}
		first = false
		lastTS = d.Timestamp

		switch {
		case d.Matched && !inside:
			inside = true
			start = d.Timestamp - p.PreSec
			if start < 0 {
				start = 0
			}
			lastMatch = d.Timestamp
		case d.Matched:
			lastMatch = d.Timestamp
		case inside && d.Timestamp-lastMatch > p.MergeGapSec:
			emit()
			inside = false
		}
	}
	if inside {
		emit()
	}
	return windows
}

// Offset shifts part-local windows into global time by the part's absolute
// offset. The input slice is left untouched.
func Offset(windows []entity.EventWindow, seconds float64) []entity.EventWindow {
	shifted := make([]entity.EventWindow, len(windows))
	for i, w := range windows {
		shifted[i] = entity.EventWindow{
			Start: w.Start + seconds,
			End:   w.End + seconds,
			Part:  w.Part,
		}
	}
	return shifted
}
