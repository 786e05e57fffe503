package port

import "context"

// Frame is one sampled frame: its timestamp in part-local seconds and the
// path of the decoded image on disk.
type Frame struct {
	Timestamp float64
	Path      string
}

// FrameStream yields sampled frames in timestamp order. It is finite and
// restartable from the beginning via Reset, but not resumable mid-stream.
type FrameStream struct {
	Interval      float64
	VideoDuration float64
	Paths         []string

	pos int
}

// Next returns the next frame, or ok=false at end of stream. Frame k sits at
// k*Interval on the ffmpeg fps-filter sampling grid.
func (s *FrameStream) Next() (Frame, bool) {
	if s.pos >= len(s.Paths) {
		return Frame{}, false
	}
	f := Frame{
		Timestamp: float64(s.pos) * s.Interval,
		Path:      s.Paths[s.pos],
	}
	s.pos++
	return f, true
}

// Reset restarts the stream from the first frame.
func (s *FrameStream) Reset() { s.pos = 0 }

// Len returns the total number of sampled frames.
func (s *FrameStream) Len() int { return len(s.Paths) }

// MaxTimestamp returns the timestamp of the last sampled frame, or 0 for an
// empty stream.
func (s *FrameStream) MaxTimestamp() float64 {
	if len(s.Paths) == 0 {
		return 0
	}
	return float64(len(s.Paths)-1) * s.Interval
}

// FrameSampler decodes a video into a bounded stream of frames sampled at a
// fixed interval. It must not mutate the source file and must surface an
// *entity.InputError when the video cannot be opened or decoded.
type FrameSampler interface {
	Sample(ctx context.Context, videoPath string, workDir string) (*FrameStream, error)
}
