// Package detect turns a frame stream into a lazy stream of keyword
// detections by running OCR over the configured region of each frame.
package detect

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/speedkillimmortal-svg/yt/internal/domain/entity"
	"github.com/speedkillimmortal-svg/yt/internal/domain/port"
	"github.com/speedkillimmortal-svg/yt/internal/infra/metrics"
	"go.uber.org/zap"
)

// Detector matches a keyword against recognized region text. Matching is a
// case-insensitive substring test over whitespace-trimmed OCR output, which
// tolerates noise around the target text at the cost of some precision.
type Detector struct {
	recognizer port.TextRecognizer
	keyword    string
	region     entity.Region
	timeout    time.Duration
	logger     *zap.Logger
}

// New builds a detector. timeout bounds each OCR call; 0 disables the bound.
func New(recognizer port.TextRecognizer, keyword string, region entity.Region, timeout time.Duration, logger *zap.Logger) *Detector {
	return &Detector{
		recognizer: recognizer,
		keyword:    strings.ToLower(keyword),
		region:     region,
		timeout:    timeout,
		logger:     logger,
	}
}

// Stream is a single-pass, pull-based detection sequence. OCR runs only when
// Next is called, so no frame is inspected ahead of its consumer.
type Stream struct {
	det    *Detector
	frames *port.FrameStream
	ctx    context.Context
	err    error
	done   bool
}

// Stream starts a detection pass over frames. Detections come out in frame
// order with strictly increasing timestamps.
func (d *Detector) Stream(ctx context.Context, frames *port.FrameStream) *Stream {
	return &Stream{det: d, frames: frames, ctx: ctx}
}

// Next returns the next detection, or ok=false when the stream is exhausted
// or failed. After a false return, check Err.
func (s *Stream) Next() (entity.Detection, bool) {
	if s.done {
		return entity.Detection{}, false
	}
	frame, ok := s.frames.Next()
	if !ok {
		s.done = true
		return entity.Detection{}, false
	}
	matched, err := s.det.inspect(s.ctx, frame)
	if err != nil {
		s.done = true
		s.err = err
		return entity.Detection{}, false
	}
	return entity.Detection{Timestamp: frame.Timestamp, Matched: matched}, true
}

// Err reports the error that terminated the stream early, if any.
func (s *Stream) Err() error { return s.err }

func (d *Detector) inspect(ctx context.Context, frame port.Frame) (bool, error) {
	rctx := ctx
	cancel := func() {}
	if d.timeout > 0 {
		rctx, cancel = context.WithTimeout(ctx, d.timeout)
	}
	text, err := d.recognizer.Recognize(rctx, frame.Path, d.region)
	cancel()
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrRecognizerUnavailable):
			return false, err
		case ctx.Err() != nil:
			return false, ctx.Err()
		case errors.Is(err, entity.ErrRecognitionTimeout) || errors.Is(err, context.DeadlineExceeded):
			// Fail open: one stuck OCR call must not stall the whole pass.
			metrics.OCRTimeoutsTotal.Inc()
			d.logger.Warn("ocr timed out, treating frame as no match",
				zap.Float64("timestamp_sec", frame.Timestamp),
			)
			return false, nil
		default:
			d.logger.Warn("recognition failed, treating frame as no match",
				zap.Float64("timestamp_sec", frame.Timestamp),
				zap.Error(err),
			)
			return false, nil
		}
	}

	matched := strings.Contains(strings.ToLower(strings.TrimSpace(text)), d.keyword)
	if matched {
		metrics.DetectionsTotal.WithLabelValues("match").Inc()
		d.logger.Info("keyword detected",
			zap.Float64("timestamp_sec", frame.Timestamp),
			zap.String("text", strings.TrimSpace(text)),
		)
	} else {
		metrics.DetectionsTotal.WithLabelValues("no_match").Inc()
	}
	return matched, nil
}
