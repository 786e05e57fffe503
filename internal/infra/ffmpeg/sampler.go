// Package ffmpeg drives ffmpeg/ffprobe subprocesses for frame sampling,
// part splitting, clip cutting and post-processing. The source file is only
// ever read, never rewritten.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/speedkillimmortal-svg/yt/internal/domain/entity"
	"github.com/speedkillimmortal-svg/yt/internal/domain/port"
	"go.uber.org/zap"
)

// Sampler decodes one frame every interval seconds into workDir and exposes
// them as a restartable frame stream.
type Sampler struct {
	interval float64
	format   string
	logger   *zap.Logger
}

func NewSampler(interval float64, format string, logger *zap.Logger) *Sampler {
	return &Sampler{interval: interval, format: format, logger: logger}
}

func (s *Sampler) Sample(ctx context.Context, videoPath string, workDir string) (*port.FrameStream, error) {
	duration, err := ProbeDuration(ctx, videoPath)
	if err != nil {
		return nil, &entity.InputError{Path: videoPath, Err: err}
	}

	framePattern := filepath.Join(workDir, fmt.Sprintf("frame_%%06d.%s", s.format))
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-nostdin", "-loglevel", "error",
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=1/%g", s.interval),
		"-y",
		framePattern,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, &entity.InputError{
			Path: videoPath,
			Err:  fmt.Errorf("ffmpeg: %w, output: %s", err, string(output)),
		}
	}

	globPattern := filepath.Join(workDir, fmt.Sprintf("frame_*.%s", s.format))
	frames, err := filepath.Glob(globPattern)
	if err != nil {
		return nil, fmt.Errorf("glob frames: %w", err)
	}
	if len(frames) == 0 {
		return nil, &entity.InputError{Path: videoPath, Err: fmt.Errorf("no frames decoded")}
	}
	sort.Strings(frames)

	s.logger.Debug("frames sampled",
		zap.String("video", videoPath),
		zap.Int("count", len(frames)),
		zap.Float64("video_duration", duration),
	)

	return &port.FrameStream{
		Interval:      s.interval,
		VideoDuration: duration,
		Paths:         frames,
	}, nil
}

// ProbeDuration reads the container duration in seconds via ffprobe.
func ProbeDuration(ctx context.Context, videoPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	durationStr := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration: %w", err)
	}
	return duration, nil
}
