package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/speedkillimmortal-svg/yt/internal/domain/entity"
	"github.com/speedkillimmortal-svg/yt/internal/domain/port"
	"go.uber.org/zap"
)

// Splitter cuts the source into N contiguous stream-copied parts so each can
// be scanned independently. Offsets come from equal division of the probed
// duration.
type Splitter struct {
	logger *zap.Logger
}

func NewSplitter(logger *zap.Logger) *Splitter {
	return &Splitter{logger: logger}
}

func (sp *Splitter) Split(ctx context.Context, videoPath string, workDir string, count int) ([]port.VideoPart, error) {
	duration, err := ProbeDuration(ctx, videoPath)
	if err != nil {
		return nil, &entity.InputError{Path: videoPath, Err: err}
	}

	partLen := duration / float64(count)
	ext := filepath.Ext(videoPath)
	if ext == "" {
		ext = ".mp4"
	}

	parts := make([]port.VideoPart, 0, count)
	for i := 0; i < count; i++ {
		offset := float64(i) * partLen
		outFile := filepath.Join(workDir, fmt.Sprintf("part%d%s", i+1, ext))

		cmd := exec.CommandContext(ctx, "ffmpeg",
			"-nostdin", "-loglevel", "error", "-y",
			"-i", videoPath,
			"-ss", strconv.FormatFloat(offset, 'f', -1, 64),
			"-t", strconv.FormatFloat(partLen, 'f', -1, 64),
			"-c", "copy",
			outFile,
		)
		output, err := cmd.CombinedOutput()
		if err != nil {
			return nil, &entity.InputError{
				Path: videoPath,
				Err:  fmt.Errorf("split part %d: %w, output: %s", i+1, err, string(output)),
			}
		}

		sp.logger.Info("part created",
			zap.String("path", outFile),
			zap.Float64("offset_sec", offset),
			zap.Float64("length_sec", partLen),
		)

		parts = append(parts, port.VideoPart{
			Index:    i,
			Path:     outFile,
			Offset:   offset,
			Duration: partLen,
		})
	}
	return parts, nil
}
