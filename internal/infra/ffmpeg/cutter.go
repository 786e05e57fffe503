package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/speedkillimmortal-svg/yt/internal/domain/entity"
	"go.uber.org/zap"
)

// Cutter exports one clip per spec with a lossless stream copy. Cut points
// snap to keyframes, which is acceptable for padded event windows.
type Cutter struct {
	logger *zap.Logger
}

func NewCutter(logger *zap.Logger) *Cutter {
	return &Cutter{logger: logger}
}

func (c *Cutter) Cut(ctx context.Context, spec entity.ClipSpec) error {
	if err := os.MkdirAll(filepath.Dir(spec.OutputPath), 0755); err != nil {
		return &entity.ExportError{OutputPath: spec.OutputPath, Err: err}
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-nostdin", "-loglevel", "error", "-y",
		"-ss", strconv.FormatFloat(spec.Start, 'f', -1, 64),
		"-t", strconv.FormatFloat(spec.Duration(), 'f', -1, 64),
		"-i", spec.SourcePath,
		"-c", "copy",
		spec.OutputPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &entity.ExportError{
			OutputPath: spec.OutputPath,
			Err:        fmt.Errorf("ffmpeg: %w, output: %s", err, string(output)),
		}
	}

	c.logger.Info("clip exported",
		zap.String("path", spec.OutputPath),
		zap.Float64("start_sec", spec.Start),
		zap.Float64("end_sec", spec.End),
	)
	return nil
}
