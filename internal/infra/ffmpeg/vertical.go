package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"
)

// Converter re-encodes a clip into a vertical 9:16 frame for Shorts/Reels:
// scale to target height, center-crop anything wider than the target width,
// pad the rest with black.
type Converter struct {
	width  int
	height int
	logger *zap.Logger
}

func NewConverter(width, height int, logger *zap.Logger) *Converter {
	return &Converter{width: width, height: height, logger: logger}
}

func (v *Converter) Convert(ctx context.Context, inputPath string, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create vertical output dir: %w", err)
	}

	filter := fmt.Sprintf(
		"scale=-1:%d,crop='if(gt(in_w,%d),%d,in_w)':%d:(in_w-out_w)/2:0,pad=%d:%d:(out_w-in_w)/2:(out_h-in_h)/2:black",
		v.height, v.width, v.width, v.height, v.width, v.height,
	)

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-nostdin", "-loglevel", "error", "-y",
		"-i", inputPath,
		"-vf", filter,
		"-c:v", "libx264",
		"-preset", "fast",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-movflags", "+faststart",
		outputPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("vertical convert: %w, output: %s", err, string(output))
	}

	v.logger.Info("vertical rendition created", zap.String("path", outputPath))
	return nil
}
