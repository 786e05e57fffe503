package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"
)

// Merger concatenates clips with the concat demuxer, stream-copied. Inputs
// must share codec parameters, which holds for clips cut from one source.
type Merger struct {
	logger *zap.Logger
}

func NewMerger(logger *zap.Logger) *Merger {
	return &Merger{logger: logger}
}

func (m *Merger) MergeBatch(ctx context.Context, clipPaths []string, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create merge output dir: %w", err)
	}

	listFile := outputPath + "_list.txt"
	f, err := os.Create(listFile)
	if err != nil {
		return fmt.Errorf("create concat list: %w", err)
	}
	for _, clip := range clipPaths {
		abs, err := filepath.Abs(clip)
		if err != nil {
			f.Close()
			return fmt.Errorf("resolve clip path: %w", err)
		}
		fmt.Fprintf(f, "file '%s'\n", abs)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	defer os.Remove(listFile)

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-nostdin", "-loglevel", "error", "-y",
		"-f", "concat", "-safe", "0",
		"-i", listFile,
		"-c", "copy",
		"-movflags", "+faststart",
		outputPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("merge clips: %w, output: %s", err, string(output))
	}

	m.logger.Info("clips merged",
		zap.Int("count", len(clipPaths)),
		zap.String("path", outputPath),
	)
	return nil
}
