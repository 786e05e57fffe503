package port

import (
	"context"

	"github.com/speedkillimmortal-svg/yt/internal/domain/entity"
)

// VideoPart is one contiguous slice of the source video with its absolute
// offset in the whole recording.
type VideoPart struct {
	Index    int
	Path     string
	Offset   float64
	Duration float64
}

// PartSplitter divides a source video into count contiguous, equal-length
// parts under workDir and reports their absolute offsets.
type PartSplitter interface {
	Split(ctx context.Context, videoPath string, workDir string, count int) ([]VideoPart, error)
}

// ClipCutter produces a trimmed media file for one clip spec, or fails with
// an *entity.ExportError.
type ClipCutter interface {
	Cut(ctx context.Context, spec entity.ClipSpec) error
}

// ClipMerger concatenates a batch of clips into one output file.
type ClipMerger interface {
	MergeBatch(ctx context.Context, clipPaths []string, outputPath string) error
}

// VerticalConverter re-encodes a clip into a vertical 9:16 rendition for
// Shorts/Reels style publishing.
type VerticalConverter interface {
	Convert(ctx context.Context, inputPath string, outputPath string) error
}
