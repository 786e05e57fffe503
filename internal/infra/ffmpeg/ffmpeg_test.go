package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/speedkillimmortal-svg/yt/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func requireFFmpeg(t *testing.T) {
	t.Helper()
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not installed", bin)
		}
	}
}

// makeTestVideo renders a short synthetic clip.
func makeTestVideo(t *testing.T, dir string, seconds int) string {
	t.Helper()
	out := filepath.Join(dir, "test.mp4")
	cmd := exec.Command("ffmpeg",
		"-nostdin", "-loglevel", "error", "-y",
		"-f", "lavfi", "-i", fmt.Sprintf("testsrc=duration=%d:size=320x240:rate=10", seconds),
		"-pix_fmt", "yuv420p",
		out,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Skipf("cannot render test video: %v, output: %s", err, output)
	}
	return out
}

func TestSamplerProducesTimestampedFrames(t *testing.T) {
	requireFFmpeg(t)
	dir := t.TempDir()
	video := makeTestVideo(t, dir, 4)

	s := NewSampler(1, "png", zap.NewNop())
	stream, err := s.Sample(context.Background(), video, t.TempDir())
	require.NoError(t, err)

	assert.InDelta(t, 4, stream.VideoDuration, 0.5)
	assert.GreaterOrEqual(t, stream.Len(), 4)

	prev := -1.0
	for {
		f, ok := stream.Next()
		if !ok {
			break
		}
		assert.Greater(t, f.Timestamp, prev)
		assert.FileExists(t, f.Path)
		prev = f.Timestamp
	}
}

func TestSamplerUnreadableInput(t *testing.T) {
	requireFFmpeg(t)

	s := NewSampler(1, "png", zap.NewNop())
	_, err := s.Sample(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"), t.TempDir())

	var inputErr *entity.InputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestSplitterEqualParts(t *testing.T) {
	requireFFmpeg(t)
	dir := t.TempDir()
	video := makeTestVideo(t, dir, 4)

	sp := NewSplitter(zap.NewNop())
	parts, err := sp.Split(context.Background(), video, t.TempDir(), 2)
	require.NoError(t, err)

	require.Len(t, parts, 2)
	assert.Equal(t, 0, parts[0].Index)
	assert.InDelta(t, 0, parts[0].Offset, 1e-9)
	assert.InDelta(t, 2, parts[1].Offset, 0.3)
	for _, p := range parts {
		assert.FileExists(t, p.Path)
	}
}

func TestCutterExportsClip(t *testing.T) {
	requireFFmpeg(t)
	dir := t.TempDir()
	video := makeTestVideo(t, dir, 4)

	c := NewCutter(zap.NewNop())
	out := filepath.Join(t.TempDir(), "clips", "clip_1.00_3.00.mp4")
	err := c.Cut(context.Background(), entity.ClipSpec{
		SourcePath: video,
		Start:      1,
		End:        3,
		OutputPath: out,
	})
	require.NoError(t, err)
	assert.FileExists(t, out)

	dur, err := ProbeDuration(context.Background(), out)
	require.NoError(t, err)
	assert.InDelta(t, 2, dur, 0.6)
}

func TestCutterExportError(t *testing.T) {
	requireFFmpeg(t)

	c := NewCutter(zap.NewNop())
	err := c.Cut(context.Background(), entity.ClipSpec{
		SourcePath: "missing.mp4",
		Start:      0,
		End:        1,
		OutputPath: filepath.Join(t.TempDir(), "out.mp4"),
	})

	var exportErr *entity.ExportError
	assert.ErrorAs(t, err, &exportErr)
}

func TestMergerConcatenatesClips(t *testing.T) {
	requireFFmpeg(t)
	dir := t.TempDir()
	a := makeTestVideo(t, dir, 2)

	c := NewCutter(zap.NewNop())
	clipDir := t.TempDir()
	var clips []string
	for i, span := range [][2]float64{{0, 1}, {1, 2}} {
		out := filepath.Join(clipDir, fmt.Sprintf("clip%d.mp4", i))
		require.NoError(t, c.Cut(context.Background(), entity.ClipSpec{
			SourcePath: a, Start: span[0], End: span[1], OutputPath: out,
		}))
		clips = append(clips, out)
	}

	m := NewMerger(zap.NewNop())
	merged := filepath.Join(t.TempDir(), "merged", "merged_batch_1.mp4")
	require.NoError(t, m.MergeBatch(context.Background(), clips, merged))
	assert.FileExists(t, merged)
}
