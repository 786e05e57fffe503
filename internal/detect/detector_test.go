package detect

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/speedkillimmortal-svg/yt/internal/domain/entity"
	"github.com/speedkillimmortal-svg/yt/internal/domain/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testRegion = entity.Region{X: 0, Y: 0.33, W: 0.25, H: 0.33}

// fakeRecognizer maps frame paths to recognized text.
type fakeRecognizer struct {
	texts map[string]string
	err   error
	calls int
}

func (f *fakeRecognizer) Recognize(ctx context.Context, imagePath string, region entity.Region) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.texts[imagePath], nil
}

// slowRecognizer blocks until its context is done.
type slowRecognizer struct{}

func (s *slowRecognizer) Recognize(ctx context.Context, imagePath string, region entity.Region) (string, error) {
	<-ctx.Done()
	return "", fmt.Errorf("%w: %s", entity.ErrRecognitionTimeout, imagePath)
}

func frames(paths ...string) *port.FrameStream {
	return &port.FrameStream{Interval: 1, VideoDuration: float64(len(paths)), Paths: paths}
}

func collect(s *Stream) []entity.Detection {
	var out []entity.Detection
	for {
		d, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, d)
	}
}

func TestDetectorMatchesCaseInsensitiveSubstring(t *testing.T) {
	rec := &fakeRecognizer{texts: map[string]string{
		"f0.png": "",
		"f1.png": "  ENEMY DOWNED  ",
		"f2.png": "xx immortal xx",
		"f3.png": "nothing here",
	}}
	d := New(rec, "Immortal", testRegion, 0, zap.NewNop())

	got := collect(d.Stream(context.Background(), frames("f0.png", "f1.png", "f2.png", "f3.png")))

	require.Len(t, got, 4)
	assert.False(t, got[0].Matched)
	assert.False(t, got[1].Matched)
	assert.True(t, got[2].Matched)
	assert.False(t, got[3].Matched)
}

func TestDetectorTimestampsFollowSamplingGrid(t *testing.T) {
	rec := &fakeRecognizer{texts: map[string]string{}}
	d := New(rec, "kw", testRegion, 0, zap.NewNop())

	stream := d.Stream(context.Background(), &port.FrameStream{
		Interval: 0.5,
		Paths:    []string{"a.png", "b.png", "c.png"},
	})
	got := collect(stream)

	require.Len(t, got, 3)
	assert.InDelta(t, 0.0, got[0].Timestamp, 1e-9)
	assert.InDelta(t, 0.5, got[1].Timestamp, 1e-9)
	assert.InDelta(t, 1.0, got[2].Timestamp, 1e-9)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i].Timestamp, got[i-1].Timestamp)
	}
}

func TestDetectorTimeoutFailsOpen(t *testing.T) {
	d := New(&slowRecognizer{}, "kw", testRegion, 10*time.Millisecond, zap.NewNop())

	got := collect(d.Stream(context.Background(), frames("a.png", "b.png")))

	require.Len(t, got, 2)
	assert.False(t, got[0].Matched)
	assert.False(t, got[1].Matched)
}

func TestDetectorUnavailableEngineStopsStream(t *testing.T) {
	rec := &fakeRecognizer{err: fmt.Errorf("%w: tesseract missing", entity.ErrRecognizerUnavailable)}
	d := New(rec, "kw", testRegion, 0, zap.NewNop())

	stream := d.Stream(context.Background(), frames("a.png", "b.png", "c.png"))
	_, ok := stream.Next()

	assert.False(t, ok)
	assert.ErrorIs(t, stream.Err(), entity.ErrRecognizerUnavailable)
	assert.Equal(t, 1, rec.calls)
}

func TestDetectorTransientErrorTreatedAsNoMatch(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("corrupt frame")}
	d := New(rec, "kw", testRegion, 0, zap.NewNop())

	stream := d.Stream(context.Background(), frames("a.png", "b.png"))
	got := collect(stream)

	require.Len(t, got, 2)
	assert.NoError(t, stream.Err())
	assert.False(t, got[0].Matched)
}

func TestDetectorCancelledContextStopsStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &fakeRecognizer{err: context.Canceled}
	d := New(rec, "kw", testRegion, 0, zap.NewNop())

	stream := d.Stream(ctx, frames("a.png", "b.png"))
	_, ok := stream.Next()

	assert.False(t, ok)
	assert.ErrorIs(t, stream.Err(), context.Canceled)
}

func TestDetectorStreamIsSinglePass(t *testing.T) {
	rec := &fakeRecognizer{texts: map[string]string{"a.png": "kw"}}
	d := New(rec, "kw", testRegion, 0, zap.NewNop())

	stream := d.Stream(context.Background(), frames("a.png"))
	collect(stream)

	_, ok := stream.Next()
	assert.False(t, ok)
	assert.Equal(t, 1, rec.calls)
}
