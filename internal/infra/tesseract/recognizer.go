// Package tesseract adapts the tesseract CLI as the region text recognizer.
// Each call is one short-lived subprocess, so concurrent scans need no
// locking around the engine.
package tesseract

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strings"

	_ "image/jpeg"

	"github.com/speedkillimmortal-svg/yt/internal/domain/entity"
	"go.uber.org/zap"
)

type Recognizer struct {
	binary string
	lang   string
	logger *zap.Logger
}

// New resolves the tesseract binary up front. A missing engine is fatal for
// the whole run and reported as entity.ErrRecognizerUnavailable rather than
// being discovered frame by frame.
func New(binary, lang string, logger *zap.Logger) (*Recognizer, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %q not found in PATH: %v", entity.ErrRecognizerUnavailable, binary, err)
	}
	return &Recognizer{binary: path, lang: lang, logger: logger}, nil
}

// Recognize crops the frame to the region and OCRs the crop. The returned
// text is whitespace-trimmed and may be empty.
func (r *Recognizer) Recognize(ctx context.Context, imagePath string, region entity.Region) (string, error) {
	cropPath, err := r.cropRegion(imagePath, region)
	if err != nil {
		return "", err
	}
	defer os.Remove(cropPath)

	cmd := exec.CommandContext(ctx, r.binary, cropPath, "stdout", "-l", r.lang, "--psm", "6")
	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s", entity.ErrRecognitionTimeout, imagePath)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("tesseract: %w, stderr: %s", err, string(exitErr.Stderr))
		}
		return "", fmt.Errorf("tesseract: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func (r *Recognizer) cropRegion(imagePath string, region entity.Region) (string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("open frame: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decode frame %s: %w", imagePath, err)
	}

	si, ok := img.(subImager)
	if !ok {
		return "", fmt.Errorf("frame %s: image type %T does not support cropping", imagePath, img)
	}
	crop := si.SubImage(region.Pixels(img.Bounds()))

	tmp, err := os.CreateTemp("", "roi-*.png")
	if err != nil {
		return "", fmt.Errorf("create crop file: %w", err)
	}
	if err := png.Encode(tmp, crop); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("encode crop: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close crop file: %w", err)
	}
	return tmp.Name(), nil
}
