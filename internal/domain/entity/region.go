package entity

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// Region is a rectangular region of interest in normalized frame
// coordinates: X/Y is the top-left corner and W/H the extent, all in [0,1]
// relative to frame size. The zero value is invalid; a region must lie fully
// inside the frame.
type Region struct {
	X float64
	Y float64
	W float64
	H float64
}

// UnmarshalText parses "x,y,w,h" so a Region can be set directly from an
// environment variable.
func (r *Region) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), ",")
	if len(parts) != 4 {
		return fmt.Errorf("region %q: want x,y,w,h", string(text))
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("region %q: %w", string(text), err)
		}
		vals[i] = v
	}
	parsed := Region{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}
	if err := parsed.Validate(); err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Validate checks that the region is non-empty and contained in [0,1]x[0,1].
func (r Region) Validate() error {
	if r.W <= 0 || r.H <= 0 {
		return fmt.Errorf("region must have positive width and height, got %.3fx%.3f", r.W, r.H)
	}
	if r.X < 0 || r.Y < 0 || r.X+r.W > 1 || r.Y+r.H > 1 {
		return fmt.Errorf("region (%.3f,%.3f,%.3f,%.3f) exceeds frame bounds", r.X, r.Y, r.W, r.H)
	}
	return nil
}

// Pixels maps the normalized region onto a concrete frame rectangle.
func (r Region) Pixels(bounds image.Rectangle) image.Rectangle {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	return image.Rect(
		bounds.Min.X+int(math.Round(r.X*w)),
		bounds.Min.Y+int(math.Round(r.Y*h)),
		bounds.Min.X+int(math.Round((r.X+r.W)*w)),
		bounds.Min.Y+int(math.Round((r.Y+r.H)*h)),
	)
}
