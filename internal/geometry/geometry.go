// Package geometry holds the crop rectangle model. Regions live in percent
// space (0-100 of the image's natural dimensions on each axis) so they are
// independent of any on-screen display scale; pixel rectangles are derived
// on demand for a concrete image size.
package geometry

import (
	"fmt"
	"image"
	"math"
)

// Epsilon is the tolerance used when snapping float pixel values to the
// integer grid and when comparing ratios.
const Epsilon = 1e-6

// Region is a crop rectangle in percent-of-image space.
type Region struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	// Aspect is the locked width:height ratio, or the zero value for a
	// free-form region.
	Aspect Aspect
}

// Full returns the region that covers the whole image with no aspect lock.
func Full() Region {
	return Region{X: 0, Y: 0, Width: 100, Height: 100}
}

// IsFull reports whether r covers the whole image.
func (r Region) IsFull() bool {
	return r.X == 0 && r.Y == 0 && r.Width == 100 && r.Height == 100
}

func (r Region) String() string {
	return fmt.Sprintf("x=%.2f%% y=%.2f%% w=%.2f%% h=%.2f%% aspect=%s",
		r.X, r.Y, r.Width, r.Height, r.Aspect)
}

// PixelRect is a rectangle in absolute source-image pixels. Values are kept
// as floats so percent/pixel conversions stay reversible.
type PixelRect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Empty reports whether the rectangle covers less than one whole pixel on
// either axis.
func (p PixelRect) Empty() bool {
	return snap(p.W) < 1 || snap(p.H) < 1
}

// Bounds snaps the rectangle to the integer pixel grid of an imgW x imgH
// image. The size is truncated (as a canvas truncates a fractional width)
// and the origin is shifted inward if the truncated box would overhang.
func (p PixelRect) Bounds(imgW, imgH int) image.Rectangle {
	w := clampInt(int(snap(p.W)), 0, imgW)
	h := clampInt(int(snap(p.H)), 0, imgH)
	x := clampInt(int(snap(p.X)), 0, imgW-w)
	y := clampInt(int(snap(p.Y)), 0, imgH-h)
	return image.Rect(x, y, x+w, y+h)
}

// ToPixelRect converts a percent region to pixels for an image of the given
// natural size. Each axis is converted independently.
func ToPixelRect(r Region, imgW, imgH int) PixelRect {
	fw, fh := float64(imgW), float64(imgH)
	return PixelRect{
		X: r.X / 100 * fw,
		Y: r.Y / 100 * fh,
		W: r.Width / 100 * fw,
		H: r.Height / 100 * fh,
	}
}

// FromPixelRect is the inverse of ToPixelRect. A zero-sized image maps to
// the full region.
func FromPixelRect(p PixelRect, imgW, imgH int, aspect Aspect) Region {
	if imgW <= 0 || imgH <= 0 {
		r := Full()
		r.Aspect = aspect
		return r
	}
	fw, fh := float64(imgW), float64(imgH)
	return Region{
		X:      p.X / fw * 100,
		Y:      p.Y / fh * 100,
		Width:  p.W / fw * 100,
		Height: p.H / fh * 100,
		Aspect: aspect,
	}
}

// ClampToBounds keeps r inside the image: width and height are limited to
// [0,100], x to [0,100-width] and y to [0,100-height]. NaN components
// collapse to the lower bound.
func ClampToBounds(r Region) Region {
	r.Width = Clamp(r.Width, 0, 100)
	r.Height = Clamp(r.Height, 0, 100)
	r.X = Clamp(r.X, 0, 100-r.Width)
	r.Y = Clamp(r.Y, 0, 100-r.Height)
	return r
}

// Clamp limits v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func snap(v float64) float64 {
	return math.Floor(v + Epsilon)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
