// Package surface provides the 2D drawing surface the render pipeline draws
// on: a pixel buffer with a pending filter chain and global alpha that apply
// to the next draw.
package surface

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/AnyUserName/photoedit/internal/filters"
	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// ErrUnavailable means a surface could not be acquired or sized.
var ErrUnavailable = errors.New("rendering surface unavailable")

// DefaultMaxPixels bounds the area of a Canvas, in the range browsers allow
// for a 2D canvas.
const DefaultMaxPixels = 16384 * 16384

// Surface is the capability set the render pipeline needs.
type Surface interface {
	// Resize reallocates the buffer to w x h transparent pixels and resets
	// the filter chain and alpha.
	Resize(w, h int) error
	// Bounds returns the buffer bounds, always anchored at (0,0).
	Bounds() image.Rectangle
	// SetFilter sets the chain applied by subsequent draws.
	SetFilter(c filters.Chain)
	// SetGlobalAlpha sets the opacity multiplier applied by subsequent draws.
	SetGlobalAlpha(a float64)
	// DrawRegion draws the sr part of src into dr, scaling if the sizes
	// differ, through the current filter chain and alpha (source-over).
	DrawRegion(src image.Image, sr, dr image.Rectangle)
	// ReadPixels returns a copy of the buffer.
	ReadPixels() *image.NRGBA
	// Clear sets every pixel to transparent black.
	Clear()
	// ResetState drops the filter chain and restores alpha to 1.
	ResetState()
}

// Factory acquires a fresh surface.
type Factory func() (Surface, error)

// Canvas is an in-memory Surface backed by an *image.NRGBA.
type Canvas struct {
	maxPixels int
	buf       *image.NRGBA
	chain     filters.Chain
	alpha     float64
}

// NewCanvas returns an empty canvas limited to maxPixels of area
// (DefaultMaxPixels when maxPixels <= 0).
func NewCanvas(maxPixels int) *Canvas {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Canvas{
		maxPixels: maxPixels,
		buf:       image.NewNRGBA(image.Rect(0, 0, 0, 0)),
		alpha:     1,
	}
}

// CanvasFactory returns a Factory producing Canvas surfaces.
func CanvasFactory(maxPixels int) Factory {
	return func() (Surface, error) {
		return NewCanvas(maxPixels), nil
	}
}

func (c *Canvas) Resize(w, h int) error {
	if w < 0 || h < 0 || (w > 0 && h > c.maxPixels/w) {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUnavailable, w, h, c.maxPixels)
	}
	c.buf = image.NewNRGBA(image.Rect(0, 0, w, h))
	c.ResetState()
	return nil
}

func (c *Canvas) Bounds() image.Rectangle { return c.buf.Bounds() }

func (c *Canvas) SetFilter(chain filters.Chain) {
	c.chain = append(filters.Chain(nil), chain...)
}

func (c *Canvas) SetGlobalAlpha(a float64) {
	if math.IsNaN(a) {
		return
	}
	c.alpha = math.Max(0, math.Min(1, a))
}

func (c *Canvas) ResetState() {
	c.chain = nil
	c.alpha = 1
}

func (c *Canvas) Clear() {
	clear(c.buf.Pix)
}

func (c *Canvas) ReadPixels() *image.NRGBA {
	return imaging.Clone(c.buf)
}

func (c *Canvas) DrawRegion(src image.Image, sr, dr image.Rectangle) {
	dr = dr.Intersect(c.buf.Bounds())
	sr = sr.Intersect(src.Bounds())
	if dr.Empty() || sr.Empty() {
		return
	}

	var layer *image.NRGBA
	if sr.Dx() == dr.Dx() && sr.Dy() == dr.Dy() {
		layer = imaging.Crop(src, sr)
	} else {
		layer = image.NewNRGBA(image.Rect(0, 0, dr.Dx(), dr.Dy()))
		xdraw.CatmullRom.Scale(layer, layer.Bounds(), src, sr, xdraw.Src, nil)
	}

	layer = applyChain(layer, c.chain)
	if c.alpha < 1 {
		multiplyAlpha(layer, c.alpha)
	}

	xdraw.Draw(c.buf, dr, layer, image.Point{}, xdraw.Over)
}

// applyChain runs consecutive color steps as one AdjustFunc pass and each
// blur as its own pass, preserving chain order.
func applyChain(img *image.NRGBA, chain filters.Chain) *image.NRGBA {
	var run filters.Chain
	flush := func() {
		if fn := run.ColorFunc(); fn != nil {
			img = imaging.AdjustFunc(img, fn)
		}
		run = run[:0]
	}
	for _, a := range chain {
		if !a.Spatial() {
			run = append(run, a)
			continue
		}
		flush()
		if a.Amount > 0 {
			img = imaging.Blur(img, a.Amount)
		}
	}
	flush()
	return img
}

func multiplyAlpha(img *image.NRGBA, a float64) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(math.Round(float64(img.Pix[i]) * a))
	}
}

// Transparent reports whether any pixel of img is not fully opaque.
func Transparent(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0xff {
			return true
		}
	}
	return false
}

