// Package render maps (source image, filter parameters, crop region) to a
// pixel buffer. The same code path serves the on-screen result and the
// full-resolution export.
package render

import (
	"fmt"
	"image"

	"github.com/AnyUserName/photoedit/internal/filters"
	"github.com/AnyUserName/photoedit/internal/geometry"
	"github.com/AnyUserName/photoedit/internal/surface"
)

// Pipeline renders through surfaces obtained from NewSurface.
type Pipeline struct {
	NewSurface surface.Factory
}

// New returns a pipeline drawing on in-memory canvases.
func New() *Pipeline {
	return &Pipeline{NewSurface: surface.CanvasFactory(0)}
}

// Render is New().Render.
func Render(src image.Image, p filters.Parameters, region geometry.Region) (*image.NRGBA, error) {
	return New().Render(src, p, region)
}

// Render crops src to region (against src's own, natural dimensions),
// draws it through the composited color chain and global alpha, then runs
// blur as a separate pass over the result.
//
// The output is exactly the crop's pixel size. A zero-area crop yields a
// single transparent pixel rather than an error.
func (pl *Pipeline) Render(src image.Image, p filters.Parameters, region geometry.Region) (*image.NRGBA, error) {
	if src == nil {
		return nil, fmt.Errorf("render: no source image")
	}
	s, err := pl.NewSurface()
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if err := Into(s, src, p, region); err != nil {
		return nil, err
	}
	return s.ReadPixels(), nil
}

// Into renders onto an existing surface, resizing it to the crop.
func Into(s surface.Surface, src image.Image, p filters.Parameters, region geometry.Region) error {
	p.Normalize()
	b := src.Bounds()
	sr := geometry.ToPixelRect(geometry.ClampToBounds(region), b.Dx(), b.Dy()).
		Bounds(b.Dx(), b.Dy()).
		Add(b.Min)

	if sr.Empty() {
		if err := s.Resize(1, 1); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		return nil
	}

	if err := s.Resize(sr.Dx(), sr.Dy()); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	defer s.ResetState()

	s.SetFilter(p.ColorChain())
	s.SetGlobalAlpha(p.Alpha())
	s.DrawRegion(src, sr, s.Bounds())

	if blur := p.BlurChain(); len(blur) > 0 {
		snapshot := s.ReadPixels()
		s.Clear()
		s.ResetState()
		s.SetFilter(blur)
		s.DrawRegion(snapshot, snapshot.Bounds(), s.Bounds())
	}
	return nil
}
