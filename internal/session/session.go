// Package session ties the editing state together: the loaded source image,
// its filter parameters and crop region, and the latest rendered frame.
//
// An Editor is event driven and single threaded. Every state change that
// affects the picture re-renders synchronously before returning, so the
// visible frame always reflects the current state or, if the render failed,
// the previous complete frame. An Editor is not safe for concurrent use.
package session

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/AnyUserName/photoedit/internal/encoder"
	"github.com/AnyUserName/photoedit/internal/export"
	"github.com/AnyUserName/photoedit/internal/filters"
	"github.com/AnyUserName/photoedit/internal/geometry"
	"github.com/AnyUserName/photoedit/internal/gesture"
	"github.com/AnyUserName/photoedit/internal/render"
	"github.com/AnyUserName/photoedit/internal/source"
	"github.com/disintegration/imaging"
)

var (
	// ErrNoImage is returned by operations that need a loaded source.
	ErrNoImage = errors.New("no image loaded")
	// ErrCropInProgress is returned by Export while crop mode is active.
	ErrCropInProgress = errors.New("finish cropping before exporting")
)

// DefaultQuality is the initial compression quality, in percent.
const DefaultQuality = 100

// Options configure an Editor.
type Options struct {
	// ResetFiltersOnLoad restores default filters whenever a new image is
	// loaded. The crop region is always reset.
	ResetFiltersOnLoad bool
	// Pipeline renders frames and exports. Nil uses in-memory canvases.
	Pipeline *render.Pipeline
	// Registry supplies export encoders. Nil probes a fresh registry.
	Registry *encoder.Registry
	// Format is the export format; empty means encoder.DefaultFormat.
	Format  string
	Verbose bool
}

// Editor is one editing session.
type Editor struct {
	opts Options

	src     *source.Image
	params  filters.Parameters
	crop    *gesture.Machine
	quality float64

	displayW, displayH int

	frame   *image.NRGBA
	renders int
}

// New returns an editor with default filters, a full crop region and no
// image loaded.
func New(opts Options) *Editor {
	if opts.Pipeline == nil {
		opts.Pipeline = render.New()
	}
	if opts.Registry == nil {
		opts.Registry = encoder.NewRegistry()
	}
	return &Editor{
		opts:    opts,
		params:  filters.Defaults(),
		crop:    gesture.New(),
		quality: DefaultQuality,
	}
}

// Load decodes an image from r and makes it the current source. On failure
// the editor is left exactly as it was.
func (e *Editor) Load(r io.Reader) error {
	img, err := source.Decode(r)
	if err != nil {
		return err
	}
	return e.SetSource(img)
}

// LoadFile is Load for a file path.
func (e *Editor) LoadFile(path string) error {
	img, err := source.Load(path)
	if err != nil {
		return err
	}
	return e.SetSource(img)
}

// SetSource installs an already decoded image: the crop region returns to
// the full image, crop mode ends, filters reset if so configured, and a new
// frame is rendered. If that render fails the previous frame, possibly of
// the previous image, stays visible.
func (e *Editor) SetSource(img *source.Image) error {
	if img == nil {
		return ErrNoImage
	}
	e.src = img
	e.crop.Reset()
	if e.opts.ResetFiltersOnLoad {
		e.params.Reset()
	}
	e.logf("loaded %s (%dx%d %s)", img.Name, img.Width, img.Height, img.Format)
	return e.rerender()
}

// Source returns the current source image, or nil.
func (e *Editor) Source() *source.Image { return e.src }

// Filters returns a copy of the current parameters.
func (e *Editor) Filters() filters.Parameters { return e.params }

// SetFilter assigns a numeric parameter by name (clamped) and re-renders.
func (e *Editor) SetFilter(name string, v float64) error {
	if _, err := e.params.Set(name, v); err != nil {
		return err
	}
	return e.rerender()
}

// SetGrayscale toggles grayscale and re-renders.
func (e *Editor) SetGrayscale(on bool) error {
	e.params.SetGrayscale(on)
	return e.rerender()
}

// SetFilters replaces all parameters (clamped) and re-renders.
func (e *Editor) SetFilters(p filters.Parameters) error {
	p.Normalize()
	e.params = p
	return e.rerender()
}

// ResetFilters restores the defaults and re-renders.
func (e *Editor) ResetFilters() error {
	e.params.Reset()
	return e.rerender()
}

// Quality returns the compression quality in percent.
func (e *Editor) Quality() float64 { return e.quality }

// SetQuality sets the compression quality in percent, clamped to [0,100].
func (e *Editor) SetQuality(q float64) error {
	e.quality = geometry.Clamp(q, 0, 100)
	return e.rerender()
}

// Resize sets the on-screen display box. It only changes how Preview scales
// the frame; the frame itself is percent-based and keeps its size.
func (e *Editor) Resize(w, h int) error {
	e.displayW, e.displayH = max(w, 0), max(h, 0)
	return e.rerender()
}

// Region returns the current crop region.
func (e *Editor) Region() geometry.Region { return e.crop.Region() }

// SetRegion replaces the crop region (clamped) and re-renders. A locked
// aspect is enforced against the loaded image by recomputing the height.
func (e *Editor) SetRegion(r geometry.Region) error {
	var w, h int
	if e.src != nil {
		w, h = e.src.Width, e.src.Height
	}
	e.crop.SetRegion(r, w, h)
	return e.rerender()
}

// Cropping reports whether crop mode is active.
func (e *Editor) Cropping() bool { return e.crop.Cropping() }

// GestureMode returns the state of the pointer gesture in progress.
func (e *Editor) GestureMode() gesture.Mode { return e.crop.Mode() }

// EnterCropMode starts accepting crop gestures.
func (e *Editor) EnterCropMode() { e.crop.EnterCropMode() }

// FinishCrop leaves crop mode, keeping the region.
func (e *Editor) FinishCrop() { e.crop.ExitCropMode() }

// ApplyPreset locks the crop to the largest centered box of aspect a and
// enters crop mode.
func (e *Editor) ApplyPreset(a geometry.Aspect) error {
	if e.src == nil {
		return ErrNoImage
	}
	e.crop.ApplyPreset(a, e.src.Width, e.src.Height)
	return e.rerender()
}

// PointerDown forwards a press inside the image box to the crop gesture.
func (e *Editor) PointerDown(p gesture.Pointer, box gesture.Box) error {
	if e.crop.PointerDown(p, box) {
		return e.rerender()
	}
	return nil
}

// PointerMove forwards pointer motion to the crop gesture.
func (e *Editor) PointerMove(p gesture.Pointer, box gesture.Box) error {
	if e.crop.PointerMove(p, box) {
		return e.rerender()
	}
	return nil
}

// PointerUp ends the gesture in progress.
func (e *Editor) PointerUp() { e.crop.PointerUp() }

// PointerLeave ends the gesture in progress.
func (e *Editor) PointerLeave() { e.crop.PointerLeave() }

// Frame returns the latest rendered frame at natural resolution, or nil
// before the first successful render. Callers must not modify it.
func (e *Editor) Frame() *image.NRGBA { return e.frame }

// Renders returns the number of successful renders so far.
func (e *Editor) Renders() int { return e.renders }

// Preview returns the frame scaled down to fit the display box set by
// Resize. Without a display box the frame is returned as is.
func (e *Editor) Preview() *image.NRGBA {
	if e.frame == nil {
		return nil
	}
	if e.displayW <= 0 || e.displayH <= 0 {
		return e.frame
	}
	return imaging.Fit(e.frame, e.displayW, e.displayH, imaging.Lanczos)
}

// Export renders the current edit at the source's natural resolution and
// encodes it at the current quality. It does not change editor state.
func (e *Editor) Export() (*export.Result, error) {
	if e.src == nil {
		return nil, ErrNoImage
	}
	if e.crop.Cropping() {
		return nil, ErrCropInProgress
	}
	res, err := export.Export(e.src.Pixels, e.params, e.crop.Region(), export.Options{
		Quality:  e.quality / 100,
		Format:   e.opts.Format,
		Registry: e.opts.Registry,
		Pipeline: e.opts.Pipeline,
	})
	if err != nil {
		return nil, err
	}
	e.logf("exported %dx%d %s q=%d (%d bytes, %s)",
		res.Width, res.Height, res.Format, res.Quality, len(res.Data), res.Hash)
	return res, nil
}

// rerender replaces the frame with a fresh render. On failure the previous
// frame stays visible and the error is returned.
func (e *Editor) rerender() error {
	if e.src == nil {
		return nil
	}
	frame, err := e.opts.Pipeline.Render(e.src.Pixels, e.params, e.crop.Region())
	if err != nil {
		e.logf("render failed, keeping previous frame: %v", err)
		return err
	}
	e.frame = frame
	e.renders++
	return nil
}

func (e *Editor) logf(format string, args ...any) {
	if e.opts.Verbose {
		fmt.Fprintf(os.Stderr, "[photoedit] "+format+"\n", args...)
	}
}
