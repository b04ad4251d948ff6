// Package export renders an edit at the source's native resolution and
// encodes it to a compressed file.
package export

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/AnyUserName/photoedit/internal/encoder"
	"github.com/AnyUserName/photoedit/internal/filters"
	"github.com/AnyUserName/photoedit/internal/geometry"
	"github.com/AnyUserName/photoedit/internal/hasher"
	"github.com/AnyUserName/photoedit/internal/render"
	"github.com/AnyUserName/photoedit/internal/surface"
)

// BaseName is the fixed output file name, without extension.
const BaseName = "edited-photo"

// Options configure an export.
type Options struct {
	// Quality is the compression quality as a fraction in [0,1].
	Quality float64
	// Format names the encoder; empty selects encoder.DefaultFormat.
	Format string
	// Registry supplies encoders. Nil uses a fresh registry.
	Registry *encoder.Registry
	// Pipeline renders the image. Nil uses in-memory canvases.
	Pipeline *render.Pipeline
}

// Result is an encoded export.
type Result struct {
	Data      []byte
	Format    string
	Extension string
	Width     int
	Height    int
	// Quality is the encoder quality on the 1-100 scale.
	Quality int
	// Lossy is false when Quality had no effect on the output.
	Lossy bool
	// Hash is the content hash of Data.
	Hash string
	// PixelHash fingerprints the rendered buffer before encoding.
	PixelHash string
	// FlattenedAlpha is set when the render was translucent but the format
	// has no alpha channel.
	FlattenedAlpha bool
}

// Export re-runs the render pipeline on src at its natural resolution and
// encodes the result. Inputs are taken by value and never modified.
func Export(src image.Image, p filters.Parameters, region geometry.Region, opts Options) (*Result, error) {
	reg := opts.Registry
	if reg == nil {
		reg = encoder.NewRegistry()
	}
	enc, err := reg.Resolve(opts.Format)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	pl := opts.Pipeline
	if pl == nil {
		pl = render.New()
	}
	img, err := pl.Render(src, p, region)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	quality := encoder.QualityFromFraction(opts.Quality)
	data, err := enc.Encode(img, quality)
	if err != nil {
		return nil, fmt.Errorf("export: encode %s: %w", enc.Format(), err)
	}

	b := img.Bounds()
	return &Result{
		Data:           data,
		Format:         enc.Format(),
		Extension:      enc.Extension(),
		Width:          b.Dx(),
		Height:         b.Dy(),
		Quality:        quality,
		Lossy:          enc.Lossy(),
		Hash:           hasher.ContentHash(data, 16),
		PixelHash:      hasher.PixelHash(img, 16),
		FlattenedAlpha: enc.Format() == "jpeg" && surface.Transparent(img),
	}, nil
}

// FileName returns the fixed output name with the format's extension.
func (r *Result) FileName() string {
	return BaseName + "." + r.Extension
}

// Save writes the export into dir under FileName and returns the path.
func (r *Result) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, r.FileName())
	if err := os.WriteFile(path, r.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
