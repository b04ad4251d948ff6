// Package source ingests user images: it decodes them (honouring EXIF
// orientation) and records their natural dimensions.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/AnyUserName/photoedit/internal/hasher"
	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrDecode marks an unreadable or unsupported image.
var ErrDecode = errors.New("cannot decode image")

// Image is a decoded source image. It is never mutated after Decode.
type Image struct {
	// Pixels holds the decoded, orientation-corrected image.
	Pixels image.Image
	// Width and Height are the natural dimensions.
	Width  int
	Height int
	// Format is the decoder name (jpeg, png, gif, webp, bmp, tiff).
	Format string
	// Name is the file name the image was read from, if any.
	Name string
	// Size is the encoded size in bytes.
	Size int64
	// Hash is the content hash of the encoded bytes.
	Hash string
}

// Load reads and decodes the image at path.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	img.Name = filepath.Base(path)
	return img, nil
}

// Decode reads an encoded image from r. Any failure wraps ErrDecode.
func Decode(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrDecode, err)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image %dx%d", ErrDecode, b.Dx(), b.Dy())
	}

	return &Image{
		Pixels: img,
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: format,
		Size:   int64(len(data)),
		Hash:   hasher.ContentHash(data, 16),
	}, nil
}

// FromImage wraps an already decoded image.
func FromImage(img image.Image, name string) (*Image, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrDecode)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image %dx%d", ErrDecode, b.Dx(), b.Dy())
	}
	return &Image{
		Pixels: img,
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: "memory",
		Name:   name,
		Hash:   hasher.PixelHash(img, 16),
	}, nil
}

// AspectRatio returns width / height.
func (s *Image) AspectRatio() float64 {
	return float64(s.Width) / float64(s.Height)
}

// HasAlpha reports whether any pixel is not fully opaque.
func HasAlpha(img image.Image) bool {
	switch m := img.(type) {
	case *image.YCbCr, *image.Gray, *image.Gray16, *image.CMYK:
		return false
	case *image.NRGBA:
		b := m.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := m.Pix[m.PixOffset(b.Min.X, y):m.PixOffset(b.Max.X, y)]
			for i := 3; i < len(row); i += 4 {
				if row[i] != 0xff {
					return true
				}
			}
		}
		return false
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}

// AvgColor calculates the average RGB color of an image.
func AvgColor(img image.Image) [3]uint8 {
	bounds := img.Bounds()
	count := uint64(bounds.Dx()) * uint64(bounds.Dy())
	if count == 0 {
		return [3]uint8{0, 0, 0}
	}
	var rSum, gSum, bSum uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			rSum += uint64(r >> 8)
			gSum += uint64(g >> 8)
			bSum += uint64(b >> 8)
		}
	}
	return [3]uint8{
		uint8(rSum / count),
		uint8(gSum / count),
		uint8(bSum / count),
	}
}
