package encoder

import (
	"image"
)

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the output format name (e.g. "jpeg", "webp", "avif", "png").
	Format() string

	// Encode converts the image to bytes at the given quality (1-100).
	// Lossless encoders ignore quality.
	Encode(img image.Image, quality int) ([]byte, error)

	// Available returns true if the encoder is ready to use.
	// External encoders (cwebp, avifenc) may not be installed.
	Available() bool

	// Extension returns the file extension without dot.
	Extension() string

	// Lossy reports whether quality affects the output.
	Lossy() bool
}

// QualityFromFraction maps a [0,1] quality fraction onto the 1-100 scale
// encoders take. Out-of-range fractions are clamped.
func QualityFromFraction(f float64) int {
	q := int(f*100 + 0.5)
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}
