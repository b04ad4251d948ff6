package encoder

import (
	"fmt"
	"strings"
)

// DefaultFormat is the lossy raster format used when none is requested.
const DefaultFormat = "jpeg"

// Registry holds all available encoders and selects one per format.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry, probing all encoders for availability.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}

	// Register all encoders. Only available ones will be used.
	all := []Encoder{
		&AVIFEncoder{},
		&WebPEncoder{},
		&JPEGEncoder{},
		&PNGEncoder{},
	}

	for _, enc := range all {
		if enc.Available() {
			r.encoders[enc.Format()] = enc
		}
	}

	return r
}

// Get returns an encoder for the given format, or nil if unavailable.
// "jpg" is accepted as an alias of "jpeg".
func (r *Registry) Get(format string) Encoder {
	return r.encoders[normalize(format)]
}

// Available returns all available format names.
func (r *Registry) Available() []string {
	var result []string
	// Maintain priority order.
	for _, f := range []string{"jpeg", "webp", "avif", "png"} {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// Resolve picks the encoder for an export. An empty format or "auto" means
// DefaultFormat. A named format that is not available is an error rather
// than a silent substitution.
func (r *Registry) Resolve(format string) (Encoder, error) {
	f := normalize(format)
	if f == "" || f == "auto" {
		f = DefaultFormat
	}
	if enc, ok := r.encoders[f]; ok {
		return enc, nil
	}
	return nil, fmt.Errorf("format %q unavailable (%s)", format, r.String())
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}

func normalize(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "jpg" {
		return "jpeg"
	}
	return f
}

// Known reports whether format names an encoder this build supports,
// whether or not its external tool is installed.
func Known(format string) bool {
	switch normalize(format) {
	case "", "auto", "jpeg", "png", "webp", "avif":
		return true
	}
	return false
}
