package filters

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Kind identifies one filter function.
type Kind int

const (
	Brightness Kind = iota
	Contrast
	Saturate
	Sepia
	HueRotate
	Grayscale
	Blur
)

var kindNames = [...]string{
	Brightness: "brightness",
	Contrast:   "contrast",
	Saturate:   "saturate",
	Sepia:      "sepia",
	HueRotate:  "hue-rotate",
	Grayscale:  "grayscale",
	Blur:       "blur",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Adjustment is one filter function. Amount is a fraction (1 = 100%) for
// brightness, contrast, saturate, sepia and grayscale, degrees for
// hue-rotate, and a pixel radius for blur.
type Adjustment struct {
	Kind   Kind
	Amount float64
}

func (a Adjustment) String() string {
	switch a.Kind {
	case HueRotate:
		return fmt.Sprintf("hue-rotate(%gdeg)", a.Amount)
	case Blur:
		return fmt.Sprintf("blur(%gpx)", a.Amount)
	default:
		return fmt.Sprintf("%s(%g%%)", a.Kind, a.Amount*100)
	}
}

// Spatial reports whether the adjustment reads neighbouring pixels.
func (a Adjustment) Spatial() bool {
	return a.Kind == Blur
}

// Chain is an ordered list of adjustments applied one after another, each
// clamping its result into gamut before the next runs.
type Chain []Adjustment

// ColorChain builds the composited color chain for p in its fixed order:
// brightness, contrast, saturation, color temperature, hue rotation, then
// grayscale when enabled. Blur and opacity are not part of it.
//
// Temperature is asymmetric: a positive value adds a sepia tint of that
// strength, a negative value dims the image to (100+temperature)%.
func (p Parameters) ColorChain() Chain {
	c := Chain{
		{Kind: Brightness, Amount: p.Brightness / 100},
		{Kind: Contrast, Amount: (100 + p.Contrast) / 100},
		{Kind: Saturate, Amount: p.Saturation / 100},
	}
	if p.Temperature < 0 {
		c = append(c, Adjustment{Kind: Brightness, Amount: (100 + p.Temperature) / 100})
	} else {
		c = append(c, Adjustment{Kind: Sepia, Amount: p.Temperature / 100})
	}
	c = append(c, Adjustment{Kind: HueRotate, Amount: p.Hue})
	if p.Grayscale {
		c = append(c, Adjustment{Kind: Grayscale, Amount: 1})
	}
	return c
}

// BlurChain returns the spatial post-pass for p, or nil when blur is off.
func (p Parameters) BlurChain() Chain {
	if !(p.Blur > 0) {
		return nil
	}
	return Chain{{Kind: Blur, Amount: p.Blur}}
}

// String renders the chain in CSS filter syntax.
func (c Chain) String() string {
	if len(c) == 0 {
		return "none"
	}
	parts := make([]string, len(c))
	for i, a := range c {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}

// Spatial returns the blur adjustments of the chain, in order.
func (c Chain) Spatial() []Adjustment {
	var out []Adjustment
	for _, a := range c {
		if a.Spatial() {
			out = append(out, a)
		}
	}
	return out
}

// ColorFunc compiles the per-pixel part of the chain into a single function
// suitable for imaging.AdjustFunc. Identity steps are dropped. It returns nil
// when nothing remains.
func (c Chain) ColorFunc() func(color.NRGBA) color.NRGBA {
	var steps []matrix
	for _, a := range c {
		if a.Spatial() {
			continue
		}
		m := a.matrix()
		if m.identity() {
			continue
		}
		steps = append(steps, m)
	}
	if len(steps) == 0 {
		return nil
	}

	return func(px color.NRGBA) color.NRGBA {
		r := float64(px.R) / 255
		g := float64(px.G) / 255
		b := float64(px.B) / 255
		for i := range steps {
			r, g, b = steps[i].apply(r, g, b)
		}
		return color.NRGBA{R: to8(r), G: to8(g), B: to8(b), A: px.A}
	}
}

// Apply runs the color part of the chain on a single pixel.
func (c Chain) Apply(px color.NRGBA) color.NRGBA {
	fn := c.ColorFunc()
	if fn == nil {
		return px
	}
	return fn(px)
}

// matrix is a 3x4 affine transform on linear-in-value RGB in [0,1]; the
// fourth column is the offset.
type matrix [3][4]float64

var identityMatrix = matrix{
	{1, 0, 0, 0},
	{0, 1, 0, 0},
	{0, 0, 1, 0},
}

func (m matrix) identity() bool {
	for i := range m {
		for j := range m[i] {
			if math.Abs(m[i][j]-identityMatrix[i][j]) > 1e-12 {
				return false
			}
		}
	}
	return true
}

func (m *matrix) apply(r, g, b float64) (float64, float64, float64) {
	nr := m[0][0]*r + m[0][1]*g + m[0][2]*b + m[0][3]
	ng := m[1][0]*r + m[1][1]*g + m[1][2]*b + m[1][3]
	nb := m[2][0]*r + m[2][1]*g + m[2][2]*b + m[2][3]
	return clamp01(nr), clamp01(ng), clamp01(nb)
}

// matrix returns the color matrix of the filter function, following the
// CSS Filter Effects definitions.
func (a Adjustment) matrix() matrix {
	v := a.Amount
	switch a.Kind {
	case Brightness:
		v = math.Max(v, 0)
		return matrix{
			{v, 0, 0, 0},
			{0, v, 0, 0},
			{0, 0, v, 0},
		}
	case Contrast:
		v = math.Max(v, 0)
		off := 0.5 - 0.5*v
		return matrix{
			{v, 0, 0, off},
			{0, v, 0, off},
			{0, 0, v, off},
		}
	case Saturate:
		s := math.Max(v, 0)
		return matrix{
			{0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s, 0},
			{0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s, 0},
			{0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s, 0},
		}
	case Sepia:
		k := 1 - clamp01(v)
		return matrix{
			{0.393 + 0.607*k, 0.769 - 0.769*k, 0.189 - 0.189*k, 0},
			{0.349 - 0.349*k, 0.686 + 0.314*k, 0.168 - 0.168*k, 0},
			{0.272 - 0.272*k, 0.534 - 0.534*k, 0.131 + 0.869*k, 0},
		}
	case HueRotate:
		rad := v * math.Pi / 180
		cos, sin := math.Cos(rad), math.Sin(rad)
		return matrix{
			{0.213 + cos*0.787 - sin*0.213, 0.715 - cos*0.715 - sin*0.715, 0.072 - cos*0.072 + sin*0.928, 0},
			{0.213 - cos*0.213 + sin*0.143, 0.715 + cos*0.285 + sin*0.140, 0.072 - cos*0.072 - sin*0.283, 0},
			{0.213 - cos*0.213 - sin*0.787, 0.715 - cos*0.715 + sin*0.715, 0.072 + cos*0.928 + sin*0.072, 0},
		}
	case Grayscale:
		k := 1 - clamp01(v)
		return matrix{
			{0.2126 + 0.7874*k, 0.7152 - 0.7152*k, 0.0722 - 0.0722*k, 0},
			{0.2126 - 0.2126*k, 0.7152 + 0.2848*k, 0.0722 - 0.0722*k, 0},
			{0.2126 - 0.2126*k, 0.7152 - 0.7152*k, 0.0722 + 0.9278*k, 0},
		}
	default:
		return identityMatrix
	}
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}
