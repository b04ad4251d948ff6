// Package filters holds the adjustment parameters of an edit and compiles
// them into an ordered filter chain.
package filters

import (
	"fmt"
	"strings"

	"github.com/AnyUserName/photoedit/internal/geometry"
)

// Parameters are the eight user adjustments. Numeric fields are always kept
// within the ranges listed in Fields; use the setters or Normalize after
// assigning fields directly.
type Parameters struct {
	Brightness   float64 `json:"brightness"`   // percent, 100 = neutral
	Contrast     float64 `json:"contrast"`     // offset, 0 = neutral
	Saturation   float64 `json:"saturation"`   // percent, 100 = neutral
	Temperature  float64 `json:"temperature"`  // >0 warm tint, <0 darkens
	Hue          float64 `json:"hue"`          // degrees
	Blur         float64 `json:"blur"`         // pixel radius
	Transparency float64 `json:"transparency"` // percent, 100 = opaque
	Grayscale    bool    `json:"grayscale"`
}

// Field describes one numeric parameter.
type Field struct {
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Default float64
	Step    float64
}

// Fields lists the numeric parameters in chain order.
var Fields = []Field{
	{Name: "brightness", Unit: "%", Min: 0, Max: 200, Default: 100, Step: 1},
	{Name: "contrast", Unit: "", Min: -50, Max: 50, Default: 0, Step: 1},
	{Name: "saturation", Unit: "%", Min: 0, Max: 200, Default: 100, Step: 1},
	{Name: "temperature", Unit: "", Min: -100, Max: 100, Default: 0, Step: 1},
	{Name: "hue", Unit: "deg", Min: -180, Max: 180, Default: 0, Step: 1},
	{Name: "blur", Unit: "px", Min: 0, Max: 20, Default: 0, Step: 0.5},
	{Name: "transparency", Unit: "%", Min: 0, Max: 100, Default: 100, Step: 1},
}

// LookupField returns the field with the given (case-insensitive) name.
func LookupField(name string) (Field, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, f := range Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Clamp limits v to the field's range.
func (f Field) Clamp(v float64) float64 {
	return geometry.Clamp(v, f.Min, f.Max)
}

// Defaults returns the neutral parameter set.
func Defaults() Parameters {
	return Parameters{
		Brightness:   100,
		Contrast:     0,
		Saturation:   100,
		Temperature:  0,
		Hue:          0,
		Blur:         0,
		Transparency: 100,
		Grayscale:    false,
	}
}

// Reset restores the defaults.
func (p *Parameters) Reset() {
	*p = Defaults()
}

// IsNeutral reports whether p leaves an image unchanged.
func (p Parameters) IsNeutral() bool {
	return p == Defaults()
}

// Get returns the value of a numeric field by name.
func (p *Parameters) Get(name string) (float64, error) {
	ptr, _, err := p.field(name)
	if err != nil {
		return 0, err
	}
	return *ptr, nil
}

// Set assigns a numeric field by name, clamping it into range. It returns
// the stored value.
func (p *Parameters) Set(name string, v float64) (float64, error) {
	ptr, f, err := p.field(name)
	if err != nil {
		return 0, err
	}
	*ptr = f.Clamp(v)
	return *ptr, nil
}

func (p *Parameters) SetBrightness(v float64)   { p.Brightness = Fields[0].Clamp(v) }
func (p *Parameters) SetContrast(v float64)     { p.Contrast = Fields[1].Clamp(v) }
func (p *Parameters) SetSaturation(v float64)   { p.Saturation = Fields[2].Clamp(v) }
func (p *Parameters) SetTemperature(v float64)  { p.Temperature = Fields[3].Clamp(v) }
func (p *Parameters) SetHue(v float64)          { p.Hue = Fields[4].Clamp(v) }
func (p *Parameters) SetBlur(v float64)         { p.Blur = Fields[5].Clamp(v) }
func (p *Parameters) SetTransparency(v float64) { p.Transparency = Fields[6].Clamp(v) }
func (p *Parameters) SetGrayscale(on bool)      { p.Grayscale = on }

// Normalize clamps every numeric field into range.
func (p *Parameters) Normalize() {
	for _, f := range Fields {
		ptr, _, _ := p.field(f.Name)
		*ptr = f.Clamp(*ptr)
	}
}

// OutOfRange lists the fields whose current values lie outside their range,
// formatted for display.
func (p *Parameters) OutOfRange() []string {
	var out []string
	for _, f := range Fields {
		ptr, _, _ := p.field(f.Name)
		if v := *ptr; v != f.Clamp(v) {
			out = append(out, fmt.Sprintf("%s=%g outside [%g, %g]", f.Name, v, f.Min, f.Max))
		}
	}
	return out
}

// Alpha returns the global opacity multiplier in [0,1].
func (p Parameters) Alpha() float64 {
	return Fields[6].Clamp(p.Transparency) / 100
}

func (p *Parameters) field(name string) (*float64, Field, error) {
	f, ok := LookupField(name)
	if !ok {
		return nil, Field{}, fmt.Errorf("unknown filter parameter %q", name)
	}
	switch f.Name {
	case "brightness":
		return &p.Brightness, f, nil
	case "contrast":
		return &p.Contrast, f, nil
	case "saturation":
		return &p.Saturation, f, nil
	case "temperature":
		return &p.Temperature, f, nil
	case "hue":
		return &p.Hue, f, nil
	case "blur":
		return &p.Blur, f, nil
	default:
		return &p.Transparency, f, nil
	}
}
