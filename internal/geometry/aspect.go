package geometry

import (
	"fmt"
	"strconv"
	"strings"
)

// Aspect is a width:height ratio. The zero value means free-form.
type Aspect struct {
	W float64
	H float64
}

// Free is the unlocked aspect.
var Free = Aspect{}

// IsFree reports whether no ratio is locked.
func (a Aspect) IsFree() bool {
	return a.W <= 0 || a.H <= 0
}

// Ratio returns W/H, or 0 for a free aspect.
func (a Aspect) Ratio() float64 {
	if a.IsFree() {
		return 0
	}
	return a.W / a.H
}

// String formats the aspect the way presets are written ("16/9", "free").
func (a Aspect) String() string {
	if a.IsFree() {
		return "free"
	}
	return strconv.FormatFloat(a.W, 'f', -1, 64) + "/" + strconv.FormatFloat(a.H, 'f', -1, 64)
}

// ParseAspect accepts "W/H", "W:H", a bare positive ratio ("1.5"), or
// "free"/"" for no lock.
func ParseAspect(s string) (Aspect, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "free" || s == "none" {
		return Free, nil
	}

	sep := strings.IndexAny(s, "/:")
	if sep < 0 {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || !(v > 0) {
			return Free, fmt.Errorf("invalid aspect ratio %q", s)
		}
		return Aspect{W: v, H: 1}, nil
	}

	w, errW := strconv.ParseFloat(strings.TrimSpace(s[:sep]), 64)
	h, errH := strconv.ParseFloat(strings.TrimSpace(s[sep+1:]), 64)
	if errW != nil || errH != nil || !(w > 0) || !(h > 0) {
		return Free, fmt.Errorf("invalid aspect ratio %q", s)
	}
	return Aspect{W: w, H: h}, nil
}

// Preset is a named aspect ratio offered to the user.
type Preset struct {
	Name   string
	Aspect Aspect
}

// Presets lists the built-in aspect presets in display order.
var Presets = []Preset{
	{Name: "Square (1:1)", Aspect: Aspect{W: 1, H: 1}},
	{Name: "Standard (4:3)", Aspect: Aspect{W: 4, H: 3}},
	{Name: "Widescreen (16:9)", Aspect: Aspect{W: 16, H: 9}},
	{Name: "Portrait (3:4)", Aspect: Aspect{W: 3, H: 4}},
	{Name: "Photo portrait (2:3)", Aspect: Aspect{W: 2, H: 3}},
	{Name: "Story (9:16)", Aspect: Aspect{W: 9, H: 16}},
	{Name: "Print (5:4)", Aspect: Aspect{W: 5, H: 4}},
	{Name: "Cinema (21:9)", Aspect: Aspect{W: 21, H: 9}},
}

// PresetRegion returns the largest region with the given pixel aspect that
// fits inside an imgW x imgH image, centered. A free aspect or an empty
// image yields the full region.
func PresetRegion(a Aspect, imgW, imgH int) Region {
	if a.IsFree() || imgW <= 0 || imgH <= 0 {
		return Full()
	}

	ratio := a.Ratio()
	fw, fh := float64(imgW), float64(imgH)

	var cropW, cropH float64
	if fw/fh > ratio {
		// Image is wider than the target: full height.
		cropH = fh
		cropW = cropH * ratio
	} else {
		cropW = fw
		cropH = cropW / ratio
	}

	px := PixelRect{
		X: (fw - cropW) / 2,
		Y: (fh - cropH) / 2,
		W: cropW,
		H: cropH,
	}
	return ClampToBounds(FromPixelRect(px, imgW, imgH, a))
}

// PixelRatio returns the width:height ratio r covers on an imgW x imgH
// image, or 0 when either side is empty.
func PixelRatio(r Region, imgW, imgH int) float64 {
	px := ToPixelRect(r, imgW, imgH)
	if !(px.W > 0) || !(px.H > 0) {
		return 0
	}
	return px.W / px.H
}

// LockAspect brings a locked region back onto its aspect for an imgW x imgH
// image. X, Y and Width are kept and Height is recomputed; if that height
// does not fit, the region shrinks to full height and Width follows. The
// result is clamped to the image. Free regions and empty images are only
// clamped.
func LockAspect(r Region, imgW, imgH int) Region {
	r = ClampToBounds(r)
	if r.Aspect.IsFree() || imgW <= 0 || imgH <= 0 {
		return r
	}
	// Percent height per percent width that keeps the pixel ratio.
	k := float64(imgW) / (r.Aspect.Ratio() * float64(imgH))
	r.Height = r.Width * k
	if r.Height > 100 {
		r.Height = 100
		r.Width = 100 / k
	}
	return ClampToBounds(r)
}
