// Package gesture turns pointer drags into crop regions.
//
// A Machine owns the crop region of one editing session. Free-form crops are
// drawn from a fixed anchor to the live pointer (Idle -> Drawing -> Idle);
// aspect-locked crops are translated by incremental pointer deltas
// (Idle -> Moving -> Idle). Every mutation ends with geometry.ClampToBounds,
// so the region never leaves the image.
package gesture

import (
	"errors"
	"math"

	"github.com/AnyUserName/photoedit/internal/geometry"
)

// ErrInvalidCoordinates is returned by ToPercent when a pointer event cannot
// be mapped into percent space (zero-sized box, NaN or infinite values).
var ErrInvalidCoordinates = errors.New("invalid gesture coordinates")

// Mode is the pointer-interaction state.
type Mode int

const (
	Idle Mode = iota
	Drawing
	Moving
)

func (m Mode) String() string {
	switch m {
	case Drawing:
		return "drawing"
	case Moving:
		return "moving"
	default:
		return "idle"
	}
}

// Pointer is a pointer position in client (screen) coordinates.
type Pointer struct {
	X float64
	Y float64
}

// Box is the on-screen bounding box of the displayed image in client
// coordinates.
type Box struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Point is a position in percent-of-image space.
type Point struct {
	X float64
	Y float64
}

// ToPercent maps a client-space pointer into percent-of-image space relative
// to box. The result is not clamped.
func ToPercent(p Pointer, box Box) (Point, error) {
	if !(box.Width > 0) || !(box.Height > 0) {
		return Point{}, ErrInvalidCoordinates
	}
	pt := Point{
		X: (p.X - box.Left) / box.Width * 100,
		Y: (p.Y - box.Top) / box.Height * 100,
	}
	if !finite(pt.X) || !finite(pt.Y) {
		return Point{}, ErrInvalidCoordinates
	}
	return pt, nil
}

// Machine is the crop gesture state machine. The zero value is not usable;
// create one with New.
type Machine struct {
	region   geometry.Region
	cropping bool

	mode      Mode
	anchor    Point
	moveStart Point
}

// New returns a machine holding the full-image region, not in crop mode.
func New() *Machine {
	return &Machine{region: geometry.Full()}
}

// Region returns the current crop region.
func (m *Machine) Region() geometry.Region { return m.region }

// Cropping reports whether crop mode is active.
func (m *Machine) Cropping() bool { return m.cropping }

// Mode returns the current gesture mode.
func (m *Machine) Mode() Mode { return m.mode }

// Reset restores the full-image free region and leaves crop mode. Called
// whenever a new source image is loaded.
func (m *Machine) Reset() {
	*m = Machine{region: geometry.Full()}
}

// SetRegion replaces the region directly (e.g. from a recipe), clamped to
// the image bounds. A locked region is brought back onto its aspect for an
// imgW x imgH image first, see geometry.LockAspect.
func (m *Machine) SetRegion(r geometry.Region, imgW, imgH int) {
	m.region = geometry.LockAspect(r, imgW, imgH)
}

// EnterCropMode activates gesture processing without touching the region.
func (m *Machine) EnterCropMode() {
	m.cropping = true
}

// ExitCropMode finishes cropping. Any gesture in progress is dropped and the
// region is kept as is.
func (m *Machine) ExitCropMode() {
	m.cropping = false
	m.mode = Idle
}

// ApplyPreset locks the region to the largest centered box of the given
// aspect that fits an imgW x imgH image and enters crop mode. A free aspect
// unlocks the region instead.
func (m *Machine) ApplyPreset(a geometry.Aspect, imgW, imgH int) {
	if a.IsFree() {
		m.ClearAspect()
		m.cropping = true
		return
	}
	m.region = geometry.PresetRegion(a, imgW, imgH)
	m.mode = Idle
	m.cropping = true
}

// ClearAspect drops the aspect lock, keeping the current rectangle.
func (m *Machine) ClearAspect() {
	m.region.Aspect = geometry.Free
	m.mode = Idle
}

// PointerDown starts a gesture: Moving when an aspect is locked, Drawing
// otherwise. It reports whether the region changed.
func (m *Machine) PointerDown(p Pointer, box Box) bool {
	if !m.cropping {
		return false
	}
	pt, err := ToPercent(p, box)
	if err != nil {
		return false
	}

	if !m.region.Aspect.IsFree() {
		m.mode = Moving
		m.moveStart = pt
		return false
	}

	pt = clampPoint(pt)
	m.mode = Drawing
	m.anchor = pt
	m.region = geometry.ClampToBounds(geometry.Region{X: pt.X, Y: pt.Y})
	return true
}

// PointerMove updates the region for the gesture in progress and reports
// whether it changed.
func (m *Machine) PointerMove(p Pointer, box Box) bool {
	if !m.cropping || m.mode == Idle {
		return false
	}
	pt, err := ToPercent(p, box)
	if err != nil {
		return false
	}

	prev := m.region
	switch m.mode {
	case Drawing:
		if !m.region.Aspect.IsFree() {
			return false
		}
		pt = clampPoint(pt)
		m.region = geometry.ClampToBounds(geometry.Region{
			X:      math.Min(pt.X, m.anchor.X),
			Y:      math.Min(pt.Y, m.anchor.Y),
			Width:  math.Abs(pt.X - m.anchor.X),
			Height: math.Abs(pt.Y - m.anchor.Y),
		})
	case Moving:
		r := m.region
		r.X = geometry.Clamp(r.X+pt.X-m.moveStart.X, 0, 100-r.Width)
		r.Y = geometry.Clamp(r.Y+pt.Y-m.moveStart.Y, 0, 100-r.Height)
		m.region = geometry.ClampToBounds(r)
		m.moveStart = pt
	}
	return m.region != prev
}

// PointerUp ends the gesture in progress. The region is left as is.
func (m *Machine) PointerUp() {
	m.mode = Idle
}

// PointerLeave behaves like PointerUp.
func (m *Machine) PointerLeave() {
	m.PointerUp()
}

func clampPoint(p Point) Point {
	return Point{
		X: geometry.Clamp(p.X, 0, 100),
		Y: geometry.Clamp(p.Y, 0, 100),
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
