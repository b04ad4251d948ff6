package gesture

import (
	"math"
	"math/rand"
	"testing"

	"github.com/AnyUserName/photoedit/internal/geometry"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// unitBox maps client coordinates 1:1 onto percent space.
var unitBox = Box{Left: 0, Top: 0, Width: 100, Height: 100}

func TestToPercent(t *testing.T) {
	box := Box{Left: 50, Top: 20, Width: 200, Height: 100}
	got, err := ToPercent(Pointer{X: 150, Y: 45}, box)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Point{X: 50, Y: 25}, got, approx); diff != "" {
		t.Errorf("ToPercent (-want +got):\n%s", diff)
	}

	bad := []struct {
		p   Pointer
		box Box
	}{
		{Pointer{X: 1, Y: 1}, Box{Width: 0, Height: 10}},
		{Pointer{X: 1, Y: 1}, Box{Width: 10, Height: math.NaN()}},
		{Pointer{X: math.NaN(), Y: 1}, unitBox},
		{Pointer{X: 1, Y: math.Inf(1)}, unitBox},
	}
	for _, b := range bad {
		if _, err := ToPercent(b.p, b.box); err != ErrInvalidCoordinates {
			t.Errorf("ToPercent(%+v, %+v) err = %v, want ErrInvalidCoordinates", b.p, b.box, err)
		}
	}
}

func TestDrawFreeForm(t *testing.T) {
	m := New()
	m.EnterCropMode()

	if !m.PointerDown(Pointer{X: 10, Y: 10}, unitBox) {
		t.Fatal("pointer down should reset the region")
	}
	if m.Mode() != Drawing {
		t.Fatalf("mode = %v, want drawing", m.Mode())
	}
	if r := m.Region(); r.Width != 0 || r.Height != 0 {
		t.Fatalf("fresh drag should have zero size, got %v", r)
	}

	m.PointerMove(Pointer{X: 25, Y: 30}, unitBox)
	m.PointerMove(Pointer{X: 40, Y: 60}, unitBox)
	m.PointerUp()

	want := geometry.Region{X: 10, Y: 10, Width: 30, Height: 50}
	if diff := cmp.Diff(want, m.Region(), approx); diff != "" {
		t.Errorf("region (-want +got):\n%s", diff)
	}
	if m.Mode() != Idle {
		t.Errorf("mode after release = %v", m.Mode())
	}
}

func TestDrawReverseDirection(t *testing.T) {
	m := New()
	m.EnterCropMode()
	m.PointerDown(Pointer{X: 40, Y: 60}, unitBox)
	m.PointerMove(Pointer{X: 10, Y: 10}, unitBox)

	want := geometry.Region{X: 10, Y: 10, Width: 30, Height: 50}
	if diff := cmp.Diff(want, m.Region(), approx); diff != "" {
		t.Errorf("region (-want +got):\n%s", diff)
	}

	// Crossing back over the anchor keeps the anchor fixed.
	m.PointerMove(Pointer{X: 70, Y: 20}, unitBox)
	want = geometry.Region{X: 40, Y: 20, Width: 30, Height: 40}
	if diff := cmp.Diff(want, m.Region(), approx); diff != "" {
		t.Errorf("region after crossing (-want +got):\n%s", diff)
	}
}

func TestDrawScaledBox(t *testing.T) {
	// Image displayed at 400x200 with its top-left corner at (100, 50).
	box := Box{Left: 100, Top: 50, Width: 400, Height: 200}
	m := New()
	m.EnterCropMode()
	m.PointerDown(Pointer{X: 140, Y: 70}, box)
	m.PointerMove(Pointer{X: 260, Y: 170}, box)

	want := geometry.Region{X: 10, Y: 10, Width: 30, Height: 50}
	if diff := cmp.Diff(want, m.Region(), approx); diff != "" {
		t.Errorf("region (-want +got):\n%s", diff)
	}
}

func TestDrawOutsideImageIsClamped(t *testing.T) {
	m := New()
	m.EnterCropMode()
	m.PointerDown(Pointer{X: 80, Y: 80}, unitBox)
	m.PointerMove(Pointer{X: 130, Y: -20}, unitBox)

	want := geometry.Region{X: 80, Y: 0, Width: 20, Height: 80}
	if diff := cmp.Diff(want, m.Region(), approx); diff != "" {
		t.Errorf("region (-want +got):\n%s", diff)
	}
}

func TestNoOpOutsideCropMode(t *testing.T) {
	m := New()
	if m.PointerDown(Pointer{X: 10, Y: 10}, unitBox) {
		t.Error("pointer down outside crop mode changed the region")
	}
	if m.PointerMove(Pointer{X: 50, Y: 50}, unitBox) {
		t.Error("pointer move outside crop mode changed the region")
	}
	if m.Region() != geometry.Full() || m.Mode() != Idle {
		t.Errorf("state changed: %v %v", m.Region(), m.Mode())
	}
}

func TestMoveWithoutPressIsNoOp(t *testing.T) {
	m := New()
	m.EnterCropMode()
	if m.PointerMove(Pointer{X: 50, Y: 50}, unitBox) {
		t.Error("hover without a press changed the region")
	}
	if m.Region() != geometry.Full() {
		t.Errorf("region = %v", m.Region())
	}
}

func TestInvalidCoordinatesAreSkipped(t *testing.T) {
	m := New()
	m.EnterCropMode()
	m.PointerDown(Pointer{X: 10, Y: 10}, unitBox)
	m.PointerMove(Pointer{X: 40, Y: 60}, unitBox)
	before := m.Region()

	if m.PointerMove(Pointer{X: math.NaN(), Y: 5}, unitBox) {
		t.Error("NaN pointer changed the region")
	}
	if m.PointerMove(Pointer{X: 5, Y: 5}, Box{}) {
		t.Error("zero-sized box changed the region")
	}
	if m.Region() != before {
		t.Errorf("region = %v, want %v", m.Region(), before)
	}
	if m.PointerDown(Pointer{X: 1, Y: 1}, Box{Width: 0, Height: 0}) {
		t.Error("pointer down with zero box changed the region")
	}
}

func TestApplyPresetEntersCropMode(t *testing.T) {
	m := New()
	m.ApplyPreset(geometry.Aspect{W: 1, H: 1}, 1000, 500)

	if !m.Cropping() {
		t.Error("preset should enable crop mode")
	}
	if m.Mode() != Idle {
		t.Errorf("mode = %v, want idle", m.Mode())
	}
	want := geometry.Region{X: 25, Y: 0, Width: 50, Height: 100, Aspect: geometry.Aspect{W: 1, H: 1}}
	if diff := cmp.Diff(want, m.Region(), approx); diff != "" {
		t.Errorf("region (-want +got):\n%s", diff)
	}
}

func TestMoveLockedRegion(t *testing.T) {
	m := New()
	m.EnterCropMode()
	m.SetRegion(geometry.Region{X: 20, Y: 20, Width: 50, Height: 50, Aspect: geometry.Aspect{W: 1, H: 1}}, 100, 100)

	if m.PointerDown(Pointer{X: 50, Y: 50}, unitBox) {
		t.Error("starting a move should not change the region")
	}
	if m.Mode() != Moving {
		t.Fatalf("mode = %v, want moving", m.Mode())
	}
	m.PointerMove(Pointer{X: 55, Y: 53}, unitBox)

	want := geometry.Region{X: 25, Y: 23, Width: 50, Height: 50, Aspect: geometry.Aspect{W: 1, H: 1}}
	if diff := cmp.Diff(want, m.Region(), approx); diff != "" {
		t.Errorf("region (-want +got):\n%s", diff)
	}

	// Deltas are incremental: a second move continues from the last point.
	m.PointerMove(Pointer{X: 56, Y: 53}, unitBox)
	if got := m.Region().X; math.Abs(got-26) > 1e-9 {
		t.Errorf("x after second move = %v, want 26", got)
	}
	m.PointerUp()
	if m.Mode() != Idle {
		t.Errorf("mode after release = %v", m.Mode())
	}
}

func TestMoveLockedRegionClamps(t *testing.T) {
	m := New()
	m.EnterCropMode()
	m.SetRegion(geometry.Region{X: 20, Y: 20, Width: 50, Height: 50, Aspect: geometry.Aspect{W: 1, H: 1}}, 100, 100)
	m.PointerDown(Pointer{X: 50, Y: 50}, unitBox)
	m.PointerMove(Pointer{X: 90, Y: -40}, unitBox)

	r := m.Region()
	if r.X != 50 || r.Y != 0 || r.Width != 50 || r.Height != 50 {
		t.Errorf("region = %v, want clamped to x=50 y=0", r)
	}
}

func TestSetRegionKeepsLockedRatio(t *testing.T) {
	wide := geometry.Aspect{W: 16, H: 9}
	m := New()
	m.EnterCropMode()
	m.SetRegion(geometry.Region{X: 0, Y: 0, Width: 50, Height: 50, Aspect: wide}, 1000, 500)

	want := geometry.Region{X: 0, Y: 0, Width: 50, Height: 56.25, Aspect: wide}
	if diff := cmp.Diff(want, m.Region(), approx); diff != "" {
		t.Errorf("region (-want +got):\n%s", diff)
	}

	m.PointerDown(Pointer{X: 10, Y: 10}, unitBox)
	m.PointerMove(Pointer{X: 30, Y: 20}, unitBox)
	m.PointerUp()
	if got := geometry.PixelRatio(m.Region(), 1000, 500); math.Abs(got-wide.Ratio()) > 1e-9 {
		t.Errorf("pixel ratio after move = %v, want %v", got, wide.Ratio())
	}
}

func TestLockedRegionIsNotRedrawn(t *testing.T) {
	m := New()
	m.ApplyPreset(geometry.Aspect{W: 16, H: 9}, 1920, 1080)
	before := m.Region()

	m.PointerDown(Pointer{X: 0, Y: 0}, unitBox)
	if m.Mode() == Drawing {
		t.Fatal("locked aspect must not start a free-form draw")
	}
	m.PointerMove(Pointer{X: 0, Y: 0}, unitBox)
	if r := m.Region(); r.Width != before.Width || r.Height != before.Height {
		t.Errorf("size changed while moving: %v -> %v", before, r)
	}
}

func TestClearAspectReturnsToDrawing(t *testing.T) {
	m := New()
	m.ApplyPreset(geometry.Aspect{W: 4, H: 3}, 800, 600)
	m.ClearAspect()
	m.PointerDown(Pointer{X: 5, Y: 5}, unitBox)
	if m.Mode() != Drawing {
		t.Errorf("mode = %v, want drawing", m.Mode())
	}
}

func TestExitCropModeDropsGesture(t *testing.T) {
	m := New()
	m.EnterCropMode()
	m.PointerDown(Pointer{X: 10, Y: 10}, unitBox)
	m.PointerMove(Pointer{X: 30, Y: 30}, unitBox)
	m.ExitCropMode()

	if m.Cropping() || m.Mode() != Idle {
		t.Errorf("cropping=%v mode=%v", m.Cropping(), m.Mode())
	}
	if m.PointerMove(Pointer{X: 90, Y: 90}, unitBox) {
		t.Error("move after exit changed the region")
	}
}

func TestReset(t *testing.T) {
	m := New()
	m.ApplyPreset(geometry.Aspect{W: 1, H: 1}, 100, 50)
	m.PointerDown(Pointer{X: 50, Y: 50}, unitBox)
	m.Reset()

	if m.Region() != geometry.Full() {
		t.Errorf("region = %v, want full", m.Region())
	}
	if m.Cropping() || m.Mode() != Idle {
		t.Errorf("cropping=%v mode=%v", m.Cropping(), m.Mode())
	}
}

// TestRandomGesturesStayInBounds replays random pointer traffic through
// both gesture kinds and checks the region never leaves the image.
func TestRandomGesturesStayInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const eps = 1e-9

	for round := 0; round < 200; round++ {
		m := New()
		if round%2 == 0 {
			m.ApplyPreset(geometry.Presets[round%len(geometry.Presets)].Aspect, 300+round, 200+2*round)
		} else {
			m.EnterCropMode()
		}

		for step := 0; step < 50; step++ {
			p := Pointer{X: rng.Float64()*160 - 30, Y: rng.Float64()*160 - 30}
			switch rng.Intn(5) {
			case 0:
				m.PointerDown(p, unitBox)
			case 1:
				m.PointerUp()
			default:
				m.PointerMove(p, unitBox)
			}

			r := m.Region()
			if r.X < -eps || r.Y < -eps || r.X+r.Width > 100+eps || r.Y+r.Height > 100+eps {
				t.Fatalf("round %d step %d: region out of bounds: %v", round, step, r)
			}
			if !r.Aspect.IsFree() {
				px := geometry.ToPixelRect(r, 300+round, 200+2*round)
				if math.Abs(px.W/px.H-r.Aspect.Ratio()) > 1e-9 {
					t.Fatalf("round %d step %d: aspect drifted: %v", round, step, r)
				}
			}
		}
	}
}
