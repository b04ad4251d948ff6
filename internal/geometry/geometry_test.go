package geometry

import (
	"image"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestToPixelRect(t *testing.T) {
	r := Region{X: 25, Y: 10, Width: 50, Height: 80}
	got := ToPixelRect(r, 1000, 500)
	want := PixelRect{X: 250, Y: 50, W: 500, H: 400}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("ToPixelRect mismatch (-want +got):\n%s", diff)
	}
}

func TestPixelRoundTrip(t *testing.T) {
	cases := []Region{
		Full(),
		{X: 12.5, Y: 33.3, Width: 41.7, Height: 20.1},
		{X: 0, Y: 99, Width: 0, Height: 1},
		{X: 1.0 / 3, Y: 2.0 / 3, Width: 50, Height: 1.0 / 7, Aspect: Aspect{W: 4, H: 3}},
	}
	dims := [][2]int{{1000, 500}, {1, 1}, {333, 777}, {4096, 3}}

	for _, r := range cases {
		for _, d := range dims {
			px := ToPixelRect(r, d[0], d[1])
			back := FromPixelRect(px, d[0], d[1], r.Aspect)
			if diff := cmp.Diff(r, back, approx); diff != "" {
				t.Errorf("round trip %v @ %dx%d (-want +got):\n%s", r, d[0], d[1], diff)
			}
		}
	}
}

func TestClampToBounds(t *testing.T) {
	tests := []struct {
		name string
		in   Region
		want Region
	}{
		{"inside", Region{X: 10, Y: 10, Width: 50, Height: 50}, Region{X: 10, Y: 10, Width: 50, Height: 50}},
		{"overhang right", Region{X: 70, Y: 0, Width: 50, Height: 50}, Region{X: 50, Y: 0, Width: 50, Height: 50}},
		{"negative origin", Region{X: -5, Y: -1, Width: 20, Height: 20}, Region{X: 0, Y: 0, Width: 20, Height: 20}},
		{"oversized", Region{X: 10, Y: 10, Width: 150, Height: 120}, Region{X: 0, Y: 0, Width: 100, Height: 100}},
		{"nan", Region{X: math.NaN(), Y: 5, Width: math.NaN(), Height: 10}, Region{X: 0, Y: 5, Width: 0, Height: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampToBounds(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ClampToBounds (-want +got):\n%s", diff)
			}
			if got.X+got.Width > 100 || got.Y+got.Height > 100 {
				t.Errorf("region exits bounds: %v", got)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		px   PixelRect
		w, h int
		want image.Rectangle
	}{
		{PixelRect{X: 0, Y: 0, W: 1000, H: 500}, 1000, 500, image.Rect(0, 0, 1000, 500)},
		{PixelRect{X: 250, Y: 0, W: 500, H: 500}, 1000, 500, image.Rect(250, 0, 750, 500)},
		{PixelRect{X: 10.7, Y: 3.2, W: 20.9, H: 5.99}, 100, 100, image.Rect(10, 3, 30, 8)},
		// 0.1*3*100 is 30.000000000000004; snapping keeps it on 30.
		{PixelRect{X: 0.1 * 3 * 100, Y: 0, W: 70, H: 10}, 100, 10, image.Rect(30, 0, 100, 10)},
		// Truncated size would overhang: origin shifts inward.
		{PixelRect{X: 99.5, Y: 0, W: 1, H: 1}, 100, 1, image.Rect(99, 0, 100, 1)},
		{PixelRect{X: 40, Y: 40, W: 0, H: 0}, 100, 100, image.Rect(40, 40, 40, 40)},
	}
	for _, tt := range tests {
		if got := tt.px.Bounds(tt.w, tt.h); got != tt.want {
			t.Errorf("Bounds(%+v, %dx%d) = %v, want %v", tt.px, tt.w, tt.h, got, tt.want)
		}
	}
}

func TestEmpty(t *testing.T) {
	if !(PixelRect{W: 0, H: 10}).Empty() {
		t.Error("zero width should be empty")
	}
	if !(PixelRect{W: 10, H: 0.5}).Empty() {
		t.Error("sub-pixel height should be empty")
	}
	if (PixelRect{W: 1, H: 1}).Empty() {
		t.Error("1x1 should not be empty")
	}
}
