package encoder

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestQualityFromFraction(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{1, 100},
		{0.82, 82},
		{0.005, 1},
		{0, 1},
		{1.7, 100},
		{-3, 1},
	}
	for _, tt := range tests {
		if got := QualityFromFraction(tt.in); got != tt.want {
			t.Errorf("QualityFromFraction(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRegistryAlwaysHasStdlibEncoders(t *testing.T) {
	r := NewRegistry()
	for _, f := range []string{"jpeg", "jpg", "JPEG", "png"} {
		if r.Get(f) == nil {
			t.Errorf("Get(%q) = nil", f)
		}
	}
	enc, err := r.Resolve("")
	if err != nil {
		t.Fatal(err)
	}
	if enc.Format() != DefaultFormat || !enc.Lossy() {
		t.Errorf("default encoder = %s (lossy=%v)", enc.Format(), enc.Lossy())
	}
	if _, err := r.Resolve("bmp"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestJPEGQualityAffectsSize(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 4), B: uint8((x ^ y) * 4), A: 255})
		}
	}
	enc := &JPEGEncoder{}
	lo, err := enc.Encode(img, 10)
	if err != nil {
		t.Fatal(err)
	}
	hi, err := enc.Encode(img, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(lo) >= len(hi) {
		t.Errorf("q10 (%d bytes) should be smaller than q100 (%d bytes)", len(lo), len(hi))
	}
	if _, err := jpeg.Decode(bytes.NewReader(hi)); err != nil {
		t.Errorf("decode: %v", err)
	}
}

func TestJPEGFlattensAlphaOntoBlack(t *testing.T) {
	data, err := (&JPEGEncoder{}).Encode(solid(16, 16, color.NRGBA{R: 255, G: 255, B: 255, A: 0}), 100)
	if err != nil {
		t.Fatal(err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := img.At(8, 8).RGBA()
	if r>>8 > 4 || g>>8 > 4 || b>>8 > 4 {
		t.Errorf("transparent pixel should flatten to black, got %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestPNGKeepsAlpha(t *testing.T) {
	data, err := (&PNGEncoder{}).Encode(solid(4, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 128}), 0)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := img.At(1, 1).RGBA(); a>>8 != 128 {
		t.Errorf("alpha = %d, want 128", a>>8)
	}
}

func TestKnown(t *testing.T) {
	for _, f := range []string{"", "auto", "JPG", "jpeg", "png", "webp", "avif"} {
		if !Known(f) {
			t.Errorf("Known(%q) = false", f)
		}
	}
	if Known("gif") {
		t.Error("gif has no encoder")
	}
}
