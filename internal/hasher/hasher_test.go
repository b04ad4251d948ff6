package hasher

import (
	"image"
	"image/color"
	"testing"
)

func TestContentHash(t *testing.T) {
	a := ContentHash([]byte("hello"), 16)
	if len(a) != 16 {
		t.Fatalf("len = %d", len(a))
	}
	if a != ContentHash([]byte("hello"), 0) {
		t.Error("hexLen 0 should return the full 16 chars")
	}
	if ContentHash([]byte("hello"), 8) != a[:8] {
		t.Error("truncation mismatch")
	}
	if a == ContentHash([]byte("hellp"), 16) {
		t.Error("different inputs collided")
	}
}

func TestPixelHashIgnoresLayout(t *testing.T) {
	big := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			big.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 7, A: 255})
		}
	}
	sub := big.SubImage(image.Rect(2, 2, 6, 6)).(*image.NRGBA)

	copied := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			copied.SetNRGBA(x, y, big.NRGBAAt(x+2, y+2))
		}
	}

	if PixelHash(sub, 0) != PixelHash(copied, 0) {
		t.Error("sub-image and copy should hash equally")
	}

	copied.SetNRGBA(0, 0, color.NRGBA{A: 255})
	if PixelHash(sub, 0) == PixelHash(copied, 0) {
		t.Error("changed pixel should change the hash")
	}
}

func TestPixelHashIncludesSize(t *testing.T) {
	a := image.NewNRGBA(image.Rect(0, 0, 2, 8))
	b := image.NewNRGBA(image.Rect(0, 0, 8, 2))
	if PixelHash(a, 0) == PixelHash(b, 0) {
		t.Error("2x8 and 8x2 transparent images should differ")
	}
}
