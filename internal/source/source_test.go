package source

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func TestDecodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, gradient(40, 30)); err != nil {
		t.Fatal(err)
	}
	img, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != 40 || img.Height != 30 {
		t.Errorf("dims = %dx%d", img.Width, img.Height)
	}
	if img.Format != "png" {
		t.Errorf("format = %q", img.Format)
	}
	if img.Size != int64(buf.Len()) {
		t.Errorf("size = %d, want %d", img.Size, buf.Len())
	}
	if len(img.Hash) != 16 {
		t.Errorf("hash = %q", img.Hash)
	}
}

func TestLoadJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.jpg")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(f, gradient(64, 32), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if img.Name != "photo.jpg" || img.Format != "jpeg" {
		t.Errorf("name=%q format=%q", img.Name, img.Format)
	}
	if img.AspectRatio() != 2 {
		t.Errorf("aspect = %v", img.AspectRatio())
	}
}

func TestDecodeFailure(t *testing.T) {
	_, err := Decode(strings.NewReader("definitely not an image"))
	if !errors.Is(err, ErrDecode) {
		t.Errorf("err = %v, want ErrDecode", err)
	}

	// Truncated PNG: header parses, body does not.
	var buf bytes.Buffer
	png.Encode(&buf, gradient(32, 32))
	_, err = Decode(bytes.NewReader(buf.Bytes()[:buf.Len()/2]))
	if !errors.Is(err, ErrDecode) {
		t.Errorf("truncated: err = %v, want ErrDecode", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("expected error")
	}
}

func TestFromImage(t *testing.T) {
	img, err := FromImage(gradient(5, 7), "mem")
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != 5 || img.Height != 7 || img.Hash == "" {
		t.Errorf("got %+v", img)
	}
	if _, err := FromImage(image.NewNRGBA(image.Rect(0, 0, 0, 3)), "empty"); !errors.Is(err, ErrDecode) {
		t.Errorf("empty image err = %v", err)
	}
}

func TestHasAlpha(t *testing.T) {
	if HasAlpha(gradient(4, 4)) {
		t.Error("opaque image reported as having alpha")
	}
	img := gradient(4, 4)
	img.SetNRGBA(3, 3, color.NRGBA{A: 10})
	if !HasAlpha(img) {
		t.Error("translucent pixel not detected")
	}
	if HasAlpha(image.NewYCbCr(image.Rect(0, 0, 8, 8), image.YCbCrSubsampleRatio420)) {
		t.Error("YCbCr should never report alpha")
	}
	rgba := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if !HasAlpha(rgba) {
		t.Error("zeroed RGBA is transparent")
	}
}

func TestAvgColor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 100, G: 0, B: 50, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	if got := AvgColor(img); got != [3]uint8{150, 50, 50} {
		t.Errorf("got %v", got)
	}
}
