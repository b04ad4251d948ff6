//go:build ignore

// gen_fixtures creates small test images and a sample recipe for the E2E
// smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "photos", "portraits"), 0o755)

	// Landscape (JPEG, 1000x500): the 1:1 preset crops it to the middle half.
	writeJPEG(filepath.Join(dir, "photos", "landscape.jpg"), gradient(1000, 500))

	// Portraits (PNG, 300x400 each)
	for i := 1; i <= 2; i++ {
		name := fmt.Sprintf("portrait-%d.png", i)
		writePNG(filepath.Join(dir, "photos", "portraits", name), stripes(300, 400, uint8(i*70)))
	}

	// Translucent sticker: shows alpha flattening on JPEG export.
	writePNG(filepath.Join(dir, "photos", "sticker.png"), alphaGradient(120, 120))

	writeRecipe(filepath.Join(dir, "square-warm.recipe.json"))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 4 images and 1 recipe in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func stripes(w, h int, base uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: base, G: base + 40, B: base + 80, A: 255}
			if (y/20)%2 == 0 {
				c = color.NRGBA{R: 240, G: 235, B: 220, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func writeRecipe(path string) {
	r := map[string]any{
		"version": 1,
		"filters": map[string]any{"temperature": 40, "saturation": 120, "blur": 0.5},
		"crop":    map[string]any{"aspect": "1:1"},
		"export":  map[string]any{"profile": "web"},
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal recipe: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
		os.Exit(1)
	}
}

func writeJPEG(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()
	jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
}

func writePNG(path string, img image.Image) {
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()
	png.Encode(f, img)
}
