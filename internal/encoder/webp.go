package encoder

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"
)

// Atomic counter for unique temp file names across goroutines.
var tempCounter atomic.Int64

// WebPEncoder encodes images to WebP by shelling out to cwebp.
// This approach avoids CGO while still producing optimized WebP.
// Install: brew install webp / apt install webp
type WebPEncoder struct {
	once      sync.Once
	available bool
	cwebpPath string
}

func (e *WebPEncoder) Format() string    { return "webp" }
func (e *WebPEncoder) Extension() string { return "webp" }
func (e *WebPEncoder) Lossy() bool       { return true }

func (e *WebPEncoder) Available() bool {
	e.once.Do(func() {
		e.cwebpPath, e.available = lookTool("cwebp")
	})
	return e.available
}

func (e *WebPEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("cwebp not found in PATH; install with: brew install webp")
	}
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	return runTool(img, "webp", func(src, dst string) *exec.Cmd {
		return exec.Command(e.cwebpPath,
			"-q", strconv.Itoa(quality),
			"-m", "6", // compression method (0=fast, 6=best)
			"-alpha_q", "100",
			"-quiet",
			src,
			"-o", dst,
		)
	})
}

// AVIFEncoder encodes images to AVIF by shelling out to avifenc.
// Install: brew install libavif / apt install libavif-bin
type AVIFEncoder struct {
	once        sync.Once
	available   bool
	avifencPath string
}

func (e *AVIFEncoder) Format() string    { return "avif" }
func (e *AVIFEncoder) Extension() string { return "avif" }
func (e *AVIFEncoder) Lossy() bool       { return true }

func (e *AVIFEncoder) Available() bool {
	e.once.Do(func() {
		e.avifencPath, e.available = lookTool("avifenc")
	})
	return e.available
}

func (e *AVIFEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if !e.Available() {
		return nil, fmt.Errorf("avifenc not found in PATH; install with: brew install libavif")
	}
	if quality <= 0 || quality > 100 {
		quality = 70
	}

	// avifenc uses a different quality scale: lower = better, 0-63.
	avifQ := strconv.Itoa(63 - (quality * 63 / 100))
	return runTool(img, "avif", func(src, dst string) *exec.Cmd {
		return exec.Command(e.avifencPath,
			"--min", avifQ,
			"--max", avifQ,
			"--speed", "6",
			"-j", "all",
			src,
			dst,
		)
	})
}

func lookTool(name string) (string, bool) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	return path, true
}

// runTool writes img as a temporary PNG, runs the command built by mkCmd
// with the source and destination paths, and returns the destination bytes.
func runTool(img image.Image, ext string, mkCmd func(src, dst string) *exec.Cmd) ([]byte, error) {
	id := tempCounter.Add(1)
	srcFile, err := os.CreateTemp("", fmt.Sprintf("photoedit_%s_src_%d_*.png", ext, id))
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	srcPath := srcFile.Name()
	defer os.Remove(srcPath)

	dstFile, err := os.CreateTemp("", fmt.Sprintf("photoedit_%s_dst_%d_*.%s", ext, id, ext))
	if err != nil {
		srcFile.Close()
		return nil, fmt.Errorf("create temp: %w", err)
	}
	dstPath := dstFile.Name()
	dstFile.Close()
	defer os.Remove(dstPath)

	if err := png.Encode(srcFile, img); err != nil {
		srcFile.Close()
		return nil, fmt.Errorf("encode temp png: %w", err)
	}
	if err := srcFile.Close(); err != nil {
		return nil, fmt.Errorf("close temp png: %w", err)
	}

	cmd := mkCmd(srcPath, dstPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", cmd.Path, err, string(out))
	}
	return os.ReadFile(dstPath)
}
