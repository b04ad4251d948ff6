// Package hasher fingerprints encoded files and decoded pixel buffers with
// xxHash64.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"image"
	"image/draw"

	"github.com/cespare/xxhash/v2"
)

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to hexLen characters (all 16 when hexLen <= 0).
func ContentHash(data []byte, hexLen int) string {
	return format(xxhash.Sum64(data), hexLen)
}

// PixelHash fingerprints the decoded pixels of img: its size plus its NRGBA
// bytes row by row, so equal pictures hash equally regardless of stride or
// origin. Used to check that renders are reproducible.
func PixelHash(img image.Image, hexLen int) string {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
		b = nrgba.Bounds()
	}

	h := xxhash.New()
	var dims [16]byte
	binary.BigEndian.PutUint64(dims[:8], uint64(b.Dx()))
	binary.BigEndian.PutUint64(dims[8:], uint64(b.Dy()))
	h.Write(dims[:])
	for y := b.Min.Y; y < b.Max.Y; y++ {
		h.Write(nrgba.Pix[nrgba.PixOffset(b.Min.X, y):nrgba.PixOffset(b.Max.X, y)])
	}
	return format(h.Sum64(), hexLen)
}

func format(sum uint64, hexLen int) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], sum)
	full := hex.EncodeToString(buf[:])
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
