package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// noisyPNG encodes a deliberately incompressible image so the PNG comfortably
// exceeds small byte caps.
func noisyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	seed := uint32(2463534242)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			seed ^= seed << 13
			seed ^= seed >> 17
			seed ^= seed << 5
			img.Set(x, y, color.RGBA{
				R: uint8(seed),
				G: uint8(seed >> 8),
				B: uint8(seed >> 16),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestFitBytesPassthrough(t *testing.T) {
	data := noisyPNG(t, 32, 32)
	got, err := FitBytes(data, len(data))
	if err != nil {
		t.Fatalf("FitBytes() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("under-cap input should be returned untouched")
	}
}

func TestFitBytesDownscales(t *testing.T) {
	data := noisyPNG(t, 256, 256)
	byteCap := 64 * 1024
	if len(data) <= byteCap {
		t.Fatalf("test image too small: %d bytes", len(data))
	}

	got, err := FitBytes(data, byteCap)
	if err != nil {
		t.Fatalf("FitBytes() error = %v", err)
	}
	if len(got) > byteCap {
		t.Fatalf("output %d bytes exceeds cap %d", len(got), byteCap)
	}
	img, format, err := image.Decode(bytes.NewReader(got))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "jpeg" {
		t.Fatalf("expected jpeg output, got %s", format)
	}
	if img.Bounds().Dx() >= 256 {
		t.Fatalf("image was not downscaled: %v", img.Bounds())
	}
}

func TestFitBytesBadCap(t *testing.T) {
	if _, err := FitBytes([]byte{1}, 0); err == nil {
		t.Fatalf("expected error for non-positive cap")
	}
}

func TestFitBytesNotAnImage(t *testing.T) {
	junk := bytes.Repeat([]byte{0xAB}, 1024)
	if _, err := FitBytes(junk, 10); err == nil {
		t.Fatalf("expected decode error for junk input")
	}
}
