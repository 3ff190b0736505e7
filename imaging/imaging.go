// Package imaging provides the image re-encoding helpers the benchmark needs
// to satisfy cloud API payload caps.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"math"

	"golang.org/x/image/draw"
)

const jpegQuality = 85

// FitBytes returns an encoded image no larger than maxBytes. Inputs already
// under the cap are returned untouched. Oversized inputs are decoded,
// downscaled with bilinear interpolation, and re-encoded as JPEG; the scale
// factor is re-derived from the achieved size until the payload fits.
func FitBytes(data []byte, maxBytes int) ([]byte, error) {
	if maxBytes <= 0 {
		return nil, fmt.Errorf("non-positive byte cap %d", maxBytes)
	}
	if len(data) <= maxBytes {
		return data, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	encoded := data
	for attempt := 0; attempt < 6; attempt++ {
		// Pixel count scales with the square of the linear factor; the 0.9
		// headroom absorbs encoding overhead.
		factor := math.Sqrt(float64(maxBytes)/float64(len(encoded))) * 0.9
		img = scale(img, factor)
		bounds := img.Bounds()
		if bounds.Dx() < 8 || bounds.Dy() < 8 {
			return nil, fmt.Errorf("image unreducible below %d bytes", maxBytes)
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		encoded = buf.Bytes()
		if len(encoded) <= maxBytes {
			return encoded, nil
		}
	}
	return nil, fmt.Errorf("image still %d bytes after downscaling (cap %d)", len(encoded), maxBytes)
}

func scale(img image.Image, factor float64) image.Image {
	bounds := img.Bounds()
	w := int(math.Max(1, math.Round(float64(bounds.Dx())*factor)))
	h := int(math.Max(1, math.Round(float64(bounds.Dy())*factor)))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
