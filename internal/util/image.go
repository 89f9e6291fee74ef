package util

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"strings"

	"golang.org/x/image/draw"
)

// Signature strokes never need more resolution than this; anything larger is
// downscaled before upload.
const maxSignatureDimension = 1200

var ErrMalformedImage = errors.New("malformed image payload")

// DecodeDataURL extracts the raw bytes of a base64 data URL such as
// "data:image/png;base64,iVBOR...".
func DecodeDataURL(dataURL string) ([]byte, error) {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return nil, fmt.Errorf("%w: not an image data url", ErrMalformedImage)
	}

	idx := strings.Index(dataURL, ";base64,")
	if idx < 0 {
		return nil, fmt.Errorf("%w: missing base64 marker", ErrMalformedImage)
	}

	data, err := base64.StdEncoding.DecodeString(dataURL[idx+len(";base64,"):])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImage, err)
	}

	return data, nil
}

// NormalizeSignaturePNG decodes an uploaded signature image, bounds its size,
// and re-encodes it as PNG so every stored artifact shares one format.
func NormalizeSignaturePNG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImage, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrMalformedImage)
	}

	if w > maxSignatureDimension || h > maxSignatureDimension {
		scale := float64(maxSignatureDimension) / float64(max(w, h))
		dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode signature png: %w", err)
	}

	return buf.Bytes(), nil
}
