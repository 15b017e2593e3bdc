package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
)

const MaxPhotoWidth = 1920

// Shrink reduz JPEG/PNG mais largos que maxWidth mantendo a proporção.
// Outros formatos e imagens já pequenas passam sem alteração.
func Shrink(data []byte, ext string, maxWidth uint) ([]byte, error) {
	var decode func([]byte) (image.Image, error)
	var encode func(*bytes.Buffer, image.Image) error

	switch ext {
	case ".jpg", ".jpeg":
		decode = func(b []byte) (image.Image, error) { return jpeg.Decode(bytes.NewReader(b)) }
		encode = func(buf *bytes.Buffer, img image.Image) error {
			return jpeg.Encode(buf, img, &jpeg.Options{Quality: 85})
		}
	case ".png":
		decode = func(b []byte) (image.Image, error) { return png.Decode(bytes.NewReader(b)) }
		encode = func(buf *bytes.Buffer, img image.Image) error { return png.Encode(buf, img) }
	default:
		return data, nil
	}

	img, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if uint(img.Bounds().Dx()) <= maxWidth {
		return data, nil
	}

	resized := resize.Resize(maxWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err = encode(&buf, resized); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
