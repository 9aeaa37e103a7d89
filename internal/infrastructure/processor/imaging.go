package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/andreyxaxa/LocalStoreConnect/pkg/types/errs"
	"github.com/disintegration/imaging"
)

const (
	iconWidth  = 128
	iconHeight = 128
)

type ImageProcessor struct {
	width  int
	height int
}

func New() *ImageProcessor {
	return &ImageProcessor{width: iconWidth, height: iconHeight}
}

// Thumbnail crops the image to a centered square icon and re-encodes it in the format of contentType.
func (p *ImageProcessor) Thumbnail(ctx context.Context, contentType string, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ImageProcessor - Thumbnail: %w", err)
	}

	format, err := formatFor(contentType)
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Thumbnail - formatFor: %w", err)
	}

	img, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Thumbnail - decodeImage: %w", err)
	}

	thumb := imaging.Thumbnail(img, p.width, p.height, imaging.Lanczos)

	res, err := encodeImage(thumb, format)
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Thumbnail - encodeImage: %w", err)
	}

	return res, nil
}

func formatFor(contentType string) (imaging.Format, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return imaging.JPEG, nil
	case "image/png":
		return imaging.PNG, nil
	case "image/gif":
		return imaging.GIF, nil
	default:
		return 0, fmt.Errorf("%w: %s", errs.ErrUnsupportedMedia, contentType)
	}
}

func decodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imaging.Decode: %w: %w", errs.ErrUnsupportedMedia, err)
	}

	return img, nil
}

func encodeImage(img image.Image, format imaging.Format) ([]byte, error) {
	var buf bytes.Buffer

	err := imaging.Encode(&buf, img, format)
	if err != nil {
		return nil, fmt.Errorf("imaging.Encode: %w", err)
	}

	return buf.Bytes(), nil
}
