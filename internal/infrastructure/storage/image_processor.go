package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

var (
	ErrImageTooLarge     = errors.New("image exceeds upload limit")
	ErrUnsupportedFormat = errors.New("image format not allowed (only jpeg/png)")
	ErrNotAnImage        = errors.New("file is not an image")
)

type ImageProcessor struct {
	MaxSize      int64 // bytes
	MaxDimension int   // px, 0 = giữ nguyên kích thước
}

func NewImageProcessor(maxSize int64, maxDimension int) *ImageProcessor {
	return &ImageProcessor{
		MaxSize:      maxSize,
		MaxDimension: maxDimension,
	}
}

// ValidateImage check JPEG/PNG, trả về format ("jpeg" hoặc "png")
func (p *ImageProcessor) ValidateImage(data []byte) (string, error) {
	if p.MaxSize > 0 && int64(len(data)) > p.MaxSize {
		return "", ErrImageTooLarge
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	switch format {
	case "jpeg", "png":
		return format, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Downscale thu nhỏ ảnh vượt MaxDimension, giữ tỉ lệ và định dạng gốc
// Ảnh đã nhỏ hơn giới hạn được trả về nguyên vẹn (resized = false)
func (p *ImageProcessor) Downscale(data []byte, format string) ([]byte, bool, error) {
	if p.MaxDimension <= 0 {
		return data, false, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("cannot decode image config: %w", err)
	}
	if cfg.Width <= p.MaxDimension && cfg.Height <= p.MaxDimension {
		return data, false, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, false, fmt.Errorf("cannot decode image: %w", err)
	}

	resized := imaging.Fit(img, p.MaxDimension, p.MaxDimension, imaging.Lanczos)

	out := imaging.JPEG
	if format == "png" {
		out = imaging.PNG
	}

	b := new(bytes.Buffer)
	if err := imaging.Encode(b, resized, out, imaging.JPEGQuality(90)); err != nil {
		return nil, false, fmt.Errorf("cannot encode %s: %w", format, err)
	}
	return b.Bytes(), true, nil
}

// Extension trả về đuôi file cho format
func Extension(format string) string {
	if format == "png" {
		return ".png"
	}
	return ".jpg"
}

// ContentType trả về MIME type cho format
func ContentType(format string) string {
	if format == "png" {
		return "image/png"
	}
	return "image/jpeg"
}
