package utils

import (
	"bytes"
	"errors"
	"fmt"

	"wish-wall-server/internal/config"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

// ImageNormalizer 将上传图片缩放为固定尺寸（不保持宽高比）并按原格式重新编码
type ImageNormalizer struct {
	Width       int
	Height      int
	JPEGQuality int
}

func NewImageNormalizer(cfg config.ImageConfig) *ImageNormalizer {
	return &ImageNormalizer{
		Width:       cfg.Width,
		Height:      cfg.Height,
		JPEGQuality: cfg.JPEGQuality,
	}
}

// Normalize 返回重新编码后的图片字节及其 MIME 类型。
// 输入无法解码时返回错误，不产生任何副作用。
func (n *ImageNormalizer) Normalize(data []byte) ([]byte, string, error) {
	var format imaging.Format
	var mimeType string
	switch detected := mimetype.Detect(data); {
	case detected.Is("image/jpeg"):
		format, mimeType = imaging.JPEG, "image/jpeg"
	case detected.Is("image/png"):
		format, mimeType = imaging.PNG, "image/png"
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedImage, detected.String())
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	resized := imaging.Resize(img, n.Width, n.Height, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(n.JPEGQuality)); err != nil {
		return nil, "", fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), mimeType, nil
}
