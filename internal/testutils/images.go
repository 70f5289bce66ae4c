package testutils

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
)

// PNG returns a PNG-encoded gradient image of the given size.
func PNG(width, height int) []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, gradient(width, height))
	return buf.Bytes()
}

// JPEG returns a JPEG-encoded gradient image of the given size.
func JPEG(width, height int) []byte {
	var buf bytes.Buffer
	_ = jpeg.Encode(&buf, gradient(width, height), &jpeg.Options{Quality: 85})
	return buf.Bytes()
}

// MinimalPNG returns a 1x1 PNG.
func MinimalPNG() []byte {
	return PNG(1, 1)
}

// GIF89a 头部，用于不被允许的图片类型测试
func MinimalGIF() []byte {
	return []byte{
		'G', 'I', 'F', '8', '9', 'a', 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00,
		0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00, 0x00,
		0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00,
		0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
	}
}

func gradient(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x * 255 / max(width, 1)),
				G: uint8(y * 255 / max(height, 1)),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}
