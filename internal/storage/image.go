package storage

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"io"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Normalized course image dimensions and encoding quality.
const (
	ImageWidth  = 800
	ImageHeight = 600
	jpegQuality = 80
)

var ErrUnsupportedImage = errors.New("unsupported image format")

// NormalizeImage decodes an uploaded image, scales and center-crops it
// to cover 800x600, and re-encodes it as JPEG. All stored images end
// up the same size and format regardless of what was uploaded.
func NormalizeImage(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	dst := image.NewRGBA(image.Rect(0, 0, ImageWidth, ImageHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, coverRect(src.Bounds()), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// coverRect returns the largest centered sub-rectangle of bounds with
// the target aspect ratio. Scaling that rectangle to the target size
// crops instead of distorting.
func coverRect(bounds image.Rectangle) image.Rectangle {
	srcW := bounds.Dx()
	srcH := bounds.Dy()

	// Compare aspect ratios without floats: srcW/srcH vs ImageWidth/ImageHeight.
	if srcW*ImageHeight > srcH*ImageWidth {
		// Source is wider than the target, crop the sides.
		cropW := srcH * ImageWidth / ImageHeight
		offset := (srcW - cropW) / 2
		return image.Rect(bounds.Min.X+offset, bounds.Min.Y, bounds.Min.X+offset+cropW, bounds.Max.Y)
	}
	// Source is taller than the target, crop top and bottom.
	cropH := srcW * ImageHeight / ImageWidth
	offset := (srcH - cropH) / 2
	return image.Rect(bounds.Min.X, bounds.Min.Y+offset, bounds.Max.X, bounds.Min.Y+offset+cropH)
}
