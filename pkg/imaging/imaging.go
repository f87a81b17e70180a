// Package imaging validates, decodes, and normalizes uploaded images into
// fixed-shape tensors for classification.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Size is the square edge length images are resized to before inference.
const Size = 224

// Channels is the number of color channels in a normalized tensor.
const Channels = 3

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Tensor is a dense float32 buffer in NHWC layout.
type Tensor struct {
	Shape []int64
	Data  []float32
}

// Valid reports whether the buffer length matches the declared shape.
func (t Tensor) Valid() bool {
	if len(t.Shape) == 0 {
		return false
	}
	n := int64(1)
	for _, d := range t.Shape {
		if d <= 0 {
			return false
		}
		n *= d
	}
	return int64(len(t.Data)) == n
}

// MediaType returns the lower-cased media type of a Content-Type header value.
func MediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}

// ValidateContentType returns ErrInvalidImageType unless contentType is JPEG, PNG, or WEBP.
func ValidateContentType(contentType string) error {
	if _, ok := extensions[MediaType(contentType)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidImageType, contentType)
	}
	return nil
}

// Extension returns the file extension for an accepted content type, or ".img".
func Extension(contentType string) string {
	if ext, ok := extensions[MediaType(contentType)]; ok {
		return ext
	}
	return ".img"
}

// Decode decodes JPEG, PNG, or WEBP bytes.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptImage, err)
	}
	return img, nil
}

// Flatten composites img over an opaque white background.
func Flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// Resize scales img to a size×size square with Catmull-Rom resampling.
func Resize(img image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Normalize validates, decodes, flattens, and resizes data, returning a
// [1, Size, Size, 3] tensor with channel values scaled to [0,1].
func Normalize(data []byte, contentType string) (Tensor, error) {
	if err := ValidateContentType(contentType); err != nil {
		return Tensor{}, err
	}

	img, err := Decode(data)
	if err != nil {
		return Tensor{}, err
	}

	return FromImage(img, Size), nil
}

// FromImage converts img into a normalized [1, size, size, 3] tensor.
func FromImage(img image.Image, size int) Tensor {
	rgb := Resize(Flatten(img), size)

	out := make([]float32, 0, size*size*Channels)
	for y := range size {
		row := rgb.Pix[y*rgb.Stride : y*rgb.Stride+size*4]
		for x := range size {
			px := row[x*4 : x*4+3]
			out = append(out,
				float32(px[0])/255,
				float32(px[1])/255,
				float32(px[2])/255,
			)
		}
	}

	return Tensor{
		Shape: []int64{1, int64(size), int64(size), Channels},
		Data:  out,
	}
}
