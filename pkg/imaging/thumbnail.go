package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// Thumbnail decodes data and re-encodes it as a JPEG whose longest side is at
// most maxSide pixels. Transparency is flattened onto white.
func Thumbnail(data []byte, maxSide int) ([]byte, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}

	flat := Flatten(img)
	w, h := flat.Bounds().Dx(), flat.Bounds().Dy()

	var out image.Image = flat
	if longest := max(w, h); longest > maxSide {
		nw := max(w*maxSide/longest, 1)
		nh := max(h*maxSide/longest, 1)
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), flat, flat.Bounds(), draw.Src, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
