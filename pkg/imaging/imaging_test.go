package imaging_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"net/http"
	"testing"

	"github.com/JaimeStill/iris/pkg/imaging"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestValidateContentType(t *testing.T) {
	tests := []struct {
		contentType string
		wantErr     bool
	}{
		{"image/jpeg", false},
		{"image/jpg", false},
		{"image/png", false},
		{"image/webp", false},
		{"IMAGE/PNG; charset=binary", false},
		{"image/gif", true},
		{"application/pdf", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			err := imaging.ValidateContentType(tt.contentType)
			if tt.wantErr && !errors.Is(err, imaging.ErrInvalidImageType) {
				t.Errorf("err = %v, want ErrInvalidImageType", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestExtension(t *testing.T) {
	if got := imaging.Extension("image/jpeg"); got != ".jpg" {
		t.Errorf("got %s, want .jpg", got)
	}
	if got := imaging.Extension("image/webp"); got != ".webp" {
		t.Errorf("got %s, want .webp", got)
	}
	if got := imaging.Extension("text/plain"); got != ".img" {
		t.Errorf("got %s, want .img", got)
	}
}

func TestNormalize(t *testing.T) {
	t.Run("shape and range", func(t *testing.T) {
		data := encodePNG(t, solid(40, 30, color.NRGBA{R: 200, G: 100, B: 50, A: 255}))

		tensor, err := imaging.Normalize(data, "image/png")
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}

		want := []int64{1, imaging.Size, imaging.Size, imaging.Channels}
		for i, d := range want {
			if tensor.Shape[i] != d {
				t.Fatalf("shape = %v, want %v", tensor.Shape, want)
			}
		}
		if !tensor.Valid() {
			t.Fatal("tensor not valid")
		}
		for i, v := range tensor.Data {
			if v < 0 || v > 1 {
				t.Fatalf("data[%d] = %f out of range", i, v)
			}
		}
		if math.Abs(float64(tensor.Data[0])-200.0/255) > 0.02 {
			t.Errorf("red channel = %f, want ~%f", tensor.Data[0], 200.0/255)
		}
	})

	t.Run("alpha flattened to white", func(t *testing.T) {
		data := encodePNG(t, solid(4, 4, color.NRGBA{}))

		tensor, err := imaging.Normalize(data, "image/png")
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		for i, v := range tensor.Data {
			if v < 0.98 {
				t.Fatalf("data[%d] = %f, want white", i, v)
			}
		}
	})

	t.Run("grayscale expands to three channels", func(t *testing.T) {
		gray := image.NewGray(image.Rect(0, 0, 8, 8))
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, gray, nil); err != nil {
			t.Fatalf("jpeg encode: %v", err)
		}

		tensor, err := imaging.Normalize(buf.Bytes(), "image/jpeg")
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		if len(tensor.Data) != imaging.Size*imaging.Size*imaging.Channels {
			t.Errorf("len = %d", len(tensor.Data))
		}
	})

	t.Run("single pixel", func(t *testing.T) {
		data := encodePNG(t, solid(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255}))
		tensor, err := imaging.Normalize(data, "image/png")
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		if !tensor.Valid() {
			t.Error("tensor not valid")
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		data := encodePNG(t, solid(17, 23, color.NRGBA{R: 1, G: 2, B: 3, A: 128}))
		a, _ := imaging.Normalize(data, "image/png")
		b, _ := imaging.Normalize(data, "image/png")
		for i := range a.Data {
			if a.Data[i] != b.Data[i] {
				t.Fatalf("data[%d] differs: %f vs %f", i, a.Data[i], b.Data[i])
			}
		}
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := imaging.Normalize([]byte("GIF89a"), "image/gif")
		if !errors.Is(err, imaging.ErrInvalidImageType) {
			t.Errorf("err = %v, want ErrInvalidImageType", err)
		}
	})

	t.Run("corrupt bytes", func(t *testing.T) {
		_, err := imaging.Normalize([]byte("not an image"), "image/png")
		if !errors.Is(err, imaging.ErrCorruptImage) {
			t.Errorf("err = %v, want ErrCorruptImage", err)
		}
	})
}

func TestTensorValid(t *testing.T) {
	tests := []struct {
		name   string
		tensor imaging.Tensor
		want   bool
	}{
		{"empty", imaging.Tensor{}, false},
		{"mismatch", imaging.Tensor{Shape: []int64{1, 2, 2, 3}, Data: make([]float32, 3)}, false},
		{"zero dim", imaging.Tensor{Shape: []int64{1, 0}, Data: nil}, false},
		{"match", imaging.Tensor{Shape: []int64{1, 2, 2, 3}, Data: make([]float32, 12)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tensor.Valid(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestThumbnail(t *testing.T) {
	data := encodePNG(t, solid(400, 200, color.NRGBA{G: 255, A: 255}))

	thumb, err := imaging.Thumbnail(data, 100)
	if err != nil {
		t.Fatalf("Thumbnail() error = %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("bounds = %v, want 100x50", b)
	}

	if _, err := imaging.Thumbnail([]byte("nope"), 100); !errors.Is(err, imaging.ErrCorruptImage) {
		t.Errorf("err = %v, want ErrCorruptImage", err)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	if got := imaging.MapHTTPStatus(imaging.ErrInvalidImageType); got != http.StatusUnsupportedMediaType {
		t.Errorf("got %d, want 415", got)
	}
	if got := imaging.MapHTTPStatus(imaging.ErrCorruptImage); got != http.StatusBadRequest {
		t.Errorf("got %d, want 400", got)
	}
}
