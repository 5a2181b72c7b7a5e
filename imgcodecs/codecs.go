// Package imgcodecs bridges cv.Mat and Go's image ecosystem.
//
// Decoding accepts PNG, JPEG, GIF, BMP, TIFF and WebP; encoding covers
// PNG, JPEG, BMP and TIFF (WebP has no Go encoder). File formats are
// picked by extension, reader formats by sniffing through image.Decode.
package imgcodecs

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	_ "image/gif"

	_ "golang.org/x/image/webp"

	"github.com/gogpu/cv"
)

// ErrUnsupportedFormat is returned for extensions with no codec.
var ErrUnsupportedFormat = fmt.Errorf("imgcodecs: unsupported format")

// jpegQuality matches the encoder default; WriteFileJPEG takes an
// explicit quality for callers that care.
const jpegQuality = jpeg.DefaultQuality

// FromImage converts any image.Image into a Mat. Grayscale sources
// become single-channel mats, everything else becomes 4-channel RGBA.
// The pixel data is copied; the source image is not retained.
func FromImage(img image.Image) (*cv.Mat, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src := img.(type) {
	case *image.Gray:
		data := make([]byte, w*h)
		for y := 0; y < h; y++ {
			copy(data[y*w:(y+1)*w], src.Pix[y*src.Stride:y*src.Stride+w])
		}
		return cv.FromRawBytes(data, w, h, 1, cv.U8)

	case *image.RGBA:
		data := make([]byte, w*h*4)
		for y := 0; y < h; y++ {
			copy(data[y*w*4:(y+1)*w*4], src.Pix[y*src.Stride:y*src.Stride+w*4])
		}
		return cv.FromRawBytes(data, w, h, 4, cv.U8)
	}

	// Generic path: let the color model do the conversion.
	data := make([]byte, 0, w*h*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			data = append(data, c.R, c.G, c.B, c.A)
		}
	}
	return cv.FromRawBytes(data, w, h, 4, cv.U8)
}

// ToImage converts a U8 Mat into an image.Image. One channel maps to
// *image.Gray, three channels to *image.RGBA with opaque alpha, four
// channels to *image.RGBA.
func ToImage(m *cv.Mat) (image.Image, error) {
	if m == nil {
		return nil, fmt.Errorf("imgcodecs: nil mat")
	}
	if m.Depth() != cv.U8 {
		return nil, fmt.Errorf("imgcodecs: only u8 mats can be encoded, got %v", m.Depth())
	}

	w, h := m.Width(), m.Height()
	data := m.Data()

	switch m.Channels() {
	case 1:
		img := image.NewGray(image.Rect(0, 0, w, h))
		copy(img.Pix, data)
		return img, nil
	case 3:
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		for i := 0; i < w*h; i++ {
			img.Pix[i*4] = data[i*3]
			img.Pix[i*4+1] = data[i*3+1]
			img.Pix[i*4+2] = data[i*3+2]
			img.Pix[i*4+3] = 255
		}
		return img, nil
	case 4:
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		copy(img.Pix, data)
		return img, nil
	}
	return nil, fmt.Errorf("imgcodecs: cannot encode %d-channel mat", m.Channels())
}

// Decode reads an image from r in any registered format.
func Decode(r io.Reader) (*cv.Mat, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imgcodecs: decode: %w", err)
	}
	return FromImage(img)
}

// ReadFile loads an image file into a Mat. The format is sniffed from
// the contents, not the extension.
func ReadFile(path string) (*cv.Mat, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return Decode(f)
}

// WriteFile encodes m into path, choosing the codec by extension.
func WriteFile(path string, m *cv.Mat) error {
	img, err := ToImage(m)
	if err != nil {
		return err
	}

	var encode func(io.Writer, image.Image) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		encode = png.Encode
	case ".jpg", ".jpeg":
		encode = func(w io.Writer, i image.Image) error {
			return jpeg.Encode(w, i, &jpeg.Options{Quality: jpegQuality})
		}
	case ".bmp":
		encode = bmp.Encode
	case ".tif", ".tiff":
		encode = func(w io.Writer, i image.Image) error {
			return tiff.Encode(w, i, nil)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("imgcodecs: encode %s: %w", path, err)
	}
	return f.Close()
}
