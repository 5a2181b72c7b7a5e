package imgproc

import "github.com/gogpu/cv/internal/parallel"

// MorphShapeKind selects the structuring element shape.
type MorphShapeKind int

const (
	ShapeRect MorphShapeKind = iota
	ShapeCross
	ShapeEllipse
)

// StructuringElement builds a kw*kh row-major element mask. A true cell
// participates in the min/max window.
func StructuringElement(shape MorphShapeKind, kw, kh int) []bool {
	mask := make([]bool, kw*kh)
	cx, cy := kw/2, kh/2

	switch shape {
	case ShapeCross:
		for y := 0; y < kh; y++ {
			for x := 0; x < kw; x++ {
				mask[y*kw+x] = y == cy || x == cx
			}
		}
	case ShapeEllipse:
		a, b := float64(cx), float64(cy)
		if a == 0 {
			a = 0.5
		}
		if b == 0 {
			b = 0.5
		}
		for y := 0; y < kh; y++ {
			for x := 0; x < kw; x++ {
				dx := (float64(x) - float64(cx)) / a
				dy := (float64(y) - float64(cy)) / b
				mask[y*kw+x] = dx*dx+dy*dy <= 1.0
			}
		}
	default: // ShapeRect
		for i := range mask {
			mask[i] = true
		}
	}
	return mask
}

// Erode writes the per-channel minimum over the element window.
// Window cells falling outside the image are skipped, not clamped, so
// border pixels erode against a smaller window. The GPU shader mirrors
// this.
func Erode(src, dst Image, mask []bool, kw, kh int) {
	morph(src, dst, mask, kw, kh, true)
}

// Dilate writes the per-channel maximum over the element window.
func Dilate(src, dst Image, mask []bool, kw, kh int) {
	morph(src, dst, mask, kw, kh, false)
}

func morph(src, dst Image, mask []bool, kw, kh int, erode bool) {
	halfW, halfH := kw/2, kh/2

	parallel.Rows(src.Height, func(y int) {
		for x := 0; x < src.Width; x++ {
			for ch := 0; ch < src.Channels; ch++ {
				var acc byte
				if erode {
					acc = 255
				}
				for ky := 0; ky < kh; ky++ {
					sy := y + ky - halfH
					if sy < 0 || sy >= src.Height {
						continue
					}
					for kx := 0; kx < kw; kx++ {
						if !mask[ky*kw+kx] {
							continue
						}
						sx := x + kx - halfW
						if sx < 0 || sx >= src.Width {
							continue
						}
						v := src.Pix[(sy*src.Width+sx)*src.Channels+ch]
						if erode {
							if v < acc {
								acc = v
							}
						} else if v > acc {
							acc = v
						}
					}
				}
				dst.Pix[(y*dst.Width+x)*dst.Channels+ch] = acc
			}
		}
	})
}

// Subtract writes saturate(a - b) to dst, used by the compound
// morphological operations (gradient, top-hat, black-hat).
func Subtract(a, b, dst Image) {
	parallel.Rows(a.Height, func(y int) {
		off := y * a.RowStride()
		for i := 0; i < a.RowStride(); i++ {
			va, vb := a.Pix[off+i], b.Pix[off+i]
			if va > vb {
				dst.Pix[off+i] = va - vb
			} else {
				dst.Pix[off+i] = 0
			}
		}
	})
}
