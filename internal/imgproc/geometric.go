package imgproc

import (
	"math"

	"github.com/gogpu/cv/internal/parallel"
)

// ResizeNearest scales src into dst by nearest-neighbor sampling.
// dst carries the target geometry.
func ResizeNearest(src, dst Image) {
	xRatio := float32(src.Width) / float32(dst.Width)
	yRatio := float32(src.Height) / float32(dst.Height)

	parallel.Rows(dst.Height, func(y int) {
		sy := clampInt(int(float32(y)*yRatio), 0, src.Height-1)
		for x := 0; x < dst.Width; x++ {
			sx := clampInt(int(float32(x)*xRatio), 0, src.Width-1)
			si := (sy*src.Width + sx) * src.Channels
			di := (y*dst.Width + x) * dst.Channels
			copy(dst.Pix[di:di+dst.Channels], src.Pix[si:si+src.Channels])
		}
	})
}

// ResizeBilinear scales src into dst by bilinear sampling. The sample
// grid maps destination pixel (x, y) to source (x*(sw-1)/dw,
// y*(sh-1)/dh), matching the GPU shader's arithmetic.
func ResizeBilinear(src, dst Image) {
	xRatio := float32(src.Width-1) / float32(dst.Width)
	yRatio := float32(src.Height-1) / float32(dst.Height)

	parallel.Rows(dst.Height, func(y int) {
		srcY := float32(y) * yRatio
		y1 := int(srcY)
		y2 := clampInt(y1+1, 0, src.Height-1)
		dy := srcY - float32(y1)

		for x := 0; x < dst.Width; x++ {
			srcX := float32(x) * xRatio
			x1 := int(srcX)
			x2 := clampInt(x1+1, 0, src.Width-1)
			dx := srcX - float32(x1)

			for ch := 0; ch < dst.Channels; ch++ {
				v11 := float32(src.Pix[(y1*src.Width+x1)*src.Channels+ch])
				v21 := float32(src.Pix[(y1*src.Width+x2)*src.Channels+ch])
				v12 := float32(src.Pix[(y2*src.Width+x1)*src.Channels+ch])
				v22 := float32(src.Pix[(y2*src.Width+x2)*src.Channels+ch])

				top := v11*(1-dx) + v21*dx
				bot := v12*(1-dx) + v22*dx
				v := top*(1-dy) + bot*dy

				dst.Pix[(y*dst.Width+x)*dst.Channels+ch] = byte(math.Round(float64(v)))
			}
		}
	})
}

// Flip mirrors src into dst. vertical mirrors top-bottom, horizontal
// mirrors left-right; both may be set.
func Flip(src, dst Image, vertical, horizontal bool) {
	parallel.Rows(src.Height, func(y int) {
		dy := y
		if vertical {
			dy = src.Height - 1 - y
		}
		for x := 0; x < src.Width; x++ {
			dx := x
			if horizontal {
				dx = src.Width - 1 - x
			}
			si := (y*src.Width + x) * src.Channels
			di := (dy*dst.Width + dx) * dst.Channels
			copy(dst.Pix[di:di+dst.Channels], src.Pix[si:si+src.Channels])
		}
	})
}

// Rotate90CW rotates by a quarter turn clockwise. dst geometry must be
// the transpose of src.
func Rotate90CW(src, dst Image) {
	parallel.Rows(src.Height, func(y int) {
		for x := 0; x < src.Width; x++ {
			si := (y*src.Width + x) * src.Channels
			di := (x*dst.Width + (src.Height - 1 - y)) * dst.Channels
			copy(dst.Pix[di:di+dst.Channels], src.Pix[si:si+src.Channels])
		}
	})
}

// Rotate90CCW rotates by a quarter turn counter-clockwise.
func Rotate90CCW(src, dst Image) {
	parallel.Rows(src.Height, func(y int) {
		for x := 0; x < src.Width; x++ {
			si := (y*src.Width + x) * src.Channels
			di := ((src.Width-1-x)*dst.Width + y) * dst.Channels
			copy(dst.Pix[di:di+dst.Channels], src.Pix[si:si+src.Channels])
		}
	})
}
