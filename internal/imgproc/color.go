package imgproc

import (
	"math"

	"github.com/gogpu/cv/internal/parallel"
)

// Gray conversion weights (ITU-R BT.601). The float32 dot product is
// truncated, not rounded; the GPU shader does the same.
const (
	grayR = 0.299
	grayG = 0.587
	grayB = 0.114
)

// RGBToGray converts a 3- or 4-channel interleaved image to a single
// gray channel. swapRB reads the first channel as blue (BGR order).
func RGBToGray(src, dst Image, swapRB bool) {
	parallel.Rows(src.Height, func(y int) {
		for x := 0; x < src.Width; x++ {
			i := (y*src.Width + x) * src.Channels
			r, g, b := src.Pix[i], src.Pix[i+1], src.Pix[i+2]
			if swapRB {
				r, b = b, r
			}
			gray := grayR*float32(r) + grayG*float32(g) + grayB*float32(b)
			dst.Pix[y*dst.Width+x] = byte(gray)
		}
	})
}

// GrayToRGB expands a single gray channel into 3 or 4 interleaved
// channels (alpha, when present, is set to 255).
func GrayToRGB(src, dst Image) {
	parallel.Rows(src.Height, func(y int) {
		for x := 0; x < src.Width; x++ {
			v := src.Pix[y*src.Width+x]
			o := (y*dst.Width + x) * dst.Channels
			dst.Pix[o] = v
			dst.Pix[o+1] = v
			dst.Pix[o+2] = v
			if dst.Channels == 4 {
				dst.Pix[o+3] = 255
			}
		}
	})
}

// SwapRB swaps the first and third channels (RGB <-> BGR).
func SwapRB(src, dst Image) {
	parallel.Rows(src.Height, func(y int) {
		for x := 0; x < src.Width; x++ {
			i := (y*src.Width + x) * src.Channels
			dst.Pix[i] = src.Pix[i+2]
			dst.Pix[i+1] = src.Pix[i+1]
			dst.Pix[i+2] = src.Pix[i]
			if src.Channels == 4 {
				dst.Pix[i+3] = src.Pix[i+3]
			}
		}
	})
}

// RGBToHSV converts RGB to HSV with H stored in [0, 180] (half-degree
// steps), S and V scaled to [0, 255].
func RGBToHSV(src, dst Image) {
	parallel.Rows(src.Height, func(y int) {
		for x := 0; x < src.Width; x++ {
			i := (y*src.Width + x) * 3
			r := float64(src.Pix[i]) / 255
			g := float64(src.Pix[i+1]) / 255
			b := float64(src.Pix[i+2]) / 255

			maxV := math.Max(r, math.Max(g, b))
			minV := math.Min(r, math.Min(g, b))
			delta := maxV - minV

			var h float64
			switch {
			case delta == 0:
			case maxV == r:
				h = 60 * math.Mod((g-b)/delta, 6)
			case maxV == g:
				h = 60 * ((b-r)/delta + 2)
			default:
				h = 60 * ((r-g)/delta + 4)
			}
			if h < 0 {
				h += 360
			}

			var s float64
			if maxV > 0 {
				s = delta / maxV
			}

			dst.Pix[i] = byte(h / 2)
			dst.Pix[i+1] = byte(s * 255)
			dst.Pix[i+2] = byte(maxV * 255)
		}
	})
}

// HSVToRGB is the inverse of RGBToHSV.
func HSVToRGB(src, dst Image) {
	parallel.Rows(src.Height, func(y int) {
		for x := 0; x < src.Width; x++ {
			i := (y*src.Width + x) * 3
			h := float64(src.Pix[i]) * 2
			s := float64(src.Pix[i+1]) / 255
			v := float64(src.Pix[i+2]) / 255

			c := v * s
			xx := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
			m := v - c

			var r, g, b float64
			switch {
			case h < 60:
				r, g, b = c, xx, 0
			case h < 120:
				r, g, b = xx, c, 0
			case h < 180:
				r, g, b = 0, c, xx
			case h < 240:
				r, g, b = 0, xx, c
			case h < 300:
				r, g, b = xx, 0, c
			default:
				r, g, b = c, 0, xx
			}

			dst.Pix[i] = byte((r + m) * 255)
			dst.Pix[i+1] = byte((g + m) * 255)
			dst.Pix[i+2] = byte((b + m) * 255)
		}
	})
}

// RGBToYCrCb converts RGB to YCrCb using the BT.601 full-range matrix.
func RGBToYCrCb(src, dst Image) {
	parallel.Rows(src.Height, func(y int) {
		for x := 0; x < src.Width; x++ {
			i := (y*src.Width + x) * 3
			r := float32(src.Pix[i])
			g := float32(src.Pix[i+1])
			b := float32(src.Pix[i+2])

			yy := grayR*r + grayG*g + grayB*b
			cr := (r-yy)*0.713 + 128
			cb := (b-yy)*0.564 + 128

			dst.Pix[i] = clampU8(yy)
			dst.Pix[i+1] = clampU8(cr)
			dst.Pix[i+2] = clampU8(cb)
		}
	})
}

// YCrCbToRGB is the inverse of RGBToYCrCb.
func YCrCbToRGB(src, dst Image) {
	parallel.Rows(src.Height, func(y int) {
		for x := 0; x < src.Width; x++ {
			i := (y*src.Width + x) * 3
			yy := float32(src.Pix[i])
			cr := float32(src.Pix[i+1]) - 128
			cb := float32(src.Pix[i+2]) - 128

			dst.Pix[i] = clampU8(yy + 1.403*cr)
			dst.Pix[i+1] = clampU8(yy - 0.714*cr - 0.344*cb)
			dst.Pix[i+2] = clampU8(yy + 1.773*cb)
		}
	})
}
