package imgproc

import "github.com/gogpu/cv/internal/parallel"

// 3x3 Sobel taps.
var (
	sobelX = [9]int32{-1, 0, 1, -2, 0, 2, -1, 0, 1}
	sobelY = [9]int32{-1, -2, -1, 0, 0, 0, 1, 2, 1}
)

// Sobel3x3 computes the absolute Sobel response for a single-channel
// image with integer arithmetic, clamped to [0, 255]. dx/dy select the
// derivative direction; when both are set the responses are combined as
// |gx| + |gy| (the common L1 approximation of the gradient magnitude).
// Edge samples replicate the border.
func Sobel3x3(src, dst Image, dx, dy bool) {
	parallel.Rows(src.Height, func(y int) {
		for x := 0; x < src.Width; x++ {
			var gx, gy int32
			for ky := 0; ky < 3; ky++ {
				sy := clampInt(y+ky-1, 0, src.Height-1)
				for kx := 0; kx < 3; kx++ {
					sx := clampInt(x+kx-1, 0, src.Width-1)
					v := int32(src.Pix[sy*src.Width+sx])
					gx += sobelX[ky*3+kx] * v
					gy += sobelY[ky*3+kx] * v
				}
			}

			var mag int32
			if dx {
				mag += abs32(gx)
			}
			if dy {
				mag += abs32(gy)
			}
			if mag > 255 {
				mag = 255
			}
			dst.Pix[y*dst.Width+x] = byte(mag)
		}
	})
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
