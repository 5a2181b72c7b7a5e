package imgproc

import "github.com/gogpu/cv/internal/parallel"

// Convolve2D convolves src with a kw*kh row-major weight kernel and
// writes the clamped result to dst. Samples outside the image replicate
// the nearest edge pixel.
//
// The accumulation order (kernel rows outer, kernel columns inner,
// float32 sums) is the contract shared with the GPU shader; changing it
// changes the parity tolerance of every convolution-based operation.
func Convolve2D(src, dst Image, weights []float32, kw, kh int) {
	halfW := kw / 2
	halfH := kh / 2

	parallel.Rows(src.Height, func(y int) {
		for x := 0; x < src.Width; x++ {
			for ch := 0; ch < src.Channels; ch++ {
				var sum float32
				for ky := 0; ky < kh; ky++ {
					sy := clampInt(y+ky-halfH, 0, src.Height-1)
					for kx := 0; kx < kw; kx++ {
						sx := clampInt(x+kx-halfW, 0, src.Width-1)
						sum += weights[ky*kw+kx] *
							float32(src.Pix[(sy*src.Width+sx)*src.Channels+ch])
					}
				}
				dst.Pix[(y*dst.Width+x)*dst.Channels+ch] = clampU8(sum)
			}
		}
	})
}

// BoxBlur applies a normalized kw*kh box filter.
func BoxBlur(src, dst Image, kw, kh int) {
	Convolve2D(src, dst, BoxKernel2D(kw, kh), kw, kh)
}

// GaussianBlur applies a kw*kh Gaussian filter with the given sigmas.
// sigmaY <= 0 reuses sigmaX; sigmaX <= 0 derives sigma from the kernel
// size.
func GaussianBlur(src, dst Image, kw, kh int, sigmaX, sigmaY float64) {
	Convolve2D(src, dst, GaussianKernel2D(kw, kh, sigmaX, sigmaY), kw, kh)
}
