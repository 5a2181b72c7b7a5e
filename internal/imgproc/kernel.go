package imgproc

import (
	"math"

	"github.com/gogpu/cv/internal/cache"
)

type kernelKey struct {
	size  int
	sigma float64
}

// kernelCache memoizes normalized 1D Gaussian kernels. Kernels are tiny
// but the exp/normalize loop shows up in profiles when blurring frame
// sequences with the same parameters.
var kernelCache = cache.New[kernelKey, []float32](64, nil)

// GaussianKernel1D returns a normalized 1D Gaussian kernel of the given
// odd size. A sigma <= 0 derives sigma from the kernel size the way
// OpenCV does.
func GaussianKernel1D(size int, sigma float64) []float32 {
	if sigma <= 0 {
		sigma = 0.3*((float64(size)-1)*0.5-1) + 0.8
	}
	k, _ := kernelCache.GetOrCreate(kernelKey{size: size, sigma: sigma}, func() ([]float32, error) {
		half := size / 2
		kernel := make([]float32, size)
		sum := 0.0
		for i := -half; i <= half; i++ {
			x := float64(i)
			v := math.Exp(-x * x / (2 * sigma * sigma))
			kernel[i+half] = float32(v)
			sum += v
		}
		s := float32(sum)
		for i := range kernel {
			kernel[i] /= s
		}
		return kernel, nil
	})
	// Copy out: callers must not share cache-owned storage.
	out := make([]float32, len(k))
	copy(out, k)
	return out
}

// GaussianKernel2D returns the outer product of the 1D kernels for the
// given width/height and sigmas, in row-major order. Both backends
// consume this exact weight layout so their accumulation order matches.
func GaussianKernel2D(kw, kh int, sigmaX, sigmaY float64) []float32 {
	if sigmaY <= 0 {
		sigmaY = sigmaX
	}
	kx := GaussianKernel1D(kw, sigmaX)
	ky := GaussianKernel1D(kh, sigmaY)
	out := make([]float32, kw*kh)
	for y := 0; y < kh; y++ {
		for x := 0; x < kw; x++ {
			out[y*kw+x] = ky[y] * kx[x]
		}
	}
	return out
}

// BoxKernel2D returns a uniform normalized kernel.
func BoxKernel2D(kw, kh int) []float32 {
	w := float32(1) / float32(kw*kh)
	out := make([]float32, kw*kh)
	for i := range out {
		out[i] = w
	}
	return out
}
