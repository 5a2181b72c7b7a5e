//go:build !nogpu

package gpu

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/cv"
)

// The accelerated ops must agree with the CPU reference. Exact for
// pointwise and rank ops; one level of tolerance where float rounding
// order differs between WGSL and Go.
func requireAdapter(t *testing.T) {
	t.Helper()
	if !cv.GPUAvailable() {
		t.Skip("no gpu adapter")
	}
}

func noiseMat(t *testing.T, w, h, ch int, seed int64) *cv.Mat {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	data := make([]byte, w*h*ch)
	for i := range data {
		data[i] = byte(rng.Intn(256))
	}
	m, err := cv.FromRawBytes(data, w, h, ch, cv.U8)
	require.NoError(t, err)
	return m
}

func withPolicy(t *testing.T, p cv.Policy) {
	t.Helper()
	old := cv.CurrentPolicy()
	cv.SetPolicy(p)
	t.Cleanup(func() { cv.SetPolicy(old) })
}

func runBoth(t *testing.T, src *cv.Mat, f func(*cv.Mat) (*cv.Mat, error)) (cpu, gpu *cv.Mat) {
	t.Helper()

	withPolicy(t, cv.PolicyForceCPU)
	cpu, err := f(src)
	require.NoError(t, err)

	cv.SetPolicy(cv.PolicyForceGPU)
	gpu, err = f(src)
	require.NoError(t, err)
	require.Equal(t, cv.BackendGPU, cv.LastResolvedBackend())

	return cpu, gpu
}

func requireWithin(t *testing.T, cpu, gpu *cv.Mat, tol int) {
	t.Helper()
	a, b := cpu.Data(), gpu.Data()
	require.Equal(t, len(a), len(b))
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}
		if d > tol {
			t.Fatalf("byte %d: cpu=%d gpu=%d (tolerance %d)", i, a[i], b[i], tol)
		}
	}
}

func TestParityThreshold(t *testing.T) {
	requireAdapter(t)
	src := noiseMat(t, 64, 48, 1, 1)

	for _, typ := range []cv.ThresholdType{
		cv.ThreshBinary, cv.ThreshBinaryInv, cv.ThreshTrunc, cv.ThreshToZero, cv.ThreshToZeroInv,
	} {
		cpu, gpu := runBoth(t, src, func(m *cv.Mat) (*cv.Mat, error) {
			return cv.Threshold(m, 100, 255, typ)
		})
		requireWithin(t, cpu, gpu, 0)
	}
}

func TestParityBoxBlur(t *testing.T) {
	requireAdapter(t)
	src := noiseMat(t, 64, 48, 3, 2)
	cpu, gpu := runBoth(t, src, func(m *cv.Mat) (*cv.Mat, error) {
		return cv.BoxBlur(m, cv.Sz(5, 5))
	})
	requireWithin(t, cpu, gpu, 1)
}

func TestParityGaussianBlur(t *testing.T) {
	requireAdapter(t)
	src := noiseMat(t, 64, 48, 3, 3)
	cpu, gpu := runBoth(t, src, func(m *cv.Mat) (*cv.Mat, error) {
		return cv.GaussianBlur(m, cv.Sz(5, 5), 1.4, 0)
	})
	requireWithin(t, cpu, gpu, 1)
}

func TestParityMorphology(t *testing.T) {
	requireAdapter(t)
	src := noiseMat(t, 64, 48, 1, 4)

	for _, shape := range []cv.MorphShape{cv.MorphRect, cv.MorphCross, cv.MorphEllipse} {
		cpu, gpu := runBoth(t, src, func(m *cv.Mat) (*cv.Mat, error) {
			return cv.Erode(m, shape, cv.Sz(3, 3))
		})
		requireWithin(t, cpu, gpu, 0)

		cpu, gpu = runBoth(t, src, func(m *cv.Mat) (*cv.Mat, error) {
			return cv.Dilate(m, shape, cv.Sz(5, 3))
		})
		requireWithin(t, cpu, gpu, 0)
	}
}

func TestParityGray(t *testing.T) {
	requireAdapter(t)

	rgb := noiseMat(t, 64, 48, 3, 5)
	cpu, gpu := runBoth(t, rgb, func(m *cv.Mat) (*cv.Mat, error) {
		return cv.CvtColor(m, cv.ColorRGBToGray)
	})
	requireWithin(t, cpu, gpu, 0)

	rgba := noiseMat(t, 64, 48, 4, 6)
	cpu, gpu = runBoth(t, rgba, func(m *cv.Mat) (*cv.Mat, error) {
		return cv.CvtColor(m, cv.ColorRGBAToGray)
	})
	requireWithin(t, cpu, gpu, 0)
}

func TestParityResize(t *testing.T) {
	requireAdapter(t)
	src := noiseMat(t, 64, 48, 3, 7)

	cpu, gpu := runBoth(t, src, func(m *cv.Mat) (*cv.Mat, error) {
		return cv.Resize(m, cv.Sz(33, 21), cv.InterpNearest)
	})
	requireWithin(t, cpu, gpu, 0)

	cpu, gpu = runBoth(t, src, func(m *cv.Mat) (*cv.Mat, error) {
		return cv.Resize(m, cv.Sz(100, 90), cv.InterpLinear)
	})
	requireWithin(t, cpu, gpu, 1)
}

func TestAutoPrefersGPU(t *testing.T) {
	requireAdapter(t)
	withPolicy(t, cv.PolicyAuto)

	src := noiseMat(t, 32, 32, 1, 8)
	_, err := cv.Threshold(src, 128, 255, cv.ThreshBinary)
	require.NoError(t, err)
	require.Equal(t, cv.BackendGPU, cv.LastResolvedBackend())
}
