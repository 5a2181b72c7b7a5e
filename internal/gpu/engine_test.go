package gpu

import (
	"strings"
	"testing"

	"github.com/gogpu/cv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u8Mat(t *testing.T, w, h, ch int) *cv.Mat {
	t.Helper()
	m, err := cv.NewMat(w, h, ch, cv.U8)
	require.NoError(t, err)
	return m
}

func TestEngineName(t *testing.T) {
	assert.Equal(t, "wgpu", NewEngine().Name())
}

func TestEngineSupports(t *testing.T) {
	e := NewEngine()
	gray := u8Mat(t, 8, 8, 1)
	rgb := u8Mat(t, 8, 8, 3)

	f32, err := cv.NewMat(8, 8, 1, cv.F32)
	require.NoError(t, err)

	tests := []struct {
		name string
		op   string
		src  *cv.Mat
		p    cv.Params
		want bool
	}{
		{"threshold u8", cv.OpThreshold, gray, cv.ThresholdParams{Thresh: 128, MaxVal: 255}, true},
		{"threshold f32", cv.OpThreshold, f32, cv.ThresholdParams{Thresh: 128, MaxVal: 255}, false},
		{"box blur", cv.OpBoxBlur, rgb, cv.BoxBlurParams{KernelSize: cv.Size{Width: 3, Height: 3}}, true},
		{"gaussian blur", cv.OpGaussianBlur, rgb, cv.GaussianBlurParams{KernelSize: cv.Size{Width: 3, Height: 3}}, true},
		{"erode", cv.OpErode, gray, cv.MorphParams{KernelSize: cv.Size{Width: 3, Height: 3}}, true},
		{"dilate", cv.OpDilate, gray, cv.MorphParams{KernelSize: cv.Size{Width: 3, Height: 3}}, true},
		{"resize", cv.OpResize, rgb, cv.ResizeParams{Target: cv.Size{Width: 4, Height: 4}}, true},
		{"gray from rgb", cv.OpCvtColor, rgb, cv.CvtColorParams{Code: cv.ColorRGBToGray}, true},
		{"gray from bgr", cv.OpCvtColor, rgb, cv.CvtColorParams{Code: cv.ColorBGRToGray}, true},
		{"hsv stays on cpu", cv.OpCvtColor, rgb, cv.CvtColorParams{Code: cv.ColorRGBToHSV}, false},
		{"swap stays on cpu", cv.OpCvtColor, rgb, cv.CvtColorParams{Code: cv.ColorRGBToBGR}, false},
		{"sobel stays on cpu", cv.OpSobel, gray, cv.SobelParams{DX: true}, false},
		{"equalize stays on cpu", cv.OpEqualizeHist, gray, cv.EqualizeHistParams{}, false},
		{"flip stays on cpu", cv.OpFlip, rgb, cv.FlipParams{Code: cv.FlipVertical}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Supports(tt.op, tt.src, tt.p))
		})
	}
}

func TestThresholdRuleName(t *testing.T) {
	tests := []struct {
		typ  cv.ThresholdType
		want string
	}{
		{cv.ThreshBinary, "binary"},
		{cv.ThreshBinaryInv, "binary_inv"},
		{cv.ThreshTrunc, "trunc"},
		{cv.ThreshToZero, "tozero"},
		{cv.ThreshToZeroInv, "tozero_inv"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, thresholdRuleName(tt.typ))
	}
}

func TestStructuringMask(t *testing.T) {
	rect := structuringMask(cv.MorphParams{Shape: cv.MorphRect, KernelSize: cv.Size{Width: 3, Height: 3}})
	require.Len(t, rect, 9)
	for i, on := range rect {
		assert.True(t, on, "rect element %d", i)
	}

	cross := structuringMask(cv.MorphParams{Shape: cv.MorphCross, KernelSize: cv.Size{Width: 3, Height: 3}})
	require.Len(t, cross, 9)
	want := []bool{false, true, false, true, true, true, false, true, false}
	assert.Equal(t, want, cross)
}

func TestU32Bytes(t *testing.T) {
	got := u32Bytes(1, 0x01020304)
	want := []byte{1, 0, 0, 0, 4, 3, 2, 1}
	assert.Equal(t, want, got)
}

func TestF32Bytes(t *testing.T) {
	// 1.0f is 0x3f800000 little-endian.
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, f32Bytes([]float32{1}))
}

func TestMaskBytes(t *testing.T) {
	got := maskBytes([]bool{true, false, true})
	assert.Equal(t, u32Bytes(1, 0, 1), got)
}

func TestAlign4(t *testing.T) {
	tests := []struct {
		in   int
		want uint64
	}{
		{0, 0}, {1, 4}, {4, 4}, {5, 8}, {9, 12},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, align4(tt.in))
	}
}

// requireGPU skips tests that need a live adapter. CI machines
// typically have none; dev boxes with a GPU get the full run.
func requireGPU(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine()
	if err := e.Available(); err != nil {
		t.Skipf("no gpu adapter: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestEngineAvailableLatches(t *testing.T) {
	e := requireGPU(t)
	// Second probe must reuse the latched context.
	require.NoError(t, e.Available())
}

func TestEngineRunThreshold(t *testing.T) {
	e := requireGPU(t)

	src := u8Mat(t, 4, 1, 1)
	for x, v := range []uint8{0, 127, 128, 255} {
		src.Set(x, 0, 0, v)
	}

	p := cv.ThresholdParams{Thresh: 127, MaxVal: 255, Type: cv.ThreshBinary}
	dst, err := e.Run(cv.OpThreshold, src, p)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 255, 255}, dst.Data())
}

func TestEngineUniformsDoNotRecompile(t *testing.T) {
	e := requireGPU(t)

	src := u8Mat(t, 16, 16, 1)
	_, err := e.Run(cv.OpGaussianBlur, src, cv.GaussianBlurParams{
		KernelSize: cv.Size{Width: 3, Height: 3}, SigmaX: 1.0,
	})
	require.NoError(t, err)
	after := e.PipelineCompileCount()

	// Different sigma, different kernel size: both travel in uniforms
	// and storage, so the cached convolve pipeline is reused.
	_, err = e.Run(cv.OpGaussianBlur, src, cv.GaussianBlurParams{
		KernelSize: cv.Size{Width: 5, Height: 5}, SigmaX: 2.5,
	})
	require.NoError(t, err)
	assert.Equal(t, after, e.PipelineCompileCount())

	_, err = e.Run(cv.OpBoxBlur, src, cv.BoxBlurParams{KernelSize: cv.Size{Width: 7, Height: 7}})
	require.NoError(t, err)
	assert.Equal(t, after, e.PipelineCompileCount())
}

func TestEngineMorphExtentsRecompile(t *testing.T) {
	e := requireGPU(t)

	src := u8Mat(t, 16, 16, 1)
	_, err := e.Run(cv.OpErode, src, cv.MorphParams{KernelSize: cv.Size{Width: 3, Height: 3}})
	require.NoError(t, err)
	after := e.PipelineCompileCount()

	// Element shape travels in a storage buffer, extents are baked into
	// the WGSL: same extents reuse the pipeline, new extents compile.
	_, err = e.Run(cv.OpErode, src, cv.MorphParams{Shape: cv.MorphCross, KernelSize: cv.Size{Width: 3, Height: 3}})
	require.NoError(t, err)
	assert.Equal(t, after, e.PipelineCompileCount())

	_, err = e.Run(cv.OpErode, src, cv.MorphParams{KernelSize: cv.Size{Width: 5, Height: 5}})
	require.NoError(t, err)
	assert.Equal(t, after+1, e.PipelineCompileCount())
}

func TestEngineRunUnknownOp(t *testing.T) {
	e := requireGPU(t)
	src := u8Mat(t, 2, 2, 1)
	_, err := e.Run("no_such_op", src, cv.ThresholdParams{Thresh: 1, MaxVal: 255})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no_such_op"))
}
