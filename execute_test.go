package cv

import (
	"bytes"
	"errors"
	"testing"
)

// fakeAccel is a scriptable accelerator for dispatch tests. It never
// touches real hardware.
type fakeAccel struct {
	availableErr  error
	supported     map[string]bool
	runErr        error
	runResult     func(src *Mat, p Params) *Mat
	availCalls    int
	runCalls      int
	supportsCalls int
}

func (f *fakeAccel) Name() string { return "fake" }

func (f *fakeAccel) Available() error {
	f.availCalls++
	return f.availableErr
}

func (f *fakeAccel) Supports(op string, src *Mat, p Params) bool {
	f.supportsCalls++
	return f.supported[op]
}

func (f *fakeAccel) Run(op string, src *Mat, p Params) (*Mat, error) {
	f.runCalls++
	if f.runErr != nil {
		return nil, f.runErr
	}
	return f.runResult(src, p), nil
}

func (f *fakeAccel) Close() error { return nil }

// withAccel installs a throwaway accelerator and restores the previous
// state when the test ends.
func withAccel(t *testing.T, a Accelerator) {
	t.Helper()
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	t.Cleanup(func() {
		accelMu.Lock()
		accel = old
		accelMu.Unlock()
	})
}

func gradientMat(t *testing.T, w, h int) *Mat {
	t.Helper()
	m, err := NewMat(w, h, 1, U8)
	if err != nil {
		t.Fatal(err)
	}
	d := m.Data()
	for i := range d {
		d[i] = byte(i * 31)
	}
	return m
}

func TestExecuteNilSource(t *testing.T) {
	_, err := Threshold(nil, 128, 255, ThreshBinary)
	if !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("err = %v, want ErrInvalidDimensions", err)
	}
}

func TestThresholdValues(t *testing.T) {
	// Pixels exactly at the threshold are "not above".
	src, _ := FromRawBytes([]byte{0, 127, 128, 255}, 4, 1, 1, U8)

	out, err := Threshold(src, 127, 255, ThreshBinary)
	if err != nil {
		t.Fatal(err)
	}

	want := []byte{0, 0, 255, 255}
	if !bytes.Equal(out.Data(), want) {
		t.Errorf("threshold = %v, want %v", out.Data(), want)
	}
}

func TestExecuteDoesNotMutateSource(t *testing.T) {
	src := gradientMat(t, 8, 8)
	before := src.ToRawBytes()

	if _, err := GaussianBlur(src, Sz(5, 5), 0, 0); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(src.Data(), before) {
		t.Error("source mutated by operation")
	}
}

func TestExecuteDeterministic(t *testing.T) {
	src := gradientMat(t, 33, 17)

	a, err := GaussianBlur(src, Sz(7, 7), 1.4, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GaussianBlur(src, Sz(7, 7), 1.4, 0)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(a.Data(), b.Data()) {
		t.Error("repeated runs differ")
	}
}

func TestForceGPUWithoutAccelerator(t *testing.T) {
	withAccel(t, nil)
	SetPolicy(PolicyForceGPU)
	defer SetPolicy(PolicyAuto)

	src := gradientMat(t, 4, 4)
	_, err := Threshold(src, 128, 255, ThreshBinary)
	if !errors.Is(err, ErrGPUUnavailable) {
		t.Errorf("err = %v, want ErrGPUUnavailable", err)
	}
}

func TestForceGPUUnavailableContext(t *testing.T) {
	fa := &fakeAccel{availableErr: errors.New("no adapter")}
	withAccel(t, fa)
	SetPolicy(PolicyForceGPU)
	defer SetPolicy(PolicyAuto)

	src := gradientMat(t, 4, 4)
	_, err := Threshold(src, 128, 255, ThreshBinary)
	if !errors.Is(err, ErrGPUUnavailable) {
		t.Errorf("err = %v, want ErrGPUUnavailable", err)
	}
	if fa.runCalls != 0 {
		t.Error("Run called despite unavailable context")
	}
}

func TestForceGPUOnUncoveredOp(t *testing.T) {
	// An operation the accelerator does not cover must fail under
	// PolicyForceGPU rather than silently running on the CPU.
	fa := &fakeAccel{supported: map[string]bool{}}
	withAccel(t, fa)
	SetPolicy(PolicyForceGPU)
	defer SetPolicy(PolicyAuto)

	src := gradientMat(t, 4, 4)
	_, err := Sobel(src, true, true)
	if !errors.Is(err, ErrGPURequired) {
		t.Errorf("err = %v, want ErrGPURequired", err)
	}
}

func TestForceCPUNeverTouchesAccelerator(t *testing.T) {
	fa := &fakeAccel{supported: map[string]bool{OpThreshold: true}}
	withAccel(t, fa)
	SetPolicy(PolicyForceCPU)
	defer SetPolicy(PolicyAuto)

	src := gradientMat(t, 4, 4)
	if _, err := Threshold(src, 128, 255, ThreshBinary); err != nil {
		t.Fatal(err)
	}

	if fa.availCalls != 0 || fa.supportsCalls != 0 || fa.runCalls != 0 {
		t.Errorf("accelerator touched under PolicyForceCPU: avail=%d supports=%d run=%d",
			fa.availCalls, fa.supportsCalls, fa.runCalls)
	}
	if LastResolvedBackend() != BackendCPU {
		t.Errorf("resolved backend = %v, want cpu", LastResolvedBackend())
	}
}

func TestAutoUsesAcceleratorResult(t *testing.T) {
	marker, _ := NewMat(4, 4, 1, U8)
	marker.Fill(42)

	fa := &fakeAccel{
		supported: map[string]bool{OpThreshold: true},
		runResult: func(src *Mat, p Params) *Mat { return marker },
	}
	withAccel(t, fa)
	SetPolicy(PolicyAuto)

	src := gradientMat(t, 4, 4)
	out, err := Threshold(src, 128, 255, ThreshBinary)
	if err != nil {
		t.Fatal(err)
	}
	if out != marker {
		t.Error("accelerator result not returned")
	}
	if LastResolvedBackend() != BackendGPU {
		t.Errorf("resolved backend = %v, want gpu", LastResolvedBackend())
	}
}

func TestAutoFallsBackOnRunError(t *testing.T) {
	// A failing accelerator must not surface its error under
	// PolicyAuto; the result must match a pure CPU run exactly.
	src := gradientMat(t, 16, 16)

	SetPolicy(PolicyForceCPU)
	want, err := BoxBlur(src, Sz(3, 3))
	if err != nil {
		t.Fatal(err)
	}

	fa := &fakeAccel{
		supported: map[string]bool{OpBoxBlur: true},
		runErr:    errors.New("device lost"),
	}
	withAccel(t, fa)
	SetPolicy(PolicyAuto)
	defer SetPolicy(PolicyAuto)

	got, err := BoxBlur(src, Sz(3, 3))
	if err != nil {
		t.Fatalf("fallback surfaced error: %v", err)
	}
	if fa.runCalls != 1 {
		t.Errorf("runCalls = %d, want 1", fa.runCalls)
	}
	if !bytes.Equal(got.Data(), want.Data()) {
		t.Error("fallback output differs from CPU output")
	}
	if LastResolvedBackend() != BackendCPU {
		t.Errorf("resolved backend = %v, want cpu", LastResolvedBackend())
	}
}

func TestAutoSkipsUnavailableAccelerator(t *testing.T) {
	fa := &fakeAccel{
		availableErr: errors.New("no adapter"),
		supported:    map[string]bool{OpThreshold: true},
	}
	withAccel(t, fa)
	SetPolicy(PolicyAuto)

	src := gradientMat(t, 4, 4)
	if _, err := Threshold(src, 128, 255, ThreshBinary); err != nil {
		t.Fatal(err)
	}
	if fa.runCalls != 0 {
		t.Error("Run called on unavailable accelerator")
	}
}

func TestValidationRunsBeforeBackendSelection(t *testing.T) {
	fa := &fakeAccel{supported: map[string]bool{OpGaussianBlur: true}}
	withAccel(t, fa)
	SetPolicy(PolicyForceGPU)
	defer SetPolicy(PolicyAuto)

	src := gradientMat(t, 4, 4)
	_, err := GaussianBlur(src, Sz(4, 4), 0, 0) // even kernel
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("err = %v, want ErrInvalidParameter", err)
	}
	if fa.availCalls != 0 {
		t.Error("backend engaged before validation")
	}
}

func TestInvalidParamsNeverCorrected(t *testing.T) {
	src := gradientMat(t, 8, 8)

	tests := []struct {
		name string
		call func() (*Mat, error)
		want error
	}{
		{"even box kernel", func() (*Mat, error) { return BoxBlur(src, Sz(2, 2)) }, ErrInvalidParameter},
		{"zero gaussian kernel", func() (*Mat, error) { return GaussianBlur(src, Sz(0, 3), 0, 0) }, ErrInvalidParameter},
		{"negative resize", func() (*Mat, error) { return Resize(src, Sz(-1, 4), InterpLinear) }, ErrInvalidDimensions},
		{"thresh out of range", func() (*Mat, error) { return Threshold(src, 300, 255, ThreshBinary) }, ErrInvalidParameter},
		{"sobel no direction", func() (*Mat, error) { return Sobel(src, false, false) }, ErrInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.call()
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if out != nil {
				t.Error("output allocated despite validation error")
			}
		})
	}
}

func TestUnsupportedFormat(t *testing.T) {
	rgb, _ := NewMat(4, 4, 3, U8)
	if _, err := Sobel(rgb, true, false); !errors.Is(err, ErrUnsupported) {
		t.Errorf("sobel on rgb: err = %v, want ErrUnsupported", err)
	}
	if _, err := EqualizeHist(rgb); !errors.Is(err, ErrUnsupported) {
		t.Errorf("equalize on rgb: err = %v, want ErrUnsupported", err)
	}

	f32, _ := NewMat(4, 4, 1, F32)
	if _, err := Threshold(f32, 128, 255, ThreshBinary); !errors.Is(err, ErrUnsupported) {
		t.Errorf("threshold on f32: err = %v, want ErrUnsupported", err)
	}
}

func TestOutputGeometry(t *testing.T) {
	src, _ := NewMat(6, 4, 3, U8)

	gray, err := CvtColor(src, ColorRGBToGray)
	if err != nil {
		t.Fatal(err)
	}
	if gray.Channels() != 1 || gray.Width() != 6 || gray.Height() != 4 {
		t.Errorf("gray geometry = %+v", gray.Geometry())
	}

	small, err := Resize(src, Sz(3, 2), InterpNearest)
	if err != nil {
		t.Fatal(err)
	}
	if small.Width() != 3 || small.Height() != 2 || small.Channels() != 3 {
		t.Errorf("resize geometry = %+v", small.Geometry())
	}

	rot, err := Rotate(src, Rotate90Clockwise)
	if err != nil {
		t.Fatal(err)
	}
	if rot.Width() != 4 || rot.Height() != 6 {
		t.Errorf("rotate geometry = %+v", rot.Geometry())
	}
}

func TestMorphologyExSmoke(t *testing.T) {
	src := gradientMat(t, 12, 12)

	for _, op := range []MorphOp{MorphOpen, MorphClose, MorphGradient, MorphTopHat, MorphBlackHat} {
		out, err := MorphologyEx(src, op, MorphRect, Sz(3, 3))
		if err != nil {
			t.Fatalf("op %d: %v", op, err)
		}
		if out.Geometry() != src.Geometry() {
			t.Errorf("op %d changed geometry", op)
		}
	}
}

func TestFlipRoundTrip(t *testing.T) {
	src := gradientMat(t, 7, 5)

	once, err := Flip(src, FlipHorizontal)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Flip(once, FlipHorizontal)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(twice.Data(), src.Data()) {
		t.Error("double flip is not identity")
	}
}
