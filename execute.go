package cv

import (
	"fmt"

	"github.com/gogpu/cv/internal/imgproc"
)

// rawImage wraps a U8 Mat's storage for the CPU kernels. The view
// aliases the Mat: kernels write results through it.
func rawImage(m *Mat) imgproc.Image {
	return imgproc.Image{
		Width:    m.Width(),
		Height:   m.Height(),
		Channels: m.Channels(),
		Pix:      m.Data(),
	}
}

// Execute dispatches an operation by name. It validates the source and
// parameters, resolves a backend under the current policy, runs the
// operation, and returns a freshly allocated result.
//
// Validation failures return before any backend is engaged: no output
// buffer is allocated and no GPU work is submitted.
//
// The public per-operation functions (Threshold, GaussianBlur, ...) are
// thin wrappers over Execute; calling Execute directly is only needed
// for operations registered by external packages.
func Execute(op string, src *Mat, p Params) (*Mat, error) {
	desc, err := lookupOp(op)
	if err != nil {
		return nil, err
	}
	if err := validateSrc(src); err != nil {
		return nil, err
	}
	if err := p.Validate(src); err != nil {
		return nil, err
	}

	switch CurrentPolicy() {
	case PolicyForceCPU:
		return runCPU(desc, src, p)

	case PolicyForceGPU:
		return runGPU(desc, src, p)

	default: // PolicyAuto
		a := RegisteredAccelerator()
		if a == nil || a.Available() != nil || !a.Supports(op, src, p) {
			return runCPU(desc, src, p)
		}
		out, err := a.Run(op, src, p)
		if err != nil {
			Logger().Warn("gpu execution failed, falling back to cpu",
				"op", op, "accelerator", a.Name(), "error", err)
			return runCPU(desc, src, p)
		}
		noteResolved(BackendGPU)
		return out, nil
	}
}

func runCPU(desc OperationDescriptor, src *Mat, p Params) (*Mat, error) {
	dst := newMatFor(p.Output(src))
	if err := desc.CPU(src, dst, p); err != nil {
		return nil, err
	}
	noteResolved(BackendCPU)
	return dst, nil
}

// runGPU is the PolicyForceGPU path: every failure propagates, nothing
// falls back.
func runGPU(desc OperationDescriptor, src *Mat, p Params) (*Mat, error) {
	a := RegisteredAccelerator()
	if a == nil {
		return nil, fmt.Errorf("%w: no accelerator registered", ErrGPUUnavailable)
	}
	if err := a.Available(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGPUUnavailable, err)
	}
	if !a.Supports(desc.Name, src, p) {
		return nil, fmt.Errorf("%w: %q is not accelerated by %s", ErrGPURequired, desc.Name, a.Name())
	}
	out, err := a.Run(desc.Name, src, p)
	if err != nil {
		return nil, err
	}
	noteResolved(BackendGPU)
	return out, nil
}
