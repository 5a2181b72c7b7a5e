package cv

import "errors"

// Error taxonomy for the dispatch layer. Input-validation and lookup
// errors always propagate; GPU-path errors are recovered by CPU
// fallback under PolicyAuto and propagate under PolicyForceGPU.
var (
	// ErrInvalidDimensions is returned when an input image has zero or
	// negative area. No backend is engaged.
	ErrInvalidDimensions = errors.New("cv: invalid dimensions")

	// ErrInvalidParameter is returned when operation parameters fail
	// validation, e.g. an even kernel size where an odd one is required.
	// Parameters are never silently corrected; silent rounding is a
	// known source of CPU/GPU divergence.
	ErrInvalidParameter = errors.New("cv: invalid parameter")

	// ErrUnsupported is returned when an operation cannot handle the
	// input's depth or channel count.
	ErrUnsupported = errors.New("cv: unsupported operation")

	// ErrOperationNotFound is returned when the operation name is not in
	// the registry. This is an integration error, not a runtime
	// condition to recover from.
	ErrOperationNotFound = errors.New("cv: operation not found")

	// ErrGPUUnavailable indicates the GPU context could not be created
	// on this platform. The failure is latched process-wide; it is never
	// re-probed.
	ErrGPUUnavailable = errors.New("cv: gpu unavailable")

	// ErrGPURequired is returned under PolicyForceGPU when no GPU path
	// exists for the call: no accelerator registered, context
	// unavailable, or the operation has no GPU implementation.
	ErrGPURequired = errors.New("cv: gpu required but unavailable")

	// ErrShaderCompile indicates a compute shader failed to compile.
	// Under PolicyAuto this triggers CPU fallback for that call only.
	ErrShaderCompile = errors.New("cv: shader compile failed")

	// ErrGPUExecution indicates a failure during buffer staging,
	// dispatch or readback. Under PolicyAuto this triggers CPU fallback
	// for that call only.
	ErrGPUExecution = errors.New("cv: gpu execution failed")

	// ErrNotAccelerated is returned by an accelerator when the specific
	// call (parameter combination) is outside its GPU coverage. The
	// selector falls back to CPU transparently.
	ErrNotAccelerated = errors.New("cv: operation not accelerated")
)
