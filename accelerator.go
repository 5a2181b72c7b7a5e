package cv

import (
	"errors"
	"sync"
)

// Accelerator is an optional GPU execution provider.
//
// When registered via RegisterAccelerator, operations dispatched under
// PolicyAuto try the accelerator first and fall back to the CPU on any
// error. Under PolicyForceGPU errors propagate to the caller instead.
//
// Implementations live in GPU backend packages. Users opt in via blank
// import:
//
//	import _ "github.com/gogpu/cv/gpu" // enables GPU execution
type Accelerator interface {
	// Name returns the accelerator name (e.g., "wgpu").
	Name() string

	// Available reports whether the GPU context is usable, creating it
	// on first call. The result is latched: once initialization fails
	// it keeps returning the same error without re-probing, and once it
	// succeeds the context lives for the life of the process.
	//
	// Registration never calls Available; the first dispatched
	// operation does. A machine with no GPU pays the probe cost once.
	Available() error

	// Supports reports whether the accelerator covers this exact call:
	// the operation, its parameters, and the source format. A fast
	// check with no GPU work.
	Supports(op string, src *Mat, p Params) bool

	// Run executes the operation and returns a freshly allocated
	// result. Run is only called after Supports returned true.
	Run(op string, src *Mat, p Params) (*Mat, error)

	// Close releases GPU resources. Subsequent Available calls report
	// the accelerator unusable.
	Close() error
}

var (
	accelMu sync.RWMutex
	accel   Accelerator
)

// RegisterAccelerator registers a GPU accelerator.
//
// Only one accelerator can be registered; subsequent calls replace the
// previous one. Registration is cheap and never touches GPU hardware:
// the accelerator initializes lazily on the first operation that
// resolves to it.
//
// Typical usage via init in GPU backend packages:
//
//	func init() {
//	    cv.RegisterAccelerator(wgpu.NewEngine())
//	}
func RegisterAccelerator(a Accelerator) error {
	if a == nil {
		return errors.New("cv: accelerator must not be nil")
	}
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	propagateLogger(a, Logger())
	if old != nil {
		old.Close()
	}
	return nil
}

// RegisteredAccelerator returns the registered accelerator, or nil.
func RegisteredAccelerator() Accelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// GPUAvailable reports whether GPU execution is possible right now:
// an accelerator is registered and its context initializes (or has
// already initialized). Calling it triggers the lazy probe.
func GPUAvailable() bool {
	a := RegisteredAccelerator()
	return a != nil && a.Available() == nil
}
