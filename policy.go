package cv

import "sync/atomic"

// Policy selects which backend executes operations.
type Policy int32

const (
	// PolicyAuto prefers the GPU when an accelerator is registered and
	// usable, and falls back to the CPU per call on any GPU failure.
	PolicyAuto Policy = iota

	// PolicyForceCPU never touches the GPU, even when one is available.
	PolicyForceCPU

	// PolicyForceGPU requires the GPU. Any GPU failure, including an
	// operation the accelerator does not cover, is returned to the
	// caller instead of falling back.
	PolicyForceGPU
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case PolicyAuto:
		return "auto"
	case PolicyForceCPU:
		return "force-cpu"
	case PolicyForceGPU:
		return "force-gpu"
	default:
		return "unknown"
	}
}

// Backend identifies which executor produced a result.
type Backend int32

const (
	// BackendNone means no operation has resolved yet.
	BackendNone Backend = iota
	// BackendCPU is the portable software path.
	BackendCPU
	// BackendGPU is the compute-shader path.
	BackendGPU
)

// String returns the backend name.
func (b Backend) String() string {
	switch b {
	case BackendCPU:
		return "cpu"
	case BackendGPU:
		return "gpu"
	default:
		return "none"
	}
}

var (
	policy       atomic.Int32
	lastResolved atomic.Int32
)

// SetPolicy changes the backend policy. Safe for concurrent use; the
// new policy applies to calls that start after it is stored. It does
// not release GPU resources already created.
func SetPolicy(p Policy) {
	policy.Store(int32(p))
}

// CurrentPolicy returns the active backend policy.
func CurrentPolicy() Policy {
	return Policy(policy.Load())
}

// LastResolvedBackend reports which backend the most recent operation
// ran on. Diagnostic only: under concurrency it reflects some recent
// call, not necessarily the caller's own.
func LastResolvedBackend() Backend {
	return Backend(lastResolved.Load())
}

func noteResolved(b Backend) {
	lastResolved.Store(int32(b))
}
