package cv

import (
	"fmt"
	"sort"
	"sync"
)

// Canonical operation names. These are the registry keys and the
// strings accelerators see in Supports and Run.
const (
	OpThreshold    = "threshold"
	OpBoxBlur      = "box_blur"
	OpGaussianBlur = "gaussian_blur"
	OpErode        = "erode"
	OpDilate       = "dilate"
	OpMorphologyEx = "morphology_ex"
	OpCvtColor     = "cvt_color"
	OpResize       = "resize"
	OpFlip         = "flip"
	OpRotate90     = "rotate90"
	OpSobel        = "sobel"
	OpEqualizeHist = "equalize_hist"
)

// CPUFunc executes an operation on the CPU. src is never mutated; the
// result is written into dst, which arrives pre-allocated with the
// geometry the operation's params reported.
type CPUFunc func(src, dst *Mat, p Params) error

// OperationDescriptor is a registry entry: the operation's canonical
// name and its CPU implementation. The CPU path is mandatory; every
// operation must run with no accelerator present. GPU coverage is
// reported by the accelerator itself, per call.
type OperationDescriptor struct {
	Name string
	CPU  CPUFunc
}

var (
	opsMu sync.RWMutex
	ops   = make(map[string]OperationDescriptor)
)

// register adds an operation descriptor. Called from init functions;
// a duplicate name is a programming error and panics.
func register(d OperationDescriptor) {
	opsMu.Lock()
	defer opsMu.Unlock()
	if _, dup := ops[d.Name]; dup {
		panic(fmt.Sprintf("cv: operation %q registered twice", d.Name))
	}
	if d.CPU == nil {
		panic(fmt.Sprintf("cv: operation %q has no CPU implementation", d.Name))
	}
	ops[d.Name] = d
}

// lookupOp returns the descriptor for name.
func lookupOp(name string) (OperationDescriptor, error) {
	opsMu.RLock()
	d, ok := ops[name]
	opsMu.RUnlock()
	if !ok {
		return OperationDescriptor{}, fmt.Errorf("%w: %q", ErrOperationNotFound, name)
	}
	return d, nil
}

// Operations returns the sorted names of all registered operations.
func Operations() []string {
	opsMu.RLock()
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	opsMu.RUnlock()
	sort.Strings(names)
	return names
}
