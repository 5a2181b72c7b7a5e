//go:build !nogpu

// Package gpu registers the WebGPU compute accelerator.
//
// Import it for its side effect:
//
//	import _ "github.com/gogpu/cv/gpu"
//
// Registration is cheap: no adapter is probed and no native library is
// loaded until the first operation runs under PolicyAuto or
// PolicyForceGPU (or until cv.GPUAvailable is called). Machines without
// a Vulkan/Metal/DX12 adapter keep working; every call falls back to
// the CPU path under PolicyAuto.
//
// Build with -tags nogpu to compile the module without any native GPU
// dependency.
package gpu

import (
	"github.com/gogpu/cv"
	gpuimpl "github.com/gogpu/cv/internal/gpu"
)

func init() {
	if err := cv.RegisterAccelerator(gpuimpl.NewEngine()); err != nil {
		cv.Logger().Warn("gpu accelerator registration failed", "err", err)
	}
}
