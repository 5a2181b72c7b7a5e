// Package cv provides image processing operations with CPU and GPU
// execution backends.
//
// # Overview
//
// cv implements a compact subset of classical image processing:
// thresholding, blurring, morphology, color conversion, geometric
// transforms, edge detection and histogram equalization. Every
// operation has a portable CPU implementation; a subset additionally
// runs as WebGPU compute shaders.
//
// # Quick Start
//
//	import "github.com/gogpu/cv"
//
//	src, _ := cv.FromRawBytes(pixels, w, h, 3, cv.U8)
//
//	gray, err := cv.CvtColor(src, cv.ColorRGBToGray)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	blurred, _ := cv.GaussianBlur(gray, cv.Sz(5, 5), 0, 0)
//	edges, _ := cv.Threshold(blurred, 128, 255, cv.ThreshBinary)
//
// # Backends
//
// By default everything runs on the CPU. GPU execution is opt-in via
// blank import:
//
//	import _ "github.com/gogpu/cv/gpu" // registers the wgpu accelerator
//
// With the accelerator registered, operations under the default
// [PolicyAuto] try the GPU first and transparently fall back to the
// CPU per call on any GPU failure. [SetPolicy] pins a backend:
// [PolicyForceCPU] never touches the GPU, [PolicyForceGPU] turns every
// GPU failure into a caller-visible error.
//
// The GPU context is created lazily on the first operation that
// resolves to it, never at import or registration time. A process that
// only ever runs CPU work pays no GPU startup cost.
//
// Both backends produce byte-identical output for exact operations
// (threshold, erode, dilate) and stay within one 8-bit step for the
// float-accumulating ones. A program must not need to know which
// backend ran to interpret its results.
//
// # Memory Model
//
// Operations never mutate their input and always return a freshly
// allocated [Mat]. Inputs can be shared across goroutines freely.
//
// # Logging
//
// cv is silent by default. [SetLogger] installs a [log/slog.Logger]
// for diagnostics such as per-call CPU fallbacks and GPU adapter
// selection.
package cv
