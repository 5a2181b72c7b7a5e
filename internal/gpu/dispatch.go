package gpu

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/gogpu/cv"
	"github.com/gogpu/gputypes"
)

const workgroupSize = 256

// align4 pads a byte count to a whole number of u32 words.
func align4(n int) uint64 {
	return uint64((n + 3) &^ 3)
}

// createStorageBuffer creates a storage buffer pre-filled with data.
// The size is padded to a word boundary; padding bytes are zero.
func createStorageBuffer(ctx *Context, data []byte) *wgpu.Buffer {
	size := align4(len(data))
	buffer := ctx.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	mapped := unsafe.Slice((*byte)(buffer.GetMappedRange(0, size)), size)
	copy(mapped, data)
	buffer.Unmap()
	return buffer
}

// createUniformBuffer creates a uniform buffer with the 16-byte
// alignment uniform bindings require.
func createUniformBuffer(ctx *Context, data []byte) *wgpu.Buffer {
	size := (uint64(len(data)) + 15) &^ 15
	buffer := ctx.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	mapped := unsafe.Slice((*byte)(buffer.GetMappedRange(0, size)), size)
	copy(mapped, data)
	buffer.Unmap()
	return buffer
}

// readBuffer copies a GPU buffer back to CPU memory through a staging
// buffer; storage buffers cannot be mapped directly.
func readBuffer(ctx *Context, src *wgpu.Buffer, size uint64) ([]byte, error) {
	staging := ctx.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
		Size:  size,
	})
	defer staging.Release()

	encoder := ctx.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, 0, staging, 0, size)
	ctx.queue.Submit(encoder.Finish(nil))

	if err := staging.MapAsync(ctx.device, wgpu.MapModeRead, 0, size); err != nil {
		return nil, fmt.Errorf("map staging buffer: %w", err)
	}
	defer staging.Unmap()

	mapped := unsafe.Slice((*byte)(staging.GetMappedRange(0, size)), size)
	result := make([]byte, size)
	copy(result, mapped)
	return result, nil
}

// dispatch runs one compute pass: upload src and params, bind an
// optional extra read-only storage buffer (convolution weights,
// structuring element mask), execute over the output words, and read
// the result back.
//
// The wgpu bindings panic on some device-loss conditions; the recover
// turns that into a cv.ErrGPUExecution so PolicyAuto can fall back.
func dispatch(ctx *Context, pl *wgpu.ComputePipeline, srcData, params, extra []byte, outBytes int) (result []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", cv.ErrGPUExecution, r)
		}
	}()

	srcBuf := createStorageBuffer(ctx, srcData)
	defer srcBuf.Release()

	dstSize := align4(outBytes)
	dstBuf := ctx.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
		Size:  dstSize,
	})
	defer dstBuf.Release()

	paramsBuf := createUniformBuffer(ctx, params)
	defer paramsBuf.Release()

	entries := []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, srcBuf, 0, align4(len(srcData))),
		wgpu.BufferBindingEntry(1, dstBuf, 0, dstSize),
		wgpu.BufferBindingEntry(2, paramsBuf, 0, (uint64(len(params))+15)&^15),
	}

	var extraBuf *wgpu.Buffer
	if extra != nil {
		extraBuf = createStorageBuffer(ctx, extra)
		defer extraBuf.Release()
		entries = append(entries, wgpu.BufferBindingEntry(3, extraBuf, 0, align4(len(extra))))
	}

	layout := pl.GetBindGroupLayout(0)
	bindGroup := ctx.device.CreateBindGroupSimple(layout, entries)
	defer bindGroup.Release()

	encoder := ctx.device.CreateCommandEncoder(nil)
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(pl)
	pass.SetBindGroup(0, bindGroup, nil)

	outWords := (outBytes + 3) / 4
	groups := uint32((outWords + workgroupSize - 1) / workgroupSize)
	pass.DispatchWorkgroups(groups, 1, 1)
	pass.End()

	ctx.queue.Submit(encoder.Finish(nil))

	out, err := readBuffer(ctx, dstBuf, dstSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cv.ErrGPUExecution, err)
	}
	return out[:outBytes], nil
}

// u32Bytes packs little-endian u32 values for uniform and storage
// payloads.
func u32Bytes(vals ...uint32) []byte {
	out := make([]byte, len(vals)*4)
	for i, v := range vals {
		out[i*4] = byte(v)
		out[i*4+1] = byte(v >> 8)
		out[i*4+2] = byte(v >> 16)
		out[i*4+3] = byte(v >> 24)
	}
	return out
}

// f32Bytes packs little-endian f32 values for storage payloads.
func f32Bytes(vals []float32) []byte {
	out := make([]byte, len(vals)*4)
	for i, v := range vals {
		bits := math.Float32bits(v)
		out[i*4] = byte(bits)
		out[i*4+1] = byte(bits >> 8)
		out[i*4+2] = byte(bits >> 16)
		out[i*4+3] = byte(bits >> 24)
	}
	return out
}

// maskBytes packs a structuring element mask as u32 flags.
func maskBytes(mask []bool) []byte {
	vals := make([]uint32, len(mask))
	for i, m := range mask {
		if m {
			vals[i] = 1
		}
	}
	return u32Bytes(vals...)
}
