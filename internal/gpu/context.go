// Package gpu implements the WebGPU compute accelerator.
//
// The package owns the GPU context (instance, adapter, device, queue),
// the compute pipeline cache, and the WGSL shaders. It is wired into
// the public API by the gpu wiring package via cv.RegisterAccelerator;
// nothing here runs unless an operation resolves to the GPU backend.
package gpu

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/gogpu/gputypes"
)

// Context holds the process-wide GPU handles. Creation is expensive
// (native library load, adapter negotiation), so a Context is created
// at most once and lives until Close.
type Context struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	adapterName string
}

// newContext creates the GPU context. A missing native library makes
// the wgpu bindings panic, so the whole sequence runs under recover
// and reports the panic as an ordinary error.
func newContext(log *slog.Logger) (ctx *Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			ctx = nil
			err = fmt.Errorf("wgpu native library not available: %v", r)
		}
	}()

	if err := wgpu.Init(); err != nil {
		return nil, fmt.Errorf("wgpu init: %w", err)
	}

	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("instance creation failed: %w", err)
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("no usable adapter: %w", err)
	}

	name := "unknown"
	if info, infoErr := adapter.GetInfo(); infoErr == nil {
		name = fmt.Sprintf("%s (%s)", info.Device, info.Vendor)
	}

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("device creation failed: %w", err)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("queue retrieval failed")
	}

	log.Info("gpu adapter selected", "adapter", name)

	return &Context{
		instance:    instance,
		adapter:     adapter,
		device:      device,
		queue:       queue,
		adapterName: name,
	}, nil
}

// AdapterName returns a human-readable adapter description.
func (c *Context) AdapterName() string { return c.adapterName }

// close releases the GPU handles in reverse creation order.
func (c *Context) close() {
	if c.queue != nil {
		c.queue.Release()
		c.queue = nil
	}
	if c.device != nil {
		c.device.Release()
		c.device = nil
	}
	if c.adapter != nil {
		c.adapter.Release()
		c.adapter = nil
	}
	if c.instance != nil {
		c.instance.Release()
		c.instance = nil
	}
}

// lazyContext latches the one-time context creation. The first caller
// pays the probe cost; every later caller gets the same context or the
// same error without touching the hardware again.
type lazyContext struct {
	once sync.Once
	ctx  *Context
	err  error

	mu     sync.Mutex
	closed bool
}

func (l *lazyContext) get(log *slog.Logger) (*Context, error) {
	l.once.Do(func() {
		l.ctx, l.err = newContext(log)
	})
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, fmt.Errorf("gpu context closed")
	}
	return l.ctx, l.err
}

func (l *lazyContext) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	if l.ctx != nil {
		l.ctx.close()
	}
}
