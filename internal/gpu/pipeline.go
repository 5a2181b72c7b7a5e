package gpu

import (
	"fmt"
	"sync/atomic"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/gogpu/cv"
	"github.com/gogpu/naga"

	"github.com/gogpu/cv/internal/cache"
)

// PipelineKey identifies a compiled compute pipeline. Op is the
// operation name; Shape encodes only the parameters that are baked
// into the WGSL source (threshold rule, structuring element extents,
// channel layout, sampling mode). Runtime values that travel in
// uniforms or storage buffers, like threshold levels or blur weights,
// never appear here: changing them must reuse the compiled pipeline.
type PipelineKey struct {
	Op    string
	Shape string
}

func (k PipelineKey) String() string {
	if k.Shape == "" {
		return k.Op
	}
	return k.Op + "/" + k.Shape
}

// pipeline bundles the compiled shader module and compute pipeline so
// both can be released together on eviction.
type pipeline struct {
	shader   *wgpu.ShaderModule
	pipeline *wgpu.ComputePipeline
}

func (p *pipeline) release() {
	if p.pipeline != nil {
		p.pipeline.Release()
	}
	if p.shader != nil {
		p.shader.Release()
	}
}

// pipelineCacheLimit bounds live pipelines. Shape-keyed shaders are
// few (a handful of ops times a handful of kernel extents), so the
// limit exists to cap pathological callers cycling structuring element
// sizes, not normal use.
const pipelineCacheLimit = 64

// pipelineCache compiles and caches compute pipelines per key.
type pipelineCache struct {
	ctx      *Context
	cache    *cache.Cache[PipelineKey, *pipeline]
	compiles atomic.Int64
}

func newPipelineCache(ctx *Context) *pipelineCache {
	return &pipelineCache{
		ctx: ctx,
		cache: cache.New[PipelineKey, *pipeline](pipelineCacheLimit, func(_ PipelineKey, p *pipeline) {
			p.release()
		}),
	}
}

// get returns the pipeline for key, compiling it on first use. source
// is only consulted on a miss.
//
// The WGSL is run through naga before it reaches the device: a shader
// that fails to compile reports a cv.ErrShaderCompile without any GPU
// round trip, and the error is latched per call, not per cache (a bad
// shape key never poisons the good ones).
func (pc *pipelineCache) get(key PipelineKey, source string) (*wgpu.ComputePipeline, error) {
	p, err := pc.cache.GetOrCreate(key, func() (*pipeline, error) {
		if _, err := naga.Compile(source); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", cv.ErrShaderCompile, key, err)
		}

		pc.compiles.Add(1)
		slogger().Debug("compiling compute pipeline", "key", key.String())

		shader := pc.ctx.device.CreateShaderModuleWGSL(source)
		compute := pc.ctx.device.CreateComputePipelineSimple(nil, shader, "main")
		if compute == nil {
			shader.Release()
			return nil, fmt.Errorf("%w: %s: pipeline creation failed", cv.ErrShaderCompile, key)
		}
		return &pipeline{shader: shader, pipeline: compute}, nil
	})
	if err != nil {
		return nil, err
	}
	return p.pipeline, nil
}

// compileCount reports how many pipelines have been compiled, as
// opposed to served from cache.
func (pc *pipelineCache) compileCount() int64 { return pc.compiles.Load() }

// close releases every cached pipeline.
func (pc *pipelineCache) close() { pc.cache.Clear() }
