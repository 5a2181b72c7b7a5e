package gpu

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/cv"
	"github.com/gogpu/cv/internal/imgproc"
)

// maxGPUBytes caps the image size routed to the GPU. Storage buffer
// limits vary per adapter; staying under the WebGPU default keeps
// dispatch from failing late on conservative drivers.
const maxGPUBytes = 128 << 20

// Engine is the WebGPU accelerator. It satisfies cv.Accelerator: the
// context is created on the first Available call and latched, and every
// Run is a single compute dispatch with a CPU readback.
type Engine struct {
	lazy      lazyContext
	plOnce    sync.Once
	pipelines *pipelineCache
}

// NewEngine returns an accelerator with no GPU resources allocated.
func NewEngine() *Engine {
	return &Engine{}
}

// Name implements cv.Accelerator.
func (e *Engine) Name() string { return "wgpu" }

// SetLogger receives the logger cv.SetLogger propagates.
func (e *Engine) SetLogger(l *slog.Logger) { setLogger(l) }

// Available implements cv.Accelerator. The first call creates the GPU
// context; the outcome is latched for the life of the process.
func (e *Engine) Available() error {
	_, err := e.ensure()
	return err
}

// ensure resolves the latched context and, on first success, the
// pipeline cache bound to its device.
func (e *Engine) ensure() (*Context, error) {
	ctx, err := e.lazy.get(slogger())
	if err != nil {
		return nil, err
	}
	e.plOnce.Do(func() { e.pipelines = newPipelineCache(ctx) })
	return ctx, nil
}

// PipelineCompileCount reports how many compute pipelines have been
// compiled so far. Diagnostic: repeated calls with identical shape
// parameters must not increase it.
func (e *Engine) PipelineCompileCount() int64 {
	if e.pipelines == nil {
		return 0
	}
	return e.pipelines.compileCount()
}

// Close implements cv.Accelerator.
func (e *Engine) Close() error {
	if e.pipelines != nil {
		e.pipelines.close()
	}
	e.lazy.close()
	return nil
}

// Supports implements cv.Accelerator. It is a pure coverage check; no
// GPU work happens here.
func (e *Engine) Supports(op string, src *cv.Mat, p cv.Params) bool {
	if src.Depth() != cv.U8 {
		return false
	}
	if len(src.Data()) > maxGPUBytes {
		return false
	}
	switch op {
	case cv.OpThreshold, cv.OpBoxBlur, cv.OpGaussianBlur, cv.OpErode, cv.OpDilate, cv.OpResize:
		return true
	case cv.OpCvtColor:
		cp, ok := p.(cv.CvtColorParams)
		if !ok {
			return false
		}
		// Only the gray conversions are shaded; the rest stay on CPU.
		switch cp.Code {
		case cv.ColorRGBToGray, cv.ColorBGRToGray, cv.ColorRGBAToGray:
			return true
		}
		return false
	default:
		return false
	}
}

// Run implements cv.Accelerator.
func (e *Engine) Run(op string, src *cv.Mat, p cv.Params) (*cv.Mat, error) {
	ctx, err := e.ensure()
	if err != nil {
		return nil, err
	}

	out := p.Output(src)
	outBytes := out.Width * out.Height * out.Channels

	var (
		key    PipelineKey
		source string
		params []byte
		extra  []byte
	)

	switch op {
	case cv.OpThreshold:
		tp := p.(cv.ThresholdParams)
		rule := thresholdRuleName(tp.Type)
		key = PipelineKey{Op: op, Shape: rule}
		source = thresholdShader(rule)
		params = u32Bytes(uint32(outBytes), uint32(tp.Thresh), uint32(tp.MaxVal))

	case cv.OpBoxBlur:
		bp := p.(cv.BoxBlurParams)
		key = PipelineKey{Op: "convolve2d"}
		source = convolveShader()
		params = convolveParams(src, outBytes, bp.KernelSize)
		extra = f32Bytes(imgproc.BoxKernel2D(bp.KernelSize.Width, bp.KernelSize.Height))

	case cv.OpGaussianBlur:
		gp := p.(cv.GaussianBlurParams)
		key = PipelineKey{Op: "convolve2d"}
		source = convolveShader()
		params = convolveParams(src, outBytes, gp.KernelSize)
		extra = f32Bytes(imgproc.GaussianKernel2D(
			gp.KernelSize.Width, gp.KernelSize.Height, gp.SigmaX, gp.SigmaY))

	case cv.OpErode, cv.OpDilate:
		mp := p.(cv.MorphParams)
		erode := op == cv.OpErode
		key = PipelineKey{Op: op, Shape: fmt.Sprintf("%dx%d", mp.KernelSize.Width, mp.KernelSize.Height)}
		source = morphShader(erode, mp.KernelSize.Width, mp.KernelSize.Height)
		params = u32Bytes(uint32(src.Width()), uint32(src.Height()),
			uint32(src.Channels()), uint32(outBytes))
		extra = maskBytes(structuringMask(mp))

	case cv.OpCvtColor:
		cp := p.(cv.CvtColorParams)
		swap := cp.Code == cv.ColorBGRToGray
		key = PipelineKey{Op: op, Shape: fmt.Sprintf("gray/c%d/swap%t", src.Channels(), swap)}
		source = grayShader(src.Channels(), swap)
		params = u32Bytes(uint32(outBytes))

	case cv.OpResize:
		rp := p.(cv.ResizeParams)
		bilinear := rp.Interp == cv.InterpLinear
		mode := "nearest"
		if bilinear {
			mode = "bilinear"
		}
		key = PipelineKey{Op: op, Shape: mode}
		source = resizeShader(bilinear)
		params = u32Bytes(uint32(src.Width()), uint32(src.Height()),
			uint32(src.Channels()), uint32(outBytes),
			uint32(out.Width), uint32(out.Height))

	default:
		return nil, fmt.Errorf("%w: %q has no compute shader", cv.ErrNotAccelerated, op)
	}

	pl, err := e.pipelines.get(key, source)
	if err != nil {
		return nil, err
	}

	raw, err := dispatch(ctx, pl, src.Data(), params, extra, outBytes)
	if err != nil {
		return nil, err
	}
	return cv.FromRawBytes(raw, out.Width, out.Height, out.Channels, out.Depth)
}

func convolveParams(src *cv.Mat, outBytes int, ksize cv.Size) []byte {
	return u32Bytes(uint32(src.Width()), uint32(src.Height()),
		uint32(src.Channels()), uint32(outBytes),
		uint32(ksize.Width), uint32(ksize.Height))
}

func thresholdRuleName(t cv.ThresholdType) string {
	switch t {
	case cv.ThreshBinaryInv:
		return "binary_inv"
	case cv.ThreshTrunc:
		return "trunc"
	case cv.ThreshToZero:
		return "tozero"
	case cv.ThreshToZeroInv:
		return "tozero_inv"
	default:
		return "binary"
	}
}

func structuringMask(mp cv.MorphParams) []bool {
	kind := imgproc.ShapeRect
	switch mp.Shape {
	case cv.MorphCross:
		kind = imgproc.ShapeCross
	case cv.MorphEllipse:
		kind = imgproc.ShapeEllipse
	}
	return imgproc.StructuringElement(kind, mp.KernelSize.Width, mp.KernelSize.Height)
}
