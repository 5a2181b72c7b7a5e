package cv

import (
	"fmt"

	"github.com/gogpu/cv/internal/imgproc"
)

// ResizeParams parameterizes the resize operation.
type ResizeParams struct {
	Target Size
	Interp Interpolation
}

// Validate implements Params.
func (p ResizeParams) Validate(src *Mat) error {
	if err := requireU8(src); err != nil {
		return err
	}
	if p.Target.Width <= 0 || p.Target.Height <= 0 {
		return fmt.Errorf("%w: target %dx%d", ErrInvalidDimensions, p.Target.Width, p.Target.Height)
	}
	if p.Interp != InterpNearest && p.Interp != InterpLinear {
		return fmt.Errorf("%w: unknown interpolation %d", ErrInvalidParameter, p.Interp)
	}
	return nil
}

// Output implements Params.
func (p ResizeParams) Output(src *Mat) Geometry {
	g := src.Geometry()
	g.Width = p.Target.Width
	g.Height = p.Target.Height
	return g
}

// FlipParams parameterizes the flip operation.
type FlipParams struct {
	sameGeometry
	Code FlipCode
}

// Validate implements Params.
func (p FlipParams) Validate(src *Mat) error {
	if err := requireU8(src); err != nil {
		return err
	}
	switch p.Code {
	case FlipVertical, FlipHorizontal, FlipBoth:
		return nil
	}
	return fmt.Errorf("%w: unknown flip code %d", ErrInvalidParameter, p.Code)
}

// Rotate90Params parameterizes the quarter-turn rotation.
type Rotate90Params struct {
	Code RotateCode
}

// Validate implements Params.
func (p Rotate90Params) Validate(src *Mat) error {
	if err := requireU8(src); err != nil {
		return err
	}
	if p.Code < Rotate90Clockwise || p.Code > Rotate90CounterClockwise {
		return fmt.Errorf("%w: unknown rotate code %d", ErrInvalidParameter, p.Code)
	}
	return nil
}

// Output implements Params. Quarter turns transpose the geometry;
// a half turn keeps it.
func (p Rotate90Params) Output(src *Mat) Geometry {
	g := src.Geometry()
	if p.Code != Rotate180 {
		g.Width, g.Height = g.Height, g.Width
	}
	return g
}

// Resize scales src to the target size.
func Resize(src *Mat, target Size, interp Interpolation) (*Mat, error) {
	return Execute(OpResize, src, ResizeParams{Target: target, Interp: interp})
}

// Flip mirrors src around the axis selected by code.
func Flip(src *Mat, code FlipCode) (*Mat, error) {
	return Execute(OpFlip, src, FlipParams{Code: code})
}

// Rotate rotates src by a multiple of 90 degrees.
func Rotate(src *Mat, code RotateCode) (*Mat, error) {
	return Execute(OpRotate90, src, Rotate90Params{Code: code})
}

func resizeCPU(src, dst *Mat, p Params) error {
	rp := p.(ResizeParams)
	if rp.Interp == InterpNearest {
		imgproc.ResizeNearest(rawImage(src), rawImage(dst))
	} else {
		imgproc.ResizeBilinear(rawImage(src), rawImage(dst))
	}
	return nil
}

func flipCPU(src, dst *Mat, p Params) error {
	fp := p.(FlipParams)
	vertical := fp.Code == FlipVertical || fp.Code == FlipBoth
	horizontal := fp.Code == FlipHorizontal || fp.Code == FlipBoth
	imgproc.Flip(rawImage(src), rawImage(dst), vertical, horizontal)
	return nil
}

func rotateCPU(src, dst *Mat, p Params) error {
	rp := p.(Rotate90Params)
	switch rp.Code {
	case Rotate90Clockwise:
		imgproc.Rotate90CW(rawImage(src), rawImage(dst))
	case Rotate90CounterClockwise:
		imgproc.Rotate90CCW(rawImage(src), rawImage(dst))
	default: // Rotate180
		imgproc.Flip(rawImage(src), rawImage(dst), true, true)
	}
	return nil
}

func init() {
	register(OperationDescriptor{Name: OpResize, CPU: resizeCPU})
	register(OperationDescriptor{Name: OpFlip, CPU: flipCPU})
	register(OperationDescriptor{Name: OpRotate90, CPU: rotateCPU})
}
