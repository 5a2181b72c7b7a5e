package cv

import (
	"fmt"

	"github.com/gogpu/cv/internal/imgproc"
)

// MorphParams parameterizes erode and dilate.
type MorphParams struct {
	sameGeometry
	Shape      MorphShape
	KernelSize Size
}

// Validate implements Params.
func (p MorphParams) Validate(src *Mat) error {
	if err := requireU8(src); err != nil {
		return err
	}
	if p.Shape < MorphRect || p.Shape > MorphEllipse {
		return fmt.Errorf("%w: unknown structuring element shape %d", ErrInvalidParameter, p.Shape)
	}
	return requireOddKernel(p.KernelSize.Width, p.KernelSize.Height)
}

// MorphExParams parameterizes the compound morphology operations.
type MorphExParams struct {
	sameGeometry
	Op         MorphOp
	Shape      MorphShape
	KernelSize Size
}

// Validate implements Params.
func (p MorphExParams) Validate(src *Mat) error {
	if p.Op < MorphOpen || p.Op > MorphBlackHat {
		return fmt.Errorf("%w: unknown morphology operation %d", ErrInvalidParameter, p.Op)
	}
	return MorphParams{Shape: p.Shape, KernelSize: p.KernelSize}.Validate(src)
}

// Erode takes the per-channel minimum over the structuring element.
// Neighborhood samples that fall outside the image are skipped, not
// clamped, so border pixels see a truncated element.
func Erode(src *Mat, shape MorphShape, ksize Size) (*Mat, error) {
	return Execute(OpErode, src, MorphParams{Shape: shape, KernelSize: ksize})
}

// Dilate takes the per-channel maximum over the structuring element,
// with the same truncated-element border rule as Erode.
func Dilate(src *Mat, shape MorphShape, ksize Size) (*Mat, error) {
	return Execute(OpDilate, src, MorphParams{Shape: shape, KernelSize: ksize})
}

// MorphologyEx applies a compound morphological operation built from
// erode and dilate passes.
func MorphologyEx(src *Mat, op MorphOp, shape MorphShape, ksize Size) (*Mat, error) {
	return Execute(OpMorphologyEx, src, MorphExParams{Op: op, Shape: shape, KernelSize: ksize})
}

func structuringElement(shape MorphShape, ksize Size) []bool {
	kind := imgproc.ShapeRect
	switch shape {
	case MorphCross:
		kind = imgproc.ShapeCross
	case MorphEllipse:
		kind = imgproc.ShapeEllipse
	}
	return imgproc.StructuringElement(kind, ksize.Width, ksize.Height)
}

func erodeCPU(src, dst *Mat, p Params) error {
	mp := p.(MorphParams)
	mask := structuringElement(mp.Shape, mp.KernelSize)
	imgproc.Erode(rawImage(src), rawImage(dst), mask, mp.KernelSize.Width, mp.KernelSize.Height)
	return nil
}

func dilateCPU(src, dst *Mat, p Params) error {
	mp := p.(MorphParams)
	mask := structuringElement(mp.Shape, mp.KernelSize)
	imgproc.Dilate(rawImage(src), rawImage(dst), mask, mp.KernelSize.Width, mp.KernelSize.Height)
	return nil
}

func morphologyExCPU(src, dst *Mat, p Params) error {
	mp := p.(MorphExParams)
	mask := structuringElement(mp.Shape, mp.KernelSize)
	kw, kh := mp.KernelSize.Width, mp.KernelSize.Height

	in := rawImage(src)
	out := rawImage(dst)
	tmp := imgproc.Image{Width: in.Width, Height: in.Height, Channels: in.Channels,
		Pix: make([]byte, len(in.Pix))}

	switch mp.Op {
	case MorphOpen:
		imgproc.Erode(in, tmp, mask, kw, kh)
		imgproc.Dilate(tmp, out, mask, kw, kh)

	case MorphClose:
		imgproc.Dilate(in, tmp, mask, kw, kh)
		imgproc.Erode(tmp, out, mask, kw, kh)

	case MorphGradient:
		tmp2 := imgproc.Image{Width: in.Width, Height: in.Height, Channels: in.Channels,
			Pix: make([]byte, len(in.Pix))}
		imgproc.Dilate(in, tmp, mask, kw, kh)
		imgproc.Erode(in, tmp2, mask, kw, kh)
		imgproc.Subtract(tmp, tmp2, out)

	case MorphTopHat:
		tmp2 := imgproc.Image{Width: in.Width, Height: in.Height, Channels: in.Channels,
			Pix: make([]byte, len(in.Pix))}
		imgproc.Erode(in, tmp, mask, kw, kh)
		imgproc.Dilate(tmp, tmp2, mask, kw, kh)
		imgproc.Subtract(in, tmp2, out)

	case MorphBlackHat:
		tmp2 := imgproc.Image{Width: in.Width, Height: in.Height, Channels: in.Channels,
			Pix: make([]byte, len(in.Pix))}
		imgproc.Dilate(in, tmp, mask, kw, kh)
		imgproc.Erode(tmp, tmp2, mask, kw, kh)
		imgproc.Subtract(tmp2, in, out)
	}
	return nil
}

func init() {
	register(OperationDescriptor{Name: OpErode, CPU: erodeCPU})
	register(OperationDescriptor{Name: OpDilate, CPU: dilateCPU})
	register(OperationDescriptor{Name: OpMorphologyEx, CPU: morphologyExCPU})
}
