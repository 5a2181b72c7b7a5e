package cv

import (
	"fmt"

	"github.com/gogpu/cv/internal/imgproc"
)

// ThresholdParams parameterizes the threshold operation.
type ThresholdParams struct {
	sameGeometry
	Thresh float64
	MaxVal float64
	Type   ThresholdType
}

// Validate implements Params.
func (p ThresholdParams) Validate(src *Mat) error {
	if err := requireU8(src); err != nil {
		return err
	}
	if p.Thresh < 0 || p.Thresh > 255 || p.MaxVal < 0 || p.MaxVal > 255 {
		return fmt.Errorf("%w: threshold values must be in [0, 255], got thresh=%g maxval=%g",
			ErrInvalidParameter, p.Thresh, p.MaxVal)
	}
	if p.Type < ThreshBinary || p.Type > ThreshToZeroInv {
		return fmt.Errorf("%w: unknown threshold type %d", ErrInvalidParameter, p.Type)
	}
	return nil
}

// Threshold applies a fixed-level threshold to each pixel. The
// comparison is strictly greater-than: a pixel exactly equal to thresh
// is "not above" on both backends.
func Threshold(src *Mat, thresh, maxval float64, typ ThresholdType) (*Mat, error) {
	return Execute(OpThreshold, src, ThresholdParams{Thresh: thresh, MaxVal: maxval, Type: typ})
}

func thresholdCPU(src, dst *Mat, p Params) error {
	tp := p.(ThresholdParams)
	imgproc.Threshold(rawImage(src), rawImage(dst), byte(tp.Thresh), byte(tp.MaxVal), thresholdRule(tp.Type))
	return nil
}

func thresholdRule(t ThresholdType) imgproc.ThresholdRule {
	switch t {
	case ThreshBinaryInv:
		return imgproc.ThreshBinaryInv
	case ThreshTrunc:
		return imgproc.ThreshTrunc
	case ThreshToZero:
		return imgproc.ThreshToZero
	case ThreshToZeroInv:
		return imgproc.ThreshToZeroInv
	default:
		return imgproc.ThreshBinary
	}
}

func init() {
	register(OperationDescriptor{Name: OpThreshold, CPU: thresholdCPU})
}
