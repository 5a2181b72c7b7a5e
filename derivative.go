package cv

import (
	"fmt"

	"github.com/gogpu/cv/internal/imgproc"
)

// SobelParams parameterizes the Sobel derivative. At least one of DX
// and DY must be set.
type SobelParams struct {
	sameGeometry
	DX bool
	DY bool
}

// Validate implements Params.
func (p SobelParams) Validate(src *Mat) error {
	if err := requireGray(src); err != nil {
		return err
	}
	if !p.DX && !p.DY {
		return fmt.Errorf("%w: sobel needs at least one derivative direction", ErrInvalidParameter)
	}
	return nil
}

// EqualizeHistParams parameterizes histogram equalization. It has no
// knobs; the type exists so the operation flows through the same
// dispatch as everything else.
type EqualizeHistParams struct {
	sameGeometry
}

// Validate implements Params.
func (p EqualizeHistParams) Validate(src *Mat) error {
	return requireGray(src)
}

// Sobel computes the absolute 3x3 Sobel response of a single-channel
// image. With both directions set the responses combine as |gx| + |gy|.
func Sobel(src *Mat, dx, dy bool) (*Mat, error) {
	return Execute(OpSobel, src, SobelParams{DX: dx, DY: dy})
}

// EqualizeHist stretches the intensity histogram of a single-channel
// image over the full byte range.
func EqualizeHist(src *Mat) (*Mat, error) {
	return Execute(OpEqualizeHist, src, EqualizeHistParams{})
}

func sobelCPU(src, dst *Mat, p Params) error {
	sp := p.(SobelParams)
	imgproc.Sobel3x3(rawImage(src), rawImage(dst), sp.DX, sp.DY)
	return nil
}

func equalizeHistCPU(src, dst *Mat, p Params) error {
	imgproc.EqualizeHist(rawImage(src), rawImage(dst))
	return nil
}

func init() {
	register(OperationDescriptor{Name: OpSobel, CPU: sobelCPU})
	register(OperationDescriptor{Name: OpEqualizeHist, CPU: equalizeHistCPU})
}
