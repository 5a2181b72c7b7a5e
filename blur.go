package cv

import "github.com/gogpu/cv/internal/imgproc"

// BoxBlurParams parameterizes the box blur operation.
type BoxBlurParams struct {
	sameGeometry
	KernelSize Size
}

// Validate implements Params.
func (p BoxBlurParams) Validate(src *Mat) error {
	if err := requireU8(src); err != nil {
		return err
	}
	return requireOddKernel(p.KernelSize.Width, p.KernelSize.Height)
}

// GaussianBlurParams parameterizes the Gaussian blur operation.
// SigmaX <= 0 derives sigma from the kernel size; SigmaY <= 0 reuses
// SigmaX.
type GaussianBlurParams struct {
	sameGeometry
	KernelSize Size
	SigmaX     float64
	SigmaY     float64
}

// Validate implements Params.
func (p GaussianBlurParams) Validate(src *Mat) error {
	if err := requireU8(src); err != nil {
		return err
	}
	return requireOddKernel(p.KernelSize.Width, p.KernelSize.Height)
}

// BoxBlur averages each pixel over ksize with replicated borders.
// Kernel extents must be positive and odd.
func BoxBlur(src *Mat, ksize Size) (*Mat, error) {
	return Execute(OpBoxBlur, src, BoxBlurParams{KernelSize: ksize})
}

// GaussianBlur convolves with a normalized Gaussian kernel, replicated
// borders. Kernel extents must be positive and odd.
func GaussianBlur(src *Mat, ksize Size, sigmaX, sigmaY float64) (*Mat, error) {
	return Execute(OpGaussianBlur, src, GaussianBlurParams{
		KernelSize: ksize, SigmaX: sigmaX, SigmaY: sigmaY,
	})
}

func boxBlurCPU(src, dst *Mat, p Params) error {
	bp := p.(BoxBlurParams)
	imgproc.BoxBlur(rawImage(src), rawImage(dst), bp.KernelSize.Width, bp.KernelSize.Height)
	return nil
}

func gaussianBlurCPU(src, dst *Mat, p Params) error {
	gp := p.(GaussianBlurParams)
	imgproc.GaussianBlur(rawImage(src), rawImage(dst),
		gp.KernelSize.Width, gp.KernelSize.Height, gp.SigmaX, gp.SigmaY)
	return nil
}

func init() {
	register(OperationDescriptor{Name: OpBoxBlur, CPU: boxBlurCPU})
	register(OperationDescriptor{Name: OpGaussianBlur, CPU: gaussianBlurCPU})
}
