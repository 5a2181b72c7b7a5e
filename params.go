package cv

import "fmt"

// Params carries the typed parameters of a single operation call.
// Validate runs before any backend is engaged; a validation error
// means no output buffer was allocated and no GPU work was submitted.
// Output reports the geometry of the result for a validated source.
type Params interface {
	// Validate checks the parameters against the source image.
	Validate(src *Mat) error

	// Output returns the result geometry. Only called after Validate
	// has accepted src.
	Output(src *Mat) Geometry
}

// sameGeometry is embedded by params whose output matches the source.
type sameGeometry struct{}

func (sameGeometry) Output(src *Mat) Geometry { return src.Geometry() }

// requireU8 rejects non-byte sources. Most operations are defined on
// U8 data only.
func requireU8(src *Mat) error {
	if src.Depth() != U8 {
		return fmt.Errorf("%w: %s input, need U8", ErrUnsupported, src.Depth())
	}
	return nil
}

// requireGray rejects multi-channel sources.
func requireGray(src *Mat) error {
	if err := requireU8(src); err != nil {
		return err
	}
	if src.Channels() != 1 {
		return fmt.Errorf("%w: %d-channel input, need 1", ErrUnsupported, src.Channels())
	}
	return nil
}

// requireOddKernel rejects even or non-positive kernel extents.
// Sizes are never silently rounded; an even kernel on one backend and
// a rounded one on the other would break output parity.
func requireOddKernel(w, h int) error {
	if w <= 0 || h <= 0 || w%2 == 0 || h%2 == 0 {
		return fmt.Errorf("%w: kernel size %dx%d, need positive odd", ErrInvalidParameter, w, h)
	}
	return nil
}

// validateSrc checks the source Mat itself before params validation.
func validateSrc(src *Mat) error {
	if src == nil {
		return fmt.Errorf("%w: nil source", ErrInvalidDimensions)
	}
	if src.Width() <= 0 || src.Height() <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, src.Width(), src.Height())
	}
	if len(src.Data()) != src.Width()*src.Height()*src.Channels()*src.Depth().ElemSize() {
		return fmt.Errorf("%w: buffer length %d does not match geometry", ErrInvalidParameter, len(src.Data()))
	}
	return nil
}
