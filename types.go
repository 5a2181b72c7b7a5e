package cv

// Size is a 2D extent in pixels.
type Size struct {
	Width, Height int
}

// Sz is shorthand for Size{w, h}.
func Sz(w, h int) Size { return Size{Width: w, Height: h} }

// ThresholdType selects the per-pixel threshold rule.
type ThresholdType int

const (
	// ThreshBinary: dst = maxval if src > thresh else 0.
	ThreshBinary ThresholdType = iota
	// ThreshBinaryInv: dst = 0 if src > thresh else maxval.
	ThreshBinaryInv
	// ThreshTrunc: dst = thresh if src > thresh else src.
	ThreshTrunc
	// ThreshToZero: dst = src if src > thresh else 0.
	ThreshToZero
	// ThreshToZeroInv: dst = 0 if src > thresh else src.
	ThreshToZeroInv
)

// ColorConversionCode identifies a color space conversion.
type ColorConversionCode int

const (
	ColorRGBToGray ColorConversionCode = iota
	ColorBGRToGray
	ColorRGBAToGray
	ColorGrayToRGB
	ColorGrayToRGBA
	ColorRGBToBGR
	ColorBGRToRGB
	ColorRGBToHSV
	ColorHSVToRGB
	ColorRGBToYCrCb
	ColorYCrCbToRGB
)

// Interpolation selects the resampling method for geometric transforms.
type Interpolation int

const (
	// InterpNearest picks the nearest source pixel.
	InterpNearest Interpolation = iota
	// InterpLinear blends the four nearest source pixels.
	InterpLinear
)

// MorphShape selects the structuring element shape.
type MorphShape int

const (
	// MorphRect is a filled rectangular element.
	MorphRect MorphShape = iota
	// MorphCross is a cross-shaped element through the anchor.
	MorphCross
	// MorphEllipse is an inscribed ellipse element.
	MorphEllipse
)

// MorphOp selects a compound morphological operation.
type MorphOp int

const (
	// MorphOpen is erosion followed by dilation.
	MorphOpen MorphOp = iota
	// MorphClose is dilation followed by erosion.
	MorphClose
	// MorphGradient is dilation minus erosion.
	MorphGradient
	// MorphTopHat is source minus opening.
	MorphTopHat
	// MorphBlackHat is closing minus source.
	MorphBlackHat
)

// FlipCode selects the flip axis.
type FlipCode int

const (
	// FlipVertical mirrors around the horizontal axis (top-bottom).
	FlipVertical FlipCode = 0
	// FlipHorizontal mirrors around the vertical axis (left-right).
	FlipHorizontal FlipCode = 1
	// FlipBoth mirrors around both axes.
	FlipBoth FlipCode = -1
)

// RotateCode selects a quarter-turn rotation.
type RotateCode int

const (
	Rotate90Clockwise RotateCode = iota
	Rotate180
	Rotate90CounterClockwise
)
