package cv

import (
	"fmt"

	"github.com/gogpu/cv/internal/imgproc"
)

// CvtColorParams parameterizes color space conversion.
type CvtColorParams struct {
	Code ColorConversionCode
}

// Validate implements Params.
func (p CvtColorParams) Validate(src *Mat) error {
	if err := requireU8(src); err != nil {
		return err
	}
	want := cvtSrcChannels(p.Code)
	if want == 0 {
		return fmt.Errorf("%w: unknown color conversion code %d", ErrInvalidParameter, p.Code)
	}
	if want == 1 && src.Channels() != 1 {
		return fmt.Errorf("%w: conversion needs 1-channel input, got %d",
			ErrUnsupported, src.Channels())
	}
	if want > 1 && src.Channels() < want {
		return fmt.Errorf("%w: conversion needs %d-channel input, got %d",
			ErrUnsupported, want, src.Channels())
	}
	switch p.Code {
	case ColorRGBToHSV, ColorHSVToRGB, ColorRGBToYCrCb, ColorYCrCbToRGB:
		// These conversions have no alpha passthrough.
		if src.Channels() != 3 {
			return fmt.Errorf("%w: conversion needs exactly 3 channels, got %d",
				ErrUnsupported, src.Channels())
		}
	}
	return nil
}

// Output implements Params.
func (p CvtColorParams) Output(src *Mat) Geometry {
	g := src.Geometry()
	switch p.Code {
	case ColorRGBToBGR, ColorBGRToRGB:
		// Channel swap preserves the source layout, alpha included.
	default:
		g.Channels = cvtDstChannels(p.Code)
	}
	return g
}

// cvtSrcChannels returns the minimum source channel count for a code,
// or 0 for an unknown code.
func cvtSrcChannels(c ColorConversionCode) int {
	switch c {
	case ColorRGBToGray, ColorBGRToGray, ColorRGBToBGR, ColorBGRToRGB,
		ColorRGBToHSV, ColorHSVToRGB, ColorRGBToYCrCb, ColorYCrCbToRGB:
		return 3
	case ColorRGBAToGray:
		return 4
	case ColorGrayToRGB, ColorGrayToRGBA:
		return 1
	default:
		return 0
	}
}

func cvtDstChannels(c ColorConversionCode) int {
	switch c {
	case ColorRGBToGray, ColorBGRToGray, ColorRGBAToGray:
		return 1
	case ColorGrayToRGBA:
		return 4
	default:
		return 3
	}
}

// CvtColor converts src between color spaces. Conversions to gray use
// the BT.601 luma weights with a truncated float dot product, identical
// on both backends.
func CvtColor(src *Mat, code ColorConversionCode) (*Mat, error) {
	return Execute(OpCvtColor, src, CvtColorParams{Code: code})
}

func cvtColorCPU(src, dst *Mat, p Params) error {
	cp := p.(CvtColorParams)
	in, out := rawImage(src), rawImage(dst)

	switch cp.Code {
	case ColorRGBToGray, ColorRGBAToGray:
		imgproc.RGBToGray(in, out, false)
	case ColorBGRToGray:
		imgproc.RGBToGray(in, out, true)
	case ColorGrayToRGB, ColorGrayToRGBA:
		imgproc.GrayToRGB(in, out)
	case ColorRGBToBGR, ColorBGRToRGB:
		imgproc.SwapRB(in, out)
	case ColorRGBToHSV:
		imgproc.RGBToHSV(in, out)
	case ColorHSVToRGB:
		imgproc.HSVToRGB(in, out)
	case ColorRGBToYCrCb:
		imgproc.RGBToYCrCb(in, out)
	case ColorYCrCbToRGB:
		imgproc.YCrCbToRGB(in, out)
	}
	return nil
}

func init() {
	register(OperationDescriptor{Name: OpCvtColor, CPU: cvtColorCPU})
}
