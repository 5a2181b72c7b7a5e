package imgproc

import "github.com/gogpu/cv/internal/parallel"

// ThresholdRule selects the per-pixel threshold behavior.
type ThresholdRule int

const (
	ThreshBinary ThresholdRule = iota
	ThreshBinaryInv
	ThreshTrunc
	ThreshToZero
	ThreshToZeroInv
)

// Threshold applies the threshold rule to every element of src and
// writes the result to dst. src and dst must have identical geometry.
// The comparison is strict: a value equal to thresh is treated as "not
// above", matching the GPU shader exactly.
func Threshold(src, dst Image, thresh, maxval byte, rule ThresholdRule) {
	parallel.Rows(src.Height, func(y int) {
		row := src.Pix[y*src.RowStride() : (y+1)*src.RowStride()]
		out := dst.Pix[y*dst.RowStride() : (y+1)*dst.RowStride()]
		for i, v := range row {
			switch rule {
			case ThreshBinary:
				if v > thresh {
					out[i] = maxval
				} else {
					out[i] = 0
				}
			case ThreshBinaryInv:
				if v > thresh {
					out[i] = 0
				} else {
					out[i] = maxval
				}
			case ThreshTrunc:
				if v > thresh {
					out[i] = thresh
				} else {
					out[i] = v
				}
			case ThreshToZero:
				if v > thresh {
					out[i] = v
				} else {
					out[i] = 0
				}
			case ThreshToZeroInv:
				if v > thresh {
					out[i] = 0
				} else {
					out[i] = v
				}
			}
		}
	})
}
