// Package imgproc implements the CPU execution path for image
// operations: scalar and row-parallel loops over interleaved U8 pixel
// data.
//
// The package is deliberately independent of the public API layer. It
// operates on raw Image views (geometry plus pixel slice) so the same
// kernels can back the public operations and the parity harness without
// import cycles.
package imgproc

// Image is a raw view of an interleaved 8-bit image. Pix holds
// Width*Height*Channels bytes in row-major order. The view does not own
// the storage.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// RowStride returns the number of bytes per row.
func (im Image) RowStride() int { return im.Width * im.Channels }

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampU8 rounds v to the nearest integer and clamps to [0, 255].
func clampU8(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v + 0.5)
}
