package imgproc

// EqualizeHist stretches the intensity histogram of a single-channel
// image via the cumulative distribution, the standard contrast
// enhancement. The histogram pass is sequential (a shared counter
// array); the remap pass is a pure lookup and runs row-parallel
// elsewhere if profiles warrant.
func EqualizeHist(src, dst Image) {
	var hist [256]int
	for _, v := range src.Pix {
		hist[v]++
	}

	total := src.Width * src.Height
	if total == 0 {
		return
	}

	// Cumulative distribution, normalized so the first occupied bin
	// maps to 0 and the last to 255.
	var cdf [256]int
	running := 0
	for i, h := range hist {
		running += h
		cdf[i] = running
	}
	cdfMin := 0
	for i := 0; i < 256; i++ {
		if hist[i] > 0 {
			cdfMin = cdf[i]
			break
		}
	}

	denom := total - cdfMin
	var lut [256]byte
	for i := 0; i < 256; i++ {
		if denom <= 0 {
			// Flat image: identity mapping.
			lut[i] = byte(i)
			continue
		}
		v := (cdf[i] - cdfMin) * 255 / denom
		lut[i] = byte(clampInt(v, 0, 255))
	}

	for i, v := range src.Pix {
		dst.Pix[i] = lut[v]
	}
}
