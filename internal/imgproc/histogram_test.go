package imgproc

import "testing"

func TestEqualizeHistFlatImageIsIdentity(t *testing.T) {
	src := mkImage(4, 4, 1, 93)
	dst := mkImage(4, 4, 1, 0)

	EqualizeHist(src, dst)

	for i, v := range dst.Pix {
		if v != 93 {
			t.Errorf("pixel %d = %d, want 93", i, v)
		}
	}
}

func TestEqualizeHistStretchesTwoLevels(t *testing.T) {
	// Two equally populated levels stretch to the extremes: the lower
	// occupied bin maps to 0, the upper to 255.
	src := Image{Width: 4, Height: 1, Channels: 1, Pix: []byte{100, 100, 101, 101}}
	dst := mkImage(4, 1, 1, 0)

	EqualizeHist(src, dst)

	want := []byte{0, 0, 255, 255}
	for i := range want {
		if dst.Pix[i] != want[i] {
			t.Errorf("pixel %d = %d, want %d", i, dst.Pix[i], want[i])
		}
	}
}

func TestEqualizeHistMonotone(t *testing.T) {
	src := mkImage(16, 16, 1, 0)
	for i := range src.Pix {
		src.Pix[i] = byte(i % 64) // narrow range, uneven enough to remap
	}
	dst := mkImage(16, 16, 1, 0)

	EqualizeHist(src, dst)

	// The remap must preserve intensity ordering.
	var lutSeen [256]int
	for i := range lutSeen {
		lutSeen[i] = -1
	}
	for i, v := range src.Pix {
		lutSeen[v] = int(dst.Pix[i])
	}
	prev := -1
	for v := 0; v < 256; v++ {
		if lutSeen[v] < 0 {
			continue
		}
		if lutSeen[v] < prev {
			t.Fatalf("mapping not monotone at input %d: %d < %d", v, lutSeen[v], prev)
		}
		prev = lutSeen[v]
	}
}

func TestEqualizeHistFullRangeEndpoints(t *testing.T) {
	// A linear ramp over the full byte range keeps its endpoints.
	src := mkImage(16, 16, 1, 0)
	for i := range src.Pix {
		src.Pix[i] = byte(i)
	}
	dst := mkImage(16, 16, 1, 0)

	EqualizeHist(src, dst)

	if dst.Pix[0] != 0 {
		t.Errorf("lowest bin mapped to %d, want 0", dst.Pix[0])
	}
	if dst.Pix[255] != 255 {
		t.Errorf("highest bin mapped to %d, want 255", dst.Pix[255])
	}
}

func TestEqualizeHistEmptyImage(t *testing.T) {
	src := Image{Width: 0, Height: 0, Channels: 1, Pix: nil}
	dst := Image{Width: 0, Height: 0, Channels: 1, Pix: nil}

	EqualizeHist(src, dst) // must not panic
}
