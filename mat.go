package cv

import "fmt"

// Depth identifies the element type of a Mat.
type Depth uint8

const (
	// U8 is 8-bit unsigned integer storage, one byte per element.
	U8 Depth = iota
	// F32 is 32-bit floating point storage, four bytes per element.
	F32
)

// ElemSize returns the size in bytes of a single element.
func (d Depth) ElemSize() int {
	if d == F32 {
		return 4
	}
	return 1
}

// String returns the depth name.
func (d Depth) String() string {
	switch d {
	case U8:
		return "U8"
	case F32:
		return "F32"
	default:
		return fmt.Sprintf("Depth(%d)", uint8(d))
	}
}

// Mat is a rectangular pixel buffer: rows of interleaved channels.
//
// Storage is row-major and channel-interleaved, matching the layout a
// canvas or bitmap API hands over. Every Mat exclusively owns its
// storage; operations never mutate their input and always return a
// freshly allocated output.
type Mat struct {
	width    int
	height   int
	channels int
	depth    Depth
	data     []byte
}

// NewMat creates a zero-filled Mat with the given geometry.
// Returns ErrInvalidDimensions for zero or negative width/height and
// ErrInvalidParameter for unsupported channel counts.
func NewMat(width, height, channels int, depth Depth) (*Mat, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if channels != 1 && channels != 3 && channels != 4 {
		return nil, fmt.Errorf("%w: channels must be 1, 3 or 4, got %d", ErrInvalidParameter, channels)
	}
	return &Mat{
		width:    width,
		height:   height,
		channels: channels,
		depth:    depth,
		data:     make([]byte, width*height*channels*depth.ElemSize()),
	}, nil
}

// FromRawBytes creates a Mat that owns a copy of data.
// len(data) must be exactly width*height*channels*elemSize.
func FromRawBytes(data []byte, width, height, channels int, depth Depth) (*Mat, error) {
	m, err := NewMat(width, height, channels, depth)
	if err != nil {
		return nil, err
	}
	if len(data) != len(m.data) {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %dx%dx%d %s",
			ErrInvalidParameter, len(data), len(m.data), width, height, channels, depth)
	}
	copy(m.data, data)
	return m, nil
}

// Width returns the image width in pixels.
func (m *Mat) Width() int { return m.width }

// Height returns the image height in pixels.
func (m *Mat) Height() int { return m.height }

// Channels returns the number of interleaved channels (1, 3 or 4).
func (m *Mat) Channels() int { return m.channels }

// Depth returns the element depth.
func (m *Mat) Depth() Depth { return m.depth }

// Data returns the underlying storage. The slice aliases the Mat's
// storage; callers must not retain it past the Mat's lifetime.
func (m *Mat) Data() []byte { return m.data }

// ToRawBytes returns a copy of the pixel data in row-major,
// channel-interleaved order.
func (m *Mat) ToRawBytes() []byte {
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out
}

// Clone returns a deep copy of the Mat.
func (m *Mat) Clone() *Mat {
	c := *m
	c.data = make([]byte, len(m.data))
	copy(c.data, m.data)
	return &c
}

// Fill sets every element of a U8 Mat to v.
func (m *Mat) Fill(v byte) {
	for i := range m.data {
		m.data[i] = v
	}
}

// At returns the U8 value at (x, y) for channel ch.
// Out-of-range coordinates return 0.
func (m *Mat) At(x, y, ch int) byte {
	if x < 0 || x >= m.width || y < 0 || y >= m.height || ch < 0 || ch >= m.channels {
		return 0
	}
	return m.data[(y*m.width+x)*m.channels+ch]
}

// Set stores a U8 value at (x, y) for channel ch.
// Out-of-range coordinates are ignored.
func (m *Mat) Set(x, y, ch int, v byte) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height || ch < 0 || ch >= m.channels {
		return
	}
	m.data[(y*m.width+x)*m.channels+ch] = v
}

// Geometry describes the output shape of an operation.
type Geometry struct {
	Width    int
	Height   int
	Channels int
	Depth    Depth
}

// Geometry returns the Mat's geometry.
func (m *Mat) Geometry() Geometry {
	return Geometry{Width: m.width, Height: m.height, Channels: m.channels, Depth: m.depth}
}

// newMatFor allocates the output Mat for a validated geometry.
func newMatFor(g Geometry) *Mat {
	return &Mat{
		width:    g.Width,
		height:   g.Height,
		channels: g.Channels,
		depth:    g.Depth,
		data:     make([]byte, g.Width*g.Height*g.Channels*g.Depth.ElemSize()),
	}
}
