package softrast

import (
	"io"

	"github.com/soypat/glgl/math/ms3"
)

// Fragment is a single pixel covered by a rasterized primitive.
type Fragment struct {
	X, Y  int
	Depth float32
}

// Vec returns the shader input vector (x, y, depth).
func (f Fragment) Vec() ms3.Vec {
	return ms3.Vec{X: float32(f.X), Y: float32(f.Y), Z: f.Depth}
}

// FragmentReader is implemented by rasterizers. ReadFragments fills dst
// with the next fragments of the primitive and returns io.EOF once the
// primitive is exhausted.
type FragmentReader interface {
	ReadFragments(dst []Fragment) (int, error)
}

// ReadAllFragments reads the full contents of a FragmentReader and returns the slice read.
// It does not return error on io.EOF.
func ReadAllFragments(r FragmentReader) ([]Fragment, error) {
	var (
		err error
		n   int
	)
	result := make([]Fragment, 0, 64)
	buf := make([]Fragment, 256)
	for {
		n, err = r.ReadFragments(buf)
		result = append(result, buf[:n]...)
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}
