package softrast

import (
	"image"
	"io"
	"math"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// LineRaster produces the fragments of a line segment using Bresenham's
// algorithm. Depth is linearly interpolated along the major axis.
type LineRaster struct {
	// a, b are the segment endpoints before rounding.
	a, b ms3.Vec

	x0, y0, x1, y1 int
	z0, z1         float32
	dx, dy, sx, sy int
	steps          int

	// iteration state.
	x, y, err, i int
	empty        bool
}

// RasterizeLine returns a fragment reader over the segment from a to b.
// Endpoints are rounded to the nearest pixel.
// The segment is not clipped; see [LineRaster.Clip].
func RasterizeLine(a, b ms3.Vec) *LineRaster {
	l := &LineRaster{}
	l.init(a, b)
	return l
}

// init sets the raster up for the segment a,b in place.
func (l *LineRaster) init(a, b ms3.Vec) {
	*l = LineRaster{a: a, b: b}
	if !finiteVec(a) || !finiteVec(b) {
		l.empty = true
		return
	}
	l.x0, l.y0 = clampCoord(math32.Round(a.X)), clampCoord(math32.Round(a.Y))
	l.x1, l.y1 = clampCoord(math32.Round(b.X)), clampCoord(math32.Round(b.Y))
	l.z0, l.z1 = a.Z, b.Z
	l.dx = absi(l.x1 - l.x0)
	l.dy = -absi(l.y1 - l.y0)
	l.sx, l.sy = 1, 1
	if l.x0 > l.x1 {
		l.sx = -1
	}
	if l.y0 > l.y1 {
		l.sy = -1
	}
	l.steps = maxi(l.dx, -l.dy)
	l.Reset()
}

// Clip cuts the segment to the pixel rectangle bounds and rewinds the raster.
// Depth is interpolated to the new endpoints. A segment missing bounds produces no fragments.
func (l *LineRaster) Clip(bounds image.Rectangle) *LineRaster {
	if l.empty {
		return l
	}
	if bounds.Empty() {
		l.empty = true
		return l
	}
	// Liang-Barsky against the lattice points of bounds, in float64 so
	// far away endpoints keep their on-screen precision.
	ax, ay, az := float64(l.a.X), float64(l.a.Y), float64(l.a.Z)
	dx, dy, dz := float64(l.b.X)-ax, float64(l.b.Y)-ay, float64(l.b.Z)-az
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{
		ax - float64(bounds.Min.X),
		float64(bounds.Max.X-1) - ax,
		ay - float64(bounds.Min.Y),
		float64(bounds.Max.Y-1) - ay,
	}
	t0, t1 := 0.0, 1.0
	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				l.empty = true
				return l
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			t0 = math.Max(t0, r)
		} else {
			t1 = math.Min(t1, r)
		}
		if t0 > t1 {
			l.empty = true
			return l
		}
	}
	at := func(t float64) ms3.Vec {
		return ms3.Vec{X: float32(ax + t*dx), Y: float32(ay + t*dy), Z: float32(az + t*dz)}
	}
	l.init(at(t0), at(t1))
	return l
}

// Reset rewinds the raster to its first fragment.
func (l *LineRaster) Reset() {
	l.x, l.y = l.x0, l.y0
	l.err = l.dx + l.dy
	l.i = 0
}

// ReadFragments implements [FragmentReader].
func (l *LineRaster) ReadFragments(dst []Fragment) (n int, err error) {
	if l.empty || l.i > l.steps {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, io.ErrShortBuffer
	}
	for n < len(dst) {
		depth := l.z0
		if l.steps > 0 {
			t := float32(l.i) / float32(l.steps)
			depth = l.z0 + t*(l.z1-l.z0)
		}
		dst[n] = Fragment{X: l.x, Y: l.y, Depth: depth}
		n++
		l.i++
		if l.i > l.steps {
			return n, io.EOF
		}
		e2 := 2 * l.err
		if e2 >= l.dy {
			l.err += l.dy
			l.x += l.sx
		}
		if e2 <= l.dx {
			l.err += l.dx
			l.y += l.sy
		}
	}
	return n, nil
}

func absi(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
