package softrast

import (
	"image"
	"io"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
)

// coordLimit bounds pixel coordinates so float to int conversions stay defined.
const coordLimit = 1 << 24

// TriangleRaster produces the fragments covered by a triangle in row-major order.
// Pixel (x,y) is sampled at the lattice point (x,y) and is covered when all three
// barycentric weights are non-negative, so pixels on a shared edge belong
// to both triangles sharing it.
//
// A TriangleRaster is restartable: Reset rewinds it to the first fragment.
type TriangleRaster struct {
	v    [3]ms3.Vec
	area float32
	// inclusive bounding box of candidate pixels.
	min, max image.Point
	x, y     int
	empty    bool
}

// RasterizeTriangle returns a fragment reader over the triangle v0,v1,v2.
// Only the x and y components are used for coverage, z is interpolated as depth.
// The bounding box is not clipped; see [TriangleRaster.Clip].
func RasterizeTriangle(v0, v1, v2 ms3.Vec) *TriangleRaster {
	r := &TriangleRaster{}
	r.init(v0, v1, v2)
	return r
}

// init sets the raster up for the triangle v0,v1,v2 in place.
func (r *TriangleRaster) init(v0, v1, v2 ms3.Vec) {
	*r = TriangleRaster{v: [3]ms3.Vec{v0, v1, v2}}
	r.area = edge(v0, v1, v2.X, v2.Y)
	if r.area == 0 || !isFinite(r.area) || !finiteVec(v0) || !finiteVec(v1) || !finiteVec(v2) {
		r.empty = true
		return
	}
	r.min = image.Point{
		X: clampCoord(math32.Floor(min3(v0.X, v1.X, v2.X))),
		Y: clampCoord(math32.Floor(min3(v0.Y, v1.Y, v2.Y))),
	}
	r.max = image.Point{
		X: clampCoord(math32.Ceil(max3(v0.X, v1.X, v2.X))),
		Y: clampCoord(math32.Ceil(max3(v0.Y, v1.Y, v2.Y))),
	}
	r.Reset()
}

// Clip restricts the bounding box to the rectangle bounds and rewinds the raster.
// Fragments outside bounds are never produced.
func (r *TriangleRaster) Clip(bounds image.Rectangle) *TriangleRaster {
	if r.empty {
		return r
	}
	if bounds.Empty() {
		r.empty = true
		return r
	}
	r.min.X = maxi(r.min.X, bounds.Min.X)
	r.min.Y = maxi(r.min.Y, bounds.Min.Y)
	r.max.X = mini(r.max.X, bounds.Max.X-1)
	r.max.Y = mini(r.max.Y, bounds.Max.Y-1)
	r.Reset()
	return r
}

// Degenerate reports whether the triangle has zero signed area and so produces no fragments.
func (r *TriangleRaster) Degenerate() bool { return r.area == 0 || !isFinite(r.area) }

// Reset rewinds the raster to its first fragment.
func (r *TriangleRaster) Reset() {
	r.x, r.y = r.min.X, r.min.Y
}

// ReadFragments implements [FragmentReader].
func (r *TriangleRaster) ReadFragments(dst []Fragment) (n int, err error) {
	if r.empty || r.min.X > r.max.X {
		return 0, io.EOF
	}
	if len(dst) == 0 {
		return 0, io.ErrShortBuffer
	}
	v0, v1, v2 := r.v[0], r.v[1], r.v[2]
	invArea := 1 / r.area
	for r.y <= r.max.Y {
		py := float32(r.y)
		for r.x <= r.max.X {
			if n == len(dst) {
				return n, nil
			}
			px := float32(r.x)
			e0 := edge(v1, v2, px, py)
			e1 := edge(v2, v0, px, py)
			e2 := edge(v0, v1, px, py)
			if r.covers(e0, e1, e2) {
				a, b, g := e0*invArea, e1*invArea, e2*invArea
				dst[n] = Fragment{X: r.x, Y: r.y, Depth: a*v0.Z + b*v1.Z + g*v2.Z}
				n++
			}
			r.x++
		}
		r.x = r.min.X
		r.y++
	}
	return n, io.EOF
}

// covers applies the inclusive edge rule for either winding.
func (r *TriangleRaster) covers(e0, e1, e2 float32) bool {
	if r.area > 0 {
		return e0 >= 0 && e1 >= 0 && e2 >= 0
	}
	return e0 <= 0 && e1 <= 0 && e2 <= 0
}

// Barycentric returns the barycentric weights (α,β,γ) of p relative to the
// triangle v0,v1,v2 projected onto the xy plane. ok is false for degenerate triangles.
func Barycentric(v0, v1, v2 ms3.Vec, p ms2.Vec) (w ms3.Vec, ok bool) {
	area := edge(v0, v1, v2.X, v2.Y)
	if area == 0 || !isFinite(area) {
		return ms3.Vec{}, false
	}
	w = ms3.Vec{
		X: edge(v1, v2, p.X, p.Y) / area,
		Y: edge(v2, v0, p.X, p.Y) / area,
		Z: edge(v0, v1, p.X, p.Y) / area,
	}
	return w, true
}

// edge returns twice the signed area of the triangle a,b,p.
func edge(a, b ms3.Vec, px, py float32) float32 {
	return (b.X-a.X)*(py-a.Y) - (b.Y-a.Y)*(px-a.X)
}

func min3(a, b, c float32) float32 { return math32.Min(a, math32.Min(b, c)) }
func max3(a, b, c float32) float32 { return math32.Max(a, math32.Max(b, c)) }

func mini(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxi(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampCoord(f float32) int {
	if f < -coordLimit {
		return -coordLimit
	} else if f > coordLimit {
		return coordLimit
	}
	return int(f)
}

func isFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

func finiteVec(v ms3.Vec) bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}
