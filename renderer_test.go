package softrast

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/plot/cmpimg"
)

func TestDrawSingleTriangleStar(t *testing.T) {
	const size = 10
	fb := NewFramebuffer(size, size)
	verts := []Vertex{
		{Position: ms3.Vec{X: 1, Y: 1}},
		{Position: ms3.Vec{X: 8, Y: 2}},
		{Position: ms3.Vec{X: 2, Y: 8}},
	}
	var r Renderer
	sh := Shader{Kind: ShaderStar, Center: ms3.Vec{X: 4, Y: 4}, Radius: 5}
	stats := r.Draw(fb, Uniforms{}, verts, sh)

	frags, err := ReadAllFragments(RasterizeTriangle(verts[0].Position, verts[1].Position, verts[2].Position))
	if err != nil {
		t.Fatal(err)
	}
	covered := make(map[image.Point]bool)
	for _, f := range frags {
		covered[image.Pt(f.X, f.Y)] = true
	}
	if stats.Triangles != 1 || stats.Fragments != len(frags) || stats.Written != len(frags) {
		t.Errorf("unexpected stats %+v for %d covered pixels", stats, len(frags))
	}
	black := color.RGBA{A: 255}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := fb.At(x, y)
			if covered[image.Pt(x, y)] {
				if c == black {
					t.Errorf("covered pixel (%d,%d) is black", x, y)
				}
			} else if c != black {
				t.Errorf("uncovered pixel (%d,%d) = %v, want black", x, y, c)
			}
		}
	}
}

func TestDrawModelMatrixAndTint(t *testing.T) {
	fb := NewFramebuffer(20, 20)
	// Unit triangle scaled by 8 and moved to (5,5).
	verts := []Vertex{
		{Position: ms3.Vec{}},
		{Position: ms3.Vec{X: 1}},
		{Position: ms3.Vec{Y: 1}},
		{Position: ms3.Vec{X: 5}}, // Incomplete trailing run is ignored.
	}
	u := Uniforms{
		Model: ModelMatrix(ms3.Vec{X: 5, Y: 5}, 8, ms3.Vec{}),
		Tint:  ms3.Vec{X: 1},
	}
	var r Renderer
	stats := r.Draw(fb, u, verts, Shader{Kind: ShaderGas})
	if stats.Triangles != 1 {
		t.Fatalf("got %d triangles, want 1", stats.Triangles)
	}
	if fb.At(4, 4) != (color.RGBA{A: 255}) || fb.At(14, 14) != (color.RGBA{A: 255}) {
		t.Error("pixels outside the transformed triangle were written")
	}
	c := fb.At(6, 6)
	if c.R == 0 || c.G != 0 || c.B != 0 {
		t.Errorf("tinted pixel %v, want red channel only", c)
	}
}

func TestDrawDegenerateAndClipped(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	verts := []Vertex{
		{Position: ms3.Vec{X: 1, Y: 1}}, {Position: ms3.Vec{X: 2, Y: 2}}, {Position: ms3.Vec{X: 3, Y: 3}},
		{Position: ms3.Vec{X: -50, Y: -50}}, {Position: ms3.Vec{X: 100, Y: -50}}, {Position: ms3.Vec{X: -50, Y: 100}},
	}
	var r Renderer
	stats := r.Draw(fb, Uniforms{}, verts, Shader{Kind: ShaderRocky})
	if stats.Degenerate != 1 {
		t.Errorf("got %d degenerate triangles, want 1", stats.Degenerate)
	}
	if stats.Written != 64 || stats.Fragments != 64 {
		t.Errorf("screen covering triangle: stats %+v, want 64 fragments written", stats)
	}
}

func TestDrawWireframe(t *testing.T) {
	fb := NewFramebuffer(12, 12)
	verts := []Vertex{
		{Position: ms3.Vec{X: 1, Y: 1}},
		{Position: ms3.Vec{X: 10, Y: 1}},
		{Position: ms3.Vec{X: 1, Y: 10}},
	}
	r := Renderer{Wireframe: true}
	stats := r.Draw(fb, Uniforms{}, verts, Shader{Kind: ShaderStar})
	black := color.RGBA{A: 255}
	if fb.At(1, 1) == black || fb.At(5, 1) == black || fb.At(1, 5) == black {
		t.Error("edge pixels not drawn")
	}
	if fb.At(3, 3) != black {
		t.Error("interior pixel drawn in wireframe mode")
	}
	// Three edges of 10 pixels each, vertices shared.
	if stats.Fragments != 30 {
		t.Errorf("got %d fragments, want 30", stats.Fragments)
	}
}

func TestDrawDeterministic(t *testing.T) {
	render := func() []byte {
		fb := NewFramebuffer(32, 32)
		verts := []Vertex{
			{Position: ms3.Vec{X: 0.3, Y: -0.2, Z: 0.1}},
			{Position: ms3.Vec{X: -0.4, Y: 0.5, Z: -0.2}},
			{Position: ms3.Vec{X: 0.6, Y: 0.6, Z: 0.3}},
		}
		u := Uniforms{Model: ModelMatrix(ms3.Vec{X: 16, Y: 16}, 20, ms3.Vec{X: 0.3, Y: 1.1, Z: 0.2})}
		var r Renderer
		r.Draw(fb, u, verts, Shader{Kind: ShaderRocky, Center: ms3.Vec{X: 16, Y: 16}, Radius: 20, Seed: 4})
		var buf bytes.Buffer
		if err := png.Encode(&buf, fb.Image()); err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}
	equal, err := cmpimg.EqualApprox("png", render(), render(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("identical draws produced different images")
	}
}

func TestVertexShaderPassesAttributes(t *testing.T) {
	v := Vertex{Position: ms3.Vec{X: 1}, Normal: ms3.Vec{Z: 1}}
	v.UV.X, v.UV.Y = 0.25, 0.75
	got := VertexShader(v, Uniforms{Model: TranslateMat4(ms3.Vec{Y: 3})})
	if got.Position != (ms3.Vec{X: 1, Y: 3}) {
		t.Errorf("position %v, want (1,3,0)", got.Position)
	}
	if got.Normal != v.Normal || got.UV != v.UV {
		t.Error("vertex attributes were modified")
	}
}

func TestDrawWireframeOffscreen(t *testing.T) {
	const size = 10
	verts := []Vertex{
		{Position: ms3.Vec{X: -1e7, Y: 5}},
		{Position: ms3.Vec{X: 1e7, Y: 5}},
		{Position: ms3.Vec{Y: 1e7}},
	}
	filled := Renderer{}
	fstats := filled.Draw(NewFramebuffer(size, size), Uniforms{}, verts, Shader{Kind: ShaderStar})
	if fstats.Fragments != 50 {
		t.Errorf("filled draw produced %d fragments, want 50", fstats.Fragments)
	}
	wire := Renderer{Wireframe: true}
	stats := wire.Draw(NewFramebuffer(size, size), Uniforms{}, verts, Shader{Kind: ShaderStar})
	// Each clipped edge spans at most one row or column of the buffer.
	if stats.Fragments > 3*(size+1) {
		t.Errorf("wireframe draw produced %d fragments for a %dx%d buffer", stats.Fragments, size, size)
	}
	if stats.Written != size {
		t.Errorf("wireframe draw wrote %d pixels, want the %d pixels of row 5", stats.Written, size)
	}
}

func TestDrawSteadyStateAllocs(t *testing.T) {
	fb := NewFramebuffer(32, 32)
	var verts []Vertex
	for i := 0; i < 10; i++ {
		o := float32(i)
		verts = append(verts,
			Vertex{Position: ms3.Vec{X: o, Y: 1}},
			Vertex{Position: ms3.Vec{X: o + 12, Y: 3}},
			Vertex{Position: ms3.Vec{X: o + 4, Y: 20}},
		)
	}
	sh := Shader{Kind: ShaderRocky, Center: ms3.Vec{X: 16, Y: 16}, Radius: 16}
	for _, wireframe := range []bool{false, true} {
		r := &Renderer{Wireframe: wireframe}
		r.Draw(fb, Uniforms{}, verts, sh)
		allocs := testing.AllocsPerRun(20, func() {
			r.Draw(fb, Uniforms{}, verts, sh)
		})
		if allocs != 0 {
			t.Errorf("wireframe=%v: %g allocations per draw, want 0", wireframe, allocs)
		}
	}
}
