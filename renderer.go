package softrast

import (
	"context"
	"image"
	"log/slog"

	"github.com/soypat/glgl/math/ms3"
)

// DrawStats summarizes a single draw call.
type DrawStats struct {
	Triangles  int
	Degenerate int
	Fragments  int
	Written    int
}

// Renderer runs draw calls: vertex stage, rasterization, shading and framebuffer writes.
// Its scratch buffers are reused between calls so steady state drawing does not allocate.
// A Renderer is not safe for concurrent use.
type Renderer struct {
	// Wireframe draws triangle edges with the line rasterizer instead of filling them.
	Wireframe bool

	transformed []Vertex
	frags       [512]Fragment
	tri         TriangleRaster
	line        LineRaster
}

// Draw transforms vertices by u.Model, rasterizes them in runs of three
// and writes the fragments colored by sh into fb. A trailing run with
// fewer than three vertices is ignored.
func (r *Renderer) Draw(fb *Framebuffer, u Uniforms, vertices []Vertex, sh Shader) DrawStats {
	var stats DrawStats
	r.transformed = r.transformed[:0]
	for _, v := range vertices {
		r.transformed = append(r.transformed, VertexShader(v, u))
	}
	tinted := u.Tint != (ms3.Vec{})
	bounds := fb.Bounds()
	for i := 0; i+2 < len(r.transformed); i += 3 {
		stats.Triangles++
		p0 := r.transformed[i].Position
		p1 := r.transformed[i+1].Position
		p2 := r.transformed[i+2].Position
		r.tri.init(p0, p1, p2)
		if r.tri.Degenerate() {
			stats.Degenerate++
			if !r.Wireframe {
				continue
			}
		}
		if r.Wireframe {
			r.drawEdge(fb, p0, p1, bounds, sh, u.Tint, tinted, &stats)
			r.drawEdge(fb, p1, p2, bounds, sh, u.Tint, tinted, &stats)
			r.drawEdge(fb, p2, p0, bounds, sh, u.Tint, tinted, &stats)
			continue
		}
		r.shade(fb, r.tri.Clip(bounds), sh, u.Tint, tinted, &stats)
	}
	if l := Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug("draw", slog.String("shader", sh.Kind.String()),
			slog.Int("triangles", stats.Triangles), slog.Int("degenerate", stats.Degenerate),
			slog.Int("fragments", stats.Fragments), slog.Int("written", stats.Written))
	}
	return stats
}

func (r *Renderer) drawEdge(fb *Framebuffer, a, b ms3.Vec, bounds image.Rectangle, sh Shader, tint ms3.Vec, tinted bool, stats *DrawStats) {
	r.line.init(a, b)
	r.shade(fb, r.line.Clip(bounds), sh, tint, tinted, stats)
}

func (r *Renderer) shade(fb *Framebuffer, fr FragmentReader, sh Shader, tint ms3.Vec, tinted bool, stats *DrawStats) {
	for {
		n, err := fr.ReadFragments(r.frags[:])
		for _, f := range r.frags[:n] {
			c := sh.Evaluate(f.Vec())
			if tinted {
				c = ms3.MulElem(c, tint)
			}
			if fb.PointDepth(f.X, f.Y, f.Depth, c) {
				stats.Written++
			}
		}
		stats.Fragments += n
		if err != nil {
			return
		}
	}
}
