package mesh

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/softrast"
)

// UVSphere returns a unit sphere centered at the origin as a triangle soup.
// The sphere is split into stacks latitude bands and slices longitude
// segments. The bands touching the poles produce one triangle per slice,
// every other band two. stacks is raised to at least 2 and slices to at least 3.
func UVSphere(stacks, slices int) []softrast.Vertex {
	if stacks < 2 {
		stacks = 2
	}
	if slices < 3 {
		slices = 3
	}
	vertex := func(i, j int) softrast.Vertex {
		u := float32(j) / float32(slices)
		v := float32(i) / float32(stacks)
		theta := v * math32.Pi
		phi := u * 2 * math32.Pi
		st, ct := math32.Sincos(theta)
		sp, cp := math32.Sincos(phi)
		p := ms3.Vec{X: st * cp, Y: ct, Z: st * sp}
		return softrast.Vertex{Position: p, Normal: p, UV: ms2.Vec{X: u, Y: v}}
	}
	vertices := make([]softrast.Vertex, 0, 3*SphereTriangles(stacks, slices))
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a := vertex(i, j)
			b := vertex(i+1, j)
			c := vertex(i+1, j+1)
			d := vertex(i, j+1)
			if i != 0 {
				vertices = append(vertices, a, b, d)
			}
			if i != stacks-1 {
				vertices = append(vertices, d, b, c)
			}
		}
	}
	return vertices
}

// SphereTriangles returns the number of triangles UVSphere generates.
func SphereTriangles(stacks, slices int) int {
	if stacks < 2 {
		stacks = 2
	}
	if slices < 3 {
		slices = 3
	}
	return 2*stacks*slices - 2*slices
}
