// Package mesh loads triangle soups for the softrast pipeline from OBJ and
// binary STL files and generates procedural spheres.
package mesh

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chewxy/math32"
	"github.com/fogleman/fauxgl"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/softrast"
)

// ErrEmptyMesh is returned when a model file contains no triangles.
var ErrEmptyMesh = errors.New("mesh contains no triangles")

// Load reads the model at path and returns its triangles as a flat vertex
// slice, three vertices per triangle. The format is chosen by extension:
// .obj and .stl (binary) are supported. If fitUnit is set the model is
// centered and scaled to fit the bi-unit cube [-1,1]³.
func Load(path string, fitUnit bool) ([]softrast.Vertex, error) {
	var (
		vertices []softrast.Vertex
		err      error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		vertices, err = loadOBJ(path)
	case ".stl":
		vertices, err = loadSTL(path)
	default:
		return nil, fmt.Errorf("unsupported model format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if len(vertices) == 0 {
		return nil, fmt.Errorf("loading %s: %w", path, ErrEmptyMesh)
	}
	if fitUnit {
		FitBiUnitCube(vertices)
	}
	softrast.Logger().Info("mesh loaded", "path", path, "triangles", len(vertices)/3)
	return vertices, nil
}

func loadOBJ(path string) ([]softrast.Vertex, error) {
	m, err := fauxgl.LoadOBJ(path)
	if err != nil {
		return nil, err
	}
	return FromFauxgl(m), nil
}

func loadSTL(path string) ([]softrast.Vertex, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return ReadSTL(fp)
}

// FromFauxgl converts the triangles of a fauxgl mesh to pipeline vertices.
func FromFauxgl(m *fauxgl.Mesh) []softrast.Vertex {
	vertices := make([]softrast.Vertex, 0, 3*len(m.Triangles))
	for _, t := range m.Triangles {
		vertices = append(vertices, fromFauxglVertex(t.V1), fromFauxglVertex(t.V2), fromFauxglVertex(t.V3))
	}
	return vertices
}

func fromFauxglVertex(v fauxgl.Vertex) softrast.Vertex {
	return softrast.Vertex{
		Position: vecFromFauxgl(v.Position),
		Normal:   vecFromFauxgl(v.Normal),
		UV:       ms2.Vec{X: float32(v.Texture.X), Y: float32(v.Texture.Y)},
	}
}

func vecFromFauxgl(v fauxgl.Vector) ms3.Vec {
	return ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// FitBiUnitCube centers vertices about the origin and scales them uniformly
// so the largest half extent of their bounding box is 1.
func FitBiUnitCube(vertices []softrast.Vertex) {
	if len(vertices) == 0 {
		return
	}
	bb := Bounds(vertices)
	center := ms3.Scale(0.5, ms3.Add(bb.Min, bb.Max))
	size := ms3.Sub(bb.Max, bb.Min)
	half := 0.5 * math32.Max(size.X, math32.Max(size.Y, size.Z))
	scale := float32(1)
	if half > 0 {
		scale = 1 / half
	}
	for i := range vertices {
		vertices[i].Position = ms3.Scale(scale, ms3.Sub(vertices[i].Position, center))
	}
}

// Bounds returns the axis aligned bounding box of the vertex positions.
func Bounds(vertices []softrast.Vertex) ms3.Box {
	if len(vertices) == 0 {
		return ms3.Box{}
	}
	bb := ms3.Box{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		bb.Min = ms3.MinElem(bb.Min, v.Position)
		bb.Max = ms3.MaxElem(bb.Max, v.Position)
	}
	return bb
}
