package softrast

import (
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
)

// Vertex is a mesh vertex as handed to the pipeline by a mesh loader.
// Only Position is read by the core; Normal and UV are carried through untouched.
type Vertex struct {
	Position ms3.Vec
	Normal   ms3.Vec
	UV       ms2.Vec
}

// Uniforms are the read-only constants of a single draw call.
type Uniforms struct {
	// Model maps local mesh coordinates to screen space.
	Model Mat4
	// Tint multiplies shaded colors component-wise. The zero value disables tinting.
	Tint ms3.Vec
}

// VertexShader applies the model matrix of u to the position of v.
func VertexShader(v Vertex, u Uniforms) Vertex {
	v.Position = u.Model.MulPosition(v.Position)
	return v
}
