package orrery

import (
	"fmt"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/softrast"
	"gonum.org/v1/gonum/spatial/r3"
)

// System owns the framebuffer, mesh and renderer of the scene and draws one frame per Step.
type System struct {
	cfg    Config
	mesh   []softrast.Vertex
	bodies []body
	fb     *softrast.Framebuffer
	r      softrast.Renderer
	state  State
}

// body is the resolved form of a BodyConfig.
type body struct {
	name  string
	kind  softrast.ShaderKind
	scale float32
	tint  ms3.Vec
	seed  uint32
}

// NewSystem validates cfg and prepares a System drawing mesh for every body.
func NewSystem(cfg Config, mesh []softrast.Vertex) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(mesh) < 3 {
		return nil, fmt.Errorf("mesh has %d vertices, need at least one triangle", len(mesh))
	}
	bg, _ := parseHexColor(cfg.Background) // Validated above.
	s := &System{
		cfg:  cfg,
		mesh: mesh,
		fb:   softrast.NewFramebuffer(cfg.Width, cfg.Height),
	}
	s.fb.SetBackgroundColor(bg)
	s.fb.EnableDepthTest(cfg.DepthTest)
	s.r.Wireframe = cfg.Wireframe
	for _, bc := range cfg.Bodies {
		kind, _ := softrast.ParseShaderKind(bc.Shader)
		b := body{name: bc.Name, kind: kind, scale: float32(bc.Scale), seed: bc.Seed}
		if bc.Tint != "" {
			b.tint, _ = parseHexColor(bc.Tint)
		}
		s.bodies = append(s.bodies, b)
	}
	s.state = NewState(&s.cfg)
	return s, nil
}

// Config returns the validated configuration of the system.
func (s *System) Config() Config { return s.cfg }

// State returns the state of the last drawn frame.
func (s *System) State() State { return s.state }

// Framebuffer returns the buffer frames are drawn into.
func (s *System) Framebuffer() *softrast.Framebuffer { return s.fb }

// Step advances the scene by one frame with input in and draws it.
func (s *System) Step(in Input) []softrast.DrawStats {
	s.state = s.state.Advance(in, &s.cfg)
	return s.Frame(s.state)
}

// Frame clears the framebuffer and draws every body of st in config order.
// Without the depth test later bodies paint over earlier ones.
func (s *System) Frame(st State) []softrast.DrawStats {
	s.fb.Clear()
	stats := make([]softrast.DrawStats, len(s.bodies))
	for i, b := range s.bodies {
		var pos r3.Vec
		if i < len(st.Positions) {
			pos = st.Positions[i]
		}
		stats[i] = s.drawBody(b, vecFromR3(pos), st)
		softrast.Logger().Debug("body drawn", "name", b.name, "written", stats[i].Written)
	}
	return stats
}

func (s *System) drawBody(b body, pos ms3.Vec, st State) softrast.DrawStats {
	zoom := st.Zoom
	if zoom == 0 {
		zoom = 1
	}
	scale := b.scale * zoom
	u := softrast.Uniforms{
		Model: softrast.ModelMatrix(pos, scale, st.Rotation),
		Tint:  b.tint,
	}
	sh := softrast.Shader{Kind: b.kind, Center: pos, Radius: scale, Seed: b.seed}
	return s.r.Draw(s.fb, u, s.mesh, sh)
}

func vecFromR3(v r3.Vec) ms3.Vec {
	return ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
