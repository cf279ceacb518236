package softrast

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// ShaderKind enumerates the procedural fragment coloring rules.
type ShaderKind uint8

const (
	// ShaderStar is a bright emissive surface with limb darkening.
	ShaderStar ShaderKind = iota
	// ShaderRocky is a mottled terrain-like surface.
	ShaderRocky
	// ShaderGas is a surface banded along the y axis.
	ShaderGas
	numShaderKinds
)

// inputLimit bounds shader inputs so extreme depths or positions stay well defined.
const inputLimit = 1e6

func (k ShaderKind) String() string {
	switch k {
	case ShaderStar:
		return "star"
	case ShaderRocky:
		return "rocky"
	case ShaderGas:
		return "gas"
	}
	return fmt.Sprintf("ShaderKind(%d)", uint8(k))
}

// ParseShaderKind parses the lower case name of a shader kind.
func ParseShaderKind(s string) (ShaderKind, error) {
	for k := ShaderKind(0); k < numShaderKinds; k++ {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown shader kind %q", s)
}

// Shader selects a coloring rule for a whole draw call. Center and Radius
// locate the drawn body in pixel space and drive radial effects; a
// non-positive Radius disables them.
type Shader struct {
	Kind   ShaderKind
	Center ms3.Vec
	Radius float32
	Seed   uint32
}

// Evaluate maps the fragment vector (pixel_x, pixel_y, depth) to an RGB color
// with components in [0,1]. It is pure and defined for every input.
func (s Shader) Evaluate(p ms3.Vec) ms3.Vec {
	p = clampInput(p)
	var c ms3.Vec
	switch s.Kind {
	case ShaderStar:
		c = s.star(p)
	case ShaderRocky:
		c = s.rocky(p)
	case ShaderGas:
		c = s.gas(p)
	default:
		c = ms3.Vec{X: 1, Z: 1}
	}
	return clampColor(c)
}

func (s Shader) star(p ms3.Vec) ms3.Vec {
	edgeColor := ms3.Vec{X: 1, Y: 0.78, Z: 0.32}
	coreColor := ms3.Vec{X: 1, Y: 0.97, Z: 0.86}
	mu := s.limb(p)
	c := mixVec(edgeColor, coreColor, mu)
	granules := 0.92 + 0.08*fbm(p.X*0.09, p.Y*0.09, 0, s.Seed, 2)
	return ms3.Scale((0.65+0.35*mu)*granules, c)
}

func (s Shader) rocky(p ms3.Vec) ms3.Vec {
	basalt := ms3.Vec{X: 0.27, Y: 0.23, Z: 0.21}
	regolith := ms3.Vec{X: 0.64, Y: 0.53, Z: 0.41}
	n := fbm(p.X*0.06, p.Y*0.06, p.Z*0.06, s.Seed, 3)
	c := mixVec(basalt, regolith, smoothstep(0.35, 0.65, n))
	detail := fbm(p.X*0.25, p.Y*0.25, p.Z*0.25, s.Seed+7, 2)
	shade := (0.8 + 0.3*detail) * (0.55 + 0.45*s.limb(p))
	return ms3.Scale(shade, c)
}

func (s Shader) gas(p ms3.Vec) ms3.Vec {
	cream := ms3.Vec{X: 0.94, Y: 0.87, Z: 0.72}
	rust := ms3.Vec{X: 0.78, Y: 0.50, Z: 0.29}
	storm := ms3.Vec{X: 0.55, Y: 0.36, Z: 0.24}
	rel := p.Y * 0.05
	if s.Radius > 0 {
		rel = (p.Y - s.Center.Y) / s.Radius
	}
	warp := fbm(p.X*0.02, p.Y*0.02, 0, s.Seed, 2) - 0.5
	band := 0.5 + 0.5*math32.Sin(rel*11+warp*3)
	c := mixVec(rust, cream, band)
	thin := 0.5 + 0.5*math32.Sin(rel*27+warp*5)
	c = mixVec(c, storm, 0.25*smoothstep(0.8, 1, thin))
	return ms3.Scale(0.6+0.4*s.limb(p), c)
}

// limb returns the cosine of the view angle on a sphere of Radius about Center,
// 1 at the center of the disc and 0 at its rim.
func (s Shader) limb(p ms3.Vec) float32 {
	if s.Radius <= 0 {
		return 1
	}
	d := math32.Hypot(p.X-s.Center.X, p.Y-s.Center.Y) / s.Radius
	d = clampf(d, 0, 1)
	return math32.Sqrt(1 - d*d)
}

func mixVec(a, b ms3.Vec, t float32) ms3.Vec {
	return ms3.Add(ms3.Scale(1-t, a), ms3.Scale(t, b))
}

func clampInput(p ms3.Vec) ms3.Vec {
	return ms3.Vec{X: clampIn(p.X), Y: clampIn(p.Y), Z: clampIn(p.Z)}
}

func clampColor(c ms3.Vec) ms3.Vec {
	return ms3.Vec{X: clamp01(c.X), Y: clamp01(c.Y), Z: clamp01(c.Z)}
}

func clampIn(v float32) float32 {
	if math32.IsNaN(v) {
		return 0
	}
	return clampf(v, -inputLimit, inputLimit)
}

func clamp01(v float32) float32 {
	if math32.IsNaN(v) {
		return 0
	}
	return clampf(v, 0, 1)
}
