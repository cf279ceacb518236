// Package orrery drives the softrast pipeline to animate a small procedural
// solar system: it owns the scene configuration, the per frame scene state,
// the frame orchestration and the paced render loop.
package orrery

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/softrast"
	"gopkg.in/yaml.v3"
)

// ErrNoBodies is returned by Config.Validate when there is nothing to draw.
var ErrNoBodies = errors.New("scene has no bodies")

// Config describes the scene and the render loop.
type Config struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Background is the clear color as a hex string such as "#05050d".
	Background string `yaml:"background"`
	// Model is the path of an .obj or .stl model used for every body.
	// Empty uses a procedural UV sphere.
	Model        string `yaml:"model"`
	SphereStacks int    `yaml:"sphere_stacks"`
	SphereSlices int    `yaml:"sphere_slices"`
	// Center is the pixel position orbits revolve around. Zero uses the framebuffer center.
	Center      [2]float64 `yaml:"center"`
	FrameBudget Duration   `yaml:"frame_budget"`
	DepthTest   bool       `yaml:"depth_test"`
	Wireframe   bool       `yaml:"wireframe"`
	Controls    Controls   `yaml:"controls"`
	// Bodies are drawn in order, later bodies over earlier ones.
	Bodies []BodyConfig `yaml:"bodies"`
}

// Controls sets how input and time advance the scene each frame.
type Controls struct {
	// RotateStep is the camera rotation per frame a key is held, in degrees.
	RotateStep float64 `yaml:"rotate_step"`
	// ZoomIn and ZoomOut multiply the zoom each frame their key is held.
	ZoomIn  float64 `yaml:"zoom_in"`
	ZoomOut float64 `yaml:"zoom_out"`
	// OrbitStep is the orbit angle advance per frame, in degrees.
	OrbitStep float64 `yaml:"orbit_step"`
}

// BodyConfig describes one rendered body.
type BodyConfig struct {
	Name string `yaml:"name"`
	// Shader is one of "star", "rocky" or "gas".
	Shader string `yaml:"shader"`
	// Scale is the body radius in pixels at zoom 1.
	Scale float64 `yaml:"scale"`
	// Orbit is the orbit radius in pixels. Zero keeps the body at the center.
	Orbit float64 `yaml:"orbit"`
	// OrbitSpeed multiplies the shared orbit angle.
	OrbitSpeed float64 `yaml:"orbit_speed"`
	// Tint is an optional hex color multiplied into the shaded color.
	Tint string `yaml:"tint"`
	Seed uint32 `yaml:"seed"`
}

// Duration wraps time.Duration for YAML unmarshaling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns the three body scene: a star with a rocky and a gas planet.
func DefaultConfig() Config {
	return Config{
		Width:        900,
		Height:       600,
		Background:   "#05050d",
		SphereStacks: 24,
		SphereSlices: 32,
		FrameBudget:  Duration(16 * time.Millisecond),
		Controls: Controls{
			RotateStep: 2,
			ZoomIn:     1.02,
			ZoomOut:    0.98,
			OrbitStep:  0.5,
		},
		Bodies: []BodyConfig{
			{Name: "sun", Shader: "star", Scale: 185},
			{Name: "rocky", Shader: "rocky", Scale: 25, Orbit: 200, OrbitSpeed: 1, Seed: 1},
			{Name: "gas", Shader: "gas", Scale: 60, Orbit: 320, OrbitSpeed: 0.7, Seed: 2},
		},
	}
}

// LoadConfig reads a YAML scene file. Fields absent from the file keep
// the values of DefaultConfig; a bodies list replaces the default bodies.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	cfg := DefaultConfig()
	cfg.Bodies = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	if cfg.Bodies == nil {
		cfg.Bodies = DefaultConfig().Bodies
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the render loop cannot use.
func (cfg *Config) Validate() error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("framebuffer size must be positive, got %dx%d", cfg.Width, cfg.Height)
	}
	if _, err := parseHexColor(cfg.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if cfg.FrameBudget < 0 {
		return errors.New("negative frame budget")
	}
	if cfg.Controls.ZoomIn <= 0 || cfg.Controls.ZoomOut <= 0 {
		return errors.New("zoom factors must be positive")
	}
	if len(cfg.Bodies) == 0 {
		return ErrNoBodies
	}
	for i, b := range cfg.Bodies {
		if _, err := softrast.ParseShaderKind(b.Shader); err != nil {
			return fmt.Errorf("body %d (%s): %w", i, b.Name, err)
		}
		if b.Scale <= 0 {
			return fmt.Errorf("body %d (%s): scale must be positive", i, b.Name)
		}
		if b.Tint != "" {
			if _, err := parseHexColor(b.Tint); err != nil {
				return fmt.Errorf("body %d (%s) tint: %w", i, b.Name, err)
			}
		}
	}
	return nil
}

// parseHexColor parses "#rrggbb" or "rrggbb" into a color with components in [0,1].
func parseHexColor(s string) (ms3.Vec, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return ms3.Vec{}, fmt.Errorf("invalid hex color %q", s)
	}
	for _, c := range h {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return ms3.Vec{}, fmt.Errorf("invalid hex color %q", s)
		}
	}
	c := fauxgl.HexColor(h)
	return ms3.Vec{X: float32(c.R), Y: float32(c.G), Z: float32(c.B)}, nil
}
