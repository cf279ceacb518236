package orrery

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/soypat/softrast"
	"github.com/soypat/softrast/display"
	"github.com/soypat/softrast/mesh"
	"gonum.org/v1/plot/cmpimg"
)

// smallConfig returns a scaled down default scene that renders quickly.
func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 120, 80
	cfg.SphereStacks, cfg.SphereSlices = 8, 12
	cfg.FrameBudget = 0
	cfg.Bodies = []BodyConfig{
		{Name: "sun", Shader: "star", Scale: 20},
		{Name: "rocky", Shader: "rocky", Scale: 5, Orbit: 30, OrbitSpeed: 1, Seed: 1},
		{Name: "gas", Shader: "gas", Scale: 8, Orbit: 48, OrbitSpeed: 0.7, Seed: 2},
	}
	return cfg
}

func newSmallSystem(t *testing.T, cfg Config) *System {
	t.Helper()
	s, err := NewSystem(cfg, mesh.UVSphere(cfg.SphereStacks, cfg.SphereSlices))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewSystemErrors(t *testing.T) {
	cfg := smallConfig()
	if _, err := NewSystem(cfg, mesh.UVSphere(4, 4)[:2]); err == nil {
		t.Error("mesh without a full triangle accepted")
	}
	cfg.Bodies = nil
	if _, err := NewSystem(cfg, mesh.UVSphere(4, 4)); !errors.Is(err, ErrNoBodies) {
		t.Errorf("got %v, want ErrNoBodies", err)
	}
}

func TestFrameDrawsBodies(t *testing.T) {
	cfg := smallConfig()
	s := newSmallSystem(t, cfg)
	st := s.State()
	stats := s.Frame(st)
	if len(stats) != len(cfg.Bodies) {
		t.Fatalf("got stats for %d bodies", len(stats))
	}
	for i, ds := range stats {
		if ds.Written == 0 {
			t.Errorf("body %s wrote no pixels", cfg.Bodies[i].Name)
		}
		if ds.Triangles != mesh.SphereTriangles(cfg.SphereStacks, cfg.SphereSlices) {
			t.Errorf("body %s drew %d triangles", cfg.Bodies[i].Name, ds.Triangles)
		}
	}
	bg := color.RGBA{R: 5, G: 5, B: 13, A: 255}
	fb := s.Framebuffer()
	for _, p := range st.Positions {
		if c := fb.At(int(p.X), int(p.Y)); c == bg {
			t.Errorf("body center %v left at background", p)
		}
	}
	if fb.At(0, 0) != bg || fb.At(cfg.Width-1, cfg.Height-1) != bg {
		t.Error("corners not cleared to the background color")
	}
}

// Two bodies at the same center: the later one covers the earlier one
// unless the depth test keeps the nearer surface.
func TestFrameOcclusion(t *testing.T) {
	cfg := smallConfig()
	cfg.Bodies = []BodyConfig{
		{Name: "big", Shader: "star", Scale: 30},
		{Name: "small", Shader: "gas", Scale: 12, Tint: "#00ff00"},
	}
	cx, cy := cfg.Width/2, cfg.Height/2

	painter := newSmallSystem(t, cfg)
	painter.Frame(painter.State())
	if c := painter.Framebuffer().At(cx, cy); c.R != 0 || c.G == 0 {
		t.Errorf("painter's order: center %v, want the green tinted body on top", c)
	}

	cfg.DepthTest = true
	depth := newSmallSystem(t, cfg)
	depth.Frame(depth.State())
	if c := depth.Framebuffer().At(cx, cy); c.R == 0 {
		t.Errorf("depth test: center %v, want the nearer star surface", c)
	}
}

func TestFrameDeterministic(t *testing.T) {
	cfg := smallConfig()
	encode := func(s *System) []byte {
		var buf bytes.Buffer
		if err := png.Encode(&buf, s.Framebuffer().Image()); err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}
	a, b := newSmallSystem(t, cfg), newSmallSystem(t, cfg)
	in := Input{Left: true, ZoomIn: true}
	for i := 0; i < 5; i++ {
		a.Step(in)
		b.Step(in)
	}
	equal, err := cmpimg.EqualApprox("png", encode(a), encode(b), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("same inputs produced different frames")
	}
	// Re-rendering an old state is independent of the frames drawn since.
	st := a.State()
	first := encode(a)
	a.Step(Input{})
	a.Frame(st)
	if !bytes.Equal(first, encode(a)) {
		t.Error("redrawing a state produced a different frame")
	}
}

func TestWireframe(t *testing.T) {
	cfg := smallConfig()
	cfg.Bodies = cfg.Bodies[:1]
	drawn := func(cfg Config) int {
		s := newSmallSystem(t, cfg)
		s.Frame(s.State())
		bg := s.Framebuffer().At(0, 0)
		n := 0
		for y := 0; y < cfg.Height; y++ {
			for x := 0; x < cfg.Width; x++ {
				if s.Framebuffer().At(x, y) != bg {
					n++
				}
			}
		}
		return n
	}
	filled := drawn(cfg)
	cfg.Wireframe = true
	wire := drawn(cfg)
	if wire == 0 || wire >= filled {
		t.Errorf("wireframe sun covers %d pixels, filled %d", wire, filled)
	}
}

func TestRunHeadless(t *testing.T) {
	const frames = 4
	cfg := smallConfig()
	s := newSmallSystem(t, cfg)
	dir := filepath.Join(t.TempDir(), "frames")
	h, err := display.NewHeadless(display.HeadlessConfig{Frames: frames, Dir: dir, Hold: []display.Key{display.KeyZoomOut}})
	if err != nil {
		t.Fatal(err)
	}
	p := NewPacer(time.Second)
	var slept time.Duration
	p.sleep = func(d time.Duration) { slept += d }
	if err := Run(context.Background(), h, s, p); err != nil {
		t.Fatal(err)
	}
	if h.Presented() != frames {
		t.Errorf("presented %d frames, want %d", h.Presented(), frames)
	}
	if slept == 0 {
		t.Error("pacer never slept")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != frames {
		t.Errorf("wrote %d files, want %d", len(entries), frames)
	}
	st := s.State()
	wantZoom := float32(1)
	for i := 0; i < frames; i++ {
		wantZoom *= float32(cfg.Controls.ZoomOut)
	}
	if st.Zoom != wantZoom {
		t.Errorf("zoom %g after %d frames, want %g", st.Zoom, frames, wantZoom)
	}
	if !bytes.Equal(h.Last().Pix, s.Framebuffer().Pix()) {
		t.Error("last presented frame differs from the framebuffer")
	}
}

func TestRunCancelled(t *testing.T) {
	s := newSmallSystem(t, smallConfig())
	h, _ := display.NewHeadless(display.HeadlessConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, h, s, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if h.Presented() != 0 {
		t.Errorf("presented %d frames after cancellation", h.Presented())
	}
}

type failingDisplay struct{ display.Display }

func (failingDisplay) ShouldClose() bool                   { return false }
func (failingDisplay) Present(*softrast.Framebuffer) error { return errors.New("device lost") }

func TestRunPresentError(t *testing.T) {
	s := newSmallSystem(t, smallConfig())
	h, _ := display.NewHeadless(display.HeadlessConfig{})
	err := Run(context.Background(), failingDisplay{h}, s, nil)
	if err == nil || s.State().OrbitAngle == 0 {
		t.Errorf("got %v, want present error after one step", err)
	}
}
