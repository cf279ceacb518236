package orrery

import (
	"math"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/softrast/display"
	"gonum.org/v1/gonum/spatial/r3"
)

// Input is the set of controls held during a frame.
type Input struct {
	Left, Right, Up, Down bool
	ZoomIn, ZoomOut       bool
}

// PollInput reads the held keys of d.
func PollInput(d display.Display) Input {
	return Input{
		Left:    d.KeyDown(display.KeyLeft),
		Right:   d.KeyDown(display.KeyRight),
		Up:      d.KeyDown(display.KeyUp),
		Down:    d.KeyDown(display.KeyDown),
		ZoomIn:  d.KeyDown(display.KeyZoomIn),
		ZoomOut: d.KeyDown(display.KeyZoomOut),
	}
}

// State is the scene state of a single frame. It is a value: Advance
// returns the state of the next frame and leaves the receiver untouched.
type State struct {
	// Rotation holds the camera Euler angles in radians. Only X and Y are driven by input.
	Rotation ms3.Vec
	Zoom     float32
	// OrbitAngle is the shared orbit angle in radians.
	OrbitAngle float64
	// Positions holds the pixel position of every body, in config order.
	Positions []r3.Vec
}

// NewState returns the initial state of the scene described by cfg.
func NewState(cfg *Config) State {
	s := State{Zoom: 1}
	s.Positions = bodyPositions(cfg, s.OrbitAngle)
	return s
}

// Advance applies the frame input and moves the orbits one step forward.
func (s State) Advance(in Input, cfg *Config) State {
	step := float32(cfg.Controls.RotateStep * math.Pi / 180)
	if in.Left {
		s.Rotation.Y -= step
	}
	if in.Right {
		s.Rotation.Y += step
	}
	if in.Up {
		s.Rotation.X -= step
	}
	if in.Down {
		s.Rotation.X += step
	}
	if in.ZoomIn {
		s.Zoom *= float32(cfg.Controls.ZoomIn)
	}
	if in.ZoomOut {
		s.Zoom *= float32(cfg.Controls.ZoomOut)
	}
	s.OrbitAngle += cfg.Controls.OrbitStep * math.Pi / 180
	s.Positions = bodyPositions(cfg, s.OrbitAngle)
	return s
}

// orbitCenter returns the configured orbit center or the framebuffer center.
func orbitCenter(cfg *Config) r3.Vec {
	if cfg.Center != [2]float64{} {
		return r3.Vec{X: cfg.Center[0], Y: cfg.Center[1]}
	}
	return r3.Vec{X: float64(cfg.Width) / 2, Y: float64(cfg.Height) / 2}
}

func bodyPositions(cfg *Config, angle float64) []r3.Vec {
	center := orbitCenter(cfg)
	positions := make([]r3.Vec, len(cfg.Bodies))
	for i, b := range cfg.Bodies {
		a := angle * b.OrbitSpeed
		offset := r3.Scale(b.Orbit, r3.Vec{X: math.Cos(a), Y: math.Sin(a)})
		positions[i] = r3.Add(center, offset)
	}
	return positions
}
