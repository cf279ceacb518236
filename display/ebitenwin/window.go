// Package ebitenwin presents softrast frames in a desktop window using ebiten.
package ebitenwin

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/soypat/softrast"
	"github.com/soypat/softrast/display"
)

var keymap = map[display.Key][]ebiten.Key{
	display.KeyLeft:    {ebiten.KeyArrowLeft},
	display.KeyRight:   {ebiten.KeyArrowRight},
	display.KeyUp:      {ebiten.KeyArrowUp},
	display.KeyDown:    {ebiten.KeyArrowDown},
	display.KeyZoomIn:  {ebiten.KeyA},
	display.KeyZoomOut: {ebiten.KeyS},
}

// Window is a display.Display backed by an ebiten window. Ebiten owns the
// main loop, so frames are produced from its Update callback by the step
// function passed to Run rather than by a polling loop.
type Window struct {
	title  string
	width  int
	height int
	scale  int

	step    func(display.Display) error
	fbImg   *ebiten.Image
	pending []byte
	closed  bool
}

// New returns a window of width x height framebuffer pixels magnified by scale.
func New(title string, width, height, scale int) *Window {
	if scale < 1 {
		scale = 1
	}
	return &Window{title: title, width: width, height: height, scale: scale}
}

// Run opens the window and calls step once per tick until the window is
// closed, Escape is pressed or step returns an error.
func (w *Window) Run(tps int, step func(display.Display) error) error {
	w.step = step
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowSize(w.width*w.scale, w.height*w.scale)
	if tps > 0 {
		ebiten.SetTPS(tps)
	}
	err := ebiten.RunGame(w)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// ShouldClose implements display.Display.
func (w *Window) ShouldClose() bool { return w.closed }

// KeyDown implements display.Display.
func (w *Window) KeyDown(key display.Key) bool {
	for _, k := range keymap[key] {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

// Present implements display.Display. The pixels are copied and uploaded on the next Draw.
func (w *Window) Present(fb *softrast.Framebuffer) error {
	if fb.Width() != w.width || fb.Height() != w.height {
		return errors.New("framebuffer size does not match window")
	}
	if len(w.pending) != len(fb.Pix()) {
		w.pending = make([]byte, len(fb.Pix()))
	}
	copy(w.pending, fb.Pix())
	return nil
}

func (w *Window) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsWindowBeingClosed() {
		w.closed = true
	}
	if w.closed {
		return ebiten.Termination
	}
	if w.step != nil {
		if err := w.step(w); err != nil {
			return err
		}
	}
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	if w.fbImg == nil {
		w.fbImg = ebiten.NewImage(w.width, w.height)
	}
	if len(w.pending) == 4*w.width*w.height {
		w.fbImg.WritePixels(w.pending)
	}
	screen.DrawImage(w.fbImg, nil)
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.width, w.height
}
