package softrast

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// Framebuffer is a fixed size RGBA color buffer with a background color
// and an optional depth plane. Writes outside the buffer are silently dropped.
type Framebuffer struct {
	width, height int
	// pix holds 4 bytes per pixel in R,G,B,A order, rows top to bottom.
	pix []uint8
	bg  [4]uint8

	depthTest bool
	depth     []float32
}

// NewFramebuffer allocates a width x height buffer filled with the default
// opaque black background. Negative sizes are treated as zero.
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = maxi(width, 0), maxi(height, 0)
	fb := &Framebuffer{
		width:  width,
		height: height,
		pix:    make([]uint8, 4*width*height),
		bg:     [4]uint8{0, 0, 0, 0xff},
	}
	fb.Clear()
	return fb
}

// Width returns the buffer width in pixels.
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the buffer height in pixels.
func (fb *Framebuffer) Height() int { return fb.height }

// Bounds returns the pixel rectangle of the buffer.
func (fb *Framebuffer) Bounds() image.Rectangle { return image.Rect(0, 0, fb.width, fb.height) }

// SetBackgroundColor sets the color used by Clear. Components are in [0,1].
func (fb *Framebuffer) SetBackgroundColor(c ms3.Vec) {
	fb.bg = rgba8(c)
}

// EnableDepthTest turns the per-pixel depth test of PointDepth on or off.
// With the test off draw order alone decides visibility. Turning the test
// on starts from an empty depth plane.
func (fb *Framebuffer) EnableDepthTest(enable bool) {
	if enable && !fb.depthTest {
		if len(fb.depth) != fb.width*fb.height {
			fb.depth = make([]float32, fb.width*fb.height)
		}
		fb.clearDepth()
	}
	fb.depthTest = enable
}

// DepthTest reports whether the depth test is enabled.
func (fb *Framebuffer) DepthTest() bool { return fb.depthTest }

// Clear resets every pixel to the background color and the depth plane, if
// one was ever allocated, to the far value.
func (fb *Framebuffer) Clear() {
	n := len(fb.pix)
	if n == 0 {
		return
	}
	copy(fb.pix, fb.bg[:])
	// Copy-doubling fill.
	for i := 4; i < n; i *= 2 {
		copy(fb.pix[i:], fb.pix[:i])
	}
	fb.clearDepth()
}

func (fb *Framebuffer) clearDepth() {
	n := len(fb.depth)
	if n == 0 {
		return
	}
	fb.depth[0] = math32.MaxFloat32
	for i := 1; i < n; i *= 2 {
		copy(fb.depth[i:], fb.depth[:i])
	}
}

// Point writes c at (x,y). Out of bounds writes are ignored.
func (fb *Framebuffer) Point(x, y int, c ms3.Vec) {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return
	}
	off := 4 * (y*fb.width + x)
	px := rgba8(c)
	copy(fb.pix[off:off+4], px[:])
}

// PointDepth writes c at (x,y) if the depth test is disabled or depth is nearer
// (smaller) than the depth stored for the pixel. It reports whether the pixel was written.
func (fb *Framebuffer) PointDepth(x, y int, depth float32, c ms3.Vec) bool {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return false
	}
	if fb.depthTest {
		i := y*fb.width + x
		if !(depth < fb.depth[i]) {
			return false
		}
		fb.depth[i] = depth
	}
	fb.Point(x, y, c)
	return true
}

// At returns the color stored at (x,y). Out of bounds reads return the zero color.
func (fb *Framebuffer) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return color.RGBA{}
	}
	off := 4 * (y*fb.width + x)
	p := fb.pix[off : off+4 : off+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Pix returns the underlying RGBA pixel rows. The slice is reused between
// frames and must not be retained past the next draw.
func (fb *Framebuffer) Pix() []uint8 { return fb.pix }

// Image returns a point in time copy of the buffer contents.
func (fb *Framebuffer) Image() *image.RGBA {
	img := image.NewRGBA(fb.Bounds())
	copy(img.Pix, fb.pix)
	return img
}

func rgba8(c ms3.Vec) [4]uint8 {
	return [4]uint8{unorm8(c.X), unorm8(c.Y), unorm8(c.Z), 0xff}
}

func unorm8(v float32) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}
