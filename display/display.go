// Package display defines the presentation collaborator of the render loop
// and provides a headless implementation that writes frames to image files.
package display

import "github.com/soypat/softrast"

// Key identifies an input key the render loop reacts to.
type Key uint8

const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown
	KeyZoomIn  // A
	KeyZoomOut // S
	numKeys
)

func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyZoomIn:
		return "zoom-in"
	case KeyZoomOut:
		return "zoom-out"
	}
	return "unknown"
}

// ParseKey parses a key name as returned by Key.String.
func ParseKey(s string) (Key, bool) {
	for k := Key(0); k < numKeys; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Display receives finished frames and reports user input.
type Display interface {
	// ShouldClose reports whether the render loop should terminate.
	ShouldClose() bool
	// KeyDown reports whether key is currently held.
	KeyDown(key Key) bool
	// Present hands a point in time snapshot of fb to the display.
	// fb must not be modified by the display.
	Present(fb *softrast.Framebuffer) error
}
