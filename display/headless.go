package display

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/softrast"
	"golang.org/x/image/bmp"
)

// Format is the image encoding used for frames written by Headless.
type Format uint8

const (
	FormatPNG Format = iota
	FormatBMP
)

func (f Format) ext() string {
	if f == FormatBMP {
		return ".bmp"
	}
	return ".png"
}

// ParseFormat parses "png" or "bmp".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "png", "":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	}
	return 0, fmt.Errorf("unknown frame format %q", s)
}

// HeadlessConfig controls the windowless display.
type HeadlessConfig struct {
	// Frames is the number of frames after which ShouldClose reports true.
	// Zero runs until the render loop is cancelled.
	Frames int
	// Dir is the directory frames are written to. Empty discards frames.
	Dir    string
	Format Format
	// Width and Height resize written frames. Zero keeps the framebuffer size.
	Width, Height int
	// Hold lists keys reported as held for the whole run.
	Hold []Key
}

// Headless is a Display without a window. It keeps the last presented
// frame in memory and optionally writes every frame to disk.
type Headless struct {
	cfg       HeadlessConfig
	held      [numKeys]bool
	presented int
	last      *image.RGBA
}

// NewHeadless returns a headless display configured by cfg.
func NewHeadless(cfg HeadlessConfig) (*Headless, error) {
	h := &Headless{cfg: cfg}
	for _, k := range cfg.Hold {
		if k >= numKeys {
			return nil, fmt.Errorf("invalid held key %d", k)
		}
		h.held[k] = true
	}
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating frame directory: %w", err)
		}
	}
	return h, nil
}

// ShouldClose implements Display.
func (h *Headless) ShouldClose() bool {
	return h.cfg.Frames > 0 && h.presented >= h.cfg.Frames
}

// KeyDown implements Display.
func (h *Headless) KeyDown(key Key) bool {
	return key < numKeys && h.held[key]
}

// Present implements Display.
func (h *Headless) Present(fb *softrast.Framebuffer) error {
	h.last = fb.Image()
	n := h.presented
	h.presented++
	if h.cfg.Dir == "" {
		return nil
	}
	var img image.Image = h.last
	if h.cfg.Width > 0 || h.cfg.Height > 0 {
		img = resize.Resize(uint(h.cfg.Width), uint(h.cfg.Height), img, resize.Bilinear)
	}
	path := filepath.Join(h.cfg.Dir, fmt.Sprintf("frame_%05d%s", n, h.cfg.Format.ext()))
	if err := writeImage(path, img, h.cfg.Format); err != nil {
		return fmt.Errorf("writing frame %d: %w", n, err)
	}
	softrast.Logger().Debug("frame written", "path", path)
	return nil
}

// Presented returns the number of frames presented so far.
func (h *Headless) Presented() int { return h.presented }

// Last returns the most recently presented frame or nil if none was presented.
func (h *Headless) Last() *image.RGBA { return h.last }

func writeImage(path string, img image.Image, format Format) error {
	if format == FormatPNG {
		return fauxgl.SavePNG(path, img)
	}
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bmp.Encode(fp, img); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
