package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/soypat/softrast"
	"github.com/soypat/softrast/display"
	"github.com/soypat/softrast/display/ebitenwin"
	"github.com/soypat/softrast/mesh"
	"github.com/soypat/softrast/orrery"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "orrery:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  = flag.String("config", "", "YAML scene file. Empty uses the built-in three body scene.")
		modelPath   = flag.String("model", "", "Override the model (.obj or .stl) used for every body.")
		headless    = flag.Bool("headless", false, "Run without a window.")
		frames      = flag.Int("frames", 0, "Stop after N frames in headless mode (0 = run until interrupted).")
		outDir      = flag.String("out", "", "Directory headless frames are written to. Empty discards frames.")
		format      = flag.String("format", "png", "Headless frame format: png or bmp.")
		outWidth    = flag.Int("out-width", 0, "Resize written frames to this width (0 keeps aspect or size).")
		outHeight   = flag.Int("out-height", 0, "Resize written frames to this height (0 keeps aspect or size).")
		hold        = flag.String("hold", "", "Comma separated keys held in headless mode: left,right,up,down,zoom-in,zoom-out.")
		windowScale = flag.Int("scale", 1, "Window magnification.")
		depthTest   = flag.Bool("depth", false, "Enable the per pixel depth test instead of painter's order.")
		wireframe   = flag.Bool("wireframe", false, "Draw triangle edges only.")
		verbose     = flag.Bool("v", false, "Enable debug logging.")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	softrast.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := orrery.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = orrery.LoadConfig(*configPath)
		if err != nil {
			return err
		}
	}
	if *modelPath != "" {
		cfg.Model = *modelPath
	}
	cfg.DepthTest = cfg.DepthTest || *depthTest
	cfg.Wireframe = cfg.Wireframe || *wireframe

	vertices, err := loadMesh(&cfg)
	if err != nil {
		return err
	}
	sys, err := orrery.NewSystem(cfg, vertices)
	if err != nil {
		return err
	}

	if !*headless {
		win := ebitenwin.New("orrery", cfg.Width, cfg.Height, *windowScale)
		tps := 0
		if budget := cfg.FrameBudget.Duration(); budget > 0 {
			tps = int(time.Second / budget)
		}
		return win.Run(tps, func(d display.Display) error {
			sys.Step(orrery.PollInput(d))
			return d.Present(sys.Framebuffer())
		})
	}

	frameFormat, err := display.ParseFormat(*format)
	if err != nil {
		return err
	}
	keys, err := parseKeys(*hold)
	if err != nil {
		return err
	}
	h, err := display.NewHeadless(display.HeadlessConfig{
		Frames: *frames,
		Dir:    *outDir,
		Format: frameFormat,
		Width:  *outWidth,
		Height: *outHeight,
		Hold:   keys,
	})
	if err != nil {
		return err
	}
	var d display.Display = h
	if *frames > 0 && term.IsTerminal(int(os.Stderr.Fd())) {
		bar := progressbar.NewOptions(*frames,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("rendering"),
			progressbar.OptionShowCount(),
		)
		defer bar.Close()
		d = progressDisplay{Display: h, bar: bar}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = orrery.Run(ctx, d, sys, orrery.NewPacer(cfg.FrameBudget.Duration()))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func loadMesh(cfg *orrery.Config) ([]softrast.Vertex, error) {
	if cfg.Model == "" {
		return mesh.UVSphere(cfg.SphereStacks, cfg.SphereSlices), nil
	}
	return mesh.Load(cfg.Model, true)
}

func parseKeys(s string) ([]display.Key, error) {
	if s == "" {
		return nil, nil
	}
	var keys []display.Key
	for _, name := range strings.Split(s, ",") {
		k, ok := display.ParseKey(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("unknown key %q", name)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// progressDisplay advances a progress bar for every presented frame.
type progressDisplay struct {
	display.Display
	bar *progressbar.ProgressBar
}

func (p progressDisplay) Present(fb *softrast.Framebuffer) error {
	err := p.Display.Present(fb)
	if barErr := p.bar.Add(1); barErr != nil {
		softrast.Logger().Warn("progress bar update failed", "err", barErr)
	}
	return err
}
