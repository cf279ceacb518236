package orrery

import (
	"context"
	"fmt"
	"time"

	"github.com/soypat/softrast"
	"github.com/soypat/softrast/display"
)

// Run draws and presents frames until d asks to close or ctx is cancelled.
// Cancellation is only observed between frames.
func Run(ctx context.Context, d display.Display, s *System, p *Pacer) error {
	log := softrast.Logger()
	log.Info("render loop started", "width", s.cfg.Width, "height", s.cfg.Height, "bodies", len(s.bodies))
	var (
		frames int
		start  = time.Now()
	)
	defer func() {
		log.Info("render loop stopped", "frames", frames, "elapsed", time.Since(start))
	}()
	for !d.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p != nil {
			p.Begin()
		}
		s.Step(PollInput(d))
		if err := d.Present(s.fb); err != nil {
			return fmt.Errorf("presenting frame %d: %w", frames, err)
		}
		frames++
		if p != nil {
			p.Wait()
		}
	}
	return nil
}
