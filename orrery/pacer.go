package orrery

import "time"

// Pacer limits the frame rate with a per frame time budget. Only the part
// of the budget not spent rendering is slept.
type Pacer struct {
	Budget time.Duration

	now   func() time.Time
	sleep func(time.Duration)
	start time.Time
}

// NewPacer returns a Pacer with the given frame budget. A zero budget never sleeps.
func NewPacer(budget time.Duration) *Pacer {
	return &Pacer{Budget: budget, now: time.Now, sleep: time.Sleep}
}

// Begin marks the start of a frame.
func (p *Pacer) Begin() {
	p.start = p.now()
}

// Wait sleeps for the remainder of the frame budget and returns the time slept.
func (p *Pacer) Wait() time.Duration {
	elapsed := p.now().Sub(p.start)
	remaining := p.Budget - elapsed
	if remaining <= 0 {
		return 0
	}
	p.sleep(remaining)
	return remaining
}
