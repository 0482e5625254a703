package physics

import "time"

// clock is the fixed-timestep accumulator.
type clock struct {
	primed      bool
	paused      bool
	last        time.Duration
	accumulator time.Duration
}

// Update advances the simulation to the given host timestamp in fixed
// Timestep increments and returns the number of steps taken. The first call
// after creation or Resume only records the timestamp. Accumulated time
// beyond MaxSubsteps steps is dropped.
func (w *World) Update(now time.Duration) int {
	c := &w.clock
	if c.paused {
		return 0
	}
	if !c.primed {
		c.primed = true
		c.last = now
		return 0
	}

	delta := now - c.last
	c.last = now
	if delta < 0 {
		delta = 0
	}

	c.accumulator += delta
	if limit := w.cfg.Timestep * time.Duration(w.cfg.MaxSubsteps); c.accumulator > limit {
		w.logger.Debug("dropping simulation time", "accumulated", c.accumulator, "limit", limit)
		c.accumulator = limit
	}

	steps := 0
	for c.accumulator >= w.cfg.Timestep {
		w.Step()
		c.accumulator -= w.cfg.Timestep
		steps++
	}
	return steps
}

// Step advances the solver by exactly one timestep.
func (w *World) Step() {
	w.locked++
	w.space.Step(w.cfg.Timestep.Seconds())
	w.locked--
	if w.locked == 0 {
		w.flushPending()
	}
}

// Pause freezes the accumulator; Update becomes a no-op.
func (w *World) Pause() {
	w.clock.paused = true
}

// Resume unfreezes the accumulator. The next Update re-primes the clock so
// time spent paused is not simulated.
func (w *World) Resume() {
	if !w.clock.paused {
		return
	}
	w.clock = clock{}
}

// Paused reports whether the world is paused.
func (w *World) Paused() bool {
	return w.clock.paused
}
