// Package loop runs a beetle round: the timers, the physics tick, the bonus
// cycle and the phase machine, all over one virtual clock.
package loop

import (
	"context"
	"time"

	"github.com/tomz197/beetles/internal/loop/config"
)

// Advance moves the round's virtual clock forward by d, running every task
// that falls due, then publishes a fresh snapshot.
func (r *Round) Advance(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sched.Advance(d)
	r.publishLocked()
}

// Run drives Advance from the wall clock at the physics rate. Blocks until
// the context is cancelled.
func (r *Round) Run(ctx context.Context) {
	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		// A stalled process resumes at most one frame cap late.
		r.Advance(min(delta, config.MaxFrameDelta))

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.PhysicsTick {
			time.Sleep(config.PhysicsTick - elapsed)
		}
	}
}

// Close waits for any round result still being written.
func (r *Round) Close() {
	r.persist.Wait()
}
