package frame

import "sync"

// Coalescer keeps at most one frame pending on a Scheduler.
//
// Request while a frame is pending drops the new call; the pending frame
// runs the callback that scheduled it. There is no trailing invocation.
type Coalescer struct {
	sched Scheduler

	mu      sync.Mutex
	pending bool
	cancel  func()
	gen     uint64
}

// NewCoalescer creates a Coalescer on top of sched.
func NewCoalescer(sched Scheduler) *Coalescer {
	return &Coalescer{sched: sched}
}

// Request schedules fn for the next frame unless a frame is already pending.
// It reports whether fn was scheduled.
func (c *Coalescer) Request(fn func()) bool {
	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return false
	}
	c.pending = true
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	cancel := c.sched.RequestFrame(func() {
		c.mu.Lock()
		if !c.pending || c.gen != gen {
			c.mu.Unlock()
			return
		}
		c.pending = false
		c.cancel = nil
		c.mu.Unlock()
		fn()
	})

	c.mu.Lock()
	// The scheduler may already have run the frame synchronously.
	if c.pending && c.gen == gen {
		c.cancel = cancel
	}
	c.mu.Unlock()
	return true
}

// Cancel drops the pending frame, if any.
func (c *Coalescer) Cancel() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.pending = false
	c.gen++
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Pending reports whether a frame is waiting to run.
func (c *Coalescer) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}
