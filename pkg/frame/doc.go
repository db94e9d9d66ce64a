// Package frame provides animation-frame scheduling primitives.
//
// A Scheduler runs callbacks on the next frame. A Coalescer sits on top of a
// Scheduler and keeps at most one frame pending: requests that arrive while a
// frame is already pending are dropped, and no trailing call is made.
//
//	c := frame.NewCoalescer(frame.NewTicker(16 * time.Millisecond))
//	onScroll := func() { c.Request(measure) }
//
// Manual is a Scheduler that only runs callbacks when Flush is called, which
// makes frame-driven code deterministic in tests and offline tools.
package frame
