package frame

import (
	"sync"
	"time"
)

// Scheduler requests a callback on the next animation frame.
type Scheduler interface {
	// RequestFrame queues fn for the next frame. The returned cancel func
	// removes fn if it has not run yet; calling it after fn ran is a no-op.
	RequestFrame(fn func()) (cancel func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(fn func()) (cancel func())

// RequestFrame calls f(fn).
func (f SchedulerFunc) RequestFrame(fn func()) func() {
	return f(fn)
}

// queue is the FIFO shared by Manual and Ticker.
type queue struct {
	mu     sync.Mutex
	nextID uint64
	items  []queued
}

type queued struct {
	id uint64
	fn func()
}

func (q *queue) push(fn func()) func() {
	q.mu.Lock()
	q.nextID++
	id := q.nextID
	q.items = append(q.items, queued{id: id, fn: fn})
	q.mu.Unlock()

	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		for i, it := range q.items {
			if it.id == id {
				q.items = append(q.items[:i], q.items[i+1:]...)
				return
			}
		}
	}
}

// drain takes the current batch. Callbacks queued while the batch runs
// belong to the next frame.
func (q *queue) drain() []queued {
	q.mu.Lock()
	batch := q.items
	q.items = nil
	q.mu.Unlock()
	return batch
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Manual is a Scheduler driven by explicit Flush calls.
type Manual struct {
	q queue
}

// NewManual creates a Manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// RequestFrame queues fn until the next Flush.
func (m *Manual) RequestFrame(fn func()) func() {
	return m.q.push(fn)
}

// Flush runs every callback queued before the call, in request order, and
// returns how many ran.
func (m *Manual) Flush() int {
	batch := m.q.drain()
	for _, it := range batch {
		it.fn()
	}
	return len(batch)
}

// Len returns the number of queued callbacks.
func (m *Manual) Len() int {
	return m.q.len()
}

// DefaultInterval approximates a 60Hz display.
const DefaultInterval = 16 * time.Millisecond

// Ticker is a wall-clock Scheduler. Queued callbacks run on a single
// goroutine once per interval.
type Ticker struct {
	q        queue
	interval time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewTicker creates a Ticker. A non-positive interval uses DefaultInterval.
// The goroutine starts on the first RequestFrame.
func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Ticker{
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// RequestFrame queues fn for the next tick.
func (t *Ticker) RequestFrame(fn func()) func() {
	t.startOnce.Do(func() { go t.loop() })
	return t.q.push(fn)
}

// Stop halts the ticker and waits for the running frame, if any, to finish.
// Queued callbacks are discarded. Stop must not be called from a callback.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stopCh) })
	// Never started: nothing will close doneCh, and RequestFrame can no
	// longer start the loop.
	t.startOnce.Do(func() { close(t.doneCh) })
	<-t.doneCh
}

func (t *Ticker) loop() {
	defer close(t.doneCh)

	tick := time.NewTicker(t.interval)
	defer tick.Stop()

	for {
		select {
		case <-t.stopCh:
			return
		case <-tick.C:
			for _, it := range t.q.drain() {
				it.fn()
			}
		}
	}
}
