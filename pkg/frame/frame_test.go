package frame

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestManual_FlushRunsInOrder(t *testing.T) {
	m := NewManual()
	var got []int
	m.RequestFrame(func() { got = append(got, 1) })
	m.RequestFrame(func() { got = append(got, 2) })

	if n := m.Flush(); n != 2 {
		t.Fatalf("Flush() = %d, want 2", n)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("got %v, want [1 2]", got)
	}
	if n := m.Flush(); n != 0 {
		t.Errorf("second Flush() = %d, want 0", n)
	}
}

func TestManual_RequestDuringFlushWaitsForNextFrame(t *testing.T) {
	m := NewManual()
	ran := 0
	m.RequestFrame(func() {
		ran++
		m.RequestFrame(func() { ran++ })
	})

	m.Flush()
	if ran != 1 {
		t.Fatalf("ran = %d after first flush, want 1", ran)
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
	m.Flush()
	if ran != 2 {
		t.Errorf("ran = %d after second flush, want 2", ran)
	}
}

func TestManual_Cancel(t *testing.T) {
	m := NewManual()
	ran := false
	cancel := m.RequestFrame(func() { ran = true })
	cancel()
	cancel()

	if n := m.Flush(); n != 0 {
		t.Errorf("Flush() = %d, want 0", n)
	}
	if ran {
		t.Error("cancelled callback ran")
	}
}

func TestCoalescer_DropsWhilePending(t *testing.T) {
	m := NewManual()
	c := NewCoalescer(m)

	calls := 0
	if !c.Request(func() { calls++ }) {
		t.Fatal("first Request should schedule")
	}
	for i := 0; i < 10; i++ {
		if c.Request(func() { calls += 100 }) {
			t.Fatal("Request while pending should be dropped")
		}
	}
	if !c.Pending() {
		t.Fatal("expected pending frame")
	}

	m.Flush()
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no trailing call)", calls)
	}
	if c.Pending() {
		t.Error("expected no pending frame after flush")
	}

	// A new frame may be requested once the previous one ran.
	if !c.Request(func() { calls++ }) {
		t.Fatal("Request after flush should schedule")
	}
	m.Flush()
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestCoalescer_Cancel(t *testing.T) {
	m := NewManual()
	c := NewCoalescer(m)

	ran := false
	c.Request(func() { ran = true })
	c.Cancel()

	if m.Len() != 0 {
		t.Errorf("scheduler still holds %d callbacks", m.Len())
	}
	m.Flush()
	if ran {
		t.Error("cancelled frame ran")
	}
	if !c.Request(func() {}) {
		t.Error("Request after Cancel should schedule")
	}
}

func TestCoalescer_SynchronousScheduler(t *testing.T) {
	immediate := SchedulerFunc(func(fn func()) func() {
		fn()
		return func() {}
	})
	c := NewCoalescer(immediate)

	calls := 0
	c.Request(func() { calls++ })
	c.Request(func() { calls++ })
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if c.Pending() {
		t.Error("synchronous scheduler should leave nothing pending")
	}
}

func TestTicker_RunsQueuedCallbacks(t *testing.T) {
	tk := NewTicker(time.Millisecond)
	defer tk.Stop()

	done := make(chan struct{})
	tk.RequestFrame(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ticker callback did not run")
	}
}

func TestTicker_StopWithoutStart(t *testing.T) {
	tk := NewTicker(0)
	tk.Stop()
	tk.Stop()
}

func TestTicker_StopDiscardsQueued(t *testing.T) {
	tk := NewTicker(time.Hour)
	var ran atomic.Bool
	tk.RequestFrame(func() { ran.Store(true) })
	tk.Stop()
	if ran.Load() {
		t.Error("callback ran after Stop")
	}
}
