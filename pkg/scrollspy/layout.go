package scrollspy

import "sync"

// Scroll is a shared vertical scroll offset.
type Scroll struct {
	mu sync.RWMutex
	y  float64
}

// Set updates the offset.
func (s *Scroll) Set(y float64) {
	s.mu.Lock()
	s.y = y
	s.mu.Unlock()
}

// Y returns the offset.
func (s *Scroll) Y() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.y
}

// StaticLayout is a section placed in document coordinates. Its viewport
// bounds are derived from the shared scroll offset.
type StaticLayout struct {
	Offset float64
	Height float64
	Scroll *Scroll

	// Hidden marks the section as unmounted.
	Hidden bool
}

// Bounds implements Element.
func (l *StaticLayout) Bounds() (Rect, bool) {
	if l == nil || l.Hidden {
		return Rect{}, false
	}
	var y float64
	if l.Scroll != nil {
		y = l.Scroll.Y()
	}
	top := l.Offset - y
	return Rect{Top: top, Bottom: top + l.Height}, true
}

// Emitter is an in-process EventSource.
type Emitter struct {
	mu        sync.Mutex
	nextID    int
	listeners map[string]map[int]func()
}

// NewEmitter creates an Emitter.
func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[string]map[int]func())}
}

// Listen implements EventSource.
func (e *Emitter) Listen(event string, fn func()) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	if e.listeners[event] == nil {
		e.listeners[event] = make(map[int]func())
	}
	e.listeners[event][id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners[event], id)
	}
}

// Emit calls every listener for event.
func (e *Emitter) Emit(event string) {
	e.mu.Lock()
	fns := make([]func(), 0, len(e.listeners[event]))
	for _, fn := range e.listeners[event] {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// ListenerCount returns the number of listeners for event.
func (e *Emitter) ListenerCount(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[event])
}
