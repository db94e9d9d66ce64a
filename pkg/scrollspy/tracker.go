package scrollspy

import (
	"sync"

	"github.com/vango-dev/portfolio/pkg/frame"
)

// Viewport reports the current viewport height.
type Viewport interface {
	Height() float64
}

// ViewportFunc adapts a function to the Viewport interface.
type ViewportFunc func() float64

// Height calls f.
func (f ViewportFunc) Height() float64 {
	return f()
}

// EventSource is something listeners can be attached to, such as the window
// or a scroll container.
type EventSource interface {
	Listen(event string, fn func()) (remove func())
}

// Event names the tracker listens for.
const (
	EventScroll = "scroll"
	EventResize = "resize"
)

// Options configures a Tracker. Zero values select the defaults.
type Options struct {
	// AnchorRatio is the anchor line position as a fraction of the viewport
	// height. Default: DefaultAnchorRatio.
	AnchorRatio float64

	// SafeZone is the inward margin applied to section edges.
	// Default: DefaultSafeZone. Use a negative value for no margin.
	SafeZone float64

	// Container is an optional scroll container whose scroll events are
	// tracked in addition to the window.
	Container EventSource

	// Scheduler coalesces event handling to one update per frame.
	// Required by Attach.
	Scheduler frame.Scheduler

	// OnChange is called after the active key changes.
	OnChange func(key string)
}

// Tracker computes the active section of a Registry.
type Tracker struct {
	reg      *Registry
	viewport Viewport
	opts     Options

	// step serializes Update so measurements publish in order.
	step sync.Mutex

	mu      sync.Mutex
	active  string
	updates int
}

// New creates a Tracker. The active key starts as the first registered key.
func New(reg *Registry, viewport Viewport, opts Options) *Tracker {
	if opts.AnchorRatio <= 0 {
		opts.AnchorRatio = DefaultAnchorRatio
	}
	if opts.SafeZone == 0 {
		opts.SafeZone = DefaultSafeZone
	} else if opts.SafeZone < 0 {
		opts.SafeZone = 0
	}

	t := &Tracker{reg: reg, viewport: viewport, opts: opts}
	t.active, _ = reg.First()
	return t
}

// Anchor returns the anchor line for the current viewport.
func (t *Tracker) Anchor() float64 {
	return t.viewport.Height() * t.opts.AnchorRatio
}

// Active returns the active section key. Before any section has been
// measured it is the first registered key.
func (t *Tracker) Active() string {
	t.mu.Lock()
	active := t.active
	t.mu.Unlock()
	if active == "" || !t.reg.Has(active) {
		first, _ := t.reg.First()
		return first
	}
	return active
}

// Updates returns how many times the active key has changed.
func (t *Tracker) Updates() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updates
}

// Update measures the registry and publishes the active key. It reports
// whether the key changed. When no section is live the key stays put unless
// it was unregistered, in which case the first registered key takes over.
// Concurrent calls run one at a time; OnChange must not call Update.
func (t *Tracker) Update() bool {
	t.step.Lock()
	defer t.step.Unlock()

	key, ok := Pick(t.reg.Measure(), t.Anchor(), t.opts.SafeZone)
	if !ok {
		t.mu.Lock()
		current := t.active
		t.mu.Unlock()
		if current != "" && t.reg.Has(current) {
			return false
		}
		if key, ok = t.reg.First(); !ok {
			return false
		}
	}

	t.mu.Lock()
	if key == t.active {
		t.mu.Unlock()
		return false
	}
	t.active = key
	t.updates++
	t.mu.Unlock()

	if t.opts.OnChange != nil {
		t.opts.OnChange(key)
	}
	return true
}

// Attach listens for scroll and resize on window, and scroll on the
// configured container, then runs one initial Update. Events are coalesced
// to one Update per frame. The returned teardown removes every listener and
// drops a pending frame; it is safe to call more than once.
func (t *Tracker) Attach(window EventSource) (teardown func()) {
	if t.opts.Scheduler == nil {
		panic("scrollspy: Attach requires Options.Scheduler")
	}

	c := frame.NewCoalescer(t.opts.Scheduler)
	onEvent := func() {
		c.Request(func() { t.Update() })
	}

	var removers []func()
	if window != nil {
		removers = append(removers,
			window.Listen(EventScroll, onEvent),
			window.Listen(EventResize, onEvent),
		)
	}
	if t.opts.Container != nil {
		removers = append(removers, t.opts.Container.Listen(EventScroll, onEvent))
	}

	t.Update()

	var once sync.Once
	return func() {
		once.Do(func() {
			for _, remove := range removers {
				if remove != nil {
					remove()
				}
			}
			c.Cancel()
		})
	}
}
