// Package stagger assigns sequential reveal delays to the entrance items of
// a container so they animate in one after another.
//
// A Controller is one-shot: the first Arm enumerates the container's items in
// document order and gives item i the delay BaseDelay + i*Step. Items added
// later are never staggered, and the controller cannot be re-armed.
package stagger

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Plan holds the timing of a stagger.
type Plan struct {
	BaseDelay time.Duration
	Step      time.Duration
}

// DefaultPlan is the timing used for section headers and grids.
var DefaultPlan = Plan{BaseDelay: 60 * time.Millisecond, Step: 70 * time.Millisecond}

// Delay returns the reveal delay of the i-th item.
func (p Plan) Delay(i int) time.Duration {
	return p.BaseDelay + time.Duration(i)*p.Step
}

// Delays returns the delays of n items.
func (p Plan) Delays(n int) []time.Duration {
	if n <= 0 {
		return nil
	}
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = p.Delay(i)
	}
	return out
}

// Item is an element that takes a reveal delay.
type Item interface {
	SetRevealDelay(d time.Duration)
}

// ItemFunc adapts a function to the Item interface.
type ItemFunc func(d time.Duration)

// SetRevealDelay calls f(d).
func (f ItemFunc) SetRevealDelay(d time.Duration) {
	f(d)
}

// Container lists its entrance items in document order.
type Container interface {
	EntranceItems() []Item
}

// ContainerFunc adapts a function to the Container interface.
type ContainerFunc func() []Item

// EntranceItems calls f.
func (f ContainerFunc) EntranceItems() []Item {
	return f()
}

// Items is a fixed Container.
type Items []Item

// EntranceItems implements Container.
func (it Items) EntranceItems() []Item {
	return it
}

// Controller arms a one-time stagger of a container.
type Controller struct {
	container Container
	plan      Plan

	once  sync.Once
	mu    sync.Mutex
	armed bool
}

// New creates a Controller for container.
func New(container Container, plan Plan) *Controller {
	return &Controller{container: container, plan: plan}
}

// Plan returns the controller's timing.
func (c *Controller) Plan() Plan {
	return c.plan
}

// Arm assigns delays to the container's current items and returns how many
// were staggered. Only the first call does any work; later calls return 0.
func (c *Controller) Arm() int {
	n := 0
	c.once.Do(func() {
		if c.container != nil {
			for i, item := range c.container.EntranceItems() {
				if item == nil {
					continue
				}
				item.SetRevealDelay(c.plan.Delay(i))
				n++
			}
		}
		c.mu.Lock()
		c.armed = true
		c.mu.Unlock()
	})
	return n
}

// ArmOn arms the controller once ready is closed. If ctx ends first the
// controller is left unarmed. ArmOn blocks; run it in a goroutine when the
// trigger is asynchronous. It returns the number of staggered items.
func (c *Controller) ArmOn(ctx context.Context, ready <-chan struct{}) (int, error) {
	select {
	case <-ready:
		return c.Arm(), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Armed reports whether Arm has run.
func (c *Controller) Armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.armed
}

// CSSDelay formats d as a CSS time value in whole milliseconds.
func CSSDelay(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
}
