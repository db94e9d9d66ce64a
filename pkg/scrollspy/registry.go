package scrollspy

import "sync"

// Element is a rendered section element.
type Element interface {
	// Bounds returns the live layout rectangle. ok is false when the element
	// is not mounted.
	Bounds() (r Rect, ok bool)
}

// ElementFunc adapts a function to the Element interface.
type ElementFunc func() (Rect, bool)

// Bounds calls f.
func (f ElementFunc) Bounds() (Rect, bool) {
	return f()
}

// Registry maps section keys to elements, preserving registration order.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	keys  []string
	elems map[string]Element
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{elems: make(map[string]Element)}
}

// Register adds or replaces the element for key. A replaced key keeps its
// original position.
func (r *Registry) Register(key string, el Element) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.elems[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.elems[key] = el
}

// Unregister removes key. Unknown keys are ignored.
func (r *Registry) Unregister(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.elems[key]; !exists {
		return
	}
	delete(r.elems, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.elems[key]
	return ok
}

// Keys returns the registered keys in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.keys...)
}

// Len returns the number of registered keys.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.keys)
}

// First returns the earliest registered key.
func (r *Registry) First() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.keys) == 0 {
		return "", false
	}
	return r.keys[0], true
}

// Measure returns the bounds of every live element in registration order.
// Nil and unmounted elements are skipped.
func (r *Registry) Measure() []Section {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sections := make([]Section, 0, len(r.keys))
	for _, k := range r.keys {
		el := r.elems[k]
		if el == nil {
			continue
		}
		rect, ok := el.Bounds()
		if !ok {
			continue
		}
		sections = append(sections, Section{Key: k, Rect: rect})
	}
	return sections
}
