package surface

import (
	"github.com/augmaticaudio/gre/debug"
)

// Registry owns every control on the surface. It is built once at
// initialization and handed by reference to whatever needs lookup; no
// controls are created after Build returns.
type Registry struct {
	controls map[string]*Control
	order    []string
	closed   bool
}

// Build constructs one control per declaration. A bad declaration abandons
// that one control (logged) and setup continues; the surface never fails
// wholesale over a single widget.
func Build(specs []Spec) *Registry {
	r := &Registry{controls: make(map[string]*Control, len(specs))}
	for _, spec := range specs {
		c, err := NewControl(spec)
		if err != nil {
			debug.Log("registry", "skipping control: %v", err)
			continue
		}
		if _, dup := r.controls[c.id]; dup {
			debug.Log("registry", "skipping duplicate control id %q", c.id)
			continue
		}
		r.controls[c.id] = c
		r.order = append(r.order, c.id)
	}
	return r
}

// Get returns the control with the given identifier, or nil.
func (r *Registry) Get(id string) *Control {
	if r.closed {
		return nil
	}
	return r.controls[id]
}

// IDs returns control identifiers in declaration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of live controls.
func (r *Registry) Len() int { return len(r.controls) }

// Each visits every control in declaration order.
func (r *Registry) Each(fn func(*Control)) {
	for _, id := range r.order {
		fn(r.controls[id])
	}
}

// Close releases all controls together. Lookups after Close return nil;
// the registry is not reusable.
func (r *Registry) Close() {
	r.controls = nil
	r.order = nil
	r.closed = true
}
