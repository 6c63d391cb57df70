package surface

import (
	"fmt"
	"math"
	"sort"
)

// Kind is the value domain of a control
type Kind int

const (
	KindUnipolar Kind = iota // continuous, min..max
	KindBipolar              // continuous, symmetric around 0
	KindIndex                // selection into an ordered option list
	KindBool                 // two-state
	KindPoint                // two continuous coordinates, each 0..1
)

// Widget is the visual flavor of a control. The surface model treats all
// widgets of the same Kind identically; Widget only matters to the renderer.
type Widget int

const (
	WidgetKnob Widget = iota
	WidgetVSlider
	WidgetHSlider
	WidgetToggleSlider
	WidgetToggleButton
	WidgetMomentary
	WidgetXYPad
	WidgetDropdown
	WidgetScrollList
)

// Hook priorities. Hooks fire in ascending priority order, insertion order
// within the same priority. Constraint recompute must run before the engine
// sees the value, and the engine before any display update.
const (
	HookConstraint = 0
	HookEngine     = 1
	HookDisplay    = 2
)

// Spec declares a single control. Exactly one of the value groups is
// meaningful depending on Kind.
type Spec struct {
	ID     string
	Kind   Kind
	Widget Widget

	// Continuous kinds
	Min, Max, Default float64

	// KindIndex
	Options      []string
	DefaultIndex int

	// KindBool
	DefaultOn bool

	// KindPoint
	DefaultX, DefaultY float64
}

// ConfigError reports an invalid control declaration. Construction of the
// offending control is abandoned; the rest of the surface still comes up.
type ConfigError struct {
	ID     string
	Reason string
}

func (e *ConfigError) Error() string {
	id := e.ID
	if id == "" {
		id = "(unnamed)"
	}
	return fmt.Sprintf("control %s: %s", id, e.Reason)
}

type hook struct {
	priority int
	seq      int
	fn       func(*Control)
}

// Control is the single typed value model behind every widget on the
// surface. All cross-wiring (constraints, bulk actions, engine emission)
// goes through this one contract.
type Control struct {
	id     string
	kind   Kind
	widget Widget

	min, max float64
	def      float64
	value    float64

	options  []string
	index    int
	defIndex int

	on    bool
	defOn bool

	x, y       float64
	defX, defY float64

	enabled bool

	hooks   []hook
	hookSeq int
}

// NewControl validates a declaration and builds the control in its default
// state. No notification fires during construction.
func NewControl(spec Spec) (*Control, error) {
	if spec.ID == "" {
		return nil, &ConfigError{Reason: "missing identifier"}
	}
	c := &Control{
		id:      spec.ID,
		kind:    spec.Kind,
		widget:  spec.Widget,
		enabled: true,
	}
	switch spec.Kind {
	case KindUnipolar, KindBipolar:
		if spec.Max <= spec.Min {
			return nil, &ConfigError{ID: spec.ID, Reason: "empty value range"}
		}
		c.min, c.max = spec.Min, spec.Max
		c.def = clamp(spec.Default, spec.Min, spec.Max)
		c.value = c.def
	case KindIndex:
		if len(spec.Options) == 0 {
			return nil, &ConfigError{ID: spec.ID, Reason: "discrete control with no options"}
		}
		c.options = append([]string(nil), spec.Options...)
		c.defIndex = clampInt(spec.DefaultIndex, 0, len(c.options)-1)
		c.index = c.defIndex
	case KindBool:
		c.defOn = spec.DefaultOn
		c.on = c.defOn
	case KindPoint:
		c.min, c.max = 0, 1
		c.defX = clamp(spec.DefaultX, 0, 1)
		c.defY = clamp(spec.DefaultY, 0, 1)
		c.x, c.y = c.defX, c.defY
	default:
		return nil, &ConfigError{ID: spec.ID, Reason: "unknown control kind"}
	}
	return c, nil
}

func (c *Control) ID() string     { return c.id }
func (c *Control) Kind() Kind     { return c.kind }
func (c *Control) Widget() Widget { return c.widget }
func (c *Control) Min() float64   { return c.min }
func (c *Control) Max() float64   { return c.max }

// IsEnabled reports whether the control currently accepts input mutation.
func (c *Control) IsEnabled() bool { return c.enabled }

// SetEnabled flips the input gate. It never notifies: enabled is a
// display/gating flag, not a value change.
func (c *Control) SetEnabled(enabled bool) { c.enabled = enabled }

// Value returns the current numeric value. For KindBool it is 0 or 1, for
// KindIndex the selected index, for KindPoint the X coordinate.
func (c *Control) Value() float64 {
	switch c.kind {
	case KindBool:
		if c.on {
			return 1
		}
		return 0
	case KindIndex:
		return float64(c.index)
	case KindPoint:
		return c.x
	default:
		return c.value
	}
}

// Point returns both coordinates of a point control.
func (c *Control) Point() (x, y float64) { return c.x, c.y }

// On reports the state of a boolean control.
func (c *Control) On() bool { return c.on }

// Index returns the selected option index of a discrete control.
func (c *Control) Index() int { return c.index }

// Label returns the selected option label, or "" for non-discrete controls.
func (c *Control) Label() string {
	if c.kind != KindIndex || c.index < 0 || c.index >= len(c.options) {
		return ""
	}
	return c.options[c.index]
}

// Options returns the current option list of a discrete control.
func (c *Control) Options() []string {
	return append([]string(nil), c.options...)
}

// Norm returns the value mapped into 0..1 using the same min/max the
// control reports, so bipolar zero always lands at the geometric center.
func (c *Control) Norm() float64 {
	switch c.kind {
	case KindBool:
		if c.on {
			return 1
		}
		return 0
	case KindIndex:
		if len(c.options) <= 1 {
			return 0
		}
		return float64(c.index) / float64(len(c.options)-1)
	case KindPoint:
		return c.x
	default:
		return (c.value - c.min) / (c.max - c.min)
	}
}

// SetValue clamps v to the control's domain and stores it. Disabled
// controls refuse the mutation and keep their stored value. Exactly one
// synchronous notification fires on acceptance.
func (c *Control) SetValue(v float64) {
	if !c.enabled {
		return
	}
	switch c.kind {
	case KindUnipolar, KindBipolar:
		c.value = clamp(v, c.min, c.max)
	case KindIndex:
		c.index = clampInt(int(math.Round(v)), 0, len(c.options)-1)
	case KindBool:
		c.on = v != 0
	case KindPoint:
		c.x = clamp(v, 0, 1)
	}
	c.notify()
}

// SetPoint sets both coordinates of a point control and notifies once.
func (c *Control) SetPoint(x, y float64) {
	if !c.enabled || c.kind != KindPoint {
		return
	}
	c.x = clamp(x, 0, 1)
	c.y = clamp(y, 0, 1)
	c.notify()
}

// SetOn sets a boolean control.
func (c *Control) SetOn(on bool) {
	if !c.enabled || c.kind != KindBool {
		return
	}
	c.on = on
	c.notify()
}

// Toggle flips a boolean control.
func (c *Control) Toggle() {
	c.SetOn(!c.on)
}

// SetIndex selects an option by index, clamped to the current list.
func (c *Control) SetIndex(i int) {
	if !c.enabled || c.kind != KindIndex {
		return
	}
	c.index = clampInt(i, 0, len(c.options)-1)
	c.notify()
}

// SetOptions installs a new option list and selection on a discrete
// control and notifies, so logic downstream of the control re-evaluates.
// This is the constraint-engine install path and is not gated by enabled.
func (c *Control) SetOptions(options []string, index int) {
	if c.kind != KindIndex || len(options) == 0 {
		return
	}
	c.options = append([]string(nil), options...)
	c.index = clampInt(index, 0, len(c.options)-1)
	c.notify()
}

// Reset restores the declared default, with the same notification
// behavior as SetValue.
func (c *Control) Reset() {
	switch c.kind {
	case KindIndex:
		c.SetIndex(c.defIndex)
	case KindBool:
		c.SetOn(c.defOn)
	case KindPoint:
		c.SetPoint(c.defX, c.defY)
	default:
		c.SetValue(c.def)
	}
}

// Subscribe registers a change hook at the given priority. Hooks run
// synchronously and depth-first: a hook that mutates another control sees
// that mutation's own hooks complete before it returns.
func (c *Control) Subscribe(priority int, fn func(*Control)) {
	c.hookSeq++
	c.hooks = append(c.hooks, hook{priority: priority, seq: c.hookSeq, fn: fn})
	sort.SliceStable(c.hooks, func(i, j int) bool {
		if c.hooks[i].priority != c.hooks[j].priority {
			return c.hooks[i].priority < c.hooks[j].priority
		}
		return c.hooks[i].seq < c.hooks[j].seq
	})
}

func (c *Control) notify() {
	for _, h := range c.hooks {
		h.fn(c)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
