package surface

import (
	"math/rand"
	"strings"

	"github.com/augmaticaudio/gre/debug"
)

// ParamSink receives parameter-change events toward the native engine.
// The sink owns the parameter table; events for identifiers it does not
// recognize are dropped on its side.
type ParamSink interface {
	Param(id string, value float64)
}

// Surface owns the whole control model: the registry, the constraint
// policies, the bender, and the fan-out from control changes to the engine
// sink and the redraw hook. All mutation is synchronous and single-threaded;
// a gesture's full constraint cascade completes before the gesture returns.
type Surface struct {
	Controls *Registry
	Matrix   *Matrix
	Bender   *Bender

	steps *StepDependency
	sink  ParamSink

	// syncing guards model-driven writes to controls (summary toggles,
	// bender knob sync) so they don't re-trigger the gesture paths.
	syncing bool

	activeDrag *Drag
	onRedraw   func()
	pairs      []func()
}

// New builds the surface from the static declarations and wires every
// relation: the step dependency, the Scale/Level pairings, the bender
// knobs, the mix matrix, and engine emission. Initialization drives each
// relation once so the surface comes up consistent.
func New(sink ParamSink, rng *rand.Rand) (*Surface, error) {
	s := &Surface{
		Controls: Build(Declarations()),
		Matrix:   NewMatrix(),
		Bender:   NewBender(rng),
		sink:     sink,
	}

	dep, err := BindStepDependency(s.Controls, CtlSteps, CtlPulses, CtlStartOn)
	if err != nil {
		return nil, err
	}
	s.steps = dep

	for r := 0; r < NumMixRows; r++ {
		s.bindFixedPair(r)
	}
	s.bindBenderKnobs()
	s.bindBenderAction()
	s.bindMatrix()
	s.bindEngine()
	s.bindRedraw()

	return s, nil
}

// OnRedraw installs the display-level redraw trigger, invoked after every
// mutation once all constraint and engine hooks have run.
func (s *Surface) OnRedraw(fn func()) { s.onRedraw = fn }

// Close releases all controls together. The surface is not reusable.
func (s *Surface) Close() {
	if d := s.activeDrag; d != nil {
		d.End()
	}
	s.Controls.Close()
}

// bindFixedPair wires the Fixed toggle of instrument row r to the enabled
// state of its Scale and Level controls, and drives the pairing once with
// the toggle's initial value so the pair never starts inconsistent.
func (s *Surface) bindFixedPair(r int) {
	fixed := s.Controls.Get(FixedID(r))
	scale := s.Controls.Get(ScaleID(r))
	level := s.Controls.Get(LevelID(r))
	if fixed == nil || scale == nil || level == nil {
		debug.Log("surface", "fixed pair %d incomplete, skipping", r)
		return
	}
	apply := func(*Control) {
		// Both sides update before any display hook can observe them.
		scale.SetEnabled(!fixed.On())
		level.SetEnabled(fixed.On())
	}
	fixed.Subscribe(HookConstraint, apply)
	s.pairs = append(s.pairs, func() { apply(fixed) })
	apply(fixed)
}

// applyPairs re-drives every Scale/Level pairing from its Fixed toggle.
func (s *Surface) applyPairs() {
	for _, apply := range s.pairs {
		apply()
	}
}

func (s *Surface) bindBenderKnobs() {
	for i := 0; i < NumBenderBands; i++ {
		band := i
		knob := s.Controls.Get(BendWeightID(i))
		if knob == nil {
			continue
		}
		knob.Subscribe(HookConstraint, func(c *Control) {
			s.Bender.SetWeight(band, c.Value())
		})
	}
}

// bindBenderAction wires the single state-selected bulk action: pressing
// the button randomizes a flat bender and resets a bent one.
func (s *Surface) bindBenderAction() {
	action := s.Controls.Get(CtlBendAction)
	if action == nil {
		return
	}
	action.Subscribe(HookConstraint, func(c *Control) {
		if s.syncing || !c.On() {
			return
		}
		s.runBenderAction()
		s.silently(func() { c.SetOn(false) })
	})
}

func (s *Surface) runBenderAction() {
	if s.Bender.IsFlat() {
		debug.Log("bender", "randomize")
		s.Bender.Randomize()
	} else {
		debug.Log("bender", "reset")
		s.Bender.Reset()
	}
	// Sync the knobs to the new weights. Their own hooks re-install the
	// same weight, which is idempotent, and carry the change downstream.
	for i := 0; i < NumBenderBands; i++ {
		if knob := s.Controls.Get(BendWeightID(i)); knob != nil {
			knob.SetValue(s.Bender.Weight(i))
		}
	}
}

// BenderActionLabel names the next action the bulk button will take.
func (s *Surface) BenderActionLabel() string {
	if s.Bender.IsFlat() {
		return "Randomize"
	}
	return "Reset"
}

func (s *Surface) bindMatrix() {
	s.Matrix.OnChange(func(id string, v float64) {
		if s.sink != nil {
			s.sink.Param(id, v)
		}
	})
	s.Matrix.OnSummary(func() {
		s.silently(func() {
			for col := ColM1; col <= ColS2; col++ {
				if c := s.Controls.Get(ColumnAllID(col)); c != nil {
					c.SetOn(s.Matrix.ColumnAll(col))
				}
			}
		})
		s.redraw()
	})
	// A user gesture on a summary toggle runs the column bulk operation;
	// the summary hook above then snaps the toggle to the real indicator.
	for col := ColM1; col <= ColS2; col++ {
		column := col
		c := s.Controls.Get(ColumnAllID(col))
		if c == nil {
			continue
		}
		c.Subscribe(HookConstraint, func(*Control) {
			if s.syncing {
				return
			}
			s.Matrix.BulkColumn(column)
		})
	}
	s.Matrix.finish()
}

// bindEngine emits (controlId, newValue) for every engine-relevant control.
// Cosmetic controls (the action button, the derived summary toggles) emit
// nothing; point controls emit both coordinates.
func (s *Surface) bindEngine() {
	if s.sink == nil {
		return
	}
	s.Controls.Each(func(c *Control) {
		if cosmeticControl(c.ID()) {
			return
		}
		c.Subscribe(HookEngine, func(c *Control) {
			if c.Kind() == KindPoint {
				x, y := c.Point()
				s.sink.Param(c.ID()+".x", x)
				s.sink.Param(c.ID()+".y", y)
				return
			}
			s.sink.Param(c.ID(), c.Value())
		})
	})
}

func (s *Surface) bindRedraw() {
	s.Controls.Each(func(c *Control) {
		c.Subscribe(HookDisplay, func(*Control) { s.redraw() })
	})
}

func (s *Surface) redraw() {
	if s.onRedraw != nil {
		s.onRedraw()
	}
}

func cosmeticControl(id string) bool {
	return id == CtlBendAction || strings.HasPrefix(id, "mix.all.")
}

// silently runs fn with gesture paths suppressed, so a model-driven write
// to a control cannot re-enter the bulk operations that caused it.
func (s *Surface) silently(fn func()) {
	prev := s.syncing
	s.syncing = true
	defer func() { s.syncing = prev }()
	fn()
}

// Drag is a scoped pointer interaction on a single control. It is created
// by BeginDrag and must be ended on every exit path, including pointer
// cancellation; End is idempotent, so a duplicate release is harmless.
type Drag struct {
	s       *Surface
	control *Control
	done    bool
}

// BeginDrag starts a press-move-release interaction on a control. Any
// still-active previous drag ends first, so a dropped release event cannot
// leave the surface stuck mid-drag.
func (s *Surface) BeginDrag(id string) *Drag {
	if s.activeDrag != nil {
		s.activeDrag.End()
	}
	c := s.Controls.Get(id)
	d := &Drag{s: s, control: c, done: c == nil}
	if c != nil {
		s.activeDrag = d
	}
	return d
}

// Dragging reports whether a drag interaction is currently active.
func (s *Surface) Dragging() bool { return s.activeDrag != nil }

// Move updates the dragged control's value. After End it does nothing.
func (d *Drag) Move(v float64) {
	if d.done {
		return
	}
	d.control.SetValue(v)
	debug.LogEvery(64, "drag", "%s = %f", d.control.ID(), d.control.Value())
}

// MovePoint updates both coordinates of a dragged point control.
func (d *Drag) MovePoint(x, y float64) {
	if d.done {
		return
	}
	d.control.SetPoint(x, y)
	debug.LogEvery(64, "drag", "%s moved", d.control.ID())
}

// End releases the interaction. Safe to call more than once.
func (d *Drag) End() {
	if d.done {
		return
	}
	d.done = true
	if d.s.activeDrag == d {
		d.s.activeDrag = nil
	}
}
