package surface

import (
	"math/rand"
	"testing"
)

type recordingSink struct {
	events []matrixEvent
}

func (r *recordingSink) Param(id string, v float64) {
	r.events = append(r.events, matrixEvent{id, v})
}

func (r *recordingSink) last() (matrixEvent, bool) {
	if len(r.events) == 0 {
		return matrixEvent{}, false
	}
	return r.events[len(r.events)-1], true
}

func newTestSurface(t *testing.T) (*Surface, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	s, err := New(sink, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatal(err)
	}
	return s, sink
}

func TestSurfaceComesUpConsistent(t *testing.T) {
	s, _ := newTestSurface(t)

	// Step dependency applied at init
	pulses := s.Controls.Get(CtlPulses)
	if got := len(pulses.Options()); got != 17 {
		t.Fatalf("pulses options %d under default 16 steps, want 17", got)
	}

	// Fixed defaults off: scale takes input, level does not
	if !s.Controls.Get(ScaleID(0)).IsEnabled() {
		t.Fatal("scale should start enabled")
	}
	if s.Controls.Get(LevelID(0)).IsEnabled() {
		t.Fatal("level should start disabled")
	}
}

func TestGestureEmitsEngineEvent(t *testing.T) {
	s, sink := newTestSurface(t)
	sink.events = nil

	s.Controls.Get(CtlGate).SetValue(65)
	ev, ok := sink.last()
	if !ok || ev.id != CtlGate || ev.v != 65 {
		t.Fatalf("expected (%s, 65), got %v", CtlGate, sink.events)
	}
}

func TestPointControlEmitsBothCoordinates(t *testing.T) {
	s, sink := newTestSurface(t)
	sink.events = nil

	s.Controls.Get(CtlFeelXY).SetPoint(0.25, 0.75)
	if len(sink.events) != 2 {
		t.Fatalf("expected two events, got %v", sink.events)
	}
	if sink.events[0] != (matrixEvent{CtlFeelXY + ".x", 0.25}) ||
		sink.events[1] != (matrixEvent{CtlFeelXY + ".y", 0.75}) {
		t.Fatalf("coordinate events %v", sink.events)
	}
}

func TestFixedToggleSwapsScaleAndLevel(t *testing.T) {
	s, _ := newTestSurface(t)
	fixed := s.Controls.Get(FixedID(2))
	scale := s.Controls.Get(ScaleID(2))
	level := s.Controls.Get(LevelID(2))

	fixed.SetOn(true)
	if scale.IsEnabled() || !level.IsEnabled() {
		t.Fatal("fixed on should disable scale and enable level")
	}

	// The gated control keeps its value and refuses input
	scale.SetValue(150)
	if scale.Value() != 100 {
		t.Fatalf("disabled scale accepted input: %f", scale.Value())
	}

	fixed.SetOn(false)
	if !scale.IsEnabled() || level.IsEnabled() {
		t.Fatal("fixed off should restore the initial pairing")
	}
}

func TestBenderKnobDrivesModelWeight(t *testing.T) {
	s, _ := newTestSurface(t)
	s.Controls.Get(BendWeightID(1)).SetValue(0.6)
	if got := s.Bender.Weight(1); got != 0.6 {
		t.Fatalf("bender weight %f, want 0.6", got)
	}
}

func TestBenderActionAlternatesRandomizeAndReset(t *testing.T) {
	s, sink := newTestSurface(t)
	action := s.Controls.Get(CtlBendAction)

	if s.BenderActionLabel() != "Randomize" {
		t.Fatalf("flat bender label %q", s.BenderActionLabel())
	}

	action.SetOn(true)
	if s.Bender.IsFlat() {
		t.Fatal("press on a flat bender should randomize")
	}
	if action.On() {
		t.Fatal("momentary button should release itself")
	}
	if s.BenderActionLabel() != "Reset" {
		t.Fatalf("bent bender label %q", s.BenderActionLabel())
	}

	// Knobs were synced to the new weights
	for i := 0; i < NumBenderBands; i++ {
		if s.Controls.Get(BendWeightID(i)).Value() != s.Bender.Weight(i) {
			t.Fatalf("knob %d out of sync with model", i)
		}
	}

	sink.events = nil
	action.SetOn(true)
	if !s.Bender.IsFlat() {
		t.Fatal("press on a bent bender should reset")
	}
	for i := 0; i < NumBenderBands; i++ {
		if s.Controls.Get(BendWeightID(i)).Value() != 0 {
			t.Fatalf("knob %d not zeroed by reset", i)
		}
	}
}

func TestBenderActionEmitsNoEngineEvent(t *testing.T) {
	s, sink := newTestSurface(t)
	s.Bender.SetWeight(0, 0.5) // make the next press a reset, knobs already zero
	sink.events = nil

	s.Controls.Get(CtlBendAction).SetOn(true)
	for _, ev := range sink.events {
		if ev.id == CtlBendAction {
			t.Fatalf("action button leaked to the engine: %v", sink.events)
		}
	}
}

func TestSummaryToggleRunsColumnBulk(t *testing.T) {
	s, _ := newTestSurface(t)
	all := s.Controls.Get(ColumnAllID(ColM1))

	all.Toggle()
	for r := 0; r < NumMixRows; r++ {
		if !s.Matrix.Flag(r, ColM1) {
			t.Fatalf("row %d M1 off after summary enable", r)
		}
	}
	if !all.On() {
		t.Fatal("summary toggle should reflect the full column")
	}

	all.Toggle()
	for r := 0; r < NumMixRows; r++ {
		if s.Matrix.Flag(r, ColM1) {
			t.Fatalf("row %d M1 on after summary disable", r)
		}
	}
	if all.On() {
		t.Fatal("summary toggle should clear with the column")
	}
}

func TestRowEditUpdatesSummaryToggle(t *testing.T) {
	s, _ := newTestSurface(t)
	all := s.Controls.Get(ColumnAllID(ColS1))

	for r := 0; r < NumMixRows; r++ {
		s.Matrix.SetFlag(r, ColS1, true)
	}
	if !all.On() {
		t.Fatal("filling the column by rows should light the summary toggle")
	}

	s.Matrix.SetFlag(3, ColS1, false)
	if all.On() {
		t.Fatal("clearing one row should clear the summary toggle")
	}
	// The sync write must not have triggered a bulk operation
	if s.Matrix.Flag(0, ColS1) != true {
		t.Fatal("summary sync cascaded into a bulk disable")
	}
}

func TestMatrixChangesReachTheSink(t *testing.T) {
	s, sink := newTestSurface(t)
	sink.events = nil

	s.Matrix.SetFlag(1, ColM2, true)
	ev, ok := sink.last()
	if !ok || ev.id != MixFlagID(1, ColM2) || ev.v != 1 {
		t.Fatalf("expected flag event, got %v", sink.events)
	}
}

func TestRedrawFiresAfterMutation(t *testing.T) {
	s, _ := newTestSurface(t)
	redraws := 0
	s.OnRedraw(func() { redraws++ })

	s.Controls.Get(CtlSwing).SetValue(10)
	if redraws != 1 {
		t.Fatalf("one gesture should redraw once, got %d", redraws)
	}

	s.Matrix.SetPriority(0, 2)
	if redraws != 2 {
		t.Fatalf("matrix edit should redraw, got %d", redraws)
	}
}

func TestDragLifecycle(t *testing.T) {
	s, _ := newTestSurface(t)

	d := s.BeginDrag(CtlVolume)
	if !s.Dragging() {
		t.Fatal("drag should be active after begin")
	}
	d.Move(30)
	if got := s.Controls.Get(CtlVolume).Value(); got != 30 {
		t.Fatalf("dragged value %f, want 30", got)
	}

	d.End()
	d.End() // duplicate release is harmless
	if s.Dragging() {
		t.Fatal("drag still active after end")
	}
	d.Move(99)
	if got := s.Controls.Get(CtlVolume).Value(); got != 30 {
		t.Fatalf("ended drag still moves the control: %f", got)
	}
}

func TestBeginDragEndsPreviousDrag(t *testing.T) {
	s, _ := newTestSurface(t)
	first := s.BeginDrag(CtlVolume)
	_ = s.BeginDrag(CtlAccent)

	first.Move(5)
	if got := s.Controls.Get(CtlVolume).Value(); got != 80 {
		t.Fatalf("superseded drag still live: %f", got)
	}
}

func TestBeginDragUnknownControlIsInert(t *testing.T) {
	s, _ := newTestSurface(t)
	d := s.BeginDrag("no.such.control")
	d.Move(1)
	d.End()
	if s.Dragging() {
		t.Fatal("inert drag registered as active")
	}
}

func TestPanicInSyncHookDoesNotMuteGestures(t *testing.T) {
	s, _ := newTestSurface(t)
	all := s.Controls.Get(ColumnAllID(ColM1))

	// A display hook that blows up exactly once, mid summary sync.
	armed := true
	all.Subscribe(HookDisplay, func(*Control) {
		if armed {
			armed = false
			panic("display hook failure")
		}
	})

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected the hook panic to propagate")
			}
		}()
		s.Matrix.SetFlag(0, ColM1, true)
	}()

	// The reentrancy guard must have been restored: a summary-toggle
	// gesture still runs its bulk operation.
	all.Toggle()
	for r := 0; r < NumMixRows; r++ {
		if !s.Matrix.Flag(r, ColM1) {
			t.Fatalf("row %d M1 off; surface stuck in sync mode", r)
		}
	}
}

func TestCloseReleasesEverything(t *testing.T) {
	s, _ := newTestSurface(t)
	d := s.BeginDrag(CtlVolume)
	s.Close()
	if s.Dragging() {
		t.Fatal("close should end the active drag")
	}
	d.Move(1) // must not panic
	if s.Controls.Get(CtlVolume) != nil {
		t.Fatal("lookups after close should return nil")
	}
}
