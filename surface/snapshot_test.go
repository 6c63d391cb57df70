package surface

import (
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	src, _ := newTestSurface(t)
	src.Controls.Get(CtlGate).SetValue(55)
	src.Controls.Get(CtlSwing).SetValue(-20)
	src.Controls.Get(CtlRate).SetIndex(0)
	src.Controls.Get(CtlActive).SetOn(false)
	src.Controls.Get(CtlFeelXY).SetPoint(0.1, 0.9)
	src.Matrix.SetFlag(0, ColM1, true)
	src.Matrix.SetFlag(3, ColS2, true)
	src.Matrix.SetPriority(2, 4)
	src.Matrix.SetPercent(1, 1, 42)

	snap := src.Capture()

	dst, _ := newTestSurface(t)
	dst.Restore(snap)

	if got := dst.Controls.Get(CtlGate).Value(); got != 55 {
		t.Fatalf("gate %f, want 55", got)
	}
	if got := dst.Controls.Get(CtlSwing).Value(); got != -20 {
		t.Fatalf("swing %f, want -20", got)
	}
	if got := dst.Controls.Get(CtlRate).Label(); got != "1/4" {
		t.Fatalf("rate %q, want 1/4", got)
	}
	if dst.Controls.Get(CtlActive).On() {
		t.Fatal("active should restore off")
	}
	x, y := dst.Controls.Get(CtlFeelXY).Point()
	if x != 0.1 || y != 0.9 {
		t.Fatalf("feel point %f,%f", x, y)
	}
	if !dst.Matrix.Flag(0, ColM1) || !dst.Matrix.Flag(3, ColS2) {
		t.Fatal("matrix flags not restored")
	}
	if dst.Matrix.Priority(2) != 4 {
		t.Fatalf("priority %d, want 4", dst.Matrix.Priority(2))
	}
	if dst.Matrix.Row(1).P1 != 42 {
		t.Fatalf("send %f, want 42", dst.Matrix.Row(1).P1)
	}
}

func TestRestoreResizesDependentsBeforeSelecting(t *testing.T) {
	src, _ := newTestSurface(t)
	src.Controls.Get(CtlSteps).SetIndex(1) // 8 steps
	src.Controls.Get(CtlPulses).SetIndex(7)
	snap := src.Capture()

	dst, _ := newTestSurface(t) // comes up at 16 steps
	dst.Restore(snap)

	pulses := dst.Controls.Get(CtlPulses)
	if got := len(pulses.Options()); got != 9 {
		t.Fatalf("pulses options %d after restoring 8 steps, want 9", got)
	}
	if pulses.Label() != "7" {
		t.Fatalf("pulses %q, want 7", pulses.Label())
	}
}

func TestRestoreForcesThroughPairingGate(t *testing.T) {
	src, _ := newTestSurface(t)
	src.Controls.Get(FixedID(1)).SetOn(true)
	src.Controls.Get(LevelID(1)).SetValue(120)
	snap := src.Capture()

	dst, _ := newTestSurface(t) // fresh pairing has level disabled
	dst.Restore(snap)

	level := dst.Controls.Get(LevelID(1))
	if got := level.Value(); got != 120 {
		t.Fatalf("level %f, want 120 despite the input gate", got)
	}
	if !level.IsEnabled() {
		t.Fatal("restored fixed-on row should leave level enabled")
	}
	if dst.Controls.Get(ScaleID(1)).IsEnabled() {
		t.Fatal("restored fixed-on row should leave scale disabled")
	}
}

func TestRestoreSkipsActionButton(t *testing.T) {
	src, _ := newTestSurface(t)
	snap := src.Capture()
	on := true
	snap.Controls[CtlBendAction] = ControlSnapshot{On: &on}

	dst, _ := newTestSurface(t)
	dst.Restore(snap)
	if !dst.Bender.IsFlat() {
		t.Fatal("a saved action press must not fire on restore")
	}
}

func TestRestoreNilSnapshotIsNoOp(t *testing.T) {
	s, _ := newTestSurface(t)
	s.Restore(nil)
	if got := s.Controls.Get(CtlGate).Value(); got != 80 {
		t.Fatalf("nil restore changed state: %f", got)
	}
}

func TestSessionSaveLoadList(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	src, _ := newTestSurface(t)
	src.Controls.Get(CtlVolume).SetValue(33)
	src.Matrix.SetFlag(2, ColM2, true)
	if err := src.SaveSession("groove"); err != nil {
		t.Fatal(err)
	}

	names, err := ListSessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "groove" {
		t.Fatalf("sessions %v, want [groove]", names)
	}

	dst, _ := newTestSurface(t)
	if err := dst.LoadSession("groove"); err != nil {
		t.Fatal(err)
	}
	if got := dst.Controls.Get(CtlVolume).Value(); got != 33 {
		t.Fatalf("volume %f, want 33", got)
	}
	if !dst.Matrix.Flag(2, ColM2) {
		t.Fatalf("matrix flag not restored from disk")
	}
}

func TestLoadMissingSessionFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	s, _ := newTestSurface(t)
	if err := s.LoadSession("nope"); err == nil {
		t.Fatal("expected error for missing session")
	}
}
