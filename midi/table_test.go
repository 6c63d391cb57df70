package midi

import (
	"testing"

	"github.com/augmaticaudio/gre/surface"
)

func TestCCValueScalesEndpoints(t *testing.T) {
	m := Mapping{CC: 24, Max: 100}
	if got := m.CCValue(0); got != 0 {
		t.Fatalf("min should map to 0, got %d", got)
	}
	if got := m.CCValue(100); got != 127 {
		t.Fatalf("max should map to 127, got %d", got)
	}
	if got := m.CCValue(50); got != 64 {
		t.Fatalf("midpoint should round to 64, got %d", got)
	}
}

func TestCCValueClampsOutOfRange(t *testing.T) {
	m := Mapping{CC: 25, Min: -50, Max: 50}
	if got := m.CCValue(-999); got != 0 {
		t.Fatalf("below range should clamp to 0, got %d", got)
	}
	if got := m.CCValue(999); got != 127 {
		t.Fatalf("above range should clamp to 127, got %d", got)
	}
	if got := m.CCValue(0); got != 64 {
		t.Fatalf("bipolar zero should land mid-wire, got %d", got)
	}
}

func TestCCValueDegenerateRange(t *testing.T) {
	m := Mapping{CC: 1}
	if got := m.CCValue(5); got != 0 {
		t.Fatalf("degenerate range should emit 0, got %d", got)
	}
}

func TestLookupKnowsEverySurfaceEmission(t *testing.T) {
	// Every identifier the surface emits toward the engine must resolve.
	ids := []string{
		surface.CtlSteps, surface.CtlPulses, surface.CtlStartOn,
		surface.CtlRate, surface.CtlGate, surface.CtlSwing,
		surface.CtlFeelXY + ".x", surface.CtlFeelXY + ".y",
		surface.CtlVolume, surface.CtlAccent, surface.CtlDensity,
		surface.CtlChannel, surface.CtlActive,
	}
	for i := 0; i < surface.NumBenderBands; i++ {
		ids = append(ids, surface.BendWeightID(i))
	}
	for r := 0; r < surface.NumMixRows; r++ {
		ids = append(ids, surface.FixedID(r), surface.ScaleID(r), surface.LevelID(r))
		for col := surface.ColM1; col <= surface.ColS2; col++ {
			ids = append(ids, surface.MixFlagID(r, col))
		}
		ids = append(ids, surface.MixPriorityID(r),
			surface.MixPercentID(r, 1), surface.MixPercentID(r, 2))
	}

	for _, id := range ids {
		if _, ok := Lookup(id); !ok {
			t.Fatalf("parameter table missing %s", id)
		}
	}
}

func TestLookupDropsCosmeticIdentifiers(t *testing.T) {
	for _, id := range []string{surface.CtlBendAction, "mix.all.m1", "no.such.param"} {
		if _, ok := Lookup(id); ok {
			t.Fatalf("parameter table should not contain %s", id)
		}
	}
}

func TestTableAssignsUniqueCCs(t *testing.T) {
	seen := map[uint8]string{}
	for id, m := range paramTable {
		if prev, dup := seen[m.CC]; dup {
			t.Fatalf("CC %d assigned to both %s and %s", m.CC, prev, id)
		}
		seen[m.CC] = id
	}
}

func TestNewEngineChannelValidation(t *testing.T) {
	if e := NewEngine("", 3); e.channel != 2 {
		t.Fatalf("channel 3 should be wire channel 2, got %d", e.channel)
	}
	if e := NewEngine("", 0); e.channel != 9 {
		t.Fatalf("invalid channel should default to 10 (wire 9), got %d", e.channel)
	}
	if e := NewEngine("", 99); e.channel != 9 {
		t.Fatalf("invalid channel should default to 10 (wire 9), got %d", e.channel)
	}
}

func TestParamWithoutPortIsSilent(t *testing.T) {
	e := NewEngine("", 10)
	// No port configured: emission must be a safe no-op.
	e.Param(surface.CtlGate, 50)
	e.Param("unknown", 1)
}
