package midi

import (
	"math"

	"github.com/augmaticaudio/gre/surface"
)

// Mapping binds one surface identifier to a CC number and the value range
// used to scale raw values onto the 0..127 wire.
type Mapping struct {
	CC       uint8
	Min, Max float64
}

// CCValue scales a raw parameter value into 0..127.
func (m Mapping) CCValue(v float64) uint8 {
	if m.Max <= m.Min {
		return 0
	}
	norm := (v - m.Min) / (m.Max - m.Min)
	if norm < 0 {
		norm = 0
	}
	if norm > 1 {
		norm = 1
	}
	return uint8(math.Round(norm * 127))
}

// paramTable is the engine's parameter table: every identifier the native
// engine recognizes. Identifiers absent here (cosmetic controls) never
// reach the wire.
var paramTable = buildParamTable()

// Lookup returns the mapping for a surface identifier.
func Lookup(id string) (Mapping, bool) {
	m, ok := paramTable[id]
	return m, ok
}

func buildParamTable() map[string]Mapping {
	t := map[string]Mapping{
		surface.CtlSteps:   {CC: 20, Max: 7},  // option index
		surface.CtlPulses:  {CC: 21, Max: 32}, // option index, widest list
		surface.CtlStartOn: {CC: 22, Max: 31},
		surface.CtlRate:    {CC: 23, Max: 3},
		surface.CtlGate:    {CC: 24, Max: 100},
		surface.CtlSwing:   {CC: 25, Min: -50, Max: 50},

		surface.CtlFeelXY + ".x": {CC: 40, Max: 1},
		surface.CtlFeelXY + ".y": {CC: 41, Max: 1},

		surface.CtlVolume:  {CC: 7, Max: 100},
		surface.CtlAccent:  {CC: 42, Max: 100},
		surface.CtlDensity: {CC: 43, Max: 100},
		surface.CtlChannel: {CC: 44, Max: 15},
		surface.CtlActive:  {CC: 45, Max: 1},
	}

	for i := 0; i < surface.NumBenderBands; i++ {
		t[surface.BendWeightID(i)] = Mapping{CC: uint8(30 + i), Min: -1, Max: 1}
	}

	for r := 0; r < surface.NumMixRows; r++ {
		t[surface.FixedID(r)] = Mapping{CC: uint8(50 + r*3), Max: 1}
		t[surface.ScaleID(r)] = Mapping{CC: uint8(51 + r*3), Max: 200}
		t[surface.LevelID(r)] = Mapping{CC: uint8(52 + r*3), Max: 127}
	}

	// Routing matrix rows emit under synthesized identifiers.
	for r := 0; r < surface.NumMixRows; r++ {
		for col := surface.ColM1; col <= surface.ColS2; col++ {
			t[surface.MixFlagID(r, col)] = Mapping{CC: uint8(70 + r*4 + int(col)), Max: 1}
		}
		t[surface.MixPriorityID(r)] = Mapping{CC: uint8(100 + r), Max: surface.MaxPriority}
		t[surface.MixPercentID(r, 1)] = Mapping{CC: uint8(106 + r), Max: 100}
		t[surface.MixPercentID(r, 2)] = Mapping{CC: uint8(112 + r), Max: 100}
	}

	return t
}
