package surface

import (
	"fmt"
	"strconv"
)

// InstrumentNames labels the six instrument channels, in row order.
var InstrumentNames = [NumMixRows]string{"Kick", "Snare", "CH Hat", "OH Hat", "Clap", "Perc"}

// Control identifiers referenced across packages. Per-row identifiers are
// built with the helper functions below.
const (
	CtlSteps   = "gen.steps"
	CtlPulses  = "gen.pulses"
	CtlStartOn = "gen.start"
	CtlRate    = "gen.rate"
	CtlGate    = "gen.gate"
	CtlSwing   = "gen.swing"

	CtlBendAction = "bend.action"

	CtlFeelXY = "feel.xy"

	CtlVolume  = "master.volume"
	CtlAccent  = "master.accent"
	CtlDensity = "master.density"
	CtlChannel = "master.channel"
	CtlActive  = "master.active"
)

// BendWeightID returns the id of bender weight knob i (0..3).
func BendWeightID(i int) string { return fmt.Sprintf("bend.w%d", i+1) }

// FixedID returns the Fixed toggle id for instrument row r.
func FixedID(r int) string { return fmt.Sprintf("inst.%d.fixed", r) }

// ScaleID returns the velocity-scale knob id for instrument row r.
func ScaleID(r int) string { return fmt.Sprintf("inst.%d.scale", r) }

// LevelID returns the fixed-level slider id for instrument row r.
func LevelID(r int) string { return fmt.Sprintf("inst.%d.level", r) }

// ColumnAllID returns the summary toggle id for a mix column.
func ColumnAllID(col MixColumn) string { return fmt.Sprintf("mix.all.%s", col) }

// Declarations returns the static configuration of every control on the
// surface, supplied once at startup. The pulses and start-on lists declared
// here are placeholders; the step dependency resizes them before the
// surface is shown.
func Declarations() []Spec {
	specs := []Spec{
		// Generator
		{ID: CtlSteps, Kind: KindIndex, Widget: WidgetScrollList,
			Options: integerStepLabels(4, 32, 4), DefaultIndex: 3}, // "16"
		{ID: CtlPulses, Kind: KindIndex, Widget: WidgetDropdown,
			Options: integerLabels(0, 16), DefaultIndex: 4},
		{ID: CtlStartOn, Kind: KindIndex, Widget: WidgetDropdown,
			Options: integerLabels(1, 16), DefaultIndex: 0},
		{ID: CtlRate, Kind: KindIndex, Widget: WidgetDropdown,
			Options: []string{"1/4", "1/8", "1/16", "1/32"}, DefaultIndex: 2},
		{ID: CtlGate, Kind: KindUnipolar, Widget: WidgetKnob, Min: 0, Max: 100, Default: 80},
		{ID: CtlSwing, Kind: KindBipolar, Widget: WidgetHSlider, Min: -50, Max: 50, Default: 0},

		// Velocity bender
		{ID: BendWeightID(0), Kind: KindBipolar, Widget: WidgetKnob, Min: -1, Max: 1, Default: 0},
		{ID: BendWeightID(1), Kind: KindBipolar, Widget: WidgetKnob, Min: -1, Max: 1, Default: 0},
		{ID: BendWeightID(2), Kind: KindBipolar, Widget: WidgetKnob, Min: -1, Max: 1, Default: 0},
		{ID: BendWeightID(3), Kind: KindBipolar, Widget: WidgetKnob, Min: -1, Max: 1, Default: 0},
		{ID: CtlBendAction, Kind: KindBool, Widget: WidgetMomentary},

		// Feel
		{ID: CtlFeelXY, Kind: KindPoint, Widget: WidgetXYPad, DefaultX: 0.5, DefaultY: 0.5},

		// Master
		{ID: CtlVolume, Kind: KindUnipolar, Widget: WidgetKnob, Min: 0, Max: 100, Default: 80},
		{ID: CtlAccent, Kind: KindUnipolar, Widget: WidgetVSlider, Min: 0, Max: 100, Default: 50},
		{ID: CtlDensity, Kind: KindUnipolar, Widget: WidgetVSlider, Min: 0, Max: 100, Default: 50},
		{ID: CtlChannel, Kind: KindIndex, Widget: WidgetDropdown,
			Options: integerLabels(1, 16), DefaultIndex: 9},
		{ID: CtlActive, Kind: KindBool, Widget: WidgetToggleButton, DefaultOn: true},
	}

	// Instrument rows: Fixed gates which of Scale/Level accepts input.
	for r := 0; r < NumMixRows; r++ {
		specs = append(specs,
			Spec{ID: FixedID(r), Kind: KindBool, Widget: WidgetToggleSlider},
			Spec{ID: ScaleID(r), Kind: KindUnipolar, Widget: WidgetKnob, Min: 0, Max: 200, Default: 100},
			Spec{ID: LevelID(r), Kind: KindUnipolar, Widget: WidgetVSlider, Min: 0, Max: 127, Default: 100},
		)
	}

	// Mix column summary toggles
	for col := ColM1; col <= ColS2; col++ {
		specs = append(specs, Spec{ID: ColumnAllID(col), Kind: KindBool, Widget: WidgetToggleButton})
	}

	return specs
}

// integerStepLabels returns the labels first, first+step, ..., last.
func integerStepLabels(first, last, step int) []string {
	var labels []string
	for v := first; v <= last; v += step {
		labels = append(labels, strconv.Itoa(v))
	}
	return labels
}
