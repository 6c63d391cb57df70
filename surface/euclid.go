package surface

import (
	"fmt"
	"strconv"

	"github.com/augmaticaudio/gre/debug"
)

// StepDependency keeps the Euclidean family consistent: the steps control
// drives the legal option sets of pulses (0..N) and start-on (1..N).
// These ranges are fixed policy, not configuration.
type StepDependency struct {
	driver *Control
	low    *Control // pulses: 0..N
	high   *Control // start-on: 1..N
}

// BindStepDependency wires the dependency into the registry and applies it
// once with the driver's starting value, so the dependents come up with
// correctly sized option lists instead of their declared placeholders.
func BindStepDependency(reg *Registry, driverID, lowID, highID string) (*StepDependency, error) {
	d := &StepDependency{
		driver: reg.Get(driverID),
		low:    reg.Get(lowID),
		high:   reg.Get(highID),
	}
	if d.driver == nil || d.low == nil || d.high == nil {
		return nil, fmt.Errorf("step dependency: missing control (%s, %s, %s)", driverID, lowID, highID)
	}
	d.driver.Subscribe(HookConstraint, func(*Control) { d.Apply() })
	d.Apply()
	return d, nil
}

// Apply recomputes both dependents from the driver's current label.
// Running it twice with the same driver value is a no-op the second time.
func (d *StepDependency) Apply() {
	n, err := strconv.Atoi(d.driver.Label())
	if err != nil || n < 1 {
		debug.Log("euclid", "driver %s has non-numeric label %q", d.driver.ID(), d.driver.Label())
		return
	}
	retarget(d.low, integerLabels(0, n))
	retarget(d.high, integerLabels(1, n))
}

// integerLabels returns the labels first..last inclusive.
func integerLabels(first, last int) []string {
	labels := make([]string, 0, last-first+1)
	for v := first; v <= last; v++ {
		labels = append(labels, strconv.Itoa(v))
	}
	return labels
}

// retarget installs a new option list on dep, remapping the current
// selection: a numerically identical label keeps its value, a stale numeric
// label snaps to the closest entry (the last when above the new maximum,
// the first when below the minimum), and anything unparseable falls back
// to the last entry. The dependent's own change hooks fire whenever
// anything actually changed.
func retarget(dep *Control, labels []string) {
	oldLabel := dep.Label()
	index := -1
	for i, l := range labels {
		if l == oldLabel {
			index = i
			break
		}
	}
	if index < 0 {
		index = len(labels) - 1
		if v, err := strconv.Atoi(oldLabel); err == nil {
			first, _ := strconv.Atoi(labels[0])
			last, _ := strconv.Atoi(labels[len(labels)-1])
			switch {
			case v >= first && v <= last:
				index = v - first
			case v < first:
				index = 0
			}
			// v > last keeps the last-entry snap
		}
	}

	if index == dep.Index() && equalLabels(dep.options, labels) {
		return
	}
	dep.SetOptions(labels, index)
}

func equalLabels(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
