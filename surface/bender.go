package surface

import (
	"math"
	"math/rand"
)

// NumBenderBands is the fixed band count of the velocity bender.
const NumBenderBands = 4

// Beat division and phase shift per band, in declared order. These are
// model constants, not user parameters.
var (
	benderDivisions = [NumBenderBands]float64{0.5, 0.25, 1.0 / 6.0, 0.125}
	benderShifts    = [NumBenderBands]float64{-0.125, -0.0625, -0.0417, -0.03125}
)

// Bender is the velocity preview synthesis model: four weighted sine bands
// combined, soft-normalized, and saturated. ValueAt is a pure function of
// the phase and the four weights.
type Bender struct {
	weights [NumBenderBands]float64
	rng     *rand.Rand
}

// NewBender returns a flat bender. rng drives Randomize and may be nil, in
// which case the shared math/rand source is used.
func NewBender(rng *rand.Rand) *Bender {
	return &Bender{rng: rng}
}

// Weight returns band i's weight.
func (b *Bender) Weight(i int) float64 {
	if i < 0 || i >= NumBenderBands {
		return 0
	}
	return b.weights[i]
}

// SetWeight sets band i's weight, clamped to [-1, 1].
func (b *Bender) SetWeight(i int, w float64) {
	if i < 0 || i >= NumBenderBands {
		return
	}
	b.weights[i] = clamp(w, -1, 1)
}

// IsFlat reports whether all four weights are exactly zero. A flat bender
// produces a constant zero curve.
func (b *Bender) IsFlat() bool {
	for _, w := range b.weights {
		if w != 0 {
			return false
		}
	}
	return true
}

// ValueAt evaluates the combined oscillator at phase in [0,1). The weight
// sign is inverted on purpose: raising a control bends the curve toward
// its start. Output is in [-1, 1].
func (b *Bender) ValueAt(phase float64) float64 {
	var sum, totalWeight float64
	for i := 0; i < NumBenderBands; i++ {
		freq := 1 / benderDivisions[i]
		adjusted := phase + benderShifts[i]
		sine := math.Sin(2 * math.Pi * freq * adjusted)
		inverted := -b.weights[i]
		sum += sine * inverted
		totalWeight += math.Abs(inverted)
	}
	if totalWeight > 0.001 {
		// Soft normalization: the +1 damping term keeps headroom even
		// at full total weight.
		sum /= totalWeight + 1
	}
	return math.Tanh(1.5 * sum)
}

// Sample projects the curve onto n evenly spaced phases with both endpoints
// pinned (for n > 1), each sample rescaled from [-1,1] to [0,1] for
// display. Identical model state and n always produce an identical slice.
func (b *Bender) Sample(n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		phase := 0.0
		if n > 1 {
			phase = float64(i) / float64(n-1)
		}
		out[i] = (b.ValueAt(phase) + 1) / 2
	}
	return out
}

// Randomize draws each weight uniformly from [-1, 1].
func (b *Bender) Randomize() {
	for i := range b.weights {
		b.weights[i] = b.uniform()
	}
}

// Reset zeroes every weight.
func (b *Bender) Reset() {
	for i := range b.weights {
		b.weights[i] = 0
	}
}

func (b *Bender) uniform() float64 {
	if b.rng != nil {
		return b.rng.Float64()*2 - 1
	}
	return rand.Float64()*2 - 1
}
