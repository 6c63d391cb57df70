package surface

import (
	"math"
	"math/rand"
	"testing"
)

func TestFlatBenderProducesConstantZero(t *testing.T) {
	b := NewBender(nil)
	if !b.IsFlat() {
		t.Fatal("new bender should be flat")
	}
	for _, phase := range []float64{0, 0.1, 0.33, 0.5, 0.99} {
		if v := b.ValueAt(phase); v != 0 {
			t.Fatalf("flat bender at phase %f produced %f", phase, v)
		}
	}
}

func TestValueAtStaysBounded(t *testing.T) {
	b := NewBender(rand.New(rand.NewSource(7)))
	for trial := 0; trial < 50; trial++ {
		b.Randomize()
		for i := 0; i <= 100; i++ {
			phase := float64(i) / 100
			v := b.ValueAt(phase)
			if v < -1 || v > 1 || math.IsNaN(v) {
				t.Fatalf("trial %d phase %f: value %f out of [-1,1]", trial, phase, v)
			}
		}
	}
}

func TestValueAtIsDeterministic(t *testing.T) {
	b := NewBender(nil)
	b.SetWeight(0, 0.7)
	b.SetWeight(2, -0.4)
	first := b.Sample(64)
	second := b.Sample(64)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample %d differs: %f vs %f", i, first[i], second[i])
		}
	}
}

func TestSetWeightClamps(t *testing.T) {
	b := NewBender(nil)
	b.SetWeight(1, 3)
	if b.Weight(1) != 1 {
		t.Fatalf("weight %f, want clamp to 1", b.Weight(1))
	}
	b.SetWeight(1, -3)
	if b.Weight(1) != -1 {
		t.Fatalf("weight %f, want clamp to -1", b.Weight(1))
	}
	b.SetWeight(99, 1) // out of range band is ignored
	if b.Weight(99) != 0 {
		t.Fatalf("out-of-range weight %f", b.Weight(99))
	}
}

func TestSampleRescalesToUnitRange(t *testing.T) {
	b := NewBender(rand.New(rand.NewSource(3)))
	b.Randomize()
	samples := b.Sample(48)
	if len(samples) != 48 {
		t.Fatalf("sample count %d, want 48", len(samples))
	}
	for i, v := range samples {
		if v < 0 || v > 1 {
			t.Fatalf("sample %d = %f out of [0,1]", i, v)
		}
	}
}

func TestSampleEdgeCounts(t *testing.T) {
	b := NewBender(nil)
	if got := b.Sample(0); got != nil {
		t.Fatalf("zero samples should be nil, got %v", got)
	}
	one := b.Sample(1)
	if len(one) != 1 {
		t.Fatalf("single sample count %d", len(one))
	}
	if one[0] != (b.ValueAt(0)+1)/2 {
		t.Fatalf("single sample should be phase zero, got %f", one[0])
	}
}

func TestRandomizeThenResetRoundTrip(t *testing.T) {
	b := NewBender(rand.New(rand.NewSource(11)))
	b.Randomize()
	if b.IsFlat() {
		t.Fatal("randomize left the bender flat")
	}
	for i := 0; i < NumBenderBands; i++ {
		w := b.Weight(i)
		if w < -1 || w > 1 {
			t.Fatalf("randomized weight %d = %f out of [-1,1]", i, w)
		}
	}
	b.Reset()
	if !b.IsFlat() {
		t.Fatal("reset should zero every weight")
	}
}
