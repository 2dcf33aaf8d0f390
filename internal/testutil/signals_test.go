package testutil

import (
	"math"
	"testing"
)

func TestDCAndOnes(t *testing.T) {
	for i, v := range DC(2.5, 4) {
		if v != 2.5 {
			t.Fatalf("DC[%d] = %v, want 2.5", i, v)
		}
	}
	if o := Ones(3); len(o) != 3 || o[0] != 1 || o[2] != 1 {
		t.Fatalf("Ones(3) = %v", o)
	}
}

func TestRamp(t *testing.T) {
	got := Ramp(1, 0.5, 4)
	want := []float64{1, 1.5, 2, 2.5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Ramp = %v, want %v", got, want)
		}
	}
}

func TestDeterministicNoiseReproducible(t *testing.T) {
	a := DeterministicNoise(7, 0.5, 64)
	b := DeterministicNoise(7, 0.5, 64)
	c := DeterministicNoise(8, 0.5, 64)

	same := true
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed differs at %d", i)
		}
		if math.Abs(a[i]) > 0.5 {
			t.Fatalf("sample %d = %v exceeds amplitude", i, a[i])
		}
		if a[i] != c[i] {
			same = false
		}
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestSpecialValuesContainsNonFinite(t *testing.T) {
	var nan, inf int
	for _, v := range SpecialValues() {
		if math.IsNaN(v) {
			nan++
		}
		if math.IsInf(v, 0) {
			inf++
		}
	}
	if nan != 1 || inf != 2 {
		t.Fatalf("nan=%d inf=%d, want 1 and 2", nan, inf)
	}
}
