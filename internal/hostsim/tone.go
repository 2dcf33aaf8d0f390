package hostsim

import "math"

// Oscillator is a phase-continuous sine source, one per stream.
type Oscillator struct {
	step      float64
	phase     float64
	amplitude float64
}

// NewOscillator returns a sine source at hz for the given sample rate.
func NewOscillator(hz, sampleRate, amplitude float64) *Oscillator {
	return &Oscillator{
		step:      2 * math.Pi * hz / sampleRate,
		amplitude: amplitude,
	}
}

// Next writes the next len(dst) samples and advances the phase.
func (o *Oscillator) Next(dst []float64) {
	for i := range dst {
		dst[i] = o.amplitude * math.Sin(o.phase)
		o.phase += o.step
	}

	o.phase = math.Mod(o.phase, 2*math.Pi)
}

// Reset rewinds the phase to 0.
func (o *Oscillator) Reset() {
	o.phase = 0
}
