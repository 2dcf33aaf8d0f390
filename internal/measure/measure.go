// Package measure verifies processed channels in the frequency domain: the
// DC level carries the offset, the tone amplitude carries the scaling.
package measure

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

var (
	// ErrLength is returned when the input is not a power of two >= 2.
	ErrLength = errors.New("measure: length must be a power of two >= 2")
	// ErrSampleRate is returned for non-positive sample rates.
	ErrSampleRate = errors.New("measure: sample rate must be > 0")
)

// Report summarizes one analyzed channel.
type Report struct {
	DC            float64
	ToneAmplitude float64
	ToneBin       int
	PeakBin       int
	PeakAmplitude float64
}

// Analyze returns the DC level and the amplitude of the bin nearest toneHz.
// Amplitudes are exact for tones centered on a bin (no window is applied).
func Analyze(samples []float64, sampleRate, toneHz float64) (Report, error) {
	n := len(samples)
	if n < 2 || bits.OnesCount(uint(n)) != 1 {
		return Report{}, fmt.Errorf("%w: %d", ErrLength, n)
	}
	if sampleRate <= 0 {
		return Report{}, fmt.Errorf("%w: %v", ErrSampleRate, sampleRate)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return Report{}, fmt.Errorf("measure: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, n)
	for i, x := range samples {
		in[i] = complex(x, 0)
	}

	bins := make([]complex128, n)
	if err := plan.Forward(bins, in); err != nil {
		return Report{}, fmt.Errorf("measure: forward FFT failed: %w", err)
	}

	half := n/2 + 1
	re := make([]float64, half)
	im := make([]float64, half)
	for k := range half {
		re[k] = real(bins[k])
		im[k] = imag(bins[k])
	}

	mag := make([]float64, half)
	vecmath.Magnitude(mag, re, im)

	r := Report{
		DC:      re[0] / float64(n),
		ToneBin: nearestBin(toneHz, sampleRate, n),
	}
	r.ToneAmplitude = binAmplitude(mag, r.ToneBin, n)

	for k := 1; k < half; k++ {
		if mag[k] > mag[r.PeakBin] || r.PeakBin == 0 {
			r.PeakBin = k
		}
	}
	r.PeakAmplitude = binAmplitude(mag, r.PeakBin, n)

	return r, nil
}

// BinFrequency returns the center frequency of bin k for an n-point FFT.
func BinFrequency(k, n int, sampleRate float64) float64 {
	return float64(k) * sampleRate / float64(n)
}

func nearestBin(hz, sampleRate float64, n int) int {
	k := int(math.Round(hz * float64(n) / sampleRate))
	return max(0, min(k, n/2))
}

// binAmplitude converts a one-sided magnitude to peak amplitude. DC and
// Nyquist have no mirrored bin.
func binAmplitude(mag []float64, k, n int) float64 {
	if k == 0 || k == n/2 {
		return mag[k] / float64(n)
	}

	return 2 * mag[k] / float64(n)
}
