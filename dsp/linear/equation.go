package linear

import "github.com/cwbudde/algo-vecmath"

// Equation holds the coefficients for one channel: y = x*Scaling + Offset.
type Equation struct {
	Scaling float64
	Offset  float64
}

// Identity returns the pass-through equation (1, 0).
func Identity() Equation {
	return Equation{Scaling: 1}
}

// IsIdentity reports whether e leaves samples unchanged.
func (e Equation) IsIdentity() bool {
	return e.Scaling == 1 && e.Offset == 0
}

// ApplySample returns x*Scaling + Offset.
func (e Equation) ApplySample(x float64) float64 {
	return float64(x*e.Scaling) + e.Offset
}

// Apply transforms data[0:count] in place. count <= 0 is a no-op.
// data must hold at least count samples; Apply panics otherwise.
// NaN and Inf propagate per IEEE-754.
func (e Equation) Apply(data []float64, count int) {
	if count <= 0 {
		return
	}

	block := data[:count]
	vecmath.ScaleBlockInPlace(block, e.Scaling)

	for i := range block {
		block[i] += e.Offset
	}
}
