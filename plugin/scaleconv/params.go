package scaleconv

import "math"

// Stream-scoped parameter names.
const (
	ParamScaling      = "scaling"
	ParamOffset       = "offset"
	ParamChannels     = "channels"
	ParamEnableStream = "enable_stream"
)

// Coefficient defaults and limits.
const (
	DefaultScaling  = 1.0
	DefaultOffset   = 0.0
	MaxCoefficient  = 1e32
	CoefficientStep = 1e-7
)

// ParameterKind is the value type of a parameter.
type ParameterKind int

const (
	KindFloat ParameterKind = iota
	KindChannelMask
	KindBool
)

// String returns a human-readable kind name.
func (k ParameterKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindChannelMask:
		return "channel-mask"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// ParameterSpec describes one stream-scoped parameter. Min, Max, Step and
// Default only apply to KindFloat; KindBool uses Default != 0 as true.
type ParameterSpec struct {
	Name        string
	DisplayName string
	Description string
	Kind        ParameterKind
	Default     float64
	Min         float64
	Max         float64
	Step        float64
}

var parameters = []ParameterSpec{
	{
		Name:        ParamScaling,
		DisplayName: "Scaling",
		Description: "Multiplies the input by this value",
		Kind:        KindFloat,
		Default:     DefaultScaling,
		Min:         -MaxCoefficient,
		Max:         MaxCoefficient,
		Step:        CoefficientStep,
	},
	{
		Name:        ParamOffset,
		DisplayName: "Offset",
		Description: "Adds this value after the above scaling",
		Kind:        KindFloat,
		Default:     DefaultOffset,
		Min:         -MaxCoefficient,
		Max:         MaxCoefficient,
		Step:        CoefficientStep,
	},
	{
		Name:        ParamChannels,
		DisplayName: "Channels",
		Description: "Channels to filter for this stream",
		Kind:        KindChannelMask,
	},
	{
		Name:        ParamEnableStream,
		DisplayName: "Enable",
		Description: "Process this stream",
		Kind:        KindBool,
		Default:     1,
	},
}

// Parameters returns the processor's stream-scoped parameters in
// registration order.
func Parameters() []ParameterSpec {
	out := make([]ParameterSpec, len(parameters))
	copy(out, parameters)

	return out
}

// LookupParameter returns the parameter registered under name.
func LookupParameter(name string) (ParameterSpec, bool) {
	for _, p := range parameters {
		if p.Name == name {
			return p, true
		}
	}

	return ParameterSpec{}, false
}

// Clamp limits v to [Min, Max] for float parameters. NaN maps to Default.
// Other kinds return v unchanged.
func (p ParameterSpec) Clamp(v float64) float64 {
	if p.Kind != KindFloat {
		return v
	}

	if math.IsNaN(v) {
		return p.Default
	}

	return math.Max(p.Min, math.Min(p.Max, v))
}

// AffectsCoefficients reports whether a change to the named parameter
// requires the stream's filter coefficients to be recomputed.
func AffectsCoefficients(name string) bool {
	return name == ParamScaling || name == ParamOffset
}
