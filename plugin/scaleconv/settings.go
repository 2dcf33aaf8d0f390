package scaleconv

import "github.com/cwbudde/scaleconv/dsp/linear"

// FilterSet holds one stream's per-channel equations. Filters[i] applies to
// local channel i.
type FilterSet struct {
	SampleRate float64
	Filters    []linear.Equation
}

func newFilterSet(numChannels int, sampleRate float64) *FilterSet {
	fs := &FilterSet{}
	fs.createFilters(numChannels, sampleRate)

	return fs
}

// createFilters reallocates the filters with identity coefficients.
func (fs *FilterSet) createFilters(numChannels int, sampleRate float64) {
	fs.SampleRate = sampleRate
	fs.Filters = make([]linear.Equation, max(numChannels, 0))

	for i := range fs.Filters {
		fs.Filters[i] = linear.Identity()
	}
}

// updateFilters sets every channel to (scaling, offset).
func (fs *FilterSet) updateFilters(scaling, offset float64) {
	for i := range fs.Filters {
		fs.setFilterParameters(i, scaling, offset)
	}
}

func (fs *FilterSet) setFilterParameters(channel int, scaling, offset float64) {
	fs.Filters[channel] = linear.Equation{Scaling: scaling, Offset: offset}
}

// NumChannels returns len(Filters).
func (fs *FilterSet) NumChannels() int {
	return len(fs.Filters)
}
