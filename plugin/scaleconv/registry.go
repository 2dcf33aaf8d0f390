package scaleconv

import (
	"maps"
	"slices"
)

// ReconcileStats counts what a Reconcile pass changed.
type ReconcileStats struct {
	Created []StreamID
	Rebuilt []StreamID
	Removed []StreamID
}

// Changed reports whether the pass created, rebuilt or removed any set.
func (s ReconcileStats) Changed() bool {
	return len(s.Created) > 0 || len(s.Rebuilt) > 0 || len(s.Removed) > 0
}

// Registry owns one FilterSet per live stream.
type Registry struct {
	sets map[StreamID]*FilterSet
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sets: make(map[StreamID]*FilterSet)}
}

// Reconcile synchronizes the filter sets with the host's stream list.
//
// A stream seen for the first time gets a set sized to its channel count,
// initialized from its scaling and offset. A stream whose channel count
// changed gets a fresh set with identity coefficients. Sets for streams not
// in live are removed. Calling Reconcile again with the same list changes
// nothing.
func (r *Registry) Reconcile(live []Stream) ReconcileStats {
	var stats ReconcileStats

	seen := make(map[StreamID]struct{}, len(live))

	for _, s := range live {
		seen[s.ID] = struct{}{}

		fs := r.sets[s.ID]
		switch {
		case fs == nil:
			fs = newFilterSet(s.ChannelCount, s.SampleRate)
			fs.updateFilters(s.Params.Scaling, s.Params.Offset)
			r.sets[s.ID] = fs
			stats.Created = append(stats.Created, s.ID)
		case fs.NumChannels() != s.ChannelCount:
			fs.createFilters(s.ChannelCount, s.SampleRate)
			stats.Rebuilt = append(stats.Rebuilt, s.ID)
		default:
			fs.SampleRate = s.SampleRate
		}
	}

	for id := range r.sets {
		if _, ok := seen[id]; !ok {
			delete(r.sets, id)
			stats.Removed = append(stats.Removed, id)
		}
	}

	slices.Sort(stats.Removed)

	return stats
}

// UpdateCoefficients sets every filter of the stream to (scaling, offset).
// It returns false, changing nothing, if the stream has no filter set.
func (r *Registry) UpdateCoefficients(id StreamID, scaling, offset float64) bool {
	fs := r.sets[id]
	if fs == nil {
		return false
	}

	fs.updateFilters(scaling, offset)

	return true
}

// SetFilterParameters sets the coefficients of a single channel. It returns
// false if the stream is unknown or the channel is out of range.
func (r *Registry) SetFilterParameters(id StreamID, channel int, scaling, offset float64) bool {
	fs := r.sets[id]
	if fs == nil || channel < 0 || channel >= fs.NumChannels() {
		return false
	}

	fs.setFilterParameters(channel, scaling, offset)

	return true
}

// ApplyToBuffer transforms the stream's selected channels in place and
// returns the number of channels it touched.
//
// Nothing happens if the stream is disabled in the snapshot or has no filter
// set. Selected channels at or beyond the filter count are skipped. Each row
// is processed for min(sampleCount, len(row)) samples.
func (r *Registry) ApplyToBuffer(stream Stream, sampleCount int, resolver ChannelResolver, channel ChannelAccessor) int {
	if !stream.Params.Enabled || sampleCount <= 0 {
		return 0
	}

	fs := r.sets[stream.ID]
	if fs == nil {
		return 0
	}

	applied := 0

	for _, local := range stream.Params.Channels {
		if local < 0 || local >= len(fs.Filters) {
			continue
		}

		row := channel(resolver.GlobalChannelIndex(stream.ID, local))
		fs.Filters[local].Apply(row, min(sampleCount, len(row)))
		applied++
	}

	return applied
}

// FilterSet returns the set registered for id.
func (r *Registry) FilterSet(id StreamID) (*FilterSet, bool) {
	fs, ok := r.sets[id]
	return fs, ok
}

// Len returns the number of registered streams.
func (r *Registry) Len() int {
	return len(r.sets)
}

// StreamIDs returns the registered stream ids in ascending order.
func (r *Registry) StreamIDs() []StreamID {
	return slices.Sorted(maps.Keys(r.sets))
}
