package scaleconv

import "slices"

// StreamID identifies a host data stream for its lifetime.
type StreamID uint16

// ChannelSet is a sorted, duplicate-free set of stream-local channel indices.
type ChannelSet []int

// NewChannelSet returns the normalized set of the given indices.
// Negative indices are dropped.
func NewChannelSet(channels ...int) ChannelSet {
	set := make(ChannelSet, 0, len(channels))
	for _, ch := range channels {
		if ch >= 0 {
			set = append(set, ch)
		}
	}

	slices.Sort(set)

	return slices.Compact(set)
}

// AllChannels returns {0, 1, ..., n-1}.
func AllChannels(n int) ChannelSet {
	set := make(ChannelSet, max(n, 0))
	for i := range set {
		set[i] = i
	}

	return set
}

// Contains reports whether ch is in the set.
func (s ChannelSet) Contains(ch int) bool {
	_, found := slices.BinarySearch(s, ch)
	return found
}

// Clip returns the subset of s below n.
func (s ChannelSet) Clip(n int) ChannelSet {
	i, _ := slices.BinarySearch(s, n)
	return s[:i:i]
}

// StreamParams are the stream-scoped parameter values the host holds for
// this processor.
type StreamParams struct {
	Scaling  float64
	Offset   float64
	Channels ChannelSet
	Enabled  bool
}

// DefaultStreamParams returns scaling 1, offset 0, all channels selected, enabled.
func DefaultStreamParams(channelCount int) StreamParams {
	return StreamParams{
		Scaling:  DefaultScaling,
		Offset:   DefaultOffset,
		Channels: AllChannels(channelCount),
		Enabled:  true,
	}
}

// Stream is a read-only snapshot of a host data stream. Snapshots are
// invalidated by the next topology change.
type Stream struct {
	ID           StreamID
	Name         string
	ChannelCount int
	SampleRate   float64
	Params       StreamParams
}
