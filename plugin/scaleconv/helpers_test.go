package scaleconv

import (
	"io"
	"log/slog"
	"slices"
)

// fakeHost lays streams out contiguously in list order.
type fakeHost struct {
	streams        []Stream
	samples        int
	blockSamples   map[StreamID]int
	dataStreamHits int
}

func newFakeHost(samples int, streams ...Stream) *fakeHost {
	return &fakeHost{
		streams:      streams,
		samples:      samples,
		blockSamples: map[StreamID]int{},
	}
}

func (h *fakeHost) DataStreams() []Stream {
	return slices.Clone(h.streams)
}

func (h *fakeHost) DataStream(id StreamID) (Stream, bool) {
	h.dataStreamHits++
	for _, s := range h.streams {
		if s.ID == id {
			return s, true
		}
	}

	return Stream{}, false
}

func (h *fakeHost) GlobalChannelIndex(id StreamID, local int) int {
	base := 0
	for _, s := range h.streams {
		if s.ID == id {
			return base + local
		}
		base += s.ChannelCount
	}

	return -1
}

func (h *fakeHost) NumSamplesInBlock(id StreamID) int {
	if n, ok := h.blockSamples[id]; ok {
		return n
	}

	return h.samples
}

func (h *fakeHost) totalChannels() int {
	n := 0
	for _, s := range h.streams {
		n += s.ChannelCount
	}

	return n
}

func (h *fakeHost) update(id StreamID, fn func(*Stream)) {
	for i := range h.streams {
		if h.streams[i].ID == id {
			fn(&h.streams[i])
		}
	}
}

func (h *fakeHost) remove(id StreamID) {
	h.streams = slices.DeleteFunc(h.streams, func(s Stream) bool { return s.ID == id })
}

func testStream(id StreamID, channels int, scaling, offset float64) Stream {
	params := DefaultStreamParams(channels)
	params.Scaling = scaling
	params.Offset = offset

	return Stream{
		ID:           id,
		Name:         "stream",
		ChannelCount: channels,
		SampleRate:   30000,
		Params:       params,
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func equalSlices(a, b []float64) bool {
	return slices.Equal(a, b)
}

func slogText(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
