package hostsim

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/cwbudde/scaleconv/dsp/buffer"
	"github.com/cwbudde/scaleconv/plugin/scaleconv"
)

var (
	// ErrUnknownStream is returned for ids the host does not know.
	ErrUnknownStream = errors.New("unknown stream")
	// ErrInvalidChannelCount is returned for channel counts < 1.
	ErrInvalidChannelCount = errors.New("channel count must be > 0")
	// ErrInvalidSampleRate is returned for non-positive or non-finite rates.
	ErrInvalidSampleRate = errors.New("sample rate must be > 0")
	// ErrChannelOutOfRange is returned for selections outside the stream.
	ErrChannelOutOfRange = errors.New("channel out of range")
	// ErrInvalidSampleCount is returned for per-stream sample counts outside [0, block size].
	ErrInvalidSampleCount = errors.New("invalid sample count")
	// ErrTooManyStreams is returned when stream ids are exhausted.
	ErrTooManyStreams = errors.New("stream ids exhausted")
)

// Plugin is the processor-side surface the host drives.
type Plugin interface {
	UpdateSettings()
	ParameterValueChanged(id scaleconv.StreamID, name string)
	Process(block *buffer.Block)
}

// StreamConfig describes a stream to add. A nil Params selects
// scaleconv.DefaultStreamParams.
type StreamConfig struct {
	Name       string
	Channels   int
	SampleRate float64
	Params     *scaleconv.StreamParams
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Host implements scaleconv.Host over an in-memory stream list.
type Host struct {
	blockSize    int
	nextID       scaleconv.StreamID
	streams      []scaleconv.Stream
	base         map[scaleconv.StreamID]int
	blockSamples map[scaleconv.StreamID]int
	block        *buffer.Block
	plugin       Plugin
	logger       *slog.Logger
}

var _ scaleconv.Host = (*Host)(nil)

// New creates an empty host producing blocks of blockSize samples.
// blockSize < 1 is treated as 1.
func New(blockSize int, opts ...Option) *Host {
	h := &Host{
		blockSize:    max(blockSize, 1),
		nextID:       1,
		base:         make(map[scaleconv.StreamID]int),
		blockSamples: make(map[scaleconv.StreamID]int),
		block:        buffer.New(0, max(blockSize, 1)),
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}

	return h
}

// Bind attaches the plugin and delivers an initial settings update.
func (h *Host) Bind(p Plugin) {
	h.plugin = p
	h.notifySettings()
}

// BlockSize returns the block length in samples.
func (h *Host) BlockSize() int {
	return h.blockSize
}

// Block returns the shared block. Its layout changes after every topology
// change.
func (h *Host) Block() *buffer.Block {
	return h.block
}

// AddStream appends a stream and returns its id.
func (h *Host) AddStream(cfg StreamConfig) (scaleconv.StreamID, error) {
	if cfg.Channels < 1 {
		return 0, fmt.Errorf("hostsim: add stream %q: %w: %d", cfg.Name, ErrInvalidChannelCount, cfg.Channels)
	}
	if !validRate(cfg.SampleRate) {
		return 0, fmt.Errorf("hostsim: add stream %q: %w: %v", cfg.Name, ErrInvalidSampleRate, cfg.SampleRate)
	}
	if h.nextID == 0 {
		return 0, fmt.Errorf("hostsim: add stream %q: %w", cfg.Name, ErrTooManyStreams)
	}

	params := scaleconv.DefaultStreamParams(cfg.Channels)
	if cfg.Params != nil {
		params = *cfg.Params
		params.Scaling = clampParam(scaleconv.ParamScaling, params.Scaling)
		params.Offset = clampParam(scaleconv.ParamOffset, params.Offset)
		params.Channels = scaleconv.NewChannelSet(params.Channels...)
		if i := len(params.Channels); i > 0 && params.Channels[i-1] >= cfg.Channels {
			return 0, fmt.Errorf("hostsim: add stream %q: %w: %d", cfg.Name, ErrChannelOutOfRange, params.Channels[i-1])
		}
	}

	id := h.nextID
	h.nextID++

	h.streams = append(h.streams, scaleconv.Stream{
		ID:           id,
		Name:         cfg.Name,
		ChannelCount: cfg.Channels,
		SampleRate:   cfg.SampleRate,
		Params:       params,
	})

	h.logger.Debug("stream added",
		slog.Uint64("stream_id", uint64(id)),
		slog.String("stream", cfg.Name),
		slog.Int("channels", cfg.Channels),
	)

	h.relayout()
	h.notifySettings()

	return id, nil
}

// RemoveStream removes a stream.
func (h *Host) RemoveStream(id scaleconv.StreamID) error {
	i := h.index(id)
	if i < 0 {
		return fmt.Errorf("hostsim: remove stream %d: %w", id, ErrUnknownStream)
	}

	h.streams = slices.Delete(h.streams, i, i+1)
	delete(h.blockSamples, id)

	h.logger.Debug("stream removed", slog.Uint64("stream_id", uint64(id)))

	h.relayout()
	h.notifySettings()

	return nil
}

// SetChannelCount changes a stream's channel count. Selected channels at or
// beyond the new count are deselected.
func (h *Host) SetChannelCount(id scaleconv.StreamID, n int) error {
	s, err := h.stream(id)
	if err != nil {
		return fmt.Errorf("hostsim: set channel count: %w", err)
	}
	if n < 1 {
		return fmt.Errorf("hostsim: set channel count of stream %d: %w: %d", id, ErrInvalidChannelCount, n)
	}

	s.ChannelCount = n
	s.Params.Channels = slices.Clone(s.Params.Channels.Clip(n))

	h.relayout()
	h.notifySettings()

	return nil
}

// SetSampleRate changes a stream's sample rate.
func (h *Host) SetSampleRate(id scaleconv.StreamID, rate float64) error {
	s, err := h.stream(id)
	if err != nil {
		return fmt.Errorf("hostsim: set sample rate: %w", err)
	}
	if !validRate(rate) {
		return fmt.Errorf("hostsim: set sample rate of stream %d: %w: %v", id, ErrInvalidSampleRate, rate)
	}

	s.SampleRate = rate
	h.notifySettings()

	return nil
}

// SetScaling sets the stream's scaling, clamped to the parameter range.
func (h *Host) SetScaling(id scaleconv.StreamID, v float64) error {
	return h.setParam(id, scaleconv.ParamScaling, func(s *scaleconv.Stream) error {
		s.Params.Scaling = clampParam(scaleconv.ParamScaling, v)
		return nil
	})
}

// SetOffset sets the stream's offset, clamped to the parameter range.
func (h *Host) SetOffset(id scaleconv.StreamID, v float64) error {
	return h.setParam(id, scaleconv.ParamOffset, func(s *scaleconv.Stream) error {
		s.Params.Offset = clampParam(scaleconv.ParamOffset, v)
		return nil
	})
}

// SetChannels replaces the stream's channel selection.
func (h *Host) SetChannels(id scaleconv.StreamID, channels ...int) error {
	return h.setParam(id, scaleconv.ParamChannels, func(s *scaleconv.Stream) error {
		for _, ch := range channels {
			if ch < 0 || ch >= s.ChannelCount {
				return fmt.Errorf("%w: %d (stream has %d channels)", ErrChannelOutOfRange, ch, s.ChannelCount)
			}
		}
		s.Params.Channels = scaleconv.NewChannelSet(channels...)
		return nil
	})
}

// SetEnabled enables or disables processing of the stream.
func (h *Host) SetEnabled(id scaleconv.StreamID, enabled bool) error {
	return h.setParam(id, scaleconv.ParamEnableStream, func(s *scaleconv.Stream) error {
		s.Params.Enabled = enabled
		return nil
	})
}

// SetBlockSamples sets how many samples of each block are valid for the
// stream. The default is the full block size.
func (h *Host) SetBlockSamples(id scaleconv.StreamID, n int) error {
	if h.index(id) < 0 {
		return fmt.Errorf("hostsim: set block samples of stream %d: %w", id, ErrUnknownStream)
	}
	if n < 0 || n > h.blockSize {
		return fmt.Errorf("hostsim: set block samples of stream %d: %w: %d", id, ErrInvalidSampleCount, n)
	}

	h.blockSamples[id] = n

	return nil
}

// Fill calls fn for every channel row of every stream so the caller can
// write the next block of input.
func (h *Host) Fill(fn func(id scaleconv.StreamID, local int, row []float64)) {
	for _, s := range h.streams {
		for local := range s.ChannelCount {
			fn(s.ID, local, h.block.Channel(h.base[s.ID]+local))
		}
	}
}

// Row returns the block row of one stream-local channel, or nil.
func (h *Host) Row(id scaleconv.StreamID, local int) []float64 {
	return h.block.Channel(h.GlobalChannelIndex(id, local))
}

// RunBlock hands the shared block to the bound plugin.
func (h *Host) RunBlock() {
	if h.plugin != nil {
		h.plugin.Process(h.block)
	}
}

// DataStreams returns snapshots of all streams in layout order.
func (h *Host) DataStreams() []scaleconv.Stream {
	out := make([]scaleconv.Stream, len(h.streams))
	for i, s := range h.streams {
		out[i] = snapshot(s)
	}

	return out
}

// DataStream returns the snapshot of one stream.
func (h *Host) DataStream(id scaleconv.StreamID) (scaleconv.Stream, bool) {
	i := h.index(id)
	if i < 0 {
		return scaleconv.Stream{}, false
	}

	return snapshot(h.streams[i]), true
}

// GlobalChannelIndex returns the block row of a stream-local channel, or -1
// for an unknown stream or out-of-range channel.
func (h *Host) GlobalChannelIndex(id scaleconv.StreamID, local int) int {
	i := h.index(id)
	if i < 0 || local < 0 || local >= h.streams[i].ChannelCount {
		return -1
	}

	return h.base[id] + local
}

// NumSamplesInBlock returns the valid sample count of the current block for
// the stream.
func (h *Host) NumSamplesInBlock(id scaleconv.StreamID) int {
	if n, ok := h.blockSamples[id]; ok {
		return n
	}

	return h.blockSize
}

func (h *Host) setParam(id scaleconv.StreamID, name string, apply func(*scaleconv.Stream) error) error {
	s, err := h.stream(id)
	if err != nil {
		return fmt.Errorf("hostsim: set %s: %w", name, err)
	}

	if err := apply(s); err != nil {
		return fmt.Errorf("hostsim: set %s of stream %d: %w", name, id, err)
	}

	if h.plugin != nil {
		h.plugin.ParameterValueChanged(id, name)
	}

	return nil
}

func (h *Host) relayout() {
	clear(h.base)

	total := 0
	for _, s := range h.streams {
		h.base[s.ID] = total
		total += s.ChannelCount
	}

	h.block.Resize(total, h.blockSize)
}

func (h *Host) notifySettings() {
	if h.plugin != nil {
		h.plugin.UpdateSettings()
	}
}

func (h *Host) index(id scaleconv.StreamID) int {
	return slices.IndexFunc(h.streams, func(s scaleconv.Stream) bool { return s.ID == id })
}

func (h *Host) stream(id scaleconv.StreamID) (*scaleconv.Stream, error) {
	i := h.index(id)
	if i < 0 {
		return nil, fmt.Errorf("stream %d: %w", id, ErrUnknownStream)
	}

	return &h.streams[i], nil
}

func snapshot(s scaleconv.Stream) scaleconv.Stream {
	s.Params.Channels = slices.Clone(s.Params.Channels)
	return s
}

func clampParam(name string, v float64) float64 {
	p, _ := scaleconv.LookupParameter(name)
	return p.Clamp(v)
}

func validRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0)
}
