package scaleconv

import (
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/cwbudde/scaleconv/dsp/buffer"
)

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(p *Processor) {
		p.metrics = m
	}
}

// WithInstanceID overrides the random instance id used in log records.
func WithInstanceID(id string) Option {
	return func(p *Processor) {
		if id != "" {
			p.id = id
		}
	}
}

// Processor is one scale-converter instance in a host signal chain. It owns
// its Registry exclusively.
type Processor struct {
	id       string
	host     Host
	registry *Registry
	logger   *slog.Logger
	metrics  *Metrics
}

// New creates a Processor reading stream state from host.
func New(host Host, opts ...Option) *Processor {
	p := &Processor{
		id:       uuid.NewString(),
		host:     host,
		registry: NewRegistry(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	p.logger = p.logger.With(slog.String("instance", p.id))

	return p
}

// ID returns the instance id.
func (p *Processor) ID() string {
	return p.id
}

// Registry returns the processor's filter registry.
func (p *Processor) Registry() *Registry {
	return p.registry
}

// UpdateSettings is called by the host after any upstream topology or
// settings change. Rebuilt sets are re-derived from the current snapshot so
// Process never sees identity coefficients left over from a resize.
func (p *Processor) UpdateSettings() {
	streams := p.host.DataStreams()
	stats := p.registry.Reconcile(streams)

	for _, s := range streams {
		switch {
		case slices.Contains(stats.Created, s.ID):
			p.logger.Info("stream added",
				slog.Uint64("stream_id", uint64(s.ID)),
				slog.String("stream", s.Name),
				slog.Int("channels", s.ChannelCount),
				slog.Float64("sample_rate", s.SampleRate),
			)
		case slices.Contains(stats.Rebuilt, s.ID):
			p.registry.UpdateCoefficients(s.ID, s.Params.Scaling, s.Params.Offset)
			p.logger.Info("stream channel count changed",
				slog.Uint64("stream_id", uint64(s.ID)),
				slog.String("stream", s.Name),
				slog.Int("channels", s.ChannelCount),
			)
		}
	}

	for _, id := range stats.Removed {
		p.logger.Info("stream removed", slog.Uint64("stream_id", uint64(id)))
	}

	p.logger.Debug("settings reconciled",
		slog.Int("streams", len(streams)),
		slog.Int("created", len(stats.Created)),
		slog.Int("rebuilt", len(stats.Rebuilt)),
		slog.Int("removed", len(stats.Removed)),
	)

	p.metrics.observeReconcile(stats, p.registry.Len())
}

// ParameterValueChanged is called by the host after a stream-scoped
// parameter changed. Only scaling and offset need work here; channel
// selection and enablement are read from the snapshot on every block.
func (p *Processor) ParameterValueChanged(id StreamID, name string) {
	if !AffectsCoefficients(name) {
		return
	}

	s, ok := p.host.DataStream(id)
	known := ok && p.registry.UpdateCoefficients(id, s.Params.Scaling, s.Params.Offset)
	p.metrics.observeCoefficientUpdate(known)

	if !known {
		p.logger.Debug("parameter change for unknown stream",
			slog.Uint64("stream_id", uint64(id)),
			slog.String("param", name),
		)

		return
	}

	p.logger.Debug("coefficients updated",
		slog.Uint64("stream_id", uint64(id)),
		slog.Float64("scaling", s.Params.Scaling),
		slog.Float64("offset", s.Params.Offset),
	)
}

// Process transforms the block in place. Rows belonging to disabled streams
// and unselected channels are left untouched.
func (p *Processor) Process(block *buffer.Block) {
	channels, samples := 0, 0

	for _, s := range p.host.DataStreams() {
		if !s.Params.Enabled {
			continue
		}

		n := p.host.NumSamplesInBlock(s.ID)
		applied := p.registry.ApplyToBuffer(s, n, p.host, block.Channel)
		channels += applied
		samples += applied * n
	}

	p.metrics.observeBlock(channels, samples)
}
