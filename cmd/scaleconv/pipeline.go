package main

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/scaleconv/dsp/buffer"
	"github.com/cwbudde/scaleconv/internal/config"
	"github.com/cwbudde/scaleconv/internal/hostsim"
	"github.com/cwbudde/scaleconv/internal/measure"
	"github.com/cwbudde/scaleconv/plugin/scaleconv"
)

type simStream struct {
	id   scaleconv.StreamID
	cfg  config.StreamConfig
	osc  *hostsim.Oscillator
	tone []float64
}

// pipeline is one processor bound to a simulated host, fed with per-stream
// test tones.
type pipeline struct {
	host    *hostsim.Host
	proc    *scaleconv.Processor
	streams []*simStream
	pool    *buffer.Pool
	blocks  int
}

func newPipeline(cfg *config.Config, logger *slog.Logger, metrics *scaleconv.Metrics) (*pipeline, error) {
	host := hostsim.New(cfg.BlockSize, hostsim.WithLogger(logger))
	proc := scaleconv.New(host, scaleconv.WithLogger(logger), scaleconv.WithMetrics(metrics))
	host.Bind(proc)

	p := &pipeline{host: host, proc: proc, pool: buffer.NewPool()}

	for _, sc := range cfg.Streams {
		params := sc.Params()

		id, err := host.AddStream(hostsim.StreamConfig{
			Name:       sc.Name,
			Channels:   sc.Channels,
			SampleRate: sc.SampleRate,
			Params:     &params,
		})
		if err != nil {
			return nil, fmt.Errorf("scaleconv: build pipeline: %w", err)
		}

		p.streams = append(p.streams, &simStream{
			id:   id,
			cfg:  sc,
			osc:  hostsim.NewOscillator(sc.Tone.Frequency, sc.SampleRate, sc.Tone.Amplitude),
			tone: make([]float64, cfg.BlockSize),
		})
	}

	return p, nil
}

// fill writes the next block of test tone into every channel.
func (p *pipeline) fill() {
	tones := make(map[scaleconv.StreamID][]float64, len(p.streams))
	for _, s := range p.streams {
		s.osc.Next(s.tone)
		tones[s.id] = s.tone
	}

	p.host.Fill(func(id scaleconv.StreamID, _ int, row []float64) {
		copy(row, tones[id])
	})
}

// step fills and processes one block.
func (p *pipeline) step() {
	p.fill()
	p.host.RunBlock()
	p.blocks++
}

type channelReport struct {
	stream   string
	channel  int
	selected bool
	enabled  bool
	before   measure.Report
	after    measure.Report
}

// stepAndMeasure processes one block and analyzes every channel before and
// after the processor ran.
func (p *pipeline) stepAndMeasure() ([]channelReport, error) {
	p.fill()

	block := p.host.Block()
	before := p.pool.Get(block.NumChannels(), block.NumSamples())
	defer p.pool.Put(before)
	before.CopyFrom(block)

	p.host.RunBlock()
	p.blocks++

	var out []channelReport

	for _, s := range p.streams {
		snap, ok := p.host.DataStream(s.id)
		if !ok {
			continue
		}

		for local := range snap.ChannelCount {
			global := p.host.GlobalChannelIndex(s.id, local)

			rb, err := measure.Analyze(before.Channel(global), snap.SampleRate, s.cfg.Tone.Frequency)
			if err != nil {
				return nil, fmt.Errorf("scaleconv: analyze %s/%d: %w", snap.Name, local, err)
			}

			ra, err := measure.Analyze(block.Channel(global), snap.SampleRate, s.cfg.Tone.Frequency)
			if err != nil {
				return nil, fmt.Errorf("scaleconv: analyze %s/%d: %w", snap.Name, local, err)
			}

			out = append(out, channelReport{
				stream:   snap.Name,
				channel:  local,
				selected: snap.Params.Channels.Contains(local),
				enabled:  snap.Params.Enabled,
				before:   rb,
				after:    ra,
			})
		}
	}

	return out, nil
}
