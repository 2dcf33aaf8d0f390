// Package config loads the YAML run configuration for the scaleconv command.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math/bits"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/scaleconv/plugin/scaleconv"
)

// Defaults applied before validation.
const (
	DefaultBlockSize   = 1024
	DefaultBlocks      = 16
	DefaultSampleRate  = 30000.0
	DefaultToneHz      = 1000.0
	DefaultToneAmp     = 1.0
	DefaultMetricsPath = "/metrics"

	minBlockSize = 16
	maxBlockSize = 1 << 16
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config is the complete run configuration.
type Config struct {
	BlockSize int            `yaml:"block_size"`
	Blocks    int            `yaml:"blocks"`
	Logging   LoggingConfig  `yaml:"logging"`
	Metrics   MetricsConfig  `yaml:"metrics"`
	Streams   []StreamConfig `yaml:"streams"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// MetricsConfig configures the Prometheus endpoint used by serve.
type MetricsConfig struct {
	Listen string `yaml:"listen"`
	Path   string `yaml:"path"`
}

// StreamConfig describes one simulated data stream and its test tone.
type StreamConfig struct {
	Name       string     `yaml:"name"`
	Channels   int        `yaml:"channels"`
	SampleRate float64    `yaml:"sample_rate"`
	Scaling    *float64   `yaml:"scaling"`
	Offset     *float64   `yaml:"offset"`
	Selected   []int      `yaml:"selected"` // empty selects all channels
	Enabled    *bool      `yaml:"enabled"`
	Tone       ToneConfig `yaml:"tone"`
}

// ToneConfig is the sine fed into every channel of a stream.
type ToneConfig struct {
	Frequency float64 `yaml:"frequency"`
	Amplitude float64 `yaml:"amplitude"`
}

// Load reads, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.BlockSize == 0 {
		c.BlockSize = DefaultBlockSize
	}
	if c.Blocks == 0 {
		c.Blocks = DefaultBlocks
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	for i := range c.Streams {
		s := &c.Streams[i]
		if s.Name == "" {
			s.Name = fmt.Sprintf("stream-%d", i+1)
		}
		if s.SampleRate == 0 {
			s.SampleRate = DefaultSampleRate
		}
		if s.Tone.Frequency == 0 {
			s.Tone.Frequency = DefaultToneHz
		}
		if s.Tone.Amplitude == 0 {
			s.Tone.Amplitude = DefaultToneAmp
		}
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.BlockSize < minBlockSize || c.BlockSize > maxBlockSize || bits.OnesCount(uint(c.BlockSize)) != 1 {
		return fmt.Errorf("%w: block_size must be a power of two in [%d, %d], got %d",
			ErrInvalid, minBlockSize, maxBlockSize, c.BlockSize)
	}

	if c.Blocks < 1 {
		return fmt.Errorf("%w: blocks must be at least 1, got %d", ErrInvalid, c.Blocks)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if len(c.Streams) == 0 {
		return fmt.Errorf("%w: at least one stream is required", ErrInvalid)
	}

	names := make(map[string]struct{}, len(c.Streams))
	for i := range c.Streams {
		s := &c.Streams[i]
		if _, dup := names[s.Name]; dup {
			return fmt.Errorf("%w: duplicate stream name %q", ErrInvalid, s.Name)
		}
		names[s.Name] = struct{}{}

		if err := s.Validate(); err != nil {
			return fmt.Errorf("stream %q: %w", s.Name, err)
		}
	}

	return nil
}

// Validate validates logging configuration.
func (l *LoggingConfig) Validate() error {
	if _, err := l.SlogLevel(); err != nil {
		return err
	}

	switch strings.ToLower(l.Format) {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("%w: format must be text or json, got %q", ErrInvalid, l.Format)
	}
}

// SlogLevel parses Level ("debug", "info", "warn", "error", or offsets such
// as "info+2").
func (l *LoggingConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: level: %w", ErrInvalid, err)
	}

	return lvl, nil
}

// Validate validates one stream.
func (s *StreamConfig) Validate() error {
	if s.Channels < 1 {
		return fmt.Errorf("%w: channels must be at least 1, got %d", ErrInvalid, s.Channels)
	}
	if s.SampleRate <= 0 {
		return fmt.Errorf("%w: sample_rate must be > 0, got %v", ErrInvalid, s.SampleRate)
	}

	for _, ch := range s.Selected {
		if ch < 0 || ch >= s.Channels {
			return fmt.Errorf("%w: selected channel %d out of range [0, %d)", ErrInvalid, ch, s.Channels)
		}
	}

	if s.Tone.Frequency < 0 || s.Tone.Frequency > s.SampleRate/2 {
		return fmt.Errorf("%w: tone frequency %v outside [0, %v]", ErrInvalid, s.Tone.Frequency, s.SampleRate/2)
	}
	if s.Tone.Amplitude < 0 {
		return fmt.Errorf("%w: tone amplitude must be >= 0, got %v", ErrInvalid, s.Tone.Amplitude)
	}

	return nil
}

// Params converts the stream section into processor parameters. Unset
// fields take the parameter defaults.
func (s *StreamConfig) Params() scaleconv.StreamParams {
	p := scaleconv.DefaultStreamParams(s.Channels)

	if s.Scaling != nil {
		p.Scaling = *s.Scaling
	}
	if s.Offset != nil {
		p.Offset = *s.Offset
	}
	if len(s.Selected) > 0 {
		p.Channels = scaleconv.NewChannelSet(s.Selected...)
	}
	if s.Enabled != nil {
		p.Enabled = *s.Enabled
	}

	return p
}
