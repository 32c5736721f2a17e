package ui

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the settings of a Scene.
type Config struct {
	// FrameInterval is the cadence of the default TickerLoop.
	FrameInterval time.Duration `yaml:"frame_interval"`
	// LogLevel is one of debug, info, warn, error. Empty disables logging.
	LogLevel string `yaml:"log_level"`
	// Development switches the logger to a human readable console encoder.
	Development bool `yaml:"development"`
	// Metrics registers the reconciliation metrics on the default
	// prometheus registry.
	Metrics bool `yaml:"metrics"`
}

// DefaultConfig returns a configuration ticking at 60 frames per second
// without logging nor metrics.
func DefaultConfig() Config {
	return Config{FrameInterval: time.Second / 60}
}

// LoadConfig decodes a YAML configuration on top of DefaultConfig. Unknown
// fields are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadConfigFile reads the YAML configuration stored at path.
func LoadConfigFile(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfig(bytes.NewReader(b))
}

func (c Config) Validate() error {
	if c.FrameInterval <= 0 {
		return fmt.Errorf("%w: frame_interval must be positive, got %s", ErrInvalidConfig, c.FrameInterval)
	}
	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// NewLogger builds the logger described by c. An empty LogLevel yields a
// no-op logger.
func NewLogger(c Config) (*zap.Logger, error) {
	if c.LogLevel == "" {
		return zap.NewNop(), nil
	}
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      c.Development,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	if c.Development {
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	return zc.Build()
}
