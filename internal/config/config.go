// Package config defines runtime configuration for the search tooling.
package config

import (
	"fmt"
	"runtime"
	"strings"
)

// Search modes for the census command.
const (
	ModeGenerator = "generator"
	ModeBulk      = "bulk"
)

// Config holds all tunables. Values come from defaults, then an optional YAML
// file, then SMARTSCORE_* environment variables.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// StepPercent is the lattice step as a whole percentage in 1..100.
	StepPercent int `koanf:"step_percent"`

	// ChunkSize is the number of candidates per queued batch.
	ChunkSize int `koanf:"chunk_size"`

	// WorkerCount is the number of evaluation workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize is the number of batches that may wait for a worker.
	QueueSize int `koanf:"queue_size"`

	// TopN is the default ranking length.
	TopN int `koanf:"top_n"`

	// Mode selects bulk or generator enumeration.
	Mode string `koanf:"mode"`

	// MaxVectors caps bulk enumeration.
	MaxVectors int `koanf:"max_vectors"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		LogFormat:   "text",
		StepPercent: 10,
		ChunkSize:   4096,
		WorkerCount: runtime.NumCPU(),
		QueueSize:   64,
		TopN:        10,
		Mode:        ModeGenerator,
		MaxVectors:  50_000_000,
	}
}

// Step returns StepPercent as a fraction.
func (c *Config) Step() float64 { return float64(c.StepPercent) / 100 }

// Validate reports the first field that is out of range.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.StepPercent < 1 || c.StepPercent > 100 {
		return fmt.Errorf("%w: step_percent %d outside 1..100", ErrInvalidConfig, c.StepPercent)
	}
	for name, v := range map[string]int{
		"chunk_size":   c.ChunkSize,
		"worker_count": c.WorkerCount,
		"queue_size":   c.QueueSize,
		"top_n":        c.TopN,
		"max_vectors":  c.MaxVectors,
	} {
		if v < 1 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidConfig, name, v)
		}
	}
	switch c.Mode {
	case ModeGenerator, ModeBulk:
	default:
		return fmt.Errorf("%w: mode %q", ErrInvalidConfig, c.Mode)
	}
	return nil
}
