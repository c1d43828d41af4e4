// Package config defines the lppool configuration and loads it from files,
// environment variables and command-line flags.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/born-ml/lppool/internal/lppool"
	"github.com/born-ml/lppool/internal/parallel"
)

// Backend names accepted by the backend key.
const (
	BackendCPU    = "cpu"
	BackendWebGPU = "webgpu"
)

// Config is the complete configuration for the lppool command and server.
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`
	Backend  string `mapstructure:"backend" yaml:"backend" json:"backend"`

	Parallel ParallelConfig `mapstructure:"parallel" yaml:"parallel" json:"parallel"`
	Pool     PoolConfig     `mapstructure:"pool" yaml:"pool" json:"pool"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server" json:"server"`
}

// ParallelConfig controls CPU scheduling.
type ParallelConfig struct {
	Enabled      bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	NumWorkers   int  `mapstructure:"num_workers" yaml:"num_workers" json:"num_workers"`
	MinChunkSize int  `mapstructure:"min_chunk_size" yaml:"min_chunk_size" json:"min_chunk_size"`
}

// PoolConfig holds default window parameters for commands that do not get
// them per call.
type PoolConfig struct {
	Width           int     `mapstructure:"width" yaml:"width" json:"width"`
	Stride          int     `mapstructure:"stride" yaml:"stride" json:"stride"`
	Power           float64 `mapstructure:"power" yaml:"power" json:"power"`
	BatchMode       bool    `mapstructure:"batch_mode" yaml:"batch_mode" json:"batch_mode"`
	VerifyOutput    bool    `mapstructure:"verify_output" yaml:"verify_output" json:"verify_output"`
	VerifyTolerance float64 `mapstructure:"verify_tolerance" yaml:"verify_tolerance" json:"verify_tolerance"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	MaxBodyMB       int    `mapstructure:"max_body_mb" yaml:"max_body_mb" json:"max_body_mb"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"` // seconds
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	par := parallel.DefaultConfig()
	return Config{
		LogLevel: "info",
		Backend:  BackendCPU,
		Parallel: ParallelConfig{
			Enabled:      par.Enabled,
			NumWorkers:   par.NumWorkers,
			MinChunkSize: par.MinChunkSize,
		},
		Pool: PoolConfig{
			Width:           2,
			Stride:          1,
			Power:           2,
			VerifyTolerance: lppool.DefaultVerifyTolerance,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			MaxBodyMB:       32,
			ShutdownTimeout: 10,
		},
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validBackends := []string{BackendCPU, BackendWebGPU}
	if !slices.Contains(validBackends, c.Backend) {
		return fmt.Errorf("invalid backend: %s (must be one of: %s)", c.Backend, strings.Join(validBackends, ", "))
	}

	if err := c.ToParallelConfig().Validate(); err != nil {
		return fmt.Errorf("invalid parallel config: %w", err)
	}

	if err := lppool.ValidateParams(lppool.OpForward, c.ToParams()); err != nil {
		return fmt.Errorf("invalid pool config: %w", err)
	}
	if c.Pool.VerifyTolerance < 0 {
		return fmt.Errorf("invalid verify tolerance: %g (must not be negative)", c.Pool.VerifyTolerance)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxBodyMB <= 0 {
		return fmt.Errorf("invalid max body size: %d (must be positive)", c.Server.MaxBodyMB)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout: %d (must be positive)", c.Server.ShutdownTimeout)
	}
	return nil
}

// ToParams converts the pool section to lppool.Params.
func (c *Config) ToParams() lppool.Params {
	return lppool.Params{
		Width:           c.Pool.Width,
		Stride:          c.Pool.Stride,
		Power:           c.Pool.Power,
		BatchMode:       c.Pool.BatchMode,
		VerifyOutput:    c.Pool.VerifyOutput,
		VerifyTolerance: c.Pool.VerifyTolerance,
	}
}

// ToParallelConfig converts the parallel section to parallel.Config.
func (c *Config) ToParallelConfig() parallel.Config {
	return parallel.Config{
		Enabled:      c.Parallel.Enabled,
		NumWorkers:   c.Parallel.NumWorkers,
		MinChunkSize: c.Parallel.MinChunkSize,
	}
}

// Addr returns the server listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MaxBodyBytes returns the request body limit in bytes.
func (s ServerConfig) MaxBodyBytes() int64 {
	return int64(s.MaxBodyMB) << 20
}

// ShutdownGrace returns the shutdown timeout as a duration.
func (s ServerConfig) ShutdownGrace() time.Duration {
	return time.Duration(s.ShutdownTimeout) * time.Second
}
