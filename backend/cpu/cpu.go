// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/lppool/internal/backend/cpu"
	"github.com/born-ml/lppool/internal/lppool"
	"github.com/born-ml/lppool/internal/parallel"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Config controls how the CPU backend splits work across goroutines.
type Config = parallel.Config

// Compile-time check that Backend implements the pooling backend interface.
var _ lppool.Backend = (*Backend)(nil)

// New creates a new CPU backend using all available CPUs.
//
// Example:
//
//	backend := cpu.New()
//	out, err := nn.Pool(backend, input, nn.Params{Width: 2, Stride: 1, Power: 2})
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
func NewWithConfig(cfg Config) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// DefaultConfig returns the default parallelism settings.
func DefaultConfig() Config {
	return parallel.DefaultConfig()
}
