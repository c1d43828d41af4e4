// Package cpu implements the CPU backend: pooling kernels scheduled over
// goroutines with internal/parallel.
package cpu

import (
	"github.com/born-ml/lppool/internal/lppool"
	"github.com/born-ml/lppool/internal/parallel"
	"github.com/born-ml/lppool/internal/tensor"
)

// CPUBackend executes pooling passes on the CPU.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// Compile-time check that CPUBackend implements lppool.Backend.
var _ lppool.Backend = (*CPUBackend)(nil)

// New creates a new CPU backend with parallel.DefaultConfig.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend with explicit scheduling settings.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// ParallelConfig returns the scheduling settings.
func (cpu *CPUBackend) ParallelConfig() parallel.Config {
	return cpu.parallel
}
