//go:build !windows

package webgpu

import (
	"github.com/born-ml/lppool/internal/lppool"
	"github.com/born-ml/lppool/internal/tensor"
)

// Backend is a placeholder on platforms without the WebGPU backend.
type Backend struct{}

var _ lppool.Backend = (*Backend)(nil)

// New always returns ErrUnavailable on this platform.
func New() (*Backend, error) {
	return nil, ErrUnavailable
}

// IsAvailable always returns false on this platform.
func IsAvailable() bool {
	return false
}

// Release is a no-op.
func (b *Backend) Release() {}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "WebGPU"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return tensor.WebGPU
}

// FeatureLPPoolForward returns ErrUnavailable.
func (b *Backend) FeatureLPPoolForward(lppool.ForwardPass) error {
	return ErrUnavailable
}

// FeatureLPPoolBackward returns ErrUnavailable.
func (b *Backend) FeatureLPPoolBackward(lppool.BackwardPass) error {
	return ErrUnavailable
}
