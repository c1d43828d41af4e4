// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for GPU-accelerated Lp pooling.
//
// The backend runs on Windows through go-webgpu and supports float32
// tensors only. On other platforms New returns ErrUnavailable.
//
// Example:
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Release()
//
//	pool := nn.NewFeatureLPPool(4, 2, 2, true, gpu)
package webgpu

import (
	internalwebgpu "github.com/born-ml/lppool/internal/backend/webgpu"
	"github.com/born-ml/lppool/internal/lppool"
)

// Backend represents the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements the pooling backend interface.
var _ lppool.Backend = (*Backend)(nil)

// ErrUnavailable is returned by New when no WebGPU adapter can be used.
var ErrUnavailable = internalwebgpu.ErrUnavailable

// New creates a new WebGPU backend. Call Release when done to free GPU
// resources.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable reports whether a compatible GPU and driver are present.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
