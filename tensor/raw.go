// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"math/rand"

	"github.com/born-ml/lppool/internal/tensor"
)

// RawTensor is a dense row-major tensor.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
//	data := raw.AsFloat32()  // Zero-copy view
//	clone := raw.Clone()     // Independent copy
type RawTensor = tensor.RawTensor

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// DataType is the runtime element type of a RawTensor.
type DataType = tensor.DataType

// Device identifies where a tensor's computation runs.
type Device = tensor.Device

// Float constrains the element types pooling supports.
type Float = tensor.Float

// Data types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
)

// Devices.
const (
	CPU    = tensor.CPU
	WebGPU = tensor.WebGPU
)

// MaxRank is the highest supported rank.
const MaxRank = tensor.MaxRank

// NewRaw creates a zeroed tensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// NewEmpty creates an unsized tensor. Forward and backward passes size it
// on first use.
func NewEmpty(dtype DataType, device Device) *RawTensor {
	return tensor.NewEmpty(dtype, device)
}

// FromSlice copies data into a new tensor of the given shape.
func FromSlice[T Float](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// Zeros creates a zeroed tensor.
func Zeros[T Float](shape Shape) (*RawTensor, error) {
	return tensor.Zeros[T](shape)
}

// Randn fills a new tensor with standard normal values from rng.
func Randn[T Float](shape Shape, rng *rand.Rand) (*RawTensor, error) {
	return tensor.Randn[T](shape, rng)
}

// Values returns the tensor's elements as a []T view.
func Values[T Float](r *RawTensor) []T {
	return tensor.Values[T](r)
}

// Float64s returns a float64 copy of the tensor's elements.
func Float64s(r *RawTensor) []float64 {
	return tensor.Float64s(r)
}
