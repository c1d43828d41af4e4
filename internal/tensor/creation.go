package tensor

import (
	"fmt"
	"math/rand"
)

// FromSlice creates a CPU tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[T Float](data []T, shape Shape) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), CPU)
	if err != nil {
		return nil, err
	}
	copy(Values[T](raw), data)
	return raw, nil
}

// Zeros creates a zero-filled CPU tensor.
func Zeros[T Float](shape Shape) (*RawTensor, error) {
	var dummy T
	return NewRaw(shape, inferDataType(dummy), CPU)
}

// Randn creates a CPU tensor with standard normal values drawn from rng.
func Randn[T Float](shape Shape, rng *rand.Rand) (*RawTensor, error) {
	raw, err := Zeros[T](shape)
	if err != nil {
		return nil, err
	}
	values := Values[T](raw)
	for i := range values {
		values[i] = T(rng.NormFloat64())
	}
	return raw, nil
}

// Values returns the tensor data as []T. It panics if T does not match the
// tensor's dtype.
func Values[T Float](r *RawTensor) []T {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return any(r.AsFloat32()).([]T)
	case float64:
		return any(r.AsFloat64()).([]T)
	default:
		panic("unsupported type")
	}
}

// Float64s returns a float64 copy of the tensor data regardless of dtype.
func Float64s(r *RawTensor) []float64 {
	switch r.DType() {
	case Float32:
		src := r.AsFloat32()
		out := make([]float64, len(src))
		for i, v := range src {
			out[i] = float64(v)
		}
		return out
	case Float64:
		return append([]float64(nil), r.AsFloat64()...)
	default:
		panic(fmt.Sprintf("unsupported dtype %v", r.DType()))
	}
}

// FromFloat64s creates a CPU tensor of the given dtype from float64 values.
func FromFloat64s(data []float64, shape Shape, dtype DataType) (*RawTensor, error) {
	switch dtype {
	case Float32:
		values := make([]float32, len(data))
		for i, v := range data {
			values[i] = float32(v)
		}
		return FromSlice(values, shape)
	case Float64:
		return FromSlice(data, shape)
	default:
		return nil, fmt.Errorf("unsupported dtype %v", dtype)
	}
}
