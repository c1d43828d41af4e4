package tensor

import (
	"fmt"
	"unsafe"
)

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// RawTensor is the low-level tensor representation: a dense row-major buffer
// plus shape metadata. The buffer may be larger than the current shape needs
// so that Resize can shrink and regrow a tensor without reallocating.
type RawTensor struct {
	data   []byte   // Backing storage, len(data) is the capacity in bytes
	shape  Shape    // Tensor dimensions, nil for an unsized tensor
	stride []int    // Memory strides (row-major)
	dtype  DataType // Runtime type information
	device Device   // Compute device
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is zero-initialized.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &RawTensor{
		data:   make([]byte, shape.NumElements()*dtype.Size()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}, nil
}

// NewEmpty creates an unsized tensor of the given type. It holds no elements
// until Resize is called; operators that produce a result resize it for you.
func NewEmpty(dtype DataType, device Device) *RawTensor {
	return &RawTensor{dtype: dtype, device: device}
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Rank returns the number of dimensions (0 for an unsized tensor).
func (r *RawTensor) Rank() int {
	return len(r.shape)
}

// Dim returns the extent of axis i.
func (r *RawTensor) Dim(i int) int {
	return r.shape[i]
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements (0 for an unsized tensor).
func (r *RawTensor) NumElements() int {
	if len(r.shape) == 0 {
		return 0
	}
	return r.shape.NumElements()
}

// ByteSize returns the memory size of the current shape in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw bytes of the current shape.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.data[:r.ByteSize()]
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	n := r.NumElements()
	if n == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.data[0])), n)
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	n := r.NumElements()
	if n == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by NumElements()
	return unsafe.Slice((*float64)(unsafe.Pointer(&r.data[0])), n)
}

// Resize changes the tensor's shape. Existing storage is reused when it is
// large enough, otherwise a new zeroed buffer is allocated. Element values
// are unspecified after a resize that changes the shape.
func (r *RawTensor) Resize(shape Shape) error {
	if err := shape.Validate(); err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	if r.shape.Equal(shape) {
		return nil
	}

	need := shape.NumElements() * r.dtype.Size()
	if need > len(r.data) {
		r.data = make([]byte, need)
	}
	r.shape = shape.Clone()
	r.stride = shape.ComputeStrides()
	return nil
}

// ResizeAs resizes r to the shape of other.
func (r *RawTensor) ResizeAs(other *RawTensor) error {
	return r.Resize(other.Shape())
}

// Zero sets every element of the current shape to zero.
func (r *RawTensor) Zero() {
	clear(r.Data())
}

// Clone returns a deep copy of the tensor.
func (r *RawTensor) Clone() *RawTensor {
	data := make([]byte, r.ByteSize())
	copy(data, r.Data())
	return &RawTensor{
		data:   data,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: r.device,
	}
}

// String returns a short description such as "float32[2 5]".
func (r *RawTensor) String() string {
	return fmt.Sprintf("%s%v", r.dtype, []int(r.shape))
}
