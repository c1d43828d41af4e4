// Package nn provides the FeatureLPPool layer: feature Lp pooling with
// reusable output and gradient buffers.
package nn

import (
	"fmt"

	"github.com/born-ml/lppool/internal/lppool"
	"github.com/born-ml/lppool/internal/tensor"
)

// FeatureLPPool pools windows of consecutive features with an Lp norm.
//
// The layer has no learnable parameters. It owns its Output and GradInput
// tensors and resizes them in place on every call, so a training loop with
// fixed shapes allocates once.
//
// Input shape (batchMode=false): [feature], [feature, e1] or [feature, e1, e2]
// Input shape (batchMode=true):  [batch, feature], [batch, feature, e1] or [batch, feature, e1, e2]
// Output shape: the input shape with feature replaced by
//
//	out_feature = (feature - width) / stride + 1
//
// Example:
//
//	pool := nn.NewFeatureLPPool(2, 1, 2, false, cpu.New())
//	input, _ := tensor.FromSlice([]float32{3, 4, 0, 0, 5}, tensor.Shape{5})
//	output, err := pool.UpdateOutput(input) // [5, 4, 0, 5]
type FeatureLPPool[B lppool.Backend] struct {
	params  lppool.Params
	backend B

	// Output holds the result of the last UpdateOutput.
	Output *tensor.RawTensor
	// GradInput holds the result of the last UpdateGradInput.
	GradInput *tensor.RawTensor
}

// NewFeatureLPPool creates a new feature Lp pooling layer.
//
// Parameters:
//   - width: window length, in [lppool.MinWidth, lppool.MaxWidth]
//   - stride: step between windows, in [lppool.MinStride, lppool.MaxStride]
//   - power: exponent p of the norm, finite and > 0
//   - batchMode: whether axis 0 of the input is a batch axis
//   - backend: backend for computation
//
// It panics if a parameter is out of range.
func NewFeatureLPPool[B lppool.Backend](width, stride int, power float64, batchMode bool, backend B) *FeatureLPPool[B] {
	p := lppool.Params{Width: width, Stride: stride, Power: power, BatchMode: batchMode}
	if err := lppool.ValidateParams(lppool.OpForward, p); err != nil {
		panic(fmt.Sprintf("featurelppool: %v", err))
	}
	return &FeatureLPPool[B]{params: p, backend: backend}
}

// SetVerifyOutput enables or disables the stale-output check in
// UpdateGradInput. A tolerance of zero selects lppool.DefaultVerifyTolerance.
func (m *FeatureLPPool[B]) SetVerifyOutput(enabled bool, tolerance float64) {
	m.params.VerifyOutput = enabled
	m.params.VerifyTolerance = tolerance
}

// UpdateOutput runs the forward pass into m.Output and returns it.
func (m *FeatureLPPool[B]) UpdateOutput(input *tensor.RawTensor) (*tensor.RawTensor, error) {
	m.Output = ensure(m.Output, input)
	if err := lppool.Forward(m.backend, input, m.Output, m.params); err != nil {
		return nil, err
	}
	return m.Output, nil
}

// UpdateGradInput runs the backward pass into m.GradInput and returns it.
// UpdateOutput must have been called with the same input first.
func (m *FeatureLPPool[B]) UpdateGradInput(input, gradOutput *tensor.RawTensor) (*tensor.RawTensor, error) {
	if m.Output == nil {
		return nil, fmt.Errorf("featurelppool: UpdateGradInput called before UpdateOutput")
	}
	m.GradInput = ensure(m.GradInput, input)
	if err := lppool.Backward(m.backend, gradOutput, input, m.Output, m.GradInput, m.params); err != nil {
		return nil, err
	}
	return m.GradInput, nil
}

// ensure returns buf if it can hold results for input, otherwise a new
// unsized tensor of input's dtype.
func ensure(buf, input *tensor.RawTensor) *tensor.RawTensor {
	if buf == nil || buf.DType() != input.DType() {
		return tensor.NewEmpty(input.DType(), tensor.CPU)
	}
	return buf
}

// OutputShape returns the output shape for an input shape.
func (m *FeatureLPPool[B]) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	return lppool.OutputShape(inputShape, m.params.BatchMode, m.params.Width, m.params.Stride)
}

// Params returns the layer's window parameters.
func (m *FeatureLPPool[B]) Params() lppool.Params {
	return m.params
}

// Width returns the window length.
func (m *FeatureLPPool[B]) Width() int {
	return m.params.Width
}

// Stride returns the stride.
func (m *FeatureLPPool[B]) Stride() int {
	return m.params.Stride
}

// Power returns the norm exponent.
func (m *FeatureLPPool[B]) Power() float64 {
	return m.params.Power
}

// String returns a string representation of the layer.
func (m *FeatureLPPool[B]) String() string {
	return fmt.Sprintf("FeatureLPPool(width=%d, stride=%d, power=%g, batch_mode=%t)",
		m.params.Width, m.params.Stride, m.params.Power, m.params.BatchMode)
}
