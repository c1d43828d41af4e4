// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/lppool/internal/lppool"
	"github.com/born-ml/lppool/internal/nn"
	"github.com/born-ml/lppool/tensor"
)

// Backend computes feature Lp pooling passes.
type Backend = lppool.Backend

// Params are the window parameters of a pooling call.
type Params = lppool.Params

// FeatureLPPool is a feature Lp pooling layer with reusable output and
// gradient buffers.
type FeatureLPPool[B Backend] = nn.FeatureLPPool[B]

// Parameter domains.
const (
	MinWidth  = lppool.MinWidth
	MaxWidth  = lppool.MaxWidth
	MinStride = lppool.MinStride
	MaxStride = lppool.MaxStride

	DefaultVerifyTolerance = lppool.DefaultVerifyTolerance
)

// NewFeatureLPPool creates a new feature Lp pooling layer. It panics if a
// parameter is out of range.
func NewFeatureLPPool[B Backend](width, stride int, power float64, batchMode bool, backend B) *FeatureLPPool[B] {
	return nn.NewFeatureLPPool(width, stride, power, batchMode, backend)
}

// Forward pools input into output, resizing output as needed.
func Forward(backend Backend, input, output *tensor.RawTensor, p Params) error {
	return lppool.Forward(backend, input, output, p)
}

// Backward writes the gradient with respect to input into gradInput.
// output must be the result of Forward on input with the same parameters.
func Backward(backend Backend, gradOutput, input, output, gradInput *tensor.RawTensor, p Params) error {
	return lppool.Backward(backend, gradOutput, input, output, gradInput, p)
}

// Pool is Forward into a freshly allocated tensor.
func Pool(backend Backend, input *tensor.RawTensor, p Params) (*tensor.RawTensor, error) {
	return lppool.Pool(backend, input, p)
}

// Gradient is Backward into a freshly allocated tensor.
func Gradient(backend Backend, gradOutput, input, output *tensor.RawTensor, p Params) (*tensor.RawTensor, error) {
	return lppool.Gradient(backend, gradOutput, input, output, p)
}

// OutputShape returns the output shape for an input shape.
func OutputShape(inputShape tensor.Shape, batchMode bool, width, stride int) (tensor.Shape, error) {
	return lppool.OutputShape(inputShape, batchMode, width, stride)
}
