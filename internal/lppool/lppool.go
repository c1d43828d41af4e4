// Package lppool implements feature Lp pooling: an Lp norm over overlapping
// windows of consecutive values along the feature axis of a 1-4 dimensional
// tensor, together with its exact gradient.
//
// Tensors of every supported rank are first normalized to a canonical
// [batch, feature, extra1, extra2] view. Validation runs before any numerical
// work. The numerical passes are executed by a Backend, which decides how the
// independent per-element computations are scheduled.
//
// Example:
//
//	backend := cpu.New()
//	input, _ := tensor.FromSlice([]float32{3, 4, 0, 0, 5}, tensor.Shape{5})
//	output, err := lppool.Pool(backend, input, lppool.Params{Width: 2, Stride: 1, Power: 2})
//	// output = [5 4 0 5]
package lppool

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/born-ml/lppool/internal/tensor"
)

// ForwardPass is a validated forward invocation handed to a Backend.
// Output has already been resized.
type ForwardPass struct {
	Input, Output *tensor.RawTensor
	In, Out       Canonical
	Params        Params
}

// BackwardPass is a validated backward invocation handed to a Backend.
// GradInput has already been resized to Input's shape and zeroed.
type BackwardPass struct {
	GradOutput, Input, Output, GradInput *tensor.RawTensor
	GradOut, In, Out, GradIn             Canonical
	Params                               Params
}

// NumElements returns the size of the forward index space.
func (fp ForwardPass) NumElements() int { return fp.Out.NumElements() }

// NumElements returns the size of the backward index space.
func (bp BackwardPass) NumElements() int { return bp.In.NumElements() }

// Backend executes validated passes. Implementations must produce the values
// defined by ForwardAt and BackwardAt for every element, in any order.
type Backend interface {
	Name() string
	FeatureLPPoolForward(pass ForwardPass) error
	FeatureLPPoolBackward(pass BackwardPass) error
}

// ForwardViews returns typed canonical views of the forward tensors.
func ForwardViews[T tensor.Float](fp ForwardPass) (in, out View[T]) {
	return View[T]{Data: tensor.Values[T](fp.Input), Canonical: fp.In},
		View[T]{Data: tensor.Values[T](fp.Output), Canonical: fp.Out}
}

// BackwardViews returns typed canonical views of the backward tensors.
func BackwardViews[T tensor.Float](bp BackwardPass) (gradOut, in, out, gradIn View[T]) {
	return View[T]{Data: tensor.Values[T](bp.GradOutput), Canonical: bp.GradOut},
		View[T]{Data: tensor.Values[T](bp.Input), Canonical: bp.In},
		View[T]{Data: tensor.Values[T](bp.Output), Canonical: bp.Out},
		View[T]{Data: tensor.Values[T](bp.GradInput), Canonical: bp.GradIn}
}

// Forward validates the call, resizes output to the pooled shape and runs
// the forward pass on backend.
func Forward(backend Backend, input, output *tensor.RawTensor, p Params) error {
	in, err := ValidateForward(input, output, p)
	if err != nil {
		return err
	}
	if err := checkDestination(OpForward, namedTensor{"output", output}, namedTensor{"input", input}); err != nil {
		return err
	}

	shape, err := OutputShape(input.Shape(), p.BatchMode, p.Width, p.Stride)
	if err != nil {
		panic(fmt.Sprintf("lppool: output shape for validated input %v: %v", input, err))
	}
	if err := output.Resize(shape); err != nil {
		panic(fmt.Sprintf("lppool: resize output to %v: %v", shape, err))
	}
	out := mustNormalize(output, p.BatchMode)

	pass := ForwardPass{Input: input, Output: output, In: in, Out: out, Params: p}
	start := time.Now()
	if err := backend.FeatureLPPoolForward(pass); err != nil {
		return fmt.Errorf("lppool forward on %s: %w", backend.Name(), err)
	}
	slog.Debug("lppool forward",
		"backend", backend.Name(),
		"input", input.String(),
		"output", output.String(),
		"params", p.String(),
		"elapsed", time.Since(start))
	return nil
}

// Backward validates the call, resizes gradInput to input's shape, zeroes it
// and runs the backward pass on backend. output must be the result of Forward
// on the same input and parameters; set Params.VerifyOutput to have that
// checked.
func Backward(backend Backend, gradOutput, input, output, gradInput *tensor.RawTensor, p Params) error {
	in, err := ValidateBackward(gradOutput, input, output, gradInput, p)
	if err != nil {
		return err
	}
	if err := checkDestination(OpBackward, namedTensor{"gradInput", gradInput},
		namedTensor{"input", input}, namedTensor{"output", output}, namedTensor{"gradOutput", gradOutput}); err != nil {
		return err
	}
	out := mustNormalize(output, p.BatchMode)
	gradOut := mustNormalize(gradOutput, p.BatchMode)

	if p.VerifyOutput {
		if err := verifyOutput(backend, input, output, p); err != nil {
			return err
		}
	}

	if err := gradInput.ResizeAs(input); err != nil {
		panic(fmt.Sprintf("lppool: resize gradInput to %v: %v", input.Shape(), err))
	}
	gradInput.Zero()

	pass := BackwardPass{
		GradOutput: gradOutput,
		Input:      input,
		Output:     output,
		GradInput:  gradInput,
		GradOut:    gradOut,
		In:         in,
		Out:        out,
		GradIn:     mustNormalize(gradInput, p.BatchMode),
		Params:     p,
	}
	start := time.Now()
	if err := backend.FeatureLPPoolBackward(pass); err != nil {
		return fmt.Errorf("lppool backward on %s: %w", backend.Name(), err)
	}
	slog.Debug("lppool backward",
		"backend", backend.Name(),
		"input", input.String(),
		"output", output.String(),
		"params", p.String(),
		"elapsed", time.Since(start))
	return nil
}

// Pool runs Forward into a freshly allocated output tensor.
func Pool(backend Backend, input *tensor.RawTensor, p Params) (*tensor.RawTensor, error) {
	if input == nil {
		return nil, newError(OpForward, KindInvalidTensor, "input is nil")
	}
	output := tensor.NewEmpty(input.DType(), input.Device())
	if err := Forward(backend, input, output, p); err != nil {
		return nil, err
	}
	return output, nil
}

// Gradient runs Backward into a freshly allocated gradInput tensor.
func Gradient(backend Backend, gradOutput, input, output *tensor.RawTensor, p Params) (*tensor.RawTensor, error) {
	if input == nil {
		return nil, newError(OpBackward, KindInvalidTensor, "input is nil")
	}
	gradInput := tensor.NewEmpty(input.DType(), input.Device())
	if err := Backward(backend, gradOutput, input, output, gradInput, p); err != nil {
		return nil, err
	}
	return gradInput, nil
}

// verifyOutput recomputes the forward pass and compares it with output.
func verifyOutput(backend Backend, input, output *tensor.RawTensor, p Params) error {
	fresh, err := Pool(backend, input, p)
	if err != nil {
		return err
	}
	want := tensor.Float64s(fresh)
	got := tensor.Float64s(output)
	tol := p.verifyTolerance()
	for i := range want {
		if diff := math.Abs(want[i] - got[i]); diff > tol*math.Max(1, math.Abs(want[i])) {
			return newError(OpBackward, KindOutputMismatch,
				"output[%d] = %g but forward of input gives %g", i, got[i], want[i])
		}
	}
	return nil
}
