package lppool

import (
	"errors"
	"math"

	"github.com/born-ml/lppool/internal/tensor"
)

// Operation names carried by Error.Op.
const (
	OpForward  = "forward"
	OpBackward = "backward"
)

// ValidateParams checks the parameter domains. It does not look at any tensor.
func ValidateParams(op string, p Params) error {
	if p.Width < MinWidth || p.Width > MaxWidth {
		return newError(op, KindWidthOutOfRange, "width %d must be between %d and %d", p.Width, MinWidth, MaxWidth)
	}
	if p.Stride < MinStride || p.Stride > MaxStride {
		return newError(op, KindStrideOutOfRange, "stride %d must be between %d and %d", p.Stride, MinStride, MaxStride)
	}
	if !(p.Power > 0) || math.IsInf(p.Power, 0) {
		return newError(op, KindPowerOutOfRange, "power %v must be finite and > 0", p.Power)
	}
	return nil
}

// namedTensor pairs a tensor with the argument name used in errors.
type namedTensor struct {
	name string
	r    *tensor.RawTensor
}

// checkDestination rejects a nil destination or one that is the same tensor as
// a source, before anything is resized.
func checkDestination(op string, dst namedTensor, sources ...namedTensor) error {
	if dst.r == nil {
		return newError(op, KindInvalidTensor, "%s is nil", dst.name)
	}
	for _, src := range sources {
		if src.r == dst.r {
			return newError(op, KindInvalidTensor, "%s must not be the same tensor as %s", dst.name, src.name)
		}
	}
	return nil
}

// validateInput normalizes input and checks that a window fits.
func validateInput(op string, input *tensor.RawTensor, p Params) (Canonical, error) {
	if input == nil {
		return Canonical{}, newError(op, KindInvalidTensor, "input is nil")
	}
	c, err := Normalize(input.Shape(), input.Strides(), p.BatchMode)
	if err != nil {
		return Canonical{}, newError(op, KindUnsupportedRank, "input %v: %s", input, rankRangeMessage(p.BatchMode))
	}
	if c.Dims[AxisFeature] < p.Width {
		return Canonical{}, newError(op, KindFeatureExtentTooSmall,
			"input feature extent %d must be >= width %d", c.Dims[AxisFeature], p.Width)
	}
	return c, nil
}

// ValidateForward runs the checks that gate a forward pass and returns the
// canonical input shape. Parameter domains are checked before any shape so a
// bad parameter is reported the same way for every input.
func ValidateForward(input, output *tensor.RawTensor, p Params) (Canonical, error) {
	if err := ValidateParams(OpForward, p); err != nil {
		return Canonical{}, err
	}
	c, err := validateInput(OpForward, input, p)
	if err != nil {
		return Canonical{}, err
	}
	if output != nil && output.DType() != input.DType() {
		return Canonical{}, newError(OpForward, KindDTypeMismatch,
			"output dtype %s does not match input dtype %s", output.DType(), input.DType())
	}
	return c, nil
}

// ValidateBackward runs every forward check plus the cross-tensor checks
// between input, output and gradOutput.
func ValidateBackward(gradOutput, input, output, gradInput *tensor.RawTensor, p Params) (Canonical, error) {
	if err := ValidateParams(OpBackward, p); err != nil {
		return Canonical{}, err
	}
	in, err := validateInput(OpBackward, input, p)
	if err != nil {
		return Canonical{}, err
	}

	for _, t := range []namedTensor{{"output", output}, {"gradOutput", gradOutput}} {
		if t.r == nil {
			return Canonical{}, newError(OpBackward, KindInvalidTensor, "%s is nil", t.name)
		}
	}
	for _, t := range []namedTensor{{"output", output}, {"gradOutput", gradOutput}, {"gradInput", gradInput}} {
		if t.r != nil && t.r.DType() != input.DType() {
			return Canonical{}, newError(OpBackward, KindDTypeMismatch,
				"%s dtype %s does not match input dtype %s", t.name, t.r.DType(), input.DType())
		}
	}

	out, outErr := Normalize(output.Shape(), output.Strides(), p.BatchMode)
	gradOut, gradErr := Normalize(gradOutput.Shape(), gradOutput.Strides(), p.BatchMode)
	if err := errors.Join(outErr, gradErr); err != nil {
		return Canonical{}, newError(OpBackward, KindUnsupportedRank,
			"output %v and/or gradOutput %v are improperly sized: %s", output, gradOutput, rankRangeMessage(p.BatchMode))
	}
	if out.Dims != gradOut.Dims {
		return Canonical{}, newError(OpBackward, KindShapeMismatch,
			"output %v and gradOutput %v sizes do not match", out.Dims, gradOut.Dims)
	}

	want := OutputExtent(in.Dims[AxisFeature], p.Width, p.Stride)
	if want != out.Dims[AxisFeature] {
		return Canonical{}, newError(OpBackward, KindShapeMismatch,
			"input feature extent %d gives %d windows for width %d stride %d, output has %d",
			in.Dims[AxisFeature], want, p.Width, p.Stride, out.Dims[AxisFeature])
	}
	for _, axis := range []int{AxisBatch, AxisExtra1, AxisExtra2} {
		if in.Dims[axis] != out.Dims[axis] {
			return Canonical{}, newError(OpBackward, KindShapeMismatch,
				"input %v and output %v differ outside the feature axis", in.Dims, out.Dims)
		}
	}
	return in, nil
}
