package lppool

import (
	"fmt"

	"github.com/born-ml/lppool/internal/tensor"
)

// OutputExtent returns the number of windows of width that fit in
// inputExtent when advanced by stride. Callers reject inputExtent < width
// before calling it.
func OutputExtent(inputExtent, width, stride int) int {
	return (inputExtent-width)/stride + 1
}

// OutputShape returns the shape the output tensor must have for an input of
// inputShape. Only the feature axis changes; rank, batch and trailing axes are
// preserved.
func OutputShape(inputShape tensor.Shape, batchMode bool, width, stride int) (tensor.Shape, error) {
	if _, ok := axisMaps[batchMode][len(inputShape)]; !ok {
		return nil, fmt.Errorf("%w: got %d dimensions (%s)",
			ErrUnsupportedRank, len(inputShape), rankRangeMessage(batchMode))
	}
	axis := FeatureAxis(batchMode)
	if inputShape[axis] < width {
		return nil, fmt.Errorf("%w: feature extent %d < width %d",
			ErrFeatureExtentTooSmall, inputShape[axis], width)
	}

	out := inputShape.Clone()
	out[axis] = OutputExtent(inputShape[axis], width, stride)
	return out, nil
}

// WindowsCovering returns the half-open range [first, last) of output
// positions whose window contains input position x.
func WindowsCovering(x, width, stride, outputExtent int) (first, last int) {
	// y*stride <= x  and  x < y*stride + width
	if x >= width {
		first = (x - width + stride) / stride
	}
	last = min(x/stride+1, outputExtent)
	return first, last
}
