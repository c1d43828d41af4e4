package cpu

import (
	"fmt"

	"github.com/born-ml/lppool/internal/lppool"
	"github.com/born-ml/lppool/internal/parallel"
	"github.com/born-ml/lppool/internal/tensor"
)

// FeatureLPPoolForward computes every output element of a validated forward
// pass.
//
// Each output element (b, y, e1, e2) reads the window
// input[b, y*stride : y*stride+width, e1, e2] and writes only itself, so the
// flat output index space is split into chunks that run concurrently.
//
// Example (width=2, stride=1, power=2):
//
//	Input: [3, 4, 0, 0, 5]  ->  Output: [5, 4, 0, 5]
func (cpu *CPUBackend) FeatureLPPoolForward(pass lppool.ForwardPass) error {
	switch pass.Input.DType() {
	case tensor.Float32:
		featureLPPoolForward[float32](pass, cpu.parallel)
	case tensor.Float64:
		featureLPPoolForward[float64](pass, cpu.parallel)
	default:
		return fmt.Errorf("feature lp pool forward: unsupported dtype %v", pass.Input.DType())
	}
	return nil
}

// FeatureLPPoolBackward computes every input gradient element of a validated
// backward pass.
//
// Each input element gathers from the at most ceil(width/stride) windows that
// cover it, so no two tasks write the same cell and no atomics are needed.
func (cpu *CPUBackend) FeatureLPPoolBackward(pass lppool.BackwardPass) error {
	switch pass.Input.DType() {
	case tensor.Float32:
		featureLPPoolBackward[float32](pass, cpu.parallel)
	case tensor.Float64:
		featureLPPoolBackward[float64](pass, cpu.parallel)
	default:
		return fmt.Errorf("feature lp pool backward: unsupported dtype %v", pass.Input.DType())
	}
	return nil
}

func featureLPPoolForward[T tensor.Float](pass lppool.ForwardPass, cfg parallel.Config) {
	in, out := lppool.ForwardViews[T](pass)
	parallel.ForRange(pass.NumElements(), func(start, end int) {
		lppool.ForwardRange(in, out, pass.Params, start, end)
	}, cfg)
}

func featureLPPoolBackward[T tensor.Float](pass lppool.BackwardPass, cfg parallel.Config) {
	gradOut, in, out, gradIn := lppool.BackwardViews[T](pass)
	parallel.ForRange(pass.NumElements(), func(start, end int) {
		lppool.BackwardRange(gradOut, in, out, gradIn, pass.Params, start, end)
	}, cfg)
}
