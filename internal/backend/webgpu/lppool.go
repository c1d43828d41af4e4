//go:build windows

package webgpu

import (
	"fmt"
	"log/slog"

	"github.com/born-ml/lppool/internal/lppool"
	"github.com/born-ml/lppool/internal/tensor"
)

// FeatureLPPoolForward computes a validated forward pass on the GPU, one
// invocation per output element. Only float32 is supported.
func (b *Backend) FeatureLPPoolForward(pass lppool.ForwardPass) error {
	if pass.Input.DType() != tensor.Float32 {
		return fmt.Errorf("webgpu: only float32 is supported, got %s", pass.Input.DType())
	}

	n := pass.NumElements()
	params := packParams(pass.In, pass.Out, pass.Params, n)
	return b.run("featureLPPoolForward", featureLPPoolForwardShader,
		[][]byte{pass.Input.Data()},
		pass.Output.Data(), params, n)
}

// FeatureLPPoolBackward computes a validated backward pass on the GPU, one
// invocation per input element. Only float32 is supported.
func (b *Backend) FeatureLPPoolBackward(pass lppool.BackwardPass) error {
	if pass.Input.DType() != tensor.Float32 {
		return fmt.Errorf("webgpu: only float32 is supported, got %s", pass.Input.DType())
	}

	n := pass.NumElements()
	params := packParams(pass.In, pass.Out, pass.Params, n)
	return b.run("featureLPPoolBackward", featureLPPoolBackwardShader,
		[][]byte{pass.GradOutput.Data(), pass.Input.Data(), pass.Output.Data()},
		pass.GradInput.Data(), params, n)
}

// run dispatches one pooling shader and logs buffer pool usage.
func (b *Backend) run(name, code string, inputs [][]byte, result, params []byte, n int) error {
	if err := b.dispatch(name, code, inputs, result, params, n); err != nil {
		return err
	}
	hits, misses := b.PoolStats()
	slog.Debug("webgpu dispatch", "shader", name, "elements", n, "pool_hits", hits, "pool_misses", misses)
	return nil
}
