package gradcheck

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/lppool/internal/backend/cpu"
	"github.com/born-ml/lppool/internal/lppool"
	"github.com/born-ml/lppool/internal/tensor"
)

func awayFromZero(t *testing.T, shape tensor.Shape, seed int64) *tensor.RawTensor {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	data := make([]float32, shape.NumElements())
	for i := range data {
		v := 0.5 + rng.Float32()
		if rng.Intn(2) == 0 {
			v = -v
		}
		data[i] = v
	}
	r, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)
	return r
}

func TestCheck_Passes(t *testing.T) {
	input := awayFromZero(t, tensor.Shape{2, 8, 3}, 1)
	p := lppool.Params{Width: 4, Stride: 2, Power: 2.5, BatchMode: true}

	report, err := Check(cpu.New(), input, p, Options{Seed: 7})
	require.NoError(t, err)

	assert.Len(t, report.Analytic, input.NumElements())
	assert.Len(t, report.Numeric, input.NumElements())
	assert.True(t, report.Passed(1e-5), report.String())
	assert.Contains(t, report.String(), "elements=48")
}

// wrongBackward scales every gradient so the check must fail.
type wrongBackward struct {
	*cpu.CPUBackend
}

func (w wrongBackward) FeatureLPPoolBackward(pass lppool.BackwardPass) error {
	if err := w.CPUBackend.FeatureLPPoolBackward(pass); err != nil {
		return err
	}
	g := pass.GradInput.AsFloat64()
	for i := range g {
		g[i] *= 2
	}
	return nil
}

func TestCheck_DetectsWrongGradient(t *testing.T) {
	input := awayFromZero(t, tensor.Shape{6}, 2)
	p := lppool.Params{Width: 2, Stride: 1, Power: 2}

	report, err := Check(wrongBackward{cpu.New()}, input, p, Options{Seed: 1})
	require.NoError(t, err)
	assert.False(t, report.Passed(1e-3), report.String())
}

func TestCheck_ConfigError(t *testing.T) {
	input := awayFromZero(t, tensor.Shape{3}, 3)
	_, err := Check(cpu.New(), input, lppool.Params{Width: 4, Stride: 1, Power: 2}, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, lppool.ErrFeatureExtentTooSmall))
}
