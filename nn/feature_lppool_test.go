// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/lppool/backend/cpu"
	"github.com/born-ml/lppool/nn"
	"github.com/born-ml/lppool/tensor"
)

func TestFeatureLPPool_ForwardBackward(t *testing.T) {
	pool := nn.NewFeatureLPPool(2, 1, 2, false, cpu.New())

	x, err := tensor.FromSlice([]float32{3, 4, 0, 0, 5}, tensor.Shape{5})
	require.NoError(t, err)
	y, err := pool.UpdateOutput(x)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{5, 4, 0, 5}, y.AsFloat32(), 1e-6)

	g, err := tensor.FromSlice([]float32{1, 0, 0, 1}, tensor.Shape{4})
	require.NoError(t, err)
	dx, err := pool.UpdateGradInput(x, g)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.6, 0.8, 0, 0, 1}, dx.AsFloat32(), 1e-6)
}

func TestNewFeatureLPPool_PanicsOnBadWidth(t *testing.T) {
	assert.Panics(t, func() {
		nn.NewFeatureLPPool(nn.MaxWidth+1, 1, 2, false, cpu.New())
	})
}

func TestPool_ErrorKinds(t *testing.T) {
	x, err := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{3})
	require.NoError(t, err)

	_, err = nn.Pool(cpu.New(), x, nn.Params{Width: 4, Stride: 1, Power: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, nn.ErrFeatureExtentTooSmall))
	assert.True(t, nn.IsConfigError(err))
	assert.Equal(t, nn.ErrFeatureExtentTooSmall, error(nn.KindOf(err)))

	var perr *nn.Error
	require.ErrorAs(t, err, &perr)
}

func TestOutputShape(t *testing.T) {
	shape, err := nn.OutputShape(tensor.Shape{4, 10, 3}, true, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{4, 4, 3}, shape)
}
