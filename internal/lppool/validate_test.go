package lppool

import (
	"errors"
	"math"
	"testing"

	"github.com/born-ml/lppool/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRaw(t *testing.T, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	return raw
}

func validParams() Params {
	return Params{Width: 2, Stride: 1, Power: 2}
}

func TestValidateParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		want   error
	}{
		{"width too small", func(p *Params) { p.Width = 1 }, ErrWidthOutOfRange},
		{"width too large", func(p *Params) { p.Width = 17 }, ErrWidthOutOfRange},
		{"stride zero", func(p *Params) { p.Stride = 0 }, ErrStrideOutOfRange},
		{"stride too large", func(p *Params) { p.Stride = 5 }, ErrStrideOutOfRange},
		{"power zero", func(p *Params) { p.Power = 0 }, ErrPowerOutOfRange},
		{"power negative", func(p *Params) { p.Power = -1 }, ErrPowerOutOfRange},
		{"power NaN", func(p *Params) { p.Power = math.NaN() }, ErrPowerOutOfRange},
		{"power Inf", func(p *Params) { p.Power = math.Inf(1) }, ErrPowerOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			err := ValidateParams(OpForward, p)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	for _, w := range []int{MinWidth, MaxWidth} {
		for _, s := range []int{MinStride, MaxStride} {
			assert.NoError(t, ValidateParams(OpForward, Params{Width: w, Stride: s, Power: 0.5}))
		}
	}
}

func TestValidateForward_WidthOutOfRangeForEveryShape(t *testing.T) {
	shapes := []struct {
		shape     tensor.Shape
		batchMode bool
	}{
		{tensor.Shape{5}, false},
		{tensor.Shape{1}, false},
		{tensor.Shape{40, 2}, false},
		{tensor.Shape{2, 3, 4, 5}, false}, // rank also unsupported
		{tensor.Shape{5}, true},           // rank also unsupported
		{tensor.Shape{2, 40, 3, 3}, true},
	}

	p := Params{Width: 20, Stride: 1, Power: 2}
	for _, s := range shapes {
		p.BatchMode = s.batchMode
		_, err := ValidateForward(mustRaw(t, s.shape), nil, p)
		assert.ErrorIs(t, err, ErrWidthOutOfRange, "shape %v", s.shape)
	}
}

func TestValidateForward_ShapeChecks(t *testing.T) {
	_, err := ValidateForward(mustRaw(t, tensor.Shape{2, 3, 4, 5}), nil, validParams())
	assert.ErrorIs(t, err, ErrUnsupportedRank)

	p := validParams()
	p.BatchMode = true
	_, err = ValidateForward(mustRaw(t, tensor.Shape{5}), nil, p)
	assert.ErrorIs(t, err, ErrUnsupportedRank)

	_, err = ValidateForward(mustRaw(t, tensor.Shape{1}), nil, validParams())
	assert.ErrorIs(t, err, ErrFeatureExtentTooSmall)

	// Feature axis is axis 1 in batch mode: 8 examples of 1 feature each.
	_, err = ValidateForward(mustRaw(t, tensor.Shape{8, 1}), nil, p)
	assert.ErrorIs(t, err, ErrFeatureExtentTooSmall)

	c, err := ValidateForward(mustRaw(t, tensor.Shape{8, 2}), nil, p)
	require.NoError(t, err)
	assert.Equal(t, [4]int{8, 2, 1, 1}, c.Dims)

	out, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	_, err = ValidateForward(mustRaw(t, tensor.Shape{5}), out, validParams())
	assert.ErrorIs(t, err, ErrDTypeMismatch)
}

func TestValidateBackward(t *testing.T) {
	p := validParams()
	input := mustRaw(t, tensor.Shape{5, 3})

	tests := []struct {
		name       string
		output     tensor.Shape
		gradOutput tensor.Shape
		want       error
	}{
		{"valid", tensor.Shape{4, 3}, tensor.Shape{4, 3}, nil},
		{"trailing unit axis on gradOutput", tensor.Shape{4, 3}, tensor.Shape{4, 3, 1}, nil},
		{"output rank unsupported", tensor.Shape{1, 4, 3, 1}, tensor.Shape{4, 3}, ErrUnsupportedRank},
		{"gradOutput rank unsupported", tensor.Shape{4, 3}, tensor.Shape{1, 4, 3, 1}, ErrUnsupportedRank},
		{"output and gradOutput differ", tensor.Shape{4, 3}, tensor.Shape{4, 2}, ErrShapeMismatch},
		{"wrong window count", tensor.Shape{3, 3}, tensor.Shape{3, 3}, ErrShapeMismatch},
		{"extra axis differs from input", tensor.Shape{4, 2}, tensor.Shape{4, 2}, ErrShapeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateBackward(mustRaw(t, tt.gradOutput), input, mustRaw(t, tt.output), nil, p)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateBackward_RankMustMatchBatchMode(t *testing.T) {
	p := validParams()
	p.BatchMode = true
	input := mustRaw(t, tensor.Shape{2, 5})

	_, err := ValidateBackward(mustRaw(t, tensor.Shape{2, 4}), input, mustRaw(t, tensor.Shape{2, 4}), nil, p)
	require.NoError(t, err)

	_, err = ValidateBackward(mustRaw(t, tensor.Shape{8}), input, mustRaw(t, tensor.Shape{2, 4}), nil, p)
	assert.ErrorIs(t, err, ErrUnsupportedRank)
}

func TestError_Formatting(t *testing.T) {
	err := ValidateParams(OpBackward, Params{Width: 2, Stride: 9, Power: 1})
	require.Error(t, err)

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, OpBackward, cfgErr.Op)
	assert.Equal(t, KindStrideOutOfRange, cfgErr.Kind)
	assert.Contains(t, err.Error(), "stride_out_of_range")
	assert.Contains(t, err.Error(), "between 1 and 4")

	assert.Equal(t, KindStrideOutOfRange, KindOf(err))
	assert.True(t, IsConfigError(err))
	assert.False(t, IsConfigError(errors.New("gpu lost")))
	assert.Equal(t, Kind(0), KindOf(nil))
}
