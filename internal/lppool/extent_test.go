package lppool

import (
	"testing"

	"github.com/born-ml/lppool/internal/tensor"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputExtent(t *testing.T) {
	tests := []struct {
		in, width, stride, want int
	}{
		{5, 2, 1, 4},
		{5, 5, 1, 1},
		{10, 2, 4, 3},
		{16, 16, 1, 1},
		{20, 16, 1, 5},
		{9, 3, 2, 4},
		{2, 2, 4, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputExtent(tt.in, tt.width, tt.stride),
			"in=%d width=%d stride=%d", tt.in, tt.width, tt.stride)
	}
}

func TestOutputShape(t *testing.T) {
	tests := []struct {
		shape     tensor.Shape
		batchMode bool
		want      tensor.Shape
	}{
		{tensor.Shape{10}, false, tensor.Shape{5}},
		{tensor.Shape{10, 3}, false, tensor.Shape{5, 3}},
		{tensor.Shape{10, 3, 2}, false, tensor.Shape{5, 3, 2}},
		{tensor.Shape{4, 10}, true, tensor.Shape{4, 5}},
		{tensor.Shape{4, 10, 3}, true, tensor.Shape{4, 5, 3}},
		{tensor.Shape{4, 10, 3, 2}, true, tensor.Shape{4, 5, 3, 2}},
	}
	for _, tt := range tests {
		got, err := OutputShape(tt.shape, tt.batchMode, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := OutputShape(tensor.Shape{1, 10}, true, 12, 1)
	assert.ErrorIs(t, err, ErrFeatureExtentTooSmall)

	_, err = OutputShape(tensor.Shape{1, 10, 2, 2}, false, 2, 1)
	assert.ErrorIs(t, err, ErrUnsupportedRank)
}

func TestOutputExtent_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("output extent matches the number of windows that fit", prop.ForAll(
		func(in, width, stride int) bool {
			if in < width {
				return true
			}
			n := OutputExtent(in, width, stride)
			lastStart := (n - 1) * stride
			// The last window fits, the next one would not.
			return n >= 1 && lastStart+width <= in && lastStart+stride+width > in
		},
		gen.IntRange(1, 200),
		gen.IntRange(MinWidth, MaxWidth),
		gen.IntRange(MinStride, MaxStride),
	))

	properties.Property("resize-time and validation-time extents agree", prop.ForAll(
		func(batch, in, extra, width, stride int) bool {
			if in < width {
				return true
			}
			input := tensor.Shape{batch, in, extra}
			shape, err := OutputShape(input, true, width, stride)
			if err != nil {
				return false
			}
			c, err := Normalize(shape, nil, true)
			if err != nil {
				return false
			}
			return c.Dims[AxisFeature] == OutputExtent(input[1], width, stride) &&
				c.Dims[AxisBatch] == batch && c.Dims[AxisExtra1] == extra
		},
		gen.IntRange(1, 4),
		gen.IntRange(1, 64),
		gen.IntRange(1, 4),
		gen.IntRange(MinWidth, MaxWidth),
		gen.IntRange(MinStride, MaxStride),
	))

	properties.Property("WindowsCovering matches a brute-force scan", prop.ForAll(
		func(in, width, stride int) bool {
			if in < width {
				return true
			}
			n := OutputExtent(in, width, stride)
			for x := 0; x < in; x++ {
				first, last := WindowsCovering(x, width, stride, n)
				for y := 0; y < n; y++ {
					covers := y*stride <= x && x < y*stride+width
					inRange := y >= first && y < last
					if covers != inRange {
						return false
					}
				}
				if last-first > (width+stride-1)/stride {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 80),
		gen.IntRange(MinWidth, MaxWidth),
		gen.IntRange(MinStride, MaxStride),
	))

	properties.TestingRun(t)
}
