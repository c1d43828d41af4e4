package lppool

import (
	"testing"

	"github.com/born-ml/lppool/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Ranks(t *testing.T) {
	tests := []struct {
		name      string
		shape     tensor.Shape
		batchMode bool
		dims      [4]int
		strides   [4]int
	}{
		{"feature", tensor.Shape{7}, false, [4]int{1, 7, 1, 1}, [4]int{0, 1, 0, 0}},
		{"feature x extra1", tensor.Shape{7, 3}, false, [4]int{1, 7, 3, 1}, [4]int{0, 3, 1, 0}},
		{"feature x extra1 x extra2", tensor.Shape{7, 3, 2}, false, [4]int{1, 7, 3, 2}, [4]int{0, 6, 2, 1}},
		{"batch x feature", tensor.Shape{4, 7}, true, [4]int{4, 7, 1, 1}, [4]int{7, 1, 0, 0}},
		{"batch x feature x extra1", tensor.Shape{4, 7, 3}, true, [4]int{4, 7, 3, 1}, [4]int{21, 3, 1, 0}},
		{"batch x feature x extra1 x extra2", tensor.Shape{4, 7, 3, 2}, true, [4]int{4, 7, 3, 2}, [4]int{42, 6, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Normalize(tt.shape, nil, tt.batchMode)
			require.NoError(t, err)
			assert.Equal(t, tt.dims, c.Dims)
			assert.Equal(t, tt.strides, c.Strides)
			assert.Equal(t, tt.shape.NumElements(), c.NumElements())
		})
	}
}

func TestNormalize_UnsupportedRank(t *testing.T) {
	tests := []struct {
		shape     tensor.Shape
		batchMode bool
	}{
		{tensor.Shape{2, 3, 4, 5}, false},
		{tensor.Shape{5}, true},
		{tensor.Shape{}, false},
		{tensor.Shape{}, true},
		{tensor.Shape{1, 2, 3, 4, 5}, true},
	}

	for _, tt := range tests {
		_, err := Normalize(tt.shape, nil, tt.batchMode)
		assert.ErrorIs(t, err, ErrUnsupportedRank, "shape %v batch=%t", tt.shape, tt.batchMode)
	}
}

// TestNormalize_AddressesMatchSource checks that walking the canonical view
// in row-major order visits the source storage in order.
func TestNormalize_AddressesMatchSource(t *testing.T) {
	shapes := []struct {
		shape     tensor.Shape
		batchMode bool
	}{
		{tensor.Shape{5}, false},
		{tensor.Shape{5, 3}, false},
		{tensor.Shape{5, 3, 2}, false},
		{tensor.Shape{2, 5}, true},
		{tensor.Shape{2, 5, 3}, true},
		{tensor.Shape{2, 5, 3, 2}, true},
	}

	for _, s := range shapes {
		c, err := Normalize(s.shape, nil, s.batchMode)
		require.NoError(t, err)

		for i := 0; i < c.NumElements(); i++ {
			b, f, e1, e2 := c.Coord(i)
			require.Equal(t, i, c.Offset(b, f, e1, e2), "shape %v index %d", s.shape, i)
		}
	}
}

func TestView_SharesStorage(t *testing.T) {
	raw, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2})
	require.NoError(t, err)

	c, err := Normalize(raw.Shape(), raw.Strides(), false)
	require.NoError(t, err)
	v := View[float32]{Data: raw.AsFloat32(), Canonical: c}
	assert.Equal(t, float32(4), v.At(0, 1, 1, 0))

	v.Set(0, 2, 0, 0, 50)
	assert.Equal(t, float32(50), raw.AsFloat32()[4])
}

func TestFeatureAxis(t *testing.T) {
	assert.Equal(t, 0, FeatureAxis(false))
	assert.Equal(t, 1, FeatureAxis(true))
}
