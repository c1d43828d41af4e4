package webgpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/lppool/internal/lppool"
	"github.com/born-ml/lppool/internal/tensor"
)

func TestPackParams(t *testing.T) {
	p := lppool.Params{Width: 3, Stride: 2, Power: 2.5, BatchMode: true}
	in, err := lppool.Normalize(tensor.Shape{4, 9, 5}, nil, true)
	require.NoError(t, err)
	out, err := lppool.Normalize(tensor.Shape{4, 4, 5}, nil, true)
	require.NoError(t, err)

	buf := packParams(in, out, p, 80)
	require.Len(t, buf, paramsSize)

	u32 := func(i int) uint32 { return binary.LittleEndian.Uint32(buf[i*4:]) }
	assert.Equal(t, []uint32{4, 9, 4, 5, 1, 3, 2, 80},
		[]uint32{u32(0), u32(1), u32(2), u32(3), u32(4), u32(5), u32(6), u32(7)})
	assert.Equal(t, float32(2.5), math.Float32frombits(u32(8)))
}

func TestWorkgroupCount(t *testing.T) {
	tests := []struct {
		n    int
		want uint32
	}{
		{1, 1},
		{256, 1},
		{257, 2},
		{maxWorkgroups * workgroupSize, maxWorkgroups},
	}
	for _, tt := range tests {
		got, err := workgroupCount(tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "n=%d", tt.n)
	}

	_, err := workgroupCount(maxWorkgroups*workgroupSize + 1)
	assert.Error(t, err)
}
