package tensorio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/lppool/internal/tensor"
)

// buildSafeTensors assembles a stream from a raw header and data.
func buildSafeTensors(t *testing.T, header string, data []byte) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(len(header))))
	buf.WriteString(header)
	buf.Write(data)
	return &buf
}

func float32Bytes(vals ...float32) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, vals)
	return buf.Bytes()
}

func TestSafeTensors_WriteRead(t *testing.T) {
	r, err := tensor.FromSlice([]float32{3, 4, 0, 0, 5, 1}, tensor.Shape{2, 3})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTensor(&buf, SafeTensors, r))

	got, err := ReadTensor(&buf, SafeTensors)
	require.NoError(t, err)
	assert.Equal(t, "float32[2 3]", got.String())
	assert.Equal(t, r.AsFloat32(), got.AsFloat32())
}

func TestSafeTensors_SelectsTensorByName(t *testing.T) {
	header := `{"__metadata__":{"format":"pt"},` +
		`"bias":{"dtype":"F32","shape":[1],"data_offsets":[0,4]},` +
		`"tensor":{"dtype":"F32","shape":[2],"data_offsets":[4,12]}}`
	buf := buildSafeTensors(t, header, float32Bytes(9, 1.5, -2))

	got, err := ReadTensor(buf, SafeTensors)
	require.NoError(t, err)
	assert.Equal(t, []float32{1.5, -2}, got.AsFloat32())
}

func TestSafeTensors_SingleTensorAnyName(t *testing.T) {
	header := `{"weight":{"dtype":"F32","shape":[3],"data_offsets":[0,12]}}`
	got, err := ReadTensor(buildSafeTensors(t, header, float32Bytes(1, 2, 3)), SafeTensors)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, got.AsFloat32())
}

func TestSafeTensors_Errors(t *testing.T) {
	tests := []struct {
		name   string
		header string
		data   []byte
		want   string
	}{
		{
			name:   "ambiguous",
			header: `{"a":{"dtype":"F32","shape":[1],"data_offsets":[0,4]},"b":{"dtype":"F32","shape":[1],"data_offsets":[4,8]}}`,
			data:   float32Bytes(1, 2),
			want:   "expected one tensor",
		},
		{
			name:   "dtype",
			header: `{"tensor":{"dtype":"F16","shape":[2],"data_offsets":[0,4]}}`,
			data:   float32Bytes(1),
			want:   "unsupported dtype F16",
		},
		{
			name:   "offsets",
			header: `{"tensor":{"dtype":"F32","shape":[2],"data_offsets":[0,4]}}`,
			data:   float32Bytes(1),
			want:   "do not match shape",
		},
		{
			name:   "truncated",
			header: `{"tensor":{"dtype":"F32","shape":[2],"data_offsets":[0,8]}}`,
			data:   float32Bytes(1),
			want:   "failed to read tensor",
		},
		{
			name:   "huge dimension",
			header: `{"tensor":{"dtype":"F32","shape":[4,4611686018427387904],"data_offsets":[0,0]}}`,
			want:   "invalid dimension",
		},
		{
			name:   "too many elements",
			header: `{"tensor":{"dtype":"F32","shape":[65536,65536],"data_offsets":[0,0]}}`,
			want:   "more than",
		},
		{
			name:   "negative dimension",
			header: `{"tensor":{"dtype":"F32","shape":[-2],"data_offsets":[0,0]}}`,
			want:   "invalid dimension",
		},
		{
			name:   "bad json",
			header: `{"tensor":`,
			want:   "failed to parse header JSON",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTensor(buildSafeTensors(t, tt.header, tt.data), SafeTensors)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSafeTensors_HeaderTooLarge(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(maxHeaderBytes+1)))
	_, err := ReadTensor(&buf, SafeTensors)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}
