package tensorio

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/born-ml/lppool/internal/tensor"
)

// TensorName is the name a tensor is stored under when written as
// SafeTensors. On read it selects the tensor when the file holds several.
const TensorName = "tensor"

const (
	metadataKey    = "__metadata__"
	maxHeaderBytes = 100 << 20
)

// safeTensorInfo is one entry of a SafeTensors header.
type safeTensorInfo struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// readSafeTensors reads a single tensor from a SafeTensors stream:
//
//	[8 bytes: header size (uint64 LE)]
//	[header: JSON map of name -> {dtype, shape, data_offsets}]
//	[data: raw little-endian bytes]
func readSafeTensors(rd io.Reader) (*tensor.RawTensor, error) {
	var headerSize uint64
	if err := binary.Read(rd, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > maxHeaderBytes {
		return nil, fmt.Errorf("invalid header size: %d (too large)", headerSize)
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(rd, headerBytes); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(headerBytes, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}
	delete(rawMap, metadataKey)

	name, err := pickTensor(rawMap)
	if err != nil {
		return nil, err
	}
	var info safeTensorInfo
	if err := json.Unmarshal(rawMap[name], &info); err != nil {
		return nil, fmt.Errorf("failed to parse tensor %s: %w", name, err)
	}

	var dtype tensor.DataType
	switch info.DType {
	case "F32":
		dtype = tensor.Float32
	case "F64":
		dtype = tensor.Float64
	default:
		return nil, fmt.Errorf("unsupported dtype %s for tensor %s", info.DType, name)
	}

	shape := make(tensor.Shape, len(info.Shape))
	for i, dim := range info.Shape {
		if dim <= 0 || dim > tensor.MaxElements {
			return nil, fmt.Errorf("tensor %s: invalid dimension %d", name, dim)
		}
		shape[i] = int(dim)
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("tensor %s: %w", name, err)
	}

	// Offsets are checked before allocating so a bogus header cannot force a
	// large allocation.
	size := int64(shape.NumElements()) * int64(dtype.Size())
	start, end := info.DataOffsets[0], info.DataOffsets[1]
	if start < 0 || end < start || end-start != size {
		return nil, fmt.Errorf("tensor %s: data offsets [%d, %d] do not match shape %v", name, start, end, shape)
	}
	raw, err := tensor.NewRaw(shape, dtype, tensor.CPU)
	if err != nil {
		return nil, fmt.Errorf("tensor %s: %w", name, err)
	}
	if _, err := io.CopyN(io.Discard, rd, start); err != nil {
		return nil, fmt.Errorf("failed to seek to tensor %s: %w", name, err)
	}
	if _, err := io.ReadFull(rd, raw.Data()); err != nil {
		return nil, fmt.Errorf("failed to read tensor %s: %w", name, err)
	}
	return raw, nil
}

func pickTensor(entries map[string]json.RawMessage) (string, error) {
	if _, ok := entries[TensorName]; ok {
		return TensorName, nil
	}
	if len(entries) == 1 {
		for name := range entries {
			return name, nil
		}
	}
	return "", fmt.Errorf("expected one tensor or one named %q, found %d", TensorName, len(entries))
}

// writeSafeTensors writes r as the only tensor of a SafeTensors stream.
func writeSafeTensors(w io.Writer, r *tensor.RawTensor) error {
	var dtype string
	switch r.DType() {
	case tensor.Float32:
		dtype = "F32"
	case tensor.Float64:
		dtype = "F64"
	default:
		return fmt.Errorf("unsupported dtype %s", r.DType())
	}

	shape := make([]int64, r.Rank())
	for i, dim := range r.Shape() {
		shape[i] = int64(dim)
	}
	header := map[string]any{
		TensorName: safeTensorInfo{
			DType:       dtype,
			Shape:       shape,
			DataOffsets: [2]int64{0, int64(r.ByteSize())},
		},
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(r.Data()); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return nil
}
