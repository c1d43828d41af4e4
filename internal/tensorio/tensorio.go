// Package tensorio reads and writes tensors as JSON or YAML documents of the
// form {dtype, shape, data}, or as single-tensor SafeTensors files. Data is
// row-major.
package tensorio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/lppool/internal/tensor"
)

// Format is a document encoding.
type Format int

// Supported formats.
const (
	JSON Format = iota
	YAML
	SafeTensors
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	case SafeTensors:
		return "safetensors"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the format from a file extension. Anything that is
// not .yaml, .yml or .safetensors is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	case ".safetensors":
		return SafeTensors
	default:
		return JSON
	}
}

// Document is the serialized form of a tensor.
type Document struct {
	DType string    `json:"dtype,omitempty" yaml:"dtype,omitempty"`
	Shape []int     `json:"shape" yaml:"shape"`
	Data  []float64 `json:"data" yaml:"data"`
}

// FromTensor converts r to a Document.
func FromTensor(r *tensor.RawTensor) Document {
	return Document{
		DType: r.DType().String(),
		Shape: append([]int(nil), r.Shape()...),
		Data:  tensor.Float64s(r),
	}
}

// Tensor builds a CPU tensor from the document. An empty DType means float32.
func (d Document) Tensor() (*tensor.RawTensor, error) {
	dtype, ok := tensor.ParseDataType(d.DType)
	if !ok {
		return nil, fmt.Errorf("tensorio: unknown dtype %q", d.DType)
	}
	r, err := tensor.FromFloat64s(d.Data, tensor.Shape(d.Shape), dtype)
	if err != nil {
		return nil, fmt.Errorf("tensorio: %w", err)
	}
	return r, nil
}

// Decode reads one document from rd.
func Decode(rd io.Reader, f Format) (Document, error) {
	var doc Document
	var err error
	switch f {
	case SafeTensors:
		var r *tensor.RawTensor
		if r, err = readSafeTensors(rd); err == nil {
			doc = FromTensor(r)
		}
	case YAML:
		err = yaml.NewDecoder(rd).Decode(&doc)
	default:
		dec := json.NewDecoder(rd)
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	}
	if err != nil {
		return Document{}, fmt.Errorf("tensorio: decode %s: %w", f, err)
	}
	return doc, nil
}

// Encode writes doc to w.
func Encode(w io.Writer, f Format, doc Document) error {
	var err error
	switch f {
	case SafeTensors:
		var r *tensor.RawTensor
		if r, err = doc.Tensor(); err == nil {
			err = writeSafeTensors(w, r)
		}
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(doc); err == nil {
			err = enc.Close()
		}
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	}
	if err != nil {
		return fmt.Errorf("tensorio: encode %s: %w", f, err)
	}
	return nil
}

// ReadTensor decodes a tensor from rd.
func ReadTensor(rd io.Reader, f Format) (*tensor.RawTensor, error) {
	if f == SafeTensors {
		r, err := readSafeTensors(rd)
		if err != nil {
			return nil, fmt.Errorf("tensorio: decode %s: %w", f, err)
		}
		return r, nil
	}
	doc, err := Decode(rd, f)
	if err != nil {
		return nil, err
	}
	return doc.Tensor()
}

// WriteTensor encodes r to w.
func WriteTensor(w io.Writer, f Format, r *tensor.RawTensor) error {
	if f == SafeTensors {
		if err := writeSafeTensors(w, r); err != nil {
			return fmt.Errorf("tensorio: encode %s: %w", f, err)
		}
		return nil
	}
	return Encode(w, f, FromTensor(r))
}

// Load reads a tensor file, or stdin when path is "-". Stdin is JSON.
func Load(path string) (*tensor.RawTensor, error) {
	if path == "-" {
		return ReadTensor(os.Stdin, JSON)
	}
	f, err := os.Open(path) //nolint:gosec // user-provided path is intended
	if err != nil {
		return nil, fmt.Errorf("tensorio: %w", err)
	}
	defer f.Close()
	return ReadTensor(f, FormatFromPath(path))
}

// Save writes a tensor file, or stdout when path is "-" or empty.
func Save(path string, r *tensor.RawTensor) error {
	if path == "" || path == "-" {
		return WriteTensor(os.Stdout, JSON, r)
	}
	f, err := os.Create(path) //nolint:gosec // user-provided path is intended
	if err != nil {
		return fmt.Errorf("tensorio: %w", err)
	}
	if err := WriteTensor(f, FormatFromPath(path), r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
