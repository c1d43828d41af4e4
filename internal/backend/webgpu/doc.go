// Package webgpu runs feature Lp pooling as WGSL compute shaders through
// go-webgpu (github.com/go-webgpu/webgpu), a zero-CGO WebGPU binding.
//
// The GPU backend is built on Windows only. On other platforms New returns
// ErrUnavailable and callers fall back to the CPU backend.
package webgpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/born-ml/lppool/internal/lppool"
)

// ErrUnavailable is returned when no WebGPU adapter can be used.
var ErrUnavailable = errors.New("webgpu: not available")

// workgroupSize is the number of invocations per workgroup in every shader.
const workgroupSize = 256

// maxWorkgroups is the per-dimension dispatch limit guaranteed by WebGPU.
const maxWorkgroups = 65535

// paramsSize is the byte size of the Params uniform shared by both shaders:
// eight u32 fields and one f32, padded to 16 bytes.
const paramsSize = 48

// packParams encodes the canonical extents and window parameters into the
// Params uniform layout. size is the number of invocations that do work.
func packParams(in, out lppool.Canonical, p lppool.Params, size int) []byte {
	buf := make([]byte, paramsSize)
	fields := []int{
		in.Dims[lppool.AxisBatch],
		in.Dims[lppool.AxisFeature],
		out.Dims[lppool.AxisFeature],
		in.Dims[lppool.AxisExtra1],
		in.Dims[lppool.AxisExtra2],
		p.Width,
		p.Stride,
		size,
	}
	for i, v := range fields {
		//nolint:gosec // G115: extents are validated positive and bounded by dispatch limits
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(v))
	}
	binary.LittleEndian.PutUint32(buf[32:], math.Float32bits(float32(p.Power)))
	return buf
}

// workgroupCount returns the number of workgroups needed for n invocations.
func workgroupCount(n int) (uint32, error) {
	groups := (n + workgroupSize - 1) / workgroupSize
	if groups > maxWorkgroups {
		return 0, fmt.Errorf("webgpu: %d elements exceed the dispatch limit of %d", n, maxWorkgroups*workgroupSize)
	}
	//nolint:gosec // G115: bounded by maxWorkgroups
	return uint32(groups), nil
}
