//go:build windows

package webgpu

import (
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
)

// maxPooledBuffers bounds the number of idle buffers kept per usage.
const maxPooledBuffers = 16

type pooledBuffer struct {
	buffer *wgpu.Buffer
	size   uint64
}

// BufferPool reuses result and staging buffers across pooling calls.
// A request is served by any idle buffer with the same usage that is at
// least as large.
type BufferPool struct {
	device *wgpu.Device

	idle map[wgpu.BufferUsage][]pooledBuffer
	mu   sync.Mutex

	hits   uint64
	misses uint64
}

// NewBufferPool creates a new buffer pool for the given device.
func NewBufferPool(device *wgpu.Device) *BufferPool {
	return &BufferPool{
		device: device,
		idle:   make(map[wgpu.BufferUsage][]pooledBuffer),
	}
}

// Acquire returns a buffer of at least size bytes with exactly usage.
// The returned size is the buffer's real size and must be passed to Release.
func (p *BufferPool) Acquire(size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pool := p.idle[usage]
	for i, pb := range pool {
		if pb.size >= size {
			p.idle[usage] = append(pool[:i], pool[i+1:]...)
			p.hits++
			return pb.buffer, pb.size
		}
	}

	p.misses++
	buffer := p.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: usage,
		Size:  size,
	})
	return buffer, size
}

// Release returns a buffer to the pool, or frees it if the pool is full.
func (p *BufferPool) Release(buffer *wgpu.Buffer, size uint64, usage wgpu.BufferUsage) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.idle[usage]) >= maxPooledBuffers {
		buffer.Release()
		return
	}
	p.idle[usage] = append(p.idle[usage], pooledBuffer{buffer: buffer, size: size})
}

// Clear releases all pooled buffers.
func (p *BufferPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for usage, pool := range p.idle {
		for _, pb := range pool {
			pb.buffer.Release()
		}
		delete(p.idle, usage)
	}
}

// Stats returns the number of pool hits and misses.
func (p *BufferPool) Stats() (hits, misses uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hits, p.misses
}
