// Package geometry uploads interleaved vertex data (and optional indices)
// to the graphics device under a fixed attribute layout.
package geometry

import (
	"errors"
	"fmt"

	"learngl/gpu"
)

// ErrInvalidInput is returned for vertex data that cannot describe a single
// vertex of the requested layout.
var ErrInvalidInput = errors.New("invalid geometry input")

const floatSize = 4

// Buffer owns a vertex array, its vertex buffer and an optional index buffer.
type Buffer struct {
	dev       gpu.Device
	layout    Layout
	vao       uint32
	vbo       uint32
	ebo       uint32
	elements  int32
	primitive gpu.Primitive
}

// New uploads vertices under layout. When indices is non-empty an index
// buffer is created as well and Draw issues indexed draws over it.
// Trailing floats that do not fill a whole vertex are uploaded but never
// drawn.
func New(dev gpu.Device, layout Layout, vertices []float32, indices []uint32) (*Buffer, error) {
	if !layout.valid() {
		return nil, fmt.Errorf("%w: unknown vertex layout %d", ErrInvalidInput, int(layout))
	}
	if len(vertices) == 0 {
		return nil, fmt.Errorf("%w: empty vertex data", ErrInvalidInput)
	}
	stride := layout.Stride()
	vertexCount := len(vertices) / stride
	if vertexCount == 0 {
		return nil, fmt.Errorf("%w: %d floats do not hold one %s vertex (%d floats)",
			ErrInvalidInput, len(vertices), layout, stride)
	}

	b := &Buffer{
		dev:       dev,
		layout:    layout,
		elements:  int32(vertexCount),
		primitive: gpu.Triangles,
	}

	b.vao = dev.GenVertexArray()
	b.vbo = dev.GenBuffer()
	dev.BindVertexArray(b.vao)

	dev.BindBuffer(gpu.ArrayBuffer, b.vbo)
	dev.BufferFloat32(gpu.ArrayBuffer, vertices)

	if len(indices) > 0 {
		b.ebo = dev.GenBuffer()
		dev.BindBuffer(gpu.ElementArrayBuffer, b.ebo)
		dev.BufferUint32(gpu.ElementArrayBuffer, indices)
		b.elements = int32(len(indices))
	}

	strideBytes := int32(stride * floatSize)
	for _, a := range layouts[layout].attrs {
		dev.VertexAttribPointer(a.Location, a.Components, strideBytes, a.Offset*floatSize)
		dev.EnableVertexAttribArray(a.Location)
	}

	// The attribute pointers captured the vertex buffer, so it can be
	// unbound. The element buffer binding is VAO state and must stay.
	dev.BindBuffer(gpu.ArrayBuffer, 0)
	dev.BindVertexArray(0)

	return b, nil
}

// Layout returns the attribute layout the buffer was created with.
func (b *Buffer) Layout() Layout { return b.layout }

// ElementCount returns the number of indices, or of vertices when the
// buffer has no index buffer.
func (b *Buffer) ElementCount() int32 { return b.elements }

// Indexed reports whether Draw issues an indexed draw call.
func (b *Buffer) Indexed() bool { return b.ebo != 0 }

// Primitive returns the topology used by Draw.
func (b *Buffer) Primitive() gpu.Primitive { return b.primitive }

// SetPrimitive changes the topology used by subsequent draws.
func (b *Buffer) SetPrimitive(p gpu.Primitive) { b.primitive = p }

// Bind makes the buffer's vertex array current so callers can issue their
// own draw calls.
func (b *Buffer) Bind() { b.dev.BindVertexArray(b.vao) }

// Draw binds the buffer and draws every element.
func (b *Buffer) Draw() { b.DrawRange(0, b.elements) }

// DrawRange binds the buffer and draws count elements starting at first.
// Elements are indices for an indexed buffer and vertices otherwise. The
// range is clipped to ElementCount.
func (b *Buffer) DrawRange(first, count int32) {
	if first < 0 {
		count += first
		first = 0
	}
	if count > b.elements-first {
		count = b.elements - first
	}
	if count <= 0 {
		return
	}
	b.Bind()
	if b.ebo != 0 {
		b.dev.DrawElements(b.primitive, first, count)
		return
	}
	b.dev.DrawArrays(b.primitive, first, count)
}

// Destroy releases the vertex array and both buffers. Further calls are
// no-ops.
func (b *Buffer) Destroy() {
	if b.vao != 0 {
		b.dev.DeleteVertexArray(b.vao)
		b.vao = 0
	}
	if b.vbo != 0 {
		b.dev.DeleteBuffer(b.vbo)
		b.vbo = 0
	}
	if b.ebo != 0 {
		b.dev.DeleteBuffer(b.ebo)
		b.ebo = 0
	}
}
