package glrender

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/mobile/exp/f32"
	"golang.org/x/mobile/gl"
)

// VertexBuffer holds a single vertex attribute stream with
// entriesPerVertex float32 components per vertex.
type VertexBuffer struct {
	glctx            gl.Context
	buf              gl.Buffer
	entriesPerVertex int
	vertexCount      int
}

// NewVertexBuffer uploads data into a new buffer object. len(data) must be
// a multiple of entriesPerVertex.
func NewVertexBuffer(rc *Context, entriesPerVertex int, data []float32) (*VertexBuffer, error) {
	if entriesPerVertex < 1 || entriesPerVertex > 4 {
		return nil, fmt.Errorf("%w: %d entries per vertex", ErrInvalidVertexData, entriesPerVertex)
	}
	glctx, err := rc.gl()
	if err != nil {
		return nil, err
	}
	b := &VertexBuffer{
		glctx:            glctx,
		buf:              glctx.CreateBuffer(),
		entriesPerVertex: entriesPerVertex,
	}
	if err := b.Set(data); err != nil {
		glctx.DeleteBuffer(b.buf)
		return nil, err
	}
	return b, nil
}

// Set replaces the buffer contents.
func (b *VertexBuffer) Set(data []float32) error {
	if len(data)%b.entriesPerVertex != 0 {
		return fmt.Errorf("%w: %d floats is not a multiple of %d", ErrInvalidVertexData, len(data), b.entriesPerVertex)
	}
	if err := uploadBuffer(b.glctx, gl.ARRAY_BUFFER, b.buf, f32.Bytes(binary.LittleEndian, data...)); err != nil {
		return err
	}
	b.vertexCount = len(data) / b.entriesPerVertex
	return nil
}

// EntriesPerVertex returns the number of components per vertex.
func (b *VertexBuffer) EntriesPerVertex() int { return b.entriesPerVertex }

// VertexCount returns the number of vertices stored.
func (b *VertexBuffer) VertexCount() int { return b.vertexCount }

// Close deletes the buffer object.
func (b *VertexBuffer) Close() error {
	b.glctx.DeleteBuffer(b.buf)
	return checkGLError(b.glctx, "failed to delete vertex buffer", "glDeleteBuffer")
}

// IndexBuffer holds uint32 element indices.
type IndexBuffer struct {
	glctx gl.Context
	buf   gl.Buffer
	count int
}

// NewIndexBuffer uploads indices into a new element buffer object.
func NewIndexBuffer(rc *Context, indices []uint32) (*IndexBuffer, error) {
	glctx, err := rc.gl()
	if err != nil {
		return nil, err
	}
	b := &IndexBuffer{glctx: glctx, buf: glctx.CreateBuffer()}
	if err := b.Set(indices); err != nil {
		glctx.DeleteBuffer(b.buf)
		return nil, err
	}
	return b, nil
}

// Set replaces the indices.
func (b *IndexBuffer) Set(indices []uint32) error {
	data := make([]byte, 0, 4*len(indices))
	for _, i := range indices {
		data = binary.LittleEndian.AppendUint32(data, i)
	}
	if err := uploadBuffer(b.glctx, gl.ELEMENT_ARRAY_BUFFER, b.buf, data); err != nil {
		return err
	}
	b.count = len(indices)
	return nil
}

// Count returns the number of indices stored.
func (b *IndexBuffer) Count() int { return b.count }

// Close deletes the buffer object.
func (b *IndexBuffer) Close() error {
	b.glctx.DeleteBuffer(b.buf)
	return checkGLError(b.glctx, "failed to delete index buffer", "glDeleteBuffer")
}

func uploadBuffer(glctx gl.Context, target gl.Enum, buf gl.Buffer, data []byte) error {
	glctx.BindBuffer(target, buf)
	if err := checkGLError(glctx, "failed to bind buffer", "glBindBuffer"); err != nil {
		return err
	}
	glctx.BufferData(target, data, gl.DYNAMIC_DRAW)
	return checkGLError(glctx, "failed to upload buffer", "glBufferData")
}
