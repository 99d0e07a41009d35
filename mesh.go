package glrender

import (
	"bytes"
	"fmt"

	"github.com/gogpu/gputypes"
	"golang.org/x/mobile/gl"
)

// Attribute locations used by NewMeshFromAsset. Shaders that draw loaded
// meshes declare their inputs with these locations.
const (
	AttribPosition = 0
	AttribTexCoord = 1
	AttribNormal   = 2
)

// Mesh is a vertex array object binding vertex buffer i to attribute
// location i, with an optional index buffer.
type Mesh struct {
	glctx    gl.Context
	vao      gl.VertexArray
	mode     gl.Enum
	indices  *IndexBuffer
	vertices []*VertexBuffer

	// ownsBuffers is set for meshes loaded from assets.
	ownsBuffers bool
}

var _ Drawable = (*Mesh)(nil)

// NewMesh builds a mesh from existing buffers. indices may be nil, in which
// case DrawGeometry draws the vertices of the first buffer in order. The
// mesh does not take ownership of the buffers.
func NewMesh(rc *Context, topology gputypes.PrimitiveTopology, indices *IndexBuffer, vertices ...*VertexBuffer) (*Mesh, error) {
	if len(vertices) == 0 {
		return nil, fmt.Errorf("%w: mesh needs at least one vertex buffer", ErrInvalidVertexData)
	}
	mode, err := glPrimitive(topology)
	if err != nil {
		return nil, err
	}
	glctx, err := rc.gl()
	if err != nil {
		return nil, err
	}

	m := &Mesh{
		glctx:    glctx,
		vao:      glctx.CreateVertexArray(),
		mode:     mode,
		indices:  indices,
		vertices: vertices,
	}
	if err := m.bindAttributes(); err != nil {
		glctx.DeleteVertexArray(m.vao)
		return nil, err
	}
	return m, nil
}

func (m *Mesh) bindAttributes() error {
	glctx := m.glctx
	glctx.BindVertexArray(m.vao)
	if err := checkGLError(glctx, "failed to bind vertex array", "glBindVertexArray"); err != nil {
		return err
	}

	for i, vb := range m.vertices {
		attr := gl.Attrib{Value: uint(i)}
		glctx.BindBuffer(gl.ARRAY_BUFFER, vb.buf)
		if err := checkGLError(glctx, "failed to bind vertex buffer", "glBindBuffer"); err != nil {
			return err
		}
		glctx.VertexAttribPointer(attr, vb.entriesPerVertex, gl.FLOAT, false, 0, 0)
		if err := checkGLError(glctx, "failed to set vertex attribute", "glVertexAttribPointer"); err != nil {
			return err
		}
		glctx.EnableVertexAttribArray(attr)
		if err := checkGLError(glctx, "failed to enable vertex attribute", "glEnableVertexAttribArray"); err != nil {
			return err
		}
	}

	if m.indices != nil {
		glctx.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.indices.buf)
		if err := checkGLError(glctx, "failed to bind index buffer", "glBindBuffer"); err != nil {
			return err
		}
	}

	glctx.BindVertexArray(gl.VertexArray{})
	return checkGLError(glctx, "failed to unbind vertex array", "glBindVertexArray")
}

// NewMeshFromAsset loads a triangle mesh from a Wavefront OBJ asset.
//
// The mesh always has three vertex streams: positions at AttribPosition,
// texture coordinates at AttribTexCoord and normals at AttribNormal.
// Components absent from the file are zero-filled.
func NewMeshFromAsset(rc *Context, name string) (_ *Mesh, err error) {
	data, err := rc.readAsset(name)
	if err != nil {
		return nil, err
	}
	model, err := parseOBJ(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	// Buffers created so far are deleted if a later step fails.
	var created []interface{ Close() error }
	defer func() {
		if err == nil {
			return
		}
		for _, b := range created {
			_ = b.Close()
		}
	}()

	positions, err := NewVertexBuffer(rc, 3, model.positions)
	if err != nil {
		return nil, err
	}
	created = append(created, positions)
	texcoords, err := NewVertexBuffer(rc, 2, model.texcoords)
	if err != nil {
		return nil, err
	}
	created = append(created, texcoords)
	normals, err := NewVertexBuffer(rc, 3, model.normals)
	if err != nil {
		return nil, err
	}
	created = append(created, normals)
	indices, err := NewIndexBuffer(rc, model.indices)
	if err != nil {
		return nil, err
	}
	created = append(created, indices)

	rc.log().Debug("glrender: mesh loaded", "asset", name,
		"vertices", model.vertexCount(), "indices", len(model.indices))
	m, err := NewMesh(rc, gputypes.PrimitiveTopologyTriangleList, indices, positions, texcoords, normals)
	if err != nil {
		return nil, err
	}
	m.ownsBuffers = true
	return m, nil
}

// DrawGeometry implements Drawable.
func (m *Mesh) DrawGeometry() error {
	glctx := m.glctx
	glctx.BindVertexArray(m.vao)
	if err := checkGLError(glctx, "failed to bind vertex array", "glBindVertexArray"); err != nil {
		return err
	}

	if m.indices != nil {
		glctx.DrawElements(m.mode, m.indices.count, gl.UNSIGNED_INT, 0)
		return checkGLError(glctx, "failed to draw elements", "glDrawElements")
	}
	glctx.DrawArrays(m.mode, 0, m.vertices[0].vertexCount)
	return checkGLError(glctx, "failed to draw arrays", "glDrawArrays")
}

// Close deletes the vertex array object. Buffers passed to NewMesh are
// left alone; buffers created by NewMeshFromAsset are deleted too.
func (m *Mesh) Close() error {
	m.glctx.DeleteVertexArray(m.vao)
	if err := checkGLError(m.glctx, "failed to delete vertex array", "glDeleteVertexArray"); err != nil {
		return err
	}
	if !m.ownsBuffers {
		return nil
	}
	for _, vb := range m.vertices {
		if err := vb.Close(); err != nil {
			return err
		}
	}
	if m.indices != nil {
		return m.indices.Close()
	}
	return nil
}
