package glrender

import (
	"errors"
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/gogpu/gputypes"
	"golang.org/x/mobile/gl"
)

func TestNewMeshBindsAttributes(t *testing.T) {
	rc, _, glctx := newTestContext(t, nil)
	positions, err := NewVertexBuffer(rc, 3, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0})
	if err != nil {
		t.Fatal(err)
	}
	uvs, err := NewVertexBuffer(rc, 2, []float32{0, 0, 1, 0, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	indices, err := NewIndexBuffer(rc, []uint32{0, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	glctx.reset()

	m, err := NewMesh(rc, gputypes.PrimitiveTopologyTriangleList, indices, positions, uvs)
	if err != nil {
		t.Fatalf("NewMesh() error = %v", err)
	}
	want := []string{
		"CreateVertexArray", "BindVertexArray",
		"BindBuffer", "VertexAttribPointer", "EnableVertexAttribArray",
		"BindBuffer", "VertexAttribPointer", "EnableVertexAttribArray",
		"BindBuffer", "BindVertexArray",
	}
	if got := glctx.names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	attribs := glctx.find("VertexAttribPointer")
	if attribs[0].String() != "VertexAttribPointer(0,3)" || attribs[1].String() != "VertexAttribPointer(1,2)" {
		t.Errorf("attributes = %v", attribs)
	}
	binds := glctx.find("BindBuffer")
	if binds[2].args[0] != gl.Enum(gl.ELEMENT_ARRAY_BUFFER) || binds[2].args[1] != indices.buf.Value {
		t.Errorf("element buffer bind = %v", binds[2])
	}
	if last := glctx.find("BindVertexArray")[1]; last.args[0] != uint32(0) {
		t.Errorf("vertex array left bound: %v", last)
	}
	if m.vao.Value == 0 {
		t.Error("vertex array not created")
	}
}

func TestMeshDrawGeometry(t *testing.T) {
	rc, _, glctx := newTestContext(t, nil)
	vb, err := NewVertexBuffer(rc, 2, []float32{0, 0, 1, 0, 0, 1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	ib, err := NewIndexBuffer(rc, []uint32{0, 1, 2, 2, 1, 3})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		topology gputypes.PrimitiveTopology
		indices  *IndexBuffer
		want     string
	}{
		{"indexed", gputypes.PrimitiveTopologyTriangleList, ib, "DrawElements"},
		{"arrays", gputypes.PrimitiveTopologyTriangleStrip, nil, "DrawArrays"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMesh(rc, tt.topology, tt.indices, vb)
			if err != nil {
				t.Fatal(err)
			}
			glctx.reset()
			if err := m.DrawGeometry(); err != nil {
				t.Fatalf("DrawGeometry() error = %v", err)
			}
			if got := glctx.names(); !reflect.DeepEqual(got, []string{"BindVertexArray", tt.want}) {
				t.Errorf("calls = %v", got)
			}
		})
	}

	glctx.reset()
	m, _ := NewMesh(rc, gputypes.PrimitiveTopologyTriangleList, ib, vb)
	_ = m.DrawGeometry()
	draw := glctx.find("DrawElements")[0]
	if draw.args[0] != gl.Enum(gl.TRIANGLES) || draw.args[1] != 6 || draw.args[2] != gl.Enum(gl.UNSIGNED_INT) {
		t.Errorf("DrawElements = %v", draw)
	}

	glctx.reset()
	m, _ = NewMesh(rc, gputypes.PrimitiveTopologyLineStrip, nil, vb)
	_ = m.DrawGeometry()
	if draw := glctx.find("DrawArrays")[0]; draw.args[0] != gl.Enum(gl.LINE_STRIP) || draw.args[2] != 4 {
		t.Errorf("DrawArrays = %v", draw)
	}
}

func TestNewMeshRejectsInput(t *testing.T) {
	rc, _, glctx := newTestContext(t, nil)
	if _, err := NewMesh(rc, gputypes.PrimitiveTopologyTriangleList, nil); !errors.Is(err, ErrInvalidVertexData) {
		t.Errorf("no buffers error = %v, want ErrInvalidVertexData", err)
	}

	vb, _ := NewVertexBuffer(rc, 3, []float32{0, 0, 0})
	if _, err := NewMesh(rc, gputypes.PrimitiveTopology(250), nil, vb); err == nil {
		t.Error("unknown topology accepted")
	}

	glctx.reset()
	glctx.failOn["EnableVertexAttribArray"] = gl.INVALID_VALUE
	_, err := NewMesh(rc, gputypes.PrimitiveTopologyTriangleList, nil, vb)
	var glErr *GLError
	if !errors.As(err, &glErr) || glErr.Call != "glEnableVertexAttribArray" {
		t.Fatalf("error = %v, want glEnableVertexAttribArray failure", err)
	}
	if len(glctx.find("DeleteVertexArray")) != 1 {
		t.Error("vertex array leaked after failure")
	}
}

func TestVertexBuffer(t *testing.T) {
	rc, _, glctx := newTestContext(t, nil)
	for _, n := range []int{0, 5} {
		if _, err := NewVertexBuffer(rc, n, nil); !errors.Is(err, ErrInvalidVertexData) {
			t.Errorf("entries=%d error = %v, want ErrInvalidVertexData", n, err)
		}
	}
	if _, err := NewVertexBuffer(rc, 3, []float32{1, 2}); !errors.Is(err, ErrInvalidVertexData) {
		t.Errorf("ragged data error = %v, want ErrInvalidVertexData", err)
	}
	if n := len(glctx.find("DeleteBuffer")); n != 1 {
		t.Errorf("DeleteBuffer called %d times after ragged upload, want 1", n)
	}

	glctx.reset()
	vb, err := NewVertexBuffer(rc, 2, []float32{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatal(err)
	}
	if vb.VertexCount() != 3 || vb.EntriesPerVertex() != 2 {
		t.Errorf("VertexCount() = %d, EntriesPerVertex() = %d", vb.VertexCount(), vb.EntriesPerVertex())
	}
	if data := glctx.find("BufferData")[0]; data.args[0] != gl.Enum(gl.ARRAY_BUFFER) || data.args[1] != 24 {
		t.Errorf("BufferData = %v, want 24 bytes", data)
	}

	ib, err := NewIndexBuffer(rc, []uint32{0, 1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if ib.Count() != 4 {
		t.Errorf("Count() = %d, want 4", ib.Count())
	}
	if data := glctx.find("BufferData")[1]; data.args[0] != gl.Enum(gl.ELEMENT_ARRAY_BUFFER) || data.args[1] != 16 {
		t.Errorf("BufferData = %v, want 16 index bytes", data)
	}
}

func TestNewMeshFromAsset(t *testing.T) {
	rc, glctx := newAssetContext(t, FSAssets{FS: fstest.MapFS{
		"quad.obj": {Data: []byte(objQuad)},
		"bad.obj":  {Data: []byte("v 0 0 0\n")},
	}})

	m, err := NewMeshFromAsset(rc, "quad.obj")
	if err != nil {
		t.Fatalf("NewMeshFromAsset() error = %v", err)
	}
	if len(m.vertices) != 3 || m.indices.Count() != 6 {
		t.Fatalf("streams = %d, indices = %d", len(m.vertices), m.indices.Count())
	}
	for i, want := range []int{3, 2, 3} {
		if m.vertices[i].EntriesPerVertex() != want {
			t.Errorf("stream %d has %d entries, want %d", i, m.vertices[i].EntriesPerVertex(), want)
		}
	}

	glctx.reset()
	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if n := len(glctx.find("DeleteBuffer")); n != 4 {
		t.Errorf("DeleteBuffer called %d times, want 4", n)
	}

	if _, err := NewMeshFromAsset(rc, "bad.obj"); !errors.Is(err, ErrInvalidVertexData) {
		t.Errorf("faceless obj error = %v, want ErrInvalidVertexData", err)
	}
}

func TestNewMeshFromAssetFailureDeletesBuffers(t *testing.T) {
	tests := []struct {
		name   string
		failOn string
	}{
		{"attribute setup", "VertexAttribPointer"},
		{"vertex array", "CreateVertexArray"},
		{"attribute enable", "EnableVertexAttribArray"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, glctx := newAssetContext(t, FSAssets{FS: fstest.MapFS{
				"quad.obj": {Data: []byte(objQuad)},
			}})
			glctx.reset()
			glctx.failOn[tt.failOn] = gl.INVALID_OPERATION

			if _, err := NewMeshFromAsset(rc, "quad.obj"); !errors.Is(err, ErrGLCall) {
				t.Fatalf("NewMeshFromAsset() error = %v, want ErrGLCall", err)
			}
			created := len(glctx.find("CreateBuffer"))
			deleted := len(glctx.find("DeleteBuffer"))
			if created != 4 || deleted != created {
				t.Errorf("created %d buffers, deleted %d; want 4 and 4", created, deleted)
			}
		})
	}
}

func TestMeshCloseKeepsCallerBuffers(t *testing.T) {
	rc, _, glctx := newTestContext(t, nil)
	vb, _ := NewVertexBuffer(rc, 3, []float32{0, 0, 0})
	m, err := NewMesh(rc, gputypes.PrimitiveTopologyPointList, nil, vb)
	if err != nil {
		t.Fatal(err)
	}
	glctx.reset()
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if got := glctx.names(); !reflect.DeepEqual(got, []string{"DeleteVertexArray"}) {
		t.Errorf("Close() calls = %v", got)
	}
}
