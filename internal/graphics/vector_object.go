package graphics

import (
	"fmt"

	"ranger/internal/shapes"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// VectorObject owns the VAO/VBO/EBO holding a shape atlas.
type VectorObject struct {
	vao uint32
	vbo uint32
	ebo uint32

	atlas *shapes.Atlas
}

// NewVectorObject uploads the atlas vertices and indices. The atlas must
// not change afterwards.
func NewVectorObject(atlas *shapes.Atlas) (*VectorObject, error) {
	if atlas == nil || len(atlas.Indices()) == 0 {
		return nil, fmt.Errorf("vector object: empty shape atlas")
	}
	vo := &VectorObject{atlas: atlas}

	vertices := atlas.Vertices()
	indices := atlas.Indices()

	gl.GenVertexArrays(1, &vo.vao)
	gl.GenBuffers(1, &vo.vbo)
	gl.GenBuffers(1, &vo.ebo)

	gl.BindVertexArray(vo.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, vo.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, vo.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	// xyz
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)

	// the EBO binding is part of the VAO state, keep it bound
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return vo, nil
}

func (vo *VectorObject) Atlas() *shapes.Atlas { return vo.atlas }

// Bind makes the VAO current. Call once before a run of Draw calls.
func (vo *VectorObject) Bind()   { gl.BindVertexArray(vo.vao) }
func (vo *VectorObject) Unbind() { gl.BindVertexArray(0) }

// Draw issues the draw call for s. The VAO must be bound.
func (vo *VectorObject) Draw(s shapes.Shape) {
	gl.DrawElements(primitiveMode(s.Primitive), int32(s.Count), gl.UNSIGNED_INT, gl.PtrOffset(s.ByteOffset()))
}

func (vo *VectorObject) Delete() {
	gl.DeleteBuffers(1, &vo.ebo)
	gl.DeleteBuffers(1, &vo.vbo)
	gl.DeleteVertexArrays(1, &vo.vao)
}

func primitiveMode(p shapes.Primitive) uint32 {
	switch p {
	case shapes.TriangleFan:
		return gl.TRIANGLE_FAN
	case shapes.LineLoop:
		return gl.LINE_LOOP
	default:
		return gl.TRIANGLES
	}
}
