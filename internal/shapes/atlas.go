// Package shapes collects vector shapes into one vertex/index atlas so they
// can be uploaded to the GPU in a single buffer pair.
package shapes

import (
	"fmt"
	"log"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Primitive is how a shape's indices are assembled.
type Primitive int

const (
	Triangles Primitive = iota
	TriangleFan
	LineLoop
)

func (p Primitive) String() string {
	switch p {
	case Triangles:
		return "Triangles"
	case TriangleFan:
		return "TriangleFan"
	case LineLoop:
		return "LineLoop"
	}
	return fmt.Sprintf("Primitive(%d)", int(p))
}

// Shape is a named run of indices in an Atlas.
type Shape struct {
	Name      string
	Primitive Primitive
	// Offset is the first index of the shape, Count how many it uses.
	Offset int
	Count  int

	// Local bounds.
	Min, Max mgl32.Vec2
}

// ByteOffset is Offset in bytes, as the draw call expects it.
func (s Shape) ByteOffset() int { return s.Offset * 4 }

func (s Shape) Width() float32  { return s.Max.X() - s.Min.X() }
func (s Shape) Height() float32 { return s.Max.Y() - s.Min.Y() }

// Atlas accumulates xyz vertices and uint32 indices for many shapes.
//
// Building a shape is bracketed by Begin and End:
//
//	offset := atlas.Begin()
//	v0 := atlas.AddVertex(0, 0, 0)
//	...
//	atlas.AddIndex(v0)
//	count := atlas.End()
type Atlas struct {
	vertices []float32
	indices  []uint32

	vertexCount int
	beginIndex  int

	shapes map[string]Shape
}

func NewAtlas() *Atlas {
	return &Atlas{shapes: make(map[string]Shape)}
}

// AddVertex appends a vertex and returns its index.
func (a *Atlas) AddVertex(x, y, z float32) int {
	a.vertices = append(a.vertices, x, y, z)
	v := a.vertexCount
	a.vertexCount++
	return v
}

func (a *Atlas) AddIndex(i int) {
	a.indices = append(a.indices, uint32(i))
}

// Begin marks the start of a shape and returns its index offset.
func (a *Atlas) Begin() int {
	a.beginIndex = len(a.indices)
	return a.beginIndex
}

// End returns how many indices were added since Begin.
func (a *Atlas) End() int {
	return len(a.indices) - a.beginIndex
}

// AddShape registers s, replacing any shape of the same name.
func (a *Atlas) AddShape(s Shape) {
	if _, ok := a.shapes[s.Name]; ok {
		log.Printf("Atlas: replacing shape '%s'", s.Name)
	}
	a.shapes[s.Name] = s
}

func (a *Atlas) Shape(name string) (Shape, bool) {
	s, ok := a.shapes[name]
	return s, ok
}

// Names returns the shape names sorted.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.shapes))
	for n := range a.shapes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (a *Atlas) Vertices() []float32 { return a.vertices }
func (a *Atlas) Indices() []uint32   { return a.indices }
func (a *Atlas) VertexCount() int    { return a.vertexCount }
