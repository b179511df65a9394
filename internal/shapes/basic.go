package shapes

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Names of the shapes built by NewBasicShapes.
const (
	Square           = "Square"
	CenteredSquare   = "CenteredSquare"
	CenteredTriangle = "CenteredTriangle"
	Circle16         = "Circle16"
)

// NewBasicShapes returns an atlas holding the unit shapes every scene can
// draw: a square with its origin at the bottom-left, a centered square, a
// centered triangle and a 16 segment circle.
func NewBasicShapes() *Atlas {
	a := NewAtlas()
	buildSquare(a)
	buildCenteredSquare(a)
	buildCenteredTriangle(a)
	BuildCircle(a, 16)
	return a
}

func buildSquare(a *Atlas) {
	s := Shape{Name: Square, Primitive: Triangles, Offset: a.Begin()}

	v0 := a.AddVertex(0, 0, 0)
	v1 := a.AddVertex(0, 1, 0)
	v2 := a.AddVertex(1, 1, 0)
	v3 := a.AddVertex(1, 0, 0)
	for _, i := range []int{v0, v1, v3, v1, v2, v3} {
		a.AddIndex(i)
	}

	s.Count = a.End()
	s.Min, s.Max = mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1}
	a.AddShape(s)
}

func buildCenteredSquare(a *Atlas) {
	s := Shape{Name: CenteredSquare, Primitive: Triangles, Offset: a.Begin()}

	const l = 0.5
	v0 := a.AddVertex(l, l, 0)
	v1 := a.AddVertex(l, -l, 0)
	v2 := a.AddVertex(-l, -l, 0)
	v3 := a.AddVertex(-l, l, 0)
	for _, i := range []int{v0, v3, v1, v1, v3, v2} {
		a.AddIndex(i)
	}

	s.Count = a.End()
	s.Min, s.Max = mgl32.Vec2{-l, -l}, mgl32.Vec2{l, l}
	a.AddShape(s)
}

func buildCenteredTriangle(a *Atlas) {
	s := Shape{Name: CenteredTriangle, Primitive: Triangles, Offset: a.Begin()}

	// 30 degrees gives equal sides and a rectangular bbox.
	h := float32(0.5 * math.Cos(float64(mgl32.DegToRad(30))))
	const l = 0.25
	a.AddIndex(a.AddVertex(-l, -h, 0))
	a.AddIndex(a.AddVertex(l, -h, 0))
	a.AddIndex(a.AddVertex(0, h, 0))

	s.Count = a.End()
	s.Min, s.Max = mgl32.Vec2{-l, -h}, mgl32.Vec2{l, h}
	a.AddShape(s)
}

// BuildCircle adds a solid circle of radius 0.5 named "Circle<segments>"
// as a triangle fan.
func BuildCircle(a *Atlas, segments int) Shape {
	s := Shape{Name: fmt.Sprintf("Circle%d", segments), Primitive: TriangleFan, Offset: a.Begin()}

	const radius = 0.5
	a.AddIndex(a.AddVertex(0, 0, 0))
	first := -1
	step := 2 * math.Pi / float64(segments)
	for i := range segments {
		angle := step * float64(i)
		v := a.AddVertex(float32(radius*math.Cos(angle)), float32(radius*math.Sin(angle)), 0)
		if first < 0 {
			first = v
		}
		a.AddIndex(v)
	}
	a.AddIndex(first)

	s.Count = a.End()
	s.Min, s.Max = mgl32.Vec2{-radius, -radius}, mgl32.Vec2{radius, radius}
	a.AddShape(s)
	return s
}
