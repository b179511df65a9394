// Package scene holds the node hierarchy and the scene stack.
//
// A scene is any Node managed by a Manager. Nodes are TimingTargets so a
// scene, or any node in it, can be scheduled for per-frame updates.
package scene

import (
	"ranger/internal/timing"

	"github.com/go-gl/mathgl/mgl32"
)

// Node is the capability every element of a scene graph provides.
type Node interface {
	timing.TimingTarget

	Name() string
	Tag() int
	Running() bool
	Exited() bool
	Visible() bool

	// OnBegin is sent before the node enters the stage.
	OnBegin()
	// OnEntering is sent while the node is entering the stage.
	OnEntering()
	// OnEnterComplete is sent once the node finished entering.
	OnEnterComplete()
	// OnBeginExit is sent when the node asks to leave the stage.
	OnBeginExit()
	OnExitTransition()
	// OnExit is sent when the node has left the stage.
	OnExit()
	// Clean releases whatever the node acquired while on stage.
	Clean()

	// Visit draws the node with parent as the accumulated model matrix.
	Visit(dc DrawContext, parent mgl32.Mat4)
}

// DrawContext is what nodes draw through.
type DrawContext interface {
	Clear()
	DrawShape(name string, model mgl32.Mat4, color mgl32.Vec4)
	DrawText(text string, x, y, scale float32, color mgl32.Vec3)
}

const (
	// AutoGenTag asks NewBaseNode to generate a tag.
	AutoGenTag = -1

	initialTag = 1000000
)

var tagGen = initialTag

// GenTag returns the next generated node tag. Generated tags start at
// 1000000 so hand picked tags stay below them. Not safe for concurrent use.
func GenTag() int {
	tag := tagGen
	tagGen++
	return tag
}

// Rect is an axis aligned rectangle anchored at its bottom-left corner.
type Rect struct {
	Left, Bottom, Width, Height float32
}

func (r Rect) Right() float32 { return r.Left + r.Width }
func (r Rect) Top() float32   { return r.Bottom + r.Height }

// Intersects reports whether r and o overlap. Touching edges don't count.
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right() && o.Left < r.Right() &&
		r.Bottom < o.Top() && o.Bottom < r.Top()
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.Left && x <= r.Right() && y >= r.Bottom && y <= r.Top()
}
