package scene

import (
	"slices"

	"ranger/internal/fault"

	"github.com/go-gl/mathgl/mgl32"
)

// SceneNode is a BaseNode with ordered children. Lifecycle hooks are passed
// down to every child after the node handles them itself.
type SceneNode struct {
	BaseNode
	children []Node
}

func NewSceneNode(name string) *SceneNode {
	return &SceneNode{BaseNode: NewBaseNode(name, AutoGenTag)}
}

// AddChild appends child. Children are visited in the order added.
func (s *SceneNode) AddChild(child Node) error {
	if child == nil {
		return fault.InvalidArgument("AddChild", "child should not be nil")
	}
	s.children = append(s.children, child)
	return nil
}

// RemoveChild removes child and reports whether it was present.
func (s *SceneNode) RemoveChild(child Node) bool {
	i := slices.Index(s.children, child)
	if i < 0 {
		return false
	}
	s.children = slices.Delete(s.children, i, i+1)
	return true
}

func (s *SceneNode) Children() []Node { return s.children }

// Visit composes parent with the node transform and visits the visible
// children.
func (s *SceneNode) Visit(dc DrawContext, parent mgl32.Mat4) {
	if !s.Visible() {
		return
	}
	model := parent.Mul4(s.Transform())
	for _, c := range s.children {
		if c.Visible() {
			c.Visit(dc, model)
		}
	}
}

func (s *SceneNode) each(hook func(Node)) {
	for _, c := range s.children {
		hook(c)
	}
}

func (s *SceneNode) OnBegin() {
	s.BaseNode.OnBegin()
	s.each(Node.OnBegin)
}

func (s *SceneNode) OnEntering() {
	s.BaseNode.OnEntering()
	s.each(Node.OnEntering)
}

func (s *SceneNode) OnEnterComplete() {
	s.BaseNode.OnEnterComplete()
	s.each(Node.OnEnterComplete)
}

func (s *SceneNode) OnBeginExit() {
	s.BaseNode.OnBeginExit()
	s.each(Node.OnBeginExit)
}

func (s *SceneNode) OnExitTransition() {
	s.BaseNode.OnExitTransition()
	s.each(Node.OnExitTransition)
}

func (s *SceneNode) OnExit() {
	s.BaseNode.OnExit()
	s.each(Node.OnExit)
}

func (s *SceneNode) Clean() {
	s.BaseNode.Clean()
	s.each(Node.Clean)
}

// ShapeNode draws one named shape of the shape atlas.
type ShapeNode struct {
	BaseNode
	shape string
	color mgl32.Vec4
}

func NewShapeNode(name, shape string, color mgl32.Vec4) *ShapeNode {
	n := &ShapeNode{BaseNode: NewBaseNode(name, AutoGenTag), shape: shape, color: color}
	n.SetBBox(Rect{Left: -0.5, Bottom: -0.5, Width: 1, Height: 1})
	return n
}

func (n *ShapeNode) Shape() string             { return n.shape }
func (n *ShapeNode) Color() mgl32.Vec4         { return n.color }
func (n *ShapeNode) SetColor(color mgl32.Vec4) { n.color = color }

func (n *ShapeNode) Visit(dc DrawContext, parent mgl32.Mat4) {
	if !n.Visible() {
		return
	}
	dc.DrawShape(n.shape, parent.Mul4(n.Transform()), n.color)
}

// TextNode draws a line of text. Rotation is ignored; the x scale sizes the
// glyphs.
type TextNode struct {
	BaseNode
	text  string
	color mgl32.Vec3
}

func NewTextNode(name, text string, color mgl32.Vec3) *TextNode {
	return &TextNode{BaseNode: NewBaseNode(name, AutoGenTag), text: text, color: color}
}

func (n *TextNode) Text() string              { return n.text }
func (n *TextNode) SetText(text string)       { n.text = text }
func (n *TextNode) Color() mgl32.Vec3         { return n.color }
func (n *TextNode) SetColor(color mgl32.Vec3) { n.color = color }

func (n *TextNode) Visit(dc DrawContext, parent mgl32.Mat4) {
	if !n.Visible() || n.text == "" {
		return
	}
	p := parent.Mul4x1(n.Position().Vec4(1))
	dc.DrawText(n.text, p.X(), p.Y(), n.Scale().X(), n.color)
}
