package scene

import (
	"errors"
	"math"
	"testing"

	"ranger/internal/fault"
	"ranger/internal/timing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawnShape struct {
	name  string
	model mgl32.Mat4
}

type drawnText struct {
	text  string
	x, y  float32
	scale float32
}

// recordingContext is a DrawContext that remembers what was drawn.
type recordingContext struct {
	clears int
	shapes []drawnShape
	texts  []drawnText
}

func (r *recordingContext) Clear() { r.clears++ }

func (r *recordingContext) DrawShape(name string, model mgl32.Mat4, color mgl32.Vec4) {
	r.shapes = append(r.shapes, drawnShape{name: name, model: model})
}

func (r *recordingContext) DrawText(text string, x, y, scale float32, color mgl32.Vec3) {
	r.texts = append(r.texts, drawnText{text: text, x: x, y: y, scale: scale})
}

func (r *recordingContext) shapeNames() []string {
	names := make([]string, 0, len(r.shapes))
	for _, s := range r.shapes {
		names = append(names, s.name)
	}
	return names
}

func assertVecInDelta(t *testing.T, want, got mgl32.Vec4) {
	t.Helper()
	for i := range 4 {
		assert.InDelta(t, want[i], got[i], 1e-5, "component %d", i)
	}
}

func TestBaseNodeDefaults(t *testing.T) {
	n := NewBaseNode("", AutoGenTag)

	assert.Equal(t, "NoName", n.Name())
	assert.GreaterOrEqual(t, n.Tag(), 1000000)
	assert.True(t, n.Visible())
	assert.False(t, n.Running())
	assert.False(t, n.Exited())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, n.Scale())
	assert.Equal(t, timing.NormalPriority, n.Priority())
	assert.True(t, n.Transform().ApproxEqual(mgl32.Ident4()))
}

func TestGenTag(t *testing.T) {
	a := GenTag()
	b := GenTag()
	assert.Equal(t, a+1, b)

	n := NewBaseNode("tagged", 7)
	assert.Equal(t, 7, n.Tag())
}

func TestBaseNodeLifecycleFlags(t *testing.T) {
	n := NewBaseNode("life", AutoGenTag)

	n.OnBegin()
	assert.True(t, n.Running())

	n.OnExit()
	assert.False(t, n.Running())
	assert.True(t, n.Exited())

	n.OnBegin()
	assert.True(t, n.Running())
	assert.False(t, n.Exited())
}

func TestBaseNodeTransform(t *testing.T) {
	n := NewBaseNode("xform", AutoGenTag)
	n.SetPosition(10, 20)
	n.SetRotation(math.Pi / 2)
	n.SetScale(2, 2)

	// scale (1,0) -> (2,0), rotate -> (0,2), translate -> (10,22)
	got := n.Transform().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assertVecInDelta(t, mgl32.Vec4{10, 22, 0, 1}, got)

	back := n.InverseTransform().Mul4x1(got)
	assertVecInDelta(t, mgl32.Vec4{1, 0, 0, 1}, back)
}

func TestBaseNodeTransformFollowsChanges(t *testing.T) {
	n := NewBaseNode("move", AutoGenTag)
	n.SetPosition(1, 1)
	_ = n.Transform()

	n.MoveBy(2, 3)
	got := n.Transform().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assertVecInDelta(t, mgl32.Vec4{3, 4, 0, 1}, got)

	n.ScaleBy(1, 1)
	assert.Equal(t, mgl32.Vec3{2, 2, 1}, n.Scale())
}

func TestBaseNodeRotateByWraps(t *testing.T) {
	n := NewBaseNode("spin", AutoGenTag)

	n.RotateBy(-math.Pi / 2)
	assert.InDelta(t, 3*math.Pi/2, n.Rotation(), 1e-5)

	n.RotateBy(math.Pi)
	assert.InDelta(t, math.Pi/2, n.Rotation(), 1e-5)

	n.SetRotationDegrees(180)
	assert.InDelta(t, math.Pi, n.Rotation(), 1e-5)
}

func TestBaseNodeManagedTransform(t *testing.T) {
	n := NewBaseNode("zoom", AutoGenTag)
	n.SetManagedTransform(true)
	zoom := mgl32.Scale3D(3, 3, 1)
	n.SetTransform(zoom)

	n.SetPosition(100, 100)
	assert.Equal(t, zoom, n.Transform(), "managed transforms are not rebuilt")

	n.SetManagedTransform(false)
	got := n.Transform().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assertVecInDelta(t, mgl32.Vec4{100, 100, 0, 1}, got)
}

func TestBaseNodeIntersects(t *testing.T) {
	n := NewBaseNode("box", AutoGenTag)
	n.SetBBox(Rect{Left: 0, Bottom: 0, Width: 1, Height: 1})
	n.SetPosition(5, 5)

	box := n.AABBox()
	assert.InDelta(t, 5, box.Left, 1e-5)
	assert.InDelta(t, 5, box.Bottom, 1e-5)
	assert.InDelta(t, 1, box.Width, 1e-5)

	assert.True(t, n.Intersects(Rect{Left: 5.5, Bottom: 5.5, Width: 1, Height: 1}))
	assert.False(t, n.Intersects(Rect{Left: 10, Bottom: 10, Width: 1, Height: 1}))
	assert.False(t, n.Intersects(Rect{Left: 6, Bottom: 5, Width: 1, Height: 1}), "touching edges")
}

func TestRectContains(t *testing.T) {
	r := Rect{Left: -1, Bottom: -1, Width: 2, Height: 2}
	assert.True(t, r.Contains(0, 0))
	assert.True(t, r.Contains(1, 1))
	assert.False(t, r.Contains(1.5, 0))
}

func TestSceneNodeVisit(t *testing.T) {
	root := NewSceneNode("root")
	root.SetPosition(100, 0)

	a := NewShapeNode("a", "Square", mgl32.Vec4{1, 0, 0, 1})
	b := NewShapeNode("b", "CenteredTriangle", mgl32.Vec4{0, 1, 0, 1})
	hidden := NewShapeNode("hidden", "CenteredSquare", mgl32.Vec4{0, 0, 1, 1})
	hidden.SetVisible(false)
	label := NewTextNode("label", "hello", mgl32.Vec3{1, 1, 1})
	label.SetPosition(10, 20)

	b.SetPosition(0, 50)
	for _, c := range []Node{a, hidden, b, label} {
		require.NoError(t, root.AddChild(c))
	}

	dc := &recordingContext{}
	root.Visit(dc, mgl32.Ident4())

	assert.Equal(t, []string{"Square", "CenteredTriangle"}, dc.shapeNames())
	assertVecInDelta(t, mgl32.Vec4{100, 50, 0, 1}, dc.shapes[1].model.Mul4x1(mgl32.Vec4{0, 0, 0, 1}))

	require.Len(t, dc.texts, 1)
	assert.Equal(t, "hello", dc.texts[0].text)
	assert.InDelta(t, 110, dc.texts[0].x, 1e-5)
	assert.InDelta(t, 20, dc.texts[0].y, 1e-5)
	assert.InDelta(t, 1, dc.texts[0].scale, 1e-5)
}

func TestSceneNodeHiddenSkipsChildren(t *testing.T) {
	root := NewSceneNode("root")
	require.NoError(t, root.AddChild(NewShapeNode("a", "Square", mgl32.Vec4{})))
	root.SetVisible(false)

	dc := &recordingContext{}
	root.Visit(dc, mgl32.Ident4())
	assert.Empty(t, dc.shapes)
}

func TestSceneNodeChildren(t *testing.T) {
	root := NewSceneNode("root")
	a := NewShapeNode("a", "Square", mgl32.Vec4{})
	b := NewTextNode("b", "b", mgl32.Vec3{})

	err := root.AddChild(nil)
	assert.True(t, errors.Is(err, fault.ErrInvalidArgument))

	require.NoError(t, root.AddChild(a))
	require.NoError(t, root.AddChild(b))
	assert.True(t, root.RemoveChild(a))
	assert.False(t, root.RemoveChild(a))
	assert.Equal(t, []Node{b}, root.Children())
}

func TestSceneNodePropagatesHooks(t *testing.T) {
	root := NewSceneNode("root")
	child := NewShapeNode("child", "Square", mgl32.Vec4{})
	nested := NewSceneNode("nested")
	leaf := NewTextNode("leaf", "x", mgl32.Vec3{})
	require.NoError(t, nested.AddChild(leaf))
	require.NoError(t, root.AddChild(child))
	require.NoError(t, root.AddChild(nested))

	root.OnBegin()
	assert.True(t, child.Running())
	assert.True(t, leaf.Running())

	root.OnExit()
	assert.True(t, child.Exited())
	assert.True(t, leaf.Exited())
	assert.False(t, root.Running())
}
