package scene

import (
	"fmt"
	"math"

	"ranger/internal/timing"

	"github.com/go-gl/mathgl/mgl32"
)

// BaseNode is the embeddable default Node: a transform, a bounding box and
// lifecycle flags. Its Visit draws nothing.
type BaseNode struct {
	timing.TimingBase

	name    string
	tag     int
	visible bool
	running bool
	exited  bool

	position mgl32.Vec3
	rotation float32 // radians about z
	scale    mgl32.Vec3

	// Nodes that manage their own transform (zoom nodes) set it through
	// SetTransform and are never rebuilt from position/rotation/scale.
	managedTransform bool
	transformDirty   bool
	inverseDirty     bool
	transform        mgl32.Mat4
	inverse          mgl32.Mat4

	bbox Rect
}

// NewBaseNode returns a visible node at the origin with unit scale. An empty
// name becomes "NoName"; AutoGenTag generates a tag.
func NewBaseNode(name string, tag int) BaseNode {
	if name == "" {
		name = "NoName"
	}
	if tag == AutoGenTag {
		tag = GenTag()
	}
	return BaseNode{
		TimingBase:     timing.NewTimingBase(),
		name:           name,
		tag:            tag,
		visible:        true,
		scale:          mgl32.Vec3{1, 1, 1},
		transformDirty: true,
		inverseDirty:   true,
		transform:      mgl32.Ident4(),
		inverse:        mgl32.Ident4(),
	}
}

func (n *BaseNode) Name() string            { return n.name }
func (n *BaseNode) SetName(name string)     { n.name = name }
func (n *BaseNode) Tag() int                { return n.tag }
func (n *BaseNode) SetTag(tag int)          { n.tag = tag }
func (n *BaseNode) Running() bool           { return n.running }
func (n *BaseNode) Exited() bool            { return n.exited }
func (n *BaseNode) Visible() bool           { return n.visible }
func (n *BaseNode) SetVisible(visible bool) { n.visible = visible }

// ##########################################################################
// Lifecycle
// ##########################################################################

// OnBegin marks the node running.
func (n *BaseNode) OnBegin() {
	n.running = true
	n.exited = false
}

func (n *BaseNode) OnEntering()       {}
func (n *BaseNode) OnEnterComplete()  {}
func (n *BaseNode) OnBeginExit()      {}
func (n *BaseNode) OnExitTransition() {}

// OnExit marks the node exited.
func (n *BaseNode) OnExit() {
	n.running = false
	n.exited = true
}

func (n *BaseNode) Clean() {}

func (n *BaseNode) Visit(dc DrawContext, parent mgl32.Mat4) {}

// ##########################################################################
// Transform
// ##########################################################################

func (n *BaseNode) Position() mgl32.Vec3 { return n.position }

func (n *BaseNode) SetPosition(x, y float32) {
	n.position = mgl32.Vec3{x, y, n.position.Z()}
	n.MarkDirty()
}

func (n *BaseNode) MoveBy(dx, dy float32) {
	n.position = n.position.Add(mgl32.Vec3{dx, dy, 0})
	n.MarkDirty()
}

// Rotation returns the rotation about z in radians.
func (n *BaseNode) Rotation() float32 { return n.rotation }

func (n *BaseNode) SetRotation(radians float32) {
	n.rotation = radians
	n.MarkDirty()
}

func (n *BaseNode) SetRotationDegrees(degrees float32) {
	n.SetRotation(mgl32.DegToRad(degrees))
}

// RotateBy adds radians to the rotation, wrapped to [0, 2pi).
func (n *BaseNode) RotateBy(radians float32) {
	r := float32(math.Mod(float64(n.rotation+radians), 2*math.Pi))
	if r < 0 {
		r += 2 * math.Pi
	}
	n.SetRotation(r)
}

func (n *BaseNode) Scale() mgl32.Vec3 { return n.scale }

func (n *BaseNode) SetScale(sx, sy float32) {
	n.scale = mgl32.Vec3{sx, sy, 1}
	n.MarkDirty()
}

func (n *BaseNode) ScaleBy(dx, dy float32) {
	n.SetScale(n.scale.X()+dx, n.scale.Y()+dy)
}

// MarkDirty forces the transform to be rebuilt on next use. Nodes with a
// managed transform ignore it.
func (n *BaseNode) MarkDirty() {
	if n.managedTransform {
		return
	}
	n.transformDirty = true
	n.inverseDirty = true
}

// SetManagedTransform switches the node between a transform built from
// position/rotation/scale and one supplied through SetTransform.
func (n *BaseNode) SetManagedTransform(managed bool) {
	n.managedTransform = managed
	if !managed {
		n.MarkDirty()
	}
}

// SetTransform installs m as the node transform. It only sticks for
// managed nodes; otherwise the next property change rebuilds it.
func (n *BaseNode) SetTransform(m mgl32.Mat4) {
	n.transform = m
	n.transformDirty = false
	n.inverseDirty = true
}

// Transform returns translate * rotateZ * scale, rebuilt lazily.
func (n *BaseNode) Transform() mgl32.Mat4 {
	if n.transformDirty && !n.managedTransform {
		n.transform = mgl32.Translate3D(n.position.X(), n.position.Y(), n.position.Z()).
			Mul4(mgl32.HomogRotate3DZ(n.rotation)).
			Mul4(mgl32.Scale3D(n.scale.X(), n.scale.Y(), n.scale.Z()))
		n.transformDirty = false
		n.inverseDirty = true
	}
	return n.transform
}

func (n *BaseNode) InverseTransform() mgl32.Mat4 {
	m := n.Transform()
	if n.inverseDirty {
		n.inverse = m.Inv()
		n.inverseDirty = false
	}
	return n.inverse
}

// ##########################################################################
// Bounds
// ##########################################################################

// BBox is the bounding box in local space.
func (n *BaseNode) BBox() Rect        { return n.bbox }
func (n *BaseNode) SetBBox(bbox Rect) { n.bbox = bbox }

// AABBox is the local bounding box carried through Transform.
func (n *BaseNode) AABBox() Rect {
	m := n.Transform()
	corners := [4]mgl32.Vec4{
		{n.bbox.Left, n.bbox.Bottom, 0, 1},
		{n.bbox.Right(), n.bbox.Bottom, 0, 1},
		{n.bbox.Right(), n.bbox.Top(), 0, 1},
		{n.bbox.Left, n.bbox.Top(), 0, 1},
	}
	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := -minX, -minY
	for _, c := range corners {
		p := m.Mul4x1(c)
		minX, maxX = min(minX, p.X()), max(maxX, p.X())
		minY, maxY = min(minY, p.Y()), max(maxY, p.Y())
	}
	return Rect{Left: minX, Bottom: minY, Width: maxX - minX, Height: maxY - minY}
}

// Intersects checks r against the node's AABBox.
func (n *BaseNode) Intersects(r Rect) bool {
	return n.AABBox().Intersects(r)
}

func (n *BaseNode) String() string {
	return fmt.Sprintf("|'%s' (%d) {%d}|", n.name, n.tag, n.ID())
}
