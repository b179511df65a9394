// Package camera builds the projection and view matrices of the 2D stage.
package camera

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	nearPlane = 0.1
	farPlane  = 100.0
)

// Camera is an orthographic projection over the device surface.
type Camera struct {
	Bottom, Left, Top, Right float32
	Width, Height            float32

	ratioCorrection float32
	matrix          mgl32.Mat4
}

// Initialize sets the bounds and builds a projection with the origin at the
// bottom-left corner.
func (c *Camera) Initialize(ratioCorrection, bottom, left, top, right float32) {
	if ratioCorrection <= 0 {
		ratioCorrection = 1
	}
	c.ratioCorrection = ratioCorrection
	c.Bottom, c.Left, c.Top, c.Right = bottom, left, top, right
	c.Width = right - left
	c.Height = top - bottom

	c.matrix = mgl32.Ortho(0, c.Width, 0, c.Height, nearPlane, farPlane)
}

// SetCentered moves the origin to the middle of the surface. The bounds are
// divided by the ratio correction so virtual units map onto device pixels.
func (c *Camera) SetCentered() {
	halfW := c.Width / 2 / c.ratioCorrection
	halfH := c.Height / 2 / c.ratioCorrection

	c.matrix = mgl32.Ortho(-halfW, halfW, -halfH, halfH, nearPlane, farPlane)
}

func (c *Camera) Matrix() mgl32.Mat4       { return c.matrix }
func (c *Camera) RatioCorrection() float32 { return c.ratioCorrection }

func (c *Camera) String() string {
	return fmt.Sprintf("Camera: (%g, %g) -> (%g, %g), ratio= %g", c.Left, c.Bottom, c.Right, c.Top, c.ratioCorrection)
}

// View is the camera placement, a plain translation.
type View struct {
	XOffset, YOffset, ZOffset float32
	matrix                    mgl32.Mat4
}

func (v *View) Initialize(x, y, z float32) {
	v.XOffset, v.YOffset, v.ZOffset = x, y, z
	v.matrix = mgl32.Translate3D(x, y, z)
}

func (v *View) Matrix() mgl32.Mat4 { return v.matrix }

// Viewport is the device area rendered to.
type Viewport struct {
	X, Y          int32
	Width, Height int32
}

// SetDimensions covers the whole device surface.
func (v *Viewport) SetDimensions(width, height int) {
	v.X, v.Y = 0, 0
	v.Width, v.Height = int32(width), int32(height)
}

// RatioCorrection is the factor that fits the virtual resolution inside the
// device resolution without distortion. Unset virtual dimensions yield 1.
func RatioCorrection(deviceW, deviceH, virtualW, virtualH int) float32 {
	if virtualW <= 0 || virtualH <= 0 || deviceW <= 0 || deviceH <= 0 {
		return 1
	}
	rw := float32(deviceW) / float32(virtualW)
	rh := float32(deviceH) / float32(virtualH)
	return min(rw, rh)
}

// ViewProjection combines the camera projection and the view.
func ViewProjection(c *Camera, v *View) mgl32.Mat4 {
	return c.Matrix().Mul4(v.Matrix())
}
