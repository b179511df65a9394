package graphics

import (
	"fmt"
	"log"

	"ranger/internal/camera"
	"ranger/internal/config"
	"ranger/internal/shapes"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// RenderContext owns the GL state the scene graph draws through. It
// implements scene.DrawContext.
type RenderContext struct {
	shader *Shader
	vo     *VectorObject
	font   *FontRenderer

	camera   camera.Camera
	view     camera.View
	viewport camera.Viewport

	clearColor mgl32.Vec4
	fontScale  float32
	centered   bool
	virtualW   int
	virtualH   int
	wireframe  bool

	// projection*view, rebuilt on resize
	viewProjection mgl32.Mat4

	missing map[string]bool
}

// NewRenderContext initializes the GL bindings, compiles the built-in
// shaders and uploads the shape atlas. A context must be current.
func NewRenderContext(cfg *config.Configuration, atlas *shapes.Atlas) (*RenderContext, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}

	shader, err := builtinShader(BasicShader)
	if err != nil {
		return nil, err
	}
	vo, err := NewVectorObject(atlas)
	if err != nil {
		shader.Delete()
		return nil, err
	}

	fontAtlas, err := BuildFontAtlas(cfg.Font.Path, cfg.Font.Size, cfg.Font.CharsFromSet)
	if err != nil {
		vo.Delete()
		shader.Delete()
		return nil, err
	}
	fr, err := NewFontRenderer(fontAtlas)
	if err != nil {
		vo.Delete()
		shader.Delete()
		return nil, err
	}

	cc := cfg.Window.ClearColor
	rc := &RenderContext{
		shader:     shader,
		vo:         vo,
		font:       fr,
		clearColor: mgl32.Vec4{cc.R, cc.G, cc.B, cc.A},
		fontScale:  cfg.Font.Scale,
		centered:   cfg.Camera.Centered,
		virtualW:   cfg.Window.VirtualRes.Width,
		virtualH:   cfg.Window.VirtualRes.Height,
		missing:    make(map[string]bool),
	}
	if rc.fontScale <= 0 {
		rc.fontScale = 1
	}

	v := cfg.Camera.View
	rc.view.Initialize(v.X, v.Y, v.Z)
	rc.Resize(cfg.Window.DeviceRes.Width, cfg.Window.DeviceRes.Height)

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)

	return rc, nil
}

// Resize rebuilds the viewport and projection for a framebuffer of the given size.
func (rc *RenderContext) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	rc.viewport.SetDimensions(width, height)
	gl.Viewport(rc.viewport.X, rc.viewport.Y, rc.viewport.Width, rc.viewport.Height)

	ratio := camera.RatioCorrection(width, height, rc.virtualW, rc.virtualH)
	rc.camera.Initialize(ratio, 0, 0, float32(height), float32(width))
	if rc.centered {
		rc.camera.SetCentered()
	}
	rc.viewProjection = camera.ViewProjection(&rc.camera, &rc.view)
}

func (rc *RenderContext) Clear() {
	gl.ClearColor(rc.clearColor.X(), rc.clearColor.Y(), rc.clearColor.Z(), rc.clearColor.W())
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawShape draws a named atlas shape. Unknown names are logged once.
func (rc *RenderContext) DrawShape(name string, model mgl32.Mat4, color mgl32.Vec4) {
	s, ok := rc.vo.Atlas().Shape(name)
	if !ok {
		if !rc.missing[name] {
			log.Printf("RenderContext: no shape named '%s'", name)
			rc.missing[name] = true
		}
		return
	}

	rc.shader.Use()
	rc.shader.SetMatrix4("projection", rc.viewProjection)
	rc.shader.SetMatrix4("model", model)
	rc.shader.SetVector4("color", color)

	if color.W() < 1 {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		defer gl.Disable(gl.BLEND)
	}

	rc.vo.Bind()
	rc.vo.Draw(s)
	rc.vo.Unbind()
}

func (rc *RenderContext) DrawText(text string, x, y, scale float32, color mgl32.Vec3) {
	// glyph quads must stay filled even in wireframe mode
	if rc.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		defer gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
	rc.font.Render(text, x, y, scale*rc.fontScale, color, rc.viewProjection)
}

// MeasureText reports the width and height text takes at scale.
func (rc *RenderContext) MeasureText(text string, scale float32) (float32, float32) {
	return rc.font.Measure(text, scale*rc.fontScale)
}

func (rc *RenderContext) SetPolygonFill(fill bool) {
	rc.wireframe = !fill
	if fill {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
}

func (rc *RenderContext) TogglePolygonFill() { rc.SetPolygonFill(rc.wireframe) }
func (rc *RenderContext) PolygonFill() bool  { return !rc.wireframe }

func (rc *RenderContext) SetClearColor(c mgl32.Vec4) { rc.clearColor = c }

func (rc *RenderContext) Camera() *camera.Camera     { return &rc.camera }
func (rc *RenderContext) Viewport() camera.Viewport  { return rc.viewport }
func (rc *RenderContext) ViewProjection() mgl32.Mat4 { return rc.viewProjection }

func (rc *RenderContext) Delete() {
	rc.font.Delete()
	rc.vo.Delete()
	rc.shader.Delete()
}
