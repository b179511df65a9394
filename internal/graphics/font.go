package graphics

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"math/bits"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	firstGlyph  = 32
	atlasWidth  = 512
	glyphMargin = 1
)

// FontCharacter describes a single character's placement and metrics within the atlas
type FontCharacter struct {
	// Pixel coordinates of the glyph in the atlas texture (top-left origin)
	AtlasX float32
	AtlasY float32
	// Glyph bitmap size in pixels
	Width  float32
	Height float32
	// Bearing (offset from baseline) in pixels
	BearingX float32
	BearingY float32
	// Advance in pixels
	Advance int
}

// FontAtlasInfo contains the OpenGL texture and per-glyph metadata
type FontAtlasInfo struct {
	TextureID  uint32
	AtlasW     int
	AtlasH     int
	Characters map[rune]FontCharacter
}

// BuildFontAtlas bakes the glyphs firstGlyph..charCount-1 of a font into an
// OpenGL texture. An empty fontPath uses the built-in Go Regular face.
func BuildFontAtlas(fontPath string, fontPixels, charCount int) (*FontAtlasInfo, error) {
	fontBytes := goregular.TTF
	if fontPath != "" {
		b, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		fontBytes = b
	}
	f, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(fontPixels), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer func() { _ = face.Close() }()

	if charCount <= firstGlyph {
		charCount = 128
	}
	runes := make([]rune, 0, charCount-firstGlyph)
	for r := rune(firstGlyph); r < rune(charCount); r++ {
		runes = append(runes, r)
	}

	atlasH := packedHeight(face, runes, fontPixels)
	atlasImg := image.NewAlpha(image.Rect(0, 0, atlasWidth, atlasH))
	characters := make(map[rune]FontCharacter, len(runes))

	offsetX, offsetY, rowHeight := 0, 0, 0
	for _, r := range runes {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok || mask == nil {
			continue
		}
		gw, gh := dr.Dx(), dr.Dy()
		fc := FontCharacter{
			BearingX: float32(dr.Min.X),
			BearingY: float32(-dr.Min.Y),
			Advance:  int(math.Round(float64(advance) / 64.0)),
		}
		if gw == 0 || gh == 0 {
			// space or non-drawable glyph, only the advance matters
			characters[r] = fc
			continue
		}

		if offsetX+gw > atlasWidth {
			offsetX = 0
			offsetY += rowHeight + glyphMargin
			rowHeight = 0
		}

		draw.Draw(atlasImg, image.Rect(offsetX, offsetY, offsetX+gw, offsetY+gh), mask, maskp, draw.Src)

		fc.AtlasX, fc.AtlasY = float32(offsetX), float32(offsetY)
		fc.Width, fc.Height = float32(gw), float32(gh)
		characters[r] = fc

		offsetX += gw + glyphMargin
		rowHeight = max(rowHeight, gh)
	}

	texture := newAlphaTexture(atlasImg)

	return &FontAtlasInfo{TextureID: texture, AtlasW: atlasWidth, AtlasH: atlasH, Characters: characters}, nil
}

// packedHeight runs the row packer without drawing and rounds the height
// up to a power of two.
func packedHeight(face font.Face, runes []rune, fontPixels int) int {
	offsetX, height, rowHeight := 0, 0, 0
	for _, r := range runes {
		dr, mask, _, _, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok || mask == nil || dr.Dx() == 0 {
			continue
		}
		if offsetX+dr.Dx() > atlasWidth {
			offsetX = 0
			height += rowHeight + glyphMargin
			rowHeight = 0
		}
		offsetX += dr.Dx() + glyphMargin
		rowHeight = max(rowHeight, dr.Dy())
	}
	height += max(rowHeight, fontPixels)
	return 1 << bits.Len(uint(height-1))
}

// FontRenderer draws text from a prebuilt atlas. Coordinates are in the
// y-up space of the projection it is given.
type FontRenderer struct {
	atlas  *FontAtlasInfo
	shader *Shader
	vao    uint32
	vbo    uint32
}

func NewFontRenderer(atlas *FontAtlasInfo) (*FontRenderer, error) {
	if atlas == nil || len(atlas.Characters) == 0 {
		return nil, fmt.Errorf("invalid font atlas")
	}
	shader, err := builtinShader(FontShader)
	if err != nil {
		return nil, err
	}
	fr := &FontRenderer{atlas: atlas, shader: shader}
	fr.initGL()
	return fr, nil
}

func (fr *FontRenderer) initGL() {
	const maxCharsCap = 256
	gl.GenVertexArrays(1, &fr.vao)
	gl.GenBuffers(1, &fr.vbo)
	gl.BindVertexArray(fr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, fr.vbo)
	// 6 verts per char, 4 floats per vert
	gl.BufferData(gl.ARRAY_BUFFER, maxCharsCap*6*4*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 4, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// Render draws text with its baseline starting at (x, y).
func (fr *FontRenderer) Render(text string, x, y, scale float32, color mgl32.Vec3, projection mgl32.Mat4) {
	verts := fr.buildVertices([]rune(text), x, y, scale)
	if len(verts) == 0 {
		return
	}

	fr.shader.Use()
	fr.shader.SetVector3("textColor", color)
	fr.shader.SetMatrix4("projection", projection)
	fr.shader.SetInt("text", 0)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, fr.atlas.TextureID)
	gl.BindVertexArray(fr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, fr.vbo)

	// orphan the buffer before refilling it
	size := len(verts) * 4
	gl.BufferData(gl.ARRAY_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, gl.Ptr(verts))
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(verts)/4))

	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
}

// Measure returns the approximate width and height the text occupies at scale.
func (fr *FontRenderer) Measure(text string, scale float32) (float32, float32) {
	var width, maxH float32
	for _, r := range text {
		fc, ok := fr.atlas.Characters[r]
		if !ok {
			width += float32(fr.atlas.Characters[' '].Advance) * scale
			continue
		}
		width += float32(fc.Advance) * scale
		maxH = max(maxH, fc.Height*scale)
	}
	return width, maxH
}

func (fr *FontRenderer) Delete() {
	gl.DeleteBuffers(1, &fr.vbo)
	gl.DeleteVertexArrays(1, &fr.vao)
	gl.DeleteTextures(1, &fr.atlas.TextureID)
	fr.shader.Delete()
}

func (fr *FontRenderer) buildVertices(chars []rune, x, y, scale float32) []float32 {
	vertices := make([]float32, 0, len(chars)*6*4)
	for _, r := range chars {
		fc, ok := fr.atlas.Characters[r]
		if !ok {
			x += float32(fr.atlas.Characters[' '].Advance) * scale
			continue
		}
		if fc.Width > 0 {
			vertices = append(vertices, fr.buildCharVertices(fc, x, y, scale)...)
		}
		x += float32(fc.Advance) * scale
	}
	return vertices
}

func (fr *FontRenderer) buildCharVertices(fc FontCharacter, x, y, scale float32) []float32 {
	// y grows upwards: the glyph top sits BearingY above the baseline
	left := x + fc.BearingX*scale
	top := y + fc.BearingY*scale
	right := left + fc.Width*scale
	bottom := top - fc.Height*scale

	u0 := fc.AtlasX / float32(fr.atlas.AtlasW)
	v0 := fc.AtlasY / float32(fr.atlas.AtlasH)
	u1 := u0 + fc.Width/float32(fr.atlas.AtlasW)
	v1 := v0 + fc.Height/float32(fr.atlas.AtlasH)

	return []float32{
		left, bottom, u0, v1,
		left, top, u0, v0,
		right, top, u1, v0,

		left, bottom, u0, v1,
		right, top, u1, v0,
		right, bottom, u1, v1,
	}
}
