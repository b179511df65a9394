package graphics

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// newAlphaTexture uploads a single channel image to a GL_RED texture and
// leaves it bound to TEXTURE0.
func newAlphaTexture(img *image.Alpha) uint32 {
	size := img.Rect.Size()

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, texture)

	// single channel rows are not 4 byte aligned
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RED,
		int32(size.X),
		int32(size.Y),
		0,
		gl.RED,
		gl.UNSIGNED_BYTE,
		gl.Ptr(img.Pix),
	)

	return texture
}
