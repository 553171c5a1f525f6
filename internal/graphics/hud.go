package graphics

import (
	"image"
	"slices"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// HUD shows a block of text in the top-left corner.
type HUD struct {
	shader  *Shader
	text    *TextRenderer
	vao     uint32
	vbo     uint32
	texture uint32
	w, h    int
	lines   []string
	Visible bool
}

func NewHUD(fontPixels int) (*HUD, error) {
	shader, err := NewShader(hudVertSource, hudFragSource)
	if err != nil {
		return nil, err
	}
	text, err := NewTextRenderer(fontPixels)
	if err != nil {
		shader.Delete()
		return nil, err
	}
	h := &HUD{shader: shader, text: text, Visible: true}

	gl.GenVertexArrays(1, &h.vao)
	gl.GenBuffers(1, &h.vbo)
	gl.BindVertexArray(h.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, h.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 6*4*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
	gl.BindVertexArray(0)
	return h, nil
}

// SetLines re-rasterises the text when it changed.
func (h *HUD) SetLines(lines []string) {
	if slices.Equal(lines, h.lines) {
		return
	}
	h.lines = append(h.lines[:0], lines...)
	img := h.text.Render(lines)
	if h.texture != 0 {
		gl.DeleteTextures(1, &h.texture)
	}
	h.texture = UploadTexture(img, gl.NEAREST)
	h.w, h.h = img.Rect.Dx(), img.Rect.Dy()
	h.upload(image.Rect(8, 8, 8+h.w, 8+h.h))
}

func (h *HUD) upload(r image.Rectangle) {
	x0, y0, x1, y1 := float32(r.Min.X), float32(r.Min.Y), float32(r.Max.X), float32(r.Max.Y)
	quad := []float32{
		x0, y0, 0, 0,
		x1, y0, 1, 0,
		x1, y1, 1, 1,
		x0, y0, 0, 0,
		x1, y1, 1, 1,
		x0, y1, 0, 1,
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, h.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(quad)*4, gl.Ptr(quad))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Render draws the text over the scene. screenW/H are window pixels.
func (h *HUD) Render(screenW, screenH int) {
	if !h.Visible || h.texture == 0 {
		return
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	h.shader.Use()
	h.shader.SetVector2("screen", float32(screenW), float32(screenH))
	h.shader.SetInt("hudTexture", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, h.texture)
	gl.BindVertexArray(h.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)

	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

func (h *HUD) Dispose() {
	if h.texture != 0 {
		gl.DeleteTextures(1, &h.texture)
	}
	gl.DeleteBuffers(1, &h.vbo)
	gl.DeleteVertexArrays(1, &h.vao)
	h.shader.Delete()
	_ = h.text.Close()
}
