package graphics

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// TextRenderer rasterises short lines of text into RGBA images for the HUD.
type TextRenderer struct {
	face    font.Face
	lineH   int
	ascent  int
	padding int
}

// NewTextRenderer parses the bundled Go Mono font at the given pixel size.
func NewTextRenderer(fontPixels int) (*TextRenderer, error) {
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(fontPixels), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	m := face.Metrics()
	return &TextRenderer{
		face:    face,
		lineH:   m.Height.Ceil(),
		ascent:  m.Ascent.Ceil(),
		padding: 4,
	}, nil
}

// Render draws lines top to bottom on a translucent backdrop sized to fit.
func (t *TextRenderer) Render(lines []string) *image.RGBA {
	width := 0
	for _, l := range lines {
		if w := font.MeasureString(t.face, l).Ceil(); w > width {
			width = w
		}
	}
	w := width + 2*t.padding
	h := len(lines)*t.lineH + 2*t.padding
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{A: 0x90}), image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Src: image.White, Face: t.face}
	for i, l := range lines {
		d.Dot = fixed.P(t.padding, t.padding+t.ascent+i*t.lineH)
		d.DrawString(l)
	}
	return img
}

func (t *TextRenderer) Close() error {
	return t.face.Close()
}
